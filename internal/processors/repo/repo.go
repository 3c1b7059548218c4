package repoprocessor

import (
	"context"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
	"github.com/hostwise/hostwise/internal/processors"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

// Settings is the opaque payload a repo unit carries.
type Settings struct {
	URL         string `yaml:"url"`
	Destination string `yaml:"destination"`
	Branch      string `yaml:"branch"`
	Depth       int    `yaml:"depth"`
}

type processor struct {
	unitID   string
	settings Settings
}

// Factory builds git repository unit processors.
type Factory struct{}

// NewFactory creates the factory registered under the "repo" type.
func NewFactory() Factory {
	return Factory{}
}

// Type implements processors.Factory.
func (Factory) Type() string {
	return "repo"
}

// Create implements processors.Factory.
func (Factory) Create(_ context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error) {
	var settings Settings
	if err := processors.DecodeSettings(unit.Settings, &settings); err != nil {
		return nil, hosterrors.NewUnitError(unit.Identifier, model.Unexpected, model.SourceUnitProcessing, err)
	}

	if settings.URL == "" || settings.Destination == "" {
		err := fmt.Errorf("repo unit needs url and destination")
		return nil, hosterrors.NewUnitError(unit.Identifier, model.Unexpected, model.SourceUnitProcessing, err)
	}

	return &processor{unitID: unit.Identifier, settings: settings}, nil
}

var _ ports.UnitProcessor = (*processor)(nil)

func (p *processor) TestSettings(_ context.Context) (*model.TestSettingsResult, error) {
	if _, err := os.Stat(p.settings.Destination); err != nil {
		if os.IsNotExist(err) {
			return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
		}
		return failedTest(err), nil
	}

	repo, err := git.PlainOpen(p.settings.Destination)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			// Directory exists but holds no repository; apply will surface
			// the conflict.
			return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
		}
		return failedTest(err), nil
	}

	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
	}

	if remote.Config().URLs[0] != p.settings.URL {
		return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
	}
	return &model.TestSettingsResult{Result: model.TestResultPositive}, nil
}

func (p *processor) GetSettings(_ context.Context) (*model.GetSettingsResult, error) {
	repo, err := git.PlainOpen(p.settings.Destination)
	if err != nil {
		return &model.GetSettingsResult{
			ResultInformation: model.ResultInformation{
				Code:    model.Unexpected,
				Source:  model.SourceSystemState,
				Details: err.Error(),
			},
		}, nil
	}

	settings := map[string]any{"destination": p.settings.Destination}
	if head, err := repo.Head(); err == nil {
		settings["head"] = head.Name().Short()
	}
	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil && len(remote.Config().URLs) > 0 {
		settings["url"] = remote.Config().URLs[0]
	}

	return &model.GetSettingsResult{Settings: settings}, nil
}

func (p *processor) ApplySettings(ctx context.Context) (*model.ApplySettingsResult, error) {
	options := &git.CloneOptions{URL: p.settings.URL}
	if p.settings.Depth > 0 {
		options.Depth = p.settings.Depth
	}
	if p.settings.Branch != "" {
		options.ReferenceName = plumbing.NewBranchReferenceName(p.settings.Branch)
		options.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, p.settings.Destination, false, options); err != nil {
		return &model.ApplySettingsResult{
			ResultInformation: model.ResultInformation{
				Code:    model.Unexpected,
				Source:  model.SourceSystemState,
				Details: err.Error(),
			},
		}, nil
	}

	return &model.ApplySettingsResult{}, nil
}

func failedTest(err error) *model.TestSettingsResult {
	return &model.TestSettingsResult{
		Result: model.TestResultFailed,
		ResultInformation: model.ResultInformation{
			Code:    model.Unexpected,
			Source:  model.SourceSystemState,
			Details: err.Error(),
		},
	}
}
