package fileprocessor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
	"github.com/hostwise/hostwise/internal/processors"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

// Settings is the opaque payload a file unit carries.
type Settings struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
	// CreateDirs creates missing parent directories on apply.
	CreateDirs bool `yaml:"create_dirs"`
}

type processor struct {
	unitID   string
	settings Settings
}

// Factory builds file unit processors.
type Factory struct{}

// NewFactory creates the factory registered under the "file" type.
func NewFactory() Factory {
	return Factory{}
}

// Type implements processors.Factory.
func (Factory) Type() string {
	return "file"
}

// Create implements processors.Factory.
func (Factory) Create(_ context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error) {
	var settings Settings
	if err := processors.DecodeSettings(unit.Settings, &settings); err != nil {
		return nil, hosterrors.NewUnitError(unit.Identifier, model.Unexpected, model.SourceUnitProcessing, err)
	}

	if settings.Path == "" {
		err := fmt.Errorf("file unit needs a path")
		return nil, hosterrors.NewUnitError(unit.Identifier, model.Unexpected, model.SourceUnitProcessing, err)
	}

	return &processor{unitID: unit.Identifier, settings: settings}, nil
}

var _ ports.UnitProcessor = (*processor)(nil)

func (p *processor) TestSettings(_ context.Context) (*model.TestSettingsResult, error) {
	current, err := os.ReadFile(p.settings.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
		}
		return &model.TestSettingsResult{
			Result: model.TestResultFailed,
			ResultInformation: model.ResultInformation{
				Code:    model.Unexpected,
				Source:  model.SourceSystemState,
				Details: err.Error(),
			},
		}, nil
	}

	if bytes.Equal(current, []byte(p.settings.Content)) {
		return &model.TestSettingsResult{Result: model.TestResultPositive}, nil
	}
	return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
}

func (p *processor) GetSettings(_ context.Context) (*model.GetSettingsResult, error) {
	current, err := os.ReadFile(p.settings.Path)
	if err != nil {
		return &model.GetSettingsResult{
			ResultInformation: model.ResultInformation{
				Code:    model.Unexpected,
				Source:  model.SourceSystemState,
				Details: err.Error(),
			},
		}, nil
	}

	return &model.GetSettingsResult{
		Settings: map[string]any{
			"path":    p.settings.Path,
			"content": string(current),
		},
	}, nil
}

func (p *processor) ApplySettings(_ context.Context) (*model.ApplySettingsResult, error) {
	if p.settings.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(p.settings.Path), 0o755); err != nil {
			return &model.ApplySettingsResult{
				ResultInformation: model.ResultInformation{
					Code:    model.Unexpected,
					Source:  model.SourceSystemState,
					Details: err.Error(),
				},
			}, nil
		}
	}

	if err := os.WriteFile(p.settings.Path, []byte(p.settings.Content), 0o644); err != nil {
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
