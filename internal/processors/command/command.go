package commandprocessor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
	"github.com/hostwise/hostwise/internal/processors"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

// Settings is the opaque payload a command unit carries.
type Settings struct {
	// Test is run to decide whether the host satisfies the unit: exit 0 is
	// positive, any other exit code negative.
	Test string `yaml:"test"`
	// Get is run by inform units to materialize state; defaults to Test.
	Get string `yaml:"get"`
	// Apply drives the host into the desired state.
	Apply string `yaml:"apply"`

	Shell          string            `yaml:"shell"`
	WorkDir        string            `yaml:"workdir"`
	Env            map[string]string `yaml:"env"`
	RebootRequired bool              `yaml:"reboot_required"`
}

type processor struct {
	unitID   string
	settings Settings
}

// Factory builds command unit processors.
type Factory struct{}

// NewFactory creates the factory registered under the "command" type.
func NewFactory() Factory {
	return Factory{}
}

// Type implements processors.Factory.
func (Factory) Type() string {
	return "command"
}

// Create implements processors.Factory.
func (Factory) Create(_ context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error) {
	var settings Settings
	if err := processors.DecodeSettings(unit.Settings, &settings); err != nil {
		return nil, hosterrors.NewUnitError(unit.Identifier, model.Unexpected, model.SourceUnitProcessing, err)
	}

	if strings.TrimSpace(settings.Test) == "" && strings.TrimSpace(settings.Apply) == "" && strings.TrimSpace(settings.Get) == "" {
		err := fmt.Errorf("command unit needs at least one of test, get, or apply")
		return nil, hosterrors.NewUnitError(unit.Identifier, model.Unexpected, model.SourceUnitProcessing, err)
	}

	return &processor{unitID: unit.Identifier, settings: settings}, nil
}

var _ ports.UnitProcessor = (*processor)(nil)

func (p *processor) TestSettings(ctx context.Context) (*model.TestSettingsResult, error) {
	if strings.TrimSpace(p.settings.Test) == "" {
		// Without a test command the unit is always considered out of state.
		return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
	}

	_, err := p.run(ctx, p.settings.Test)
	if err == nil {
		return &model.TestSettingsResult{Result: model.TestResultPositive}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
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

func (p *processor) GetSettings(ctx context.Context) (*model.GetSettingsResult, error) {
	command := p.settings.Get
	if strings.TrimSpace(command) == "" {
		command = p.settings.Test
	}
	if strings.TrimSpace(command) == "" {
		err := fmt.Errorf("command unit has no get or test command")
		return nil, hosterrors.NewUnitError(p.unitID, model.Unexpected, model.SourceUnitProcessing, err)
	}

	output, err := p.run(ctx, command)
	if err != nil {
		return &model.GetSettingsResult{
			ResultInformation: model.ResultInformation{
				Code:    model.Unexpected,
				Source:  model.SourceSystemState,
				Details: strings.TrimSpace(output + "\n" + err.Error()),
			},
		}, nil
	}

	return &model.GetSettingsResult{
		Settings: map[string]any{"output": output},
	}, nil
}

func (p *processor) ApplySettings(ctx context.Context) (*model.ApplySettingsResult, error) {
	if strings.TrimSpace(p.settings.Apply) == "" {
		err := fmt.Errorf("command unit has no apply command")
		return nil, hosterrors.NewUnitError(p.unitID, model.Unexpected, model.SourceUnitProcessing, err)
	}

	output, err := p.run(ctx, p.settings.Apply)
	if err != nil {
		return &model.ApplySettingsResult{
			ResultInformation: model.ResultInformation{
				Code:    model.Unexpected,
				Source:  model.SourceSystemState,
				Details: strings.TrimSpace(output + "\n" + err.Error()),
			},
		}, nil
	}

	return &model.ApplySettingsResult{RebootRequired: p.settings.RebootRequired}, nil
}

func (p *processor) run(ctx context.Context, script string) (string, error) {
	shell, flag, err := shellInvocation(p.settings.Shell)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, shell, flag, script)
	cmd.Env = environment(p.settings.Env)
	if p.settings.WorkDir != "" {
		cmd.Dir = p.settings.WorkDir
	}

	output, err := cmd.CombinedOutput()
	return string(output), err
}

// shellInvocation resolves the interpreter and its script flag for running a
// one-line script.
func shellInvocation(explicit string) (string, string, error) {
	if explicit != "" {
		return explicit, "-c", nil
	}

	if runtime.GOOS == "windows" {
		return "cmd", "/C", nil
	}

	for _, candidate := range []string{"bash", "sh"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, "-c", nil
		}
	}

	return "", "", fmt.Errorf("no usable shell on PATH")
}

// environment merges the unit's env overlay onto the inherited environment.
// With no overlay the child inherits the parent environment untouched.
func environment(overlay map[string]string) []string {
	if len(overlay) == 0 {
		return nil
	}

	keys := make([]string, 0, len(overlay))
	for key := range overlay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, key := range keys {
		env = append(env, key+"="+overlay[key])
	}
	return env
}
