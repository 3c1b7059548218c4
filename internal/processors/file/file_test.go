package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostwise/hostwise/internal/model"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

func newProcessor(t *testing.T, settings map[string]any) *processor {
	t.Helper()

	unit := &model.ConfigurationUnit{Identifier: "f", Type: "file", Settings: settings}
	created, err := NewFactory().Create(context.Background(), unit)
	require.NoError(t, err)
	return created.(*processor)
}

func TestCreateRequiresPath(t *testing.T) {
	unit := &model.ConfigurationUnit{Identifier: "f", Type: "file", Settings: map[string]any{"content": "x"}}
	_, err := NewFactory().Create(context.Background(), unit)

	var unitErr *hosterrors.UnitError
	require.ErrorAs(t, err, &unitErr)
}

func TestTestSettingsNegativeWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motd")
	p := newProcessor(t, map[string]any{"path": path, "content": "hello"})

	result, err := p.TestSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.TestResultNegative, result.Result)
}

func TestTestSettingsPositiveWhenContentMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	p := newProcessor(t, map[string]any{"path": path, "content": "hello"})

	result, err := p.TestSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.TestResultPositive, result.Result)
}

func TestTestSettingsNegativeWhenContentDiffers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	p := newProcessor(t, map[string]any{"path": path, "content": "hello"})

	result, err := p.TestSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.TestResultNegative, result.Result)
}

func TestGetSettingsReturnsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motd")
	require.NoError(t, os.WriteFile(path, []byte("current"), 0o644))

	p := newProcessor(t, map[string]any{"path": path, "content": "desired"})

	result, err := p.GetSettings(context.Background())
	require.NoError(t, err)
	require.True(t, result.ResultInformation.Code.Succeeded())
	require.Equal(t, "current", result.Settings["content"])
}

func TestGetSettingsMissingFileFails(t *testing.T) {
	p := newProcessor(t, map[string]any{"path": filepath.Join(t.TempDir(), "gone"), "content": "x"})

	result, err := p.GetSettings(context.Background())
	require.NoError(t, err)
	require.False(t, result.ResultInformation.Code.Succeeded())
	require.Equal(t, model.SourceSystemState, result.ResultInformation.Source)
}

func TestApplySettingsWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motd")
	p := newProcessor(t, map[string]any{"path": path, "content": "hello"})

	result, err := p.ApplySettings(context.Background())
	require.NoError(t, err)
	require.True(t, result.ResultInformation.Code.Succeeded())

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(written))
}

func TestApplySettingsCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "motd")
	p := newProcessor(t, map[string]any{"path": path, "content": "hi", "create_dirs": true})

	result, err := p.ApplySettings(context.Background())
	require.NoError(t, err)
	require.True(t, result.ResultInformation.Code.Succeeded())
	require.FileExists(t, path)
}

func TestApplySettingsFailsWithoutParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "motd")
	p := newProcessor(t, map[string]any{"path": path, "content": "hi"})

	result, err := p.ApplySettings(context.Background())
	require.NoError(t, err)
	require.False(t, result.ResultInformation.Code.Succeeded())
}
