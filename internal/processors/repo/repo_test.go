package repoprocessor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/hostwise/hostwise/internal/model"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

func newProcessor(t *testing.T, settings map[string]any) *processor {
	t.Helper()

	unit := &model.ConfigurationUnit{Identifier: "r", Type: "repo", Settings: settings}
	created, err := NewFactory().Create(context.Background(), unit)
	require.NoError(t, err)
	return created.(*processor)
}

func initRepo(t *testing.T, dir, remoteURL string) {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{remoteURL},
	})
	require.NoError(t, err)
}

func TestCreateRequiresURLAndDestination(t *testing.T) {
	unit := &model.ConfigurationUnit{Identifier: "r", Type: "repo", Settings: map[string]any{"url": "https://example.com/x.git"}}
	_, err := NewFactory().Create(context.Background(), unit)

	var unitErr *hosterrors.UnitError
	require.ErrorAs(t, err, &unitErr)
}

func TestTestSettingsNegativeWhenDestinationMissing(t *testing.T) {
	p := newProcessor(t, map[string]any{
		"url":         "https://example.com/x.git",
		"destination": filepath.Join(t.TempDir(), "clone"),
	})

	result, err := p.TestSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.TestResultNegative, result.Result)
}

func TestTestSettingsNegativeWhenDirectoryIsNotARepo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))

	p := newProcessor(t, map[string]any{
		"url":         "https://example.com/x.git",
		"destination": dir,
	})

	result, err := p.TestSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.TestResultNegative, result.Result)
}

func TestTestSettingsPositiveWhenRemoteMatches(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, "https://example.com/x.git")

	p := newProcessor(t, map[string]any{
		"url":         "https://example.com/x.git",
		"destination": dir,
	})

	result, err := p.TestSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.TestResultPositive, result.Result)
}

func TestTestSettingsNegativeWhenRemoteDiffers(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, "https://example.com/other.git")

	p := newProcessor(t, map[string]any{
		"url":         "https://example.com/x.git",
		"destination": dir,
	})

	result, err := p.TestSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.TestResultNegative, result.Result)
}

func TestGetSettingsReportsRemote(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, "https://example.com/x.git")

	p := newProcessor(t, map[string]any{
		"url":         "https://example.com/x.git",
		"destination": dir,
	})

	result, err := p.GetSettings(context.Background())
	require.NoError(t, err)
	require.True(t, result.ResultInformation.Code.Succeeded())
	require.Equal(t, "https://example.com/x.git", result.Settings["url"])
}

func TestGetSettingsFailsWithoutRepository(t *testing.T) {
	p := newProcessor(t, map[string]any{
		"url":         "https://example.com/x.git",
		"destination": filepath.Join(t.TempDir(), "gone"),
	})

	result, err := p.GetSettings(context.Background())
	require.NoError(t, err)
	require.False(t, result.ResultInformation.Code.Succeeded())
}

func TestApplySettingsClonesFromLocalSource(t *testing.T) {
	source := t.TempDir()
	sourceRepo, err := git.PlainInit(source, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(source, "README"), []byte("seed"), 0o644))
	tree, err := sourceRepo.Worktree()
	require.NoError(t, err)
	_, err = tree.Add("README")
	require.NoError(t, err)
	_, err = tree.Commit("seed", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	destination := filepath.Join(t.TempDir(), "clone")
	p := newProcessor(t, map[string]any{
		"url":         source,
		"destination": destination,
	})

	result, err := p.ApplySettings(context.Background())
	require.NoError(t, err)
	require.True(t, result.ResultInformation.Code.Succeeded())
	require.False(t, result.RebootRequired)
	require.FileExists(t, filepath.Join(destination, "README"))
}

func TestApplySettingsFailureCarriesDetails(t *testing.T) {
	p := newProcessor(t, map[string]any{
		"url":         filepath.Join(t.TempDir(), "no-such-source"),
		"destination": filepath.Join(t.TempDir(), "clone"),
	})

	result, err := p.ApplySettings(context.Background())
	require.NoError(t, err)
	require.False(t, result.ResultInformation.Code.Succeeded())
	require.NotEmpty(t, result.ResultInformation.Details)
}
