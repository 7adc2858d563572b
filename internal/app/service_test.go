package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"shortsup/internal/auth"
	"shortsup/internal/metadata"
	"shortsup/internal/upload"
	"shortsup/pkg/config"
)

type stuckPrompter struct {
	err error
}

func (p *stuckPrompter) Prompt(authURL string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "code", nil
}

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			BatchSize:   2,
			MaxDuration: 60,
			Extensions:  []string{".mp4"},
		},
	}
}

func testService(t *testing.T, uploader upload.Uploader) *Service {
	t.Helper()
	tmp := t.TempDir()

	manager, err := auth.NewManager(auth.Options{
		ClientID:        "id",
		ClientSecret:    "secret",
		TokenPath:       filepath.Join(tmp, "token.json"),
		LegacyTokenPath: filepath.Join(tmp, "token.txt"),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Pre-seed a cached token so Run never prompts.
	data, _ := json.Marshal(&oauth2.Token{AccessToken: "cached"})
	_ = os.WriteFile(filepath.Join(tmp, "token.json"), data, 0600)

	return &Service{
		cfg:       testConfig(),
		auth:      manager,
		validator: &fakeValidator{},
		resolver:  &fakeResolver{md: metadata.Metadata{Title: "Clip #shorts"}},
		uploaderFor: func(ctx context.Context) (upload.Uploader, error) {
			return uploader, nil
		},
	}
}

func writeVideos(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunSingleFile(t *testing.T) {
	uploader := &fakeUploader{resp: &upload.Response{ID: "vid-1"}}
	service := testService(t, uploader)

	dir := writeVideos(t, "clip.mp4")
	summary, err := service.Run(context.Background(), RunOptions{
		Path: filepath.Join(dir, "clip.mp4"),
		Confirm: func(items []string) (bool, error) {
			t.Error("confirmation must not run for a single file")
			return true, nil
		},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Uploaded != 1 || summary.Failed != 0 {
		t.Errorf("summary = %d uploaded / %d failed, want 1/0", summary.Uploaded, summary.Failed)
	}
	if uploader.calls != 1 {
		t.Errorf("uploader calls = %d, want 1", uploader.calls)
	}
}

func TestRunDirectory(t *testing.T) {
	uploader := &fakeUploader{resp: &upload.Response{ID: "vid"}}
	service := testService(t, uploader)

	dir := writeVideos(t, "a.mp4", "b.mp4", "c.mp4")

	var confirmed []string
	summary, err := service.Run(context.Background(), RunOptions{
		Path: dir,
		Confirm: func(items []string) (bool, error) {
			confirmed = items
			return true, nil
		},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(confirmed) != 3 {
		t.Errorf("confirmation saw %d items, want 3", len(confirmed))
	}
	if summary.Uploaded != 3 {
		t.Errorf("Uploaded = %d, want 3", summary.Uploaded)
	}
	if len(summary.Outcomes) != 3 {
		t.Errorf("Outcomes = %d, want 3", len(summary.Outcomes))
	}
}

func TestRunDeclinedConfirmation(t *testing.T) {
	uploader := &fakeUploader{resp: &upload.Response{ID: "vid"}}
	service := testService(t, uploader)

	dir := writeVideos(t, "a.mp4")
	summary, err := service.Run(context.Background(), RunOptions{
		Path: dir,
		Confirm: func(items []string) (bool, error) {
			return false, nil
		},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if uploader.calls != 0 {
		t.Errorf("uploader calls = %d after declined confirmation, want 0", uploader.calls)
	}
	if summary.Uploaded != 0 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}
}

func TestRunAuthorizationFailureIsFatal(t *testing.T) {
	tmp := t.TempDir()
	manager, err := auth.NewManager(auth.Options{
		ClientID:        "id",
		ClientSecret:    "secret",
		TokenPath:       filepath.Join(tmp, "token.json"),
		LegacyTokenPath: filepath.Join(tmp, "token.txt"),
	})
	if err != nil {
		t.Fatal(err)
	}

	uploader := &fakeUploader{}
	service := &Service{
		cfg:       testConfig(),
		auth:      manager,
		validator: &fakeValidator{},
		resolver:  &fakeResolver{},
		uploaderFor: func(ctx context.Context) (upload.Uploader, error) {
			return uploader, nil
		},
	}

	// No cached token anywhere, so Run has to prompt; fail the prompt.
	_, err = service.Run(context.Background(), RunOptions{
		Prompter: &stuckPrompter{err: errors.New("operator walked away")},
	})
	if err == nil {
		t.Fatal("Run() error = nil, want authorization failure")
	}
	if uploader.calls != 0 {
		t.Errorf("uploader calls = %d after auth failure, want 0", uploader.calls)
	}
}

func TestRunMissingPath(t *testing.T) {
	service := testService(t, &fakeUploader{})
	_, err := service.Run(context.Background(), RunOptions{
		Path: filepath.Join(t.TempDir(), "missing"),
	})
	if err == nil {
		t.Error("Run() error = nil for missing path")
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Path: "a", VideoID: "1"},
		{Path: "b", Err: errors.New("failed")},
		{Path: "c", VideoID: "3"},
	}

	summary := summarize(outcomes)
	if summary.Uploaded != 2 {
		t.Errorf("Uploaded = %d, want 2", summary.Uploaded)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
}
