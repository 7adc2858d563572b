package validate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeProber struct {
	duration float64
	err      error
	calls    int
}

func (p *fakeProber) Duration(ctx context.Context, path string) (float64, error) {
	p.calls++
	return p.duration, p.err
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("fake video"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateOK(t *testing.T) {
	path := writeVideo(t)
	v := New(&fakeProber{duration: 42}, 60)

	if err := v.Validate(context.Background(), path); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateMissingFile(t *testing.T) {
	prober := &fakeProber{duration: 10}
	v := New(prober, 60)

	err := v.Validate(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Validate() error = %v, want NotFoundError", err)
	}
	if prober.calls != 0 {
		t.Errorf("prober called %d times for a missing file, want 0", prober.calls)
	}
}

func TestValidateDurationExceeded(t *testing.T) {
	path := writeVideo(t)
	v := New(&fakeProber{duration: 61.5}, 60)

	err := v.Validate(context.Background(), path)

	var exceeded *DurationExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("Validate() error = %v, want DurationExceededError", err)
	}
	if exceeded.Duration != 61.5 {
		t.Errorf("Duration = %v, want 61.5", exceeded.Duration)
	}
	if exceeded.Limit != 60 {
		t.Errorf("Limit = %v, want 60", exceeded.Limit)
	}
}

func TestValidateExactLimit(t *testing.T) {
	path := writeVideo(t)
	v := New(&fakeProber{duration: 60}, 60)

	if err := v.Validate(context.Background(), path); err != nil {
		t.Errorf("Validate() error = %v for duration at the limit, want nil", err)
	}
}

func TestValidateProbeFailure(t *testing.T) {
	path := writeVideo(t)
	probeErr := errors.New("unreadable container")
	v := New(&fakeProber{err: probeErr}, 60)

	err := v.Validate(context.Background(), path)
	if err == nil {
		t.Fatal("Validate() error = nil, want probe failure")
	}
	if !errors.Is(err, probeErr) {
		t.Errorf("Validate() error = %v, want wrapped probe error", err)
	}
}
