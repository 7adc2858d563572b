package validate

import (
	"context"
	"fmt"
	"os"
)

// Prober reports a video's duration in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("video not found: %s", e.Path)
}

type DurationExceededError struct {
	Path     string
	Duration float64
	Limit    float64
}

func (e *DurationExceededError) Error() string {
	return fmt.Sprintf("video %s is %.1fs, exceeds the %.0fs limit", e.Path, e.Duration, e.Limit)
}

// Validator checks a candidate file against the platform's upload
// preconditions.
type Validator struct {
	prober Prober
	limit  float64
}

func New(prober Prober, limit float64) *Validator {
	return &Validator{prober: prober, limit: limit}
}

func (v *Validator) Validate(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &NotFoundError{Path: path}
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return &NotFoundError{Path: path}
	}

	duration, err := v.prober.Duration(ctx, path)
	if err != nil {
		return fmt.Errorf("probe duration: %w", err)
	}

	if duration > v.limit {
		return &DurationExceededError{Path: path, Duration: duration, Limit: v.limit}
	}

	return nil
}
