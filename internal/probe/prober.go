package probe

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const defaultBinary = "ffprobe"

// FFprobe reads container duration via the ffprobe binary.
type FFprobe struct {
	binary string
}

func New() *FFprobe {
	return &FFprobe{binary: defaultBinary}
}

// Duration returns the container duration of path in seconds.
func (p *FFprobe) Duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, p.binary, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return parseDuration(output)
}

func parseDuration(output []byte) (float64, error) {
	raw := strings.TrimSpace(string(output))
	dur, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	return dur, nil
}
