package metadata

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const shortsTag = "#shorts"

// Metadata is the publish payload for one video.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
	MadeForKids bool
}

type Options struct {
	// GlobalPath is a metadata file shared by every video in the run.
	GlobalPath string
	// SidecarName is the per-directory metadata file name.
	SidecarName string
	DefaultTags []string
	CategoryID  string
	Privacy     string
}

// Resolver derives publish metadata from sidecar text files layered over
// defaults. Resolve never fails: unreadable or malformed sources degrade
// to defaults with a logged warning.
type Resolver struct {
	opts Options
}

func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

func (r *Resolver) Resolve(videoPath string) Metadata {
	md := r.defaults(videoPath)

	if source, ok := r.findSource(videoPath); ok {
		data, err := os.ReadFile(source)
		if err != nil {
			slog.Warn("Failed to read metadata file, using defaults", "path", source, "error", err)
		} else {
			applyPairs(&md, string(data))
		}
	}

	md.Title = EnsureShortsTag(md.Title)
	return md
}

func (r *Resolver) defaults(videoPath string) Metadata {
	base := filepath.Base(videoPath)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	return Metadata{
		Title:      title,
		Tags:       append([]string(nil), r.opts.DefaultTags...),
		CategoryID: r.opts.CategoryID,
		Privacy:    r.opts.Privacy,
	}
}

// findSource returns the first existing metadata file in priority order:
// the global file, the video directory's sidecar, then a sidecar named
// after the video itself.
func (r *Resolver) findSource(videoPath string) (string, bool) {
	dir := filepath.Dir(videoPath)
	base := filepath.Base(videoPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	candidates := []string{
		r.opts.GlobalPath,
		filepath.Join(dir, r.opts.SidecarName),
		filepath.Join(dir, name+".txt"),
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	return "", false
}

func applyPairs(md *Metadata, content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch key {
		case "title":
			md.Title = value
		case "description":
			md.Description = value
		case "tags":
			md.Tags = splitTags(value)
		case "category":
			md.CategoryID = value
		case "privacy":
			md.Privacy = strings.ToLower(value)
		case "made for kids":
			md.MadeForKids = strings.EqualFold(value, "true")
		}
	}
}

func splitTags(value string) []string {
	var tags []string
	for _, tag := range strings.Split(value, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// EnsureShortsTag appends the Shorts marker unless the title already
// carries one. Idempotent.
func EnsureShortsTag(title string) string {
	if strings.Contains(strings.ToLower(title), "#short") {
		return title
	}
	return title + " " + shortsTag
}
