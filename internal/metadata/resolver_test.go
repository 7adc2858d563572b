package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testOptions() Options {
	return Options{
		SidecarName: "metadata.txt",
		DefaultTags: []string{"shorts"},
		CategoryID:  "22",
		Privacy:     "private",
	}
}

func TestResolveDefaults(t *testing.T) {
	tmp := t.TempDir()
	videoPath := filepath.Join(tmp, "my_clip.mp4")

	r := NewResolver(testOptions())
	md := r.Resolve(videoPath)

	if md.Title != "my_clip #shorts" {
		t.Errorf("Title = %q, want %q", md.Title, "my_clip #shorts")
	}
	if md.Description != "" {
		t.Errorf("Description = %q, want empty", md.Description)
	}
	if md.CategoryID != "22" {
		t.Errorf("CategoryID = %q, want 22", md.CategoryID)
	}
	if md.Privacy != "private" {
		t.Errorf("Privacy = %q, want private", md.Privacy)
	}
	if md.MadeForKids {
		t.Error("MadeForKids = true, want false")
	}
}

func TestResolveDirectorySidecar(t *testing.T) {
	tmp := t.TempDir()
	videoPath := filepath.Join(tmp, "clip.mp4")

	sidecar := strings.Join([]string{
		"Title: Deep sea facts",
		"Description: Ten things about the deep sea.",
		"Tags: ocean, facts , science",
		"Category: 27",
		"Privacy: PUBLIC",
		"Made For Kids: true",
	}, "\n")
	_ = os.WriteFile(filepath.Join(tmp, "metadata.txt"), []byte(sidecar), 0644)

	r := NewResolver(testOptions())
	md := r.Resolve(videoPath)

	if md.Title != "Deep sea facts #shorts" {
		t.Errorf("Title = %q, want %q", md.Title, "Deep sea facts #shorts")
	}
	if md.Description != "Ten things about the deep sea." {
		t.Errorf("Description = %q", md.Description)
	}
	if len(md.Tags) != 3 || md.Tags[0] != "ocean" || md.Tags[1] != "facts" || md.Tags[2] != "science" {
		t.Errorf("Tags = %v, want [ocean facts science]", md.Tags)
	}
	if md.CategoryID != "27" {
		t.Errorf("CategoryID = %q, want 27", md.CategoryID)
	}
	if md.Privacy != "public" {
		t.Errorf("Privacy = %q, want public", md.Privacy)
	}
	if !md.MadeForKids {
		t.Error("MadeForKids = false, want true")
	}
}

func TestResolveNamedSidecar(t *testing.T) {
	tmp := t.TempDir()
	videoPath := filepath.Join(tmp, "clip.mp4")
	_ = os.WriteFile(filepath.Join(tmp, "clip.txt"), []byte("title: Named override"), 0644)

	r := NewResolver(testOptions())
	md := r.Resolve(videoPath)

	if md.Title != "Named override #shorts" {
		t.Errorf("Title = %q, want %q", md.Title, "Named override #shorts")
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	tmp := t.TempDir()
	videoPath := filepath.Join(tmp, "clip.mp4")

	globalPath := filepath.Join(tmp, "global.txt")
	_ = os.WriteFile(globalPath, []byte("title: From global"), 0644)
	_ = os.WriteFile(filepath.Join(tmp, "metadata.txt"), []byte("title: From directory"), 0644)
	_ = os.WriteFile(filepath.Join(tmp, "clip.txt"), []byte("title: From named"), 0644)

	opts := testOptions()
	opts.GlobalPath = globalPath

	r := NewResolver(opts)
	md := r.Resolve(videoPath)

	if md.Title != "From global #shorts" {
		t.Errorf("Title = %q, want global source to win", md.Title)
	}
}

func TestResolveIgnoresUnknownAndMalformedLines(t *testing.T) {
	tmp := t.TempDir()
	videoPath := filepath.Join(tmp, "clip.mp4")

	sidecar := strings.Join([]string{
		"title: Valid title",
		"not a pair",
		"unknown key: ignored",
		"",
		"   ",
	}, "\n")
	_ = os.WriteFile(filepath.Join(tmp, "metadata.txt"), []byte(sidecar), 0644)

	r := NewResolver(testOptions())
	md := r.Resolve(videoPath)

	if md.Title != "Valid title #shorts" {
		t.Errorf("Title = %q, want %q", md.Title, "Valid title #shorts")
	}
}

func TestEnsureShortsTag(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "missing", title: "My video", want: "My video #shorts"},
		{name: "alreadyTagged", title: "My video #shorts", want: "My video #shorts"},
		{name: "singularTag", title: "My video #short", want: "My video #short"},
		{name: "upperCase", title: "My video #SHORTS", want: "My video #SHORTS"},
		{name: "empty", title: "", want: " #shorts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnsureShortsTag(tt.title); got != tt.want {
				t.Errorf("EnsureShortsTag(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestEnsureShortsTagIdempotent(t *testing.T) {
	once := EnsureShortsTag("My video")
	twice := EnsureShortsTag(once)
	if once != twice {
		t.Errorf("EnsureShortsTag not idempotent: %q vs %q", once, twice)
	}
}
