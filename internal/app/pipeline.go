package app

import (
	"context"
	"log/slog"
	"path/filepath"

	"shortsup/internal/describe"
	"shortsup/internal/metadata"
	"shortsup/internal/upload"
)

// Validator checks a candidate file against upload preconditions.
type Validator interface {
	Validate(ctx context.Context, path string) error
}

// Resolver derives publish metadata for a video. Never fails.
type Resolver interface {
	Resolve(path string) metadata.Metadata
}

// Outcome is the terminal result of one upload attempt. Failures are
// materialized here instead of propagating past the pipeline.
type Outcome struct {
	Path    string
	VideoID string
	URL     string
	Err     error
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Pipeline runs one item end to end: validate, resolve metadata,
// upload. Safe for concurrent use across items.
type Pipeline struct {
	validator Validator
	resolver  Resolver
	uploader  upload.Uploader
	describer describe.Generator
}

func NewPipeline(validator Validator, resolver Resolver, uploader upload.Uploader, describer describe.Generator) *Pipeline {
	return &Pipeline{
		validator: validator,
		resolver:  resolver,
		uploader:  uploader,
		describer: describer,
	}
}

func (p *Pipeline) Process(ctx context.Context, path string) Outcome {
	name := filepath.Base(path)

	if err := p.validator.Validate(ctx, path); err != nil {
		slog.Error("Skipping video", "video", name, "error", err)
		return Outcome{Path: path, Err: err}
	}

	md := p.resolver.Resolve(path)
	p.fillDescription(ctx, name, &md)

	slog.Info("Uploading", "video", name, "title", md.Title)
	resp, err := p.uploader.Upload(ctx, upload.Request{
		FilePath:    path,
		Title:       md.Title,
		Description: md.Description,
		Tags:        md.Tags,
		CategoryID:  md.CategoryID,
		Privacy:     md.Privacy,
		MadeForKids: md.MadeForKids,
		Progress: func(current, total int64) {
			if total > 0 {
				slog.Info("Upload progress", "video", name, "percent", current*100/total)
			}
		},
	})
	if err != nil {
		slog.Error("Upload failed", "video", name, "error", err)
		return Outcome{Path: path, Err: err}
	}

	slog.Info("Upload complete", "video", name, "id", resp.ID, "url", resp.URL)
	return Outcome{Path: path, VideoID: resp.ID, URL: resp.URL}
}

func (p *Pipeline) fillDescription(ctx context.Context, name string, md *metadata.Metadata) {
	if p.describer == nil || md.Description != "" {
		return
	}

	description, err := p.describer.Describe(ctx, md.Title)
	if err != nil {
		slog.Warn("Failed to generate description", "video", name, "error", err)
		return
	}
	md.Description = description
}
