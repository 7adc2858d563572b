package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"shortsup/internal/auth"
	"shortsup/internal/describe"
	"shortsup/internal/metadata"
	"shortsup/internal/probe"
	"shortsup/internal/source"
	"shortsup/internal/upload"
	"shortsup/internal/validate"
	"shortsup/pkg/config"
	"shortsup/pkg/httputil"
)

// Service wires the run: one authorization, then either a single
// pipeline invocation or batched uploads over a discovered list.
type Service struct {
	cfg       *config.Config
	auth      *auth.Manager
	validator Validator
	resolver  Resolver
	describer describe.Generator

	// uploaderFor builds the publishing client after authorization.
	// Swapped out in tests.
	uploaderFor func(ctx context.Context) (upload.Uploader, error)
}

type RunOptions struct {
	// Path is a file, a directory, or a gs:// prefix. Empty means the
	// configured video directory.
	Path string
	// Prompter drives the interactive authorization exchange when no
	// cached token exists.
	Prompter auth.CodePrompter
	// Confirm is asked before a batched run starts. Nil skips
	// confirmation.
	Confirm func(items []string) (bool, error)
}

type Summary struct {
	Uploaded int
	Failed   int
	Outcomes []Outcome
}

func BuildService(cfg *config.Config) (*Service, error) {
	manager, err := auth.NewManager(auth.Options{
		ClientID:        cfg.YouTubeClientID,
		ClientSecret:    cfg.YouTubeClientSecret,
		RedirectURL:     cfg.YouTube.RedirectURL,
		TokenPath:       cfg.YouTube.TokenPath,
		LegacyTokenPath: cfg.YouTube.LegacyTokenPath,
	})
	if err != nil {
		return nil, err
	}

	var describer describe.Generator
	if cfg.LLM.Enabled && cfg.GroqAPIKey != "" {
		groqClient, err := describe.NewGroq(cfg.GroqAPIKey, cfg.LLM.Model)
		if err != nil {
			slog.Warn("Description generation disabled", "error", err)
		} else {
			describer = groqClient
		}
	}

	service := &Service{
		cfg:       cfg,
		auth:      manager,
		validator: validate.New(probe.New(), cfg.Upload.MaxDuration),
		resolver: metadata.NewResolver(metadata.Options{
			GlobalPath:  cfg.Metadata.GlobalPath,
			SidecarName: cfg.Metadata.SidecarName,
			DefaultTags: cfg.YouTube.DefaultTags,
			CategoryID:  cfg.YouTube.CategoryID,
			Privacy:     cfg.YouTube.PrivacyStatus,
		}),
		describer: describer,
	}

	service.uploaderFor = func(ctx context.Context) (upload.Uploader, error) {
		transport := httputil.NewRetryTransport(nil, httputil.DefaultRetryConfig())
		client, err := manager.Client(ctx, transport)
		if err != nil {
			return nil, fmt.Errorf("authorized client: %w", err)
		}
		return upload.NewYouTube(ctx, client)
	}

	return service, nil
}

func (s *Service) Auth() *auth.Manager {
	return s.auth
}

// Run is the bulk-upload entry point. Authorization failures are
// returned to the caller and abort the run before any upload; every
// per-item failure is absorbed into the summary.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	if _, err := s.auth.Authorize(ctx, opts.Prompter); err != nil {
		return nil, fmt.Errorf("authorization: %w", err)
	}

	uploader, err := s.uploaderFor(ctx)
	if err != nil {
		return nil, err
	}
	pipeline := NewPipeline(s.validator, s.resolver, uploader, s.describer)

	items, single, err := s.collect(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		slog.Info("No videos found", "path", opts.Path)
		return &Summary{}, nil
	}

	if single {
		return summarize([]Outcome{pipeline.Process(ctx, items[0])}), nil
	}

	if opts.Confirm != nil {
		ok, err := opts.Confirm(items)
		if err != nil {
			return nil, fmt.Errorf("confirmation: %w", err)
		}
		if !ok {
			slog.Info("Upload cancelled")
			return &Summary{}, nil
		}
	}

	delay := time.Duration(s.cfg.Upload.BatchDelay) * time.Second
	scheduler := NewScheduler(s.cfg.Upload.BatchSize, delay, pipeline)
	return summarize(scheduler.Run(ctx, items)), nil
}

// collect resolves the input path to the candidate list. The second
// return value reports the single-file case, which bypasses batching.
func (s *Service) collect(ctx context.Context, path string) ([]string, bool, error) {
	if path == "" {
		path = s.cfg.Upload.VideoDir
	}

	if source.IsGSPath(path) {
		bucket, prefix, err := source.ParseGSPath(path)
		if err != nil {
			return nil, false, err
		}

		remote, err := source.NewGCS(ctx, bucket, prefix, s.cfg.Source.CacheDir)
		if err != nil {
			return nil, false, err
		}
		defer func() { _ = remote.Close() }()

		items, err := remote.Sync(ctx, s.cfg.Upload.Extensions)
		if err != nil {
			return nil, false, fmt.Errorf("sync %s: %w", path, err)
		}
		return items, false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, true, nil
	}

	items, err := Discover(path, s.cfg.Upload.Extensions)
	if err != nil {
		return nil, false, fmt.Errorf("discover videos in %s: %w", path, err)
	}
	return items, false, nil
}

func summarize(outcomes []Outcome) *Summary {
	summary := &Summary{Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Failed() {
			summary.Failed++
		} else {
			summary.Uploaded++
		}
	}
	return summary
}
