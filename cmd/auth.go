package cmd

import (
	"fmt"
	"os"

	"shortsup/internal/app"
	"shortsup/pkg/config"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with YouTube (OAuth)",
	Long:  `Complete the YouTube OAuth flow using credentials from .env and cache the token.`,
	RunE:  runAuth,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status",
	Long:  `Verify which credentials are configured and whether a YouTube token is cached.`,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	service, err := app.BuildService(cfg)
	if err != nil {
		return err
	}

	manager := service.Auth()
	if manager.HasCachedToken() {
		fmt.Println(successStyle.Render("✓ Already authenticated"))
		fmt.Println(infoStyle.Render("  Token cached at: " + cfg.YouTube.TokenPath))
		return nil
	}

	code, err := consolePrompter{}.Prompt(manager.AuthURL())
	if err != nil {
		return err
	}

	var exchangeErr error
	_ = spinner.New().
		Title("Exchanging authorization code...").
		Action(func() {
			exchangeErr = manager.Exchange(ctx, code)
		}).
		Run()
	if exchangeErr != nil {
		return fmt.Errorf("failed to exchange code: %w", exchangeErr)
	}

	fmt.Println(successStyle.Render("✓ YouTube authentication complete"))
	fmt.Println(successStyle.Render("  Token saved to: " + cfg.YouTube.TokenPath))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(infoStyle.Render("\nAuthentication Status:\n"))

	if cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "" {
		if _, err := os.Stat(cfg.YouTube.TokenPath); err == nil {
			fmt.Println(successStyle.Render("✓ YouTube: authenticated (token exists)"))
		} else if _, err := os.Stat(cfg.YouTube.LegacyTokenPath); err == nil {
			fmt.Println(successStyle.Render("✓ YouTube: authenticated (legacy token exists)"))
		} else {
			fmt.Println(errorStyle.Render("✗ YouTube: credentials set, but not authenticated"))
			fmt.Println(infoStyle.Render("  Run: shortsup auth"))
		}
	} else {
		fmt.Println(errorStyle.Render("✗ YouTube: missing YOUTUBE_CLIENT_ID or YOUTUBE_CLIENT_SECRET"))
	}

	if cfg.GroqAPIKey != "" {
		fmt.Println(successStyle.Render("✓ Groq: API key configured"))
	} else {
		fmt.Println(infoStyle.Render("○ Groq: not configured (optional, used for descriptions)"))
	}

	if cfg.GCPProject != "" {
		fmt.Println(successStyle.Render("✓ Google Cloud: project configured"))
	} else {
		fmt.Println(infoStyle.Render("○ Google Cloud: not configured (optional, used for gs:// sources)"))
	}

	fmt.Println()
	return nil
}
