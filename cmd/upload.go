package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"shortsup/internal/app"
	"shortsup/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var skipConfirm bool

func init() {
	rootCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the upload confirmation prompt")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	service, err := app.BuildService(cfg)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}

	opts := app.RunOptions{
		Path:     path,
		Prompter: consolePrompter{},
	}
	if !skipConfirm {
		opts.Confirm = confirmUpload
	}

	summary, err := service.Run(ctx, opts)
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func confirmUpload(items []string) (bool, error) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Found %d video(s) to upload:", len(items))))
	for _, item := range items {
		fmt.Println(infoStyle.Render("  " + filepath.Base(item)))
	}

	confirmed := true
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Upload %d video(s) to YouTube?", len(items))).
		Description("Videos are uploaded in batches with a pause between them.").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

func printSummary(summary *app.Summary) {
	if len(summary.Outcomes) == 0 {
		fmt.Println(infoStyle.Render("Nothing to upload."))
		return
	}

	fmt.Println()
	for _, outcome := range summary.Outcomes {
		name := filepath.Base(outcome.Path)
		if outcome.Failed() {
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s: %v", name, outcome.Err)))
		} else {
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s → %s", name, outcome.URL)))
		}
	}

	fmt.Println()
	if summary.Failed > 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("%d uploaded, %d failed", summary.Uploaded, summary.Failed)))
	} else {
		fmt.Println(successStyle.Render(fmt.Sprintf("%d uploaded", summary.Uploaded)))
	}
}

// consolePrompter completes the OAuth exchange in the terminal: it opens
// the consent page in a browser and asks for the code that Google shows
// after the redirect.
type consolePrompter struct{}

func (consolePrompter) Prompt(authURL string) (string, error) {
	fmt.Println(infoStyle.Render("\nOpening browser for YouTube authentication..."))
	fmt.Println(infoStyle.Render("If the browser doesn't open, visit:\n" + authURL))

	_ = browser.OpenURL(authURL)

	var code string
	err := huh.NewInput().
		Title("Authorization code").
		Description("Paste the code from the redirect URL").
		Value(&code).
		Run()
	if err != nil {
		return "", err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("no authorization code entered")
	}
	return code, nil
}
