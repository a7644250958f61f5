package cmd

import (
	"fmt"
	"log/slog"

	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/tui"
	"github.com/theirongolddev/tally/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so logs go to a file.
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	logger, closer, err := log.OpenFile(cfg.LogFile(), level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	if !theme.Known(cfg.Appearance.Theme) {
		logger.Warn("unknown theme, using default", "theme", cfg.Appearance.Theme)
	}
	theme.SetActive(cfg.Appearance.Theme)

	result, err := pipeline.Load(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = result.Close() }()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(result.Store, tui.Options{
		Config:  cfg,
		Logger:  logger,
		Backend: result.Backend,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
