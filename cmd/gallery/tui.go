package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/gallery/internal/gallery"
	"github.com/nikbrunner/gallery/internal/storage"
	"github.com/nikbrunner/gallery/internal/tui"
)

// runTUI runs the full interactive gallery.
func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	logPath := c.config.LogFile
	if logPath == "" {
		var err error
		if logPath, err = storage.DefaultLogPath(); err != nil {
			return fmt.Errorf("log path: %w", err)
		}
	}
	logFile, err := openLogFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, c.level)

	local, closeStorage, err := openStorage()
	if err != nil {
		return err
	}
	defer closeStorage()

	remote, closeQueries := c.remote(logger)
	defer closeQueries()

	ctx := cmd.Context()
	app := tui.NewApp(tui.AppParams{
		Source:     gallery.Synced{Remote: remote, Storage: local, Logger: logger},
		Params:     c.config.Params(),
		Overscroll: c.config.Canvas.Overscroll,
		Mode:       c.mode(),
		AutoCenter: c.config.Canvas.AutoCenter,
		Prefs:      c.prefs,
		Logger:     logger,
		Context:    ctx,
		OpenURL:    openURL,
	})

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run gallery: %w", err)
	}
	return nil
}
