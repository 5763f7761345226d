package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/gallery/internal/cache"
	"github.com/nikbrunner/gallery/internal/exporter"
	"github.com/nikbrunner/gallery/internal/gallery"
	"github.com/nikbrunner/gallery/internal/importer"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/picker"
	"github.com/nikbrunner/gallery/internal/search"
)

func (c *cli) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download every painting into the local catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			local, closeStorage, err := openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			remote, closeQueries := c.remote(logger)
			defer closeQueries()

			// A sync always goes to the backend.
			if err := remote.Queries.Invalidate(ctx, cache.PaintingsAll); err != nil {
				logger.Warn("cache invalidation failed", "err", err)
			}

			prog := newProgress(logger)
			paintings, err := remote.Paintings(ctx)
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			catalog := model.NewCatalog()
			catalog.Replace(paintings)
			if err := local.Save(catalog); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}
			prog.done(fmt.Sprintf("Fetched %d paintings", len(paintings)))

			fmt.Fprintf(c.stdout, "Synced %d paintings to %s\n", len(paintings), storagePath(local))
			return nil
		},
	}
}

func (c *cli) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search the local catalog and open the chosen painting",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, _, closeStorage, err := loadCatalog()
			if err != nil {
				return err
			}
			defer closeStorage()

			query := strings.Join(args, " ")
			results := search.FuzzySearchPaintings(catalog, query)
			if len(results) == 0 {
				fmt.Fprintf(c.stdout, "No paintings found for '%s'\n", query)
				return nil
			}

			var selected *model.Painting
			if len(results) == 1 {
				// Single result - select it directly
				selected = results[0].Painting
				fmt.Fprintf(c.stdout, "Opening: %s\n", selected.Title)
			} else {
				p := picker.New(results, query)
				finalModel, err := tea.NewProgram(p, tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}
				finalPicker := finalModel.(picker.Picker)
				if finalPicker.Cancelled() {
					return nil
				}
				selected = finalPicker.SelectedPainting()
			}

			if selected == nil {
				return nil
			}
			return openURL(selected.ImageURL)
		},
	}
}

func (c *cli) newImportCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import paintings from the images of an HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var base *url.URL
			if baseURL != "" {
				u, err := url.Parse(baseURL)
				if err != nil {
					return fmt.Errorf("parse --base: %w", err)
				}
				base = u
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			paintings, err := importer.ParseHTMLPaintings(file, base)
			if err != nil {
				return fmt.Errorf("parse HTML: %w", err)
			}

			catalog, local, closeStorage, err := loadCatalog()
			if err != nil {
				return err
			}
			defer closeStorage()

			added, skipped := catalog.ImportMerge(paintings)
			if err := local.Save(catalog); err != nil {
				return fmt.Errorf("save catalog: %w", err)
			}

			fmt.Fprintf(c.stdout, "Imported %d paintings", added)
			if skipped > 0 {
				fmt.Fprintf(c.stdout, " (%d duplicates skipped)", skipped)
			}
			fmt.Fprintln(c.stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base", "", "resolve relative image sources against this URL")
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var (
		scatterLayout bool
		title         string
	)
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the local catalog as a static HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				if outputPath, err = exporter.DefaultExportPath(); err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
			}

			catalog, _, closeStorage, err := loadCatalog()
			if err != nil {
				return err
			}
			defer closeStorage()

			scatterPage := c.mode() == gallery.ModeScatter
			if cmd.Flags().Changed("scatter") {
				scatterPage = scatterLayout
			}
			page := exporter.ExportHTML(catalog, exporter.Options{
				Title:   title,
				Scatter: scatterPage,
				Params:  c.config.Params(),
			})
			if err := os.WriteFile(outputPath, []byte(page), 0644); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}

			fmt.Fprintf(c.stdout, "Exported %d paintings to %s\n", len(catalog.Paintings), outputPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&scatterLayout, "scatter", false, "place tilted cards like the canvas instead of a grid (default follows the gallery mode)")
	cmd.Flags().StringVar(&title, "title", "Paintings", "page title")
	return cmd
}
