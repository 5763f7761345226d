package main

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/gallery/internal/culler"
	"github.com/nikbrunner/gallery/internal/gallery"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/server"
)

func (c *cli) newLayoutCmd() *cobra.Command {
	var (
		asJSON bool
		query  string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the scattered positions of the local catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, _, closeStorage, err := loadCatalog()
			if err != nil {
				return err
			}
			defer closeStorage()

			params := c.config.Params()
			sess := gallery.NewSession(catalog.Items(), params, gallery.ModeScatter)
			sess.SetQuery(query)

			if asJSON {
				enc := json.NewEncoder(c.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(server.LayoutResponse{
					Query:    sess.Query(),
					Total:    len(sess.Items()),
					Filtered: len(sess.Filtered()),
					Size:     params.Size,
					Cards:    sess.Cards(),
				})
			}

			for _, card := range sess.Cards() {
				fmt.Fprintf(c.stdout, "%8.1f %8.1f %+6.2f°  %s\n", card.X, card.Y, card.Rotation, card.Title)
			}
			fmt.Fprintf(c.stdout, "%d of %d paintings on a %.0f×%.0f canvas\n",
				len(sess.Filtered()), len(sess.Items()), params.Size, params.Size)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by title or artist first")
	return cmd
}

func (c *cli) newCheckCmd() *cobra.Command {
	var (
		concurrency int
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the image links of the local catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			catalog, _, closeStorage, err := loadCatalog()
			if err != nil {
				return err
			}
			defer closeStorage()

			if len(catalog.Paintings) == 0 {
				fmt.Fprintln(c.stdout, "No paintings to check")
				return nil
			}

			prog := newProgress(logger)
			results := culler.CheckImages(ctx, catalog.Paintings, culler.Options{
				Concurrency:    concurrency,
				Timeout:        timeout,
				ExcludeDomains: c.config.CheckExcludeDomains,
				Logger:         logger,
				OnProgress: func(completed, total int) {
					fmt.Fprintf(c.stderr, "\rChecking images %d/%d", completed, total)
				},
			})
			fmt.Fprintln(c.stderr)
			if err := ctx.Err(); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Checked %d images", len(results)))

			failing := printCheckResults(c, results)
			fmt.Fprintf(c.stdout, "%d of %d images need attention\n", failing, len(results))
			return nil
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 10, "parallel requests")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}

// printCheckResults lists every result that is not Healthy and returns their count.
func printCheckResults(c *cli, results []culler.Result) int {
	failing := 0
	for _, r := range results {
		if r.Status == culler.Healthy {
			continue
		}
		failing++
		detail := r.Error
		if detail == "" && r.ContentType != "" {
			detail = r.ContentType
		}
		fmt.Fprintf(c.stdout, "%-12s %-30s %s", r.Status, r.Painting.Title, r.Painting.ImageURL)
		if detail != "" {
			fmt.Fprintf(c.stdout, " (%s)", detail)
		}
		fmt.Fprintln(c.stdout)
	}
	return failing
}

func (c *cli) newServeCmd() *cobra.Command {
	var (
		addr    string
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gallery page and its layout over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			local, closeStorage, err := openStorage()
			if err != nil {
				return err
			}
			defer closeStorage()

			var src gallery.Source = gallery.Local{Storage: local}
			if !offline {
				remote, closeQueries := c.remote(logger)
				defer closeQueries()
				src = gallery.Synced{Remote: remote, Storage: local, Logger: logger}
			}

			srv, err := server.New(server.Config{
				Source: src,
				Params: c.config.Params(),
				Title:  "Paintings",
				Mode:   c.mode(),
				Logger: logger,
			})
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			fmt.Fprintf(c.stdout, "Serving on http://%s\n", ln.Addr())
			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().BoolVar(&offline, "offline", false, "serve the local catalog without contacting the backend")
	return cmd
}

// describe renders a painting as "Title by Artist".
func describe(p model.Painting) string {
	if artist := p.Artist(); artist != "" {
		return fmt.Sprintf("%q by %s", p.Title, artist)
	}
	return fmt.Sprintf("%q", p.Title)
}
