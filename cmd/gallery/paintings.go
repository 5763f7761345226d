package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/gallery/internal/api"
	"github.com/nikbrunner/gallery/internal/model"
)

func (c *cli) newAddCmd() *cobra.Command {
	var title, imageURL, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Upload a painting record to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			remote, closeQueries := c.remote(loggerFromContext(ctx))
			defer closeQueries()

			data := api.CreatePaintingData{Title: title, ImageURL: imageURL}
			if description != "" {
				data.Description = &description
			}
			p, err := remote.Create(ctx, data)
			if err != nil {
				return err
			}

			if err := c.mirror(func(catalog *model.Catalog) { catalog.Upsert(p) }); err != nil {
				loggerFromContext(ctx).Warn("could not update local catalog", "err", err)
			}
			fmt.Fprintf(c.stdout, "Added %s (%s)\n", describe(p), p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "painting title")
	cmd.Flags().StringVar(&imageURL, "image", "", "image URL")
	cmd.Flags().StringVar(&description, "description", "", "optional description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func (c *cli) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a painting on the backend",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			remote, closeQueries := c.remote(loggerFromContext(ctx))
			defer closeQueries()

			if err := remote.Delete(ctx, id); err != nil {
				if errors.Is(err, api.ErrNotFound) {
					return fmt.Errorf("no painting with id %s", id)
				}
				return err
			}

			if err := c.mirror(func(catalog *model.Catalog) { _ = catalog.RemovePainting(id) }); err != nil {
				loggerFromContext(ctx).Warn("could not update local catalog", "err", err)
			}
			fmt.Fprintf(c.stdout, "Deleted %s\n", id)
			return nil
		},
	}
}

// mirror applies a backend change to the local catalog.
func (c *cli) mirror(fn func(*model.Catalog)) error {
	catalog, local, closeStorage, err := loadCatalog()
	if err != nil {
		return err
	}
	defer closeStorage()

	fn(catalog)
	return local.Save(catalog)
}
