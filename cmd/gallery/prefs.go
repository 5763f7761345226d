package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/gallery/internal/state"
)

func (c *cli) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the remembered club member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := c.prefs.CurrentUser()
			if !ok {
				fmt.Fprintln(c.stdout, "Not signed in")
				return nil
			}
			fmt.Fprintf(c.stdout, "%s (%s)\n", u.Name, u.ID)
			return nil
		},
	}
}

func (c *cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered club member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := c.prefs.CurrentUser(); !ok {
				fmt.Fprintln(c.stdout, "Not signed in")
				return nil
			}
			if err := c.prefs.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(c.stdout, "Signed out")
			return nil
		},
	}
}

func (c *cli) newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [system|light|dark]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(state.ThemeSystem), string(state.ThemeLight), string(state.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(c.stdout, c.prefs.Snapshot().UI.Theme)
				return nil
			}
			theme, err := state.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := c.prefs.SetTheme(theme); err != nil {
				return fmt.Errorf("save theme: %w", err)
			}
			fmt.Fprintf(c.stdout, "Theme set to %s\n", theme)
			return nil
		},
	}
}
