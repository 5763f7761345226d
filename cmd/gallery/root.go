package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/gallery/internal/api"
	"github.com/nikbrunner/gallery/internal/cache"
	"github.com/nikbrunner/gallery/internal/gallery"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/state"
	"github.com/nikbrunner/gallery/internal/storage"
	"github.com/nikbrunner/gallery/internal/tui"
)

// cli holds what every command shares once the root pre-run has loaded it.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	verbose    bool
	configPath string
	apiURL     string

	level  log.Level
	config *storage.Config
	prefs  *state.Store
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "gallery",
		Short: "Browse the club's paintings on a scattered canvas",
		Long: `gallery shows the FineArt & Modeling Club paintings as a pannable canvas
of tilted cards or as a grid. Drag with the mouse or use h/j/k/l to explore,
/ to filter, Tab to switch modes and Enter to open a painting.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: c.setup,
		RunE:              c.runTUI,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/gallery/config.toml)")
	flags.StringVar(&c.apiURL, "api-url", "", "backend API root, overrides the config and "+storage.EnvAPIURL)

	root.AddCommand(
		c.newSyncCmd(),
		c.newSearchCmd(),
		c.newImportCmd(),
		c.newExportCmd(),
		c.newLayoutCmd(),
		c.newCheckCmd(),
		c.newServeCmd(),
		c.newAddCmd(),
		c.newRemoveCmd(),
		c.newWhoamiCmd(),
		c.newLogoutCmd(),
		c.newThemeCmd(),
	)
	return root
}

// setup loads .env, the config file and the persisted app state, and
// attaches a stderr logger to the command context.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	c.level = log.InfoLevel
	if c.verbose {
		c.level = log.DebugLevel
	}
	logger := newLogger(c.stderr, c.level)
	cmd.SetContext(withLogger(cmd.Context(), logger))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not load .env", "err", err)
	}

	path := c.configPath
	if path == "" {
		var err error
		if path, err = storage.DefaultConfigFilePath(); err != nil {
			return fmt.Errorf("config path: %w", err)
		}
	}
	config, err := storage.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	for _, key := range config.UnknownKeys() {
		logger.Warn("unknown config key", "key", key, "file", path)
	}
	config.ApplyEnv(os.Getenv)
	if c.apiURL != "" {
		config.APIURL = c.apiURL
	}
	c.config = config

	statePath, err := storage.DefaultStatePath()
	if err != nil {
		return fmt.Errorf("state path: %w", err)
	}
	c.prefs = state.New(statePath)
	if err := c.prefs.Load(); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	tui.ApplyTheme(c.prefs.Snapshot().UI.Theme)

	logger.Debug("configured", "api", config.APIURL, "config", path)
	return nil
}

// mode returns the remembered gallery mode, falling back to the config.
func (c *cli) mode() gallery.Mode {
	if m := c.prefs.Snapshot().UI.Mode; m != "" {
		return gallery.ParseMode(m)
	}
	return gallery.ParseMode(c.config.DefaultMode)
}

// remote builds the cached backend source. The returned func closes the
// query cache.
func (c *cli) remote(logger *log.Logger) (*gallery.Remote, func()) {
	var store cache.Store = cache.NewNullStore()
	if dir, err := storage.DefaultCacheDir(); err == nil {
		if fs, err := cache.NewFileStore(dir); err == nil {
			store = fs
		} else {
			logger.Warn("query cache disabled", "err", err)
		}
	}

	queries := cache.NewQueries(
		cache.WithStore(store),
		cache.WithStaleTime(c.config.StaleTime()),
		cache.WithLogger(logger),
	)
	client := api.NewClient(c.config.APIURL, api.WithLogger(logger))

	r := &gallery.Remote{
		API:     client,
		Queries: queries,
		Params:  api.ListParams{Limit: c.config.PageSize},
		Users:   c.prefs,
		Logger:  logger,
	}
	closeFn := func() {
		if err := queries.Close(); err != nil {
			logger.Warn("could not close query cache", "err", err)
		}
	}
	return r, closeFn
}

// openStorage opens the local catalog. The returned func closes it.
func openStorage() (storage.Storage, func(), error) {
	s, err := storage.OpenStorage()
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	closeFn := func() {
		if cl, ok := s.(io.Closer); ok {
			_ = cl.Close()
		}
	}
	return s, closeFn, nil
}

// loadCatalog reads the local catalog in one go.
func loadCatalog() (*model.Catalog, storage.Storage, func(), error) {
	s, closeFn, err := openStorage()
	if err != nil {
		return nil, nil, nil, err
	}
	catalog, err := s.Load()
	if err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, s, closeFn, nil
}

// storagePath describes where s keeps its data.
func storagePath(s storage.Storage) string {
	if p, ok := s.(interface{ Path() string }); ok {
		return p.Path()
	}
	return "local storage"
}
