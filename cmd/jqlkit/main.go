// Command jqlkit manages saved JQL searches: listing, saving, favouriting,
// exporting, and rewriting the queries they hold.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jqlkit/jqlkit/internal/config"
	"github.com/jqlkit/jqlkit/internal/filter"
	"github.com/jqlkit/jqlkit/internal/filter/cache"
	"github.com/jqlkit/jqlkit/internal/filter/sqlite"
	"github.com/jqlkit/jqlkit/internal/jqlparse"
)

var (
	configPath string
	dbPath     string
	userKey    string
	verbose    bool

	cfg *config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:           "jqlkit",
	Short:         "Manage saved JQL searches",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		log.SetLevel(cfg.Level())
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		if userKey == "" {
			userKey = os.Getenv("USER")
		}
		return nil
	},
}

// openStore opens the SQLite store wrapped in the read cache. The caller
// must invoke the returned closer.
func openStore() (filter.Store, func() error, error) {
	backing, err := sqlite.Open(cfg.DBPath, jqlparse.New(), sqlite.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("open filter store: %w", err)
	}
	return cache.New(backing, cache.WithIdleExpiry(cfg.CacheTTL)), backing.Close, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.jqlkit.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "filter database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&userKey, "user", "", "acting user key (default $USER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
