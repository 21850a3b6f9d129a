// Command cssvar indexes the CSS custom properties of a workspace and answers
// questions about them from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"bennypowers.dev/cssvar/internal/cache"
	"bennypowers.dev/cssvar/internal/config"
	"bennypowers.dev/cssvar/internal/log"
	"bennypowers.dev/cssvar/internal/remote"
	"bennypowers.dev/cssvar/internal/version"
)

var (
	logLevel     string
	offline      bool
	cacheDir     string
	fetchTimeout time.Duration
	asJSON       bool
)

var rootCmd = &cobra.Command{
	Use:           "cssvar",
	Short:         "cssvar: CSS custom property indexer",
	Long:          "cssvar indexes the custom properties, Sass and Less variables of a workspace, resolves their references and normalizes their colors.",
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Do not fetch remote files")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Directory for fetched remote files (default: user cache dir)")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "fetch-timeout", 30*time.Second, "Timeout for fetching one remote file")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	rootCmd.SetVersionTemplate("{{.Name}} " + version.GetFullVersion() + "\n")

	rootCmd.AddCommand(indexCmd, lookupCmd, checkCmd, colorCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

// workspace is an index built from the configuration files of its roots
type workspace struct {
	index      *cache.Index
	roots      []string
	errorPaths []string
}

// loadWorkspace reads the configuration of every root and indexes them all.
// A root that fails is reported on stderr and left out; the error is only
// returned when no root could be indexed.
func loadWorkspace(ctx context.Context, stderr io.Writer, args []string) (*workspace, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var errs []error
	configs := make(map[string]*config.Config, len(args))
	for _, arg := range args {
		root, err := filepath.Abs(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cfg, err := config.Load(root)
		if err != nil {
			errs = append(errs, cache.NewConfigurationError(root, err))
			continue
		}
		configs[root] = cfg
	}

	opts := cache.Options{}
	if !offline {
		fetcher, err := remote.NewHTTPFetcher(cacheDir, fetchTimeout)
		if err != nil {
			return nil, err
		}
		opts.Fetcher = fetcher
	}

	idx := cache.New(opts)
	var errorPaths []string
	if len(configs) > 0 {
		paths, err := idx.IndexFiles(ctx, configs, cache.IndexOptions{ParseAll: true})
		if err != nil {
			errs = append(errs, err)
		}
		errorPaths = paths
	}

	roots := idx.Roots()
	err := errors.Join(errs...)
	if len(roots) == 0 {
		if err == nil {
			err = cache.ErrNoWorkspaceRoot
		}
		return nil, err
	}
	if err != nil {
		log.Warn("%v", err)
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	return &workspace{index: idx, roots: roots, errorPaths: errorPaths}, nil
}
