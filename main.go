package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aouyang1/repogallery/api"
	"github.com/aouyang1/repogallery/api/client"
	"github.com/aouyang1/repogallery/config"
	"github.com/aouyang1/repogallery/store"
	"github.com/spf13/cobra"
)

var (
	addr   string
	owner  string
	repo   string
	branch string
	folder string
	source string
	debug  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "repogallery",
		Short: "Browse the images of a repository as a grid gallery or a slideshow",
		Long: "repogallery serves a web page listing the images of a GitHub repository directory " +
			"(or an S3 prefix) as a three column grid or a one-at-a-time slideshow.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			// Use environment variables if flags are not explicitly set
			cfg := config.Load()
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("owner") {
				cfg.Owner = owner
			}
			if cmd.Flags().Changed("repo") {
				cfg.Repo = repo
			}
			if cmd.Flags().Changed("branch") {
				cfg.Branch = branch
			}
			if cmd.Flags().Changed("folder") {
				cfg.Folder = folder
			}
			if cmd.Flags().Changed("source") {
				cfg.Source = source
			}

			cmd.SilenceUsage = true
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "Address to listen on (env GALLERY_ADDR)")
	rootCmd.Flags().StringVar(&owner, "owner", config.DefaultOwner, "GitHub account owning the repository (env GALLERY_OWNER)")
	rootCmd.Flags().StringVar(&repo, "repo", config.DefaultRepo, "GitHub repository holding the images (env GALLERY_REPO)")
	rootCmd.Flags().StringVar(&branch, "branch", config.DefaultBranch, "Branch to read images from (env GALLERY_BRANCH)")
	rootCmd.Flags().StringVar(&folder, "folder", config.DefaultFolder, "Directory inside the repository, empty for the root (env GALLERY_FOLDER)")
	rootCmd.Flags().StringVar(&source, "source", config.DefaultSource, "Image source: github or s3 (env GALLERY_SOURCE)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newSource(ctx context.Context, cfg *config.Config) (api.Source, error) {
	switch cfg.Source {
	case config.SourceGitHub:
		return client.NewGitHubClient(cfg), nil
	case config.SourceS3:
		return api.NewS3Source(ctx, cfg.AWSProfile, cfg.S3Bucket, cfg.S3Prefix, cfg.PresignTTL)
	default:
		return nil, fmt.Errorf("unknown image source %q, expected %s or %s", cfg.Source, config.SourceGitHub, config.SourceS3)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Sessions only live as long as the process
	database, err := store.NewDatabase(store.MemoryDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	src, err := newSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize image source: %w", err)
	}

	remoteManager, err := api.NewRemoteManager(src)
	if err != nil {
		return err
	}

	sessionManager, err := api.NewSessionManager(database, cfg.SessionTTL)
	if err != nil {
		return err
	}

	webServer, err := api.NewWebServer(database, remoteManager, sessionManager)
	if err != nil {
		return fmt.Errorf("failed to initialize web server: %w", err)
	}

	slog.Info("serving image gallery", "source", cfg.Source, "endpoint", remoteManager.Endpoint(), "addr", cfg.Addr)
	return webServer.Start(ctx, cfg.Addr)
}
