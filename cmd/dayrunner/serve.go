package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zorooz/dayrunner/internal/auth"
	"github.com/zorooz/dayrunner/internal/config"
	"github.com/zorooz/dayrunner/internal/github"
	"github.com/zorooz/dayrunner/internal/sandbox"
	"github.com/zorooz/dayrunner/internal/server"
	"github.com/zorooz/dayrunner/internal/storage/sqlite"
)

var portFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Dayrunner HTTP server",
	Long: `Start the HTTP server. All browsing and execution endpoints require a
session token from /api/auth/login; a default admin account is created on
first boot.

Examples:
  dayrunner serve
  dayrunner serve --port 9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.SecretIsDefault() {
		log.Println("WARNING: auth.secret is the compiled-in default; set DAYRUNNER_AUTH_SECRET before exposing this server")
	}

	// Open the credential store
	store, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	authSvc := auth.NewService(store, []byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)
	if err := authSvc.EnsureDefaultUser(cmd.Context()); err != nil {
		return fmt.Errorf("ensuring default user: %w", err)
	}

	sb := sandbox.NewLocalSandbox(sandbox.Policy{
		PythonBin:      cfg.Execute.PythonBin,
		DefaultTimeout: cfg.Execute.DefaultTimeout,
		MaxTimeout:     cfg.Execute.MaxTimeout,
	})

	repo := github.NewClient(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Ref, cfg.GitHub.Token)

	// Determine port
	port := cfg.Server.Port
	if portFlag > 0 {
		port = portFlag
	}

	srv := server.New(cfg, authSvc, sb, repo)

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		srv.Shutdown(context.Background())
	}()

	return srv.Start(port)
}
