// cmd/health-log/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"mcp-health-log/internal/chat"
	"mcp-health-log/internal/config"
	"mcp-health-log/internal/extract"
	"mcp-health-log/internal/models"
	"mcp-health-log/internal/server"
	"mcp-health-log/internal/storage"
	"mcp-health-log/internal/tracker"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".health-log"
	}
	return filepath.Join(home, ".health-log")
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "health-log",
		Usage:   "Free-text health check-ins with AI extraction and adaptive meal plans",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-dir",
				Value: defaultBaseDir(),
				Usage: "Directory holding config.json and the database",
			},
			&cli.BoolFlag{Name: "debug", Usage: "Verbose logging"},
		},
		Commands: []*cli.Command{
			serveCmd(),
			chatCmd(),
			registerCmd(),
		},
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// bootstrap loads config and opens the store; withExtractor also connects the
// Gemini client, which needs an API key.
func bootstrap(c *cli.Context, withExtractor bool) (*config.Config, *storage.SQLiteStorage, extract.Extractor, *zap.Logger, error) {
	baseDir := c.String("base-dir")
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(c.Bool("debug"))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	var extractor extract.Extractor
	if withExtractor {
		extractor, err = extract.NewGeminiExtractor(c.Context, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			store.Close()
			return nil, nil, nil, nil, fmt.Errorf("failed to create extractor (set GEMINI_API_KEY): %w", err)
		}
	}

	return cfg, store, extractor, logger, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP tool server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Host address (overrides config)"},
			&cli.IntFlag{Name: "port", Usage: "Port (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, store, extractor, logger, err := bootstrap(c, true)
			if err != nil {
				return err
			}
			defer store.Close()
			defer logger.Sync()

			if host := c.String("host"); host != "" {
				cfg.Host = host
			}
			if port := c.Int("port"); port > 0 {
				cfg.Port = port
			}

			trk := tracker.NewTracker(store, extractor, cfg.RecentReadings, logger)
			srv, err := server.NewHealthLogServer(&server.Config{
				Host:           cfg.Host,
				Port:           cfg.Port,
				ExtractTimeout: cfg.ExtractTimeout(),
			}, trk, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(ctx); err != nil {
					errCh <- err
				}
			}()

			select {
			case <-sigCh:
				logger.Info("received shutdown signal")
			case err := <-errCh:
				logger.Error("server error", zap.Error(err))
			}

			cancel()
			return srv.Stop()
		},
	}
}

func chatCmd() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Run one interactive check-in on the terminal",
		Action: func(c *cli.Context) error {
			cfg, store, extractor, logger, err := bootstrap(c, true)
			if err != nil {
				return err
			}
			defer store.Close()
			defer logger.Sync()

			trk := tracker.NewTracker(store, extractor, cfg.RecentReadings, logger)
			session := chat.NewSession(trk, os.Stdin, os.Stdout, cfg.ExtractTimeout())
			return session.Run(c.Context)
		},
	}
}

func registerCmd() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Register or update a user so check-ins can resolve their identity",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user-id", Required: true, Usage: "External user key"},
			&cli.StringFlag{Name: "first-name", Required: true, Usage: "First name"},
			&cli.StringFlag{Name: "last-name", Required: true, Usage: "Last name"},
			&cli.StringFlag{Name: "diet", Usage: "Dietary preference (e.g. vegetarian)"},
			&cli.StringFlag{Name: "conditions", Usage: "Medical conditions (e.g. Type 2 Diabetes)"},
		},
		Action: func(c *cli.Context) error {
			cfg, store, _, logger, err := bootstrap(c, false)
			if err != nil {
				return err
			}
			defer store.Close()
			defer logger.Sync()

			trk := tracker.NewTracker(store, nil, cfg.RecentReadings, logger)
			err = trk.Register(
				&models.Identity{
					UserID:    c.String("user-id"),
					FirstName: c.String("first-name"),
					LastName:  c.String("last-name"),
				},
				&models.Profile{
					DietaryPreference: c.String("diet"),
					MedicalConditions: c.String("conditions"),
				},
			)
			if err != nil {
				return err
			}

			fmt.Printf("registered user %s\n", c.String("user-id"))
			return nil
		},
	}
}
