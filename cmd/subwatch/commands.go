package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vincentbai/subwatch/internal/client"
	"github.com/vincentbai/subwatch/internal/config"
	"github.com/vincentbai/subwatch/internal/console"
	"github.com/vincentbai/subwatch/internal/database"
	"github.com/vincentbai/subwatch/internal/logging"
	"github.com/vincentbai/subwatch/internal/models"
	"github.com/vincentbai/subwatch/internal/monitor"
	"github.com/vincentbai/subwatch/internal/reddit"
	"github.com/vincentbai/subwatch/internal/responder"
	"github.com/vincentbai/subwatch/internal/server"
)

type app struct {
	configPath     string
	apiURL         string
	address        string
	consoleAddress string
	databasePath   string
	verbose        bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "subwatch",
		Short:         "Watch a subreddit for keywords and reply with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := a.applyFlags(cfg); err != nil {
				return err
			}
			level := cfg.LogLevel
			if a.verbose {
				level = "debug"
			}
			logger, err := logging.New(level, cfg.LogJSON)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "subwatch API base URL")
	root.PersistentFlags().StringVar(&a.address, "address", "", "API listen address")
	root.PersistentFlags().StringVar(&a.consoleAddress, "console-address", "", "dashboard listen address")
	root.PersistentFlags().StringVar(&a.databasePath, "database", "", "SQLite database path")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the JSON API and the subreddit monitor",
			Args:  cobra.NoArgs,
			RunE:  a.runServe,
		},
		&cobra.Command{
			Use:   "console",
			Short: "Run the monitoring dashboard",
			Args:  cobra.NoArgs,
			RunE:  a.runConsole,
		},
		&cobra.Command{
			Use:   "monitor <subreddit> <keywords>",
			Short: "Start monitoring a subreddit for comma separated keywords",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runMonitor,
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop monitoring",
			Args:  cobra.NoArgs,
			RunE:  a.runStop,
		},
		&cobra.Command{
			Use:   "interactions",
			Short: "Print stored interactions, newest first",
			Args:  cobra.NoArgs,
			RunE:  a.runInteractions,
		},
	)
	return root
}

// applyFlags overrides file and environment settings with any flags that were set.
func (a *app) applyFlags(cfg *config.Config) error {
	overrides := map[*string]string{
		&cfg.APIBaseURL:     a.apiURL,
		&cfg.Address:        a.address,
		&cfg.ConsoleAddress: a.consoleAddress,
		&cfg.DatabasePath:   a.databasePath,
	}
	for field, value := range overrides {
		if value != "" {
			*field = value
		}
	}
	return cfg.Validate()
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if err := os.MkdirAll(filepath.Dir(a.cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("failed to create application directory: %w", err)
	}
	db, err := database.NewDatabase(a.cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	forum, err := reddit.NewForum(a.cfg.Reddit)
	if err != nil {
		return err
	}
	llm, err := responder.NewGenAIResponder(ctx, a.cfg.LLM.APIKey, a.cfg.LLM.Model)
	if err != nil {
		return err
	}

	manager := monitor.NewManager(forum, llm, db, monitor.Options{
		PostLimit:     a.cfg.Monitor.PostLimit,
		PollInterval:  a.cfg.PollInterval(),
		ReplyInterval: a.cfg.ReplyInterval(),
		Logger:        a.logger,
	})
	defer manager.Stop()

	a.logger.Info("starting subwatch", zap.String("database", a.cfg.DatabasePath))
	return server.NewServer(db, manager, a.cfg.Address, a.logger).Start(ctx)
}

func (a *app) runConsole(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a.logger.Info("starting console", zap.String("api", a.cfg.APIBaseURL))
	return console.New(client.New(a.cfg.APIBaseURL), a.cfg.ConsoleAddress, a.logger).Start(ctx)
}

func (a *app) runMonitor(cmd *cobra.Command, args []string) error {
	reply, err := client.New(a.cfg.APIBaseURL).Monitor(cmd.Context(), models.MonitorRequest{
		SubredditName: args[0],
		Keywords:      args[1],
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(reply))
	return nil
}

func (a *app) runStop(cmd *cobra.Command, _ []string) error {
	reply, err := client.New(a.cfg.APIBaseURL).StopMonitoring(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(reply))
	return nil
}

func (a *app) runInteractions(cmd *cobra.Command, _ []string) error {
	interactions, err := client.New(a.cfg.APIBaseURL).Interactions(cmd.Context())
	if err != nil {
		return err
	}
	printInteractions(cmd.OutOrStdout(), interactions)
	return nil
}

func printInteractions(w io.Writer, interactions []models.Interaction) {
	for _, interaction := range interactions {
		fmt.Fprintf(w, "Post ID: %s\n%s\n%s\nResponse: %s\n\n",
			interaction.PostID, interaction.Title, interaction.Content, interaction.Response)
	}
}
