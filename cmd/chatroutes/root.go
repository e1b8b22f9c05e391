package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chatroutes/chatroutes-go/chatroutes"
	"github.com/chatroutes/chatroutes-go/config"
	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/observability"
)

const rootLongDesc = `chatroutes talks to the ChatRoutes conversational API.

Configuration is read from chatroutes.yml (or ~/.chatroutes/config.yml),
a .env file and CHATROUTES_* environment variables; flags win over all of them.

Examples:
  chatroutes chat "Summarise the plot of Hamlet"
  chatroutes chat -c conv_123 --branch br_456 "And the ending?"
  chatroutes conversations list
  chatroutes mock --port 8787`

// app carries the state shared by every subcommand.
type app struct {
	configFile string
	envFile    string
	apiKey     string
	baseURL    string
	logLevel   string
	debug      bool

	cfg      *config.Config
	shutdown observability.ShutdownFunc
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "chatroutes",
		Short:         "ChatRoutes API client",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(context.WithoutCancel(cmd.Context()))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default: search chatroutes.yml)")
	flags.StringVar(&a.envFile, "env-file", "", ".env file to load (default: search .env)")
	flags.StringVar(&a.apiKey, "api-key", "", "API key (overrides CHATROUTES_API_KEY)")
	flags.StringVar(&a.baseURL, "base-url", "", "API base URL")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")

	cmd.AddCommand(
		newChatCmd(a),
		newSendCmd(a),
		newConversationsCmd(a),
		newBranchesCmd(a),
		newCheckpointsCmd(a),
		newMockCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w\nrun '%s --help' for usage", err, c.CommandPath())
	})
	return cmd
}

// setup loads configuration and initialises logging and telemetry.
func (a *app) setup(cmd *cobra.Command) error {
	opts := []config.LoaderOption{
		config.WithConfigFile(a.configFile),
		config.WithEnvFile(a.envFile),
	}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		opts = append(opts, config.WithDefault("logging.format", logger.FormatConsole))
	}
	if a.apiKey != "" {
		opts = append(opts, config.WithOverride("client.api_key", a.apiKey))
	}
	if a.baseURL != "" {
		opts = append(opts, config.WithOverride("client.base_url", a.baseURL))
	}
	switch {
	case a.debug:
		opts = append(opts, config.WithOverride("logging.level", "debug"))
	case a.logLevel != "":
		opts = append(opts, config.WithOverride("logging.level", a.logLevel))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	shutdown, err := observability.Setup(cmd.Context(), cfg.Observability)
	if err != nil {
		return fmt.Errorf("initialising telemetry: %w", err)
	}
	a.shutdown = shutdown
	return nil
}

// client builds an API client from the loaded configuration.
func (a *app) client() (*chatroutes.Client, error) {
	if err := a.cfg.ValidateClient(); err != nil {
		return nil, err
	}
	return chatroutes.New(a.cfg.Client)
}
