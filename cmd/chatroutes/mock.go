package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/mockserver"
)

const mockLongDesc = `Run an in-memory ChatRoutes API for local development and tests.

Conversations, branches, messages and checkpoints live in memory and are lost
on exit. Replies echo the prompt and are streamed word by word.

Point the client at it with:
  chatroutes --base-url http://127.0.0.1:8787/api/v1 --api-key anything chat "hello"`

func newMockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a local mock of the ChatRoutes API",
		Long:  mockLongDesc,
		Args:  cobra.NoArgs,
	}

	var (
		host       string
		port       int
		shape      string
		delay      time.Duration
		requireKey string
	)
	flags := cmd.Flags()
	flags.StringVar(&host, "host", "", "Address to bind (default 127.0.0.1)")
	flags.IntVarP(&port, "port", "p", 8787, "Port to bind (0 picks a free port)")
	flags.StringVar(&shape, "shape", "", "Stream chunk shape: choices or flat")
	flags.DurationVar(&delay, "delay", 0, "Delay between streamed chunks")
	flags.StringVar(&requireKey, "require-key", "", "Reject requests without this API key")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg := a.cfg.Mock
		if flags.Changed("host") {
			cfg.Host = host
		}
		if flags.Changed("port") || cfg.Port == 0 {
			cfg.Port = port
		}
		if flags.Changed("shape") {
			cfg.StreamShape = shape
		}
		if flags.Changed("delay") {
			cfg.ChunkDelay = delay
		}
		if flags.Changed("require-key") {
			cfg.APIKey = requireKey
		}

		srv, err := mockserver.New(cfg, logger.GetGlobalLogger())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if err := srv.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mock ChatRoutes API listening on %s\n", srv.URL())

		<-ctx.Done()
		return srv.Stop(context.WithoutCancel(ctx))
	}
	return cmd
}
