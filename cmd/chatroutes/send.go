package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		opts   chatOptions
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "send [prompt...]",
		Short: "Send a prompt and print the complete reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			prompt := strings.Join(args, " ")
			req := opts.request()
			req.Content = prompt
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &opts.temperature
			}

			id, err := ensureConversation(ctx, client, opts.conversationID, prompt, opts.model)
			if err != nil {
				return err
			}
			resp, err := client.Messages.Send(ctx, id, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, resp)
			}
			fmt.Fprintln(out, resp.AssistantMessage.Content)
			if resp.Usage != nil {
				fmt.Fprintf(out, "\n[conversation %s, %s, %d tokens]\n", id, resp.Model, resp.Usage.TotalTokens)
			} else {
				fmt.Fprintf(out, "\n[conversation %s, %s]\n", id, resp.Model)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.conversationID, "conversation", "c", "", "Conversation id (default: create a new conversation)")
	cmd.Flags().StringVarP(&opts.branchID, "branch", "b", "", "Branch id (default: main branch)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model name")
	cmd.Flags().Float64VarP(&opts.temperature, "temperature", "t", 0, "Sampling temperature (0-2)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full response as JSON")
	return cmd
}
