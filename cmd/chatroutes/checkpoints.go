package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatroutes/chatroutes-go/types"
)

func newCheckpointsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkpoints",
		Aliases: []string{"checkpoint", "cp"},
		Short:   "Manage context checkpoints",
	}
	cmd.AddCommand(
		newCheckpointsListCmd(a),
		newCheckpointsCreateCmd(a),
		newCheckpointsRecreateCmd(a),
		newCheckpointsDeleteCmd(a),
	)
	return cmd
}

func newCheckpointsListCmd(a *app) *cobra.Command {
	var (
		branchID string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list <conversation-id>",
		Short: "List checkpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			cps, err := client.Checkpoints.List(cmd.Context(), args[0], branchID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, cps)
			}
			t := newTable(out, "ID", "BRANCH", "ANCHOR", "TOKENS", "SUMMARY")
			for _, cp := range cps {
				t.row(cp.ID, cp.BranchID, cp.AnchorMessageID, cp.TokenCount, truncate(cp.Summary, 50))
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVarP(&branchID, "branch", "b", "", "Only checkpoints of this branch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newCheckpointsCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <conversation-id> <branch-id> <anchor-message-id>",
		Short: "Create a checkpoint summarising a branch up to a message",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			cp, err := client.Checkpoints.Create(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printCheckpoint(cmd, cp)
		},
	}
}

func newCheckpointsRecreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recreate <checkpoint-id>",
		Short: "Regenerate the summary of a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			cp, err := client.Checkpoints.Recreate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printCheckpoint(cmd, cp)
		},
	}
}

func printCheckpoint(cmd *cobra.Command, cp *types.Checkpoint) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d tokens)\n%s\n", cp.ID, cp.TokenCount, cp.Summary)
	return nil
}

func newCheckpointsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Checkpoints.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
