package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatroutes/chatroutes-go/chatroutes"
	"github.com/chatroutes/chatroutes-go/types"
)

func newBranchesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"branch", "br"},
		Short:   "Manage the branches of a conversation",
	}
	cmd.AddCommand(
		newBranchesListCmd(a),
		newBranchesCreateCmd(a),
		newBranchesForkCmd(a),
		newBranchesMessagesCmd(a),
		newBranchesMergeCmd(a),
		newBranchesDeleteCmd(a),
	)
	return cmd
}

func newBranchesListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list <conversation-id>",
		Short: "List branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			branches, err := client.Branches.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printBranches(cmd, branches, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printBranches(cmd *cobra.Command, branches []types.Branch, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, branches)
	}
	t := newTable(out, "ID", "TITLE", "MAIN", "CONTEXT", "FORK POINT")
	for _, b := range branches {
		mark := ""
		if b.IsMain {
			mark = "*"
		}
		t.row(b.ID, truncate(b.Title, 40), mark, orDash(b.ContextMode), orDash(b.ForkPointMessageID))
	}
	return t.flush()
}

func newBranchesCreateCmd(a *app) *cobra.Command {
	var req types.CreateBranchRequest
	cmd := &cobra.Command{
		Use:   "create <conversation-id> <title...>",
		Short: "Create a branch",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			req.Title = strings.Join(args[1:], " ")
			req.ContextMode = strings.ToUpper(req.ContextMode)
			b, err := client.Branches.Create(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.ForkPointMessageID, "from", "", "Message id to branch from")
	cmd.Flags().StringVar(&req.ContextMode, "context", "", "Context mode: FULL, SUMMARY or NONE")
	cmd.Flags().StringVar(&req.Description, "description", "", "Branch description")
	return cmd
}

func newBranchesForkCmd(a *app) *cobra.Command {
	var req types.ForkConversationRequest
	cmd := &cobra.Command{
		Use:   "fork <conversation-id> <message-id>",
		Short: "Fork a conversation at a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			req.ForkPointMessageID = args[1]
			req.ContextMode = strings.ToUpper(req.ContextMode)
			b, err := client.Branches.Fork(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "Title of the new branch")
	cmd.Flags().StringVar(&req.ContextMode, "context", "", "Context mode: FULL, SUMMARY or NONE")
	return cmd
}

func newBranchesMessagesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "messages <conversation-id> <branch-id>",
		Short: "List the messages of a branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			msgs, err := client.Branches.Messages(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printMessages(cmd, msgs, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newBranchesMergeCmd(a *app) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "merge <conversation-id> <branch-id>",
		Short: "Merge a branch into another branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			if target == "" {
				if target, err = mainBranchID(ctx, client, args[0]); err != nil {
					return err
				}
			}
			b, err := client.Branches.Merge(ctx, args[0], args[1], types.MergeBranchRequest{TargetBranchID: target})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged %s into %s\n", args[1], b.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "into", "", "Target branch id (default: main branch)")
	return cmd
}

// mainBranchID looks up the main branch of a conversation.
func mainBranchID(ctx context.Context, client *chatroutes.Client, conversationID string) (string, error) {
	branches, err := client.Branches.List(ctx, conversationID)
	if err != nil {
		return "", err
	}
	for _, b := range branches {
		if b.IsMain {
			return b.ID, nil
		}
	}
	return "", fmt.Errorf("conversation %s has no main branch", conversationID)
}

func newBranchesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id> <branch-id>",
		Short: "Delete a branch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Branches.Delete(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[1])
			return nil
		},
	}
}
