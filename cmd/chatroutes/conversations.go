package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatroutes/chatroutes-go/types"
)

func newConversationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv", "c"},
		Short:   "Manage conversations",
	}
	cmd.AddCommand(
		newConversationsListCmd(a),
		newConversationsGetCmd(a),
		newConversationsCreateCmd(a),
		newConversationsRenameCmd(a),
		newConversationsDeleteCmd(a),
		newConversationsTreeCmd(a),
		newConversationsMessagesCmd(a),
	)
	return cmd
}

func newConversationsListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			list, err := client.Conversations.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, list)
			}
			t := newTable(out, "ID", "TITLE", "MODEL", "UPDATED")
			for _, c := range list.Conversations {
				t.row(c.ID, truncate(c.Title, 50), orDash(c.Model), formatTime(c.UpdatedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d conversation(s)\n", list.Total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newConversationsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <conversation-id>",
		Short: "Show a conversation as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			conv, err := client.Conversations.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), conv)
		},
	}
}

func newConversationsCreateCmd(a *app) *cobra.Command {
	var model string
	cmd := &cobra.Command{
		Use:   "create <title...>",
		Short: "Create a conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			conv, err := client.Conversations.Create(cmd.Context(), types.CreateConversationRequest{
				Title: strings.Join(args, " "),
				Model: model,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), conv.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Default model for the conversation")
	return cmd
}

func newConversationsRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <conversation-id> <title...>",
		Short: "Rename a conversation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			conv, err := client.Conversations.Update(cmd.Context(), args[0], types.UpdateConversationRequest{
				Title: strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s renamed to %q\n", conv.ID, conv.Title)
			return nil
		},
	}
}

func newConversationsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id>...",
		Short: "Delete conversations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			for _, id := range args {
				if err := client.Conversations.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("deleting %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}

func newConversationsTreeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tree <conversation-id>",
		Short: "Show the message tree of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			tree, err := client.Conversations.Tree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, tree)
			}
			fmt.Fprintf(out, "%s (%d nodes, %d branches, depth %d)\n",
				tree.Conversation.Title, tree.Metadata.TotalNodes, tree.Metadata.TotalBranches, tree.Metadata.MaxDepth)
			printTree(cmd, tree.MainBranch, 1)
			for _, b := range tree.Branches {
				if b.IsMain {
					continue
				}
				fmt.Fprintf(out, "  branch %s %q forked at %s\n", b.ID, b.Title, orDash(b.ForkPointMessageID))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printTree(cmd *cobra.Command, nodes []types.TreeNode, indent int) {
	for _, n := range nodes {
		role, content := "?", ""
		if n.Message != nil {
			role, content = n.Message.Role, n.Message.Content
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s: %s\n", strings.Repeat("  ", indent), role, truncate(content, 70))
		printTree(cmd, n.Children, indent+1)
	}
}

func newConversationsMessagesCmd(a *app) *cobra.Command {
	var (
		branchID string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "messages <conversation-id>",
		Short: "List the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			msgs, err := client.Messages.List(cmd.Context(), args[0], branchID)
			if err != nil {
				return err
			}
			return printMessages(cmd, msgs, asJSON)
		},
	}
	cmd.Flags().StringVarP(&branchID, "branch", "b", "", "Branch id (default: main branch)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printMessages(cmd *cobra.Command, msgs []types.Message, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, msgs)
	}
	t := newTable(out, "ID", "ROLE", "CONTENT", "CREATED")
	for _, m := range msgs {
		t.row(m.ID, m.Role, truncate(m.Content, 60), formatTime(m.CreatedAt))
	}
	return t.flush()
}
