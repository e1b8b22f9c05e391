package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chatroutes/chatroutes-go/chatroutes"
	"github.com/chatroutes/chatroutes-go/stream"
	"github.com/chatroutes/chatroutes-go/types"
)

const chatLongDesc = `Send a prompt and stream the reply to stdout as it is generated.

Without --conversation a new conversation is created, titled after the prompt.
With --parallel every argument is a separate prompt; the prompts are streamed
concurrently into their own conversations and printed in argument order.

Examples:
  chatroutes chat "What is a monad?"
  chatroutes chat -c conv_123 -m gpt-5 "Give an example"
  chatroutes chat --parallel "Define latency" "Define throughput"`

type chatOptions struct {
	conversationID string
	branchID       string
	model          string
	temperature    float64
	parallel       bool
	limit          int
}

func newChatCmd(a *app) *cobra.Command {
	var opts chatOptions

	cmd := &cobra.Command{
		Use:   "chat [prompt...]",
		Short: "Stream a reply to a prompt",
		Long:  chatLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			req := opts.request()
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &opts.temperature
			}
			if !opts.parallel {
				return streamOne(cmd.Context(), client, cmd.OutOrStdout(), opts.conversationID, req, strings.Join(args, " "))
			}
			if opts.conversationID != "" {
				return fmt.Errorf("--parallel starts one conversation per prompt and cannot be combined with --conversation")
			}
			return streamParallel(cmd.Context(), client, cmd.OutOrStdout(), req, args, opts.limit)
		},
	}

	cmd.Flags().StringVarP(&opts.conversationID, "conversation", "c", "", "Conversation id (default: create a new conversation)")
	cmd.Flags().StringVarP(&opts.branchID, "branch", "b", "", "Branch id (default: main branch)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model name")
	cmd.Flags().Float64VarP(&opts.temperature, "temperature", "t", 0, "Sampling temperature (0-2)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Stream each argument as its own prompt, concurrently")
	cmd.Flags().IntVar(&opts.limit, "limit", 4, "Maximum concurrent streams with --parallel")
	return cmd
}

func (o chatOptions) request() types.SendMessageRequest {
	return types.SendMessageRequest{Model: o.model, BranchID: o.branchID}
}

// ensureConversation returns conversationID, creating a conversation when empty.
func ensureConversation(ctx context.Context, client *chatroutes.Client, conversationID, prompt, model string) (string, error) {
	if conversationID != "" {
		return conversationID, nil
	}
	conv, err := client.Conversations.Create(ctx, types.CreateConversationRequest{Title: titleFor(prompt), Model: model})
	if err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}
	return conv.ID, nil
}

func titleFor(prompt string) string {
	const maxTitle = 60
	title := strings.Join(strings.Fields(prompt), " ")
	if r := []rune(title); len(r) > maxTitle {
		title = string(r[:maxTitle-3]) + "..."
	}
	return title
}

// streamOne streams a single prompt, writing content as it arrives.
func streamOne(ctx context.Context, client *chatroutes.Client, w io.Writer, conversationID string, req types.SendMessageRequest, prompt string) error {
	id, err := ensureConversation(ctx, client, conversationID, prompt, req.Model)
	if err != nil {
		return err
	}
	req.Content = prompt

	resp, err := client.Messages.StreamAndWait(ctx, id, req, func(c types.StreamChunk) {
		fmt.Fprint(w, stream.ContentOf(c))
	})
	fmt.Fprintln(w)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n[conversation %s, message %s, %s]\n", id, resp.AssistantMessage.ID, resp.Model)
	return nil
}

// streamParallel streams every prompt into its own conversation and prints
// the replies in prompt order once all of them are done.
func streamParallel(ctx context.Context, client *chatroutes.Client, w io.Writer, req types.SendMessageRequest, prompts []string, limit int) error {
	outputs := make([]bytes.Buffer, len(prompts))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, prompt := range prompts {
		g.Go(func() error {
			if err := streamOne(gctx, client, &outputs[i], "", req, prompt); err != nil {
				return fmt.Errorf("prompt %d: %w", i+1, err)
			}
			return nil
		})
	}
	err := g.Wait()

	for i := range outputs {
		fmt.Fprintf(w, "== %d: %s\n", i+1, titleFor(prompts[i]))
		_, _ = outputs[i].WriteTo(w)
	}
	return err
}
