// Package chatroutes is the Go client for the ChatRoutes conversational API.
//
// A Client groups four resources: Conversations, Messages, Branches and
// Checkpoints. All calls except Messages.Stream are single JSON round trips
// whose responses arrive in a {success, data, message} envelope. Streaming
// is delegated to the stream package, which folds the incremental chunks into
// the same SendMessageResponse a plain Send returns.
//
//	client, err := chatroutes.New(chatroutes.Config{APIKey: os.Getenv("CHATROUTES_API_KEY")})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	conv, err := client.Conversations.Create(ctx, types.CreateConversationRequest{Title: "Notes"})
//	...
//	err = client.Messages.Stream(ctx, conv.ID, types.SendMessageRequest{Content: "Hello"}, stream.ObserverFuncs{
//		Chunk:    func(c types.StreamChunk) { fmt.Print(stream.ContentOf(c)) },
//		Complete: func(r *types.SendMessageResponse) { fmt.Println() },
//	})
package chatroutes
