// Package main demonstrates pull-based streaming: messages print as the
// subprocess emits them, and Ctrl-C interrupts the query cleanly.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/claudepipe/claudepipe/pkg/claudepipe"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := claudepipe.NewClient()
	query, err := client.Query(ctx, "Summarize the Go memory model in three paragraphs.", nil)
	if err != nil {
		log.Fatalf("start query: %v", err)
	}
	defer func() { _ = query.Close() }()

	for {
		msg, err := query.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if piperrs.IsAborted(err) {
				fmt.Fprintln(os.Stderr, "interrupted")
				return
			}
			log.Fatalf("stream failed: %v", err)
		}

		switch m := msg.(type) {
		case *messages.AssistantMessage:
			for _, block := range m.Content {
				if text, ok := block.(messages.TextBlock); ok {
					fmt.Println(text.Text)
				}
			}
		case *messages.ResultMessage:
			fmt.Printf("\n[session %s done]\n", m.SessionID)
		}
	}
}
