// Package main demonstrates the one-call path: run a prompt, wait for
// completion, print the aggregate views.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/claudepipe/claudepipe/pkg/claudepipe"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
)

func main() {
	model := "claude-sonnet-4-5"
	opts := &options.QueryOptions{
		Model:   &model,
		Timeout: 2 * time.Minute,
	}

	client := claudepipe.NewClient()
	query, err := client.Query(context.Background(), "What is the capital of France?", opts)
	if err != nil {
		log.Fatalf("start query: %v", err)
	}
	defer func() { _ = query.Close() }()

	resp := query.Response()

	text, err := resp.Text()
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	fmt.Println(text)

	if usage, _ := resp.Usage(); usage != nil {
		fmt.Printf("\n%d tokens (%d in, %d out)\n",
			usage.TotalTokens(), usage.InputTokens, usage.OutputTokens)
	}
	ok, _ := resp.Success()
	fmt.Println("success:", ok)
}
