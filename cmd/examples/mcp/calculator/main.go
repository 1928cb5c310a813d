// Package main demonstrates MCP server configuration: an external stdio
// server plus an in-process server, with a preflight probe before the
// query starts.
package main

import (
	"context"
	"fmt"
	"log"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claudepipe/claudepipe/pkg/claudepipe"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/adapters/mcp"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
)

func main() {
	calculator := mcpserver.NewMCPServer("calculator", "1.0.0")

	opts := &options.QueryOptions{
		MCPServers: map[string]options.MCPServerConfig{
			// Spawned by the CLI as a subprocess.
			"files": options.StdioServerConfig{
				Command: "npx",
				Args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/tmp"},
			},
			// Lives inside this process; excluded from the CLI config.
			"calculator": options.SDKServerConfig{Instance: calculator},
		},
		MCPPermissions: map[string][]string{
			"files": {"read_file", "list_directory"},
		},
	}

	ctx := context.Background()

	// Fail fast on dead or misconfigured servers before paying for a query.
	results := mcp.Probe(ctx, opts.MCPServers, opts.MCPPermissions)
	for _, r := range results {
		if r.Err != nil {
			log.Fatalf("MCP server %s unreachable: %v", r.Server, r.Err)
		}
		fmt.Printf("%s: %d tools\n", r.Server, len(r.Tools))
	}

	client := claudepipe.NewClient()
	text, err := client.QueryText(ctx, "List the files in /tmp.", opts)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	fmt.Println(text)
}
