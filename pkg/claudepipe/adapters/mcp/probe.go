// Package mcp preflights configured MCP servers before a query starts.
// The CLI connects to these servers itself; probing them first turns a
// misconfigured command or dead endpoint into an immediate, attributable
// error instead of an opaque mid-query failure.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// clientInfo identifies this probe to the servers it connects to.
var clientInfo = &mcp.Implementation{
	Name:    "claudepipe-probe",
	Version: "0.1.0",
}

// Result is the outcome of probing a single server.
type Result struct {
	// Server is the configured server name.
	Server string
	// Tools lists the tool names the server advertised.
	Tools []string
	// Missing lists allow-listed tools the server did not advertise.
	Missing []string
	// Err is the connection or listing failure, if any.
	Err error
}

// Probe connects to every externally-reachable server in servers
// concurrently, lists its tools, and checks them against the per-server
// allow-list. In-process servers are skipped: they run inside this
// process and have no endpoint to dial. Results come back sorted by
// server name; per-server failures are reported in the Result rather
// than aborting the whole probe.
func Probe(ctx context.Context, servers map[string]options.MCPServerConfig, allowed map[string][]string) []Result {
	names := make([]string, 0, len(servers))
	for name, cfg := range servers {
		if _, ok := cfg.(options.SDKServerConfig); ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]Result, len(names))
	group, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		group.Go(func() error {
			results[i] = probeOne(ctx, name, servers[name], allowed[name])

			return nil
		})
	}
	_ = group.Wait()

	return results
}

func probeOne(ctx context.Context, name string, cfg options.MCPServerConfig, allowed []string) Result {
	result := Result{Server: name}

	transport, err := transportFor(cfg)
	if err != nil {
		result.Err = err

		return result
	}

	client := mcp.NewClient(clientInfo, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		result.Err = piperrs.NewConnectionError(piperrs.ErrCodeSpawnFailed,
			fmt.Sprintf("connect to MCP server %q", name), err)

		return result
	}
	defer func() { _ = session.Close() }()

	for tool, err := range session.Tools(ctx, &mcp.ListToolsParams{}) {
		if err != nil {
			result.Err = piperrs.NewConnectionError(piperrs.ErrCodeStreamError,
				fmt.Sprintf("list tools on MCP server %q", name), err)

			return result
		}
		result.Tools = append(result.Tools, tool.Name)
	}
	sort.Strings(result.Tools)

	for _, want := range allowed {
		if !slices.Contains(result.Tools, want) {
			result.Missing = append(result.Missing, want)
		}
	}

	return result
}

// transportFor maps a server configuration onto the matching client
// transport.
func transportFor(cfg options.MCPServerConfig) (mcp.Transport, error) {
	switch c := cfg.(type) {
	case options.StdioServerConfig:
		cmd := exec.Command(c.Command, c.Args...)
		cmd.Env = os.Environ()
		for k, v := range c.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}

		return &mcp.CommandTransport{Command: cmd}, nil
	case options.SSEServerConfig:
		return &mcp.SSEClientTransport{Endpoint: c.URL}, nil
	case options.HTTPServerConfig:
		return &mcp.StreamableClientTransport{Endpoint: c.URL}, nil
	default:
		return nil, piperrs.NewValidationError(piperrs.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported MCP server configuration %T", cfg), "mcpServers")
	}
}

// Healthy reports whether every probed server connected and advertised
// all of its allow-listed tools.
func Healthy(results []Result) bool {
	for _, r := range results {
		if r.Err != nil || len(r.Missing) > 0 {
			return false
		}
	}

	return true
}
