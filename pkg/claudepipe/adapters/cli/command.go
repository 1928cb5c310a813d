package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
)

// entrypointVar marks subprocess invocations as originating from this SDK.
// It is always injected and can never be overridden by caller env.
const entrypointVar = "CLAUDE_CODE_ENTRYPOINT=sdk-go"

// BuildCommand constructs the full argument vector for the CLI. It is a
// pure function of its inputs: identical options always produce the same
// argv. Exported for testing.
func BuildCommand(cliPath string, opts *options.QueryOptions) ([]string, error) {
	// Base command and the fixed streaming flags.
	cmd := []string{
		cliPath,
		"--output-format", "stream-json",
		"--verbose",
		"--print",
	}

	cmd = addModel(cmd, opts)
	cmd = addTools(cmd, opts)
	cmd = addPermissions(cmd, opts)
	cmd = addSessionAndSettings(cmd, opts)
	cmd = addContextFiles(cmd, opts)
	cmd = addGeneration(cmd, opts)

	// MCP descriptors require JSON marshaling and can error.
	cmd, err := addMCP(cmd, opts)
	if err != nil {
		return nil, err
	}

	return cmd, nil
}

func addModel(cmd []string, opts *options.QueryOptions) []string {
	if opts.Model != nil {
		cmd = append(cmd, "--model", *opts.Model)
	}

	return cmd
}

func addTools(cmd []string, opts *options.QueryOptions) []string {
	if len(opts.AllowedTools) > 0 {
		cmd = append(cmd, "--allowedTools", strings.Join(opts.AllowedTools, ","))
	}
	if len(opts.DisallowedTools) > 0 {
		cmd = append(cmd, "--disallowedTools", strings.Join(opts.DisallowedTools, ","))
	}

	return cmd
}

func addPermissions(cmd []string, opts *options.QueryOptions) []string {
	if opts.PermissionMode == nil {
		return cmd
	}

	cmd = append(cmd, "--permission-mode", string(*opts.PermissionMode))
	if *opts.PermissionMode == options.PermissionModeBypassPermissions {
		cmd = append(cmd, "--dangerously-skip-permissions")
	}

	return cmd
}

func addSessionAndSettings(cmd []string, opts *options.QueryOptions) []string {
	if opts.Resume != nil {
		cmd = append(cmd, "--resume", *opts.Resume)
	}
	if opts.SettingsPath != nil {
		cmd = append(cmd, "--settings", *opts.SettingsPath)
	}
	if opts.Role != nil {
		cmd = append(cmd, "--role", *opts.Role)
	}

	return cmd
}

func addContextFiles(cmd []string, opts *options.QueryOptions) []string {
	for _, path := range opts.ContextFiles {
		cmd = append(cmd, "--add-context", path)
	}

	return cmd
}

func addGeneration(cmd []string, opts *options.QueryOptions) []string {
	if opts.Temperature != nil {
		cmd = append(cmd, "--temperature", strconv.FormatFloat(*opts.Temperature, 'g', -1, 64))
	}
	if opts.MaxTokens != nil {
		cmd = append(cmd, "--max-tokens", strconv.Itoa(*opts.MaxTokens))
	}

	return cmd
}

func addMCP(cmd []string, opts *options.QueryOptions) ([]string, error) {
	servers := make(map[string]options.MCPServerConfig)
	for name, cfg := range opts.MCPServers {
		if options.Serializable(cfg) {
			servers[name] = cfg
		}
	}

	if len(servers) > 0 {
		// The CLI expects the servers wrapped in a top-level object.
		payload, err := json.Marshal(map[string]any{"mcpServers": servers})
		if err != nil {
			return nil, fmt.Errorf("marshal mcp config: %w", err)
		}
		cmd = append(cmd, "--mcp-config", string(payload))
	}

	if len(opts.MCPPermissions) > 0 {
		payload, err := json.Marshal(opts.MCPPermissions)
		if err != nil {
			return nil, fmt.Errorf("marshal mcp permissions: %w", err)
		}
		cmd = append(cmd, "--mcp-permissions", string(payload))
	}

	return cmd, nil
}

// BuildEnvironment merges the inherited environment with caller overrides
// and injects the SDK entrypoint marker last so it always wins. Exported
// for testing.
func BuildEnvironment(opts *options.QueryOptions) []string {
	env := os.Environ()
	for k, v := range opts.Env {
		env = append(env, k+"="+v)
	}
	env = append(env, entrypointVar)

	return env
}
