package options

import (
	"encoding/json"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// MCPServerConfig is the union over MCP server configurations. External
// servers (stdio, SSE, HTTP) serialize into the --mcp-config flag;
// in-process SDK servers are excluded from serialization and used only by
// preflight probing.
type MCPServerConfig interface {
	mcpServerConfig()
}

// StdioServerConfig configures an external MCP server spawned as a
// subprocess speaking the stdio transport.
type StdioServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

func (StdioServerConfig) mcpServerConfig() {}

// MarshalJSON tags the config with its transport type.
func (c StdioServerConfig) MarshalJSON() ([]byte, error) {
	type alias StdioServerConfig

	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "stdio", alias: alias(c)})
}

// SSEServerConfig configures an external MCP server reached over
// Server-Sent Events.
type SSEServerConfig struct {
	URL string `json:"url"`
}

func (SSEServerConfig) mcpServerConfig() {}

// MarshalJSON tags the config with its transport type.
func (c SSEServerConfig) MarshalJSON() ([]byte, error) {
	type alias SSEServerConfig

	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "sse", alias: alias(c)})
}

// HTTPServerConfig configures an external MCP server reached over plain
// HTTP.
type HTTPServerConfig struct {
	URL string `json:"url"`
}

func (HTTPServerConfig) mcpServerConfig() {}

// MarshalJSON tags the config with its transport type.
func (c HTTPServerConfig) MarshalJSON() ([]byte, error) {
	type alias HTTPServerConfig

	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{Type: "http", alias: alias(c)})
}

// SDKServerConfig holds an in-process MCP server instance. It never
// serializes into --mcp-config; it exists so preflight checks and future
// in-process routing can reach the live server.
type SDKServerConfig struct {
	Instance *mcpserver.MCPServer
}

func (SDKServerConfig) mcpServerConfig() {}

// Serializable reports whether cfg can be rendered into the --mcp-config
// JSON payload.
func Serializable(cfg MCPServerConfig) bool {
	_, sdk := cfg.(SDKServerConfig)

	return !sdk
}
