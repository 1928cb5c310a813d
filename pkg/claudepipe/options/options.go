package options

import "time"

// QueryOptions configures a single query. Every field is optional; absent
// fields emit no command-line flag. The zero value is a usable default
// configuration.
type QueryOptions struct {
	// Model selects the model identifier (--model).
	Model *string

	// AllowedTools restricts the CLI to the named tools (--allowedTools,
	// comma-joined).
	AllowedTools []string

	// DisallowedTools denies the named tools (--disallowedTools,
	// comma-joined).
	DisallowedTools []string

	// PermissionMode selects the permission behavior (--permission-mode).
	// PermissionModeBypassPermissions additionally emits
	// --dangerously-skip-permissions.
	PermissionMode *PermissionMode

	// Cwd is the working directory for the subprocess.
	Cwd *string

	// Env holds environment overrides merged over the inherited process
	// environment. The SDK entrypoint marker always wins over these.
	Env map[string]string

	// ContextFiles are additional context file paths, one --add-context
	// flag each.
	ContextFiles []string

	// Temperature sets the sampling temperature (--temperature).
	Temperature *float64

	// MaxTokens caps the response length (--max-tokens).
	MaxTokens *int

	// Timeout bounds the whole query. Expiry follows the same
	// cooperative-then-forceful termination path as cancellation and is
	// reported as an aborted error. Zero means no timeout.
	Timeout time.Duration

	// Resume continues a prior session by identifier (--resume).
	Resume *string

	// SettingsPath points at a configuration file (--settings).
	SettingsPath *string

	// Role names a role definition the CLI should assume (--role).
	Role *string

	// MCPServers configures MCP servers by name, JSON-encoded into a
	// single --mcp-config flag.
	MCPServers map[string]MCPServerConfig

	// MCPPermissions maps server names to allowed tool names,
	// JSON-encoded into a single --mcp-permissions flag.
	MCPPermissions map[string][]string

	// Verbose forwards subprocess stderr to the diagnostic sink.
	Verbose bool

	// CLIPath overrides executable discovery with an explicit path.
	CLIPath *string

	// MaxBufferSize caps a single stdout line, in bytes. Zero uses the
	// transport default.
	MaxBufferSize int
}

// Clone returns a deep copy so a caller-held options value cannot mutate
// a query after it started.
func (o *QueryOptions) Clone() *QueryOptions {
	if o == nil {
		return &QueryOptions{}
	}

	dup := *o
	dup.AllowedTools = append([]string(nil), o.AllowedTools...)
	dup.DisallowedTools = append([]string(nil), o.DisallowedTools...)
	dup.ContextFiles = append([]string(nil), o.ContextFiles...)

	if o.Env != nil {
		dup.Env = make(map[string]string, len(o.Env))
		for k, v := range o.Env {
			dup.Env[k] = v
		}
	}
	if o.MCPServers != nil {
		dup.MCPServers = make(map[string]MCPServerConfig, len(o.MCPServers))
		for k, v := range o.MCPServers {
			dup.MCPServers[k] = v
		}
	}
	if o.MCPPermissions != nil {
		dup.MCPPermissions = make(map[string][]string, len(o.MCPPermissions))
		for k, v := range o.MCPPermissions {
			dup.MCPPermissions[k] = append([]string(nil), v...)
		}
	}

	return &dup
}
