package options

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func TestCloneIsDeep(t *testing.T) {
	original := &QueryOptions{
		Model:        ptr.To("claude-sonnet-4-5"),
		AllowedTools: []string{"Read", "Bash"},
		Env:          map[string]string{"KEY": "value"},
		ContextFiles: []string{"a.md"},
		Timeout:      time.Minute,
		MCPServers: map[string]MCPServerConfig{
			"files": StdioServerConfig{Command: "npx"},
		},
		MCPPermissions: map[string][]string{"files": {"read_file"}},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.AllowedTools[0] = "Edit"
	clone.Env["KEY"] = "changed"
	clone.MCPPermissions["files"][0] = "write_file"
	*clone.Model = "other"

	assert.Equal(t, "Read", original.AllowedTools[0])
	assert.Equal(t, "value", original.Env["KEY"])
	assert.Equal(t, "read_file", original.MCPPermissions["files"][0])

	// Pointer fields are shared; callers replace pointers, not pointees.
	assert.Equal(t, "other", *original.Model)
}

func TestCloneNil(t *testing.T) {
	var opts *QueryOptions
	clone := opts.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, &QueryOptions{}, clone)
}

func TestPermissionModeValid(t *testing.T) {
	valid := []PermissionMode{
		PermissionModeDefault,
		PermissionModeAcceptEdits,
		PermissionModePlan,
		PermissionModeBypassPermissions,
		PermissionModeAsk,
	}
	for _, mode := range valid {
		assert.True(t, mode.Valid(), string(mode))
	}
	assert.False(t, PermissionMode("yolo").Valid())
	assert.False(t, PermissionMode("").Valid())
}

func TestServerConfigSerialization(t *testing.T) {
	tests := []struct {
		name string
		cfg  MCPServerConfig
		want string
	}{
		{
			name: "stdio",
			cfg:  StdioServerConfig{Command: "npx", Args: []string{"-y", "server"}},
			want: `{"type":"stdio","command":"npx","args":["-y","server"]}`,
		},
		{
			name: "sse",
			cfg:  SSEServerConfig{URL: "https://example.com/sse"},
			want: `{"type":"sse","url":"https://example.com/sse"}`,
		},
		{
			name: "http",
			cfg:  HTTPServerConfig{URL: "https://example.com/mcp"},
			want: `{"type":"http","url":"https://example.com/mcp"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.cfg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestSerializable(t *testing.T) {
	assert.True(t, Serializable(StdioServerConfig{Command: "npx"}))
	assert.True(t, Serializable(SSEServerConfig{URL: "u"}))
	assert.True(t, Serializable(HTTPServerConfig{URL: "u"}))
	assert.False(t, Serializable(SDKServerConfig{}))
}
