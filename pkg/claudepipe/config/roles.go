package config

import (
	"fmt"
	"time"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// Role is a named preset of query options. Roles may extend one another;
// a child's fields win over the parent's.
type Role struct {
	Extends         string              `json:"extends,omitempty"`
	Model           string              `json:"model,omitempty"`
	SystemPrompt    string              `json:"systemPrompt,omitempty"`
	AllowedTools    []string            `json:"allowedTools,omitempty"`
	DisallowedTools []string            `json:"disallowedTools,omitempty"`
	PermissionMode  string              `json:"permissionMode,omitempty"`
	ContextFiles    []string            `json:"contextFiles,omitempty"`
	Temperature     *float64            `json:"temperature,omitempty"`
	MaxTokens       *int                `json:"maxTokens,omitempty"`
	MCPPermissions  map[string][]string `json:"mcpPermissions,omitempty"`
}

// ResolveRole flattens a role's inheritance chain into a single role.
// Unknown names and inheritance cycles are validation errors.
func (s *Settings) ResolveRole(name string) (*Role, error) {
	seen := map[string]bool{}
	chain := []Role{}

	for current := name; current != ""; {
		if seen[current] {
			return nil, piperrs.NewValidationError(piperrs.ErrCodeRoleCycle,
				fmt.Sprintf("role %q participates in an inheritance cycle", current), "role")
		}
		seen[current] = true

		role, ok := s.Roles[current]
		if !ok {
			return nil, piperrs.NewValidationError(piperrs.ErrCodeInvalidConfig,
				fmt.Sprintf("role %q is not defined", current), "role")
		}
		chain = append(chain, role)
		current = role.Extends
	}

	// Apply root-first so children override ancestors.
	resolved := &Role{}
	for i := len(chain) - 1; i >= 0; i-- {
		resolved.overlay(&chain[i])
	}

	return resolved, nil
}

func (r *Role) overlay(child *Role) {
	if child.Model != "" {
		r.Model = child.Model
	}
	if child.SystemPrompt != "" {
		r.SystemPrompt = child.SystemPrompt
	}
	if child.AllowedTools != nil {
		r.AllowedTools = child.AllowedTools
	}
	if child.DisallowedTools != nil {
		r.DisallowedTools = child.DisallowedTools
	}
	if child.PermissionMode != "" {
		r.PermissionMode = child.PermissionMode
	}
	if child.ContextFiles != nil {
		r.ContextFiles = child.ContextFiles
	}
	if child.Temperature != nil {
		r.Temperature = child.Temperature
	}
	if child.MaxTokens != nil {
		r.MaxTokens = child.MaxTokens
	}
	if child.MCPPermissions != nil {
		r.MCPPermissions = mergeListMaps(r.MCPPermissions, child.MCPPermissions)
	}
}

// ApplyRole resolves the named role and overlays it onto opts, returning
// a new options value. Fields explicitly set on opts keep precedence over
// the role.
func (s *Settings) ApplyRole(name string, opts *options.QueryOptions) (*options.QueryOptions, error) {
	role, err := s.ResolveRole(name)
	if err != nil {
		return nil, err
	}

	merged := opts.Clone()
	merged.Role = &name

	if merged.Model == nil && role.Model != "" {
		model := role.Model
		merged.Model = &model
	}
	if merged.AllowedTools == nil {
		merged.AllowedTools = append([]string(nil), role.AllowedTools...)
	}
	if merged.DisallowedTools == nil {
		merged.DisallowedTools = append([]string(nil), role.DisallowedTools...)
	}
	if merged.PermissionMode == nil && role.PermissionMode != "" {
		mode := options.PermissionMode(role.PermissionMode)
		merged.PermissionMode = &mode
	}
	if merged.ContextFiles == nil {
		merged.ContextFiles = append([]string(nil), role.ContextFiles...)
	}
	if merged.Temperature == nil {
		merged.Temperature = role.Temperature
	}
	if merged.MaxTokens == nil {
		merged.MaxTokens = role.MaxTokens
	}
	if role.MCPPermissions != nil {
		merged.MCPPermissions = mergeListMaps(role.MCPPermissions, merged.MCPPermissions)
	}

	return merged, nil
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
