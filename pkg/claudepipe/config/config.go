// Package config loads SDK settings and role definitions from JSON or
// YAML files and resolves role inheritance. It is peripheral glue: its
// only job is to produce QueryOptions values for the transport.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// Settings is the on-disk configuration shape. Field semantics mirror
// options.QueryOptions; absent fields inherit from lower-precedence
// files or the built-in zero defaults.
type Settings struct {
	Model           string              `json:"model,omitempty"`
	AllowedTools    []string            `json:"allowedTools,omitempty"`
	DisallowedTools []string            `json:"disallowedTools,omitempty"`
	PermissionMode  string              `json:"permissionMode,omitempty"`
	Env             map[string]string   `json:"env,omitempty"`
	ContextFiles    []string            `json:"contextFiles,omitempty"`
	Temperature     *float64            `json:"temperature,omitempty"`
	MaxTokens       *int                `json:"maxTokens,omitempty"`
	TimeoutSeconds  int                 `json:"timeoutSeconds,omitempty"`
	Roles           map[string]Role     `json:"roles,omitempty"`
	MCPPermissions  map[string][]string `json:"mcpPermissions,omitempty"`
}

// Load reads a settings file. The extension selects the decoder; YAML is
// converted through sigs.k8s.io/yaml so both formats share the JSON tags.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var settings Settings
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(raw, &settings); err != nil {
			return nil, piperrs.NewValidationError(piperrs.ErrCodeInvalidConfig,
				fmt.Sprintf("parse settings %s: %v", path, err), "settings")
		}
	default:
		return nil, piperrs.NewValidationError(piperrs.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported settings format %q", filepath.Ext(path)), "settings")
	}

	return &settings, nil
}

// Merge deep-merges override onto base and returns the result. Scalars
// and lists from override win outright; maps merge recursively per key.
func Merge(base, override *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if override == nil {
		override = &Settings{}
	}

	merged := *base

	if override.Model != "" {
		merged.Model = override.Model
	}
	if override.AllowedTools != nil {
		merged.AllowedTools = override.AllowedTools
	}
	if override.DisallowedTools != nil {
		merged.DisallowedTools = override.DisallowedTools
	}
	if override.PermissionMode != "" {
		merged.PermissionMode = override.PermissionMode
	}
	if override.ContextFiles != nil {
		merged.ContextFiles = override.ContextFiles
	}
	if override.Temperature != nil {
		merged.Temperature = override.Temperature
	}
	if override.MaxTokens != nil {
		merged.MaxTokens = override.MaxTokens
	}
	if override.TimeoutSeconds != 0 {
		merged.TimeoutSeconds = override.TimeoutSeconds
	}

	merged.Env = mergeStringMaps(base.Env, override.Env)
	merged.MCPPermissions = mergeListMaps(base.MCPPermissions, override.MCPPermissions)

	if override.Roles != nil {
		merged.Roles = make(map[string]Role, len(base.Roles)+len(override.Roles))
		for name, role := range base.Roles {
			merged.Roles[name] = role
		}
		for name, role := range override.Roles {
			merged.Roles[name] = role
		}
	}

	return &merged
}

func mergeStringMaps(base, override map[string]string) map[string]string {
	if base == nil && override == nil {
		return nil
	}
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}

	return merged
}

func mergeListMaps(base, override map[string][]string) map[string][]string {
	if base == nil && override == nil {
		return nil
	}
	merged := make(map[string][]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}

	return merged
}

// Options converts resolved settings into query options.
func (s *Settings) Options() *options.QueryOptions {
	opts := &options.QueryOptions{
		AllowedTools:    append([]string(nil), s.AllowedTools...),
		DisallowedTools: append([]string(nil), s.DisallowedTools...),
		ContextFiles:    append([]string(nil), s.ContextFiles...),
		Env:             mergeStringMaps(nil, s.Env),
		Temperature:     s.Temperature,
		MaxTokens:       s.MaxTokens,
		MCPPermissions:  mergeListMaps(nil, s.MCPPermissions),
	}
	if s.Model != "" {
		model := s.Model
		opts.Model = &model
	}
	if s.PermissionMode != "" {
		mode := options.PermissionMode(s.PermissionMode)
		opts.PermissionMode = &mode
	}
	if s.TimeoutSeconds > 0 {
		opts.Timeout = secondsToDuration(s.TimeoutSeconds)
	}

	return opts
}
