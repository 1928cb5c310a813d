// Package options defines the per-query configuration consumed by the
// transport. A QueryOptions value is constructed once, drives exactly one
// subprocess invocation, and is never mutated after the process starts.
package options

// PermissionMode controls how the CLI handles tool permission prompts.
type PermissionMode string

const (
	// PermissionModeDefault uses the CLI's default permission behavior.
	PermissionModeDefault PermissionMode = "default"
	// PermissionModeAcceptEdits automatically accepts file edits.
	PermissionModeAcceptEdits PermissionMode = "acceptEdits"
	// PermissionModePlan enables planning mode.
	PermissionModePlan PermissionMode = "plan"
	// PermissionModeBypassPermissions disables interactive permission
	// prompting entirely.
	PermissionModeBypassPermissions PermissionMode = "bypassPermissions"
	// PermissionModeAsk prompts before every tool use.
	PermissionModeAsk PermissionMode = "ask"
)

// Valid reports whether m is one of the closed set of permission modes.
func (m PermissionMode) Valid() bool {
	switch m {
	case PermissionModeDefault, PermissionModeAcceptEdits, PermissionModePlan,
		PermissionModeBypassPermissions, PermissionModeAsk:
		return true
	}

	return false
}
