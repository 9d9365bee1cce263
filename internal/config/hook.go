package config

import (
	"errors"
	"fmt"
)

// Hook is one post-create action. The set of variants is closed:
// CopyHook, SymlinkHook and CommandHook. Consumers dispatch with a
// type switch.
type Hook interface {
	hookType() string
}

// CopyHook copies From (relative to the repository root) to To
// (relative to the new worktree). Directories are copied recursively.
type CopyHook struct {
	From string
	To   string
}

// SymlinkHook creates To in the new worktree pointing at From in the
// repository root.
type SymlinkHook struct {
	From string
	To   string
}

// CommandHook runs Command through `sh -c` inside the new worktree with
// Env added to the environment.
type CommandHook struct {
	Command string
	Env     map[string]string
}

func (CopyHook) hookType() string    { return "copy" }
func (SymlinkHook) hookType() string { return "symlink" }
func (CommandHook) hookType() string { return "command" }

// Describe returns a one-line summary of h for logs and error messages.
func Describe(h Hook) string {
	switch h := h.(type) {
	case CopyHook:
		return fmt.Sprintf("copy %s -> %s", h.From, h.To)
	case SymlinkHook:
		return fmt.Sprintf("symlink %s -> %s", h.From, h.To)
	case CommandHook:
		return fmt.Sprintf("command %q", h.Command)
	default:
		return "unknown hook"
	}
}

// hookSpec is the flat TOML record every variant is decoded from.
type hookSpec struct {
	Type    string            `toml:"type"`
	From    string            `toml:"from,omitempty"`
	To      string            `toml:"to,omitempty"`
	Command string            `toml:"command,omitempty"`
	Env     map[string]string `toml:"env,omitempty"`
}

func (s hookSpec) toHook() (Hook, error) {
	switch s.Type {
	case "copy", "symlink":
		if s.From == "" || s.To == "" {
			return nil, fmt.Errorf("%s hook requires both \"from\" and \"to\"", s.Type)
		}
		if s.Type == "copy" {
			return CopyHook{From: s.From, To: s.To}, nil
		}
		return SymlinkHook{From: s.From, To: s.To}, nil
	case "command":
		if s.Command == "" {
			return nil, errors.New("command hook requires \"command\"")
		}
		return CommandHook{Command: s.Command, Env: s.Env}, nil
	case "":
		return nil, errors.New("hook is missing \"type\"")
	default:
		return nil, fmt.Errorf("unknown hook type %q (valid: copy, symlink, command)", s.Type)
	}
}

func fromHook(h Hook) hookSpec {
	switch h := h.(type) {
	case CopyHook:
		return hookSpec{Type: "copy", From: h.From, To: h.To}
	case SymlinkHook:
		return hookSpec{Type: "symlink", From: h.From, To: h.To}
	case CommandHook:
		return hookSpec{Type: "command", Command: h.Command, Env: h.Env}
	default:
		return hookSpec{}
	}
}
