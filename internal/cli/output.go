package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/bonsai/internal/model"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return model.NewCLIError(model.KindGeneral,
			fmt.Sprintf("invalid format %q (valid: text, json, yaml)", format))
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// worktreeRecord is the structured form of one worktree in list and
// status output.
type worktreeRecord struct {
	model.Worktree `yaml:",inline"`

	Name       string               `json:"name" yaml:"name"`
	Current    bool                 `json:"current" yaml:"current"`
	Status     *model.StatusSummary `json:"status,omitempty" yaml:"status,omitempty"`
	Display    string               `json:"statusDisplay,omitempty" yaml:"statusDisplay,omitempty"`
	LastCommit string               `json:"lastCommit,omitempty" yaml:"lastCommit,omitempty"`
}
