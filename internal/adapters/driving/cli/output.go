package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/paperink/internal/adapters/driving/tui/styles"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printer writes command output, styled when stdout is a terminal.
type printer struct {
	cmd    *cobra.Command
	styles *styles.Styles
}

func newPrinter(cmd *cobra.Command) *printer {
	p := &printer{cmd: cmd}
	if isTerminal(cmd.OutOrStdout()) {
		p.styles = styles.DefaultStyles()
	}
	return p
}

func (p *printer) title(s string) {
	if p.styles != nil {
		s = p.styles.Title.Render(s)
	}
	p.cmd.Println(s)
}

func (p *printer) field(label string, format string, args ...any) {
	value := fmt.Sprintf(format, args...)
	if p.styles != nil {
		label = p.styles.Muted.Render(label)
	}
	p.cmd.Printf("  %s %s\n", label, value)
}

func (p *printer) success(s string) {
	if p.styles != nil {
		s = p.styles.Success.Render(s)
	}
	p.cmd.Println(s)
}

func (p *printer) failure(s string) {
	if p.styles != nil {
		s = p.styles.Error.Render(s)
	}
	p.cmd.Println(s)
}

// writeStructured writes v as JSON or YAML.
func writeStructured(cmd *cobra.Command, format string, v any) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
