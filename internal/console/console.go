// Package console prints user-facing messages and tables for the non-interactive commands.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Highlight colors for figures.
var (
	Energy = color.New(color.FgCyan, color.Bold).SprintFunc()
	Money  = color.New(color.FgGreen, color.Bold).SprintFunc()
	Muted  = color.New(color.FgHiBlack).SprintFunc()
)

// Console writes to one destination, stdout by default.
type Console struct {
	out io.Writer
}

// New creates a Console. A nil writer means stdout.
func New(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Writer returns the underlying destination.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Println writes plain text.
func (c *Console) Println(a ...any) {
	if _, err := fmt.Fprintln(c.out, a...); err != nil {
		// Best-effort console output.
		_ = err
	}
}

// Info prints an informational message.
func (c *Console) Info(format string, a ...any) {
	pterm.Info.WithWriter(c.out).Printfln(format, a...)
}

// Warning prints a warning.
func (c *Console) Warning(format string, a ...any) {
	pterm.Warning.WithWriter(c.out).Printfln(format, a...)
}

// Error prints an error message.
func (c *Console) Error(format string, a ...any) {
	pterm.Error.WithWriter(c.out).Printfln(format, a...)
}

// Success prints a success message.
func (c *Console) Success(format string, a ...any) {
	pterm.Success.WithWriter(c.out).Printfln(format, a...)
}

// Table renders a boxed table with a header row.
func (c *Console) Table(headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	rendered, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(c.out, rendered)
	return err
}

// Box prints text inside a titled box.
func (c *Console) Box(title, text string) {
	c.Println(pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(text))
}
