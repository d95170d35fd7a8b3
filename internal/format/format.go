// Package format renders registry listings as terminal or Markdown tables.
package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// Table is the project-owned table abstraction: build once, render in the
// Mode set at creation.
type Table interface {
	Header(cols ...string)
	Row(vals ...any)
	// MaxWidth truncates content of the 1-based column beyond width runes.
	MaxWidth(column, width int)
	String() string
}

// NewTable returns a Table that renders in the given Mode.
func NewTable(m Mode) Table {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &prettyTable{writer: w, mode: m}
}

type prettyTable struct {
	writer  table.Writer
	mode    Mode
	configs []table.ColumnConfig
}

func (t *prettyTable) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
}

func (t *prettyTable) Row(vals ...any) {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendRow(row)
}

func (t *prettyTable) MaxWidth(column, width int) {
	t.configs = append(t.configs, table.ColumnConfig{
		Number:           column,
		WidthMax:         width,
		WidthMaxEnforcer: text.Trim,
	})
	t.writer.SetColumnConfigs(t.configs)
}

func (t *prettyTable) String() string {
	if t.mode == Markdown {
		return t.writer.RenderMarkdown()
	}
	return t.writer.Render()
}
