package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnKind int

const (
	textColumn columnKind = iota
	numberColumn
	idColumn
	mnemonicColumn
	flagColumn
)

// mnemonicWidth keeps a 16-byte mnemonic (four groups) on two lines.
const mnemonicWidth = 48

type column struct {
	title string
	kind  columnKind
}

func col(title string, kind columnKind) column {
	return column{title: title, kind: kind}
}

func (c column) config(number int) table.ColumnConfig {
	cfg := table.ColumnConfig{Number: number, AlignHeader: text.AlignLeft}
	switch c.kind {
	case numberColumn:
		cfg.Align = text.AlignRight
	case flagColumn:
		cfg.Align = text.AlignCenter
		cfg.AlignHeader = text.AlignCenter
	case mnemonicColumn:
		cfg.WidthMax = mnemonicWidth
		cfg.WidthMaxEnforcer = text.WrapSoft
	}
	return cfg
}

// renderTable draws rows under columns. Missing and empty cells print as "-"
// except in id columns, where a blank is meaningful.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.title
		configs[i] = c.config(i + 1)
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, c := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if cell == "" && c.kind != idColumn {
				cell = "-"
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
