package catalog

import "strings"

// ParseCSV converts raw CSV text into rows of trimmed cells. The dialect is
// deliberately lenient: commas separate fields, a bare '\n' separates rows,
// '\r' is discarded wherever it appears, and double quotes wrap fields with
// "" as the escaped literal quote. An unterminated quote keeps accumulating
// to end of input instead of failing; the data file is hand-edited and a
// half-quoted row must degrade, not abort the whole load. Rows whose cells
// are all empty are dropped. ParseCSV never returns an error.
func ParseCSV(text string) [][]string {
	var (
		rows   [][]string
		row    []string
		cell   []rune
		quoted bool
	)

	endCell := func() {
		row = append(row, strings.TrimSpace(string(cell)))
		cell = cell[:0]
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if quoted {
			switch {
			case ch == '"' && i+1 < len(runes) && runes[i+1] == '"':
				cell = append(cell, '"')
				i++
			case ch == '"':
				quoted = false
			default:
				cell = append(cell, ch)
			}
			continue
		}
		switch ch {
		case '"':
			quoted = true
		case ',':
			endCell()
		case '\n':
			endCell()
			rows = append(rows, row)
			row = nil
		case '\r':
			// skip
		default:
			cell = append(cell, ch)
		}
	}

	// Emit the final row when the input does not end in a newline.
	if len(cell) > 0 || len(row) > 0 {
		endCell()
		rows = append(rows, row)
	}

	return dropEmptyRows(rows)
}

func dropEmptyRows(rows [][]string) [][]string {
	kept := make([][]string, 0, len(rows))
	for _, r := range rows {
		for _, c := range r {
			if c != "" {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}
