package report

import "strings"

// ParseTable reads back the first pipe table in text, as written by
// InvestorTable or AllocationTable. Cells are trimmed of padding. Values that
// themselves contain a pipe cannot be recovered.
func ParseTable(text string) (header []string, rows [][]string) {
	inTable := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			if inTable {
				break
			}
			continue
		}
		inTable = true
		if isSeparator(line) {
			continue
		}
		cells := splitRow(line)
		if header == nil {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	return header, rows
}

func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isSeparator(line string) bool {
	return strings.Trim(line, "|-: ") == ""
}
