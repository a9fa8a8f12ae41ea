package logs

import (
	"fmt"
	"strings"

	"qt-verify/internal/logger"
)

// ReadModemLog reads a tab-separated modem UART log
// Each line becomes one row of cleaned fields; lines that lose characters
// in the cleanup are recorded as input issues
func ReadModemLog(path string, hints []string) ([][]string, error) {
	text, err := ReadText(path, hints)
	if err != nil {
		return nil, err
	}
	return parseModemLog(text, func(line, dropped int) {
		logger.LogInputIssue(path, line, fmt.Errorf("dropped %d non-printable characters", dropped))
	}), nil
}

// ParseModemLog splits modem log text into rows of cleaned fields
func ParseModemLog(text string) [][]string {
	return parseModemLog(text, nil)
}

// parseModemLog calls degraded with the 1-based line number and the
// number of characters removed for every line that was not clean
func parseModemLog(text string, degraded func(line, dropped int)) [][]string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for n, line := range lines {
		fields := strings.Split(line, "\t")
		dropped := 0
		for i, field := range fields {
			var d int
			fields[i], d = cleanField(field)
			dropped += d
		}
		if dropped > 0 && degraded != nil {
			degraded(n+1, dropped)
		}
		rows = append(rows, fields)
	}
	return rows
}

// CleanField drops characters outside printable ASCII and protects values
// containing "==" from being read as formulas by prefixing a space
func CleanField(field string) string {
	cleaned, _ := cleanField(field)
	return cleaned
}

func cleanField(field string) (string, int) {
	dropped := 0
	cleaned := strings.Map(func(r rune) rune {
		if r >= 0x20 && r <= 0x7E || r == '\t' {
			return r
		}
		dropped++
		return -1
	}, field)
	if strings.Contains(cleaned, "==") {
		cleaned = " " + cleaned
	}
	return cleaned, dropped
}

// MaxWidth returns the number of fields in the widest row
func MaxWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
