package sheet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// referencePattern matches the surface form of a cell reference. Candidates
// are further checked by scanReferences before they are rewritten.
var referencePattern = regexp.MustCompile(`\$?[A-Z]{1,3}\$?[0-9]+`)

// reference is one coordinate token found inside formula or range text.
type reference struct {
	rowStart int // offset of the first row digit
	end      int // offset just past the token
	rowAbs   bool
	col      int
	row      int
}

// ShiftRowReferences returns text with every row component greater than
// pivot moved down by shift. Column letters, '$' markers and all other text
// are copied verbatim. Tokens that only look like references are left alone.
func ShiftRowReferences(text string, pivot, shift int) string {
	if shift == 0 {
		return text
	}
	return rewriteRows(text, func(ref reference) int {
		if ref.row > pivot {
			return ref.row + shift
		}
		return ref.row
	})
}

// OffsetRelativeRows moves every relative row component by delta, the way a
// formula changes when it is copied delta rows down (or up, when negative).
// Absolute rows ("$5") are kept, as are tokens that would fall off the sheet.
func OffsetRelativeRows(text string, delta int) string {
	if delta == 0 {
		return text
	}
	return rewriteRows(text, func(ref reference) int {
		if ref.rowAbs {
			return ref.row
		}
		row := ref.row + delta
		if row < 1 || row > excelize.TotalRows {
			return ref.row
		}
		return row
	})
}

// rewriteRows replaces the row digits of each reference for which fn
// returns a different row number.
func rewriteRows(text string, fn func(reference) int) string {
	refs := scanReferences(text)
	if len(refs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 4*len(refs))
	last := 0
	for _, ref := range refs {
		row := fn(ref)
		if row == ref.row {
			continue
		}
		b.WriteString(text[last:ref.rowStart])
		b.WriteString(strconv.Itoa(row))
		last = ref.end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// scanReferences finds the well-formed references in text, skipping string
// literals and candidates glued to identifier characters (function names
// such as LOG10, defined names, R1C1 fragments).
func scanReferences(text string) []reference {
	quoted := quotedSpans(text)

	var refs []reference
	for _, loc := range referencePattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if insideSpan(start, quoted) {
			continue
		}
		if start > 0 && isNameChar(text[start-1]) {
			continue
		}
		if end < len(text) && (isNameChar(text[end]) || text[end] == '(') {
			continue
		}
		ref, ok := parseReference(text[start:end])
		if !ok {
			continue
		}
		ref.rowStart += start
		ref.end = end
		refs = append(refs, ref)
	}
	return refs
}

// parseReference splits a token matched by referencePattern. Offsets in the
// result are relative to the token.
func parseReference(tok string) (reference, bool) {
	i := 0
	if tok[i] == '$' {
		i++
	}
	colStart := i
	for i < len(tok) && tok[i] >= 'A' && tok[i] <= 'Z' {
		i++
	}
	letters := tok[colStart:i]

	ref := reference{}
	if tok[i] == '$' {
		ref.rowAbs = true
		i++
	}
	digits := tok[i:]
	if len(digits) > 1 && digits[0] == '0' {
		return reference{}, false
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 || row > excelize.TotalRows {
		return reference{}, false
	}
	col, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return reference{}, false
	}

	ref.rowStart = i
	ref.col = col
	ref.row = row
	return ref, true
}

// quotedSpans returns [open, close] offsets of double-quoted literals. A
// doubled quote inside a literal closes and reopens it, which keeps the
// escaped quote inside the covered area.
func quotedSpans(text string) [][2]int {
	var spans [][2]int
	open := -1
	for i := 0; i < len(text); i++ {
		if text[i] != '"' {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		spans = append(spans, [2]int{open, i})
		open = -1
	}
	if open >= 0 {
		spans = append(spans, [2]int{open, len(text)})
	}
	return spans
}

func insideSpan(pos int, spans [][2]int) bool {
	for _, s := range spans {
		if pos > s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

func isNameChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
		c == '_' || c == '.' || c == '$'
}
