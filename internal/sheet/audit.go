package sheet

import (
	"strings"

	"github.com/xuri/efp"
)

// Finding is a formula reference that points past the last occupied row.
type Finding struct {
	Cell      Coord
	Reference string
}

// References returns the range operands of a formula in order of
// appearance, as written ("$A$1", "B2:C9", "Sheet2!A1"). Nothing is evaluated.
func References(formula string) []string {
	ps := efp.ExcelParser()
	tokens := ps.Parse(strings.TrimPrefix(formula, FormulaMarker))

	var refs []string
	for _, tok := range tokens {
		if tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange {
			refs = append(refs, tok.TValue)
		}
	}
	return refs
}

// AuditFormulas lists references on this sheet whose row lies below
// MaxRow. Such references usually mean a row shift missed a formula.
// References into other sheets and whole-column ranges are ignored.
func AuditFormulas(ws *Worksheet) []Finding {
	limit := ws.MaxRow()

	var findings []Finding
	for _, at := range ws.Cells.Coords() {
		cell := ws.Cells.Cells[at]
		if !cell.IsFormula() {
			continue
		}
		for _, ref := range References(cell.Formula) {
			if strings.Contains(ref, "!") {
				continue
			}
			for _, part := range strings.Split(ref, ":") {
				c, err := ParseCoord(part)
				if err != nil {
					continue
				}
				if c.Row > limit {
					findings = append(findings, Finding{Cell: at, Reference: ref})
					break
				}
			}
		}
	}
	return findings
}
