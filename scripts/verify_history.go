package main

import (
	"fmt"
	"log"
	"os"

	"qt-verify/internal/sheet"
	"qt-verify/internal/workbook"

	"github.com/xuri/excelize/v2"
)

// Checks the history sheet of a generated verification document: merged
// regions must be disjoint and no formula may point past the last row.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/verify_history.go <document.xlsx> [sheet]")
	}
	filename := os.Args[1]
	sheetName := "Program Verification"
	if len(os.Args) > 2 {
		sheetName = os.Args[2]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	ws, err := workbook.Load(f, sheetName)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== HISTORY CHECK: %s ===\n", filename)
	fmt.Printf("Sheet: %s, rows: %d, merges: %d\n\n", sheetName, ws.MaxRow(), len(ws.Merges.Regions))

	for row := 1; row <= min(ws.MaxRow(), 6); row++ {
		fmt.Printf("Row %d: %v | %v | %v\n", row,
			value(ws, row, 2), value(ws, row, 3), value(ws, row, 9))
	}
	fmt.Println()

	problems := 0
	if err := ws.Validate(); err != nil {
		fmt.Printf("❌ %v\n", err)
		problems++
	}
	for _, finding := range sheet.AuditFormulas(ws) {
		fmt.Printf("❌ %s refers to %s, past the last row\n", finding.Cell, finding.Reference)
		problems++
	}

	if problems > 0 {
		fmt.Printf("\nFound %d problems\n", problems)
		os.Exit(1)
	}
	fmt.Println("✅ History sheet is consistent")
}

func value(ws *sheet.Worksheet, row, col int) any {
	cell := ws.Cell(sheet.Coord{Row: row, Col: col})
	if cell == nil {
		return ""
	}
	if cell.IsFormula() {
		return cell.Formula
	}
	return cell.Value
}
