// Package fixture writes a small QT verification template and matching
// station artifacts for the end-to-end tests.
package fixture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Sheet names of the template, as the default configuration expects them
const (
	SheetVersion             = "Version "
	SheetProgramVerification = "Program Verification"
	SheetCSVLogComparison    = "CSV log comparison"
	SheetUARTLogCheck        = "UART Log Check"
	SheetCSVFile             = "CSV file"
)

// Station and version facts the fixture produces
const (
	Station     = "FCT-01"
	VerifyDate  = "20170509"
	TestPlan    = "12"
	VersionName = "20170509ver12_JH_004"
	ResultLabel = "測試結果"
)

// Files are the paths written by Write
type Files struct {
	Template string
	CSVLog   string
	Modem    string
	CSVFile  string
}

const csvLog = `FCT-01,SW_Version:V1a2b3c4,Serial Number: C02XK1,
Test,Result,Unit,Low,High,Value
DIAGS_VERSION,PASS,,,,D123.4
Power,PASS,V,4.5,5.5,5.02
Total Test Time,37.25,,,,
`

const csvFile = "SerialNumber,Power," + ResultLabel + "\nC02XK1,5.02,PASS\n"

const modemLog = "AT+CSQ\tOK\r\n+CSQ: 21,99\x07\r\nresult==PASS\r\n"

// Write creates the template and the three artifacts in dir. The raw CSV
// file is Big5 encoded, as station PCs write it.
func Write(dir string) (Files, error) {
	files := Files{
		Template: filepath.Join(dir, "QTVerification_FCT-01_20170401ver11_JH_003.xlsx"),
		CSVLog:   filepath.Join(dir, "csvlog.csv"),
		Modem:    filepath.Join(dir, "modem.txt"),
		CSVFile:  filepath.Join(dir, "station.csv"),
	}

	if err := writeTemplate(files.Template); err != nil {
		return files, err
	}
	if err := os.WriteFile(files.CSVLog, []byte(csvLog), 0644); err != nil {
		return files, err
	}
	if err := os.WriteFile(files.Modem, []byte(modemLog), 0644); err != nil {
		return files, err
	}

	big5, err := traditionalchinese.Big5.NewEncoder().String(csvFile)
	if err != nil {
		return files, fmt.Errorf("encode csv file: %w", err)
	}
	if err := os.WriteFile(files.CSVFile, []byte(big5), 0644); err != nil {
		return files, err
	}
	return files, nil
}

func writeTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetVersion); err != nil {
		return err
	}
	for _, name := range []string{SheetProgramVerification, SheetCSVLogComparison, SheetUARTLogCheck, SheetCSVFile} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	cells := map[string]map[string]any{
		SheetVersion: {"B2": "Version", "B3": "20170401ver11_JH_003"},
		SheetProgramVerification: {
			"B2": "Date", "C2": "Station", "D2": "Remark", "I2": "Test time",
			"B3": "2017/04/01", "C3": Station, "I3": 30.5,
			"B4": "2017/03/01", "C4": Station, "I4": 28,
		},
		SheetCSVLogComparison: {
			"D2": "FCT-01 VERSION: 20170401ver11_JH_003", "D3": "CSV LOG",
			"D4": "Test", "D5": "Total Test Time", "E5": 30.5,
			"K2": "FCT-01 VERSION: 20170301ver10_JH_002", "K3": "CSV LOG",
			"K4": "Old", "K5": "Total Test Time", "L5": 29,
		},
		SheetUARTLogCheck: {
			"J1": "#",
			"D2": "FCT-01 VERSION: 20170401ver11_JH_003", "D3": "UART log",
			"H2": "FCT-01 VERSION: 20170301ver10_JH_002", "H3": "UART log",
			"D4": "AT", "E4": "OK",
		},
		SheetCSVFile: {"A1": "stale"},
	}
	for name, values := range cells {
		for axis, v := range values {
			if err := f.SetCellValue(name, axis, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetCellFormula(SheetProgramVerification, "I6", "SUM(I3:I4)"); err != nil {
		return err
	}
	if err := f.MergeCell(SheetProgramVerification, "D2", "E2"); err != nil {
		return err
	}
	return f.SaveAs(path)
}
