// Package report fills a QT verification template with the artifacts of a
// new overlay and saves it as a new verification document.
package report

import (
	"fmt"
	"strings"
	"time"

	"qt-verify/internal/config"
	"qt-verify/internal/logger"
	"qt-verify/internal/logs"
	"qt-verify/internal/sheet"
	"qt-verify/internal/workbook"

	"github.com/xuri/excelize/v2"
)

// DateLayout is how dates are printed in the document
const DateLayout = "2006/01/02"

// Inputs are the station artifacts, already split into fields
type Inputs struct {
	CSVLog  [][]string // CSVLOG folder file
	Modem   [][]string // MODEM folder file, one row per line
	CSVFile [][]string // CSV folder file
}

// ReadInputs reads the three artifacts named in cfg
func ReadInputs(cfg *config.Config) (Inputs, error) {
	var in Inputs
	var err error

	if in.CSVLog, err = logs.ReadCSV(cfg.Input.CSVLog, cfg.Input.Encoding); err != nil {
		return in, err
	}
	if in.Modem, err = logs.ReadModemLog(cfg.Input.ModemLog, cfg.Input.Encoding); err != nil {
		return in, err
	}
	if in.CSVFile, err = logs.ReadCSV(cfg.Input.CSVFile, cfg.Input.Encoding); err != nil {
		return in, err
	}
	return in, nil
}

// Step is one unit of report generation, bound to a single sheet
type Step struct {
	Number int
	Title  string
	Sheet  string
	run    func() error
}

// Builder fills one opened template
type Builder struct {
	cfg    *config.Config
	file   *excelize.File
	styler *Styler
	inputs Inputs

	Info        logs.CSVLogInfo
	VersionName string
	VerifyDate  string // DateLayout
	ReleaseDate string // DateLayout
}

// NewBuilder collects the facts every step needs: the CSV log header, the
// new version name and the dates. now is the release date.
func NewBuilder(cfg *config.Config, f *excelize.File, inputs Inputs, now time.Time) (*Builder, error) {
	info, err := logs.ParseCSVLog(inputs.CSVLog)
	if err != nil {
		return nil, err
	}

	verify, err := cfg.VerifyDate()
	if err != nil {
		return nil, err
	}

	header, err := f.GetCellValue(cfg.Sheets.CSVLogComparison, "D2")
	if err != nil {
		return nil, fmt.Errorf("read version header: %w", err)
	}
	version, err := NextVersionName(header, cfg.Report.VerifyDate, cfg.Report.TestPlanVersion)
	if err != nil {
		return nil, err
	}

	return &Builder{
		cfg:         cfg,
		file:        f,
		styler:      NewStyler(f),
		inputs:      inputs,
		Info:        info,
		VersionName: version,
		VerifyDate:  verify.Format(DateLayout),
		ReleaseDate: now.Format(DateLayout),
	}, nil
}

// StationVersion is the header printed above the new log sections
func (b *Builder) StationVersion() string {
	return fmt.Sprintf("%s VERSION: %s", b.Info.Station, b.VersionName)
}

// Summary prints the facts of the document being built
func (b *Builder) Summary() {
	logger.Section(
		fmt.Sprintf("Station Name:   %s", b.Info.Station),
		fmt.Sprintf("Version Name:   %s", b.VersionName),
		fmt.Sprintf("Verify Date:    %s", b.VerifyDate),
		fmt.Sprintf("Test Sample SN: %s", b.Info.SerialNumber),
		fmt.Sprintf("Reviser:        %s", b.cfg.Report.Reviser),
		fmt.Sprintf("Reviewer:       %s", b.cfg.Report.Reviewer),
		fmt.Sprintf("Release Date:   %s", b.ReleaseDate),
	)
}

// Steps returns the sheet steps in the order they must run
func (b *Builder) Steps() []Step {
	s := b.cfg.Sheets
	return []Step{
		{Number: 1, Title: "Version", Sheet: s.Version, run: b.writeVersion},
		{Number: 2, Title: "Program Verification", Sheet: s.ProgramVerification, run: b.writeHistory},
		{Number: 3, Title: "CSV log comparison", Sheet: s.CSVLogComparison, run: b.writeCSVLog},
		{Number: 4, Title: "UART Log Check", Sheet: s.UARTLogCheck, run: b.writeUARTLog},
		{Number: 5, Title: "CSV file", Sheet: s.CSVFile, run: b.writeCSVFile},
	}
}

// Run executes one step; failures are returned as *StepError
func (b *Builder) Run(step Step) error {
	logger.Info("[Step %d] Creating data in '%s' worksheet...", step.Number, step.Title)
	if idx, err := b.file.GetSheetIndex(step.Sheet); err != nil || idx == -1 {
		return &StepError{Step: step.Number, Sheet: step.Sheet, Err: fmt.Errorf("%w: sheet not found", ErrTemplateLayout)}
	}
	if err := step.run(); err != nil {
		return &StepError{Step: step.Number, Sheet: step.Sheet, Err: err}
	}
	logger.Debug("Complete creating data in '%s' worksheet", step.Title)
	return nil
}

// Build runs every step in order
func (b *Builder) Build() error {
	for _, step := range b.Steps() {
		if err := b.Run(step); err != nil {
			return err
		}
	}
	return nil
}

// OutputPath is where Save writes the document
func (b *Builder) OutputPath() string {
	return b.cfg.GetOutputPath(b.Info.Station, b.VersionName)
}

// Save writes the filled workbook to OutputPath
func (b *Builder) Save() (string, error) {
	path := b.OutputPath()
	if err := b.file.SaveAs(path); err != nil {
		return "", &StepError{Step: 6, Sheet: "", Err: fmt.Errorf("save %s: %w", path, err)}
	}
	return path, nil
}

// --- Step 1: Version ---

func (b *Builder) writeVersion() error {
	name := b.cfg.Sheets.Version
	values := []struct {
		axis  string
		value any
	}{
		{"B3", b.VersionName},
		{"C5", b.VersionName},
		{"C3", b.ReleaseDate},
		{"D3", b.Info.Station},
		{"E3", b.cfg.Report.Reviser},
		{"C6", b.VerifyDate},
		{"C8", b.cfg.Report.Reviewer},
		{"C9", b.Info.SerialNumber},
	}
	for _, v := range values {
		if err := b.file.SetCellValue(name, v.axis, v.value); err != nil {
			return err
		}
	}

	for _, ref := range []string{"B2:E3", "B5:E9", "B11:D15"} {
		a, err := ParseArea(ref)
		if err != nil {
			return err
		}
		if err := b.styler.Border(name, a, true, ColorBlack); err != nil {
			return err
		}
	}
	return nil
}

// --- Step 2: Program Verification ---

// writeHistory inserts a history row above the configured row, keeping the
// rows, formulas and merges below it intact, and fills it in.
func (b *Builder) writeHistory() error {
	testTime, err := b.Info.TestTimeSeconds()
	if err != nil {
		return err
	}

	row := b.cfg.Layout.HistoryRow
	opts := sheet.InsertOptions{
		AnchorAbove:       true,
		CopyStyle:         true,
		CopyMergedColumns: true,
		FillFormulae:      true,
	}

	return workbook.Edit(b.file, b.cfg.Sheets.ProgramVerification, func(ws *sheet.Worksheet) error {
		if err := sheet.InsertRows(ws, row, 1, opts); err != nil {
			return err
		}

		ws.SetValue(sheet.Coord{Row: row, Col: 2}, b.ReleaseDate)
		ws.SetValue(sheet.Coord{Row: row, Col: 3}, b.Info.Station)
		ws.SetValue(sheet.Coord{Row: row, Col: 6}, "N/A")
		ws.SetValue(sheet.Coord{Row: row, Col: 7},
			fmt.Sprintf("Version:\n%s\nDiag Ver: %s", b.VersionName, b.Info.DiagsVersion))
		ws.SetValue(sheet.Coord{Row: row, Col: 9}, testTime)

		for _, f := range sheet.AuditFormulas(ws) {
			logger.Warn("Formula in %s!%s refers to %s, past the last row", ws.Name, f.Cell, f.Reference)
		}
		return nil
	})
}

// --- Step 5: CSV file ---

// writeCSVFile recreates the sheet and copies the raw CSV file into it
func (b *Builder) writeCSVFile() error {
	name := b.cfg.Sheets.CSVFile
	if err := b.file.DeleteSheet(name); err != nil {
		return err
	}
	if _, err := b.file.NewSheet(name); err != nil {
		return err
	}

	for r, record := range b.inputs.CSVFile {
		row := make([]interface{}, len(record))
		for c, field := range record {
			row[c] = field
		}
		axis, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := b.file.SetSheetRow(name, axis, &row); err != nil {
			return err
		}
	}
	logger.Debug("Copied %d CSV records into '%s'", len(b.inputs.CSVFile), strings.TrimSpace(name))
	return nil
}

// --- shared cell helpers ---

func (b *Builder) set(name string, col, row int, value any) error {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return b.file.SetCellValue(name, axis, value)
}

func (b *Builder) text(name string, col, row int) (string, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return b.file.GetCellValue(name, axis)
}

// lastRowWhere returns the last row of the area holding a cell that
// satisfies match
func (b *Builder) lastRowWhere(name string, a Area, match func(string) bool) (int, bool, error) {
	found := 0
	err := a.each(func(_, row int, axis string) error {
		v, err := b.file.GetCellValue(name, axis)
		if err != nil {
			return err
		}
		if match(v) {
			found = row
		}
		return nil
	})
	return found, found > 0, err
}

// take reads the values of the area row by row and empties its cells
func (b *Builder) take(name string, a Area) ([][]any, error) {
	var block [][]any
	if a.Empty() {
		return block, nil
	}
	for row := a.MinRow; row <= a.MaxRow; row++ {
		line := make([]any, 0, a.MaxCol-a.MinCol+1)
		for col := a.MinCol; col <= a.MaxCol; col++ {
			axis, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			v, err := workbook.Value(b.file, name, axis)
			if err != nil {
				return nil, err
			}
			line = append(line, v)
			if err := b.file.SetCellValue(name, axis, nil); err != nil {
				return nil, err
			}
		}
		block = append(block, line)
	}
	return block, nil
}

// put writes a block with its top-left corner at (col, row)
func (b *Builder) put(name string, col, row int, block [][]any) error {
	for i, line := range block {
		for j, v := range line {
			if err := b.set(name, col+j, row+i, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// clearValues empties every cell of the area
func (b *Builder) clearValues(name string, a Area) error {
	return a.each(func(_, _ int, axis string) error {
		return b.file.SetCellValue(name, axis, nil)
	})
}

func isTotalTestTime(v string) bool {
	return strings.Contains(strings.ToLower(v), "total test time")
}
