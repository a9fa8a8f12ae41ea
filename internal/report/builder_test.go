package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"qt-verify/internal/config"
	"qt-verify/internal/logs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSVLog = `FCT-01,SW_Version:V1a2b3c4,Serial Number: C02XK1,
Test,Result,Unit,Low,High,Value
DIAGS_VERSION,PASS,,,,D123.4
Power,PASS,V,4.5,5.5,5.02
Total Test Time,37.25,,,,
`

const stationVersion = "FCT-01 VERSION: 20170509ver12_JH_004"

var releaseDay = time.Date(2017, 5, 10, 9, 30, 0, 0, time.Local)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Report: config.ReportConfig{
			Reviser:         "Tester",
			Reviewer:        "Doris",
			TestPlanVersion: "12",
			VerifyDate:      "20170509",
		},
		Sheets: config.SheetsConfig{
			Version:             "Version ",
			ProgramVerification: "Program Verification",
			CSVLogComparison:    "CSV log comparison",
			UARTLogCheck:        "UART Log Check",
			CSVFile:             "CSV file",
		},
		Layout: config.LayoutConfig{
			HistoryRow:       3,
			MarginBottomRows: 2,
			ColumnWidth:      50,
			FontName:         "Times New Roman",
		},
		Output: config.OutputConfig{Dir: t.TempDir()},
	}
}

func testInputs(t *testing.T) Inputs {
	t.Helper()
	csvLog, err := logs.ParseCSV(sampleCSVLog, "csvlog")
	require.NoError(t, err)
	return Inputs{
		CSVLog: csvLog,
		Modem: [][]string{
			{"AT+CSQ", "OK"},
			{"+CSQ: 21,99"},
		},
		CSVFile: [][]string{
			{"a", "1"},
			{"b", "2", "extra"},
		},
	}
}

// newTemplate builds a small verification template holding one previous
// verification in every sheet
func newTemplate(t *testing.T, cfg *config.Config) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	s := cfg.Sheets
	require.NoError(t, f.SetSheetName("Sheet1", s.Version))
	for _, name := range []string{s.ProgramVerification, s.CSVLogComparison, s.UARTLogCheck, s.CSVFile} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	set := func(name string, cells map[string]any) {
		for axis, v := range cells {
			require.NoError(t, f.SetCellValue(name, axis, v))
		}
	}

	set(s.Version, map[string]any{"B2": "Version", "B3": "20170401ver11_JH_003"})

	set(s.ProgramVerification, map[string]any{
		"A1": "Program Verification",
		"B2": "Date", "C2": "Station", "D2": "Remark", "I2": "Test time",
		"B3": "2017/04/01", "C3": "FCT-01", "I3": 30.5,
		"B4": "2017/03/01", "C4": "FCT-01", "I4": 28,
	})
	require.NoError(t, f.SetCellFormula(s.ProgramVerification, "I6", "SUM(I3:I4)"))
	require.NoError(t, f.MergeCell(s.ProgramVerification, "D2", "E2"))

	set(s.CSVLogComparison, map[string]any{
		"D2": "FCT-01 VERSION: 20170401ver11_JH_003", "D3": "CSV LOG",
		"D4": "Test", "E4": "Result",
		"D5": "Power", "E5": "PASS",
		"D6": "Total Test Time", "E6": 30.5,
		"K2": "FCT-01 VERSION: 20170301ver10_JH_002", "K3": "CSV LOG",
		"K4": "Old", "K5": "Total Test Time", "L5": 29,
	})

	set(s.UARTLogCheck, map[string]any{
		"J1": "#",
		"D2": "FCT-01 VERSION: 20170401ver11_JH_003", "D3": "UART log",
		"H2": "FCT-01 VERSION: 20170301ver10_JH_002", "H3": "UART log",
		"D4": "AT", "E4": "OK",
		"D5": "ATI",
		"H4": "prev",
	})

	set(s.CSVFile, map[string]any{"A1": "stale", "C3": "stale"})
	return f
}

func newTestBuilder(t *testing.T) (*Builder, *excelize.File, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	f := newTemplate(t, cfg)
	b, err := NewBuilder(cfg, f, testInputs(t), releaseDay)
	require.NoError(t, err)
	return b, f, cfg
}

func cellValue(t *testing.T, f *excelize.File, name, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(name, axis)
	require.NoError(t, err)
	return v
}

func TestNewBuilder(t *testing.T) {
	b, _, _ := newTestBuilder(t)

	assert.Equal(t, "FCT-01", b.Info.Station)
	assert.Equal(t, "C02XK1", b.Info.SerialNumber)
	assert.Equal(t, "20170509ver12_JH_004", b.VersionName)
	assert.Equal(t, "2017/05/09", b.VerifyDate)
	assert.Equal(t, "2017/05/10", b.ReleaseDate)
	assert.Equal(t, stationVersion, b.StationVersion())
	assert.Equal(t, "QTVerification_FCT-01_20170509ver12_JH_004.xlsx", filepath.Base(b.OutputPath()))
}

func TestNewBuilderRejectsBadHeader(t *testing.T) {
	cfg := testConfig(t)
	f := newTemplate(t, cfg)
	require.NoError(t, f.SetCellValue(cfg.Sheets.CSVLogComparison, "D2", "no version here"))

	_, err := NewBuilder(cfg, f, testInputs(t), releaseDay)
	assert.ErrorIs(t, err, ErrTemplateLayout)
}

func TestWriteVersion(t *testing.T) {
	b, f, cfg := newTestBuilder(t)
	require.NoError(t, b.Run(b.Steps()[0]))

	name := cfg.Sheets.Version
	assert.Equal(t, "20170509ver12_JH_004", cellValue(t, f, name, "B3"))
	assert.Equal(t, "20170509ver12_JH_004", cellValue(t, f, name, "C5"))
	assert.Equal(t, "2017/05/10", cellValue(t, f, name, "C3"))
	assert.Equal(t, "FCT-01", cellValue(t, f, name, "D3"))
	assert.Equal(t, "Tester", cellValue(t, f, name, "E3"))
	assert.Equal(t, "2017/05/09", cellValue(t, f, name, "C6"))
	assert.Equal(t, "Doris", cellValue(t, f, name, "C8"))
	assert.Equal(t, "C02XK1", cellValue(t, f, name, "C9"))

	id, err := f.GetCellStyle(name, "B11")
	require.NoError(t, err)
	assert.NotZero(t, id, "outline border expected on B11")
}

func TestWriteHistory(t *testing.T) {
	b, f, cfg := newTestBuilder(t)
	require.NoError(t, b.Run(b.Steps()[1]))

	name := cfg.Sheets.ProgramVerification
	assert.Equal(t, "2017/05/10", cellValue(t, f, name, "B3"))
	assert.Equal(t, "FCT-01", cellValue(t, f, name, "C3"))
	assert.Equal(t, "N/A", cellValue(t, f, name, "F3"))
	assert.Equal(t, "Version:\n20170509ver12_JH_004\nDiag Ver: ", cellValue(t, f, name, "G3"))
	assert.Equal(t, "37.25", cellValue(t, f, name, "I3"))

	// previous entries moved down
	assert.Equal(t, "2017/04/01", cellValue(t, f, name, "B4"))
	assert.Equal(t, "30.5", cellValue(t, f, name, "I4"))
	assert.Equal(t, "2017/03/01", cellValue(t, f, name, "B5"))

	formula, err := f.GetCellFormula(name, "I7")
	require.NoError(t, err)
	assert.Equal(t, "SUM(I4:I5)", formula)
	formula, err = f.GetCellFormula(name, "I6")
	require.NoError(t, err)
	assert.Empty(t, formula)

	merges, err := f.GetMergeCells(name)
	require.NoError(t, err)
	var refs []string
	for _, mc := range merges {
		refs = append(refs, mc.GetStartAxis()+":"+mc.GetEndAxis())
	}
	assert.ElementsMatch(t, []string{"D2:E2", "D3:E3"}, refs)
}

func TestWriteCSVLog(t *testing.T) {
	b, f, cfg := newTestBuilder(t)
	require.NoError(t, b.Run(b.Steps()[2]))

	name := cfg.Sheets.CSVLogComparison

	// previous log moved to K:P, older one dropped
	assert.Equal(t, "FCT-01 VERSION: 20170401ver11_JH_003", cellValue(t, f, name, "K2"))
	assert.Equal(t, "Test", cellValue(t, f, name, "K4"))
	assert.Equal(t, "PASS", cellValue(t, f, name, "L5"))
	assert.Equal(t, "Total Test Time", cellValue(t, f, name, "K6"))
	assert.Equal(t, "30.5", cellValue(t, f, name, "L6"))

	// new log in D:I
	assert.Equal(t, stationVersion, cellValue(t, f, name, "D2"))
	assert.Equal(t, "CSV LOG", cellValue(t, f, name, "D3"))
	assert.Equal(t, "FCT-01", cellValue(t, f, name, "D4"))
	assert.Equal(t, "Power", cellValue(t, f, name, "D7"))
	assert.Equal(t, "4.5", cellValue(t, f, name, "G7"))
	assert.Equal(t, "Total Test Time", cellValue(t, f, name, "D8"))
	assert.Equal(t, "37.25", cellValue(t, f, name, "E8"))

	typ, err := f.GetCellType(name, "G7")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "numbers must not be written as text")
}

func TestWriteUARTLog(t *testing.T) {
	b, f, cfg := newTestBuilder(t)
	require.NoError(t, b.Run(b.Steps()[3]))

	name := cfg.Sheets.UARTLogCheck

	// previous log in the right-hand section
	assert.Equal(t, "FCT-01 VERSION: 20170401ver11_JH_003", cellValue(t, f, name, "H2"))
	assert.Equal(t, "UART log", cellValue(t, f, name, "H3"))
	assert.Equal(t, "AT", cellValue(t, f, name, "H4"))
	assert.Equal(t, "OK", cellValue(t, f, name, "I4"))
	assert.Equal(t, "ATI", cellValue(t, f, name, "H5"))

	// new log in the left-hand section
	assert.Equal(t, stationVersion, cellValue(t, f, name, "D2"))
	assert.Equal(t, "AT+CSQ", cellValue(t, f, name, "D4"))
	assert.Equal(t, "OK", cellValue(t, f, name, "E4"))
	assert.Equal(t, "+CSQ: 21,99", cellValue(t, f, name, "D5"))
	assert.Empty(t, cellValue(t, f, name, "E5"))

	for col, want := range map[string]float64{"D": 50, "F": 50, "G": 5, "H": 50, "J": 50, "K": 5} {
		width, err := f.GetColWidth(name, col)
		require.NoError(t, err)
		assert.Equal(t, want, width, "width of column %s", col)
	}
}

func TestWriteUARTLogWithoutHeader(t *testing.T) {
	b, f, cfg := newTestBuilder(t)
	require.NoError(t, f.SetCellValue(cfg.Sheets.UARTLogCheck, "H3", "something else"))
	require.NoError(t, f.SetCellValue(cfg.Sheets.UARTLogCheck, "D3", "something else"))

	err := b.Run(b.Steps()[3])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateLayout)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 4, stepErr.Step)
	assert.Equal(t, cfg.Sheets.UARTLogCheck, stepErr.Sheet)
}

func TestWriteCSVFile(t *testing.T) {
	b, f, cfg := newTestBuilder(t)
	require.NoError(t, b.Run(b.Steps()[4]))

	name := cfg.Sheets.CSVFile
	rows, err := f.GetRows(name)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "1"}, {"b", "2", "extra"}}, rows)
}

func TestRunMissingSheet(t *testing.T) {
	b, f, cfg := newTestBuilder(t)
	require.NoError(t, f.DeleteSheet(cfg.Sheets.Version))

	err := b.Run(b.Steps()[0])
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 1, stepErr.Step)
	assert.ErrorIs(t, err, ErrTemplateLayout)
}

func TestBuildAndSave(t *testing.T) {
	b, _, cfg := newTestBuilder(t)
	require.NoError(t, b.Build())

	path, err := b.Save()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "QTVerification_FCT-01_20170509ver12_JH_004.xlsx"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, "20170509ver12_JH_004", cellValue(t, out, cfg.Sheets.Version, "B3"))
	assert.Equal(t, "2017/05/10", cellValue(t, out, cfg.Sheets.ProgramVerification, "B3"))
	assert.Equal(t, stationVersion, cellValue(t, out, cfg.Sheets.CSVLogComparison, "D2"))
	assert.Equal(t, "AT+CSQ", cellValue(t, out, cfg.Sheets.UARTLogCheck, "D4"))
	assert.Equal(t, "a", cellValue(t, out, cfg.Sheets.CSVFile, "A1"))
}
