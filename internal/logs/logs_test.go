package logs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"qt-verify/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
)

const sampleCSVLog = `FCT-01,SW_Version:V1a2b3c4,Serial Number: C02XK1,
Test,Result,Unit,Low,High,Value
DIAGS_VERSION,PASS,,,,D123.4
Power,PASS,V,4.5,5.5,5.02
Total Test Time,37.25,,,,
`

func TestParseCSVLog(t *testing.T) {
	records, err := ParseCSV(sampleCSVLog, "sample")
	require.NoError(t, err)

	info, err := ParseCSVLog(records)
	require.NoError(t, err)

	assert.Equal(t, CSVLogInfo{
		Station:       "FCT-01",
		SerialNumber:  "C02XK1",
		DiagsVersion:  "",
		TotalTestTime: "37.25",
	}, info)

	secs, err := info.TestTimeSeconds()
	require.NoError(t, err)
	assert.Equal(t, 37.25, secs)
}

func TestParseCSVLogDiagsVersion(t *testing.T) {
	records := [][]string{
		{"ICT", "", "Serial Number:SN9"},
		{"x", "DIAGS_VERSION", "a", "b", "V7.1"},
	}
	info, err := ParseCSVLog(records)
	require.NoError(t, err)
	assert.Equal(t, "V7.1", info.DiagsVersion)
	assert.Equal(t, "SN9", info.SerialNumber)

	_, err = info.TestTimeSeconds()
	assert.Error(t, err)
}

func TestParseCSVLogWithoutStation(t *testing.T) {
	_, err := ParseCSVLog(nil)
	assert.ErrorIs(t, err, ErrNoStation)

	_, err = ParseCSVLog([][]string{{" ", "x"}})
	assert.ErrorIs(t, err, ErrNoStation)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"12", 12},
		{"-3", -3},
		{"5.02", 5.02},
		{"1e3", 1000.0},
		{"nan", "nan"},
		{"inf", "inf"},
		{"PASS", "PASS"},
		{"", ""},
		{"1.2.3", "1.2.3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CellValue(tt.in), tt.in)
	}
}

func TestParseModemLog(t *testing.T) {
	text := "AT+CSQ\tOK\r\n+CSQ: 21,99\x07\r\nresult==PASS\tdone\r\n"

	rows := ParseModemLog(text)

	assert.Equal(t, [][]string{
		{"AT+CSQ", "OK"},
		{"+CSQ: 21,99"},
		{" result==PASS", "done"},
	}, rows)
	assert.Equal(t, 2, MaxWidth(rows))
	assert.Nil(t, ParseModemLog(""))
}

func TestReadModemLogRecordsDroppedCharacters(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "qt_verify.log")
	require.NoError(t, logger.Init(&bytes.Buffer{}, logPath, false))
	defer logger.Close()

	modemPath := filepath.Join(dir, "modem.txt")
	text := "AT+CSQ\tOK\r\n+CSQ: 21,99\x07\r\nresult==PASS\r\nRING\x00\x07\tNO CARRIER\r\n"
	require.NoError(t, os.WriteFile(modemPath, []byte(text), 0644))

	rows, err := ReadModemLog(modemPath, []string{"utf-8"})
	require.NoError(t, err)
	assert.Equal(t, ParseModemLog(text), rows)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	logged := string(content)
	assert.Contains(t, logged, fmt.Sprintf("[INPUT] File: %s, Line: 2, Issue: dropped 1 non-printable characters", modemPath))
	assert.Contains(t, logged, fmt.Sprintf("[INPUT] File: %s, Line: 4, Issue: dropped 2 non-printable characters", modemPath))
	assert.NotContains(t, logged, "Line: 1,")
	assert.NotContains(t, logged, "Line: 3,")
}

func TestDecodeFallsBackToHints(t *testing.T) {
	big5, err := traditionalchinese.Big5.NewEncoder().String("測試站")
	require.NoError(t, err)

	assert.Equal(t, "測試站", Decode([]byte(big5), []string{"utf-8", "Big5"}))
	assert.Equal(t, "plain", Decode(append([]byte{0xEF, 0xBB, 0xBF}, "plain"...), nil))
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSVLog), 0644))

	records, err := ReadCSV(path, []string{"utf-8"})
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, "FCT-01", records[0][0])

	_, err = ReadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}
