// Package logs reads the station artifacts that feed a verification report:
// the CSV test log, the modem UART log and the raw CSV file.
package logs

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoders maps encoding hints (lower case) to their decoders
var decoders = map[string]encoding.Encoding{
	"big5":       traditionalchinese.Big5,
	"euc-kr":     korean.EUCKR,
	"ms949":      korean.EUCKR,
	"cp949":      korean.EUCKR,
	"gbk":        simplifiedchinese.GBK,
	"gb18030":    simplifiedchinese.GB18030,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"cp1252":     charmap.Windows1252,
}

// ReadText reads a file as UTF-8 text
// Files that are not valid UTF-8 are decoded with the first encoding hint
// that yields valid UTF-8; if none does, the raw bytes are returned as-is
func ReadText(path string, hints []string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(raw, hints), nil
}

// Decode converts raw bytes to UTF-8 text using the encoding hints
func Decode(raw []byte, hints []string) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}

	for _, hint := range hints {
		enc, ok := decoders[strings.ToLower(strings.TrimSpace(hint))]
		if !ok {
			continue
		}
		decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded)
		}
	}

	// Might be corrupted; keep what we have
	return string(raw)
}
