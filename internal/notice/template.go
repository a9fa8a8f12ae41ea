package notice

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// Placeholders understood by Write, in the order the default template lists them
var Placeholders = []string{
	"{{Station}}",
	"{{Version}}",
	"{{VerifyDate}}",
	"{{ReleaseDate}}",
	"{{SerialNumber}}",
	"{{DiagsVersion}}",
	"{{TestTime}}",
	"{{Reviser}}",
	"{{Reviewer}}",
}

var templateParts = []struct {
	name    string
	content string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
	// Required by some parsers
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
}

// WriteTemplate writes the default release-notice template: a minimal
// .docx with one paragraph per placeholder
func WriteTemplate(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, part := range templateParts {
		if err := writePart(zw, part.name, part.content); err != nil {
			return err
		}
	}
	if err := writePart(zw, "word/document.xml", documentXML()); err != nil {
		return err
	}

	return zw.Close()
}

func writePart(zw *zip.Writer, name, content string) error {
	pw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := io.WriteString(pw, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func documentXML() string {
	labels := []string{
		"Station", "Version", "Verify Date", "Release Date",
		"Test Sample SN", "Diag Version", "Test Time (s)", "Reviser", "Reviewer",
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>QT Overlay Verification Release Notice</w:t></w:r></w:p>
`)
	for i, ph := range Placeholders {
		fmt.Fprintf(&sb, "<w:p><w:r><w:t xml:space=\"preserve\">%s: %s</w:t></w:r></w:p>\n", labels[i], ph)
	}
	sb.WriteString(`</w:body>
</w:document>`)
	return sb.String()
}
