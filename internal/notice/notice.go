// Package notice writes the Word release notice that accompanies a new
// verification document.
package notice

import (
	"fmt"
	"os"
	"strings"

	"qt-verify/internal/logger"

	"github.com/nguyenthenguyen/docx"
)

// Fields are the facts printed in the notice
type Fields struct {
	Station      string
	Version      string
	VerifyDate   string
	ReleaseDate  string
	SerialNumber string
	DiagsVersion string
	TestTime     string
	Reviser      string
	Reviewer     string
}

func (f Fields) replacements() map[string]string {
	return map[string]string{
		"{{Station}}":      f.Station,
		"{{Version}}":      f.Version,
		"{{VerifyDate}}":   f.VerifyDate,
		"{{ReleaseDate}}":  f.ReleaseDate,
		"{{SerialNumber}}": f.SerialNumber,
		"{{DiagsVersion}}": f.DiagsVersion,
		"{{TestTime}}":     f.TestTime,
		"{{Reviser}}":      f.Reviser,
		"{{Reviewer}}":     f.Reviewer,
	}
}

// PathFor returns the notice path that belongs to a verification document
func PathFor(documentPath string) string {
	return strings.TrimSuffix(documentPath, ".xlsx") + ".docx"
}

// Write fills the template at templatePath, or the default template when
// templatePath is empty, and saves the result to outPath
func Write(outPath, templatePath string, fields Fields) error {
	if templatePath == "" {
		tmp, err := defaultTemplateFile()
		if err != nil {
			return err
		}
		defer os.Remove(tmp)
		templatePath = tmp
	}

	r, err := docx.ReadDocxFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read notice template %s: %w", templatePath, err)
	}
	defer r.Close()

	doc := r.Editable()
	for placeholder, value := range fields.replacements() {
		if !strings.Contains(doc.GetContent(), placeholder) {
			logger.Debug("Notice template has no %s", placeholder)
			continue
		}
		if err := doc.Replace(placeholder, value, -1); err != nil {
			return fmt.Errorf("failed to fill %s: %w", placeholder, err)
		}
	}

	if err := doc.WriteToFile(outPath); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}
	return nil
}

// defaultTemplateFile writes the default template to a temp file
func defaultTemplateFile() (string, error) {
	tmpFile, err := os.CreateTemp("", "qt-verify-notice-*.docx")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := WriteTemplate(tmpFile); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmpFile.Name(), nil
}
