// Package artifact renders generated documents to files that can be attached
// to an application, and removes them afterwards.
package artifact

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	bodyFontSize    = 10.5
	headingFontSize = 12
	titleFontSize   = 16
	lineHeight      = 5.5
)

// RenderPDF lays text out on A4 pages. The first non-empty line is set as a
// title and lines written entirely in capitals as section headings.
func RenderPDF(text string) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render PDF panic recover: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 16, 18)
	pdf.SetAutoPageBreak(true, 16)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	titled := false
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		switch {
		case strings.TrimSpace(line) == "":
			pdf.Ln(lineHeight / 2)
		case !titled:
			titled = true
			pdf.SetFont("Helvetica", "B", titleFontSize)
			pdf.MultiCell(0, lineHeight*1.5, tr(strings.TrimSpace(line)), "", "L", false)
		case isHeading(line):
			pdf.Ln(lineHeight / 2)
			pdf.SetFont("Helvetica", "B", headingFontSize)
			pdf.MultiCell(0, lineHeight*1.2, tr(strings.TrimSpace(line)), "B", "L", false)
		default:
			pdf.SetFont("Helvetica", "", bodyFontSize)
			pdf.MultiCell(0, lineHeight, tr(bullet(line)), "", "L", false)
		}
		if pdf.Err() {
			return nil, pdf.Error()
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// isHeading reports whether line is a short all-capitals label such as "EXPERIENCE".
func isHeading(line string) bool {
	line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	if line == "" || len(line) > 40 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// bullet normalizes markdown list markers to a bullet glyph.
func bullet(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(trimmed, marker) {
			return "  • " + strings.TrimPrefix(trimmed, marker)
		}
	}
	return line
}
