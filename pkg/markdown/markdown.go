// Package markdown renders proposal markdown into a paginated PDF document.
// It supports the subset of markdown the generation provider is prompted to
// produce: headings, bullet lists, horizontal rules, and paragraphs. Inline
// emphasis markers are stripped rather than typeset.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	pageLeftMargin  = 15.0
	pageTopMargin   = 20.0
	pageRightMargin = 15.0
	lineHeight      = 5.5
	bodyFontSize    = 11.0
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13}

// Render converts markdown text into PDF bytes (A4 portrait).
func Render(md string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageLeftMargin, pageTopMargin, pageRightMargin)
	doc.SetAutoPageBreak(true, pageTopMargin)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(md, "\n") {
		writeLine(doc, tr, strings.TrimRight(line, " \t"))
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages in the rendered PDF.
func PageCount(data []byte) (int, error) {
	count, err := pdfapi.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return count, nil
}

func writeLine(doc *fpdf.Fpdf, tr func(string) string, line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		doc.Ln(lineHeight / 2)
	case trimmed == "---" || trimmed == "***":
		writeRule(doc)
	case strings.HasPrefix(trimmed, "#"):
		level, text := splitHeading(trimmed)
		writeHeading(doc, tr, level, text)
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		writeBullet(doc, tr, trimmed[2:])
	default:
		doc.SetFont("Helvetica", "", bodyFontSize)
		doc.MultiCell(0, lineHeight, tr(stripEmphasis(trimmed)), "", "L", false)
	}
}

func writeHeading(doc *fpdf.Fpdf, tr func(string) string, level int, text string) {
	size, ok := headingSizes[level]
	if !ok {
		size = 12
	}
	doc.Ln(lineHeight / 2)
	doc.SetFont("Helvetica", "B", size)
	doc.MultiCell(0, size*0.5, tr(stripEmphasis(text)), "", "L", false)
	doc.Ln(lineHeight / 2)
}

func writeBullet(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.SetFont("Helvetica", "", bodyFontSize)
	doc.CellFormat(6, lineHeight, "-", "", 0, "R", false, 0, "")
	doc.MultiCell(0, lineHeight, tr(stripEmphasis(text)), "", "L", false)
}

func writeRule(doc *fpdf.Fpdf) {
	doc.Ln(lineHeight / 2)
	pageWidth, _ := doc.GetPageSize()
	y := doc.GetY()
	doc.Line(pageLeftMargin, y, pageWidth-pageRightMargin, y)
	doc.Ln(lineHeight / 2)
}

func splitHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	return level, strings.TrimSpace(line[level:])
}

func stripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.ReplaceAll(s, "__", "")
}
