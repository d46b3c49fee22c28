package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	pdfBodyFont  = "Arial"
	pdfBodySize  = 9.0
	pdfTableSize = 8.0
	pdfLineH     = 5.0
	pdfPageWidth = 190.0
)

// RenderPDF converts the composed markdown into an A4 PDF. The markdown is
// parsed with goldmark and the AST is walked directly into fpdf so tables
// and bullet lists come out as native PDF structures rather than rasterised
// HTML.
func RenderPDF(markdown, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	pdf.SetFont(pdfBodyFont, "", pdfBodySize)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	)

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	r := &pdfWriter{pdf: pdf, source: source}
	if err := ast.Walk(doc, r.walk); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF output: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf       *fpdf.Fpdf
	source    []byte
	bold      bool
	italic    bool
	listDepth int
}

func (r *pdfWriter) bodyFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(pdfBodyFont, style, pdfBodySize)
}

func (r *pdfWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		r.heading(node, entering)
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(7)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(pdfLineH, string(node.Text(r.source)))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.bodyFont()
	case *ast.List:
		if entering {
			r.listDepth++
		} else {
			r.listDepth--
			if r.listDepth == 0 {
				r.pdf.Ln(3)
			}
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(pdfLineH)
			r.pdf.SetX(12 + float64(r.listDepth)*4)
			r.pdf.Write(pdfLineH, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(3)
			r.pdf.Line(10, r.pdf.GetY(), 200, r.pdf.GetY())
			r.pdf.Ln(3)
		}
	case *extast.Table:
		if entering {
			r.table(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (r *pdfWriter) heading(n *ast.Heading, entering bool) {
	if entering {
		r.pdf.Ln(6)
		size := 14.0 - float64(n.Level)
		if size < 10 {
			size = 10
		}
		r.pdf.SetFont(pdfBodyFont, "B", size)
		return
	}
	r.pdf.Ln(7)
	r.bodyFont()
}

// table flattens the header and body rows to plain strings and lays them
// out with content-proportional column widths.
func (r *pdfWriter) table(n *extast.Table) {
	var rows [][]string
	var collect func(node ast.Node)
	collect = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch child.(type) {
			case *extast.TableRow:
				rows = append(rows, r.tableRow(child))
			case *extast.TableHeader:
				if _, ok := child.FirstChild().(*extast.TableCell); ok {
					rows = append(rows, r.tableRow(child))
				} else {
					collect(child)
				}
			}
		}
	}
	collect(n)
	if len(rows) == 0 {
		return
	}

	widths := r.columnWidths(rows)
	r.pdf.Ln(2)

	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(pdfBodyFont, "B", pdfTableSize)
			r.pdf.SetFillColor(235, 237, 241)
		} else {
			r.pdf.SetFont(pdfBodyFont, "", pdfTableSize)
			r.pdf.SetFillColor(255, 255, 255)
		}
		r.tableRowOut(row, widths, i == 0)
	}

	r.pdf.Ln(3)
	r.bodyFont()
}

func (r *pdfWriter) tableRow(n ast.Node) []string {
	var row []string
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			row = append(row, string(cell.Text(r.source)))
		}
	}
	return row
}

func (r *pdfWriter) columnWidths(rows [][]string) []float64 {
	cols := len(rows[0])
	widths := make([]float64, cols)

	r.pdf.SetFont(pdfBodyFont, "", pdfTableSize)
	for _, row := range rows {
		for i, cell := range row {
			if i >= cols {
				break
			}
			if w := r.pdf.GetStringWidth(cell) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0.0
	for i := range widths {
		if widths[i] < 14 {
			widths[i] = 14
		}
		if widths[i] > pdfPageWidth/2 {
			widths[i] = pdfPageWidth / 2
		}
		total += widths[i]
	}
	scale := pdfPageWidth / total
	for i := range widths {
		widths[i] *= scale
	}
	return widths
}

func (r *pdfWriter) tableRowOut(row []string, widths []float64, header bool) {
	lineHeight := 4.0

	wrapped := make([][]string, len(widths))
	height := 1
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		wrapped[i] = r.wrapText(cell, widths[i]-2)
		if len(wrapped[i]) > height {
			height = len(wrapped[i])
		}
	}
	rowHeight := float64(height)*lineHeight + 2

	startX := r.pdf.GetX()
	startY := r.pdf.GetY()
	if startY+rowHeight > 285 {
		r.pdf.AddPage()
		startY = r.pdf.GetY()
	}

	x := startX
	for i, lines := range wrapped {
		fill := "D"
		if header {
			fill = "FD"
		}
		r.pdf.Rect(x, startY, widths[i], rowHeight, fill)
		for j, line := range lines {
			r.pdf.SetXY(x+1, startY+1+float64(j)*lineHeight)
			r.pdf.CellFormat(widths[i]-2, lineHeight, line, "", 0, "L", false, 0, "")
		}
		x += widths[i]
	}
	r.pdf.SetXY(startX, startY+rowHeight)
}

// wrapText splits a cell into lines that fit the given width, measured with
// the current font.
func (r *pdfWriter) wrapText(s string, width float64) []string {
	words := splitWords(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if r.pdf.GetStringWidth(candidate) <= width || line == "" {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, c := range s {
		if c == ' ' || c == '\t' || c == '\n' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}
