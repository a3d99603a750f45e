package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is a single labelled value on a grade sheet.
type Field struct {
	Label string
	Value string
}

// SemesterBlock is one semester's worth of fields on the exported sheet.
type SemesterBlock struct {
	Title  string
	Fields []Field
}

// PDFExporter renders a student grade sheet into a PDF document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderGradeSheet creates a PDF with a title line and one table per semester block.
func (e *PDFExporter) RenderGradeSheet(title string, blocks []SemesterBlock) ([]byte, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("grade sheet requires at least one semester block")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	for _, block := range blocks {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, block.Title, "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, f := range block.Fields {
			pdf.CellFormat(60, 7, f.Label, "1", 0, "", false, 0, "")
			pdf.CellFormat(130, 7, f.Value, "1", 0, "", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
