package docs

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	ledger "ledger-cloud/internal/ledger/domain"
)

// Renderer turns structured invoice data into a PDF byte stream.
type Renderer struct{}

// NewRenderer constructs a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderInvoice renders a single invoice as an A4 PDF.
func (r *Renderer) RenderInvoice(inv ledger.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1250")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(fmt.Sprintf("Faktura %s", inv.Number)))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Odběratel: %s", inv.ClientName)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(inv.ClientAddress))
	pdf.Ln(5)
	if inv.ClientVATNumber != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("DIČ: %s", inv.ClientVATNumber)))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Vystaveno: %s", inv.IssueDate.Format("02.01.2006"))))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Splatnost: %s", inv.DueDate.Format("02.01.2006"))))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, tr("Položka"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, tr("Množství"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, tr("Cena/ks"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 6, tr("DPH %"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, tr("Celkem"), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range inv.Lines {
		pdf.CellFormat(80, 6, tr(line.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%g", line.VATRate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", line.Base()+line.VAT()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Základ daně: %.2f %s", inv.Subtotal, inv.Currency)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("DPH: %.2f %s", inv.VATAmount, inv.Currency)))
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Celkem k úhradě: %.2f %s", inv.Total, inv.Currency)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}
