package interfaces

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	ledger "ledger-cloud/internal/ledger/domain"
	"ledger-cloud/internal/vat"
)

// BuildSummaryPDF renders the period VAT summary as a PDF.
func BuildSummaryPDF(period ledger.Period, summary *vat.Summary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary export: nil summary")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1250")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Přehled DPH"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Období: %s", period.Label())))
	pdf.Ln(8)

	writeBucketTable := func(title string, buckets map[float64]*vat.Bucket) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, tr(title))
		pdf.Ln(7)
		pdf.CellFormat(30, 6, tr("Sazba"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, tr("Základ"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, "DPH", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, tr("Počet"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, rate := range sortedRates(buckets) {
			bucket := buckets[rate]
			pdf.CellFormat(30, 6, fmt.Sprintf("%g %%", rate), "1", 0, "C", false, 0, "")
			pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", bucket.BaseAmount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", bucket.VATAmount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d", bucket.TransactionCount), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}
	writeBucketTable("DPH na výstupu", summary.OutputBuckets)
	writeBucketTable("DPH na vstupu", summary.InputBuckets)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("DPH celkem: %.2f (%s)", summary.NetVATTotal, statusLabel(summary.Status))))
	pdf.Ln(5)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSummaryXLSX renders the period VAT summary as an XLSX workbook with a
// summary sheet and one sheet per VAT side.
func BuildSummaryXLSX(period ledger.Period, summary *vat.Summary) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary export: nil summary")
	}
	f := excelize.NewFile()
	summarySheet := "summary"
	outputSheet := "output"
	inputSheet := "input"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(outputSheet)
	f.NewSheet(inputSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Přehled DPH")
	_ = f.SetCellValue(summarySheet, "A3", "Období")
	_ = f.SetCellValue(summarySheet, "B3", period.Label())
	_ = f.SetCellValue(summarySheet, "A4", "DPH na výstupu")
	_ = f.SetCellValue(summarySheet, "B4", summary.OutputVATTotal)
	_ = f.SetCellValue(summarySheet, "A5", "DPH na vstupu")
	_ = f.SetCellValue(summarySheet, "B5", summary.InputVATTotal)
	_ = f.SetCellValue(summarySheet, "A6", "DPH celkem")
	_ = f.SetCellValue(summarySheet, "B6", summary.NetVATTotal)
	_ = f.SetCellValue(summarySheet, "A7", "Výsledek")
	_ = f.SetCellValue(summarySheet, "B7", statusLabel(summary.Status))

	writeBucketSheet := func(sheet string, buckets map[float64]*vat.Bucket) {
		_ = f.SetCellValue(sheet, "A1", "Sazba")
		_ = f.SetCellValue(sheet, "B1", "Základ")
		_ = f.SetCellValue(sheet, "C1", "DPH")
		_ = f.SetCellValue(sheet, "D1", "Celkem")
		_ = f.SetCellValue(sheet, "E1", "Počet")
		for i, rate := range sortedRates(buckets) {
			bucket := buckets[rate]
			row := i + 2
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rate)
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), bucket.BaseAmount)
			_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), bucket.VATAmount)
			_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), bucket.TotalAmount)
			_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), bucket.TransactionCount)
		}
	}
	writeBucketSheet(outputSheet, summary.OutputBuckets)
	writeBucketSheet(inputSheet, summary.InputBuckets)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildQuarterlyPDF renders the quarterly return lines as a PDF.
func BuildQuarterlyPDF(ret *vat.QuarterlyReturn) ([]byte, error) {
	if ret == nil {
		return nil, fmt.Errorf("summary export: nil return")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1250")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(fmt.Sprintf("Přiznání k DPH %d/Q%d", ret.Year, ret.Quarter)))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Termín podání: %s", ret.DueDate.Format("02.01.2006"))))
	pdf.Ln(8)

	order := []string{
		vat.LineOutputStandardBase,
		vat.LineOutputStandardVAT,
		vat.LineOutputReducedBase,
		vat.LineOutputReducedVAT,
		vat.LineInputBase,
		vat.LineInputVAT,
		vat.LineNetVAT,
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 6, tr("Řádek"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, tr("Částka"), "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range order {
		pdf.CellFormat(60, 6, line, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", ret.Lines[line]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedRates(buckets map[float64]*vat.Bucket) []float64 {
	rates := make([]float64, 0, len(buckets))
	for rate := range buckets {
		rates = append(rates, rate)
	}
	sort.Float64s(rates)
	return rates
}

func statusLabel(status string) string {
	if status == vat.StatusToRefund {
		return "nadměrný odpočet"
	}
	return "vlastní daň"
}
