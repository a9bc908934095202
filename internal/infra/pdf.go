package infra

// pdf.go - receipt PDF generation using go-pdf/fpdf.
// Generates thermal-receipt-style tickets with the store header, invoice
// number and date, an item table, the discount (or surcharge) line, and a
// bold total. Output is saved to storagePath/receipt_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateReceiptPDF renders a PDF receipt for a completed sale invoice.
// storagePath is created if needed. Returns the path of the generated file.
func GenerateReceiptPDF(inv *model.SaleInvoice, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", inv.Number)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm - close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	title := "Sales Receipt"
	if inv.Kind == "return" {
		title = "Return Receipt"
	}
	pdf.CellFormat(contentW, 5, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Invoice info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Invoice #%d", inv.Number), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, inv.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // description
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, line := range inv.Lines {
		name := line.Description
		if len(name) > 24 {
			name = name[:24]
		}
		pdf.CellFormat(col1, 4.5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4.5, fmt.Sprintf("%d", line.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 4.5, line.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	// ── Totals ───────────────────────────────────────────────────────────────
	if !inv.Discount.IsZero() {
		label := "Discount"
		if inv.Discount.LessThan(decimal.Zero) {
			label = "Surcharge"
		}
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW*0.6, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, inv.Discount.Abs().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.6, 6, "TOTAL AFN", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 6, inv.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 6)
	pdf.CellFormat(contentW, 4, "Thank you for your purchase", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
