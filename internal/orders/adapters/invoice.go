package adapters

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"go-shop/internal/orders/ports"
	apperrors "go-shop/pkg/errors"
)

// PDFInvoiceRenderer implements InvoiceRenderer using gofpdf. Stateless:
// each call builds a fresh document from the resolved order.
type PDFInvoiceRenderer struct{}

// NewPDFInvoiceRenderer creates a new PDF invoice renderer
func NewPDFInvoiceRenderer() *PDFInvoiceRenderer {
	return &PDFInvoiceRenderer{}
}

// Render serializes a resolved order to PDF bytes
func (r *PDFInvoiceRenderer) Render(order *ports.ResolvedOrder) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("Invoice #%d", order.Order.ID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.Order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	if order.User != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Customer: %s <%s>", order.User.Name, order.User.Email))
	} else {
		pdf.Cell(0, 6, fmt.Sprintf("Customer #%d", order.Order.UserID))
	}
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 0, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		name := fmt.Sprintf("Product #%d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		pdf.CellFormat(80, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Subtotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.Ln(4)
	if order.Order.CouponCode != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Coupon applied: %s", order.Order.CouponCode))
		pdf.Ln(6)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.Order.Total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewInternal("failed to render invoice", err)
	}

	return buf.Bytes(), nil
}
