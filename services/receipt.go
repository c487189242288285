package services

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/utils"
)

// ReceiptHeader is printed at the top of every receipt.
type ReceiptHeader struct {
	Name    string
	Address string
	Phone   string
}

const receiptWidth = 80.0 // mm, thermal roll

// RenderReceiptPDF writes a cashier receipt for order to w. The order must be
// loaded with its items and products.
func RenderReceiptPDF(w io.Writer, header ReceiptHeader, order *models.Order, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	height := 110.0 + float64(len(order.Items))*10
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: receiptWidth, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()

	content := receiptWidth - 8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(content, 6, tr(header.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	if header.Address != "" {
		pdf.CellFormat(content, 4, tr(header.Address), "", 1, "C", false, 0, "")
	}
	if header.Phone != "" {
		pdf.CellFormat(content, 4, tr(header.Phone), "", 1, "C", false, 0, "")
	}
	receiptDivider(pdf, content)

	receiptRow(pdf, content, "Receipt", "RCP/"+order.OrderCode)
	receiptRow(pdf, content, "Order", order.OrderCode)
	receiptRow(pdf, content, "Date", order.CreatedAt.In(loc).Format("02/01/2006 15:04"))
	receiptRow(pdf, content, "Customer", tr(order.CustomerName))
	typeLabel := order.OrderType.Label()
	if order.TableNumber != nil {
		typeLabel += " - Table " + *order.TableNumber
	}
	receiptRow(pdf, content, "Type", typeLabel)
	receiptDivider(pdf, content)

	for _, item := range order.Items {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(content, 4, tr(fmt.Sprintf("%d x %s", item.Quantity, item.Product.Name)), "", 1, "L", false, 0, "")
		receiptRow(pdf, content, "  @ "+utils.FormatCurrencyIDR(item.Price), utils.FormatCurrencyIDR(item.Subtotal))
		if item.Notes != nil {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.CellFormat(content, 4, tr("  "+*item.Notes), "", 1, "L", false, 0, "")
		}
	}
	receiptDivider(pdf, content)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(content/2, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(content/2, 6, utils.FormatCurrencyIDR(order.TotalAmount), "", 1, "R", false, 0, "")

	method := "-"
	if order.PaymentMethod != nil {
		method = *order.PaymentMethod
	}
	receiptRow(pdf, content, "Payment", method)
	receiptRow(pdf, content, "Status", order.PaymentStatus.Label())
	receiptDivider(pdf, content)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(content, 4, "Thank you for your order!", "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render receipt for %s: %w", order.OrderCode, err)
	}
	return nil
}

func receiptRow(pdf *fpdf.Fpdf, width float64, label, value string) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(width/2, 4, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(width/2, 4, value, "", 1, "R", false, 0, "")
}

func receiptDivider(pdf *fpdf.Fpdf, width float64) {
	x, y := pdf.GetXY()
	pdf.Ln(1)
	pdf.Line(x, y+1, x+width, y+1)
	pdf.Ln(2)
}
