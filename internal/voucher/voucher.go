package voucher

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/BellSamaa/TourZen-sub001/internal/database"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
)

// Generate renders a single-page A4 booking voucher with the itemized quote
// and a QR code of the booking reference.
func Generate(b *database.Booking, quote *pricing.BookingQuote) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetAutoPageBreak(false, 0)

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "TOURZEN BOOKING VOUCHER")
	pdf.Ln(16)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	// Summary box
	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 125, 52, "F")

	pdf.SetFont("Helvetica", "", 11)
	writeRow := func(label, value string) {
		pdf.SetX(18)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(38, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	pdf.SetY(yStart + 3)
	reference := ""
	if b.Reference != nil {
		reference = *b.Reference
	}
	writeRow("Reference", reference)
	writeRow("Booking ID", b.ID.String())
	writeRow("Tour", b.TourTitle)
	writeRow("Departure", b.DepartureMonthLabel)
	writeRow("Customer", b.CustomerName)
	writeRow("Travelers", travelerSummary(b))

	// QR code on the right of the summary box
	if reference != "" {
		png, err := qrcode.Encode(reference, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("failed to encode QR code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("voucher-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("voucher-qr", 150, yStart+2, 45, 45, false, opts, 0, "")
	}

	pdf.SetY(yStart + 58)

	// Line items
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Price breakdown")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(85, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if quote != nil {
		for _, li := range quote.LineItems {
			pdf.CellFormat(85, 7, li.Label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 7, formatVND(li.UnitPrice), "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 7, strconv.Itoa(li.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 7, formatVND(li.Subtotal), "1", 1, "R", false, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, formatVND(b.TotalAmount), "1", 1, "R", false, 0, "")

	// Footer
	pdf.SetY(270)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.Cell(0, 6, "Present this voucher and a valid ID at departure. Hotline: 1900 6750")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render voucher: %w", err)
	}
	return buf.Bytes(), nil
}

func travelerSummary(b *database.Booking) string {
	parts := []string{fmt.Sprintf("%d adult(s)", b.Adults)}
	if b.Children > 0 {
		parts = append(parts, fmt.Sprintf("%d child(ren)", b.Children))
	}
	if b.Infants > 0 {
		parts = append(parts, fmt.Sprintf("%d infant(s)", b.Infants))
	}
	return strings.Join(parts, ", ")
}

// formatVND renders whole đồng with dot thousand separators, e.g. 3.590.000 d.
func formatVND(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out + " d"
}
