// Package document renders printable booking documents.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

// SummaryRenderer builds a one-page booking summary PDF.
type SummaryRenderer struct {
	company string
}

// NewSummaryRenderer creates a renderer that prints company in the header.
func NewSummaryRenderer(company string) *SummaryRenderer {
	if company == "" {
		company = "TripDesk"
	}
	return &SummaryRenderer{company: company}
}

// RenderBookingSummary renders the booking, its line items and its thread.
func (r *SummaryRenderer) RenderBookingSummary(bk application.BookingDTO, comments []application.CommentDTO) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking "+bk.BookingNumber, false)
	pdf.SetAuthor(r.company, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(strings.ReplaceAll(s, "→", "->")) }

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, text(r.company+" booking summary"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Booking number : " + bk.BookingNumber,
		"Status         : " + bk.Status,
		"Traveller      : " + fallback(bk.Owner.Name, "-") + " <" + fallback(bk.Owner.Email, "-") + ">",
		"Itinerary      : " + fallback(bk.ItineraryName, "-"),
		"Submitted      : " + bk.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
		"Last updated   : " + bk.UpdatedAt.UTC().Format("2006-01-02 15:04 MST"),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, text(l))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Selections")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, s := range bk.Selections {
		pdf.MultiCell(0, 6, text(fmt.Sprintf("%d) %s", i+1, s.Summary)), "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, text("Total: "+domain.FormatCents(bk.TotalPriceCents, bk.Currency)))
	pdf.Ln(12)

	if len(comments) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Conversation")
		pdf.Ln(8)
		for _, c := range comments {
			who := c.AuthorName
			if c.IsAgent {
				who += " (agent)"
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 6, text(fmt.Sprintf("%s, %s", who, c.CreatedAt.UTC().Format("2006-01-02 15:04"))))
			pdf.Ln(6)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, text(c.Body), "", "", false)
			pdf.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write booking summary pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
