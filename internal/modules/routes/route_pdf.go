package routes

import (
	"bytes"
	"fmt"
	"strings"

	"route-planner/internal/models"
	"route-planner/internal/planner"

	"github.com/gosimple/slug"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const fontFamily = "route"

// pdfRenderer lays out a saved route as an A4 document. Core fonts only cover
// Latin-1; set fontFile to a TTF with Cyrillic glyphs for Ukrainian content.
type pdfRenderer struct {
	fontFile string
}

// PDFFilename derives a download name from the route title.
func PDFFilename(title string) string {
	s := slug.Make(title)
	if s == "" {
		s = "route"
	}
	return s + ".pdf"
}

func (p pdfRenderer) Render(route *models.SavedRoute, opts models.PDFOptions, shareURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if p.fontFile != "" {
		pdf.AddUTF8Font(fontFamily, "", p.fontFile)
		pdf.AddUTF8Font(fontFamily, "B", p.fontFile)
		family = fontFamily
		tr = func(s string) string { return s }
	}
	pdf.SetTitle(route.Title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	d := route.Draft
	if opts.CoverPhoto {
		pdf.SetFillColor(33, 111, 219)
		pdf.Rect(0, 0, 210, 42, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(15, 12)
		pdf.SetFont(family, "B", 20)
		pdf.CellFormat(0, 10, tr(route.Title), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 12)
		pdf.CellFormat(0, 8, tr(d.Destination), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetY(50)
	} else {
		pdf.SetFont(family, "B", 18)
		pdf.CellFormat(0, 10, tr(route.Title), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	line := func(label, value string) {
		pdf.SetFont(family, "B", 11)
		pdf.CellFormat(40, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont(family, "", 11)
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}
	heading := func(text string) {
		pdf.Ln(4)
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 9, tr(text), "B", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	line("Destination:", d.Destination)
	line("Dates:", d.DateRange)
	if opts.Budget {
		line("Budget:", fmt.Sprintf("%d%%", d.Budget))
	}

	if opts.Map && len(d.Points) > 0 {
		heading("Route")
		names := make([]string, len(d.Points))
		for i, pt := range d.Points {
			names[i] = pt.Name
		}
		pdf.SetFont(family, "", 11)
		pdf.MultiCell(0, 6, tr(strings.Join(names, " -> ")), "", "L", false)
	}

	heading("Schedule")
	if len(d.Points) == 0 {
		pdf.SetFont(family, "", 11)
		pdf.CellFormat(0, 7, "No route points", "", 1, "L", false, 0, "")
	}
	n := 0
	for _, day := range planner.GroupByDate(d.Points) {
		pdf.SetFont(family, "B", 12)
		date := day.Date
		if date == "" {
			date = "Undated"
		}
		pdf.CellFormat(0, 8, tr(date), "", 1, "L", false, 0, "")
		for _, pt := range day.Points {
			n++
			pdf.SetFont(family, "", 11)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d. %s-%s  %s", n, pt.TimeStart, pt.TimeEnd, pt.Name)), "", 1, "L", false, 0, "")
			if opts.Notes && pt.Notes != "" {
				pdf.SetX(22)
				pdf.SetFont(family, "", 9)
				pdf.MultiCell(0, 5, tr(pt.Notes), "", "L", false)
			}
		}
	}

	if d.Transport != nil {
		heading("Transport")
		line("Name:", d.Transport.Name)
		line("Route:", d.Transport.Route)
		if opts.Budget {
			line("Price:", fmt.Sprintf("%.2f %s", d.Transport.Price, d.Transport.Currency))
		}
	}
	if d.Accommodation != nil {
		heading("Accommodation")
		line("Hotel:", d.Accommodation.HotelName)
		line("Stay:", d.Accommodation.CheckIn+" - "+d.Accommodation.CheckOut)
		if opts.Budget {
			line("Price:", fmt.Sprintf("%.2f %s", d.Accommodation.Price, d.Accommodation.Currency))
		}
	}
	if opts.Budget && (d.Transport != nil || d.Accommodation != nil) {
		pdf.Ln(2)
		line("Total:", fmt.Sprintf("%.2f", d.TotalCost()))
	}

	if opts.QRCode && shareURL != "" {
		qrPNG, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encoding share qr code: %w", err)
		}
		heading("Shared link")
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
		y := pdf.GetY()
		pdf.ImageOptions("qr", 15, y, 40, 40, false, imageOpts, 0, "")
		pdf.SetXY(60, y+15)
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(0, 6, shareURL, "", 1, "L", false, 0, shareURL)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
