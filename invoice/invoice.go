// Package invoice renders a one-page PDF receipt for an order.
package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	PageWidth  = 600.0
	PageHeight = 800.0
	// MaxRows is the number of dish rows that fit above the summary.
	MaxRows = 18
)

type RGB struct{ R, G, B int }

var (
	black  = RGB{0, 0, 0}
	amber  = RGB{217, 120, 5}
	grey   = RGB{128, 128, 128}
	green  = RGB{26, 153, 26}
	red    = RGB{204, 26, 26}
	shade  = RGB{242, 242, 242}
	paper  = RGB{250, 250, 250}
	rule   = RGB{204, 204, 204}
	inkish = RGB{26, 26, 26}
)

// Text is a string drawn with its baseline at (X, Y), origin top-left.
type Text struct {
	X, Y  float64
	S     string
	Size  float64
	Bold  bool
	Color RGB
}

type Rect struct {
	X, Y, W, H float64
	Fill       RGB
}

type Line struct {
	X1, Y1, X2, Y2 float64
	Color          RGB
}

// Layout is the positioned content of the page.
type Layout struct {
	Rects []Rect
	Lines []Line
	Texts []Text
}

// Options customise the static parts of the page.
type Options struct {
	Brand     string
	Signatory string
	Location  *time.Location
}

var DefaultOptions = Options{Brand: "DIGIFOOD", Signatory: "DigiFood Kitchen"}

func money(d decimal.Decimal) string { return "Rs. " + d.StringFixed(0) }

// Build positions every element of the invoice for o. Items beyond MaxRows
// are not drawn; the summary still reflects the full order.
func Build(o *entity.Order, opts Options) Layout {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	var l Layout
	text := func(x, y float64, s string, size float64, bold bool, c RGB) {
		l.Texts = append(l.Texts, Text{X: x, Y: y, S: s, Size: size, Bold: bold, Color: c})
	}

	text(50, 50, opts.Brand, 30, true, amber)
	text(50, 80, "Official Digital Invoice | Premium Dining Experience", 12, false, black)

	customer := o.CustomerName
	if customer == "" {
		customer = "N/A"
	}
	text(50, 120, "Order ID: "+o.ID.String(), 10, false, black)
	text(50, 135, "Date: "+o.CreatedAt.In(loc).Format("02 Jan 2006 15:04"), 10, false, black)
	text(50, 150, "Visit Time: "+o.VisitTime.In(loc).Format("02 Jan 2006 15:04"), 10, true, black)
	text(50, 165, "Customer: "+customer, 10, false, black)

	tableTop := 200.0
	l.Rects = append(l.Rects, Rect{X: 50, Y: tableTop - 15, W: 500, H: 20, Fill: shade})
	text(60, tableTop, "Item", 10, true, black)
	text(350, tableTop, "Qty", 10, true, black)
	text(400, tableTop, "Price", 10, true, black)
	text(500, tableTop, "Total", 10, true, black)

	y := tableTop + 25
	for i, it := range o.Items {
		if i == MaxRows {
			break
		}
		name := "Item"
		if it.MenuItem != nil && it.MenuItem.Name != "" {
			name = it.MenuItem.Name
		}
		text(60, y, name, 10, false, black)
		text(350, y, fmt.Sprintf("%d", it.Quantity), 10, false, black)
		text(400, y, money(it.PriceAtTime), 10, false, black)
		text(500, y, money(it.LineTotal()), 10, false, black)
		y += 20
	}

	summaryTop := y + 40
	l.Rects = append(l.Rects, Rect{X: 350, Y: summaryTop - 20, W: 200, H: 80, Fill: paper})
	text(360, summaryTop+10, "Subtotal: "+money(o.TotalAmount), 12, false, black)
	text(360, summaryTop+30, "Paid Now (50%): "+money(o.PaidAmount), 12, true, green)
	text(360, summaryTop+50, "Remaining: "+money(o.Balance()), 12, true, red)

	sigY := summaryTop + 120
	text(360, sigY, "Digitally Verified By:", 10, false, black)
	text(360, sigY+20, opts.Signatory, 16, true, inkish)
	l.Lines = append(l.Lines, Line{X1: 360, Y1: sigY + 25, X2: 500, Y2: sigY + 25, Color: rule})
	text(360, sigY+35, "AUTHORIZED RITUAL SIGNATURE", 6, false, grey)

	text(PageWidth/2-100, PageHeight-50, "Thank you for choosing DigiFood!", 10, false, grey)
	text(PageWidth/2-90, PageHeight-35, "Please show this invoice upon arrival.", 10, false, grey)
	return l
}

// Render draws l onto a single 600×800pt page.
func Render(l Layout) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	for _, r := range l.Rects {
		pdf.SetFillColor(r.Fill.R, r.Fill.G, r.Fill.B)
		pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	}
	for _, ln := range l.Lines {
		pdf.SetDrawColor(ln.Color.R, ln.Color.G, ln.Color.B)
		pdf.SetLineWidth(1)
		pdf.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range l.Texts {
		style := ""
		if t.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, t.Size)
		pdf.SetTextColor(t.Color.R, t.Color.G, t.Color.B)
		pdf.Text(t.X, t.Y, tr(t.S))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate builds and renders the invoice for o.
func Generate(o *entity.Order, opts Options) ([]byte, error) {
	return Render(Build(o, opts))
}

// FileName is invoice-<first 8 characters of the order id>.pdf.
func FileName(o *entity.Order) string {
	return fmt.Sprintf("invoice-%s.pdf", o.ID.String()[:8])
}
