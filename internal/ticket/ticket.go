// Package ticket renders a booking as a printable PDF ticket.
package ticket

import (
	"errors"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/iliyamo/gold-cinema/internal/model"
)

var (
	colorGold = &props.Color{Red: 184, Green: 134, Blue: 11}
	colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Render produces a one-page PDF for booking b held by username. The QR
// code encodes the booking id.
func Render(b model.BookingView, username string) ([]byte, error) {
	if b.ID == "" {
		return nil, errors.New("ticket: booking without id")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Gold Cinema ticket", true).
		WithAuthor("Gold Cinema", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorGold, Thickness: 0.5}))
	m.AddRows(detailRows(b, username)...)
	m.AddRows(line.NewRow(4))
	m.AddRows(qrRow(b.ID))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("ticket: generate: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow() core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("GOLD CINEMA", props.Text{
				Style: fontstyle.Bold, Size: 18, Align: align.Center, Color: colorGold, Top: 2,
			}),
			text.New("Admission ticket", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 11,
			}),
		),
	)
}

func detailRows(b model.BookingView, username string) []core.Row {
	title := b.ScreeningTitle
	if title == "" {
		title = "Screening " + b.ScreeningID
	}
	fields := []struct{ label, value string }{
		{"Movie", title},
		{"Seats", strings.Join(b.Seats, ", ")},
		{"Holder", username},
		{"Booked at", b.CreatedAt.UTC().Format("02 Jan 2006 15:04 UTC")},
		{"Booking", b.ID},
	}
	rows := make([]core.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, row.New(8).Add(
			col.New(3).Add(text.New(f.label, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2})),
			col.New(9).Add(text.New(f.value, props.Text{Size: 10, Top: 2})),
		))
	}
	return rows
}

func qrRow(bookingID string) core.Row {
	return row.New(45).Add(
		col.New(4).Add(code.NewQr(bookingID, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Present this code at the entrance.", props.Text{
				Size: 9, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("Tickets are personal and cannot be changed.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}
