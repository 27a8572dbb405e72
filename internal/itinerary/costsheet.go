package itinerary

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/trip-assistant/internal/model"
)

const amountFormat = "#,##0.00"

// WriteCostSheet writes a workbook with the cost breakdown on a "Costs"
// sheet and the trip details on a "Trip" sheet.
func WriteCostSheet(w io.Writer, p model.TripProfile, cb model.CostBreakdown) error {
	f := xlsx.NewFile()

	costs, err := f.AddSheet("Costs")
	if err != nil {
		return eris.Wrap(err, "itinerary: add costs sheet")
	}
	header(costs.AddRow(), "Category", "Description", "Amount ("+cb.Currency+")")
	for _, it := range cb.Items {
		row := costs.AddRow()
		row.AddCell().SetString(it.Category)
		row.AddCell().SetString(it.Description)
		row.AddCell().SetFloatWithFormat(it.Amount, amountFormat)
	}
	total := costs.AddRow()
	header(total, "Total", "")
	total.AddCell().SetFloatWithFormat(cb.Total, amountFormat)

	trip, err := f.AddSheet("Trip")
	if err != nil {
		return eris.Wrap(err, "itinerary: add trip sheet")
	}
	header(trip.AddRow(), "Detail", "Value")
	for _, field := range p.Known() {
		row := trip.AddRow()
		row.AddCell().SetString(field.Label())
		row.AddCell().SetString(p.Value(field))
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "itinerary: write workbook")
	}
	return nil
}

func header(row *xlsx.Row, labels ...string) {
	for _, l := range labels {
		c := row.AddCell()
		c.SetString(l)
		c.GetStyle().Font.Bold = true
	}
}
