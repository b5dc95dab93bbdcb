package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func (p *marotoProvider) RenderReceipt(ctx context.Context, doc Document) ([]byte, error) {
	m := newPage()

	m.AddRow(12,
		text.NewCol(12, "Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(12,
		col.New(6).Add(
			text.New("Receipt number: "+doc.ReceiptNumber, props.Text{Top: 0}),
			text.New("Billing date: "+doc.BillingDate, props.Text{Top: 4}),
		),
		col.New(6),
	)

	addAddresses(m, doc)

	m.AddRow(12,
		text.NewCol(12, doc.AmountPaid+" paid of "+doc.Total, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   3,
		}),
	)

	addItemsTable(m, doc)

	if len(doc.Payments) > 0 {
		m.AddRow(10,
			text.NewCol(4, "Payment date", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(4, "Method", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, payment := range doc.Payments {
			m.AddRow(8,
				text.NewCol(4, payment.Date, props.Text{Size: 9}),
				text.NewCol(4, payment.Method, props.Text{Size: 9}),
				text.NewCol(4, payment.Amount, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9}),
		text.NewCol(2, doc.Total, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Balance due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, doc.Balance, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	generated, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return generated.GetBytes(), nil
}
