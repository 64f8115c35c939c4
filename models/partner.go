package models

import (
	"context"

	"github.com/mmautosoft/dealership_backend/sheet"
)

const (
	partnerColName = iota
	partnerColContact
	partnerColNetProfit
)

// Partners is a fixed small set of stakeholders. The net profit of the
// k-th partner aggregates the k-th per-partner-return column across all
// cars; CHOOSE maps the row position to that column.
var PartnersSheet = sheet.Schema{
	Sheet:        "Partners",
	FirstDataRow: 2,
	Columns: []sheet.Column{
		{Name: "Name"},
		{Name: "Contact"},
		{Name: "NetProfit", Formula: `IFERROR(CHOOSE({row}-1,SUM(Cars!$S$2:$S$9999),SUM(Cars!$T$2:$T$9999),SUM(Cars!$U$2:$U$9999)),0)`},
	},
}

type Partner struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`

	// Derived by the store; decode-only.
	NetProfit float64 `json:"netProfit"`
}

func decodePartner(row []string) *Partner {
	return &Partner{
		Name:      cellStr(row, partnerColName),
		Contact:   cellStr(row, partnerColContact),
		NetProfit: cellFloat(row, partnerColNetProfit),
	}
}

func ListPartners(ctx context.Context, store sheet.Client) ([]*Partner, error) {
	rows, err := readAllRows(ctx, store, PartnersSheet)
	if err != nil {
		return nil, err
	}
	partners := make([]*Partner, 0, len(rows))
	for _, row := range rows {
		partners = append(partners, decodePartner(row))
	}
	return partners, nil
}
