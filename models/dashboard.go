package models

import (
	"context"
	"time"

	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Dashboard aggregates are computed by scanning the full entity ranges
// in the request path. There is no precomputation or caching; the store
// is small and the numbers must reflect the latest derived values.
type Dashboard struct {
	TotalCars          int                `json:"totalCars"`
	StatusDistribution map[CarStatus]int  `json:"statusDistribution"`
	TotalInvested      float64            `json:"totalInvested"`
	TotalSalesRevenue  float64            `json:"totalSalesRevenue"`
	TotalNetProfit     float64            `json:"totalNetProfit"`
	ActiveRentals      int                `json:"activeRentals"`
	RentalRevenue      float64            `json:"rentalRevenue"`
	MonthlyTrend       []MonthlySalePoint `json:"monthlyTrend"`
}

type MonthlySalePoint struct {
	Month   string  `json:"month"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type RecentEntries struct {
	Cars    []*Car    `json:"cars"`
	Repairs []*Repair `json:"repairs"`
	Sales   []*Sale   `json:"sales"`
	Rentals []*Rental `json:"rentals"`
}

const recentEntryCount = 5

const trendMonths = 12

func GetDashboard(ctx context.Context, store sheet.Client, now time.Time) (*Dashboard, error) {
	var carRows, saleRows, rentalRows [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		carRows, err = readAllRows(gctx, store, CarsSheet)
		return err
	})
	g.Go(func() error {
		var err error
		saleRows, err = readAllRows(gctx, store, SalesSheet)
		return err
	})
	g.Go(func() error {
		var err error
		rentalRows, err = readAllRows(gctx, store, RentalsSheet)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		StatusDistribution: map[CarStatus]int{
			CarStatusAvailable: 0,
			CarStatusSold:      0,
			CarStatusOnRent:    0,
		},
	}

	invested := decimal.Zero
	for _, row := range carRows {
		car := decodeCar(row)
		d.TotalCars++
		if _, ok := d.StatusDistribution[car.CurrentStatus]; ok {
			d.StatusDistribution[car.CurrentStatus]++
		}
		invested = invested.Add(decimal.NewFromFloat(car.TotalCost))
	}

	revenue := decimal.Zero
	netProfit := decimal.Zero
	byMonth := make(map[string]*MonthlySalePoint)
	for _, row := range saleRows {
		sale := decodeSale(row)
		revenue = revenue.Add(decimal.NewFromFloat(sale.Price))
		netProfit = netProfit.Add(decimal.NewFromFloat(sale.NetProfit))
		if t, ok := parseDateField(sale.Date); ok {
			key := t.Format("2006-01")
			point, exists := byMonth[key]
			if !exists {
				point = &MonthlySalePoint{Month: key}
				byMonth[key] = point
			}
			point.Count++
			point.Revenue += sale.Price
		}
	}

	rentalRevenue := decimal.Zero
	for _, row := range rentalRows {
		rental := decodeRental(row)
		if rental.Status == RentalStatusActive {
			d.ActiveRentals++
		}
		rentalRevenue = rentalRevenue.Add(decimal.NewFromFloat(rental.TotalEarned))
	}

	// Last 12 calendar months, oldest first, gaps filled with zeros.
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)
	for i := 0; i < trendMonths; i++ {
		key := month.Format("2006-01")
		if point, ok := byMonth[key]; ok {
			d.MonthlyTrend = append(d.MonthlyTrend, *point)
		} else {
			d.MonthlyTrend = append(d.MonthlyTrend, MonthlySalePoint{Month: key})
		}
		month = month.AddDate(0, 1, 0)
	}

	d.TotalInvested = invested.InexactFloat64()
	d.TotalSalesRevenue = revenue.InexactFloat64()
	d.TotalNetProfit = netProfit.InexactFloat64()
	d.RentalRevenue = rentalRevenue.InexactFloat64()
	return d, nil
}

// GetRecentEntries returns the last rows of every sheet. Appends never
// reorder existing rows, so sheet order is creation order.
func GetRecentEntries(ctx context.Context, store sheet.Client) (*RecentEntries, error) {
	var carRows, repairRows, saleRows, rentalRows [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		carRows, err = readAllRows(gctx, store, CarsSheet)
		return err
	})
	g.Go(func() error {
		var err error
		repairRows, err = readAllRows(gctx, store, RepairsSheet)
		return err
	})
	g.Go(func() error {
		var err error
		saleRows, err = readAllRows(gctx, store, SalesSheet)
		return err
	})
	g.Go(func() error {
		var err error
		rentalRows, err = readAllRows(gctx, store, RentalsSheet)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RecentEntries{
		Cars:    make([]*Car, 0, recentEntryCount),
		Repairs: make([]*Repair, 0, recentEntryCount),
		Sales:   make([]*Sale, 0, recentEntryCount),
		Rentals: make([]*Rental, 0, recentEntryCount),
	}
	for _, row := range lastRows(carRows) {
		out.Cars = append(out.Cars, decodeCar(row))
	}
	for _, row := range lastRows(repairRows) {
		out.Repairs = append(out.Repairs, decodeRepair(row))
	}
	for _, row := range lastRows(saleRows) {
		out.Sales = append(out.Sales, decodeSale(row))
	}
	for _, row := range lastRows(rentalRows) {
		out.Rentals = append(out.Rentals, decodeRental(row))
	}
	return out, nil
}

// lastRows keeps the newest entries first.
func lastRows(rows [][]string) [][]string {
	out := make([][]string, 0, recentEntryCount)
	for i := len(rows) - 1; i >= 0 && len(out) < recentEntryCount; i-- {
		out = append(out, rows[i])
	}
	return out
}
