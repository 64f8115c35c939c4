package models

import (
	"context"

	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/mmautosoft/dealership_backend/utils"
)

const (
	saleColID = iota
	saleColCarID
	saleColDate
	saleColPrice
	saleColBuyerName
	saleColBuyerContact
	saleColPaymentStatus
	saleColProfit
	saleColTotalRepairCost
	saleColNetProfit
)

var SalesSheet = sheet.Schema{
	Sheet:        "Sales",
	FirstDataRow: 2,
	Columns: []sheet.Column{
		{Name: "ID"},
		{Name: "CarID"},
		{Name: "Date"},
		{Name: "Price", Numeric: true},
		{Name: "BuyerName"},
		{Name: "BuyerContact"},
		{Name: "PaymentStatus"},
		{Name: "Profit", Formula: `D{row}-SUMIF(Cars!$A$2:$A$9999,B{row},Cars!$Q$2:$Q$9999)`},
		{Name: "TotalRepairCost", Formula: `SUMIF(Repairs!$B$2:$B$9999,B{row},Repairs!$E$2:$E$9999)`},
		{Name: "NetProfit", Formula: `H{row}-I{row}`},
	},
}

type Sale struct {
	ID            string        `json:"id"`
	CarID         string        `json:"carId"`
	Date          string        `json:"date"`
	Price         float64       `json:"price"`
	BuyerName     string        `json:"buyerName"`
	BuyerContact  string        `json:"buyerContact"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	// Derived by the store; decode-only.
	Profit          float64 `json:"profit"`
	TotalRepairCost float64 `json:"totalRepairCost"`
	NetProfit       float64 `json:"netProfit"`
}

type NewSale struct {
	CarID         string        `json:"carId" binding:"required"`
	Date          string        `json:"date" binding:"required"`
	Price         float64       `json:"price" binding:"required,gt=0"`
	BuyerName     string        `json:"buyerName" binding:"required"`
	BuyerContact  string        `json:"buyerContact"`
	PaymentStatus PaymentStatus `json:"paymentStatus" binding:"required"`
}

type SaleUpdate struct {
	Date          *string        `json:"date"`
	Price         *float64       `json:"price"`
	BuyerName     *string        `json:"buyerName"`
	BuyerContact  *string        `json:"buyerContact"`
	PaymentStatus *PaymentStatus `json:"paymentStatus"`
}

type SalePage struct {
	Data       []*Sale          `json:"data"`
	Pagination sheet.Pagination `json:"pagination"`
}

func decodeSale(row []string) *Sale {
	return &Sale{
		ID:              cellStr(row, saleColID),
		CarID:           cellStr(row, saleColCarID),
		Date:            cellStr(row, saleColDate),
		Price:           cellFloat(row, saleColPrice),
		BuyerName:       cellStr(row, saleColBuyerName),
		BuyerContact:    cellStr(row, saleColBuyerContact),
		PaymentStatus:   PaymentStatus(cellStr(row, saleColPaymentStatus)),
		Profit:          cellFloat(row, saleColProfit),
		TotalRepairCost: cellFloat(row, saleColTotalRepairCost),
		NetProfit:       cellFloat(row, saleColNetProfit),
	}
}

func encodeSale(s *Sale, prev []string) []string {
	row := make([]string, SalesSheet.NumCols())
	row[saleColID] = s.ID
	row[saleColCarID] = s.CarID
	row[saleColDate] = s.Date
	row[saleColPrice] = formatFloat(s.Price)
	row[saleColBuyerName] = s.BuyerName
	row[saleColBuyerContact] = s.BuyerContact
	row[saleColPaymentStatus] = string(s.PaymentStatus)
	for i := saleColProfit; i <= saleColNetProfit; i++ {
		row[i] = carry(prev, i)
	}
	return row
}

func ListSales(ctx context.Context, store sheet.Client, page, limit int) (*SalePage, error) {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	rows, pagination, err := sheet.GetPage(cctx, store, SalesSheet, page, limit)
	if err != nil {
		return nil, err
	}
	sales := make([]*Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, decodeSale(row))
	}
	return &SalePage{Data: sales, Pagination: pagination}, nil
}

func GetSale(ctx context.Context, store sheet.Client, id string) (*Sale, error) {
	_, row, err := findRow(ctx, store, SalesSheet, id)
	if err != nil {
		return nil, err
	}
	return decodeSale(row), nil
}

// CreateSale records the sale of a car. The car's derived status is
// re-read immediately before the append; the check is still advisory
// (the store recompute may lag a competing write), which is the
// documented consistency gap of the backing store. The sale append is
// the only write here: the car's status flips through the store's own
// formula, so there is no second, failure-prone call to order around.
func CreateSale(ctx context.Context, store sheet.Client, input *NewSale) (*Sale, error) {
	if !input.PaymentStatus.IsValid() {
		return nil, utils.ValidationErrorf("paymentStatus must be Paid, Pending or Unpaid")
	}
	if _, ok := parseDateField(input.Date); !ok {
		return nil, utils.ValidationErrorf("date must be %s", DateLayout)
	}
	if err := validateContact(input.BuyerContact); err != nil {
		return nil, err
	}

	car, err := GetCar(ctx, store, input.CarID)
	if err != nil {
		return nil, err
	}
	if car.CurrentStatus == CarStatusSold {
		return nil, utils.ConflictErrorf("car %s is already sold", car.ID)
	}
	if car.CurrentStatus == CarStatusOnRent {
		return nil, utils.ConflictErrorf("car %s is out on rent", car.ID)
	}

	id, err := nextFreshID(ctx, store, SalesSheet, SaleIDPrefix)
	if err != nil {
		return nil, err
	}
	sale := &Sale{
		ID:            id,
		CarID:         input.CarID,
		Date:          input.Date,
		Price:         input.Price,
		BuyerName:     input.BuyerName,
		BuyerContact:  input.BuyerContact,
		PaymentStatus: input.PaymentStatus,
	}
	if err := appendRow(ctx, store, SalesSheet, encodeSale(sale, nil)); err != nil {
		return nil, err
	}
	return GetSale(ctx, store, id)
}

func UpdateSale(ctx context.Context, store sheet.Client, id string, patch *SaleUpdate) (*Sale, error) {
	rowIndex, prev, err := findRow(ctx, store, SalesSheet, id)
	if err != nil {
		return nil, err
	}
	sale := decodeSale(prev)

	if patch.Date != nil {
		if _, ok := parseDateField(*patch.Date); !ok {
			return nil, utils.ValidationErrorf("date must be %s", DateLayout)
		}
		sale.Date = *patch.Date
	}
	if patch.Price != nil {
		sale.Price = *patch.Price
	}
	if patch.BuyerName != nil {
		sale.BuyerName = *patch.BuyerName
	}
	if patch.BuyerContact != nil {
		if err := validateContact(*patch.BuyerContact); err != nil {
			return nil, err
		}
		sale.BuyerContact = *patch.BuyerContact
	}
	if patch.PaymentStatus != nil {
		if !patch.PaymentStatus.IsValid() {
			return nil, utils.ValidationErrorf("paymentStatus must be Paid, Pending or Unpaid")
		}
		sale.PaymentStatus = *patch.PaymentStatus
	}

	if err := updateRow(ctx, store, SalesSheet, rowIndex, id, encodeSale(sale, prev)); err != nil {
		return nil, err
	}
	return GetSale(ctx, store, id)
}
