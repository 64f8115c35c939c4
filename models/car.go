package models

import (
	"context"
	"math"

	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/mmautosoft/dealership_backend/utils"
	"github.com/shopspring/decimal"
)

// Cars sheet column offsets. Shared by encode and decode; a column-order
// change is a one-line edit here.
const (
	carColID = iota
	carColMake
	carColModel
	carColYear
	carColColor
	carColRegistration
	carColPurchasePrice
	carColPurchaseDate
	carColSellerName
	carColSellerContact
	carColTransportCost
	carColInspectionCost
	carColOtherCost
	carColInvestmentSplit
	carColDocuments
	carColPhotos
	carColTotalCost
	carColProfitLoss
	carColPartnerReturn1
	carColPartnerReturn2
	carColPartnerReturn3
	carColCurrentStatus
)

// CarsSheet owns the derived columns through formulas: total cost,
// profit/loss, per-partner returns (split parsed out of the delimited
// N cell) and the status derived from Sales and Rentals.
var CarsSheet = sheet.Schema{
	Sheet:        "Cars",
	FirstDataRow: 2,
	Columns: []sheet.Column{
		{Name: "ID"},
		{Name: "Make"},
		{Name: "Model"},
		{Name: "Year", Numeric: true},
		{Name: "Color"},
		{Name: "Registration"},
		{Name: "PurchasePrice", Numeric: true},
		{Name: "PurchaseDate"},
		{Name: "SellerName"},
		{Name: "SellerContact"},
		{Name: "TransportCost", Numeric: true},
		{Name: "InspectionCost", Numeric: true},
		{Name: "OtherCost", Numeric: true},
		{Name: "InvestmentSplit"},
		{Name: "Documents"},
		{Name: "Photos"},
		{Name: "TotalCost", Formula: "G{row}+K{row}+L{row}+M{row}"},
		{Name: "ProfitLoss", Formula: `IF(COUNTIF(Sales!$B$2:$B$9999,A{row})>0,SUMIF(Sales!$B$2:$B$9999,A{row},Sales!$D$2:$D$9999)-Q{row},0)`},
		{Name: "PartnerReturn1", Formula: `R{row}*IFERROR(VALUE(TRIM(MID(SUBSTITUTE(N{row},",",REPT(" ",99)),1,99))),0)`},
		{Name: "PartnerReturn2", Formula: `R{row}*IFERROR(VALUE(TRIM(MID(SUBSTITUTE(N{row},",",REPT(" ",99)),100,99))),0)`},
		{Name: "PartnerReturn3", Formula: `R{row}*IFERROR(VALUE(TRIM(MID(SUBSTITUTE(N{row},",",REPT(" ",99)),199,99))),0)`},
		{Name: "CurrentStatus", Formula: `IF(COUNTIF(Sales!$B$2:$B$9999,A{row})>0,"Sold",IF(COUNTIFS(Rentals!$B$2:$B$9999,A{row},Rentals!$M$2:$M$9999,"Active")>0,"On Rent","Available"))`},
	},
}

type Car struct {
	ID              string    `json:"id"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	Color           string    `json:"color"`
	Registration    string    `json:"registration"`
	PurchasePrice   float64   `json:"purchasePrice"`
	PurchaseDate    string    `json:"purchaseDate"`
	SellerName      string    `json:"sellerName"`
	SellerContact   string    `json:"sellerContact"`
	TransportCost   float64   `json:"transportCost"`
	InspectionCost  float64   `json:"inspectionCost"`
	OtherCost       float64   `json:"otherCost"`
	InvestmentSplit []float64 `json:"investmentSplit"`
	Documents       []string  `json:"documents"`
	Photos          []string  `json:"photos"`

	// Derived by the store; decode-only.
	TotalCost      float64   `json:"totalCost"`
	ProfitLoss     float64   `json:"profitLoss"`
	PartnerReturns []float64 `json:"partnerReturns"`
	CurrentStatus  CarStatus `json:"currentStatus"`
}

// NewCar is the create/request payload. Form tags cover the multipart
// variant used when documents/photos ride along.
type NewCar struct {
	Make            string    `json:"make" form:"make" binding:"required"`
	Model           string    `json:"model" form:"model" binding:"required"`
	Year            int       `json:"year" form:"year"`
	Color           string    `json:"color" form:"color"`
	Registration    string    `json:"registration" form:"registration"`
	PurchasePrice   float64   `json:"purchasePrice" form:"purchasePrice" binding:"required,gt=0"`
	PurchaseDate    string    `json:"purchaseDate" form:"purchaseDate" binding:"required"`
	SellerName      string    `json:"sellerName" form:"sellerName"`
	SellerContact   string    `json:"sellerContact" form:"sellerContact"`
	TransportCost   float64   `json:"transportCost" form:"transportCost" binding:"gte=0"`
	InspectionCost  float64   `json:"inspectionCost" form:"inspectionCost" binding:"gte=0"`
	OtherCost       float64   `json:"otherCost" form:"otherCost" binding:"gte=0"`
	InvestmentSplit []float64 `json:"investmentSplit" form:"investmentSplit"`
	Documents       []string  `json:"documents" form:"-"`
	Photos          []string  `json:"photos" form:"-"`
}

// CarUpdate carries partial fields; nil means "keep the current value",
// not "reset to the zero value".
type CarUpdate struct {
	Make            *string   `json:"make"`
	Model           *string   `json:"model"`
	Year            *int      `json:"year"`
	Color           *string   `json:"color"`
	Registration    *string   `json:"registration"`
	PurchasePrice   *float64  `json:"purchasePrice"`
	PurchaseDate    *string   `json:"purchaseDate"`
	SellerName      *string   `json:"sellerName"`
	SellerContact   *string   `json:"sellerContact"`
	TransportCost   *float64  `json:"transportCost"`
	InspectionCost  *float64  `json:"inspectionCost"`
	OtherCost       *float64  `json:"otherCost"`
	InvestmentSplit []float64 `json:"investmentSplit"`
	Documents       []string  `json:"documents"`
	Photos          []string  `json:"photos"`
}

type CarPage struct {
	Data       []*Car           `json:"data"`
	Pagination sheet.Pagination `json:"pagination"`
}

func decodeCar(row []string) *Car {
	return &Car{
		ID:              cellStr(row, carColID),
		Make:            cellStr(row, carColMake),
		Model:           cellStr(row, carColModel),
		Year:            cellInt(row, carColYear),
		Color:           cellStr(row, carColColor),
		Registration:    cellStr(row, carColRegistration),
		PurchasePrice:   cellFloat(row, carColPurchasePrice),
		PurchaseDate:    cellStr(row, carColPurchaseDate),
		SellerName:      cellStr(row, carColSellerName),
		SellerContact:   cellStr(row, carColSellerContact),
		TransportCost:   cellFloat(row, carColTransportCost),
		InspectionCost:  cellFloat(row, carColInspectionCost),
		OtherCost:       cellFloat(row, carColOtherCost),
		InvestmentSplit: splitFloats(cellStr(row, carColInvestmentSplit)),
		Documents:       splitList(cellStr(row, carColDocuments)),
		Photos:          splitList(cellStr(row, carColPhotos)),
		TotalCost:       cellFloat(row, carColTotalCost),
		ProfitLoss:      cellFloat(row, carColProfitLoss),
		PartnerReturns: []float64{
			cellFloat(row, carColPartnerReturn1),
			cellFloat(row, carColPartnerReturn2),
			cellFloat(row, carColPartnerReturn3),
		},
		CurrentStatus: CarStatus(cellStr(row, carColCurrentStatus)),
	}
}

// encodeCar builds the full write row. Derived offsets carry the
// previous raw value (blank on first write) and are rewritten by the
// store anyway.
func encodeCar(c *Car, prev []string) []string {
	row := make([]string, CarsSheet.NumCols())
	row[carColID] = c.ID
	row[carColMake] = c.Make
	row[carColModel] = c.Model
	row[carColYear] = formatFloat(float64(c.Year))
	row[carColColor] = c.Color
	row[carColRegistration] = c.Registration
	row[carColPurchasePrice] = formatFloat(c.PurchasePrice)
	row[carColPurchaseDate] = c.PurchaseDate
	row[carColSellerName] = c.SellerName
	row[carColSellerContact] = c.SellerContact
	row[carColTransportCost] = formatFloat(c.TransportCost)
	row[carColInspectionCost] = formatFloat(c.InspectionCost)
	row[carColOtherCost] = formatFloat(c.OtherCost)
	row[carColInvestmentSplit] = joinFloats(c.InvestmentSplit)
	row[carColDocuments] = joinList(c.Documents)
	row[carColPhotos] = joinList(c.Photos)
	for i := carColTotalCost; i <= carColCurrentStatus; i++ {
		row[i] = carry(prev, i)
	}
	return row
}

const splitTolerance = 1e-6

// ValidateInvestmentSplit enforces the sum-to-one invariant within
// floating tolerance. Sums are taken with decimals so "0.1,0.2,0.7"
// does not fail on binary float drift.
func ValidateInvestmentSplit(split []float64) error {
	if len(split) == 0 {
		return utils.ValidationErrorf("investmentSplit is required")
	}
	sum := decimal.Zero
	for _, part := range split {
		if part < 0 {
			return utils.ValidationErrorf("investmentSplit parts must not be negative")
		}
		sum = sum.Add(decimal.NewFromFloat(part))
	}
	f, _ := sum.Float64()
	if math.Abs(f-1.0) > splitTolerance {
		return utils.ValidationErrorf("investmentSplit must sum to 1.0, got %s", sum.String())
	}
	return nil
}

func ListCars(ctx context.Context, store sheet.Client, page, limit int) (*CarPage, error) {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	rows, pagination, err := sheet.GetPage(cctx, store, CarsSheet, page, limit)
	if err != nil {
		return nil, err
	}
	cars := make([]*Car, 0, len(rows))
	for _, row := range rows {
		cars = append(cars, decodeCar(row))
	}
	return &CarPage{Data: cars, Pagination: pagination}, nil
}

// AvailableCars returns cars whose derived status is strictly
// "Available": a car out on rent is neither sellable nor re-rentable.
func AvailableCars(ctx context.Context, store sheet.Client) ([]*Car, error) {
	rows, err := readAllRows(ctx, store, CarsSheet)
	if err != nil {
		return nil, err
	}
	cars := make([]*Car, 0, len(rows))
	for _, row := range rows {
		car := decodeCar(row)
		if car.CurrentStatus == CarStatusAvailable {
			cars = append(cars, car)
		}
	}
	return cars, nil
}

func GetCar(ctx context.Context, store sheet.Client, id string) (*Car, error) {
	_, row, err := findRow(ctx, store, CarsSheet, id)
	if err != nil {
		return nil, err
	}
	return decodeCar(row), nil
}

func CreateCar(ctx context.Context, store sheet.Client, input *NewCar) (*Car, error) {
	if err := ValidateInvestmentSplit(input.InvestmentSplit); err != nil {
		return nil, err
	}
	if _, ok := parseDateField(input.PurchaseDate); !ok {
		return nil, utils.ValidationErrorf("purchaseDate must be %s", DateLayout)
	}
	if err := validateContact(input.SellerContact); err != nil {
		return nil, err
	}

	id, err := nextFreshID(ctx, store, CarsSheet, CarIDPrefix)
	if err != nil {
		return nil, err
	}
	car := &Car{
		ID:              id,
		Make:            input.Make,
		Model:           input.Model,
		Year:            input.Year,
		Color:           input.Color,
		Registration:    input.Registration,
		PurchasePrice:   input.PurchasePrice,
		PurchaseDate:    input.PurchaseDate,
		SellerName:      input.SellerName,
		SellerContact:   input.SellerContact,
		TransportCost:   input.TransportCost,
		InspectionCost:  input.InspectionCost,
		OtherCost:       input.OtherCost,
		InvestmentSplit: input.InvestmentSplit,
		Documents:       input.Documents,
		Photos:          input.Photos,
	}
	if err := appendRow(ctx, store, CarsSheet, encodeCar(car, nil)); err != nil {
		return nil, err
	}
	return GetCar(ctx, store, id)
}

func UpdateCar(ctx context.Context, store sheet.Client, id string, patch *CarUpdate) (*Car, error) {
	rowIndex, prev, err := findRow(ctx, store, CarsSheet, id)
	if err != nil {
		return nil, err
	}
	car := decodeCar(prev)

	if patch.Make != nil {
		car.Make = *patch.Make
	}
	if patch.Model != nil {
		car.Model = *patch.Model
	}
	if patch.Year != nil {
		car.Year = *patch.Year
	}
	if patch.Color != nil {
		car.Color = *patch.Color
	}
	if patch.Registration != nil {
		car.Registration = *patch.Registration
	}
	if patch.PurchasePrice != nil {
		car.PurchasePrice = *patch.PurchasePrice
	}
	if patch.PurchaseDate != nil {
		if _, ok := parseDateField(*patch.PurchaseDate); !ok {
			return nil, utils.ValidationErrorf("purchaseDate must be %s", DateLayout)
		}
		car.PurchaseDate = *patch.PurchaseDate
	}
	if patch.SellerName != nil {
		car.SellerName = *patch.SellerName
	}
	if patch.SellerContact != nil {
		if err := validateContact(*patch.SellerContact); err != nil {
			return nil, err
		}
		car.SellerContact = *patch.SellerContact
	}
	if patch.TransportCost != nil {
		car.TransportCost = *patch.TransportCost
	}
	if patch.InspectionCost != nil {
		car.InspectionCost = *patch.InspectionCost
	}
	if patch.OtherCost != nil {
		car.OtherCost = *patch.OtherCost
	}
	if patch.InvestmentSplit != nil {
		if err := ValidateInvestmentSplit(patch.InvestmentSplit); err != nil {
			return nil, err
		}
		car.InvestmentSplit = patch.InvestmentSplit
	}
	if patch.Documents != nil {
		car.Documents = patch.Documents
	}
	if patch.Photos != nil {
		car.Photos = patch.Photos
	}

	if err := updateRow(ctx, store, CarsSheet, rowIndex, id, encodeCar(car, prev)); err != nil {
		return nil, err
	}
	return GetCar(ctx, store, id)
}
