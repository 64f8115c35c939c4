package models

import (
	"context"

	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/mmautosoft/dealership_backend/utils"
)

const (
	rentalColID = iota
	rentalColCarID
	rentalColCustomerName
	rentalColCustomerContact
	rentalColStartDate
	rentalColReturnDate
	rentalColDailyRate
	rentalColDeliveryFee
	rentalColFuelFee
	rentalColDaysOut
	rentalColDaysLeft
	rentalColTotalEarned
	rentalColStatus
)

// Rental derived columns are all functions of TODAY(): a rental needs no
// explicit completion write, it ages into Completed.
var RentalsSheet = sheet.Schema{
	Sheet:        "Rentals",
	FirstDataRow: 2,
	Columns: []sheet.Column{
		{Name: "ID"},
		{Name: "CarID"},
		{Name: "CustomerName"},
		{Name: "CustomerContact"},
		{Name: "StartDate"},
		{Name: "ReturnDate"},
		{Name: "DailyRate", Numeric: true},
		{Name: "DeliveryFee", Numeric: true},
		{Name: "FuelFee", Numeric: true},
		{Name: "DaysOut", Formula: `MAX(0,MIN(TODAY(),DATEVALUE(F{row}))-DATEVALUE(E{row}))`},
		{Name: "DaysLeft", Formula: `MAX(0,DATEVALUE(F{row})-TODAY())`},
		{Name: "TotalEarned", Formula: `(DATEVALUE(F{row})-DATEVALUE(E{row})+1)*G{row}+H{row}+I{row}`},
		{Name: "Status", Formula: `IF(TODAY()>DATEVALUE(F{row}),"Completed","Active")`},
	},
}

type Rental struct {
	ID              string  `json:"id"`
	CarID           string  `json:"carId"`
	CustomerName    string  `json:"customerName"`
	CustomerContact string  `json:"customerContact"`
	StartDate       string  `json:"startDate"`
	ReturnDate      string  `json:"returnDate"`
	DailyRate       float64 `json:"dailyRate"`
	DeliveryFee     float64 `json:"deliveryFee"`
	FuelFee         float64 `json:"fuelFee"`

	// Derived by the store; decode-only.
	DaysOut     int          `json:"daysOut"`
	DaysLeft    int          `json:"daysLeft"`
	TotalEarned float64      `json:"totalEarned"`
	Status      RentalStatus `json:"status"`
}

type NewRental struct {
	CarID           string  `json:"carId" binding:"required"`
	CustomerName    string  `json:"customerName" binding:"required"`
	CustomerContact string  `json:"customerContact"`
	StartDate       string  `json:"startDate" binding:"required"`
	ReturnDate      string  `json:"returnDate" binding:"required"`
	DailyRate       float64 `json:"dailyRate" binding:"required,gt=0"`
	DeliveryFee     float64 `json:"deliveryFee" binding:"gte=0"`
	FuelFee         float64 `json:"fuelFee" binding:"gte=0"`
}

type RentalUpdate struct {
	CustomerName    *string  `json:"customerName"`
	CustomerContact *string  `json:"customerContact"`
	StartDate       *string  `json:"startDate"`
	ReturnDate      *string  `json:"returnDate"`
	DailyRate       *float64 `json:"dailyRate"`
	DeliveryFee     *float64 `json:"deliveryFee"`
	FuelFee         *float64 `json:"fuelFee"`
}

type RentalPage struct {
	Data       []*Rental        `json:"data"`
	Pagination sheet.Pagination `json:"pagination"`
}

func decodeRental(row []string) *Rental {
	return &Rental{
		ID:              cellStr(row, rentalColID),
		CarID:           cellStr(row, rentalColCarID),
		CustomerName:    cellStr(row, rentalColCustomerName),
		CustomerContact: cellStr(row, rentalColCustomerContact),
		StartDate:       cellStr(row, rentalColStartDate),
		ReturnDate:      cellStr(row, rentalColReturnDate),
		DailyRate:       cellFloat(row, rentalColDailyRate),
		DeliveryFee:     cellFloat(row, rentalColDeliveryFee),
		FuelFee:         cellFloat(row, rentalColFuelFee),
		DaysOut:         cellInt(row, rentalColDaysOut),
		DaysLeft:        cellInt(row, rentalColDaysLeft),
		TotalEarned:     cellFloat(row, rentalColTotalEarned),
		Status:          RentalStatus(cellStr(row, rentalColStatus)),
	}
}

func encodeRental(r *Rental, prev []string) []string {
	row := make([]string, RentalsSheet.NumCols())
	row[rentalColID] = r.ID
	row[rentalColCarID] = r.CarID
	row[rentalColCustomerName] = r.CustomerName
	row[rentalColCustomerContact] = r.CustomerContact
	row[rentalColStartDate] = r.StartDate
	row[rentalColReturnDate] = r.ReturnDate
	row[rentalColDailyRate] = formatFloat(r.DailyRate)
	row[rentalColDeliveryFee] = formatFloat(r.DeliveryFee)
	row[rentalColFuelFee] = formatFloat(r.FuelFee)
	for i := rentalColDaysOut; i <= rentalColStatus; i++ {
		row[i] = carry(prev, i)
	}
	return row
}

func ListRentals(ctx context.Context, store sheet.Client, page, limit int) (*RentalPage, error) {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	rows, pagination, err := sheet.GetPage(cctx, store, RentalsSheet, page, limit)
	if err != nil {
		return nil, err
	}
	rentals := make([]*Rental, 0, len(rows))
	for _, row := range rows {
		rentals = append(rentals, decodeRental(row))
	}
	return &RentalPage{Data: rentals, Pagination: pagination}, nil
}

func GetRental(ctx context.Context, store sheet.Client, id string) (*Rental, error) {
	_, row, err := findRow(ctx, store, RentalsSheet, id)
	if err != nil {
		return nil, err
	}
	return decodeRental(row), nil
}

// CreateRental books a car out. Besides the availability precondition it
// rejects any date range that overlaps an existing Active rental of the
// same car, endpoints inclusive. Both checks read the store immediately
// before the append and are advisory under concurrency.
func CreateRental(ctx context.Context, store sheet.Client, input *NewRental) (*Rental, error) {
	start, ok := parseDateField(input.StartDate)
	if !ok {
		return nil, utils.ValidationErrorf("startDate must be %s", DateLayout)
	}
	end, ok := parseDateField(input.ReturnDate)
	if !ok {
		return nil, utils.ValidationErrorf("returnDate must be %s", DateLayout)
	}
	if end.Before(start) {
		return nil, utils.ValidationErrorf("returnDate is before startDate")
	}
	if err := validateContact(input.CustomerContact); err != nil {
		return nil, err
	}

	car, err := GetCar(ctx, store, input.CarID)
	if err != nil {
		return nil, err
	}
	if car.CurrentStatus != CarStatusAvailable {
		return nil, utils.ConflictErrorf("car %s is not available (status %q)", car.ID, car.CurrentStatus)
	}

	existing, err := readAllRows(ctx, store, RentalsSheet)
	if err != nil {
		return nil, err
	}
	for _, row := range existing {
		other := decodeRental(row)
		if other.CarID != input.CarID || other.Status != RentalStatusActive {
			continue
		}
		otherStart, okS := parseDateField(other.StartDate)
		otherEnd, okE := parseDateField(other.ReturnDate)
		if !okS || !okE {
			continue
		}
		// Inclusive overlap: start <= other.end && end >= other.start.
		if !start.After(otherEnd) && !end.Before(otherStart) {
			return nil, utils.ConflictErrorf("car %s already rented %s to %s (%s)",
				input.CarID, other.StartDate, other.ReturnDate, other.ID)
		}
	}

	id, err := nextFreshID(ctx, store, RentalsSheet, RentalIDPrefix)
	if err != nil {
		return nil, err
	}
	rental := &Rental{
		ID:              id,
		CarID:           input.CarID,
		CustomerName:    input.CustomerName,
		CustomerContact: input.CustomerContact,
		StartDate:       input.StartDate,
		ReturnDate:      input.ReturnDate,
		DailyRate:       input.DailyRate,
		DeliveryFee:     input.DeliveryFee,
		FuelFee:         input.FuelFee,
	}
	if err := appendRow(ctx, store, RentalsSheet, encodeRental(rental, nil)); err != nil {
		return nil, err
	}
	return GetRental(ctx, store, id)
}

func UpdateRental(ctx context.Context, store sheet.Client, id string, patch *RentalUpdate) (*Rental, error) {
	rowIndex, prev, err := findRow(ctx, store, RentalsSheet, id)
	if err != nil {
		return nil, err
	}
	rental := decodeRental(prev)

	if patch.CustomerName != nil {
		rental.CustomerName = *patch.CustomerName
	}
	if patch.CustomerContact != nil {
		if err := validateContact(*patch.CustomerContact); err != nil {
			return nil, err
		}
		rental.CustomerContact = *patch.CustomerContact
	}
	if patch.StartDate != nil {
		if _, ok := parseDateField(*patch.StartDate); !ok {
			return nil, utils.ValidationErrorf("startDate must be %s", DateLayout)
		}
		rental.StartDate = *patch.StartDate
	}
	if patch.ReturnDate != nil {
		if _, ok := parseDateField(*patch.ReturnDate); !ok {
			return nil, utils.ValidationErrorf("returnDate must be %s", DateLayout)
		}
		rental.ReturnDate = *patch.ReturnDate
	}
	start, okS := parseDateField(rental.StartDate)
	end, okE := parseDateField(rental.ReturnDate)
	if okS && okE && end.Before(start) {
		return nil, utils.ValidationErrorf("returnDate is before startDate")
	}
	if patch.DailyRate != nil {
		rental.DailyRate = *patch.DailyRate
	}
	if patch.DeliveryFee != nil {
		rental.DeliveryFee = *patch.DeliveryFee
	}
	if patch.FuelFee != nil {
		rental.FuelFee = *patch.FuelFee
	}

	if err := updateRow(ctx, store, RentalsSheet, rowIndex, id, encodeRental(rental, prev)); err != nil {
		return nil, err
	}
	return GetRental(ctx, store, id)
}
