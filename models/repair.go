package models

import (
	"context"

	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/mmautosoft/dealership_backend/utils"
)

const (
	repairColID = iota
	repairColCarID
	repairColDate
	repairColDescription
	repairColCost
	repairColMechanic
	repairColProviderName
	repairColProviderContact
	repairColProviderAddress
)

// The service-provider sub-record is flattened into three columns, as
// opposed to the delimited-cell encoding of the car investment split.
var RepairsSheet = sheet.Schema{
	Sheet:        "Repairs",
	FirstDataRow: 2,
	Columns: []sheet.Column{
		{Name: "ID"},
		{Name: "CarID"},
		{Name: "Date"},
		{Name: "Description"},
		{Name: "Cost", Numeric: true},
		{Name: "Mechanic"},
		{Name: "ProviderName"},
		{Name: "ProviderContact"},
		{Name: "ProviderAddress"},
	},
}

// ServiceProvider is the garage/workshop that did the repair.
type ServiceProvider struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

type Repair struct {
	ID          string          `json:"id"`
	CarID       string          `json:"carId"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Cost        float64         `json:"cost"`
	Mechanic    string          `json:"mechanic"`
	Provider    ServiceProvider `json:"serviceProvider"`
}

type NewRepair struct {
	CarID       string          `json:"carId" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Cost        float64         `json:"cost" binding:"required,gt=0"`
	Mechanic    string          `json:"mechanic"`
	Provider    ServiceProvider `json:"serviceProvider"`
}

type RepairUpdate struct {
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	Cost        *float64         `json:"cost"`
	Mechanic    *string          `json:"mechanic"`
	Provider    *ServiceProvider `json:"serviceProvider"`
}

type RepairPage struct {
	Data       []*Repair        `json:"data"`
	Pagination sheet.Pagination `json:"pagination"`
}

func decodeRepair(row []string) *Repair {
	return &Repair{
		ID:          cellStr(row, repairColID),
		CarID:       cellStr(row, repairColCarID),
		Date:        cellStr(row, repairColDate),
		Description: cellStr(row, repairColDescription),
		Cost:        cellFloat(row, repairColCost),
		Mechanic:    cellStr(row, repairColMechanic),
		Provider: ServiceProvider{
			Name:    cellStr(row, repairColProviderName),
			Contact: cellStr(row, repairColProviderContact),
			Address: cellStr(row, repairColProviderAddress),
		},
	}
}

func encodeRepair(r *Repair) []string {
	row := make([]string, RepairsSheet.NumCols())
	row[repairColID] = r.ID
	row[repairColCarID] = r.CarID
	row[repairColDate] = r.Date
	row[repairColDescription] = r.Description
	row[repairColCost] = formatFloat(r.Cost)
	row[repairColMechanic] = r.Mechanic
	row[repairColProviderName] = r.Provider.Name
	row[repairColProviderContact] = r.Provider.Contact
	row[repairColProviderAddress] = r.Provider.Address
	return row
}

func ListRepairs(ctx context.Context, store sheet.Client, page, limit int) (*RepairPage, error) {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	rows, pagination, err := sheet.GetPage(cctx, store, RepairsSheet, page, limit)
	if err != nil {
		return nil, err
	}
	repairs := make([]*Repair, 0, len(rows))
	for _, row := range rows {
		repairs = append(repairs, decodeRepair(row))
	}
	return &RepairPage{Data: repairs, Pagination: pagination}, nil
}

// RepairsByCar scans the whole sheet; the store has no query language,
// only fixed column-range reads.
func RepairsByCar(ctx context.Context, store sheet.Client, carID string) ([]*Repair, error) {
	rows, err := readAllRows(ctx, store, RepairsSheet)
	if err != nil {
		return nil, err
	}
	repairs := make([]*Repair, 0)
	for _, row := range rows {
		repair := decodeRepair(row)
		if repair.CarID == carID {
			repairs = append(repairs, repair)
		}
	}
	return repairs, nil
}

func GetRepair(ctx context.Context, store sheet.Client, id string) (*Repair, error) {
	_, row, err := findRow(ctx, store, RepairsSheet, id)
	if err != nil {
		return nil, err
	}
	return decodeRepair(row), nil
}

func CreateRepair(ctx context.Context, store sheet.Client, input *NewRepair) (*Repair, error) {
	if _, ok := parseDateField(input.Date); !ok {
		return nil, utils.ValidationErrorf("date must be %s", DateLayout)
	}
	if err := validateContact(input.Provider.Contact); err != nil {
		return nil, err
	}
	// The store does not enforce the reference; the service does.
	if _, err := GetCar(ctx, store, input.CarID); err != nil {
		return nil, err
	}

	id, err := nextFreshID(ctx, store, RepairsSheet, RepairIDPrefix)
	if err != nil {
		return nil, err
	}
	repair := &Repair{
		ID:          id,
		CarID:       input.CarID,
		Date:        input.Date,
		Description: input.Description,
		Cost:        input.Cost,
		Mechanic:    input.Mechanic,
		Provider:    input.Provider,
	}
	if err := appendRow(ctx, store, RepairsSheet, encodeRepair(repair)); err != nil {
		return nil, err
	}
	return repair, nil
}

func UpdateRepair(ctx context.Context, store sheet.Client, id string, patch *RepairUpdate) (*Repair, error) {
	rowIndex, prev, err := findRow(ctx, store, RepairsSheet, id)
	if err != nil {
		return nil, err
	}
	repair := decodeRepair(prev)

	if patch.Date != nil {
		if _, ok := parseDateField(*patch.Date); !ok {
			return nil, utils.ValidationErrorf("date must be %s", DateLayout)
		}
		repair.Date = *patch.Date
	}
	if patch.Description != nil {
		repair.Description = *patch.Description
	}
	if patch.Cost != nil {
		repair.Cost = *patch.Cost
	}
	if patch.Mechanic != nil {
		repair.Mechanic = *patch.Mechanic
	}
	if patch.Provider != nil {
		if err := validateContact(patch.Provider.Contact); err != nil {
			return nil, err
		}
		repair.Provider = *patch.Provider
	}

	if err := updateRow(ctx, store, RepairsSheet, rowIndex, id, encodeRepair(repair)); err != nil {
		return nil, err
	}
	return repair, nil
}
