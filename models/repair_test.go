package models

import (
	"context"
	"errors"
	"testing"

	"github.com/mmautosoft/dealership_backend/utils"
)

func repairRow(id, carID, cost string) []string {
	row := make([]string, RepairsSheet.NumCols())
	row[repairColID] = id
	row[repairColCarID] = carID
	row[repairColDate] = "2024-02-01"
	row[repairColDescription] = "brake pads"
	row[repairColCost] = cost
	row[repairColProviderName] = "Aung Motors"
	return row
}

func TestCreateRepairRequiresExistingCar(t *testing.T) {
	store := newTestStore()
	_, err := CreateRepair(context.Background(), store, &NewRepair{
		CarID: "C9", Date: "2024-02-01", Description: "brake pads", Cost: 40000,
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("got %v, want not-found", err)
	}
	if got := len(store.Rows(RepairsSheet.Sheet)); got != 0 {
		t.Fatalf("rejected repair must not append, sheet has %d rows", got)
	}
}

func TestCreateRepairFlattensProvider(t *testing.T) {
	store := newTestStore()
	store.Seed(CarsSheet.Sheet, [][]string{carRow("C1", CarStatusAvailable)})

	repair, err := CreateRepair(context.Background(), store, &NewRepair{
		CarID:       "C1",
		Date:        "2024-02-01",
		Description: "brake pads",
		Cost:        40000,
		Mechanic:    "Ko Zaw",
		Provider:    ServiceProvider{Name: "Aung Motors", Contact: "09-123", Address: "Yangon"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if repair.ID != "R1" {
		t.Fatalf("ID = %q", repair.ID)
	}

	rows := store.Rows(RepairsSheet.Sheet)
	if len(rows) != 1 {
		t.Fatalf("sheet has %d rows", len(rows))
	}
	row := rows[0]
	if row[repairColProviderName] != "Aung Motors" || row[repairColProviderContact] != "09-123" || row[repairColProviderAddress] != "Yangon" {
		t.Fatalf("provider cells %v", row[repairColProviderName:])
	}
}

func TestRepairsByCar(t *testing.T) {
	store := newTestStore()
	store.Seed(RepairsSheet.Sheet, [][]string{
		repairRow("R1", "C1", "40000"),
		repairRow("R2", "C2", "10000"),
		repairRow("R3", "C1", "25000"),
	})

	repairs, err := RepairsByCar(context.Background(), store, "C1")
	if err != nil {
		t.Fatal(err)
	}
	if len(repairs) != 2 || repairs[0].ID != "R1" || repairs[1].ID != "R3" {
		t.Fatalf("repairs = %v", repairs)
	}

	repairs, err = RepairsByCar(context.Background(), store, "C7")
	if err != nil {
		t.Fatal(err)
	}
	if len(repairs) != 0 {
		t.Fatalf("unknown car must yield an empty list, got %d", len(repairs))
	}
}

func TestUpdateRepairPatchesProvider(t *testing.T) {
	store := newTestStore()
	store.Seed(RepairsSheet.Sheet, [][]string{repairRow("R1", "C1", "40000")})

	cost := 55000.0
	repair, err := UpdateRepair(context.Background(), store, "R1", &RepairUpdate{
		Cost:     &cost,
		Provider: &ServiceProvider{Name: "New Garage"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if repair.Cost != 55000 || repair.Provider.Name != "New Garage" {
		t.Fatalf("patched repair %+v", repair)
	}
	// The provider patch is whole-record, not field-merged.
	if repair.Provider.Contact != "" {
		t.Fatalf("provider contact = %q, want blank", repair.Provider.Contact)
	}
}
