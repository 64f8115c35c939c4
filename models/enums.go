package models

// CarStatus is derived by the backing store from the Sales and Rentals
// sheets. The API layer never writes it; it only reads the current value
// immediately before a mutating action.
type CarStatus string

const (
	CarStatusAvailable CarStatus = "Available"
	CarStatusSold      CarStatus = "Sold"
	CarStatusOnRent    CarStatus = "On Rent"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusUnpaid:
		return true
	}
	return false
}

// RentalStatus is date-derived by the store (Active until the return
// date passes, then Completed).
type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "Active"
	RentalStatusCompleted RentalStatus = "Completed"
)
