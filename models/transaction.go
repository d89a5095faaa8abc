package models

import "time"

// Rental is written by the Rental Sampler; ReturnDate is set later by the
// Return & Payment Engine (spec.md §3).
type Rental struct {
	ID            int64
	RentalDate    time.Time
	InventoryID   int64
	CustomerID    int64
	StaffID       int64
	ReturnDate    *time.Time
}

// Payment exists for at-most-one completed rental (spec.md §3 invariant).
type Payment struct {
	ID          int64
	CustomerID  int64
	StaffID     int64
	RentalID    int64
	Amount      float64
	PaymentDate time.Time
}

// LateFee is the feature-flagged fee row, unique per rental_id
// (spec.md §3, §4.9).
type LateFee struct {
	ID          int64
	RentalID    int64
	CustomerID  int64
	InventoryID int64
	DaysOverdue int
	DailyRate   float64
	TotalFee    float64
	FeeDate     time.Time
	Paid        bool
	PaidDate    *time.Time
	PaidAmount  float64
}
