package models

import "time"

// Segment is a customer's behavioral class (spec.md §4.6, GLOSSARY).
type Segment string

const (
	SegmentSuperLoyal Segment = "super_loyal"
	SegmentLoyal      Segment = "loyal"
	SegmentAverage    Segment = "average"
	SegmentOccasional Segment = "occasional"
)

// Customer is created by the Customer Lifecycle Manager and may deactivate
// (churn) or reactivate; churned customers are retained for historical joins
// (spec.md §3 Lifecycle).
type Customer struct {
	ID              int64
	StoreID         int64
	AddressID       int64
	FirstName       string
	LastName        string
	Email           string
	CreateDate      time.Time
	Active          bool
	Segment         Segment
	LifetimeWeeks   int // segment-relative expected lifetime at assignment time
}

// ARStatus is the aging bucket of a CustomerAR row (spec.md §3 invariant).
type ARStatus string

const (
	ARCurrent      ARStatus = "current"
	AR30Days       ARStatus = "30_days"
	AR60Days       ARStatus = "60_days"
	AR90DaysPlus   ARStatus = "90_days_plus"
	ARWrittenOff   ARStatus = "written_off"
)

// CustomerAR is the feature-flagged accounts-receivable row keyed by
// customer_id (spec.md §3, §4.9).
type CustomerAR struct {
	ID              int64
	CustomerID      int64
	TotalOwed       float64
	TotalPaid       float64
	ARBalance       float64
	LastPaymentDate *time.Time
	DaysPastDue     int
	ARStatus        ARStatus
}
