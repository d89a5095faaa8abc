package models

import "time"

// Rating is the MPAA-style classification of a Film (spec.md §3).
type Rating string

const (
	RatingG     Rating = "G"
	RatingPG    Rating = "PG"
	RatingPG13  Rating = "PG-13"
	RatingR     Rating = "R"
	RatingNC17  Rating = "NC-17"
)

// Film is created at seed time or by the Film Release Planner and is never
// deleted (spec.md §3 Lifecycle).
type Film struct {
	ID               int64
	Title            string
	Description      string
	ReleaseYear      int
	LanguageID       int64
	RentalDuration   int // days
	RentalPrice      float64
	ReplacementCost  float64
	Rating           Rating
	LengthMinutes    int
	CategoryID       int64 // primary category; film_category table may carry more
}

// FilmRelease is unique per film; release_date <= simulation clock (invariant).
type FilmRelease struct {
	ID            int64
	FilmID        int64
	ReleaseQuarter string // e.g. "2024Q3"
	ReleaseDate   time.Time
}

// InventoryStatus is the authoritative state of one InventoryCopy.
type InventoryStatus string

const (
	InventoryAvailable   InventoryStatus = "available"
	InventoryRented      InventoryStatus = "rented"
	InventoryDamaged     InventoryStatus = "damaged"
	InventoryMissing     InventoryStatus = "missing"
	InventoryMaintenance InventoryStatus = "maintenance"
)

// InventoryCopy is a single physical copy of a Film at a Store.
// (film_id, store_id) may repeat — multiple copies are modeled as distinct rows.
type InventoryCopy struct {
	ID            int64
	FilmID        int64
	StoreID       int64
	DatePurchased time.Time
	StaffID       int64 // buyer
	Status        InventoryStatus
}

// InventoryPurchase is the purchase-log entry written by a hot-category
// acquisition (spec.md §4.5).
type InventoryPurchase struct {
	ID          int64
	FilmID      int64
	InventoryID int64
	StaffID     int64
	PurchaseDate time.Time
}

// InventoryStatusEvent is the audit-trail row written on every status
// transition (spec.md §4.10).
type InventoryStatusEvent struct {
	ID          int64
	InventoryID int64
	Status      InventoryStatus
	StatusDate  time.Time
	StaffID     *int64
}
