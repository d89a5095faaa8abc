package database

import (
	"context"
	"fmt"
	"time"

	"github.com/omnius-data/dvdrentalsim/models"
)

// InsertRental writes a new open rental (spec.md §4.7). The caller has
// already validated the inventory copy is available and flips its status to
// `rented` via SetInventoryStatus in the same unit of work.
func (d *DB) InsertRental(ctx context.Context, r models.Rental) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO rental (rental_date, inventory_id, customer_id, staff_id, return_date) VALUES (?, ?, ?, ?, ?)`,
		r.RentalDate, r.InventoryID, r.CustomerID, r.StaffID, r.ReturnDate)
	if err != nil {
		return 0, fmt.Errorf("insert rental: %w", err)
	}
	return res.LastInsertId()
}

// SetRentalReturned sets return_date on a previously-open rental (spec.md
// §4.8). The caller is responsible for flipping the inventory status back.
func (d *DB) SetRentalReturned(ctx context.Context, rentalID int64, returnDate time.Time) error {
	if _, err := d.ExecContext(ctx, `UPDATE rental SET return_date = ? WHERE id = ?`, returnDate, rentalID); err != nil {
		return fmt.Errorf("set rental returned: %w", err)
	}
	return nil
}

func (d *DB) GetRental(ctx context.Context, id int64) (models.Rental, error) {
	var r models.Rental
	err := d.QueryRowContext(ctx,
		`SELECT id, rental_date, inventory_id, customer_id, staff_id, return_date FROM rental WHERE id = ?`, id).
		Scan(&r.ID, &r.RentalDate, &r.InventoryID, &r.CustomerID, &r.StaffID, &r.ReturnDate)
	if err != nil {
		return r, fmt.Errorf("get rental %d: %w", id, err)
	}
	return r, nil
}

// OpenRentals returns every rental with no return_date yet. The Return &
// Payment Engine does not read it; it works from RentalsBetween.
func (d *DB) OpenRentals(ctx context.Context) ([]models.Rental, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, rental_date, inventory_id, customer_id, staff_id, return_date FROM rental WHERE return_date IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("open rentals: %w", err)
	}
	defer rows.Close()
	var out []models.Rental
	for rows.Next() {
		var r models.Rental
		if err := rows.Scan(&r.ID, &r.RentalDate, &r.InventoryID, &r.CustomerID, &r.StaffID, &r.ReturnDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RentalsBetween returns rentals whose rental_date falls in [start, end),
// the Return & Payment Engine's input set for "rentals written in week w"
// (spec.md §4.8).
func (d *DB) RentalsBetween(ctx context.Context, start, end time.Time) ([]models.Rental, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, rental_date, inventory_id, customer_id, staff_id, return_date FROM rental WHERE rental_date >= ? AND rental_date < ?`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("rentals between: %w", err)
	}
	defer rows.Close()
	var out []models.Rental
	for rows.Next() {
		var r models.Rental
		if err := rows.Scan(&r.ID, &r.RentalDate, &r.InventoryID, &r.CustomerID, &r.StaffID, &r.ReturnDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OverdueCandidateRentals returns every rental whose effective due date
// (rental_date + the film's rental_duration) is before clock and whose
// return is either still open or happened after that due date — the exact
// input set spec.md §4.9 step 1 names, resolved in one join rather than
// requiring the caller to re-fetch each rental's film.
func (d *DB) OverdueCandidateRentals(ctx context.Context, clock time.Time) ([]models.Rental, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT r.id, r.rental_date, r.inventory_id, r.customer_id, r.staff_id, r.return_date
		 FROM rental r
		 JOIN inventory i ON i.id = r.inventory_id
		 JOIN film f ON f.id = i.film_id
		 WHERE DATE_ADD(r.rental_date, INTERVAL f.rental_duration DAY) < ?
		   AND (r.return_date IS NULL OR r.return_date > DATE_ADD(r.rental_date, INTERVAL f.rental_duration DAY))`,
		clock)
	if err != nil {
		return nil, fmt.Errorf("overdue candidate rentals: %w", err)
	}
	defer rows.Close()
	var out []models.Rental
	for rows.Next() {
		var r models.Rental
		if err := rows.Scan(&r.ID, &r.RentalDate, &r.InventoryID, &r.CustomerID, &r.StaffID, &r.ReturnDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RentalCountsByFilm returns the current historical rental count per film,
// the live (never cached) input to the Zipfian weighting step (spec.md
// §4.7.c: "must operate on current rental counts, not a cached snapshot").
func (d *DB) RentalCountsByFilm(ctx context.Context) (map[int64]int, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT i.film_id, COUNT(*) FROM rental r JOIN inventory i ON i.id = r.inventory_id GROUP BY i.film_id`)
	if err != nil {
		return nil, fmt.Errorf("rental counts by film: %w", err)
	}
	defer rows.Close()
	out := make(map[int64]int)
	for rows.Next() {
		var filmID int64
		var count int
		if err := rows.Scan(&filmID, &count); err != nil {
			return nil, err
		}
		out[filmID] = count
	}
	return out, rows.Err()
}

func (d *DB) RentalCount(ctx context.Context) (int, error) {
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM rental`).Scan(&n); err != nil {
		return 0, fmt.Errorf("rental count: %w", err)
	}
	return n, nil
}

// --- payment ---

func (d *DB) InsertPayment(ctx context.Context, p models.Payment) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO payment (customer_id, staff_id, rental_id, amount, payment_date) VALUES (?, ?, ?, ?, ?)`,
		p.CustomerID, p.StaffID, p.RentalID, p.Amount, p.PaymentDate)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) PaymentByRental(ctx context.Context, rentalID int64) (models.Payment, bool, error) {
	var p models.Payment
	err := d.QueryRowContext(ctx,
		`SELECT id, customer_id, staff_id, rental_id, amount, payment_date FROM payment WHERE rental_id = ?`, rentalID).
		Scan(&p.ID, &p.CustomerID, &p.StaffID, &p.RentalID, &p.Amount, &p.PaymentDate)
	if err != nil {
		return p, false, nil //nolint:nilerr // absence means the rental hasn't been paid yet
	}
	return p, true, nil
}

// LatestPaymentDate returns the most recent payment_date among a customer's
// payments, feeding customer_ar.last_payment_date (spec.md §4.9 step 3).
func (d *DB) LatestPaymentDate(ctx context.Context, customerID int64) (time.Time, bool, error) {
	var t time.Time
	err := d.QueryRowContext(ctx,
		`SELECT payment_date FROM payment WHERE customer_id = ? ORDER BY payment_date DESC LIMIT 1`, customerID).
		Scan(&t)
	if err != nil {
		return t, false, nil //nolint:nilerr // no payments yet is not a failure
	}
	return t, true, nil
}

func (d *DB) PaymentCount(ctx context.Context) (int, error) {
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM payment`).Scan(&n); err != nil {
		return 0, fmt.Errorf("payment count: %w", err)
	}
	return n, nil
}
