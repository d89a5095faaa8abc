package database

import (
	"context"
	"fmt"
	"time"

	"github.com/omnius-data/dvdrentalsim/models"
)

// InsertCustomer writes a new customer row, backing both the Seed Loader's
// initial population and the Customer Lifecycle Manager's weekly new-customer
// acquisition (spec.md §4.4, §4.6).
func (d *DB) InsertCustomer(ctx context.Context, c models.Customer) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO customer (store_id, first_name, last_name, email, address_id, active, create_date, segment, lifetime_weeks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.StoreID, c.FirstName, c.LastName, c.Email, c.AddressID, c.Active, c.CreateDate, c.Segment, c.LifetimeWeeks)
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) SetCustomerActive(ctx context.Context, customerID int64, active bool) error {
	if _, err := d.ExecContext(ctx, `UPDATE customer SET active = ? WHERE id = ?`, active, customerID); err != nil {
		return fmt.Errorf("set customer active: %w", err)
	}
	return nil
}

func (d *DB) GetCustomer(ctx context.Context, id int64) (models.Customer, error) {
	var c models.Customer
	err := d.QueryRowContext(ctx,
		`SELECT id, store_id, first_name, last_name, email, address_id, active, create_date, segment, lifetime_weeks
		 FROM customer WHERE id = ?`, id).
		Scan(&c.ID, &c.StoreID, &c.FirstName, &c.LastName, &c.Email, &c.AddressID, &c.Active, &c.CreateDate, &c.Segment, &c.LifetimeWeeks)
	if err != nil {
		return c, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

// ActiveCustomersBySegment returns the ids of active customers in one
// segment, backing the Lifecycle Manager's churn pass. Rows come back in no
// guaranteed order.
func (d *DB) ActiveCustomersBySegment(ctx context.Context, segment models.Segment) ([]int64, error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM customer WHERE active = TRUE AND segment = ?`, segment)
	if err != nil {
		return nil, fmt.Errorf("active customers by segment: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ActiveCustomers returns every active customer, backing the Rental
// Sampler's activity-weighted selection over the whole active population
// (spec.md §4.7.a).
func (d *DB) ActiveCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, store_id, first_name, last_name, email, address_id, active, create_date, segment, lifetime_weeks
		 FROM customer WHERE active = TRUE`)
	if err != nil {
		return nil, fmt.Errorf("active customers: %w", err)
	}
	defer rows.Close()
	var out []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.StoreID, &c.FirstName, &c.LastName, &c.Email, &c.AddressID, &c.Active, &c.CreateDate, &c.Segment, &c.LifetimeWeeks); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *DB) ActiveCustomerCount(ctx context.Context) (int, error) {
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer WHERE active = TRUE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("active customer count: %w", err)
	}
	return n, nil
}

// InactiveCustomersSince supports the Lifecycle Manager's reactivation pass:
// inactive customers with no rental on or after cutoff (spec.md §4.6
// reactivation).
func (d *DB) InactiveCustomersSince(ctx context.Context, cutoff time.Time) ([]int64, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT c.id FROM customer c
		 WHERE c.active = FALSE
		   AND NOT EXISTS (
		     SELECT 1 FROM rental r WHERE r.customer_id = c.id AND r.rental_date >= ?
		   )`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("inactive customers since: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// --- customer_ar: accounts-receivable tracking (spec.md §4.9) ---

func (d *DB) UpsertCustomerAR(ctx context.Context, ar models.CustomerAR) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO customer_ar (customer_id, total_owed, total_paid, ar_balance, last_payment_date, days_past_due, ar_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE total_owed = VALUES(total_owed), total_paid = VALUES(total_paid),
		   ar_balance = VALUES(ar_balance), last_payment_date = VALUES(last_payment_date),
		   days_past_due = VALUES(days_past_due), ar_status = VALUES(ar_status)`,
		ar.CustomerID, ar.TotalOwed, ar.TotalPaid, ar.ARBalance, ar.LastPaymentDate, ar.DaysPastDue, ar.ARStatus)
	if err != nil {
		return fmt.Errorf("upsert customer_ar: %w", err)
	}
	return nil
}

func (d *DB) GetCustomerAR(ctx context.Context, customerID int64) (models.CustomerAR, bool, error) {
	var ar models.CustomerAR
	err := d.QueryRowContext(ctx,
		`SELECT id, customer_id, total_owed, total_paid, ar_balance, last_payment_date, days_past_due, ar_status
		 FROM customer_ar WHERE customer_id = ?`, customerID).
		Scan(&ar.ID, &ar.CustomerID, &ar.TotalOwed, &ar.TotalPaid, &ar.ARBalance, &ar.LastPaymentDate, &ar.DaysPastDue, &ar.ARStatus)
	if err != nil {
		return ar, false, nil //nolint:nilerr // absence means the customer has no AR row yet
	}
	return ar, true, nil
}

