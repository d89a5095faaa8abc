package database

import (
	"context"
	"fmt"
	"time"

	"github.com/omnius-data/dvdrentalsim/models"
)

// UpsertLateFee writes or refreshes the feature-flagged fee row for an
// overdue rental. rental_id is unique (spec.md §3 invariant), and the same
// rental is re-evaluated every week it stays overdue, so this is an upsert
// keyed on rental_id rather than a plain insert.
func (d *DB) UpsertLateFee(ctx context.Context, f models.LateFee) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO late_fees (rental_id, customer_id, inventory_id, days_overdue, daily_rate, total_fee, fee_date, paid, paid_date, paid_amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
			days_overdue = VALUES(days_overdue),
			total_fee = VALUES(total_fee),
			paid = VALUES(paid),
			paid_date = VALUES(paid_date),
			paid_amount = VALUES(paid_amount),
			id = LAST_INSERT_ID(id)`,
		f.RentalID, f.CustomerID, f.InventoryID, f.DaysOverdue, f.DailyRate, f.TotalFee, f.FeeDate, f.Paid, f.PaidDate, f.PaidAmount)
	if err != nil {
		return 0, fmt.Errorf("upsert late_fee: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) MarkLateFeePaid(ctx context.Context, feeID int64, paidDate time.Time, paidAmount float64) error {
	_, err := d.ExecContext(ctx,
		`UPDATE late_fees SET paid = TRUE, paid_date = ?, paid_amount = ? WHERE id = ?`,
		paidDate, paidAmount, feeID)
	if err != nil {
		return fmt.Errorf("mark late_fee paid: %w", err)
	}
	return nil
}

func (d *DB) LateFeeByRental(ctx context.Context, rentalID int64) (models.LateFee, bool, error) {
	var f models.LateFee
	err := d.QueryRowContext(ctx,
		`SELECT id, rental_id, customer_id, inventory_id, days_overdue, daily_rate, total_fee, fee_date, paid, paid_date, paid_amount
		 FROM late_fees WHERE rental_id = ?`, rentalID).
		Scan(&f.ID, &f.RentalID, &f.CustomerID, &f.InventoryID, &f.DaysOverdue, &f.DailyRate, &f.TotalFee, &f.FeeDate, &f.Paid, &f.PaidDate, &f.PaidAmount)
	if err != nil {
		return f, false, nil //nolint:nilerr // absence means no fee has been assessed for this rental
	}
	return f, true, nil
}

// UnpaidLateFeesForCustomer feeds the AR balance recompute (spec.md §4.9).
func (d *DB) UnpaidLateFeesForCustomer(ctx context.Context, customerID int64) ([]models.LateFee, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, rental_id, customer_id, inventory_id, days_overdue, daily_rate, total_fee, fee_date, paid, paid_date, paid_amount
		 FROM late_fees WHERE customer_id = ? AND paid = FALSE`, customerID)
	if err != nil {
		return nil, fmt.Errorf("unpaid late fees: %w", err)
	}
	defer rows.Close()
	var out []models.LateFee
	for rows.Next() {
		var f models.LateFee
		if err := rows.Scan(&f.ID, &f.RentalID, &f.CustomerID, &f.InventoryID, &f.DaysOverdue, &f.DailyRate, &f.TotalFee, &f.FeeDate, &f.Paid, &f.PaidDate, &f.PaidAmount); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (d *DB) LateFeeCount(ctx context.Context) (int, error) {
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM late_fees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("late fee count: %w", err)
	}
	return n, nil
}
