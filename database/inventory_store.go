package database

import (
	"context"
	"fmt"
	"time"

	"github.com/omnius-data/dvdrentalsim/models"
)

func (d *DB) InsertInventoryCopy(ctx context.Context, c models.InventoryCopy) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO inventory (film_id, store_id, date_purchased, staff_id, status) VALUES (?, ?, ?, ?, ?)`,
		c.FilmID, c.StoreID, c.DatePurchased, c.StaffID, c.Status)
	if err != nil {
		return 0, fmt.Errorf("insert inventory copy: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) InsertInventoryPurchase(ctx context.Context, p models.InventoryPurchase) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO inventory_purchases (film_id, inventory_id, staff_id, purchase_date) VALUES (?, ?, ?, ?)`,
		p.FilmID, p.InventoryID, p.StaffID, p.PurchaseDate)
	if err != nil {
		return fmt.Errorf("insert inventory purchase: %w", err)
	}
	return nil
}

func (d *DB) GetInventoryCopy(ctx context.Context, id int64) (models.InventoryCopy, error) {
	var c models.InventoryCopy
	err := d.QueryRowContext(ctx,
		`SELECT id, film_id, store_id, date_purchased, staff_id, status FROM inventory WHERE id = ?`, id).
		Scan(&c.ID, &c.FilmID, &c.StoreID, &c.DatePurchased, &c.StaffID, &c.Status)
	if err != nil {
		return c, fmt.Errorf("get inventory copy %d: %w", id, err)
	}
	return c, nil
}

// AvailableInventoryAtStore returns every inventory copy at storeID whose
// status is `available` (spec.md §4.7.b).
func (d *DB) AvailableInventoryAtStore(ctx context.Context, storeID int64) ([]models.InventoryCopy, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, film_id, store_id, date_purchased, staff_id, status FROM inventory WHERE store_id = ? AND status = 'available'`,
		storeID)
	if err != nil {
		return nil, fmt.Errorf("available inventory: %w", err)
	}
	defer rows.Close()
	var out []models.InventoryCopy
	for rows.Next() {
		var c models.InventoryCopy
		if err := rows.Scan(&c.ID, &c.FilmID, &c.StoreID, &c.DatePurchased, &c.StaffID, &c.Status); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetInventoryStatus updates the authoritative status column and writes an
// audit row to inventory_status when tracking is enabled (spec.md §4.10).
func (d *DB) SetInventoryStatus(ctx context.Context, inventoryID int64, status models.InventoryStatus, statusDate time.Time, staffID *int64, trackStatus bool) error {
	if _, err := d.ExecContext(ctx, `UPDATE inventory SET status = ? WHERE id = ?`, status, inventoryID); err != nil {
		return fmt.Errorf("update inventory status: %w", err)
	}
	if trackStatus {
		if _, err := d.ExecContext(ctx,
			`INSERT INTO inventory_status (inventory_id, status, status_date, staff_id) VALUES (?, ?, ?, ?)`,
			inventoryID, status, statusDate, staffID); err != nil {
			return fmt.Errorf("insert inventory_status: %w", err)
		}
	}
	return nil
}

// LatestStatusChangeDate returns the status_date of the most recent
// inventory_status row for a copy, the reference point the Inventory Status
// Tracker's cooldown recovery measures from (spec.md §4.10). Requires
// inventory_status tracking to be enabled.
func (d *DB) LatestStatusChangeDate(ctx context.Context, inventoryID int64) (time.Time, bool, error) {
	var t time.Time
	err := d.QueryRowContext(ctx,
		`SELECT status_date FROM inventory_status WHERE inventory_id = ? ORDER BY id DESC LIMIT 1`, inventoryID).Scan(&t)
	if err != nil {
		return time.Time{}, false, nil //nolint:nilerr // absence means no tracked transition yet
	}
	return t, true, nil
}

// InventoryCount returns the total number of inventory copies (spec.md §6
// summary block: "total inventory").
func (d *DB) InventoryCount(ctx context.Context) (int, error) {
	var n int
	if err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&n); err != nil {
		return 0, fmt.Errorf("inventory count: %w", err)
	}
	return n, nil
}

// InventoryByStatus lists inventory ids currently in a given status, used to
// run the damaged/maintenance cooldown exit rule (spec.md §4.10).
func (d *DB) InventoryByStatus(ctx context.Context, status models.InventoryStatus) ([]int64, error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM inventory WHERE status = ?`, status)
	if err != nil {
		return nil, fmt.Errorf("inventory by status: %w", err)
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
