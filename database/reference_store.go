package database

import (
	"context"
	"fmt"

	"github.com/omnius-data/dvdrentalsim/models"
)

// InsertCountry, InsertCity, InsertAddress, InsertLanguage, InsertCategory,
// InsertActor, InsertStore and InsertStaff back the Seed Loader's reference
// dimension population (spec.md §4.4 step 1-3).

func (d *DB) InsertCountry(ctx context.Context, name string) (int64, error) {
	res, err := d.ExecContext(ctx, `INSERT INTO country (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert country: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) InsertCity(ctx context.Context, name string, countryID int64) (int64, error) {
	res, err := d.ExecContext(ctx, `INSERT INTO city (name, country_id) VALUES (?, ?)`, name, countryID)
	if err != nil {
		return 0, fmt.Errorf("insert city: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) InsertAddress(ctx context.Context, a models.Address) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO address (address, district, city_id, postal_code, phone) VALUES (?, ?, ?, ?, ?)`,
		a.Address, a.District, a.CityID, a.PostCode, a.Phone)
	if err != nil {
		return 0, fmt.Errorf("insert address: %w", err)
	}
	return res.LastInsertId()
}

// AllAddressIDs supports callers (e.g. the Customer Lifecycle Manager) that
// need to attach a new row to an existing address without modeling a full
// geographic hierarchy per customer (spec.md §4.4 scopes address generation
// to the Seed Loader's initial population).
func (d *DB) AllAddressIDs(ctx context.Context) ([]int64, error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM address`)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
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

func (d *DB) InsertLanguage(ctx context.Context, name string) (int64, error) {
	res, err := d.ExecContext(ctx, `INSERT INTO language (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert language: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) AllLanguages(ctx context.Context) ([]models.Language, error) {
	rows, err := d.QueryContext(ctx, `SELECT id, name FROM language`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()
	var out []models.Language
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (d *DB) InsertCategory(ctx context.Context, name string) (int64, error) {
	res, err := d.ExecContext(ctx, `INSERT INTO category (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

// CategoryIDByName looks up a category's id, used by the Film Release
// Planner when resolving a configured hot-category name.
func (d *DB) CategoryIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := d.QueryRowContext(ctx, `SELECT id FROM category WHERE name = ?`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("category %q: %w", name, err)
	}
	return id, nil
}

func (d *DB) AllCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := d.QueryContext(ctx, `SELECT id, name FROM category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *DB) InsertActor(ctx context.Context, first, last string) (int64, error) {
	res, err := d.ExecContext(ctx, `INSERT INTO actor (first_name, last_name) VALUES (?, ?)`, first, last)
	if err != nil {
		return 0, fmt.Errorf("insert actor: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) AllActorIDs(ctx context.Context) ([]int64, error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM actor`)
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
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

func (d *DB) InsertStore(ctx context.Context, addressID int64) (int64, error) {
	res, err := d.ExecContext(ctx, `INSERT INTO store (address_id) VALUES (?)`, addressID)
	if err != nil {
		return 0, fmt.Errorf("insert store: %w", err)
	}
	return res.LastInsertId()
}

func (d *DB) SetStoreManager(ctx context.Context, storeID, staffID int64) error {
	_, err := d.ExecContext(ctx, `UPDATE store SET manager_staff_id = ? WHERE id = ?`, staffID, storeID)
	if err != nil {
		return fmt.Errorf("set store manager: %w", err)
	}
	return nil
}

func (d *DB) InsertStaff(ctx context.Context, s models.Staff) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO staff (first_name, last_name, address_id, store_id, email, active) VALUES (?, ?, ?, ?, ?, ?)`,
		s.FirstName, s.LastName, s.AddressID, s.StoreID, s.Email, s.Active)
	if err != nil {
		return 0, fmt.Errorf("insert staff: %w", err)
	}
	return res.LastInsertId()
}

// StaffIDsByStore returns every staff id assigned to a store, used by the
// Rental Sampler to pick "a random staff member of the store" (spec.md
// §4.7.h).
func (d *DB) StaffIDsByStore(ctx context.Context, storeID int64) ([]int64, error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM staff WHERE store_id = ? AND active = TRUE`, storeID)
	if err != nil {
		return nil, fmt.Errorf("staff by store: %w", err)
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

func (d *DB) AllStoreIDs(ctx context.Context) ([]int64, error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM store`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
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
