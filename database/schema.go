package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/omnius-data/dvdrentalsim/errs"
)

// ApplyBaseSchema applies the fixed DDL of spec.md §6: country, city,
// address, language, category, actor, film, film_actor, film_category,
// staff, store, customer, inventory, rental, payment. Running this twice is
// a no-op (spec.md §8 idempotence) thanks to CREATE TABLE IF NOT EXISTS,
// mirroring the teacher's database/sqlite.go migrate() shape.
func (d *DB) ApplyBaseSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS country (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(50) NOT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS city (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(50) NOT NULL,
			country_id INT NOT NULL,
			FOREIGN KEY (country_id) REFERENCES country(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS address (
			id INT AUTO_INCREMENT PRIMARY KEY,
			address VARCHAR(100) NOT NULL,
			district VARCHAR(50),
			city_id INT NOT NULL,
			postal_code VARCHAR(20),
			phone VARCHAR(20),
			FOREIGN KEY (city_id) REFERENCES city(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS language (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(20) NOT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS category (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(25) NOT NULL UNIQUE
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS actor (
			id INT AUTO_INCREMENT PRIMARY KEY,
			first_name VARCHAR(45) NOT NULL,
			last_name VARCHAR(45) NOT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS film (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			release_year SMALLINT,
			language_id INT NOT NULL,
			rental_duration SMALLINT NOT NULL DEFAULT 3,
			rental_price DECIMAL(5,2) NOT NULL DEFAULT 4.99,
			replacement_cost DECIMAL(5,2) NOT NULL DEFAULT 19.99,
			rating VARCHAR(10) NOT NULL DEFAULT 'G',
			length_minutes SMALLINT,
			category_id INT NOT NULL,
			FOREIGN KEY (language_id) REFERENCES language(id),
			FOREIGN KEY (category_id) REFERENCES category(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS film_actor (
			film_id INT NOT NULL,
			actor_id INT NOT NULL,
			PRIMARY KEY (film_id, actor_id),
			FOREIGN KEY (film_id) REFERENCES film(id),
			FOREIGN KEY (actor_id) REFERENCES actor(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS film_category (
			film_id INT NOT NULL,
			category_id INT NOT NULL,
			PRIMARY KEY (film_id, category_id),
			FOREIGN KEY (film_id) REFERENCES film(id),
			FOREIGN KEY (category_id) REFERENCES category(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS store (
			id INT AUTO_INCREMENT PRIMARY KEY,
			manager_staff_id INT,
			address_id INT NOT NULL,
			FOREIGN KEY (address_id) REFERENCES address(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS staff (
			id INT AUTO_INCREMENT PRIMARY KEY,
			first_name VARCHAR(45) NOT NULL,
			last_name VARCHAR(45) NOT NULL,
			address_id INT NOT NULL,
			store_id INT NOT NULL,
			email VARCHAR(50),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			FOREIGN KEY (address_id) REFERENCES address(id),
			FOREIGN KEY (store_id) REFERENCES store(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS customer (
			id INT AUTO_INCREMENT PRIMARY KEY,
			store_id INT NOT NULL,
			address_id INT NOT NULL,
			first_name VARCHAR(45) NOT NULL,
			last_name VARCHAR(45) NOT NULL,
			email VARCHAR(60),
			create_date DATETIME NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			segment VARCHAR(20) NOT NULL,
			lifetime_weeks INT NOT NULL DEFAULT 0,
			FOREIGN KEY (store_id) REFERENCES store(id),
			FOREIGN KEY (address_id) REFERENCES address(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id INT AUTO_INCREMENT PRIMARY KEY,
			film_id INT NOT NULL,
			store_id INT NOT NULL,
			date_purchased DATETIME NOT NULL,
			staff_id INT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'available',
			FOREIGN KEY (film_id) REFERENCES film(id),
			FOREIGN KEY (store_id) REFERENCES store(id),
			FOREIGN KEY (staff_id) REFERENCES staff(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS rental (
			id INT AUTO_INCREMENT PRIMARY KEY,
			rental_date DATETIME NOT NULL,
			inventory_id INT NOT NULL,
			customer_id INT NOT NULL,
			staff_id INT NOT NULL,
			return_date DATETIME NULL,
			FOREIGN KEY (inventory_id) REFERENCES inventory(id),
			FOREIGN KEY (customer_id) REFERENCES customer(id),
			FOREIGN KEY (staff_id) REFERENCES staff(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS payment (
			id INT AUTO_INCREMENT PRIMARY KEY,
			customer_id INT NOT NULL,
			staff_id INT NOT NULL,
			rental_id INT NOT NULL UNIQUE,
			amount DECIMAL(7,2) NOT NULL,
			payment_date DATETIME NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customer(id),
			FOREIGN KEY (staff_id) REFERENCES staff(id),
			FOREIGN KEY (rental_id) REFERENCES rental(id)
		) ENGINE=InnoDB`,
		// Indexes the hot-path operations rely on.
		`CREATE INDEX idx_inventory_store_status ON inventory(store_id, status)`,
		`CREATE INDEX idx_rental_inventory_open ON rental(inventory_id, return_date)`,
		`CREATE INDEX idx_rental_customer ON rental(customer_id)`,
		`CREATE INDEX idx_customer_store_active ON customer(store_id, active)`,
	}

	if err := d.execIdempotent(ctx, stmts); err != nil {
		return errs.New(errs.KindSchemaDrift, 0, err)
	}
	return nil
}

// EnsureOptionalTables creates late_fees, customer_ar, inventory_status,
// film_releases, inventory_purchases and the simulation-run audit tables
// required by the active feature flags (spec.md §4.3, §6;
// SPEC_FULL.md supplement for simulation_runs/weekly_metrics).
func (d *DB) EnsureOptionalTables(ctx context.Context, lateFees, arTracking, inventoryStatus bool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS film_releases (
			id INT AUTO_INCREMENT PRIMARY KEY,
			film_id INT NOT NULL UNIQUE,
			release_quarter VARCHAR(10),
			release_date DATETIME NOT NULL,
			FOREIGN KEY (film_id) REFERENCES film(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS inventory_purchases (
			id INT AUTO_INCREMENT PRIMARY KEY,
			film_id INT NOT NULL,
			inventory_id INT NOT NULL,
			staff_id INT NOT NULL,
			purchase_date DATETIME NOT NULL,
			FOREIGN KEY (film_id) REFERENCES film(id),
			FOREIGN KEY (inventory_id) REFERENCES inventory(id),
			FOREIGN KEY (staff_id) REFERENCES staff(id)
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS simulation_runs (
			id INT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(36) NOT NULL,
			config_hash VARCHAR(64),
			seed BIGINT,
			start_week INT,
			end_week INT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NULL,
			exit_code INT NOT NULL DEFAULT 0,
			last_committed_week INT NOT NULL DEFAULT 0
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS weekly_metrics (
			id INT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(36) NOT NULL,
			week INT NOT NULL,
			week_start_date DATETIME NOT NULL,
			expected_volume DOUBLE,
			phase_multiplier DOUBLE,
			seasonal_multiplier DOUBLE,
			spike_multiplier DOUBLE,
			rentals_written INT,
			no_candidates_count INT,
			active_customers INT,
			inventory_count INT,
			UNIQUE KEY uq_weekly_metrics_run_week (run_id, week)
		) ENGINE=InnoDB`,
	}

	if lateFees {
		stmts = append(stmts, `CREATE TABLE IF NOT EXISTS late_fees (
			id INT AUTO_INCREMENT PRIMARY KEY,
			rental_id INT NOT NULL UNIQUE,
			customer_id INT NOT NULL,
			inventory_id INT NOT NULL,
			days_overdue INT NOT NULL,
			daily_rate DECIMAL(5,2) NOT NULL DEFAULT 1.50,
			total_fee DECIMAL(7,2) NOT NULL,
			fee_date DATETIME NOT NULL,
			paid BOOLEAN NOT NULL DEFAULT FALSE,
			paid_date DATETIME NULL,
			paid_amount DECIMAL(7,2) NOT NULL DEFAULT 0,
			FOREIGN KEY (rental_id) REFERENCES rental(id),
			FOREIGN KEY (customer_id) REFERENCES customer(id),
			FOREIGN KEY (inventory_id) REFERENCES inventory(id)
		) ENGINE=InnoDB`)
	}
	if arTracking {
		stmts = append(stmts, `CREATE TABLE IF NOT EXISTS customer_ar (
			id INT AUTO_INCREMENT PRIMARY KEY,
			customer_id INT NOT NULL UNIQUE,
			total_owed DECIMAL(9,2) NOT NULL DEFAULT 0,
			total_paid DECIMAL(9,2) NOT NULL DEFAULT 0,
			ar_balance DECIMAL(9,2) NOT NULL DEFAULT 0,
			last_payment_date DATETIME NULL,
			days_past_due INT NOT NULL DEFAULT 0,
			ar_status VARCHAR(20) NOT NULL DEFAULT 'current',
			FOREIGN KEY (customer_id) REFERENCES customer(id)
		) ENGINE=InnoDB`)
	}
	if inventoryStatus {
		stmts = append(stmts, `CREATE TABLE IF NOT EXISTS inventory_status (
			id INT AUTO_INCREMENT PRIMARY KEY,
			inventory_id INT NOT NULL,
			status VARCHAR(20) NOT NULL,
			status_date DATETIME NOT NULL,
			staff_id INT NULL,
			FOREIGN KEY (inventory_id) REFERENCES inventory(id),
			FOREIGN KEY (staff_id) REFERENCES staff(id)
		) ENGINE=InnoDB`)
	}

	if err := d.execIdempotent(ctx, stmts); err != nil {
		return errs.New(errs.KindSchemaDrift, 0, err)
	}
	return nil
}

// execIdempotent runs each statement, tolerating "already exists"-shaped
// errors for indexes (MySQL has no CREATE INDEX IF NOT EXISTS before 8.0.29)
// so ApplyBaseSchema stays idempotent across server versions.
func (d *DB) execIdempotent(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			if isDuplicateIndexError(err) {
				continue
			}
			return fmt.Errorf("applying schema statement: %w\n%s", err, stmt)
		}
	}
	return nil
}

func isDuplicateIndexError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key name") || strings.Contains(msg, "1061")
}
