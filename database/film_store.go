package database

import (
	"context"
	"fmt"
	"time"

	"github.com/omnius-data/dvdrentalsim/models"
)

// InsertFilm writes a film row and its primary film_category association
// (spec.md §3 invariant: every film has at least one category).
func (d *DB) InsertFilm(ctx context.Context, f models.Film) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO film (title, description, release_year, language_id, rental_duration, rental_price, replacement_cost, rating, length_minutes, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Title, f.Description, f.ReleaseYear, f.LanguageID, f.RentalDuration, f.RentalPrice, f.ReplacementCost, f.Rating, f.LengthMinutes, f.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("insert film: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := d.ExecContext(ctx, `INSERT INTO film_category (film_id, category_id) VALUES (?, ?)`, id, f.CategoryID); err != nil {
		return 0, fmt.Errorf("insert film_category: %w", err)
	}
	return id, nil
}

func (d *DB) LinkFilmActor(ctx context.Context, filmID, actorID int64) error {
	_, err := d.ExecContext(ctx, `INSERT IGNORE INTO film_actor (film_id, actor_id) VALUES (?, ?)`, filmID, actorID)
	if err != nil {
		return fmt.Errorf("link film_actor: %w", err)
	}
	return nil
}

func (d *DB) GetFilm(ctx context.Context, id int64) (models.Film, error) {
	var f models.Film
	err := d.QueryRowContext(ctx,
		`SELECT id, title, description, release_year, language_id, rental_duration, rental_price, replacement_cost, rating, length_minutes, category_id
		 FROM film WHERE id = ?`, id).
		Scan(&f.ID, &f.Title, &f.Description, &f.ReleaseYear, &f.LanguageID, &f.RentalDuration, &f.RentalPrice, &f.ReplacementCost, &f.Rating, &f.LengthMinutes, &f.CategoryID)
	if err != nil {
		return f, fmt.Errorf("get film %d: %w", id, err)
	}
	return f, nil
}

func (d *DB) FilmsByCategory(ctx context.Context, categoryID int64) ([]models.Film, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT id, title, description, release_year, language_id, rental_duration, rental_price, replacement_cost, rating, length_minutes, category_id
		 FROM film WHERE category_id = ?`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("films by category: %w", err)
	}
	defer rows.Close()
	return scanFilms(rows)
}

func scanFilms(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]models.Film, error) {
	var out []models.Film
	for rows.Next() {
		var f models.Film
		if err := rows.Scan(&f.ID, &f.Title, &f.Description, &f.ReleaseYear, &f.LanguageID, &f.RentalDuration, &f.RentalPrice, &f.ReplacementCost, &f.Rating, &f.LengthMinutes, &f.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertFilmRelease writes the unique-per-film release row (spec.md §3).
func (d *DB) InsertFilmRelease(ctx context.Context, r models.FilmRelease) (int64, error) {
	res, err := d.ExecContext(ctx,
		`INSERT INTO film_releases (film_id, release_quarter, release_date) VALUES (?, ?, ?)`,
		r.FilmID, r.ReleaseQuarter, r.ReleaseDate)
	if err != nil {
		return 0, fmt.Errorf("insert film_release: %w", err)
	}
	return res.LastInsertId()
}

// FilmsReleasedSince returns films in categoryID released on or after since,
// backing the hot-category "70% from last 30 days" selection (spec.md §4.5).
func (d *DB) FilmsReleasedSince(ctx context.Context, categoryID int64, since time.Time) ([]int64, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT f.id FROM film f JOIN film_releases fr ON fr.film_id = f.id
		 WHERE f.category_id = ? AND fr.release_date >= ?`, categoryID, since)
	if err != nil {
		return nil, fmt.Errorf("films released since: %w", err)
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

// FilmReleaseDate returns a film's tracked release_date, or false if
// film_releases carries no row for it (caller falls back to the
// January-1-of-release-year approximation per spec.md §4.7.e).
func (d *DB) FilmReleaseDate(ctx context.Context, filmID int64) (time.Time, bool, error) {
	var t time.Time
	err := d.QueryRowContext(ctx, `SELECT release_date FROM film_releases WHERE film_id = ?`, filmID).Scan(&t)
	if err != nil {
		return time.Time{}, false, nil //nolint:nilerr // absence is a normal fallback case, not an error
	}
	return t, true, nil
}
