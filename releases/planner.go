package releases

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/rng"
)

// Planner runs the weekly market-release and hot-category purchase steps
// (spec.md §4.5).
type Planner struct {
	db  *database.DB
	cfg *config.Config
	svc *rng.Service
	log zerolog.Logger
}

func NewPlanner(db *database.DB, cfg *config.Config, svc *rng.Service, log zerolog.Logger) *Planner {
	return &Planner{db: db, cfg: cfg, svc: svc, log: log.With().Str("component", "releases").Logger()}
}

// Run executes both planner steps for week w: market releases, then any
// hot-category purchases scheduled for this week.
func (p *Planner) Run(ctx context.Context, w int, weekStart time.Time) error {
	if err := p.marketReleases(ctx, w, weekStart); err != nil {
		return fmt.Errorf("market releases week %d: %w", w, err)
	}
	if err := p.hotCategoryPurchases(ctx, w, weekStart); err != nil {
		return fmt.Errorf("hot category purchases week %d: %w", w, err)
	}
	return nil
}

// marketReleases creates market_weekly_releases new films spread across
// randomly chosen categories. These films are deliberately NOT added to
// inventory (spec.md §4.5 step 1).
func (p *Planner) marketReleases(ctx context.Context, w int, weekStart time.Time) error {
	n := p.cfg.MasterSimulation.FilmReleaseStrategy.MarketWeeklyReleases
	cats, err := p.db.AllCategories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return fmt.Errorf("no categories seeded")
	}

	for i := 0; i < n; i++ {
		cat := cats[p.svc.IntN(rng.SubsystemReleases, len(cats))]
		if _, err := p.createFilm(ctx, cat, weekStart); err != nil {
			return err
		}
	}
	p.log.Debug().Int("week", w).Int("count", n).Msg("market releases created")
	return nil
}

// createFilm generates one film via the title template system, inserts it
// and its film_release row, and returns the new film id.
func (p *Planner) createFilm(ctx context.Context, cat models.Category, releaseDate time.Time) (int64, error) {
	lang, err := p.firstLanguageID(ctx)
	if err != nil {
		return 0, err
	}
	gen := GenerateFilmTitle(cat.Name, p.svc)
	f := models.Film{
		Title:           gen.Title,
		Description:     gen.Description,
		ReleaseYear:     releaseDate.Year(),
		LanguageID:      lang,
		RentalDuration:  3,
		RentalPrice:     gen.RentalPrice,
		ReplacementCost: gen.ReplacementCost,
		Rating:          gen.Rating,
		LengthMinutes:   gen.LengthMinutes,
		CategoryID:      cat.ID,
	}
	id, err := p.db.InsertFilm(ctx, f)
	if err != nil {
		return 0, err
	}
	release := models.FilmRelease{
		FilmID:         id,
		ReleaseQuarter: quarterOf(releaseDate),
		ReleaseDate:    releaseDate,
	}
	if _, err := p.db.InsertFilmRelease(ctx, release); err != nil {
		return 0, err
	}
	return id, nil
}

// firstLanguageID is a small convenience: the seed catalog carries a single
// language row per spec.md §4.4 (languages are a reference dimension, not a
// per-film sampling axis the spec asks for).
func (p *Planner) firstLanguageID(ctx context.Context) (int64, error) {
	langs, err := p.db.AllLanguages(ctx)
	if err != nil {
		return 0, err
	}
	if len(langs) == 0 {
		return 0, fmt.Errorf("no languages seeded")
	}
	return langs[0].ID, nil
}

// hotCategoryPurchases applies the §4.5 selection policy for every
// configured hot_categories entry whose weeks[] includes w.
func (p *Planner) hotCategoryPurchases(ctx context.Context, w int, weekStart time.Time) error {
	for _, hc := range p.cfg.MasterSimulation.FilmReleaseStrategy.HotCategories {
		if !containsWeek(hc.Weeks, w) {
			continue
		}
		catID, err := p.db.CategoryIDByName(ctx, hc.Category)
		if err != nil {
			return err
		}
		films, err := p.selectHotCategoryFilms(ctx, catID, hc.Category, hc.PurchasePerRelease, weekStart)
		if err != nil {
			return err
		}
		stores, err := p.db.AllStoreIDs(ctx)
		if err != nil {
			return err
		}
		for _, filmID := range films {
			if err := p.purchaseAtEveryStore(ctx, filmID, stores, weekStart); err != nil {
				return err
			}
		}
	}
	return nil
}

// selectHotCategoryFilms implements the selection policy: 70% from recent
// releases, 30% from the full category, falling back to generating a film
// on the spot when no candidates exist (spec.md §4.5).
func (p *Planner) selectHotCategoryFilms(ctx context.Context, catID int64, catName string, count int, weekStart time.Time) ([]int64, error) {
	var out []int64
	for i := 0; i < count; i++ {
		var candidates []int64
		if p.svc.Bernoulli(rng.SubsystemReleases, 0.70) {
			recent, err := p.db.FilmsReleasedSince(ctx, catID, weekStart.AddDate(0, 0, -30))
			if err != nil {
				return nil, err
			}
			candidates = recent
		}
		if len(candidates) == 0 {
			films, err := p.db.FilmsByCategory(ctx, catID)
			if err != nil {
				return nil, err
			}
			for _, f := range films {
				candidates = append(candidates, f.ID)
			}
		}
		if len(candidates) == 0 {
			newID, err := p.createFilm(ctx, models.Category{ID: catID, Name: catName}, weekStart)
			if err != nil {
				return nil, err
			}
			out = append(out, newID)
			continue
		}
		out = append(out, candidates[p.svc.IntN(rng.SubsystemReleases, len(candidates))])
	}
	return out, nil
}

// purchaseAtEveryStore creates one inventory copy of filmID at each store
// and logs the purchase (spec.md §4.5 step 2).
func (p *Planner) purchaseAtEveryStore(ctx context.Context, filmID int64, storeIDs []int64, purchaseDate time.Time) error {
	for _, storeID := range storeIDs {
		staffIDs, err := p.db.StaffIDsByStore(ctx, storeID)
		if err != nil {
			return err
		}
		if len(staffIDs) == 0 {
			return fmt.Errorf("store %d has no staff to attribute purchase to", storeID)
		}
		staffID := staffIDs[p.svc.IntN(rng.SubsystemReleases, len(staffIDs))]

		copyID, err := p.db.InsertInventoryCopy(ctx, models.InventoryCopy{
			FilmID:        filmID,
			StoreID:       storeID,
			DatePurchased: purchaseDate,
			StaffID:       staffID,
			Status:        models.InventoryAvailable,
		})
		if err != nil {
			return err
		}
		if err := p.db.InsertInventoryPurchase(ctx, models.InventoryPurchase{
			FilmID:       filmID,
			InventoryID:  copyID,
			StaffID:      staffID,
			PurchaseDate: purchaseDate,
		}); err != nil {
			return err
		}
	}
	return nil
}

func containsWeek(weeks []int, w int) bool {
	for _, x := range weeks {
		if x == w {
			return true
		}
	}
	return false
}

func quarterOf(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%dQ%d", t.Year(), q)
}
