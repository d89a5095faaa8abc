// Package seed implements the Seed Loader (SPEC_FULL.md §4.4): the
// one-time population of reference dimensions, stores, staff, the initial
// film catalog, initial inventory, and the initial customer population.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/omnius-data/dvdrentalsim/config"
	"github.com/omnius-data/dvdrentalsim/database"
	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/releases"
	"github.com/omnius-data/dvdrentalsim/rng"
)

// Loader runs the ordered one-time population described in spec.md §4.4.
type Loader struct {
	db  *database.DB
	cfg *config.Config
	svc *rng.Service
	log zerolog.Logger
}

func NewLoader(db *database.DB, cfg *config.Config, svc *rng.Service, log zerolog.Logger) *Loader {
	return &Loader{db: db, cfg: cfg, svc: svc, log: log.With().Str("component", "seed").Logger()}
}

// Run executes all six ordered seed steps.
func (l *Loader) Run(ctx context.Context, startTime time.Time) error {
	countryID, cityID, err := l.seedGeography(ctx)
	if err != nil {
		return fmt.Errorf("seed geography: %w", err)
	}
	languageID, err := l.seedLanguage(ctx)
	if err != nil {
		return fmt.Errorf("seed language: %w", err)
	}
	categoryIDs, err := l.seedCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	actorIDs, err := l.seedActors(ctx)
	if err != nil {
		return fmt.Errorf("seed actors: %w", err)
	}

	storeAddresses, err := l.addressesForStores(ctx, cityID, l.cfg.Generation.StoresCount)
	if err != nil {
		return fmt.Errorf("seed store addresses: %w", err)
	}
	storeIDs, err := l.seedStoresAndStaff(ctx, storeAddresses, cityID)
	if err != nil {
		return fmt.Errorf("seed stores and staff: %w", err)
	}

	filmIDs, err := l.seedFilmCatalog(ctx, categoryIDs, languageID, startTime, actorIDs)
	if err != nil {
		return fmt.Errorf("seed film catalog: %w", err)
	}
	if err := l.seedInitialInventory(ctx, filmIDs, storeIDs, startTime); err != nil {
		return fmt.Errorf("seed initial inventory: %w", err)
	}
	if err := l.seedInitialCustomers(ctx, storeIDs, cityID, startTime); err != nil {
		return fmt.Errorf("seed initial customers: %w", err)
	}

	_ = countryID
	l.log.Info().
		Int("films", len(filmIDs)).
		Int("stores", len(storeIDs)).
		Int("customers", l.cfg.Generation.InitialCustomers).
		Msg("seed complete")
	return nil
}

// seedGeography creates one country/city pair; every address created
// elsewhere in Run attaches to it. A single-city world is a deliberate
// simplification — spec.md §4.4 names "countries, cities, addresses" as
// prerequisites for stores/staff/customers, not as a multi-region
// distribution the simulation otherwise samples from.
func (l *Loader) seedGeography(ctx context.Context) (countryID, cityID int64, err error) {
	countryID, err = l.db.InsertCountry(ctx, "United States")
	if err != nil {
		return 0, 0, err
	}
	cityID, err = l.db.InsertCity(ctx, "Springfield", countryID)
	if err != nil {
		return 0, 0, err
	}
	return countryID, cityID, nil
}

func (l *Loader) seedLanguage(ctx context.Context) (int64, error) {
	return l.db.InsertLanguage(ctx, "English")
}

func (l *Loader) seedCategories(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(releases.CategoryNames()))
	for _, name := range releases.CategoryNames() {
		id, err := l.db.InsertCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = id
	}
	return out, nil
}

const seedActorCount = 200

func (l *Loader) seedActors(ctx context.Context) ([]int64, error) {
	firstNames := []string{"James", "Maria", "Robert", "Linda", "Michael", "Patricia", "David", "Jennifer", "Carlos", "Ava"}
	lastNames := []string{"Nolan", "Reyes", "Chen", "Okafor", "Becker", "Haddad", "Ferreira", "Kowalski", "Singh", "Moreno"}
	ids := make([]int64, 0, seedActorCount)
	for i := 0; i < seedActorCount; i++ {
		first := firstNames[l.svc.IntN(rng.SubsystemReleases, len(firstNames))]
		last := lastNames[l.svc.IntN(rng.SubsystemReleases, len(lastNames))]
		id, err := l.db.InsertActor(ctx, first, last)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (l *Loader) addressesForStores(ctx context.Context, cityID int64, count int) ([]int64, error) {
	var ids []int64
	for i := 0; i < count; i++ {
		id, err := l.db.InsertAddress(ctx, models.Address{
			Address:  fmt.Sprintf("%d Main St", 100+i),
			District: "Central",
			CityID:   cityID,
			PostCode: "00000",
			Phone:    "555-0100",
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// seedStoresAndStaff creates one store per address with one manager staff
// each, plus one extra non-manager staff per store (spec.md §4.4 step 3).
func (l *Loader) seedStoresAndStaff(ctx context.Context, storeAddresses []int64, cityID int64) ([]int64, error) {
	var storeIDs []int64
	for i, addrID := range storeAddresses {
		storeID, err := l.db.InsertStore(ctx, addrID)
		if err != nil {
			return nil, err
		}
		storeIDs = append(storeIDs, storeID)

		staffAddrID, err := l.db.InsertAddress(ctx, models.Address{
			Address: fmt.Sprintf("%d Staff Row", 200+i), District: "Central", CityID: cityID, PostCode: "00000", Phone: "555-0200",
		})
		if err != nil {
			return nil, err
		}
		managerID, err := l.db.InsertStaff(ctx, models.Staff{
			FirstName: "Store", LastName: fmt.Sprintf("Manager%d", i+1), AddressID: staffAddrID, StoreID: storeID,
			Email: fmt.Sprintf("manager%d@example.test", i+1), Active: true,
		})
		if err != nil {
			return nil, err
		}
		if err := l.db.SetStoreManager(ctx, storeID, managerID); err != nil {
			return nil, err
		}
		if _, err := l.db.InsertStaff(ctx, models.Staff{
			FirstName: "Clerk", LastName: fmt.Sprintf("%d", i+1), AddressID: staffAddrID, StoreID: storeID,
			Email: fmt.Sprintf("clerk%d@example.test", i+1), Active: true,
		}); err != nil {
			return nil, err
		}
	}
	return storeIDs, nil
}

// seedFilmCatalog distributes films_count films across categories using the
// Film Release Planner's template system (spec.md §4.4 step 4), then casts
// 3-5 actors per film against the schema's fixed film_actor join table
// (spec.md §3 persistent schema list).
func (l *Loader) seedFilmCatalog(ctx context.Context, categoryIDs map[string]int64, languageID int64, startTime time.Time, actorIDs []int64) ([]int64, error) {
	names := releases.CategoryNames()
	var filmIDs []int64
	for i := 0; i < l.cfg.Generation.FilmsCount; i++ {
		catName := names[l.svc.IntN(rng.SubsystemReleases, len(names))]
		gen := releases.GenerateFilmTitle(catName, l.svc)
		releaseYear := startTime.Year() - l.svc.IntN(rng.SubsystemReleases, 5)
		f := models.Film{
			Title:           gen.Title,
			Description:     gen.Description,
			ReleaseYear:     releaseYear,
			LanguageID:      languageID,
			RentalDuration:  3,
			RentalPrice:     gen.RentalPrice,
			ReplacementCost: gen.ReplacementCost,
			Rating:          gen.Rating,
			LengthMinutes:   gen.LengthMinutes,
			CategoryID:      categoryIDs[catName],
		}
		id, err := l.db.InsertFilm(ctx, f)
		if err != nil {
			return nil, err
		}
		if err := l.castActors(ctx, id, actorIDs); err != nil {
			return nil, err
		}
		filmIDs = append(filmIDs, id)
	}
	return filmIDs, nil
}

// castActors links a random 3-5 actor cast to a seeded film.
func (l *Loader) castActors(ctx context.Context, filmID int64, actorIDs []int64) error {
	if len(actorIDs) == 0 {
		return nil
	}
	castSize := 3 + l.svc.IntN(rng.SubsystemReleases, 3) // 3, 4, or 5
	if castSize > len(actorIDs) {
		castSize = len(actorIDs)
	}
	cast := make(map[int64]struct{}, castSize)
	for len(cast) < castSize {
		actorID := actorIDs[l.svc.IntN(rng.SubsystemReleases, len(actorIDs))]
		if _, dup := cast[actorID]; dup {
			continue
		}
		cast[actorID] = struct{}{}
		if err := l.db.LinkFilmActor(ctx, filmID, actorID); err != nil {
			return err
		}
	}
	return nil
}

// seedInitialInventory creates 2-3 copies per film per store (spec.md §4.4
// step 5).
func (l *Loader) seedInitialInventory(ctx context.Context, filmIDs, storeIDs []int64, purchaseDate time.Time) error {
	for _, storeID := range storeIDs {
		staffIDs, err := l.db.StaffIDsByStore(ctx, storeID)
		if err != nil {
			return err
		}
		if len(staffIDs) == 0 {
			return fmt.Errorf("store %d seeded with no staff", storeID)
		}
		for _, filmID := range filmIDs {
			copies := 2 + l.svc.IntN(rng.SubsystemInventory, 2) // 2 or 3
			for c := 0; c < copies; c++ {
				staffID := staffIDs[l.svc.IntN(rng.SubsystemInventory, len(staffIDs))]
				if _, err := l.db.InsertInventoryCopy(ctx, models.InventoryCopy{
					FilmID:        filmID,
					StoreID:       storeID,
					DatePurchased: purchaseDate,
					StaffID:       staffID,
					Status:        models.InventoryAvailable,
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// seedInitialCustomers creates initial_customers rows bucketed into
// segments by configured percentage (spec.md §4.4 step 6).
func (l *Loader) seedInitialCustomers(ctx context.Context, storeIDs []int64, cityID int64, startTime time.Time) error {
	segmentOrder := []string{"super_loyal", "loyal", "average", "occasional"}
	var cum []float64
	var running float64
	for _, name := range segmentOrder {
		if seg, ok := l.cfg.Generation.CustomerSegments[name]; ok {
			running += seg.Percentage
		}
		cum = append(cum, running)
	}

	for i := 0; i < l.cfg.Generation.InitialCustomers; i++ {
		draw := l.svc.Float64(rng.SubsystemCustomerSelect)
		segment := segmentOrder[len(segmentOrder)-1]
		for j, c := range cum {
			if draw < c {
				segment = segmentOrder[j]
				break
			}
		}
		storeID := storeIDs[l.svc.IntN(rng.SubsystemCustomerSelect, len(storeIDs))]
		addrID, err := l.db.InsertAddress(ctx, models.Address{
			Address: fmt.Sprintf("%d Residential Ave", 1000+i), District: "Central", CityID: cityID, PostCode: "00000", Phone: "555-0300",
		})
		if err != nil {
			return err
		}
		c := models.Customer{
			StoreID:       storeID,
			AddressID:     addrID,
			FirstName:     "Customer",
			LastName:      fmt.Sprintf("%d", i+1),
			Email:         fmt.Sprintf("seed.customer.%d@example.test", i+1),
			CreateDate:    startTime,
			Active:        true,
			Segment:       models.Segment(segment),
			LifetimeWeeks: l.cfg.Generation.CustomerSegments[segment].LifetimeWeeks,
		}
		if _, err := l.db.InsertCustomer(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
