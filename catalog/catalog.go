// Package catalog manages restaurants and menu items. The key-value store is
// authoritative; writes are mirrored into the relational tables so restaurant
// search can run as plain SQL, matching the original deployment where the
// relational schema served only as a read path for search.
package catalog

import (
	"errors"
	"sort"
	"strings"
	"time"

	"mealmatch/models"
	"mealmatch/store"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNameRequired       = errors.New("restaurant name required")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrNotOwner           = errors.New("restaurant belongs to another owner")
	ErrInvalidPrice       = errors.New("price must be greater than zero")
)

type Service struct {
	kv store.Store
	db *gorm.DB // search mirror; nil disables the relational read path
}

func NewService(kv store.Store, db *gorm.DB) *Service {
	return &Service{kv: kv, db: db}
}

// ── Restaurants ─────────────────────────────────────────────────────────────

type RestaurantInput struct {
	Name       string
	Area       string
	Cuisine    string
	PriceLevel string
	Halal      *bool // nil means "not supplied" so partial updates keep the flag
	ImageURL   string
	Link       string
}

func (s *Service) CreateRestaurant(ownerID string, in RestaurantInput) (*models.Restaurant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	priceLevel := in.PriceLevel
	if priceLevel == "" {
		priceLevel = "¥"
	}
	now := time.Now().UTC()
	r := models.Restaurant{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Area:       strings.TrimSpace(in.Area),
		Cuisine:    strings.TrimSpace(in.Cuisine),
		PriceLevel: priceLevel,
		Halal:      in.Halal != nil && *in.Halal,
		ImageURL:   in.ImageURL,
		Link:       in.Link,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.kv.Update(func(tx store.Store) error {
		var restaurants []models.Restaurant
		tx.Get(store.KeyRestaurants, &restaurants)
		return tx.Put(store.KeyRestaurants, append(restaurants, r))
	})
	if err != nil {
		return nil, err
	}
	s.mirrorRestaurant(r)
	return &r, nil
}

func (s *Service) RestaurantByID(id string) (models.Restaurant, bool) {
	var restaurants []models.Restaurant
	s.kv.Get(store.KeyRestaurants, &restaurants)
	for _, r := range restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return models.Restaurant{}, false
}

func (s *Service) ListOwnerRestaurants(ownerID string) []models.Restaurant {
	var restaurants []models.Restaurant
	s.kv.Get(store.KeyRestaurants, &restaurants)
	return lo.Filter(restaurants, func(r models.Restaurant, _ int) bool {
		return r.OwnerID == ownerID
	})
}

func (s *Service) UpdateRestaurant(ownerID, id string, in RestaurantInput) (*models.Restaurant, error) {
	var updated models.Restaurant
	err := s.kv.Update(func(tx store.Store) error {
		var restaurants []models.Restaurant
		tx.Get(store.KeyRestaurants, &restaurants)
		for i := range restaurants {
			if restaurants[i].ID != id {
				continue
			}
			if restaurants[i].OwnerID != ownerID {
				return ErrNotOwner
			}
			if name := strings.TrimSpace(in.Name); name != "" {
				restaurants[i].Name = name
			}
			if in.Area != "" {
				restaurants[i].Area = strings.TrimSpace(in.Area)
			}
			if in.Cuisine != "" {
				restaurants[i].Cuisine = strings.TrimSpace(in.Cuisine)
			}
			if in.PriceLevel != "" {
				restaurants[i].PriceLevel = in.PriceLevel
			}
			if in.Halal != nil {
				restaurants[i].Halal = *in.Halal
			}
			if in.ImageURL != "" {
				restaurants[i].ImageURL = in.ImageURL
			}
			if in.Link != "" {
				restaurants[i].Link = in.Link
			}
			restaurants[i].UpdatedAt = time.Now().UTC()
			updated = restaurants[i]
			return tx.Put(store.KeyRestaurants, restaurants)
		}
		return ErrRestaurantNotFound
	})
	if err != nil {
		return nil, err
	}
	s.mirrorRestaurant(updated)
	return &updated, nil
}

// DeleteRestaurant removes the restaurant and cascades to its menu items.
// Past orders are untouched: they carry their own item snapshots.
func (s *Service) DeleteRestaurant(ownerID, id string) error {
	err := s.kv.Update(func(tx store.Store) error {
		var restaurants []models.Restaurant
		tx.Get(store.KeyRestaurants, &restaurants)
		idx := -1
		for i := range restaurants {
			if restaurants[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrRestaurantNotFound
		}
		if restaurants[idx].OwnerID != ownerID {
			return ErrNotOwner
		}
		restaurants = append(restaurants[:idx], restaurants[idx+1:]...)
		if err := tx.Put(store.KeyRestaurants, restaurants); err != nil {
			return err
		}

		var items []models.MenuItem
		tx.Get(store.KeyMenuItems, &items)
		items = lo.Filter(items, func(m models.MenuItem, _ int) bool {
			return m.RestaurantID != id
		})
		return tx.Put(store.KeyMenuItems, items)
	})
	if err != nil {
		return err
	}
	if s.db != nil {
		s.db.Delete(&models.Restaurant{}, "id = ?", id)
		s.db.Delete(&models.MenuItem{}, "restaurant_id = ?", id)
	}
	return nil
}

// ── Menu items ──────────────────────────────────────────────────────────────

type MenuItemInput struct {
	Name     string
	Price    float64
	OldPrice float64
	ImageURL string
}

func (s *Service) AddMenuItem(ownerID, restaurantID string, in MenuItemInput) (*models.MenuItem, error) {
	r, ok := s.RestaurantByID(restaurantID)
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	if r.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if in.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	now := time.Now().UTC()
	item := models.MenuItem{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        in.Price,
		OldPrice:     normalizeOldPrice(in.OldPrice, in.Price),
		ImageURL:     in.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := s.kv.Update(func(tx store.Store) error {
		var items []models.MenuItem
		tx.Get(store.KeyMenuItems, &items)
		return tx.Put(store.KeyMenuItems, append(items, item))
	})
	if err != nil {
		return nil, err
	}
	s.mirrorMenuItem(item)
	return &item, nil
}

func (s *Service) UpdateMenuItem(ownerID, itemID string, in MenuItemInput) (*models.MenuItem, error) {
	var updated models.MenuItem
	err := s.kv.Update(func(tx store.Store) error {
		var items []models.MenuItem
		tx.Get(store.KeyMenuItems, &items)
		for i := range items {
			if items[i].ID != itemID {
				continue
			}
			if err := s.checkItemOwner(items[i], ownerID); err != nil {
				return err
			}
			if name := strings.TrimSpace(in.Name); name != "" {
				items[i].Name = name
			}
			if in.Price > 0 {
				items[i].Price = in.Price
			}
			items[i].OldPrice = normalizeOldPrice(in.OldPrice, items[i].Price)
			if in.ImageURL != "" {
				items[i].ImageURL = in.ImageURL
			}
			items[i].UpdatedAt = time.Now().UTC()
			updated = items[i]
			return tx.Put(store.KeyMenuItems, items)
		}
		return ErrMenuItemNotFound
	})
	if err != nil {
		return nil, err
	}
	s.mirrorMenuItem(updated)
	return &updated, nil
}

func (s *Service) DeleteMenuItem(ownerID, itemID string) error {
	err := s.kv.Update(func(tx store.Store) error {
		var items []models.MenuItem
		tx.Get(store.KeyMenuItems, &items)
		for i := range items {
			if items[i].ID != itemID {
				continue
			}
			if err := s.checkItemOwner(items[i], ownerID); err != nil {
				return err
			}
			items = append(items[:i], items[i+1:]...)
			return tx.Put(store.KeyMenuItems, items)
		}
		return ErrMenuItemNotFound
	})
	if err != nil {
		return err
	}
	if s.db != nil {
		s.db.Delete(&models.MenuItem{}, "id = ?", itemID)
	}
	return nil
}

func (s *Service) Menu(restaurantID string) []models.MenuItem {
	var items []models.MenuItem
	s.kv.Get(store.KeyMenuItems, &items)
	return lo.Filter(items, func(m models.MenuItem, _ int) bool {
		return m.RestaurantID == restaurantID
	})
}

func (s *Service) MenuItemByID(id string) (models.MenuItem, bool) {
	var items []models.MenuItem
	s.kv.Get(store.KeyMenuItems, &items)
	for _, m := range items {
		if m.ID == id {
			return m, true
		}
	}
	return models.MenuItem{}, false
}

func (s *Service) checkItemOwner(item models.MenuItem, ownerID string) error {
	r, ok := s.RestaurantByID(item.RestaurantID)
	if !ok {
		return ErrRestaurantNotFound
	}
	if r.OwnerID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// An old price at or below the current price carries no discount and is
// stored as absent.
func normalizeOldPrice(oldPrice, price float64) float64 {
	if oldPrice > price {
		return oldPrice
	}
	return 0
}

// ── Search (relational read path) ───────────────────────────────────────────

type SearchFilter struct {
	Query      string // case-insensitive substring on name
	Area       string
	Cuisine    string // the value "Halal" filters on the halal flag instead
	PriceLevel string
}

// Search serves the public restaurant listing. When the relational mirror is
// available the filters run as SQL; otherwise they fall back to scanning the
// key-value collection.
func (s *Service) Search(f SearchFilter) []models.Restaurant {
	if s.db == nil {
		return s.searchKV(f)
	}
	q := s.db.Model(&models.Restaurant{})
	if f.Query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Query)+"%")
	}
	if f.Area != "" && f.Area != "All Areas" {
		q = q.Where("area = ?", f.Area)
	}
	if f.Cuisine != "" && f.Cuisine != "All Cuisines" {
		if f.Cuisine == "Halal" {
			q = q.Where("halal = ?", true)
		} else {
			q = q.Where("cuisine = ?", f.Cuisine)
		}
	}
	if f.PriceLevel != "" && f.PriceLevel != "All Prices" {
		q = q.Where("price_level = ?", f.PriceLevel)
	}
	var restaurants []models.Restaurant
	if err := q.Order("name").Find(&restaurants).Error; err != nil {
		logrus.WithError(err).Warn("relational search failed, falling back to kv scan")
		return s.searchKV(f)
	}
	return restaurants
}

func (s *Service) searchKV(f SearchFilter) []models.Restaurant {
	var restaurants []models.Restaurant
	s.kv.Get(store.KeyRestaurants, &restaurants)
	matched := lo.Filter(restaurants, func(r models.Restaurant, _ int) bool {
		if f.Query != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Query)) {
			return false
		}
		if f.Area != "" && f.Area != "All Areas" && r.Area != f.Area {
			return false
		}
		if f.Cuisine != "" && f.Cuisine != "All Cuisines" {
			if f.Cuisine == "Halal" {
				if !r.Halal {
					return false
				}
			} else if r.Cuisine != f.Cuisine {
				return false
			}
		}
		if f.PriceLevel != "" && f.PriceLevel != "All Prices" && r.PriceLevel != f.PriceLevel {
			return false
		}
		return true
	})
	sortByName(matched)
	return matched
}

func sortByName(restaurants []models.Restaurant) {
	sort.Slice(restaurants, func(i, j int) bool {
		return restaurants[i].Name < restaurants[j].Name
	})
}

func (s *Service) mirrorRestaurant(r models.Restaurant) {
	if s.db == nil {
		return
	}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&r).Error; err != nil {
		logrus.WithError(err).WithField("restaurant_id", r.ID).Warn("search mirror write failed")
	}
}

func (s *Service) mirrorMenuItem(m models.MenuItem) {
	if s.db == nil {
		return
	}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m).Error; err != nil {
		logrus.WithError(err).WithField("menu_item_id", m.ID).Warn("search mirror write failed")
	}
}
