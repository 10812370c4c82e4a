package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/mapclick/map-quiz-bot/internal/domain/entities"
)

var (
	ErrRegionNotFound = errors.New("region not found")
	ErrEmptyRegistry  = errors.New("region registry is empty")
)

// RegionRepository provides access to the ordered set of map regions.
// Regions are loaded once from a JSON file and never change afterwards.
type RegionRepository struct {
	regions []*entities.Region
	byID    map[string]*entities.Region
}

// NewRegionRepository loads the region set from the given JSON file.
func NewRegionRepository(path string) (*RegionRepository, error) {
	regions, err := loadRegions(path)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.Region, len(regions))
	for _, r := range regions {
		if _, ok := byID[r.ID]; ok {
			return nil, fmt.Errorf("duplicate region id %q", r.ID)
		}
		byID[r.ID] = r
	}

	return &RegionRepository{
		regions: regions,
		byID:    byID,
	}, nil
}

// GetByID retrieves a region by its identifier.
func (r *RegionRepository) GetByID(id string) (*entities.Region, error) {
	region, ok := r.byID[id]
	if !ok {
		return nil, ErrRegionNotFound
	}
	return region, nil
}

// Exists reports whether the identifier belongs to a known region.
func (r *RegionRepository) Exists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// GetAll retrieves all regions in their defined order.
func (r *RegionRepository) GetAll() []*entities.Region {
	return r.regions
}

// Count returns the number of regions on the map.
func (r *RegionRepository) Count() int {
	return len(r.regions)
}

// GetRandom retrieves a random region.
func (r *RegionRepository) GetRandom() (*entities.Region, error) {
	if len(r.regions) == 0 {
		return nil, ErrEmptyRegistry
	}

	idx := rand.Intn(len(r.regions))
	return r.regions[idx], nil
}

func loadRegions(path string) ([]*entities.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Regions []*entities.Region `json:"regions"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal regions JSON: %w", err)
	}

	if len(wrapper.Regions) == 0 {
		return nil, ErrEmptyRegistry
	}

	for _, region := range wrapper.Regions {
		if region.ID == "" {
			return nil, errors.New("region with empty id in regions JSON")
		}
	}

	return wrapper.Regions, nil
}
