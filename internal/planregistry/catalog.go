// Package planregistry holds the fare plans by pickup location.
package planregistry

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"rota-engine/internal/model"
)

var ErrNoCatalog = errors.New("no fare catalog loaded")

const defaultUnlimitedDays = 30

type Catalog struct {
	Unlimited model.UnlimitedPlan `toml:"unlimited" yaml:"unlimited"`
	Locations []model.FarePlan    `toml:"locations" yaml:"locations"`
}

// ParseCatalog decodes a catalog; the format follows the file extension
// (.toml, .yaml, .yml).
func ParseCatalog(data []byte, ext string) (Catalog, error) {
	var c Catalog
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Catalog{}, fmt.Errorf("parse toml catalog: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return Catalog{}, fmt.Errorf("parse yaml catalog: %w", err)
		}
	default:
		return Catalog{}, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if c.Unlimited.DurationDays == 0 {
		c.Unlimited.DurationDays = defaultUnlimitedDays
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func ParseCatalogFile(data []byte, path string) (Catalog, error) {
	return ParseCatalog(data, filepath.Ext(path))
}

func (c Catalog) Validate() error {
	if c.Unlimited.Price < 0 {
		return fmt.Errorf("unlimited.price must be non-negative")
	}
	seen := make(map[string]struct{}, len(c.Locations))
	for i, loc := range c.Locations {
		if loc.Location == "" {
			return fmt.Errorf("locations[%d]: id is required", i)
		}
		if _, dup := seen[loc.Location]; dup {
			return fmt.Errorf("locations[%d]: duplicate id %q", i, loc.Location)
		}
		seen[loc.Location] = struct{}{}
		if loc.PricePerRide <= 0 {
			return fmt.Errorf("locations[%d] %s: price_per_ride must be positive", i, loc.Location)
		}
		for j, p := range loc.Passes {
			if p.DurationDays <= 0 || p.Price <= 0 {
				return fmt.Errorf("locations[%d] %s: passes[%d] needs positive duration_days and price", i, loc.Location, j)
			}
		}
	}
	return nil
}

// Snapshot is an immutable view of one catalog version.
type Snapshot struct {
	unlimited model.UnlimitedPlan
	plans     map[string]*model.FarePlan
}

func newSnapshot(c Catalog) *Snapshot {
	s := &Snapshot{
		unlimited: c.Unlimited,
		plans:     make(map[string]*model.FarePlan, len(c.Locations)*2),
	}
	for i := range c.Locations {
		plan := c.Locations[i]
		plan.Passes = append([]model.PassTier(nil), plan.Passes...)
		s.plans[plan.Location] = &plan
		if plan.Name != "" {
			if _, taken := s.plans[plan.Name]; !taken {
				s.plans[plan.Name] = &plan
			}
		}
	}
	return s
}

// Lookup finds a plan by location id or display name. The "does not commute"
// marker and unknown locations both miss.
func (s *Snapshot) Lookup(location string) (*model.FarePlan, bool) {
	if s == nil || location == "" || location == model.NoCommute {
		return nil, false
	}
	p, ok := s.plans[location]
	if !ok {
		return nil, false
	}
	cp := *p
	cp.Passes = append([]model.PassTier(nil), p.Passes...)
	return &cp, true
}

func (s *Snapshot) Unlimited() model.UnlimitedPlan {
	if s == nil {
		return model.UnlimitedPlan{}
	}
	return s.unlimited
}
