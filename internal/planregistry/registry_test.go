package planregistry

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rota-engine/internal/model"
)

const tomlCatalog = `
[unlimited]
name = "TPASS"
price = 799

[[locations]]
id = "A21"
name = "A21 環北站"
price_per_ride = 40

[[locations.passes]]
duration_days = 30
price = 1260

[[locations.passes]]
duration_days = 120
price = 3888

[[locations]]
id = "A18"
price_per_ride = 60
`

const yamlCatalog = `
unlimited:
  name: TPASS
  price: 799
  duration_days: 30
locations:
  - id: A21
    name: A21 環北站
    price_per_ride: 40
    passes:
      - duration_days: 30
        price: 1260
`

func TestParseCatalogTOML(t *testing.T) {
	c, err := ParseCatalog([]byte(tomlCatalog), ".toml")
	require.NoError(t, err)

	assert.Equal(t, model.UnlimitedPlan{Name: "TPASS", Price: 799, DurationDays: 30}, c.Unlimited)
	require.Len(t, c.Locations, 2)
	assert.Equal(t, []model.PassTier{{DurationDays: 30, Price: 1260}, {DurationDays: 120, Price: 3888}}, c.Locations[0].Passes)
}

func TestParseCatalogYAML(t *testing.T) {
	c, err := ParseCatalog([]byte(yamlCatalog), ".yml")
	require.NoError(t, err)
	require.Len(t, c.Locations, 1)
	assert.Equal(t, 40.0, c.Locations[0].PricePerRide)
	assert.Equal(t, "A21 環北站", c.Locations[0].Name)
}

func TestParseCatalogRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"zero price":   "[[locations]]\nid = \"A\"\nprice_per_ride = 0\n",
		"missing id":   "[[locations]]\nprice_per_ride = 10\n",
		"duplicate":    "[[locations]]\nid = \"A\"\nprice_per_ride = 10\n[[locations]]\nid = \"A\"\nprice_per_ride = 10\n",
		"bad pass":     "[[locations]]\nid = \"A\"\nprice_per_ride = 10\n[[locations.passes]]\nduration_days = 0\nprice = 5\n",
		"unknown key":  "[[locations]]\nid = \"A\"\nprice_per_ride = 10\nfoo = 1\n",
		"not toml":     "[[[",
	}
	for name, src := range cases {
		_, err := ParseCatalog([]byte(src), ".toml")
		assert.Error(t, err, name)
	}

	_, err := ParseCatalog([]byte("{}"), ".json")
	assert.Error(t, err)
}

func TestSnapshotLookup(t *testing.T) {
	c, err := ParseCatalog([]byte(tomlCatalog), ".toml")
	require.NoError(t, err)
	r := NewStatic(c)
	s := r.Snapshot()

	p, ok := s.Lookup("A21")
	require.True(t, ok)
	assert.Equal(t, 40.0, p.PricePerRide)

	byName, ok := s.Lookup("A21 環北站")
	require.True(t, ok)
	assert.Equal(t, "A21", byName.Location)

	_, ok = s.Lookup(model.NoCommute)
	assert.False(t, ok)
	_, ok = s.Lookup("nowhere")
	assert.False(t, ok)

	// Lookups hand out copies.
	p.Passes[0].Price = 1
	again, _ := s.Lookup("A21")
	assert.Equal(t, 1260.0, again.Passes[0].Price)

	assert.Equal(t, 799.0, s.Unlimited().Price)
}

func TestNilSnapshot(t *testing.T) {
	var s *Snapshot
	_, ok := s.Lookup("A21")
	assert.False(t, ok)
	assert.Zero(t, s.Unlimited())
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fares.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlCatalog), 0o644))

	var failures atomic.Int32
	r, err := Open(path, WithReloadHook(func(err error) {
		if err != nil {
			failures.Add(1)
		}
	}))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[[["), 0o644))
	assert.Error(t, r.Reload())
	assert.Equal(t, int32(1), failures.Load())

	_, ok := r.Snapshot().Lookup("A18")
	assert.True(t, ok)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fares.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o644))

	r, err := Open(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()

	updated := yamlCatalog + "  - id: B9\n    price_per_ride: 25\n"
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(updated), 0o644)
		_, ok := r.Snapshot().Lookup("B9")
		return ok
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
