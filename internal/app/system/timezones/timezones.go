// Package timezones maps organization display time zones to canonical IANA zone ids
// and does the local-day arithmetic the schedule and attendance code depends on.
package timezones

import (
	"embed"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
)

//go:embed timezonedata/timezones.json
var FS embed.FS

// DefaultZone is used for display strings that cannot be mapped to a zone.
const DefaultZone = "America/New_York"

type Zone struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Region  string   `json:"region,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
}

type ZoneGroup struct {
	Region string `json:"region"`
	Zones  []Zone `json:"zones"`
}

var (
	loadOnce sync.Once
	zones    []Zone
	byID     map[string]Zone
	byName   map[string]string // folded id, label or alias -> id
	loadErr  error

	groupsOnce sync.Once
	groups     []ZoneGroup
	groupsErr  error

	defaultMu sync.RWMutex
	fallback  = DefaultZone

	locations sync.Map // zone id -> *time.Location
)

func load() {
	loadOnce.Do(func() {
		data, err := FS.ReadFile("timezonedata/timezones.json")
		if err != nil {
			loadErr = err
			return
		}

		var list []Zone
		if err := json.Unmarshal(data, &list); err != nil {
			loadErr = err
			return
		}

		zones = list
		byID = make(map[string]Zone, len(list))
		byName = make(map[string]string, len(list)*4)
		for _, z := range list {
			byID[z.ID] = z
			byName[text.Fold(z.ID)] = z.ID
			byName[text.Fold(z.Label)] = z.ID
			for _, a := range z.Aliases {
				byName[text.Fold(a)] = z.ID
			}
		}
	})
}

// Load is optional: call it at startup to fail fast on a broken embedded list.
func Load() error {
	load()
	return loadErr
}

// All returns the curated list of zones in a stable order.
func All() ([]Zone, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return zones, nil
}

// Label returns the human-friendly label for an ID, or the ID itself if not found.
func Label(id string) string {
	load()
	if loadErr != nil {
		return id
	}
	if z, ok := byID[id]; ok && z.Label != "" {
		return z.Label
	}
	return id
}

// Valid reports whether the given ID exists in the curated list.
func Valid(id string) bool {
	load()
	if loadErr != nil {
		return false
	}
	_, ok := byID[id]
	return ok
}

// SetDefault changes the fallback zone. The id must load from the tz database.
func SetDefault(id string) error {
	if _, err := time.LoadLocation(id); err != nil {
		return err
	}
	defaultMu.Lock()
	fallback = id
	defaultMu.Unlock()
	return nil
}

// Default returns the current fallback zone id.
func Default() string {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return fallback
}

// Resolve maps a display string to a canonical zone id. It tries, in order, the
// curated ids, labels and aliases (case and diacritic insensitive), then any id the
// tz database knows except "Local". Unknown strings resolve to the default zone
// with known=false.
func Resolve(display string) (id string, known bool) {
	load()
	if display == "" {
		return Default(), false
	}
	if loadErr == nil {
		if id, ok := byName[text.Fold(strings.TrimSpace(display))]; ok {
			return id, true
		}
	}
	// "Local" would load the server's own zone.
	if id := strings.TrimSpace(display); id != "Local" {
		if _, err := LoadLocation(id); err == nil {
			return id, true
		}
	}
	return Default(), false
}

// Canonical is Resolve without the known flag.
func Canonical(display string) string {
	id, _ := Resolve(display)
	return id
}

// LoadLocation is time.LoadLocation with a process-wide cache.
func LoadLocation(id string) (*time.Location, error) {
	if v, ok := locations.Load(id); ok {
		return v.(*time.Location), nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, err
	}
	locations.Store(id, loc)
	return loc, nil
}

// ZoneFor returns the location for a canonical id, falling back to the default zone
// and finally to UTC. It never returns nil.
func ZoneFor(id string) *time.Location {
	if loc, err := LoadLocation(id); err == nil {
		return loc
	}
	if loc, err := LoadLocation(Default()); err == nil {
		return loc
	}
	return time.UTC
}

func buildGroups() {
	groupsOnce.Do(func() {
		if err := Load(); err != nil {
			groupsErr = err
			return
		}

		byRegion := make(map[string][]Zone)
		for _, z := range zones {
			region := z.Region
			if region == "" {
				region = "Other"
			}
			byRegion[region] = append(byRegion[region], z)
		}

		out := make([]ZoneGroup, 0, len(byRegion))
		for region, zs := range byRegion {
			sort.SliceStable(zs, func(i, j int) bool {
				return zs[i].Label < zs[j].Label
			})
			out = append(out, ZoneGroup{
				Region: region,
				Zones:  zs,
			})
		}

		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Region < out[j].Region
		})

		groups = out
	})
}

// Groups returns the curated zones grouped by region, built lazily and cached.
func Groups() ([]ZoneGroup, error) {
	buildGroups()
	if groupsErr != nil {
		return nil, groupsErr
	}
	return groups, nil
}
