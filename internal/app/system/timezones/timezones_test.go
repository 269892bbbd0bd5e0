package timezones

import "testing"

func TestLoad(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestAll(t *testing.T) {
	zones, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(zones) == 0 {
		t.Error("All() returned empty zones list")
	}

	for _, z := range zones {
		if z.ID == "" {
			t.Error("Zone has empty ID")
		}
		if z.Label == "" {
			t.Errorf("Zone %q has empty Label", z.ID)
		}
		if _, err := LoadLocation(z.ID); err != nil {
			t.Errorf("Zone %q does not load from the tz database: %v", z.ID, err)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"known timezone", "America/New_York", "Eastern Time (US & Canada)"},
		{"unknown timezone", "Invalid/Timezone", "Invalid/Timezone"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.id); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		display   string
		wantID    string
		wantKnown bool
	}{
		{"canonical id", "America/Chicago", "America/Chicago", true},
		{"label", "Pacific Time (US & Canada)", "America/Los_Angeles", true},
		{"alias", "Eastern Time", "America/New_York", true},
		{"alias folded", "  eastern time ", "America/New_York", true},
		{"abbreviation", "CST", "America/Chicago", true},
		{"tz database id outside curated list", "Europe/Lisbon", "Europe/Lisbon", true},
		{"unknown falls back", "Somewhere Standard Time", DefaultZone, false},
		{"empty falls back", "", DefaultZone, false},
		{"server local zone falls back", "Local", DefaultZone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, known := Resolve(tt.display)
			if id != tt.wantID || known != tt.wantKnown {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.display, id, known, tt.wantID, tt.wantKnown)
			}
		})
	}
}

func TestSetDefault(t *testing.T) {
	t.Cleanup(func() { _ = SetDefault(DefaultZone) })

	if err := SetDefault("Not/AZone"); err == nil {
		t.Error("SetDefault accepted an unknown zone")
	}
	if err := SetDefault("Europe/London"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if got := Canonical("gibberish"); got != "Europe/London" {
		t.Errorf("Canonical(gibberish) = %q, want Europe/London", got)
	}
}

func TestGroups(t *testing.T) {
	gs, err := Groups()
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	for i := 1; i < len(gs); i++ {
		if gs[i-1].Region > gs[i].Region {
			t.Errorf("groups not sorted: %q before %q", gs[i-1].Region, gs[i].Region)
		}
	}
}

func TestZoneFor_Unknown(t *testing.T) {
	loc := ZoneFor("Nope/Nowhere")
	if loc == nil || loc.String() != DefaultZone {
		t.Errorf("ZoneFor(unknown) = %v, want %s", loc, DefaultZone)
	}
}
