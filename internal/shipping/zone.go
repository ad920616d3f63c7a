package shipping

import "strings"

// Zone is a shipping-destination grouping used to select a rate table.
type Zone string

const (
	ZoneUS Zone = "US"
	Zone1  Zone = "ZONE1"
	Zone2  Zone = "ZONE2"
	Zone3  Zone = "ZONE3"
)

// ZoneLookup resolves a destination country to a zone. The extended flag marks
// ZONE3's "extended / currently unavailable" sub-group, which still rates as
// ZONE3 but is labelled separately.
type ZoneLookup interface {
	Resolve(country string) (zone Zone, extended bool, ok bool)
}

type zoneEntry struct {
	zone     Zone
	extended bool
}

// StaticZones is a fixed country-to-zone table.
type StaticZones struct {
	entries map[string]zoneEntry
}

// Resolve implements ZoneLookup.
func (z StaticZones) Resolve(country string) (Zone, bool, bool) {
	name := strings.TrimSpace(country)
	if name == "" {
		return "", false, false
	}
	if name == "United States" {
		return ZoneUS, false, true
	}
	entry, ok := z.entries[name]
	if !ok {
		return "", false, false
	}
	return entry.zone, entry.extended, true
}

// NewStaticZones builds a lookup from explicit zone membership lists.
func NewStaticZones(zone1, zone2, zone3, zone3Extended []string) StaticZones {
	entries := make(map[string]zoneEntry)
	add := func(countries []string, zone Zone, extended bool) {
		for _, c := range countries {
			c = strings.TrimSpace(c)
			if c != "" {
				entries[c] = zoneEntry{zone: zone, extended: extended}
			}
		}
	}
	add(zone1, Zone1, false)
	add(zone2, Zone2, false)
	add(zone3, Zone3, false)
	add(zone3Extended, Zone3, true)
	return StaticZones{entries: entries}
}

// DefaultZones returns the built-in destination grouping.
func DefaultZones() StaticZones {
	return NewStaticZones(
		[]string{"Canada", "Mexico"},
		[]string{
			"United Kingdom", "Ireland", "France", "Germany", "Netherlands",
			"Belgium", "Luxembourg", "Spain", "Portugal", "Italy", "Austria",
			"Switzerland", "Denmark", "Sweden", "Norway", "Finland", "Poland",
			"Czech Republic", "Australia", "New Zealand", "Japan", "Singapore",
			"South Korea",
		},
		[]string{
			"United Arab Emirates", "Saudi Arabia", "Qatar", "Kuwait", "Israel",
			"Brazil", "Chile", "South Africa", "India", "Malaysia", "Thailand",
			"Hong Kong", "Taiwan",
		},
		[]string{
			"Argentina", "Colombia", "Peru", "Philippines", "Indonesia",
			"Vietnam", "Egypt", "Nigeria", "Kenya", "Turkey",
		},
	)
}
