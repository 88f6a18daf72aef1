package ranking

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Region is one of the location groups
type Region string

const (
	RegionHanoi   Region = "hanoi"
	RegionDanang  Region = "danang"
	RegionHCM     Region = "hcm"
	RegionUnknown Region = "unknown"
)

// Regions lists the location groups in report order
var Regions = []Region{RegionHanoi, RegionDanang, RegionHCM, RegionUnknown}

var regionLabels = map[Region]string{
	RegionHanoi:   "HÀ NỘI",
	RegionDanang:  "ĐÀ NẴNG",
	RegionHCM:     "HỒ CHÍ MINH",
	RegionUnknown: "UNKNOWN LOCATION",
}

// Label returns the heading used in reports
func (r Region) Label() string {
	if label, ok := regionLabels[r]; ok {
		return label
	}
	return strings.ToUpper(string(r))
}

// Known reports whether r is one of the three named regions
func (r Region) Known() bool {
	return r == RegionHanoi || r == RegionDanang || r == RegionHCM
}

// Normalize prepares a location for matching: trimmed, lowercased and NFC composed.
// Diacritics are kept, so "ha noi" and "hà nội" stay different strings.
func Normalize(location string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(location)))
}

// Locations maps normalized synonyms to regions
type Locations struct {
	synonyms map[string]Region
}

// DefaultSynonyms are the spellings seen on the 2019 registration form
var DefaultSynonyms = map[Region][]string{
	RegionHanoi:  {"hà nội", "ha noi"},
	RegionDanang: {"đà nẵng", "da nang"},
	RegionHCM:    {"thành phố hồ chí minh", "hồ chí minh", "ho chi minh"},
}

// NewLocations builds a matcher from synonym lists. Synonyms are normalized; entries for
// RegionUnknown are ignored.
func NewLocations(synonyms map[Region][]string) Locations {
	locs := Locations{synonyms: make(map[string]Region)}
	for _, region := range Regions {
		if !region.Known() {
			continue
		}
		for _, s := range synonyms[region] {
			locs.synonyms[Normalize(s)] = region
		}
	}
	return locs
}

// DefaultLocations returns the matcher for DefaultSynonyms
func DefaultLocations() Locations {
	return NewLocations(DefaultSynonyms)
}

// Classify returns the region whose synonym equals the normalized location, else RegionUnknown.
func (l Locations) Classify(location string) Region {
	if region, ok := l.synonyms[Normalize(location)]; ok {
		return region
	}
	return RegionUnknown
}
