package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Region maps a postal-code prefix to a weather region.
type Region struct {
	ZipPrefix string `json:"zip_prefix"`
	RegionID  string `json:"region_id"`
	Name      string `json:"name,omitempty"`
}

// RegionList is the on-disk shape of the region lookup table.
type RegionList struct {
	UpdatedAt string   `json:"updated_at"` // ISO 8601 timestamp
	Regions   []Region `json:"regions"`
}

// RegionIndex resolves postal codes to region ids by longest matching prefix.
type RegionIndex struct {
	// prefixes sorted longest-first so the first match wins
	regions []Region
}

// NewRegionIndex builds an index from a region list.
func NewRegionIndex(list *RegionList) *RegionIndex {
	regions := append([]Region(nil), list.Regions...)
	sort.SliceStable(regions, func(i, j int) bool {
		return len(regions[i].ZipPrefix) > len(regions[j].ZipPrefix)
	})
	return &RegionIndex{regions: regions}
}

// LoadRegionIndex loads the lookup table from a JSON file.
func LoadRegionIndex(filePath string) (*RegionIndex, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}
	var list RegionList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse regions file: %w", err)
	}
	return NewRegionIndex(&list), nil
}

// SaveRegionList writes a lookup table to a JSON file.
func SaveRegionList(list *RegionList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal regions: %w", err)
	}
	if err := os.WriteFile(filePath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write regions file: %w", err)
	}
	return nil
}

// Resolve maps a postal code to its region id.
func (ri *RegionIndex) Resolve(zipCode string) (string, error) {
	zip := strings.TrimSpace(zipCode)
	if zip == "" {
		return "", fmt.Errorf("empty zip code")
	}
	for _, r := range ri.regions {
		if strings.HasPrefix(zip, r.ZipPrefix) {
			return r.RegionID, nil
		}
	}
	return "", fmt.Errorf("no region for zip code %q", zipCode)
}

// GetDefaultRegionsPath returns the default path for the regions file.
func GetDefaultRegionsPath() string {
	if path := os.Getenv("REGIONS_FILE"); path != "" {
		return path
	}
	return "./data/regions.json"
}
