// Package catalog loads the quickstart catalog, platform feature definitions,
// coverage matrix, and persona roster from YAML data files.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// Quickstart is one published quickstart from catalog.yaml.
type Quickstart struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Repo        string   `yaml:"repo"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Topics      []string `yaml:"topics"`
}

// Feature is one platform capability from features.yaml.
type Feature struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

// Metadata carries catalog bookkeeping.
type Metadata struct {
	LastSynced string `yaml:"last_synced"`
}

// Catalog is the parsed catalog.yaml document.
type Catalog struct {
	Metadata    Metadata     `yaml:"metadata"`
	Quickstarts []Quickstart `yaml:"quickstarts"`
}

// Store reads catalog data files from a single directory.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// CatalogPath returns the catalog.yaml location.
func (s *Store) CatalogPath() string { return filepath.Join(s.Dir, "catalog.yaml") }

// FeaturesPath returns the features.yaml location.
func (s *Store) FeaturesPath() string { return filepath.Join(s.Dir, "features.yaml") }

// CoveragePath returns the coverage.yaml location.
func (s *Store) CoveragePath() string { return filepath.Join(s.Dir, "coverage.yaml") }

// PersonasPath returns the personas.yaml location.
func (s *Store) PersonasPath() string { return filepath.Join(s.Dir, "personas.yaml") }

// LoadCatalog reads catalog.yaml. A missing file yields an empty catalog.
func (s *Store) LoadCatalog() (*Catalog, error) {
	data, err := os.ReadFile(s.CatalogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &c, nil
}

// Quickstarts returns the published quickstarts.
func (s *Store) Quickstarts() ([]Quickstart, error) {
	c, err := s.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return c.Quickstarts, nil
}

// LastSynced reports when the catalog was last synced, if recorded.
func (s *Store) LastSynced() (time.Time, bool) {
	c, err := s.LoadCatalog()
	if err != nil || c.Metadata.LastSynced == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, c.Metadata.LastSynced)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TouchSyncTime records the current time as the catalog's last sync.
func (s *Store) TouchSyncTime(now time.Time) error {
	c, err := s.LoadCatalog()
	if err != nil {
		return err
	}
	c.Metadata.LastSynced = now.Format(time.RFC3339)

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return os.WriteFile(s.CatalogPath(), data, 0644)
}

// LoadFeatures reads features.yaml.
func (s *Store) LoadFeatures() ([]Feature, error) {
	data, err := os.ReadFile(s.FeaturesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading features: %w", err)
	}

	var doc struct {
		Features []Feature `yaml:"features"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing features: %w", err)
	}
	return doc.Features, nil
}

// FeatureIDs returns the set of valid feature IDs.
func (s *Store) FeatureIDs() (map[string]bool, error) {
	features, err := s.LoadFeatures()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(features))
	for _, f := range features {
		ids[f.ID] = true
	}
	return ids, nil
}

// LoadCoverage reads coverage.yaml and normalizes it to
// quickstart ID -> feature IDs. Entries may be either a plain list or a
// mapping with a "features" key.
func (s *Store) LoadCoverage() (map[string][]string, error) {
	data, err := os.ReadFile(s.CoveragePath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("reading coverage: %w", err)
	}

	var doc struct {
		Coverage map[string]yaml.Node `yaml:"coverage"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing coverage: %w", err)
	}

	result := make(map[string][]string, len(doc.Coverage))
	for id, node := range doc.Coverage {
		result[id] = coverageEntry(node)
	}
	return result, nil
}

func coverageEntry(node yaml.Node) []string {
	switch node.Kind {
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return nil
		}
		return ids
	case yaml.MappingNode:
		var entry struct {
			Features []string `yaml:"features"`
		}
		if err := node.Decode(&entry); err != nil {
			return nil
		}
		return entry.Features
	default:
		return nil
	}
}

// DemonstratedFeatures returns every feature ID demonstrated by at least one
// quickstart in the coverage matrix.
func (s *Store) DemonstratedFeatures() (map[string]bool, error) {
	coverage, err := s.LoadCoverage()
	if err != nil {
		return nil, err
	}
	demonstrated := make(map[string]bool)
	for _, ids := range coverage {
		for _, id := range ids {
			demonstrated[id] = true
		}
	}
	return demonstrated, nil
}

// RecordCoverage adds a feature to a quickstart's coverage entry and writes
// the file back.
func (s *Store) RecordCoverage(quickstartID, featureID string) error {
	coverage, err := s.LoadCoverage()
	if err != nil {
		return err
	}

	for _, id := range coverage[quickstartID] {
		if id == featureID {
			return nil
		}
	}
	coverage[quickstartID] = append(coverage[quickstartID], featureID)

	doc := map[string]any{"coverage": coverage}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding coverage: %w", err)
	}
	return os.WriteFile(s.CoveragePath(), data, 0644)
}
