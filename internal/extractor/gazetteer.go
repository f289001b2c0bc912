package extractor

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var embeddedGazetteer []byte

// Gazetteer is the word-list knowledge used by EntityDetector.
type Gazetteer struct {
	Persons           []string `yaml:"persons"`
	FirstNames        []string `yaml:"first_names"`
	Titles            []string `yaml:"titles"`
	Organizations     []string `yaml:"organizations"`
	OrganizationHeads []string `yaml:"organization_heads"`
	OrganizationLeads []string `yaml:"organization_leads"`
	Locations         []string `yaml:"locations"`
	LocationHeads     []string `yaml:"location_heads"`
	LocationLeads     []string `yaml:"location_leads"`
	Events            []string `yaml:"events"`
	EventHeads        []string `yaml:"event_heads"`
	Products          []string `yaml:"products"`
	Connectors        []string `yaml:"connectors"`
	Ignore            []string `yaml:"ignore"`
}

// ParseGazetteer decodes a YAML gazetteer document.
func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse gazetteer: %w", err)
	}
	return &g, nil
}

// DefaultGazetteer returns the gazetteer compiled into the binary.
func DefaultGazetteer() *Gazetteer {
	g, err := ParseGazetteer(embeddedGazetteer)
	if err != nil {
		panic(err)
	}
	return g
}

// LoadGazetteerFile reads a YAML gazetteer and merges it over the default one.
func LoadGazetteerFile(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gazetteer %s: %w", path, err)
	}
	extra, err := ParseGazetteer(data)
	if err != nil {
		return nil, err
	}
	g := DefaultGazetteer()
	g.Merge(extra)
	return g, nil
}

// Merge appends every list of other to g.
func (g *Gazetteer) Merge(other *Gazetteer) {
	if other == nil {
		return
	}
	g.Persons = append(g.Persons, other.Persons...)
	g.FirstNames = append(g.FirstNames, other.FirstNames...)
	g.Titles = append(g.Titles, other.Titles...)
	g.Organizations = append(g.Organizations, other.Organizations...)
	g.OrganizationHeads = append(g.OrganizationHeads, other.OrganizationHeads...)
	g.OrganizationLeads = append(g.OrganizationLeads, other.OrganizationLeads...)
	g.Locations = append(g.Locations, other.Locations...)
	g.LocationHeads = append(g.LocationHeads, other.LocationHeads...)
	g.LocationLeads = append(g.LocationLeads, other.LocationLeads...)
	g.Events = append(g.Events, other.Events...)
	g.EventHeads = append(g.EventHeads, other.EventHeads...)
	g.Products = append(g.Products, other.Products...)
	g.Connectors = append(g.Connectors, other.Connectors...)
	g.Ignore = append(g.Ignore, other.Ignore...)
}
