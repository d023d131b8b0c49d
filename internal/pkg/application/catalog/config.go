package catalog

import (
	"io"

	yaml "gopkg.in/yaml.v2"

	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/storage"
)

// CollectionsConfig maps the logical datasets to collection names in the
// backing store.
type CollectionsConfig struct {
	Franchises    string `yaml:"franchises"`
	Organizations string `yaml:"organizations"`
	Individuals   string `yaml:"individuals"`
	Vehicles      string `yaml:"vehicles"`
	Commanders    string `yaml:"commanders"`
}

// JoinConfig declares the exact field names every join uses, so that
// resolution never has to guess which column survived a merge.
type JoinConfig struct {
	FranchiseKey           string `yaml:"franchiseKey"`
	CommanderKey           string `yaml:"commanderKey"`
	CommanderIndividualKey string `yaml:"commanderIndividualKey"`
	NameField              string `yaml:"nameField"`
}

type Config struct {
	Collections  CollectionsConfig `yaml:"collections"`
	Joins        JoinConfig        `yaml:"joins"`
	UnknownLabel string            `yaml:"unknownLabel"`
}

func DefaultConfig() Config {
	return Config{
		Collections: CollectionsConfig{
			Franchises:    storage.CollectionFranchises,
			Organizations: storage.CollectionOrganizations,
			Individuals:   storage.CollectionIndividuals,
			Vehicles:      storage.CollectionVehicles,
			Commanders:    storage.CollectionCommanders,
		},
		Joins: JoinConfig{
			FranchiseKey:           "franchise_id",
			CommanderKey:           "commander_id",
			CommanderIndividualKey: "individual_id",
			NameField:              "name",
		},
		UnknownLabel: "Desconhecido",
	}
}

// LoadConfiguration reads a yaml configuration, filling anything the file
// leaves out from the defaults.
func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	err = yaml.Unmarshal(buf, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
