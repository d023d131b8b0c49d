package catalog

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
)

func TestLoadConfiguration(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(bytes.NewBufferString(configFile))
	is.NoErr(err)

	is.Equal(cfg.Collections.Vehicles, "naves")
	is.Equal(cfg.Joins.CommanderKey, "capitao_id")
	is.Equal(cfg.UnknownLabel, "Desconhecido")
}

func TestLoadConfigurationKeepsDefaultsForOmittedFields(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(bytes.NewBufferString(configFile))
	is.NoErr(err)

	is.Equal(cfg.Collections.Franchises, "franchises")
	is.Equal(cfg.Joins.FranchiseKey, "franchise_id")
	is.Equal(cfg.Joins.NameField, "name")
}

func TestLoadConfigurationRejectsMalformedYaml(t *testing.T) {
	is := is.New(t)

	_, err := LoadConfiguration(bytes.NewBufferString("collections: [not, a, mapping"))
	is.True(err != nil)
}

var configFile string = `
collections:
  vehicles: naves
joins:
  commanderKey: capitao_id
`
