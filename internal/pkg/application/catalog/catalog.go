// Package catalog resolves the document collections behind the fleet
// dashboard into display-ready tables.
package catalog

import (
	"context"
	"log/slog"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"

	"github.com/angsant/trabalho-2-bd-2/internal/pkg/infrastructure/storage"
	"github.com/angsant/trabalho-2-bd-2/pkg/records"
)

// Resolved fields attached to records during a load.
const (
	CommanderNameField = "commander_name"
	FranchiseNameField = "franchise_name"
)

// Datasets holds the three display-ready tables of a load.
type Datasets struct {
	Organizations records.Table `json:"organizations"`
	Individuals   records.Table `json:"individuals"`
	Vehicles      records.Table `json:"vehicles"`
}

// EmptyDatasets returns a Datasets value with three empty (non-nil) tables.
func EmptyDatasets() Datasets {
	return Datasets{
		Organizations: records.Table{},
		Individuals:   records.Table{},
		Vehicles:      records.Table{},
	}
}

// Catalog exposes the three read operations the presentation layer consumes.
// Every call starts from a fresh scan and holds no state between calls.
type Catalog interface {
	ListFranchises(ctx context.Context) (records.Table, error)
	LoadFranchise(ctx context.Context, franchiseID string) (Datasets, error)
	LoadAll(ctx context.Context) (Datasets, error)
}

type catalogApp struct {
	cfg   Config
	store storage.Reader
}

func New(ctx context.Context, cfg Config, store storage.Reader) Catalog {
	return &catalogApp{cfg: cfg, store: store}
}

func (c *catalogApp) ListFranchises(ctx context.Context) (records.Table, error) {
	recs, err := c.store.ScanProjected(ctx, c.cfg.Collections.Franchises, nil, c.idAndNameFields())
	if err != nil {
		return records.Table{}, err
	}

	// the dashboard's selector wants exactly id and name
	return records.Project(records.Normalize(recs), []string{records.IDField, c.cfg.Joins.NameField}), nil
}

func (c *catalogApp) LoadFranchise(ctx context.Context, franchiseID string) (Datasets, error) {
	filter := &records.FieldFilter{Field: c.cfg.Joins.FranchiseKey, Value: franchiseID}

	ds, err := c.loadDatasets(ctx, filter)
	if err != nil {
		return EmptyDatasets(), err
	}

	if len(ds.Vehicles) > 0 {
		err = c.resolveCommanderNames(ctx, ds.Vehicles)
		if err != nil {
			return EmptyDatasets(), err
		}
	}

	logging.GetFromContext(ctx).Debug("loaded franchise datasets",
		slog.String("franchise_id", franchiseID),
		slog.Int("organizations", len(ds.Organizations)),
		slog.Int("individuals", len(ds.Individuals)),
		slog.Int("vehicles", len(ds.Vehicles)),
	)

	return ds, nil
}

func (c *catalogApp) LoadAll(ctx context.Context) (Datasets, error) {
	franchises, err := c.load(ctx, c.cfg.Collections.Franchises, nil)
	if err != nil {
		return EmptyDatasets(), err
	}

	ds, err := c.loadDatasets(ctx, nil)
	if err != nil {
		return EmptyDatasets(), err
	}

	nameByFranchise := buildNameLookup(franchises, records.IDField, c.cfg.Joins.NameField)

	for _, tbl := range []records.Table{ds.Organizations, ds.Individuals, ds.Vehicles} {
		if tbl.HasField(c.cfg.Joins.FranchiseKey) {
			c.attachFranchiseNames(tbl, nameByFranchise)
		}
	}

	if len(ds.Vehicles) > 0 {
		err = c.resolveCommanderNames(ctx, ds.Vehicles)
		if err != nil {
			return EmptyDatasets(), err
		}
	}

	return ds, nil
}

func (c *catalogApp) loadDatasets(ctx context.Context, filter *records.FieldFilter) (Datasets, error) {
	orgs, err := c.load(ctx, c.cfg.Collections.Organizations, filter)
	if err != nil {
		return Datasets{}, err
	}

	inds, err := c.load(ctx, c.cfg.Collections.Individuals, filter)
	if err != nil {
		return Datasets{}, err
	}

	vehs, err := c.load(ctx, c.cfg.Collections.Vehicles, filter)
	if err != nil {
		return Datasets{}, err
	}

	return Datasets{Organizations: orgs, Individuals: inds, Vehicles: vehs}, nil
}

func (c *catalogApp) load(ctx context.Context, collection string, filter *records.FieldFilter) (records.Table, error) {
	recs, err := c.store.Scan(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	return records.Normalize(recs), nil
}

// resolveCommanderNames attaches the resolved individual name of each
// vehicle's commander, following vehicle to commander to individual over the
// full commander and individual collections. Any missing link yields the
// configured unknown label.
func (c *catalogApp) resolveCommanderNames(ctx context.Context, vehicles records.Table) error {
	commanders, err := c.load(ctx, c.cfg.Collections.Commanders, nil)
	if err != nil {
		return err
	}

	individuals, err := c.store.ScanProjected(ctx, c.cfg.Collections.Individuals, nil, c.idAndNameFields())
	if err != nil {
		return err
	}

	commanderByID := buildLookup(commanders, records.IDField)
	nameByIndividual := buildNameLookup(records.Normalize(individuals), records.IDField, c.cfg.Joins.NameField)

	for _, vehicle := range vehicles {
		vehicle[CommanderNameField] = c.commanderName(vehicle, commanderByID, nameByIndividual)
	}

	return nil
}

func (c *catalogApp) commanderName(vehicle records.Record, commanderByID map[string]records.Record, nameByIndividual map[string]string) string {
	commanderID, ok := vehicle[c.cfg.Joins.CommanderKey]
	if !ok {
		return c.cfg.UnknownLabel
	}

	commander, ok := commanderByID[records.StringForm(commanderID)]
	if !ok {
		return c.cfg.UnknownLabel
	}

	individualID, ok := commander[c.cfg.Joins.CommanderIndividualKey]
	if !ok {
		return c.cfg.UnknownLabel
	}

	name, ok := nameByIndividual[records.StringForm(individualID)]
	if !ok || name == "" {
		return c.cfg.UnknownLabel
	}

	return name
}

func (c *catalogApp) attachFranchiseNames(tbl records.Table, nameByFranchise map[string]string) {
	for _, rec := range tbl {
		fk, ok := rec[c.cfg.Joins.FranchiseKey]
		if !ok {
			continue
		}

		// unmatched rows simply lack the field
		if name, ok := nameByFranchise[records.StringForm(fk)]; ok {
			rec[FranchiseNameField] = name
		}
	}
}

func (c *catalogApp) idAndNameFields() []string {
	return []string{records.IDField, records.InternalIDField, c.cfg.Joins.NameField}
}
