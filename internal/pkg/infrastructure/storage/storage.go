package storage

import (
	"context"

	"github.com/angsant/trabalho-2-bd-2/pkg/records"
)

// Collection names consumed by the catalog.
const (
	CollectionFranchises    = "franchises"
	CollectionOrganizations = "organizations"
	CollectionIndividuals   = "individuals"
	CollectionVehicles      = "vehicles"
	CollectionCommanders    = "commanders"
)

// Reader issues scans against named record collections. Implementations
// surface their internal row identifier on each record under
// records.InternalIDField and never mutate stored data on read.
type Reader interface {
	Scan(ctx context.Context, collection string, filter *records.FieldFilter) ([]records.Record, error)
	ScanProjected(ctx context.Context, collection string, filter *records.FieldFilter, fields []string) ([]records.Record, error)
}
