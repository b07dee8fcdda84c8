package ports

import (
	"context"

	"github.com/melina-leite/rptR/domain/dataset"
)

// DatasetSource loads one observation table from an external source (XLSX,
// CSV, SQL). Sources only read input data; results are never written back.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}
