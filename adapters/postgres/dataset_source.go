package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/ports"
)

// SourceConfig maps a table's columns onto dataset roles
type SourceConfig struct {
	Table            string
	ResponseColumn   string
	FactorColumns    []string
	CovariateColumns []string
}

// datasetSource implements the DatasetSource interface over a Postgres table
type datasetSource struct {
	db  *sqlx.DB
	cfg SourceConfig
}

// NewDatasetSource creates a dataset source reading observation rows from a
// Postgres table. Identifiers are validated before interpolation since table
// and column names cannot be bound parameters.
func NewDatasetSource(db *sqlx.DB, cfg SourceConfig) (ports.DatasetSource, error) {
	idents := append([]string{cfg.Table, cfg.ResponseColumn}, cfg.FactorColumns...)
	idents = append(idents, cfg.CovariateColumns...)
	for _, ident := range idents {
		if !validIdent.MatchString(ident) {
			return nil, fmt.Errorf("invalid SQL identifier: %q", ident)
		}
	}
	return &datasetSource{db: db, cfg: cfg}, nil
}

var validIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Load reads all observation rows into a Dataset
func (s *datasetSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	columns := append([]string{s.cfg.ResponseColumn}, s.cfg.FactorColumns...)
	columns = append(columns, s.cfg.CovariateColumns...)
	query := fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(columns, ", "), s.cfg.Table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var response []float64
	factors := make(map[string][]string, len(s.cfg.FactorColumns))
	covariates := make(map[string][]float64, len(s.cfg.CovariateColumns))

	for rows.Next() {
		dest := make([]interface{}, len(columns))
		var y float64
		dest[0] = &y
		factorVals := make([]string, len(s.cfg.FactorColumns))
		for i := range s.cfg.FactorColumns {
			dest[1+i] = &factorVals[i]
		}
		covVals := make([]float64, len(s.cfg.CovariateColumns))
		for i := range s.cfg.CovariateColumns {
			dest[1+len(s.cfg.FactorColumns)+i] = &covVals[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan observation row: %w", err)
		}

		response = append(response, y)
		for i, name := range s.cfg.FactorColumns {
			factors[name] = append(factors[name], factorVals[i])
		}
		for i, name := range s.cfg.CovariateColumns {
			covariates[name] = append(covariates[name], covVals[i])
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read observations: %w", err)
	}

	return dataset.New(response, factors, covariates)
}
