package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/melina-leite/rptR/domain/dataset"
	"github.com/melina-leite/rptR/ports"
)

// ReaderConfig maps spreadsheet columns onto dataset roles
type ReaderConfig struct {
	FilePath         string
	Sheet            string // first sheet when empty (XLSX only)
	ResponseColumn   string
	FactorColumns    []string
	CovariateColumns []string
}

// DatasetReader loads a repeatability dataset from an XLSX or CSV file. The
// response column must be coded 0/1; factor columns are read as strings,
// covariates as floats.
type DatasetReader struct {
	cfg      ReaderConfig
	fileType string // "xlsx" or "csv"
}

// NewDatasetReader creates a reader that handles both Excel and CSV files
func NewDatasetReader(cfg ReaderConfig) *DatasetReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		fileType = "csv"
	}
	return &DatasetReader{cfg: cfg, fileType: fileType}
}

// Load reads the file into a Dataset
func (r *DatasetReader) Load(ctx context.Context) (*dataset.Dataset, error) {
	if _, err := os.Stat(r.cfg.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.cfg.FilePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	return r.toDataset(rows)
}

func (r *DatasetReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	return rows, nil
}

func (r *DatasetReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// toDataset maps header-indexed rows onto dataset columns
func (r *DatasetReader) toDataset(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file has no data rows")
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[strings.TrimSpace(header)] = i
	}

	respIdx, ok := index[r.cfg.ResponseColumn]
	if !ok {
		return nil, fmt.Errorf("response column %q not found", r.cfg.ResponseColumn)
	}
	// Copy into a fresh slice rather than append: appending could write through
	// the caller's FactorColumns backing array when it has spare capacity.
	allColumns := make([]string, 0, len(r.cfg.FactorColumns)+len(r.cfg.CovariateColumns))
	allColumns = append(allColumns, r.cfg.FactorColumns...)
	allColumns = append(allColumns, r.cfg.CovariateColumns...)
	for _, name := range allColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("column %q not found", name)
		}
	}

	data := rows[1:]
	response := make([]float64, len(data))
	factors := make(map[string][]string, len(r.cfg.FactorColumns))
	for _, name := range r.cfg.FactorColumns {
		factors[name] = make([]string, len(data))
	}
	covariates := make(map[string][]float64, len(r.cfg.CovariateColumns))
	for _, name := range r.cfg.CovariateColumns {
		covariates[name] = make([]float64, len(data))
	}

	for i, row := range data {
		y, err := cellFloat(row, respIdx)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad response value: %w", i+2, err)
		}
		response[i] = y

		for _, name := range r.cfg.FactorColumns {
			factors[name][i] = cellString(row, index[name])
		}
		for _, name := range r.cfg.CovariateColumns {
			v, err := cellFloat(row, index[name])
			if err != nil {
				return nil, fmt.Errorf("row %d: bad value in %q: %w", i+2, name, err)
			}
			covariates[name][i] = v
		}
	}

	return dataset.New(response, factors, covariates)
}

func cellString(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellFloat(row []string, idx int) (float64, error) {
	return strconv.ParseFloat(cellString(row, idx), 64)
}

var _ ports.DatasetSource = (*DatasetReader)(nil)
