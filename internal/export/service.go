// Package export renders the result set of a built query to a downloadable
// tabular format.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/paramquery/internal/builder"
	"github.com/rpattn/paramquery/internal/domain"
	"github.com/rpattn/paramquery/internal/query"
	"github.com/rpattn/paramquery/internal/repository"
)

// Format selects the output encoding for an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a raw format parameter, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Service builds a query through the given builder and streams the executed
// result set to a writer.
type Service struct {
	executor repository.QueryExecutor
}

// NewService creates an export service on top of a query executor
func NewService(executor repository.QueryExecutor) *Service {
	return &Service{executor: executor}
}

// Export runs the builder over the pairs, executes the resulting query and
// writes the rows in the requested format. It returns the number of data
// rows written.
func (s *Service) Export(ctx context.Context, b *builder.Builder, pairs domain.PairList, format Format, w io.Writer) (int, error) {
	q, err := b.Build(pairs)
	if err != nil {
		return 0, err
	}
	return s.ExportQuery(ctx, b.Entity(), q, format, w)
}

// ExportQuery executes an already-composed query and writes the rows.
// Columns follow the entity schema's declaration order.
func (s *Service) ExportQuery(ctx context.Context, entity domain.EntityType, q query.Query, format Format, w io.Writer) (int, error) {
	rows, err := s.executor.Execute(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to execute export query: %w", err)
	}

	columns := entity.FieldNames()

	switch format {
	case FormatXLSX:
		return writeXLSX(w, columns, rows)
	default:
		return writeCSV(w, columns, rows)
	}
}

func writeCSV(w io.Writer, columns []string, rows []map[string]any) (int, error) {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(columns); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	written := 0
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, column := range columns {
			record[i] = formatValue(row[column])
		}
		if err := csvWriter.Write(record); err != nil {
			return written, fmt.Errorf("failed to write csv row: %w", err)
		}
		written++
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return written, fmt.Errorf("failed to flush csv output: %w", err)
	}
	return written, nil
}

func writeXLSX(w io.Writer, columns []string, rows []map[string]any) (int, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write xlsx header: %w", err)
	}

	written := 0
	for idx, row := range rows {
		record := make([]any, len(columns))
		for i, column := range columns {
			record[i] = formatValue(row[column])
		}

		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return written, fmt.Errorf("failed to compute xlsx cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return written, fmt.Errorf("failed to write xlsx row: %w", err)
		}
		written++
	}

	if err := f.Write(w); err != nil {
		return written, fmt.Errorf("failed to write xlsx workbook: %w", err)
	}
	return written, nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
