package report

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// Service exposes back-office reporting: the dashboard summary and the
// order CSV export
type Service struct {
	client *upstream.Client
	logger *zap.Logger
}

// NewService creates the report service
func NewService(client *upstream.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Dashboard returns the dashboard summary
func (s *Service) Dashboard(ctx context.Context, token string) (*upstream.DashboardStats, error) {
	return s.client.GetDashboardStats(ctx, token)
}

// ExportOrdersCSV fetches the flattened order records and renders them
// as CSV. The header row is the column set of the first record; later
// records are projected onto those columns, missing values rendering
// empty.
func (s *Service) ExportOrdersCSV(ctx context.Context, token string, query upstream.ReportQuery) (string, error) {
	records, err := s.client.ExportOrders(ctx, token, query)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", shared.NewDomainError("NO_EXPORT_DATA", "no orders match the export criteria")
	}
	return RenderCSV(records), nil
}

// RenderCSV renders export records as CSV. Every field is quoted and
// embedded quotes are doubled, so downstream spreadsheet imports never
// have to guess at commas or line breaks inside values.
func RenderCSV(records []upstream.ExportRecord) string {
	if len(records) == 0 {
		return ""
	}

	header := make([]string, 0, len(records[0].Columns))
	for _, col := range records[0].Columns {
		header = append(header, col.Key)
	}

	var b strings.Builder
	writeRow(&b, header)
	for _, record := range records {
		values := make(map[string]string, len(record.Columns))
		for _, col := range record.Columns {
			values[col.Key] = col.Value
		}
		row := make([]string, 0, len(header))
		for _, key := range header {
			row = append(row, values[key])
		}
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
