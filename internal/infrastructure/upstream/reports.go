package upstream

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the back-office dashboard summary with its time
// series. All aggregation happens on the platform; the series are
// forwarded as delivered.
type DashboardStats struct {
	OrdersToday     int             `json:"orders_today"`
	OrdersThisWeek  int             `json:"orders_this_week"`
	OrdersThisMonth int             `json:"orders_this_month"`
	RevenueToday    decimal.Decimal `json:"revenue_today"`
	RevenueThisWeek decimal.Decimal `json:"revenue_this_week"`
	RevenueMonth    decimal.Decimal `json:"revenue_this_month"`
	PendingOrders   int             `json:"pending_orders"`
	CancelRequests  int             `json:"cancel_requests"`

	DailySales        []SeriesPoint `json:"daily_sales,omitempty"`
	DailyOrdersGross  []SeriesPoint `json:"daily_orders_gross,omitempty"`
	MonthlyOrderGross []SeriesPoint `json:"monthly_order_gross,omitempty"`
}

// SeriesPoint is one bucket of a dashboard time series. Period format
// depends on the series (day or month).
type SeriesPoint struct {
	Period string          `json:"period"`
	Orders int             `json:"orders"`
	Gross  decimal.Decimal `json:"gross"`
}

// GetDashboardStats fetches the dashboard summary
func (c *Client) GetDashboardStats(ctx context.Context, token string) (*DashboardStats, error) {
	var stats DashboardStats
	if _, err := c.get(ctx, "/admin/reports/dashboard", nil, token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ReportQuery bounds an export or report request
type ReportQuery struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Status   string
}

func (q ReportQuery) values() url.Values {
	values := url.Values{}
	if q.DateFrom != nil {
		values.Set("date_from", q.DateFrom.Format(time.RFC3339))
	}
	if q.DateTo != nil {
		values.Set("date_to", q.DateTo.Format(time.RFC3339))
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	return values
}

// ExportOrders fetches flattened order records for CSV export. The
// platform returns each record as an ordered list of column name and
// value pairs so the export preserves column order.
func (c *Client) ExportOrders(ctx context.Context, token string, query ReportQuery) ([]ExportRecord, error) {
	var records []ExportRecord
	if _, err := c.get(ctx, "/admin/reports/orders/export", query.values(), token, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ExportRecord is a single flattened row of an export
type ExportRecord struct {
	Columns []ExportColumn `json:"columns"`
}

// ExportColumn is one named cell of an export row
type ExportColumn struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
