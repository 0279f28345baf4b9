package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"SalesCast/internal/domain/models"
	domrepo "SalesCast/internal/domain/repository"
	pkgch "SalesCast/pkg/clickhouse"
	applogger "SalesCast/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHTrainingSource reads historical sales rows from a ClickHouse table.
type CHTrainingSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHTrainingSource(ch *pkgch.Client, table string) (*CHTrainingSource, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &CHTrainingSource{db: ch.DB(), table: table}, nil
}

// SetLogger injects a structured logger.
func (s *CHTrainingSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHTrainingSource) Records(ctx context.Context) ([]models.Record, error) {
	start := time.Now()
	const qtpl = `
        SELECT toString(Store_id), toString(Store_Type), toString(Location_Type), toString(Region_Code),
               toString(Date), toFloat64(Holiday), toString(Discount), toFloat64(Sales), toFloat64(` + "`Order`" + `)
        FROM %s
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse training query error", applogger.String("table", s.table), applogger.Error(err))
		}
		return nil, fmt.Errorf("query training rows: %w", err)
	}
	defer rows.Close()

	out := make([]models.Record, 0, 4096)
	for rows.Next() {
		var (
			storeID, storeType, locType, region, date, discount string
			holiday, sales, order                              float64
		)
		if err := rows.Scan(&storeID, &storeType, &locType, &region, &date, &holiday, &discount, &sales, &order); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse training scan error", applogger.String("table", s.table), applogger.Error(err))
			}
			return nil, fmt.Errorf("scan training row: %w", err)
		}
		out = append(out, models.Record{
			models.FieldStoreID:      storeID,
			models.FieldStoreType:    storeType,
			models.FieldLocationType: locType,
			models.FieldRegionCode:   region,
			models.FieldDate:         date,
			models.FieldHoliday:      holiday,
			models.FieldDiscount:     discount,
			models.FieldSales:        sales,
			models.FieldOrder:        order,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse training rows ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

var _ domrepo.TrainingSource = (*CHTrainingSource)(nil)
