package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"dewchart/internal/config"
	"dewchart/internal/modules/dewpoint/types"
)

//go:embed sql/monthly-averages.sqlite.sql
var monthlyAveragesSQLite string

//go:embed sql/monthly-averages.postgres.sql
var monthlyAveragesPostgres string

//go:embed sql/monthly-averages.sqlserver.sql
var monthlyAveragesSQLServer string

// Dialect selects which flavour of the aggregation query is run.
type Dialect string

const (
	DialectSQLite    Dialect = "sqlite"
	DialectPostgres  Dialect = "postgres"
	DialectSQLServer Dialect = "sqlserver"
)

// DialectForDriver maps a database/sql driver name to its query dialect.
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return DialectSQLite, nil
	case config.DriverPostgres:
		return DialectPostgres, nil
	case config.DriverSQLServer:
		return DialectSQLServer, nil
	default:
		return "", fmt.Errorf("no query dialect for driver %q", driver)
	}
}

func (d Dialect) monthlyAveragesQuery() (string, error) {
	switch d {
	case DialectSQLite:
		return monthlyAveragesSQLite, nil
	case DialectPostgres:
		return monthlyAveragesPostgres, nil
	case DialectSQLServer:
		return monthlyAveragesSQLServer, nil
	default:
		return "", fmt.Errorf("unknown dialect %q", d)
	}
}

type DewPointRepository interface {
	// MonthlyAverages returns the mean dew point per (month, year), ordered
	// by year then month, means rounded to one decimal.
	MonthlyAverages(ctx context.Context) ([]types.MonthlyAverage, error)
}

type repositoryImpl struct {
	db      *sql.DB
	dialect Dialect
}

func NewRepository(db *sql.DB, dialect Dialect) DewPointRepository {
	return &repositoryImpl{db: db, dialect: dialect}
}

func (r *repositoryImpl) MonthlyAverages(ctx context.Context) ([]types.MonthlyAverage, error) {
	query, err := r.dialect.monthlyAveragesQuery()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("monthly averages query: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close monthly averages rows", "error", err)
		}
	}()

	out := []types.MonthlyAverage{}
	for rows.Next() {
		var rec types.MonthlyAverage
		if err := rows.Scan(&rec.MonthName, &rec.MonthNumber, &rec.Year, &rec.MeanDewPoint); err != nil {
			return nil, fmt.Errorf("scan monthly average: %w", err)
		}
		rec.MeanDewPoint = types.Round1(rec.MeanDewPoint)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly averages: %w", err)
	}
	return out, nil
}
