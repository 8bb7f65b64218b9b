package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"time"

	"dewchart/internal/modules/dewpoint/chart"
	"dewchart/internal/modules/dewpoint/repository"
	"dewchart/internal/modules/dewpoint/types"
)

// Opener opens the database the report is loaded from.
type Opener func(ctx context.Context) (*sql.DB, error)

type repositoryFactory func(db *sql.DB, dialect repository.Dialect) repository.DewPointRepository

// Report is the loaded data set with its chart. It is immutable once built
// and safe to share between HTTP handlers.
type Report struct {
	Rows     []types.MonthlyAverage
	Figure   chart.Figure
	Driver   string
	LoadedAt time.Time
}

type Service struct {
	open          Opener
	driver        string
	dialect       repository.Dialect
	queryTimeout  time.Duration
	logger        *slog.Logger
	newRepository repositoryFactory
	now           func() time.Time
}

func NewService(open Opener, driver string, queryTimeout time.Duration, logger *slog.Logger) (*Service, error) {
	dialect, err := repository.DialectForDriver(driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		open:          open,
		driver:        driver,
		dialect:       dialect,
		queryTimeout:  queryTimeout,
		logger:        logger,
		newRepository: repository.NewRepository,
		now:           time.Now,
	}, nil
}

// Load opens the database, runs the monthly aggregation and closes the
// database again before returning, whether or not the query succeeded.
func (s *Service) Load(ctx context.Context) (*Report, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			s.logger.Warn("close database", "error", err)
		}
	}()

	queryCtx := ctx
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	start := s.now()
	rows, err := s.newRepository(db, s.dialect).MonthlyAverages(queryCtx)
	if err != nil {
		return nil, fmt.Errorf("load monthly averages: %w", err)
	}

	report := &Report{
		Rows:     rows,
		Figure:   chart.NewFigure(rows),
		Driver:   s.driver,
		LoadedAt: s.now(),
	}

	if len(rows) == 0 {
		s.logger.Info("no dew point readings found; chart will be empty")
	} else {
		s.logger.Info("monthly averages loaded",
			"rows", len(rows),
			"years", len(report.Figure.Years()),
			"duration_ms", report.LoadedAt.Sub(start).Milliseconds(),
		)
	}
	return report, nil
}

// Summary is a small digest of a report for the page header.
type Summary struct {
	Rows      int
	Years     int
	FirstYear int
	LastYear  int
	Min       *types.MonthlyAverage
	Max       *types.MonthlyAverage
	Driver    string
	LoadedAt  time.Time
}

func (r *Report) Summary() Summary {
	sum := Summary{
		Rows:     len(r.Rows),
		Years:    r.Figure.SeriesCount(),
		Driver:   r.Driver,
		LoadedAt: r.LoadedAt,
	}
	if len(r.Rows) == 0 {
		return sum
	}

	sum.FirstYear, sum.LastYear = math.MaxInt, math.MinInt
	for i := range r.Rows {
		row := &r.Rows[i]
		sum.FirstYear = min(sum.FirstYear, row.Year)
		sum.LastYear = max(sum.LastYear, row.Year)
		if sum.Min == nil || row.MeanDewPoint < sum.Min.MeanDewPoint {
			sum.Min = row
		}
		if sum.Max == nil || row.MeanDewPoint > sum.Max.MeanDewPoint {
			sum.Max = row
		}
	}
	return sum
}

// HasYear reports whether the report holds any row for year.
func (r *Report) HasYear(year int) bool {
	for _, y := range r.Figure.Years() {
		if y == year {
			return true
		}
	}
	return false
}
