package app

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/browser"

	"dewchart/internal/config"
	db "dewchart/internal/db"
	httpapi "dewchart/internal/httpapi"
	"dewchart/internal/migrate"
	dewpoint "dewchart/internal/modules/dewpoint"
	"dewchart/internal/modules/dewpoint/chart"
	"dewchart/internal/modules/dewpoint/service"
	"dewchart/internal/modules/dewpoint/types"
	"dewchart/internal/modules/dewpoint/views"
)

const shutdownTimeout = 10 * time.Second

var openURL = browser.OpenURL

// Run dispatches args to a command. With no args it serves the chart.
func Run(ctx context.Context, cfg config.Config, args []string) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"openBrowser", cfg.OpenBrowser,
		"dbDriver", cfg.Driver,
		"dbDSNSet", cfg.DSN != "",
		"sqlitePath", cfg.SQLitePath,
		"dbHost", cfg.Host,
		"dbPort", cfg.Port,
		"dbName", cfg.Name,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbQueryTimeout", cfg.QueryTimeout,
		"dbLogSQL", cfg.LogSQL,
	)

	command := "serve"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, cfg)
	case "migrate":
		return runMigrations(ctx, cfg)
	case "export":
		return export(ctx, cfg, args)
	default:
		return fmt.Errorf("unknown command %q (allowed: serve, migrate, export)", command)
	}
}

func loadReport(ctx context.Context, cfg config.Config) (*service.Report, error) {
	logger := slog.Default()
	opener := func(ctx context.Context) (*sql.DB, error) {
		return db.Open(ctx, cfg, logger)
	}
	svc, err := service.NewService(opener, cfg.Driver, cfg.QueryTimeout, logger)
	if err != nil {
		return nil, err
	}
	return svc.Load(ctx)
}

func runMigrations(ctx context.Context, cfg config.Config) error {
	if cfg.Driver != config.DriverSQLite {
		return fmt.Errorf("migrate supports only DB_DRIVER=%s, got %q", config.DriverSQLite, cfg.Driver)
	}

	dbConn, err := db.Open(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	n, err := migrate.Run(ctx, dbConn, slog.Default())
	if err != nil {
		return err
	}
	slog.Info("migrations done", "applied", n)
	return nil
}

func export(ctx context.Context, cfg config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: export <file.html|file.png> [year]")
	}
	path := args[0]

	year := 0
	if len(args) == 2 {
		y, err := strconv.Atoi(args[1])
		if err != nil || y <= 0 {
			return fmt.Errorf("invalid year %q", args[1])
		}
		year = y
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".html", ".htm", ".png":
	default:
		return fmt.Errorf("unsupported export format %q (allowed: .html, .png)", ext)
	}

	report, err := loadReport(ctx, cfg)
	if err != nil {
		return err
	}
	if year != 0 && !report.HasYear(year) {
		return fmt.Errorf("no data for year %d: %w", year, chart.ErrNoData)
	}

	var buf bytes.Buffer
	if ext == ".png" {
		if err := chart.RenderPNG(&buf, report.Rows, year); err != nil {
			return err
		}
	} else {
		if err := views.LoadTemplates(); err != nil {
			return err
		}
		if year != 0 {
			report = yearReport(report, year)
		}
		page := views.NewChartPage(report.Figure, views.NewSummaryData(report.Summary()), true)
		if err := views.RenderChart(&buf, page); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("chart exported", "path", path, "year", year, "bytes", buf.Len())
	return nil
}

func yearReport(report *service.Report, year int) *service.Report {
	rows := []types.MonthlyAverage{}
	for _, row := range report.Rows {
		if row.Year == year {
			rows = append(rows, row)
		}
	}
	return &service.Report{
		Rows:     rows,
		Figure:   chart.NewFigure(rows),
		Driver:   report.Driver,
		LoadedAt: report.LoadedAt,
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	report, err := loadReport(ctx, cfg)
	if err != nil {
		return err
	}

	if err := views.LoadTemplates(); err != nil {
		return err
	}
	mux := httpapi.NewMux(report)
	dewpoint.RegisterFeature(mux, report)

	srv := httpapi.NewServer(cfg, mux, slog.Default())

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	if cfg.OpenBrowser {
		url := httpapi.BrowserURL(ln.Addr())
		if err := openURL(url); err != nil {
			slog.Warn("open browser failed (continuing)", "url", url, "error", err)
		}
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
