// Command scrape ingests one or more departments' undergraduate catalogs
// into the local database, chasing out-of-department prerequisites so each
// department resolves without dangling requisite references.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/smartadvisors/course-advisor-go/internal/config"
	"github.com/smartadvisors/course-advisor-go/internal/logger"
	"github.com/smartadvisors/course-advisor-go/internal/metrics"
	"github.com/smartadvisors/course-advisor-go/internal/scraper"
	"github.com/smartadvisors/course-advisor-go/internal/scraper/catalog"
	"github.com/smartadvisors/course-advisor-go/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	departments := flag.String("departments", "", "comma-separated department codes to ingest (e.g. CSE,CE,IE)")
	flag.Parse()

	if *departments == "" {
		_, _ = fmt.Fprintln(os.Stderr, "usage: scrape -departments CSE,CE")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()

	client := scraper.NewClient(cfg.ScraperTimeout, cfg.ScraperMaxRetries)
	m := metrics.New(prometheus.NewRegistry())
	catalogScraper := catalog.NewScraper(client, db, nil, log, m, cfg.CatalogBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := 0
	for _, dept := range strings.Split(*departments, ",") {
		dept = strings.TrimSpace(dept)
		if dept == "" {
			continue
		}
		count, err := catalogScraper.ScrapeDepartment(ctx, dept)
		if err != nil {
			log.WithError(err).WithField("department", dept).Error("Department ingest failed")
			failed++
			continue
		}
		log.WithFields(map[string]any{
			"department": dept,
			"courses":    count,
		}).Info("Department ingested")
	}

	if failed > 0 {
		os.Exit(1)
	}
}
