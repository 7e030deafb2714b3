package archive

import (
	"context"
	"errors"
	"log"
	"time"

	"mealdesk/internal/deadline"
	"mealdesk/internal/report"
)

// Exporter renders one entity's records in a date range.
type Exporter interface {
	Export(ctx context.Context, r report.Range, format report.Format) ([]byte, string, error)
}

// Job uploads the previous day's exports once per day, after a given hour.
type Job struct {
	exporters []Exporter
	archiver  report.Archiver
	policy    *deadline.Policy
	hour      int

	lastRun string
}

func NewJob(policy *deadline.Policy, archiver report.Archiver, hour int, exporters ...Exporter) *Job {
	return &Job{
		exporters: exporters,
		archiver:  archiver,
		policy:    policy,
		hour:      hour,
	}
}

// Due reports whether today's export still has to run.
func (j *Job) Due() bool {
	now := j.policy.Now()
	return now.Hour() >= j.hour && j.lastRun != j.policy.Today()
}

// RunOnce exports yesterday for every exporter. Each exporter is attempted
// even if an earlier one failed; the day is marked done only when all
// succeed.
func (j *Job) RunOnce(ctx context.Context) ([]string, error) {
	yesterday := j.policy.DaysFromToday(-1)
	r := report.Range{Start: yesterday, End: yesterday}

	var (
		urls []string
		errs []error
	)
	for _, e := range j.exporters {
		body, filename, err := e.Export(ctx, r, report.FormatCSV)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		url, err := report.Archive(ctx, j.archiver, filename, body, report.FormatCSV)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		log.Printf("[EXPORT] archived %s -> %s", filename, url)
		urls = append(urls, url)
	}

	if len(errs) == 0 {
		j.lastRun = j.policy.Today()
	}
	return urls, errors.Join(errs...)
}

// Run checks on every tick until ctx is cancelled.
func (j *Job) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if j.Due() {
			if _, err := j.RunOnce(ctx); err != nil {
				log.Printf("⚠️  export error: %v", err)
			}
		}

		select {
		case <-ctx.Done():
			log.Println("[EXPORT] worker stopped")
			return
		case <-ticker.C:
		}
	}
}
