package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smartadvisors/course-advisor-go/internal/errors"
	"github.com/smartadvisors/course-advisor-go/internal/logger"
	"github.com/smartadvisors/course-advisor-go/internal/metrics"
	"github.com/smartadvisors/course-advisor-go/internal/scraper"
	"github.com/smartadvisors/course-advisor-go/internal/storage"
	"github.com/smartadvisors/course-advisor-go/internal/stringutil"
)

// Scraper pulls department pages from the catalog site and persists the
// parsed courses. Out-of-department prerequisites are chased recursively so
// an ingested department is self-contained for eligibility resolution.
type Scraper struct {
	client   *scraper.Client
	store    storage.CatalogRepository
	splitter SentenceSplitter
	flight   *scraper.FlightGroup
	log      *logger.Logger
	metrics  *metrics.Metrics
	baseURL  string
}

// NewScraper wires a catalog scraper. splitter may be nil, in which case the
// regex segmenter is used.
func NewScraper(
	client *scraper.Client,
	store storage.CatalogRepository,
	splitter SentenceSplitter,
	log *logger.Logger,
	m *metrics.Metrics,
	baseURL string,
) *Scraper {
	if splitter == nil {
		splitter = RegexSplitter{}
	}
	return &Scraper{
		client:   client,
		store:    store,
		splitter: splitter,
		flight:   scraper.NewFlightGroup(),
		log:      log.WithModule("catalog"),
		metrics:  m,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// ScrapeDepartment ingests one department's undergraduate catalog. Courses
// are stored under the requested department together with every reachable
// out-of-department requisite, so the department's catalog slice resolves
// without dangling references. Returns the number of courses saved.
func (s *Scraper) ScrapeDepartment(ctx context.Context, department string) (int, error) {
	department = strings.ToUpper(strings.TrimSpace(department))
	if department == "" {
		return 0, errors.ErrInvalidInput
	}

	courses, err := s.fetchDepartmentPage(ctx, department)
	if err != nil {
		return 0, err
	}
	if len(courses) == 0 {
		return 0, errors.Wrap("catalog", "scrape department", errors.ErrNotFound,
			"no undergraduate courses found for "+department)
	}

	run := &scrapeRun{department: department, saved: make(map[string]bool)}

	for _, course := range courses {
		if err := s.saveCourse(ctx, run, course); err != nil {
			return run.count, err
		}
		if err := s.chaseRequisites(ctx, run, course); err != nil {
			return run.count, err
		}
	}

	s.log.WithFields(map[string]any{
		"department": department,
		"courses":    run.count,
	}).Info("department catalog ingested")

	return run.count, nil
}

// scrapeRun tracks state across one ScrapeDepartment call: the root
// department, which codes were already written, the next position, and a
// cache of fetched foreign department pages.
type scrapeRun struct {
	department string
	saved      map[string]bool
	position   int
	count      int
	pages      map[string][]ParsedCourse
}

func (s *Scraper) saveCourse(ctx context.Context, run *scrapeRun, course ParsedCourse) error {
	if run.saved[course.Code] {
		return nil
	}

	exists, err := s.store.CourseExists(ctx, run.department, course.Code)
	if err != nil {
		return err
	}
	if exists {
		run.saved[course.Code] = true
		return nil
	}

	err = s.store.SaveCourse(ctx, &storage.Course{
		Department:    run.department,
		Code:          course.Code,
		Name:          course.Name,
		Prerequisites: FormatPrerequisites(course.Prereqs, course.Description),
		Corequisites:  FormatCorequisites(course.Coreqs),
		Description:   course.Description,
		Position:      run.position,
	})
	if err != nil {
		return err
	}
	run.saved[course.Code] = true
	run.position++
	run.count++
	return nil
}

// chaseRequisites pulls requisite courses that live in other departments so
// they appear in the stored catalog too. Failures on a foreign department are
// logged and skipped; they must not sink the main ingest.
func (s *Scraper) chaseRequisites(ctx context.Context, run *scrapeRun, course ParsedCourse) error {
	reqs := append(append([]string(nil), course.Prereqs...), course.Coreqs...)

	for _, code := range reqs {
		subject, _, found := strings.Cut(code, " ")
		if !found || subject == run.department {
			continue
		}
		if run.saved[code] {
			continue
		}
		exists, err := s.store.CourseExists(ctx, run.department, code)
		if err != nil {
			return err
		}
		if exists {
			run.saved[code] = true
			continue
		}

		foreign, err := s.foreignPage(ctx, run, subject)
		if err != nil {
			s.log.WithError(err).WithFields(map[string]any{
				"subject": subject,
				"course":  code,
			}).Warn("could not fetch requisite department, skipping")
			continue
		}

		matched := false
		for _, fc := range foreign {
			if stringutil.NormalizeCode(fc.Code) != code {
				continue
			}
			matched = true
			if err := s.saveCourse(ctx, run, fc); err != nil {
				return err
			}
			// Requisites of the requisite come along too.
			if err := s.chaseRequisites(ctx, run, fc); err != nil {
				return err
			}
			break
		}
		if !matched {
			s.log.WithFields(map[string]any{
				"subject": subject,
				"course":  code,
			}).Warn("requisite course not found on its department page")
		}
	}

	return nil
}

// foreignFetchDelay spaces out chased department fetches so a recursive
// ingest does not hammer the catalog site.
const foreignFetchDelay = 150 * time.Millisecond

// foreignPage fetches and parses another department's page, memoized per run.
func (s *Scraper) foreignPage(ctx context.Context, run *scrapeRun, subject string) ([]ParsedCourse, error) {
	if run.pages == nil {
		run.pages = make(map[string][]ParsedCourse)
	}
	if courses, ok := run.pages[subject]; ok {
		return courses, nil
	}
	if err := scraper.Sleep(ctx, foreignFetchDelay); err != nil {
		return nil, err
	}
	courses, err := s.fetchDepartmentPage(ctx, subject)
	if err != nil {
		return nil, err
	}
	run.pages[subject] = courses
	return courses, nil
}

// fetchDepartmentPage downloads and parses one department page. Concurrent
// requests for the same department share a single fetch.
func (s *Scraper) fetchDepartmentPage(ctx context.Context, department string) ([]ParsedCourse, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, strings.ToLower(department))

	result, err := s.flight.Do(ctx, department, func() (interface{}, error) {
		start := time.Now()
		doc, err := s.client.GetDocument(ctx, url)
		if err != nil {
			s.metrics.RecordScraperRequest("error", time.Since(start).Seconds())
			return nil, &errors.ScraperError{URL: url, Err: err}
		}
		s.metrics.RecordScraperRequest("success", time.Since(start).Seconds())
		return ParsePage(doc, s.splitter), nil
	})
	if err != nil {
		s.flight.Forget(department)
		return nil, err
	}

	courses, _ := result.([]ParsedCourse)
	return courses, nil
}
