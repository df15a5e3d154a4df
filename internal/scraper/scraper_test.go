package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		fmt.Fprint(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 0)
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 5)
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_ = resp.Body.Close()
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestGetDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 5)
	_, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error for 404")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1 (no retries on 404)", got)
	}
}

func TestGetDocumentParsesHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="courseblocktitle">CSE 1310. INTRO.</div></body></html>`)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 0)
	doc, err := c.GetDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got := doc.Find(".courseblocktitle").Text(); got != "CSE 1310. INTRO." {
		t.Errorf("parsed text = %q", got)
	}
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	calls := 0
	wantErr := errors.New("gone")
	err := RetryWithBackoff(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return &permanentError{err: wantErr}
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetryWithBackoffRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, 3, time.Second, func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSleepWaitsOutTheDelay(t *testing.T) {
	start := time.Now()
	if err := Sleep(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Sleep() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("returned after %v, want at least 10ms", elapsed)
	}
}

func TestSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFlightGroupDeduplicates(t *testing.T) {
	fg := NewFlightGroup()

	var executions atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]interface{}, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := fg.Do(context.Background(), "dept:CSE", func() (interface{}, error) {
				executions.Add(1)
				<-release
				return "catalog", nil
			})
			if err != nil {
				t.Errorf("Do() error = %v", err)
			}
			results[i] = v
		}(i)
	}

	// Give the goroutines a moment to pile onto the same key.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Errorf("fn executed %d times, want 1", got)
	}
	for i, v := range results {
		if v != "catalog" {
			t.Errorf("results[%d] = %v, want catalog", i, v)
		}
	}
}
