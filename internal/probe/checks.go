package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/lightswitch/pkg/logger"
)

// ErrCheckFailed marks a probe step whose response did not match expectations.
var ErrCheckFailed = errors.New("check failed")

// recorder collects checks from concurrent steps.
type recorder struct {
	mu     sync.Mutex
	checks []Check
}

func (r *recorder) record(name string, start time.Time, err error) {
	c := Check{Name: name, Passed: err == nil, Err: err, Duration: time.Since(start)}
	if err != nil {
		c.Detail = err.Error()
	}
	r.mu.Lock()
	r.checks = append(r.checks, c)
	r.mu.Unlock()
}

// checkEndpoints fetches the endpoint directory and requires every entry to be
// complete.
func checkEndpoints(ctx context.Context, client *HTTPClient, rec *recorder) []Endpoint {
	start := time.Now()
	var endpoints []Endpoint
	err := client.GetJSON(ctx, routeEndpoints, &endpoints)
	if err == nil && len(endpoints) == 0 {
		err = fmt.Errorf("%w: endpoint directory is empty", ErrCheckFailed)
	}
	for _, e := range endpoints {
		if err != nil {
			break
		}
		if e.Method == "" || e.Route == "" || e.Description == "" {
			err = fmt.Errorf("%w: incomplete descriptor %+v", ErrCheckFailed, e)
		}
	}
	rec.record("GET "+routeEndpoints, start, err)
	return endpoints
}

// checkGetRoutes calls every listed GET route that needs no parameters.
func checkGetRoutes(ctx context.Context, client *HTTPClient, endpoints []Endpoint, rec *recorder) {
	for _, e := range endpoints {
		if e.Method != http.MethodGet || e.Route == routeDownload {
			continue
		}
		start := time.Now()
		code, err := client.Status(ctx, http.MethodGet, e.Route)
		if err == nil && code != http.StatusOK {
			err = fmt.Errorf("%w: status %d", ErrCheckFailed, code)
		}
		rec.record("GET "+e.Route, start, err)
	}
}

// listFiles fetches the file listing.
func listFiles(ctx context.Context, client *HTTPClient, rec *recorder) []FileEntry {
	start := time.Now()
	var files []FileEntry
	err := client.GetJSON(ctx, routeFiles, &files)
	rec.record("list files", start, err)
	return files
}

// downloadFiles downloads every listed file with at most workers requests in
// flight. It returns the number of files and bytes received.
func downloadFiles(ctx context.Context, client *HTTPClient, files []FileEntry, workers int, verbose bool, rec *recorder) (int, uint64, error) {
	var (
		downloaded atomic.Int64
		bytes      atomic.Uint64
	)

	// Failures do not cancel siblings; every file gets its own check.
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for _, f := range files {
		g.Go(func() error {
			start := time.Now()
			n, err := downloadOne(ctx, client, f)
			rec.record("download "+f.Name, start, err)
			if err != nil {
				return fmt.Errorf("download %s: %w", f.Name, err)
			}
			downloaded.Add(1)
			bytes.Add(n)
			if verbose {
				logger.Get().Debug(ctx, "downloaded file", logger.String("name", f.Name), logger.Int64("bytes", int64(n)))
			}
			return nil
		})
	}
	err := g.Wait()
	return int(downloaded.Load()), bytes.Load(), err
}

func downloadOne(ctx context.Context, client *HTTPClient, f FileEntry) (uint64, error) {
	resp, err := client.Do(ctx, http.MethodGet, f.DownloadURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrCheckFailed, resp.StatusCode)
	}
	if resp.Header.Get("Content-Disposition") == "" {
		return 0, fmt.Errorf("%w: missing Content-Disposition", ErrCheckFailed)
	}
	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read body: %w", err)
	}
	return uint64(n), nil
}

// checkDownloadErrors verifies the 400 and 404 download responses.
func checkDownloadErrors(ctx context.Context, client *HTTPClient, rec *recorder) {
	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"download without name", routeDownload, http.StatusBadRequest},
		{"download missing file", routeDownload + "?name=" + url.QueryEscape(missingFileName), http.StatusNotFound},
	}
	for _, tc := range cases {
		start := time.Now()
		code, err := client.Status(ctx, http.MethodGet, tc.path)
		if err == nil && code != tc.status {
			err = fmt.Errorf("%w: status %d, want %d", ErrCheckFailed, code, tc.status)
		}
		rec.record(tc.name, start, err)
	}
}

// checkRestart posts a restart and waits until the service stops answering.
func checkRestart(ctx context.Context, client *HTTPClient, wait time.Duration, rec *recorder) {
	start := time.Now()
	err := restartAndWait(ctx, client, wait)
	rec.record("POST "+routeRestart, start, err)
}

func restartAndWait(ctx context.Context, client *HTTPClient, wait time.Duration) error {
	code, err := client.Status(ctx, http.MethodPost, routeRestart)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrCheckFailed, code)
	}

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	ticker := time.NewTicker(restartPollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: service still answering after %s", ErrCheckFailed, wait)
		case <-ticker.C:
			if _, err := client.Status(ctx, http.MethodGet, routeStatus); err != nil {
				if ctx.Err() != nil {
					return fmt.Errorf("%w: service still answering after %s", ErrCheckFailed, wait)
				}
				return nil
			}
		}
	}
}
