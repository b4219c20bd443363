// Package probe smoke-tests a running kitcheck server by submitting a fixed
// catalog of kit scenarios and comparing each outcome with its expectation.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/pkg/logger"
)

// outcome is the decoded part of an analysis response.
type outcome struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Run checks /healthz, then submits the catalog cfg.Repeat times over a
// worker pool. The summary is returned even when the run fails.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	return RunScenarios(ctx, cfg, Catalog)
}

// RunScenarios is Run with a caller-supplied scenario set.
func RunScenarios(ctx context.Context, cfg *Config, scenarios []Scenario) (*Summary, error) {
	const op = "probe.run"
	cfg.normalize()
	log := logger.Get().Named("probe")
	start := time.Now()

	log.Info(ctx, "starting kitcheck probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("scenarios", len(scenarios)),
		logger.Int("repeat", cfg.Repeat),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
	)

	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkHealth(ctx, client); err != nil {
		return &Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	summary := submit(ctx, cfg, client, scenarios, log)
	summary.Duration = time.Since(start)

	log.Info(ctx, "probe finished",
		logger.Any("submitted", summary.Submitted),
		logger.Any("passed", summary.Passed),
		logger.Any("failed", summary.Failed),
		logger.Any("transportErrors", summary.TransportErrors),
		logger.String("duration", summary.Duration.String()),
	)

	switch {
	case summary.Failed > 0:
		return summary, fmt.Errorf("%s: %w: %d of %d requests", op, ErrUnexpectedStatus, summary.Failed, summary.Submitted)
	case summary.TransportErrors > 0:
		return summary, fmt.Errorf("%s: %w: %d of %d requests", op, ErrTransport, summary.TransportErrors, summary.Submitted)
	}
	return summary, nil
}

// checkHealth verifies the service is running.
func checkHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// submit fans the scenarios out over cfg.Workers goroutines.
func submit(ctx context.Context, cfg *Config, client *HTTPClient, scenarios []Scenario, log logger.Logger) *Summary {
	var (
		submitted atomic.Int64
		passed    atomic.Int64
		failed    atomic.Int64
		transport atomic.Int64

		mu       sync.Mutex
		failures []Failure
	)

	jobs := make(chan Scenario, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				submitted.Add(1)
				f, err := check(ctx, client, sc)
				switch {
				case err != nil:
					transport.Add(1)
				case f != nil:
					failed.Add(1)
				default:
					passed.Add(1)
				}
				if f == nil && err == nil {
					if cfg.Verbose {
						log.Debug(ctx, "scenario passed", logger.String("scenario", sc.Name))
					}
					continue
				}
				if f == nil {
					f = &Failure{Scenario: sc.Name, WantStatus: sc.WantStatus, WantCode: sc.WantCode, Err: err.Error()}
				}
				log.Warn(ctx, "scenario failed",
					logger.String("scenario", f.Scenario),
					logger.String("requestID", f.RequestID),
					logger.String("wantStatus", f.WantStatus),
					logger.String("gotStatus", f.GotStatus),
					logger.Int("gotCode", f.GotCode),
				)
				mu.Lock()
				if len(failures) < maxRecordedFailures {
					failures = append(failures, *f)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for r := 0; r < cfg.Repeat; r++ {
		for _, sc := range scenarios {
			select {
			case <-ctx.Done():
				break feed
			case jobs <- sc:
			}
		}
	}
	close(jobs)
	wg.Wait()

	return &Summary{
		Submitted:       submitted.Load(),
		Passed:          passed.Load(),
		Failed:          failed.Load(),
		TransportErrors: transport.Load(),
		Failures:        failures,
	}
}

// check submits one scenario. It returns a Failure on mismatch and an error
// only when no response was received.
func check(ctx context.Context, client *HTTPClient, sc Scenario) (*Failure, error) {
	resp, err := client.PostJSON(ctx, "/analyze", sc.Request)
	if err != nil {
		return nil, err
	}

	var out outcome
	got := ""
	if json.Unmarshal(resp.Body, &out) == nil {
		got = out.Status
		if got == "" && out.Error != "" {
			got = service.StatusError
		}
	}
	if resp.StatusCode == sc.WantCode && got == sc.WantStatus {
		return nil, nil
	}
	return &Failure{
		Scenario:   sc.Name,
		RequestID:  resp.RequestID,
		WantStatus: sc.WantStatus,
		GotStatus:  got,
		WantCode:   sc.WantCode,
		GotCode:    resp.StatusCode,
	}, nil
}
