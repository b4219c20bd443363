package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/kitcheck/internal/adapters/mq/queue"
	"github.com/okian/kitcheck/internal/adapters/mq/worker"
	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/internal/config"
	"github.com/okian/kitcheck/pkg/logger"
)

// ErrNoFixtures is returned for a fixture file without fixtures.
var ErrNoFixtures = errors.New("fixture file lists no fixtures")

// FixtureFile is the batch input. File-level thresholds apply to every
// fixture that does not set its own.
type FixtureFile struct {
	DeltaEThreshold   *float64  `yaml:"deltaE_threshold"`
	ContrastThreshold *float64  `yaml:"contrast_threshold"`
	Fixtures          []Fixture `yaml:"fixtures"`
}

// Fixture is one named analysis request.
type Fixture struct {
	Name                   string `yaml:"name"`
	service.AnalyzeRequest `yaml:",inline"`
}

// BatchSummary counts batch outcomes.
type BatchSummary struct {
	Fixtures  int `json:"fixtures" yaml:"fixtures"`
	OK        int `json:"ok" yaml:"ok"`
	Conflicts int `json:"conflicts" yaml:"conflicts"`
	Errors    int `json:"errors" yaml:"errors"`
}

// BatchOutput is what the batch command prints.
type BatchOutput struct {
	Summary BatchSummary    `json:"summary" yaml:"summary"`
	Results []worker.Result `json:"results" yaml:"results"`
}

type batchOptions struct {
	workers  int
	output   string
	logLevel string
}

func newBatchCmd() *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Analyze a file of fixtures concurrently",
		Long: `Analyze every fixture listed in a YAML (or JSON) file over a pool of
workers. Use "-" to read from standard input.

Exit status is 1 when any fixture is invalid, otherwise 2 when any fixture
has no clash-free pairing, otherwise 0.`,
		Example: `  kitcheck batch fixtures.yaml --workers 8
  cat fixtures.yaml | kitcheck batch - -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.workers, "workers", 4, "Number of concurrent workers")
	f.StringVarP(&opts.output, "output", "o", OutputText, "Output format: text, json or yaml")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")
	return cmd
}

func runBatch(cmd *cobra.Command, path string, opts *batchOptions) error {
	ctx := cmd.Context()
	render, ok := batchRenderers[strings.ToLower(opts.output)]
	if !ok {
		return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("unknown output format %q", opts.output)}
	}
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr()), logger.WithLevel(opts.logLevel)); err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}

	file, err := readFixtures(cmd.InOrStdin(), path)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}

	svc := service.New(
		service.WithDefaultThresholds(cfg.DeltaEThreshold, cfg.ContrastThreshold),
		service.WithEvaluationCache(newEvalCache(cfg)),
	)
	out, err := AnalyzeFixtures(ctx, svc, file, opts.workers)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}

	if err := render(cmd.OutOrStdout(), out); err != nil {
		return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("render batch: %w", err)}
	}
	switch {
	case out.Summary.Errors > 0:
		return &ExitCodeError{Code: ExitError}
	case out.Summary.Conflicts > 0:
		return &ExitCodeError{Code: ExitConflict}
	}
	return nil
}

func readFixtures(stdin io.Reader, path string) (*FixtureFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(file.Fixtures) == 0 {
		return nil, ErrNoFixtures
	}
	return &file, nil
}

// AnalyzeFixtures runs every fixture through analyzer on a worker pool and
// returns the results in input order.
func AnalyzeFixtures(ctx context.Context, analyzer worker.Analyzer, file *FixtureFile, workers int) (BatchOutput, error) {
	q := queue.NewInMemoryQueue(queue.WithCapacity(len(file.Fixtures)))
	for i, fx := range file.Fixtures {
		req := fx.AnalyzeRequest
		if req.DeltaEThreshold == nil {
			req.DeltaEThreshold = file.DeltaEThreshold
		}
		if req.ContrastThreshold == nil {
			req.ContrastThreshold = file.ContrastThreshold
		}
		name := fx.Name
		if name == "" {
			name = fmt.Sprintf("fixture %d", i+1)
		}
		if !q.Enqueue(ctx, queue.Job{Index: i, Name: name, Request: req}) {
			return BatchOutput{}, fmt.Errorf("enqueue %s: queue rejected the fixture", name)
		}
	}
	_ = q.Close()

	results := &worker.Results{}
	pool := worker.NewPool(workers, q, analyzer, results)
	pool.Start(ctx)
	if err := pool.Wait(ctx); err != nil {
		_ = pool.Shutdown(context.WithoutCancel(ctx))
		return BatchOutput{}, err
	}

	out := BatchOutput{Results: results.Sorted()}
	out.Summary.Fixtures = len(out.Results)
	for _, r := range out.Results {
		switch r.Report.Status {
		case service.StatusOK:
			out.Summary.OK++
		case service.StatusConflict:
			out.Summary.Conflicts++
		default:
			out.Summary.Errors++
		}
	}
	return out, nil
}

type batchRenderer func(w io.Writer, out BatchOutput) error

var batchRenderers = map[string]batchRenderer{
	OutputText: renderBatchText,
	OutputJSON: func(w io.Writer, out BatchOutput) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
	OutputYAML: func(w io.Writer, out BatchOutput) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	},
}

// renderBatchText prints one line per fixture and a summary line.
func renderBatchText(w io.Writer, out BatchOutput) error {
	var b strings.Builder
	for _, r := range out.Results {
		rep := r.Report
		switch rep.Status {
		case service.StatusOK:
			fmt.Fprintf(&b, "%-8s %-28s %s %-8s vs %s %s\n", okStyle.Render("OK"), r.Name,
				swatch(rep.Team1Color), rep.Team1KitUsed, swatch(rep.Team2Color), rep.Team2KitUsed)
		case service.StatusConflict:
			fmt.Fprintf(&b, "%-8s %-28s %s\n", conflictStyle.Render("CONFLICT"), r.Name, dimStyle.Render(rep.Message))
		default:
			fmt.Fprintf(&b, "%-8s %-28s %s\n", conflictStyle.Render("ERROR"), r.Name, rep.Error)
		}
	}
	fmt.Fprintf(&b, "\n%s %d fixtures: %d ok, %d conflicts, %d errors\n",
		headerStyle.Render("summary"), out.Summary.Fixtures, out.Summary.OK, out.Summary.Conflicts, out.Summary.Errors)
	_, err := io.WriteString(w, b.String())
	return err
}
