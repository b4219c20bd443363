package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/internal/config"
	"github.com/okian/kitcheck/internal/domain/kits"
	"github.com/okian/kitcheck/pkg/logger"
)

// Output formats for check.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

type checkOptions struct {
	team1    kits.TeamKits
	team2    kits.TeamKits
	deltaE   float64
	contrast float64
	output   string
	logLevel string
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Analyze two teams' kits locally",
		Long: `Analyze two teams' kits without a server. Team1's homekit is tried against
every team2 kit, then team1's alternates are tried.

Exit status is 0 when a non-conflicting pairing was found, 2 when every
combination clashes and 1 on invalid input.`,
		Example: `  kitcheck check --team1-home "#FF0000" --team2-home "#CC0000" --team2-away "#0000FF"
  kitcheck check --team1-home "#000" --team2-home "#fff" --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.team1.HomeKit, "team1-home", "", "Team1 homekit color (required)")
	f.StringVar(&opts.team1.AwayKit, "team1-away", "", "Team1 awaykit color")
	f.StringVar(&opts.team1.ThirdKit, "team1-third", "", "Team1 thirdkit color")
	f.StringVar(&opts.team2.HomeKit, "team2-home", "", "Team2 homekit color (required)")
	f.StringVar(&opts.team2.AwayKit, "team2-away", "", "Team2 awaykit color")
	f.StringVar(&opts.team2.ThirdKit, "team2-third", "", "Team2 thirdkit color")
	f.Float64Var(&opts.deltaE, "delta-e", config.DefaultDeltaEThreshold, "Baseline deltaE threshold")
	f.Float64Var(&opts.contrast, "contrast", config.DefaultContrastThreshold, "Baseline contrast threshold")
	f.StringVarP(&opts.output, "output", "o", OutputText, "Output format: text, json or yaml")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	ctx := cmd.Context()
	format := strings.ToLower(opts.output)
	render, ok := renderers[format]
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

	req := service.AnalyzeRequest{Team1: &opts.team1, Team2: &opts.team2}
	flags := cmd.Flags()
	if flags.Changed("delta-e") {
		req.DeltaEThreshold = &opts.deltaE
	}
	if flags.Changed("contrast") {
		req.ContrastThreshold = &opts.contrast
	}

	svc := service.New(service.WithDefaultThresholds(cfg.DeltaEThreshold, cfg.ContrastThreshold))
	report := svc.Analyze(ctx, req)

	if err := render(cmd.OutOrStdout(), report); err != nil {
		return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("render report: %w", err)}
	}
	return exitFor(report)
}

// exitFor maps a report status to a command result.
func exitFor(r service.Report) error {
	switch r.Status {
	case service.StatusOK:
		return nil
	case service.StatusConflict:
		return &ExitCodeError{Code: ExitConflict}
	default:
		return &ExitCodeError{Code: ExitError}
	}
}

type renderer func(w io.Writer, r service.Report) error

var renderers = map[string]renderer{
	OutputText: renderText,
	OutputJSON: renderJSON,
	OutputYAML: renderYAML,
}
