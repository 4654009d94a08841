// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"encoding/json"
	"io"
	"math/rand"
	"path/filepath"
	"strconv"

	"github.com/db47h/bnnbench/bench"
	"github.com/db47h/bnnbench/dut"
	"github.com/db47h/bnnbench/sim"
	"github.com/db47h/bnnbench/vectors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunOptions holds the flags of the run command.
type RunOptions struct {
	Vectors        string
	Config         string
	Period         uint64
	ResetCycles    int
	SettleCycles   int
	ClockStartHigh bool
	MaxTime        uint64
	Weights        string
	Threshold      int
	Combinational  bool
	Shuffle        int64
	Session        string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}
	def := DefaultFileConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a verification session against the reference classifier",
		Long: `Run a verification session: start the clock, hold reset, then apply every
test vector and check the decision bit of uo_out.

Flags override the values read from the configuration file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Vectors, "vectors", "", "test vector file (default: built-in patient table)")
	f.StringVar(&opts.Config, "config", "", "YAML configuration file")
	f.Uint64Var(&opts.Period, "period", uint64(def.Bench.Period), "clock period, must be even")
	f.IntVar(&opts.ResetCycles, "reset-cycles", def.Bench.ResetCycles, "clock cycles during which reset is held")
	f.IntVar(&opts.SettleCycles, "settle-cycles", def.Bench.SettleCycles, "clock cycles between the input change and sampling")
	f.BoolVar(&opts.ClockStartHigh, "clock-start-high", def.Bench.ClockStartHigh, "start the clock with a high phase")
	f.Uint64Var(&opts.MaxTime, "max-time", uint64(def.Bench.MaxTime), "simulation time limit, 0 for none")
	f.StringVar(&opts.Weights, "weights", "0xFF", "classifier weights, one bit per input")
	f.IntVar(&opts.Threshold, "threshold", def.DUT.Threshold, "classifier threshold")
	f.BoolVar(&opts.Combinational, "combinational", false, "use a classifier without output register")
	f.Int64Var(&opts.Shuffle, "shuffle", 0, "shuffle the vectors with the given seed")
	f.StringVar(&opts.Session, "session", "", "session ID (default: random UUID)")
	_ = f.MarkHidden("session")

	return cmd
}

// resolve builds the session configuration from the configuration file and
// the flags that were explicitly set.
func (opts *RunOptions) resolve(cmd *cobra.Command) (FileConfig, error) {
	c, err := LoadConfigFile(opts.Config)
	if err != nil {
		return c, err
	}
	if c.Vectors != "" && !filepath.IsAbs(c.Vectors) {
		c.Vectors = filepath.Join(filepath.Dir(opts.Config), c.Vectors)
	}
	f := cmd.Flags()
	if f.Changed("vectors") {
		c.Vectors = opts.Vectors
	}
	if f.Changed("period") {
		c.Bench.Period = sim.Time(opts.Period)
	}
	if f.Changed("reset-cycles") {
		c.Bench.ResetCycles = opts.ResetCycles
	}
	if f.Changed("settle-cycles") {
		c.Bench.SettleCycles = opts.SettleCycles
	}
	if f.Changed("clock-start-high") {
		c.Bench.ClockStartHigh = opts.ClockStartHigh
	}
	if f.Changed("max-time") {
		c.Bench.MaxTime = sim.Time(opts.MaxTime)
	}
	if f.Changed("weights") {
		w, err := strconv.ParseUint(opts.Weights, 0, 8)
		if err != nil {
			return c, errors.Errorf("invalid weights %q: must be an 8 bits unsigned integer", opts.Weights)
		}
		c.DUT.Weights = uint8(w)
	}
	if f.Changed("threshold") {
		c.DUT.Threshold = opts.Threshold
	}
	if f.Changed("combinational") {
		c.DUT.Registered = !opts.Combinational
	}
	if err := c.Bench.Validate(); err != nil {
		return c, err
	}
	return c, c.DUT.Validate()
}

func loadTable(name string) (vectors.Table, error) {
	if name == "" {
		return vectors.Default(), nil
	}
	return vectors.LoadFile(name)
}

func runRun(rootOpts *RootOptions, opts *RunOptions, cmd *cobra.Command) error {
	c, err := opts.resolve(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	table, err := loadTable(c.Vectors)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load vectors", err)
	}
	if cmd.Flags().Changed("shuffle") {
		table = table.Shuffle(rand.New(rand.NewSource(opts.Shuffle)))
	}

	log := newLogger(rootOpts, cmd.ErrOrStderr())
	r, err := bench.Verify(table, dut.Attach(c.DUT), c.Bench,
		bench.WithLogger(log), bench.WithSession(opts.Session))

	if werr := writeResult(cmd.OutOrStdout(), rootOpts.Format, r); werr != nil {
		return WrapExitError(ExitCommandError, "failed to write report", werr)
	}
	if err != nil {
		var se *bench.SetupError
		if errors.As(err, &se) {
			return WrapExitError(ExitCommandError, "setup failed", err)
		}
		return WrapExitError(ExitFailure, "verification failed", err)
	}
	return nil
}

// VerdictJSON is the JSON form of a bench.Verdict.
type VerdictJSON struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	Input    string `json:"input"`
	Observed uint8  `json:"observed"`
	Expected uint8  `json:"expected"`
	Match    bool   `json:"match"`
}

// ResultJSON is the JSON form of a bench.Result.
type ResultJSON struct {
	Session  string        `json:"session"`
	Status   bench.Status  `json:"status"`
	Verdicts []VerdictJSON `json:"verdicts"`
	FailedAt int           `json:"failed_at"`
	Error    string        `json:"error,omitempty"`
	SimTime  uint64        `json:"sim_time"`
	TimeUnit string        `json:"time_unit"`
}

func writeResult(w io.Writer, format string, r *bench.Result) error {
	if format != "json" {
		return r.WriteReport(w)
	}
	out := ResultJSON{
		Session:  r.Session,
		Status:   r.Status,
		Verdicts: make([]VerdictJSON, 0, len(r.Verdicts)),
		FailedAt: r.FailedAt,
		SimTime:  uint64(r.SimTime),
		TimeUnit: r.TimeUnit,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	for _, v := range r.Verdicts {
		out.Verdicts = append(out.Verdicts, VerdictJSON{
			Index:    v.Index,
			Name:     v.Vector.Name,
			Input:    v.Vector.Bin(),
			Observed: v.Observed,
			Expected: v.Vector.Expected,
			Match:    v.Match,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
