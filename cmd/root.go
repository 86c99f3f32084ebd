package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phage-sim/phage-sim/sim"
	"github.com/phage-sim/phage-sim/sim/export"
	"github.com/phage-sim/phage-sim/sim/trace"
)

// Output formats accepted by --format.
const (
	FormatNone   = "none"
	FormatTSV    = "tsv"
	FormatSQLite = "sqlite"
)

const defaultDBPath = "phage-sim.db"

var (
	// CLI flags for the run
	seed             int64  // RNG seed
	logLevel         string // Log verbosity level
	paramsPath       string // Parameter file (four-line text or YAML)
	initialPhages    int    // Free phages at t=0
	initialBacteria  int    // Bacteria at t=0
	maxSteps         int64  // Ceiling on examined events
	outputPath       string // Series file prefix or database path
	outputFormat     string // none, tsv or sqlite
	traceLevel       string // none or events
	metricsAddr      string // Address to serve Prometheus metrics on
	switchAccounting string // additive or subtractive
	printSummary     bool   // Print a summary of the recorded series
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "phage-sim",
	Short: "Stochastic simulator of bacteria and lambda phage co-evolution",
}

// runCmd executes the simulation using parameters from the params file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the co-evolution simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd.Flags().Changed)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q (valid: none, events)", traceLevel)
		}

		startTime := time.Now()
		res, err := runSimulation(cfg, runOptions{
			Format:      outputFormat,
			Trace:       trace.TraceLevel(traceLevel),
			MetricsAddr: metricsAddr,
			Summary:     printSummary,
		}, os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete: %s in %s", res.Outcome, time.Since(startTime).Round(time.Millisecond))
	},
}

// paramsCmd validates a parameter file and prints the resolved configuration
var paramsCmd = &cobra.Command{
	Use:   "params [file]",
	Short: "Validate a parameter file and print the resolved configuration as YAML",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := sim.DefaultConfig()
		if len(args) == 1 {
			var err error
			if cfg, err = LoadParams(args[0]); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := WriteParams(os.Stdout, cfg); err != nil {
			logrus.Fatalf("Failed to print params: %v", err)
		}
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveConfig layers the params file over the defaults, then applies the
// flags the user set explicitly. changed reports whether a flag was given.
func resolveConfig(changed func(name string) bool) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if paramsPath != "" {
		var err error
		if cfg, err = LoadParams(paramsPath); err != nil {
			return sim.Config{}, err
		}
	}

	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("phages") {
		cfg.Population.InitialPhages = initialPhages
	}
	if changed("bacteria") {
		cfg.Population.InitialBacteria = initialBacteria
	}
	if changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if changed("output") {
		cfg.OutputPath = outputPath
	}
	if changed("switch-accounting") {
		cfg.SwitchAccounting = sim.SwitchAccounting(switchAccounting)
	}

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}

// runOptions selects the sinks attached to a run.
type runOptions struct {
	Format      string
	Trace       trace.TraceLevel
	MetricsAddr string
	Summary     bool
}

// runSimulation wires the requested sinks, runs cfg to completion and writes
// the report to stdout. Sinks are closed before returning.
func runSimulation(cfg sim.Config, opts runOptions, stdout io.Writer) (res sim.RunResult, err error) {
	var observers sim.Observers

	if opts.Trace == trace.TraceLevelEvents {
		observers = append(observers, trace.NewLineWriter(stdout))
	}

	var series *trace.Series
	if opts.Summary {
		series = trace.NewSeries()
		observers = append(observers, series)
	}

	var store *export.SQLiteStore
	switch opts.Format {
	case FormatNone, "":
	case FormatTSV:
		w, werr := export.NewTSVWriter(cfg.OutputPath)
		if werr != nil {
			return res, werr
		}
		defer func() { err = errors.Join(err, w.Close()) }()
		observers = append(observers, w)
	case FormatSQLite:
		path := cfg.OutputPath
		if path == "" {
			path = defaultDBPath
		}
		if store, err = export.OpenSQLite(path); err != nil {
			return res, err
		}
		defer func() { err = errors.Join(err, store.Close()) }()
		if _, err = store.BeginRun(cfg); err != nil {
			return res, err
		}
		observers = append(observers, store)
	default:
		return res, fmt.Errorf("unknown output format %q (valid: none, tsv, sqlite)", opts.Format)
	}

	if opts.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		gauges, gerr := export.NewGauges(reg)
		if gerr != nil {
			return res, gerr
		}
		observers = append(observers, gauges)
		srv := serveMetrics(opts.MetricsAddr, reg)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	s, err := sim.NewSimulator(cfg, sim.WithObserver(observers))
	if err != nil {
		return res, err
	}
	res, err = s.Run()
	if err != nil {
		return res, err
	}

	if store != nil {
		if err = store.Finish(res); err != nil {
			return res, err
		}
	}
	s.Metrics.Print(stdout, res)
	if series != nil {
		printSeriesSummary(stdout, trace.Summarize(series))
	}
	return res, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Metrics server on %s stopped: %v", addr, err)
		}
	}()
	logrus.Infof("Serving metrics on http://%s/metrics", addr)
	return srv
}

func printSeriesSummary(w io.Writer, sum *trace.SeriesSummary) {
	fmt.Fprintln(w, "=== Series Summary ===")
	fmt.Fprintf(w, "Points               : %d\n", sum.Points)
	fmt.Fprintf(w, "Peak Bacteria        : %d\n", sum.PeakBacteria)
	fmt.Fprintf(w, "Peak Phages          : %d\n", sum.PeakPhages)
	fmt.Fprintf(w, "Infected %% (max/mean): %.2f / %.2f\n", sum.MaxInfectedPercent, sum.MeanInfectedPercent)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the random stream")
	runCmd.Flags().StringVar(&paramsPath, "params", "", "Parameter file: four lines (phages, bacteria, max steps, output prefix) or YAML")

	// Population and budget, override the params file when set
	runCmd.Flags().IntVar(&initialPhages, "phages", 100, "Initial free phages")
	runCmd.Flags().IntVar(&initialBacteria, "bacteria", 200, "Initial bacteria")
	runCmd.Flags().Int64Var(&maxSteps, "max-steps", 50_000_000, "Maximum number of examined events")
	runCmd.Flags().StringVar(&switchAccounting, "switch-accounting", string(sim.AccountingAdditive), "Phage trait accounting on lysis (additive, subtractive)")

	// Output
	runCmd.Flags().StringVar(&outputPath, "output", "", "Series file prefix (tsv) or database path (sqlite)")
	runCmd.Flags().StringVar(&outputFormat, "format", FormatNone, "Observation export format (none, tsv, sqlite)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Per-event trace lines on stdout (none, events)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	runCmd.Flags().BoolVar(&printSummary, "summary", false, "Record the series in memory and print a summary")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(paramsCmd)
}
