package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/scottbass3/imgprobe/internal/collect"
	"github.com/scottbass3/imgprobe/internal/config"
	"github.com/scottbass3/imgprobe/internal/inspect"
	"github.com/scottbass3/imgprobe/internal/probe"
	"github.com/scottbass3/imgprobe/internal/report"
	"github.com/scottbass3/imgprobe/internal/target"
	"github.com/scottbass3/imgprobe/internal/tui"
)

var Version = "dev"

type options struct {
	configPath  string
	timeout     time.Duration
	concurrency int
	jsonOutput  bool
	debug       bool
	noProgress  bool
	copyReport  bool
	version     bool
	root        string
}

func main() {
	opts := parseFlags()
	if opts.version {
		fmt.Printf("imgprobe %s\n", Version)
		return
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(run(opts, cfg))
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config file (defaults to $XDG_CONFIG_HOME/imgprobe/config.json)")
	flag.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (e.g. 5s)")
	flag.IntVar(&opts.concurrency, "concurrency", -1, "Maximum probes in flight (0 = unbounded)")
	flag.BoolVar(&opts.jsonOutput, "json", false, "Write the report as JSON")
	flag.BoolVar(&opts.debug, "debug", false, "Enable request logging")
	flag.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress spinner")
	flag.BoolVar(&opts.copyReport, "copy", false, "Copy the report to the clipboard")
	flag.BoolVar(&opts.version, "version", false, "Print version and exit")
	flag.Parse()

	opts.root = "."
	if flag.NArg() > 0 {
		opts.root = flag.Arg(0)
	}
	return opts
}

func resolveConfig(opts options) (config.Config, error) {
	path := opts.configPath
	allowMissing := false
	if path == "" {
		path = config.DefaultPath()
		allowMissing = true
	}

	cfg, err := config.Load(path, allowMissing)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timeout":
			cfg.Timeout = config.Duration(opts.timeout)
		case "concurrency":
			cfg.Concurrency = opts.concurrency
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(opts options, cfg config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	collected, err := collect.New(cfg, cwd).Walk(ctx, opts.root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, skipped := range collected.Skipped {
		fmt.Fprintf(os.Stderr, "skipped unreadable %s\n", skipped)
	}

	var logCh chan string
	logger := probe.RequestLogger(nil)
	if opts.debug {
		logCh = make(chan string, 256)
		logger = makeRequestLogger(logCh)
	}

	inspector := inspect.New(
		cfg.Concurrency,
		probe.NewRemote(cfg.Timeout.Std(), cfg.UserAgent, logger),
		probe.NewLocal(),
	)

	targets := collected.Targets.Targets()
	showProgress := !opts.jsonOutput && !opts.noProgress && len(targets) > 0 && isatty.IsTerminal(os.Stderr.Fd())

	var records []probe.Record
	if showProgress {
		records, err = runWithProgress(ctx, inspector, targets, opts.debug, logCh)
	} else {
		records = runPlain(ctx, inspector, targets, logCh)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rows := report.Aggregate(records, collected.Targets.Occurrences)
	if opts.jsonOutput {
		if err := report.WriteJSON(os.Stdout, rows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else {
		fmt.Println(report.RenderTable(rows))
	}

	if opts.copyReport {
		if err := report.CopyToClipboard(rows); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return 0
}

func runPlain(ctx context.Context, inspector *inspect.Inspector, targets []target.Target, logCh chan string) []probe.Record {
	drained := make(chan struct{})
	if logCh != nil {
		go func() {
			defer close(drained)
			for entry := range logCh {
				fmt.Fprintln(os.Stderr, entry)
			}
		}()
	} else {
		close(drained)
	}

	records := inspector.Run(ctx, targets, nil)
	if logCh != nil {
		close(logCh)
	}
	<-drained
	return records
}

func runWithProgress(ctx context.Context, inspector *inspect.Inspector, targets []target.Target, debug bool, logCh chan string) ([]probe.Record, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		tui.NewProgress(len(targets), debug, logCh),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)

	done := make(chan []probe.Record, 1)
	go func() {
		records := inspector.Run(ctx, targets, func(rec probe.Record) {
			program.Send(tui.ProbeDoneMsg{Target: rec.Target, OK: recordOK(rec)})
		})
		if logCh != nil {
			close(logCh)
		}
		program.Send(tui.FinishedMsg{})
		done <- records
	}()

	final, err := program.Run()
	if progress, ok := final.(tui.Progress); ok && progress.Interrupted() {
		cancel()
	}
	records := <-done
	if err != nil && ctx.Err() == nil {
		return records, fmt.Errorf("progress display: %w", err)
	}
	return records, nil
}

func recordOK(rec probe.Record) bool {
	for _, s := range rec.Status {
		if !s.IsOK() {
			return false
		}
	}
	return true
}
