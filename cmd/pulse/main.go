// Command pulse detects pulses in .dat recordings and reports the onset
// and integrated area of each one.
//
//	pulse [flags] <params.ini|params.json>
//	pulse -db <path> migrate up|down|status
//	pulse -db <path> runs
//	pulse -db <path> runs delete <run-id>
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/banshee-data/pulse.report/internal/batch"
	"github.com/banshee-data/pulse.report/internal/chart"
	"github.com/banshee-data/pulse.report/internal/config"
	"github.com/banshee-data/pulse.report/internal/db"
	"github.com/banshee-data/pulse.report/internal/fsutil"
	"github.com/banshee-data/pulse.report/internal/monitoring"
	"github.com/banshee-data/pulse.report/internal/recording"
	"github.com/banshee-data/pulse.report/internal/report"
	"github.com/banshee-data/pulse.report/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(1)
		}
		log.Fatalf("pulse: %v", err)
	}
}

// errUsage signals that usage was already printed.
var errUsage = errors.New("usage")

type options struct {
	root    string
	ext     string
	workers int
	format  string
	summary bool
	dbPath  string
	plotDir string
	htmlDir string
	quiet   bool
	version bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet("pulse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.root, "root", "", "directory to scan for recordings (default: current directory)")
	fs.StringVar(&opts.ext, "ext", recording.DefaultExt, "recording file extension")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "recordings analysed in parallel")
	fs.StringVar(&opts.format, "format", report.FormatText, "report format: text or json")
	fs.BoolVar(&opts.summary, "summary", false, "append run statistics to the report")
	fs.StringVar(&opts.dbPath, "db", "", "sqlite database to store the run in")
	fs.StringVar(&opts.plotDir, "plot", "", "directory for per-recording PNG plots")
	fs.StringVar(&opts.htmlDir, "html", "", "directory for per-recording HTML charts")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress diagnostic logging")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: pulse [flags] <params.ini|params.json>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, nil, errUsage
	}
	return opts, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	if len(rest) < 1 {
		fmt.Fprintln(stdout, "Missing parameters file")
		return errUsage
	}
	if opts.quiet {
		defer monitoring.Quiet()()
	}

	switch rest[0] {
	case "migrate":
		if opts.dbPath == "" {
			return errors.New("migrate requires -db")
		}
		return db.RunMigrateCommand(rest[1:], opts.dbPath, stdout)
	case "runs":
		if opts.dbPath == "" {
			return errors.New("runs requires -db")
		}
		return runsCommand(ctx, rest[1:], opts.dbPath, stdout)
	}

	reporter, err := report.New(opts.format)
	if err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	cfg, err := config.LoadParams(fsys, rest[0])
	if err != nil {
		return err
	}
	params, err := cfg.ToParams()
	if err != nil {
		return err
	}

	root := opts.root
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}
	paths, err := recording.Discover(fsys, root, opts.ext)
	if err != nil {
		return err
	}
	monitoring.Logf("found %d %s recordings under %s", len(paths), opts.ext, root)

	var sinks []batch.Sink
	if opts.dbPath != "" {
		store, err := db.NewDB(opts.dbPath)
		if err != nil {
			return fmt.Errorf("failed to open results database: %w", err)
		}
		defer store.Close()

		runID, err := store.RecordRun(ctx, db.Run{
			StartedAt: time.Now(),
			Root:      root,
			Version:   version.Version,
			Params:    params,
		})
		if err != nil {
			return err
		}
		monitoring.Logf("recording run %s in %s", runID, opts.dbPath)
		sinks = append(sinks, store.Sink(runID))
	}
	if opts.plotDir != "" {
		sinks = append(sinks, &chart.Writer{FS: fsys, Root: root, Dir: opts.plotDir, Kind: chart.KindPNG})
	}
	if opts.htmlDir != "" {
		sinks = append(sinks, &chart.Writer{FS: fsys, Root: root, Dir: opts.htmlDir, Kind: chart.KindHTML})
	}

	outcomes, err := batch.Run(ctx, fsys, paths, params, batch.Options{Workers: opts.workers, Sinks: sinks})
	if err != nil {
		return err
	}

	if err := reporter.Report(stdout, outcomes); err != nil {
		return err
	}
	if opts.summary {
		return report.WriteSummary(stdout, report.Summarise(outcomes))
	}
	return nil
}

func runsCommand(ctx context.Context, args []string, path string, w io.Writer) error {
	store, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to open results database: %w", err)
	}
	defer store.Close()

	switch {
	case len(args) == 0:
		return listRuns(ctx, store, w)
	case args[0] == "delete" && len(args) == 2:
		if err := store.DeleteRun(ctx, args[1]); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("run %s not found", args[1])
			}
			return err
		}
		fmt.Fprintf(w, "Deleted run %s\n", args[1])
		return nil
	}
	return fmt.Errorf("usage: pulse -db <path> runs [delete <run-id>]")
}

func listRuns(ctx context.Context, store *db.DB, w io.Writer) error {
	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	for _, r := range runs {
		recs, err := store.Recordings(ctx, r.RunID)
		if err != nil {
			return err
		}
		valid := 0
		for _, rec := range recs {
			if rec.Valid {
				valid++
			}
		}
		fmt.Fprintf(w, "%s  %s  %s  %d recordings (%d valid)  vt=%d width=%d\n",
			r.RunID, r.StartedAt.Format(time.RFC3339), r.Root, len(recs), valid, r.Params.VT, r.Params.Width)
	}
	return nil
}
