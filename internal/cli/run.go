package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/dl/regexapply/internal/highlight"
	"github.com/dl/regexapply/internal/input"
	"github.com/dl/regexapply/internal/output"
	"github.com/dl/regexapply/internal/scheduler"
	"github.com/dl/regexapply/internal/walker"
	"github.com/dl/regexapply/internal/watch"
)

// Exit codes.
const (
	ExitMatch   = 0
	ExitNoMatch = 1
	ExitError   = 2
)

// Streams are the standard streams a run reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes cfg on the process's standard streams. Watch mode stops on
// SIGINT or SIGTERM. Returns exit code: 0 = match found, 1 = no match,
// 2 = error.
func Run(cfg Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunContext(ctx, cfg, Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
}

// RunContext is Run with explicit streams and cancellation.
func RunContext(ctx context.Context, cfg Config, s Streams) int {
	logger := log.NewWithOptions(s.Err, log.Options{
		Level: log.WarnLevel,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid arguments", "err", err)
		return ExitError
	}

	useColor, err := colorFor(cfg.Color, s.Out)
	if err != nil {
		logger.Error("invalid arguments", "err", err)
		return ExitError
	}
	styles := highlight.NoStyles()
	if useColor {
		styles = highlight.NewStyles(cfg.Color == "always")
	}

	job, err := cfg.Job(styles)
	if err != nil {
		logger.Error("invalid arguments", "err", err)
		return ExitError
	}

	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter(job.Mode)
	} else {
		formatter = output.NewTextFormatter(job.Mode, styles)
	}

	out := s.Out
	if f, ok := out.(*os.File); ok {
		out = output.NewWriter(f)
	}

	r := &runner{
		logger: logger,
		job:    job,
		seen:   make(map[string]bool),
	}

	if len(cfg.Paths) == 0 {
		ow := output.NewOrderedWriter(out, formatter, false)
		return r.runStdin(s.In, ow)
	}

	multiFile := cfg.Recursive || len(cfg.Paths) > 1 || cfg.WatchMode
	ow := output.NewOrderedWriter(out, formatter, multiFile)
	reader := input.NewAdaptiveReader(cfg.MmapThreshold)
	sched := scheduler.New(cfg.Workers, job, reader)
	filter := walker.Filter{Hidden: cfg.Hidden, Globs: cfg.Globs}

	code := r.runPaths(cfg, sched, filter, ow)
	if !cfg.WatchMode {
		return code
	}
	return r.runWatch(ctx, cfg.Paths, sched, filter, ow)
}

// runner tracks the outcome of a run across inputs.
type runner struct {
	logger   *log.Logger
	job      *scheduler.Job
	hasMatch bool
	hadError bool
	seen     map[string]bool // warnings already logged
}

// exitCode maps the outcome to an exit code. A match wins over an error.
func (r *runner) exitCode() int {
	switch {
	case r.hasMatch:
		return ExitMatch
	case r.hadError:
		return ExitError
	}
	return ExitNoMatch
}

// observe records a result before it is written.
func (r *runner) observe(res output.Result) {
	switch {
	case res.Err != nil:
		r.hadError = true
		r.logger.Warn("read error", "path", res.FilePath, "err", res.Err)
		return
	case res.Binary:
		r.logger.Debug("skipping binary file", "path", res.FilePath)
		return
	}
	if res.HasMatch() {
		r.hasMatch = true
	}
	// One pattern is shared by every input, so each warning is logged once.
	for _, w := range res.Warnings {
		if !r.seen[w] {
			r.seen[w] = true
			r.logger.Warn("pattern not applied", "warning", w)
		}
	}
}

func (r *runner) write(ow *output.OrderedWriter, res output.Result) {
	r.observe(res)
	if err := ow.WriteResult(res); err != nil {
		r.hadError = true
		r.logger.Error("write error", "err", err)
	}
}

func (r *runner) runStdin(in io.Reader, ow *output.OrderedWriter) int {
	text, ok, err := input.ReadText(input.NewStreamReader(in), "")
	switch {
	case err != nil:
		r.write(ow, output.Result{Err: err})
	case !ok:
		r.write(ow, output.Result{Binary: true})
	default:
		r.write(ow, r.job.Apply("", text))
	}
	return r.exitCode()
}

func (r *runner) runPaths(cfg Config, sched *scheduler.Scheduler, filter walker.Filter, ow *output.OrderedWriter) int {
	fileCh, errCh := walker.Walk(cfg.Paths, walker.WalkOptions{
		Recursive: cfg.Recursive,
		NoIgnore:  cfg.NoIgnore,
		Filter:    filter,
	})

	walkDone := make(chan bool)
	go func() {
		failed := false
		for err := range errCh {
			failed = true
			r.logger.Warn("walk error", "err", err)
		}
		walkDone <- failed
	}()

	if err := ow.WriteOrdered(sched.Run(fileCh), r.observe); err != nil {
		r.hadError = true
		r.logger.Error("write error", "err", err)
	}
	if <-walkDone {
		r.hadError = true
	}
	return r.exitCode()
}

// runWatch re-applies the job to every watched file whose content changes
// until ctx is done.
func (r *runner) runWatch(ctx context.Context, paths []string, sched *scheduler.Scheduler, filter walker.Filter, ow *output.OrderedWriter) int {
	watcher, err := watch.New()
	if err != nil {
		r.logger.Error("failed to create watcher", "err", err)
		return ExitError
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			r.logger.Error("failed to watch", "path", path, "err", err)
			return ExitError
		}
	}

	events := watcher.Events()
	for {
		select {
		case <-ctx.Done():
			return r.exitCode()
		case evt, ok := <-events:
			if !ok {
				return r.exitCode()
			}
			if evt.Err != nil {
				r.logger.Warn("watch error", "err", evt.Err)
				continue
			}
			switch evt.Type {
			case watch.EventCreated, watch.EventModified:
				if !filter.AcceptFile(filepath.Base(evt.Path)) || !watcher.Changed(evt.Path) {
					continue
				}
				r.write(ow, sched.Process(evt.Path))
			case watch.EventDeleted:
				watcher.Forget(evt.Path)
				r.logger.Warn("watched file removed", "path", evt.Path)
			}
		}
	}
}

// colorFor resolves the color setting for w. Writers other than files are
// never terminals.
func colorFor(setting string, w io.Writer) (bool, error) {
	if f, ok := w.(*os.File); ok {
		return output.UseColor(setting, f)
	}
	if setting == "auto" {
		setting = "never"
	}
	return output.UseColor(setting, nil)
}
