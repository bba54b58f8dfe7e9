package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spboyer/dircheck/internal/checks"
	"github.com/spboyer/dircheck/internal/hooks"
	"github.com/spboyer/dircheck/internal/manager"
	"github.com/spboyer/dircheck/internal/profile"
	"github.com/spboyer/dircheck/internal/projectconfig"
	"github.com/spboyer/dircheck/internal/reporting"
	"github.com/spboyer/dircheck/internal/spinner"
	"github.com/spboyer/dircheck/internal/watch"
	"github.com/spboyer/dircheck/internal/wizard"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Run a profile of checks against a directory",
		Long: `Run every check of a profile against a directory and write the reports.

The directory defaults to the current one. Checks run concurrently; reports
are written in profile order. Checks with nothing to report are left out,
and a failing check is reported in place without affecting the others.

Exit status is 1 when any check failed and 2 on configuration errors.

Examples:
  dircheck run
  dircheck run ./docs --profile docs
  dircheck run --format junit --output results/dircheck.xml
  dircheck run --output report.html.gz
  dircheck run --watch`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRun,
		SilenceErrors: true,
	}
	cmd.Flags().String("config", "", "Path to a config file (default: .dircheck.yaml found from the directory upward)")
	cmd.Flags().StringP("profile", "p", projectconfig.DefaultProfile, "Profile to run")
	cmd.Flags().String("profiles-dir", projectconfig.DefaultProfilesDir, "Directory holding project profiles")
	cmd.Flags().StringP("format", "f", projectconfig.DefaultFormat, "Output format: text | html | json | junit")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout (.gz compresses)")
	cmd.Flags().Duration("timeout", projectconfig.DefaultTimeout, "Fail checks that take longer than this (0 disables)")
	cmd.Flags().Bool("color", projectconfig.DefaultColor, "Colorize text output")
	cmd.Flags().BoolP("interactive", "i", false, "Choose the profile interactively")
	cmd.Flags().BoolP("watch", "w", false, "Re-run whenever files in the directory change")
	cmd.Flags().Duration("watch-debounce", projectconfig.DefaultWatchDebounce, "Quiet period before a watch re-run")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, catalog, err := loadCatalog(dir, cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.FileUsed != "" {
		slog.Debug("using config file", "path", cfg.FileUsed)
	}

	name := cfg.Profile
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		name, err = wizard.PickProfile(cmd.InOrStdin(), cmd.ErrOrStderr(), catalog.All())
		if err != nil {
			return err
		}
	}
	p, err := lookupProfile(catalog, name)
	if err != nil {
		return err
	}
	if err := p.Validate(checks.Default); err != nil {
		// Unknown checks still run and surface as error reports.
		slog.Warn("profile has problems", "profile", p.Name, "error", err)
	}

	format, err := outputFormat(cmd, cfg)
	if err != nil {
		return err
	}

	r := &runner{
		dir:     dir,
		profile: p,
		cfg:     cfg,
		format:  format,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}

	if watchMode, _ := cmd.Flags().GetBool("watch"); watchMode {
		return r.watch(cmd.Context())
	}

	res, err := r.once(cmd.Context())
	if err != nil {
		return err
	}
	if n := res.Failures(); n > 0 {
		return &CheckFailureError{Message: fmt.Sprintf("%d of %d checks failed", n, len(res.Entries))}
	}
	return nil
}

// outputFormat resolves the format, letting an --output extension decide
// when no format was configured explicitly.
func outputFormat(cmd *cobra.Command, cfg *projectconfig.Config) (reporting.Format, error) {
	if cfg.Output != "" && !cmd.Flags().Changed("format") && cfg.Format == projectconfig.DefaultFormat {
		if f, ok := reporting.FormatForPath(cfg.Output); ok {
			return f, nil
		}
	}
	return reporting.ParseFormat(cfg.Format)
}

type runner struct {
	dir     string
	profile *profile.Profile
	cfg     *projectconfig.Config
	format  reporting.Format
	out     io.Writer
	errOut  io.Writer
}

// once runs the profile a single time, between the configured hooks, and
// writes its result.
func (r *runner) once(ctx context.Context) (*reporting.Result, error) {
	hr := &hooks.Runner{Dir: r.dir, Logger: slog.Default()}
	if err := hr.Execute(ctx, "before_run", r.cfg.Hooks.BeforeRun); err != nil {
		return nil, err
	}

	total := len(r.profile.Checks)
	statuses := make([]manager.Status, total)

	var (
		mu   sync.Mutex
		done int
		spin *spinner.Spinner
	)
	if isTerminal(r.errOut) && total > 0 {
		spin = spinner.Start(r.errOut, fmt.Sprintf("Running %s (0/%d)", r.profile.Name, total))
	}

	m := manager.New(r.dir,
		manager.WithCheckTimeout(r.cfg.Timeout),
		manager.WithProgress(func(e manager.ProgressEvent) {
			if e.EventType != manager.EventCheckComplete {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			statuses[e.Index] = e.Status
			done++
			if spin != nil {
				spin.Update(fmt.Sprintf("Running %s (%d/%d)", r.profile.Name, done, total))
			}
		}),
	)

	started := time.Now()
	reports, err := m.Run(ctx, r.profile)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return nil, fmt.Errorf("run interrupted: %w", err)
	}

	mu.Lock()
	res := reporting.NewResult(r.dir, r.profile.Name, r.profile.IDs(), statuses, reports)
	mu.Unlock()
	res.Started = started
	res.Duration = time.Since(started)
	res.Stylesheets = checks.Default.Stylesheets(r.profile.IDs())

	if err := r.write(res); err != nil {
		return nil, err
	}
	if err := hr.Execute(ctx, "after_run", r.cfg.Hooks.AfterRun); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *runner) write(res *reporting.Result) error {
	opts := reporting.Options{Color: r.cfg.Color && isTerminal(r.out), Width: terminalWidth(r.out)}

	if r.cfg.Output == "" {
		return reporting.Write(r.out, res, r.format, opts)
	}

	w, err := reporting.Create(r.cfg.Output)
	if err != nil {
		return err
	}
	if err := reporting.Write(w, res, r.format, opts); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing %s: %w", r.cfg.Output, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", r.cfg.Output, err)
	}
	fmt.Fprintf(r.errOut, "%s: report written to %s\n", res.Verdict(), r.cfg.Output) //nolint:errcheck
	return nil
}

// watch runs the profile now and again after every burst of changes until
// ctx is cancelled. Failed checks do not end the loop.
func (r *runner) watch(ctx context.Context) error {
	w := watch.New(r.dir, r.cfg.WatchDebounce, slog.Default())
	if r.cfg.Output != "" {
		w.Ignore(r.cfg.Output)
	}

	if _, err := r.once(ctx); err != nil {
		return err
	}
	fmt.Fprintf(r.errOut, "Watching %s for changes (Ctrl+C to stop)\n", r.dir) //nolint:errcheck

	return w.Run(ctx, func(ctx context.Context, changed []string) {
		slog.Info("change detected, re-running", "files", len(changed), "profile", r.profile.Name)
		if _, err := r.once(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintln(r.errOut, err) //nolint:errcheck
		}
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w when it is a terminal, else zero.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
