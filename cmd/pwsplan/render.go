package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/pws-advisor-service/internal/adapter/echo"
	"github.com/couchcryptid/pws-advisor-service/internal/adapter/filesink"
	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/config"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
	"github.com/couchcryptid/pws-advisor-service/internal/plan"
)

var renderCmd = &cobra.Command{
	Use:       "render <capital|communication|energy|tmf|bundle>",
	Short:     "Render a planning document from a YAML profile",
	Long:      "Loads the profile from --input over the built-in defaults and writes the Markdown document into --out. With --watch the document is regenerated whenever the profile changes.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindNames(),
	RunE:      runRender,
}

var (
	renderInput  string
	renderOut    string
	renderWatch  bool
	renderFetch  bool
	renderStdout bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "Path to the YAML planning profile (required)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "documents", "Directory the document is written to")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render whenever the profile file changes")
	renderCmd.Flags().BoolVar(&renderFetch, "fetch", false, "Fetch systems and violations from ECHO before rendering")
	renderCmd.Flags().BoolVar(&renderStdout, "stdout", false, "Print the document instead of writing it")

	if err := renderCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func kindNames() []string {
	names := make([]string, len(compose.Kinds))
	for i, k := range compose.Kinds {
		names[i] = string(k)
	}
	return names
}

func runRender(cmd *cobra.Command, args []string) error {
	kind, ok := compose.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown document kind %q (want one of %s)", args[0], strings.Join(kindNames(), ", "))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	r := &renderer{
		kind:   kind,
		input:  renderInput,
		sink:   filesink.New(renderOut, logger),
		stdout: renderStdout,
		out:    cmd.OutOrStdout(),
		logger: logger,
	}
	if renderFetch {
		fetcher, err := newEchoFetcher(logger)
		if err != nil {
			return err
		}
		r.fetch = fetcher
	}

	if err := r.render(ctx); err != nil {
		if !renderWatch {
			return err
		}
		logger.Warn("render failed, waiting for changes", "error", err)
	}
	if !renderWatch {
		return nil
	}
	return watchFile(ctx, renderInput, logger, func() {
		if err := r.render(ctx); err != nil {
			logger.Warn("render failed, waiting for changes", "error", err)
		}
	})
}

// renderer turns the profile file into one document.
type renderer struct {
	kind   compose.Kind
	input  string
	sink   *filesink.Sink
	fetch  func(ctx context.Context, f echo.Filter) (echo.Result, error)
	stdout bool
	out    io.Writer
	logger *slog.Logger
}

func (r *renderer) render(ctx context.Context) error {
	p, err := plan.LoadFile(r.input)
	if err != nil {
		return err
	}

	var rec plan.Records
	if r.fetch != nil {
		res, err := r.fetch(ctx, echo.Filter{State: p.System.State, County: p.System.County, PWSID: p.System.PWSID})
		if err != nil {
			return fmt.Errorf("fetch echo records: %w", err)
		}
		rec = plan.Records{Systems: res.Systems, Violations: res.Violations}
	}

	doc := plan.Render(r.kind, p, rec)
	if r.stdout {
		_, err := io.WriteString(r.out, doc.Content)
		return err
	}
	if err := r.sink.Emit(ctx, doc); err != nil {
		return err
	}
	path, err := r.sink.Path(doc.Filename)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, path)
	return nil
}

func newEchoFetcher(logger *slog.Logger) (func(context.Context, echo.Filter) (echo.Result, error), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	client := echo.NewClient(cfg.EchoBaseURL, cfg.EchoAPIKey, cfg.EchoTimeout, cfg.EchoRetryMax, observability.NewMetrics(), logger)
	return client.Fetch, nil
}

// watchFile calls onChange after every write to path until ctx is done. The
// parent directory is watched so editors that save by rename are seen too.
func watchFile(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching plan file", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(evt.Name)
			if name != target || !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("plan file changed", "op", evt.Op.String())
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
