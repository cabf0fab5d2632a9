package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
	"github.com/vango-dev/selectctx/pkg/features/selector"
	"github.com/vango-dev/selectctx/pkg/middleware"
	"github.com/vango-dev/selectctx/pkg/runtime"
	"github.com/vango-dev/selectctx/pkg/vango"
	"github.com/vango-dev/selectctx/pkg/vdom"
)

type benchConfig struct {
	Subscribers int
	Updates     int
	ColdEvery   int
	Equality    string
	Listen      string
	JSON        bool
	Verbose     bool
}

// benchState is the value shared by the benchmark provider. Hot changes on
// every update, Cold only every ColdEvery updates.
type benchState struct {
	Round int
	Hot   int
	Cold  int
}

type coldView struct {
	Cold int
}

type benchResult struct {
	Subscribers    int            `json:"subscribers"`
	Updates        int            `json:"updates"`
	Equality       string         `json:"equality"`
	Duration       time.Duration  `json:"duration_ns"`
	PerUpdate      time.Duration  `json:"per_update_ns"`
	Renders        int64          `json:"renders"`
	Passes         int64          `json:"passes"`
	Publishes      int            `json:"publishes"`
	ListenerCalls  int            `json:"listener_calls"`
	Selections     map[string]int `json:"selections"`
	HotRenders     int64          `json:"hot_renders"`
	ColdRenders    int64          `json:"cold_renders"`
	ExpectedRender int64          `json:"expected_renders"`
}

func benchCmd() *cobra.Command {
	cfg := benchConfig{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure fan-out and re-render suppression",
		Long: `Mount one provider with many pure subscribers and publish a series of
updates.

Half of the subscribers select a field that changes on every update. The
other half select a pointer projection of a field that rarely changes; with
--equality=shallow those subscribers skip re-rendering, with --equality=none
they re-render on every update.`,
		Example: `  vango-selector bench --subscribers 2000 --updates 500
  vango-selector bench --equality none --json
  vango-selector bench --listen :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runBench(cmd.Context(), cmd.OutOrStdout(), cfg)
			var ve *vangoerrors.VangoError
			if cfg.JSON && errors.As(err, &ve) {
				fmt.Fprintln(cmd.OutOrStdout(), ve.FormatJSON())
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.Subscribers, "subscribers", "n", 1000, "Number of subscribing components")
	flags.IntVarP(&cfg.Updates, "updates", "u", 1000, "Number of provider updates")
	flags.IntVar(&cfg.ColdEvery, "cold-every", 10, "Change the cold field every N updates")
	flags.StringVar(&cfg.Equality, "equality", "shallow", "Equality for cold subscribers: shallow or none")
	flags.StringVar(&cfg.Listen, "listen", "", "Serve Prometheus metrics on this address and wait for interrupt")
	flags.BoolVar(&cfg.JSON, "json", false, "Print the result as JSON")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log runtime debug output")

	return cmd
}

func (c benchConfig) validate() error {
	switch {
	case c.Subscribers <= 0:
		return vangoerrors.New("E140").WithDetail(fmt.Sprintf("--subscribers must be positive, got %d.", c.Subscribers))
	case c.Updates <= 0:
		return vangoerrors.New("E140").WithDetail(fmt.Sprintf("--updates must be positive, got %d.", c.Updates))
	case c.ColdEvery <= 0:
		return vangoerrors.New("E140").WithDetail(fmt.Sprintf("--cold-every must be positive, got %d.", c.ColdEvery))
	case c.Equality != "shallow" && c.Equality != "none":
		return vangoerrors.New("E140").
			WithDetail(fmt.Sprintf("--equality must be shallow or none, got %q.", c.Equality)).
			WithSuggestion("Use --equality shallow to suppress re-renders of unchanged projections.")
	}
	return nil
}

// tally is an in-process observer that keeps the totals for the report.
type tally struct {
	publishes     int
	listenerCalls int
	selections    map[string]int
}

func (t *tally) OnPublish(_ string, listeners int, _ time.Duration) {
	t.publishes++
	t.listenerCalls += listeners
}

func (t *tally) OnSelect(_ string, outcome selector.Outcome) {
	t.selections[outcome.String()]++
}

func (t *tally) OnMissingProvider(string, string) {}

func runBench(ctx context.Context, out io.Writer, cfg benchConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	metrics, err := middleware.Prometheus(middleware.WithRegistry(reg))
	if err != nil {
		return err
	}

	var srv *http.Server
	if cfg.Listen != "" {
		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Listen, err)
		}
		srv = &http.Server{Handler: newMetricsRouter(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		info(out, "metrics on http://%s/metrics", ln.Addr())
	}

	res, err := bench(cfg, logger, metrics)
	if err != nil {
		return err
	}

	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printResult(out, res)
	}

	if srv != nil {
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		info(out, "serving metrics until interrupted")
		<-sigCtx.Done()
	}
	return nil
}

// newMetricsRouter serves the registry on /metrics.
func newMetricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func bench(cfg benchConfig, logger *slog.Logger, metrics *middleware.Metrics) (benchResult, error) {
	counts := &tally{selections: make(map[string]int)}
	store := selector.New(benchState{},
		selector.WithName("bench"),
		selector.WithLogger(logger),
		selector.WithObserver(selector.Observers(counts, metrics)))

	var eq selector.EqualityFn[*coldView]
	if cfg.Equality == "shallow" {
		eq = selector.ShallowEqual[*coldView]
	}
	hot := func(v benchState) int { return v.Hot }
	cold := func(v benchState) *coldView { return &coldView{Cold: v.Cold} }

	var hotRenders, coldRenders int64
	children := make([]any, 0, cfg.Subscribers)
	for i := 0; i < cfg.Subscribers; i++ {
		if i%2 == 0 {
			children = append(children, vdom.Node(vango.Pure(func() *vdom.VNode {
				hotRenders++
				return vdom.Textf("%d", selector.UseSelector(store, hot, nil))
			})))
			continue
		}
		children = append(children, vdom.Node(vango.Pure(func() *vdom.VNode {
			coldRenders++
			return vdom.Textf("%d", selector.UseSelector(store, cold, eq).Cold)
		})))
	}

	var round *vango.Signal[int]
	app := vango.Func(func() *vdom.VNode {
		round = vango.NewSignal(0)
		n := round.Get()
		return store.Provider(benchState{Round: n, Hot: n, Cold: n / cfg.ColdEvery}, children...)
	})

	root := runtime.NewRoot(runtime.Config{Logger: logger})
	if err := root.Mount(app); err != nil {
		return benchResult{}, err
	}
	defer root.Unmount()

	mountStats := root.Stats()
	hotRenders, coldRenders = 0, 0

	start := time.Now()
	for i := 0; i < cfg.Updates; i++ {
		if err := root.Dispatch(func() { round.Set(round.Peek() + 1) }); err != nil {
			return benchResult{}, err
		}
	}
	elapsed := time.Since(start)

	stats := root.Stats()
	hotSubs := int64((cfg.Subscribers + 1) / 2)
	coldSubs := int64(cfg.Subscribers / 2)
	coldChanges := int64(cfg.Updates / cfg.ColdEvery)
	expected := hotSubs * int64(cfg.Updates)
	if cfg.Equality == "shallow" {
		expected += coldSubs * coldChanges
	} else {
		expected += coldSubs * int64(cfg.Updates)
	}

	return benchResult{
		Subscribers:    cfg.Subscribers,
		Updates:        cfg.Updates,
		Equality:       cfg.Equality,
		Duration:       elapsed,
		PerUpdate:      elapsed / time.Duration(cfg.Updates),
		Renders:        stats.Renders - mountStats.Renders,
		Passes:         stats.Passes - mountStats.Passes,
		Publishes:      counts.publishes,
		ListenerCalls:  counts.listenerCalls,
		Selections:     counts.selections,
		HotRenders:     hotRenders,
		ColdRenders:    coldRenders,
		ExpectedRender: expected,
	}, nil
}

func printResult(out io.Writer, res benchResult) {
	success(out, "%d updates to %d subscribers in %s (%s per update)",
		res.Updates, res.Subscribers, res.Duration.Round(time.Microsecond), res.PerUpdate.Round(time.Nanosecond))
	info(out, "equality:        %s", res.Equality)
	info(out, "publishes:       %d (%d listener calls)", res.Publishes, res.ListenerCalls)
	info(out, "selections:      %d cache hits, %d suppressed, %d changed",
		res.Selections["cache_hit"], res.Selections["suppressed"], res.Selections["changed"])
	info(out, "renders:         %d hot, %d cold (%d expected)", res.HotRenders, res.ColdRenders, res.ExpectedRender)
	info(out, "render passes:   %d", res.Passes)
}
