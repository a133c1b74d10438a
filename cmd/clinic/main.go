package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-client/internal/client"
	"github.com/jwalitptl/clinic-client/internal/config"
	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/internal/service/cascade"
	"github.com/jwalitptl/clinic-client/internal/service/records"
	"github.com/jwalitptl/clinic-client/internal/session"
	"github.com/jwalitptl/clinic-client/pkg/compactdate"
	"github.com/jwalitptl/clinic-client/pkg/logger"
	"github.com/jwalitptl/clinic-client/pkg/metrics"
)

// app holds the wired-up dependencies shared by every subcommand
type app struct {
	cfg      *config.Loaded
	log      *logger.Logger
	sessions *session.Store
	api      *client.Client
	records  *records.Service
	cascade  *cascade.Orchestrator
	pageSize int
}

func (a *app) init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	a.log = logger.NewLogger(&logger.Config{Level: logger.ParseLevel(cfg.Log.Level)})

	// Non-canonical date formats coming off the wire are a backend defect
	// worth seeing every time, not silently absorbing.
	compactdate.OnNonCanonical = func(raw string, f compactdate.Format) {
		a.log.Warn("non-canonical date on wire", "raw", raw, "format", f.String())
	}

	a.sessions = session.NewStore()
	if cfg.Token != "" {
		a.sessions.Set(session.FromToken(cfg.Token, model.User{}))
	}

	opts := []client.Option{
		client.WithTimeout(cfg.API.Timeout()),
		client.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		client.WithLookupCache(cfg.API.LookupCacheTTL),
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		m = metrics.New("clinic_client", registry)
		opts = append(opts, client.WithMetrics(m))

		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				a.log.Error(err, "metrics listener stopped")
			}
		}()
	}

	a.api = client.New(cfg.API.BaseURL, a.sessions, a.log, opts...)
	a.records = records.NewService(a.api, a.log)

	cascadeOpts := []cascade.Option{
		cascade.WithTransitionHook(func(parent cascade.RecordRef, s cascade.State) {
			a.log.Debug("cascade", "parent", parent.String(), "state", string(s))
		}),
	}
	if m != nil {
		cascadeOpts = append(cascadeOpts, cascade.WithMetrics(m))
	}
	a.cascade = cascade.New(a.api, a.log, cascadeOpts...)

	a.pageSize = cfg.View.PageSize
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "clinic",
		Short:        "Client for the clinic management API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newDoctorsCmd(a),
		newPatientsCmd(a),
		newAppointmentsCmd(a),
		newDiagnosesCmd(a),
		newPrescriptionsCmd(a),
		newSpecialisationsCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
