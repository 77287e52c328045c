package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/kubeext/extverify/pkg/pprof"
)

var scheduleArgs struct {
	cronSpec    string
	metricsAddr string
	enablePprof bool
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "run verification on a cron schedule",
	Long: `Run lifecycle verification repeatedly on a cron schedule, serving
Prometheus metrics about the runs.  Runs do not overlap; a tick that fires
while a run is in progress is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cron.ParseStandard(scheduleArgs.cronSpec); err != nil {
			return fmt.Errorf("invalid cron spec %q: %w", scheduleArgs.cronSpec, err)
		}

		ctx := ctrl.SetupSignalHandler()
		log := newLogger()

		v, cfg, err := newVerifier(ctx, log)
		if err != nil {
			return err
		}

		running := make(chan struct{}, 1)
		c := cron.New()
		_, err = c.AddFunc(scheduleArgs.cronSpec, func() {
			select {
			case running <- struct{}{}:
			default:
				log.Info("previous verification still running, skipping tick")
				return
			}
			defer func() { <-running }()

			if err := v.Verify(ctx); err != nil {
				log.Error(err, "verification failed", "extension", cfg.ExtensionName)
			}
		})
		if err != nil {
			return err
		}
		c.Start()
		defer c.Stop()

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		if scheduleArgs.enablePprof {
			pprof.Install(mux)
		}
		server := &http.Server{
			Addr:    scheduleArgs.metricsAddr,
			Handler: mux,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()

		log.Info("scheduler started", "cron", scheduleArgs.cronSpec, "metricsAddr", scheduleArgs.metricsAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	fs := scheduleCmd.Flags()
	fs.StringVar(&scheduleArgs.cronSpec, "cron", "@daily", "Cron schedule for verification runs")
	fs.StringVar(&scheduleArgs.metricsAddr, "metrics-addr", ":8080", "The address the metric endpoint binds to")
	fs.BoolVar(&scheduleArgs.enablePprof, "pprof", false, "Expose pprof endpoints on the metrics address")

	rootCmd.AddCommand(scheduleCmd)
}
