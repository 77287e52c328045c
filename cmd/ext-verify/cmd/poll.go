package cmd

import (
	"time"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/kubeext/extverify/pkg/config"
	"github.com/kubeext/extverify/pkg/wait"
)

var pollArgs struct {
	interval    time.Duration
	maxAttempts int
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "poll until the extension is onboarded",
	Long: `Poll the onboarding probes of an already created extension until they
pass or the attempt budget runs out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctrl.SetupSignalHandler()
		log := newLogger()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		checker, err := newChecker(ctx, log, cfg)
		if err != nil {
			return err
		}

		err = wait.Poll(ctx, checker.Onboarded, wait.Options{
			Interval:    pollArgs.interval,
			MaxAttempts: pollArgs.maxAttempts,
		})
		if err != nil {
			return err
		}
		log.Info("extension onboarded", "extension", cfg.ExtensionName)
		return nil
	},
}

func init() {
	fs := pollCmd.Flags()
	fs.DurationVar(&pollArgs.interval, "interval", wait.DefaultInterval, "Pause between onboarding checks")
	fs.IntVar(&pollArgs.maxAttempts, "max-attempts", wait.DefaultMaxAttempts, "Attempt ceiling")

	rootCmd.AddCommand(pollCmd)
}
