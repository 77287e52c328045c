package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/kubeext/extverify"
	"github.com/kubeext/extverify/pkg/config"
	"github.com/kubeext/extverify/pkg/costmgmt"
	"github.com/kubeext/extverify/pkg/provider"
)

var runArgs struct {
	skipProviderCheck bool
	checkExport       bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run one lifecycle verification",
	Long: `Run one lifecycle verification: create the extension, poll until it is
onboarded, check show and list, delete it, and confirm it is gone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctrl.SetupSignalHandler()
		log := newLogger()

		v, cfg, err := newVerifier(ctx, log)
		if err != nil {
			return err
		}

		if !runArgs.skipProviderCheck {
			pc := provider.NewClient(newRunner(), cfg.Subscription)
			if err := pc.EnsureRegistered(ctx, extverify.CostManagementProvider); err != nil {
				return err
			}
			log.Info("resource provider is registered", "namespace", extverify.CostManagementProvider)
		}

		if err := v.Verify(ctx); err != nil {
			return err
		}

		if runArgs.checkExport {
			if err := checkExport(ctx, cfg); err != nil {
				return err
			}
			log.Info("cost export is healthy", "export", cfg.ClusterName)
		}
		return nil
	},
}

// checkExport confirms the cost-management export created alongside the
// extension exists and carries the expected attributes.  The export object
// outlives the extension.
func checkExport(ctx context.Context, cfg *config.Config) error {
	cc := costmgmt.NewClient(newRunner(), cfg.Subscription)

	nrg, err := cc.NodeResourceGroup(ctx, cfg.ClusterName, cfg.ResourceGroup)
	if err != nil {
		return err
	}
	export, err := cc.Show(ctx, cfg.ClusterName, costmgmt.Scope(cfg.Subscription, nrg))
	if err != nil {
		return err
	}
	if err := export.Validate(cfg.StorageContainer); err != nil {
		return fmt.Errorf("cost export %s: %w", export.Name, err)
	}
	return nil
}

func init() {
	fs := runCmd.Flags()
	fs.BoolVar(&runArgs.skipProviderCheck, "skip-provider-check", false, "Skip the resource provider registration preflight")
	fs.BoolVar(&runArgs.checkExport, "check-export", false, "Also validate the cost-management export after verification")

	rootCmd.AddCommand(runCmd)
}
