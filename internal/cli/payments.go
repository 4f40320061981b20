package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-platform/internal/payment"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/service"
)

var (
	reconcileLookback time.Duration
	reconcileLimit    int
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Inspect and repair card payments",
}

var paymentsReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Poll the gateway for pending card payments",
	Long: `Run one reconciliation sweep, the same one the server schedules.

Each pending card payment created inside the lookback window is checked
against its checkout session and marked successful once paid.

Examples:
  lmsctl payments reconcile
  lmsctl payments reconcile --lookback 72h --limit 500`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reconcileLookback < 0 || reconcileLimit < 0 {
			return fmt.Errorf("--lookback and --limit must not be negative")
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			gw, err := payment.FromConfig(e.cfg.Payment)
			if err != nil {
				return err
			}
			svc := service.NewPaymentService(
				repository.NewPaymentRepo(e.db),
				repository.NewCourseRepo(e.db),
				gw, e.cfg.Payment.Timeout, e.log,
			)

			lookback, limit := reconcileLookback, reconcileLimit
			if lookback == 0 {
				lookback = e.cfg.Reconcile.Lookback
			}
			if limit == 0 {
				limit = e.cfg.Reconcile.Batch
			}
			n, err := svc.ReconcilePending(ctx, lookback, limit)
			if perr := printResult(cmd.OutOrStdout(),
				map[string]any{"confirmed": n, "lookback": lookback.String(), "limit": limit},
				fmt.Sprintf("confirmed %d payment(s)", n)); perr != nil {
				return perr
			}
			return err
		})
	},
}

func init() {
	paymentsReconcileCmd.Flags().DurationVar(&reconcileLookback, "lookback", 0, "Only poll payments newer than this (default RECONCILE_LOOKBACK)")
	paymentsReconcileCmd.Flags().IntVar(&reconcileLimit, "limit", 0, "Maximum payments to poll (default RECONCILE_BATCH)")
	paymentsCmd.AddCommand(paymentsReconcileCmd)
	rootCmd.AddCommand(paymentsCmd)
}
