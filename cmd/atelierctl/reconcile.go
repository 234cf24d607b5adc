package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/worker"
)

func newReconcileCmd(open opener) *cobra.Command {
	var (
		orderID   int64
		accountID int64
		all       bool
		batch     int
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute order paid amounts from completed payments",
		Long: `Recompute the paid amount of orders from their completed payments and
repair any stored value that has drifted.

Connection settings are read from the environment and the .env file,
the same way the atelier server reads them.`,
		Example: `  # One order
  atelierctl reconcile --account 12 --order 345

  # Every order, 500 per batch
  atelierctl reconcile --all --batch 500`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all == (orderID > 0) {
				return fmt.Errorf("pass either --all or --order")
			}
			if orderID > 0 && accountID <= 0 {
				return fmt.Errorf("--order requires --account")
			}

			ctx := cmd.Context()
			ws, cfg, log, closeFn, err := open(ctx)
			if err != nil {
				return fmt.Errorf("open workshop: %w", err)
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if !all {
				res, err := ws.ReconcileOrder(ctx, accountID, orderID)
				if err != nil {
					return fmt.Errorf("reconcile order %d: %w", orderID, err)
				}
				printReconciliation(out, *res)
				return nil
			}

			if batch <= 0 {
				batch = cfg.ReconcileBatch
			}
			started := time.Now()
			result, err := worker.NewBalanceAuditor(ws, time.Hour, batch, log).Sweep(ctx)
			fmt.Fprintf(out, "checked=%d repaired=%d overpaid=%d elapsed=%s\n",
				result.Checked, result.Repaired, result.Overpaid, time.Since(started).Round(time.Millisecond))
			if err != nil {
				return fmt.Errorf("sweep stopped early: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&orderID, "order", 0, "Order ID to reconcile")
	cmd.Flags().Int64Var(&accountID, "account", 0, "Account owning --order")
	cmd.Flags().BoolVar(&all, "all", false, "Reconcile every order of every account")
	cmd.Flags().IntVar(&batch, "batch", 0, "Orders per batch with --all (default RECONCILE_BATCH)")
	return cmd
}

func printReconciliation(w io.Writer, r model.Reconciliation) {
	state := "ok"
	if r.Repaired {
		state = "repaired"
	}
	fmt.Fprintf(w, "order=%d account=%d previous=%s recomputed=%s drift=%s %s",
		r.OrderID, r.AccountID, r.Previous.StringFixed(2), r.Recomputed.StringFixed(2), r.Drift.StringFixed(2), state)
	if r.Overpaid {
		fmt.Fprint(w, " overpaid")
	}
	fmt.Fprintln(w)
}
