package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"go-bizkeeper/internal/app"
	"go-bizkeeper/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type opener func(ctx context.Context) (*app.App, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "bizctl",
		Short:         "BizKeeper maintenance CLI",
		Long:          "Inspect and maintain the BizKeeper catalog, orders and receipts without starting the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(seedCmd(open))
	root.AddCommand(ordersCmd(open))
	root.AddCommand(receiptCmd(open))
	root.AddCommand(reportCmd(open))
	return root
}

// withApp opens the stores for the duration of fn and flushes pending
// writes afterwards.
func withApp(cmd *cobra.Command, open opener, fn func(a *app.App) error) error {
	a, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// bizctl seed
func seedCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample products and customers into empty stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				if err := a.Stores.SeedSamples(a.Log); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d products, %d customers\n",
					len(a.Stores.Products.List()), len(a.Stores.Customers.List()))
				return nil
			})
		},
	}
}

// bizctl orders
func ordersCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List orders newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CODE\tSTATUS\tCUSTOMER\tTOTAL\tID")
				for _, o := range a.Stores.Orders.List() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.Code, o.Status, o.CustomerName, o.Total.StringFixed(2), o.ID)
				}
				return w.Flush()
			})
		},
	}
}

// bizctl receipt <orderID> [--pending]
func receiptCmd(open opener) *cobra.Command {
	var pending bool
	cmd := &cobra.Command{
		Use:   "receipt <orderID>",
		Short: "Render and publish the receipt of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q: %w", args[0], err)
			}
			return withApp(cmd, open, func(a *app.App) error {
				rr, err := a.Intake.Receipt(cmd.Context(), id, pending)
				if rr != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", rr.Code, rr.Total.StringFixed(2), rr.URI)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "only list items not yet delivered")
	return cmd
}

// bizctl report [--days N]
func reportCmd(open opener) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print dashboard figures and the sales report as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > 366 {
				return fmt.Errorf("--days must be between 1 and 366")
			}
			return withApp(cmd, open, func(a *app.App) error {
				now := time.Now()
				out := struct {
					Dashboard service.DashboardStats `json:"dashboard"`
					Sales     service.SalesReport    `json:"sales"`
				}{
					Dashboard: a.Reports.Dashboard(now),
					Sales:     a.Reports.Sales(now, days),
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", service.DefaultSalesDays, "length of the sales window")
	return cmd
}
