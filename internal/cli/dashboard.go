package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/skpot/biryani-console/internal/domain/order"
)

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Short:   "Show operation overview",
		Args:    cobra.NoArgs,
		PreRunE: requireAuth(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// The three collections load concurrently and independently;
			// each store only ever touches its own projection.
			var wg sync.WaitGroup
			errs := make([]error, 3)
			wg.Add(3)
			go func() { defer wg.Done(); errs[0] = app.Foods.FetchAll(ctx) }()
			go func() { defer wg.Done(); errs[1] = app.Orders.FetchAll(ctx) }()
			go func() { defer wg.Done(); errs[2] = app.Partners.FetchAll(ctx) }()
			wg.Wait()

			for _, err := range errs {
				if err != nil {
					return err
				}
			}

			orders := app.Orders.Orders()
			pending := 0
			for _, o := range orders {
				if o.Status == order.StatusPlaced {
					pending++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Dashboard overview")
			fmt.Fprintf(out, "  Total orders:      %d\n", len(orders))
			fmt.Fprintf(out, "  Pending orders:    %d\n", pending)
			fmt.Fprintf(out, "  Menu items:        %d\n", len(app.Foods.Items()))
			fmt.Fprintf(out, "  Delivery partners: %d\n", len(app.Partners.Partners()))
			return nil
		},
	}
	return cmd
}
