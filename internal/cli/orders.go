package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skpot/biryani-console/internal/domain/order"
)

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "orders",
		Short:             "Manage customer orders",
		PersistentPreRunE: requireAuth(app),
	}
	cmd.AddCommand(
		newOrdersListCmd(app),
		newOrdersActionCmd(app, order.ActionAccept),
		newOrdersActionCmd(app, order.ActionCancel),
		newOrdersAssignCmd(app),
	)
	return cmd
}

func newOrdersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Orders.FetchAll(ctx); err != nil {
				return err
			}
			// Partner list resolves the weak assignedPartner reference; a
			// fetch failure only degrades names to ids.
			if err := app.Partners.FetchAll(ctx); err != nil {
				app.Log.WithError(err).Debug("partner fetch failed, rendering ids")
			}

			rows := make([][]string, 0)
			for _, o := range app.Orders.Orders() {
				rows = append(rows, []string{
					o.ID,
					truncate(o.Customer.Name, 24),
					fmt.Sprintf("%.2f", o.Total),
					string(o.Status),
					app.partnerLabel(o),
					o.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			table(cmd.OutOrStdout(), []string{"ID", "CUSTOMER", "TOTAL", "STATUS", "PARTNER", "PLACED AT"}, rows)
			return nil
		},
	}
}

// partnerLabel resolves an order's partner reference against the partner
// projection. Dangling references render as unassigned with the stale id.
func (a *App) partnerLabel(o order.Order) string {
	if o.AssignedPartner == "" {
		return "unassigned"
	}
	if p, ok := a.Partners.Partner(o.AssignedPartner); ok {
		return p.Name
	}
	return "unassigned (" + o.AssignedPartner + ")"
}

func newOrdersActionCmd(app *App, action order.Action) *cobra.Command {
	short := "Accept a placed order"
	if action == order.ActionCancel {
		short = "Cancel a placed order"
	}
	return &cobra.Command{
		Use:   string(action) + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Orders.FetchAll(ctx); err != nil {
				return err
			}

			var updated order.Order
			var err error
			switch action {
			case order.ActionAccept:
				updated, err = app.Orders.Accept(ctx, args[0])
			case order.ActionCancel:
				updated, err = app.Orders.Cancel(ctx, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", updated.ID, updated.Status)
			return nil
		},
	}
}

func newOrdersAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <order-id> <partner-id>",
		Short: "Assign a delivery partner to an accepted order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Orders.FetchAll(ctx); err != nil {
				return err
			}
			updated, err := app.Orders.Assign(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s assigned to %s\n", updated.ID, updated.AssignedPartner)
			return nil
		},
	}
}
