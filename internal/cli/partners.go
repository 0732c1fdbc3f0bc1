package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skpot/biryani-console/internal/domain/partner"
)

func newPartnersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "partners",
		Short:             "Manage delivery partners",
		PersistentPreRunE: requireAuth(app),
	}
	cmd.AddCommand(
		newPartnersListCmd(app),
		newPartnersAddCmd(app),
		newPartnersUpdateCmd(app),
		newPartnersDeleteCmd(app),
	)
	return cmd
}

func newPartnersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List delivery partners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Partners.FetchAll(cmd.Context()); err != nil {
				return err
			}
			rows := make([][]string, 0)
			for _, p := range app.Partners.Partners() {
				rows = append(rows, []string{p.ID, p.Name, p.Phone, truncate(p.VehicleInfo, 30), string(p.Status)})
			}
			table(cmd.OutOrStdout(), []string{"ID", "NAME", "PHONE", "VEHICLE", "STATUS"}, rows)
			return nil
		},
	}
}

// partnerFlags binds the shared create/update flags.
type partnerFlags struct {
	name    string
	phone   string
	vehicle string
	status  string
}

func (f *partnerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Partner name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Partner phone")
	cmd.Flags().StringVar(&f.vehicle, "vehicle", "", "Vehicle info")
	cmd.Flags().StringVar(&f.status, "status", "", "active or inactive")
}

func (f *partnerFlags) input() partner.Input {
	return partner.Input{
		Name:        f.name,
		Phone:       f.phone,
		VehicleInfo: f.vehicle,
		Status:      partner.Status(f.status),
	}
}

func newPartnersAddCmd(app *App) *cobra.Command {
	flags := &partnerFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a delivery partner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := app.Partners.Create(cmd.Context(), flags.input())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("phone")
	return cmd
}

func newPartnersUpdateCmd(app *App) *cobra.Command {
	flags := &partnerFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a delivery partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := app.Partners.Update(cmd.Context(), args[0], flags.input())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPartnersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a delivery partner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Partners.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}
