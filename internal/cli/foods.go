package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/food"
	"github.com/skpot/biryani-console/internal/store"
)

func newFoodsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "foods",
		Short:             "Manage the food catalog",
		PersistentPreRunE: requireAuth(app),
	}
	cmd.AddCommand(
		newFoodsListCmd(app),
		newFoodsShowCmd(app),
		newFoodsAddCmd(app),
		newFoodsUpdateCmd(app),
		newFoodsStockCmd(app, store.StockIncrease),
		newFoodsStockCmd(app, store.StockDecrease),
		newFoodsStatusCmd(app),
		newFoodsDeleteCmd(app),
	)
	return cmd
}

func newFoodsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Foods.FetchAll(cmd.Context()); err != nil {
				return err
			}
			rows := make([][]string, 0)
			for _, item := range app.Foods.Items() {
				rows = append(rows, []string{
					item.ID,
					truncate(item.Title, 30),
					fmt.Sprintf("%.2f", item.Price),
					fmt.Sprintf("%.0f%%", item.Discount),
					strconv.Itoa(item.StockQty),
					yesNo(item.InStock),
				})
			}
			table(cmd.OutOrStdout(), []string{"ID", "TITLE", "PRICE", "DISCOUNT", "QTY", "IN STOCK"}, rows)
			return nil
		},
	}
}

func newFoodsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog item, fetched fresh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app.Foods.FetchOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", item.ID)
			fmt.Fprintf(out, "Title:       %s\n", item.Title)
			fmt.Fprintf(out, "Description: %s\n", item.Description)
			fmt.Fprintf(out, "Price:       %.2f\n", item.Price)
			fmt.Fprintf(out, "Discount:    %.0f%%\n", item.Discount)
			fmt.Fprintf(out, "Stock qty:   %d\n", item.StockQty)
			fmt.Fprintf(out, "In stock:    %s\n", yesNo(item.InStock))
			if len(item.Images) > 0 {
				fmt.Fprintf(out, "Images:      %s\n", strings.Join(item.Images, ", "))
			}
			return nil
		},
	}
}

// foodFlags binds the shared create/update flags.
type foodFlags struct {
	title       string
	description string
	price       float64
	discount    float64
	stockQty    int
	images      []string
}

func (f *foodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Item title")
	cmd.Flags().StringVar(&f.description, "description", "", "Item description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Price")
	cmd.Flags().Float64Var(&f.discount, "discount", 0, "Discount percent")
	cmd.Flags().IntVar(&f.stockQty, "qty", 0, "Stock quantity")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "Image file (repeatable)")
}

func (f *foodFlags) input() food.Input {
	return food.Input{
		Title:       f.title,
		Description: f.description,
		Price:       f.price,
		Discount:    f.discount,
		StockQty:    f.stockQty,
	}
}

// openImages opens every --image path as a multipart file part. Callers must
// close the returned files after the request.
func (f *foodFlags) openImages() ([]api.FilePart, []*os.File, error) {
	var parts []api.FilePart
	var files []*os.File
	for _, path := range f.images {
		file, err := os.Open(path)
		if err != nil {
			for _, open := range files {
				open.Close()
			}
			return nil, nil, fmt.Errorf("open image: %w", err)
		}
		files = append(files, file)
		parts = append(parts, api.FilePart{Field: "images", Name: filepath.Base(path), Content: file})
	}
	return parts, files, nil
}

func newFoodsAddCmd(app *App) *cobra.Command {
	flags := &foodFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a catalog item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, files, err := flags.openImages()
			if err != nil {
				return err
			}
			defer func() {
				for _, f := range files {
					f.Close()
				}
			}()

			item, err := app.Foods.Create(cmd.Context(), flags.input(), parts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", item.Title, item.ID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.MarkFlagRequired("title")
	return cmd
}

func newFoodsUpdateCmd(app *App) *cobra.Command {
	flags := &foodFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, files, err := flags.openImages()
			if err != nil {
				return err
			}
			defer func() {
				for _, f := range files {
					f.Close()
				}
			}()

			item, err := app.Foods.Update(cmd.Context(), args[0], flags.input(), parts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", item.Title, item.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newFoodsStockCmd(app *App, direction store.StockDirection) *cobra.Command {
	use, short := "stock-in <id>", "Increase stock by one unit"
	if direction == store.StockDecrease {
		use, short = "stock-out <id>", "Decrease stock by one unit"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Seed the projection so the reconciled entity has a home.
			if err := app.Foods.FetchAll(cmd.Context()); err != nil {
				return err
			}
			item, err := app.Foods.AdjustStock(cmd.Context(), args[0], direction)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: qty=%d inStock=%s\n", item.Title, item.StockQty, yesNo(item.InStock))
			return nil
		},
	}
}

func newFoodsStatusCmd(app *App) *cobra.Command {
	var (
		inStock bool
		qty     int
	)
	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Set availability and quantity together",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Foods.FetchAll(cmd.Context()); err != nil {
				return err
			}
			item, err := app.Foods.SetAvailability(cmd.Context(), args[0], inStock, qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: qty=%d inStock=%s\n", item.Title, item.StockQty, yesNo(item.InStock))
			return nil
		},
	}
	cmd.Flags().BoolVar(&inStock, "in-stock", true, "Availability flag")
	cmd.Flags().IntVar(&qty, "qty", 0, "Stock quantity")
	return cmd
}

func newFoodsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Foods.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}
