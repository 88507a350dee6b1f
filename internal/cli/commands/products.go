package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amanf244/mars4/internal/api"
)

// NewProductsCmd creates the products command group
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse and manage the parts catalog",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsGetCmd())
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsStockCmd())
	cmd.AddCommand(newProductsStatusCmd())

	return cmd
}

func newProductsCreateCmd() *cobra.Command {
	var req api.CreateProductRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a part to the catalog (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Name == "" {
				return fmt.Errorf("--name is required")
			}
			if req.DeviceModelID == 0 || req.ProductTypeID == 0 || req.PartBrandID == 0 || req.QualityGradeID == 0 {
				return fmt.Errorf("--device, --type, --brand and --grade are required (see reference data IDs)")
			}

			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			detail, err := app.client.CreateProduct(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Created product %d (%s)\n", detail.ID, detail.SKU)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&req.SKU, "sku", "", "SKU (generated by the backend when omitted)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().Int64Var(&req.DeviceModelID, "device", 0, "Device model ID")
	cmd.Flags().Int64Var(&req.ProductTypeID, "type", 0, "Product type ID")
	cmd.Flags().Int64Var(&req.PartBrandID, "brand", 0, "Part brand ID")
	cmd.Flags().Int64Var(&req.QualityGradeID, "grade", 0, "Quality grade ID")
	cmd.Flags().IntVar(&req.Stock, "stock", 0, "Initial stock")
	cmd.Flags().Float64Var(&req.CostPrice, "cost", 0, "Cost price")
	cmd.Flags().Float64Var(&req.TechnicianPrice, "technician-price", 0, "Technician price")
	cmd.Flags().Float64Var(&req.RetailPrice, "retail", 0, "Retail price")
	cmd.Flags().IntVar(&req.WarrantyDays, "warranty", 0, "Warranty in days")

	return cmd
}

func newProductsListCmd() *cobra.Command {
	var params api.ProductListParams

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			resp, err := app.client.ListProducts(cmd.Context(), params)
			if err != nil {
				return err
			}

			if len(resp.Items) == 0 {
				fmt.Println("No products found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSKU\tNAME\tMODEL\tSTOCK\tPRICE\tACTIVE")
			for _, p := range resp.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%.2f\t%t\n",
					p.ID, p.SKU, p.Name, p.DeviceModel, p.Stock, p.Price, p.IsActive)
			}
			w.Flush()

			fmt.Printf("\nPage %d of %d (%d total)\n", resp.Page, resp.Pages, resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 20, "Items per page")
	cmd.Flags().StringVar(&params.Search, "search", "", "Search by name or SKU")
	cmd.Flags().Int64Var(&params.TypeID, "type", 0, "Filter by product type ID")
	cmd.Flags().Int64Var(&params.BrandID, "brand", 0, "Filter by part brand ID")
	cmd.Flags().Int64Var(&params.DeviceID, "device", 0, "Filter by device model ID")

	return cmd
}

func newProductsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id-or-sku>",
		Short: "Show a product by numeric ID or SKU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			var detail *api.ProductDetail
			if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
				detail, err = app.client.ProductByID(cmd.Context(), id)
			} else {
				detail, err = app.client.ProductBySKU(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			printProductDetail(detail)
			return nil
		},
	}
}

func newProductsStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stock <id> <new-stock>",
		Short: "Set a product's stock level (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product ID %q", args[0])
			}
			newStock, err := strconv.Atoi(args[1])
			if err != nil || newStock < 0 {
				return fmt.Errorf("invalid stock value %q", args[1])
			}

			resp, err := app.client.UpdateStock(cmd.Context(), id, newStock)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Stock updated: product %d now has %d units\n", resp.ProductID, resp.NewStock)
			if resp.IsLowStock {
				fmt.Println("  Warning: stock is below the low-stock threshold")
			}
			return nil
		},
	}
}

func newProductsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <active|inactive>",
		Short: "Activate or deactivate a product (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product ID %q", args[0])
			}

			var active bool
			switch args[1] {
			case "active":
				active = true
			case "inactive":
				active = false
			default:
				return fmt.Errorf("status must be 'active' or 'inactive', got %q", args[1])
			}

			resp, err := app.client.UpdateStatus(cmd.Context(), id, active)
			if err != nil {
				return err
			}

			state := "inactive"
			if resp.IsActive {
				state = "active"
			}
			fmt.Printf("✓ Product %d is now %s\n", resp.ProductID, state)
			return nil
		},
	}
}

func printProductDetail(p *api.ProductDetail) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", p.ID)
	fmt.Fprintf(w, "SKU:\t%s\n", p.SKU)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Device:\t%s\n", p.DeviceModel)
	fmt.Fprintf(w, "Type:\t%s\n", p.ProductType)
	fmt.Fprintf(w, "Brand:\t%s\n", p.PartBrand)
	fmt.Fprintf(w, "Grade:\t%s\n", p.QualityGrade)
	fmt.Fprintf(w, "Stock:\t%d\n", p.Stock)
	fmt.Fprintf(w, "Retail price:\t%.2f\n", p.RetailPrice)
	fmt.Fprintf(w, "Technician price:\t%.2f\n", p.TechnicianPrice)
	if p.WarrantyDays > 0 {
		fmt.Fprintf(w, "Warranty:\t%d days\n", p.WarrantyDays)
	}
	fmt.Fprintf(w, "Active:\t%t\n", p.IsActive)
	w.Flush()
}
