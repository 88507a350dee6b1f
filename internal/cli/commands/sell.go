package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amanf244/mars4/internal/api"
	"github.com/amanf244/mars4/internal/pos"
	"github.com/amanf244/mars4/internal/pos/cartstore"
)

// NewSellCmd creates the sell command group for point-of-sale flows
func NewSellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Point-of-sale: price carts, finalize sales, hold drafts",
	}

	cmd.AddCommand(newSellPriceCmd())
	cmd.AddCommand(newSellCheckoutCmd())
	cmd.AddCommand(newSellHoldCmd())
	cmd.AddCommand(newSellDraftsCmd())
	cmd.AddCommand(newSellResumeCmd())

	return cmd
}

// parseCartItems parses --item flags of the form sku:qty into a cart
func parseCartItems(items []string, technicianPrice bool, technicianID int64) (*pos.Cart, error) {
	cart := pos.NewCart()
	for _, raw := range items {
		sku, qtyStr, found := strings.Cut(raw, ":")
		qty := 1
		if found {
			var err error
			qty, err = strconv.Atoi(qtyStr)
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q (expected sku:qty)", raw)
			}
		}
		if strings.TrimSpace(sku) == "" {
			return nil, fmt.Errorf("empty SKU in %q", raw)
		}
		cart.AddItem(sku, qty)
	}

	if technicianPrice {
		var techID *int64
		if technicianID > 0 {
			techID = &technicianID
		}
		cart.SetTechnicianPrice(true, techID)
	}
	return cart, nil
}

func newSellPriceCmd() *cobra.Command {
	var items []string
	var technicianPrice bool
	var technicianID int64

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a cart without committing the sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			cart, err := parseCartItems(items, technicianPrice, technicianID)
			if err != nil {
				return err
			}

			quote, err := cart.Quote(cmd.Context(), app.client)
			if err != nil {
				return err
			}

			printQuote(quote)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "Cart line as sku:qty (repeatable)")
	cmd.Flags().BoolVar(&technicianPrice, "technician-price", false, "Use technician pricing")
	cmd.Flags().Int64Var(&technicianID, "technician", 0, "Technician account ID for attribution")

	return cmd
}

func newSellCheckoutCmd() *cobra.Command {
	var items []string
	var technicianPrice bool
	var technicianID int64
	var draftID string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Finalize a sale and decrement stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			var cart *pos.Cart
			if draftID != "" {
				if len(items) > 0 {
					return fmt.Errorf("--draft and --item are mutually exclusive")
				}
				store, err := openDraftStore(app)
				if err != nil {
					return err
				}
				defer store.Close()

				cart, err = store.Resume(draftID)
				if err != nil {
					return err
				}
			} else {
				cart, err = parseCartItems(items, technicianPrice, technicianID)
				if err != nil {
					return err
				}
			}

			sale, err := cart.Checkout(cmd.Context(), app.client)
			if err != nil {
				return err
			}

			printReceipt(sale)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "Cart line as sku:qty (repeatable)")
	cmd.Flags().BoolVar(&technicianPrice, "technician-price", false, "Use technician pricing")
	cmd.Flags().Int64Var(&technicianID, "technician", 0, "Technician account ID for attribution")
	cmd.Flags().StringVar(&draftID, "draft", "", "Check out a held draft instead of --item lines")

	return cmd
}

func newSellHoldCmd() *cobra.Command {
	var items []string
	var technicianPrice bool
	var label string

	cmd := &cobra.Command{
		Use:   "hold",
		Short: "Hold a cart as a draft to resume later",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			cart, err := parseCartItems(items, technicianPrice, 0)
			if err != nil {
				return err
			}

			store, err := openDraftStore(app)
			if err != nil {
				return err
			}
			defer store.Close()

			draft, err := store.Hold(cart, label)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Cart held as draft %s\n", draft.ID)
			if draft.Label != "" {
				fmt.Printf("  Label: %s\n", draft.Label)
			}
			fmt.Printf("Resume with: mars4 sell checkout --draft %s\n", draft.ID)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "Cart line as sku:qty (repeatable)")
	cmd.Flags().BoolVar(&technicianPrice, "technician-price", false, "Use technician pricing")
	cmd.Flags().StringVar(&label, "label", "", "Label for the held cart")

	return cmd
}

func newSellDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List held carts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			store, err := openDraftStore(app)
			if err != nil {
				return err
			}
			defer store.Close()

			drafts, err := store.List()
			if err != nil {
				return err
			}

			if len(drafts) == 0 {
				fmt.Println("No held carts.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tLINES\tHELD AT")
			for _, d := range drafts {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					d.ID, d.Label, len(d.Items), d.CreatedAt.Format("2006-01-02 15:04"))
			}
			w.Flush()
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <draft-id>",
		Short: "Delete a held cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			store, err := openDraftStore(app)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Draft %s deleted\n", args[0])
			return nil
		},
	})

	return cmd
}

func newSellResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <draft-id>",
		Short: "Load a held cart and show its current pricing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			store, err := openDraftStore(app)
			if err != nil {
				return err
			}
			defer store.Close()

			cart, err := store.Resume(args[0])
			if err != nil {
				return err
			}

			quote, err := cart.Quote(cmd.Context(), app.client)
			if err != nil {
				// The draft was consumed; put it back so nothing is lost
				if _, holdErr := store.Hold(cart, "resumed"); holdErr != nil {
					app.log.Warn().Err(holdErr).Msg("failed to re-hold cart after pricing error")
				}
				return err
			}

			printQuote(quote)
			return nil
		},
	}
}

func openDraftStore(app *appContext) (*cartstore.Store, error) {
	path, err := app.cfg.DraftDBPath()
	if err != nil {
		return nil, err
	}
	return cartstore.Open(path, app.log)
}

func printQuote(quote *api.CartPriceResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tNAME\tQTY\tUNIT\tTOTAL")
	for _, line := range quote.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n",
			line.SKU, line.Name, line.Quantity, line.UnitPrice, line.LineTotal)
	}
	w.Flush()

	fmt.Printf("\nSubtotal: %.2f\n", quote.SubtotalRetail)
	if quote.Discount > 0 {
		fmt.Printf("Discount: -%.2f\n", quote.Discount)
	}
	fmt.Printf("Total:    %.2f\n", quote.SubtotalActual)
	if quote.IsTechnicianPrice {
		fmt.Println("(technician pricing)")
	}
}

func printReceipt(sale *api.SaleResponse) {
	fmt.Printf("✓ Sale #%d completed\n\n", sale.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SKU\tNAME\tQTY\tUNIT\tTOTAL\tSTOCK LEFT")
	for _, line := range sale.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\t%d\n",
			line.SKU, line.Name, line.Quantity, line.UnitPrice, line.LineTotal, line.RemainingStock)
	}
	w.Flush()

	fmt.Printf("\nSubtotal: %.2f\n", sale.Subtotal)
	if sale.Discount > 0 {
		fmt.Printf("Discount: -%.2f\n", sale.Discount)
	}
	fmt.Printf("Total:    %.2f\n", sale.Total)
	fmt.Printf("Cashier:  %s\n", sale.CashierName)
	if sale.TechnicianName != nil {
		fmt.Printf("Technician: %s\n", *sale.TechnicianName)
	}
}
