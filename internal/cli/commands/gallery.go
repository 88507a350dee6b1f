package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amanf244/mars4/internal/api"
)

// NewGalleryCmd creates the gallery command group
func NewGalleryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Browse and manage the repair case-study gallery",
	}

	cmd.AddCommand(newGalleryListCmd())
	cmd.AddCommand(newGalleryStatsCmd())
	cmd.AddCommand(newGalleryPublishCmd())
	cmd.AddCommand(newGalleryUploadCmd())

	return cmd
}

func newGalleryListCmd() *cobra.Command {
	var params api.GalleryListParams
	var admin bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List gallery case studies",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			var items []api.GalleryItem
			if admin {
				if err := app.requireAdmin(cmd.Context()); err != nil {
					return err
				}
				resp, err := app.client.AdminGalleryList(cmd.Context(), params)
				if err != nil {
					return err
				}
				items = resp.Items
			} else {
				// Public listing needs no session
				items, err = app.client.GalleryList(cmd.Context())
				if err != nil {
					return err
				}
			}

			if len(items) == 0 {
				fmt.Println("No gallery items found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tSTATUS\tDATE")
			for _, item := range items {
				status := item.Status
				if status == "" {
					status = "published"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					item.ID, item.Title, item.Category, status, item.Date)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Include unpublished items (admin)")
	cmd.Flags().IntVar(&params.Page, "page", 1, "Page number (admin listing)")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 20, "Items per page (admin listing)")
	cmd.Flags().StringVar(&params.Search, "search", "", "Search by title")
	cmd.Flags().StringVar(&params.Status, "status", "", "Filter by status (admin listing)")
	cmd.Flags().StringVar(&params.Category, "category", "", "Filter by category")

	return cmd
}

func newGalleryStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show gallery counters (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			stats, err := app.client.GalleryStatistics(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Total:     %d\n", stats.Total)
			fmt.Printf("Published: %d\n", stats.Published)
			fmt.Printf("Draft:     %d\n", stats.Draft)
			fmt.Printf("Archived:  %d\n", stats.Archived)
			return nil
		},
	}
}

func newGalleryPublishCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "publish <id> [id...]",
		Short: "Set the status of one or more case studies (admin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid gallery ID %q", arg)
				}
				ids = append(ids, id)
			}

			if err := app.client.BulkUpdateGalleryStatus(cmd.Context(), api.BulkGalleryStatusRequest{
				IDs:    ids,
				Status: status,
			}); err != nil {
				return err
			}

			fmt.Printf("✓ %d item(s) set to %s\n", len(ids), status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "published", "New status: published, draft or archived")

	return cmd
}

func newGalleryUploadCmd() *cobra.Command {
	var caption string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a photo for use in gallery case studies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			path := args[0]
			if !api.ValidImageName(path) {
				return fmt.Errorf("unsupported image type (expected jpg, jpeg, png or webp): %s", path)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			resp, err := app.client.UploadGalleryPhoto(cmd.Context(), filepath.Base(path), data, caption)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			fmt.Println("✓ Uploaded")
			fmt.Printf("  URL: %s\n", resp.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&caption, "caption", "", "Photo caption")

	return cmd
}
