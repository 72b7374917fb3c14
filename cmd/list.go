package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/catalog/internal/app"
	"github.com/nguyentranbao-ct/catalog/internal/models"
	"github.com/nguyentranbao-ct/catalog/internal/usecase"
)

type listFlags struct {
	search   string
	filter   string
	category string
	page     int
	asJSON   bool
}

var listOpts listFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch the catalog once and print one page of it",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := models.Filter(listOpts.filter)
		if !filter.Valid() {
			return fmt.Errorf("invalid filter %q: must be all or favorites", listOpts.filter)
		}

		var uc usecase.CatalogUsecase
		a := app.New(fx.Populate(&uc))
		if err := a.Err(); err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.Start(ctx); err != nil {
			return err
		}
		defer a.Stop(context.Background()) //nolint:errcheck

		res := uc.List(ctx, usecase.ListQuery{
			Filter:   &filter,
			Search:   &listOpts.search,
			Category: &listOpts.category,
			Page:     &listOpts.page,
		})
		if res.Status.Error != "" {
			return fmt.Errorf("%s", res.Status.Error)
		}
		if listOpts.asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		return writeTable(cmd.OutOrStdout(), res)
	},
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listOpts.search, "search", "", "case-insensitive text matched against title and description")
	f.StringVar(&listOpts.filter, "filter", string(models.FilterAll), "all or favorites")
	f.StringVar(&listOpts.category, "category", models.AllCategories, "category to show")
	f.IntVar(&listOpts.page, "page", 1, "page number, clamped to the available pages")
	f.BoolVar(&listOpts.asJSON, "json", false, "print the page as JSON")
}

func writeJSON(w io.Writer, res usecase.ListResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeTable(w io.Writer, res usecase.ListResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tLIKED")
	for _, p := range res.Page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%t\n", p.ID, p.Title, p.Category, p.Price, p.Liked)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d/%d, %d products\n", res.Page.Page, res.Page.TotalPages, res.Page.TotalItems)
	return err
}
