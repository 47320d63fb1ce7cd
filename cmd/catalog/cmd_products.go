package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/collection"
)

var productsFlags struct {
	category string
	search   string
	limit    int
	offset   int
}

// catalog products: list one page of the catalogue.
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer k.close(cmd.Context())

		q := catalog.Query{Category: productsFlags.category, Search: productsFlags.search}
		if cmd.Flags().Changed("limit") && productsFlags.limit >= 0 {
			q.Limit = &productsFlags.limit
		}
		if cmd.Flags().Changed("offset") && productsFlags.offset >= 0 {
			q.Offset = &productsFlags.offset
		}

		page, err := k.products.List(cmd.Context(), q)
		if err != nil {
			return err
		}
		return printProducts(cmd.OutOrStdout(), page)
	},
}

func init() {
	f := productsCmd.Flags()
	f.StringVar(&productsFlags.category, "category", "", `only this category ("all" for every category)`)
	f.StringVar(&productsFlags.search, "search", "", "case-insensitive match on name or category")
	f.IntVar(&productsFlags.limit, "limit", 0, "page size")
	f.IntVar(&productsFlags.offset, "offset", 0, "records to skip")
}

func printProducts(w io.Writer, page catalog.Page) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY\tSTOCK\tCREATED")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Price, p.Category, p.StockStatus, p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nShowing %d of %d products\n", len(page.Items), page.Total)
	if len(page.Items) == 0 {
		return nil
	}

	groups := collection.GroupBy(page.Items, func(p models.Product) string { return p.Category })
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-20s %d\n", name, len(groups[name]))
	}
	return nil
}
