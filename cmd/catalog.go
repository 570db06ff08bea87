package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/utils"
	"github.com/princinho/catalogsite/views"
	"github.com/spf13/cobra"
)

var (
	catalogCategory string
	catalogLimit    int
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the active products the site would show",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog := cms.NewCatalog(cms.NewClient(cfg.Directus), nil, cfg.Directus)
		products := catalog.FetchProducts(cmd.Context(), strings.TrimSpace(catalogCategory), catalogLimit)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tNAME\tCATEGORY\tPRICE\tIMAGES")
		for _, p := range products {
			category := "-"
			if c, ok := p.Category.Expanded(); ok {
				category = c.Slug
			}
			price := "-"
			if p.Price.Valid {
				price = views.FormatPrice(p.Price.Value)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", p.ID, p.Slug, p.Name, category, price, len(p.ImageIDs()))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d products\n", len(products))
		return nil
	},
}

var hashSecretCmd = &cobra.Command{
	Use:   "hash-secret <secret>",
	Short: "Print a bcrypt hash usable as ADMIN_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := utils.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "only products of this category slug")
	catalogCmd.Flags().IntVar(&catalogLimit, "limit", 0, "maximum number of products (0 = all)")
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(hashSecretCmd)
}
