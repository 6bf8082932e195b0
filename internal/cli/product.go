package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

// withSession opens the store, loads a session and hands both to fn.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *service.Session, out *OutputFormatter) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, opts, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.session(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, s, &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()})
}

func NewProductCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(newProductAddCommand(opts))
	cmd.AddCommand(newProductListCommand(opts))
	cmd.AddCommand(newProductFindCommand(opts))
	cmd.AddCommand(newProductUpdateCommand(opts))
	cmd.AddCommand(newProductDeleteCommand(opts))
	return cmd
}

func newProductAddCommand(opts *RootOptions) *cobra.Command {
	var name, code, price, stock, restock, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add a product to the catalog. Numeric values that do not parse are
stored as 0; an unknown category falls back to the first one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *service.Session, out *OutputFormatter) error {
				p, err := s.AddProduct(ctx, domain.ParseProductInput(name, code, price, stock, restock, category))
				if err != nil {
					return out.Fail(err)
				}
				products := []domain.Product{p}
				return out.Success("Product added", productViews(products, s.CategoryOf)[0], func(w io.Writer) {
					renderProducts(w, products, s.CategoryOf, s.View())
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&code, "code", "", "unique product code")
	cmd.Flags().StringVar(&price, "price", "0", "unit price")
	cmd.Flags().StringVar(&stock, "stock", "0", "units in stock")
	cmd.Flags().StringVar(&restock, "restock", "0", "restock threshold")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("code")
	return cmd
}

func newProductListCommand(opts *RootOptions) *cobra.Command {
	var sort, view string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := domain.ParseSortMode(sort)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --sort", err)
			}
			return withSession(cmd, opts, func(ctx context.Context, s *service.Session, out *OutputFormatter) error {
				products := s.Sorted(mode).Items()
				v := s.View()
				if view != "" {
					v = domain.ViewOrDefault(view)
				}
				return out.Success("", productViews(products, s.CategoryOf), func(w io.Writer) {
					renderProducts(w, products, s.CategoryOf, v)
				})
			})
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "", fmt.Sprintf("order or filter (%s)", joinModes()))
	cmd.Flags().StringVar(&view, "view", "", "table or card, defaults to the saved view")
	return cmd
}

func newProductFindCommand(opts *RootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find a product by name or code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *service.Session, out *OutputFormatter) error {
				var products []domain.Product
				if all {
					products = s.Search(args[0])
				} else {
					p, err := s.FindByKeyword(args[0])
					if err != nil {
						return out.Fail(err)
					}
					products = []domain.Product{p}
				}
				return out.Success("", productViews(products, s.CategoryOf), func(w io.Writer) {
					renderProducts(w, products, s.CategoryOf, s.View())
				})
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "show every match instead of the first")
	return cmd
}

func newProductUpdateCommand(opts *RootOptions) *cobra.Command {
	var price, stock string

	cmd := &cobra.Command{
		Use:   "update <code>",
		Short: "Change price and/or stock",
		Long: `Change the price and/or stock of a product. A value that is not a
non-negative number is ignored and the field keeps its value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newPrice, newStock := parseUpdate(price, stock)
			return withSession(cmd, opts, func(ctx context.Context, s *service.Session, out *OutputFormatter) error {
				p, err := s.UpdateProduct(ctx, args[0], newPrice, newStock)
				if err != nil {
					return out.Fail(err)
				}
				products := []domain.Product{p}
				return out.Success("Product updated!", productViews(products, s.CategoryOf)[0], func(w io.Writer) {
					renderProducts(w, products, s.CategoryOf, s.View())
				})
			})
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "new unit price")
	cmd.Flags().StringVar(&stock, "stock", "", "new stock")
	return cmd
}

func newProductDeleteCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a product after confirmation",
		Long: `Delete a product. You are asked to confirm unless --yes is given. A cart
line for the product is dropped with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *service.Session, out *OutputFormatter) error {
				confirm := service.Confirmed
				if !yes {
					confirm = promptConfirm(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
				}
				deleted, err := s.DeleteProduct(ctx, args[0], confirm)
				if err != nil {
					return out.Fail(err)
				}
				if !deleted {
					return out.Success("Deletion cancelled", nil, nil)
				}
				return out.Success("Product deleted!", nil, nil)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// parseUpdate drops values that are not non-negative numbers.
func parseUpdate(price, stock string) (*decimal.Decimal, *int) {
	var newPrice *decimal.Decimal
	if f, ok := domain.ParseNumber(price); ok && f >= 0 {
		d := decimal.NewFromFloat(f)
		newPrice = &d
	}
	var newStock *int
	if n, ok := domain.ParseInt(stock); ok && n >= 0 {
		newStock = &n
	}
	return newPrice, newStock
}

// promptConfirm asks on out and reads the answer from in. Only y or yes
// confirms.
func promptConfirm(in *bufio.Reader, out io.Writer) service.ConfirmFunc {
	return func(p domain.Product) bool {
		fmt.Fprintf(out, "Are you sure you want to delete %q (%s)? [y/N]: ", p.Name, p.Code)
		answer, _ := in.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

func joinModes() string {
	modes := domain.SortModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}
