package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rl1809/stockroom/internal/adapter/notify"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

const shellHelp = `Commands:
  list                    show the catalog in the current order
  sort <mode>             order or filter the list (%s)
  reset                   back to catalog order
  view [table|card]       show or switch the catalog view
  add                     add a product (prompts for each field)
  find <text>             select the first product matching name or code
  search <text>           show every match
  update <code>           change price and/or stock
  delete <code>           delete a product after confirmation
  buy <code> [qty]        put units in the cart
  cart                    show the cart
  qty <line> <qty>        change the quantity of a cart line
  remove <line>           take a line out of the cart
  receipt                 preview the receipt
  checkout                sell the cart
  summary                 catalog totals
  help                    this text
  quit                    leave
`

func NewShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive point of sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := openApp(ctx, opts, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			sh := NewShell(cmd.InOrStdin(), cmd.OutOrStdout())
			s, err := a.session(ctx, service.WithNotifier(sh.Notifier()))
			if err != nil {
				return err
			}
			return sh.Run(ctx, s)
		},
	}
}

// Shell is a line-oriented front end over one session.
type Shell struct {
	in  *bufio.Reader
	out io.Writer

	session *service.Session
	summary *domain.Summary // set when a notification arrives, cleared once shown
}

func NewShell(in io.Reader, out io.Writer) *Shell {
	return &Shell{in: bufio.NewReader(in), out: out}
}

// Notifier returns the notifier the session should report to. The shell
// prints a status line after each command that changed the catalog.
func (sh *Shell) Notifier() notify.Funcs {
	return notify.Funcs{
		Summary: func(s domain.Summary) { sh.summary = &s },
	}
}

// Run reads commands until quit or end of input.
func (sh *Shell) Run(ctx context.Context, s *service.Session) error {
	sh.session = s
	sh.summary = nil
	fmt.Fprintln(sh.out, "Stockroom. Type help for commands.")
	sh.list()

	for {
		fmt.Fprint(sh.out, "> ")
		line, err := sh.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(sh.out)
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		sh.dispatch(ctx, fields[0], fields[1:])

		if sh.summary != nil {
			fmt.Fprintf(sh.out, "[%d products | stock %d | value %s | low stock %d]\n",
				sh.summary.TotalProducts, sh.summary.TotalStock, domain.Money(sh.summary.TotalValue), sh.summary.LowStockCount)
			sh.summary = nil
		}
	}
}

func (sh *Shell) dispatch(ctx context.Context, name string, args []string) {
	switch name {
	case "help":
		fmt.Fprintf(sh.out, shellHelp, joinModes())
	case "list":
		sh.list()
	case "sort":
		sh.sort(args)
	case "reset":
		sh.session.ResetProjection()
		sh.list()
	case "view":
		sh.view(ctx, args)
	case "add":
		sh.add(ctx)
	case "find":
		sh.find(strings.Join(args, " "))
	case "search":
		sh.search(strings.Join(args, " "))
	case "update":
		sh.update(ctx, args)
	case "delete":
		sh.delete(ctx, args)
	case "buy":
		sh.buy(ctx, args)
	case "cart":
		renderCart(sh.out, sh.session.CartItems())
	case "qty":
		sh.setQuantity(ctx, args)
	case "remove":
		sh.remove(ctx, args)
	case "receipt":
		sh.receipt()
	case "checkout":
		sh.checkout(ctx)
	case "summary":
		renderSummary(sh.out, sh.session.Summary())
	default:
		fmt.Fprintf(sh.out, "Unknown command %q. Type help for commands.\n", name)
	}
}

func (sh *Shell) list() {
	renderProducts(sh.out, sh.session.Projection().Items(), sh.session.CategoryOf, sh.session.View())
}

func (sh *Shell) sort(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(sh.out, "Usage: sort <%s>\n", joinModes())
		return
	}
	mode, err := domain.ParseSortMode(args[0])
	if err != nil {
		sh.fail(err)
		return
	}
	sh.session.SortBy(mode)
	sh.list()
}

func (sh *Shell) view(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(sh.out, "View: %s\n", sh.session.View())
		return
	}
	if err := sh.session.SetView(ctx, domain.ViewMode(args[0])); err != nil {
		sh.fail(err)
		return
	}
	sh.list()
}

func (sh *Shell) add(ctx context.Context) {
	name := sh.prompt("Name: ")
	code := sh.prompt("Code: ")
	price := sh.prompt("Price: ")
	stock := sh.prompt("Stock: ")
	restock := sh.prompt("Restock threshold: ")

	names := make([]string, 0)
	for _, c := range sh.session.Categories() {
		names = append(names, c.Name)
	}
	category := sh.prompt(fmt.Sprintf("Category [%s]: ", strings.Join(names, "/")))

	if _, err := sh.session.AddProduct(ctx, domain.ParseProductInput(name, code, price, stock, restock, category)); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "Product added")
	sh.list()
}

func (sh *Shell) find(query string) {
	p, err := sh.session.FindByKeyword(query)
	if err != nil {
		sh.fail(err)
		return
	}
	renderCards(sh.out, []domain.Product{p}, sh.session.CategoryOf)
}

func (sh *Shell) search(query string) {
	renderProducts(sh.out, sh.session.Search(query), sh.session.CategoryOf, sh.session.View())
}

func (sh *Shell) update(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: update <code>")
		return
	}
	p, err := sh.session.Product(args[0])
	if err != nil {
		sh.fail(err)
		return
	}

	price := sh.prompt(fmt.Sprintf("New price (blank keeps %s): ", domain.Money(p.Price)))
	stock := sh.prompt(fmt.Sprintf("New stock (blank keeps %d): ", p.Stock))
	newPrice, newStock := parseUpdate(price, stock)

	if _, err := sh.session.UpdateProduct(ctx, p.Code, newPrice, newStock); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "Product updated!")
	sh.list()
}

func (sh *Shell) delete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: delete <code>")
		return
	}
	deleted, err := sh.session.DeleteProduct(ctx, args[0], promptConfirm(sh.in, sh.out))
	if err != nil {
		sh.fail(err)
		return
	}
	if !deleted {
		fmt.Fprintln(sh.out, "Deletion cancelled")
		return
	}
	fmt.Fprintln(sh.out, "Product deleted!")
	sh.list()
}

func (sh *Shell) buy(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(sh.out, "Usage: buy <code> [qty]")
		return
	}
	qty := 1
	if len(args) == 2 {
		// non-numeric quantities become 0 and are refused by the cart
		qty, _ = domain.ParseInt(args[1])
	}
	if err := sh.session.AddToCart(ctx, args[0], qty); err != nil {
		sh.fail(err)
		return
	}
	renderCart(sh.out, sh.session.CartItems())
}

func (sh *Shell) setQuantity(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(sh.out, "Usage: qty <line> <qty>")
		return
	}
	line, err := strconv.Atoi(args[0])
	if err != nil {
		sh.fail(domain.ErrLineNotFound)
		return
	}
	qty, _ := domain.ParseInt(args[1])
	if err := sh.session.SetLineQuantity(ctx, line-1, qty); err != nil {
		sh.fail(err)
		renderCart(sh.out, sh.session.CartItems())
		return
	}
	renderCart(sh.out, sh.session.CartItems())
}

func (sh *Shell) remove(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage: remove <line>")
		return
	}
	line, err := strconv.Atoi(args[0])
	if err != nil {
		sh.fail(domain.ErrLineNotFound)
		return
	}
	removed, err := sh.session.RemoveLine(ctx, line-1)
	if err != nil {
		sh.fail(err)
		return
	}
	if !removed {
		sh.fail(domain.ErrLineNotFound)
		return
	}
	renderCart(sh.out, sh.session.CartItems())
}

func (sh *Shell) receipt() {
	r, err := sh.session.PreviewReceipt()
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprint(sh.out, r.Text())
}

func (sh *Shell) checkout(ctx context.Context) {
	sale, err := sh.session.Checkout(ctx)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprint(sh.out, sale.Receipt.Text())
}

func (sh *Shell) prompt(label string) string {
	fmt.Fprint(sh.out, label)
	line, _ := sh.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (sh *Shell) fail(err error) {
	fmt.Fprintln(sh.out, domain.Message(err))
}
