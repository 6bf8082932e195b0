package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

// ConfirmFunc asks whether p may be deleted.
type ConfirmFunc func(p domain.Product) bool

// Confirmed approves every deletion. Use it when the caller already obtained
// consent, e.g. through a --yes flag.
func Confirmed(domain.Product) bool { return true }

var errUnchanged = errors.New("unchanged")

// Session owns the catalog, cart, display projection and view mode of one
// shop. Operations are serialised; each one runs to completion, is persisted,
// and only then is reported to the notifier.
type Session struct {
	repo     port.CatalogRepository
	notifier port.Notifier
	log      logrus.FieldLogger
	now      func() time.Time

	// pubMu is taken before mu is released so notifications leave in
	// commit order. Notifier callbacks must not mutate the session.
	pubMu sync.Mutex

	mu         sync.Mutex
	registry   *domain.Registry
	catalog    *domain.Catalog
	cart       *domain.Cart
	projection domain.Projection
	view       domain.ViewMode
}

type Option func(*Session)

func WithNotifier(n port.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.log = l }
}

func WithRegistry(r *domain.Registry) Option {
	return func(s *Session) { s.registry = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(repo port.CatalogRepository, opts ...Option) *Session {
	s := &Session{
		repo:     repo,
		notifier: nopNotifier{},
		log:      logrus.StandardLogger(),
		now:      time.Now,
		registry: domain.DefaultRegistry(),
		view:     domain.ViewTable,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.catalog = domain.NewCatalog(s.registry)
	s.cart = domain.NewCart()
	s.projection = domain.NewProjection(s.catalog)
	return s
}

// Load replaces the session state with what the repository holds. The cart
// starts empty.
func (s *Session) Load(ctx context.Context) error {
	records, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	view, err := s.repo.LoadView(ctx)
	if err != nil {
		return fmt.Errorf("load view: %w", err)
	}

	cat, skipped := domain.FromRecords(s.registry, records)
	if len(skipped) > 0 {
		s.log.WithField("codes", skipped).Warn("skipped records with duplicate product codes")
	}

	s.mu.Lock()
	s.catalog = cat
	s.cart = domain.NewCart()
	s.projection = domain.NewProjection(cat)
	s.view = view
	snap := s.snapshotLocked(true)
	s.pubMu.Lock()
	s.mu.Unlock()
	s.publish(snap)
	s.pubMu.Unlock()

	s.log.WithFields(logrus.Fields{"products": cat.Len(), "view": view}).Info("catalog loaded")
	return nil
}

func (s *Session) AddProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	var added domain.Product
	err := s.mutate(ctx, false, func(cat *domain.Catalog, _ *domain.Cart) error {
		p, err := cat.Add(in)
		added = p
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.log.WithFields(productFields(added)).Info("product added")
	return added, nil
}

// UpdateProduct applies the non-nil fields to the product with code.
func (s *Session) UpdateProduct(ctx context.Context, code string, price *decimal.Decimal, stock *int) (domain.Product, error) {
	var updated domain.Product
	err := s.mutate(ctx, false, func(cat *domain.Catalog, _ *domain.Cart) error {
		p, err := cat.Update(code, price, stock)
		updated = p
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.log.WithFields(productFields(updated)).Info("product updated")
	return updated, nil
}

// DeleteProduct removes the product with code once confirm approves it. A
// declined confirmation returns false and changes nothing. A cart line for the
// product is dropped together with it.
func (s *Session) DeleteProduct(ctx context.Context, code string, confirm ConfirmFunc) (bool, error) {
	p, err := s.Product(code)
	if err != nil {
		return false, err
	}
	if confirm == nil || !confirm(p) {
		s.log.WithField("code", code).Info("deletion cancelled by user")
		return false, nil
	}

	var dropped domain.CartLine
	var hadLine bool
	err = s.mutate(ctx, true, func(cat *domain.Catalog, cart *domain.Cart) error {
		if _, err := cat.Delete(code); err != nil {
			return err
		}
		dropped, hadLine = cart.Drop(code)
		return nil
	})
	if err != nil {
		return false, err
	}

	entry := s.log.WithFields(logrus.Fields{"code": p.Code, "name": p.Name})
	if hadLine {
		entry = entry.WithField("dropped_qty", dropped.Quantity)
	}
	entry.Info("product deleted")
	return true, nil
}

// AddToCart reserves qty units of code.
func (s *Session) AddToCart(ctx context.Context, code string, qty int) error {
	var stock int
	err := s.mutate(ctx, true, func(cat *domain.Catalog, cart *domain.Cart) error {
		if err := cart.AddLine(cat, code, qty); err != nil {
			return err
		}
		p, _ := cat.FindByCode(code)
		stock = p.Stock
		return nil
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"code": code, "qty": qty, "stock": stock}).Info("added to cart")
	return nil
}

func (s *Session) SetLineQuantity(ctx context.Context, index, qty int) error {
	var old domain.CartLine
	err := s.mutate(ctx, true, func(cat *domain.Catalog, cart *domain.Cart) error {
		lines := cart.Lines()
		if index >= 0 && index < len(lines) {
			old = lines[index]
		}
		return cart.SetLineQuantity(cat, index, qty)
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"code": old.Code, "from": old.Quantity, "to": qty}).Info("cart line updated")
	return nil
}

// RemoveLine releases the line at index. It reports false when there is no
// such line.
func (s *Session) RemoveLine(ctx context.Context, index int) (bool, error) {
	var removed domain.CartLine
	err := s.mutate(ctx, true, func(cat *domain.Catalog, cart *domain.Cart) error {
		line, ok := cart.RemoveLine(cat, index)
		if !ok {
			return errUnchanged
		}
		removed = line
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.WithFields(logrus.Fields{"code": removed.Code, "qty": removed.Quantity}).Info("removed from cart")
	return true, nil
}

// Checkout sells the cart: the receipt is computed and the cart is cleared.
// Stock was taken when the lines were reserved and is not touched again.
func (s *Session) Checkout(ctx context.Context) (domain.Sale, error) {
	var sale domain.Sale
	err := s.mutate(ctx, true, func(cat *domain.Catalog, cart *domain.Cart) error {
		r, err := domain.ComputeReceipt(cart, cat)
		if err != nil {
			return err
		}
		sale = domain.Sale{ID: uuid.New(), Receipt: r, CompletedAt: s.now()}
		cart.Clear()
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	s.log.WithFields(logrus.Fields{
		"sale":  sale.ID,
		"lines": len(sale.Receipt.Lines),
		"total": sale.Receipt.Total.StringFixed(2),
	}).Info("checkout completed")
	return sale, nil
}

// PreviewReceipt prices the current cart without selling it.
func (s *Session) PreviewReceipt() (domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeReceipt(s.cart, s.catalog)
}

func (s *Session) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.All()
}

func (s *Session) Product(code string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.FindByCode(code)
}

func (s *Session) FindByKeyword(query string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.FindByKeyword(query)
}

func (s *Session) Search(query string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(query)
}

func (s *Session) CategoryOf(p domain.Product) domain.Category {
	return s.registry.Lookup(p.CategoryID)
}

func (s *Session) Categories() []domain.Category {
	return s.registry.All()
}

func (s *Session) CartItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items(s.catalog)
}

func (s *Session) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Summarize(s.catalog)
}

func (s *Session) Projection() domain.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projection
}

// SortBy replaces the display projection. The catalog is not touched and
// nothing is persisted.
func (s *Session) SortBy(mode domain.SortMode) domain.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projection = domain.Project(s.catalog, mode)
	return s.projection
}

// Sorted returns the catalog in mode order without changing the session's
// own projection.
func (s *Session) Sorted(mode domain.SortMode) domain.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Project(s.catalog, mode)
}

func (s *Session) ResetProjection() domain.Projection {
	return s.SortBy(domain.SortNone)
}

func (s *Session) View() domain.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) SetView(ctx context.Context, view domain.ViewMode) error {
	if _, err := domain.ParseViewMode(string(view)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveView(ctx, view); err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	s.view = view
	return nil
}

// mutate runs fn on copies of the catalog and cart and commits them only when
// fn succeeds and the catalog was saved.
func (s *Session) mutate(ctx context.Context, cartChanged bool, fn func(*domain.Catalog, *domain.Cart) error) error {
	s.mu.Lock()
	cat, cart := s.catalog.Clone(), s.cart.Clone()
	if err := fn(cat, cart); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.repo.SaveCatalog(ctx, domain.ToRecords(cat)); err != nil {
		s.mu.Unlock()
		s.log.WithError(err).Error("failed to persist catalog, change discarded")
		return fmt.Errorf("save catalog: %w", err)
	}

	s.catalog, s.cart = cat, cart
	s.projection = domain.NewProjection(cat)
	snap := s.snapshotLocked(cartChanged)
	s.pubMu.Lock()
	s.mu.Unlock()

	defer s.pubMu.Unlock()
	s.publish(snap)
	return nil
}

type snapshot struct {
	products []domain.Product
	items    []domain.CartItem
	summary  domain.Summary
	cart     bool
}

func (s *Session) snapshotLocked(cart bool) snapshot {
	snap := snapshot{
		products: s.catalog.All(),
		summary:  domain.Summarize(s.catalog),
		cart:     cart,
	}
	if cart {
		snap.items = s.cart.Items(s.catalog)
	}
	return snap
}

func (s *Session) publish(snap snapshot) {
	s.notifier.CatalogChanged(snap.products)
	if snap.cart {
		s.notifier.CartChanged(snap.items)
	}
	s.notifier.SummaryChanged(snap.summary)
}

func productFields(p domain.Product) logrus.Fields {
	return logrus.Fields{
		"code":  p.Code,
		"name":  p.Name,
		"price": p.Price.String(),
		"stock": p.Stock,
	}
}

type nopNotifier struct{}

func (nopNotifier) CatalogChanged([]domain.Product) {}
func (nopNotifier) CartChanged([]domain.CartItem) {}
func (nopNotifier) SummaryChanged(domain.Summary) {}
