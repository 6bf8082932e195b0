package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

type HTTPHandler struct {
	session *service.Session
	log     logrus.FieldLogger
}

type AddProductRequest struct {
	Name     string        `json:"name"`
	Code     string        `json:"code"`
	Price    domain.Number `json:"price"`
	Stock    domain.Number `json:"stock"`
	Restock  domain.Number `json:"restock"`
	Category string        `json:"category"`
}

// UpdateProductRequest fields are left untyped: a value that is missing or
// does not parse leaves the product field unchanged.
type UpdateProductRequest struct {
	Price any `json:"price"`
	Stock any `json:"stock"`
}

type AddToCartRequest struct {
	Code     string         `json:"code"`
	Quantity *domain.Number `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity domain.Number `json:"quantity"`
}

type ViewRequest struct {
	View string `json:"view"`
}

func NewHTTPHandler(session *service.Session, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{session: session, log: log}
}

// Router wires every route and wraps them with request logging.
func (h *HTTPHandler) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	s := r.PathPrefix("/api").Subrouter()
	s.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	s.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	s.HandleFunc("/products", h.AddProduct).Methods(http.MethodPost)
	s.HandleFunc("/products/{code}", h.GetProduct).Methods(http.MethodGet)
	s.HandleFunc("/products/{code}", h.UpdateProduct).Methods(http.MethodPatch)
	s.HandleFunc("/products/{code}", h.DeleteProduct).Methods(http.MethodDelete)
	s.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	s.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	s.HandleFunc("/cart/lines", h.AddToCart).Methods(http.MethodPost)
	s.HandleFunc("/cart/lines/{index}", h.SetLineQuantity).Methods(http.MethodPut)
	s.HandleFunc("/cart/lines/{index}", h.RemoveLine).Methods(http.MethodDelete)
	s.HandleFunc("/cart/receipt", h.PreviewReceipt).Methods(http.MethodGet)
	s.HandleFunc("/checkout", h.Checkout).Methods(http.MethodPost)
	s.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
	s.HandleFunc("/view", h.GetView).Methods(http.MethodGet)
	s.HandleFunc("/view", h.SetView).Methods(http.MethodPut)

	return h.logMiddleware(r)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: h.session.Categories()})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	proj := h.session.Projection()
	if raw, ok := r.URL.Query()["sort"]; ok {
		mode, err := domain.ParseSortMode(raw[0])
		if err != nil {
			h.writeError(w, err)
			return
		}
		proj = h.session.Sorted(mode)
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    ProjectionDTO{Sort: proj.Mode(), Products: h.products(proj.Items())},
	})
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.session.AddProduct(r.Context(), domain.ProductInput{
		Name:             req.Name,
		Code:             req.Code,
		Price:            decimal.NewFromFloat(req.Price.Float64()),
		Stock:            req.Stock.Int(),
		RestockThreshold: req.Restock.Int(),
		Category:         req.Category,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product added",
		Data:    toProductDTO(p, h.session.CategoryOf(p)),
	})
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.session.Product(mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: toProductDTO(p, h.session.CategoryOf(p))})
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decode(w, r, &req) {
		return
	}

	var price *decimal.Decimal
	if f, ok := optionalNumber(req.Price); ok {
		d := decimal.NewFromFloat(f)
		price = &d
	}
	var stock *int
	if f, ok := optionalNumber(req.Stock); ok {
		n := int(math.Trunc(f))
		stock = &n
	}

	p, err := h.session.UpdateProduct(r.Context(), mux.Vars(r)["code"], price, stock)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated!",
		Data:    toProductDTO(p, h.session.CategoryOf(p)),
	})
}

// DeleteProduct needs ?confirm=true; without it nothing is deleted.
func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	ok, err := h.session.DeleteProduct(r.Context(), mux.Vars(r)["code"], func(domain.Product) bool {
		return confirmed
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusConflict, Response{
			Success: false,
			Message: "Deletion not confirmed",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Product deleted!"})
}

func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	result := SearchDTO{Matches: h.products(h.session.Search(q))}
	if p, err := h.session.FindByKeyword(q); err == nil {
		dto := toProductDTO(p, h.session.CategoryOf(p))
		result.Selected = &dto
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: toCartItemDTOs(h.session.CartItems())})
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decode(w, r, &req) {
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = req.Quantity.Int()
	}
	if err := h.session.AddToCart(r.Context(), req.Code, qty); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Added to cart",
		Data:    toCartItemDTOs(h.session.CartItems()),
	})
}

func (h *HTTPHandler) SetLineQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.session.SetLineQuantity(r.Context(), index, req.Quantity.Int()); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart updated",
		Data:    toCartItemDTOs(h.session.CartItems()),
	})
}

func (h *HTTPHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	removed, err := h.session.RemoveLine(r.Context(), index)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !removed {
		h.writeError(w, domain.ErrLineNotFound)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Removed from cart",
		Data:    toCartItemDTOs(h.session.CartItems()),
	})
}

func (h *HTTPHandler) PreviewReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.session.PreviewReceipt()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: toReceiptDTO(receipt)})
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sale, err := h.session.Checkout(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Checkout complete",
		Data:    toSaleDTO(sale),
	})
}

func (h *HTTPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: toSummaryDTO(h.session.Summary())})
}

func (h *HTTPHandler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: ViewRequest{View: string(h.session.View())}})
}

func (h *HTTPHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.session.SetView(r.Context(), domain.ViewMode(req.View)); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: req})
}

func (h *HTTPHandler) products(ps []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductDTO(p, h.session.CategoryOf(p)))
	}
	return out
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, Response{Success: false, Message: domain.Message(err)})
}

func (h *HTTPHandler) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"url":        r.URL.String(),
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		next.ServeHTTP(w, r)
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "invalid request body",
		})
		return false
	}
	return true
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Message: domain.Message(domain.ErrLineNotFound),
		})
		return 0, false
	}
	return index, true
}

// optionalNumber reports a value only when v holds a finite number or a
// numeric string.
func optionalNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case string:
		return domain.ParseNumber(t)
	}
	return 0, false
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
