package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/stockroom/internal/adapter/handler/pb"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

// GRPCHandler serves stockroom.v1.POS. Domain failures are reported in the
// response body, not as gRPC status errors.
type GRPCHandler struct {
	session *service.Session
	log     logrus.FieldLogger
}

func NewGRPCHandler(session *service.Session, log logrus.FieldLogger) *GRPCHandler {
	return &GRPCHandler{session: session, log: log}
}

func (h *GRPCHandler) ListProducts(ctx context.Context, req *pb.ListProductsRequest) (*pb.ListProductsResponse, error) {
	proj := h.session.Projection()
	if req.GetSort() != "" {
		mode, err := domain.ParseSortMode(req.GetSort())
		if err != nil {
			return &pb.ListProductsResponse{Success: false, Message: domain.Message(err)}, nil
		}
		proj = h.session.Sorted(mode)
	}

	resp := &pb.ListProductsResponse{Success: true, Sort: string(proj.Mode())}
	for _, p := range proj.Items() {
		resp.Products = append(resp.Products, &pb.Product{
			Name:     p.Name,
			Code:     p.Code,
			Price:    p.Price.StringFixed(2),
			Stock:    int32(p.Stock),
			Restock:  int32(p.RestockThreshold),
			Category: h.session.CategoryOf(p).Name,
			LowStock: p.LowStock(),
		})
	}
	return resp, nil
}

func (h *GRPCHandler) AddToCart(ctx context.Context, req *pb.AddToCartRequest) (*pb.CartResponse, error) {
	err := h.session.AddToCart(ctx, req.GetCode(), int(req.GetQuantity()))
	return h.cartResponse("Added to cart", err), nil
}

func (h *GRPCHandler) SetLineQuantity(ctx context.Context, req *pb.SetLineQuantityRequest) (*pb.CartResponse, error) {
	err := h.session.SetLineQuantity(ctx, int(req.GetIndex()), int(req.GetQuantity()))
	return h.cartResponse("Cart updated", err), nil
}

func (h *GRPCHandler) RemoveLine(ctx context.Context, req *pb.RemoveLineRequest) (*pb.CartResponse, error) {
	removed, err := h.session.RemoveLine(ctx, int(req.GetIndex()))
	if err == nil && !removed {
		err = domain.ErrLineNotFound
	}
	return h.cartResponse("Removed from cart", err), nil
}

func (h *GRPCHandler) Checkout(ctx context.Context, req *pb.CheckoutRequest) (*pb.CheckoutResponse, error) {
	sale, err := h.session.Checkout(ctx)
	if err != nil {
		h.logFailure("Checkout", err)
		return &pb.CheckoutResponse{Success: false, Message: domain.Message(err)}, nil
	}

	r := sale.Receipt
	return &pb.CheckoutResponse{
		Success: true,
		Message: "Checkout complete",
		Sale: &pb.Sale{
			Id:          sale.ID.String(),
			CompletedAt: sale.CompletedAt.Format(time.RFC3339),
			Subtotal:    r.Subtotal.StringFixed(2),
			Tax:         r.Tax.StringFixed(2),
			Discount:    r.Discount.StringFixed(2),
			Total:       r.Total.StringFixed(2),
			Receipt:     r.Text(),
		},
	}, nil
}

func (h *GRPCHandler) Summary(ctx context.Context, req *pb.SummaryRequest) (*pb.SummaryResponse, error) {
	s := h.session.Summary()
	return &pb.SummaryResponse{
		Success: true,
		Summary: &pb.Summary{
			TotalProducts: int32(s.TotalProducts),
			TotalStock:    int32(s.TotalStock),
			TotalValue:    s.TotalValue.StringFixed(2),
			LowStockCount: int32(s.LowStockCount),
		},
	}, nil
}

func (h *GRPCHandler) cartResponse(success string, err error) *pb.CartResponse {
	if err != nil {
		h.logFailure("cart", err)
		return &pb.CartResponse{Success: false, Message: domain.Message(err)}
	}

	resp := &pb.CartResponse{Success: true, Message: success}
	for _, it := range h.session.CartItems() {
		resp.Items = append(resp.Items, &pb.CartItem{
			Index:     int32(it.Index),
			Code:      it.Code,
			Name:      it.Name,
			Price:     it.Price.StringFixed(2),
			Quantity:  int32(it.Quantity),
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}
	return resp
}

func (h *GRPCHandler) logFailure(op string, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		h.log.WithError(err).WithField("op", op).Error("grpc call failed")
	}
}
