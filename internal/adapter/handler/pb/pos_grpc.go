package pb

import (
	"context"

	"google.golang.org/grpc"
)

const (
	POS_ListProducts_FullMethodName    = "/stockroom.v1.POS/ListProducts"
	POS_AddToCart_FullMethodName       = "/stockroom.v1.POS/AddToCart"
	POS_SetLineQuantity_FullMethodName = "/stockroom.v1.POS/SetLineQuantity"
	POS_RemoveLine_FullMethodName      = "/stockroom.v1.POS/RemoveLine"
	POS_Checkout_FullMethodName        = "/stockroom.v1.POS/Checkout"
	POS_Summary_FullMethodName         = "/stockroom.v1.POS/Summary"
)

type POSServer interface {
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	AddToCart(context.Context, *AddToCartRequest) (*CartResponse, error)
	SetLineQuantity(context.Context, *SetLineQuantityRequest) (*CartResponse, error)
	RemoveLine(context.Context, *RemoveLineRequest) (*CartResponse, error)
	Checkout(context.Context, *CheckoutRequest) (*CheckoutResponse, error)
	Summary(context.Context, *SummaryRequest) (*SummaryResponse, error)
}

func RegisterPOSServer(s grpc.ServiceRegistrar, srv POSServer) {
	s.RegisterService(&POS_ServiceDesc, srv)
}

var POS_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "stockroom.v1.POS",
	HandlerType: (*POSServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListProducts", POS_ListProducts_FullMethodName, POSServer.ListProducts),
		unary("AddToCart", POS_AddToCart_FullMethodName, POSServer.AddToCart),
		unary("SetLineQuantity", POS_SetLineQuantity_FullMethodName, POSServer.SetLineQuantity),
		unary("RemoveLine", POS_RemoveLine_FullMethodName, POSServer.RemoveLine),
		unary("Checkout", POS_Checkout_FullMethodName, POSServer.Checkout),
		unary("Summary", POS_Summary_FullMethodName, POSServer.Summary),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockroom/v1/pos",
}

func unary[Req, Resp any](name, fullMethod string, call func(POSServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(POSServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(POSServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type POSClient struct {
	cc grpc.ClientConnInterface
}

func NewPOSClient(cc grpc.ClientConnInterface) *POSClient {
	return &POSClient{cc: cc}
}

func (c *POSClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	out := new(ListProductsResponse)
	if err := c.invoke(ctx, POS_ListProducts_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *POSClient) AddToCart(ctx context.Context, in *AddToCartRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	out := new(CartResponse)
	if err := c.invoke(ctx, POS_AddToCart_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *POSClient) SetLineQuantity(ctx context.Context, in *SetLineQuantityRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	out := new(CartResponse)
	if err := c.invoke(ctx, POS_SetLineQuantity_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *POSClient) RemoveLine(ctx context.Context, in *RemoveLineRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	out := new(CartResponse)
	if err := c.invoke(ctx, POS_RemoveLine_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *POSClient) Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CheckoutResponse, error) {
	out := new(CheckoutResponse)
	if err := c.invoke(ctx, POS_Checkout_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *POSClient) Summary(ctx context.Context, in *SummaryRequest, opts ...grpc.CallOption) (*SummaryResponse, error) {
	out := new(SummaryResponse)
	if err := c.invoke(ctx, POS_Summary_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *POSClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(ContentSubtype)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
