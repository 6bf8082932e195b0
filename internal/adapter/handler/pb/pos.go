// Package pb declares the stockroom.v1.POS gRPC service. Messages travel as
// JSON through the codec registered in this package.
package pb

type Product struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Price    string `json:"price"`
	Stock    int32  `json:"stock"`
	Restock  int32  `json:"restock"`
	Category string `json:"category"`
	LowStock bool   `json:"low_stock"`
}

type CartItem struct {
	Index     int32  `json:"index"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int32  `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type Sale struct {
	Id          string `json:"id"`
	CompletedAt string `json:"completed_at"`
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
	Receipt     string `json:"receipt"`
}

type Summary struct {
	TotalProducts int32  `json:"total_products"`
	TotalStock    int32  `json:"total_stock"`
	TotalValue    string `json:"total_value"`
	LowStockCount int32  `json:"low_stock_count"`
}

type ListProductsRequest struct {
	Sort string `json:"sort"`
}

type ListProductsResponse struct {
	Success  bool       `json:"success"`
	Message  string     `json:"message"`
	Sort     string     `json:"sort"`
	Products []*Product `json:"products"`
}

// AddToCartRequest reserves one unit unless Quantity is set.
type AddToCartRequest struct {
	Code     string `json:"code"`
	Quantity *int32 `json:"quantity,omitempty"`
}

type SetLineQuantityRequest struct {
	Index    int32 `json:"index"`
	Quantity int32 `json:"quantity"`
}

type RemoveLineRequest struct {
	Index int32 `json:"index"`
}

type CartResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Items   []*CartItem `json:"items"`
}

type CheckoutRequest struct{}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sale    *Sale  `json:"sale,omitempty"`
}

type SummaryRequest struct{}

type SummaryResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Summary *Summary `json:"summary,omitempty"`
}

func (x *AddToCartRequest) GetCode() string {
	if x != nil {
		return x.Code
	}
	return ""
}

func (x *AddToCartRequest) GetQuantity() int32 {
	if x != nil && x.Quantity != nil {
		return *x.Quantity
	}
	return 1
}

// Int32 returns a pointer to v, for optional fields.
func Int32(v int32) *int32 { return &v }

func (x *SetLineQuantityRequest) GetIndex() int32 {
	if x != nil {
		return x.Index
	}
	return 0
}

func (x *SetLineQuantityRequest) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

func (x *RemoveLineRequest) GetIndex() int32 {
	if x != nil {
		return x.Index
	}
	return 0
}

func (x *ListProductsRequest) GetSort() string {
	if x != nil {
		return x.Sort
	}
	return ""
}
