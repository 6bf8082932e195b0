package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, *service.Session) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	session := newTestSession(t)
	srv := httptest.NewServer(NewHTTPHandler(session, logger).Router())
	t.Cleanup(srv.Close)
	return srv, session
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAddProduct(t *testing.T) {
	srv, session := newTestServer(t)

	status, resp := call(t, srv, http.MethodPost, "/api/products",
		`{"name":"Tea","code":"T1","price":"12.5","stock":"8","restock":true,"category":"Unknown"}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, resp.Success)

	var p ProductDTO
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, "12.50", p.Price)
	assert.Equal(t, 8, p.Stock)
	assert.Equal(t, 1, p.RestockThreshold)
	assert.Equal(t, "Household", p.Category)
	assert.Len(t, session.Products(), 3)

	status, resp = call(t, srv, http.MethodPost, "/api/products", `{"name":"Dup","code":"T1","price":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp.Success)

	status, _ = call(t, srv, http.MethodPost, "/api/products", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestListProducts_Sorted(t *testing.T) {
	srv, session := newTestServer(t)

	status, resp := call(t, srv, http.MethodGet, "/api/products?sort=price_asc", "")
	require.Equal(t, http.StatusOK, status)

	var proj ProjectionDTO
	require.NoError(t, json.Unmarshal(resp.Data, &proj))
	assert.Equal(t, "price_asc", string(proj.Sort))
	require.Len(t, proj.Products, 2)
	assert.Equal(t, "P2", proj.Products[0].Code)
	assert.Equal(t, domain.SortNone, session.Projection().Mode())

	status, resp = call(t, srv, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &proj))
	assert.Equal(t, domain.SortNone, proj.Sort)
	assert.Equal(t, "P1", proj.Products[0].Code)

	status, _ = call(t, srv, http.MethodGet, "/api/products?sort=sideways", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUpdateProduct_PartialApply(t *testing.T) {
	srv, session := newTestServer(t)

	status, resp := call(t, srv, http.MethodPatch, "/api/products/P1", `{"price":"abc","stock":"25"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product updated!", resp.Message)

	p, err := session.Product("P1")
	require.NoError(t, err)
	assert.Equal(t, "45.5", p.Price.String())
	assert.Equal(t, 25, p.Stock)

	status, resp = call(t, srv, http.MethodPatch, "/api/products/NOPE", `{"price":1}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", resp.Message)
}

func TestDeleteProduct_RequiresConfirmation(t *testing.T) {
	srv, session := newTestServer(t)

	status, _ := call(t, srv, http.MethodDelete, "/api/products/P1", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Len(t, session.Products(), 2)

	status, resp := call(t, srv, http.MethodDelete, "/api/products/P1?confirm=true", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product deleted!", resp.Message)
	assert.Len(t, session.Products(), 1)
}

func TestSearch(t *testing.T) {
	srv, _ := newTestServer(t)

	status, resp := call(t, srv, http.MethodGet, "/api/search?q=P", "")
	require.Equal(t, http.StatusOK, status)

	var result SearchDTO
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	require.NotNil(t, result.Selected)
	assert.Equal(t, "P1", result.Selected.Code)
	assert.Len(t, result.Matches, 2)

	_, resp = call(t, srv, http.MethodGet, "/api/search?q=zzz", "")
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Nil(t, result.Selected)
	assert.Empty(t, result.Matches)
}

func TestCartFlow(t *testing.T) {
	srv, session := newTestServer(t)

	status, resp := call(t, srv, http.MethodPost, "/api/cart/lines", `{"code":"P1"}`)
	require.Equal(t, http.StatusOK, status)
	var items []CartItemDTO
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	status, resp = call(t, srv, http.MethodPost, "/api/cart/lines", `{"code":"P1","quantity":20}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Not enough stock available!", resp.Message)

	status, _ = call(t, srv, http.MethodPut, "/api/cart/lines/0", `{"quantity":4}`)
	assert.Equal(t, http.StatusOK, status)
	p, _ := session.Product("P1")
	assert.Equal(t, 6, p.Stock)

	status, resp = call(t, srv, http.MethodPut, "/api/cart/lines/0", `{"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Quantity must be at least 1", resp.Message)

	status, _ = call(t, srv, http.MethodDelete, "/api/cart/lines/7", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, srv, http.MethodDelete, "/api/cart/lines/0", "")
	assert.Equal(t, http.StatusOK, status)
	p, _ = session.Product("P1")
	assert.Equal(t, 10, p.Stock)
}

func TestCheckout(t *testing.T) {
	srv, _ := newTestServer(t)

	status, resp := call(t, srv, http.MethodPost, "/api/checkout", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Cart is empty. Cannot checkout.", resp.Message)

	call(t, srv, http.MethodPost, "/api/cart/lines", `{"code":"P1","quantity":2}`)
	call(t, srv, http.MethodPost, "/api/cart/lines", `{"code":"P2","quantity":1}`)

	status, resp = call(t, srv, http.MethodGet, "/api/cart/receipt", "")
	require.Equal(t, http.StatusOK, status)
	var preview ReceiptDTO
	require.NoError(t, json.Unmarshal(resp.Data, &preview))
	assert.Equal(t, "121.25", preview.Subtotal)

	status, resp = call(t, srv, http.MethodPost, "/api/checkout", "")
	require.Equal(t, http.StatusOK, status)

	var sale SaleDTO
	require.NoError(t, json.Unmarshal(resp.Data, &sale))
	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, "121.25", sale.Receipt.Subtotal)
	assert.Equal(t, "14.55", sale.Receipt.Tax)
	assert.Equal(t, "0.00", sale.Receipt.Discount)
	assert.Equal(t, "135.80", sale.Receipt.Total)
	assert.Contains(t, sale.Receipt.Text, "TOTAL: ₱135.80")

	_, resp = call(t, srv, http.MethodGet, "/api/cart", "")
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func TestSummaryAndView(t *testing.T) {
	srv, _ := newTestServer(t)

	_, resp := call(t, srv, http.MethodGet, "/api/summary", "")
	var summary SummaryDTO
	require.NoError(t, json.Unmarshal(resp.Data, &summary))
	assert.Equal(t, SummaryDTO{TotalProducts: 2, TotalStock: 15, TotalValue: "606.25", LowStockCount: 0}, summary)

	status, _ := call(t, srv, http.MethodPut, "/api/view", `{"view":"card"}`)
	assert.Equal(t, http.StatusOK, status)
	_, resp = call(t, srv, http.MethodGet, "/api/view", "")
	assert.JSONEq(t, `{"view":"card"}`, string(resp.Data))

	status, _ = call(t, srv, http.MethodPut, "/api/view", `{"view":"grid"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}
