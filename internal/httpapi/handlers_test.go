package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"saledesk/backend/internal/domain"
	"saledesk/backend/internal/service"
	"saledesk/backend/internal/store/memory"
)

type testEnv struct {
	server *httptest.Server
	csrf   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	svc := service.New(memory.New(), nil, nil, nil)
	adminCtx := service.WithActor(context.Background(), domain.Actor{Username: "root", Role: domain.UserRoleAdmin})
	for _, u := range []domain.CreateUserRequest{
		{Email: "admin@test.local", Username: "admin", Password: "admin-pass-1", Role: domain.UserRoleAdmin},
		{Email: "ana@test.local", Username: "ana", Password: "ana-pass-123", Role: domain.UserRoleCustomer},
	} {
		if _, err := svc.CreateUser(adminCtx, u); err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
	}

	auth := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour, svc)
	api := New(svc, auth, "http://127.0.0.1:3000", nil)

	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)

	env := &testEnv{server: server}
	env.csrf = env.fetchCSRF(t)
	return env
}

func (e *testEnv) fetchCSRF(t *testing.T) string {
	t.Helper()
	resp, err := http.Get(e.server.URL + "/api/v1/auth/csrf-token")
	if err != nil {
		t.Fatalf("fetch csrf token: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Token string `json:"csrf_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode csrf token: %v", err)
	}
	return body.Token
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	payload, _ := json.Marshal(domain.LoginRequest{Username: username, Password: password})
	resp, err := http.Post(e.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}

	var body domain.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return body.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", e.csrf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestLoginAndHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", resp.StatusCode)
	}

	token := env.login(t, "ana", "ana-pass-123")
	if token == "" {
		t.Fatal("expected access token")
	}

	payload, _ := json.Marshal(domain.LoginRequest{Username: "ana", Password: "wrong"})
	badResp, err := http.Post(env.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	badResp.Body.Close()
	if badResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", badResp.StatusCode)
	}
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/sales", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestMutationWithoutCSRFTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana", "ana-pass-123")

	payload, _ := json.Marshal(domain.CreateCartRequest{UserID: 1})
	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/carts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post cart: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
}

func TestCartCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana", "ana-pass-123")

	resp := env.do(t, http.MethodPost, "/api/v1/carts", token, domain.CreateCartRequest{
		UserID: 7,
		Lines: []domain.CartLineRequest{
			{ProductID: 1, UnitPrice: decimal.NewFromInt(20), Quantity: 10},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating cart, got %d", resp.StatusCode)
	}
	created := decodeBody[domain.CartResponse](t, resp)
	if created.Cart == nil || created.Cart.ID == 0 {
		t.Fatal("expected created cart with id")
	}

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/carts/%d/checkout", created.Cart.ID), token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from checkout, got %d", resp.StatusCode)
	}
	sale := decodeBody[domain.SaleResponse](t, resp)
	if !sale.TotalAmount.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("expected total 160, got %s", sale.TotalAmount)
	}

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/carts/%d", created.Cart.ID), token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for cart after checkout, got %d", resp.StatusCode)
	}
}

func TestCheckoutEmptyCartReturnsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana", "ana-pass-123")

	resp := env.do(t, http.MethodPost, "/api/v1/carts", token, domain.CreateCartRequest{UserID: 7})
	created := decodeBody[domain.CartResponse](t, resp)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/carts/%d/checkout", created.Cart.ID), token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart checkout, got %d", resp.StatusCode)
	}
}

func TestSaleCancelEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana", "ana-pass-123")

	resp := env.do(t, http.MethodPost, "/api/v1/carts", token, domain.CreateCartRequest{
		UserID: 7,
		Lines: []domain.CartLineRequest{
			{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 2},
			{ProductID: 2, UnitPrice: decimal.NewFromInt(30), Quantity: 1},
		},
	})
	created := decodeBody[domain.CartResponse](t, resp)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/carts/%d/checkout", created.Cart.ID), token, nil)
	sale := decodeBody[domain.SaleResponse](t, resp)

	itemPath := fmt.Sprintf("/api/v1/sales/%s/items/%s/cancel", sale.Sale.ID, sale.Sale.Lines[0].ID)
	resp = env.do(t, http.MethodPut, itemPath, token, domain.CancelReasonRequest{Reason: "damaged"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 cancelling item, got %d", resp.StatusCode)
	}
	afterItem := decodeBody[domain.SaleResponse](t, resp)
	if !afterItem.Sale.Lines[0].IsCancelled {
		t.Fatal("expected line cancelled")
	}
	if !afterItem.TotalAmount.Equal(sale.TotalAmount) {
		t.Fatalf("total must not change after item cancel: %s vs %s", afterItem.TotalAmount, sale.TotalAmount)
	}

	cancelPath := fmt.Sprintf("/api/v1/sales/%s/cancel", sale.Sale.ID)
	resp = env.do(t, http.MethodPut, cancelPath, token, domain.CancelReasonRequest{Reason: "customer request"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 cancelling sale, got %d", resp.StatusCode)
	}
	afterSale := decodeBody[domain.SaleResponse](t, resp)
	if !afterSale.Sale.IsCancelled {
		t.Fatal("expected sale cancelled")
	}

	resp = env.do(t, http.MethodPut, "/api/v1/sales/not-a-uuid/cancel", token, domain.CancelReasonRequest{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed sale id, got %d", resp.StatusCode)
	}
}

func TestUsersEndpointIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	customerToken := env.login(t, "ana", "ana-pass-123")
	adminToken := env.login(t, "admin", "admin-pass-1")

	resp := env.do(t, http.MethodGet, "/api/v1/users", customerToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/users", adminToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}
}

func TestProductMutationForbiddenForCustomer(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ana", "ana-pass-123")

	resp := env.do(t, http.MethodPost, "/api/v1/products", token, domain.CreateProductRequest{
		Title:       "Lamp",
		Price:       decimal.NewFromInt(25),
		Description: "LED lamp",
		Category:    "office",
		Image:       "https://img.example.com/lamp.png",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for customer product create, got %d", resp.StatusCode)
	}
}

func TestProductCategoryRoutes(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin-pass-1")

	resp := env.do(t, http.MethodPost, "/api/v1/products", adminToken, domain.CreateProductRequest{
		Title:       "Lamp",
		Price:       decimal.NewFromInt(25),
		Description: "LED lamp",
		Category:    "office",
		Image:       "https://img.example.com/lamp.png",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating product, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/products/categories", adminToken, nil)
	categories := decodeBody[map[string][]string](t, resp)
	if len(categories["categories"]) != 1 || categories["categories"][0] != "office" {
		t.Fatalf("unexpected categories: %v", categories)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/products/category/office", adminToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 listing category, got %d", resp.StatusCode)
	}
}
