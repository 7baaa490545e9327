package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "tablebook/order-svc/internal/api/http"
	"tablebook/order-svc/internal/domain"
	"tablebook/order-svc/internal/mocks"
	"tablebook/order-svc/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testDeps struct {
	vendors *mocks.VendorRepository
	menu    *mocks.MenuRepository
	carts   *mocks.CartRepository
	guests  *mocks.GuestCartStore
	orders  *mocks.OrderRepository
	router  *mux.Router
}

func newTestDeps(t *testing.T) testDeps {
	d := testDeps{
		vendors: mocks.NewVendorRepository(t),
		menu:    mocks.NewMenuRepository(t),
		carts:   mocks.NewCartRepository(t),
		guests:  mocks.NewGuestCartStore(t),
		orders:  mocks.NewOrderRepository(t),
	}
	handler := httpapi.NewHandler(
		service.NewVendorService(d.vendors),
		service.NewMenuService(d.menu),
		service.NewCartService(d.carts, d.guests, d.menu),
		service.NewOrderService(d.orders, d.carts, d.menu, nil),
	)
	d.router = mux.NewRouter()
	handler.RegisterRoutes(d.router)
	return d
}

func (d testDeps) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

var (
	customerHeaders = map[string]string{"X-Actor-ID": "10", "X-Actor-Role": "customer"}
	vendorHeaders   = map[string]string{"X-Actor-ID": "3", "X-Actor-Role": "vendor"}
)

func pizza() domain.MenuItem {
	return domain.MenuItem{ID: 1, VendorID: 3, Name: "Pizza", Price: decimal.RequireFromString("10.00"), Available: true}
}

func TestHealthHandler(t *testing.T) {
	d := newTestDeps(t)

	w := d.do("GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "order-svc")
}

func TestVendorHandlers(t *testing.T) {
	adminHeaders := map[string]string{"X-Actor-ID": "1", "X-Actor-Role": "admin"}

	t.Run("admin registers vendor", func(t *testing.T) {
		d := newTestDeps(t)
		d.vendors.On("CreateVendor", mock.Anything, mock.MatchedBy(func(v *domain.Vendor) bool { return v.Name == "Cafe" })).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Vendor).ID = 3 }).
			Return(nil).Once()

		w := d.do("POST", "/api/vendors", `{"name":"Cafe","address":"Addr"}`, adminHeaders)

		require.Equal(t, http.StatusCreated, w.Code)
		var vendor domain.Vendor
		require.NoError(t, json.NewDecoder(w.Body).Decode(&vendor))
		assert.Equal(t, int64(3), vendor.ID)
	})

	t.Run("vendor cannot register vendors", func(t *testing.T) {
		d := newTestDeps(t)

		w := d.do("POST", "/api/vendors", `{"name":"Cafe"}`, vendorHeaders)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("vendor updates own profile", func(t *testing.T) {
		d := newTestDeps(t)
		d.vendors.On("UpdateVendor", mock.Anything, mock.MatchedBy(func(v *domain.Vendor) bool { return v.ID == 3 })).Return(nil).Once()

		w := d.do("PUT", "/api/vendors/3", `{"name":"Cafe Two"}`, vendorHeaders)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("vendor updates another profile", func(t *testing.T) {
		d := newTestDeps(t)

		w := d.do("PUT", "/api/vendors/4", `{"name":"Cafe Two"}`, vendorHeaders)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anyone reads a vendor", func(t *testing.T) {
		d := newTestDeps(t)
		d.vendors.On("GetVendor", mock.Anything, int64(3)).Return(&domain.Vendor{ID: 3, Name: "Cafe", Rating: 4.5}, nil).Once()

		w := d.do("GET", "/api/vendors/3", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"rating":4.5`)
	})

	t.Run("unknown vendor", func(t *testing.T) {
		d := newTestDeps(t)
		d.vendors.On("GetVendor", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound).Once()

		w := d.do("GET", "/api/vendors/9", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		d := newTestDeps(t)
		d.vendors.On("ListVendors", mock.Anything).Return([]domain.Vendor{{ID: 3, Name: "Cafe"}}, nil).Once()

		w := d.do("GET", "/api/vendors", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Cafe")
	})
}

func TestCreateMenuItemHandler(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		body      string
		headers   map[string]string
		setupMock func(*mocks.MenuRepository)
		wantCode  int
	}{
		{
			name:    "vendor adds to own menu",
			path:    "/api/vendors/3/menu",
			body:    `{"name":"Pizza","price":"10.00"}`,
			headers: vendorHeaders,
			setupMock: func(m *mocks.MenuRepository) {
				m.On("CreateMenuItem", mock.Anything, mock.AnythingOfType("*domain.MenuItem")).Return(nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "vendor adds to another menu",
			path:      "/api/vendors/4/menu",
			body:      `{"name":"Pizza","price":"10.00"}`,
			headers:   vendorHeaders,
			setupMock: func(*mocks.MenuRepository) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "anonymous",
			path:      "/api/vendors/3/menu",
			body:      `{"name":"Pizza","price":"10.00"}`,
			setupMock: func(*mocks.MenuRepository) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "invalid JSON",
			path:      "/api/vendors/3/menu",
			body:      `{invalid}`,
			headers:   vendorHeaders,
			setupMock: func(*mocks.MenuRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "negative price",
			path:      "/api/vendors/3/menu",
			body:      `{"name":"Pizza","price":"-1"}`,
			headers:   vendorHeaders,
			setupMock: func(*mocks.MenuRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			d := newTestDeps(t)
			testCase.setupMock(d.menu)

			w := d.do("POST", testCase.path, testCase.body, testCase.headers)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestAddCartItemHandler_MintsGuestSession(t *testing.T) {
	d := newTestDeps(t)
	d.menu.On("GetMenuItems", mock.Anything, []int64{1}).Return(map[int64]domain.MenuItem{1: pizza()}, nil).Once()
	d.guests.On("Get", mock.Anything, mock.AnythingOfType("string")).
		Return(func(_ context.Context, id string) *domain.Cart { return domain.NewGuestCart(id) }, nil).Once()
	d.guests.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil).Once()

	w := d.do("POST", "/api/cart/items", `{"menu_item_id":1,"quantity":2}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	sessionID := w.Header().Get(httpapi.HeaderGuestCart)
	_, err := uuid.Parse(sessionID)
	assert.NoError(t, err)

	var cart domain.Cart
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cart))
	assert.Equal(t, "20.00", cart.TotalAmount.StringFixed(2))
	assert.Equal(t, sessionID, cart.SessionID)
}

func TestAddCartItemHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		headers   map[string]string
		setupMock func(d testDeps)
		wantCode  int
	}{
		{
			name:    "zero quantity",
			body:    `{"menu_item_id":1,"quantity":0}`,
			headers: customerHeaders,
			setupMock: func(testDeps) {
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "quantity above line cap",
			body:      `{"menu_item_id":1,"quantity":1000}`,
			headers:   customerHeaders,
			setupMock: func(testDeps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "mistyped role does not fall back to guest cart",
			body:      `{"menu_item_id":1,"quantity":1}`,
			headers:   map[string]string{"X-Actor-ID": "10", "X-Actor-Role": "custmer", httpapi.HeaderGuestCart: uuid.NewString()},
			setupMock: func(testDeps) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "actor id without role",
			body:      `{"menu_item_id":1,"quantity":1}`,
			headers:   map[string]string{"X-Actor-ID": "10"},
			setupMock: func(testDeps) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:    "unknown item",
			body:    `{"menu_item_id":9,"quantity":1}`,
			headers: customerHeaders,
			setupMock: func(d testDeps) {
				d.menu.On("GetMenuItems", mock.Anything, []int64{9}).Return(map[int64]domain.MenuItem{}, nil).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "vendor has no cart",
			body:      `{"menu_item_id":1,"quantity":1}`,
			headers:   vendorHeaders,
			setupMock: func(testDeps) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "malformed guest session",
			body:      `{"menu_item_id":1,"quantity":1}`,
			headers:   map[string]string{httpapi.HeaderGuestCart: "not-a-uuid"},
			setupMock: func(testDeps) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:    "storage failure",
			body:    `{"menu_item_id":1,"quantity":1}`,
			headers: customerHeaders,
			setupMock: func(d testDeps) {
				d.menu.On("GetMenuItems", mock.Anything, []int64{1}).Return(nil, errors.New("db down")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			d := newTestDeps(t)
			testCase.setupMock(d)

			w := d.do("POST", "/api/cart/items", testCase.body, testCase.headers)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestAuthenticatedRoutesRejectMissingIdentity(t *testing.T) {
	routes := []struct {
		method string
		target string
	}{
		{"POST", "/api/vendors"},
		{"PUT", "/api/vendors/3"},
		{"POST", "/api/vendors/3/menu"},
		{"PUT", "/api/vendors/3/menu/1"},
		{"POST", "/api/cart/merge"},
		{"POST", "/api/orders"},
		{"GET", "/api/orders"},
		{"GET", "/api/orders/5"},
		{"POST", "/api/orders/5/status"},
		{"GET", "/api/orders/5/qrcode"},
	}
	identities := map[string]map[string]string{
		"no headers":     nil,
		"mistyped role":  {"X-Actor-ID": "10", "X-Actor-Role": "custmer"},
		"non numeric id": {"X-Actor-ID": "ten", "X-Actor-Role": "customer"},
	}

	for _, testCase := range routes {
		for name, headers := range identities {
			t.Run(testCase.method+" "+testCase.target+" "+name, func(t *testing.T) {
				d := newTestDeps(t)

				w := d.do(testCase.method, testCase.target, `{}`, headers)

				assert.Equal(t, http.StatusUnauthorized, w.Code)
			})
		}
	}
}

func TestUpdateCartItemHandler_MissingLine(t *testing.T) {
	d := newTestDeps(t)
	d.carts.On("GetCart", mock.Anything, int64(10)).Return(domain.NewCustomerCart(10), nil).Once()

	w := d.do("PUT", "/api/cart/items/5", `{"quantity":2}`, customerHeaders)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		d := newTestDeps(t)
		d.carts.On("GetCart", mock.Anything, int64(10)).Return(domain.NewCustomerCart(10), nil).Once()

		w := d.do("POST", "/api/orders", `{"delivery_address":"a","contact_phone":"87015551234","payment_method":"cash"}`, customerHeaders)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		d := newTestDeps(t)
		cart := domain.NewCustomerCart(10)
		require.NoError(t, cart.AddItem(pizza(), 1, ""))
		d.carts.On("GetCart", mock.Anything, int64(10)).Return(cart, nil).Once()
		d.menu.On("GetMenuItems", mock.Anything, []int64{1}).Return(map[int64]domain.MenuItem{1: pizza()}, nil).Once()
		d.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Order).ID = 8 }).
			Return(nil).Once()

		w := d.do("POST", "/api/orders", `{"delivery_address":"a","contact_phone":"87015551234","payment_method":"cash"}`, customerHeaders)

		require.Equal(t, http.StatusCreated, w.Code)
		var order domain.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
		assert.Equal(t, int64(8), order.ID)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Equal(t, "/api/orders/8/qrcode", order.QRCode)
	})

	t.Run("cart changed during checkout", func(t *testing.T) {
		d := newTestDeps(t)
		cart := domain.NewCustomerCart(10)
		require.NoError(t, cart.AddItem(pizza(), 1, ""))
		d.carts.On("GetCart", mock.Anything, int64(10)).Return(cart, nil).Once()
		d.menu.On("GetMenuItems", mock.Anything, []int64{1}).Return(map[int64]domain.MenuItem{1: pizza()}, nil).Once()
		d.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(domain.ErrCartChanged).Once()

		w := d.do("POST", "/api/orders", `{"delivery_address":"a","contact_phone":"87015551234","payment_method":"cash"}`, customerHeaders)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	pending := func() *domain.Order {
		return &domain.Order{ID: 5, CustomerID: 10, VendorID: 3, Status: domain.StatusPending}
	}
	tests := []struct {
		name      string
		body      string
		headers   map[string]string
		setupMock func(*mocks.OrderRepository)
		wantCode  int
	}{
		{
			name:    "vendor accepts",
			body:    `{"status":"accepted"}`,
			headers: vendorHeaders,
			setupMock: func(m *mocks.OrderRepository) {
				m.On("GetOrder", mock.Anything, int64(5)).Return(pending(), nil).Once()
				m.On("UpdateStatus", mock.Anything, int64(5), domain.StatusPending, mock.Anything).Return(nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:    "vendor skips a step",
			body:    `{"status":"preparing"}`,
			headers: vendorHeaders,
			setupMock: func(m *mocks.OrderRepository) {
				m.On("GetOrder", mock.Anything, int64(5)).Return(pending(), nil).Once()
			},
			wantCode: http.StatusConflict,
		},
		{
			name:    "another customer",
			body:    `{"status":"cancelled"}`,
			headers: map[string]string{"X-Actor-ID": "99", "X-Actor-Role": "customer"},
			setupMock: func(m *mocks.OrderRepository) {
				m.On("GetOrder", mock.Anything, int64(5)).Return(pending(), nil).Once()
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:    "unknown order",
			body:    `{"status":"accepted"}`,
			headers: vendorHeaders,
			setupMock: func(m *mocks.OrderRepository) {
				m.On("GetOrder", mock.Anything, int64(5)).Return(nil, domain.ErrNotFound).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "unknown status",
			body:      `{"status":"lost"}`,
			headers:   vendorHeaders,
			setupMock: func(*mocks.OrderRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			d := newTestDeps(t)
			testCase.setupMock(d.orders)

			w := d.do("POST", "/api/orders/5/status", testCase.body, testCase.headers)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestGetOrdersHandler_BadQuery(t *testing.T) {
	d := newTestDeps(t)

	w := d.do("GET", "/api/orders?customer_id=abc", "", customerHeaders)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
