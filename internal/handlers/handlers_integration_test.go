package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quickbite/internal/handlers"
	"quickbite/internal/middleware"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
	"quickbite/internal/services"
)

var dbCounter int64

// setupApp builds the full HTTP surface against an isolated in-memory SQLite
// database, wired the same way main wires it.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:quickbite_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Seller{},
		&models.College{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	assert.NoError(t, err)

	// Seed the campus the accounts register against.
	assert.NoError(t, db.Create(&models.College{ID: "college-1", Name: "Test College", City: "Pune"}).Error)

	userRepo := repositories.NewGORMUserRepository(db)
	sellerRepo := repositories.NewGORMSellerRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)

	authService := services.NewAuthService(userRepo, sellerRepo, catalogRepo, "test_jwt_secret", 0)
	catalogService := services.NewCatalogService(catalogRepo, sellerRepo)
	orderService := services.NewOrderService(orderRepo, catalogRepo, sellerRepo, nil)
	dashboardService := services.NewDashboardService(orderRepo, sellerRepo, userRepo, nil)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo, sellerRepo, nil, nil)

	app := fiber.New()
	api := app.Group("/api")
	authRequired := middleware.AuthRequired(authService)
	sellerOnly := middleware.RoleRequired("seller")

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(api, authRequired, sellerOnly)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, authRequired, sellerOnly)
	handlers.NewDashboardHandler(dashboardService, orderService).RegisterRoutes(api, authRequired, sellerOnly)
	handlers.NewPaymentHandler(paymentService).RegisterRoutes(api, authRequired, sellerOnly)

	return app
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// doJSON fires a JSON request, asserts the status and decodes the envelope.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, wantStatus int) map[string]interface{} {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, wantStatus, resp.StatusCode, "%s %s", method, path)

	var decoded map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func registerAndLoginSeller(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	doJSON(t, app, http.MethodPost, "/api/auth/seller/register", "", map[string]interface{}{
		"name":           "Canteen One",
		"email":          email,
		"password":       "secret123",
		"phone":          "9876543210",
		"college_id":     "college-1",
		"cafeteria_name": "Canteen One",
	}, http.StatusCreated)

	body := doJSON(t, app, http.MethodPost, "/api/auth/seller/login", "", map[string]interface{}{
		"email":    email,
		"password": "secret123",
	}, http.StatusOK)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func registerAndLoginUser(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Test Student",
		"email":    email,
		"password": "password123",
	}, http.StatusCreated)

	body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	}, http.StatusOK)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func TestAvailableSlotsIsPublic(t *testing.T) {
	app := setupApp(t)

	body := doJSON(t, app, http.MethodGet, "/api/orders/available-slots", "", nil, http.StatusOK)
	slots, ok := body["slots"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, slots, 12)
	assert.Equal(t, "12:00 PM", slots[0])
}

func TestOrderLifecycleEndToEnd(t *testing.T) {
	app := setupApp(t)

	sellerToken := registerAndLoginSeller(t, app, "canteen@campus.test")
	userToken := registerAndLoginUser(t, app, "student@campus.test")

	// Seller publishes a menu item; the item inherits the seller's binding.
	body := doJSON(t, app, http.MethodPost, "/api/seller/menu", sellerToken, map[string]interface{}{
		"name":      "Masala Dosa",
		"price":     80.0,
		"category":  "south-indian",
		"is_veg":    true,
		"available": true,
	}, http.StatusCreated)
	item := body["item"].(map[string]interface{})
	itemID := item["id"].(string)
	assert.Equal(t, "college-1", item["cafeteria_id"])

	// Customer places an order.
	body = doJSON(t, app, http.MethodPost, "/api/orders/create", userToken, map[string]interface{}{
		"college_id":   "college-1",
		"cafeteria_id": "college-1",
		"items":        []map[string]interface{}{{"item_id": itemID, "quantity": 2}},
		"pickup_time":  "1:00 PM",
	}, http.StatusCreated)
	order := body["order"].(map[string]interface{})
	orderID := order["id"].(string)
	orderToken := body["order_token"].(string)
	assert.Equal(t, 160.0, order["total_price"])
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, orderToken, 6)

	// Hand-off verification is seller territory.
	verifyPath := "/api/orders/" + orderID + "/verify-token"
	doJSON(t, app, http.MethodPost, verifyPath, userToken, map[string]interface{}{"token": orderToken}, http.StatusForbidden)
	doJSON(t, app, http.MethodPost, verifyPath, "", map[string]interface{}{"token": orderToken}, http.StatusUnauthorized)
	doJSON(t, app, http.MethodPost, verifyPath, sellerToken, map[string]interface{}{"token": "WRONG1"}, http.StatusUnauthorized)

	body = doJSON(t, app, http.MethodPost, verifyPath, sellerToken, map[string]interface{}{"token": orderToken}, http.StatusOK)
	assert.Equal(t, "ready", body["order"].(map[string]interface{})["status"])

	// Final pickup verification completes the order exactly once.
	pickupPath := "/api/seller/dashboard/orders/" + orderID + "/verify-pickup"
	body = doJSON(t, app, http.MethodPost, pickupPath, sellerToken, map[string]interface{}{
		"method": "token",
		"value":  orderToken,
	}, http.StatusOK)
	assert.Equal(t, "completed", body["order"].(map[string]interface{})["status"])

	doJSON(t, app, http.MethodPost, pickupPath, sellerToken, map[string]interface{}{
		"method": "token",
		"value":  orderToken,
	}, http.StatusBadRequest)

	// The dashboard aggregates reflect the completed order.
	body = doJSON(t, app, http.MethodGet, "/api/seller/dashboard/statistics", sellerToken, nil, http.StatusOK)
	stats := body["statistics"].(map[string]interface{})
	orders := stats["orders"].(map[string]interface{})
	revenue := stats["revenue"].(map[string]interface{})
	assert.Equal(t, 1.0, orders["total"])
	assert.Equal(t, 1.0, orders["completed"])
	assert.Equal(t, 160.0, revenue["total"])

	// Offline settlement flows through to the payment history.
	doJSON(t, app, http.MethodPost, "/api/payments/mark-offline", sellerToken, map[string]interface{}{
		"order_id":       orderID,
		"payment_method": "cash",
	}, http.StatusOK)

	body = doJSON(t, app, http.MethodGet, "/api/payments/history", sellerToken, nil, http.StatusOK)
	payments := body["payments"].([]interface{})
	assert.Len(t, payments, 1)
	assert.Equal(t, orderID, payments[0].(map[string]interface{})["order_id"])

	// The customer sees the settled order.
	body = doJSON(t, app, http.MethodGet, "/api/orders/"+orderID, userToken, nil, http.StatusOK)
	got := body["order"].(map[string]interface{})
	assert.Equal(t, "completed", got["payment_status"])
	assert.Equal(t, "cash", got["payment_method"])
}

func TestCreateOrderRejectsInvalidSlot(t *testing.T) {
	app := setupApp(t)

	sellerToken := registerAndLoginSeller(t, app, "slots@campus.test")
	userToken := registerAndLoginUser(t, app, "slots-user@campus.test")

	body := doJSON(t, app, http.MethodPost, "/api/seller/menu", sellerToken, map[string]interface{}{
		"name":      "Vada Pav",
		"price":     30.0,
		"available": true,
	}, http.StatusCreated)
	itemID := body["item"].(map[string]interface{})["id"].(string)

	doJSON(t, app, http.MethodPost, "/api/orders/create", userToken, map[string]interface{}{
		"college_id":   "college-1",
		"cafeteria_id": "college-1",
		"items":        []map[string]interface{}{{"item_id": itemID, "quantity": 1}},
		"pickup_time":  "4:00 PM",
	}, http.StatusBadRequest)

	// Nothing leaked into the customer's order list.
	body = doJSON(t, app, http.MethodGet, "/api/orders/user/orders", userToken, nil, http.StatusOK)
	assert.Equal(t, 0.0, body["count"])
}

func TestSellerRoutesRejectCustomers(t *testing.T) {
	app := setupApp(t)
	userToken := registerAndLoginUser(t, app, "roles@campus.test")

	doJSON(t, app, http.MethodGet, "/api/seller/dashboard/orders", userToken, nil, http.StatusForbidden)
	doJSON(t, app, http.MethodGet, "/api/seller/dashboard/orders", "", nil, http.StatusUnauthorized)
	doJSON(t, app, http.MethodPost, "/api/seller/menu", userToken, map[string]interface{}{
		"name": "Nope", "price": 10.0,
	}, http.StatusForbidden)
}
