package services_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
	"quickbite/internal/services"
	"quickbite/pkg/qr"
)

// fixture wires the in-memory repositories the way main wires the GORM ones.
type fixture struct {
	orders   *repositories.MockOrderRepository
	sellers  *repositories.MockSellerRepository
	catalog  *repositories.MockCatalogRepository
	payments *repositories.MockPaymentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orders := repositories.NewMockOrderRepository()
	sellers := repositories.NewMockSellerRepository()
	orders.BindSellers(sellers)
	catalog := repositories.NewMockCatalogRepository()
	payments := repositories.NewMockPaymentRepository(orders)

	assert.NoError(t, sellers.Create(&models.Seller{
		ID:        "seller-1",
		Name:      "Campus Canteen",
		Email:     "canteen@campus.test",
		CollegeID: "caf-1",
	}))
	assert.NoError(t, sellers.Create(&models.Seller{
		ID:        "seller-2",
		Name:      "Other Canteen",
		Email:     "other@campus.test",
		CollegeID: "caf-2",
	}))

	assert.NoError(t, catalog.CreateMenuItem(&models.MenuItem{
		ID: "item-a", CafeteriaID: "caf-1", CollegeID: "college-1",
		Name: "Masala Dosa", Price: 80, Available: true,
	}))
	assert.NoError(t, catalog.CreateMenuItem(&models.MenuItem{
		ID: "item-b", CafeteriaID: "caf-1", CollegeID: "college-1",
		Name: "Paneer Thali", Price: 150, Available: true,
	}))
	assert.NoError(t, catalog.CreateMenuItem(&models.MenuItem{
		ID: "item-c", CafeteriaID: "caf-1", CollegeID: "college-1",
		Name: "Out Of Stock Special", Price: 60, Available: false,
	}))

	return &fixture{orders: orders, sellers: sellers, catalog: catalog, payments: payments}
}

func (f *fixture) orderService() *services.OrderService {
	return services.NewOrderService(f.orders, f.catalog, f.sellers, nil)
}

func validOrderInput(cafeteriaID string) services.CreateOrderInput {
	return services.CreateOrderInput{
		UserID:      "user-1",
		UserEmail:   "student@campus.test",
		CollegeID:   "college-1",
		CafeteriaID: cafeteriaID,
		Items: []services.OrderItemRequest{
			{ItemID: "item-a", Quantity: 2},
			{ItemID: "item-b", Quantity: 1},
		},
		PickupTime:    "1:00 PM",
		PaymentMethod: "offline",
	}
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	order, err := svc.CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)

	// 2 x 80 + 1 x 150 from snapshotted catalog prices.
	assert.Equal(t, 310.0, order.TotalPrice)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 160.0, order.Items[0].Subtotal)
	assert.Equal(t, 150.0, order.Items[1].Subtotal)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, "offline", order.PaymentMethod)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), order.OrderToken)
	assert.True(t, strings.HasPrefix(order.QRCode, "data:image/png;base64,"))
}

func TestCreateOrderDefaultsPaymentMethod(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	input := validOrderInput("caf-1")
	input.PaymentMethod = ""
	order, err := svc.CreateOrder(input)
	assert.NoError(t, err)
	assert.Equal(t, "offline", order.PaymentMethod)
}

func TestCreateOrderZeroQuantityDefaultsToOne(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	input := validOrderInput("caf-1")
	input.Items = []services.OrderItemRequest{{ItemID: "item-a", Quantity: 0}}
	order, err := svc.CreateOrder(input)
	assert.NoError(t, err)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Equal(t, 80.0, order.TotalPrice)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	// Missing cafeteria.
	input := validOrderInput("")
	_, err := svc.CreateOrder(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Invalid pickup slot.
	input = validOrderInput("caf-1")
	input.PickupTime = "4:00 PM"
	_, err = svc.CreateOrder(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Unknown payment method.
	input = validOrderInput("caf-1")
	input.PaymentMethod = "cheque"
	_, err = svc.CreateOrder(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Negative quantity.
	input = validOrderInput("caf-1")
	input.Items = []services.OrderItemRequest{{ItemID: "item-a", Quantity: -1}}
	_, err = svc.CreateOrder(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Unavailable item.
	input = validOrderInput("caf-1")
	input.Items = []services.OrderItemRequest{{ItemID: "item-c", Quantity: 1}}
	_, err = svc.CreateOrder(input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Unknown item.
	input = validOrderInput("caf-1")
	input.Items = []services.OrderItemRequest{{ItemID: "item-missing", Quantity: 1}}
	_, err = svc.CreateOrder(input)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// No order may have leaked into the store from any rejected request.
	orders, err := svc.ListUserOrders("user-1")
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGetOrderVisibility(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	order, err := svc.CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	// Owner sees their order.
	got, err := svc.GetOrder(order.ID, "user-1", "user")
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Another customer does not.
	_, err = svc.GetOrder(order.ID, "user-2", "user")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Sellers do.
	_, err = svc.GetOrder(order.ID, "seller-1", "seller")
	assert.NoError(t, err)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	order, err := svc.CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	// Forward move.
	updated, err := svc.UpdateStatus(order.ID, "seller-1", "confirmed")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	// Backward move is rejected.
	_, err = svc.UpdateStatus(order.ID, "seller-1", "pending")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// Unknown status string.
	_, err = svc.UpdateStatus(order.ID, "seller-1", "shipped")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// A seller from another cafeteria cannot touch the order.
	_, err = svc.UpdateStatus(order.ID, "seller-2", "preparing")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Cancellation from a non-terminal state.
	cancelled, err := svc.UpdateStatus(order.ID, "seller-1", "cancelled")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// Terminal states admit no further moves.
	_, err = svc.UpdateStatus(order.ID, "seller-1", "preparing")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestVerifyTokenHandoff(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	order, err := svc.CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	// Wrong token leaves the order untouched.
	_, err = svc.VerifyTokenHandoff(order.ID, "seller-1", "WRONG1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	current, err := f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, current.Status)

	// Wrong cafeteria is rejected before the token is even compared.
	_, err = svc.VerifyTokenHandoff(order.ID, "seller-2", order.OrderToken)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The right token moves the order to ready.
	ready, err := svc.VerifyTokenHandoff(order.ID, "seller-1", order.OrderToken)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusReady, ready.Status)
	assert.NotNil(t, ready.ReadyAt)

	// Verifying again is an illegal ready -> ready move.
	_, err = svc.VerifyTokenHandoff(order.ID, "seller-1", order.OrderToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestVerifyQRHandoff(t *testing.T) {
	f := newFixture(t)
	svc := f.orderService()

	order, err := svc.CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)
	other, err := svc.CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	// A raw order id is not a structured payload.
	_, err = svc.VerifyQRHandoff(order.ID, "seller-1", order.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// A payload for a different order is rejected.
	_, err = svc.VerifyQRHandoff(order.ID, "seller-1", qr.Payload(other.ID, other.OrderToken))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// The real payload moves the order to ready.
	ready, err := svc.VerifyQRHandoff(order.ID, "seller-1", qr.Payload(order.ID, order.OrderToken))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusReady, ready.Status)
}
