package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
	"quickbite/internal/services"
)

// fakeGateway is an in-process stand-in for the Razorpay gateway.
type fakeGateway struct {
	created        int
	failCreate     bool
	validSignature string
}

func (g *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	if g.failCreate {
		return "", errors.New("gateway unreachable")
	}
	g.created++
	return fmt.Sprintf("order_rzp_%d", g.created), nil
}

func (g *fakeGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return signature == g.validSignature
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (f *fixture) paymentService(gw *fakeGateway) *services.PaymentService {
	if gw == nil {
		return services.NewPaymentService(f.payments, f.orders, f.sellers, nil, nil)
	}
	return services.NewPaymentService(f.payments, f.orders, f.sellers, gw, nil)
}

func TestCreatePaymentOrderOnline(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{validSignature: "good-sig"}
	svc := f.paymentService(gw)

	order, err := f.orderService().CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	handle, err := svc.CreatePaymentOrder(order.ID, order.TotalPrice, "razorpay")
	assert.NoError(t, err)
	assert.NotEmpty(t, handle.PaymentID)
	assert.Equal(t, "order_rzp_1", handle.RazorpayOrderID)
	assert.Equal(t, "rzp_test_key", handle.RazorpayKey)
	assert.Equal(t, 310.0, handle.Amount)
	assert.Equal(t, "INR", handle.Currency)

	payment, err := svc.GetPayment(handle.PaymentID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, "order_rzp_1", payment.RazorpayOrderID)
}

func TestCreatePaymentOrderValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.paymentService(&fakeGateway{})

	_, err := svc.CreatePaymentOrder("", 100, "razorpay")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	order, err := f.orderService().CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	_, err = svc.CreatePaymentOrder(order.ID, 0, "razorpay")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreatePaymentOrder("order-404", 100, "razorpay")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreatePaymentOrderGatewayUnavailable(t *testing.T) {
	f := newFixture(t)

	order, err := f.orderService().CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	// No gateway configured at all.
	svc := f.paymentService(nil)
	_, err = svc.CreatePaymentOrder(order.ID, order.TotalPrice, "razorpay")
	assert.ErrorIs(t, err, apperrors.ErrGatewayConfig)

	// Gateway configured but failing.
	svc = f.paymentService(&fakeGateway{failCreate: true})
	_, err = svc.CreatePaymentOrder(order.ID, order.TotalPrice, "razorpay")
	assert.ErrorIs(t, err, apperrors.ErrGateway)
}

func TestVerifyOnlinePayment(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{validSignature: "good-sig"}
	svc := f.paymentService(gw)

	order, err := f.orderService().CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)
	handle, err := svc.CreatePaymentOrder(order.ID, order.TotalPrice, "razorpay")
	assert.NoError(t, err)

	// A tampered signature terminally fails the attempt and leaves the order
	// unpaid.
	_, err = svc.VerifyOnlinePayment(handle.PaymentID, "pay_123", "bad-sig")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	payment, err := svc.GetPayment(handle.PaymentID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)

	current, err := f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentPending, current.PaymentStatus)

	// A fresh attempt with the right signature completes both records.
	handle, err = svc.CreatePaymentOrder(order.ID, order.TotalPrice, "razorpay")
	assert.NoError(t, err)
	payment, err = svc.VerifyOnlinePayment(handle.PaymentID, "pay_456", "good-sig")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, "pay_456", payment.RazorpayPaymentID)

	current, err = f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, current.PaymentStatus)
	assert.Equal(t, "online", current.PaymentMethod)

	// The order now reads as paid.
	_, err = svc.CreatePaymentOrder(order.ID, order.TotalPrice, "razorpay")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMarkOfflinePayment(t *testing.T) {
	f := newFixture(t)
	svc := f.paymentService(nil)

	order, err := f.orderService().CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	// Only the bound cafeteria's seller may settle the order.
	_, err = svc.MarkOfflinePayment(order.ID, "seller-2", "cash", "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The failed attempt left no record behind.
	payments, total, err := svc.History("admin", "", repositories.PaymentListFilter{})
	assert.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, payments)

	// Unknown offline method.
	_, err = svc.MarkOfflinePayment(order.ID, "seller-1", "cheque", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	payment, err := svc.MarkOfflinePayment(order.ID, "seller-1", "cash", "paid at counter")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Equal(t, order.TotalPrice, payment.Amount)
	assert.Equal(t, "seller-1", payment.ReceivedBySellerID)
	assert.Equal(t, "paid at counter", payment.Notes)

	current, err := f.orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, current.PaymentStatus)
	assert.Equal(t, "cash", current.PaymentMethod)
}

func TestMarkOfflinePaymentDefaultsToCash(t *testing.T) {
	f := newFixture(t)
	svc := f.paymentService(nil)

	order, err := f.orderService().CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)

	payment, err := svc.MarkOfflinePayment(order.ID, "seller-1", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "cash", payment.Method)
}

func TestPaymentHistoryScoping(t *testing.T) {
	f := newFixture(t)
	svc := f.paymentService(nil)
	orderSvc := f.orderService()

	mine, err := orderSvc.CreateOrder(validOrderInput("caf-1"))
	assert.NoError(t, err)
	other, err := orderSvc.CreateOrder(validOrderInput("caf-2"))
	assert.NoError(t, err)

	_, err = svc.MarkOfflinePayment(mine.ID, "seller-1", "cash", "")
	assert.NoError(t, err)
	_, err = svc.MarkOfflinePayment(other.ID, "seller-2", "upi", "")
	assert.NoError(t, err)

	// A seller only sees payments for their own cafeteria's orders.
	payments, total, err := svc.History("seller", "seller-1", repositories.PaymentListFilter{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, payments, 1)
	assert.Equal(t, mine.ID, payments[0].OrderID)

	// Other roles see the unfiltered history.
	payments, total, err = svc.History("admin", "", repositories.PaymentListFilter{})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, payments, 2)

	// Method filter narrows the listing.
	payments, _, err = svc.History("admin", "", repositories.PaymentListFilter{Method: "upi"})
	assert.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Equal(t, other.ID, payments[0].OrderID)
}
