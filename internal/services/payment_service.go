package services

import (
	"strings"

	"quickbite/internal/apperrors"
	"quickbite/internal/gateway"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
	"quickbite/pkg/rabbitmq"
)

const paymentCurrency = "INR"

// PaymentHandle is returned when a payment intent is opened. The Razorpay
// fields are only set for online payments.
type PaymentHandle struct {
	PaymentID       string  `json:"payment_id"`
	RazorpayOrderID string  `json:"razorpay_order_id,omitempty"`
	RazorpayKey     string  `json:"razorpay_key,omitempty"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Method          string  `json:"payment_method"`
}

// PaymentService reconciles payment records with orders: online payments via
// signature-verified gateway callbacks, offline payments via seller action.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	sellerRepo  repositories.SellerRepository
	gateway     gateway.Gateway
	events      EventPublisher
}

// NewPaymentService creates a new PaymentService. gw may be nil when the
// gateway is not configured; online payment creation then fails cleanly.
func NewPaymentService(paymentRepo repositories.PaymentRepository, orderRepo repositories.OrderRepository, sellerRepo repositories.SellerRepository, gw gateway.Gateway, events EventPublisher) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		sellerRepo:  sellerRepo,
		gateway:     gw,
		events:      events,
	}
}

// CreatePaymentOrder opens a payment intent for an order. For the Razorpay
// method it additionally opens a remote gateway order (amount in paise) and
// stores the gateway order id on the payment record.
func (s *PaymentService) CreatePaymentOrder(orderID string, amount float64, method string) (*PaymentHandle, error) {
	if orderID == "" {
		return nil, apperrors.Validationf("order_id and amount are required")
	}
	if amount <= 0 {
		return nil, apperrors.Validationf("amount must be greater than 0")
	}
	if method == "" {
		method = "razorpay"
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentCompleted {
		return nil, apperrors.Conflictf("order is already paid")
	}

	payment := &models.Payment{
		OrderID:  orderID,
		Amount:   amount,
		Currency: paymentCurrency,
		Method:   method,
		Status:   models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	handle := &PaymentHandle{
		PaymentID: payment.ID,
		Amount:    amount,
		Currency:  paymentCurrency,
		Method:    method,
	}

	if method == "razorpay" || method == "online" {
		if s.gateway == nil {
			return nil, apperrors.ErrGatewayConfig
		}
		gatewayOrderID, err := s.gateway.CreateOrder(
			int64(amount*100),
			paymentCurrency,
			"quickbite_"+orderID,
			map[string]interface{}{
				"order_id":   orderID,
				"user_email": order.UserEmail,
			},
		)
		if err != nil {
			return nil, apperrors.ErrGateway
		}
		if err := s.paymentRepo.SetRazorpayOrderID(payment.ID, gatewayOrderID); err != nil {
			return nil, err
		}
		handle.RazorpayOrderID = gatewayOrderID
		handle.RazorpayKey = s.gateway.KeyID()
	}

	return handle, nil
}

// VerifyOnlinePayment validates the gateway callback signature. A mismatch
// terminally fails the payment attempt and leaves the order untouched; a
// match completes the payment and the order's payment status in one
// transaction.
func (s *PaymentService) VerifyOnlinePayment(paymentID, razorpayPaymentID, razorpaySignature string) (*models.Payment, error) {
	if paymentID == "" || razorpayPaymentID == "" || razorpaySignature == "" {
		return nil, apperrors.Validationf("missing payment verification details")
	}

	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.RazorpayOrderID == "" {
		return nil, apperrors.Validationf("payment %s has no gateway order", paymentID)
	}
	if s.gateway == nil {
		return nil, apperrors.ErrGatewayConfig
	}

	if !s.gateway.VerifySignature(payment.RazorpayOrderID, razorpayPaymentID, razorpaySignature) {
		if err := s.paymentRepo.MarkFailed(paymentID, razorpayPaymentID); err != nil {
			return nil, err
		}
		return nil, apperrors.Unauthorizedf("payment verification failed")
	}

	if err := s.paymentRepo.CompleteWithOrder(paymentID, razorpayPaymentID); err != nil {
		return nil, err
	}

	publishEvent(s.events, rabbitmq.EventPaymentCompleted, map[string]interface{}{
		"payment_id": paymentID,
		"order_id":   payment.OrderID,
		"amount":     payment.Amount,
		"method":     "online",
	})

	return s.paymentRepo.GetByID(paymentID)
}

// MarkOfflinePayment records a cash/manual settlement by a seller. The
// seller must be bound to the order's cafeteria; the payment is created
// already completed and the order's payment status flips with it.
func (s *PaymentService) MarkOfflinePayment(orderID, sellerID, method, notes string) (*models.Payment, error) {
	if orderID == "" {
		return nil, apperrors.Validationf("order_id is required")
	}
	if method == "" {
		method = "cash"
	}
	if !models.ValidOfflinePaymentMethod(method) {
		return nil, apperrors.Validationf("invalid payment method, valid methods: %s", strings.Join(models.OfflinePaymentMethods, ", "))
	}

	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !seller.BoundTo(order.CafeteriaID) {
		return nil, apperrors.Forbiddenf("order does not belong to your cafeteria")
	}

	payment := &models.Payment{
		OrderID:              orderID,
		Amount:               order.TotalPrice,
		Currency:             paymentCurrency,
		Method:               method,
		ReceivedBySellerID:   seller.ID,
		ReceivedBySellerName: seller.Name,
		Notes:                notes,
	}
	if err := s.paymentRepo.CreateCompletedWithOrder(payment); err != nil {
		return nil, err
	}

	publishEvent(s.events, rabbitmq.EventPaymentCompleted, map[string]interface{}{
		"payment_id": payment.ID,
		"order_id":   orderID,
		"amount":     payment.Amount,
		"method":     method,
	})

	return payment, nil
}

// History lists payment records. Sellers only see payments for orders of
// their own cafeteria, joined through the order-id list; other authenticated
// roles see the unfiltered history.
func (s *PaymentService) History(requesterRole, requesterID string, filter repositories.PaymentListFilter) ([]models.Payment, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if requesterRole == "seller" {
		seller, err := s.sellerRepo.GetByID(requesterID)
		if err != nil {
			return nil, 0, err
		}
		ids, err := s.orderRepo.IDsByCafeteria(seller.CollegeID)
		if err != nil {
			return nil, 0, err
		}
		filter.OrderIDs = ids
	}
	return s.paymentRepo.List(filter)
}

// GetPayment fetches a single payment record.
func (s *PaymentService) GetPayment(id string) (*models.Payment, error) {
	return s.paymentRepo.GetByID(id)
}
