package repositories

import "quickbite/internal/models"

// PaymentListFilter scopes and pages payment history listings. A nil
// OrderIDs slice means no order restriction; an empty non-nil slice matches
// nothing (a seller with no orders sees no payments).
type PaymentListFilter struct {
	Method   string
	Status   string
	OrderIDs []string
	Limit    int
	Offset   int
}

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	SetRazorpayOrderID(id, razorpayOrderID string) error
	// MarkFailed terminally fails a payment attempt. The linked order's
	// payment status is left untouched.
	MarkFailed(id, razorpayPaymentID string) error
	// CompleteWithOrder marks the payment completed and synchronously sets
	// the linked order's payment status to completed (method "online") in
	// one transaction.
	CompleteWithOrder(id, razorpayPaymentID string) error
	// CreateCompletedWithOrder inserts an already-completed payment (offline
	// settlement) and updates the linked order's payment status in one
	// transaction.
	CreateCompletedWithOrder(payment *models.Payment) error
	List(filter PaymentListFilter) ([]models.Payment, int64, error)
}
