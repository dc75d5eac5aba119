package models

import "time"

// Payment lifecycle states. Online payments move pending -> completed|failed
// via the gateway callback; offline payments are created already completed.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
)

// OfflinePaymentMethods lists the methods a seller may record manually.
var OfflinePaymentMethods = []string{"cash", "upi", "bank_transfer"}

// ValidOfflinePaymentMethod reports whether m is an accepted offline method.
func ValidOfflinePaymentMethod(m string) bool {
	for _, v := range OfflinePaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// Payment is a single payment attempt against an order. Retries create new
// records; at-most-one-non-failed is not enforced.
type Payment struct {
	ID                   string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID              string    `json:"order_id" gorm:"index;type:varchar(36)"`
	Amount               float64   `json:"amount"`
	Currency             string    `json:"currency" gorm:"type:varchar(8)"`
	Method               string    `json:"payment_method" gorm:"type:varchar(16)"`
	Status               string    `json:"status" gorm:"type:varchar(16)"`
	RazorpayOrderID      string    `json:"razorpay_order_id,omitempty" gorm:"type:varchar(64)"`
	RazorpayPaymentID    string    `json:"razorpay_payment_id,omitempty" gorm:"type:varchar(64)"`
	ReceivedBySellerID   string    `json:"received_by_seller_id,omitempty" gorm:"type:varchar(36)"`
	ReceivedBySellerName string    `json:"received_by,omitempty"`
	Notes                string    `json:"notes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
