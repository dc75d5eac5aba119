package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// statusRank orders the forward lifecycle. cancelled carries no rank.
var statusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusCompleted: 4,
}

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// move: forward along pending -> confirmed -> preparing -> ready -> completed
// (skipping states is allowed), or cancellation from any non-terminal state.
// Backward moves and moves out of a terminal state are rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// PaymentStatus is the payment axis of an order, independent of OrderStatus.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// OrderPaymentMethods lists the payment methods accepted at order creation.
var OrderPaymentMethods = []string{"offline", "online", "razorpay", "upi", "card"}

// ValidOrderPaymentMethod reports whether m is an accepted payment method.
func ValidOrderPaymentMethod(m string) bool {
	for _, v := range OrderPaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// OrderItem is a line item snapshotted at order time. Price and subtotal are
// frozen copies, immune to later menu price edits.
type OrderItem struct {
	ID       uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID  string  `json:"-" gorm:"index;type:varchar(36)"`
	ItemID   string  `json:"item_id" gorm:"type:varchar(36)"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// Order is the central entity of the ordering core.
type Order struct {
	ID                       string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID                   string        `json:"user_id" gorm:"index;type:varchar(36)"`
	UserEmail                string        `json:"user_email"`
	CollegeID                string        `json:"college_id" gorm:"type:varchar(36)"`
	CafeteriaID              string        `json:"cafeteria_id" gorm:"index;type:varchar(36)"`
	Items                    []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	TotalPrice               float64       `json:"total_price"`
	OrderToken               string        `json:"order_token" gorm:"uniqueIndex;type:varchar(6)"`
	QRCode                   string        `json:"qr_code" gorm:"type:text"`
	PickupTime               string        `json:"pickup_time"`
	SpecialInstructions      string        `json:"special_instructions"`
	Status                   OrderStatus   `json:"status" gorm:"index;type:varchar(16)"`
	PaymentStatus            PaymentStatus `json:"payment_status" gorm:"type:varchar(16)"`
	PaymentMethod            string        `json:"payment_method" gorm:"type:varchar(16)"`
	PickupVerifiedBy         string        `json:"pickup_verified_by,omitempty" gorm:"type:varchar(36)"`
	PickupVerificationMethod string        `json:"pickup_verification_method,omitempty" gorm:"type:varchar(8)"`
	ReadyAt                  *time.Time    `json:"ready_at,omitempty"`
	CompletedAt              *time.Time    `json:"completed_at,omitempty"`
	CreatedAt                time.Time     `json:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at"`
}
