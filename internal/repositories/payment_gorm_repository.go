package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

// Create inserts a new payment record.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment record.
func (r *GORMPaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("payment %s", id)
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return &payment, nil
}

// SetRazorpayOrderID stores the gateway order id after the remote order is
// opened.
func (r *GORMPaymentRepository) SetRazorpayOrderID(id, razorpayOrderID string) error {
	res := r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"razorpay_order_id": razorpayOrderID,
		"updated_at":        time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set gateway order id on payment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("payment %s", id)
	}
	return nil
}

// MarkFailed terminally fails this payment attempt. The order is untouched.
func (r *GORMPaymentRepository) MarkFailed(id, razorpayPaymentID string) error {
	res := r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":              models.PaymentStatusFailed,
		"razorpay_payment_id": razorpayPaymentID,
		"updated_at":          time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to mark payment %s failed: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("payment %s", id)
	}
	return nil
}

// CompleteWithOrder marks the payment completed and flips the linked order's
// payment status in the same transaction, so a completed payment can never be
// committed with its order left pending.
func (r *GORMPaymentRepository) CompleteWithOrder(id, razorpayPaymentID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("payment %s", id)
			}
			return err
		}

		now := time.Now()
		err := tx.Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":              models.PaymentStatusCompleted,
			"razorpay_payment_id": razorpayPaymentID,
			"updated_at":          now,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to complete payment %s: %w", id, err)
		}

		res := tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).Updates(map[string]interface{}{
			"payment_status": models.PaymentCompleted,
			"payment_method": "online",
			"updated_at":     now,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update order %s payment status: %w", payment.OrderID, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFoundf("order %s", payment.OrderID)
		}
		return nil
	})
}

// CreateCompletedWithOrder inserts an offline settlement (already completed)
// and updates the linked order's payment status in the same transaction.
func (r *GORMPaymentRepository) CreateCompletedWithOrder(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.Status = models.PaymentStatusCompleted
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to create offline payment: %w", err)
		}
		res := tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).Updates(map[string]interface{}{
			"payment_status": models.PaymentCompleted,
			"payment_method": payment.Method,
			"updated_at":     time.Now(),
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update order %s payment status: %w", payment.OrderID, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFoundf("order %s", payment.OrderID)
		}
		return nil
	})
}

// List returns a filtered, paginated payment history plus the total match
// count, newest first.
func (r *GORMPaymentRepository) List(filter PaymentListFilter) ([]models.Payment, int64, error) {
	q := r.db.Model(&models.Payment{})
	if filter.Method != "" {
		q = q.Where("method = ?", filter.Method)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OrderIDs != nil {
		q = q.Where("order_id IN ?", filter.OrderIDs)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var payments []models.Payment
	err := q.Session(&gorm.Session{}).Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}
