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

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts a new order with its line items. A duplicate order token
// surfaces as a conflict so the caller can regenerate and retry.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflictf("order token %s already in use", order.OrderToken)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its line items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("order %s", id)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

var orderSortColumns = map[string]string{
	"created_at":  "created_at",
	"pickup_time": "pickup_time",
	"total_price": "total_price",
}

// ListByCafeteria returns a paginated cafeteria-scoped listing plus the
// total match count.
func (r *GORMOrderRepository) ListByCafeteria(filter OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.Model(&models.Order{}).Where("cafeteria_id = ?", filter.CafeteriaID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cafeteria orders: %w", err)
	}

	column, ok := orderSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var orders []models.Order
	err := q.Session(&gorm.Session{}).Preload("Items").
		Order(column + " " + direction).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cafeteria orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus sets the order status. Reaching ready also stamps ReadyAt.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if status == models.StatusReady {
		updates["ready_at"] = now
	}
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("order %s", id)
	}
	return nil
}

// AttachQRCode stores the rendered QR data URI on the order.
func (r *GORMOrderRepository) AttachQRCode(id, qrCode string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("qr_code", qrCode)
	if res.Error != nil {
		return fmt.Errorf("failed to attach QR code to order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("order %s", id)
	}
	return nil
}

// SetPaymentCompleted flips the order's payment axis to completed.
func (r *GORMOrderRepository) SetPaymentCompleted(id, method string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_status": models.PaymentCompleted,
		"payment_method": method,
		"updated_at":     time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set payment status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("order %s", id)
	}
	return nil
}

// CompletePickup runs the conditional ready -> completed transition and the
// seller revenue credit in a single transaction. The WHERE on the current
// status is what prevents double-crediting under concurrent verification.
func (r *GORMOrderRepository) CompletePickup(orderID, sellerID, method string) (*models.Order, error) {
	var order models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.StatusReady).
			Updates(map[string]interface{}{
				"status":                     models.StatusCompleted,
				"completed_at":               now,
				"pickup_verified_by":         sellerID,
				"pickup_verification_method": method,
				"updated_at":                 now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to complete order %s: %w", orderID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Either the order is gone or another request won the race.
			var current models.Order
			if err := tx.First(&current, "id = ?", orderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFoundf("order %s", orderID)
				}
				return err
			}
			return apperrors.InvalidStatef("order status is %s, it must be ready for pickup", current.Status)
		}

		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return fmt.Errorf("failed to reload order %s: %w", orderID, err)
		}

		credit := tx.Model(&models.Seller{}).Where("id = ?", sellerID).Updates(map[string]interface{}{
			"total_orders":  gorm.Expr("total_orders + 1"),
			"total_revenue": gorm.Expr("total_revenue + ?", order.TotalPrice),
		})
		if credit.Error != nil {
			return fmt.Errorf("failed to credit seller %s: %w", sellerID, credit.Error)
		}
		if credit.RowsAffected == 0 {
			return apperrors.NotFoundf("seller %s", sellerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// IDsByCafeteria returns the ids of all orders bound to a cafeteria. Used to
// join payment history to a seller's orders.
func (r *GORMOrderRepository) IDsByCafeteria(cafeteriaID string) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.Model(&models.Order{}).
		Where("cafeteria_id = ?", cafeteriaID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list order ids for cafeteria %s: %w", cafeteriaID, err)
	}
	return ids, nil
}

// CountByStatus counts a cafeteria's orders in one status.
func (r *GORMOrderRepository) CountByStatus(cafeteriaID string, status models.OrderStatus) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).
		Where("cafeteria_id = ? AND status = ?", cafeteriaID, status).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s orders: %w", status, err)
	}
	return n, nil
}

// CountAll counts every order for a cafeteria.
func (r *GORMOrderRepository) CountAll(cafeteriaID string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).
		Where("cafeteria_id = ?", cafeteriaID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// CompletedRevenue sums the total price of completed orders, optionally
// restricted to orders created at or after since.
func (r *GORMOrderRepository) CompletedRevenue(cafeteriaID string, since *time.Time) (float64, error) {
	q := r.db.Model(&models.Order{}).
		Where("cafeteria_id = ? AND status = ?", cafeteriaID, models.StatusCompleted)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var total float64
	err := q.Select("COALESCE(SUM(total_price), 0)").Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum completed revenue: %w", err)
	}
	return total, nil
}

// RevenueByPaymentMethod groups completed-order revenue by payment method.
func (r *GORMOrderRepository) RevenueByPaymentMethod(cafeteriaID string) ([]MethodRevenue, error) {
	rows := make([]MethodRevenue, 0)
	err := r.db.Model(&models.Order{}).
		Select("payment_method AS method, COALESCE(SUM(total_price), 0) AS total, COUNT(*) AS count").
		Where("cafeteria_id = ? AND status = ?", cafeteriaID, models.StatusCompleted).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group revenue by payment method: %w", err)
	}
	return rows, nil
}
