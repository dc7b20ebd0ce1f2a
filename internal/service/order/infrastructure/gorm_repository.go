package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"bazaar/internal/service/order/domain"
)

const mysqlErrDuplicateEntry = 1062

// GormOrderRepository is the MySQL order store.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) (*GormOrderRepository, error) {
	if err := db.AutoMigrate(&OrderModel{}, &OrderLineModel{}); err != nil {
		return nil, fmt.Errorf("migrate order tables: %w", err)
	}
	return &GormOrderRepository{db: db}, nil
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Create(toModel(order)).Error
	var mysqlErr *mysql.MySQLError
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		(errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry) {
		return fmt.Errorf("%w: order %s already exists", domain.ErrConflict, order.ID)
	}
	return err
}

// Save updates the order row and replaces its line set in place inside one
// transaction.
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := toModel(order)
		res := tx.Model(&OrderModel{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":      model.Status,
			"total_price": model.TotalPrice,
			"updated_at":  model.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s", domain.ErrNotFound, order.ID)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&OrderLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) > 0 {
			if err := tx.Create(&model.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return toDomain(&model), nil
}

func (r *GormOrderRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toDomain(&models[i]))
	}
	return orders, nil
}
