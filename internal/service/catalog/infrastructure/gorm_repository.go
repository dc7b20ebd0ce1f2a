package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bazaar/internal/service/catalog/domain"
)

// ItemModel maps the items table.
type ItemModel struct {
	ID    string `gorm:"primaryKey;size:64"`
	Name  string `gorm:"size:255;not null"`
	Price float64
}

func (ItemModel) TableName() string { return "items" }

// GormItemRepository is the MySQL catalog store.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) (*GormItemRepository, error) {
	if err := db.AutoMigrate(&ItemModel{}); err != nil {
		return nil, fmt.Errorf("migrate items table: %w", err)
	}
	return &GormItemRepository{db: db}, nil
}

func (r *GormItemRepository) Create(ctx context.Context, item domain.Item) error {
	err := r.db.WithContext(ctx).Create(&ItemModel{ID: item.ID, Name: item.Name, Price: item.Price}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, item.ID)
	}
	return err
}

func (r *GormItemRepository) FindByID(ctx context.Context, id string) (domain.Item, error) {
	var model ItemModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return domain.Item{}, err
	}
	return domain.Item{ID: model.ID, Name: model.Name, Price: model.Price}, nil
}

func (r *GormItemRepository) Update(ctx context.Context, item domain.Item) error {
	res := r.db.WithContext(ctx).Model(&ItemModel{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"name":  item.Name,
		"price": item.Price,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, item.ID)
	}
	return nil
}

func (r *GormItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ItemModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}
