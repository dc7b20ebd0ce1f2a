package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bazaar/internal/service/inventory/domain"
)

// InventoryModel maps the inventory table.
type InventoryModel struct {
	ItemID   string `gorm:"primaryKey;size:64"`
	Quantity int    `gorm:"not null"`
}

func (InventoryModel) TableName() string { return "inventory" }

// GormLedger is the MySQL ledger. The decrement is one conditional UPDATE
// with the stock check in its WHERE clause, so concurrent reservations on the
// same item serialize on the row and the quantity can never go negative.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) (*GormLedger, error) {
	if err := db.AutoMigrate(&InventoryModel{}); err != nil {
		return nil, fmt.Errorf("migrate inventory table: %w", err)
	}
	return &GormLedger{db: db}, nil
}

func (l *GormLedger) Create(ctx context.Context, itemID string, quantity int) (domain.Record, error) {
	err := l.db.WithContext(ctx).Create(&InventoryModel{ItemID: itemID, Quantity: quantity}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, itemID)
		}
		return domain.Record{}, err
	}
	return domain.Record{ItemID: itemID, Quantity: quantity}, nil
}

func (l *GormLedger) Get(ctx context.Context, itemID string) (domain.Record, error) {
	var model InventoryModel
	err := l.db.WithContext(ctx).Where("item_id = ?", itemID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
		}
		return domain.Record{}, err
	}
	return domain.Record{ItemID: model.ItemID, Quantity: model.Quantity}, nil
}

func (l *GormLedger) TryDecrement(ctx context.Context, itemID string, qty int) (bool, error) {
	// UPDATE inventory SET quantity = quantity - ? WHERE item_id = ? AND quantity >= ?
	res := l.db.WithContext(ctx).Model(&InventoryModel{}).
		Where("item_id = ? AND quantity >= ?", itemID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	// Zero rows touched: distinguish a missing record from insufficient
	// stock. This read is diagnostic only; the decrement already settled.
	if _, err := l.Get(ctx, itemID); err != nil {
		return false, err
	}
	return false, nil
}

func (l *GormLedger) Increment(ctx context.Context, itemID string, qty int) (int, error) {
	res := l.db.WithContext(ctx).Model(&InventoryModel{}).
		Where("item_id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
	}

	record, err := l.Get(ctx, itemID)
	if err != nil {
		return 0, err
	}
	return record.Quantity, nil
}
