package repository

import (
	"errors"
	"time"

	"github.com/craftmart-shop/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUserID(userID uint) (*models.Cart, error)
	GetBySessionID(sessionID string) (*models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	UpdateDerived(cartID uint, totalAmount models.Money, totalItems int, expiresAt *time.Time) error
	GetLine(cartID, productID uint) (*models.CartLine, error)
	GetLineByID(cartID, lineID uint) (*models.CartLine, error)
	CreateLine(line *models.CartLine) error
	UpdateLineQuantity(lineID uint, quantity int) error
	DeleteLine(lineID uint) error
	DeleteLines(cartID uint) error
	Delete(cartID uint) error
	ListExpiredGuestIDs(before time.Time, limit int) ([]uint, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormCartRepository) preloadLines(query *gorm.DB) *gorm.DB {
	return query.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Lines.Product")
}

// GetByUserID 获取用户购物车
func (r *GormCartRepository) GetByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.preloadLines(r.db).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetBySessionID 获取游客购物车
func (r *GormCartRepository) GetBySessionID(sessionID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.preloadLines(r.db).Where("session_id = ?", sessionID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByID 根据 ID 获取购物车
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.preloadLines(r.db).First(&cart, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// UpdateDerived 更新派生汇总字段与游客过期时间
func (r *GormCartRepository) UpdateDerived(cartID uint, totalAmount models.Money, totalItems int, expiresAt *time.Time) error {
	updates := map[string]interface{}{
		"total_amount": totalAmount,
		"total_items":  totalItems,
	}
	if expiresAt != nil {
		updates["expires_at"] = *expiresAt
	}
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(updates).Error
}

// GetLine 按商品获取购物车明细行
func (r *GormCartRepository) GetLine(cartID, productID uint) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// GetLineByID 按行 ID 获取购物车明细行（限定所属购物车）
func (r *GormCartRepository) GetLineByID(cartID, lineID uint) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.Where("id = ? AND cart_id = ?", lineID, cartID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// CreateLine 新增购物车明细行
func (r *GormCartRepository) CreateLine(line *models.CartLine) error {
	return r.db.Create(line).Error
}

// UpdateLineQuantity 更新明细行数量
func (r *GormCartRepository) UpdateLineQuantity(lineID uint, quantity int) error {
	return r.db.Model(&models.CartLine{}).Where("id = ?", lineID).Update("quantity", quantity).Error
}

// DeleteLine 删除明细行
func (r *GormCartRepository) DeleteLine(lineID uint) error {
	return r.db.Delete(&models.CartLine{}, lineID).Error
}

// DeleteLines 清空购物车明细行
func (r *GormCartRepository) DeleteLines(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error
}

// Delete 删除购物车及其明细行
func (r *GormCartRepository) Delete(cartID uint) error {
	if err := r.DeleteLines(cartID); err != nil {
		return err
	}
	return r.db.Delete(&models.Cart{}, cartID).Error
}

// ListExpiredGuestIDs 列出已过期的游客购物车 ID
func (r *GormCartRepository) ListExpiredGuestIDs(before time.Time, limit int) ([]uint, error) {
	var ids []uint
	query := r.db.Model(&models.Cart{}).
		Where("user_id IS NULL AND expires_at IS NOT NULL AND expires_at < ?", before).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
