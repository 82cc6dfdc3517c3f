package repository

import (
	"context"
	"errors"
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"

	"gorm.io/gorm"
)

// ==================== SellerRepository 卖家仓库 ====================

// SellerRepository 卖家仓库接口
type SellerRepository interface {
	Create(ctx context.Context, seller *model.Seller) error

	// GetByID 按文档 ID 直查
	GetByID(ctx context.Context, id string) (*model.Seller, error)

	// GetByAuthUID 先按文档 ID 直查，不中再按 uid 字段反查
	// 对应历史上文档 ID 与认证 UID 不一致的卖家
	GetByAuthUID(ctx context.Context, uid string) (*model.Seller, error)

	GetByEmail(ctx context.Context, email string) (*model.Seller, error)
	Update(ctx context.Context, seller *model.Seller) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateLastLogin(ctx context.Context, id string) error
}

type sellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家仓库
func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(ctx context.Context, seller *model.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

func (r *sellerRepository) GetByID(ctx context.Context, id string) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&seller).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) GetByAuthUID(ctx context.Context, uid string) (*model.Seller, error) {
	// 1) 文档 ID 即 UID
	seller, err := r.GetByID(ctx, uid)
	if err == nil {
		return seller, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2) 自定义文档 ID 的卖家，按 uid 字段反查，取第一条
	var found model.Seller
	err = r.db.WithContext(ctx).Where("uid = ?", uid).First(&found).Error
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *sellerRepository) GetByEmail(ctx context.Context, email string) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&seller).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) Update(ctx context.Context, seller *model.Seller) error {
	return r.db.WithContext(ctx).Save(seller).Error
}

func (r *sellerRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Seller{}).Where("id = ?", id).Updates(fields).Error
}

func (r *sellerRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.Seller{}).Where("id = ?", id).
		Update("last_login_at", &now).Error
}
