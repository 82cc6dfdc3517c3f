package repository

import (
	"context"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"

	"gorm.io/gorm"
)

// ==================== CategoryRepository 类目仓库 ====================

// CategoryRepository 类目仓库接口，三级类目各自平表存储
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListSubcategories(ctx context.Context, categoryName string) ([]model.Subcategory, error)
	ListSubUnderCategories(ctx context.Context, subcategoryName string) ([]model.SubUnderCategory, error)

	// ChainExists 校验 category → subcategory → subundercategory 三级链路
	ChainExists(ctx context.Context, category, subcategory, subUnder string) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建类目仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *categoryRepository) ListSubcategories(ctx context.Context, categoryName string) ([]model.Subcategory, error) {
	var list []model.Subcategory
	db := r.db.WithContext(ctx)
	if categoryName != "" {
		db = db.Where("category_name = ?", categoryName)
	}
	err := db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *categoryRepository) ListSubUnderCategories(ctx context.Context, subcategoryName string) ([]model.SubUnderCategory, error) {
	var list []model.SubUnderCategory
	db := r.db.WithContext(ctx)
	if subcategoryName != "" {
		db = db.Where("subcategory_name = ?", subcategoryName)
	}
	err := db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *categoryRepository) ChainExists(ctx context.Context, category, subcategory, subUnder string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subcategory{}).
		Where("name = ? AND category_name = ?", subcategory, category).
		Count(&count).Error
	if err != nil || count == 0 {
		return false, err
	}

	err = r.db.WithContext(ctx).Model(&model.SubUnderCategory{}).
		Where("name = ? AND subcategory_name = ?", subUnder, subcategory).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
