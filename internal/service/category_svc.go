package service

import (
	"context"
	"fmt"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"
)

// ==================== CategoryService ====================

// CategoryService 类目服务
// 三级类目放在三张平表里，靠名称串联，逐级联动查询
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建类目服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories 一级类目列表
func (s *CategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询类目失败: %w", err)
	}
	return categories, nil
}

// ListSubcategories 二级类目，按一级类目名过滤
func (s *CategoryService) ListSubcategories(ctx context.Context, categoryName string) ([]model.Subcategory, error) {
	subs, err := s.categoryRepo.ListSubcategories(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("查询二级类目失败: %w", err)
	}
	return subs, nil
}

// ListSubUnderCategories 三级类目，按二级类目名过滤
func (s *CategoryService) ListSubUnderCategories(ctx context.Context, subcategoryName string) ([]model.SubUnderCategory, error) {
	subs, err := s.categoryRepo.ListSubUnderCategories(ctx, subcategoryName)
	if err != nil {
		return nil, fmt.Errorf("查询三级类目失败: %w", err)
	}
	return subs, nil
}
