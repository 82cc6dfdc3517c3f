package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== ProductRepository 商品仓库 ====================

// ProductRepository 商品仓库接口
type ProductRepository interface {
	// CreateWithMirror 主表 + 卖家镜像 + 卖家摘要，单事务写入
	CreateWithMirror(ctx context.Context, doc *model.ProductDocument, mirror *model.SellerProduct, summary *model.SellerProductSummary) error

	// CreateBatch 批量导入，batchSize 控制单批条数
	CreateBatch(ctx context.Context, docs []model.ProductDocument, batchSize int) error

	GetByID(ctx context.Context, id string) (*model.ProductDocument, error)
	QueryByOwnerField(ctx context.Context, field, value string) ([]model.ProductDocument, error)
	ScanAll(ctx context.Context) ([]model.ProductDocument, error)

	// UpdateFields 字段级合并更新（只覆盖给定键）
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*model.ProductDocument, error)

	// DeleteByIDs 连同镜像与摘要一并删除
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	CountAll(ctx context.Context) (int64, error)
	SummariesBySeller(ctx context.Context, sellerID string) ([]model.SellerProductSummary, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateWithMirror(ctx context.Context, doc *model.ProductDocument, mirror *model.SellerProduct, summary *model.SellerProductSummary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		if err := tx.Create(mirror).Error; err != nil {
			return err
		}
		if summary != nil {
			if err := tx.Create(summary).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepository) CreateBatch(ctx context.Context, docs []model.ProductDocument, batchSize int) error {
	if len(docs) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return r.db.WithContext(ctx).CreateInBatches(docs, batchSize).Error
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.ProductDocument, error) {
	var doc model.ProductDocument
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *productRepository) QueryByOwnerField(ctx context.Context, field, value string) ([]model.ProductDocument, error) {
	var docs []model.ProductDocument
	err := r.db.WithContext(ctx).
		Where(datatypes.JSONQuery("data").Equals(value, field)).
		Find(&docs).Error
	return docs, err
}

func (r *productRepository) ScanAll(ctx context.Context) ([]model.ProductDocument, error) {
	var docs []model.ProductDocument
	err := r.db.WithContext(ctx).Find(&docs).Error
	return docs, err
}

func (r *productRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*model.ProductDocument, error) {
	var updated *model.ProductDocument

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.ProductDocument
		if err := tx.Where("id = ?", id).First(&doc).Error; err != nil {
			return err
		}

		data := make(map[string]interface{})
		if len(doc.Data) > 0 {
			if err := json.Unmarshal(doc.Data, &data); err != nil {
				return fmt.Errorf("解析商品文档失败: %w", err)
			}
		}
		for k, v := range fields {
			data[k] = v
		}

		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("序列化商品文档失败: %w", err)
		}

		doc.Data = datatypes.JSON(raw)
		doc.UpdatedAt = time.Now()
		if err := tx.Model(&model.ProductDocument{}).Where("id = ?", id).
			Updates(map[string]interface{}{"data": doc.Data, "updated_at": doc.UpdatedAt}).Error; err != nil {
			return err
		}

		// 镜像表同步（存在才更新）
		if err := tx.Model(&model.SellerProduct{}).Where("id = ?", id).
			Updates(map[string]interface{}{"data": doc.Data, "updated_at": doc.UpdatedAt}).Error; err != nil {
			return err
		}

		updated = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *productRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id IN ?", ids).Delete(&model.ProductDocument{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		if err := tx.Where("id IN ?", ids).Delete(&model.SellerProduct{}).Error; err != nil {
			return err
		}
		return tx.Where("product_id IN ?", ids).Delete(&model.SellerProductSummary{}).Error
	})
	return deleted, err
}

func (r *productRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductDocument{}).Count(&count).Error
	return count, err
}

func (r *productRepository) SummariesBySeller(ctx context.Context, sellerID string) ([]model.SellerProductSummary, error) {
	var summaries []model.SellerProductSummary
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("added_at DESC").
		Find(&summaries).Error
	return summaries, err
}
