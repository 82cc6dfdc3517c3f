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

// ==================== OrderDocumentRepository 订单文档仓库 ====================

// OrderDocumentRepository 订单文档仓库接口
// 订单以原始 JSON 文档存储，按归属字段的查询走 JSON 路径
type OrderDocumentRepository interface {
	Create(ctx context.Context, doc *model.OrderDocument) error
	GetByID(ctx context.Context, id string) (*model.OrderDocument, error)
	GetByPath(ctx context.Context, path string) (*model.OrderDocument, error)

	// QueryByOwnerField 按单个归属字段查询（data->field == value）
	QueryByOwnerField(ctx context.Context, field, value string) ([]model.OrderDocument, error)

	// ScanAll 全量扫描，兜底发现用
	ScanAll(ctx context.Context) ([]model.OrderDocument, error)

	// UpdateDocument 读取-修改-写回，单事务内完成
	// mutate 返回错误则整体回滚
	UpdateDocument(ctx context.Context, id string, mutate func(data map[string]interface{}) error) (*model.OrderDocument, error)
}

type orderDocumentRepository struct {
	db *gorm.DB
}

// NewOrderDocumentRepository 创建订单文档仓库
func NewOrderDocumentRepository(db *gorm.DB) OrderDocumentRepository {
	return &orderDocumentRepository{db: db}
}

func (r *orderDocumentRepository) Create(ctx context.Context, doc *model.OrderDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *orderDocumentRepository) GetByID(ctx context.Context, id string) (*model.OrderDocument, error) {
	var doc model.OrderDocument
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *orderDocumentRepository) GetByPath(ctx context.Context, path string) (*model.OrderDocument, error) {
	var doc model.OrderDocument
	err := r.db.WithContext(ctx).Where("path = ?", path).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *orderDocumentRepository) QueryByOwnerField(ctx context.Context, field, value string) ([]model.OrderDocument, error) {
	var docs []model.OrderDocument
	err := r.db.WithContext(ctx).
		Where(datatypes.JSONQuery("data").Equals(value, field)).
		Find(&docs).Error
	return docs, err
}

func (r *orderDocumentRepository) ScanAll(ctx context.Context) ([]model.OrderDocument, error) {
	var docs []model.OrderDocument
	err := r.db.WithContext(ctx).Find(&docs).Error
	return docs, err
}

func (r *orderDocumentRepository) UpdateDocument(ctx context.Context, id string, mutate func(data map[string]interface{}) error) (*model.OrderDocument, error) {
	var updated *model.OrderDocument

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.OrderDocument
		if err := tx.Where("id = ?", id).First(&doc).Error; err != nil {
			return err
		}

		data := make(map[string]interface{})
		if len(doc.Data) > 0 {
			if err := json.Unmarshal(doc.Data, &data); err != nil {
				return fmt.Errorf("解析订单文档失败: %w", err)
			}
		}

		if err := mutate(data); err != nil {
			return err
		}

		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("序列化订单文档失败: %w", err)
		}

		doc.Data = datatypes.JSON(raw)
		doc.UpdatedAt = time.Now()
		if err := tx.Model(&model.OrderDocument{}).Where("id = ?", id).
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
