package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 商品状态常量 ====================

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// ==================== ProductDocument 商品文档 ====================

// ProductDocument 商品原始文档
// 商品同样存在卖家归属字段漂移（sellerid/sellerID/sellerId/seller/owner），
// 批量导入的商品保留导入时的原始形状。
type ProductDocument struct {
	ID   string `gorm:"primaryKey;size:64"`
	Data datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*ProductDocument) TableName() string {
	return "products"
}

// ==================== SellerProduct 卖家商品镜像 ====================

// SellerProduct 卖家侧商品镜像，与主表同一文档 ID
type SellerProduct struct {
	ID   string `gorm:"primaryKey;size:64"`
	Data datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*SellerProduct) TableName() string {
	return "seller_products"
}

// ==================== SellerProductSummary 卖家商品摘要 ====================

// SellerProductSummary 卖家作用域下的商品摘要
// 对应原 sellers/{id}/products 子集合
type SellerProductSummary struct {
	ProductID string `gorm:"primaryKey;size:64"`
	SellerID  string `gorm:"primaryKey;size:64;index"`
	Name      string `gorm:"size:500"`
	Price     float64
	Stock     int
	Status    string `gorm:"size:32;default:active"`
	AddedAt   time.Time
}

func (*SellerProductSummary) TableName() string {
	return "seller_product_summaries"
}
