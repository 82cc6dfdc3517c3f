package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 订单状态常量 ====================

// OrderStatus 订单状态
const (
	OrderStatusPending    = "pending"    // 待处理
	OrderStatusProcessing = "processing" // 处理中
	OrderStatusShipped    = "shipped"    // 已发货
	OrderStatusDelivered  = "delivered"  // 已签收
	OrderStatusCancelled  = "cancelled"  // 已取消
)

// 活动日志动作
const (
	ActivityStatusUpdate   = "STATUS_UPDATE"
	ActivityCustomerUpdate = "CUSTOMER_UPDATE"
	ActivityPriceUpdate    = "PRICE_UPDATE"
)

// ==================== OrderDocument 订单原始文档 ====================

// OrderDocument 订单原始文档
// 历史数据字段命名漂移严重（卖家归属字段至少五种写法），
// 原始 JSON 必须完整保留，规范化只发生在读取侧。
type OrderDocument struct {
	ID   string `gorm:"primaryKey;size:64"`
	Path string `gorm:"size:255;index"` // 文档路径，如 users/{uid}/orders/{id}

	// 原始数据
	Data datatypes.JSON

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*OrderDocument) TableName() string {
	return "order_documents"
}

// ==================== 规范化后的订单 ====================

// OrderCustomer 客户信息
type OrderCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderLineItem 订单行项目
type OrderLineItem struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ActivityEntry 活动日志条目（只追加，写入后不可修改）
type ActivityEntry struct {
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	Timestamp   time.Time `json:"timestamp"`
	PerformedBy string    `json:"performedBy"`
}

// Order 规范化后的订单视图
type Order struct {
	ID          string          `json:"id"`
	Path        string          `json:"path"`
	Customer    OrderCustomer   `json:"customer"`
	Products    []OrderLineItem `json:"products"`
	Status      string          `json:"status"`
	Total       float64         `json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
	ActivityLog []ActivityEntry `json:"activityLog"`

	// 原始数据（保留给调试视图）
	Raw map[string]interface{} `json:"-"`
}
