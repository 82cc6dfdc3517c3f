package dto

import (
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
)

// ==================== 订单列表 ====================

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Total int       `json:"total"`
	List  []OrderVO `json:"list"`
}

// OrderVO 订单视图对象
type OrderVO struct {
	ID          string                `json:"id"`
	Path        string                `json:"path,omitempty"`
	Customer    model.OrderCustomer   `json:"customer"`
	Products    []model.OrderLineItem `json:"products"`
	Status      string                `json:"status"`
	Total       float64               `json:"total"`
	CreatedAt   time.Time             `json:"created_at"`
	ActivityLog []model.ActivityEntry `json:"activity_log"`
}

// NewOrderVO 从规范化订单构造视图对象
func NewOrderVO(o *model.Order) OrderVO {
	return OrderVO{
		ID:          o.ID,
		Path:        o.Path,
		Customer:    o.Customer,
		Products:    o.Products,
		Status:      o.Status,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		ActivityLog: o.ActivityLog,
	}
}

// ==================== 订单修改 ====================

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateCustomerRequest 更新客户信息请求
// 整体覆盖，三个字段都要带全
type UpdateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateItemPriceRequest 更新行项目价格请求
type UpdateItemPriceRequest struct {
	Price *float64 `json:"price" binding:"required"`
}

// ==================== 订单统计 ====================

// OrderStatsResponse 订单统计响应
type OrderStatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	GrossTotal float64        `json:"gross_total"`
}
