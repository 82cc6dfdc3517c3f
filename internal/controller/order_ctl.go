package controller

import (
	"errors"
	"strconv"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/api/dto"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService *service.OrderService
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// ==================== 查询接口 ====================

// ListOrders 获取当前卖家的订单列表
// @Summary 跨归属字段变体发现卖家全部订单
// @Tags Order
// @Param seller_id query string false "显式卖家 ID（默认取登录卖家）"
// @Router /api/orders [get]
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	sellerID := c.Query("seller_id")
	if sellerID == "" {
		sellerID = middleware.GetSellerID(c)
	}
	if sellerID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少卖家标识"})
		return
	}

	orders, err := ctrl.orderService.DiscoverOrdersForSeller(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询订单失败: " + err.Error()})
		return
	}

	list := make([]dto.OrderVO, 0, len(orders))
	for i := range orders {
		list = append(list, dto.NewOrderVO(&orders[i]))
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data":    dto.ListOrdersResponse{Total: len(list), List: list},
	})
}

// GetOrder 获取单个订单
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	order, err := ctrl.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "订单不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "查询订单失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": dto.NewOrderVO(order)})
}

// GetOrderByPath 按文档路径获取订单
// 历史数据的订单散在各 users/{uid}/orders/{id} 路径下
func (ctrl *OrderController) GetOrderByPath(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少 path 参数"})
		return
	}

	order, err := ctrl.orderService.GetOrderByPath(c.Request.Context(), path)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "订单不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "查询订单失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": dto.NewOrderVO(order)})
}

// Stats 订单统计
func (ctrl *OrderController) Stats(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)
	if sellerID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少卖家标识"})
		return
	}

	stats, err := ctrl.orderService.Stats(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "统计失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.OrderStatsResponse{
			Total:      stats.Total,
			ByStatus:   stats.ByStatus,
			GrossTotal: stats.GrossTotal,
		},
	})
}

// ==================== 修改接口 ====================

// UpdateStatus 更新订单状态
// @Summary 更新订单状态并追加审计日志
// @Tags Order
// @Router /api/orders/{id}/status [patch]
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "订单不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "更新状态失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": dto.NewOrderVO(order)})
}

// UpdateCustomer 整体覆盖客户信息
func (ctrl *OrderController) UpdateCustomer(c *gin.Context) {
	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	order, err := ctrl.orderService.UpdateCustomer(c.Request.Context(), c.Param("id"), model.OrderCustomer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "订单不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "更新客户信息失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": dto.NewOrderVO(order)})
}

// UpdateItemPrice 更新行项目价格
func (ctrl *OrderController) UpdateItemPrice(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "无效的行项目下标"})
		return
	}

	var req dto.UpdateItemPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
		c.JSON(400, gin.H{"code": 400, "message": "缺少 price 参数"})
		return
	}

	order, err := ctrl.orderService.UpdateLineItemPrice(c.Request.Context(), c.Param("id"), index, *req.Price)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(404, gin.H{"code": 404, "message": "订单不存在"})
		case errors.Is(err, service.ErrLineItemIndexOutOfRange):
			c.JSON(400, gin.H{"code": 400, "message": "行项目下标越界"})
		case errors.Is(err, service.ErrInvalidPrice):
			c.JSON(400, gin.H{"code": 400, "message": "价格必须大于等于 0"})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "更新价格失败: " + err.Error()})
		}
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": dto.NewOrderVO(order)})
}
