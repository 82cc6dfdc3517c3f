package controller

import (
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	orderService   *service.OrderService
	productService *service.ProductService
}

func NewDashboardController(orderService *service.OrderService, productService *service.ProductService) *DashboardController {
	return &DashboardController{
		orderService:   orderService,
		productService: productService,
	}
}

// Stats 仪表盘汇总
// 订单统计 + 卖家商品摘要，一次请求拿齐首页数据
func (ctrl *DashboardController) Stats(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)
	if sellerID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少卖家标识"})
		return
	}

	ctx := c.Request.Context()

	orderStats, err := ctrl.orderService.Stats(ctx, sellerID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "订单统计失败: " + err.Error()})
		return
	}

	summaries, err := ctrl.productService.SellerSummaries(ctx, sellerID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "商品摘要失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"orders":        orderStats,
			"product_count": len(summaries),
			"products":      summaries,
		},
	})
}
