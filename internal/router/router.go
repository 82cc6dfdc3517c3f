package router

import (
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/controller"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"

	"github.com/gin-gonic/gin"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	authCtrl *controller.AuthController,
	orderCtrl *controller.OrderController,
	productCtrl *controller.ProductController,
	categoryCtrl *controller.CategoryController,
	dashboardCtrl *controller.DashboardController) {

	api := r.Group("/api")
	{
		// auth 鉴权组（无需登录）
		auth := api.Group("/auth")
		{
			auth.POST("/register", authCtrl.Register)
			auth.POST("/login", authCtrl.Login)
			auth.POST("/refresh", authCtrl.Refresh)
			auth.POST("/forgot-password", authCtrl.ForgotPassword)
			auth.POST("/reset-password", authCtrl.ResetPassword)
		}

		// 类目是公开数据，商品表单联动下拉用
		categories := api.Group("/categories")
		{
			categories.GET("", categoryCtrl.ListCategories)
			categories.GET("/sub", categoryCtrl.ListSubcategories)
			categories.GET("/sub-under", categoryCtrl.ListSubUnderCategories)
		}

		// 以下全部需要登录，审计上下文跟在 JWT 后面
		protected := api.Group("", middleware.JWTAuth(), middleware.AuditContext())
		{
			seller := protected.Group("/seller")
			{
				seller.GET("/profile", authCtrl.Profile)
				seller.PUT("/profile", authCtrl.UpdateProfile)
			}

			orders := protected.Group("/orders")
			{
				orders.GET("", orderCtrl.ListOrders)
				orders.GET("/by-path", orderCtrl.GetOrderByPath)
				orders.GET("/stats", orderCtrl.Stats)
				orders.GET("/:id", orderCtrl.GetOrder)
				orders.PATCH("/:id/status", orderCtrl.UpdateStatus)
				orders.PATCH("/:id/customer", orderCtrl.UpdateCustomer)
				orders.PATCH("/:id/items/:index/price", orderCtrl.UpdateItemPrice)
			}

			products := protected.Group("/products")
			{
				products.GET("", productCtrl.ListProducts)
				products.POST("", productCtrl.CreateProduct)
				products.POST("/bulk", productCtrl.BulkUpload)
				products.POST("/images", productCtrl.UploadImage)
				products.DELETE("", productCtrl.DeleteAll)
				products.GET("/:id", productCtrl.GetProduct)
				products.PUT("/:id", productCtrl.UpdateProduct)
			}

			protected.GET("/dashboard/stats", dashboardCtrl.Stats)
		}
	}
}
