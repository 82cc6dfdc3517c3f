package controller

import (
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// ListCategories 一级类目
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询类目失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": categories})
}

// ListSubcategories 二级类目，按 category 参数过滤
func (ctrl *CategoryController) ListSubcategories(c *gin.Context) {
	subs, err := ctrl.categoryService.ListSubcategories(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询二级类目失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": subs})
}

// ListSubUnderCategories 三级类目，按 subcategory 参数过滤
func (ctrl *CategoryController) ListSubUnderCategories(c *gin.Context) {
	subs, err := ctrl.categoryService.ListSubUnderCategories(c.Request.Context(), c.Query("subcategory"))
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询三级类目失败: " + err.Error()})
		return
	}
	c.JSON(200, gin.H{"code": 0, "message": "success", "data": subs})
}
