package controller

import (
	"errors"
	"io"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/api/dto"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService *service.ProductService
	storageService *service.StorageService
}

func NewProductController(productService *service.ProductService, storageService *service.StorageService) *ProductController {
	return &ProductController{
		productService: productService,
		storageService: storageService,
	}
}

// ==================== 查询接口 ====================

// ListProducts 获取当前卖家的商品列表
// @Summary 按归属字段变体发现卖家全部商品
// @Tags Product
// @Router /api/products [get]
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)
	if sellerID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少卖家标识"})
		return
	}

	products, err := ctrl.productService.ListProductsForSeller(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询商品失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data":    gin.H{"total": len(products), "list": products},
	})
}

// GetProduct 获取单个商品
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)

	product, err := ctrl.productService.GetProduct(c.Request.Context(), sellerID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
		case errors.Is(err, service.ErrProductNotOwned):
			c.JSON(403, gin.H{"code": 403, "message": "无权操作该商品"})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "查询商品失败: " + err.Error()})
		}
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": product})
}

// ==================== 写接口 ====================

// CreateProduct 创建商品
// @Summary 创建商品，主表/镜像/摘要三处一次写入
// @Tags Product
// @Router /api/products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	spec := make([]service.SpecEntry, 0, len(req.Specification))
	for _, s := range req.Specification {
		spec = append(spec, service.SpecEntry{Key: s.Key, Value: s.Value})
	}

	id, err := ctrl.productService.CreateProduct(c.Request.Context(), sellerID, &service.ProductInput{
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		SubUnder:      req.SubUnder,
		Price:         req.Price,
		OfferPrice:    req.OfferPrice,
		Stock:         req.Stock,
		SKU:           req.SKU,
		Specification: spec,
		Tags:          req.Tags,
		Images:        req.Images,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryChainIncomplete) {
			c.JSON(400, gin.H{"code": 400, "message": "类目三级必须依次选全"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": gin.H{"id": id}})
}

// UpdateProduct 编辑商品
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), sellerID, c.Param("id"), req.Fields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
		case errors.Is(err, service.ErrProductNotOwned):
			c.JSON(403, gin.H{"code": 403, "message": "无权操作该商品"})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "更新商品失败: " + err.Error()})
		}
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": product})
}

// BulkUpload 批量导入 JSON 商品数据
// 请求体是原始 JSON（裸数组或 products/data/items 包裹），按 500 条一批直写
func (ctrl *ProductController) BulkUpload(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "读取请求体失败"})
		return
	}

	result, err := ctrl.productService.BulkUpload(c.Request.Context(), sellerID, raw)
	if err != nil {
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.BulkUploadResponse{
			Total:    result.Total,
			Imported: result.Imported,
			Skipped:  result.Skipped,
		},
	})
}

// DeleteAll 清空当前卖家全部商品（维护操作）
func (ctrl *ProductController) DeleteAll(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)
	if sellerID == "" {
		c.JSON(400, gin.H{"code": 400, "message": "缺少卖家标识"})
		return
	}

	deleted, err := ctrl.productService.DeleteAllProducts(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "删除失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": gin.H{"deleted": deleted}})
}

// ==================== 图片上传 ====================

// UploadImage 上传商品图片
// Base64 直传或给外链转存，返回可入库的 URL
func (ctrl *ProductController) UploadImage(c *gin.Context) {
	var req dto.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	var url string
	var err error

	switch {
	case req.Base64 != "":
		url, err = ctrl.storageService.UploadBase64(ctx, req.Base64, "product")
	case req.SourceURL != "":
		url, err = ctrl.storageService.UploadFromURL(ctx, req.SourceURL, "product.jpg")
	default:
		c.JSON(400, gin.H{"code": 400, "message": "base64 与 source_url 必须二选一"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "上传失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": gin.H{"url": url}})
}
