package controller

import (
	"encoding/json"
	"testing"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 测试辅助 ====================

func setupProductCtlRouter(t *testing.T, sellerID string) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.ProductDocument{}, &model.SellerProduct{}, &model.SellerProductSummary{},
		&model.Seller{},
		&model.Category{}, &model.Subcategory{}, &model.SubUnderCategory{},
	)
	if err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	db.Create(&model.Category{Name: "Electronics"})
	db.Create(&model.Subcategory{Name: "Phones", CategoryName: "Electronics"})
	db.Create(&model.SubUnderCategory{Name: "Smartphones", SubcategoryName: "Phones"})

	productService := service.NewProductService(
		repository.NewProductRepository(db),
		repository.NewSellerRepository(db),
		repository.NewCategoryRepository(db),
	)
	storageService, err := service.NewStorageService(&service.StorageConfig{
		Provider: "local",
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost/uploads",
	})
	if err != nil {
		t.Fatalf("初始化存储失败: %v", err)
	}

	ctrl := NewProductController(productService, storageService)

	r := gin.New()
	// 测试里直接注入卖家身份，跳过 JWT
	r.Use(func(c *gin.Context) {
		if sellerID != "" {
			c.Set(middleware.ContextKeySellerID, sellerID)
		}
		c.Next()
	})
	r.GET("/api/products", ctrl.ListProducts)
	r.POST("/api/products", ctrl.CreateProduct)
	r.POST("/api/products/bulk", ctrl.BulkUpload)
	r.DELETE("/api/products", ctrl.DeleteAll)
	r.GET("/api/products/:id", ctrl.GetProduct)
	r.PUT("/api/products/:id", ctrl.UpdateProduct)
	return r, db
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Test Phone",
		"brand":       "Acme",
		"category":    "Electronics",
		"subcategory": "Phones",
		"sub_under":   "Smartphones",
		"price":       999,
		"stock":       10,
		"images":      []string{"https://img.example.com/p1.jpg"},
	}
}

// ==================== 商品接口 ====================

func TestProductAPI_CreateAndList(t *testing.T) {
	r, _ := setupProductCtlRouter(t, "S1")

	w := doJSON(r, "POST", "/api/products", validCreateBody())
	assert.Equal(t, 200, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Data.ID)

	w = doJSON(r, "GET", "/api/products", nil)
	assert.Equal(t, 200, w.Code)

	var listed struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Data.Total)
}

func TestProductAPI_CreateValidation(t *testing.T) {
	r, _ := setupProductCtlRouter(t, "S1")

	body := validCreateBody()
	delete(body, "name")
	w := doJSON(r, "POST", "/api/products", body)
	assert.Equal(t, 400, w.Code)

	body = validCreateBody()
	body["price"] = 0
	w = doJSON(r, "POST", "/api/products", body)
	assert.Equal(t, 400, w.Code)

	body = validCreateBody()
	body["images"] = []string{}
	w = doJSON(r, "POST", "/api/products", body)
	assert.Equal(t, 400, w.Code)
}

func TestProductAPI_GetForbiddenForOtherSeller(t *testing.T) {
	r, db := setupProductCtlRouter(t, "S1")

	// 别人家的商品
	db.Create(&model.ProductDocument{
		ID:   "P-other",
		Data: datatypes.JSON(`{"name":"Other Phone","sellerid":"S2"}`),
	})

	w := doJSON(r, "GET", "/api/products/P-other", nil)
	assert.Equal(t, 403, w.Code)
}

func TestProductAPI_GetNotFound(t *testing.T) {
	r, _ := setupProductCtlRouter(t, "S1")

	w := doJSON(r, "GET", "/api/products/ghost", nil)
	assert.Equal(t, 404, w.Code)
}

func TestProductAPI_MissingSellerIdentity(t *testing.T) {
	r, _ := setupProductCtlRouter(t, "")

	w := doJSON(r, "GET", "/api/products", nil)
	assert.Equal(t, 400, w.Code)
}

func TestProductAPI_BulkUploadAndDeleteAll(t *testing.T) {
	r, db := setupProductCtlRouter(t, "S1")

	db.Create(&model.Seller{ID: "S1", UID: "S1", Email: "s1@x.com", Name: "S1", Status: model.SellerStatusActive})

	batch := []map[string]interface{}{
		{"id": "bulk-1", "name": "Item 1", "sellerid": "S1"},
		{"name": "Item 2"},
	}
	w := doJSON(r, "POST", "/api/products/bulk", batch)
	assert.Equal(t, 200, w.Code)

	var resp struct {
		Data struct {
			Total    int `json:"total"`
			Imported int `json:"imported"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Imported)

	w = doJSON(r, "DELETE", "/api/products", nil)
	assert.Equal(t, 200, w.Code)

	var count int64
	db.Model(&model.ProductDocument{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestProductAPI_BulkUploadRejectsScalar(t *testing.T) {
	r, _ := setupProductCtlRouter(t, "S1")

	w := doJSON(r, "POST", "/api/products/bulk", "just a string")
	assert.Equal(t, 400, w.Code)
}
