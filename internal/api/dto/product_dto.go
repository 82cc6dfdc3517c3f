package dto

// ==================== 商品创建/编辑 ====================

// SpecEntryVO 规格键值对
type SpecEntryVO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name          string        `json:"name" binding:"required"`
	Brand         string        `json:"brand"`
	Category      string        `json:"category" binding:"required"`
	Subcategory   string        `json:"subcategory" binding:"required"`
	SubUnder      string        `json:"sub_under" binding:"required"`
	Price         float64       `json:"price" binding:"required,gt=0"`
	OfferPrice    float64       `json:"offer_price"`
	Stock         int           `json:"stock" binding:"gte=0"`
	SKU           string        `json:"sku"`
	Specification []SpecEntryVO `json:"specification"`
	Tags          []string      `json:"tags"`
	Images        []string      `json:"images" binding:"required,min=1"`
}

// UpdateProductRequest 编辑商品请求
// 整表单提交，数字字段可能以字符串形式到达，服务层做兜底转换
type UpdateProductRequest struct {
	Fields map[string]interface{} `json:"fields" binding:"required"`
}

// ==================== 批量导入 ====================

// BulkUploadResponse 批量导入响应
type BulkUploadResponse struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ==================== 图片上传 ====================

// UploadImageRequest 图片上传请求（Base64 或外链二选一）
type UploadImageRequest struct {
	Base64    string `json:"base64"`
	SourceURL string `json:"source_url"`
}
