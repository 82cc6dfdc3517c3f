package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/pkg/keywords"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== 错误定义 ====================

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("商品不存在")
	// ErrProductNotOwned 商品不属于当前卖家
	ErrProductNotOwned = errors.New("无权操作该商品")
	// ErrCategoryChainIncomplete 类目链未选全
	ErrCategoryChainIncomplete = errors.New("类目三级必须依次选全")
)

// 批量导入单批条数
const bulkUploadBatchSize = 500

// 商品归属字段的探测顺序，与订单侧略有出入（历史数据决定）
var productOwnerFields = []string{"sellerid", "sellerID", "sellerId", "seller", "owner"}

// ==================== 输入结构 ====================

// ProductInput 商品创建/编辑输入
type ProductInput struct {
	Name          string
	Brand         string
	Category      string
	Subcategory   string
	SubUnder      string
	Price         float64
	OfferPrice    float64
	Stock         int
	SKU           string
	Specification []SpecEntry
	Tags          []string
	Images        []string
}

// SpecEntry 规格键值对
type SpecEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ==================== ProductService ====================

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	sellerRepo   repository.SellerRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	sellerRepo repository.SellerRepository,
	categoryRepo repository.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		sellerRepo:   sellerRepo,
		categoryRepo: categoryRepo,
	}
}

// ==================== 商品创建 ====================

// CreateProduct 创建商品
// 校验通过后派生搜索关键词，主表、卖家镜像、卖家摘要三处单事务写入
func (s *ProductService) CreateProduct(ctx context.Context, sellerID string, input *ProductInput) (string, error) {
	if err := s.validateProduct(ctx, sellerID, input); err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := time.Now()

	// 搜索关键词：名称前缀 n-gram + 各文本字段分词
	texts := []string{input.Brand, input.Category, input.Subcategory, input.SubUnder, input.SKU}
	kws := keywords.Generate(input.Name, texts, input.Tags)

	data := map[string]interface{}{
		"name":           input.Name,
		"name_lower":     strings.ToLower(strings.TrimSpace(input.Name)),
		"brand":          input.Brand,
		"category":       input.Category,
		"subcategory":    input.Subcategory,
		"subUnder":       input.SubUnder,
		"price":          input.Price,
		"offerPrice":     input.OfferPrice,
		"stock":          input.Stock,
		"sku":            input.SKU,
		"specification":  input.Specification,
		"tags":           input.Tags,
		"images":         input.Images,
		"searchKeywords": kws,
		"sellerid":       sellerID,
		"status":         model.ProductStatusActive,
		"views":          0,
		"sales":          0,
		"createdAt":      now.Format(time.RFC3339Nano),
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("序列化商品失败: %w", err)
	}

	doc := &model.ProductDocument{ID: id, Data: datatypes.JSON(raw)}
	mirror := &model.SellerProduct{ID: id, Data: datatypes.JSON(raw)}
	summary := &model.SellerProductSummary{
		ProductID: id,
		SellerID:  sellerID,
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		Status:    model.ProductStatusActive,
		AddedAt:   now,
	}

	if err := s.productRepo.CreateWithMirror(ctx, doc, mirror, summary); err != nil {
		return "", fmt.Errorf("创建商品失败: %w", err)
	}
	return id, nil
}

// validateProduct 创建前校验
// 名称、完整类目链、价格、库存、至少一张图，全部过了才碰存储
func (s *ProductService) validateProduct(ctx context.Context, sellerID string, input *ProductInput) error {
	if sellerID == "" {
		return errors.New("卖家标识不能为空")
	}
	if input.Name == "" {
		return errors.New("商品名称不能为空")
	}
	if input.Category == "" || input.Subcategory == "" || input.SubUnder == "" {
		return ErrCategoryChainIncomplete
	}
	if input.Price <= 0 {
		return errors.New("价格必须大于 0")
	}
	if input.Stock < 0 {
		return errors.New("库存不能为负")
	}
	if len(input.Images) == 0 {
		return errors.New("至少需要一张商品图片")
	}

	if s.categoryRepo != nil {
		ok, err := s.categoryRepo.ChainExists(ctx, input.Category, input.Subcategory, input.SubUnder)
		if err != nil {
			return fmt.Errorf("校验类目链失败: %w", err)
		}
		if !ok {
			return ErrCategoryChainIncomplete
		}
	}
	return nil
}

// ==================== 商品列表 ====================

// ListProductsForSeller 列出卖家名下商品
// 归属判定用卖家档案上的 ID 集合（认证 UID + 文档 ID + 历史别名），
// 逐个归属字段 × 逐个 ID 查询，全部落空再退回全量扫描过滤
func (s *ProductService) ListProductsForSeller(ctx context.Context, sellerID string) ([]map[string]interface{}, error) {
	idSet := s.resolveOwnerIDSet(ctx, sellerID)

	merged := make(map[string]model.ProductDocument)
	for _, field := range productOwnerFields {
		for id := range idSet {
			docs, err := s.productRepo.QueryByOwnerField(ctx, field, id)
			if err != nil {
				log.Printf("商品发现: 字段 %s 查询失败: %v", field, err)
				continue
			}
			for _, doc := range docs {
				merged[doc.ID] = doc
			}
		}
	}

	if len(merged) == 0 {
		docs, err := s.productRepo.ScanAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("商品兜底扫描失败: %w", err)
		}
		for _, doc := range docs {
			if productOwnedByAny(doc.Data, idSet) {
				merged[doc.ID] = doc
			}
		}
	}

	products := make([]map[string]interface{}, 0, len(merged))
	for _, doc := range merged {
		products = append(products, decodeProduct(&doc))
	}
	// 列表按品牌字母序展示
	sort.Slice(products, func(i, j int) bool {
		a, _ := products[i]["brand"].(string)
		b, _ := products[j]["brand"].(string)
		return strings.ToLower(a) < strings.ToLower(b)
	})
	return products, nil
}

// resolveOwnerIDSet 构造归属判定 ID 集合
// 卖家档案读不到时退化为只含传入 ID 的单元素集合
func (s *ProductService) resolveOwnerIDSet(ctx context.Context, sellerID string) map[string]struct{} {
	if s.sellerRepo != nil {
		if seller, err := s.sellerRepo.GetByAuthUID(ctx, sellerID); err == nil {
			set := seller.OwnerIDSet()
			set[sellerID] = struct{}{}
			return set
		}
	}
	return map[string]struct{}{sellerID: {}}
}

func productOwnedByAny(raw []byte, idSet map[string]struct{}) bool {
	if len(raw) == 0 {
		return false
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return false
	}
	for _, field := range productOwnerFields {
		if v, ok := data[field].(string); ok {
			if _, hit := idSet[v]; hit {
				return true
			}
		}
	}
	return false
}

// decodeProduct 解出原始文档并带上 ID
func decodeProduct(doc *model.ProductDocument) map[string]interface{} {
	data := make(map[string]interface{})
	if len(doc.Data) > 0 {
		_ = json.Unmarshal(doc.Data, &data)
	}
	data["id"] = doc.ID
	return data
}

// GetProduct 获取单个商品，校验归属
func (s *ProductService) GetProduct(ctx context.Context, sellerID, productID string) (map[string]interface{}, error) {
	doc, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}

	idSet := s.resolveOwnerIDSet(ctx, sellerID)
	if !productOwnedByAny(doc.Data, idSet) {
		return nil, ErrProductNotOwned
	}
	return decodeProduct(doc), nil
}

// ==================== 商品更新 ====================

// UpdateProduct 整表单编辑
// price/offerPrice/stock 做数值兜底转换后写入；商品不记审计日志
func (s *ProductService) UpdateProduct(ctx context.Context, sellerID, productID string, fields map[string]interface{}) (map[string]interface{}, error) {
	if _, err := s.GetProduct(ctx, sellerID, productID); err != nil {
		return nil, err
	}

	for _, key := range []string{"price", "offerPrice"} {
		if v, ok := fields[key]; ok {
			fields[key] = coerceFloat(v)
		}
	}
	// 库存两个写法都收，落库时两个字段都写
	if v, ok := fields["stockQuantity"]; ok {
		n := int(coerceFloat(v))
		fields["stock"] = n
		fields["stockQuantity"] = n
	} else if v, ok := fields["stock"]; ok {
		n := int(coerceFloat(v))
		fields["stock"] = n
		fields["stockQuantity"] = n
	}
	// 子类目同理，统一写 subCategory
	if v, ok := fields["subcategory"]; ok {
		fields["subCategory"] = v
	}
	fields["updatedAt"] = time.Now().Format(time.RFC3339Nano)

	doc, err := s.productRepo.UpdateFields(ctx, productID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("更新商品失败: %w", err)
	}
	return decodeProduct(doc), nil
}

// coerceFloat 表单来的数字可能是字符串，统一转 float64
func coerceFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

// ==================== 批量导入 ====================

// BulkUploadResult 批量导入结果
type BulkUploadResult struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// BulkUpload 批量导入 JSON 商品数据
// 接受裸数组、{products}/{data}/{items} 包裹或单个对象，
// 按 500 条一批直写主表，缺 ID 的补 UUID，非对象元素跳过不中断
func (s *ProductService) BulkUpload(ctx context.Context, sellerID string, rawJSON []byte) (*BulkUploadResult, error) {
	items, err := unwrapBulkItems(rawJSON)
	if err != nil {
		return nil, err
	}

	result := &BulkUploadResult{Total: len(items)}
	docs := make([]model.ProductDocument, 0, len(items))

	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			result.Skipped++
			continue
		}

		id, _ := m["id"].(string)
		if id == "" {
			id = uuid.New().String()
		}
		if _, exists := m["sellerid"]; !exists {
			m["sellerid"] = sellerID
		}

		raw, err := json.Marshal(m)
		if err != nil {
			result.Skipped++
			continue
		}
		docs = append(docs, model.ProductDocument{ID: id, Data: datatypes.JSON(raw)})
	}

	if len(docs) > 0 {
		if err := s.productRepo.CreateBatch(ctx, docs, bulkUploadBatchSize); err != nil {
			return nil, fmt.Errorf("批量写入失败: %w", err)
		}
	}
	result.Imported = len(docs)

	// 标记该卖家已完成数据上传
	if s.sellerRepo != nil && sellerID != "" {
		if err := s.sellerRepo.UpdateFields(ctx, sellerID, map[string]interface{}{"documents_uploaded": true}); err != nil {
			log.Printf("更新卖家上传标记失败: %v", err)
		}
	}
	return result, nil
}

// unwrapBulkItems 把各种导入格式统一拆成对象列表
func unwrapBulkItems(rawJSON []byte) ([]interface{}, error) {
	var payload interface{}
	if err := json.Unmarshal(rawJSON, &payload); err != nil {
		return nil, fmt.Errorf("解析导入数据失败: %w", err)
	}

	switch v := payload.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		for _, key := range []string{"products", "data", "items"} {
			if arr, ok := v[key].([]interface{}); ok {
				return arr, nil
			}
		}
		// 单个商品对象
		return []interface{}{v}, nil
	default:
		return nil, errors.New("导入数据必须是对象数组、{products}/{data}/{items} 包裹或单个对象")
	}
}

// ==================== 维护操作 ====================

// DeleteAllProducts 清空卖家全部商品
// 仅维护用途，连镜像和摘要一起删
func (s *ProductService) DeleteAllProducts(ctx context.Context, sellerID string) (int64, error) {
	products, err := s.ListProductsForSeller(ctx, sellerID)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		if id, ok := p["id"].(string); ok {
			ids = append(ids, id)
		}
	}

	deleted, err := s.productRepo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("删除商品失败: %w", err)
	}
	return deleted, nil
}

// ProductCount 商品总量
func (s *ProductService) ProductCount(ctx context.Context) (int64, error) {
	return s.productRepo.CountAll(ctx)
}

// SellerSummaries 卖家商品摘要列表（仪表盘用）
func (s *ProductService) SellerSummaries(ctx context.Context, sellerID string) ([]model.SellerProductSummary, error) {
	return s.productRepo.SummariesBySeller(ctx, sellerID)
}
