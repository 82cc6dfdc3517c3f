package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/pkg/cache"

	"gorm.io/gorm"
)

// ==================== 错误定义 ====================

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("订单不存在")
	// ErrLineItemIndexOutOfRange 行项目下标越界
	ErrLineItemIndexOutOfRange = errors.New("行项目下标越界")
	// ErrInvalidPrice 价格非法
	ErrInvalidPrice = errors.New("价格必须大于等于 0")
)

// ==================== 归属字段探测顺序 ====================

// 历史数据里卖家归属字段至少有五种写法，按此固定顺序逐个查询。
// 顺序是既有数据的契约，调整前先确认线上没有只靠后排字段命中的文档。
var ownerQueryFields = []string{"sellerid", "sellerID", "seller", "userId", "owner"}

// 兜底全量扫描时在文档内逐个检查的候选字段
var ownerScanFields = []string{"sellerid", "sellerID", "seller", "owner", "userId", "buyerId", "customerId"}

// 订单快照缓存 TTL
const orderSnapshotTTL = 5 * time.Minute

// ==================== OrderService ====================

// OrderService 订单服务
// 负责跨字段命名漂移的订单发现、形状规范化，以及带审计日志的修改
type OrderService struct {
	orderRepo repository.OrderDocumentRepository
	snapshots cache.SnapshotCache
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderDocumentRepository, snapshots cache.SnapshotCache) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		snapshots: snapshots,
	}
}

// ==================== 订单发现 ====================

// DiscoverOrdersForSeller 发现卖家名下全部订单
// 对每个已知归属字段各发一次查询，单个查询失败只记日志不中断；
// 按文档 ID 合并去重后，若结果为空再退回全量扫描。
// 返回按创建时间倒序的规范化订单列表；空结果是正常返回，不是错误。
func (s *OrderService) DiscoverOrdersForSeller(ctx context.Context, sellerIdentity string) ([]model.Order, error) {
	if sellerIdentity == "" {
		return nil, errors.New("卖家标识不能为空")
	}

	merged := make(map[string]model.OrderDocument)

	for _, field := range ownerQueryFields {
		docs, err := s.orderRepo.QueryByOwnerField(ctx, field, sellerIdentity)
		if err != nil {
			// 单字段查询失败（缺索引、字段不存在等）吞掉继续，其余字段可能仍能命中
			log.Printf("订单发现: 字段 %s 查询失败: %v", field, err)
			continue
		}
		for _, doc := range docs {
			merged[doc.ID] = doc
		}
	}

	// 直接查询全部落空时兜底扫描，逐文档检查候选归属字段
	if len(merged) == 0 {
		docs, err := s.orderRepo.ScanAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("订单兜底扫描失败: %w", err)
		}
		for _, doc := range docs {
			if documentOwnedBy(doc.Data, sellerIdentity) {
				merged[doc.ID] = doc
			}
		}
	}

	orders := make([]model.Order, 0, len(merged))
	for _, doc := range merged {
		orders = append(orders, NormalizeOrder(&doc))
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	s.cacheSnapshot(ctx, sellerIdentity, orders)
	return orders, nil
}

// documentOwnedBy 检查文档的候选归属字段是否命中卖家标识
func documentOwnedBy(raw []byte, sellerIdentity string) bool {
	if len(raw) == 0 {
		return false
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return false
	}
	for _, field := range ownerScanFields {
		if v, ok := data[field].(string); ok && v == sellerIdentity {
			return true
		}
	}
	return false
}

// GetOrderByPath 按文档路径获取单个订单
func (s *OrderService) GetOrderByPath(ctx context.Context, path string) (*model.Order, error) {
	doc, err := s.orderRepo.GetByPath(ctx, path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	order := NormalizeOrder(doc)
	return &order, nil
}

// GetOrder 按 ID 获取单个订单
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	doc, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	order := NormalizeOrder(doc)
	return &order, nil
}

// ==================== 形状规范化 ====================

// NormalizeOrder 把任意历史形状的原始文档规范化成统一订单视图
// 纯函数，对同一文档重复调用结果一致
func NormalizeOrder(doc *model.OrderDocument) model.Order {
	data := make(map[string]interface{})
	if len(doc.Data) > 0 {
		// 解析失败当空文档处理，保底返回默认形状
		_ = json.Unmarshal(doc.Data, &data)
	}

	order := model.Order{
		ID:          doc.ID,
		Path:        doc.Path,
		Customer:    extractCustomer(data),
		Products:    extractLineItems(data),
		Status:      NormalizeStatus(stringField(data, "status", "orderStatus", "state")),
		CreatedAt:   extractCreatedAt(data, doc.CreatedAt),
		ActivityLog: extractActivityLog(data),
		Raw:         data,
	}
	order.Total = extractTotal(data, order.Products)
	return order
}

// extractCustomer 提取客户信息
// 先看嵌套的 customer 对象，再看平铺在根上的备选字段；
// 姓名、邮箱、电话三项各自独立取第一个非空命中
func extractCustomer(data map[string]interface{}) model.OrderCustomer {
	c := model.OrderCustomer{}

	if nested, ok := data["customer"].(map[string]interface{}); ok {
		c.Name = stringField(nested, "name", "displayName", "fullName")
		c.Email = stringField(nested, "email", "emailAddress")
		c.Phone = stringField(nested, "phone", "phoneNumber", "mobile")
	}

	if c.Name == "" {
		c.Name = stringField(data, "userName", "buyerName", "customerName", "name")
	}
	if c.Email == "" {
		c.Email = stringField(data, "userEmail", "buyerEmail", "customerEmail", "email")
	}
	if c.Phone == "" {
		c.Phone = stringField(data, "userPhone", "buyerPhone", "customerPhone", "phone", "mobile")
	}

	if c.Name == "" {
		c.Name = "Anonymous"
	}
	return c
}

// extractLineItems 提取行项目
// 按 products 数组、items 数组、单数 product/item 对象的顺序找，
// 第一个命中的字段生效，不跨字段合并
func extractLineItems(data map[string]interface{}) []model.OrderLineItem {
	for _, field := range []string{"products", "items"} {
		if arr, ok := data[field].([]interface{}); ok {
			items := make([]model.OrderLineItem, 0, len(arr))
			for _, elem := range arr {
				if m, ok := elem.(map[string]interface{}); ok {
					items = append(items, normalizeLineItem(m))
				}
			}
			return items
		}
	}
	for _, field := range []string{"product", "item"} {
		if m, ok := data[field].(map[string]interface{}); ok {
			return []model.OrderLineItem{normalizeLineItem(m)}
		}
	}
	return []model.OrderLineItem{}
}

// normalizeLineItem 规范化单个行项目
// 缺失数量按 1、缺失价格按 0 处理
func normalizeLineItem(m map[string]interface{}) model.OrderLineItem {
	item := model.OrderLineItem{
		Name:     stringField(m, "name", "title", "productName"),
		SKU:      stringField(m, "sku", "SKU"),
		Price:    0,
		Quantity: 1,
	}
	if p, ok := numberField(m, "price", "amount", "cost"); ok {
		item.Price = p
	}
	if q, ok := numberField(m, "quantity", "qty"); ok && q > 0 {
		item.Quantity = int(q)
	}
	return item
}

// extractTotal 计算订单总额
// 优先取显式的 total/amount/price 字段，显式值为 0 视同缺失，
// 回落到按行项目求和
func extractTotal(data map[string]interface{}, items []model.OrderLineItem) float64 {
	if t, ok := numberField(data, "total", "amount", "price"); ok && t != 0 {
		return t
	}
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// NormalizeStatus 规范化状态字符串
// completed 归到 delivered，failed/refunded 归到 cancelled，
// 已识别状态原样通过，其余一律回落 pending
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed":
		return model.OrderStatusDelivered
	case "failed", "refunded":
		return model.OrderStatusCancelled
	case model.OrderStatusPending:
		return model.OrderStatusPending
	case model.OrderStatusProcessing:
		return model.OrderStatusProcessing
	case model.OrderStatusShipped:
		return model.OrderStatusShipped
	case model.OrderStatusDelivered:
		return model.OrderStatusDelivered
	case model.OrderStatusCancelled:
		return model.OrderStatusCancelled
	default:
		return model.OrderStatusPending
	}
}

// extractCreatedAt 提取创建时间，解析不出来用文档入库时间兜底
func extractCreatedAt(data map[string]interface{}, fallback time.Time) time.Time {
	for _, field := range []string{"createdAt", "created_at", "orderDate", "date"} {
		switch v := data[field].(type) {
		case string:
			for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t
				}
			}
		case float64:
			// 毫秒时间戳
			if v > 1e12 {
				return time.UnixMilli(int64(v))
			}
			if v > 0 {
				return time.Unix(int64(v), 0)
			}
		}
	}
	return fallback
}

// extractActivityLog 提取活动日志
func extractActivityLog(data map[string]interface{}) []model.ActivityEntry {
	raw, ok := data["activityLog"].([]interface{})
	if !ok {
		return []model.ActivityEntry{}
	}
	entries := make([]model.ActivityEntry, 0, len(raw))
	for _, elem := range raw {
		m, ok := elem.(map[string]interface{})
		if !ok {
			continue
		}
		entry := model.ActivityEntry{
			Action:      stringField(m, "action"),
			Details:     stringField(m, "details"),
			PerformedBy: stringField(m, "performedBy"),
		}
		if ts := stringField(m, "timestamp"); ts != "" {
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				entry.Timestamp = t
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// stringField 按顺序取第一个非空字符串字段
func stringField(m map[string]interface{}, fields ...string) string {
	for _, f := range fields {
		if v, ok := m[f].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// numberField 按顺序取第一个数值字段，兼容字符串数字
func numberField(m map[string]interface{}, fields ...string) (float64, bool) {
	for _, f := range fields {
		switch v := m[f].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case json.Number:
			if n, err := v.Float64(); err == nil {
				return n, true
			}
		case string:
			var n float64
			if _, err := fmt.Sscanf(v, "%f", &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// ==================== 订单修改 ====================

// UpdateOrderStatus 更新订单状态
// 新旧状态字段双写保持兼容，并追加恰好一条活动日志。
// 状态之间没有迁移约束，任意状态可改到任意状态。
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, newStatus string) (*model.Order, error) {
	status := NormalizeStatus(newStatus)
	performedBy := middleware.GetAuditSellerID(ctx)

	doc, err := s.orderRepo.UpdateDocument(ctx, orderID, func(data map[string]interface{}) error {
		// 历史读取方有的看 status 有的看 orderStatus，两个都写
		data["status"] = status
		data["orderStatus"] = status
		data["updatedAt"] = time.Now().Format(time.RFC3339Nano)

		appendActivity(data, model.ActivityEntry{
			Action:      model.ActivityStatusUpdate,
			Details:     fmt.Sprintf("Order status changed to %s", status),
			Timestamp:   time.Now(),
			PerformedBy: performedBy,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("更新订单状态失败: %w", err)
	}

	order := NormalizeOrder(doc)
	s.refreshSnapshot(ctx, &order)
	return &order, nil
}

// UpdateCustomer 整体覆盖客户信息
// 存储层不做字段级合并，调用方必须给全量记录
func (s *OrderService) UpdateCustomer(ctx context.Context, orderID string, customer model.OrderCustomer) (*model.Order, error) {
	performedBy := middleware.GetAuditSellerID(ctx)

	doc, err := s.orderRepo.UpdateDocument(ctx, orderID, func(data map[string]interface{}) error {
		data["customer"] = map[string]interface{}{
			"name":  customer.Name,
			"email": customer.Email,
			"phone": customer.Phone,
		}
		data["updatedAt"] = time.Now().Format(time.RFC3339Nano)

		appendActivity(data, model.ActivityEntry{
			Action:      model.ActivityCustomerUpdate,
			Details:     fmt.Sprintf("Customer details updated: %s (%s)", customer.Name, customer.Email),
			Timestamp:   time.Now(),
			PerformedBy: performedBy,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("更新客户信息失败: %w", err)
	}

	order := NormalizeOrder(doc)
	s.refreshSnapshot(ctx, &order)
	return &order, nil
}

// UpdateLineItemPrice 更新单个行项目价格
// 事务内重读当前文档再改，降低并发改行项目时的丢失更新风险；
// 改价后按全量行项目重算 total，与价格写入同一次提交。
func (s *OrderService) UpdateLineItemPrice(ctx context.Context, orderID string, lineIndex int, newPrice float64) (*model.Order, error) {
	if newPrice < 0 {
		return nil, ErrInvalidPrice
	}
	performedBy := middleware.GetAuditSellerID(ctx)

	doc, err := s.orderRepo.UpdateDocument(ctx, orderID, func(data map[string]interface{}) error {
		field, arr := findLineItemArray(data)
		if field == "" {
			return ErrLineItemIndexOutOfRange
		}
		if lineIndex < 0 || lineIndex >= len(arr) {
			return ErrLineItemIndexOutOfRange
		}

		item, ok := arr[lineIndex].(map[string]interface{})
		if !ok {
			return ErrLineItemIndexOutOfRange
		}

		oldPrice, _ := numberField(item, "price", "amount", "cost")
		item["price"] = newPrice
		arr[lineIndex] = item
		data[field] = arr

		// 改价后全量重算总额
		var total float64
		for _, elem := range arr {
			m, ok := elem.(map[string]interface{})
			if !ok {
				continue
			}
			li := normalizeLineItem(m)
			total += li.Price * float64(li.Quantity)
		}
		data["total"] = total
		data["updatedAt"] = time.Now().Format(time.RFC3339Nano)

		appendActivity(data, model.ActivityEntry{
			Action:      model.ActivityPriceUpdate,
			Details:     fmt.Sprintf("Product price updated from ₹%v to ₹%v", oldPrice, newPrice),
			Timestamp:   time.Now(),
			PerformedBy: performedBy,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		if errors.Is(err, ErrLineItemIndexOutOfRange) {
			return nil, err
		}
		return nil, fmt.Errorf("更新行项目价格失败: %w", err)
	}

	order := NormalizeOrder(doc)
	s.refreshSnapshot(ctx, &order)
	return &order, nil
}

// findLineItemArray 在文档里定位行项目数组字段
// 单数 product/item 对象包成一元素数组，改价后统一以 products 数组写回，
// 与读取侧的包裹行为保持一致
func findLineItemArray(data map[string]interface{}) (string, []interface{}) {
	for _, field := range []string{"products", "items"} {
		if arr, ok := data[field].([]interface{}); ok {
			return field, arr
		}
	}
	for _, field := range []string{"product", "item"} {
		if m, ok := data[field].(map[string]interface{}); ok {
			return "products", []interface{}{m}
		}
	}
	return "", nil
}

// appendActivity 追加一条活动日志
// 日志只追加，已有条目不动
func appendActivity(data map[string]interface{}, entry model.ActivityEntry) {
	logs, _ := data["activityLog"].([]interface{})
	logs = append(logs, map[string]interface{}{
		"action":      entry.Action,
		"details":     entry.Details,
		"timestamp":   entry.Timestamp.Format(time.RFC3339Nano),
		"performedBy": entry.PerformedBy,
	})
	data["activityLog"] = logs
}

// ==================== 快照缓存 ====================

// 快照只在远端写成功后刷新，失败的写不污染本地状态

func snapshotKey(sellerIdentity string) string {
	return "orders:" + sellerIdentity
}

func (s *OrderService) cacheSnapshot(ctx context.Context, sellerIdentity string, orders []model.Order) {
	if s.snapshots == nil {
		return
	}
	raw, err := json.Marshal(orders)
	if err != nil {
		return
	}
	if err := s.snapshots.Set(ctx, snapshotKey(sellerIdentity), raw, orderSnapshotTTL); err != nil {
		log.Printf("缓存订单快照失败: %v", err)
	}
}

// CachedOrders 读取卖家订单快照，未命中返回 nil
func (s *OrderService) CachedOrders(ctx context.Context, sellerIdentity string) ([]model.Order, bool) {
	if s.snapshots == nil {
		return nil, false
	}
	raw, hit, err := s.snapshots.Get(ctx, snapshotKey(sellerIdentity))
	if err != nil || !hit {
		return nil, false
	}
	var orders []model.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, false
	}
	return orders, true
}

// refreshSnapshot 把单个订单的最新状态合并回快照
func (s *OrderService) refreshSnapshot(ctx context.Context, order *model.Order) {
	if s.snapshots == nil {
		return
	}
	performer := middleware.GetAuditInfo(ctx)
	if performer == nil || performer.SellerID == "" {
		return
	}
	orders, hit := s.CachedOrders(ctx, performer.SellerID)
	if !hit {
		return
	}
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = *order
			break
		}
	}
	s.cacheSnapshot(ctx, performer.SellerID, orders)
}

// ==================== 订单统计 ====================

// OrderStats 订单统计
type OrderStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	GrossTotal float64        `json:"grossTotal"`
}

// Stats 统计卖家订单数量与金额
func (s *OrderService) Stats(ctx context.Context, sellerIdentity string) (*OrderStats, error) {
	orders, err := s.DiscoverOrdersForSeller(ctx, sellerIdentity)
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{
		Total:    len(orders),
		ByStatus: make(map[string]int),
	}
	for _, o := range orders {
		stats.ByStatus[o.Status]++
		stats.GrossTotal += o.Total
	}
	return stats, nil
}
