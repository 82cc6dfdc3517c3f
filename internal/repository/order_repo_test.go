package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 测试辅助 ====================

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.OrderDocument{}); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}

func seedDoc(t *testing.T, repo OrderDocumentRepository, id, path string, data map[string]interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("序列化测试数据失败: %v", err)
	}
	doc := &model.OrderDocument{ID: id, Path: path, Data: datatypes.JSON(raw)}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("写入测试订单失败: %v", err)
	}
}

// ==================== 查询 ====================

func TestOrderRepo_QueryByOwnerField(t *testing.T) {
	repo := NewOrderDocumentRepository(setupRepoTestDB(t))
	ctx := context.Background()

	seedDoc(t, repo, "O1", "orders/O1", map[string]interface{}{"sellerid": "S1"})
	seedDoc(t, repo, "O2", "orders/O2", map[string]interface{}{"sellerID": "S1"})
	seedDoc(t, repo, "O3", "orders/O3", map[string]interface{}{"sellerid": "S2"})

	docs, err := repo.QueryByOwnerField(ctx, "sellerid", "S1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "O1" {
		t.Errorf("期望命中 O1, 实际 %+v", docs)
	}

	docs, err = repo.QueryByOwnerField(ctx, "sellerID", "S1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "O2" {
		t.Errorf("JSON 路径查询应区分字段大小写, 实际 %+v", docs)
	}
}

func TestOrderRepo_GetByPath(t *testing.T) {
	repo := NewOrderDocumentRepository(setupRepoTestDB(t))
	ctx := context.Background()

	seedDoc(t, repo, "O1", "users/u1/orders/O1", map[string]interface{}{"status": "pending"})

	doc, err := repo.GetByPath(ctx, "users/u1/orders/O1")
	if err != nil {
		t.Fatalf("按路径查询失败: %v", err)
	}
	if doc.ID != "O1" {
		t.Errorf("期望 O1, 实际 %s", doc.ID)
	}

	if _, err := repo.GetByPath(ctx, "users/u1/orders/none"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("不存在的路径应返回 ErrRecordNotFound, 实际 %v", err)
	}
}

// ==================== 更新 ====================

func TestOrderRepo_UpdateDocument(t *testing.T) {
	repo := NewOrderDocumentRepository(setupRepoTestDB(t))
	ctx := context.Background()

	seedDoc(t, repo, "O1", "orders/O1", map[string]interface{}{"status": "pending", "total": 10.0})

	doc, err := repo.UpdateDocument(ctx, "O1", func(data map[string]interface{}) error {
		data["status"] = "shipped"
		return nil
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(doc.Data, &data); err != nil {
		t.Fatalf("解析返回文档失败: %v", err)
	}
	if data["status"] != "shipped" {
		t.Errorf("期望状态 shipped, 实际 %v", data["status"])
	}
	if data["total"] != 10.0 {
		t.Errorf("未修改的字段应原样保留, 实际 %v", data["total"])
	}

	// 落库校验
	stored, err := repo.GetByID(ctx, "O1")
	if err != nil {
		t.Fatalf("回读失败: %v", err)
	}
	var storedData map[string]interface{}
	json.Unmarshal(stored.Data, &storedData)
	if storedData["status"] != "shipped" {
		t.Errorf("落库状态期望 shipped, 实际 %v", storedData["status"])
	}
}

func TestOrderRepo_UpdateDocument_MutateErrorRollsBack(t *testing.T) {
	repo := NewOrderDocumentRepository(setupRepoTestDB(t))
	ctx := context.Background()

	seedDoc(t, repo, "O1", "orders/O1", map[string]interface{}{"status": "pending"})

	boom := errors.New("校验不通过")
	_, err := repo.UpdateDocument(ctx, "O1", func(data map[string]interface{}) error {
		data["status"] = "shipped"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望透传修改函数的错误, 实际 %v", err)
	}

	stored, _ := repo.GetByID(ctx, "O1")
	var data map[string]interface{}
	json.Unmarshal(stored.Data, &data)
	if data["status"] != "pending" {
		t.Errorf("修改失败后文档不应落库, 实际 %v", data["status"])
	}
}

func TestOrderRepo_UpdateDocument_NotFound(t *testing.T) {
	repo := NewOrderDocumentRepository(setupRepoTestDB(t))

	_, err := repo.UpdateDocument(context.Background(), "ghost", func(data map[string]interface{}) error {
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("不存在的订单应返回 ErrRecordNotFound, 实际 %v", err)
	}
}
