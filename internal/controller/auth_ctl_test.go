package controller

import (
	"net/http"
	"testing"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 测试辅助 ====================

func setupAuthCtlRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Seller{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}

	ctrl := NewAuthController(service.NewSellerService(repository.NewSellerRepository(db)))

	r := gin.New()
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ctrl.Register)
		auth.POST("/login", ctrl.Login)
		auth.POST("/refresh", ctrl.Refresh)
		auth.POST("/forgot-password", ctrl.ForgotPassword)
		auth.POST("/reset-password", ctrl.ResetPassword)
	}
	return r, db
}

var registerBody = gin.H{
	"email":      "seller@example.com",
	"password":   "secret123",
	"name":       "Ravi",
	"store_name": "Ravi Store",
}

// ==================== 接口测试 ====================

func TestAuthAPI_RegisterAndPendingGate(t *testing.T) {
	r, _ := setupAuthCtlRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	if w.Code != http.StatusOK {
		t.Fatalf("注册期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}

	// 审核中的账号不能登录
	w = doJSON(r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "seller@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("pending 账号登录期望 403, 实际 %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthAPI_RegisterDuplicate(t *testing.T) {
	r, _ := setupAuthCtlRouter(t)

	doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	if w.Code != http.StatusConflict {
		t.Errorf("重复注册期望 409, 实际 %d", w.Code)
	}
}

func TestAuthAPI_RegisterValidation(t *testing.T) {
	r, _ := setupAuthCtlRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{
		"email":    "not-an-email",
		"password": "secret123",
		"name":     "X",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法邮箱期望 400, 实际 %d", w.Code)
	}
}

func TestAuthAPI_LoginFlow(t *testing.T) {
	r, db := setupAuthCtlRouter(t)

	doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	db.Model(&model.Seller{}).Where("email = ?", "seller@example.com").
		Update("status", model.SellerStatusActive)

	w := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "seller@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("登录期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "seller@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("密码错误期望 401, 实际 %d", w.Code)
	}
}

func TestAuthAPI_BlockedSeller(t *testing.T) {
	r, db := setupAuthCtlRouter(t)

	doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	db.Model(&model.Seller{}).Where("email = ?", "seller@example.com").
		Update("status", model.SellerStatusBlocked)

	w := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "seller@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("停用账号登录期望 403, 实际 %d", w.Code)
	}
}

func TestAuthAPI_ForgotPasswordNeverLeaks(t *testing.T) {
	r, _ := setupAuthCtlRouter(t)

	// 未注册邮箱也返回 200，不暴露注册状态
	w := doJSON(r, http.MethodPost, "/api/auth/forgot-password", gin.H{"email": "ghost@example.com"})
	if w.Code != http.StatusOK {
		t.Errorf("未注册邮箱期望 200, 实际 %d", w.Code)
	}
}

func TestAuthAPI_ResetPasswordInvalidToken(t *testing.T) {
	r, _ := setupAuthCtlRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/reset-password", gin.H{
		"token":        "garbage",
		"new_password": "newsecret",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("非法令牌期望 401, 实际 %d", w.Code)
	}
}
