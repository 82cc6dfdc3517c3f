package service

import (
	"context"
	"testing"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 测试辅助 ====================

func newSellerTestService(t *testing.T) (*SellerService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Seller{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	return NewSellerService(repository.NewSellerRepository(db)), db
}

func validRegisterInput() *RegisterInput {
	return &RegisterInput{
		Email:     "seller@example.com",
		Password:  "secret123",
		Name:      "Ravi Kumar",
		Phone:     "9876543210",
		StoreName: "Ravi Store",
	}
}

func activateSeller(t *testing.T, db *gorm.DB, id string) {
	if err := db.Model(&model.Seller{}).Where("id = ?", id).
		Update("status", model.SellerStatusActive).Error; err != nil {
		t.Fatalf("激活卖家失败: %v", err)
	}
}

// ==================== 注册 ====================

func TestRegister(t *testing.T) {
	svc, _ := newSellerTestService(t)

	seller, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	if seller.Status != model.SellerStatusPending {
		t.Errorf("新卖家状态应为 pending, 实际 %s", seller.Status)
	}
	if seller.Password == "secret123" {
		t.Error("密码必须哈希入库")
	}
	if seller.ID == "" || seller.UID != seller.ID {
		t.Errorf("新卖家 ID/UID 应一致且非空: %s / %s", seller.ID, seller.UID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newSellerTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	if _, err := svc.Register(ctx, validRegisterInput()); err != ErrEmailInUse {
		t.Errorf("重复邮箱期望 ErrEmailInUse, 实际 %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newSellerTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"无效邮箱", func(r *RegisterInput) { r.Email = "not-an-email" }},
		{"密码过短", func(r *RegisterInput) { r.Password = "123" }},
		{"空姓名", func(r *RegisterInput) { r.Name = "" }},
	}
	for _, tc := range cases {
		input := validRegisterInput()
		tc.mutate(input)
		if _, err := svc.Register(ctx, input); err == nil {
			t.Errorf("%s: 期望校验失败", tc.name)
		}
	}
}

// ==================== 登录 ====================

func TestLogin(t *testing.T) {
	svc, db := newSellerTestService(t)
	ctx := context.Background()

	seller, _ := svc.Register(ctx, validRegisterInput())
	activateSeller(t, db, seller.ID)

	result, err := svc.Login(ctx, "seller@example.com", "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("登录应签发令牌对")
	}

	claims, err := middleware.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("解析访问令牌失败: %v", err)
	}
	if claims.SellerID != seller.ID || claims.Subject != "access" {
		t.Errorf("令牌内容不符: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, db := newSellerTestService(t)
	ctx := context.Background()

	seller, _ := svc.Register(ctx, validRegisterInput())
	activateSeller(t, db, seller.ID)

	if _, err := svc.Login(ctx, "seller@example.com", "wrong"); err != ErrWrongCredentials {
		t.Errorf("密码错误期望 ErrWrongCredentials, 实际 %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret123"); err != ErrWrongCredentials {
		t.Errorf("未注册邮箱期望 ErrWrongCredentials, 实际 %v", err)
	}
}

func TestLogin_StatusGates(t *testing.T) {
	svc, db := newSellerTestService(t)
	ctx := context.Background()

	seller, _ := svc.Register(ctx, validRegisterInput())

	cases := []struct {
		status string
		want   error
	}{
		{model.SellerStatusPending, ErrSellerPending},
		{model.SellerStatusBlocked, ErrSellerBlocked},
		{model.SellerStatusRejected, ErrSellerRejected},
	}
	for _, tc := range cases {
		db.Model(&model.Seller{}).Where("id = ?", seller.ID).Update("status", tc.status)
		if _, err := svc.Login(ctx, "seller@example.com", "secret123"); err != tc.want {
			t.Errorf("状态 %s 期望 %v, 实际 %v", tc.status, tc.want, err)
		}
	}
}

// ==================== 令牌刷新 ====================

func TestRefresh(t *testing.T) {
	svc, db := newSellerTestService(t)
	ctx := context.Background()

	seller, _ := svc.Register(ctx, validRegisterInput())
	activateSeller(t, db, seller.ID)

	login, err := svc.Login(ctx, "seller@example.com", "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应签出新的访问令牌")
	}

	// 访问令牌不能当刷新令牌用
	if _, err := svc.Refresh(ctx, login.AccessToken); err != ErrInvalidToken {
		t.Errorf("访问令牌冒充刷新令牌期望 ErrInvalidToken, 实际 %v", err)
	}
}

func TestRefresh_BlockedSellerRejected(t *testing.T) {
	svc, db := newSellerTestService(t)
	ctx := context.Background()

	seller, _ := svc.Register(ctx, validRegisterInput())
	activateSeller(t, db, seller.ID)

	login, _ := svc.Login(ctx, "seller@example.com", "secret123")

	// 停用后旧刷新令牌立即失效
	db.Model(&model.Seller{}).Where("id = ?", seller.ID).Update("status", model.SellerStatusBlocked)
	if _, err := svc.Refresh(ctx, login.RefreshToken); err != ErrSellerBlocked {
		t.Errorf("停用卖家刷新期望 ErrSellerBlocked, 实际 %v", err)
	}
}

// ==================== 密码重置 ====================

func TestPasswordReset(t *testing.T) {
	svc, db := newSellerTestService(t)
	ctx := context.Background()

	seller, _ := svc.Register(ctx, validRegisterInput())
	activateSeller(t, db, seller.ID)

	token, err := svc.RequestPasswordReset(ctx, "seller@example.com")
	if err != nil {
		t.Fatalf("申请重置失败: %v", err)
	}
	if token == "" {
		t.Fatal("已注册邮箱应签出重置令牌")
	}

	if err := svc.ResetPassword(ctx, token, "newsecret"); err != nil {
		t.Fatalf("重置密码失败: %v", err)
	}

	// 新密码可登录、旧密码失效
	if _, err := svc.Login(ctx, "seller@example.com", "newsecret"); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
	if _, err := svc.Login(ctx, "seller@example.com", "secret123"); err != ErrWrongCredentials {
		t.Errorf("旧密码应失效, 实际 %v", err)
	}
}

func TestPasswordReset_UnknownEmailSilent(t *testing.T) {
	svc, _ := newSellerTestService(t)

	token, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("未注册邮箱不应报错: %v", err)
	}
	if token != "" {
		t.Error("未注册邮箱不应签出令牌")
	}
}

// ==================== 档案 ====================

func TestGetProfile_ByIDAndByUID(t *testing.T) {
	svc, db := newSellerTestService(t)
	ctx := context.Background()

	// 历史数据：文档 ID 与认证 UID 不一致
	db.Create(&model.Seller{
		ID:     "custom-doc-id",
		UID:    "auth-uid-9",
		Email:  "legacy@example.com",
		Name:   "Legacy",
		Status: model.SellerStatusActive,
	})

	byID, err := svc.GetProfile(ctx, "custom-doc-id")
	if err != nil {
		t.Fatalf("按文档 ID 查询失败: %v", err)
	}
	byUID, err := svc.GetProfile(ctx, "auth-uid-9")
	if err != nil {
		t.Fatalf("按认证 UID 反查失败: %v", err)
	}
	if byID.ID != byUID.ID {
		t.Errorf("两种查法应命中同一卖家: %s vs %s", byID.ID, byUID.ID)
	}

	if _, err := svc.GetProfile(ctx, "missing"); err != ErrSellerNotFound {
		t.Errorf("不存在的卖家期望 ErrSellerNotFound, 实际 %v", err)
	}
}

func TestUpdateProfile_OnlyDisplayFields(t *testing.T) {
	svc, _ := newSellerTestService(t)
	ctx := context.Background()

	seller, _ := svc.Register(ctx, validRegisterInput())

	updated, err := svc.UpdateProfile(ctx, seller.ID, map[string]interface{}{
		"name":     "New Name",
		"status":   model.SellerStatusActive, // 不允许走档案通道
		"password": "hacked",
	})
	if err != nil {
		t.Fatalf("更新档案失败: %v", err)
	}

	if updated.Name != "New Name" {
		t.Errorf("期望姓名已更新, 实际 %s", updated.Name)
	}
	if updated.Status != model.SellerStatusPending {
		t.Errorf("状态不应被档案更新改动, 实际 %s", updated.Status)
	}
}
