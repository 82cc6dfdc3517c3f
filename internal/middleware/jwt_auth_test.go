package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== Token 生成与解析 ====================

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("seller-1", "uid-1", "a@b.com")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.SellerID != "seller-1" || claims.AuthUID != "uid-1" || claims.Email != "a@b.com" {
		t.Errorf("声明内容不符: %+v", claims)
	}
	if claims.Subject != "access" {
		t.Errorf("期望 subject access, 实际 %s", claims.Subject)
	}
}

func TestTokenSubjects(t *testing.T) {
	refresh, _ := GenerateRefreshToken("s", "u", "e@x.com")
	reset, _ := GenerateResetToken("s", "u", "e@x.com")

	if claims, err := ParseToken(refresh); err != nil || claims.Subject != "refresh" {
		t.Errorf("刷新 Token subject 期望 refresh, claims=%+v err=%v", claims, err)
	}
	if claims, err := ParseToken(reset); err != nil || claims.Subject != "reset" {
		t.Errorf("重置 Token subject 期望 reset, claims=%+v err=%v", claims, err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not-a-jwt"); err == nil {
		t.Error("垃圾 Token 应解析失败")
	}
}

func TestParseToken_Expired(t *testing.T) {
	old := GetJWTConfig()
	defer SetJWTConfig(old)

	expired := *old
	expired.AccessTokenTTL = -time.Minute
	SetJWTConfig(&expired)

	token, err := GenerateAccessToken("s", "u", "e@x.com")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	SetJWTConfig(old)
	if _, err := ParseToken(token); err == nil {
		t.Error("过期 Token 应解析失败")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	old := GetJWTConfig()
	defer SetJWTConfig(old)

	token, err := GenerateAccessToken("s", "u", "e@x.com")
	if err != nil {
		t.Fatalf("生成 Token 失败: %v", err)
	}

	other := *old
	other.SecretKey = "another-secret"
	SetJWTConfig(&other)

	if _, err := ParseToken(token); err == nil {
		t.Error("密钥不匹配的 Token 应解析失败")
	}
}

// ==================== 认证中间件 ====================

func setupAuthMwRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"seller_id": GetSellerID(c), "auth_uid": GetAuthUID(c)})
	})
	return r
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := setupAuthMwRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("缺少认证头期望 401, 实际 %d", w.Code)
	}
}

func TestJWTAuth_BadScheme(t *testing.T) {
	r := setupAuthMwRouter()
	token, _ := GenerateAccessToken("s", "u", "e@x.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("非 Bearer 格式期望 401, 实际 %d", w.Code)
	}
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	r := setupAuthMwRouter()
	refresh, _ := GenerateRefreshToken("s", "u", "e@x.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("刷新 Token 不应通过访问鉴权, 实际 %d", w.Code)
	}
}

func TestJWTAuth_ValidToken(t *testing.T) {
	r := setupAuthMwRouter()
	token, _ := GenerateAccessToken("seller-9", "uid-9", "e@x.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("有效 Token 期望 200, 实际 %d", w.Code)
	}
}

// ==================== 审计上下文 ====================

func TestAuditInfo_RoundTrip(t *testing.T) {
	ctx := WithAuditInfo(context.Background(), "seller-1", "a@b.com")

	info := GetAuditInfo(ctx)
	if info == nil || info.SellerID != "seller-1" || info.Email != "a@b.com" {
		t.Errorf("审计信息不符: %+v", info)
	}
	if got := GetAuditSellerID(ctx); got != "seller-1" {
		t.Errorf("期望 seller-1, 实际 %s", got)
	}
}

func TestAuditSellerID_Fallback(t *testing.T) {
	if got := GetAuditSellerID(context.Background()); got != "admin" {
		t.Errorf("无审计信息时应回退到 admin, 实际 %s", got)
	}
}
