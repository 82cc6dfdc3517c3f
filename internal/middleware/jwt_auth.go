package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey       string        // 签名密钥
	AccessTokenTTL  time.Duration // Access Token 有效期
	RefreshTokenTTL time.Duration // Refresh Token 有效期
	ResetTokenTTL   time.Duration // 密码重置 Token 有效期
	Issuer          string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "seller-panel-secret-key-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   30 * time.Minute,
		Issuer:          "sadhana-seller-panel",
	}
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 获取 JWT 配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

// SellerClaims 卖家声明
type SellerClaims struct {
	SellerID string `json:"seller_id"`
	AuthUID  string `json:"auth_uid"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// ==================== Token 生成 ====================

// GenerateAccessToken 生成 Access Token
func GenerateAccessToken(sellerID, authUID, email string) (string, error) {
	return generateToken(sellerID, authUID, email, "access", jwtConfig.AccessTokenTTL)
}

// GenerateRefreshToken 生成 Refresh Token
func GenerateRefreshToken(sellerID, authUID, email string) (string, error) {
	return generateToken(sellerID, authUID, email, "refresh", jwtConfig.RefreshTokenTTL)
}

// GenerateResetToken 生成密码重置 Token
func GenerateResetToken(sellerID, authUID, email string) (string, error) {
	return generateToken(sellerID, authUID, email, "reset", jwtConfig.ResetTokenTTL)
}

// GenerateTokenPair 生成 Token 对
func GenerateTokenPair(sellerID, authUID, email string) (accessToken, refreshToken string, err error) {
	accessToken, err = GenerateAccessToken(sellerID, authUID, email)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = GenerateRefreshToken(sellerID, authUID, email)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func generateToken(sellerID, authUID, email, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SellerClaims{
		SellerID: sellerID,
		AuthUID:  authUID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// ==================== Token 解析 ====================

// ParseToken 解析 Token
func ParseToken(tokenString string) (*SellerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SellerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SellerClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeySellerID = "seller_id"
	ContextKeyAuthUID  = "auth_uid"
	ContextKeyEmail    = "email"
	ContextKeyClaims   = "claims"
)

// JWTAuth JWT 认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "未提供认证信息",
			})
			c.Abort()
			return
		}

		// 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "认证格式错误，应为 Bearer {token}",
			})
			c.Abort()
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Token 无效或已过期",
			})
			c.Abort()
			return
		}

		// 只接受 Access Token
		if claims.Subject != "access" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Token 类型错误",
			})
			c.Abort()
			return
		}

		c.Set(ContextKeySellerID, claims.SellerID)
		c.Set(ContextKeyAuthUID, claims.AuthUID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// ==================== 辅助函数 ====================

// GetSellerID 从 Context 获取卖家 ID
func GetSellerID(c *gin.Context) string {
	if id, exists := c.Get(ContextKeySellerID); exists {
		return id.(string)
	}
	return ""
}

// GetAuthUID 从 Context 获取认证 UID
func GetAuthUID(c *gin.Context) string {
	if uid, exists := c.Get(ContextKeyAuthUID); exists {
		return uid.(string)
	}
	return ""
}

// GetSellerClaims 从 Context 获取完整 Claims
func GetSellerClaims(c *gin.Context) *SellerClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*SellerClaims)
	}
	return nil
}
