package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ==================== 审计上下文 ====================

// AuditContext Key
type auditContextKey struct{}

// AuditInfo 审计信息
// 活动日志的 performedBy 来源于此；未登录的维护操作记为 admin
type AuditInfo struct {
	SellerID string
	Email    string
}

// WithAuditInfo 注入审计信息到 context
func WithAuditInfo(ctx context.Context, sellerID, email string) context.Context {
	return context.WithValue(ctx, auditContextKey{}, &AuditInfo{
		SellerID: sellerID,
		Email:    email,
	})
}

// GetAuditInfo 从 context 获取审计信息
func GetAuditInfo(ctx context.Context) *AuditInfo {
	if info, ok := ctx.Value(auditContextKey{}).(*AuditInfo); ok {
		return info
	}
	return nil
}

// GetAuditSellerID 从 context 获取审计卖家 ID，未登录返回 "admin"
func GetAuditSellerID(ctx context.Context) string {
	if info := GetAuditInfo(ctx); info != nil && info.SellerID != "" {
		return info.SellerID
	}
	return "admin"
}

// ==================== Gin 中间件 ====================

// AuditContext 审计上下文中间件
// 将 JWT 中的卖家信息注入 request context，供服务层写活动日志使用
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := GetSellerID(c)
		email := c.GetString(ContextKeyEmail)

		if sellerID != "" {
			ctx := WithAuditInfo(c.Request.Context(), sellerID, email)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}
