package dto

import (
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
)

// ==================== 注册/登录 ====================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	StoreName string `json:"store_name"`
	Address   string `json:"address"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	Seller       SellerVO `json:"seller"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ==================== 密码重置 ====================

// ForgotPasswordRequest 申请重置请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ==================== 档案 ====================

// SellerVO 卖家视图对象（不含密码等敏感字段）
type SellerVO struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone"`
	StoreName         string     `json:"store_name"`
	Address           string     `json:"address"`
	Status            string     `json:"status"`
	DocumentsUploaded bool       `json:"documents_uploaded"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewSellerVO 从卖家模型构造视图对象
func NewSellerVO(s *model.Seller) SellerVO {
	return SellerVO{
		ID:                s.ID,
		Email:             s.Email,
		Name:              s.Name,
		Phone:             s.Phone,
		StoreName:         s.StoreName,
		Address:           s.Address,
		Status:            s.Status,
		DocumentsUploaded: s.DocumentsUploaded,
		LastLoginAt:       s.LastLoginAt,
		CreatedAt:         s.CreatedAt,
	}
}

// UpdateProfileRequest 更新档案请求
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	StoreName string `json:"store_name"`
	Address   string `json:"address"`
}
