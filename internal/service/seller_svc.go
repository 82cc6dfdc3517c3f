package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/model"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ==================== 错误定义 ====================

var (
	// ErrEmailInUse 邮箱已注册
	ErrEmailInUse = errors.New("该邮箱已被注册")
	// ErrWrongCredentials 邮箱或密码错误
	ErrWrongCredentials = errors.New("邮箱或密码错误")
	// ErrSellerNotFound 卖家不存在
	ErrSellerNotFound = errors.New("卖家不存在")
	// ErrSellerBlocked 账号已停用
	ErrSellerBlocked = errors.New("账号已被停用")
	// ErrSellerRejected 入驻申请被拒
	ErrSellerRejected = errors.New("入驻申请未通过")
	// ErrSellerPending 账号待审核
	ErrSellerPending = errors.New("账号审核中，暂不能登录")
	// ErrInvalidToken 令牌无效
	ErrInvalidToken = errors.New("令牌无效或已过期")
)

// ==================== 输入/输出结构 ====================

// RegisterInput 注册输入
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	Phone     string
	StoreName string
	Address   string
}

// LoginResult 登录结果
type LoginResult struct {
	Seller       *model.Seller
	AccessToken  string
	RefreshToken string
}

// ==================== SellerService ====================

// SellerService 卖家账户服务
type SellerService struct {
	sellerRepo repository.SellerRepository
}

// NewSellerService 创建卖家服务
func NewSellerService(sellerRepo repository.SellerRepository) *SellerService {
	return &SellerService{sellerRepo: sellerRepo}
}

// ==================== 注册 ====================

// Register 卖家注册
// 密码 bcrypt 入库，新账号一律 pending 等审核
func (s *SellerService) Register(ctx context.Context, input *RegisterInput) (*model.Seller, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("邮箱格式不正确")
	}
	if len(input.Password) < 6 {
		return nil, errors.New("密码至少 6 位")
	}
	if input.Name == "" {
		return nil, errors.New("姓名不能为空")
	}

	if _, err := s.sellerRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询卖家失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("加密密码失败: %w", err)
	}

	id := uuid.New().String()
	seller := &model.Seller{
		ID:        id,
		UID:       id,
		Email:     email,
		Password:  string(hash),
		Name:      input.Name,
		Phone:     input.Phone,
		StoreName: input.StoreName,
		Address:   input.Address,
		Status:    model.SellerStatusPending,
	}

	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		return nil, fmt.Errorf("创建卖家失败: %w", err)
	}
	return seller, nil
}

// ==================== 登录 ====================

// Login 卖家登录
// 密码校验通过后再看账号状态，blocked/rejected/pending 分别给明确提示
func (s *SellerService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	seller, err := s.sellerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, fmt.Errorf("查询卖家失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(seller.Password), []byte(password)); err != nil {
		return nil, ErrWrongCredentials
	}

	if err := checkSellerStatus(seller.Status); err != nil {
		return nil, err
	}

	access, refresh, err := middleware.GenerateTokenPair(seller.ID, seller.UID, seller.Email)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	if err := s.sellerRepo.UpdateLastLogin(ctx, seller.ID); err != nil {
		// 登录时间只是展示字段，更新失败不挡登录
		log.Printf("更新最后登录时间失败: %v", err)
	}

	return &LoginResult{Seller: seller, AccessToken: access, RefreshToken: refresh}, nil
}

// checkSellerStatus 登录状态门禁
func checkSellerStatus(status string) error {
	switch status {
	case model.SellerStatusBlocked:
		return ErrSellerBlocked
	case model.SellerStatusRejected:
		return ErrSellerRejected
	case model.SellerStatusPending:
		return ErrSellerPending
	default:
		return nil
	}
}

// ==================== 令牌刷新 ====================

// Refresh 用刷新令牌换新令牌对
// 刷新时重新过一遍状态门禁，停用的账号旧刷新令牌立即失效
func (s *SellerService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	seller, err := s.sellerRepo.GetByID(ctx, claims.SellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("查询卖家失败: %w", err)
	}
	if err := checkSellerStatus(seller.Status); err != nil {
		return nil, err
	}

	access, refresh, err := middleware.GenerateTokenPair(seller.ID, seller.UID, seller.Email)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}
	return &LoginResult{Seller: seller, AccessToken: access, RefreshToken: refresh}, nil
}

// ==================== 密码重置 ====================

// RequestPasswordReset 签发密码重置令牌
// 邮箱不存在也返回成功，不暴露注册状态；实际投递交给上层邮件通道
func (s *SellerService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	seller, err := s.sellerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("查询卖家失败: %w", err)
	}

	token, err := middleware.GenerateResetToken(seller.ID, seller.UID, seller.Email)
	if err != nil {
		return "", fmt.Errorf("签发重置令牌失败: %w", err)
	}
	return token, nil
}

// ResetPassword 用重置令牌设置新密码
func (s *SellerService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := middleware.ParseToken(resetToken)
	if err != nil || claims.Subject != "reset" {
		return ErrInvalidToken
	}
	if len(newPassword) < 6 {
		return errors.New("密码至少 6 位")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("加密密码失败: %w", err)
	}

	if err := s.sellerRepo.UpdateFields(ctx, claims.SellerID, map[string]interface{}{
		"password": string(hash),
	}); err != nil {
		return fmt.Errorf("更新密码失败: %w", err)
	}
	return nil
}

// ==================== 档案 ====================

// GetProfile 获取卖家档案
// 先按文档 ID 直查，落空再按认证 UID 反查（历史数据两种都有）
func (s *SellerService) GetProfile(ctx context.Context, sellerID string) (*model.Seller, error) {
	seller, err := s.sellerRepo.GetByAuthUID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("查询卖家失败: %w", err)
	}
	return seller, nil
}

// UpdateProfile 更新卖家档案
// 只允许改展示字段，状态与密码走各自专用通道
func (s *SellerService) UpdateProfile(ctx context.Context, sellerID string, fields map[string]interface{}) (*model.Seller, error) {
	seller, err := s.GetProfile(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{"name": true, "phone": true, "store_name": true, "address": true}
	filtered := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return nil, errors.New("没有可更新的字段")
	}
	filtered["updated_at"] = time.Now()

	if err := s.sellerRepo.UpdateFields(ctx, seller.ID, filtered); err != nil {
		return nil, fmt.Errorf("更新档案失败: %w", err)
	}
	return s.GetProfile(ctx, seller.ID)
}
