package controller

import (
	"errors"

	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/api/dto"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/middleware"
	"github.com/innomatricstech/sadhana-cart-seller-panel1/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	sellerService *service.SellerService
}

func NewAuthController(sellerService *service.SellerService) *AuthController {
	return &AuthController{sellerService: sellerService}
}

// ==================== 注册/登录 ====================

// Register 卖家注册
// @Summary 卖家注册，新账号进入审核队列
// @Tags Auth
// @Router /api/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	seller, err := ctrl.sellerService.Register(c.Request.Context(), &service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Phone:     req.Phone,
		StoreName: req.StoreName,
		Address:   req.Address,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			c.JSON(409, gin.H{"code": 409, "message": "该邮箱已被注册"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "注册成功，等待审核",
		"data":    dto.NewSellerVO(seller),
	})
}

// Login 卖家登录
// @Summary 邮箱密码登录，返回令牌对
// @Tags Auth
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	result, err := ctrl.sellerService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongCredentials):
			c.JSON(401, gin.H{"code": 401, "message": "邮箱或密码错误"})
		case errors.Is(err, service.ErrSellerBlocked):
			c.JSON(403, gin.H{"code": 403, "message": "账号已被停用"})
		case errors.Is(err, service.ErrSellerRejected):
			c.JSON(403, gin.H{"code": 403, "message": "入驻申请未通过"})
		case errors.Is(err, service.ErrSellerPending):
			c.JSON(403, gin.H{"code": 403, "message": "账号审核中，暂不能登录"})
		default:
			c.JSON(500, gin.H{"code": 500, "message": "登录失败: " + err.Error()})
		}
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.LoginResponse{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			Seller:       dto.NewSellerVO(result.Seller),
		},
	})
}

// Refresh 刷新令牌
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	result, err := ctrl.sellerService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(401, gin.H{"code": 401, "message": "令牌无效或已过期"})
			return
		}
		c.JSON(403, gin.H{"code": 403, "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": dto.LoginResponse{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			Seller:       dto.NewSellerVO(result.Seller),
		},
	})
}

// ==================== 密码重置 ====================

// ForgotPassword 申请密码重置
// 无论邮箱是否注册都返回成功，防止探测
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	token, err := ctrl.sellerService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "申请失败: " + err.Error()})
		return
	}

	resp := gin.H{"code": 0, "message": "如果邮箱已注册，将收到重置邮件"}
	// TODO: 接入邮件通道后去掉响应里的 token 透传
	if token != "" {
		resp["data"] = gin.H{"reset_token": token}
	}
	c.JSON(200, resp)
}

// ResetPassword 用重置令牌设置新密码
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := ctrl.sellerService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(401, gin.H{"code": 401, "message": "令牌无效或已过期"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "密码已重置"})
}

// ==================== 档案 ====================

// Profile 获取当前卖家档案
func (ctrl *AuthController) Profile(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)

	seller, err := ctrl.sellerService.GetProfile(c.Request.Context(), sellerID)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "卖家不存在"})
			return
		}
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": dto.NewSellerVO(seller)})
}

// UpdateProfile 更新当前卖家档案
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	sellerID := middleware.GetSellerID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	fields := make(map[string]interface{})
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.StoreName != "" {
		fields["store_name"] = req.StoreName
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}

	seller, err := ctrl.sellerService.UpdateProfile(c.Request.Context(), sellerID, fields)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			c.JSON(404, gin.H{"code": 404, "message": "卖家不存在"})
			return
		}
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{"code": 0, "message": "success", "data": dto.NewSellerVO(seller)})
}
