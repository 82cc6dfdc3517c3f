package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ==================== 卖家状态常量 ====================

// SellerStatus 卖家审核状态
const (
	SellerStatusPending  = "pending"  // 审核中
	SellerStatusActive   = "active"   // 正常
	SellerStatusBlocked  = "blocked"  // 已封禁
	SellerStatusRejected = "rejected" // 已拒绝
)

// ==================== Seller 卖家 ====================

// Seller 卖家档案
// 文档 ID 可能是自定义 sellerId，也可能直接是认证 UID，
// 二者不一致时靠 UID 字段反查（见 SellerRepository.GetByUID）。
type Seller struct {
	ID  string `gorm:"primaryKey;size:64"`
	UID string `gorm:"size:64;index"`

	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // bcrypt 哈希

	Name      string `gorm:"size:255"`
	Phone     string `gorm:"size:32"`
	StoreName string `gorm:"size:255"`
	Address   string `gorm:"type:text"`

	Status string `gorm:"size:32;index;default:pending"`

	// 历史数据中同一卖家出现过的其他归属 ID（字段漂移残留）
	AlternateIDs datatypes.JSONSlice[string]

	DocumentsUploaded bool `gorm:"default:false"`

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (*Seller) TableName() string {
	return "sellers"
}

// OwnerIDSet 构造归属判定用的 ID 集合
// 包含认证 UID、文档 ID 以及全部历史别名
func (s *Seller) OwnerIDSet() map[string]struct{} {
	set := make(map[string]struct{})
	if s.UID != "" {
		set[s.UID] = struct{}{}
	}
	if s.ID != "" {
		set[s.ID] = struct{}{}
	}
	for _, id := range s.AlternateIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
