package model

import "time"

// 类目存放在三张平表中，层级之间靠名称引用关联，
// 不在存储层做外键约束（沿用线上数据的结构）。

// Category 一级类目
type Category struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:255;index;not null"`
	Icon      string `gorm:"size:64"`
	CreatedAt time.Time
}

func (*Category) TableName() string {
	return "category"
}

// Subcategory 二级类目
type Subcategory struct {
	ID           string `gorm:"primaryKey;size:64"`
	Name         string `gorm:"size:255;index;not null"`
	CategoryName string `gorm:"size:255;index"`
	CreatedAt    time.Time
}

func (*Subcategory) TableName() string {
	return "subcategory"
}

// SubUnderCategory 三级类目
type SubUnderCategory struct {
	ID              string `gorm:"primaryKey;size:64"`
	Name            string `gorm:"size:255;index;not null"`
	SubcategoryName string `gorm:"size:255;index"`
	CreatedAt       time.Time
}

func (*SubUnderCategory) TableName() string {
	return "subundercategory"
}
