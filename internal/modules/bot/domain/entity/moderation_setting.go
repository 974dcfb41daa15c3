package entity

import (
	"time"
)

// ModerationSetting 全局审核开关，单行表。无记录时视为开启
type ModerationSetting struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Enabled   bool      `gorm:"column:enabled;not null;default:1;comment:是否启用全局内容审核"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;comment:更新时间"`
}

func (ModerationSetting) TableName() string {
	return "moderation_setting"
}
