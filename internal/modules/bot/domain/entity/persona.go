package entity

import (
	"time"
)

// Persona 人格模板，可挂到多个机器人，按会话随机选定
type Persona struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Name         string    `gorm:"column:name;uniqueIndex;type:varchar(255);not null;comment:人格唯一名称"`
	Instructions string    `gorm:"column:instructions;type:text;not null;comment:人格指令"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;comment:创建时间"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;comment:更新时间"`
}

func (Persona) TableName() string {
	return "persona"
}
