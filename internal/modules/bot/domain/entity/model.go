package entity

import (
	"time"
)

// 供应商名称常量，引擎注册表据此选择构造器
const (
	ProviderOpenAI   = "OpenAI"
	ProviderArk      = "Ark"
	ProviderDeepSeek = "DeepSeek"
	ProviderOllama   = "Ollama"
)

// ModelProvider 模型供应商目录
type ModelProvider struct {
	Id          int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Name        string    `gorm:"column:name;uniqueIndex;type:varchar(255);not null;comment:供应商唯一名称"`
	DisplayName string    `gorm:"column:display_name;type:varchar(255);not null;comment:展示名"`
	Description string    `gorm:"column:description;type:text;comment:描述"`
	IsActive    bool      `gorm:"column:is_active;not null;default:1;comment:是否启用"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;comment:创建时间"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;comment:更新时间"`
}

func (ModelProvider) TableName() string {
	return "model_provider"
}

// AIModel 可选模型目录，(provider, model_id) 唯一
type AIModel struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	ProviderId   int64     `gorm:"column:provider_id;uniqueIndex:uk_provider_model;not null;comment:供应商id"`
	Provider     ModelProvider
	ModelId      string    `gorm:"column:model_id;uniqueIndex:uk_provider_model;type:varchar(255);not null;comment:供应商侧模型id"`
	DisplayName  string    `gorm:"column:display_name;type:varchar(255);not null;comment:展示名"`
	Description  string    `gorm:"column:description;type:text;comment:描述"`
	Capabilities string    `gorm:"column:capabilities;type:text;comment:能力标签，JSON数组"`
	IsActive     bool      `gorm:"column:is_active;not null;default:1;comment:是否启用"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;comment:创建时间"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;comment:更新时间"`
}

func (AIModel) TableName() string {
	return "ai_model"
}
