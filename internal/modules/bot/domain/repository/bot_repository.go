package repository

import (
	"context"

	"PersonaLab/internal/modules/bot/domain/entity"
)

type BotRepository interface {
	// GetByName 按名称取机器人，一次带出模型、供应商、人格与审核阈值
	GetByName(ctx context.Context, name string) (*entity.Bot, error)
	Create(ctx context.Context, bot *entity.Bot) error
	Update(ctx context.Context, bot *entity.Bot) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Bot, error)
	ReplaceThresholds(ctx context.Context, botID int64, thresholds []entity.BotModerationThreshold) error
	ReplacePersonas(ctx context.Context, bot *entity.Bot, personaIDs []int64) error
}

type PersonaRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Persona, error)
	GetByID(ctx context.Context, id int64) (*entity.Persona, error)
	Create(ctx context.Context, persona *entity.Persona) error
	Update(ctx context.Context, persona *entity.Persona) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Persona, error)
}

type ModelRepository interface {
	GetModel(ctx context.Context, providerName, modelID string) (*entity.AIModel, error)
	ListProviders(ctx context.Context) ([]*entity.ModelProvider, error)
	ListModels(ctx context.Context, providerName string) ([]*entity.AIModel, error)
	SaveProvider(ctx context.Context, provider *entity.ModelProvider) error
	SaveModel(ctx context.Context, model *entity.AIModel) error
}

type ModerationSettingRepository interface {
	// IsEnabled 读取全局审核开关，无记录时返回 true
	IsEnabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
}
