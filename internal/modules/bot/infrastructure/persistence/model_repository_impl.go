package persistence

import (
	"context"

	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type modelRepositoryImpl struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) repository.ModelRepository {
	return &modelRepositoryImpl{db: db}
}

func (r *modelRepositoryImpl) GetModel(ctx context.Context, providerName, modelID string) (*entity.AIModel, error) {
	var model entity.AIModel
	err := r.db.WithContext(ctx).
		Joins("Provider").
		Where("Provider.name = ? AND ai_model.model_id = ?", providerName, modelID).
		Take(&model).Error
	if err == nil {
		return &model, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *modelRepositoryImpl) ListProviders(ctx context.Context) ([]*entity.ModelProvider, error) {
	var providers []*entity.ModelProvider
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&providers).Error
	return providers, err
}

func (r *modelRepositoryImpl) ListModels(ctx context.Context, providerName string) ([]*entity.AIModel, error) {
	var models []*entity.AIModel
	tx := r.db.WithContext(ctx).
		Joins("Provider").
		Where("ai_model.is_active = ?", true)
	if providerName != "" {
		tx = tx.Where("Provider.name = ?", providerName)
	}
	err := tx.Order("ai_model.model_id ASC").Find(&models).Error
	return models, err
}

func (r *modelRepositoryImpl) SaveProvider(ctx context.Context, provider *entity.ModelProvider) error {
	// 名称冲突时就地更新，保证种子数据可重复执行
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "description", "is_active", "updated_at"}),
	}).Create(provider).Error
}

func (r *modelRepositoryImpl) SaveModel(ctx context.Context, model *entity.AIModel) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}, {Name: "model_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "description", "capabilities", "is_active", "updated_at"}),
	}).Create(model).Error
}
