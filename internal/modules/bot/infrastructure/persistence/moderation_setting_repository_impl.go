package persistence

import (
	"context"
	"time"

	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"

	"gorm.io/gorm"
)

type moderationSettingRepositoryImpl struct {
	db *gorm.DB
}

func NewModerationSettingRepository(db *gorm.DB) repository.ModerationSettingRepository {
	return &moderationSettingRepositoryImpl{db: db}
}

func (r *moderationSettingRepositoryImpl) IsEnabled(ctx context.Context) (bool, error) {
	var setting entity.ModerationSetting
	err := r.db.WithContext(ctx).Order("id ASC").Take(&setting).Error
	if err == nil {
		return setting.Enabled, nil
	}
	if err == gorm.ErrRecordNotFound {
		// 未配置时默认开启
		return true, nil
	}
	return false, err
}

func (r *moderationSettingRepositoryImpl) SetEnabled(ctx context.Context, enabled bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var setting entity.ModerationSetting
		err := tx.Order("id ASC").Take(&setting).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(&entity.ModerationSetting{
				Enabled:   enabled,
				UpdatedAt: time.Now(),
			}).Error
		}
		if err != nil {
			return err
		}
		setting.Enabled = enabled
		setting.UpdatedAt = time.Now()
		return tx.Save(&setting).Error
	})
}
