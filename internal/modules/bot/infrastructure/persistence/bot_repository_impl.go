package persistence

import (
	"context"
	"strings"

	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"

	"gorm.io/gorm"
)

type botRepositoryImpl struct {
	db *gorm.DB
}

func NewBotRepository(db *gorm.DB) repository.BotRepository {
	return &botRepositoryImpl{db: db}
}

func (r *botRepositoryImpl) GetByName(ctx context.Context, name string) (*entity.Bot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var bot entity.Bot
	err := r.db.WithContext(ctx).
		Preload("AIModel").
		Preload("AIModel.Provider").
		Preload("Personas").
		Preload("Thresholds").
		Where("name = ?", name).
		Take(&bot).Error
	if err == nil {
		return &bot, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *botRepositoryImpl) Create(ctx context.Context, bot *entity.Bot) error {
	return r.db.WithContext(ctx).Create(bot).Error
}

func (r *botRepositoryImpl) Update(ctx context.Context, bot *entity.Bot) error {
	return r.db.WithContext(ctx).Save(bot).Error
}

func (r *botRepositoryImpl) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&entity.Bot{}).Error
}

func (r *botRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*entity.Bot, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var bots []*entity.Bot
	err := r.db.WithContext(ctx).
		Preload("AIModel").
		Preload("AIModel.Provider").
		Preload("Personas").
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&bots).Error
	return bots, err
}

func (r *botRepositoryImpl) ReplaceThresholds(ctx context.Context, botID int64, thresholds []entity.BotModerationThreshold) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bot_id = ?", botID).Delete(&entity.BotModerationThreshold{}).Error; err != nil {
			return err
		}
		if len(thresholds) == 0 {
			return nil
		}
		for i := range thresholds {
			thresholds[i].BotId = botID
		}
		return tx.Create(&thresholds).Error
	})
}

func (r *botRepositoryImpl) ReplacePersonas(ctx context.Context, bot *entity.Bot, personaIDs []int64) error {
	var personas []entity.Persona
	if len(personaIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", personaIDs).Find(&personas).Error; err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Model(bot).Association("Personas").Replace(personas)
}
