package persistence

import (
	"context"

	"PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/domain/repository"

	"gorm.io/gorm"
)

type keystrokeRepositoryImpl struct {
	db *gorm.DB
}

func NewKeystrokeRepository(db *gorm.DB) repository.KeystrokeRepository {
	return &keystrokeRepositoryImpl{db: db}
}

func (r *keystrokeRepositoryImpl) Create(ctx context.Context, keystroke *entity.Keystroke) error {
	return r.db.WithContext(ctx).Create(keystroke).Error
}
