package persistence

import (
	"context"
	"strings"

	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"

	"gorm.io/gorm"
)

type personaRepositoryImpl struct {
	db *gorm.DB
}

func NewPersonaRepository(db *gorm.DB) repository.PersonaRepository {
	return &personaRepositoryImpl{db: db}
}

func (r *personaRepositoryImpl) GetByName(ctx context.Context, name string) (*entity.Persona, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var persona entity.Persona
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&persona).Error
	if err == nil {
		return &persona, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *personaRepositoryImpl) GetByID(ctx context.Context, id int64) (*entity.Persona, error) {
	var persona entity.Persona
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&persona).Error
	if err == nil {
		return &persona, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *personaRepositoryImpl) Create(ctx context.Context, persona *entity.Persona) error {
	return r.db.WithContext(ctx).Create(persona).Error
}

func (r *personaRepositoryImpl) Update(ctx context.Context, persona *entity.Persona) error {
	return r.db.WithContext(ctx).Save(persona).Error
}

func (r *personaRepositoryImpl) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&entity.Persona{}).Error
}

func (r *personaRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*entity.Persona, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var personas []*entity.Persona
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&personas).Error
	return personas, err
}
