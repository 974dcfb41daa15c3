package persistence

import (
	"context"
	"time"

	"PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/domain/repository"

	"gorm.io/gorm"
)

type conversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &conversationRepositoryImpl{db: db}
}

func (r *conversationRepositoryImpl) GetByConversationId(ctx context.Context, conversationId string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := r.db.WithContext(ctx).
		Preload("SelectedPersona").
		Where("conversation_id = ?", conversationId).
		Take(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *conversationRepositoryImpl) Create(ctx context.Context, conversation *entity.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *conversationRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*entity.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var conversations []*entity.Conversation
	err := r.db.WithContext(ctx).
		Order("started_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error
	return conversations, err
}

func (r *conversationRepositoryImpl) ListStartedSince(ctx context.Context, since time.Time, limit int) ([]*entity.Conversation, error) {
	if limit <= 0 {
		limit = 200
	}

	var conversations []*entity.Conversation
	err := r.db.WithContext(ctx).
		Where("started_time >= ?", since).
		Order("started_time DESC").
		Limit(limit).
		Find(&conversations).Error
	return conversations, err
}
