package persistence

import (
	"context"
	"time"

	"PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/domain/repository"

	"gorm.io/gorm"
)

type utteranceRepositoryImpl struct {
	db *gorm.DB
}

func NewUtteranceRepository(db *gorm.DB) repository.UtteranceRepository {
	return &utteranceRepositoryImpl{db: db}
}

func (r *utteranceRepositoryImpl) Create(ctx context.Context, utterance *entity.Utterance) error {
	return r.db.WithContext(ctx).Create(utterance).Error
}

func (r *utteranceRepositoryImpl) ListByConversation(ctx context.Context, conversationDBId int64) ([]*entity.Utterance, error) {
	var utterances []*entity.Utterance
	err := r.db.WithContext(ctx).
		Where("conversation_db_id = ?", conversationDBId).
		Order("created_time ASC").
		Find(&utterances).Error
	return utterances, err
}

func (r *utteranceRepositoryImpl) GetLastUserUtteranceTime(ctx context.Context, conversationDBId int64) (time.Time, error) {
	var utterance entity.Utterance
	err := r.db.WithContext(ctx).
		Where("conversation_db_id = ? AND speaker_id = ?", conversationDBId, entity.SpeakerUser).
		Order("created_time DESC").
		Take(&utterance).Error
	if err == nil {
		return utterance.CreatedTime, nil
	}
	if err == gorm.ErrRecordNotFound {
		return time.Time{}, nil
	}
	return time.Time{}, err
}
