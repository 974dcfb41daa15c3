package repository

import (
	"context"
	"time"

	"PersonaLab/internal/modules/chat/domain/entity"
)

type ConversationRepository interface {
	// GetByConversationId 按外部会话id取会话，带出选定人格
	GetByConversationId(ctx context.Context, conversationId string) (*entity.Conversation, error)
	Create(ctx context.Context, conversation *entity.Conversation) error
	List(ctx context.Context, limit, offset int) ([]*entity.Conversation, error)
	// ListStartedSince 返回指定时刻之后开始的会话，供空闲跟进轮询扫描
	ListStartedSince(ctx context.Context, since time.Time, limit int) ([]*entity.Conversation, error)
}

type UtteranceRepository interface {
	Create(ctx context.Context, utterance *entity.Utterance) error
	// ListByConversation 按创建时间升序取全部发言，历史重建以此为准
	ListByConversation(ctx context.Context, conversationDBId int64) ([]*entity.Utterance, error)
	// GetLastUserUtteranceTime 无用户发言时返回零值时间
	GetLastUserUtteranceTime(ctx context.Context, conversationDBId int64) (time.Time, error)
}

type KeystrokeRepository interface {
	Create(ctx context.Context, keystroke *entity.Keystroke) error
}
