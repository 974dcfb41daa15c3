package history

import (
	"context"
	"time"

	"PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/domain/repository"
	"PersonaLab/internal/modules/chat/domain/transcript"
	"PersonaLab/internal/modules/chat/infrastructure/cache"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

const (
	keyPrefix = "conversation_cache_"
	windowTTL = time.Hour
)

// Key 会话窗口缓存键
func Key(conversationId string) string {
	return keyPrefix + conversationId
}

// Store 会话历史窗口。缓存是快路径，数据库发言表随时可完整重建
type Store struct {
	cache      cache.Cache
	utterances repository.UtteranceRepository
}

func NewStore(c cache.Cache, utterances repository.UtteranceRepository) *Store {
	return &Store{cache: c, utterances: utterances}
}

// Load 取完整历史窗口，缓存未命中或损坏时从发言表重建并回填
func (s *Store) Load(ctx context.Context, conversation *entity.Conversation) ([]transcript.Entry, error) {
	raw, err := s.cache.Get(ctx, Key(conversation.ConversationId))
	if err == nil {
		window, uerr := transcript.UnmarshalWindow(raw)
		if uerr == nil {
			return window, nil
		}
		zlog.Warn("历史窗口缓存损坏，走重建",
			zap.String("conversation_id", conversation.ConversationId),
			zap.Error(uerr))
	} else if err != cache.ErrMiss {
		return nil, err
	}

	return s.rebuild(ctx, conversation)
}

// Replace 以给定窗口整体覆盖缓存并续期。调用方在本轮落库前 Load 出的
// 完整窗口加上新增发言，整体写回，避免落库后再重建造成的重复计入
func (s *Store) Replace(ctx context.Context, conversationId string, window []transcript.Entry) error {
	return s.save(ctx, conversationId, window)
}

// Invalidate 丢弃缓存窗口，下次读取时重建
func (s *Store) Invalidate(ctx context.Context, conversationId string) error {
	return s.cache.Del(ctx, Key(conversationId))
}

func (s *Store) rebuild(ctx context.Context, conversation *entity.Conversation) ([]transcript.Entry, error) {
	utterances, err := s.utterances.ListByConversation(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}

	window := make([]transcript.Entry, 0, len(utterances))
	for _, u := range utterances {
		switch u.SpeakerId {
		case entity.SpeakerUser:
			window = append(window, transcript.Entry{Role: transcript.RoleUser, Content: u.Text})
		case entity.SpeakerAssistant:
			window = append(window, transcript.Entry{Role: transcript.RoleAssistant, Content: u.Text})
		}
	}

	if err := s.save(ctx, conversation.ConversationId, window); err != nil {
		// 回填失败不阻断本轮对话
		zlog.Warn("历史窗口回填缓存失败",
			zap.String("conversation_id", conversation.ConversationId),
			zap.Error(err))
	}
	return window, nil
}

func (s *Store) save(ctx context.Context, conversationId string, window []transcript.Entry) error {
	raw, err := transcript.MarshalWindow(window)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, Key(conversationId), raw, windowTTL)
}
