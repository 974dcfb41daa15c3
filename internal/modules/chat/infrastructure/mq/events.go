package mq

import (
	"context"
	"encoding/json"
	"time"

	"PersonaLab/pkg/util"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

// TurnEvent 一轮对话落库后对外投递的事件，供研究侧离线消费
type TurnEvent struct {
	EventId        string    `json:"event_id"`
	ConversationId string    `json:"conversation_id"`
	BotName        string    `json:"bot_name"`
	Kind           string    `json:"kind"` // chat / followup / blocked
	UserText       string    `json:"user_text,omitempty"`
	AssistantText  string    `json:"assistant_text"`
	Provider       string    `json:"provider,omitempty"`
	Model          string    `json:"model,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

const (
	TurnKindChat     = "chat"
	TurnKindFollowup = "followup"
	TurnKindBlocked  = "blocked"
)

// TurnEventPublisher kafka 可选，未配置时为空实现，主链路不受影响
type TurnEventPublisher struct {
	publisher Publisher
	topic     string
}

func NewTurnEventPublisher(publisher Publisher, topic string) *TurnEventPublisher {
	return &TurnEventPublisher{publisher: publisher, topic: topic}
}

// PublishTurn 尽力投递，失败只记日志不回传错误
func (p *TurnEventPublisher) PublishTurn(ctx context.Context, event TurnEvent) {
	if p == nil || p.publisher == nil || p.topic == "" {
		return
	}

	if event.EventId == "" {
		event.EventId = util.GenerateUUID()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		zlog.Warn("轮次事件序列化失败", zap.Error(err))
		return
	}

	if _, err := p.publisher.Publish(ctx, Message{
		Topic: p.topic,
		Key:   []byte(event.ConversationId),
		Value: payload,
	}); err != nil {
		zlog.Warn("轮次事件投递失败",
			zap.String("conversation_id", event.ConversationId),
			zap.Error(err))
	}
}
