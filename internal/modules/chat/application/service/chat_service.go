package service

import (
	"context"
	"strings"

	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	chatRespond "PersonaLab/internal/modules/chat/application/dto/respond"
	"PersonaLab/internal/modules/chat/infrastructure/delivery"
	"PersonaLab/internal/modules/chat/infrastructure/pipeline"
	"PersonaLab/pkg/xerr"
)

type ChatService interface {
	Chat(ctx context.Context, req chatRequest.ChatRequest) (*chatRespond.ChatRespond, error)
}

// TurnExecutor 轮次编排入口，*pipeline.TurnPipeline 即实现
type TurnExecutor interface {
	Execute(ctx context.Context, req *pipeline.TurnRequest) (*pipeline.TurnResult, error)
}

type chatServiceImpl struct {
	turns   TurnExecutor
	planner *delivery.Planner
}

func NewChatService(turns TurnExecutor, planner *delivery.Planner) ChatService {
	return &chatServiceImpl{turns: turns, planner: planner}
}

func (s *chatServiceImpl) Chat(ctx context.Context, req chatRequest.ChatRequest) (*chatRespond.ChatRespond, error) {
	if strings.TrimSpace(req.Message) == "" ||
		strings.TrimSpace(req.BotName) == "" ||
		strings.TrimSpace(req.ConversationId) == "" {
		return nil, xerr.New(xerr.BadRequest, "message、bot_name、conversation_id 为必填")
	}

	result, err := s.turns.Execute(ctx, &pipeline.TurnRequest{
		BotName:        req.BotName,
		ConversationId: req.ConversationId,
		ParticipantId:  req.ParticipantId,
		Message:        req.Message,
	})
	if err != nil {
		return nil, err
	}
	if result.Err != nil {
		return nil, result.Err
	}

	bot := result.Bot
	chunks := []string{result.Reply}
	if bot.ChunkMessages {
		chunks = delivery.HumanLikeChunks(result.Reply)
	}
	plan := s.planner.Plan(delivery.DelayConfigFromBot(bot), req.Message, chunks)

	return &chatRespond.ChatRespond{
		Message:        req.Message,
		Response:       result.Reply,
		ResponseChunks: chunks,
		BotName:        bot.Name,
		HumanlikeDelay: bot.HumanlikeDelay,
		ChunkMessages:  bot.ChunkMessages,
		DelayConfig:    plan,
	}, nil
}
