package service

import (
	"context"
	"strings"
	"time"

	botRepository "PersonaLab/internal/modules/bot/domain/repository"
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	chatRespond "PersonaLab/internal/modules/chat/application/dto/respond"
	chatRepository "PersonaLab/internal/modules/chat/domain/repository"
	"PersonaLab/internal/modules/chat/infrastructure/cache"
	"PersonaLab/internal/modules/chat/infrastructure/delivery"
	"PersonaLab/internal/modules/chat/infrastructure/pipeline"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

const (
	followupCooldown = 30 * time.Second
	// 一次性标记的兜底过期时间，正常情况下由下一条用户消息清除
	followupOnceTTL = time.Hour
)

type FollowupService interface {
	// MaybeFollowUp 条件满足时生成跟进消息；reason 非空表示本次未触发及其原因
	MaybeFollowUp(ctx context.Context, req chatRequest.FollowupRequest) (*chatRespond.FollowupRespond, string, error)
	Reset(ctx context.Context, conversationId string) (*chatRespond.FollowupResetRespond, error)
}

type followupServiceImpl struct {
	botRepo  botRepository.BotRepository
	convRepo chatRepository.ConversationRepository
	uttRepo  chatRepository.UtteranceRepository
	cache    cache.Cache
	turns    TurnExecutor
	planner  *delivery.Planner
	now      func() time.Time
}

func NewFollowupService(
	botRepo botRepository.BotRepository,
	convRepo chatRepository.ConversationRepository,
	uttRepo chatRepository.UtteranceRepository,
	c cache.Cache,
	turns TurnExecutor,
	planner *delivery.Planner,
) FollowupService {
	return &followupServiceImpl{
		botRepo:  botRepo,
		convRepo: convRepo,
		uttRepo:  uttRepo,
		cache:    c,
		turns:    turns,
		planner:  planner,
		now:      time.Now,
	}
}

func (s *followupServiceImpl) MaybeFollowUp(ctx context.Context, req chatRequest.FollowupRequest) (*chatRespond.FollowupRespond, string, error) {
	if strings.TrimSpace(req.BotName) == "" || strings.TrimSpace(req.ConversationId) == "" {
		return nil, "", xerr.New(xerr.BadRequest, "bot_name 与 conversation_id 为必填")
	}

	bot, err := s.botRepo.GetByName(ctx, req.BotName)
	if err != nil {
		zlog.Error("查询机器人失败", zap.Error(err))
		return nil, "", xerr.ErrServerError
	}
	if bot == nil {
		return nil, "", xerr.New(xerr.NotFound, "机器人 "+req.BotName+" 不存在")
	}

	if !bot.FollowUpOnIdle {
		return nil, "Follow-up not enabled for this bot", nil
	}
	if strings.TrimSpace(bot.FollowUpInstructionPrompt) == "" {
		return nil, "No follow-up instruction prompt configured", nil
	}

	conversation, err := s.convRepo.GetByConversationId(ctx, req.ConversationId)
	if err != nil {
		zlog.Error("查询会话失败", zap.Error(err))
		return nil, "", xerr.ErrServerError
	}
	if conversation == nil {
		return nil, "", xerr.New(xerr.NotFound, "会话不存在，请先初始化")
	}

	idle, err := s.isUserIdle(ctx, conversation.Id, bot.IdleTimeMinutes)
	if err != nil {
		return nil, "", err
	}
	if !idle {
		return nil, "User is not idle", nil
	}

	// 非循环跟进：同一空闲期只发一次
	if !bot.RecurringFollowup {
		sent, eerr := s.cache.Exists(ctx, pipeline.FollowupOnceKey(req.ConversationId))
		if eerr != nil {
			return nil, "", eerr
		}
		if sent {
			return nil, "Follow-up already sent for this idle period (recurring disabled)", nil
		}
	}

	// 短冷却窗口防连发，SetNX 抢占即占位
	acquired, err := s.cache.SetNX(ctx, pipeline.FollowupCooldownKey(req.ConversationId), "1", followupCooldown)
	if err != nil {
		return nil, "", err
	}
	if !acquired {
		return nil, "Follow-up was recently sent, please wait", nil
	}

	if !bot.RecurringFollowup {
		if serr := s.cache.Set(ctx, pipeline.FollowupOnceKey(req.ConversationId), "1", followupOnceTTL); serr != nil {
			zlog.Warn("写入一次性跟进标记失败", zap.Error(serr))
		}
	}

	instruction := pipeline.FollowupMarker + bot.FollowUpInstructionPrompt
	result, err := s.turns.Execute(ctx, &pipeline.TurnRequest{
		BotName:         req.BotName,
		ConversationId:  req.ConversationId,
		ParticipantId:   req.ParticipantId,
		Message:         instruction,
		SkipUserPersist: true,
	})
	if err != nil {
		return nil, "", err
	}
	if result.Err != nil {
		return nil, "", result.Err
	}

	chunks := []string{result.Reply}
	if bot.ChunkMessages {
		chunks = delivery.HumanLikeChunks(result.Reply)
	}
	// 跟进没有入站用户消息，阅读时长按空消息计
	plan := s.planner.Plan(delivery.DelayConfigFromBot(bot), "", chunks)

	return &chatRespond.FollowupRespond{
		Response:       result.Reply,
		ResponseChunks: chunks,
		BotName:        bot.Name,
		HumanlikeDelay: bot.HumanlikeDelay,
		ChunkMessages:  bot.ChunkMessages,
		DelayConfig:    plan,
	}, "", nil
}

// Reset 清除一次性标记，恢复跟进资格
func (s *followupServiceImpl) Reset(ctx context.Context, conversationId string) (*chatRespond.FollowupResetRespond, error) {
	if strings.TrimSpace(conversationId) == "" {
		return nil, xerr.New(xerr.BadRequest, "conversation_id 为必填")
	}
	if err := s.cache.Del(ctx, pipeline.FollowupOnceKey(conversationId)); err != nil {
		return nil, err
	}
	return &chatRespond.FollowupResetRespond{Status: "Followup flag reset"}, nil
}

// isUserIdle 以最近一条用户发言判定空闲。从无用户发言视为不空闲
func (s *followupServiceImpl) isUserIdle(ctx context.Context, conversationDBId int64, idleMinutes int) (bool, error) {
	last, err := s.uttRepo.GetLastUserUtteranceTime(ctx, conversationDBId)
	if err != nil {
		zlog.Error("查询最近用户发言失败", zap.Error(err))
		return false, xerr.ErrServerError
	}
	if last.IsZero() {
		return false, nil
	}
	return s.now().Sub(last) > time.Duration(idleMinutes)*time.Minute, nil
}
