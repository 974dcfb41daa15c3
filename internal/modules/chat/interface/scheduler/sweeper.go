package scheduler

import (
	"context"
	"fmt"
	"time"

	"PersonaLab/internal/config"
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	"PersonaLab/internal/modules/chat/application/service"
	"PersonaLab/internal/modules/chat/domain/repository"
	"PersonaLab/pkg/zlog"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// FollowupSweeper 定时扫描近期会话并尝试触发空闲跟进。
// HTTP 端点仍是主触发路径，轮询器兜底前端掉线的场景
type FollowupSweeper struct {
	cron     *cron.Cron
	convRepo repository.ConversationRepository
	followup service.FollowupService
	conf     config.SweeperConfig
}

func NewFollowupSweeper(
	convRepo repository.ConversationRepository,
	followup service.FollowupService,
	conf config.SweeperConfig,
) *FollowupSweeper {
	return &FollowupSweeper{
		cron:     cron.New(),
		convRepo: convRepo,
		followup: followup,
		conf:     conf,
	}
}

func (s *FollowupSweeper) Start() error {
	if !s.conf.Enabled {
		return nil
	}

	interval := s.conf.IntervalSeconds
	if interval <= 0 {
		interval = 60
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", interval), s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	zlog.Info("跟进轮询器已启动", zap.Int("intervalSeconds", interval))
	return nil
}

func (s *FollowupSweeper) Stop() {
	s.cron.Stop()
}

func (s *FollowupSweeper) sweep() {
	ctx := context.Background()

	lookback := s.conf.LookbackHours
	if lookback <= 0 {
		lookback = 24
	}
	since := time.Now().Add(-time.Duration(lookback) * time.Hour)

	conversations, err := s.convRepo.ListStartedSince(ctx, since, 200)
	if err != nil {
		zlog.Error("扫描近期会话失败", zap.Error(err))
		return
	}

	for _, conversation := range conversations {
		_, reason, err := s.followup.MaybeFollowUp(ctx, chatRequest.FollowupRequest{
			BotName:        conversation.BotName,
			ConversationId: conversation.ConversationId,
			ParticipantId:  conversation.ParticipantId,
		})
		if err != nil {
			zlog.Warn("跟进触发失败",
				zap.String("conversationId", conversation.ConversationId),
				zap.Error(err))
			continue
		}
		if reason == "" {
			zlog.Info("轮询触发跟进", zap.String("conversationId", conversation.ConversationId))
		}
	}
}
