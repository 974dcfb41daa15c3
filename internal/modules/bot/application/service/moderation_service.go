package service

import (
	"context"

	botRespond "PersonaLab/internal/modules/bot/application/dto/respond"
	"PersonaLab/internal/modules/bot/domain/repository"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

// ModerationService 全局审核开关，关闭后所有入站消息直接放行
type ModerationService interface {
	Status(ctx context.Context) (*botRespond.ModerationStatusRespond, error)
	SetEnabled(ctx context.Context, enabled bool) (*botRespond.ModerationStatusRespond, error)
}

type moderationServiceImpl struct {
	settings repository.ModerationSettingRepository
}

func NewModerationService(settings repository.ModerationSettingRepository) ModerationService {
	return &moderationServiceImpl{settings: settings}
}

func (s *moderationServiceImpl) Status(ctx context.Context) (*botRespond.ModerationStatusRespond, error) {
	enabled, err := s.settings.IsEnabled(ctx)
	if err != nil {
		zlog.Error("查询审核开关失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return &botRespond.ModerationStatusRespond{Enabled: enabled}, nil
}

func (s *moderationServiceImpl) SetEnabled(ctx context.Context, enabled bool) (*botRespond.ModerationStatusRespond, error) {
	if err := s.settings.SetEnabled(ctx, enabled); err != nil {
		zlog.Error("更新审核开关失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return &botRespond.ModerationStatusRespond{Enabled: enabled}, nil
}
