package service

import (
	"context"
	"strings"
	"time"

	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	chatEntity "PersonaLab/internal/modules/chat/domain/entity"
	chatRepository "PersonaLab/internal/modules/chat/domain/repository"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

type KeystrokeService interface {
	Record(ctx context.Context, req chatRequest.KeystrokeRequest) error
}

type keystrokeServiceImpl struct {
	keystrokeRepo chatRepository.KeystrokeRepository
}

func NewKeystrokeService(keystrokeRepo chatRepository.KeystrokeRepository) KeystrokeService {
	return &keystrokeServiceImpl{keystrokeRepo: keystrokeRepo}
}

// Record 纯埋点，不校验会话是否存在
func (s *keystrokeServiceImpl) Record(ctx context.Context, req chatRequest.KeystrokeRequest) error {
	if strings.TrimSpace(req.ConversationId) == "" {
		return xerr.New(xerr.BadRequest, "conversation_id 为必填")
	}

	err := s.keystrokeRepo.Create(ctx, &chatEntity.Keystroke{
		ConversationId:        req.ConversationId,
		TotalTimeOnPage:       req.TotalTimeOnPage,
		TotalTimeAwayFromPage: req.TotalTimeAwayFromPage,
		KeystrokeCount:        req.KeystrokeCount,
		Timestamp:             time.Now(),
	})
	if err != nil {
		zlog.Error("键击数据保存失败", zap.Error(err))
		return xerr.ErrServerError
	}
	return nil
}
