package service

import (
	"context"

	botRespond "PersonaLab/internal/modules/bot/application/dto/respond"
	"PersonaLab/internal/modules/bot/domain/repository"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

// CatalogService 暴露可选的供应商与模型目录，供管理端下拉选择
type CatalogService interface {
	ListProviders(ctx context.Context) ([]*botRespond.ProviderRespond, error)
	ListModels(ctx context.Context, providerName string) ([]*botRespond.ModelRespond, error)
}

type catalogServiceImpl struct {
	modelRepo repository.ModelRepository
}

func NewCatalogService(modelRepo repository.ModelRepository) CatalogService {
	return &catalogServiceImpl{modelRepo: modelRepo}
}

func (s *catalogServiceImpl) ListProviders(ctx context.Context) ([]*botRespond.ProviderRespond, error) {
	providers, err := s.modelRepo.ListProviders(ctx)
	if err != nil {
		zlog.Error("查询供应商目录失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	out := make([]*botRespond.ProviderRespond, 0, len(providers))
	for _, p := range providers {
		out = append(out, &botRespond.ProviderRespond{
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Description: p.Description,
		})
	}
	return out, nil
}

func (s *catalogServiceImpl) ListModels(ctx context.Context, providerName string) ([]*botRespond.ModelRespond, error) {
	models, err := s.modelRepo.ListModels(ctx, providerName)
	if err != nil {
		zlog.Error("查询模型目录失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	out := make([]*botRespond.ModelRespond, 0, len(models))
	for _, m := range models {
		out = append(out, &botRespond.ModelRespond{
			Provider:     m.Provider.Name,
			ModelId:      m.ModelId,
			DisplayName:  m.DisplayName,
			Description:  m.Description,
			Capabilities: m.Capabilities,
		})
	}
	return out, nil
}
