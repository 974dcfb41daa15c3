package service

import (
	"context"
	"strings"

	botRequest "PersonaLab/internal/modules/bot/application/dto/request"
	botRespond "PersonaLab/internal/modules/bot/application/dto/respond"
	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

type PersonaService interface {
	Create(ctx context.Context, req botRequest.PersonaRequest) (*botRespond.PersonaRespond, error)
	Update(ctx context.Context, req botRequest.PersonaRequest) (*botRespond.PersonaRespond, error)
	Delete(ctx context.Context, name string) error
	Get(ctx context.Context, name string) (*botRespond.PersonaRespond, error)
	List(ctx context.Context, limit, offset int) ([]*botRespond.PersonaRespond, error)
}

type personaServiceImpl struct {
	personaRepo repository.PersonaRepository
}

func NewPersonaService(personaRepo repository.PersonaRepository) PersonaService {
	return &personaServiceImpl{personaRepo: personaRepo}
}

func (s *personaServiceImpl) Create(ctx context.Context, req botRequest.PersonaRequest) (*botRespond.PersonaRespond, error) {
	if err := validatePersonaRequest(req); err != nil {
		return nil, err
	}
	existing, err := s.personaRepo.GetByName(ctx, req.Name)
	if err != nil {
		zlog.Error("查询人格失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if existing != nil {
		return nil, xerr.New(xerr.Conflict, "人格 "+req.Name+" 已存在")
	}

	persona := &entity.Persona{Name: req.Name, Instructions: req.Instructions}
	if err := s.personaRepo.Create(ctx, persona); err != nil {
		zlog.Error("创建人格失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return toPersonaRespond(persona), nil
}

func (s *personaServiceImpl) Update(ctx context.Context, req botRequest.PersonaRequest) (*botRespond.PersonaRespond, error) {
	if err := validatePersonaRequest(req); err != nil {
		return nil, err
	}
	persona, err := s.personaRepo.GetByName(ctx, req.Name)
	if err != nil {
		zlog.Error("查询人格失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if persona == nil {
		return nil, xerr.New(xerr.NotFound, "人格 "+req.Name+" 不存在")
	}

	persona.Instructions = req.Instructions
	if err := s.personaRepo.Update(ctx, persona); err != nil {
		zlog.Error("更新人格失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return toPersonaRespond(persona), nil
}

func (s *personaServiceImpl) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return xerr.New(xerr.BadRequest, "name 为必填")
	}
	if err := s.personaRepo.Delete(ctx, name); err != nil {
		zlog.Error("删除人格失败", zap.Error(err))
		return xerr.ErrServerError
	}
	return nil
}

func (s *personaServiceImpl) Get(ctx context.Context, name string) (*botRespond.PersonaRespond, error) {
	persona, err := s.personaRepo.GetByName(ctx, name)
	if err != nil {
		zlog.Error("查询人格失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if persona == nil {
		return nil, xerr.New(xerr.NotFound, "人格 "+name+" 不存在")
	}
	return toPersonaRespond(persona), nil
}

func (s *personaServiceImpl) List(ctx context.Context, limit, offset int) ([]*botRespond.PersonaRespond, error) {
	personas, err := s.personaRepo.List(ctx, limit, offset)
	if err != nil {
		zlog.Error("查询人格列表失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	out := make([]*botRespond.PersonaRespond, 0, len(personas))
	for _, p := range personas {
		out = append(out, toPersonaRespond(p))
	}
	return out, nil
}

func validatePersonaRequest(req botRequest.PersonaRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return xerr.New(xerr.BadRequest, "name 为必填")
	}
	if strings.TrimSpace(req.Instructions) == "" {
		return xerr.New(xerr.BadRequest, "instructions 为必填")
	}
	return nil
}

func toPersonaRespond(persona *entity.Persona) *botRespond.PersonaRespond {
	return &botRespond.PersonaRespond{
		Id:           persona.Id,
		Name:         persona.Name,
		Instructions: persona.Instructions,
	}
}
