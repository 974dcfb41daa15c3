package service

import (
	"context"
	"strings"

	botRequest "PersonaLab/internal/modules/bot/application/dto/request"
	botRespond "PersonaLab/internal/modules/bot/application/dto/respond"
	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"
	"PersonaLab/internal/modules/chat/infrastructure/delivery"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

type BotService interface {
	Create(ctx context.Context, req botRequest.BotRequest) (*botRespond.BotRespond, error)
	Update(ctx context.Context, req botRequest.BotRequest) (*botRespond.BotRespond, error)
	Delete(ctx context.Context, name string) error
	Get(ctx context.Context, name string) (*botRespond.BotRespond, error)
	List(ctx context.Context, limit, offset int) ([]*botRespond.BotRespond, error)
}

type botServiceImpl struct {
	botRepo     repository.BotRepository
	personaRepo repository.PersonaRepository
	modelRepo   repository.ModelRepository
}

func NewBotService(
	botRepo repository.BotRepository,
	personaRepo repository.PersonaRepository,
	modelRepo repository.ModelRepository,
) BotService {
	return &botServiceImpl{botRepo: botRepo, personaRepo: personaRepo, modelRepo: modelRepo}
}

func (s *botServiceImpl) Create(ctx context.Context, req botRequest.BotRequest) (*botRespond.BotRespond, error) {
	if err := validateBotRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.botRepo.GetByName(ctx, req.Name)
	if err != nil {
		zlog.Error("查询机器人失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if existing != nil {
		return nil, xerr.New(xerr.Conflict, "机器人 "+req.Name+" 已存在")
	}

	model, err := s.resolveModel(ctx, req.Provider, req.ModelId)
	if err != nil {
		return nil, err
	}
	personaIDs, err := s.resolvePersonas(ctx, req.PersonaNames)
	if err != nil {
		return nil, err
	}

	bot := &entity.Bot{}
	applyBotRequest(bot, req, model)
	if err := s.botRepo.Create(ctx, bot); err != nil {
		zlog.Error("创建机器人失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if err := s.applyRelations(ctx, bot, personaIDs, req.ModerationThresholds); err != nil {
		return nil, err
	}
	return s.Get(ctx, req.Name)
}

func (s *botServiceImpl) Update(ctx context.Context, req botRequest.BotRequest) (*botRespond.BotRespond, error) {
	if err := validateBotRequest(req); err != nil {
		return nil, err
	}

	bot, err := s.botRepo.GetByName(ctx, req.Name)
	if err != nil {
		zlog.Error("查询机器人失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if bot == nil {
		return nil, xerr.New(xerr.NotFound, "机器人 "+req.Name+" 不存在")
	}

	model, err := s.resolveModel(ctx, req.Provider, req.ModelId)
	if err != nil {
		return nil, err
	}
	personaIDs, err := s.resolvePersonas(ctx, req.PersonaNames)
	if err != nil {
		return nil, err
	}

	applyBotRequest(bot, req, model)
	bot.AIModel = entity.AIModel{} // 关联对象不随 Save 回写
	if err := s.botRepo.Update(ctx, bot); err != nil {
		zlog.Error("更新机器人失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if err := s.applyRelations(ctx, bot, personaIDs, req.ModerationThresholds); err != nil {
		return nil, err
	}
	return s.Get(ctx, req.Name)
}

func (s *botServiceImpl) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return xerr.New(xerr.BadRequest, "name 为必填")
	}
	if err := s.botRepo.Delete(ctx, name); err != nil {
		zlog.Error("删除机器人失败", zap.Error(err))
		return xerr.ErrServerError
	}
	return nil
}

func (s *botServiceImpl) Get(ctx context.Context, name string) (*botRespond.BotRespond, error) {
	bot, err := s.botRepo.GetByName(ctx, name)
	if err != nil {
		zlog.Error("查询机器人失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if bot == nil {
		return nil, xerr.New(xerr.NotFound, "机器人 "+name+" 不存在")
	}
	return toBotRespond(bot), nil
}

func (s *botServiceImpl) List(ctx context.Context, limit, offset int) ([]*botRespond.BotRespond, error) {
	bots, err := s.botRepo.List(ctx, limit, offset)
	if err != nil {
		zlog.Error("查询机器人列表失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	out := make([]*botRespond.BotRespond, 0, len(bots))
	for _, b := range bots {
		out = append(out, toBotRespond(b))
	}
	return out, nil
}

// validateBotRequest 配置错误在保存时就拒绝，不留到会话运行时
func validateBotRequest(req botRequest.BotRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return xerr.New(xerr.BadRequest, "name 为必填")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return xerr.New(xerr.BadRequest, "prompt 为必填")
	}
	if strings.TrimSpace(req.Provider) == "" || strings.TrimSpace(req.ModelId) == "" {
		return xerr.New(xerr.BadRequest, "provider 与 model_id 为必填")
	}
	if req.FollowUpOnIdle && strings.TrimSpace(req.FollowUpInstructionPrompt) == "" {
		return xerr.New(xerr.BadRequest, "启用空闲跟进时必须配置 follow_up_instruction_prompt")
	}
	if req.IdleTimeMinutes != nil && *req.IdleTimeMinutes <= 0 {
		return xerr.New(xerr.BadRequest, "idle_time_minutes 必须为正数")
	}
	for category, threshold := range req.ModerationThresholds {
		if strings.TrimSpace(category) == "" {
			return xerr.New(xerr.BadRequest, "审核类别不能为空")
		}
		if threshold < 0 || threshold > 1 {
			return xerr.New(xerr.BadRequest, "审核阈值必须在 [0, 1] 区间："+category)
		}
	}
	return nil
}

func (s *botServiceImpl) resolveModel(ctx context.Context, provider, modelID string) (*entity.AIModel, error) {
	model, err := s.modelRepo.GetModel(ctx, provider, modelID)
	if err != nil {
		zlog.Error("查询模型失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if model == nil {
		return nil, xerr.New(xerr.NotFound, "模型 "+provider+"/"+modelID+" 未登记")
	}
	return model, nil
}

func (s *botServiceImpl) resolvePersonas(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		persona, err := s.personaRepo.GetByName(ctx, name)
		if err != nil {
			zlog.Error("查询人格失败", zap.Error(err))
			return nil, xerr.ErrServerError
		}
		if persona == nil {
			return nil, xerr.New(xerr.NotFound, "人格 "+name+" 不存在")
		}
		ids = append(ids, persona.Id)
	}
	return ids, nil
}

func (s *botServiceImpl) applyRelations(ctx context.Context, bot *entity.Bot, personaIDs []int64, thresholds map[string]float64) error {
	if err := s.botRepo.ReplacePersonas(ctx, bot, personaIDs); err != nil {
		zlog.Error("更新机器人人格关联失败", zap.Error(err))
		return xerr.ErrServerError
	}
	rows := make([]entity.BotModerationThreshold, 0, len(thresholds))
	for category, threshold := range thresholds {
		rows = append(rows, entity.BotModerationThreshold{BotId: bot.Id, Category: category, Threshold: threshold})
	}
	if err := s.botRepo.ReplaceThresholds(ctx, bot.Id, rows); err != nil {
		zlog.Error("更新机器人审核阈值失败", zap.Error(err))
		return xerr.ErrServerError
	}
	return nil
}

func applyBotRequest(bot *entity.Bot, req botRequest.BotRequest, model *entity.AIModel) {
	def := delivery.DefaultDelayConfig()

	bot.Name = req.Name
	bot.Prompt = req.Prompt
	bot.AIModelId = model.Id
	bot.InitialUtterance = req.InitialUtterance
	bot.AvatarType = orDefault(req.AvatarType, "none")

	bot.ChunkMessages = boolOr(req.ChunkMessages, true)
	bot.HumanlikeDelay = boolOr(req.HumanlikeDelay, true)

	bot.ReadingWordsPerMinute = floatOr(req.Delay.ReadingWordsPerMinute, def.ReadingWordsPerMinute)
	bot.ReadingJitterMin = floatOr(req.Delay.ReadingJitterMin, def.ReadingJitterMin)
	bot.ReadingJitterMax = floatOr(req.Delay.ReadingJitterMax, def.ReadingJitterMax)
	bot.ReadingThinkingMin = floatOr(req.Delay.ReadingThinkingMin, def.ReadingThinkingMin)
	bot.ReadingThinkingMax = floatOr(req.Delay.ReadingThinkingMax, def.ReadingThinkingMax)
	bot.WritingWordsPerMinute = floatOr(req.Delay.WritingWordsPerMinute, def.WritingWordsPerMinute)
	bot.WritingJitterMin = floatOr(req.Delay.WritingJitterMin, def.WritingJitterMin)
	bot.WritingJitterMax = floatOr(req.Delay.WritingJitterMax, def.WritingJitterMax)
	bot.WritingThinkingMin = floatOr(req.Delay.WritingThinkingMin, def.WritingThinkingMin)
	bot.WritingThinkingMax = floatOr(req.Delay.WritingThinkingMax, def.WritingThinkingMax)
	bot.IntraMessageDelayMin = floatOr(req.Delay.IntraMessageDelayMin, def.IntraMessageDelayMin)
	bot.IntraMessageDelayMax = floatOr(req.Delay.IntraMessageDelayMax, def.IntraMessageDelayMax)
	bot.MinReadingDelay = floatOr(req.Delay.MinReadingDelay, def.MinReadingDelay)

	bot.FollowUpOnIdle = req.FollowUpOnIdle
	bot.IdleTimeMinutes = intOr(req.IdleTimeMinutes, 2)
	bot.FollowUpInstructionPrompt = req.FollowUpInstructionPrompt
	bot.RecurringFollowup = req.RecurringFollowup
	bot.MaxTranscriptLength = intOr(req.MaxTranscriptLength, 0)
}

func toBotRespond(bot *entity.Bot) *botRespond.BotRespond {
	personaNames := make([]string, 0, len(bot.Personas))
	for _, p := range bot.Personas {
		personaNames = append(personaNames, p.Name)
	}
	thresholds := make(map[string]float64, len(bot.Thresholds))
	for _, t := range bot.Thresholds {
		thresholds[t.Category] = t.Threshold
	}
	return &botRespond.BotRespond{
		Id:                        bot.Id,
		Name:                      bot.Name,
		Prompt:                    bot.Prompt,
		Provider:                  bot.AIModel.Provider.Name,
		ModelId:                   bot.AIModel.ModelId,
		InitialUtterance:          bot.InitialUtterance,
		AvatarType:                bot.AvatarType,
		ChunkMessages:             bot.ChunkMessages,
		HumanlikeDelay:            bot.HumanlikeDelay,
		FollowUpOnIdle:            bot.FollowUpOnIdle,
		IdleTimeMinutes:           bot.IdleTimeMinutes,
		FollowUpInstructionPrompt: bot.FollowUpInstructionPrompt,
		RecurringFollowup:         bot.RecurringFollowup,
		MaxTranscriptLength:       bot.MaxTranscriptLength,
		PersonaNames:              personaNames,
		ModerationThresholds:      thresholds,
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
