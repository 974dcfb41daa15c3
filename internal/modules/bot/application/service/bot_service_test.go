package service

import (
	"context"
	"testing"

	botRequest "PersonaLab/internal/modules/bot/application/dto/request"
	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/pkg/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotRepo struct {
	bots       map[string]*entity.Bot
	thresholds map[int64][]entity.BotModerationThreshold
	nextID     int64
}

func newFakeBotRepo() *fakeBotRepo {
	return &fakeBotRepo{
		bots:       make(map[string]*entity.Bot),
		thresholds: make(map[int64][]entity.BotModerationThreshold),
		nextID:     1,
	}
}

func (f *fakeBotRepo) GetByName(_ context.Context, name string) (*entity.Bot, error) {
	b, ok := f.bots[name]
	if !ok {
		return nil, nil
	}
	b.Thresholds = f.thresholds[b.Id]
	return b, nil
}

func (f *fakeBotRepo) Create(_ context.Context, bot *entity.Bot) error {
	bot.Id = f.nextID
	f.nextID++
	f.bots[bot.Name] = bot
	return nil
}

func (f *fakeBotRepo) Update(_ context.Context, bot *entity.Bot) error {
	f.bots[bot.Name] = bot
	return nil
}

func (f *fakeBotRepo) Delete(_ context.Context, name string) error {
	delete(f.bots, name)
	return nil
}

func (f *fakeBotRepo) List(_ context.Context, _, _ int) ([]*entity.Bot, error) {
	out := make([]*entity.Bot, 0, len(f.bots))
	for _, b := range f.bots {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBotRepo) ReplaceThresholds(_ context.Context, botID int64, rows []entity.BotModerationThreshold) error {
	f.thresholds[botID] = rows
	return nil
}

func (f *fakeBotRepo) ReplacePersonas(_ context.Context, bot *entity.Bot, personaIDs []int64) error {
	bot.Personas = bot.Personas[:0]
	for _, id := range personaIDs {
		bot.Personas = append(bot.Personas, entity.Persona{Id: id})
	}
	return nil
}

type fakePersonaRepo struct {
	personas map[string]*entity.Persona
}

func (f *fakePersonaRepo) GetByName(_ context.Context, name string) (*entity.Persona, error) {
	return f.personas[name], nil
}
func (f *fakePersonaRepo) GetByID(_ context.Context, _ int64) (*entity.Persona, error) {
	return nil, nil
}
func (f *fakePersonaRepo) Create(_ context.Context, _ *entity.Persona) error { return nil }
func (f *fakePersonaRepo) Update(_ context.Context, _ *entity.Persona) error { return nil }
func (f *fakePersonaRepo) Delete(_ context.Context, _ string) error          { return nil }
func (f *fakePersonaRepo) List(_ context.Context, _, _ int) ([]*entity.Persona, error) {
	return nil, nil
}

type fakeModelRepo struct {
	models map[string]*entity.AIModel
}

func modelKey(provider, modelID string) string { return provider + "/" + modelID }

func (f *fakeModelRepo) GetModel(_ context.Context, providerName, modelID string) (*entity.AIModel, error) {
	return f.models[modelKey(providerName, modelID)], nil
}
func (f *fakeModelRepo) ListProviders(_ context.Context) ([]*entity.ModelProvider, error) {
	return nil, nil
}
func (f *fakeModelRepo) ListModels(_ context.Context, _ string) ([]*entity.AIModel, error) {
	return nil, nil
}
func (f *fakeModelRepo) SaveProvider(_ context.Context, _ *entity.ModelProvider) error { return nil }
func (f *fakeModelRepo) SaveModel(_ context.Context, _ *entity.AIModel) error          { return nil }

func newBotServiceFixture() (BotService, *fakeBotRepo) {
	botRepo := newFakeBotRepo()
	personaRepo := &fakePersonaRepo{personas: map[string]*entity.Persona{
		"cheerful": {Id: 7, Name: "cheerful", Instructions: "Be upbeat."},
	}}
	modelRepo := &fakeModelRepo{models: map[string]*entity.AIModel{
		modelKey(entity.ProviderOpenAI, "gpt-4o"): {
			Id: 3, ProviderId: 1,
			Provider: entity.ModelProvider{Id: 1, Name: entity.ProviderOpenAI},
			ModelId:  "gpt-4o",
		},
	}}
	return NewBotService(botRepo, personaRepo, modelRepo), botRepo
}

func validRequest() botRequest.BotRequest {
	return botRequest.BotRequest{
		Name:         "study-bot",
		Prompt:       "You are a study companion.",
		Provider:     entity.ProviderOpenAI,
		ModelId:      "gpt-4o",
		PersonaNames: []string{"cheerful"},
	}
}

func TestBotCreateAppliesDefaults(t *testing.T) {
	svc, repo := newBotServiceFixture()

	resp, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "study-bot", resp.Name)
	assert.True(t, resp.ChunkMessages)
	assert.True(t, resp.HumanlikeDelay)
	assert.Equal(t, 2, resp.IdleTimeMinutes)
	assert.Equal(t, 0, resp.MaxTranscriptLength)

	saved := repo.bots["study-bot"]
	require.NotNil(t, saved)
	assert.Equal(t, 250.0, saved.ReadingWordsPerMinute)
	assert.Equal(t, 200.0, saved.WritingWordsPerMinute)
	assert.Equal(t, 1.0, saved.MinReadingDelay)
}

func TestBotCreateRejectsFollowupWithoutInstruction(t *testing.T) {
	svc, _ := newBotServiceFixture()
	req := validRequest()
	req.FollowUpOnIdle = true
	req.FollowUpInstructionPrompt = "   "

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	codeErr, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.BadRequest, codeErr.Code)
}

func TestBotCreateRejectsUnknownModel(t *testing.T) {
	svc, _ := newBotServiceFixture()
	req := validRequest()
	req.ModelId = "nonexistent"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	codeErr, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.NotFound, codeErr.Code)
}

func TestBotCreateRejectsUnknownPersona(t *testing.T) {
	svc, _ := newBotServiceFixture()
	req := validRequest()
	req.PersonaNames = []string{"ghost"}

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	codeErr, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.NotFound, codeErr.Code)
}

func TestBotCreateRejectsOutOfRangeThreshold(t *testing.T) {
	svc, _ := newBotServiceFixture()
	req := validRequest()
	req.ModerationThresholds = map[string]float64{"violence": 1.5}

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
}

func TestBotCreateConflictOnDuplicateName(t *testing.T) {
	svc, _ := newBotServiceFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validRequest())
	require.Error(t, err)
	codeErr, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.Conflict, codeErr.Code)
}

func TestBotUpdateReplacesThresholds(t *testing.T) {
	svc, repo := newBotServiceFixture()
	ctx := context.Background()

	req := validRequest()
	req.ModerationThresholds = map[string]float64{"violence": 0.3, "hate": 0.2}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	req.ModerationThresholds = map[string]float64{"violence": 0.9}
	resp, err := svc.Update(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"violence": 0.9}, resp.ModerationThresholds)
	assert.Len(t, repo.thresholds[repo.bots["study-bot"].Id], 1)
}
