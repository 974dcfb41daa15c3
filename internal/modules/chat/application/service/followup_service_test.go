package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	chatEntity "PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/infrastructure/cache"
	"PersonaLab/internal/modules/chat/infrastructure/delivery"
	"PersonaLab/internal/modules/chat/infrastructure/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: make(map[string]string)} }

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memCache) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

type stubBotRepo struct {
	bot *botEntity.Bot
}

func (f *stubBotRepo) GetByName(_ context.Context, _ string) (*botEntity.Bot, error) {
	return f.bot, nil
}
func (f *stubBotRepo) Create(_ context.Context, _ *botEntity.Bot) error { return nil }
func (f *stubBotRepo) Update(_ context.Context, _ *botEntity.Bot) error { return nil }
func (f *stubBotRepo) Delete(_ context.Context, _ string) error         { return nil }
func (f *stubBotRepo) List(_ context.Context, _, _ int) ([]*botEntity.Bot, error) {
	return nil, nil
}
func (f *stubBotRepo) ReplaceThresholds(_ context.Context, _ int64, _ []botEntity.BotModerationThreshold) error {
	return nil
}
func (f *stubBotRepo) ReplacePersonas(_ context.Context, _ *botEntity.Bot, _ []int64) error {
	return nil
}

type stubConvRepo struct {
	conversation *chatEntity.Conversation
}

func (f *stubConvRepo) GetByConversationId(_ context.Context, _ string) (*chatEntity.Conversation, error) {
	return f.conversation, nil
}
func (f *stubConvRepo) Create(_ context.Context, conversation *chatEntity.Conversation) error {
	conversation.Id = 1
	f.conversation = conversation
	return nil
}
func (f *stubConvRepo) List(_ context.Context, _, _ int) ([]*chatEntity.Conversation, error) {
	return nil, nil
}
func (f *stubConvRepo) ListStartedSince(_ context.Context, _ time.Time, _ int) ([]*chatEntity.Conversation, error) {
	return nil, nil
}

type stubUttRepo struct {
	lastUser time.Time
	created  []*chatEntity.Utterance
	listed   []*chatEntity.Utterance
}

func (f *stubUttRepo) Create(_ context.Context, utterance *chatEntity.Utterance) error {
	f.created = append(f.created, utterance)
	return nil
}
func (f *stubUttRepo) ListByConversation(_ context.Context, _ int64) ([]*chatEntity.Utterance, error) {
	return f.listed, nil
}
func (f *stubUttRepo) GetLastUserUtteranceTime(_ context.Context, _ int64) (time.Time, error) {
	return f.lastUser, nil
}

type stubExecutor struct {
	reply string
	calls int
	seen  []*pipeline.TurnRequest
}

func (f *stubExecutor) Execute(_ context.Context, req *pipeline.TurnRequest) (*pipeline.TurnResult, error) {
	f.calls++
	f.seen = append(f.seen, req)
	return &pipeline.TurnResult{Reply: f.reply}, nil
}

func followupBot() *botEntity.Bot {
	return &botEntity.Bot{
		Id:                        1,
		Name:                      "study-bot",
		FollowUpOnIdle:            true,
		IdleTimeMinutes:           2,
		FollowUpInstructionPrompt: "Gently check in with the user.",
		RecurringFollowup:         false,
		HumanlikeDelay:            false,
	}
}

func newFollowupFixture(bot *botEntity.Bot, lastUser time.Time) (FollowupService, *memCache, *stubExecutor) {
	c := newMemCache()
	executor := &stubExecutor{reply: "Are you still there?"}
	svc := NewFollowupService(
		&stubBotRepo{bot: bot},
		&stubConvRepo{conversation: &chatEntity.Conversation{Id: 1, ConversationId: "conv-1"}},
		&stubUttRepo{lastUser: lastUser},
		c,
		executor,
		delivery.NewPlanner(rand.New(rand.NewSource(1))),
	)
	return svc, c, executor
}

func TestFollowupIdempotentWithinIdlePeriod(t *testing.T) {
	bot := followupBot()
	svc, _, executor := newFollowupFixture(bot, time.Now().Add(-10*time.Minute))
	ctx := context.Background()
	req := chatRequest.FollowupRequest{BotName: "study-bot", ConversationId: "conv-1"}

	resp, reason, err := svc.MaybeFollowUp(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, reason)
	require.NotNil(t, resp)
	assert.Equal(t, "Are you still there?", resp.Response)
	assert.Equal(t, 1, executor.calls)

	// 同一空闲期第二次调用不触发
	resp, reason, err = svc.MaybeFollowUp(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, "Follow-up already sent for this idle period (recurring disabled)", reason)
	assert.Equal(t, 1, executor.calls)
}

func TestFollowupSyntheticInstructionNotPersistedAsUser(t *testing.T) {
	bot := followupBot()
	svc, _, executor := newFollowupFixture(bot, time.Now().Add(-10*time.Minute))

	_, reason, err := svc.MaybeFollowUp(context.Background(), chatRequest.FollowupRequest{
		BotName: "study-bot", ConversationId: "conv-1",
	})
	require.NoError(t, err)
	assert.Empty(t, reason)

	require.Len(t, executor.seen, 1)
	turn := executor.seen[0]
	assert.True(t, turn.SkipUserPersist)
	assert.Equal(t, pipeline.FollowupMarker+bot.FollowUpInstructionPrompt, turn.Message)
}

func TestFollowupNotEnabled(t *testing.T) {
	bot := followupBot()
	bot.FollowUpOnIdle = false
	svc, _, executor := newFollowupFixture(bot, time.Now().Add(-10*time.Minute))

	resp, reason, err := svc.MaybeFollowUp(context.Background(), chatRequest.FollowupRequest{
		BotName: "study-bot", ConversationId: "conv-1",
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, "Follow-up not enabled for this bot", reason)
	assert.Zero(t, executor.calls)
}

func TestFollowupNoInstructionPrompt(t *testing.T) {
	bot := followupBot()
	bot.FollowUpInstructionPrompt = "  "
	svc, _, executor := newFollowupFixture(bot, time.Now().Add(-10*time.Minute))

	resp, reason, err := svc.MaybeFollowUp(context.Background(), chatRequest.FollowupRequest{
		BotName: "study-bot", ConversationId: "conv-1",
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, "No follow-up instruction prompt configured", reason)
	assert.Zero(t, executor.calls)
}

func TestFollowupUserNotIdle(t *testing.T) {
	bot := followupBot()
	svc, _, executor := newFollowupFixture(bot, time.Now().Add(-30*time.Second))

	_, reason, err := svc.MaybeFollowUp(context.Background(), chatRequest.FollowupRequest{
		BotName: "study-bot", ConversationId: "conv-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "User is not idle", reason)
	assert.Zero(t, executor.calls)
}

func TestFollowupNoUserMessageMeansNotIdle(t *testing.T) {
	bot := followupBot()
	svc, _, executor := newFollowupFixture(bot, time.Time{})

	_, reason, err := svc.MaybeFollowUp(context.Background(), chatRequest.FollowupRequest{
		BotName: "study-bot", ConversationId: "conv-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "User is not idle", reason)
	assert.Zero(t, executor.calls)
}

func TestFollowupRateLimitedByCooldown(t *testing.T) {
	bot := followupBot()
	bot.RecurringFollowup = true // 绕过一次性标记，单测冷却
	svc, _, executor := newFollowupFixture(bot, time.Now().Add(-10*time.Minute))
	ctx := context.Background()
	req := chatRequest.FollowupRequest{BotName: "study-bot", ConversationId: "conv-1"}

	_, reason, err := svc.MaybeFollowUp(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, reason)

	_, reason, err = svc.MaybeFollowUp(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Follow-up was recently sent, please wait", reason)
	assert.Equal(t, 1, executor.calls)
}

func TestFollowupResetRestoresEligibility(t *testing.T) {
	bot := followupBot()
	svc, c, executor := newFollowupFixture(bot, time.Now().Add(-10*time.Minute))
	ctx := context.Background()
	req := chatRequest.FollowupRequest{BotName: "study-bot", ConversationId: "conv-1"}

	_, reason, err := svc.MaybeFollowUp(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, reason)

	_, reason, _ = svc.MaybeFollowUp(ctx, req)
	assert.NotEmpty(t, reason)

	resetResp, err := svc.Reset(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Followup flag reset", resetResp.Status)

	// 冷却窗口独立于一次性标记，这里一并清掉模拟窗口过期
	require.NoError(t, c.Del(ctx, pipeline.FollowupCooldownKey("conv-1")))

	_, reason, err = svc.MaybeFollowUp(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, reason)
	assert.Equal(t, 2, executor.calls)
}
