package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	chatEntity "PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/infrastructure/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initializeBot() *botEntity.Bot {
	return &botEntity.Bot{
		Id:               1,
		Name:             "study-bot",
		Prompt:           "You are a study companion.",
		InitialUtterance: "Hi! Ready to get started?",
		Personas: []botEntity.Persona{
			{Id: 5, Name: "cheerful", Instructions: "Be upbeat."},
			{Id: 6, Name: "calm", Instructions: "Stay measured."},
		},
	}
}

func newConversationFixture(bot *botEntity.Bot) (ConversationService, *stubConvRepo, *stubUttRepo) {
	convRepo := &stubConvRepo{}
	uttRepo := &stubUttRepo{}
	store := history.NewStore(newMemCache(), uttRepo)
	svc := NewConversationService(
		&stubBotRepo{bot: bot},
		convRepo,
		uttRepo,
		store,
		rand.New(rand.NewSource(42)),
	)
	return svc, convRepo, uttRepo
}

func TestInitializeCreatesConversationWithOpener(t *testing.T) {
	svc, convRepo, uttRepo := newConversationFixture(initializeBot())

	resp, err := svc.Initialize(context.Background(), chatRequest.InitializeConversationRequest{
		BotName:        "study-bot",
		ConversationId: "conv-1",
		ParticipantId:  "p-9",
	})
	require.NoError(t, err)
	assert.Equal(t, "Conversation initialized successfully.", resp.StatusMessage)
	assert.False(t, resp.IsExisting)
	assert.Equal(t, "Hi! Ready to get started?", resp.InitialUtterance)

	require.NotNil(t, convRepo.conversation)
	assert.Equal(t, "n/a", convRepo.conversation.StudyName)
	require.NotNil(t, convRepo.conversation.SelectedPersonaId)

	// 开场白作为助手发言落库
	require.Len(t, uttRepo.created, 1)
	assert.Equal(t, chatEntity.SpeakerAssistant, uttRepo.created[0].SpeakerId)
	assert.Equal(t, "Hi! Ready to get started?", uttRepo.created[0].Text)
}

func TestInitializeIsIdempotent(t *testing.T) {
	svc, convRepo, uttRepo := newConversationFixture(initializeBot())
	ctx := context.Background()
	req := chatRequest.InitializeConversationRequest{
		BotName:        "study-bot",
		ConversationId: "conv-1",
	}

	first, err := svc.Initialize(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.IsExisting)
	pickedPersona := *convRepo.conversation.SelectedPersonaId

	second, err := svc.Initialize(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.IsExisting)
	assert.Equal(t, "Conversation loaded successfully.", second.StatusMessage)

	// 不重复建会话、不重发开场白，人格保持初始化时选定的那个
	assert.Len(t, uttRepo.created, 1)
	assert.Equal(t, pickedPersona, *convRepo.conversation.SelectedPersonaId)
}

func TestInitializeReturnsExistingHistory(t *testing.T) {
	bot := initializeBot()
	bot.InitialUtterance = ""
	svc, convRepo, uttRepo := newConversationFixture(bot)
	ctx := context.Background()

	convRepo.conversation = &chatEntity.Conversation{
		Id: 1, ConversationId: "conv-1", BotName: "study-bot",
		InitialUtterance: "",
	}
	uttRepo.listed = []*chatEntity.Utterance{
		{ConversationDBId: 1, SpeakerId: chatEntity.SpeakerUser, Text: "Hello", CreatedTime: time.Now()},
		{ConversationDBId: 1, SpeakerId: chatEntity.SpeakerAssistant, Text: "Hi there", CreatedTime: time.Now()},
	}

	resp, err := svc.Initialize(ctx, chatRequest.InitializeConversationRequest{
		BotName:        "study-bot",
		ConversationId: "conv-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsExisting)
	require.Len(t, resp.ExistingMessages, 2)
	assert.Equal(t, "You", resp.ExistingMessages[0].Sender)
	assert.Equal(t, "Hello", resp.ExistingMessages[0].Content)
	assert.Equal(t, "AI Chatbot", resp.ExistingMessages[1].Sender)
}

func TestInitializeUnknownBot(t *testing.T) {
	svc, _, _ := newConversationFixture(nil)

	_, err := svc.Initialize(context.Background(), chatRequest.InitializeConversationRequest{
		BotName:        "ghost",
		ConversationId: "conv-1",
	})
	require.Error(t, err)
}
