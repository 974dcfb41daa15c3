package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	botRepository "PersonaLab/internal/modules/bot/domain/repository"
	chatRequest "PersonaLab/internal/modules/chat/application/dto/request"
	chatRespond "PersonaLab/internal/modules/chat/application/dto/respond"
	chatEntity "PersonaLab/internal/modules/chat/domain/entity"
	chatRepository "PersonaLab/internal/modules/chat/domain/repository"
	"PersonaLab/internal/modules/chat/domain/transcript"
	"PersonaLab/internal/modules/chat/infrastructure/history"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

type ConversationService interface {
	Initialize(ctx context.Context, req chatRequest.InitializeConversationRequest) (*chatRespond.InitializeRespond, error)
}

type conversationServiceImpl struct {
	botRepo  botRepository.BotRepository
	convRepo chatRepository.ConversationRepository
	uttRepo  chatRepository.UtteranceRepository
	history  *history.Store

	mu  sync.Mutex
	rng *rand.Rand
}

func NewConversationService(
	botRepo botRepository.BotRepository,
	convRepo chatRepository.ConversationRepository,
	uttRepo chatRepository.UtteranceRepository,
	historyStore *history.Store,
	rng *rand.Rand,
) ConversationService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &conversationServiceImpl{
		botRepo:  botRepo,
		convRepo: convRepo,
		uttRepo:  uttRepo,
		history:  historyStore,
		rng:      rng,
	}
}

func (s *conversationServiceImpl) Initialize(ctx context.Context, req chatRequest.InitializeConversationRequest) (*chatRespond.InitializeRespond, error) {
	if strings.TrimSpace(req.BotName) == "" || strings.TrimSpace(req.ConversationId) == "" {
		return nil, xerr.New(xerr.BadRequest, "bot_name 与 conversation_id 为必填")
	}

	bot, err := s.botRepo.GetByName(ctx, req.BotName)
	if err != nil {
		zlog.Error("查询机器人失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if bot == nil {
		return nil, xerr.New(xerr.NotFound, "机器人 "+req.BotName+" 不存在")
	}

	// 幂等：已有会话直接返回既有消息，不重复创建
	existing, err := s.convRepo.GetByConversationId(ctx, req.ConversationId)
	if err != nil {
		zlog.Error("查询会话失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if existing != nil {
		window, herr := s.history.Load(ctx, existing)
		if herr != nil {
			zlog.Warn("加载既有会话历史失败", zap.Error(herr))
			window = nil
		}
		return &chatRespond.InitializeRespond{
			ConversationId:   req.ConversationId,
			StatusMessage:    "Conversation loaded successfully.",
			InitialUtterance: existing.InitialUtterance,
			ExistingMessages: toHistoryMessages(window),
			IsExisting:       true,
		}, nil
	}

	surveyMeta, _ := json.Marshal(req)
	conversation := &chatEntity.Conversation{
		ConversationId:   req.ConversationId,
		BotName:          bot.Name,
		ParticipantId:    req.ParticipantId,
		InitialUtterance: bot.InitialUtterance,
		StudyName:        orNA(req.StudyName),
		UserGroup:        orNA(req.UserGroup),
		SurveyId:         orNA(req.SurveyId),
		SurveyMetaData:   string(surveyMeta),
		StartedTime:      time.Now(),
	}

	// 人格在初始化时随机选定，此后整个会话不变
	if len(bot.Personas) > 0 {
		s.mu.Lock()
		picked := bot.Personas[s.rng.Intn(len(bot.Personas))]
		s.mu.Unlock()
		conversation.SelectedPersonaId = &picked.Id
		conversation.SelectedPersona = &picked
	}

	if err := s.convRepo.Create(ctx, conversation); err != nil {
		zlog.Error("创建会话失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	var initialMessages []chatRespond.HistoryMessage
	opener := strings.TrimSpace(bot.InitialUtterance)
	if opener != "" {
		if err := s.uttRepo.Create(ctx, &chatEntity.Utterance{
			ConversationDBId: conversation.Id,
			SpeakerId:        chatEntity.SpeakerAssistant,
			BotName:          bot.Name,
			Text:             opener,
			CreatedTime:      time.Now(),
		}); err != nil {
			zlog.Error("保存开场白失败", zap.Error(err))
		} else {
			initialMessages = append(initialMessages, chatRespond.HistoryMessage{
				Sender:  "AI Chatbot",
				Content: opener,
			})
			if herr := s.history.Replace(ctx, conversation.ConversationId, []transcript.Entry{
				{Role: transcript.RoleAssistant, Content: opener},
			}); herr != nil {
				zlog.Warn("开场白写入缓存失败", zap.Error(herr))
			}
		}
	}

	return &chatRespond.InitializeRespond{
		ConversationId:   req.ConversationId,
		StatusMessage:    "Conversation initialized successfully.",
		InitialUtterance: bot.InitialUtterance,
		ExistingMessages: initialMessages,
		IsExisting:       false,
	}, nil
}

func toHistoryMessages(window []transcript.Entry) []chatRespond.HistoryMessage {
	messages := make([]chatRespond.HistoryMessage, 0, len(window))
	for _, entry := range window {
		sender := "AI Chatbot"
		if entry.Role == transcript.RoleUser {
			sender = "You"
		}
		messages = append(messages, chatRespond.HistoryMessage{Sender: sender, Content: entry.Content})
	}
	return messages
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}
