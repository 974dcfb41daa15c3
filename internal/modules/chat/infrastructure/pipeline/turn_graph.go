package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
	chatEntity "PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/domain/prompt"
	"PersonaLab/internal/modules/chat/infrastructure/mq"
	"PersonaLab/internal/modules/chat/domain/transcript"
	"PersonaLab/pkg/xerr"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

// turnState Graph内部状态（在节点间传递）
type turnState struct {
	Req          *TurnRequest
	Start        time.Time
	Bot          *botEntity.Bot
	Conversation *chatEntity.Conversation

	BlockedCategory string

	// FullHistory 是截断前的完整缓存窗口；Window 是实际送入模型的截断视图。
	// 缓存始终按完整历史追加，截断只影响单次模型调用
	FullHistory []transcript.Entry
	Window      []transcript.Entry

	SystemPrompt string
	Reply        string
	Meta         struct {
		Provider string
		Model    string
	}
	Err error
}

// Node 1: LoadContext - 校验请求并装载机器人与会话
func (p *TurnPipeline) loadContextNode(ctx context.Context, req *TurnRequest, _ ...any) (*turnState, error) {
	st := &turnState{Req: req, Start: time.Now()}

	if strings.TrimSpace(req.BotName) == "" || strings.TrimSpace(req.ConversationId) == "" {
		st.Err = xerr.New(xerr.BadRequest, "bot_name 与 conversation_id 为必填")
		return st, nil
	}
	if strings.TrimSpace(req.Message) == "" {
		st.Err = xerr.New(xerr.BadRequest, "message 为必填")
		return st, nil
	}
	// 外部输入不得携带跟进指令前缀
	if !req.SkipUserPersist && strings.HasPrefix(req.Message, FollowupMarker) {
		st.Err = xerr.New(xerr.BadRequest, "消息包含保留前缀，已拒绝")
		return st, nil
	}

	bot, err := p.botRepo.GetByName(ctx, req.BotName)
	if err != nil {
		st.Err = err
		return st, nil
	}
	if bot == nil {
		st.Err = xerr.New(xerr.NotFound, fmt.Sprintf("机器人 %s 不存在", req.BotName))
		return st, nil
	}
	st.Bot = bot

	conversation, err := p.convRepo.GetByConversationId(ctx, req.ConversationId)
	if err != nil {
		st.Err = err
		return st, nil
	}
	if conversation == nil {
		st.Err = xerr.New(xerr.NotFound, "会话不存在，请先初始化")
		return st, nil
	}
	st.Conversation = conversation

	return st, nil
}

// Node 2: Moderate - 内容审核。跟进路径的合成指令不过审
func (p *TurnPipeline) moderateNode(ctx context.Context, st *turnState, _ ...any) (*turnState, error) {
	if st == nil || st.Err != nil {
		return st, nil
	}
	if st.Req.SkipUserPersist {
		return st, nil
	}

	category, err := p.gate.Moderate(ctx, st.Req.Message, st.Bot)
	if err != nil {
		st.Err = xerr.ErrUpstream
		zlog.Error("审核服务调用失败",
			zap.String("conversation_id", st.Req.ConversationId),
			zap.Error(err))
		return st, nil
	}
	if category != "" {
		st.BlockedCategory = category
		zlog.Info("消息被审核拦截",
			zap.String("conversation_id", st.Req.ConversationId),
			zap.String("category", category))
	}

	return st, nil
}

// Node 3: LoadHistory - 取完整历史并按机器人配置截断出模型窗口
func (p *TurnPipeline) loadHistoryNode(ctx context.Context, st *turnState, _ ...any) (*turnState, error) {
	if st == nil || st.Err != nil || st.BlockedCategory != "" {
		return st, nil
	}

	full, err := p.history.Load(ctx, st.Conversation)
	if err != nil {
		st.Err = err
		return st, nil
	}
	st.FullHistory = full
	st.Window = transcript.Truncate(full, st.Bot.MaxTranscriptLength)

	var persona *botEntity.Persona
	if st.Conversation.SelectedPersona != nil {
		persona = st.Conversation.SelectedPersona
	}
	st.SystemPrompt = prompt.Compose(st.Bot.Prompt, persona)

	return st, nil
}

// Node 4: Invoke - 解析引擎并调用模型
func (p *TurnPipeline) invokeNode(ctx context.Context, st *turnState, _ ...any) (*turnState, error) {
	if st == nil || st.Err != nil || st.BlockedCategory != "" {
		return st, nil
	}

	engine, err := p.engines.ResolveEngine(ctx, st.Bot.AIModel.Provider.Name, st.Bot.AIModel.ModelId)
	if err != nil {
		st.Err = err
		return st, nil
	}

	llmStart := time.Now()
	reply, err := engine.Complete(ctx, st.SystemPrompt, st.Window, st.Req.Message)
	if err != nil {
		st.Err = xerr.ErrUpstream
		return st, nil
	}
	st.Reply = reply
	meta := engine.Meta()
	st.Meta.Provider = meta.Provider
	st.Meta.Model = meta.Model

	zlog.Info("模型调用完成",
		zap.String("conversation_id", st.Req.ConversationId),
		zap.String("provider", meta.Provider),
		zap.String("model", meta.Model),
		zap.Int("reply_len", len(reply)),
		zap.Int64("llm_ms", time.Since(llmStart).Milliseconds()))

	return st, nil
}

// Node 5: Persist - 落库、续写缓存、投递轮次事件
func (p *TurnPipeline) persistNode(ctx context.Context, st *turnState, _ ...any) (*TurnResult, error) {
	if st == nil {
		return &TurnResult{Err: fmt.Errorf("nil state")}, nil
	}
	if st.Err != nil {
		return p.buildFinalResult(st), nil
	}

	if st.BlockedCategory != "" {
		return p.persistBlocked(ctx, st), nil
	}

	now := time.Now()

	// 用户消息先于助手回复落库。跟进路径的合成指令不落库
	if !st.Req.SkipUserPersist {
		userUtterance := &chatEntity.Utterance{
			ConversationDBId: st.Conversation.Id,
			SpeakerId:        chatEntity.SpeakerUser,
			ParticipantId:    st.Req.ParticipantId,
			Text:             st.Req.Message,
			CreatedTime:      now,
		}
		if err := p.uttRepo.Create(ctx, userUtterance); err != nil {
			st.Err = err
			return p.buildFinalResult(st), nil
		}
		// 真实用户消息到达，恢复下一个空闲期的跟进资格
		p.clearOneShotFlag(ctx, st.Req.ConversationId)
	}

	windowJSON, err := transcript.MarshalWindow(st.Window)
	if err != nil {
		st.Err = err
		return p.buildFinalResult(st), nil
	}

	assistantUtterance := &chatEntity.Utterance{
		ConversationDBId:  st.Conversation.Id,
		SpeakerId:         chatEntity.SpeakerAssistant,
		BotName:           st.Bot.Name,
		Text:              st.Reply,
		InstructionPrompt: st.SystemPrompt,
		ChatHistoryUsed:   windowJSON,
		CreatedTime:       now.Add(time.Millisecond),
	}
	if err := p.uttRepo.Create(ctx, assistantUtterance); err != nil {
		st.Err = err
		return p.buildFinalResult(st), nil
	}

	// 缓存按完整历史续写，截断不回写
	window := st.FullHistory
	if !st.Req.SkipUserPersist {
		window = append(window, transcript.Entry{Role: transcript.RoleUser, Content: st.Req.Message})
	}
	window = append(window, transcript.Entry{Role: transcript.RoleAssistant, Content: st.Reply})
	if err := p.history.Replace(ctx, st.Req.ConversationId, window); err != nil {
		zlog.Warn("历史缓存续写失败",
			zap.String("conversation_id", st.Req.ConversationId),
			zap.Error(err))
	}

	kind := mq.TurnKindChat
	userText := st.Req.Message
	if st.Req.SkipUserPersist {
		kind = mq.TurnKindFollowup
		userText = ""
	}
	p.events.PublishTurn(ctx, mq.TurnEvent{
		ConversationId: st.Req.ConversationId,
		BotName:        st.Bot.Name,
		Kind:           kind,
		UserText:       userText,
		AssistantText:  st.Reply,
		Provider:       st.Meta.Provider,
		Model:          st.Meta.Model,
		OccurredAt:     now,
	})

	zlog.Info("轮次完成",
		zap.String("conversation_id", st.Req.ConversationId),
		zap.String("bot", st.Bot.Name),
		zap.Bool("followup", st.Req.SkipUserPersist),
		zap.Int64("total_ms", time.Since(st.Start).Milliseconds()))

	return p.buildFinalResult(st), nil
}

// persistBlocked 拦截路径：用户消息与合成警告都落库落缓存，不触达模型
func (p *TurnPipeline) persistBlocked(ctx context.Context, st *turnState) *TurnResult {
	now := time.Now()
	warning := "Your message was blocked by moderation due to: " + st.BlockedCategory

	// 落库前先取完整窗口，续写时不会把新写入的发言重复计入
	full, err := p.history.Load(ctx, st.Conversation)
	if err != nil {
		st.Err = err
		return p.buildFinalResult(st)
	}

	userUtterance := &chatEntity.Utterance{
		ConversationDBId: st.Conversation.Id,
		SpeakerId:        chatEntity.SpeakerUser,
		ParticipantId:    st.Req.ParticipantId,
		Text:             st.Req.Message,
		CreatedTime:      now,
	}
	if err := p.uttRepo.Create(ctx, userUtterance); err != nil {
		st.Err = err
		return p.buildFinalResult(st)
	}
	p.clearOneShotFlag(ctx, st.Req.ConversationId)

	warningUtterance := &chatEntity.Utterance{
		ConversationDBId: st.Conversation.Id,
		SpeakerId:        chatEntity.SpeakerAssistant,
		BotName:          st.Bot.Name,
		Text:             warning,
		CreatedTime:      now.Add(time.Millisecond),
	}
	if err := p.uttRepo.Create(ctx, warningUtterance); err != nil {
		st.Err = err
		return p.buildFinalResult(st)
	}

	// 缓存同步续写，保持与落库一致可重建
	window := append(full,
		transcript.Entry{Role: transcript.RoleUser, Content: st.Req.Message},
		transcript.Entry{Role: transcript.RoleAssistant, Content: warning},
	)
	if err := p.history.Replace(ctx, st.Req.ConversationId, window); err != nil {
		zlog.Warn("历史缓存续写失败",
			zap.String("conversation_id", st.Req.ConversationId),
			zap.Error(err))
	}

	p.events.PublishTurn(ctx, mq.TurnEvent{
		ConversationId: st.Req.ConversationId,
		BotName:        st.Bot.Name,
		Kind:           mq.TurnKindBlocked,
		UserText:       st.Req.Message,
		AssistantText:  warning,
		OccurredAt:     now,
	})

	st.Reply = warning
	return p.buildFinalResult(st)
}

// clearOneShotFlag 真实用户消息到达时清掉一次性跟进标记
func (p *TurnPipeline) clearOneShotFlag(ctx context.Context, conversationId string) {
	if err := p.cache.Del(ctx, FollowupOnceKey(conversationId)); err != nil {
		zlog.Warn("清理跟进标记失败",
			zap.String("conversation_id", conversationId),
			zap.Error(err))
	}
}

func (p *TurnPipeline) buildFinalResult(st *turnState) *TurnResult {
	return &TurnResult{
		Reply:           st.Reply,
		Blocked:         st.BlockedCategory != "",
		BlockedCategory: st.BlockedCategory,
		Bot:             st.Bot,
		Err:             st.Err,
	}
}
