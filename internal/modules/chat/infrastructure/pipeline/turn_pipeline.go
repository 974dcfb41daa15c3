package pipeline

import (
	"context"
	"fmt"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
	botRepository "PersonaLab/internal/modules/bot/domain/repository"
	chatRepository "PersonaLab/internal/modules/chat/domain/repository"
	"PersonaLab/internal/modules/chat/domain/transcript"
	"PersonaLab/internal/modules/chat/infrastructure/cache"
	"PersonaLab/internal/modules/chat/infrastructure/history"
	"PersonaLab/internal/modules/chat/infrastructure/llm"
	"PersonaLab/internal/modules/chat/infrastructure/mq"
	"PersonaLab/pkg/util"

	"github.com/cloudwego/eino/compose"
)

// FollowupMarker 跟进指令的内部前缀。带此前缀的外部输入一律拒收，
// 防止用户伪造系统跟进指令
const FollowupMarker = "[FOLLOW-UP REQUEST] "

// 跟进限流标记的缓存键
func FollowupCooldownKey(conversationId string) string {
	return "followup_sent_" + conversationId
}

func FollowupOnceKey(conversationId string) string {
	return "followup_sent_once_" + conversationId
}

// TurnRequest 一轮对话的输入
type TurnRequest struct {
	BotName        string
	ConversationId string
	ParticipantId  string
	Message        string

	// 跟进路径：消息是合成指令，不落库不审核
	SkipUserPersist bool
}

// TurnResult 一轮对话的输出
type TurnResult struct {
	Reply           string
	Blocked         bool
	BlockedCategory string
	Bot             *botEntity.Bot
	Err             error
}

// ModerationGate 审核闸门抽象，测试替身用
type ModerationGate interface {
	Moderate(ctx context.Context, message string, bot *botEntity.Bot) (string, error)
}

// Completer 引擎抽象
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []transcript.Entry, query string) (string, error)
	Meta() llm.ChatModelMeta
}

// EngineResolver 按供应商/模型取引擎
type EngineResolver interface {
	ResolveEngine(ctx context.Context, providerName, modelName string) (Completer, error)
}

// RegistryResolver 把 llm.Registry 适配到 EngineResolver
type RegistryResolver struct {
	Registry *llm.Registry
}

func (r *RegistryResolver) ResolveEngine(ctx context.Context, providerName, modelName string) (Completer, error) {
	return r.Registry.ResolveEngine(ctx, providerName, modelName)
}

// TurnPipeline 基于 Eino Graph 的对话轮次编排
type TurnPipeline struct {
	botRepo  botRepository.BotRepository
	convRepo chatRepository.ConversationRepository
	uttRepo  chatRepository.UtteranceRepository
	history  *history.Store
	cache    cache.Cache
	gate     ModerationGate
	engines  EngineResolver
	events   *mq.TurnEventPublisher
	locks    *util.KeyMutex

	r compose.Runnable[*TurnRequest, *TurnResult]
}

func NewTurnPipeline(
	botRepo botRepository.BotRepository,
	convRepo chatRepository.ConversationRepository,
	uttRepo chatRepository.UtteranceRepository,
	historyStore *history.Store,
	c cache.Cache,
	gate ModerationGate,
	engines EngineResolver,
	events *mq.TurnEventPublisher,
) (*TurnPipeline, error) {
	if botRepo == nil || convRepo == nil || uttRepo == nil || historyStore == nil || c == nil || gate == nil || engines == nil {
		return nil, fmt.Errorf("required dependencies are nil")
	}

	p := &TurnPipeline{
		botRepo:  botRepo,
		convRepo: convRepo,
		uttRepo:  uttRepo,
		history:  historyStore,
		cache:    c,
		gate:     gate,
		engines:  engines,
		events:   events,
		locks:    util.NewKeyMutex(),
	}

	r, err := p.buildGraph(context.Background())
	if err != nil {
		return nil, err
	}
	p.r = r

	return p, nil
}

// Execute 同一会话内串行执行，避免并发轮次在缓存与落库上互相踩踏
func (p *TurnPipeline) Execute(ctx context.Context, req *TurnRequest) (*TurnResult, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if p.r == nil {
		return nil, fmt.Errorf("pipeline runnable is nil")
	}

	p.locks.Lock(req.ConversationId)
	defer p.locks.Unlock(req.ConversationId)

	return p.r.Invoke(ctx, req)
}

// buildGraph 构建 Eino Graph（5个节点）
func (p *TurnPipeline) buildGraph(ctx context.Context) (compose.Runnable[*TurnRequest, *TurnResult], error) {
	const (
		LoadContext = "LoadContext"
		Moderate    = "Moderate"
		LoadHistory = "LoadHistory"
		Invoke      = "Invoke"
		Persist     = "Persist"
	)

	g := compose.NewGraph[*TurnRequest, *TurnResult]()

	_ = g.AddLambdaNode(LoadContext, compose.InvokableLambdaWithOption(p.loadContextNode), compose.WithNodeName(LoadContext))
	_ = g.AddLambdaNode(Moderate, compose.InvokableLambdaWithOption(p.moderateNode), compose.WithNodeName(Moderate))
	_ = g.AddLambdaNode(LoadHistory, compose.InvokableLambdaWithOption(p.loadHistoryNode), compose.WithNodeName(LoadHistory))
	_ = g.AddLambdaNode(Invoke, compose.InvokableLambdaWithOption(p.invokeNode), compose.WithNodeName(Invoke))
	_ = g.AddLambdaNode(Persist, compose.InvokableLambdaWithOption(p.persistNode), compose.WithNodeName(Persist))

	_ = g.AddEdge(compose.START, LoadContext)
	_ = g.AddEdge(LoadContext, Moderate)
	_ = g.AddEdge(Moderate, LoadHistory)
	_ = g.AddEdge(LoadHistory, Invoke)
	_ = g.AddEdge(Invoke, Persist)
	_ = g.AddEdge(Persist, compose.END)

	return g.Compile(ctx, compose.WithGraphName("TurnPipeline"), compose.WithNodeTriggerMode(compose.AllPredecessor))
}
