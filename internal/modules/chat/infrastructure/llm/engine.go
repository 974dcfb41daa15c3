package llm

import (
	"context"
	"errors"
	"strings"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/chat/domain/transcript"
	"PersonaLab/pkg/zlog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// ErrCompletionFailed 所有供应商侧故障统一收敛为这一个错误，编排层不区分细节
var ErrCompletionFailed = errors.New("completion failed")

const (
	fallbackSystemTurn = "You are a helpful assistant."
	continueFiller     = "Continue"
)

// Engine 单个 (provider, model) 的对话引擎
type Engine struct {
	cm    model.BaseChatModel
	meta  ChatModelMeta
	shape Pipeline
}

func NewEngine(cm model.BaseChatModel, meta ChatModelMeta) *Engine {
	return &Engine{cm: cm, meta: meta, shape: shapeFor(meta.Provider)}
}

// ResolveEngine 取或建引擎，整形流水线随供应商确定
func (r *Registry) ResolveEngine(ctx context.Context, providerName, modelName string) (*Engine, error) {
	cm, meta, err := r.Resolve(ctx, providerName, modelName)
	if err != nil {
		return nil, err
	}
	return NewEngine(cm, meta), nil
}

// shapeFor 本地 llama 系模板只认 user/assistant 且要求 user 收尾，
// 其余供应商原生支持 system 角色，直送
func shapeFor(providerName string) Pipeline {
	switch providerName {
	case botEntity.ProviderOllama:
		return Pipeline{
			FoldSystem(),
			MergeAdjacent(),
			EnsureLeading(schema.User, fallbackSystemTurn),
			EnsureTrailing(schema.User, continueFiller),
		}
	default:
		return nil
	}
}

func (e *Engine) Meta() ChatModelMeta {
	return e.meta
}

// Complete 组消息、走整形流水线、调模型，返回去除首尾空白的回复文本
func (e *Engine) Complete(ctx context.Context, systemPrompt string, history []transcript.Entry, query string) (string, error) {
	messages := make([]*schema.Message, 0, len(history)+2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: systemPrompt})
	}
	for _, entry := range history {
		role := schema.User
		if entry.Role == transcript.RoleAssistant {
			role = schema.Assistant
		}
		messages = append(messages, &schema.Message{Role: role, Content: entry.Content})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: query})

	if e.shape != nil {
		messages = e.shape.Apply(messages)
	}

	resp, err := e.cm.Generate(ctx, messages)
	if err != nil {
		zlog.Error("模型调用失败",
			zap.String("provider", e.meta.Provider),
			zap.String("model", e.meta.Model),
			zap.Error(err))
		return "", ErrCompletionFailed
	}
	if resp == nil {
		return "", ErrCompletionFailed
	}
	return strings.TrimSpace(resp.Content), nil
}
