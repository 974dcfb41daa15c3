package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"PersonaLab/internal/config"
	botEntity "PersonaLab/internal/modules/bot/domain/entity"

	arkModel "github.com/cloudwego/eino-ext/components/model/ark"
	deepseekModel "github.com/cloudwego/eino-ext/components/model/deepseek"
	ollamaModel "github.com/cloudwego/eino-ext/components/model/ollama"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

type ChatModelMeta struct {
	Provider string
	Model    string
}

// Registry 按 (provider, model) 缓存 ChatModel 实例，避免每轮对话重建 http 客户端
type Registry struct {
	conf   *config.Config
	models sync.Map // key: "provider/model"
}

func NewRegistry(conf *config.Config) *Registry {
	return &Registry{conf: conf}
}

// Resolve 取或建指定供应商的 ChatModel
func (r *Registry) Resolve(ctx context.Context, providerName, modelName string) (model.BaseChatModel, ChatModelMeta, error) {
	providerName = strings.TrimSpace(providerName)
	modelName = strings.TrimSpace(modelName)
	if providerName == "" || modelName == "" {
		return nil, ChatModelMeta{}, fmt.Errorf("chat model provider/model not configured")
	}

	key := providerName + "/" + modelName
	if cached, ok := r.models.Load(key); ok {
		return cached.(model.BaseChatModel), ChatModelMeta{Provider: providerName, Model: modelName}, nil
	}

	cm, err := r.build(ctx, providerName, modelName)
	if err != nil {
		return nil, ChatModelMeta{}, err
	}

	// 并发构建时保留先到者
	actual, _ := r.models.LoadOrStore(key, cm)
	return actual.(model.BaseChatModel), ChatModelMeta{Provider: providerName, Model: modelName}, nil
}

func (r *Registry) build(ctx context.Context, providerName, modelName string) (model.BaseChatModel, error) {
	switch providerName {
	case botEntity.ProviderOpenAI:
		return r.buildOpenAI(ctx, modelName)
	case botEntity.ProviderArk:
		return r.buildArk(ctx, modelName)
	case botEntity.ProviderDeepSeek:
		return r.buildDeepSeek(ctx, modelName)
	case botEntity.ProviderOllama:
		return r.buildOllama(ctx, modelName)
	default:
		return nil, fmt.Errorf("unknown chat model provider: %s", providerName)
	}
}

func (r *Registry) buildOpenAI(ctx context.Context, modelName string) (model.BaseChatModel, error) {
	pc := r.conf.AIConfig.OpenAI

	apiKey := strings.TrimSpace(pc.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	baseURL := strings.TrimSpace(pc.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai chat model missing apiKey")
	}

	return openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:     apiKey,
		Model:      modelName,
		BaseURL:    baseURL,
		ByAzure:    pc.ByAzure,
		APIVersion: strings.TrimSpace(pc.AzureAPIVersion),
		Timeout:    timeoutOf(pc),
	})
}

func (r *Registry) buildArk(ctx context.Context, modelName string) (model.BaseChatModel, error) {
	pc := r.conf.AIConfig.Ark

	apiKey := strings.TrimSpace(pc.APIKey)
	accessKey := strings.TrimSpace(pc.AccessKey)
	secretKey := strings.TrimSpace(pc.SecretKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("ARK_API_KEY"))
	}
	if accessKey == "" {
		accessKey = strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY"))
	}
	if secretKey == "" {
		secretKey = strings.TrimSpace(os.Getenv("ARK_SECRET_KEY"))
	}

	baseURL := strings.TrimSpace(pc.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("ARK_BASE_URL"))
	}
	region := strings.TrimSpace(pc.Region)
	if region == "" {
		region = strings.TrimSpace(os.Getenv("ARK_REGION"))
	}

	if apiKey == "" && (accessKey == "" || secretKey == "") {
		return nil, fmt.Errorf("ark chat model missing apiKey or accessKey/secretKey")
	}

	timeout := timeoutOf(pc)
	retryTimes := 2
	if pc.RetryTimes > 0 {
		retryTimes = pc.RetryTimes
	}

	return arkModel.NewChatModel(ctx, &arkModel.ChatModelConfig{
		APIKey:     apiKey,
		AccessKey:  accessKey,
		SecretKey:  secretKey,
		Model:      modelName,
		BaseURL:    baseURL,
		Region:     region,
		Timeout:    &timeout,
		RetryTimes: &retryTimes,
	})
}

func (r *Registry) buildDeepSeek(ctx context.Context, modelName string) (model.BaseChatModel, error) {
	pc := r.conf.AIConfig.DeepSeek

	apiKey := strings.TrimSpace(pc.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("deepseek chat model missing apiKey")
	}

	return deepseekModel.NewChatModel(ctx, &deepseekModel.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: strings.TrimSpace(pc.BaseURL),
		Timeout: timeoutOf(pc),
	})
}

func (r *Registry) buildOllama(ctx context.Context, modelName string) (model.BaseChatModel, error) {
	pc := r.conf.AIConfig.Ollama

	baseURL := strings.TrimSpace(pc.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL"))
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return ollamaModel.NewChatModel(ctx, &ollamaModel.ChatModelConfig{
		BaseURL: baseURL,
		Model:   modelName,
		Timeout: timeoutOf(pc),
	})
}

func timeoutOf(pc config.AIProviderConfig) time.Duration {
	if pc.TimeoutSeconds > 0 {
		return time.Duration(pc.TimeoutSeconds) * time.Second
	}
	return 2 * time.Minute
}
