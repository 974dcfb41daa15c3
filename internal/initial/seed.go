package initial

import (
	"context"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"
	"PersonaLab/pkg/zlog"

	"go.uber.org/zap"
)

type seedModel struct {
	provider    string
	modelID     string
	displayName string
	description string
}

var seedProviders = []botEntity.ModelProvider{
	{Name: botEntity.ProviderOpenAI, DisplayName: "OpenAI", Description: "OpenAI 平台模型", IsActive: true},
	{Name: botEntity.ProviderArk, DisplayName: "火山方舟", Description: "火山引擎方舟模型", IsActive: true},
	{Name: botEntity.ProviderDeepSeek, DisplayName: "DeepSeek", Description: "DeepSeek 平台模型", IsActive: true},
	{Name: botEntity.ProviderOllama, DisplayName: "Ollama", Description: "本地 Ollama 模型", IsActive: true},
}

var seedModels = []seedModel{
	{botEntity.ProviderOpenAI, "gpt-4o", "GPT-4o", "通用对话"},
	{botEntity.ProviderOpenAI, "gpt-4o-mini", "GPT-4o mini", "低成本对话"},
	{botEntity.ProviderArk, "doubao-pro-32k", "豆包 Pro 32K", "长上下文对话"},
	{botEntity.ProviderDeepSeek, "deepseek-chat", "DeepSeek Chat", "通用对话"},
	{botEntity.ProviderOllama, "llama3", "Llama 3", "本地部署对话"},
}

// SeedCatalog 写入默认供应商与模型目录，可重复执行
func SeedCatalog(ctx context.Context, modelRepo repository.ModelRepository) error {
	for i := range seedProviders {
		p := seedProviders[i]
		if err := modelRepo.SaveProvider(ctx, &p); err != nil {
			return err
		}
	}

	// 冲突更新路径下主键不回填，重新查一遍拿 id
	providers, err := modelRepo.ListProviders(ctx)
	if err != nil {
		return err
	}
	providerIDs := make(map[string]int64, len(providers))
	for _, p := range providers {
		providerIDs[p.Name] = p.Id
	}

	for _, m := range seedModels {
		providerID, ok := providerIDs[m.provider]
		if !ok {
			zlog.Warn("种子模型找不到供应商", zap.String("provider", m.provider))
			continue
		}
		err := modelRepo.SaveModel(ctx, &botEntity.AIModel{
			ProviderId:  providerID,
			ModelId:     m.modelID,
			DisplayName: m.displayName,
			Description: m.description,
			IsActive:    true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
