package moderation

import (
	"context"
	"sort"

	"PersonaLab/internal/modules/bot/domain/entity"
	"PersonaLab/internal/modules/bot/domain/repository"
)

// categoryThreshold 默认阈值表。遍历顺序即判定顺序，表序固定保证同分输入结论稳定
type categoryThreshold struct {
	Category  string
	Threshold float64
}

var defaultThresholds = []categoryThreshold{
	{"harassment", 0.5},
	{"harassment/threatening", 0.1},
	{"hate", 0.5},
	{"hate/threatening", 0.1},
	{"self-harm", 0.2},
	{"self-harm/instructions", 0.5},
	{"self-harm/intent", 0.7},
	{"sexual", 0.5},
	{"sexual/minors", 0.2},
	{"violence", 0.7},
	{"violence/graphic", 0.8},
}

// 表外类目兜底阈值，得分不超过 1 因此默认永不触发，只有机器人显式覆盖才生效
const unknownThreshold = 1.0

// Gate 内容审核闸门。全局开关存数据库，关闭时不产生任何分类器调用
type Gate struct {
	classifier Classifier
	settings   repository.ModerationSettingRepository
}

func NewGate(classifier Classifier, settings repository.ModerationSettingRepository) *Gate {
	return &Gate{classifier: classifier, settings: settings}
}

// Moderate 返回首个触发的违规类目，未触发返回空串
func (g *Gate) Moderate(ctx context.Context, message string, bot *entity.Bot) (string, error) {
	enabled, err := g.settings.IsEnabled(ctx)
	if err != nil {
		return "", err
	}
	if !enabled {
		return "", nil
	}

	scores, err := g.classifier.Classify(ctx, message)
	if err != nil {
		return "", err
	}

	for _, ct := range defaultThresholds {
		score, ok := scores[ct.Category]
		if !ok {
			continue
		}
		if score > g.thresholdFor(bot, ct.Category, ct.Threshold) {
			return ct.Category, nil
		}
	}

	// 表外类目按名称序补查，避免遍历 map 引入随机性
	extras := make([]string, 0)
	for category := range scores {
		if !inDefaults(category) {
			extras = append(extras, category)
		}
	}
	sort.Strings(extras)
	for _, category := range extras {
		if scores[category] > g.thresholdFor(bot, category, unknownThreshold) {
			return category, nil
		}
	}

	return "", nil
}

func (g *Gate) thresholdFor(bot *entity.Bot, category string, fallback float64) float64 {
	if bot != nil {
		if threshold, ok := bot.ThresholdFor(category); ok {
			return threshold
		}
	}
	return fallback
}

func inDefaults(category string) bool {
	for _, ct := range defaultThresholds {
		if ct.Category == category {
			return true
		}
	}
	return false
}
