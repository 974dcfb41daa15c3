package moderation

import (
	"context"
	"os"
	"strings"

	"PersonaLab/internal/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Classifier 内容分类器，返回各违规类目得分（0~1）
type Classifier interface {
	Classify(ctx context.Context, text string) (map[string]float64, error)
}

const defaultModerationModel = "omni-moderation-latest"

type openaiClassifier struct {
	client openai.Client
	model  string
}

func NewOpenAIClassifier(conf *config.Config) Classifier {
	apiKey := strings.TrimSpace(conf.ModerationConfig.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	model := strings.TrimSpace(conf.ModerationConfig.Model)
	if model == "" {
		model = defaultModerationModel
	}

	return &openaiClassifier{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *openaiClassifier) Classify(ctx context.Context, text string) (map[string]float64, error) {
	resp, err := c.client.Moderations.New(ctx, openai.ModerationNewParams{
		Input: openai.ModerationNewParamsInputUnion{OfString: openai.String(text)},
		Model: c.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return map[string]float64{}, nil
	}

	cs := resp.Results[0].CategoryScores
	return map[string]float64{
		"harassment":              cs.Harassment,
		"harassment/threatening":  cs.HarassmentThreatening,
		"hate":                    cs.Hate,
		"hate/threatening":        cs.HateThreatening,
		"illicit":                 cs.Illicit,
		"illicit/violent":         cs.IllicitViolent,
		"self-harm":               cs.SelfHarm,
		"self-harm/instructions":  cs.SelfHarmInstructions,
		"self-harm/intent":        cs.SelfHarmIntent,
		"sexual":                  cs.Sexual,
		"sexual/minors":           cs.SexualMinors,
		"violence":                cs.Violence,
		"violence/graphic":        cs.ViolenceGraphic,
	}, nil
}
