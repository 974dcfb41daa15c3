package delivery

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"PersonaLab/internal/modules/bot/domain/entity"
)

// DelayConfig 拟人延迟参数的显式值类型，不再从机器人对象上临场拼凑
type DelayConfig struct {
	Enabled bool

	ReadingWordsPerMinute float64
	ReadingJitterMin      float64
	ReadingJitterMax      float64
	ReadingThinkingMin    float64
	ReadingThinkingMax    float64

	WritingWordsPerMinute float64
	WritingJitterMin      float64
	WritingJitterMax      float64
	WritingThinkingMin    float64
	WritingThinkingMax    float64

	IntraMessageDelayMin float64
	IntraMessageDelayMax float64
	MinReadingDelay      float64
}

// DefaultDelayConfig 机器人缺失时的兜底参数
func DefaultDelayConfig() DelayConfig {
	return DelayConfig{
		Enabled:               true,
		ReadingWordsPerMinute: 250,
		ReadingJitterMin:      0.1,
		ReadingJitterMax:      0.3,
		ReadingThinkingMin:    0.2,
		ReadingThinkingMax:    0.5,
		WritingWordsPerMinute: 200,
		WritingJitterMin:      0.05,
		WritingJitterMax:      0.15,
		WritingThinkingMin:    0.1,
		WritingThinkingMax:    0.3,
		IntraMessageDelayMin:  0.1,
		IntraMessageDelayMax:  0.3,
		MinReadingDelay:       1.0,
	}
}

func DelayConfigFromBot(bot *entity.Bot) DelayConfig {
	if bot == nil {
		return DefaultDelayConfig()
	}
	return DelayConfig{
		Enabled:               bot.HumanlikeDelay,
		ReadingWordsPerMinute: bot.ReadingWordsPerMinute,
		ReadingJitterMin:      bot.ReadingJitterMin,
		ReadingJitterMax:      bot.ReadingJitterMax,
		ReadingThinkingMin:    bot.ReadingThinkingMin,
		ReadingThinkingMax:    bot.ReadingThinkingMax,
		WritingWordsPerMinute: bot.WritingWordsPerMinute,
		WritingJitterMin:      bot.WritingJitterMin,
		WritingJitterMax:      bot.WritingJitterMax,
		WritingThinkingMin:    bot.WritingThinkingMin,
		WritingThinkingMax:    bot.WritingThinkingMax,
		IntraMessageDelayMin:  bot.IntraMessageDelayMin,
		IntraMessageDelayMax:  bot.IntraMessageDelayMax,
		MinReadingDelay:       bot.MinReadingDelay,
	}
}

// SegmentTiming 单条分片的发送时序
type SegmentTiming struct {
	Content           string  `json:"content"`
	WritingDelay      float64 `json:"writing_delay"`
	InterSegmentDelay float64 `json:"inter_segment_delay"`
}

// DelayPlan 一轮回复的完整时序，前端按此节奏渐次展示
type DelayPlan struct {
	ReadingTime      float64         `json:"reading_time"`
	MinReadingDelay  float64         `json:"min_reading_delay"`
	ResponseSegments []SegmentTiming `json:"response_segments"`
}

// Planner 随机源注入以便测试固定种子
type Planner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewPlanner(rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{rng: rng}
}

// Plan 依据用户消息长度与各分片词数生成延迟计划。关闭时全零
func (p *Planner) Plan(cfg DelayConfig, userMessage string, segments []string) DelayPlan {
	if !cfg.Enabled {
		return InstantPlan(segments)
	}

	plan := DelayPlan{
		ReadingTime: baseSeconds(userMessage, cfg.ReadingWordsPerMinute) +
			p.uniform(cfg.ReadingJitterMin, cfg.ReadingJitterMax) +
			p.uniform(cfg.ReadingThinkingMin, cfg.ReadingThinkingMax),
		MinReadingDelay:  cfg.MinReadingDelay,
		ResponseSegments: make([]SegmentTiming, 0, len(segments)),
	}

	for _, segment := range segments {
		plan.ResponseSegments = append(plan.ResponseSegments, SegmentTiming{
			Content: segment,
			WritingDelay: baseSeconds(segment, cfg.WritingWordsPerMinute) +
				p.uniform(cfg.WritingJitterMin, cfg.WritingJitterMax) +
				p.uniform(cfg.WritingThinkingMin, cfg.WritingThinkingMax),
			InterSegmentDelay: p.uniform(cfg.IntraMessageDelayMin, cfg.IntraMessageDelayMax),
		})
	}
	return plan
}

// InstantPlan 全零时序，内容照常分片
func InstantPlan(segments []string) DelayPlan {
	plan := DelayPlan{ResponseSegments: make([]SegmentTiming, 0, len(segments))}
	for _, segment := range segments {
		plan.ResponseSegments = append(plan.ResponseSegments, SegmentTiming{Content: segment})
	}
	return plan
}

func baseSeconds(text string, wordsPerMinute float64) float64 {
	if wordsPerMinute <= 0 {
		return 0
	}
	return float64(len(strings.Fields(text))) * 60 / wordsPerMinute
}

func (p *Planner) uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return min + p.rng.Float64()*(max-min)
}
