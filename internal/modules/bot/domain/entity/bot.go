package entity

import (
	"time"
)

// Bot 机器人配置表。管理员维护，长生命周期
type Bot struct {
	Id              int64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Name            string `gorm:"column:name;uniqueIndex;type:varchar(255);not null;comment:机器人唯一名称"`
	Prompt          string `gorm:"column:prompt;type:text;not null;comment:基础系统提示词"`
	AIModelId       int64  `gorm:"column:ai_model_id;not null;comment:绑定模型id"`
	AIModel         AIModel
	InitialUtterance string `gorm:"column:initial_utterance;type:text;comment:开场白"`
	AvatarType       string `gorm:"column:avatar_type;type:varchar(20);default:none;comment:头像类型：none/default/user"`

	// 消息分片与拟人延迟
	ChunkMessages  bool `gorm:"column:chunk_messages;not null;default:1;comment:是否分片发送回复"`
	HumanlikeDelay bool `gorm:"column:humanlike_delay;not null;default:1;comment:是否模拟人类打字延迟"`

	ReadingWordsPerMinute float64 `gorm:"column:reading_words_per_minute;not null;default:250;comment:阅读速度（词/分钟）"`
	ReadingJitterMin      float64 `gorm:"column:reading_jitter_min;not null;default:0.1"`
	ReadingJitterMax      float64 `gorm:"column:reading_jitter_max;not null;default:0.3"`
	ReadingThinkingMin    float64 `gorm:"column:reading_thinking_min;not null;default:0.2"`
	ReadingThinkingMax    float64 `gorm:"column:reading_thinking_max;not null;default:0.5"`
	WritingWordsPerMinute float64 `gorm:"column:writing_words_per_minute;not null;default:200;comment:打字速度（词/分钟）"`
	WritingJitterMin      float64 `gorm:"column:writing_jitter_min;not null;default:0.05"`
	WritingJitterMax      float64 `gorm:"column:writing_jitter_max;not null;default:0.15"`
	WritingThinkingMin    float64 `gorm:"column:writing_thinking_min;not null;default:0.1"`
	WritingThinkingMax    float64 `gorm:"column:writing_thinking_max;not null;default:0.3"`
	IntraMessageDelayMin  float64 `gorm:"column:intra_message_delay_min;not null;default:0.1"`
	IntraMessageDelayMax  float64 `gorm:"column:intra_message_delay_max;not null;default:0.3"`
	MinReadingDelay       float64 `gorm:"column:min_reading_delay;not null;default:1"`

	// 空闲跟进
	FollowUpOnIdle            bool   `gorm:"column:follow_up_on_idle;not null;default:0;comment:用户空闲时是否主动跟进"`
	IdleTimeMinutes           int    `gorm:"column:idle_time_minutes;not null;default:2;comment:判定空闲的分钟数"`
	FollowUpInstructionPrompt string `gorm:"column:follow_up_instruction_prompt;type:text;comment:跟进消息生成指令"`
	RecurringFollowup         bool   `gorm:"column:recurring_followup;not null;default:0;comment:同一空闲期内是否重复跟进"`

	// 历史窗口：0=不带历史，>0=保留最近 N 条，<0=不限制
	MaxTranscriptLength int `gorm:"column:max_transcript_length;not null;default:0;comment:送入模型的最大历史条数"`

	Personas   []Persona                `gorm:"many2many:bot_persona;"`
	Thresholds []BotModerationThreshold `gorm:"foreignKey:BotId"`

	CreatedAt time.Time `gorm:"column:created_at;not null;comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;comment:更新时间"`
}

func (Bot) TableName() string {
	return "bot"
}

// BotModerationThreshold 机器人级审核阈值覆盖，每个类别一行
type BotModerationThreshold struct {
	Id        int64   `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	BotId     int64   `gorm:"column:bot_id;index;not null;comment:机器人id"`
	Category  string  `gorm:"column:category;type:varchar(64);not null;comment:审核类别"`
	Threshold float64 `gorm:"column:threshold;not null;comment:阈值，超过即拦截"`
}

func (BotModerationThreshold) TableName() string {
	return "bot_moderation_threshold"
}

// ThresholdFor 返回指定类别的覆盖阈值；无覆盖时返回 (0, false)
func (b *Bot) ThresholdFor(category string) (float64, bool) {
	for _, t := range b.Thresholds {
		if t.Category == category {
			return t.Threshold, true
		}
	}
	return 0, false
}
