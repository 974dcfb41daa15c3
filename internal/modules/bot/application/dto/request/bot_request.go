package request

// BotDelayTuning 拟人延迟参数，未传字段沿用默认值
type BotDelayTuning struct {
	ReadingWordsPerMinute *float64 `json:"reading_words_per_minute"`
	ReadingJitterMin      *float64 `json:"reading_jitter_min"`
	ReadingJitterMax      *float64 `json:"reading_jitter_max"`
	ReadingThinkingMin    *float64 `json:"reading_thinking_min"`
	ReadingThinkingMax    *float64 `json:"reading_thinking_max"`
	WritingWordsPerMinute *float64 `json:"writing_words_per_minute"`
	WritingJitterMin      *float64 `json:"writing_jitter_min"`
	WritingJitterMax      *float64 `json:"writing_jitter_max"`
	WritingThinkingMin    *float64 `json:"writing_thinking_min"`
	WritingThinkingMax    *float64 `json:"writing_thinking_max"`
	IntraMessageDelayMin  *float64 `json:"intra_message_delay_min"`
	IntraMessageDelayMax  *float64 `json:"intra_message_delay_max"`
	MinReadingDelay       *float64 `json:"min_reading_delay"`
}

type BotRequest struct {
	Name             string `json:"name"`
	Prompt           string `json:"prompt"`
	Provider         string `json:"provider"`
	ModelId          string `json:"model_id"`
	InitialUtterance string `json:"initial_utterance"`
	AvatarType       string `json:"avatar_type"`

	ChunkMessages  *bool          `json:"chunk_messages"`
	HumanlikeDelay *bool          `json:"humanlike_delay"`
	Delay          BotDelayTuning `json:"delay"`

	FollowUpOnIdle            bool   `json:"follow_up_on_idle"`
	IdleTimeMinutes           *int   `json:"idle_time_minutes"`
	FollowUpInstructionPrompt string `json:"follow_up_instruction_prompt"`
	RecurringFollowup         bool   `json:"recurring_followup"`

	MaxTranscriptLength *int `json:"max_transcript_length"`

	PersonaNames []string `json:"persona_names"`
	// 类别 -> 阈值，覆盖默认审核阈值
	ModerationThresholds map[string]float64 `json:"moderation_thresholds"`
}

type ListBotsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
