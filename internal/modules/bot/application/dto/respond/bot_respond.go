package respond

// BotRespond 管理端机器人视图
type BotRespond struct {
	Id               int64  `json:"id"`
	Name             string `json:"name"`
	Prompt           string `json:"prompt"`
	Provider         string `json:"provider"`
	ModelId          string `json:"model_id"`
	InitialUtterance string `json:"initial_utterance"`
	AvatarType       string `json:"avatar_type"`

	ChunkMessages  bool `json:"chunk_messages"`
	HumanlikeDelay bool `json:"humanlike_delay"`

	FollowUpOnIdle            bool   `json:"follow_up_on_idle"`
	IdleTimeMinutes           int    `json:"idle_time_minutes"`
	FollowUpInstructionPrompt string `json:"follow_up_instruction_prompt"`
	RecurringFollowup         bool   `json:"recurring_followup"`

	MaxTranscriptLength int `json:"max_transcript_length"`

	PersonaNames         []string           `json:"persona_names"`
	ModerationThresholds map[string]float64 `json:"moderation_thresholds"`
}

type PersonaRespond struct {
	Id           int64  `json:"id"`
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

type ProviderRespond struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type ModelRespond struct {
	Provider     string `json:"provider"`
	ModelId      string `json:"model_id"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	Capabilities string `json:"capabilities"`
}

type ModerationStatusRespond struct {
	Enabled bool `json:"enabled"`
}
