package request

type FollowupRequest struct {
	BotName        string `json:"bot_name"`
	ConversationId string `json:"conversation_id"`
	ParticipantId  string `json:"participant_id"`

	// ResetFlag 为 true 时只清除一次性跟进标记，不生成跟进消息
	ResetFlag bool `json:"reset_flag"`
}
