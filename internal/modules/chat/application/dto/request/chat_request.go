package request

type ChatRequest struct {
	Message        string `json:"message"`
	BotName        string `json:"bot_name"`
	ConversationId string `json:"conversation_id"`
	ParticipantId  string `json:"participant_id"`
}
