package request

type InitializeConversationRequest struct {
	BotName        string `json:"bot_name"`
	ConversationId string `json:"conversation_id"`
	ParticipantId  string `json:"participant_id"`
	StudyName      string `json:"study_name"`
	UserGroup      string `json:"user_group"`
	SurveyId       string `json:"survey_id"`
}
