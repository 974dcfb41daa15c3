package request

type KeystrokeRequest struct {
	ConversationId        string  `json:"conversation_id"`
	TotalTimeOnPage       float64 `json:"total_time_on_page"`
	TotalTimeAwayFromPage float64 `json:"total_time_away_from_page"`
	KeystrokeCount        int     `json:"keystroke_count"`
}
