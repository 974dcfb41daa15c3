package respond

// HistoryMessage 前端渲染用的既有消息
type HistoryMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

type InitializeRespond struct {
	ConversationId   string           `json:"conversation_id"`
	StatusMessage    string           `json:"message"`
	InitialUtterance string           `json:"initial_utterance"`
	ExistingMessages []HistoryMessage `json:"existing_messages"`
	IsExisting       bool             `json:"is_existing"`
}
