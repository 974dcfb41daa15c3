package respond

import (
	"PersonaLab/internal/modules/chat/infrastructure/delivery"
)

type ChatRespond struct {
	Message        string             `json:"message"`
	Response       string             `json:"response"`
	ResponseChunks []string           `json:"response_chunks"`
	BotName        string             `json:"bot_name"`
	HumanlikeDelay bool               `json:"humanlike_delay"`
	ChunkMessages  bool               `json:"chunk_messages"`
	DelayConfig    delivery.DelayPlan `json:"delay_config"`
}
