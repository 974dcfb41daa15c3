package prompt

import (
	"fmt"
	"strings"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
)

// Compose 合成系统提示词：机器人基础提示词 + 会话选定人格。
// 纯函数，相同输入必得相同输出。
func Compose(basePrompt string, persona *botEntity.Persona) string {
	base := strings.TrimSpace(basePrompt)
	if persona == nil {
		return base
	}

	block := fmt.Sprintf("You are embodying the following persona: %s\n%s",
		strings.TrimSpace(persona.Name), strings.TrimSpace(persona.Instructions))

	if base == "" {
		return block
	}
	return base + "\n\n" + block
}
