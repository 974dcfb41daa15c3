package transcript

import "encoding/json"

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry 历史窗口中的一条消息
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Truncate 按机器人配置裁剪历史窗口。
// max == 0 不带历史；max > 0 保留最近 max 条；max < 0 不限制。
// 裁剪只作用于历史，当前消息始终作为 query 单独传给模型。
func Truncate(history []Entry, max int) []Entry {
	switch {
	case max == 0:
		return []Entry{}
	case max < 0:
		return history
	case len(history) <= max:
		return history
	default:
		return history[len(history)-max:]
	}
}

// MarshalWindow 序列化历史窗口，留痕到 assistant 发言的 chat_history_used 字段
func MarshalWindow(window []Entry) (string, error) {
	if window == nil {
		window = []Entry{}
	}
	b, err := json.Marshal(window)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalWindow 反序列化留痕的历史窗口
func UnmarshalWindow(s string) ([]Entry, error) {
	var window []Entry
	if err := json.Unmarshal([]byte(s), &window); err != nil {
		return nil, err
	}
	return window, nil
}
