package llm

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Transform 对消息序列做一次纯变换，不修改入参
type Transform func(messages []*schema.Message) []*schema.Message

// Pipeline 按序应用的消息整形流水线。部分后端只认 user/assistant
// 两种角色、或要求首尾必须是特定角色，整形在适配层内消化，编排层无感知
type Pipeline []Transform

func (p Pipeline) Apply(messages []*schema.Message) []*schema.Message {
	out := make([]*schema.Message, len(messages))
	copy(out, messages)
	for _, t := range p {
		out = t(out)
	}
	return out
}

// FoldSystem 把 system 消息降级为 user 角色，供只支持双角色的后端使用
func FoldSystem() Transform {
	return func(messages []*schema.Message) []*schema.Message {
		out := make([]*schema.Message, 0, len(messages))
		for _, m := range messages {
			if m.Role == schema.System {
				out = append(out, &schema.Message{Role: schema.User, Content: m.Content})
				continue
			}
			out = append(out, m)
		}
		return out
	}
}

// MergeAdjacent 合并相邻同角色消息，保证 user/assistant 严格交替
func MergeAdjacent() Transform {
	return func(messages []*schema.Message) []*schema.Message {
		out := make([]*schema.Message, 0, len(messages))
		for _, m := range messages {
			if len(out) > 0 && out[len(out)-1].Role == m.Role {
				prev := out[len(out)-1]
				out[len(out)-1] = &schema.Message{
					Role:    prev.Role,
					Content: strings.TrimSpace(prev.Content + "\n\n" + m.Content),
				}
				continue
			}
			out = append(out, m)
		}
		return out
	}
}

// EnsureLeading 首条消息角色不符时插入占位轮次
func EnsureLeading(role schema.RoleType, filler string) Transform {
	return func(messages []*schema.Message) []*schema.Message {
		if len(messages) > 0 && messages[0].Role == role {
			return messages
		}
		out := make([]*schema.Message, 0, len(messages)+1)
		out = append(out, &schema.Message{Role: role, Content: filler})
		return append(out, messages...)
	}
}

// EnsureTrailing 末条消息角色不符时补占位轮次
func EnsureTrailing(role schema.RoleType, filler string) Transform {
	return func(messages []*schema.Message) []*schema.Message {
		if len(messages) > 0 && messages[len(messages)-1].Role == role {
			return messages
		}
		out := make([]*schema.Message, 0, len(messages)+1)
		out = append(out, messages...)
		return append(out, &schema.Message{Role: role, Content: filler})
	}
}
