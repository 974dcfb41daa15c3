package llm

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldSystem(t *testing.T) {
	in := []*schema.Message{
		{Role: schema.System, Content: "你是一名客服"},
		{Role: schema.User, Content: "你好"},
	}
	out := FoldSystem()(in)

	require.Len(t, out, 2)
	assert.Equal(t, schema.User, out[0].Role)
	assert.Equal(t, "你是一名客服", out[0].Content)
	// 入参不被改写
	assert.Equal(t, schema.System, in[0].Role)
}

func TestMergeAdjacent(t *testing.T) {
	in := []*schema.Message{
		{Role: schema.User, Content: "你是一名客服"},
		{Role: schema.User, Content: "你好"},
		{Role: schema.Assistant, Content: "你好，有什么可以帮你"},
		{Role: schema.User, Content: "查订单"},
	}
	out := MergeAdjacent()(in)

	require.Len(t, out, 3)
	assert.Equal(t, "你是一名客服\n\n你好", out[0].Content)
	assert.Equal(t, schema.Assistant, out[1].Role)
	assert.Equal(t, "查订单", out[2].Content)
}

func TestEnsureBoundaries(t *testing.T) {
	in := []*schema.Message{
		{Role: schema.Assistant, Content: "开场白"},
	}

	out := EnsureLeading(schema.User, "You are a helpful assistant.")(in)
	require.Len(t, out, 2)
	assert.Equal(t, schema.User, out[0].Role)

	out = EnsureTrailing(schema.User, "Continue")(out)
	require.Len(t, out, 3)
	assert.Equal(t, schema.User, out[2].Role)
	assert.Equal(t, "Continue", out[2].Content)

	// 已满足时不重复插入
	again := EnsureTrailing(schema.User, "Continue")(out)
	assert.Len(t, again, 3)
}

func TestPipelineApplyOrder(t *testing.T) {
	p := Pipeline{
		FoldSystem(),
		MergeAdjacent(),
		EnsureLeading(schema.User, "You are a helpful assistant."),
		EnsureTrailing(schema.User, "Continue"),
	}

	in := []*schema.Message{
		{Role: schema.System, Content: "保持简短"},
		{Role: schema.User, Content: "你好"},
		{Role: schema.Assistant, Content: "你好呀"},
	}
	out := p.Apply(in)

	// system 并入首个 user 轮后整体交替，末尾补 user 占位
	require.Len(t, out, 3)
	assert.Equal(t, schema.User, out[0].Role)
	assert.Equal(t, "保持简短\n\n你好", out[0].Content)
	assert.Equal(t, schema.Assistant, out[1].Role)
	assert.Equal(t, schema.User, out[2].Role)
	assert.Equal(t, "Continue", out[2].Content)
}
