package history

import (
	"context"
	"testing"
	"time"

	"PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/internal/modules/chat/domain/transcript"
	"PersonaLab/internal/modules/chat/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string]string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memCache) SetNX(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

type fakeUtteranceRepo struct {
	utterances []*entity.Utterance
	listCalls  int
}

func (f *fakeUtteranceRepo) Create(_ context.Context, u *entity.Utterance) error {
	f.utterances = append(f.utterances, u)
	return nil
}

func (f *fakeUtteranceRepo) ListByConversation(_ context.Context, _ int64) ([]*entity.Utterance, error) {
	f.listCalls++
	return f.utterances, nil
}

func (f *fakeUtteranceRepo) GetLastUserUtteranceTime(_ context.Context, _ int64) (time.Time, error) {
	for i := len(f.utterances) - 1; i >= 0; i-- {
		if f.utterances[i].SpeakerId == entity.SpeakerUser {
			return f.utterances[i].CreatedTime, nil
		}
	}
	return time.Time{}, nil
}

func TestStoreRebuildOnMiss(t *testing.T) {
	repo := &fakeUtteranceRepo{utterances: []*entity.Utterance{
		{SpeakerId: entity.SpeakerAssistant, Text: "你好，我是助手"},
		{SpeakerId: entity.SpeakerUser, Text: "你好"},
		{SpeakerId: entity.SpeakerAssistant, Text: "有什么可以帮你"},
	}}
	c := newMemCache()
	store := NewStore(c, repo)
	conv := &entity.Conversation{Id: 1, ConversationId: "conv-1"}

	window, err := store.Load(context.Background(), conv)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, transcript.RoleAssistant, window[0].Role)
	assert.Equal(t, "你好", window[1].Content)
	assert.Equal(t, 1, repo.listCalls)

	// 重建应已回填缓存，二次读取不再查库
	window, err = store.Load(context.Background(), conv)
	require.NoError(t, err)
	assert.Len(t, window, 3)
	assert.Equal(t, 1, repo.listCalls)
}

func TestStoreReplace(t *testing.T) {
	c := newMemCache()
	store := NewStore(c, &fakeUtteranceRepo{})
	conv := &entity.Conversation{Id: 1, ConversationId: "conv-2"}

	err := store.Replace(context.Background(), conv.ConversationId, []transcript.Entry{
		{Role: transcript.RoleUser, Content: "今天天气怎么样"},
		{Role: transcript.RoleAssistant, Content: "我看不到窗外，但可以陪你聊聊"},
	})
	require.NoError(t, err)

	window, err := store.Load(context.Background(), conv)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, transcript.RoleUser, window[0].Role)
	assert.Equal(t, "今天天气怎么样", window[0].Content)
}

func TestStoreRebuildOnCorruptCache(t *testing.T) {
	repo := &fakeUtteranceRepo{utterances: []*entity.Utterance{
		{SpeakerId: entity.SpeakerUser, Text: "在吗"},
	}}
	c := newMemCache()
	conv := &entity.Conversation{Id: 1, ConversationId: "conv-3"}
	c.data[Key(conv.ConversationId)] = "{not json"

	store := NewStore(c, repo)
	window, err := store.Load(context.Background(), conv)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, transcript.RoleUser, window[0].Role)
}

func TestStoreInvalidate(t *testing.T) {
	repo := &fakeUtteranceRepo{}
	c := newMemCache()
	store := NewStore(c, repo)
	conv := &entity.Conversation{Id: 1, ConversationId: "conv-4"}

	require.NoError(t, store.Replace(context.Background(), conv.ConversationId, []transcript.Entry{
		{Role: transcript.RoleUser, Content: "hi"},
	}))
	require.NoError(t, store.Invalidate(context.Background(), conv.ConversationId))

	window, err := store.Load(context.Background(), conv)
	require.NoError(t, err)
	assert.Empty(t, window)
}
