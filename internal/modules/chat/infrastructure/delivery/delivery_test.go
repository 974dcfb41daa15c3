package delivery

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("Hi. Is this okay? I think so. Thanks.")
	assert.Equal(t, []string{"Hi.", "Is this okay?", "I think so.", "Thanks."}, sentences)

	// 小数点不是句边界
	sentences = SplitSentences("The rate is 3.5 percent. Really?")
	assert.Equal(t, []string{"The rate is 3.5 percent.", "Really?"}, sentences)

	assert.Nil(t, SplitSentences("   "))
}

func TestHumanLikeChunksPinned(t *testing.T) {
	// 全部短句，逐句单发
	chunks := HumanLikeChunks("Hi. Is this okay? I think so. Thanks.")
	assert.Equal(t, []string{"Hi.", "Is this okay?", "I think so.", "Thanks."}, chunks)
}

func TestHumanLikeChunksBuffersLongSentences(t *testing.T) {
	text := "This is a fairly long sentence with many words inside. " +
		"Here is another long sentence that also runs on for a while. " +
		"Does that make sense?"
	chunks := HumanLikeChunks(text)

	require.Len(t, chunks, 2)
	assert.Equal(t,
		"This is a fairly long sentence with many words inside. "+
			"Here is another long sentence that also runs on for a while.",
		chunks[0])
	// 收尾问句单独成条
	assert.Equal(t, "Does that make sense?", chunks[1])
}

func TestHumanLikeChunksFlushesBufferBeforeTrailingQuestion(t *testing.T) {
	text := "Here is one long sentence that will sit in the buffer alone. Ready to continue?"
	chunks := HumanLikeChunks(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Here is one long sentence that will sit in the buffer alone.", chunks[0])
	assert.Equal(t, "Ready to continue?", chunks[1])
}

func TestPlanZeroWhenDisabled(t *testing.T) {
	cfg := DefaultDelayConfig()
	cfg.Enabled = false
	planner := NewPlanner(rand.New(rand.NewSource(1)))

	plan := planner.Plan(cfg, "Hello there", []string{"Hello", "World"})

	assert.Zero(t, plan.ReadingTime)
	assert.Zero(t, plan.MinReadingDelay)
	require.Len(t, plan.ResponseSegments, 2)
	for _, segment := range plan.ResponseSegments {
		assert.Zero(t, segment.WritingDelay)
		assert.Zero(t, segment.InterSegmentDelay)
	}
}

func TestPlanDelayRanges(t *testing.T) {
	cfg := DefaultDelayConfig()
	planner := NewPlanner(rand.New(rand.NewSource(42)))

	plan := planner.Plan(cfg, "A short message", []string{"Response"})

	// 3 词 @250wpm，加抖动与思考区间
	minReading := 3*60/250.0 + cfg.ReadingJitterMin + cfg.ReadingThinkingMin
	maxReading := 3*60/250.0 + cfg.ReadingJitterMax + cfg.ReadingThinkingMax
	assert.GreaterOrEqual(t, plan.ReadingTime, minReading)
	assert.LessOrEqual(t, plan.ReadingTime, maxReading)
	assert.Equal(t, 1.0, plan.MinReadingDelay)

	require.Len(t, plan.ResponseSegments, 1)
	segment := plan.ResponseSegments[0]
	minWriting := 1*60/200.0 + cfg.WritingJitterMin + cfg.WritingThinkingMin
	maxWriting := 1*60/200.0 + cfg.WritingJitterMax + cfg.WritingThinkingMax
	assert.GreaterOrEqual(t, segment.WritingDelay, minWriting)
	assert.LessOrEqual(t, segment.WritingDelay, maxWriting)
	assert.GreaterOrEqual(t, segment.InterSegmentDelay, cfg.IntraMessageDelayMin)
	assert.LessOrEqual(t, segment.InterSegmentDelay, cfg.IntraMessageDelayMax)
}

func TestPlanEmptySegmentsStillReads(t *testing.T) {
	planner := NewPlanner(rand.New(rand.NewSource(7)))
	plan := planner.Plan(DefaultDelayConfig(), "Test", nil)

	assert.Empty(t, plan.ResponseSegments)
	assert.Greater(t, plan.ReadingTime, 0.0)
}

func TestDefaultDelayConfigValues(t *testing.T) {
	cfg := DefaultDelayConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 250.0, cfg.ReadingWordsPerMinute)
	assert.Equal(t, 200.0, cfg.WritingWordsPerMinute)
	assert.Equal(t, 1.0, cfg.MinReadingDelay)
}
