package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryFeedbackLevelExpires(t *testing.T) {
	for _, level := range []FeedbackLevel{FeedbackInfo, FeedbackSuccess, FeedbackWarning, FeedbackError} {
		assert.Positive(t, FeedbackTTL(level), "level %d", level)
		assert.NotNil(t, ExpireFeedback(Feedback{Level: level}), "level %d", level)
	}
	assert.Less(t, FeedbackTTL(FeedbackSuccess), FeedbackTTL(FeedbackError))
}

func TestNotifyCarriesErrorDetail(t *testing.T) {
	msg := Notify(FeedbackError, OpDetail, "Could not load", errors.New("timeout"))()
	fb, ok := msg.(FeedbackMsg)
	require.True(t, ok)
	assert.Equal(t, "timeout", fb.Feedback.Detail)
	assert.Equal(t, OpDetail, fb.Feedback.Op)
	assert.False(t, fb.Feedback.Timestamp.IsZero())
}

func TestGroupsCoverEveryBinding(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range Keys.Groups() {
		require.NotEmpty(t, g.Title)
		for _, b := range g.Bindings {
			seen[b.Help().Desc] = true
		}
	}
	// Up, Down, SwitchView, Answer, OpenQuiz, StageQuiz, Retry, Customize,
	// Select, Copy, Edit, Help, Quit, Escape
	assert.Len(t, seen, 14)
}
