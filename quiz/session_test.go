package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dylan/studydash/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGen struct {
	replies []string
	err     error
	calls   []string
}

func (g *stubGen) GenerateContent(ctx context.Context, role, message, contextText string) (string, error) {
	g.calls = append(g.calls, contextText)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "", nil
	}
	r := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return r, nil
}

func fencedQuiz(t *testing.T, n int) string {
	t.Helper()
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:            i + 1,
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: i % OptionCount,
			Explanation:   "because",
		}
	}
	b, err := json.Marshal(qs)
	require.NoError(t, err)
	return "Here you go:\n```json\n" + string(b) + "\n```"
}

func newTestSession(gen Generator) *Session {
	return NewSession(gen, Options{FeedbackInterval: time.Millisecond})
}

// run executes cmd and feeds its message back into the session.
func run(s *Session, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	s.Update(cmd())
}

func TestAnswerEveryQuestionCorrectly(t *testing.T) {
	gen := &stubGen{replies: []string{fencedQuiz(t, 3)}}
	s := newTestSession(gen)

	cmd := s.Open(Request{PhaseName: "API Design", Topics: []string{"REST"}, Role: "Backend Engineer"})
	assert.Equal(t, Loading, s.Phase())
	assert.True(t, s.Request().Phase == lifecycle.Pending)

	run(s, cmd)
	require.Equal(t, Answering, s.Phase())
	assert.Equal(t, 3, s.Total())
	assert.False(t, s.UsedFallback())
	assert.Equal(t, []string{"API Design"}, gen.calls)

	for i := 0; i < 3; i++ {
		q, ok := s.Current()
		require.True(t, ok)
		adv, accepted := s.Select(q.CorrectAnswer)
		require.True(t, accepted)
		assert.Equal(t, Feedback, s.Phase())
		assert.Equal(t, FeedbackCorrect, s.Feedback())
		run(s, adv)
	}

	assert.Equal(t, Finished, s.Phase())
	assert.Equal(t, 3, s.Score())
}

func TestWrongAnswerNamesCorrectOption(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{fencedQuiz(t, 1)}})
	run(s, s.Open(Request{PhaseName: "Testing"}))

	_, ok := s.Select(3)
	require.True(t, ok)
	assert.Equal(t, "Incorrect. The correct answer is: A", s.Feedback())
	assert.Equal(t, 0, s.Score())
}

func TestSelectIsOncePerQuestion(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{fencedQuiz(t, 2)}})
	run(s, s.Open(Request{PhaseName: "Testing"}))

	adv, ok := s.Select(0)
	require.True(t, ok)
	_, again := s.Select(0)
	assert.False(t, again)
	assert.Equal(t, 1, s.Score())

	run(s, adv)
	assert.Equal(t, Answering, s.Phase())
	assert.Equal(t, 1, s.CurrentIndex())
	_, picked := s.Selected()
	assert.False(t, picked)
}

func TestSelectRejectsOutOfRangeAndWrongPhase(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{fencedQuiz(t, 1)}})
	_, ok := s.Select(0)
	assert.False(t, ok, "idle")

	cmd := s.Open(Request{PhaseName: "Testing"})
	_, ok = s.Select(0)
	assert.False(t, ok, "loading")

	run(s, cmd)
	_, ok = s.Select(-1)
	assert.False(t, ok)
	_, ok = s.Select(OptionCount)
	assert.False(t, ok)
	assert.Equal(t, Answering, s.Phase())
}

func TestSingleQuestionFinishesAfterOneAdvance(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{fencedQuiz(t, 1)}})
	run(s, s.Open(Request{PhaseName: "Testing"}))

	adv, ok := s.Select(1)
	require.True(t, ok)
	run(s, adv)
	assert.Equal(t, Finished, s.Phase())
	assert.Equal(t, 0, s.Score())

	s.Update(AdvanceMsg{Tag: 1 << 20})
	assert.Equal(t, Finished, s.Phase())
}

func TestCloseDuringFeedbackDropsAdvance(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{fencedQuiz(t, 2)}})
	run(s, s.Open(Request{PhaseName: "Testing"}))

	adv, ok := s.Select(0)
	require.True(t, ok)
	s.Close()
	run(s, adv)

	assert.Equal(t, Idle, s.Phase())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Total())
}

func TestReopenDuringFeedbackDropsOldAdvance(t *testing.T) {
	gen := &stubGen{replies: []string{fencedQuiz(t, 2), fencedQuiz(t, 3)}}
	s := newTestSession(gen)
	run(s, s.Open(Request{PhaseName: "First"}))

	staleAdv, ok := s.Select(0)
	require.True(t, ok)

	run(s, s.Open(Request{PhaseName: "Second"}))
	require.Equal(t, Answering, s.Phase())
	run(s, staleAdv)

	assert.Equal(t, Answering, s.Phase())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 3, s.Total())
}

func TestUnusableReplyUsesFallback(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{"Sorry, I can only talk about cooking."}})
	run(s, s.Open(Request{PhaseName: "Testing"}))

	require.Equal(t, Answering, s.Phase())
	assert.True(t, s.UsedFallback())
	assert.Equal(t, FallbackQuestions(), s.Questions())

	for s.Phase() != Finished {
		q, _ := s.Current()
		adv, ok := s.Select(q.CorrectAnswer)
		require.True(t, ok)
		run(s, adv)
	}
	assert.Equal(t, len(FallbackQuestions()), s.Score())
}

func TestStaleGenerationIsDropped(t *testing.T) {
	gen := &stubGen{replies: []string{fencedQuiz(t, 1), fencedQuiz(t, 4)}}
	s := newTestSession(gen)

	first := s.Open(Request{PhaseName: "First"})
	second := s.Open(Request{PhaseName: "Second"})

	firstMsg := first()
	run(s, second)
	require.Equal(t, 4, s.Total())

	s.Update(firstMsg)
	assert.Equal(t, 4, s.Total())
	assert.Equal(t, "Second", s.LastRequest().PhaseName)
}

func TestResultAfterCloseIsDropped(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{fencedQuiz(t, 2)}})
	cmd := s.Open(Request{PhaseName: "Testing"})
	s.Close()
	run(s, cmd)

	assert.Equal(t, Idle, s.Phase())
	assert.Equal(t, 0, s.Total())
}

func TestTransportErrorAllowsRetry(t *testing.T) {
	gen := &stubGen{err: errors.New("connection refused")}
	s := newTestSession(gen)
	run(s, s.Open(Request{PhaseName: "Testing"}))

	assert.Equal(t, Loading, s.Phase())
	st := s.Request()
	assert.Equal(t, lifecycle.Error, st.Phase)
	assert.EqualError(t, st.Err, "connection refused")

	gen.err = nil
	gen.replies = []string{fencedQuiz(t, 2)}
	run(s, s.Retry())
	assert.Equal(t, Answering, s.Phase())
	assert.Equal(t, 2, s.Total())
	assert.Nil(t, s.Retry())
}

func TestAttemptIDPerOpen(t *testing.T) {
	s := newTestSession(&stubGen{replies: []string{fencedQuiz(t, 1), fencedQuiz(t, 1)}})
	assert.Empty(t, s.Attempt())

	run(s, s.Open(Request{PhaseName: "First"}))
	first := s.Attempt()
	require.NotEmpty(t, first)

	run(s, s.Open(Request{PhaseName: "Second"}))
	assert.NotEqual(t, first, s.Attempt())

	s.Close()
	assert.Empty(t, s.Attempt())
}
