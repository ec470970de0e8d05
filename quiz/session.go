package quiz

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dylan/studydash/extract"
	"github.com/dylan/studydash/lifecycle"
	"github.com/dylan/studydash/logger"
	"github.com/google/uuid"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Answering
	Feedback
	Finished
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Answering:
		return "answering"
	case Feedback:
		return "feedback"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

const (
	DefaultFeedbackInterval = 2 * time.Second
	DefaultQuestionCount    = 5

	FeedbackCorrect = "Correct!"
)

// Generator is the backend call a Session needs.
type Generator interface {
	GenerateContent(ctx context.Context, role, message, contextText string) (string, error)
}

// AdvanceMsg moves a session past its feedback display. Only the tag a
// session issued last is honoured, so closing or restarting a session
// turns an outstanding advance into a no-op.
type AdvanceMsg struct {
	Tag int
}

type Options struct {
	Context          context.Context
	FeedbackInterval time.Duration
	QuestionCount    int
	Logger           *logger.Logger
}

// Session is one quiz attempt. It is driven from a single bubbletea
// Update loop and is not safe for concurrent use.
type Session struct {
	gen      Generator
	requests *lifecycle.Controller
	base     *logger.Logger
	log      *logger.Logger
	interval time.Duration
	count    int

	attempt    string
	req        Request
	questions  []Question
	current    int
	score      int
	selected   int
	feedback   string
	phase      Phase
	fallback   bool
	advanceTag int
}

func NewSession(gen Generator, opts Options) *Session {
	log := logger.OrNop(opts.Logger)
	if opts.FeedbackInterval <= 0 {
		opts.FeedbackInterval = DefaultFeedbackInterval
	}
	if opts.QuestionCount <= 0 {
		opts.QuestionCount = DefaultQuestionCount
	}
	return &Session{
		gen:      gen,
		requests: lifecycle.New(opts.Context, log),
		base:     log,
		log:      log,
		interval: opts.FeedbackInterval,
		count:    opts.QuestionCount,
		selected: -1,
	}
}

// Open starts a fresh attempt and requests its questions.
func (s *Session) Open(req Request) tea.Cmd {
	s.Close()
	s.req = req
	s.attempt = uuid.NewString()
	s.log = s.base.With("attempt", s.attempt, "phase_name", req.PhaseName)
	s.phase = Loading
	s.log.Info("quiz opened", "topics", req.Topics, "role", req.Role)
	return s.issue()
}

// Retry re-issues the generation request after a transport failure.
func (s *Session) Retry() tea.Cmd {
	if s.phase != Loading || s.requests.Pending(lifecycle.QuizGeneration) {
		return nil
	}
	s.log.Info("quiz generation retried")
	return s.issue()
}

func (s *Session) issue() tea.Cmd {
	gen, req, log := s.gen, s.req, s.log
	prompt := BuildPrompt(req, s.count)
	return s.requests.Issue(lifecycle.QuizGeneration, func(ctx context.Context) (any, error) {
		reply, err := gen.GenerateContent(ctx, req.Role, prompt, req.PhaseName)
		if err != nil {
			return nil, err
		}
		res := ParseQuestions(reply)
		if !res.Parsed {
			log.Warn("quiz reply unusable, using fallback questions", "error", res.Err, "reply_bytes", len(reply))
		}
		return res, nil
	})
}

// Update applies generation results and scheduled advances.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case lifecycle.ResultMsg:
		if msg.Session != lifecycle.QuizGeneration || !s.requests.Resolve(msg) {
			return nil
		}
		if msg.Err != nil {
			return nil
		}
		res, _ := msg.Value.(extract.Result[QuestionList])
		s.load(res)
	case AdvanceMsg:
		s.advance(msg.Tag)
	}
	return nil
}

func (s *Session) load(res extract.Result[QuestionList]) {
	if s.phase != Loading {
		return
	}
	if res.Parsed {
		s.questions = res.Value
		s.fallback = false
	} else {
		s.questions = FallbackQuestions()
		s.fallback = true
	}
	s.current = 0
	s.score = 0
	s.selected = -1
	s.phase = Answering
	s.log.Info("quiz ready", "questions", len(s.questions), "fallback", s.fallback, "strategy", res.Strategy)
}

// Select answers the current question. It reports false when the answer
// was rejected: wrong phase, already answered, or out of range. On
// acceptance it returns the timed advance to the next question.
func (s *Session) Select(i int) (tea.Cmd, bool) {
	if s.phase != Answering || s.selected >= 0 {
		return nil, false
	}
	q := s.questions[s.current]
	if i < 0 || i >= len(q.Options) {
		return nil, false
	}

	s.selected = i
	if i == q.CorrectAnswer {
		s.score++
		s.feedback = FeedbackCorrect
	} else {
		s.feedback = fmt.Sprintf("Incorrect. The correct answer is: %s", q.Options[q.CorrectAnswer])
	}
	s.phase = Feedback

	s.advanceTag++
	tag := s.advanceTag
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return AdvanceMsg{Tag: tag}
	}), true
}

func (s *Session) advance(tag int) {
	if s.phase != Feedback || tag != s.advanceTag {
		return
	}
	s.current++
	s.selected = -1
	s.feedback = ""
	if s.current >= len(s.questions) {
		s.phase = Finished
		s.log.Info("quiz finished", "score", s.score, "total", len(s.questions))
		return
	}
	s.phase = Answering
}

// Close returns the session to Idle and discards the attempt.
func (s *Session) Close() {
	s.requests.Cancel(lifecycle.QuizGeneration)
	s.advanceTag++
	s.questions = nil
	s.current = 0
	s.score = 0
	s.selected = -1
	s.feedback = ""
	s.fallback = false
	s.attempt = ""
	s.phase = Idle
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Score() int { return s.score }
func (s *Session) CurrentIndex() int { return s.current }
func (s *Session) Total() int { return len(s.questions) }
func (s *Session) Feedback() string { return s.feedback }
func (s *Session) UsedFallback() bool { return s.fallback }
func (s *Session) LastRequest() Request { return s.req }

// Attempt identifies the open attempt in logs and the status bar. It is
// empty while Idle.
func (s *Session) Attempt() string { return s.attempt }
func (s *Session) Request() lifecycle.State { return s.requests.State(lifecycle.QuizGeneration) }

// Questions returns a copy of the loaded questions.
func (s *Session) Questions() []Question {
	return append([]Question(nil), s.questions...)
}

// Current returns the question being answered or shown with feedback.
func (s *Session) Current() (Question, bool) {
	if s.current < 0 || s.current >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.current], true
}

// Selected returns the answer chosen for the current question.
func (s *Session) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}
