// Package lifecycle tracks one current request per logical session and
// drops responses that were superseded or abandoned.
//
// A Controller is owned by a single view and is only touched from the
// bubbletea Update loop, so it holds no locks. Requests run inside the
// tea.Cmd it returns; their outcome comes back as a ResultMsg.
package lifecycle

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dylan/studydash/logger"
)

type Phase int

const (
	Idle Phase = iota
	Pending
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Token identifies one issued request. Tokens only grow.
type Token uint64

// SessionID names a logical session.
type SessionID string

const (
	QuizGeneration       SessionID = "quiz-generation"
	WorkflowRegeneration SessionID = "workflow-regeneration"
	StageDetail          SessionID = "stage-detail"
)

// State is the request state of one session.
type State struct {
	Phase Phase
	Token Token
	Err   error
}

// Func performs a single request. It must honour ctx cancellation.
type Func func(ctx context.Context) (any, error)

// ResultMsg carries a finished request back to the event loop.
type ResultMsg struct {
	Session SessionID
	Token   Token
	Value   any
	Err     error
}

type entry struct {
	state  State
	cancel context.CancelFunc
}

type Controller struct {
	parent   context.Context
	log      *logger.Logger
	last     Token
	sessions map[SessionID]*entry
}

// New returns a controller whose request contexts derive from parent.
func New(parent context.Context, log *logger.Logger) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	return &Controller{
		parent:   parent,
		log:      logger.OrNop(log),
		sessions: make(map[SessionID]*entry),
	}
}

func (c *Controller) entry(id SessionID) *entry {
	e, ok := c.sessions[id]
	if !ok {
		e = &entry{}
		c.sessions[id] = e
	}
	return e
}

func (c *Controller) next() Token {
	c.last++
	return c.last
}

// Issue supersedes any request of session id and starts a new one.
func (c *Controller) Issue(id SessionID, fn Func) tea.Cmd {
	e := c.entry(id)
	if e.cancel != nil {
		e.cancel()
		c.log.Debug("request superseded", "session", id, "request", e.state.Token)
	}

	tok := c.next()
	ctx, cancel := context.WithCancel(c.parent)
	e.cancel = cancel
	e.state = State{Phase: Pending, Token: tok}
	c.log.Debug("request issued", "session", id, "request", tok)

	return func() tea.Msg {
		v, err := fn(ctx)
		return ResultMsg{Session: id, Token: tok, Value: v, Err: err}
	}
}

// Resolve applies msg if it answers the session's current pending
// request and reports whether it did. Stale results are dropped.
func (c *Controller) Resolve(msg ResultMsg) bool {
	e, ok := c.sessions[msg.Session]
	if !ok || e.state.Phase != Pending || e.state.Token != msg.Token {
		c.log.Debug("stale response dropped", "session", msg.Session, "request", msg.Token)
		return false
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if msg.Err != nil {
		e.state.Phase = Error
		e.state.Err = msg.Err
		c.log.Warn("request failed", "session", msg.Session, "request", msg.Token, "error", msg.Err)
		return true
	}
	e.state.Phase = Success
	e.state.Err = nil
	c.log.Debug("request resolved", "session", msg.Session, "request", msg.Token)
	return true
}

// Cancel drops interest in session id. A response still in flight will be
// stale when it arrives.
func (c *Controller) Cancel(id SessionID) {
	e, ok := c.sessions[id]
	if !ok {
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
		c.log.Debug("request cancelled", "session", id, "request", e.state.Token)
	}
	e.state = State{Phase: Idle, Token: c.next()}
}

// CancelAll cancels every session.
func (c *Controller) CancelAll() {
	for id := range c.sessions {
		c.Cancel(id)
	}
}

func (c *Controller) State(id SessionID) State {
	if e, ok := c.sessions[id]; ok {
		return e.state
	}
	return State{}
}

func (c *Controller) Pending(id SessionID) bool {
	return c.State(id).Phase == Pending
}
