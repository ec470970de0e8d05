// Package workflow holds the customizable stage list of a role's process
// and the on-demand detail of one stage at a time.
package workflow

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dylan/studydash/backend"
	"github.com/dylan/studydash/lifecycle"
	"github.com/dylan/studydash/logger"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Backend is the subset of the backend client an Engine calls.
type Backend interface {
	GenerateWorkflow(ctx context.Context, role, customTools string) (backend.Envelope, error)
	GetStageDetail(ctx context.Context, role, stage string, tools []string) (backend.Envelope, error)
}

type Options struct {
	Context context.Context
	Role    string
	Stages  []Stage
	// CacheSize bounds the stage detail cache. Zero disables it.
	CacheSize int
	Logger    *logger.Logger
}

type detailResult struct {
	key    string
	detail Detail
}

// Engine is owned by one view and driven from its Update loop.
type Engine struct {
	api      Backend
	requests *lifecycle.Controller
	log      *logger.Logger
	cache    *lru.Cache[string, StageDetail]

	stages    []Stage
	role      string
	lastInput string
	lastErr   error

	selected    Stage
	hasSelected bool
	detail      *Detail
}

func NewEngine(api Backend, opts Options) *Engine {
	log := logger.OrNop(opts.Logger)
	e := &Engine{
		api:      api,
		requests: lifecycle.New(opts.Context, log),
		log:      log,
		stages:   NormalizeStages(opts.Stages),
		role:     strings.TrimSpace(opts.Role),
	}
	if opts.CacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		e.cache, _ = lru.New[string, StageDetail](opts.CacheSize)
	}
	return e
}

// Regenerate asks the backend for a workflow customized with the given
// tools. Blank input is ignored and issues nothing.
func (e *Engine) Regenerate(customTools string) tea.Cmd {
	text := strings.TrimSpace(customTools)
	if text == "" {
		return nil
	}
	e.lastInput = text
	e.lastErr = nil

	api, role, log := e.api, e.role, e.log
	log.Info("workflow regeneration requested", "role", role, "custom_tools", text)
	return e.requests.Issue(lifecycle.WorkflowRegeneration, func(ctx context.Context) (any, error) {
		env, err := api.GenerateWorkflow(ctx, role, text)
		if err != nil {
			return nil, err
		}
		return parseWorkflow(env)
	})
}

// RetryRegenerate re-issues the last customization after a failure.
func (e *Engine) RetryRegenerate() tea.Cmd {
	if e.requests.Pending(lifecycle.WorkflowRegeneration) {
		return nil
	}
	return e.Regenerate(e.lastInput)
}

// FetchStageDetail selects stage and loads its detail, from the cache
// when possible. Any earlier detail request is superseded.
func (e *Engine) FetchStageDetail(stage Stage) tea.Cmd {
	stage = NormalizeStages([]Stage{stage})[0]
	e.selected = stage
	e.hasSelected = true
	key := cacheKey(e.role, stage)

	if e.cache != nil {
		if d, ok := e.cache.Get(key); ok {
			e.requests.Cancel(lifecycle.StageDetail)
			e.detail = &Detail{Stage: stage.Name, Detail: d, Available: true}
			e.log.Debug("stage detail served from cache", "stage", stage.Name)
			return nil
		}
	}
	e.detail = nil

	api, role := e.api, e.role
	return e.requests.Issue(lifecycle.StageDetail, func(ctx context.Context) (any, error) {
		env, err := api.GetStageDetail(ctx, role, stage.Name, stage.ToolsUsed)
		if err != nil {
			return nil, err
		}
		return detailResult{key: key, detail: parseDetail(stage.Name, env)}, nil
	})
}

// RetryDetail re-fetches the selected stage.
func (e *Engine) RetryDetail() tea.Cmd {
	if !e.hasSelected || e.requests.Pending(lifecycle.StageDetail) {
		return nil
	}
	return e.FetchStageDetail(e.selected)
}

// Update applies request results addressed to this engine.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(lifecycle.ResultMsg)
	if !ok {
		return nil
	}
	switch res.Session {
	case lifecycle.WorkflowRegeneration:
		if e.requests.Resolve(res) {
			e.applyWorkflow(res)
		}
	case lifecycle.StageDetail:
		if e.requests.Resolve(res) {
			e.applyDetail(res)
		}
	}
	return nil
}

func (e *Engine) applyWorkflow(res lifecycle.ResultMsg) {
	if res.Err != nil {
		e.lastErr = res.Err
		e.log.Warn("workflow regeneration failed", "error", res.Err, "stages_kept", len(e.stages))
		return
	}
	gen := res.Value.(generated)
	e.stages = gen.Stages
	if gen.Role != "" {
		e.role = gen.Role
	}
	e.lastErr = nil
	e.log.Info("workflow regenerated", "stages", len(e.stages), "role", e.role)
}

func (e *Engine) applyDetail(res lifecycle.ResultMsg) {
	if res.Err != nil {
		e.detail = nil
		return
	}
	dr := res.Value.(detailResult)
	e.detail = &dr.detail
	if !dr.detail.Available {
		e.log.Info("stage detail unavailable", "stage", dr.detail.Stage)
		return
	}
	if e.cache != nil {
		e.cache.Add(dr.key, dr.detail.Detail)
	}
}

// CloseDetail abandons the detail request and clears the shown detail.
func (e *Engine) CloseDetail() {
	e.requests.Cancel(lifecycle.StageDetail)
	e.detail = nil
	e.hasSelected = false
	e.selected = Stage{}
}

// Reset cancels every request the engine owns. Stages are kept.
func (e *Engine) Reset() {
	e.requests.CancelAll()
	e.detail = nil
	e.hasSelected = false
	e.selected = Stage{}
}

// Stages returns a copy of the current workflow.
func (e *Engine) Stages() []Stage {
	return append([]Stage(nil), e.stages...)
}

func (e *Engine) RoleLabel() string { return e.role }

func (e *Engine) LastError() error { return e.lastErr }

// ActiveDetail returns the detail of the selected stage once it resolved.
func (e *Engine) ActiveDetail() (Detail, bool) {
	if e.detail == nil {
		return Detail{}, false
	}
	return *e.detail, true
}

// Selected returns the stage whose detail is shown or loading.
func (e *Engine) Selected() (Stage, bool) {
	return e.selected, e.hasSelected
}

func (e *Engine) RegenerateState() lifecycle.State {
	return e.requests.State(lifecycle.WorkflowRegeneration)
}

func (e *Engine) DetailState() lifecycle.State {
	return e.requests.State(lifecycle.StageDetail)
}

func cacheKey(role string, s Stage) string {
	return role + "\x00" + s.Name + "\x00" + strings.Join(s.ToolsUsed, "\x1f")
}
