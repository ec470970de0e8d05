package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dylan/studydash/backend"
)

type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Quiz     QuizConfig     `toml:"quiz"`
	Workflow WorkflowConfig `toml:"workflow"`
	Log      LogConfig      `toml:"log"`
	Theme    ThemeConfig    `toml:"theme"`
	Display  DisplayConfig  `toml:"display"`
}

type BackendConfig struct {
	BaseURL string      `toml:"base_url,omitempty"`
	APIKey  string      `toml:"api_key,omitempty"`
	Timeout string      `toml:"timeout,omitempty"` // duration, e.g. "30s"; empty means none
	Paths   PathsConfig `toml:"paths,omitempty"`

	// ContentCommand generates quiz content with a local CLI instead of
	// the content endpoint, e.g. "claude --print".
	ContentCommand string `toml:"content_command,omitempty"`
}

type PathsConfig struct {
	Content     string `toml:"content,omitempty"`
	Workflow    string `toml:"workflow,omitempty"`
	StageDetail string `toml:"stage_detail,omitempty"`
}

type QuizConfig struct {
	Phase            string   `toml:"phase,omitempty"`
	Topics           []string `toml:"topics,omitempty"`
	FeedbackInterval string   `toml:"feedback_interval,omitempty"`
	QuestionCount    int      `toml:"question_count,omitempty"`
}

type WorkflowConfig struct {
	Role            string        `toml:"role,omitempty"`
	DetailCacheSize *int          `toml:"detail_cache_size,omitempty"` // 0 disables the cache
	Stages          []StageConfig `toml:"stage,omitempty"`
}

// StageConfig seeds the workflow shown before any regeneration.
type StageConfig struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description,omitempty"`
	Tools       []string `toml:"tools,omitempty"`
	Activities  []string `toml:"activities,omitempty"`
}

type LogConfig struct {
	Path string `toml:"path,omitempty"`
	Mode string `toml:"mode,omitempty"` // "dev" or "prod"
}

type ThemeConfig struct {
	BG                string `toml:"bg,omitempty"`
	FG                string `toml:"fg,omitempty"`
	Accent            string `toml:"accent,omitempty"`
	Accent2           string `toml:"accent2,omitempty"`
	Muted             string `toml:"muted,omitempty"`
	Dim               string `toml:"dim,omitempty"`
	Correct           string `toml:"correct,omitempty"`
	Incorrect         string `toml:"incorrect,omitempty"`
	StatusBarBG       string `toml:"status_bar_bg,omitempty"`
	StatusBarFG       string `toml:"status_bar_fg,omitempty"`
	Error             string `toml:"error,omitempty"`
	CursorBG          string `toml:"cursor_bg,omitempty"`
	CodeBG            string `toml:"code_bg,omitempty"`
	SpinnerFG         string `toml:"spinner_fg,omitempty"`
	FeedbackSuccessFG string `toml:"feedback_success_fg,omitempty"`
	FeedbackSuccessBG string `toml:"feedback_success_bg,omitempty"`
	FeedbackWarningFG string `toml:"feedback_warning_fg,omitempty"`
	FeedbackWarningBG string `toml:"feedback_warning_bg,omitempty"`
	FeedbackErrorFG   string `toml:"feedback_error_fg,omitempty"`
	FeedbackErrorBG   string `toml:"feedback_error_bg,omitempty"`
}

type DisplayConfig struct {
	SpinnerType      string `toml:"spinner_type,omitempty"`
	ShowExplanations *bool  `toml:"show_explanations,omitempty"`
	Editor           string `toml:"editor,omitempty"` // overrides $VISUAL/$EDITOR for snippets
}

const (
	DefaultBaseURL          = "http://localhost:3000"
	DefaultRole             = "Software Engineer"
	DefaultPhase            = "Fundamentals"
	DefaultFeedbackInterval = 2 * time.Second
	DefaultQuestionCount    = 5
	DefaultDetailCacheSize  = 32
)

// Environment variables that override file values.
const (
	EnvBackendURL = "STUDYDASH_BACKEND_URL"
	EnvAPIKey     = "STUDYDASH_API_KEY"
	EnvRole       = "STUDYDASH_ROLE"
	EnvLogPath    = "STUDYDASH_LOG_PATH"
)

// DefaultConfigPath returns ~/.config/studydash/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "studydash", "config.toml")
}

func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if _, err := parseDuration(c.Backend.Timeout); err != nil {
		return fmt.Errorf("backend.timeout: %w", err)
	}
	if _, err := parseDuration(c.Quiz.FeedbackInterval); err != nil {
		return fmt.Errorf("quiz.feedback_interval: %w", err)
	}
	for i, s := range c.Workflow.Stages {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("workflow.stage %d has no name", i+1)
		}
	}
	switch c.Log.Mode {
	case "", "dev", "prod":
	default:
		return fmt.Errorf("log.mode %q: want dev or prod", c.Log.Mode)
	}
	return nil
}

// ApplyEnv overrides file values with any variables lookup reports as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBackendURL); ok && v != "" {
		c.Backend.BaseURL = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.Backend.APIKey = v
	}
	if v, ok := lookup(EnvRole); ok && v != "" {
		c.Workflow.Role = v
	}
	if v, ok := lookup(EnvLogPath); ok && v != "" {
		c.Log.Path = v
	}
}

func (c Config) ResolvedBaseURL() string {
	return pick(c.Backend.BaseURL, DefaultBaseURL)
}

// ResolvedTimeout returns the backend timeout, or 0 for none.
func (c Config) ResolvedTimeout() time.Duration {
	d, _ := parseDuration(c.Backend.Timeout)
	return d
}

// ResolvedPaths fills unset endpoint paths with the backend defaults.
func (c Config) ResolvedPaths() backend.Paths {
	d := backend.DefaultPaths()
	return backend.Paths{
		Content:     pick(c.Backend.Paths.Content, d.Content),
		Workflow:    pick(c.Backend.Paths.Workflow, d.Workflow),
		StageDetail: pick(c.Backend.Paths.StageDetail, d.StageDetail),
	}
}

func (c Config) ResolvedRole() string {
	return pick(strings.TrimSpace(c.Workflow.Role), DefaultRole)
}

func (c Config) ResolvedPhase() string {
	return pick(strings.TrimSpace(c.Quiz.Phase), DefaultPhase)
}

func (c Config) ResolvedFeedbackInterval() time.Duration {
	if d, _ := parseDuration(c.Quiz.FeedbackInterval); d > 0 {
		return d
	}
	return DefaultFeedbackInterval
}

func (c Config) ResolvedQuestionCount() int {
	if c.Quiz.QuestionCount > 0 {
		return c.Quiz.QuestionCount
	}
	return DefaultQuestionCount
}

// ResolvedDetailCacheSize returns the configured size, 32 when unset.
func (c Config) ResolvedDetailCacheSize() int {
	if c.Workflow.DetailCacheSize == nil {
		return DefaultDetailCacheSize
	}
	if *c.Workflow.DetailCacheSize < 0 {
		return 0
	}
	return *c.Workflow.DetailCacheSize
}

// DefaultStages is the workflow shown until the user customizes one.
func DefaultStages() []StageConfig {
	return []StageConfig{
		{Name: "Planning", Description: "Clarify requirements and agree on scope.", Tools: []string{"Jira", "Confluence"}, Activities: []string{"Write user stories", "Estimate work"}},
		{Name: "Design", Description: "Shape interfaces and data before building.", Tools: []string{"Figma", "draw.io"}, Activities: []string{"Sketch architecture", "Review trade-offs"}},
		{Name: "Development", Description: "Build the change in small, reviewed steps.", Tools: []string{"Git", "VS Code"}, Activities: []string{"Implement", "Code review"}},
		{Name: "Testing", Description: "Prove the change works and keeps working.", Tools: []string{"Jest", "Postman"}, Activities: []string{"Unit tests", "Integration tests"}},
		{Name: "Deployment", Description: "Ship safely and watch the rollout.", Tools: []string{"Docker", "GitHub Actions"}, Activities: []string{"Release", "Monitor"}},
	}
}

func (c Config) ResolvedStages() []StageConfig {
	if len(c.Workflow.Stages) > 0 {
		return c.Workflow.Stages
	}
	return DefaultStages()
}

// ResolvedLogPath returns log.path with ~ expanded, or
// ~/.config/studydash/studydash.log.
func (c Config) ResolvedLogPath() string {
	if c.Log.Path != "" {
		return expandHome(c.Log.Path)
	}
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "studydash.log")
}

func (c Config) ResolvedLogMode() string {
	return pick(c.Log.Mode, "prod")
}

func (c Config) ResolvedSpinnerType() string {
	return pick(c.Display.SpinnerType, "minidot")
}

// ResolvedShowExplanations returns show_explanations or true as default.
func (c Config) ResolvedShowExplanations() bool {
	if c.Display.ShowExplanations != nil {
		return *c.Display.ShowExplanations
	}
	return true
}

// DefaultTheme returns the Vesper color palette.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		BG:                "#101010",
		FG:                "#ffffff",
		Accent:            "#ffc799",
		Accent2:           "#99ffe4",
		Muted:             "#505050",
		Dim:               "#a0a0a0",
		Correct:           "#99ffe4",
		Incorrect:         "#ff8080",
		StatusBarBG:       "#1a1a1a",
		StatusBarFG:       "#a0a0a0",
		Error:             "#ff8080",
		CursorBG:          "#2a2a2a",
		CodeBG:            "#1a1a1a",
		SpinnerFG:         "#ffc799",
		FeedbackSuccessFG: "#99ffe4",
		FeedbackSuccessBG: "#1a3a2a",
		FeedbackWarningFG: "#ffc799",
		FeedbackWarningBG: "#2a2215",
		FeedbackErrorFG:   "#ff8080",
		FeedbackErrorBG:   "#3a1a1a",
	}
}

// ResolvedTheme merges config theme with defaults for any unset fields.
func (c Config) ResolvedTheme() ThemeConfig {
	d := DefaultTheme()
	return ThemeConfig{
		BG:                pick(c.Theme.BG, d.BG),
		FG:                pick(c.Theme.FG, d.FG),
		Accent:            pick(c.Theme.Accent, d.Accent),
		Accent2:           pick(c.Theme.Accent2, d.Accent2),
		Muted:             pick(c.Theme.Muted, d.Muted),
		Dim:               pick(c.Theme.Dim, d.Dim),
		Correct:           pick(c.Theme.Correct, d.Correct),
		Incorrect:         pick(c.Theme.Incorrect, d.Incorrect),
		StatusBarBG:       pick(c.Theme.StatusBarBG, d.StatusBarBG),
		StatusBarFG:       pick(c.Theme.StatusBarFG, d.StatusBarFG),
		Error:             pick(c.Theme.Error, d.Error),
		CursorBG:          pick(c.Theme.CursorBG, d.CursorBG),
		CodeBG:            pick(c.Theme.CodeBG, d.CodeBG),
		SpinnerFG:         pick(c.Theme.SpinnerFG, d.SpinnerFG),
		FeedbackSuccessFG: pick(c.Theme.FeedbackSuccessFG, d.FeedbackSuccessFG),
		FeedbackSuccessBG: pick(c.Theme.FeedbackSuccessBG, d.FeedbackSuccessBG),
		FeedbackWarningFG: pick(c.Theme.FeedbackWarningFG, d.FeedbackWarningFG),
		FeedbackWarningBG: pick(c.Theme.FeedbackWarningBG, d.FeedbackWarningBG),
		FeedbackErrorFG:   pick(c.Theme.FeedbackErrorFG, d.FeedbackErrorFG),
		FeedbackErrorBG:   pick(c.Theme.FeedbackErrorBG, d.FeedbackErrorBG),
	}
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func parseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// Save writes cfg as TOML, creating the directory if needed. The API key
// is never written; keep it in the environment.
func Save(path string, cfg Config) error {
	cfg.Backend.APIKey = ""

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Starter returns a config populated with the defaults, for writing a
// first config file.
func Starter() Config {
	size := DefaultDetailCacheSize
	return Config{
		Backend: BackendConfig{BaseURL: DefaultBaseURL},
		Quiz: QuizConfig{
			Phase:            DefaultPhase,
			FeedbackInterval: DefaultFeedbackInterval.String(),
			QuestionCount:    DefaultQuestionCount,
		},
		Workflow: WorkflowConfig{Role: DefaultRole, DetailCacheSize: &size, Stages: DefaultStages()},
		Log:      LogConfig{Mode: "prod"},
	}
}
