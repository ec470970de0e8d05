package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dylan/studydash/backend"
	"github.com/dylan/studydash/config"
	"github.com/dylan/studydash/logger"
	"github.com/dylan/studydash/quiz"
	"github.com/dylan/studydash/tui"
	"github.com/dylan/studydash/workflow"
	"github.com/joho/godotenv"
)

// api is what the quiz and workflow engines need from a backend.
type api interface {
	quiz.Generator
	workflow.Backend
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the whole program. It returns the exit code so deferred cleanup,
// including the log flush, happens before the process exits.
func run(args []string) int {
	fs := flag.NewFlagSet("studydash", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file (default: ~/.config/studydash/config.toml)")
	role := fs.String("role", "", "role the workflow and quizzes are tailored to")
	phase := fs.String("phase", "", "open a quiz for this phase on start")
	topics := fs.String("topics", "", "comma-separated quiz topics")
	offline := fs.Bool("offline", false, "use built-in sample responses instead of the backend")
	initConfig := fs.Bool("init", false, "write a starter config file and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	path := *configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath()
	}

	if *initConfig {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Config already exists: %s\n", path)
			return 1
		}
		if err := config.Save(path, config.Starter()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			return 1
		}
		fmt.Println("Wrote", path)
		return 0
	}

	cfg, err := config.Load(path)
	if err != nil {
		// If using default path and file doesn't exist, use empty config
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg = config.Config{}
		} else {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	_ = godotenv.Load()
	cfg.ApplyEnv(os.LookupEnv)
	if *role != "" {
		cfg.Workflow.Role = *role
	}

	log, err := logger.New(cfg.ResolvedLogMode(), cfg.ResolvedLogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer log.Sync()
	log.Info("config loaded", "path", path, "backend", cfg.ResolvedBaseURL(), "offline", *offline)

	var client api
	if *offline {
		client = backend.NewFake(600 * time.Millisecond)
	} else {
		client = backend.New(backend.Options{
			BaseURL: cfg.ResolvedBaseURL(),
			APIKey:  cfg.Backend.APIKey,
			Timeout: cfg.ResolvedTimeout(),
			Paths:   cfg.ResolvedPaths(),
		}, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var gen quiz.Generator = client
	if cmd := backend.NewCommand(cfg.Backend.ContentCommand); cmd != nil && !*offline {
		gen = cmd
		log.Info("quiz content from local command", "command", cmd.Argv[0])
	}

	session := quiz.NewSession(gen, quiz.Options{
		Context:          ctx,
		FeedbackInterval: cfg.ResolvedFeedbackInterval(),
		QuestionCount:    cfg.ResolvedQuestionCount(),
		Logger:           log.With("view", "quiz"),
	})
	engine := workflow.NewEngine(client, workflow.Options{
		Context:   ctx,
		Role:      cfg.ResolvedRole(),
		Stages:    seedStages(cfg.ResolvedStages()),
		CacheSize: cfg.ResolvedDetailCacheSize(),
		Logger:    log.With("view", "workflow"),
	})

	app := tui.NewApp(tui.Options{
		Config:      cfg,
		Quiz:        session,
		Workflow:    engine,
		Logger:      log,
		QuizRequest: quiz.Request{PhaseName: *phase, Topics: splitList(*topics)},
		StartQuiz:   *phase != "",
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("program exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func seedStages(in []config.StageConfig) []workflow.Stage {
	out := make([]workflow.Stage, len(in))
	for i, s := range in {
		out[i] = workflow.Stage{Name: s.Name, Description: s.Description, ToolsUsed: s.Tools, Activities: s.Activities}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
