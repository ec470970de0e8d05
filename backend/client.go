package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dylan/studydash/logger"
)

// Envelope is the {success, data} response of the structured endpoints.
// Data is left raw: success=true does not promise a well-formed payload.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

type Paths struct {
	Content     string
	Workflow    string
	StageDetail string
}

func DefaultPaths() Paths {
	return Paths{
		Content:     "/api/chat",
		Workflow:    "/api/workflow/generate",
		StageDetail: "/api/workflow/stage-detail",
	}
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration // 0 means no client-side deadline
	Paths   Paths
}

// Client speaks the backend's JSON-over-POST contract.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	paths   Paths
	log     *logger.Logger
}

func New(opts Options, log *logger.Logger) *Client {
	paths := opts.Paths
	d := DefaultPaths()
	if paths.Content == "" {
		paths.Content = d.Content
	}
	if paths.Workflow == "" {
		paths.Workflow = d.Workflow
	}
	if paths.StageDetail == "" {
		paths.StageDetail = d.StageDetail
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		paths:   paths,
		log:     logger.OrNop(log),
	}
}

type contentReq struct {
	Role    string `json:"role"`
	Message string `json:"message"`
	Context string `json:"context"`
}

type contentResp struct {
	Reply string `json:"reply"`
}

type workflowReq struct {
	Role        string `json:"role"`
	CustomTools string `json:"customTools"`
}

type stageDetailReq struct {
	Role  string   `json:"role"`
	Stage string   `json:"stage"`
	Tools []string `json:"tools"`
}

// GenerateContent returns the model's free-form reply.
func (c *Client) GenerateContent(ctx context.Context, role, message, contextText string) (string, error) {
	var out contentResp
	if err := c.post(ctx, "generate content", c.paths.Content, contentReq{Role: role, Message: message, Context: contextText}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *Client) GenerateWorkflow(ctx context.Context, role, customTools string) (Envelope, error) {
	var out Envelope
	err := c.post(ctx, "generate workflow", c.paths.Workflow, workflowReq{Role: role, CustomTools: customTools}, &out)
	return out, err
}

func (c *Client) GetStageDetail(ctx context.Context, role, stage string, tools []string) (Envelope, error) {
	if tools == nil {
		tools = []string{}
	}
	var out Envelope
	err := c.post(ctx, "get stage detail", c.paths.StageDetail, stageDetailReq{Role: role, Stage: stage, Tools: tools}, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, op, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	c.log.Debug("backend call", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}
