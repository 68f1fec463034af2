package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mockwiseai/backend/internal/config"
	"github.com/mockwiseai/backend/internal/metrics"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrTimeout             = errors.New("code execution timed out")
)

// Judge0 language ids
var languageIDs = map[string]int{
	"javascript": 63,
	"python":     71,
	"java":       62,
	"cpp":        54,
}

func LanguageID(language string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(language)]
	return id, ok
}

// statuses 1 (in queue) and 2 (processing) are not final
const (
	statusProcessing = 2
	statusAccepted   = 3
)

type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Result is a finished Judge0 submission.
type Result struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Time          string `json:"time"`
	Memory        int    `json:"memory"`
	Status        Status `json:"status"`
}

func (r *Result) Accepted() bool { return r.Status.ID == statusAccepted }

// ErrorText is whatever the judge reported as the failure, if anything.
func (r *Result) ErrorText() string {
	for _, s := range []string{r.Stderr, r.CompileOutput, r.Message} {
		if s != "" {
			return s
		}
	}
	if r.Accepted() {
		return ""
	}
	return "Execution error"
}

// Runner executes one program against one stdin.
type Runner interface {
	Run(ctx context.Context, source, language, stdin string) (*Result, error)
}

// Client talks to a Judge0 compatible API: submit, then poll by token.
type Client struct {
	baseURL string
	apiKey  string
	host    string
	timeout time.Duration
	poll    time.Duration
	http    *http.Client
}

func NewClient(cfg config.JudgeConfig) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		host:    cfg.Host,
		timeout: cfg.Timeout,
		poll:    cfg.PollInterval,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if c.poll <= 0 {
		c.poll = 500 * time.Millisecond
	}
	return c
}

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

func (c *Client) Run(ctx context.Context, source, language, stdin string) (*Result, error) {
	langID, ok := LanguageID(language)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.submit(ctx, submissionRequest{SourceCode: source, LanguageID: langID, Stdin: stdin})
	if err != nil {
		metrics.JudgeRequest("error")
		return nil, err
	}

	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()
	for {
		res, err := c.fetch(ctx, token)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				metrics.JudgeRequest("timeout")
				return nil, ErrTimeout
			}
			metrics.JudgeRequest("error")
			return nil, err
		}
		if res.Status.ID > statusProcessing {
			metrics.JudgeRequest("finished")
			return res, nil
		}

		select {
		case <-ctx.Done():
			metrics.JudgeRequest("timeout")
			return nil, ErrTimeout
		case <-ticker.C:
		}
	}
}

func (c *Client) submit(ctx context.Context, body submissionRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("submit to judge: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("submit to judge: empty token")
	}
	return out.Token, nil
}

func (c *Client) fetch(ctx context.Context, token string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/submissions/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := c.do(req, &res); err != nil {
		return nil, fmt.Errorf("fetch judge result: %w", err)
	}
	return &res, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.host != "" {
		req.Header.Set("X-RapidAPI-Host", c.host)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("judge returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
