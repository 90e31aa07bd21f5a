// Package sheet talks to the spreadsheet web-app endpoint that mirrors each
// user's item collection. The endpoint is a single URL driven by an "action"
// discriminator: read, save, login.
package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/model"
)

// Client reads and writes a user's item collection on the remote sheet.
type Client interface {
	Read(ctx context.Context, username string) ([]model.ReminderItem, error)
	Save(ctx context.Context, username string, items []model.ReminderItem) error
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// LoginResult is the sheet's answer to a login action.
type LoginResult struct {
	Success  bool    `json:"success"`
	Username string  `json:"username"`
	APIKey   *string `json:"apiKey,omitempty"`
}

type readResponse struct {
	Items []model.ReminderItem `json:"items"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type httpClient struct {
	url  string
	read *resty.Client
	once *resty.Client
	log  zerolog.Logger
}

// Option customizes the client.
type Option func(*options)

type options struct {
	retryCount int
	backoff    time.Duration
	timeout    time.Duration
}

// WithRetry overrides the read retry count and base backoff.
func WithRetry(count int, backoff time.Duration) Option {
	return func(o *options) {
		o.retryCount = count
		o.backoff = backoff
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewClient builds a sheet client for the given endpoint URL.
//
// Reads retry a fixed number of times with linear backoff (base, 2*base,
// 3*base). Saves are attempted once; the syncer owns save queueing.
func NewClient(url string, log zerolog.Logger, opts ...Option) Client {
	o := options{retryCount: 3, backoff: time.Second, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	read := resty.New().
		SetTimeout(o.timeout).
		SetRetryCount(o.retryCount).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			// Linear, not exponential: attempt n waits n*base.
			return o.backoff * time.Duration(resp.Request.Attempt), nil
		})

	once := resty.New().SetTimeout(o.timeout)

	return &httpClient{url: url, read: read, once: once, log: log}
}

func (c *httpClient) Read(ctx context.Context, username string) ([]model.ReminderItem, error) {
	var out readResponse
	resp, err := c.read.R().
		SetContext(ctx).
		SetQueryParam("action", "read").
		SetQueryParam("username", username).
		SetResult(&out).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("sheet read: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sheet read: status %d", resp.StatusCode())
	}
	items := out.Items
	for i := range items {
		items[i].Owner = username
		if items[i].Recurrence != "" {
			items[i].Recurrence = model.NormalizeRecurrence(items[i].Recurrence)
		}
		items[i].DueDate = model.NormalizeDueDate(items[i].DueDate)
	}
	return items, nil
}

func (c *httpClient) Save(ctx context.Context, username string, items []model.ReminderItem) error {
	if items == nil {
		items = []model.ReminderItem{}
	}
	body := map[string]interface{}{
		"action":   "save",
		"username": username,
		"items":    items,
	}
	var out saveResponse
	resp, err := c.once.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("sheet save: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sheet save: status %d", resp.StatusCode())
	}
	if !out.Success {
		if out.Error != "" {
			return fmt.Errorf("sheet save rejected: %s", out.Error)
		}
		return fmt.Errorf("sheet save rejected")
	}
	return nil
}

func (c *httpClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]interface{}{
		"action":   "login",
		"username": username,
		"password": password,
	}
	var out LoginResult
	resp, err := c.once.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("sheet login: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sheet login: status %d", resp.StatusCode())
	}
	return &out, nil
}
