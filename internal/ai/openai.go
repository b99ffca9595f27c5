// Package ai asks an OpenAI-compatible chat model to explain one table row.
package ai

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"sheetview/internal/model"
)

var ErrDisabled = errors.New("openai disabled")

type Client struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

// NewClient returns nil when apiKey is empty; a nil *Client reports
// ErrDisabled from every call.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, model: model, timeout: timeout}
}

func (c *Client) Enabled() bool { return c != nil }

// ExplainRecord returns a short plain-text reading of rec.
func (c *Client) ExplainRecord(ctx context.Context, datasetID string, cols []string, rec model.Record) (string, error) {
	if c == nil {
		return "", ErrDisabled
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	cfg := openai.DefaultConfig(c.apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cli := openai.NewClientWithConfig(cfg)
	resp, err := cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You explain one row of a tabular dataset to an analyst. Answer in at most five short sentences of plain text. Do not invent values that are not in the row."},
			{Role: openai.ChatMessageRoleUser, Content: buildRowPrompt(datasetID, cols, rec)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildRowPrompt(datasetID string, cols []string, rec model.Record) string {
	var b strings.Builder
	b.WriteString("Dataset: ")
	b.WriteString(datasetID)
	b.WriteString("\nRow:\n")
	seen := map[string]bool{}
	write := func(c string) {
		seen[c] = true
		v := rec.Get(c)
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString(": ")
		if v.IsNull() {
			b.WriteString("(empty)")
		} else {
			b.WriteString(v.String())
		}
		b.WriteByte('\n')
	}
	for _, c := range cols {
		write(c)
	}
	// Cells outside the header list still go in, in a stable order.
	extra := make([]string, 0)
	for k := range rec {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		write(c)
	}
	return b.String()
}
