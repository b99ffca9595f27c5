package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sheetview/internal/model"
)

func TestBuildRowPrompt(t *testing.T) {
	rec := model.Record{"Symbol": model.String("AAPL"), "VGM Score": model.Null, "zz": model.Number(1)}
	got := buildRowPrompt("rank_1_2025", []string{"Symbol", "VGM Score"}, rec)
	want := "Dataset: rank_1_2025\nRow:\n- Symbol: AAPL\n- VGM Score: (empty)\n- zz: 1\n"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestDisabledWithoutKey(t *testing.T) {
	c := NewClient("", "", "gpt-4o-mini", time.Second)
	if c.Enabled() {
		t.Fatalf("client enabled without key")
	}
	if _, err := c.ExplainRecord(context.Background(), "x", nil, nil); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err: %v", err)
	}
}

func TestExplainRecordAgainstFakeServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  AAPL has a B score.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL+"/v1", "gpt-4o-mini", 5*time.Second)
	got, err := c.ExplainRecord(context.Background(), "d", []string{"Symbol"}, model.Record{"Symbol": model.String("AAPL")})
	if err != nil {
		t.Fatalf("ExplainRecord: %v", err)
	}
	if got != "AAPL has a B score." {
		t.Fatalf("got %q", got)
	}
}
