package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stellarlinkco/mcq-bench/internal/llm"
)

// scriptProvider replays canned completions in order.
type scriptProvider struct {
	replies []string
	calls   int
	err     error
}

func (s *scriptProvider) Name() string { return "script" }

func (s *scriptProvider) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("script: empty messages")
	}
	reply := ""
	if s.calls < len(s.replies) {
		reply = s.replies[s.calls]
	}
	s.calls++
	return &llm.Response{Text: reply, StopReason: "end_turn"}, nil
}

func TestGenerative_Run(t *testing.T) {
	src := fourChoiceSource(1, 2, 0)
	g := &Generative{
		Provider: &scriptProvider{replies: []string{"B", "Answer: (C)", "D"}},
	}

	res, err := g.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// B and C are right, D is wrong.
	if got := res.Score; got < 0.66 || got > 0.67 {
		t.Fatalf("score: got %v want 2/3", got)
	}
	if res.Examples != 3 || res.Unparsed != 0 {
		t.Fatalf("counts: %+v", res)
	}
}

func TestGenerative_UnparsedCountsAsWrong(t *testing.T) {
	src := fourChoiceSource(0, 1)
	g := &Generative{
		Provider: &scriptProvider{replies: []string{"A", "I cannot decide on this one"}},
	}

	res, err := g.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Score != 0.5 {
		t.Fatalf("score: got %v want 0.5", res.Score)
	}
	if res.Unparsed != 1 {
		t.Fatalf("unparsed: got %d want 1", res.Unparsed)
	}
}

func TestGenerative_ProviderFailureAborts(t *testing.T) {
	boom := errors.New("rate limited")
	g := &Generative{Provider: &scriptProvider{err: boom}}

	if _, err := g.Run(context.Background(), fourChoiceSource(0)); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestGenerative_Validation(t *testing.T) {
	if _, err := (&Generative{}).Run(context.Background(), fourChoiceSource(0)); err == nil {
		t.Fatal("nil provider: expected error")
	}
	g := &Generative{Provider: &scriptProvider{}}
	if _, err := g.Run(context.Background(), nil); err == nil {
		t.Fatal("nil source: expected error")
	}
	if _, err := g.Run(context.Background(), &stubSource{name: "empty", choices: 4}); err == nil {
		t.Fatal("empty dataset: expected error")
	}
}
