package llm

import (
	"context"
	"math/rand/v2"
	"sync"
)

// Responder runs the completion and parsing pipeline.
type Responder struct {
	completer Completer

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewResponder creates a Responder. A nil rnd uses a randomly seeded source.
func NewResponder(completer Completer, rnd *rand.Rand) *Responder {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Responder{completer: completer, rnd: rnd}
}

// GenerateChatReply answers a chat message. Completion errors are returned
// as-is; malformed completions never are.
func (r *Responder) GenerateChatReply(ctx context.Context, req ChatRequest) (Reply, error) {
	return r.generate(ctx, buildChatInput(req))
}

// GenerateCronReply asks for a message on behalf of a scheduled job.
func (r *Responder) GenerateCronReply(ctx context.Context, req CronRequest) (Reply, error) {
	r.mu.Lock()
	input := buildCronInput(req, r.rnd)
	r.mu.Unlock()
	return r.generate(ctx, input)
}

func (r *Responder) generate(ctx context.Context, input string) (Reply, error) {
	raw, err := r.completer.GenerateCompletion(ctx, BuildPrompt(input))
	if err != nil {
		return Reply{}, err
	}
	return ParseReply(raw), nil
}
