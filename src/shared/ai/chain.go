package ai

import (
	"context"
	"log"
)

// ResultKind classifies the terminal state of a chain run.
type ResultKind int

const (
	// NotConfigured means the chain has no providers at all.
	NotConfigured ResultKind = iota
	// Success carries the generated text and the provider that produced it.
	Success
	// HardFailure is a provider error that switching providers cannot fix
	// (bad key, protocol violation). Status/Body carry the upstream response.
	HardFailure
	// RateLimited means the last provider reported 429.
	RateLimited
	// CreditsExhausted means the last provider reported 402.
	CreditsExhausted
	// Exhausted means every configured provider was tried without success
	// and no single cause stands out.
	Exhausted
)

// Result is the terminal output of a chain run.
type Result struct {
	Kind     ResultKind
	Text     string
	Provider string
	Status   int
	Body     string
}

// Attempt pairs a provider client with its position label and failure
// policy. Retryable lists the statuses that cascade to the next attempt;
// Terminal maps statuses to a final result kind. Any other failure is hard
// and stops the chain.
type Attempt struct {
	Label     string
	Client    Client
	Retryable map[int]bool
	Terminal  map[int]ResultKind
}

// Primary wraps a client with the lead-provider policy: rate limits and
// server-side errors cascade to the fallback, anything else (notably 401,
// an invalid credential) is hard.
func Primary(c Client) Attempt {
	return Attempt{
		Label:  "primary",
		Client: c,
		Retryable: map[int]bool{
			403: true,
			429: true,
			500: true,
			502: true,
			503: true,
		},
	}
}

// Fallback wraps a client with the last-resort policy: 429 and 402 surface
// as distinct operational conditions, everything else is hard. There is no
// further provider to cascade to.
func Fallback(c Client) Attempt {
	return Attempt{
		Label:  "secondary",
		Client: c,
		Terminal: map[int]ResultKind{
			429: RateLimited,
			402: CreditsExhausted,
		},
	}
}

// Chain walks an ordered list of provider attempts until one succeeds or a
// failure is classified as terminal. Adding a third provider is a data
// change: append another Attempt.
type Chain struct {
	attempts []Attempt
}

func NewChain(attempts ...Attempt) *Chain {
	return &Chain{attempts: attempts}
}

// Configured reports whether at least one provider is available.
func (ch *Chain) Configured() bool {
	return len(ch.attempts) > 0
}

// Run performs at most one call per configured provider, in order. Transport
// errors count as retryable: they are almost always transient, so the next
// attempt still runs.
func (ch *Chain) Run(ctx context.Context, messages []Message) Result {
	if len(ch.attempts) == 0 {
		return Result{Kind: NotConfigured}
	}

	for _, at := range ch.attempts {
		out, err := at.Client.Complete(ctx, messages)
		if err != nil {
			log.Printf("ai: %s (%s) transport error: %v", at.Label, at.Client.Name(), err)
			continue
		}
		if out.OK {
			return Result{Kind: Success, Text: out.Text, Provider: at.Label}
		}

		log.Printf("ai: %s (%s) returned status %d", at.Label, at.Client.Name(), out.Status)

		if kind, ok := at.Terminal[out.Status]; ok {
			return Result{Kind: kind, Provider: at.Label, Status: out.Status, Body: out.Body}
		}
		if at.Retryable[out.Status] {
			continue
		}
		return Result{Kind: HardFailure, Provider: at.Label, Status: out.Status, Body: out.Body}
	}

	return Result{Kind: Exhausted}
}
