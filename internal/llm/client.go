// Package llm contains the gateway to the hosted Gemini service: the
// Generator abstraction the services depend on, the concrete Gemini client,
// the persona and complaint-form instructions, and a failure breaker that
// short-circuits calls while the provider is misbehaving.
//
// Provider failures are classified into exactly two conditions:
//   - ErrUnavailable: the provider could not be reached or refused the call
//     (network failure, rate limit, invalid credential, timeout)
//   - ErrEmptyResponse: the call succeeded but returned no usable text
//
// Anything already-persisted before a failed call is retained by the
// callers; this package never touches storage.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Generator errors. Callers branch on these with errors.Is.
var (
	// ErrUnavailable indicates the provider was unreachable, rate limited,
	// rejected credentials, or timed out.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrEmptyResponse indicates the provider answered without usable text.
	ErrEmptyResponse = errors.New("llm returned empty response")
)

// Turn is one role-tagged utterance of conversation context.
// Role is domain.RoleUser or domain.RoleModel.
type Turn struct {
	Role    string
	Content string
}

// Request describes one generation call: a fixed system instruction plus the
// ordered turn history, the last turn being the new input.
type Request struct {
	// System is the immutable system instruction for this call.
	System string
	// Turns is the ordered conversation, oldest first.
	Turns []Turn
	// Temperature, when non-nil, overrides the provider default. Report
	// drafting uses a low value for structurally consistent output.
	Temperature *float32
	// MaxOutputTokens caps the reply length; 0 leaves the provider default.
	MaxOutputTokens int32
	// Model selects the provider model; empty uses the client default.
	Model string
}

// Generator produces text from a Request. Implementations must be safe for
// concurrent use and must honor ctx for cancellation and timeouts.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// TempPtr is a small helper for literal temperature values.
func TempPtr(v float32) *float32 { return &v }

// Disabled is the Generator installed when no provider credential is
// configured. Every call reports ErrUnavailable, so chat turns and report
// narratives fail soft while the rest of the API keeps working.
type Disabled struct{}

// Generate always fails with ErrUnavailable.
func (Disabled) Generate(ctx context.Context, req Request) (string, error) {
	return "", fmt.Errorf("%w: no provider configured", ErrUnavailable)
}
