// Package assistant answers natural-language questions about the caller's
// training data. The model only ever sees aggregates computed from the
// caller's visible set, so the assistant cannot leak records scoping hides.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sajag/internal/program"
	"sajag/internal/visibility"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/platform/circuit"
)

// Generator produces a completion for a prompt. GeminiGenerator is the
// production implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisibleSource yields the filtered record set the principal may see.
type VisibleSource interface {
	VisibleAll(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]program.TrainingProgram, error)
}

// Service grounds assistant answers in the caller's visible data. A circuit
// breaker guards the model backend so repeated upstream failures degrade to a
// fast 503 instead of a hanging request.
type Service struct {
	generator Generator
	source    VisibleSource
	breaker   *circuit.Breaker

	mu        sync.Mutex
	lastProbe time.Time
}

// probeCooldown is how long an open circuit rejects requests before letting
// one through to test the backend.
const probeCooldown = 30 * time.Second

func New(generator Generator, source VisibleSource) *Service {
	return &Service{
		generator: generator,
		source:    source,
		breaker:   circuit.New("genai", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(1)),
	}
}

// allowProbe lets one request through per cooldown window while the circuit
// is open. Its success or failure decides whether the circuit closes.
func (s *Service) allowProbe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.lastProbe) < probeCooldown {
		return false
	}
	s.lastProbe = time.Now()
	return true
}

// Enabled reports whether an answer backend is configured.
func (s *Service) Enabled() bool { return s.generator != nil }

// Chat answers a question using aggregates over the caller's visible set.
func (s *Service) Chat(ctx context.Context, principal visibility.Principal, question string) (string, error) {
	if question = strings.TrimSpace(question); question == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "question must not be empty")
	}
	if s.generator == nil {
		return "", dErrors.New(dErrors.CodeUnavailable, "assistant is not configured")
	}

	if s.breaker.IsOpen() && !s.allowProbe() {
		return "", dErrors.New(dErrors.CodeUnavailable, "assistant is temporarily unavailable")
	}

	vis, err := s.source.VisibleAll(ctx, principal, visibility.Criteria{})
	if err != nil {
		return "", err
	}

	answer, err := s.generator.Generate(ctx, buildPrompt(vis, question))
	if err != nil {
		s.breaker.RecordFailure()
		return "", dErrors.Wrap(dErrors.CodeUnavailable, "assistant backend failed", err)
	}
	s.breaker.RecordSuccess()
	return answer, nil
}

// buildPrompt summarizes the visible set into the model's context. Only
// aggregate numbers go in, never record contents.
func buildPrompt(visible []program.TrainingProgram, question string) string {
	stats := visibility.ComputeStats(visible)
	themes := visibility.ThematicCoverage(visible)
	states := visibility.GeographicSpread(visible)

	var b strings.Builder
	b.WriteString("You are an assistant for a disaster-management training tracker.\n")
	b.WriteString("Answer using only the data below. If the data cannot answer the question, say so.\n\n")
	fmt.Fprintf(&b, "Programs: %d total, %d completed, %d ongoing, %d planned.\n",
		stats.TotalTrainings, stats.CompletedPrograms, stats.OngoingPrograms, stats.PlannedPrograms)
	fmt.Fprintf(&b, "Participants trained: %d. Partners active: %d. States covered: %d.\n",
		stats.TotalParticipants, stats.ActivePartners, stats.StatesCovered)

	if len(themes) > 0 {
		b.WriteString("Programs by theme:\n")
		for _, th := range themes {
			fmt.Fprintf(&b, "- %s: %d programs, %d participants\n", th.Name, th.Value, th.Participants)
		}
	}
	if len(states) > 0 {
		b.WriteString("Programs by state:\n")
		for _, st := range states {
			fmt.Fprintf(&b, "- %s: %d programs, %d participants\n", st.State, st.Count, st.Participants)
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
