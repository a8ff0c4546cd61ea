// Package pipeline sequences the processing stages for one inbound message:
// filter, syntactic dedup, parse, validate, semantic dedup, account and
// category resolution, atomic persistence, marker recording. Each message is
// one independent unit of work that runs to exactly one terminal outcome.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvignesh/smsledger/internal/account"
	"github.com/dvignesh/smsledger/internal/category"
	"github.com/dvignesh/smsledger/internal/dedup"
	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/logger"
	"github.com/dvignesh/smsledger/internal/store"
)

// Pipeline executes a sequence of steps in order, stopping early when a step
// reaches a terminal state.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs the steps sequentially until one errors or finishes the unit.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d: %w", i+1, err)
		}
		if state.Done() {
			return nil
		}
	}
	return nil
}

// Deps are the collaborators the standard message pipeline needs.
type Deps struct {
	Ledger     store.Ledger
	Settings   store.SettingsStore
	Syntactic  *dedup.Syntactic
	Semantic   *dedup.Semantic
	Accounts   *account.Resolver
	Categories *category.Resolver
}

// Processor runs the standard message pipeline and handles compensation when
// a unit fails midway, so failed runs never block a legitimate retry.
type Processor struct {
	pipeline  *Pipeline
	syntactic *dedup.Syntactic
	semantic  *dedup.Semantic
}

// NewProcessor builds the standard nine-stage pipeline.
func NewProcessor(deps Deps) *Processor {
	return &Processor{
		pipeline: NewPipeline(
			&FilterStep{Settings: deps.Settings},
			&SyntacticDedupStep{Detector: deps.Syntactic},
			&ParseStep{},
			&ValidateStep{},
			&SemanticDedupStep{Detector: deps.Semantic},
			&ResolveAccountStep{Resolver: deps.Accounts},
			&ResolveCategoryStep{Resolver: deps.Categories},
			&PersistStep{Ledger: deps.Ledger, NewID: uuid.NewString, Now: time.Now},
			&RecordMarkersStep{Semantic: deps.Semantic},
		),
		syntactic: deps.Syntactic,
		semantic:  deps.Semantic,
	}
}

// Process runs one message through the pipeline. Policy rejections come back
// as a Skipped outcome with a nil error; unparsable bodies and persistence
// failures come back as a Failed outcome with the error.
func (p *Processor) Process(ctx context.Context, msg domain.Message, source string) (Outcome, error) {
	log := logger.ForComponent(logger.FromContext(ctx), "pipeline")
	state := &State{Msg: msg, Source: source}

	err := p.pipeline.Execute(ctx, state)
	if err != nil {
		p.compensate(ctx, state)
		log.Warn().
			Err(err).
			Str("sender", msg.Sender).
			Str("source", source).
			Bool("unparsable", IsUnparsable(err)).
			Msg("message pipeline failed")
		return Outcome{Status: StatusFailed}, err
	}

	switch state.Outcome.Status {
	case StatusRecorded:
		log.Info().
			Str("sender", msg.Sender).
			Str("transaction_id", state.Outcome.TransactionID).
			Str("source", source).
			Msg("message recorded")
	case StatusSkipped:
		log.Debug().
			Str("sender", msg.Sender).
			Str("reason", string(state.Outcome.Reason)).
			Msg("message skipped")
	}
	return state.Outcome, nil
}

// compensate unwinds markers written before the failure point. Without this a
// transient store failure would permanently shadow the message.
func (p *Processor) compensate(ctx context.Context, state *State) {
	if state.SemanticHeld {
		_ = p.semantic.Release(ctx, state.Msg, state.Parsed.Amount, state.Parsed.Direction)
	}
	if state.SyntacticDigest != "" {
		_ = p.syntactic.Forget(ctx, state.SyntacticDigest)
	}
}

// buildTransaction assembles the record persisted for a fully-resolved
// message. The origin digest ties the row back to the message for idempotency
// audits; raw content is not persisted.
func buildTransaction(state *State, newID func() string, now func() time.Time) *domain.Transaction {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	ts := now()

	var accountID *string
	if state.Account != nil {
		id := state.Account.ID
		accountID = &id
	}
	digest := dedup.MessageDigest(state.Msg)

	return &domain.Transaction{
		ID:           newID(),
		Amount:       state.Parsed.Amount,
		Direction:    state.Parsed.Direction,
		OccurredAt:   state.Msg.ReceivedAt,
		Counterparty: state.Parsed.Counterparty,
		Note:         fmt.Sprintf("Auto-recorded from %s", state.Msg.Sender),
		Channel:      state.Parsed.Channel,
		CategoryID:   state.CategoryID,
		AccountID:    accountID,
		Manual:       false,
		OriginDigest: &digest,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}
