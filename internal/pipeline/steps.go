package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvignesh/smsledger/internal/account"
	"github.com/dvignesh/smsledger/internal/category"
	"github.com/dvignesh/smsledger/internal/dedup"
	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/filter"
	"github.com/dvignesh/smsledger/internal/parser"
	"github.com/dvignesh/smsledger/internal/store"
)

// Step is a single stage of the message pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps for one message.
type State struct {
	Msg    domain.Message
	Source string // event source label: "sms", "notification", "backup"

	Parsed          *parser.Parsed
	SyntacticDigest string
	SemanticHeld    bool // a short-term semantic reservation was taken

	Account     *domain.Account
	CategoryID  *string
	Transaction *domain.Transaction

	Outcome Outcome
	done    bool
}

func (s *State) skip(reason SkipReason) {
	s.Outcome = Outcome{Status: StatusSkipped, Reason: reason}
	s.done = true
}

// Done reports whether a terminal state was reached before the last step.
func (s *State) Done() bool { return s.done }

// FilterStep drops disabled-source, promotional and untrusted messages.
type FilterStep struct {
	Settings store.SettingsStore
}

func (f *FilterStep) Execute(ctx context.Context, state *State) error {
	if f.Settings != nil && state.Source != "" {
		enabled, err := f.Settings.IsSourceEnabled(ctx, state.Source)
		if err != nil {
			return fmt.Errorf("filter: source toggle: %w", err)
		}
		if !enabled {
			state.skip(SkipSourceDisabled)
			return nil
		}
	}

	result := filter.Classify(state.Msg.Sender, state.Msg.Body)
	if result.Promotional {
		state.skip(SkipPromotional)
		return nil
	}
	if !result.Trusted {
		state.skip(SkipUntrusted)
		return nil
	}
	return nil
}

// SyntacticDedupStep short-circuits exact re-deliveries before any parsing.
// The check and the marker insert are one atomic operation.
type SyntacticDedupStep struct {
	Detector *dedup.Syntactic
}

func (s *SyntacticDedupStep) Execute(ctx context.Context, state *State) error {
	duplicate, digest, err := s.Detector.CheckAndRecord(ctx, state.Msg)
	if err != nil {
		return err
	}
	if duplicate {
		state.skip(SkipSyntacticDuplicate)
		return nil
	}
	state.SyntacticDigest = digest
	return nil
}

// ParseStep extracts the structured fields; an unparsable body fails the unit.
type ParseStep struct{}

func (p *ParseStep) Execute(ctx context.Context, state *State) error {
	parsed, err := parser.Parse(state.Msg.Sender, state.Msg.Body)
	if err != nil {
		return err
	}
	state.Parsed = parsed
	return nil
}

// ValidateStep is the strict precision gate over the parsed message.
type ValidateStep struct{}

func (v *ValidateStep) Execute(ctx context.Context, state *State) error {
	if !validBody(state.Msg.Body, state.Parsed.Amount) {
		state.skip(SkipInvalidBody)
	}
	return nil
}

// SemanticDedupStep rejects different messages describing the same
// transaction, reserving the short-term event marker on the way through.
type SemanticDedupStep struct {
	Detector *dedup.Semantic
}

func (s *SemanticDedupStep) Execute(ctx context.Context, state *State) error {
	duplicate, err := s.Detector.CheckAndReserve(ctx, state.Msg, state.Parsed.Amount, state.Parsed.Direction)
	if err != nil {
		return err
	}
	if duplicate {
		state.skip(SkipSemanticDuplicate)
		return nil
	}
	state.SemanticHeld = true
	return nil
}

// ResolveAccountStep attributes the message to an account, or leaves it
// unlinked when the chain yields none.
type ResolveAccountStep struct {
	Resolver *account.Resolver
}

func (r *ResolveAccountStep) Execute(ctx context.Context, state *State) error {
	acc, err := r.Resolver.Resolve(ctx, state.Msg, state.Parsed.AccountHint)
	if err != nil {
		return err
	}
	state.Account = acc
	return nil
}

// ResolveCategoryStep picks a category; the direction's fallback applies when
// no keyword rule matches.
type ResolveCategoryStep struct {
	Resolver *category.Resolver
}

func (r *ResolveCategoryStep) Execute(ctx context.Context, state *State) error {
	id, err := r.Resolver.Resolve(ctx, state.Parsed.Direction, state.Parsed.Counterparty, state.Msg.Body)
	if err != nil {
		return err
	}
	state.CategoryID = id
	return nil
}

// PersistStep builds the transaction record and writes it through the ledger:
// insert plus balance adjustment as one atomic unit.
type PersistStep struct {
	Ledger store.Ledger
	// NewID generates transaction ids; tests may pin it.
	NewID func() string
	// Now supplies creation timestamps; tests may pin it.
	Now func() time.Time
}

func (p *PersistStep) Execute(ctx context.Context, state *State) error {
	txn := buildTransaction(state, p.NewID, p.Now)
	if err := p.Ledger.RecordTransaction(ctx, txn); err != nil {
		return err
	}
	state.Transaction = txn
	return nil
}

// RecordMarkersStep persists the long-term semantic marker after the
// transaction exists, then finalizes the outcome. The syntactic marker and
// the short-term reservation were already written atomically upstream.
type RecordMarkersStep struct {
	Semantic *dedup.Semantic
}

func (r *RecordMarkersStep) Execute(ctx context.Context, state *State) error {
	if err := r.Semantic.Record(ctx, state.Msg, state.Parsed.Amount, state.Parsed.Direction); err != nil {
		return err
	}
	state.Outcome = Outcome{Status: StatusRecorded, TransactionID: state.Transaction.ID}
	state.done = true
	return nil
}

// IsUnparsable reports whether err is a parser rejection rather than an
// infrastructure failure.
func IsUnparsable(err error) bool {
	return errors.Is(err, parser.ErrNoDirection) || errors.Is(err, parser.ErrNoAmount)
}
