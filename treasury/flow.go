package treasury

import (
	"fmt"
	"log/slog"
)

// FlowState is one step of the proposal-composition machine. The machine is
// view-independent: a UI drives it, but every guard lives here.
type FlowState string

const (
	FlowIdle       FlowState = "idle"
	FlowComposing  FlowState = "composing"
	FlowValidating FlowState = "validating"
	FlowPreviewing FlowState = "previewing"
	FlowSubmitting FlowState = "submitting"
	FlowDone       FlowState = "done"
	FlowError      FlowState = "error"
)

var flowTransitions = map[FlowState][]FlowState{
	FlowIdle:       {FlowComposing},
	FlowComposing:  {FlowComposing, FlowValidating, FlowIdle},
	FlowValidating: {FlowPreviewing, FlowComposing},
	FlowPreviewing: {FlowSubmitting, FlowComposing, FlowIdle},
	FlowSubmitting: {FlowDone, FlowError},
	FlowError:      {FlowSubmitting, FlowComposing, FlowIdle},
	FlowDone:       {FlowIdle},
}

// Submitter hands a prepared policy change to the external proposal store.
type Submitter interface {
	SubmitProposal(daoID string, updated *Policy, meta ProposalMeta) (int64, error)
}

type Flow struct {
	policy    *Policy
	lookup    Lookup
	submitter Submitter
	logger    *slog.Logger

	state      FlowState
	request    MutationRequest
	result     ValidationResult
	updated    *Policy
	summary    string
	submitting bool
	proposalID int64
	err        error
}

type FlowOption func(*Flow)

func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) {
		f.logger = logger
	}
}

func NewFlow(policy *Policy, lookup Lookup, submitter Submitter, options ...FlowOption) *Flow {
	f := &Flow{
		policy:    policy,
		lookup:    lookup,
		submitter: submitter,
		logger:    slog.Default(),
		state:     FlowIdle,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

func (f *Flow) State() FlowState {
	return f.state
}

func (f *Flow) Err() error {
	return f.err
}

func (f *Flow) Result() ValidationResult {
	return f.result
}

func (f *Flow) ProposalID() int64 {
	return f.proposalID
}

// Preview returns the prepared policy and its change summary, valid once the
// flow has passed validation.
func (f *Flow) Preview() (*Policy, string) {
	return f.updated, f.summary
}

func (f *Flow) to(next FlowState) error {
	for _, allowed := range flowTransitions[f.state] {
		if allowed == next {
			f.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, next)
}

// Compose records the candidate mutation batch collected by the UI.
func (f *Flow) Compose(request MutationRequest) error {
	if err := f.to(FlowComposing); err != nil {
		return err
	}
	f.request = request
	f.result = ValidationResult{}
	f.updated = nil
	f.summary = ""
	f.err = nil
	return nil
}

// Validate gates and validates the composed request. On an allowed verdict
// the flow moves to previewing with the updated policy and summary prepared;
// a denial returns the flow to composing with the reason recorded.
func (f *Flow) Validate(pendingConflict bool) (ValidationResult, error) {
	if err := f.to(FlowValidating); err != nil {
		return ValidationResult{}, err
	}

	f.result = f.evaluate(pendingConflict)
	if !f.result.CanModify {
		if err := f.to(FlowComposing); err != nil {
			return f.result, err
		}
		return f.result, nil
	}

	switch f.request.Kind {
	case MutationRemove:
		f.updated, f.summary = RemoveMembers(f.policy, f.request.Changes)
	case MutationEdit:
		f.updated, f.summary = ApplyRoleChanges(f.policy, f.request.Changes, true)
	default:
		f.updated, f.summary = ApplyRoleChanges(f.policy, f.request.Changes, false)
	}
	return f.result, f.to(FlowPreviewing)
}

func (f *Flow) evaluate(pendingConflict bool) ValidationResult {
	if gate := CanProposeChange(f.policy, f.lookup, pendingConflict); !gate.CanModify {
		return gate
	}

	members := f.policy.Members()
	switch f.request.Kind {
	case MutationAdd:
		for _, change := range f.request.Changes {
			if f.policy.Member(change.AccountID) != nil {
				return Denied(fmt.Sprintf("%q is already a member.", change.AccountID))
			}
		}
		return Allowed()
	case MutationEdit:
		return CanApplyEdits(members, f.request.Changes)
	case MutationRemove:
		var batch []Member
		for _, change := range f.request.Changes {
			if member := f.policy.Member(change.AccountID); member != nil {
				batch = append(batch, *member)
			}
		}
		if len(batch) == 1 {
			return CanRemoveMember(members, batch[0])
		}
		return CanRemoveMembers(members, batch)
	}
	return Denied("Unknown mutation kind.")
}

// Submit hands the prepared change to the proposal store. At most one
// submission is in flight per flow; a failure surfaces the error, keeps the
// prepared change, and leaves the flow resubmittable.
func (f *Flow) Submit(meta ProposalMeta) (int64, error) {
	if f.submitting {
		return 0, ErrSubmitInFlight
	}
	if err := f.to(FlowSubmitting); err != nil {
		return 0, err
	}
	f.submitting = true
	defer func() { f.submitting = false }()

	if meta.Summary == "" {
		meta.Summary = f.summary
	}
	if meta.Proposer == "" {
		meta.Proposer = f.lookup.AccountID
	}

	id, err := f.submitter.SubmitProposal(f.lookup.DaoID, f.updated, meta)
	if err != nil {
		f.err = err
		_ = f.to(FlowError)
		f.logger.Error("proposal submission failed", "dao", f.lookup.DaoID, "error", err)
		return 0, fmt.Errorf("submit proposal: %w", err)
	}

	f.proposalID = id
	f.logger.Info("proposal submitted", "dao", f.lookup.DaoID, "proposal", id)
	return id, f.to(FlowDone)
}

// Reset abandons the flow and returns to idle.
func (f *Flow) Reset() {
	*f = Flow{
		policy:    f.policy,
		lookup:    f.lookup,
		submitter: f.submitter,
		logger:    f.logger,
		state:     FlowIdle,
	}
}
