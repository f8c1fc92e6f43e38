package treasury

import (
	"strings"
	"time"
)

type ProposalStatus string

const (
	ProposalStatusInProgress ProposalStatus = "InProgress"
	ProposalStatusApproved   ProposalStatus = "Approved"
	ProposalStatusRejected   ProposalStatus = "Rejected"
	ProposalStatusExpired    ProposalStatus = "Expired"
)

const ProposalKindChangePolicy = "ChangePolicy"

// ProposalMeta is the caller-supplied text attached to a submission. Summary
// carries the change-log lines produced by the mutator or remover.
type ProposalMeta struct {
	Title    string
	Summary  string
	Proposer string
}

// Description renders the text persisted with the proposal. The summary
// lines are embedded verbatim so they can be decoded back later.
func (m ProposalMeta) Description() string {
	return strings.TrimSpace(strings.TrimSpace(m.Title) + "\n\n" + m.Summary)
}

// Proposal is a pending or settled change request as returned by a store.
type Proposal struct {
	ID             int64          `json:"id"`
	DaoID          string         `json:"daoId"`
	Kind           string         `json:"kind"`
	Description    string         `json:"description"`
	Proposer       string         `json:"proposer"`
	Status         ProposalStatus `json:"status"`
	ProposedPolicy *Policy        `json:"proposedPolicy,omitempty"`
	SubmittedAt    time.Time      `json:"submittedAt"`
}

// MembershipChanges decodes the change-log lines embedded in the proposal
// description.
func (p Proposal) MembershipChanges() []PendingChange {
	return DecodeChanges(p.Description)
}

// TouchesMembership reports whether the proposal carries any decodable
// membership change line.
func (p Proposal) TouchesMembership() bool {
	return p.Kind == ProposalKindChangePolicy && len(p.MembershipChanges()) > 0
}
