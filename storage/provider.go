package storage

import (
	"github.com/NEAR-DevHub/treasury-membership/treasury"
)

// Provider is the external policy and proposal store the engine collaborates
// with. Every backend satisfies treasury.Submitter.
type Provider interface {
	RetrievePolicy(daoID string) (*treasury.Policy, error)
	StorePolicy(daoID string, policy *treasury.Policy) error

	ListProposals(daoID string, statuses ...treasury.ProposalStatus) ([]treasury.Proposal, error)
	HasPendingMembershipProposal(daoID string) (bool, error)
	SubmitProposal(daoID string, updated *treasury.Policy, meta treasury.ProposalMeta) (int64, error)

	Connect() error
	Close() error
}
