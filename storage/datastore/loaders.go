package datastore

import (
	"context"
	"errors"

	"cloud.google.com/go/datastore"

	"github.com/NEAR-DevHub/treasury-membership/treasury"
)

func (p Provider) RetrievePolicy(daoID string) (*treasury.Policy, error) {
	store := &policyStore{DaoID: daoID}
	if readErr := p.client.Get(context.Background(), store.dsID(), store); readErr != nil {
		if errors.Is(readErr, datastore.ErrNoSuchEntity) {
			return nil, treasury.ErrNoResultFound
		}
		return nil, readErr
	}
	return treasury.PolicyFromJson(store.Document)
}

func (p Provider) ListProposals(daoID string, statuses ...treasury.ProposalStatus) ([]treasury.Proposal, error) {
	if len(statuses) == 0 {
		return p.queryProposals(daoID, "")
	}

	proposals := []treasury.Proposal{}
	for _, status := range statuses {
		matched, err := p.queryProposals(daoID, status)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, matched...)
	}
	return proposals, nil
}

func (p Provider) queryProposals(daoID string, status treasury.ProposalStatus) ([]treasury.Proposal, error) {
	q := datastore.NewQuery(kindProposal).Filter("DaoID =", daoID)
	if status != "" {
		q = q.Filter("Status =", string(status))
	}

	var stored []proposalStore
	keys, err := p.client.GetAll(context.Background(), q, &stored)
	if err != nil {
		return nil, err
	}

	proposals := make([]treasury.Proposal, 0, len(stored))
	for i, store := range stored {
		proposal := treasury.Proposal{
			ID:          keys[i].ID,
			DaoID:       store.DaoID,
			Kind:        store.Kind,
			Status:      treasury.ProposalStatus(store.Status),
			Description: store.Description,
			Proposer:    store.Proposer,
			SubmittedAt: store.Submitted,
		}
		if len(store.Document) > 0 {
			if policy, decodeErr := treasury.PolicyFromJson(store.Document); decodeErr == nil {
				proposal.ProposedPolicy = policy
			}
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

func (p Provider) HasPendingMembershipProposal(daoID string) (bool, error) {
	pending, err := p.ListProposals(daoID, treasury.ProposalStatusInProgress)
	if err != nil {
		return false, err
	}
	for _, proposal := range pending {
		if proposal.TouchesMembership() {
			return true, nil
		}
	}
	return false, nil
}
