package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/NEAR-DevHub/treasury-membership/treasury"
)

func (p Provider) RetrievePolicy(daoID string) (*treasury.Policy, error) {
	jsonPath := p.filePath("policy", daoID)
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, errors.New("unable to load policy.json @ " + jsonPath)
	}
	return treasury.PolicyFromJson(bytes)
}

func (p Provider) StorePolicy(daoID string, policy *treasury.Policy) error {
	bytes, err := json.MarshalIndent(policy, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.filePath("policy", daoID), bytes, 0644)
}

func (p Provider) readProposals(daoID string) ([]treasury.Proposal, error) {
	bytes := p.fileData(p.filePath("proposals", daoID))
	if len(bytes) == 0 {
		return []treasury.Proposal{}, nil
	}
	var proposals []treasury.Proposal
	if err := json.Unmarshal(bytes, &proposals); err != nil {
		return nil, errors.New("unable to decode proposals json for " + daoID)
	}
	return proposals, nil
}

func (p Provider) writeProposals(daoID string, proposals []treasury.Proposal) error {
	bytes, err := json.MarshalIndent(proposals, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.filePath("proposals", daoID), bytes, 0644)
}

func (p Provider) ListProposals(daoID string, statuses ...treasury.ProposalStatus) ([]treasury.Proposal, error) {
	proposals, err := p.readProposals(daoID)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return proposals, nil
	}

	matched := []treasury.Proposal{}
	for _, proposal := range proposals {
		for _, status := range statuses {
			if proposal.Status == status {
				matched = append(matched, proposal)
				break
			}
		}
	}
	return matched, nil
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

func (p Provider) SubmitProposal(daoID string, updated *treasury.Policy, meta treasury.ProposalMeta) (int64, error) {
	proposals, err := p.readProposals(daoID)
	if err != nil {
		return 0, err
	}

	var nextID int64 = 1
	for _, proposal := range proposals {
		if proposal.ID >= nextID {
			nextID = proposal.ID + 1
		}
	}

	proposals = append(proposals, treasury.Proposal{
		ID:             nextID,
		DaoID:          daoID,
		Kind:           treasury.ProposalKindChangePolicy,
		Description:    meta.Description(),
		Proposer:       meta.Proposer,
		Status:         treasury.ProposalStatusInProgress,
		ProposedPolicy: updated,
		SubmittedAt:    time.Now().UTC(),
	})

	if err := p.writeProposals(daoID, proposals); err != nil {
		return 0, err
	}
	return nextID, nil
}
