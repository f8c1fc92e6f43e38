package datastore

import (
	"context"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/NEAR-DevHub/treasury-membership/treasury"
)

func (p Provider) StorePolicy(daoID string, policy *treasury.Policy) error {
	document, err := policy.ToJson()
	if err != nil {
		return err
	}

	store := &policyStore{
		DaoID:    daoID,
		Document: document,
		Updated:  time.Now().UTC(),
	}
	_, err = p.client.Put(context.Background(), store.dsID(), store)
	return err
}

func (p Provider) SubmitProposal(daoID string, updated *treasury.Policy, meta treasury.ProposalMeta) (int64, error) {
	document, err := updated.ToJson()
	if err != nil {
		return 0, err
	}

	store := &proposalStore{
		DaoID:       daoID,
		Kind:        treasury.ProposalKindChangePolicy,
		Status:      string(treasury.ProposalStatusInProgress),
		Description: meta.Description(),
		Proposer:    meta.Proposer,
		Document:    document,
		Submitted:   time.Now().UTC(),
	}

	parent := policyStore{DaoID: daoID}.dsID()
	key, err := p.client.Put(context.Background(), datastore.IncompleteKey(kindProposal, parent), store)
	if err != nil {
		return 0, err
	}
	return key.ID, nil
}
