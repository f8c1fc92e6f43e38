package sql

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NEAR-DevHub/treasury-membership/treasury"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	tdir := t.TempDir()
	dbPath := filepath.Join(tdir, "treasury_it.db")
	// libsql driver supports file: DSN for local sqlite databases
	dsn := "file:" + dbPath
	p := &Provider{SqlLite: true, PrimaryDSN: dsn}
	if err := p.Initialize(); err != nil {
		t.Fatalf("init provider: %v", err)
	}
	// Ensure file created
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("sqlite file not created: %v", err)
	}
	return p
}

func testPolicy(t *testing.T) *treasury.Policy {
	t.Helper()
	policy, err := treasury.PolicyFromJson([]byte(`{"roles":[
		{"name":"Governance","kind":{"Group":["alice.near"]},"permissions":["*:*"]},
		{"name":"Financial","kind":{"Group":["bob.near","carol.near"]},"permissions":["transfer:AddProposal"]},
		{"name":"Requestor","kind":{"Group":["alice.near","bob.near"]},"permissions":["policy:AddProposal"]}],
		"proposal_bond":"100000000000000000000000"}`))
	if err != nil {
		t.Fatalf("decode test policy: %v", err)
	}
	return policy
}

func TestIntegration_SQLite_EndToEnd(t *testing.T) {
	p := newTestProvider(t)
	defer func() { _ = p.Close() }()

	dao := "treasury.near"
	policy := testPolicy(t)

	// Policy store and retrieve
	if _, err := p.RetrievePolicy(dao); err != treasury.ErrNoResultFound {
		t.Fatalf("expected ErrNoResultFound, got %v", err)
	}
	if err := p.StorePolicy(dao, policy); err != nil {
		t.Fatalf("StorePolicy: %v", err)
	}
	stored, err := p.RetrievePolicy(dao)
	if err != nil {
		t.Fatalf("RetrievePolicy: %v", err)
	}
	if len(stored.Roles) != 3 || stored.ProposalBond != policy.ProposalBond {
		t.Fatalf("RetrievePolicy mismatch: %+v", stored)
	}

	// StorePolicy upserts on the dao primary key
	amended := policy.Clone()
	amended.ProposalBond = "200000000000000000000000"
	if err := p.StorePolicy(dao, amended); err != nil {
		t.Fatalf("StorePolicy upsert: %v", err)
	}
	stored, err = p.RetrievePolicy(dao)
	if err != nil || stored.ProposalBond != amended.ProposalBond {
		t.Fatalf("expected upserted bond, got %+v err %v", stored, err)
	}

	// Submit a membership proposal
	updated, summary := treasury.ApplyRoleChanges(stored, []treasury.RoleChange{
		{AccountID: "dave.near", Roles: []string{"Requestor"}},
	}, false)
	id, err := p.SubmitProposal(dao, updated, treasury.ProposalMeta{
		Title:    "Add dave",
		Summary:  summary,
		Proposer: "alice.near",
	})
	if err != nil {
		t.Fatalf("SubmitProposal: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected proposal id 1, got %d", id)
	}

	pending, err := p.ListProposals(dao, treasury.ProposalStatusInProgress)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListProposals pending: len=%d err=%v", len(pending), err)
	}
	proposal := pending[0]
	if proposal.ID != id || proposal.Kind != treasury.ProposalKindChangePolicy || proposal.Proposer != "alice.near" {
		t.Fatalf("proposal mismatch: %+v", proposal)
	}
	if proposal.SubmittedAt.IsZero() {
		t.Fatalf("expected a submitted timestamp, got zero")
	}
	if proposal.ProposedPolicy == nil || proposal.ProposedPolicy.Member("dave.near") == nil {
		t.Fatalf("proposed policy not persisted: %+v", proposal.ProposedPolicy)
	}
	changes := proposal.MembershipChanges()
	if len(changes) != 1 || changes[0].AccountID != "dave.near" {
		t.Fatalf("change log did not round trip: %+v", changes)
	}

	if blocked, err := p.HasPendingMembershipProposal(dao); err != nil || !blocked {
		t.Fatalf("HasPendingMembershipProposal: %v err %v", blocked, err)
	}

	// Dashboard combines policy, members and pending proposals
	dashboard, err := p.LoadDashboard(dao)
	if err != nil {
		t.Fatalf("LoadDashboard: %v", err)
	}
	if len(dashboard.Members) != 3 || len(dashboard.Pending) != 1 {
		t.Fatalf("dashboard mismatch: members=%d pending=%d", len(dashboard.Members), len(dashboard.Pending))
	}

	// Settling the proposal clears the pending gate
	if err := p.SetProposalStatus(dao, id, treasury.ProposalStatusApproved); err != nil {
		t.Fatalf("SetProposalStatus: %v", err)
	}
	if err := p.SetProposalStatus(dao, 999, treasury.ProposalStatusApproved); err != treasury.ErrNoResultFound {
		t.Fatalf("expected ErrNoResultFound for unknown proposal, got %v", err)
	}
	if blocked, err := p.HasPendingMembershipProposal(dao); err != nil || blocked {
		t.Fatalf("expected no pending membership proposal, got %v err %v", blocked, err)
	}

	// ids keep increasing
	if id, err = p.SubmitProposal(dao, updated, treasury.ProposalMeta{Title: "Again", Summary: summary}); err != nil || id != 2 {
		t.Fatalf("expected proposal id 2, got %d err %v", id, err)
	}
	all, err := p.ListProposals(dao)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListProposals all: len=%d err=%v", len(all), err)
	}
}
