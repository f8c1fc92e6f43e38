package sql

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/sync/errgroup"

	"github.com/NEAR-DevHub/treasury-membership/treasury"
)

const (
	mySQLDuplicateEntry   = 1062
	sqlLiteDuplicateEntry = 1555
)

func (p *Provider) isDuplicateConflict(err error) bool {
	var me1 *mysql.MySQLError
	if errors.As(err, &me1) && (me1.Number == mySQLDuplicateEntry || me1.Number == sqlLiteDuplicateEntry) {
		return true
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}
	return false
}

func (p *Provider) RetrievePolicy(daoID string) (*treasury.Policy, error) {
	q := p.primaryConnection.QueryRow("SELECT document FROM treasury_policies WHERE dao = ?", daoID)
	document := ""
	if err := q.Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, treasury.ErrNoResultFound
		}
		return nil, err
	}
	return treasury.PolicyFromJson([]byte(document))
}

func (p *Provider) StorePolicy(daoID string, policy *treasury.Policy) error {
	document, err := policy.ToJson()
	if err != nil {
		return err
	}

	_, err = p.primaryConnection.Exec("INSERT INTO treasury_policies (dao, document) VALUES (?, ?)", daoID, string(document))
	if p.isDuplicateConflict(err) {
		_, err = p.primaryConnection.Exec("UPDATE treasury_policies SET document = ?, updated = CURRENT_TIMESTAMP WHERE dao = ?", string(document), daoID)
	}
	return err
}

func (p *Provider) ListProposals(daoID string, statuses ...treasury.ProposalStatus) ([]treasury.Proposal, error) {
	query := "SELECT id, dao, kind, status, description, proposer, proposed_policy, submitted FROM treasury_proposals WHERE dao = ?"
	args := []interface{}{daoID}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " AND status IN (" + strings.Join(placeholders, ",") + ")"
	}
	query += " ORDER BY id ASC"

	rows, err := p.primaryConnection.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proposals := []treasury.Proposal{}
	for rows.Next() {
		var proposal treasury.Proposal
		var proposedPolicy sql.NullString
		var submitted interface{}
		if err := rows.Scan(&proposal.ID, &proposal.DaoID, &proposal.Kind, &proposal.Status,
			&proposal.Description, &proposal.Proposer, &proposedPolicy, &submitted); err != nil {
			return nil, err
		}
		proposal.SubmittedAt = timeFromColumn(submitted)
		if proposedPolicy.Valid && proposedPolicy.String != "" {
			if policy, decodeErr := treasury.PolicyFromJson([]byte(proposedPolicy.String)); decodeErr == nil {
				proposal.ProposedPolicy = policy
			}
		}
		proposals = append(proposals, proposal)
	}
	return proposals, rows.Err()
}

func (p *Provider) HasPendingMembershipProposal(daoID string) (bool, error) {
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

func (p *Provider) SubmitProposal(daoID string, updated *treasury.Policy, meta treasury.ProposalMeta) (int64, error) {
	document, err := updated.ToJson()
	if err != nil {
		return 0, err
	}

	res, err := p.primaryConnection.Exec(
		"INSERT INTO treasury_proposals (dao, kind, status, description, proposer, proposed_policy) VALUES (?, ?, ?, ?, ?, ?)",
		daoID, treasury.ProposalKindChangePolicy, treasury.ProposalStatusInProgress,
		meta.Description(), meta.Proposer, string(document))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *Provider) SetProposalStatus(daoID string, proposalID int64, status treasury.ProposalStatus) error {
	res, err := p.primaryConnection.Exec("UPDATE treasury_proposals SET status = ? WHERE dao = ? AND id = ?",
		string(status), daoID, proposalID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return treasury.ErrNoResultFound
	}
	return nil
}

// Dashboard is the combined read for a membership page load: live policy,
// derived members and any pending proposals, fetched concurrently.
type Dashboard struct {
	Policy  *treasury.Policy
	Members []treasury.Member
	Pending []treasury.Proposal
}

func (p *Provider) LoadDashboard(daoID string) (*Dashboard, error) {
	dashboard := &Dashboard{}

	var g errgroup.Group
	g.Go(func() error {
		policy, err := p.RetrievePolicy(daoID)
		if err != nil {
			return err
		}
		dashboard.Policy = policy
		dashboard.Members = policy.Members()
		return nil
	})
	g.Go(func() error {
		pending, err := p.ListProposals(daoID, treasury.ProposalStatusInProgress)
		if err != nil {
			return err
		}
		dashboard.Pending = pending
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}
