package treasury

import "strings"

// Lookup carries the acting wallet for a proposal attempt.
type Lookup struct {
	DaoID     string
	AccountID string
}

func NewLookup(daoID, accountID string) Lookup {
	return Lookup{DaoID: daoID, AccountID: accountID}
}

const (
	ProposalKindPolicy = "policy"
	ActionAddProposal  = "AddProposal"
)

func permissionMatches(permission, kind, action string) bool {
	parts := strings.SplitN(permission, ":", 2)
	if len(parts) != 2 {
		return false
	}
	kindOK := parts[0] == "*" || parts[0] == kind
	actionOK := parts[1] == "*" || parts[1] == action
	return kindOK && actionOK
}

// HasPermission reports whether an account may perform kind:action under the
// policy, via any Group role holding it or any Everyone role.
func HasPermission(policy *Policy, accountID, kind, action string) bool {
	for _, role := range policy.Roles {
		applies := role.Kind.IsEveryone()
		if role.Kind.IsGroup() {
			applies = containsString(role.Kind.Members(), accountID)
		}
		if !applies {
			continue
		}
		for _, permission := range role.Permissions {
			if permissionMatches(permission, kind, action) {
				return true
			}
		}
	}
	return false
}

// CanProposeChange is the precondition gate layered in front of every
// membership mutation: a connected wallet, the add-proposal permission, and
// no membership proposal already in flight. It short-circuits with its own
// reason before any validator runs.
func CanProposeChange(policy *Policy, lookup Lookup, pendingConflict bool) ValidationResult {
	if lookup.AccountID == "" {
		return Denied("Connect a wallet to propose changes.")
	}
	if !HasPermission(policy, lookup.AccountID, ProposalKindPolicy, ActionAddProposal) {
		return Denied("You do not have permission to propose policy changes.")
	}
	if pendingConflict {
		return Denied("A proposal changing members is already pending.")
	}
	return Allowed()
}
