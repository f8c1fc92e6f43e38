package treasury

import (
	"fmt"
	"strings"
)

// RemoveMembers applies an accepted removal batch. Removal is total: every
// listed account id is stripped from every Group role, whatever roles the
// request carried. The summary records the roles each account actually held
// at removal time.
func RemoveMembers(policy *Policy, removals []RoleChange) (*Policy, string) {
	updated := policy.Clone()

	held := map[string][]string{}
	for _, member := range policy.Members() {
		held[member.AccountID] = member.Roles
	}

	dropping := map[string]struct{}{}
	for _, removal := range removals {
		dropping[removal.AccountID] = struct{}{}
	}

	for i, role := range updated.Roles {
		if !role.Kind.IsGroup() {
			continue
		}
		members := append([]string(nil), role.Kind.Members()...)
		kept := members[:0]
		for _, accountID := range members {
			if _, gone := dropping[accountID]; !gone {
				kept = append(kept, accountID)
			}
		}
		updated.Roles[i].Kind = role.Kind.withMembers(kept)
	}

	var lines []string
	for _, removal := range removals {
		lines = append(lines, fmt.Sprintf("- remove %q from %s",
			removal.AccountID, quoteRoles(held[removal.AccountID])))
	}

	return updated, strings.Join(lines, "\n")
}
