package treasury

import (
	"fmt"
	"strings"
)

func quoteRoles(roles []string) string {
	quoted := make([]string, 0, len(roles))
	for _, role := range roles {
		quoted = append(quoted, fmt.Sprintf("%q", role))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func removeString(list []string, drop string) []string {
	kept := list[:0]
	for _, item := range list {
		if item != drop {
			kept = append(kept, item)
		}
	}
	return kept
}

// ApplyRoleChanges applies an accepted add or edit batch. The input policy is
// never touched: the returned policy is a deep copy with every Group role's
// member list rebuilt in a single pass, together with one change-log line per
// mutated account.
//
// In add mode each account gets an `add "<id>" to [...]` line. In edit mode
// the new role set is diffed against the account's pre-mutation roles and an
// `edit "<id>": ...` line is emitted; an edit that changes nothing produces
// no line at all.
func ApplyRoleChanges(policy *Policy, changes []RoleChange, isEdit bool) (*Policy, string) {
	updated := policy.Clone()

	before := map[string][]string{}
	for _, member := range policy.Members() {
		before[member.AccountID] = member.Roles
	}

	for i, role := range updated.Roles {
		if !role.Kind.IsGroup() {
			continue
		}
		members := append([]string(nil), role.Kind.Members()...)
		for _, change := range changes {
			wants := containsString(change.Roles, role.Name)
			has := containsString(members, change.AccountID)
			if wants && !has {
				members = append(members, change.AccountID)
			} else if !wants && has {
				members = removeString(members, change.AccountID)
			}
		}
		updated.Roles[i].Kind = role.Kind.withMembers(members)
	}

	var lines []string
	for _, change := range changes {
		if !isEdit {
			lines = append(lines, fmt.Sprintf("- add %q to %s", change.AccountID, quoteRoles(change.Roles)))
			continue
		}

		var removed, added []string
		for _, role := range before[change.AccountID] {
			if !containsString(change.Roles, role) {
				removed = append(removed, role)
			}
		}
		for _, role := range change.Roles {
			if !containsString(before[change.AccountID], role) {
				added = append(added, role)
			}
		}
		if len(removed) == 0 && len(added) == 0 {
			continue
		}

		var clauses []string
		if len(removed) > 0 {
			clauses = append(clauses, "removed from "+quoteRoles(removed))
		}
		if len(added) > 0 {
			clauses = append(clauses, "added to "+quoteRoles(added))
		}
		lines = append(lines, fmt.Sprintf("- edit %q: %s", change.AccountID, strings.Join(clauses, ", ")))
	}

	return updated, strings.Join(lines, "\n")
}
