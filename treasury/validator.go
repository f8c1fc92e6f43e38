package treasury

import (
	"fmt"
	"strings"
)

// ValidationResult is the verdict for a candidate mutation. A denial is a
// value, not an error: the caller surfaces Reason and must change the
// request, never retry it.
type ValidationResult struct {
	CanModify bool
	Reason    string
}

func Allowed() ValidationResult {
	return ValidationResult{CanModify: true}
}

func Denied(reason string) ValidationResult {
	return ValidationResult{Reason: reason}
}

// FormatRoleList renders role names for user-facing messages: one name on
// its own, two joined with "and", three or more as an Oxford-comma list.
func FormatRoleList(roles []string) string {
	switch len(roles) {
	case 0:
		return ""
	case 1:
		return roles[0]
	case 2:
		return roles[0] + " and " + roles[1]
	default:
		return strings.Join(roles[:len(roles)-1], ", ") + ", and " + roles[len(roles)-1]
	}
}

// IsCriticalRole reports whether a role manages membership or voting
// configuration, matched by name substring.
func IsCriticalRole(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "governance") || strings.Contains(lower, "admin")
}

func criticalNote(roles []string) string {
	var critical []string
	for _, role := range roles {
		if IsCriticalRole(role) {
			critical = append(critical, role)
		}
	}
	if len(critical) == 0 {
		return ""
	}
	noun, verb := "role", "is"
	if len(critical) > 1 {
		noun, verb = "roles", "are"
	}
	return fmt.Sprintf(" The %s %s %s required to manage members and configure voting.",
		FormatRoleList(critical), noun, verb)
}

// CanRemoveMember checks a single deletion candidate: it is denied when any
// role held exclusively by this member would be left empty.
func CanRemoveMember(members []Member, candidate Member) ValidationResult {
	index := RoleIndex(members)

	var affected []string
	for _, role := range candidate.Roles {
		if len(index[role]) == 1 {
			affected = append(affected, role)
		}
	}
	if len(affected) == 0 {
		return Allowed()
	}

	reason := fmt.Sprintf("Cannot remove %q: they are the only member of %s.",
		candidate.AccountID, FormatRoleList(affected))
	return Denied(reason + criticalNote(affected))
}

// CanRemoveMembers generalizes the sole-holder rule to a batch: for every
// role touched by the batch the surviving holder count must stay above zero.
// Every role that would empty is named, not just the first.
func CanRemoveMembers(members []Member, batch []Member) ValidationResult {
	index := RoleIndex(members)

	removing := map[string]struct{}{}
	for _, member := range batch {
		removing[member.AccountID] = struct{}{}
	}

	var emptied []string
	seen := map[string]struct{}{}
	for _, member := range batch {
		for _, role := range member.Roles {
			if _, done := seen[role]; done {
				continue
			}
			seen[role] = struct{}{}

			surviving := 0
			for holder := range index[role] {
				if _, gone := removing[holder]; !gone {
					surviving++
				}
			}
			if surviving == 0 {
				emptied = append(emptied, role)
			}
		}
	}
	if len(emptied) == 0 {
		return Allowed()
	}

	reason := fmt.Sprintf("Removing these members would leave %s without any members.",
		FormatRoleList(emptied))
	return Denied(reason + criticalNote(emptied))
}

// CanApplyEdits checks a batch of role edits: members absent from the batch
// keep their current membership, edited members keep a role only when it
// appears in their new role set. No role may end with zero holders.
func CanApplyEdits(members []Member, edits []RoleChange) ValidationResult {
	target := map[string][]string{}
	for _, edit := range edits {
		target[edit.AccountID] = edit.Roles
	}

	var order []string
	post := map[string]int{}
	held := map[string]struct{}{}
	for _, member := range members {
		for _, role := range member.Roles {
			if _, ok := held[role]; !ok {
				held[role] = struct{}{}
				order = append(order, role)
			}
		}

		roles := member.Roles
		if edited, ok := target[member.AccountID]; ok {
			roles = edited
		}
		for _, role := range roles {
			post[role]++
		}
	}

	var emptied []string
	for _, role := range order {
		if post[role] == 0 {
			emptied = append(emptied, role)
		}
	}
	if len(emptied) == 0 {
		return Allowed()
	}

	reason := fmt.Sprintf("These changes would leave %s without any members.",
		FormatRoleList(emptied))
	return Denied(reason + criticalNote(emptied))
}

// CanRemoveRole is the single-role variant used for inline feedback while
// editing: denied only when the account is the sole holder of that role.
func CanRemoveRole(members []Member, accountID, role string) ValidationResult {
	index := RoleIndex(members)

	holders := index[role]
	if len(holders) != 1 {
		return Allowed()
	}
	if _, sole := holders[accountID]; !sole {
		return Allowed()
	}

	reason := fmt.Sprintf("%q is the only member of %s.", accountID, role)
	return Denied(reason + criticalNote([]string{role}))
}
