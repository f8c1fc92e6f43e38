package treasury

import (
	"regexp"
	"strings"
)

// PendingChange is the per-account reconstruction of a membership change
// decoded from a proposal description.
type PendingChange struct {
	AccountID    string   `json:"accountId"`
	AddedRoles   []string `json:"addedRoles"`
	RemovedRoles []string `json:"removedRoles"`
}

var (
	editLineRe   = regexp.MustCompile(`^\s*-?\s*edit\s+"([^"]+)":\s*(.+)$`)
	addLineRe    = regexp.MustCompile(`^\s*-?\s*add\s+"([^"]+)"\s+to\s+\[([^\]]*)\]`)
	removeLineRe = regexp.MustCompile(`^\s*-?\s*remove\s+"([^"]+)"\s+from\s+\[([^\]]*)\]`)

	removedClauseRe = regexp.MustCompile(`removed from\s+\[([^\]]*)\]`)
	addedClauseRe   = regexp.MustCompile(`added to\s+\[([^\]]*)\]`)
)

func parseRoleList(list string) []string {
	var roles []string
	for _, part := range strings.Split(list, ",") {
		role := strings.Trim(strings.TrimSpace(part), `"`)
		if role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

// DecodeChanges scans free-form proposal text for membership change-log
// lines and accumulates added/removed role sets per account. A later line
// may extend an earlier account's sets. Lines matching none of the three
// shapes are ignored: decoding is best-effort display reconstruction, not
// validation.
func DecodeChanges(description string) []PendingChange {
	var order []string
	byAccount := map[string]*PendingChange{}

	entry := func(accountID string) *PendingChange {
		change, ok := byAccount[accountID]
		if !ok {
			change = &PendingChange{
				AccountID:    accountID,
				AddedRoles:   []string{},
				RemovedRoles: []string{},
			}
			byAccount[accountID] = change
			order = append(order, accountID)
		}
		return change
	}

	appendRoles := func(existing []string, roles []string) []string {
		for _, role := range roles {
			if !containsString(existing, role) {
				existing = append(existing, role)
			}
		}
		return existing
	}

	for _, line := range strings.Split(description, "\n") {
		if m := editLineRe.FindStringSubmatch(line); m != nil {
			removed := removedClauseRe.FindStringSubmatch(m[2])
			added := addedClauseRe.FindStringSubmatch(m[2])
			if removed == nil && added == nil {
				continue
			}
			change := entry(m[1])
			if removed != nil {
				change.RemovedRoles = appendRoles(change.RemovedRoles, parseRoleList(removed[1]))
			}
			if added != nil {
				change.AddedRoles = appendRoles(change.AddedRoles, parseRoleList(added[1]))
			}
			continue
		}
		if m := addLineRe.FindStringSubmatch(line); m != nil {
			change := entry(m[1])
			change.AddedRoles = appendRoles(change.AddedRoles, parseRoleList(m[2]))
			continue
		}
		if m := removeLineRe.FindStringSubmatch(line); m != nil {
			change := entry(m[1])
			change.RemovedRoles = appendRoles(change.RemovedRoles, parseRoleList(m[2]))
		}
	}

	changes := make([]PendingChange, 0, len(order))
	for _, accountID := range order {
		changes = append(changes, *byAccount[accountID])
	}
	return changes
}
