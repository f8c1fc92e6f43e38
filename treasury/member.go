package treasury

// Member is the derived view of one account across every Group role. It is
// recomputed from the live policy on each call and never cached across
// mutations.
type Member struct {
	AccountID string
	Roles     []string
}

func (m Member) HasRole(name string) bool {
	for _, role := range m.Roles {
		if role == name {
			return true
		}
	}
	return false
}

// Members derives the normalized member list: one entry per distinct account
// id appearing in any Group role, roles being the union of every Group role
// containing it. Order follows first appearance in the policy.
func (p *Policy) Members() []Member {
	var order []string
	byAccount := map[string]*Member{}

	for _, role := range p.Roles {
		if !role.Kind.IsGroup() {
			continue
		}
		for _, accountID := range role.Kind.Members() {
			entry, ok := byAccount[accountID]
			if !ok {
				entry = &Member{AccountID: accountID}
				byAccount[accountID] = entry
				order = append(order, accountID)
			}
			if !entry.HasRole(role.Name) {
				entry.Roles = append(entry.Roles, role.Name)
			}
		}
	}

	members := make([]Member, 0, len(order))
	for _, accountID := range order {
		members = append(members, *byAccount[accountID])
	}
	return members
}

// Member returns the derived entry for a single account id, nil when the
// account appears in no Group role.
func (p *Policy) Member(accountID string) *Member {
	for _, member := range p.Members() {
		if member.AccountID == accountID {
			return &member
		}
	}
	return nil
}

// RoleIndex builds the role -> member-set index used for O(1) holder-count
// lookups. Built per call, not persisted.
func RoleIndex(members []Member) map[string]map[string]struct{} {
	index := map[string]map[string]struct{}{}
	for _, member := range members {
		for _, role := range member.Roles {
			if index[role] == nil {
				index[role] = map[string]struct{}{}
			}
			index[role][member.AccountID] = struct{}{}
		}
	}
	return index
}
