package treasury

// RoleChange assigns an account id its full target role set. Additions,
// edits and removals all travel as batches of RoleChange; a single-member
// operation is a batch of size one.
type RoleChange struct {
	AccountID string
	Roles     []string
}

type MutationKind string

const (
	MutationAdd    MutationKind = "add"
	MutationEdit   MutationKind = "edit"
	MutationRemove MutationKind = "remove"
)

// MutationRequest is an ephemeral, UI-assembled batch of role changes.
type MutationRequest struct {
	Kind    MutationKind
	Changes []RoleChange
}

type MutationOption func(*MutationRequest)

func WithChange(accountID string, roles ...string) MutationOption {
	return func(r *MutationRequest) {
		r.Changes = append(r.Changes, RoleChange{AccountID: accountID, Roles: roles})
	}
}

func NewMutation(kind MutationKind, options ...MutationOption) MutationRequest {
	r := MutationRequest{Kind: kind}
	for _, option := range options {
		option(&r)
	}
	return r
}

// AccountIDs lists the accounts touched by the request, in batch order.
func (r MutationRequest) AccountIDs() []string {
	ids := make([]string, 0, len(r.Changes))
	for _, change := range r.Changes {
		ids = append(ids, change.AccountID)
	}
	return ids
}
