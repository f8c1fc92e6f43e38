package treasury

import (
	"encoding/json"
	"errors"
)

// Policy is the access-control document of a treasury DAO. It is owned by an
// external store; the engine never mutates a policy in place, every mutation
// starts from Clone.
type Policy struct {
	Roles                   []Role          `json:"roles"`
	DefaultVotePolicy       json.RawMessage `json:"default_vote_policy,omitempty"`
	ProposalBond            string          `json:"proposal_bond,omitempty"`
	ProposalPeriod          string          `json:"proposal_period,omitempty"`
	BountyBond              string          `json:"bounty_bond,omitempty"`
	BountyForgivenessPeriod string          `json:"bounty_forgiveness_period,omitempty"`
}

type Role struct {
	Name        string          `json:"name"`
	Kind        RoleKind        `json:"kind"`
	Permissions []string        `json:"permissions,omitempty"`
	VotePolicy  json.RawMessage `json:"vote_policy,omitempty"`
}

// RoleKind is the tagged union of role kinds. Only the Group variant carries
// members; every other variant ("Everyone", weighted kinds) is held as raw
// JSON and round-trips untouched.
type RoleKind struct {
	group   []string
	other   json.RawMessage
	isGroup bool
}

func GroupKind(members ...string) RoleKind {
	return RoleKind{isGroup: true, group: members}
}

func (k RoleKind) IsGroup() bool {
	return k.isGroup
}

// IsEveryone reports the unrestricted role kind, which grants its
// permissions to any account.
func (k RoleKind) IsEveryone() bool {
	return !k.isGroup && (len(k.other) == 0 || string(k.other) == `"Everyone"`)
}

// Members returns the group member list, nil for non-Group kinds.
func (k RoleKind) Members() []string {
	if !k.isGroup {
		return nil
	}
	return k.group
}

func (k RoleKind) withMembers(members []string) RoleKind {
	return RoleKind{isGroup: true, group: members}
}

func (k *RoleKind) UnmarshalJSON(data []byte) error {
	tag := struct {
		Group *[]string `json:"Group"`
	}{}
	if err := json.Unmarshal(data, &tag); err == nil && tag.Group != nil {
		k.isGroup = true
		k.group = *tag.Group
		k.other = nil
		return nil
	}

	k.isGroup = false
	k.group = nil
	k.other = append(json.RawMessage(nil), data...)
	return nil
}

func (k RoleKind) MarshalJSON() ([]byte, error) {
	if k.isGroup {
		members := k.group
		if members == nil {
			members = []string{}
		}
		return json.Marshal(struct {
			Group []string `json:"Group"`
		}{Group: members})
	}
	if len(k.other) == 0 {
		return []byte(`"Everyone"`), nil
	}
	return append([]byte(nil), k.other...), nil
}

func PolicyFromJson(jsonBytes []byte) (*Policy, error) {
	p := &Policy{}
	if err := json.Unmarshal(jsonBytes, p); err != nil {
		return nil, errors.New("unable to decode policy json")
	}
	return p, nil
}

func (p *Policy) ToJson() ([]byte, error) {
	return json.Marshal(p)
}

// Clone returns a deep, independent copy of the policy.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	cp := &Policy{
		ProposalBond:            p.ProposalBond,
		ProposalPeriod:          p.ProposalPeriod,
		BountyBond:              p.BountyBond,
		BountyForgivenessPeriod: p.BountyForgivenessPeriod,
	}
	if p.DefaultVotePolicy != nil {
		cp.DefaultVotePolicy = append(json.RawMessage(nil), p.DefaultVotePolicy...)
	}
	if p.Roles != nil {
		cp.Roles = make([]Role, len(p.Roles))
		for i, role := range p.Roles {
			cp.Roles[i] = role.clone()
		}
	}
	return cp
}

func (r Role) clone() Role {
	cr := Role{Name: r.Name}
	if r.Permissions != nil {
		cr.Permissions = append([]string(nil), r.Permissions...)
	}
	if r.VotePolicy != nil {
		cr.VotePolicy = append(json.RawMessage(nil), r.VotePolicy...)
	}
	if r.Kind.isGroup {
		cr.Kind = RoleKind{isGroup: true, group: append([]string(nil), r.Kind.group...)}
	} else {
		cr.Kind = RoleKind{other: append(json.RawMessage(nil), r.Kind.other...)}
	}
	return cr
}

// GroupRoleNames returns the names of every Group role, in policy order.
func (p *Policy) GroupRoleNames() []string {
	var names []string
	for _, role := range p.Roles {
		if role.Kind.IsGroup() {
			names = append(names, role.Name)
		}
	}
	return names
}
