package treasury

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRoleChangesAdd(t *testing.T) {
	policy := testPolicy(t)

	updated, summary := ApplyRoleChanges(policy, []RoleChange{
		{AccountID: "dave.near", Roles: []string{"Requestor"}},
	}, false)

	assert.Equal(t, `- add "dave.near" to ["Requestor"]`, summary)
	assert.Equal(t, []string{"alice.near", "bob.near", "dave.near"}, updated.Roles[3].Kind.Members())

	// original untouched
	assert.Equal(t, []string{"alice.near", "bob.near"}, policy.Roles[3].Kind.Members())
}

func TestApplyRoleChangesEditDiff(t *testing.T) {
	policy, err := PolicyFromJson([]byte(`{"roles":[
		{"name":"A","kind":{"Group":["x.near","y.near"]}},
		{"name":"B","kind":{"Group":["x.near","y.near"]}},
		{"name":"C","kind":{"Group":["y.near"]}}]}`))
	assert.NoError(t, err)

	updated, summary := ApplyRoleChanges(policy, []RoleChange{
		{AccountID: "x.near", Roles: []string{"B", "C"}},
	}, true)

	assert.Equal(t, `- edit "x.near": removed from ["A"], added to ["C"]`, summary)
	assert.Equal(t, []string{"y.near"}, updated.Roles[0].Kind.Members())
	assert.Equal(t, []string{"x.near", "y.near"}, updated.Roles[1].Kind.Members())
	assert.Equal(t, []string{"y.near", "x.near"}, updated.Roles[2].Kind.Members())
}

func TestApplyRoleChangesEditIdempotent(t *testing.T) {
	policy := testPolicy(t)

	updated, summary := ApplyRoleChanges(policy, []RoleChange{
		{AccountID: "bob.near", Roles: []string{"Financial", "Requestor"}},
	}, true)

	assert.Empty(t, summary)
	assert.Equal(t, policy, updated)
}

func TestApplyRoleChangesSingleClause(t *testing.T) {
	policy := testPolicy(t)

	_, summary := ApplyRoleChanges(policy, []RoleChange{
		{AccountID: "carol.near", Roles: []string{"Financial", "Requestor"}},
	}, true)
	assert.Equal(t, `- edit "carol.near": added to ["Requestor"]`, summary)

	_, summary = ApplyRoleChanges(policy, []RoleChange{
		{AccountID: "bob.near", Roles: []string{"Financial"}},
	}, true)
	assert.Equal(t, `- edit "bob.near": removed from ["Requestor"]`, summary)
}

func TestApplyRoleChangesBatch(t *testing.T) {
	policy := testPolicy(t)

	updated, summary := ApplyRoleChanges(policy, []RoleChange{
		{AccountID: "dave.near", Roles: []string{"Financial", "Requestor"}},
		{AccountID: "erin.near", Roles: []string{"Requestor"}},
	}, false)

	assert.Equal(t, `- add "dave.near" to ["Financial", "Requestor"]`+"\n"+
		`- add "erin.near" to ["Requestor"]`, summary)
	assert.Equal(t, []string{"bob.near", "carol.near", "dave.near"}, updated.Roles[2].Kind.Members())
	assert.Equal(t, []string{"alice.near", "bob.near", "dave.near", "erin.near"}, updated.Roles[3].Kind.Members())

	// accepted mutations never leave a Group role empty
	for _, role := range updated.Roles {
		if role.Kind.IsGroup() {
			assert.NotEmpty(t, role.Kind.Members(), "role %s emptied", role.Name)
		}
	}
}

func TestAcceptedEditsPreserveInvariant(t *testing.T) {
	policy := testPolicy(t)
	members := policy.Members()

	edits := []RoleChange{
		{AccountID: "alice.near", Roles: []string{"Requestor"}},
		{AccountID: "bob.near", Roles: []string{"Governance", "Financial"}},
	}
	assert.True(t, CanApplyEdits(members, edits).CanModify)

	updated, _ := ApplyRoleChanges(policy, edits, true)
	for _, role := range updated.Roles {
		if role.Kind.IsGroup() {
			assert.NotEmpty(t, role.Kind.Members(), "role %s emptied", role.Name)
		}
	}
}
