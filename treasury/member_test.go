package treasury

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMembers(t *testing.T) {
	policy := testPolicy(t)
	members := policy.Members()

	assert.Equal(t, []Member{
		{AccountID: "alice.near", Roles: []string{"Governance", "Requestor"}},
		{AccountID: "bob.near", Roles: []string{"Financial", "Requestor"}},
		{AccountID: "carol.near", Roles: []string{"Financial"}},
	}, members)
}

func TestMemberLookup(t *testing.T) {
	policy := testPolicy(t)

	member := policy.Member("bob.near")
	assert.NotNil(t, member)
	assert.Equal(t, []string{"Financial", "Requestor"}, member.Roles)
	assert.True(t, member.HasRole("Financial"))
	assert.False(t, member.HasRole("Governance"))

	assert.Nil(t, policy.Member("nobody.near"))
}

func TestRoleIndex(t *testing.T) {
	policy := testPolicy(t)
	index := RoleIndex(policy.Members())

	assert.Len(t, index["Governance"], 1)
	assert.Len(t, index["Financial"], 2)
	assert.Len(t, index["Requestor"], 2)
	assert.Contains(t, index["Financial"], "carol.near")
}
