package treasury

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testPolicyJson = `{
  "roles": [
    {"name": "all", "kind": "Everyone", "permissions": ["*:VoteApprove"]},
    {
      "name": "Governance",
      "kind": {"Group": ["alice.near"]},
      "permissions": ["*:*"],
      "vote_policy": {"weight_kind": "RoleWeight", "quorum": "0", "threshold": [1, 2]}
    },
    {"name": "Financial", "kind": {"Group": ["bob.near", "carol.near"]}, "permissions": ["transfer:AddProposal"]},
    {"name": "Requestor", "kind": {"Group": ["alice.near", "bob.near"]}, "permissions": ["policy:AddProposal"]}
  ],
  "default_vote_policy": {"weight_kind": "RoleWeight", "quorum": "0", "threshold": [1, 2]},
  "proposal_bond": "100000000000000000000000",
  "proposal_period": "604800000000000"
}`

func testPolicy(t *testing.T) *Policy {
	t.Helper()
	policy, err := PolicyFromJson([]byte(testPolicyJson))
	if err != nil {
		t.Fatalf("decode test policy: %v", err)
	}
	return policy
}

func TestPolicyFromJson(t *testing.T) {
	if _, err := PolicyFromJson([]byte("{broken")); err == nil {
		t.Error("expected decode failure for corrupt json")
	}

	policy := testPolicy(t)
	assert.Len(t, policy.Roles, 4)
	assert.False(t, policy.Roles[0].Kind.IsGroup())
	assert.True(t, policy.Roles[0].Kind.IsEveryone())
	assert.True(t, policy.Roles[1].Kind.IsGroup())
	assert.Equal(t, []string{"alice.near"}, policy.Roles[1].Kind.Members())
	assert.Equal(t, "100000000000000000000000", policy.ProposalBond)
	assert.Equal(t, []string{"Governance", "Financial", "Requestor"}, policy.GroupRoleNames())
}

func TestPolicyRoundTrip(t *testing.T) {
	policy := testPolicy(t)

	encoded, err := policy.ToJson()
	assert.NoError(t, err)

	decoded, err := PolicyFromJson(encoded)
	assert.NoError(t, err)
	assert.Equal(t, policy, decoded)

	// Non-Group kinds survive as raw JSON
	var doc map[string]interface{}
	assert.NoError(t, json.Unmarshal(encoded, &doc))
	roles := doc["roles"].([]interface{})
	assert.Equal(t, "Everyone", roles[0].(map[string]interface{})["kind"])
}

func TestPolicyClone(t *testing.T) {
	policy := testPolicy(t)
	clone := policy.Clone()

	assert.Equal(t, policy, clone)

	clone.Roles[1].Kind = clone.Roles[1].Kind.withMembers([]string{"mallory.near"})
	clone.Roles[2].Permissions[0] = "changed"
	clone.ProposalBond = "0"

	assert.Equal(t, []string{"alice.near"}, policy.Roles[1].Kind.Members())
	assert.Equal(t, "transfer:AddProposal", policy.Roles[2].Permissions[0])
	assert.Equal(t, "100000000000000000000000", policy.ProposalBond)
}
