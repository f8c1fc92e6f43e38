// Package cli implements the treasuryctl command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NEAR-DevHub/treasury-membership/storage"
	"github.com/NEAR-DevHub/treasury-membership/treasury"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

type globalFlags struct {
	configPath string
	daoID      string
	actor      string
}

func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "treasuryctl",
		Short:         "Inspect and mutate treasury membership policies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "storage.json", "storage provider config file")
	root.PersistentFlags().StringVar(&flags.daoID, "dao", "", "treasury DAO id")
	root.PersistentFlags().StringVar(&flags.actor, "as", "", "acting wallet account id")

	root.AddCommand(newMembersCmd(flags))
	root.AddCommand(newProposalsCmd(flags))
	root.AddCommand(newCheckCmd(flags))
	root.AddCommand(newApplyCmd(flags))
	return root
}

func loadProvider(flags *globalFlags) (storage.Provider, error) {
	if flags.daoID == "" {
		return nil, fmt.Errorf("--dao is required")
	}
	bytes, err := os.ReadFile(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("read provider config: %w", err)
	}
	provider, err := storage.Load(bytes)
	if err != nil {
		return nil, err
	}
	if err := provider.Connect(); err != nil {
		return nil, fmt.Errorf("connect provider: %w", err)
	}
	return provider, nil
}

// parseChangeSpecs turns "account=Role1,Role2" arguments into role changes.
// A bare account id yields an empty role set.
func parseChangeSpecs(specs []string) []treasury.RoleChange {
	changes := make([]treasury.RoleChange, 0, len(specs))
	for _, spec := range specs {
		accountID, roleList, found := strings.Cut(spec, "=")
		change := treasury.RoleChange{AccountID: strings.TrimSpace(accountID)}
		if found {
			for _, role := range strings.Split(roleList, ",") {
				if role = strings.TrimSpace(role); role != "" {
					change.Roles = append(change.Roles, role)
				}
			}
		}
		changes = append(changes, change)
	}
	return changes
}

func newMembersCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List members derived from the live policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := loadProvider(flags)
			if err != nil {
				return err
			}
			defer provider.Close()

			policy, err := provider.RetrievePolicy(flags.daoID)
			if err != nil {
				return err
			}
			for _, member := range policy.Members() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
					member.AccountID, treasury.FormatRoleList(member.Roles))
			}
			return nil
		},
	}
}

func newProposalsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "proposals",
		Short: "List pending proposals with decoded membership changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := loadProvider(flags)
			if err != nil {
				return err
			}
			defer provider.Close()

			pending, err := provider.ListProposals(flags.daoID, treasury.ProposalStatusInProgress)
			if err != nil {
				return err
			}
			for _, proposal := range pending {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d %s by %s\n", proposal.ID, proposal.Kind, proposal.Proposer)
				for _, change := range proposal.MembershipChanges() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s added=%v removed=%v\n",
						change.AccountID, change.AddedRoles, change.RemovedRoles)
				}
			}
			return nil
		},
	}
}

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var removeSpecs, editSpecs []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a candidate membership change without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, provider, err := runMutation(flags, removeSpecs, editSpecs, nil)
			if err != nil {
				return err
			}
			defer provider.Close()

			if !result.CanModify {
				fmt.Fprintln(cmd.OutOrStdout(), "denied:", result.Reason)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "allowed")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&removeSpecs, "remove", nil, "account ids to remove")
	cmd.Flags().StringSliceVar(&editSpecs, "edit", nil, "edits as account=Role1,Role2")
	return cmd
}

func newApplyCmd(flags *globalFlags) *cobra.Command {
	var removeSpecs, editSpecs, addSpecs []string
	var title string
	var submit bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Prepare a policy change and optionally submit it as a proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, flow, provider, err := runMutation(flags, removeSpecs, editSpecs, addSpecs)
			if err != nil {
				return err
			}
			defer provider.Close()

			if !result.CanModify {
				return fmt.Errorf("change rejected: %s", result.Reason)
			}

			updated, summary := flow.Preview()
			fmt.Fprintln(cmd.OutOrStdout(), summary)

			if !submit {
				document, err := json.MarshalIndent(updated, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(document))
				return nil
			}

			id, err := flow.Submit(treasury.ProposalMeta{Title: title})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted proposal #%d\n", id)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&addSpecs, "add", nil, "additions as account=Role1,Role2")
	cmd.Flags().StringSliceVar(&removeSpecs, "remove", nil, "account ids to remove")
	cmd.Flags().StringSliceVar(&editSpecs, "edit", nil, "edits as account=Role1,Role2")
	cmd.Flags().StringVar(&title, "title", "Update members", "proposal title")
	cmd.Flags().BoolVar(&submit, "submit", false, "submit the change as a proposal")
	return cmd
}

// runMutation drives a flow through compose and validate for the requested
// mutation. Exactly one of the spec lists may be non-empty.
func runMutation(flags *globalFlags, removeSpecs, editSpecs, addSpecs []string) (treasury.ValidationResult, *treasury.Flow, storage.Provider, error) {
	request := treasury.MutationRequest{}
	switch {
	case len(removeSpecs) > 0 && len(editSpecs) == 0 && len(addSpecs) == 0:
		request = treasury.MutationRequest{Kind: treasury.MutationRemove, Changes: parseChangeSpecs(removeSpecs)}
	case len(editSpecs) > 0 && len(removeSpecs) == 0 && len(addSpecs) == 0:
		request = treasury.MutationRequest{Kind: treasury.MutationEdit, Changes: parseChangeSpecs(editSpecs)}
	case len(addSpecs) > 0 && len(removeSpecs) == 0 && len(editSpecs) == 0:
		request = treasury.MutationRequest{Kind: treasury.MutationAdd, Changes: parseChangeSpecs(addSpecs)}
	default:
		return treasury.ValidationResult{}, nil, nil, fmt.Errorf("specify exactly one of --add, --edit or --remove")
	}

	provider, err := loadProvider(flags)
	if err != nil {
		return treasury.ValidationResult{}, nil, nil, err
	}

	policy, err := provider.RetrievePolicy(flags.daoID)
	if err != nil {
		provider.Close()
		return treasury.ValidationResult{}, nil, nil, err
	}
	pending, err := provider.HasPendingMembershipProposal(flags.daoID)
	if err != nil {
		provider.Close()
		return treasury.ValidationResult{}, nil, nil, err
	}

	flow := treasury.NewFlow(policy, treasury.NewLookup(flags.daoID, flags.actor), provider,
		treasury.WithLogger(logger))
	if err := flow.Compose(request); err != nil {
		provider.Close()
		return treasury.ValidationResult{}, nil, nil, err
	}
	result, err := flow.Validate(pending)
	if err != nil {
		provider.Close()
		return treasury.ValidationResult{}, nil, nil, err
	}
	return result, flow, provider, nil
}
