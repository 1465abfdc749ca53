// Package rules manages the ordered tagging rules.
package rules

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/rules"
)

var (
	name       string
	pattern    string
	conditions []string
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage tagging rules",
	Long: `Rules map transactions to tags. They are evaluated in the order they were
added and the first match wins. A simple rule matches a pattern against the
merchant and description; an advanced rule requires every condition to hold.`,
}

var addCmd = &cobra.Command{
	Use:   "add <tag>",
	Short: "Add a rule",
	Long: `Add appends a rule. Give either --pattern or one or more --when conditions
of the form "field operator value", for example:

  spendtag rules add reimbursable --when "merchant contains MARRIOTT" --when "amount greater-than 500"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		rule, err := addRule(cmd.Context(), c, args[0], name, pattern, conditions)
		if err != nil {
			return err
		}
		return root.Render(cmd, []models.Rule{rule})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		rs, err := c.GetRuleStore().LoadRules(cmd.Context())
		if err != nil {
			return err
		}
		return root.Render(cmd, rs)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		if err := c.GetRuleStore().DeleteRule(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %s\n", args[0])
		return err
	},
}

func init() {
	addCmd.Flags().StringVar(&name, "name", "", "Rule name (defaults to the pattern)")
	addCmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Text matched against merchant and description")
	addCmd.Flags().StringArrayVarP(&conditions, "when", "w", nil, `Condition "field operator value" (repeatable)`)

	Cmd.AddCommand(addCmd, listCmd, deleteCmd)
}

func addRule(ctx context.Context, c *container.Container, tagName, name, pattern string, specs []string) (models.Rule, error) {
	tag, err := models.ParseTag(tagName)
	if err != nil {
		return models.Rule{}, err
	}
	conds := make([]models.Condition, 0, len(specs))
	for _, spec := range specs {
		cond, err := rules.ParseCondition(spec)
		if err != nil {
			return models.Rule{}, err
		}
		conds = append(conds, cond)
	}
	rule, err := rules.New(name, pattern, conds, tag)
	if err != nil {
		return models.Rule{}, err
	}
	if err := c.GetRuleStore().AddRule(ctx, rule); err != nil {
		return models.Rule{}, err
	}
	return rule, nil
}
