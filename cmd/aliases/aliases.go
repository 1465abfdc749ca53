// Package aliases manages merchant aliases and proposes new ones.
package aliases

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
)

var apply bool

// Cmd represents the aliases command
var Cmd = &cobra.Command{
	Use:   "aliases",
	Short: "Manage merchant aliases",
	Long: `Aliases map raw merchant spellings such as "CAREEM HALA" or "CAREEM FOOD"
onto one display name. They drive merchant normalization, duplicate and
recurrence grouping and similarity matching.`,
}

var addCmd = &cobra.Command{
	Use:   "add <canonical> <variant>...",
	Short: "Add an alias",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		alias, err := c.GetAliasStore().AddAlias(cmd.Context(), models.MerchantAlias{Canonical: args[0], Variants: args[1:]})
		if err != nil {
			return err
		}
		return root.Render(cmd, []models.MerchantAlias{alias})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List aliases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		as, err := c.GetAliasStore().LoadAliases(cmd.Context())
		if err != nil {
			return err
		}
		return root.Render(cmd, as)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		if err := c.GetAliasStore().DeleteAlias(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted alias %s\n", args[0])
		return err
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Propose aliases for merchants spelled several ways",
	Long: `Suggest groups merchant spellings that share their first word and are not yet
covered by an alias. With --apply every suggestion is stored as an alias.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		suggestions, err := suggest(cmd.Context(), c, apply)
		if err != nil {
			return err
		}
		return root.Render(cmd, suggestions)
	},
}

func init() {
	suggestCmd.Flags().BoolVar(&apply, "apply", false, "Store every suggestion as an alias")
	Cmd.AddCommand(addCmd, listCmd, deleteCmd, suggestCmd)
}

func suggest(ctx context.Context, c *container.Container, apply bool) ([]merchant.AliasSuggestion, error) {
	snap, err := common.LoadSnapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	suggestions := merchant.SuggestAliases(snap.Transactions, snap.Aliases)
	if !apply {
		return suggestions, nil
	}
	for _, s := range suggestions {
		if _, err := c.GetAliasStore().AddAlias(ctx, s.ToAlias()); err != nil {
			return nil, fmt.Errorf("error storing alias %s: %w", s.Canonical, err)
		}
	}
	c.GetLogger().Info("Alias suggestions stored", logging.Field{Key: logging.FieldCount, Value: len(suggestions)})
	return suggestions, nil
}
