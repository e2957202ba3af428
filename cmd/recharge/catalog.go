package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-recharge-backend/internal/client"
	"github.com/tbourn/go-recharge-backend/internal/domain"
)

func operatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List mobile operators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient(cmd)
			if err != nil {
				return err
			}
			ops, err := api.Operators(cmd.Context())
			if err != nil {
				return err
			}
			printOperators(cmd.OutOrStdout(), ops)
			return nil
		},
	}
}

func plansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans <operator-code>",
		Short: "List active plans for an operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient(cmd)
			if err != nil {
				return err
			}
			op, err := api.Operator(cmd.Context(), args[0])
			if client.IsNotFound(err) {
				return fmt.Errorf("unknown operator %q", args[0])
			}
			if err != nil {
				return err
			}
			plans, err := api.PlansByOperator(cmd.Context(), op.ID)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no active plans\n", op.Name)
				return nil
			}
			printPlans(cmd.OutOrStdout(), plans)
			return nil
		},
	}
}

func printOperators(w io.Writer, ops []domain.Operator) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tCOLOR")
	for _, op := range ops {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", op.ID, op.Code, op.Name, op.BrandColor)
	}
	tw.Flush()
}

func printPlans(w io.Writer, plans []domain.RechargePlan) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPRICE\tMRP\tDATA\tVALIDITY\tCALLS")
	for _, p := range plans {
		fmt.Fprintf(tw, "%d\t%s\t₹%d\t₹%d\t%s\t%s\t%s\n",
			p.ID, p.Type, p.DiscountedPrice, p.OriginalPrice, p.Data, p.Validity, p.Calls)
	}
	tw.Flush()
}

// pickPlan selects a plan by numeric id or, failing that, by type
// (case-insensitive).
func pickPlan(plans []domain.RechargePlan, sel string) (domain.RechargePlan, error) {
	sel = strings.TrimSpace(sel)
	for _, p := range plans {
		if fmt.Sprint(p.ID) == sel || strings.EqualFold(p.Type, sel) {
			return p, nil
		}
	}
	return domain.RechargePlan{}, fmt.Errorf("no active plan matches %q", sel)
}
