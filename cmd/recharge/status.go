package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-recharge-backend/internal/client"
	"github.com/tbourn/go-recharge-backend/internal/domain"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <transaction-id>",
		Short: "Show a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := apiClient(cmd)
			if err != nil {
				return err
			}
			p, err := api.Payment(cmd.Context(), args[0])
			if client.IsNotFound(err) {
				return fmt.Errorf("no payment with transaction id %q", args[0])
			}
			if err != nil {
				return err
			}
			printPayment(cmd, p)
			return nil
		},
	}
}

func printPayment(cmd *cobra.Command, p *domain.Payment) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transaction: %s\n", p.TransactionID)
	fmt.Fprintf(out, "  Status:    %s\n", p.Status)
	fmt.Fprintf(out, "  Amount:    ₹%d\n", p.Amount)
	fmt.Fprintf(out, "  Plan:      %d\n", p.PlanID)
	if p.MobileNumber != nil {
		fmt.Fprintf(out, "  Mobile:    %s\n", *p.MobileNumber)
	}
	fmt.Fprintf(out, "  Created:   %s\n", p.CreatedAt.Local().Format(time.RFC1123))
	if p.CompletedAt != nil {
		fmt.Fprintf(out, "  Completed: %s\n", p.CompletedAt.Local().Format(time.RFC1123))
	}
}
