package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-recharge-backend/internal/checkout"
	"github.com/tbourn/go-recharge-backend/internal/client"
)

func payCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Recharge a mobile number",
		Long: `Create a payment for the chosen plan, open its UPI link and wait for
settlement.

By default the link is printed and settlement is simulated locally. With
--poll the command instead waits for the server to record the outcome
reported by the payment gateway.`,
		Args: cobra.NoArgs,
		RunE: runPay,
	}

	cmd.Flags().StringP("mobile", "m", "", "10-digit mobile number")
	cmd.Flags().StringP("operator", "o", "", "Operator code (e.g. jio)")
	cmd.Flags().StringP("plan", "p", "", "Plan id or type (e.g. 3 or Popular)")
	cmd.Flags().String("device", "auto", "Device class: auto, mobile or desktop")
	cmd.Flags().String("ua", "", "User agent used to detect the device class when --device=auto")
	cmd.Flags().StringSlice("probe", nil, "UPI apps to try first on mobile (gpay, phonepe, paytm, bhim, amazonpay, or all)")
	cmd.Flags().Bool("open", false, "Open the link with the system handler instead of printing it")
	cmd.Flags().Bool("poll", false, "Wait for the server to record the settlement")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Polling deadline with --poll")
	_ = cmd.MarkFlagRequired("mobile")
	_ = cmd.MarkFlagRequired("operator")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runPay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	flags := cmd.Flags()

	mobile, _ := flags.GetString("mobile")
	opCode, _ := flags.GetString("operator")
	planSel, _ := flags.GetString("plan")
	deviceFlag, _ := flags.GetString("device")
	ua, _ := flags.GetString("ua")
	probeIDs, _ := flags.GetStringSlice("probe")
	useSystem, _ := flags.GetBool("open")
	poll, _ := flags.GetBool("poll")
	timeout, _ := flags.GetDuration("timeout")

	device, err := deviceClass(deviceFlag, ua)
	if err != nil {
		return err
	}
	probe, err := probeApps(probeIDs)
	if err != nil {
		return err
	}

	api, err := apiClient(cmd)
	if err != nil {
		return err
	}

	flow := checkout.NewFlow()
	if err := flow.SubmitMobile(mobile); err != nil {
		return err
	}
	op, err := api.Operator(ctx, opCode)
	if client.IsNotFound(err) {
		return fmt.Errorf("unknown operator %q", opCode)
	}
	if err != nil {
		return err
	}
	if err := flow.SelectOperator(*op); err != nil {
		return err
	}
	plans, err := api.PlansByOperator(ctx, op.ID)
	if err != nil {
		return err
	}
	plan, err := pickPlan(plans, planSel)
	if err != nil {
		return err
	}
	if err := flow.SelectPlan(plan); err != nil {
		return err
	}

	var opener checkout.Opener = checkout.PrintOpener{W: out}
	if useSystem {
		opener = checkout.SystemOpener{}
	}
	var verifier checkout.SettlementVerifier = checkout.NewRandomVerifier()
	if poll {
		verifier = &checkout.PollingVerifier{Payments: api, Timeout: timeout}
	}
	orch := &checkout.Orchestrator{
		API:      api,
		Launcher: &checkout.Launcher{Opener: opener, Probe: probe},
		Verifier: verifier,
	}

	fmt.Fprintf(out, "Recharging %s on %s: %s plan, ₹%d (%s, %s)\n",
		flow.Mobile(), op.Name, plan.Type, plan.DiscountedPrice, plan.Data, plan.Validity)
	logger(cmd).Debug().Str("device", device.String()).Int("probe", len(probe)).Bool("poll", poll).Msg("starting payment")

	in := bufio.NewReader(cmd.InOrStdin())
	for {
		fmt.Fprintln(out, "Waiting for payment confirmation...")
		outcome, err := orch.Pay(ctx, flow, device)
		if err != nil {
			var pe *checkout.PayError
			if errors.As(err, &pe) && pe.Payment != nil {
				fmt.Fprintf(out, "Payment %s was not completed.\n", pe.Payment.TransactionID)
			}
			if errors.Is(err, context.Canceled) {
				return errors.New("payment cancelled")
			}
			return err
		}
		if outcome.Succeeded() {
			fmt.Fprintf(out, "Recharge successful. ₹%d paid for %s.\n", outcome.Payment.Amount, mobile)
			printPayment(cmd, outcome.Payment)
			return nil
		}
		fmt.Fprintf(out, "Payment %s failed.\n", outcome.Payment.TransactionID)
		if !confirm(in, out, "Try again? [y/N] ") {
			return errors.New("payment failed")
		}
	}
}

func deviceClass(flag, ua string) (checkout.DeviceClass, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "auto":
		return checkout.ClassifyUserAgent(ua), nil
	case "mobile":
		return checkout.Mobile, nil
	case "desktop":
		return checkout.Desktop, nil
	}
	return 0, fmt.Errorf("invalid --device %q (want auto, mobile or desktop)", flag)
}

func probeApps(ids []string) ([]checkout.UPIApp, error) {
	var apps []checkout.UPIApp
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "all" {
			return checkout.Apps, nil
		}
		found := false
		for _, app := range checkout.Apps {
			if app.ID == id {
				apps = append(apps, app)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown UPI app %q", id)
		}
	}
	return apps, nil
}

func confirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
