package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
)

type ackOptions struct {
	Notification string
	Status       string
}

func Ack(ro *RootOptions) *cobra.Command {
	o := &ackOptions{}

	cmd := &cobra.Command{
		Use:   "ack --notification FILE [--status OK|FAILED]",
		Short: "Verify a notification and print the signed acknowledgement.",
		Args:  cobra.NoArgs,
		RunE: run(ro, func(_ context.Context, cmd *cobra.Command, e *env, _ []string) error {
			return o.run(cmd, e)
		}),
	}

	cmd.Flags().StringVar(&o.Notification, "notification", "-", `notification file, "-" for stdin`)
	cmd.Flags().StringVar(&o.Status, "status", string(rpc.StatusOK), "acknowledgement status")
	return cmd
}

func (o *ackOptions) run(cmd *cobra.Command, e *env) error {
	raw, err := readFile(cmd.InOrStdin(), o.Notification)
	if err != nil {
		return fmt.Errorf("failed to read notification: %w", err)
	}

	b, err := e.builder()
	if err != nil {
		return err
	}
	n, err := b.ParseNotification(raw)
	if err != nil {
		return err
	}
	ack, err := b.BuildNotificationResponse(n, rpc.NotificationStatus(o.Status))
	if err != nil {
		return err
	}

	body, err := json.MarshalIndent(ack, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return nil
}
