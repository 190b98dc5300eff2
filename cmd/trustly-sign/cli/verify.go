package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
)

type verifyOptions struct {
	Response string
	Method   string
	UUID     string
}

func Verify(ro *RootOptions) *cobra.Command {
	o := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify --response FILE --method METHOD --uuid UUID",
		Short: "Verify a response envelope.",
		Long: `Verify a response envelope.

    Checks the signature with the configured API public key and that the
    response answers the request identified by METHOD and UUID. Prints the
    verified data on success. A rejected response prints nothing on stdout.`,
		Args: cobra.NoArgs,
		RunE: run(ro, func(_ context.Context, cmd *cobra.Command, e *env, _ []string) error {
			return o.run(cmd, e)
		}),
	}

	cmd.Flags().StringVar(&o.Response, "response", "-", `response file, "-" for stdin`)
	cmd.Flags().StringVar(&o.Method, "method", "", "method of the originating request")
	cmd.Flags().StringVar(&o.UUID, "uuid", "", "uuid of the originating request")
	_ = cmd.MarkFlagRequired("method")
	_ = cmd.MarkFlagRequired("uuid")
	return cmd
}

func (o *verifyOptions) run(cmd *cobra.Command, e *env) error {
	raw, err := readFile(cmd.InOrStdin(), o.Response)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	b, err := e.builder()
	if err != nil {
		return err
	}
	resp, err := b.VerifyResponse(raw, rpc.Method(o.Method), o.UUID)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp.Data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
