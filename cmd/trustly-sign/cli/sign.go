package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaunb-optile/trustly-client-go/pkg/canonical"
	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
)

type signOptions struct {
	Method string
	Data   string
}

func Sign(ro *RootOptions) *cobra.Command {
	o := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign --method METHOD [--data FILE]",
		Short: "Build and sign a request.",
		Long: `Build and sign a request.

    Reads the request data as a JSON object from FILE, or from stdin when FILE
    is "-", adds the configured credentials, signs it with the merchant key
    and prints the request body. The generated uuid is printed to stderr so
    that the response can be verified later.`,
		Args: cobra.NoArgs,
		RunE: run(ro, func(_ context.Context, cmd *cobra.Command, e *env, _ []string) error {
			return o.run(cmd, e)
		}),
	}

	cmd.Flags().StringVar(&o.Method, "method", "", "API method, e.g. AccountLedger")
	cmd.Flags().StringVar(&o.Data, "data", "", `JSON data file, "-" for stdin; empty data when omitted`)
	_ = cmd.MarkFlagRequired("method")
	return cmd
}

func (o *signOptions) run(cmd *cobra.Command, e *env) error {
	data, err := readData(cmd.InOrStdin(), o.Data)
	if err != nil {
		return err
	}

	b, err := e.builder()
	if err != nil {
		return err
	}
	req, err := b.BuildRequest(rpc.Method(o.Method), data)
	if err != nil {
		return err
	}

	body, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(body))
	fmt.Fprintf(cmd.ErrOrStderr(), "uuid: %s\n", req.UUID())
	return nil
}

func readData(stdin io.Reader, path string) (map[string]any, error) {
	var raw []byte
	var err error
	switch path {
	case "":
		return map[string]any{}, nil
	case "-":
		raw, err = io.ReadAll(stdin)
	default:
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	decoded, err := canonical.Decode(raw)
	if err != nil {
		return nil, err
	}
	data, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("data must be a JSON object, got %T", decoded)
	}
	return data, nil
}

func readFile(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
