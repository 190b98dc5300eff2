package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shaunb-optile/trustly-client-go/pkg/keystore"
)

const (
	privateKeyFile = "private.pem"
	publicKeyFile  = "public.pem"
)

type keygenOptions struct {
	Out   string
	Bits  int
	Force bool
}

func Keygen(ro *RootOptions) *cobra.Command {
	o := &keygenOptions{}

	cmd := &cobra.Command{
		Use:   "keygen --out DIR",
		Short: "Generate a merchant RSA key pair.",
		Long: `Generate a merchant RSA key pair.

    Writes private.pem (PKCS#1, mode 0600) and public.pem (PKIX) to DIR. The
    public key is what gets uploaded to the payment provider. Existing files
    are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: run(ro, func(_ context.Context, cmd *cobra.Command, e *env, _ []string) error {
			return o.run(cmd, e)
		}),
	}

	cmd.Flags().StringVar(&o.Out, "out", "", "directory to write the key pair to")
	cmd.Flags().IntVar(&o.Bits, "bits", keystore.MinKeyBits, "RSA modulus size")
	cmd.Flags().BoolVar(&o.Force, "force", false, "overwrite existing key files")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (o *keygenOptions) run(cmd *cobra.Command, e *env) error {
	privPath := filepath.Join(o.Out, privateKeyFile)
	pubPath := filepath.Join(o.Out, publicKeyFile)

	if !o.Force {
		for _, p := range []string{privPath, pubPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists, use --force to overwrite", p)
			}
		}
	}

	privPEM, pubPEM, err := keystore.GenerateKeyPair(o.Bits)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(o.Out, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", o.Out, err)
	}
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	pub, err := keystore.NewStore(keystore.WithLogger(e.lg)).LoadPublicKey(keystore.FileSource(pubPath))
	if err != nil {
		return err
	}
	e.lg.Info("generated key pair", "dir", o.Out, "bits", o.Bits)

	fmt.Fprintf(cmd.OutOrStdout(), "private key: %s\npublic key:  %s\nfingerprint: %s\n",
		privPath, pubPath, pub.Fingerprint())
	return nil
}
