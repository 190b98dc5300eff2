// Package cli implements the trustly-sign command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shaunb-optile/trustly-client-go/pkg/config"
	"github.com/shaunb-optile/trustly-client-go/pkg/keystore"
	"github.com/shaunb-optile/trustly-client-go/pkg/log"
	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
)

const tracerName = "github.com/shaunb-optile/trustly-client-go/cmd/trustly-sign"

// RootOptions are the flags shared by all commands.
type RootOptions struct {
	LogLevel        string
	CanonicalFormat string
}

func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&o.CanonicalFormat, "format", "",
		"canonical format (values or keyvalue); overrides TRUSTLY_CANONICAL_FORMAT")
}

func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:               "trustly-sign",
		Short:             "Sign payment API requests and verify responses.",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	ro.AddFlags(cmd)

	cmd.AddCommand(Keygen(ro))
	cmd.AddCommand(Sign(ro))
	cmd.AddCommand(Verify(ro))
	cmd.AddCommand(Ack(ro))
	cmd.AddCommand(Vectors(ro))
	return cmd
}

// env is what a command needs once configuration is loaded.
type env struct {
	conf *config.Config
	lg   log.Logger
}

// builder creates an rpc.Builder from the configured keys and credentials.
func (e *env) builder() (*rpc.Builder, error) {
	store := keystore.NewStore(keystore.WithLogger(e.lg))
	bc, err := e.conf.BuilderConfig(store, e.lg, nil)
	if err != nil {
		return nil, err
	}
	return rpc.NewBuilder(bc)
}

type runFunc func(ctx context.Context, cmd *cobra.Command, e *env, args []string) error

// run loads configuration, sets up logging and wraps fn in a span.
func run(ro *RootOptions, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(nil)
		if err != nil {
			return err
		}
		if ro.LogLevel != "" {
			conf.Log.Level = log.Level(ro.LogLevel)
		}
		if ro.CanonicalFormat != "" {
			conf.CanonicalFormat = ro.CanonicalFormat
			if _, err := conf.Format(); err != nil {
				return err
			}
		}

		ctx, span := otel.Tracer(tracerName).Start(cmd.Context(), cmd.Name())
		defer span.End()

		lg := log.NewZapLogger(conf.Log).WithName("trustly-sign")
		ctx = log.SetContextLogger(ctx, lg)

		err = fn(ctx, cmd, &env{conf: conf, lg: log.FromContext(ctx)}, args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetAttributes(attribute.String("command", cmd.Name()))
		return nil
	}
}
