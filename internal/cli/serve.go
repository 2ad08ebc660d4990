package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			v := app.Cfg
			applyConfigFlagOverrides(cmd, v, map[string]string{
				"tls-domain": "tls.domains",
				"tls-email":  "tls.email",
				"tls-cert":   "tls.cert_file",
				"tls-key":    "tls.key_file",
			})
			if listen != "" {
				v.Set("http_addr", listen)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := app.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			opts, err := serveOptions(ctx, cmd)
			if err != nil {
				return err
			}
			scheme := "http"
			if opts.TLS != nil {
				scheme = "https"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "genieblog listening on %s (%s)\n", opts.Addr, scheme)
			return app.BuildServer(store).Serve(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (override config http_addr)")
	cmd.Flags().StringSlice("tls-domain", nil, "serve HTTPS with ACME certificates for these domains")
	cmd.Flags().String("tls-email", "", "ACME account email")
	cmd.Flags().String("tls-cert", "", "PEM certificate file")
	cmd.Flags().String("tls-key", "", "PEM key file")
	return cmd
}

func serveOptions(ctx context.Context, cmd *cobra.Command) (server.ServeOptions, error) {
	v := getApp(cmd).Cfg
	opts := server.ServeOptions{Addr: v.GetString("http_addr")}
	if opts.Addr == "" {
		opts.Addr = ":3000"
	}
	switch {
	case v.GetString("tls.cert_file") != "":
		tlsConf, err := server.BuildFileTLS(v.GetString("tls.cert_file"), v.GetString("tls.key_file"))
		if err != nil {
			return opts, err
		}
		opts.TLS = tlsConf
	case len(v.GetStringSlice("tls.domains")) > 0:
		tlsConf, challenge, err := server.BuildCertMagicTLS(ctx, server.CertMagicConfig{
			Domains:    v.GetStringSlice("tls.domains"),
			Email:      v.GetString("tls.email"),
			StorageDir: v.GetString("tls.storage_dir"),
		})
		if err != nil {
			return opts, fmt.Errorf("acme: %w", err)
		}
		opts.TLS = tlsConf
		opts.Challenge = challenge
		opts.ChallengeAddr = v.GetString("tls.challenge_addr")
	}
	return opts, nil
}
