package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ninja0404/old-runners/internal/api"
	"github.com/ninja0404/old-runners/internal/app"
	"github.com/ninja0404/old-runners/internal/model"
)

// scanner is the part of the application a one-shot scan needs
type scanner interface {
	Scan(ctx context.Context, networks []string, filter model.FilterConfig) *api.Response
	Shutdown() error
}

type scanOptions struct {
	networks   []string
	thresholds map[string]string
	pretty     bool
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the response JSON",
		Example: `  old-runners scan --networks solana,base
  old-runners scan --set minLP=10000 --set minBuySkew5m=52`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := app.New()
			if err := application.Initialize(configPath); err != nil {
				return err
			}
			return opts.run(cmd.Context(), cmd.OutOrStdout(), application)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.networks, "networks", "n", nil, "networks to scan, defaults to radar.networks")
	cmd.Flags().StringToStringVar(&opts.thresholds, "set", nil, "threshold override using the query parameter names, e.g. minLP=10000")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", true, "indent output")
	return cmd
}

// run prints one scan and always shuts the application down; a shutdown
// failure is returned alongside any encode error.
func (o *scanOptions) run(ctx context.Context, out io.Writer, s scanner) (err error) {
	defer func() {
		if serr := s.Shutdown(); serr != nil {
			err = multierror.Append(err, errors.Wrap(serr, "shutdown")).ErrorOrNil()
		}
	}()

	resp := s.Scan(ctx, o.networks, api.ParseFilterConfig(o.query()))

	enc := json.NewEncoder(out)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

// query reuses the HTTP parameter parsing for --set overrides
func (o *scanOptions) query() url.Values {
	q := url.Values{}
	for k, v := range o.thresholds {
		q.Set(k, v)
	}
	return q
}
