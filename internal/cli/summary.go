package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
)

func NewSummaryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show catalog totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *service.Session, out *OutputFormatter) error {
				summary := s.Summary()
				return out.Success("", toSummaryView(summary), func(w io.Writer) {
					renderSummary(w, summary)
				})
			})
		},
	}
}

func NewViewCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view [table|card]",
		Short: "Show or set the saved catalog view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *service.Session, out *OutputFormatter) error {
				if len(args) == 1 {
					if err := s.SetView(ctx, domain.ViewMode(args[0])); err != nil {
						return out.Fail(err)
					}
				}
				view := s.View()
				return out.Success("View: "+string(view), map[string]string{"view": string(view)}, nil)
			})
		},
	}
}

func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Replace the stored catalog with a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := storage.LoadSeed(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read seed", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := openApp(ctx, opts, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.repo.SaveCatalog(ctx, seed.Products); err != nil {
				return WrapExitError(ExitCommandError, "failed to save catalog", err)
			}
			if err := a.repo.SaveView(ctx, seed.View); err != nil {
				return WrapExitError(ExitCommandError, "failed to save view", err)
			}

			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			summary := s.Summary()
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return out.Success("Catalog seeded", toSummaryView(summary), func(w io.Writer) {
				renderSummary(w, summary)
			})
		},
	}
}
