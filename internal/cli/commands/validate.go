package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/ogm/internal/cli/ui"
)

// ErrValidationFailed is returned by validate in strict mode when any class
// fails validation.
var ErrValidationFailed = errors.New("validation failed")

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check annotation conflicts and inheritance cycles",
		Long: `Validate every class in the registry: no class may carry two mutually
exclusive annotations and no inheritance chain may loop.

Failures are reported as warnings. With --strict, or mapping.strict_validation
in ogm.yaml, any failure makes the command exit non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("strict") {
				strict = s.cfg.Mapping.StrictValidation
			}

			failures := s.registry.Validate()
			out := cmd.OutOrStdout()
			if len(failures) == 0 {
				fmt.Fprintln(out, ui.Success(fmt.Sprintf("%d classes valid", s.registry.Count()), opts.noColor))
				return nil
			}

			fmt.Fprint(out, ui.ValidationFailed(failures, strict, opts.noColor))
			s.logger.Debug("validation finished", zap.Int("failures", len(failures)), zap.Bool("strict", strict))
			if strict {
				return errors.Wrapf(ErrValidationFailed, "%d failure(s)", len(failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any class fails validation")
	return cmd
}
