package commands

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/ogm/internal/orm/entity"
)

func newResolveCommand(opts *globalOptions) *cobra.Command {
	var (
		labels  []string
		relType string
	)

	cmd := &cobra.Command{
		Use:   "resolve [name]",
		Short: "Find the class for a simple name, a label set or a relationship type",
		Example: `  # Simple-name lookup
  ogm resolve Bike

  # The class a node with these labels hydrates into
  ogm resolve --label Person --label Individual

  # The class a relationship of this type hydrates into
  ogm resolve --type MEMBER_OF`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			given := 0
			for _, set := range []bool{len(args) == 1, len(labels) > 0, relType != ""} {
				if set {
					given++
				}
			}
			if given != 1 {
				return errors.New("give exactly one of a name, --label or --type")
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			factory := entity.NewFactory(s.registry, entity.NewTable(), entity.WithFactoryLogger(s.logger))
			out := cmd.OutOrStdout()

			switch {
			case len(labels) > 0:
				class, err := factory.ResolveLabels(strings.Join(labels, ":"), labels)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, class.Name())
			case relType != "":
				class, err := factory.ResolveType(relType, relType)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, class.Name())
			default:
				class, err := lookupClass(cmd, s.registry, args[0], opts.noColor)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s (%s)\n", class.Name(), classKind(class))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&labels, "label", nil, "Node label (repeatable)")
	cmd.Flags().StringVar(&relType, "type", "", "Relationship type")
	return cmd
}
