package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "ogm",
		Short: "Object-graph mapping metadata tools",
		Long: color.CyanString(`ogm - object-graph mapper

ogm maps Go domain types onto graph nodes and relationships. These commands
load the domain descriptors named in ogm.yaml (or on the command line) and
report how each type is mapped:

  • inspect   classes, labels, members and their classification
  • validate  annotation conflicts and inheritance cycles
  • resolve   simple-name lookup
  • decode    summary of a graph response document`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the configuration file (default ./ogm.yaml)")
	flags.StringSliceVar(&opts.manifests, "manifest", nil, "Descriptor manifest to load (repeatable)")
	flags.StringSliceVar(&opts.packages, "package", nil, "Go package pattern to scan (repeatable)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.logLevel, "log-level", "", "Override logging.level")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newInspectCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))
	rootCmd.AddCommand(newResolveCommand(opts))
	rootCmd.AddCommand(newDecodeCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the ogm version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "ogm version: ")
			fmt.Fprintln(out, Version)
			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)
			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)
			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
