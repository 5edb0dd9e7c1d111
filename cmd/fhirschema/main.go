// Package main implements the fhirschema CLI: structural validation of FHIR
// R4 resources from files or stdin, plus inspection of the registered types.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// errInvalid is returned when at least one input failed validation. The
// report has already been printed, so main only sets the exit code.
var errInvalid = errors.New("validation failed")

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "fhirschema",
		Short:         "Structural validator for FHIR R4 resources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default ./.fhirschema.yaml if present)")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error, none")
	pf.Bool("log-json", false, "Write logs as JSON instead of console text")
	pf.StringSlice("schemas", nil, "YAML schema files to register before running")

	root.AddCommand(validateCmd())
	root.AddCommand(typesCmd())
	root.AddCommand(schemaCmd())
	root.AddCommand(bundleCmd())
	return root
}
