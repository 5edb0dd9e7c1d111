package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/engine"
	"github.com/gofhir/fhirschema/stream"
)

func bundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle <file|->",
		Short: "Validate the entries of a large Bundle one at a time",
		Long: `Validate every Bundle.entry.resource without decoding the whole bundle.
Each entry is checked as a standalone resource; bundle-level fields are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBundle,
	}
	f := cmd.Flags()
	f.Bool("parallel", false, "Validate entries on several workers (output order is kept)")
	f.Bool("quiet", false, "Only print entries with issues and the summary")
	f.String("style", fhs.StyleCurrent.String(), "Message style: current, legacy")
	f.Bool("invariants", true, "Evaluate schema invariants")
	f.Int("workers", 0, "Workers for --parallel (0 = 4)")
	return cmd
}

func runBundle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := cfg.Logger(cmd)
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	e := engine.NewWithRegistry(reg, cfg.Options(log)...)

	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r, name = f, args[0]
	}

	v := stream.NewBundleValidator(e.ValidateResource).WithWorkerCount(cfg.Workers)
	var results <-chan *stream.EntryResult
	if parallel, _ := cmd.Flags().GetBool("parallel"); parallel {
		results = v.ValidateStreamParallel(cmd.Context(), r)
	} else {
		results = v.ValidateStream(cmd.Context(), r)
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "== %s ==\n", name)

	// Entries are printed as they arrive and aggregated from a tee.
	tee := make(chan *stream.EntryResult)
	done := make(chan *stream.BundleStreamResult, 1)
	go func() {
		done <- stream.Aggregate(tee)
	}()
	for res := range results {
		printEntry(out, res, quiet)
		tee <- res
	}
	close(tee)
	agg := <-done

	fmt.Fprintln(out, agg.Summary())
	log.Debug().Str("bundle", name).Int("entries", agg.TotalEntries).Msg("bundle validated")
	if agg.HasErrors() {
		return errInvalid
	}
	return nil
}

func printEntry(w io.Writer, res *stream.EntryResult, quiet bool) {
	label := fmt.Sprintf("entry[%d]", res.Index)
	if res.Index < 0 {
		label = "bundle"
	}
	if ref := res.Ref(); ref != "" {
		label += " " + ref
	}

	if res.Error != nil {
		fmt.Fprintf(w, "%s: ERROR %v\n", label, res.Error)
		return
	}
	if len(res.Result.Issues) == 0 {
		if !quiet {
			fmt.Fprintf(w, "%s: OK\n", label)
		}
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for _, iss := range res.Result.Issues {
		fmt.Fprintf(w, "  %s [%s] %s\n", severityLabel(iss.Severity), iss.Code, iss.Diagnostics)
	}
}
