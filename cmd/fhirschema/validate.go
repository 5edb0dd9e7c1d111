package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/engine"
	"github.com/gofhir/fhirschema/location"
	"github.com/gofhir/fhirschema/registry"
)

// input is one document to validate.
type input struct {
	name string
	data []byte
}

// ValidationOutput is the JSON report for one input.
type ValidationOutput struct {
	Resource string                `json:"resource"`
	Valid    bool                  `json:"valid"`
	Errors   int                   `json:"errors"`
	Warnings int                   `json:"warnings"`
	Error    *string               `json:"error,omitempty"`
	Outcome  *fhs.OperationOutcome `json:"outcome,omitempty"`
	Duration string                `json:"duration"`

	source []byte
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file|-]...",
		Short: "Validate FHIR resources from files or stdin",
		Example: `  fhirschema validate patient.json
  fhirschema validate --short *.json
  fhirschema validate --type Period period.json
  cat patient.json | fhirschema validate -`,
		RunE: runValidate,
	}
	f := cmd.Flags()
	f.Bool("short", false, "Stop at the first error and print only its message")
	f.StringP("output", "o", "text", "Output format: text, json")
	f.String("type", "", "Validate against this type instead of the resourceType")
	f.String("style", fhs.StyleCurrent.String(), "Message style: current, legacy")
	f.Int("max-errors", 0, "Stop after this many errors (0 = unlimited)")
	f.Bool("invariants", true, "Evaluate schema invariants")
	f.Int("workers", 0, "Batch workers (0 = number of CPUs)")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := cfg.Logger(cmd)
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	if cfg.Type != "" {
		if _, ok := reg.Lookup(cfg.Type); !ok {
			return fmt.Errorf("%w %q", registry.ErrUnknownType, cfg.Type)
		}
	}
	e := engine.NewWithRegistry(reg, cfg.Options(log)...)

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	log.Debug().Int("inputs", len(inputs)).Str("type", cfg.Type).Msg("validating")

	outputs := make([]ValidationOutput, 0, len(inputs))
	if cfg.Type != "" {
		for _, in := range inputs {
			start := time.Now()
			res, err := e.ValidateType(in.data, cfg.Type, "")
			outputs = append(outputs, report(in, res, err, time.Since(start)))
		}
	} else {
		raw := make([][]byte, len(inputs))
		for i, in := range inputs {
			raw[i] = in.data
		}
		batch := e.ValidateBatch(cmd.Context(), raw)
		for i, job := range batch.Results {
			outputs = append(outputs, report(inputs[i], job.Result, job.Error, job.Duration))
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case strings.EqualFold(cfg.Output, "json"):
		b, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	case cfg.Short:
		for _, o := range outputs {
			printShort(out, o)
		}
	default:
		for _, o := range outputs {
			printText(out, o)
		}
	}

	for _, o := range outputs {
		if !o.Valid {
			return errInvalid
		}
	}
	return nil
}

func report(in input, res *fhs.Result, err error, took time.Duration) ValidationOutput {
	o := ValidationOutput{
		Resource: in.name,
		Duration: took.Round(time.Microsecond).String(),
		source:   in.data,
	}
	if err != nil {
		msg := err.Error()
		o.Error = &msg
		o.Errors = 1
		return o
	}
	o.Valid = res.Valid
	o.Errors = res.ErrorCount()
	o.Warnings = res.WarningCount()
	o.Outcome = res.Outcome()
	if sc := res.ShortCircuit(); sc.Error != nil {
		o.Error = sc.Error
	}
	return o
}

func printShort(w io.Writer, o ValidationOutput) {
	if o.Error == nil {
		fmt.Fprintf(w, "%s: OK\n", o.Resource)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", o.Resource, *o.Error)
}

func printText(w io.Writer, o ValidationOutput) {
	status := "VALID"
	if !o.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "== %s ==\n", o.Resource)
	fmt.Fprintf(w, "Status: %s\n", status)
	fmt.Fprintf(w, "Errors: %d, Warnings: %d\n", o.Errors, o.Warnings)
	fmt.Fprintf(w, "Duration: %s\n", o.Duration)

	if o.Outcome == nil {
		if o.Error != nil {
			fmt.Fprintf(w, "\n  ERROR %s\n", *o.Error)
		}
		fmt.Fprintln(w)
		return
	}
	if len(o.Outcome.Issue) > 0 {
		fmt.Fprintln(w, "\nIssues:")
		for _, iss := range o.Outcome.Issue {
			where := ""
			if len(iss.Expression) > 0 {
				where = " @ " + strings.Join(iss.Expression, ", ")
				if loc := location.Find(o.source, iss.Expression[0]); loc != nil {
					where += fmt.Sprintf(" (line %d, col %d)", loc.Line, loc.Column)
				}
			}
			fmt.Fprintf(w, "  %s [%s] %s%s\n", severityLabel(iss.Severity), iss.Code, iss.Diagnostics, where)
		}
	}
	fmt.Fprintln(w)
}

func severityLabel(s fhs.IssueSeverity) string {
	switch s {
	case fhs.SeverityError:
		return "ERROR"
	case fhs.SeverityWarning:
		return "WARN "
	default:
		return "     "
	}
}

// readInputs reads every argument; "-" or no argument reads stdin. Glob
// patterns are expanded.
func readInputs(stdin io.Reader, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	var inputs []input
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			inputs = append(inputs, input{name: "stdin", data: data})
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s", arg)
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, input{name: path, data: data})
		}
	}
	return inputs, nil
}
