package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/gofhir/fhirschema/registry"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const (
	goodPatient = `{"resourceType":"Patient","gender":"female","name":[{"family":"Roe"}]}`
	badPatient  = `{"resourceType":"Patient","gender":"robot"}`
	genderIssue = "Field must be one of [male, female, other, unknown] in Patient.gender"
)

func TestValidate_Text(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", goodPatient)
	bad := writeFile(t, dir, "bad.json", badPatient)

	out, err := run(t, "", "validate", good)
	if err != nil {
		t.Fatalf("valid file: %v", err)
	}
	if !strings.Contains(out, "== "+good+" ==") || !strings.Contains(out, "Status: VALID") {
		t.Errorf("output = %s", out)
	}

	out, err = run(t, "", "validate", good, bad)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v; want errInvalid", err)
	}
	want := "  ERROR [code-invalid] " + genderIssue + " @ Patient.gender (line 1, col 27)"
	if !strings.Contains(out, "Status: INVALID") || !strings.Contains(out, want) {
		t.Errorf("output = %s", out)
	}
}

func TestValidate_Short(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", goodPatient)
	bad := writeFile(t, dir, "bad.json", `{"resourceType":"Patient","gender":"robot","extra":1}`)

	out, err := run(t, "", "validate", "--short", good, bad)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}
	want := good + ": OK\n" + bad + ": InvalidFieldException. Field(s): 'extra'. Path: Patient.\n"
	if out != want {
		t.Errorf("output = %q\nwant %q", out, want)
	}
}

func TestValidate_JSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", badPatient)

	out, err := run(t, "", "validate", "-o", "json", bad)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}
	var reports []ValidationOutput
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if len(reports) != 1 {
		t.Fatalf("len(reports) = %d", len(reports))
	}
	r := reports[0]
	if r.Valid || r.Errors != 1 || r.Outcome == nil || r.Outcome.ResourceType != "OperationOutcome" {
		t.Errorf("report = %+v", r)
	}
	if r.Error == nil || *r.Error != genderIssue {
		t.Errorf("error = %v", r.Error)
	}
}

func TestValidate_Stdin(t *testing.T) {
	out, err := run(t, `{"resourceType":"Observation"}`, "validate", "-")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}
	for _, want := range []string{
		"== stdin ==",
		"Errors: 2, Warnings: 0",
		"RequiredFieldException: Field: 'status'. Path: Observation",
		"RequiredFieldException: Field: 'code'. Path: Observation",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate_NotJSON(t *testing.T) {
	out, err := run(t, "not json", "validate")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(out, "ERROR engine: decode resource") {
		t.Errorf("output = %s", out)
	}
}

func TestValidate_Type(t *testing.T) {
	out, err := run(t, `{"start":"2020-01-01","end":"2019-01-01"}`, "validate", "--type", "Period", "--short")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}
	want := "stdin: InvariantException: [per-1] If present, start SHALL have a lower value than end. Path: Period\n"
	if out != want {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, `{"start":"2020-01-01","end":"2019-01-01"}`, "validate", "--type", "Period", "--invariants=false")
	if err != nil || !strings.Contains(out, "Status: VALID") {
		t.Errorf("invariants disabled: %v\n%s", err, out)
	}

	if _, err := run(t, `{}`, "validate", "--type", "Spaceship"); !errors.Is(err, registry.ErrUnknownType) {
		t.Errorf("error = %v; want ErrUnknownType", err)
	}
}

func TestValidate_LegacyStyle(t *testing.T) {
	input := `{"resourceType":"Patient","foo":1}`
	want := "stdin: InvalidFieldException: Fields [foo] are not allowed in Patient.\n"

	t.Run("env", func(t *testing.T) {
		t.Setenv("FHIRSCHEMA_STYLE", "legacy")
		out, _ := run(t, input, "validate", "--short")
		if out != want {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("flag", func(t *testing.T) {
		out, _ := run(t, input, "validate", "--short", "--style", "legacy")
		if out != want {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("config file", func(t *testing.T) {
		cfg := writeFile(t, t.TempDir(), "config.yaml", "style: legacy\nshort: true\n")
		out, _ := run(t, input, "validate", "--config", cfg)
		if out != want {
			t.Errorf("output = %q", out)
		}
	})
}

const deviceSchema = `schemas:
  - name: Device
    kind: resource
    fields:
      - name: status
        type: code
        required: true
        enum: [active, inactive, entered-in-error, unknown]
      - name: manufacturer
        type: string
`

func TestSchemasFlag(t *testing.T) {
	file := writeFile(t, t.TempDir(), "device.yaml", deviceSchema)

	out, err := run(t, `{"resourceType":"Device","manufacturer":"Acme"}`, "validate", "--short", "--schemas", file)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("error = %v", err)
	}
	if out != "stdin: RequiredFieldException: Field: 'status'. Path: Device\n" {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, "", "types", "--kind", "resource", "--schemas", file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Device") || !strings.Contains(out, "Patient") {
		t.Errorf("types output = %s", out)
	}

	if _, err := run(t, "", "types", "--schemas", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing schema file")
	}
}

func TestTypes(t *testing.T) {
	out, err := run(t, "", "types")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Period", "Resource", "dateTime", "PatientContact"} {
		if !strings.Contains(out, want) {
			t.Errorf("types output missing %s", want)
		}
	}

	out, err = run(t, "", "types", "--kind", "polymorphic")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Fields(out); len(got) != 2 || got[0] != "Resource" || got[1] != "polymorphic" {
		t.Errorf("polymorphic = %q", out)
	}
}

func TestSchema(t *testing.T) {
	out, err := run(t, "", "schema", "Period")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"name: Period", "kind: datatype", "name: start", "type: dateTime", "key: per-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("schema output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "", "schema", "Nope"); !errors.Is(err, registry.ErrUnknownType) {
		t.Errorf("error = %v; want ErrUnknownType", err)
	}
	if _, err := run(t, "", "schema"); err == nil {
		t.Error("expected argument error")
	}
}

const testBundle = `{
  "resourceType": "Bundle",
  "type": "collection",
  "entry": [
    {"fullUrl": "urn:uuid:1", "resource": {"resourceType": "Patient", "id": "p1", "gender": "female"}},
    {"fullUrl": "urn:uuid:2", "resource": {"resourceType": "Observation", "id": "o1", "status": "final"}}
  ]
}`

func TestBundle(t *testing.T) {
	for _, parallel := range []string{"--parallel=false", "--parallel=true"} {
		t.Run(parallel, func(t *testing.T) {
			out, err := run(t, testBundle, "bundle", parallel)
			if !errors.Is(err, errInvalid) {
				t.Fatalf("error = %v", err)
			}
			want := "== stdin ==\n" +
				"entry[0] Patient/p1: OK\n" +
				"entry[1] Observation/o1:\n" +
				"  ERROR [invalid] RequiredFieldException: Field: 'code'. Path: Observation\n" +
				"Validated 2 entries: 1 with errors, 0 with warnings, 1 total issues\n"
			if out != want {
				t.Errorf("output = %q\nwant     %q", out, want)
			}
		})
	}

	t.Run("quiet file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bundle.json", testBundle)
		out, _ := run(t, "", "bundle", "--quiet", path)
		if strings.Contains(out, "OK") || !strings.Contains(out, "== "+path+" ==") {
			t.Errorf("output = %s", out)
		}
	})

	t.Run("broken bundle", func(t *testing.T) {
		out, err := run(t, `{"entry": 5}`, "bundle")
		if !errors.Is(err, errInvalid) || !strings.Contains(out, "bundle: ERROR read entry array") {
			t.Errorf("error = %v, output = %s", err, out)
		}
	})
}
