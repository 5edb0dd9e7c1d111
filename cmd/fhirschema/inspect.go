package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gofhir/fhirschema/registry"
)

func typesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List registered type tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			kind, _ := cmd.Flags().GetString("kind")

			out := cmd.OutOrStdout()
			for _, tag := range reg.Tags() {
				label := tagKind(reg, tag)
				if kind != "" && kind != label {
					continue
				}
				fmt.Fprintf(out, "%-28s %s\n", tag, label)
			}
			return nil
		},
	}
	cmd.Flags().String("kind", "", "Only list one kind: primitive, datatype, backbone, resource, polymorphic")
	return cmd
}

// tagKind names a tag by what it resolves to: the schema kind for
// composites, the entry kind otherwise.
func tagKind(reg *registry.Registry, tag string) string {
	if s, ok := reg.Schema(tag); ok {
		return s.Kind().String()
	}
	entry, _ := reg.Lookup(tag)
	return entry.Kind.String()
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <Type>",
		Short: "Print a registered schema as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			s, ok := reg.Schema(args[0])
			if !ok {
				return fmt.Errorf("%w %q", registry.ErrUnknownType, args[0])
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(s); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
