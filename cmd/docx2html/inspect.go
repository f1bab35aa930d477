package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tsawler/docxhtml"
	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/internal/logger"
	"github.com/tsawler/docxhtml/layout"
)

// report summarises the structure of a package.
type report struct {
	Parts           []partInfo `yaml:"parts"`
	Relationships   []relInfo  `yaml:"relationships"`
	Styles          int        `yaml:"styles"`
	NumberingLevels int        `yaml:"numbering_levels"`
	Sections        int        `yaml:"sections"`
	Warnings        []string   `yaml:"warnings,omitempty"`
}

type partInfo struct {
	Path          string `yaml:"path"`
	Kind          string `yaml:"kind"`
	Relationships int    `yaml:"relationships"`
}

type relInfo struct {
	Source string `yaml:"source"`
	ID     string `yaml:"id"`
	Type   string `yaml:"type"`
	Target string `yaml:"target"`
}

// NewInspectCommand creates the inspect subcommand.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <input.docx>",
		Short: "List the parts, relationships, styles and numbering of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logger.New(v.GetBool("debug"))
			defer func() {
				_ = log.Sync()
			}()

			word, warnings, err := docxhtml.Open(args[0]).WithLogger(log).Document()
			if err != nil {
				return err
			}
			r := buildReport(word, warnings)

			switch format := v.GetString("format"); format {
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), r)
			case "table", "":
				writeTables(cmd.OutOrStdout(), r)
				return nil
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().String("format", "table", "output format: table or yaml")
	return cmd
}

func buildReport(word *docx.Word, warnings []docxhtml.Warning) report {
	var r report

	parts := append([]*docx.Part(nil), word.Parts...)
	sort.Slice(parts, func(i, j int) bool { return parts[i].Path < parts[j].Path })
	for _, p := range parts {
		r.Parts = append(r.Parts, partInfo{Path: p.Path, Kind: p.Kind.String(), Relationships: len(p.Rels)})
		for _, rel := range p.Rels {
			r.Relationships = append(r.Relationships, relInfo{
				Source: p.Path,
				ID:     rel.ID,
				Type:   shortRelType(rel.Type),
				Target: rel.Target,
			})
		}
	}

	r.Styles = len(word.Styles.Styles())
	r.NumberingLevels = len(word.Numbering.Levels())
	if word.DocumentPart != nil {
		body := word.DocumentPart.Body
		splitter := layout.NewSectionSplitter(layout.DefaultSplitterConfig(), word.Styles)
		r.Sections = len(splitter.Split(body.Tree.Copy(), body.Root))
	}
	for _, w := range warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

// shortRelType drops the namespace of a relationship type.
func shortRelType(typ string) string {
	for i := len(typ) - 1; i >= 0; i-- {
		if typ[i] == '/' {
			return typ[i+1:]
		}
	}
	return typ
}

func writeYAML(w io.Writer, r report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func writeTables(w io.Writer, r report) {
	parts := table.NewWriter()
	parts.SetOutputMirror(w)
	parts.SetTitle("Parts")
	parts.AppendHeader(table.Row{"Path", "Kind", "Relationships"})
	for _, p := range r.Parts {
		parts.AppendRow(table.Row{p.Path, p.Kind, p.Relationships})
	}
	parts.SetStyle(table.StyleLight)
	parts.Render()

	rels := table.NewWriter()
	rels.SetOutputMirror(w)
	rels.SetTitle("Relationships")
	rels.AppendHeader(table.Row{"Source", "ID", "Type", "Target"})
	for _, rel := range r.Relationships {
		rels.AppendRow(table.Row{rel.Source, rel.ID, rel.Type, rel.Target})
	}
	rels.SetStyle(table.StyleLight)
	rels.Render()

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.AppendRow(table.Row{"Styles", r.Styles})
	summary.AppendRow(table.Row{"Numbering levels", r.NumberingLevels})
	summary.AppendRow(table.Row{"Sections", r.Sections})
	summary.AppendRow(table.Row{"Warnings", len(r.Warnings)})
	summary.SetStyle(table.StyleLight)
	summary.Render()

	for _, warning := range r.Warnings {
		fmt.Fprintln(w, "warning:", warning)
	}
}
