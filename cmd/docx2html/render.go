package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tsawler/docxhtml"
	"github.com/tsawler/docxhtml/internal/logger"
)

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <input.docx>",
		Short: "Render a document as an HTML page",
		Example: `  docx2html render report.docx -o report.html
  docx2html render report.docx --base64 --no-headers > report.html
  docx2html render report.docx -o out/report.html --extract-media out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logger.New(v.GetBool("debug"))
			defer func() {
				_ = log.Sync()
			}()
			return runRender(cmd, v, log, args[0])
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "output file (default stdout)")
	f.String("extract-media", "", "write images and fonts to this directory and link to them")
	f.String("class-name", "docx", "prefix of the generated CSS classes")
	f.Bool("no-wrapper", false, "do not wrap the sections in a wrapper element")
	f.Bool("ignore-width", false, "leave the page width out of the section style")
	f.Bool("ignore-height", false, "leave the page height out of the section style")
	f.Bool("ignore-fonts", false, "skip embedded fonts")
	f.Bool("no-break-pages", false, "do not split sections at page breaks")
	f.Bool("keep-last-rendered-page-breaks", false, "also split at the page breaks of Word's last layout")
	f.Bool("no-headers", false, "skip page headers")
	f.Bool("no-footers", false, "skip page footers")
	f.Bool("no-footnotes", false, "skip footnotes")
	f.Bool("no-endnotes", false, "skip endnotes")
	f.Bool("render-changes", false, "show tracked insertions and deletions")
	f.Bool("base64", false, "embed images and fonts as data URLs")
	f.Bool("experimental", false, "simulate tab stops")
	return cmd
}

// converterFor configures a converter from the bound flags.
func converterFor(v *viper.Viper, log *zap.Logger, input string) *docxhtml.Converter {
	conv := docxhtml.Open(input).
		WithLogger(log).
		ClassName(v.GetString("class-name")).
		InWrapper(!v.GetBool("no-wrapper")).
		BreakPages(!v.GetBool("no-break-pages")).
		IgnoreLastRenderedPageBreak(!v.GetBool("keep-last-rendered-page-breaks"))

	flags := []struct {
		key   string
		apply func(*docxhtml.Converter) *docxhtml.Converter
	}{
		{"ignore-width", (*docxhtml.Converter).IgnoreWidth},
		{"ignore-height", (*docxhtml.Converter).IgnoreHeight},
		{"ignore-fonts", (*docxhtml.Converter).IgnoreFonts},
		{"no-headers", (*docxhtml.Converter).NoHeaders},
		{"no-footers", (*docxhtml.Converter).NoFooters},
		{"no-footnotes", (*docxhtml.Converter).NoFootnotes},
		{"no-endnotes", (*docxhtml.Converter).NoEndnotes},
		{"render-changes", (*docxhtml.Converter).RenderChanges},
		{"base64", (*docxhtml.Converter).UseBase64URL},
		{"experimental", (*docxhtml.Converter).Experimental},
		{"debug", (*docxhtml.Converter).Debug},
	}
	for _, f := range flags {
		if v.GetBool(f.key) {
			conv = f.apply(conv)
		}
	}

	if dir := v.GetString("extract-media"); dir != "" && !v.GetBool("base64") {
		conv = conv.ResourceURL(mediaWriter(dir, v.GetString("output"), log))
	}
	return conv
}

// mediaWriter returns a resource callback that copies every resource under
// dir and links to it relative to the output file.
func mediaWriter(dir, output string, log *zap.Logger) func(path string, data []byte) string {
	base := "."
	if output != "" {
		base = filepath.Dir(output)
	}
	return func(path string, data []byte) string {
		dest := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			log.Warn("creating media directory", zap.String("path", dest), zap.Error(err))
			return path
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			log.Warn("writing media", zap.String("path", dest), zap.Error(err))
			return path
		}
		rel, err := filepath.Rel(base, dest)
		if err != nil {
			return filepath.ToSlash(dest)
		}
		return filepath.ToSlash(rel)
	}
}

func runRender(cmd *cobra.Command, v *viper.Viper, log *zap.Logger, input string) error {
	page, warnings, err := converterFor(v, log, input).HTML()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn("conversion warning",
			zap.Stringer("kind", w.Kind),
			zap.String("part", w.Part),
			zap.String("message", w.Message))
	}

	output := v.GetString("output")
	if output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), page)
		return err
	}
	if err := os.WriteFile(output, []byte(page), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	log.Info("rendered document", zap.String("input", input), zap.String("output", output))
	return nil
}
