package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".docx2html"
	envPrefix  = "DOCX2HTML"
)

// NewRootCommand creates the docx2html command with its subcommands.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docx2html",
		Short: "Convert Word documents to HTML",
		Long: `docx2html renders .docx documents as HTML pages with their styles,
numbering, headers, footers, notes and images.

Every flag can also be set in a .docx2html.yaml file in the current or home
directory, or through a DOCX2HTML_<FLAG> environment variable, for example
DOCX2HTML_CLASS_NAME=doc.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default .docx2html.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log unrecognised markup and broken references")

	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewInspectCommand())
	return rootCmd
}

// loadConfig binds the flags of cmd to a fresh viper instance backed by the
// config file and the environment. Flags set on the command line win over
// the environment, which wins over the config file.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}
