package main

import (
	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mentorai",
	Short: "Career document OCR and study curriculum generation",
	Long: `MentorAI turns Korean career documents (insurance records, employment
certificates, qualification certificates) into structured career facts and
LLM-generated study curricula.

The pipeline includes:
  - Multi-variant Tesseract OCR with script-aware result selection
  - Resident registration number masking
  - Certificate name resolution against the national qualification taxonomy
  - Employer candidate extraction from insurance enrollment tables
  - Curriculum generation via Anthropic or a local LM Studio server`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.mentorai/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "text", "output format: text, yaml, or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
