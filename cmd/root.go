package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "exthunt",
	Short: "Hunt for compromised Chromium browser extensions",
	Long: `exthunt scans the local machine for Chromium-family browser extensions
(Chrome, Brave, Edge, Chromium) and searches their unpacked code and local
storage for a fixed set of indicator strings associated with known extension
compromises.

Matching extensions are summarized in a structured report and collected,
together with their code, local storage, and preferences fragment, into a
single results archive for offline analysis.`,
	SilenceUsage: true,
}

// RootCmd returns the top-level exthunt command.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Optional .env next to the working directory; used for overrides like
	// EXTHUNT_USERS_DIR during testing.
	cobra.OnInitialize(func() {
		_ = godotenv.Load()
	})
}
