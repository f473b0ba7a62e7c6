package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedroaraujo20/thumbgo/internal/capability"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report whether this process can decode WebP",
	Long: `Runs the one-shot WebP capability probe (decoding a tiny embedded
sample) and reports the result. The same memoized answer drives webp
negotiation in resolve and fetch.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	logVerbose("probe sample: %d bytes", len(capability.Sample()))
	if capability.WebPSupported() {
		fmt.Println("webp: supported")
	} else {
		fmt.Println("webp: unsupported")
	}
	return nil
}
