package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "thumbgo",
	Short: "Responsive thumbnail resolution for the AvantStay asset pipeline",
	Long: `thumbgo resolves source image URLs into thumbnail-service request URLs
sized for a rendered box, pixel density and the runtime's image-format
support, and can run the full progressive (low-res then full-res) load
against the live service.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"thumbgo %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[thumbgo] "+format+"\n", args...)
	}
}
