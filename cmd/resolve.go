package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedroaraujo20/thumbgo/internal/capability"
	"github.com/pedroaraujo20/thumbgo/internal/config"
	"github.com/pedroaraujo20/thumbgo/internal/device"
	"github.com/pedroaraujo20/thumbgo/internal/sizing"
	"github.com/pedroaraujo20/thumbgo/internal/thumburl"
)

var (
	resolveWidth   int
	resolveHeight  int
	resolveFit     string
	resolveGravity string
	resolveQuality int
	resolveSharpen string
	resolveDensity float64
	resolveStep    int
	resolveMobile  bool
	resolveUA      string
	resolveWebP    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <source_url>...",
	Short: "Print the thumbnail-service URL for one or more sources",
	Long: `Resolves each source URL the way the runtime component would:
the given box size is density-scaled, quantized to the sizing step,
and serialized with the non-empty options onto the service base.
Passthrough sources (SVG, blob:/data:, dev-mode local paths) are
printed unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().IntVar(&resolveWidth, "width", 0, "measured box width in CSS px")
	resolveCmd.Flags().IntVar(&resolveHeight, "height", 0, "measured box height in CSS px")
	resolveCmd.Flags().StringVar(&resolveFit, "fit", "", "fit mode passed to the service")
	resolveCmd.Flags().StringVar(&resolveGravity, "gravity", "", "crop gravity passed to the service")
	resolveCmd.Flags().IntVar(&resolveQuality, "quality", 0, "quality 1-100 (0 = service default)")
	resolveCmd.Flags().StringVar(&resolveSharpen, "sharpen", "", "sharpen parameter passed to the service")
	resolveCmd.Flags().Float64Var(&resolveDensity, "density", 0, "pixel density (0 = from config/--mobile)")
	resolveCmd.Flags().IntVar(&resolveStep, "step", 0, "sizing quantization step (0 = from config)")
	resolveCmd.Flags().BoolVar(&resolveMobile, "mobile", false, "use the mobile density default")
	resolveCmd.Flags().StringVar(&resolveUA, "user-agent", "", "classify the device from a user-agent string")
	resolveCmd.Flags().StringVar(&resolveWebP, "webp", "auto", "webp negotiation: auto, on, off")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if resolveWidth <= 0 || resolveHeight <= 0 {
		return fmt.Errorf("--width and --height are required")
	}

	density := resolveDensity
	if density <= 0 {
		density = cfg.Defaults.Density
		if resolveMobile || device.IsMobile(resolveUA) {
			density = cfg.Defaults.MobileDensity
		}
	}
	step := resolveStep
	if step <= 0 {
		step = cfg.Defaults.SizingStep
	}

	webp, err := negotiateWebP(resolveWebP)
	if err != nil {
		return err
	}

	targetW := sizing.Target(float64(resolveWidth), density, step)
	targetH := sizing.Target(float64(resolveHeight), density, step)
	logVerbose("box %dx%d at density %.2g, step %d -> target %dx%d",
		resolveWidth, resolveHeight, density, step, targetW, targetH)
	logVerbose("webp: %v", webp)

	r := cfg.Resolver()
	for _, src := range args {
		fmt.Println(r.Resolve(src, thumburl.Options{
			Fit:     resolveFit,
			Gravity: resolveGravity,
			Width:   targetW,
			Height:  targetH,
			Quality: resolveQuality,
			Sharpen: resolveSharpen,
			WebP:    webp,
		}))
	}
	return nil
}

// negotiateWebP maps the --webp flag onto the capability probe.
func negotiateWebP(mode string) (bool, error) {
	switch mode {
	case "auto":
		return capability.WebPSupported(), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --webp value %q (auto, on, off)", mode)
	}
}
