package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pedroaraujo20/thumbgo/internal/config"
	"github.com/pedroaraujo20/thumbgo/internal/device"
	"github.com/pedroaraujo20/thumbgo/internal/loader"
	"github.com/pedroaraujo20/thumbgo/internal/preload"
)

var (
	fetchWidth       int
	fetchHeight      int
	fetchFit         string
	fetchGravity     string
	fetchQuality     int
	fetchSharpen     string
	fetchDensity     float64
	fetchStep        int
	fetchMobile      bool
	fetchUA          string
	fetchLowResWidth int
	fetchLowResQ     int
	fetchSave        string
	fetchTimeout     time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <source_url>",
	Short: "Run a full progressive load against the live service",
	Long: `Resolves the source for the given box, then runs the same two-phase
sequence the runtime component does: with --low-res-width the placeholder
URL commits immediately, and the full-resolution URL commits once its
preload decodes. Each committed URL is printed as it happens, followed
by a report on the final image.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchWidth, "width", 0, "measured box width in CSS px")
	fetchCmd.Flags().IntVar(&fetchHeight, "height", 0, "measured box height in CSS px")
	fetchCmd.Flags().StringVar(&fetchFit, "fit", "", "fit mode passed to the service")
	fetchCmd.Flags().StringVar(&fetchGravity, "gravity", "", "crop gravity passed to the service")
	fetchCmd.Flags().IntVar(&fetchQuality, "quality", 0, "quality 1-100 (0 = service default)")
	fetchCmd.Flags().StringVar(&fetchSharpen, "sharpen", "", "sharpen parameter passed to the service")
	fetchCmd.Flags().Float64Var(&fetchDensity, "density", 0, "pixel density (0 = from config/--mobile)")
	fetchCmd.Flags().IntVar(&fetchStep, "step", 0, "sizing quantization step (0 = from config)")
	fetchCmd.Flags().BoolVar(&fetchMobile, "mobile", false, "use the mobile density default")
	fetchCmd.Flags().StringVar(&fetchUA, "user-agent", "", "classify the device from a user-agent string")
	fetchCmd.Flags().IntVar(&fetchLowResWidth, "low-res-width", 0, "placeholder width (0 = skip placeholder phase)")
	fetchCmd.Flags().IntVar(&fetchLowResQ, "low-res-quality", 0, "placeholder quality (0 = config default)")
	fetchCmd.Flags().StringVar(&fetchSave, "save", "", "write the final decoded image to this path")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Second, "overall fetch timeout")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	src := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if fetchWidth <= 0 || fetchHeight <= 0 {
		return fmt.Errorf("--width and --height are required")
	}

	density := fetchDensity
	if density <= 0 {
		if fetchMobile || device.IsMobile(fetchUA) {
			density = cfg.Defaults.MobileDensity
		} else {
			density = cfg.Defaults.Density
		}
	}
	step := fetchStep
	if step <= 0 {
		step = cfg.Defaults.SizingStep
	}
	lowResQ := fetchLowResQ
	if lowResQ <= 0 {
		lowResQ = cfg.Defaults.LowResQuality
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	p := preload.New(nil)
	l := loader.New(loader.Config{
		Resolver: cfg.Resolver(),
		Fetcher:  p,
		Sink: func(url string) {
			fmt.Printf("  committed: %s\n", url)
		},
		DefaultDensity: density,
		Logf:           logVerbose,
	})
	defer l.Close()

	start := time.Now()
	l.Resolve(ctx, loader.Params{
		Source:        src,
		Box:           loader.Box{Width: float64(fetchWidth), Height: float64(fetchHeight)},
		Fit:           fetchFit,
		Gravity:       fetchGravity,
		Quality:       fetchQuality,
		Sharpen:       fetchSharpen,
		Step:          step,
		LowResWidth:   fetchLowResWidth,
		LowResQuality: lowResQ,
	})
	l.Wait()

	final := l.Displayed()
	if final == "" {
		return fmt.Errorf("no URL committed (preload failed?)")
	}

	// The final commit came through the preloader, so this is a cache hit.
	res, err := p.Fetch(ctx, final)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", final, err)
	}

	fmt.Println()
	fmt.Printf("  Final URL:  %s\n", res.URL)
	fmt.Printf("  Format:     %s\n", res.Format)
	fmt.Printf("  Dimensions: %dx%d\n", res.Width, res.Height)
	fmt.Printf("  Size:       %s\n", humanize.Bytes(uint64(res.Size)))
	fmt.Printf("  Time:       %s\n", time.Since(start).Round(time.Millisecond))

	if fetchSave != "" {
		if err := imaging.Save(res.Image, fetchSave); err != nil {
			return fmt.Errorf("save %s: %w", fetchSave, err)
		}
		fmt.Printf("  Saved:      %s\n", fetchSave)
	}
	return nil
}
