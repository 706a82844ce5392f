package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"mprgeom/pkg/config"
	"mprgeom/pkg/geometry"
	"mprgeom/pkg/loader"
	"mprgeom/pkg/localizer"
)

func main() {
	// Parse command line arguments
	manifestPath := flag.String("manifest", "", "YAML series manifest with per-frame geometry")
	configPath := flag.String("config", "mprgeom.yaml", "Configuration file")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (default: from config)")
	target := flag.Int("target", -1, "Index of the localizer frame for a reference line")
	source := flag.Int("source", -1, "Index of the frame drawn on the localizer")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *manifestPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *numCores > 0 {
		cfg.Processing.NumCores = *numCores
	}

	logger := log.New(os.Stderr, "mprgeom: ", log.LstdFlags)
	if !cfg.Output.Verbose {
		logger.SetOutput(io.Discard)
	}

	manifest, err := loader.LoadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}

	l := loader.NewLoader(&loader.Params{
		NumCores:   cfg.Processing.NumCores,
		Comparator: cfg.Comparator(),
		Logger:     logger,
	})
	res, err := l.Load(manifest.Frames)
	if err != nil {
		log.Fatalf("Geometry resolution failed: %v", err)
	}

	fmt.Println("================================")
	fmt.Printf("Series: %s (%d frames, %s)\n", manifest.Series, res.Frames, res.Orientation)
	fmt.Println("================================")
	fmt.Printf("Pixel size:          %s (%s)\n", res.PixelSize, res.PixelSpacingState)
	fmt.Printf("Slice spacing:       %.3f mm (regular: %v, negative: %v)\n",
		res.MostCommonSpacing, res.RegularSliceSpacing, res.NegativeSliceSpacing)
	fmt.Printf("Dimension multiplier: %.4f %.4f %.4f\n",
		res.Multiplier.X(), res.Multiplier.Y(), res.Multiplier.Z())
	fmt.Printf("Geometry status:     %s\n", res.Status)
	if res.MixedOrientation > 0 {
		fmt.Printf("Warning: %d frame(s) are not in the series plane\n", res.MixedOrientation)
	}

	if *target < 0 || *source < 0 {
		return
	}

	// Reference line of the source frame on the target frame
	targetFrame, ok := manifest.Frame(*target)
	if !ok {
		log.Fatalf("Frame %d not found in manifest", *target)
	}
	sourceFrame, ok := manifest.Frame(*source)
	if !ok {
		log.Fatalf("Frame %d not found in manifest", *source)
	}
	targetPlane, okT := targetFrame.Plane()
	sourcePlane, okS := sourceFrame.Plane()
	if !okT || !okS {
		log.Fatalf("Frames %d and %d need position, orientation and pixel spacing", *target, *source)
	}

	fmt.Printf("\nSame orientation: %v\n",
		cfg.Comparator().SameOrientation(targetFrame.Orientation, sourceFrame.Orientation))

	outline, ok := localizer.NewIntersectSlice(targetPlane).Outline(sourcePlane, sourceFrame.Thickness)
	if !ok {
		fmt.Printf("Frame %d does not intersect frame %d\n", *source, *target)
		return
	}
	kind := "segment"
	if outline.Closed {
		kind = "outline"
	}
	fmt.Printf("Frame %d on %s frame %d (%s, pixel coordinates):\n",
		*source, geometry.LabelOf(targetFrame.Orientation), *target, kind)
	for _, p := range outline.Points {
		fmt.Printf("  (%.2f, %.2f)\n", p.X, p.Y)
	}
}
