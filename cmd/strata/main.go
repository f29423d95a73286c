// Package main provides the strata command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/strata-ml/strata/camera"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("strata %s\n", version)
			return
		case "project":
			if err := runProject(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "strata project: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("strata - batch-shaped array records for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  project    Project a camera-space point through a camera config")
}

// runProject loads a YAML camera config and prints the pinhole projection of
// a camera-space point plus its round trip back to camera space.
func runProject(args []string) error {
	fs := flag.NewFlagSet("project", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML camera config")
	pointArg := fs.String("point", "0,0,1", "camera-space point as x,y,z")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("missing -config")
	}

	point, err := parsePoint(*pointArg)
	if err != nil {
		return err
	}

	cfg, err := camera.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	cam, err := camera.FromConfig(cfg, nil)
	if err != nil {
		return err
	}

	px, err := cam.CamToPx(point)
	if err != nil {
		return err
	}
	pxVals := cam.Backend().Read(px)

	back, err := cam.PxToCam(px)
	if err != nil {
		return err
	}
	backVals := cam.Backend().Read(back)

	fmt.Printf("camera: resolution (%d, %d), focal %.2f px\n", cam.H(), cam.W(), cfg.FocalPx)
	fmt.Printf("cam %v -> px (%.3f, %.3f)\n", point, pxVals[0], pxVals[1])
	fmt.Printf("px -> cam (%.4f, %.4f, %.4f) at unit depth\n", backVals[0], backVals[1], backVals[2])
	return nil
}

func parsePoint(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("point must be x,y,z, got %q", s)
	}
	point := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point coordinate %q", p)
		}
		point[i] = v
	}
	return point, nil
}
