// Copyright 2026 Strata ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package camera provides the public pinhole camera API.
//
// PinholeCamera is a record subtype: its (3, 3) intrinsics matrix is a
// regular record field, while the sensor resolution is plain metadata
// excluded from batch-shape inference.
//
// Example:
//
//	cam, err := camera.FromFocal([2]int{640, 480}, 35.0, nil)
//	px, err := cam.CamToPx([]float64{0, 0, 1}) // image center (320, 240)
package camera

import (
	internalcamera "github.com/strata-ml/strata/internal/camera"
	// Importing the public record package also registers the CPU backend
	// as the construction default.
	"github.com/strata-ml/strata/record"
)

// PinholeCamera projects points between camera space and pixel space.
type PinholeCamera = internalcamera.PinholeCamera

// Config describes a pinhole camera in YAML form.
type Config = internalcamera.Config

// FromFocal builds a camera with a single focal length in pixels and the
// principal point at the image center. A nil backend selects the default.
func FromFocal(resolution [2]int, focalPx float64, xnp record.Backend) (*PinholeCamera, error) {
	return internalcamera.FromFocal(resolution, focalPx, xnp)
}

// FromConfig builds a camera from a parsed config.
func FromConfig(cfg Config, xnp record.Backend) (*PinholeCamera, error) {
	return internalcamera.FromConfig(cfg, xnp)
}

// ParseConfig decodes a YAML camera config.
func ParseConfig(data []byte) (Config, error) {
	return internalcamera.ParseConfig(data)
}

// LoadConfig reads and decodes a YAML camera config file.
func LoadConfig(path string) (Config, error) {
	return internalcamera.LoadConfig(path)
}
