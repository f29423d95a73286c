// Package camera implements a pinhole camera model on top of the record
// layer. The camera is a record subtype: its intrinsics matrix is a regular
// (3, 3) float field validated by the record machinery, while the sensor
// resolution is plain metadata excluded from batch-shape inference.
package camera

import (
	"fmt"

	"github.com/strata-ml/strata/internal/record"
)

// intrinsics field: the 3x3 pinhole matrix [[f,0,cx],[0,f,cy],[0,0,1]].
var schema = record.MustSchema(record.FloatField("K", 3, 3))

// PinholeCamera projects points between camera space and pixel space.
//
// Pixel coordinates follow the (row, column) convention: the first pixel
// coordinate runs over the H axis of the resolution, the second over W. The
// camera-space point (0, 0, 1) projects to the image center (H/2, W/2).
type PinholeCamera struct {
	rec        *record.Record
	resolution [2]int
}

// FromFocal builds a camera with a single focal length in pixels and the
// principal point at the image center. The intrinsics have batch shape ().
func FromFocal(resolution [2]int, focalPx float64, xnp record.Backend) (*PinholeCamera, error) {
	if resolution[0] <= 0 || resolution[1] <= 0 {
		return nil, fmt.Errorf("camera: invalid resolution %v", resolution)
	}
	if focalPx <= 0 {
		return nil, fmt.Errorf("camera: invalid focal length %v px", focalPx)
	}

	f := focalPx
	cx := float64(resolution[0]) / 2
	cy := float64(resolution[1]) / 2
	k := [][]float64{
		{f, 0, cx},
		{0, f, cy},
		{0, 0, 1},
	}

	opts := []record.Option{}
	if xnp != nil {
		opts = append(opts, record.WithBackend(xnp))
	}
	rec, err := record.New(schema, record.Values{"K": k}, opts...)
	if err != nil {
		return nil, err
	}
	return &PinholeCamera{rec: rec, resolution: resolution}, nil
}

// Record returns the underlying intrinsics record.
func (c *PinholeCamera) Record() *record.Record {
	return c.rec
}

// Resolution returns the sensor resolution (H, W).
func (c *PinholeCamera) Resolution() [2]int {
	return c.resolution
}

// H returns the first resolution dimension.
func (c *PinholeCamera) H() int {
	return c.resolution[0]
}

// W returns the second resolution dimension.
func (c *PinholeCamera) W() int {
	return c.resolution[1]
}

// Backend returns the backend owning the intrinsics.
func (c *PinholeCamera) Backend() record.Backend {
	return c.rec.Backend()
}

// BatchShape returns the intrinsics batch shape.
func (c *PinholeCamera) BatchShape() record.Shape {
	return c.rec.BatchShape()
}

// intrinsics reads f, cx, cy from the (non-batched) K field.
func (c *PinholeCamera) intrinsics() (f, cx, cy float64, err error) {
	if len(c.rec.BatchShape()) != 0 {
		return 0, 0, 0, fmt.Errorf("camera: projection requires a non-batched camera, got batch shape %v",
			c.rec.BatchShape())
	}
	arr, err := c.rec.Field("K")
	if err != nil {
		return 0, 0, 0, err
	}
	vals := c.rec.Backend().Read(arr)
	return vals[0], vals[2], vals[5], nil
}

// CamToPx projects camera-space points (..., 3) to pixel coordinates
// (..., 2) by pinhole projection: px = f * (x, y) / z + (cx, cy).
// The projection is invariant to uniform positive scaling of the input.
// Raw Go inputs are coerced onto the camera's backend; the result is owned
// by that backend and broadcasts over the point's leading dimensions.
func (c *PinholeCamera) CamToPx(point any) (record.Array, error) {
	f, cx, cy, err := c.intrinsics()
	if err != nil {
		return nil, err
	}

	b := c.rec.Backend()
	p, err := record.ToArray(b, record.Float32, point)
	if err != nil {
		return nil, err
	}
	if !p.Shape().HasSuffix(record.Shape{3}) {
		return nil, &record.InvalidInnerShapeError{Field: "point", Inner: record.Shape{3}, Got: p.Shape()}
	}

	xy := b.Narrow(p, -1, 0, 2)
	z := b.Narrow(p, -1, 2, 1)
	center := b.FromFloat32([]float32{float32(cx), float32(cy)}, record.Shape{2})
	return b.Add(b.MulScalar(b.Div(xy, z), f), center), nil
}

// PxToCam lifts pixel coordinates (..., 2) to camera-space points (..., 3)
// at unit depth: cam = ((px - (cx, cy)) / f, 1). A nil point defaults to the
// full pixel-center grid, so PxToCam(nil) returns the camera ray directions
// for every pixel.
func (c *PinholeCamera) PxToCam(point any) (record.Array, error) {
	f, cx, cy, err := c.intrinsics()
	if err != nil {
		return nil, err
	}

	b := c.rec.Backend()
	var p record.Array
	if point == nil {
		p = c.PxCenters()
	} else {
		p, err = record.ToArray(b, record.Float32, point)
		if err != nil {
			return nil, err
		}
	}
	if !p.Shape().HasSuffix(record.Shape{2}) {
		return nil, &record.InvalidInnerShapeError{Field: "point", Inner: record.Shape{2}, Got: p.Shape()}
	}

	center := b.FromFloat32([]float32{float32(cx), float32(cy)}, record.Shape{2})
	xy := b.MulScalar(b.Sub(p, center), 1/f)

	onesShape := p.Shape().Clone()
	onesShape[len(onesShape)-1] = 1
	ones := make([]float32, onesShape.NumElements())
	for i := range ones {
		ones[i] = 1
	}
	depth := b.FromFloat32(ones, onesShape)

	return b.Concat([]record.Array{xy, depth}, -1), nil
}

// PxCenters returns the pixel-center coordinate grid of shape (H, W, 2):
// entry (i, j) is (i + 0.5, j + 0.5).
func (c *PinholeCamera) PxCenters() record.Array {
	h, w := c.resolution[0], c.resolution[1]
	data := make([]float32, h*w*2)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			base := (i*w + j) * 2
			data[base] = float32(i) + 0.5
			data[base+1] = float32(j) + 0.5
		}
	}
	return c.rec.Backend().FromFloat32(data, record.Shape{h, w, 2})
}
