package pointcloud

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func testConfig() Config {
	cfg := DefaultConfig
	cfg.Size = 128
	cfg.Radius = 3.0
	cfg.Seed = 1
	return cfg
}

func TestConfigValidate(t *testing.T) {
	test.Error(t, DefaultConfig.Validate())

	var tts = []struct {
		name string
		cfg  func(*Config)
	}{
		{"size zero", func(cfg *Config) { cfg.Size = 0 }},
		{"size too large", func(cfg *Config) { cfg.Size = MaxSize + 1 }},
		{"radius zero", func(cfg *Config) { cfg.Radius = 0.0 }},
		{"radius NaN", func(cfg *Config) { cfg.Radius = math.NaN() }},
		{"radius Inf", func(cfg *Config) { cfg.Radius = math.Inf(1) }},
		{"tries zero", func(cfg *Config) { cfg.MaxTries = 0 }},
		{"step negative", func(cfg *Config) { cfg.Step = -1.0 }},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			tt.cfg(&cfg)
			test.That(t, errors.Is(cfg.Validate(), ErrUsage))
		})
	}
}

func TestProcess(t *testing.T) {
	cfg := testConfig()
	pc, err := Process(squareSVG(0, 0, 100), cfg)
	test.Error(t, err)
	test.That(t, 0 < pc.Len())
	test.That(t, pc.Len() < pc.Raw)

	for _, p := range pc.Points {
		test.That(t, pc.Mask.Inside(p.X, p.Y), p, "outside the mask")
	}

	// samples fill the square evenly
	area := float64(pc.Mask.Opaque())
	lower := area / (math.Pi * cfg.Radius * cfg.Radius)
	n := float64(pc.Len())
	test.That(t, lower < n && n < 4.0*lower, n, "points for area", area)

	coords := pc.Coords()
	test.T(t, len(coords), 3*pc.Len())
	sumX, sumY := 0.0, 0.0
	for i := 0; i < len(coords); i += 3 {
		x, y, z := coords[i], coords[i+1], coords[i+2]
		test.That(t, -1.0 <= x && x <= 1.0 && -1.0 <= y && y <= 1.0, x, y, "out of range")
		test.T(t, z, 0.0)
		sumX += x
		sumY += y
	}
	test.That(t, math.Abs(sumX/float64(pc.Len())) < 0.05, "not centered")
	test.That(t, math.Abs(sumY/float64(pc.Len())) < 0.05, "not centered")
}

func TestProcessCenteredSquare(t *testing.T) {
	cfg := DefaultConfig
	cfg.Seed = 3
	pc, err := Process(squareSVG(-50, -50, 100), cfg)
	test.Error(t, err)
	test.T(t, pc.Mask.Size(), 512)

	area := float64(pc.Mask.Opaque())
	test.That(t, 9900.0 <= area && area <= 10400.0, "opaque pixels", area)
	test.That(t, pc.Mask.Inside(256.0, 256.0))
	test.That(t, !pc.Mask.Inside(200.0, 256.0))

	lower := area / (math.Pi * cfg.Radius * cfg.Radius)
	n := float64(pc.Len())
	test.That(t, lower < n && n < 4.0*lower, n, "points for area", area)

	coords := pc.Coords()
	test.T(t, len(coords)%3, 0)
	for i := 0; i < len(coords); i += 3 {
		// the square spans [-50,50) pixels around the center of a 512 raster
		test.That(t, math.Abs(coords[i]) <= 51.0/256.0 && math.Abs(coords[i+1]) <= 51.0/256.0, coords[i], coords[i+1])
	}
}

func TestProcessSeed(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 7
	a, err := Process(squareSVG(0, 0, 50), cfg)
	test.Error(t, err)
	b, err := Process(squareSVG(0, 0, 50), cfg)
	test.Error(t, err)
	test.T(t, a.Coords(), b.Coords())
}

func TestProcessCurved(t *testing.T) {
	svg := []byte(`<svg><path d="M10 50a40 40 0 1 1 80 0a40 40 0 1 1 -80 0zM30 50a20 20 0 1 0 40 0a20 20 0 1 0 -40 0z"/></svg>`)
	pc, err := Process(svg, testConfig())
	test.Error(t, err)
	test.That(t, 0 < pc.Len())

	half := float64(pc.Mask.Size()) / 2.0
	for _, p := range pc.Points {
		r := p.Sub(Point{half, half}).Length()
		test.That(t, 18.5 < r && r < 41.5, p, "outside the ring, at radius", r)
	}
}

func TestProcessZeroArea(t *testing.T) {
	var tts = []string{
		`<svg><path d="M0 0L100 100"/></svg>`,
		`<svg><path d="M5 5z"/></svg>`,
		`<svg><path d="M0 0L10 0L20 0z"/></svg>`,
	}
	for _, tt := range tts {
		t.Run(tt, func(t *testing.T) {
			pc, err := Process([]byte(tt), testConfig())
			test.Error(t, err)
			test.T(t, pc.Len(), 0)

			buf := &bytes.Buffer{}
			test.Error(t, WriteJSON(buf, pc.Coords()))
			test.String(t, buf.String(), "[]")
		})
	}
}

func TestProcessErrors(t *testing.T) {
	_, err := Process([]byte(`<svg></svg>`), testConfig())
	test.That(t, errors.Is(err, ErrParse), err)

	_, err = Process([]byte(`<svg><path d="M0 0X"/></svg>`), testConfig())
	test.That(t, errors.Is(err, ErrParse), err)

	cfg := testConfig()
	cfg.Radius = -1.0
	_, err = Process(squareSVG(0, 0, 100), cfg)
	test.That(t, errors.Is(err, ErrUsage), err)
}

func TestProcessMultiplePaths(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer SetLogger(nil)

	svg := []byte(`<svg><path d="M0 0h10v10h-10z"/><path d="M0 0h100v100h-100z"/></svg>`)
	pc, err := Process(svg, testConfig())
	test.Error(t, err)
	test.That(t, strings.Contains(buf.String(), "only the first path is used"), buf.String())

	// only the small square is sampled
	n := pc.Mask.Opaque()
	test.That(t, 90 <= n && n <= 130, "opaque pixels", n)
}

func TestPointCloudCoords(t *testing.T) {
	pc := &PointCloud{
		Points: []Point{{64, 64}, {0, 0}, {128, 128}, {96, 32}},
		Mask:   NewMask(image.NewAlpha(image.Rect(0, 0, 128, 128))),
	}
	test.T(t, pc.Coords(), []float64{0, 0, 0, -1, 1, 0, 1, -1, 0, 0.5, 0.5, 0})
}

func TestSample(t *testing.T) {
	img := image.NewAlpha(image.Rect(0, 0, 64, 64))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Pix[y*img.Stride+x] = 255
		}
	}
	pc := Sample(NewMask(img), testConfig(), testConfig().source(0))
	test.That(t, 0 < pc.Len())
	for _, p := range pc.Points {
		test.That(t, p.Y < 32.0, p, "outside the mask")
	}
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestWriteJSON(t *testing.T) {
	var tts = []struct {
		coords []float64
		json   string
	}{
		{nil, "[]"},
		{[]float64{}, "[]"},
		{[]float64{0.5, -1, 0}, "[0.5,-1,0]"},
		{[]float64{0.25, 0.125, 0, -0.0625, 1, 0}, "[0.25,0.125,0,-0.0625,1,0]"},
	}
	for _, tt := range tts {
		t.Run(tt.json, func(t *testing.T) {
			buf := &bytes.Buffer{}
			test.Error(t, WriteJSON(buf, tt.coords))
			test.String(t, buf.String(), tt.json)
		})
	}

	err := WriteJSON(errorWriter{}, []float64{1, 2, 3})
	test.That(t, errors.Is(err, ErrIO), err)
}
