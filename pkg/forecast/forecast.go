// Package forecast produces time-bucketed contact volume curves from a
// baseline and a diurnal shape pattern.
package forecast

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/planwise/staffing-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Point is one forecasted bucket. Timestamps are strictly increasing within
// one forecast.
type Point struct {
	Timestamp       time.Time `json:"timestamp"`
	PredictedVolume float64   `json:"predictedVolume"`
	Confidence      float64   `json:"confidence"`
}

// Sampler supplies variance draws in [-1, 1]. The source is injected so
// forecasts are reproducible under test.
type Sampler interface {
	Sample() float64
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func() float64

func (f SamplerFunc) Sample() float64 { return f() }

// NewSeededSampler returns a uniform sampler over [-1, 1] driven by the
// given seed.
func NewSeededSampler(seed int64) Sampler {
	rng := rand.New(rand.NewSource(seed))
	return SamplerFunc(func() float64 {
		return rng.Float64()*2 - 1
	})
}

// hourShape is the diurnal load multiplier per hour of day: quiet overnight,
// a mid-morning peak, a lunch dip, and a second mid-afternoon peak.
var hourShape = [24]float64{
	0.20, 0.15, 0.12, 0.10, 0.12, 0.20, // 00-05
	0.40, 0.70, 1.10, 1.40, 1.60, 1.50, // 06-11
	1.30, 1.35, 1.55, 1.50, 1.30, 1.10, // 12-17
	0.90, 0.70, 0.55, 0.45, 0.35, 0.25, // 18-23
}

// HourShapeMultiplier returns the diurnal multiplier for an hour of day.
func HourShapeMultiplier(hour int) float64 {
	return hourShape[((hour%24)+24)%24]
}

// Engine generates volume forecasts. Construct with NewEngine.
type Engine struct {
	logger  *zap.Logger
	sampler Sampler
}

// NewEngine builds a forecast engine with the given variance source. A nil
// logger is replaced with a no-op logger; a nil sampler disables variance.
func NewEngine(logger *zap.Logger, sampler Sampler) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sampler == nil {
		sampler = SamplerFunc(func() float64 { return 0 })
	}
	return &Engine{logger: logger, sampler: sampler}
}

// Request describes one forecast horizon.
type Request struct {
	BaseVolume       float64       // expected volume for an average hour
	VarianceFraction float64       // bounded relative variance per bucket, in [0,1]
	Start            time.Time     // first bucket timestamp
	Horizon          time.Duration // total span covered
	BucketSize       time.Duration // width of each bucket, at most one hour
}

// Forecast produces one Point per bucket across the horizon. Volume is the
// baseline scaled by the diurnal curve and a sampled variance; confidence
// decays with forecast distance and never escapes [0,1].
func (e *Engine) Forecast(req Request) ([]Point, error) {
	if req.BucketSize <= 0 {
		return nil, fmt.Errorf("bucket size must be positive, got %s", req.BucketSize)
	}
	if req.Horizon < req.BucketSize {
		return nil, fmt.Errorf("horizon %s shorter than bucket size %s", req.Horizon, req.BucketSize)
	}
	if req.BaseVolume < 0 {
		return nil, fmt.Errorf("base volume %.2f cannot be negative", req.BaseVolume)
	}
	if req.VarianceFraction < 0 || req.VarianceFraction > 1 {
		return nil, fmt.Errorf("variance fraction %.2f must be in [0,1]", req.VarianceFraction)
	}

	buckets := int(req.Horizon / req.BucketSize)
	points := make([]Point, 0, buckets)
	bucketHours := req.BucketSize.Hours()
	for i := 0; i < buckets; i++ {
		ts := req.Start.Add(time.Duration(i) * req.BucketSize)
		shape := HourShapeMultiplier(ts.Hour())
		variance := req.VarianceFraction * e.sampler.Sample()
		volume := req.BaseVolume * bucketHours * shape * (1 + variance)
		if volume < 0 {
			volume = 0
		}

		progress := 0.0
		if buckets > 1 {
			progress = float64(i) / float64(buckets-1)
		}
		confidence := mathutil.Clamp(0.95-0.25*progress-0.5*req.VarianceFraction, 0, 1)

		points = append(points, Point{
			Timestamp:       ts,
			PredictedVolume: volume,
			Confidence:      confidence,
		})
	}

	e.logger.Debug("generated forecast",
		zap.String("op", "forecast.Forecast"),
		zap.Int("buckets", buckets),
		zap.Float64("baseVolume", req.BaseVolume),
	)
	return points, nil
}
