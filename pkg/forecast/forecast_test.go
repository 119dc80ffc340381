package forecast

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

var testStart = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func TestForecastBucketCountAndOrdering(t *testing.T) {
	engine := NewEngine(zap.NewNop(), nil)
	points, err := engine.Forecast(Request{
		BaseVolume: 200,
		Start:      testStart,
		Horizon:    24 * time.Hour,
		BucketSize: 30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 48 {
		t.Fatalf("expected 48 buckets, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Timestamp.After(points[i-1].Timestamp) {
			t.Fatalf("timestamps must be strictly increasing at index %d", i)
		}
	}
}

func TestForecastReproducibleWithSeed(t *testing.T) {
	req := Request{
		BaseVolume:       250,
		VarianceFraction: 0.2,
		Start:            testStart,
		Horizon:          24 * time.Hour,
		BucketSize:       time.Hour,
	}
	first, err := NewEngine(zap.NewNop(), NewSeededSampler(42)).Forecast(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewEngine(zap.NewNop(), NewSeededSampler(42)).Forecast(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed must reproduce the forecast; diverged at bucket %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestForecastDiurnalShape(t *testing.T) {
	engine := NewEngine(zap.NewNop(), nil)
	points, err := engine.Forecast(Request{
		BaseVolume: 100,
		Start:      testStart,
		Horizon:    24 * time.Hour,
		BucketSize: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Overnight buckets carry far less volume than the mid-morning peak.
	if points[3].PredictedVolume >= points[10].PredictedVolume {
		t.Errorf("03:00 volume %.1f should be below 10:00 volume %.1f",
			points[3].PredictedVolume, points[10].PredictedVolume)
	}
	for _, p := range points {
		if p.PredictedVolume < 0 {
			t.Errorf("volume must never be negative, got %.2f at %s", p.PredictedVolume, p.Timestamp)
		}
	}
}

func TestConfidenceBounded(t *testing.T) {
	for _, variance := range []float64{0, 0.25, 0.5, 1} {
		engine := NewEngine(zap.NewNop(), NewSeededSampler(7))
		points, err := engine.Forecast(Request{
			BaseVolume:       100,
			VarianceFraction: variance,
			Start:            testStart,
			Horizon:          72 * time.Hour,
			BucketSize:       time.Hour,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range points {
			if p.Confidence < 0 || p.Confidence > 1 {
				t.Fatalf("confidence %v escaped [0,1] at variance %v", p.Confidence, variance)
			}
		}
	}
}

func TestForecastRequestValidation(t *testing.T) {
	engine := NewEngine(zap.NewNop(), nil)
	tests := []struct {
		name string
		req  Request
	}{
		{"zero bucket", Request{BaseVolume: 100, Start: testStart, Horizon: time.Hour}},
		{"horizon below bucket", Request{BaseVolume: 100, Start: testStart, Horizon: time.Minute, BucketSize: time.Hour}},
		{"negative volume", Request{BaseVolume: -5, Start: testStart, Horizon: time.Hour, BucketSize: time.Hour}},
		{"variance above 1", Request{BaseVolume: 100, VarianceFraction: 1.5, Start: testStart, Horizon: time.Hour, BucketSize: time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.Forecast(tt.req); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestHourShapeMultiplierWraps(t *testing.T) {
	if HourShapeMultiplier(25) != HourShapeMultiplier(1) {
		t.Error("hour multiplier must cycle every 24 hours")
	}
	if HourShapeMultiplier(-1) != HourShapeMultiplier(23) {
		t.Error("hour multiplier must handle negative hours")
	}
}
