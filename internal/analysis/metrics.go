package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"
)

// Sample is one pointer row with its derived kinematics. Velocity and
// acceleration are zero for the first sample(s) where no difference exists
// yet, mirroring how downstream statistics treat leading rows.
type Sample struct {
	TimeDelta float64 `json:"time_delta_sec"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`

	VelocityX float64 `json:"velocity_x"`
	VelocityY float64 `json:"velocity_y"`
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"` // degrees, 0 = right

	AccelerationX   float64 `json:"acceleration_x"`
	AccelerationY   float64 `json:"acceleration_y"`
	AccelerationMag float64 `json:"acceleration_magnitude"`

	SegmentDistance    float64 `json:"segment_distance"`
	CumulativeDistance float64 `json:"cumulative_distance"`
}

// PointerMetrics derives per-sample velocity, acceleration, and distance
// from the session's pointer rows.
func PointerMetrics(s *SessionData) []Sample {
	rows := s.PointerRows()
	if len(rows) == 0 {
		return nil
	}

	samples := make([]Sample, len(rows))
	cumulative := 0.0
	for i, r := range rows {
		smp := Sample{TimeDelta: r.TimeDelta, X: r.Pos.X, Y: r.Pos.Y}
		if i > 0 {
			prev := samples[i-1]
			dt := smp.TimeDelta - prev.TimeDelta
			dx := smp.X - prev.X
			dy := smp.Y - prev.Y

			if dt > 0 {
				smp.VelocityX = dx / dt
				smp.VelocityY = dy / dt
			}
			smp.Speed = math.Hypot(smp.VelocityX, smp.VelocityY)
			smp.Direction = math.Atan2(smp.VelocityY, smp.VelocityX) * 180 / math.Pi

			if dt > 0 {
				smp.AccelerationX = (smp.VelocityX - prev.VelocityX) / dt
				smp.AccelerationY = (smp.VelocityY - prev.VelocityY) / dt
			}
			smp.AccelerationMag = math.Hypot(smp.AccelerationX, smp.AccelerationY)

			smp.SegmentDistance = math.Hypot(dx, dy)
			cumulative += smp.SegmentDistance
		}
		smp.CumulativeDistance = cumulative
		samples[i] = smp
	}
	return samples
}

// Statistics is the per-session summary persisted as JSON and indexed for
// cross-session comparison.
type Statistics struct {
	SessionID   string    `json:"session_id"`
	StartTime   time.Time `json:"start_time"`
	TotalEvents int       `json:"total_events"`
	DurationSec float64   `json:"duration_sec"`

	XMin  float64 `json:"x_min"`
	XMax  float64 `json:"x_max"`
	YMin  float64 `json:"y_min"`
	YMax  float64 `json:"y_max"`
	XMean float64 `json:"x_mean"`
	YMean float64 `json:"y_mean"`

	MeanSpeed   float64 `json:"mean_speed"`
	MaxSpeed    float64 `json:"max_speed"`
	MedianSpeed float64 `json:"median_speed"`

	MeanAcceleration float64 `json:"mean_acceleration"`
	MaxAcceleration  float64 `json:"max_acceleration"`

	TotalDistance float64 `json:"total_distance"`
}

// ComputeStatistics summarizes a session's pointer kinematics.
func ComputeStatistics(s *SessionData, samples []Sample) Statistics {
	stats := Statistics{
		SessionID:   s.ID,
		StartTime:   s.Start,
		TotalEvents: len(s.Rows),
		DurationSec: s.Duration(),
	}
	if len(samples) == 0 {
		return stats
	}

	stats.XMin, stats.XMax = samples[0].X, samples[0].X
	stats.YMin, stats.YMax = samples[0].Y, samples[0].Y

	speeds := make([]float64, 0, len(samples))
	var sumX, sumY, sumSpeed, sumAccel, maxSpeed, maxAccel float64
	for _, smp := range samples {
		sumX += smp.X
		sumY += smp.Y
		stats.XMin = math.Min(stats.XMin, smp.X)
		stats.XMax = math.Max(stats.XMax, smp.X)
		stats.YMin = math.Min(stats.YMin, smp.Y)
		stats.YMax = math.Max(stats.YMax, smp.Y)

		speeds = append(speeds, smp.Speed)
		sumSpeed += smp.Speed
		maxSpeed = math.Max(maxSpeed, smp.Speed)
		sumAccel += smp.AccelerationMag
		maxAccel = math.Max(maxAccel, smp.AccelerationMag)
	}

	n := float64(len(samples))
	stats.XMean = sumX / n
	stats.YMean = sumY / n
	stats.MeanSpeed = sumSpeed / n
	stats.MaxSpeed = maxSpeed
	stats.MedianSpeed = median(speeds)
	stats.MeanAcceleration = sumAccel / n
	stats.MaxAcceleration = maxAccel
	stats.TotalDistance = samples[len(samples)-1].CumulativeDistance
	return stats
}

// Bin is one window of time-binned statistics.
type Bin struct {
	Start     float64 // seconds from session start
	Count     int
	MeanSpeed float64
	MaxSpeed  float64
	MeanAccel float64
}

// TimeBinned groups samples into fixed windows of binSize seconds.
func TimeBinned(samples []Sample, binSize float64) []Bin {
	if len(samples) == 0 || binSize <= 0 {
		return nil
	}
	maxT := samples[len(samples)-1].TimeDelta
	nBins := int(maxT/binSize) + 1
	bins := make([]Bin, nBins)
	for i := range bins {
		bins[i].Start = float64(i) * binSize
	}
	for _, smp := range samples {
		i := int(smp.TimeDelta / binSize)
		if i >= nBins {
			i = nBins - 1
		}
		b := &bins[i]
		b.Count++
		b.MeanSpeed += smp.Speed
		b.MeanAccel += smp.AccelerationMag
		b.MaxSpeed = math.Max(b.MaxSpeed, smp.Speed)
	}
	for i := range bins {
		if bins[i].Count > 0 {
			bins[i].MeanSpeed /= float64(bins[i].Count)
			bins[i].MeanAccel /= float64(bins[i].Count)
		}
	}
	return bins
}

// WriteMetricsCSV writes the derived samples as a CSV for external tools.
func WriteMetricsCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	header := []string{
		"time_delta_sec", "x", "y",
		"velocity_x", "velocity_y", "speed", "direction",
		"acceleration_x", "acceleration_y", "acceleration_magnitude",
		"segment_distance", "cumulative_distance",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			f(s.TimeDelta), f(s.X), f(s.Y),
			f(s.VelocityX), f(s.VelocityY), f(s.Speed), f(s.Direction),
			f(s.AccelerationX), f(s.AccelerationY), f(s.AccelerationMag),
			f(s.SegmentDistance), f(s.CumulativeDistance),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one comparison row per session.
func WriteSummaryCSV(w io.Writer, all []Statistics) error {
	cw := csv.NewWriter(w)
	header := []string{
		"session_id", "start_time", "total_events", "duration_sec",
		"mean_speed", "max_speed", "median_speed",
		"mean_acceleration", "max_acceleration", "total_distance",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range all {
		row := []string{
			s.SessionID, s.StartTime.Format(time.RFC3339),
			strconv.Itoa(s.TotalEvents), f(s.DurationSec),
			f(s.MeanSpeed), f(s.MaxSpeed), f(s.MedianSpeed),
			f(s.MeanAcceleration), f(s.MaxAcceleration), f(s.TotalDistance),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StatsFilename returns the conventional stats JSON filename for a session.
func StatsFilename(sessionID string) string {
	return fmt.Sprintf("%s_stats.json", sessionID)
}

// MetricsFilename returns the conventional metrics CSV filename for a session.
func MetricsFilename(sessionID string) string {
	return fmt.Sprintf("%s_metrics.csv", sessionID)
}
