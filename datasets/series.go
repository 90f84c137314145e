package datasets

import (
	"fmt"
	"math"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Series holds a raw or normalized sensor tensor in time-major layout:
// T time steps by N nodes by F feature channels, stored as one flat float32
// buffer. Channel 0 is the traffic measurement the downstream model
// predicts.
type Series struct {
	Data    []float32
	T, N, F int
}

// NewSeries allocates a zero series of the given shape.
func NewSeries(t, n, f int) (*Series, error) {
	if t <= 0 || n <= 0 || f <= 0 {
		return nil, fmt.Errorf("datasets: invalid series shape (%d,%d,%d)", t, n, f)
	}
	return &Series{Data: make([]float32, t*n*f), T: t, N: n, F: f}, nil
}

// At returns the value at (time step, node, feature).
func (s *Series) At(t, n, f int) float32 {
	return s.Data[(t*s.N+n)*s.F+f]
}

// Set stores a value at (time step, node, feature).
func (s *Series) Set(t, n, f int, v float32) {
	s.Data[(t*s.N+n)*s.F+f] = v
}

// Normalize z-scores every feature channel in place using its global mean
// and population standard deviation over all time steps and nodes, and
// returns the channel-0 mean and standard deviation so predictions can be
// de-normalized later. It must be called once, on the full raw tensor,
// before any windowing.
func (s *Series) Normalize() (mean, std float64) {
	count := float64(s.T * s.N)
	means := make([]float64, s.F)
	stds := make([]float64, s.F)

	for f := 0; f < s.F; f++ {
		sum := 0.0
		for t := 0; t < s.T; t++ {
			for n := 0; n < s.N; n++ {
				sum += float64(s.At(t, n, f))
			}
		}
		means[f] = sum / count

		ss := 0.0
		for t := 0; t < s.T; t++ {
			for n := 0; n < s.N; n++ {
				d := float64(s.At(t, n, f)) - means[f]
				ss += d * d
			}
		}
		stds[f] = math.Sqrt(ss / count)
	}

	for f := 0; f < s.F; f++ {
		m, sd := means[f], stds[f]
		for t := 0; t < s.T; t++ {
			for n := 0; n < s.N; n++ {
				s.Set(t, n, f, float32((float64(s.At(t, n, f))-m)/sd))
			}
		}
	}

	return means[0], stds[0]
}

// DailyProfiles averages the channel-0 series of every node across all
// complete segments of the given length (one day at the native sampling
// rate), yielding one representative daily profile per node. Incomplete
// trailing segments are discarded.
func (s *Series) DailyProfiles(segment int) ([][]float64, error) {
	days := s.T / segment
	if days == 0 {
		return nil, fmt.Errorf("datasets: series too short for a %d-sample segment (T=%d)", segment, s.T)
	}

	profiles := make([][]float64, s.N)
	for n := 0; n < s.N; n++ {
		p := make([]float64, segment)
		for d := 0; d < days; d++ {
			for k := 0; k < segment; k++ {
				p[k] += float64(s.At(d*segment+k, n, 0))
			}
		}
		for k := range p {
			p[k] /= float64(days)
		}
		profiles[n] = p
	}
	return profiles, nil
}

// Tensor converts the series into a gomlx tensor of shape [T, N, F].
func (s *Series) Tensor() *tensors.Tensor {
	rows := make([][][]float32, s.T)
	for t := 0; t < s.T; t++ {
		rows[t] = make([][]float32, s.N)
		for n := 0; n < s.N; n++ {
			base := (t*s.N + n) * s.F
			rows[t][n] = s.Data[base : base+s.F]
		}
	}
	return tensors.FromAnyValue(rows)
}
