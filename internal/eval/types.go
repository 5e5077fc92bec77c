package eval

import "github.com/o9nn/ecco9/internal/wisdom"

// #region config
// Config holds thresholds for bounds validation.
type Config struct {
	MaxActiveInterests int // reject if more interests are active
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		MaxActiveInterests: 5,
	}
}

// #endregion config

// #region snapshot
// InterestSample is one topic's engagement metrics at check time.
type InterestSample struct {
	Topic        string
	Salience     float64
	Curiosity    float64
	Progress     float64
	Satisfaction float64
	Valence      float64
}

// Snapshot is the point-in-time view the checker validates. It is
// assembled by the caller; the checker never touches live components.
type Snapshot struct {
	Fatigue         float64
	Pressure        float64
	Interests       []InterestSample
	ActiveInterests int
	Wisdom          wisdom.Scores
}

// #endregion snapshot

// #region metric
// Metric captures a single validation check result.
type Metric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion metric

// #region result
// Result is the output of bounds validation.
type Result struct {
	Passed  bool
	Metrics []Metric
	Reason  string
}

// #endregion result
