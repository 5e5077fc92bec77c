package thought

import (
	"context"
	"time"
)

// #region thought-types

// Type classifies an autonomous thought.
type Type string

const (
	TypeReflection    Type = "reflection"
	TypeCuriosity     Type = "curiosity"
	TypePlanning      Type = "planning"
	TypeLearning      Type = "learning"
	TypeIntegration   Type = "integration"
	TypeMetacognition Type = "metacognition"
	TypeWonder        Type = "wonder"
)

// allTypes fixes the draw order for cumulative selection.
var allTypes = []Type{
	TypeReflection,
	TypeCuriosity,
	TypePlanning,
	TypeLearning,
	TypeIntegration,
	TypeMetacognition,
	TypeWonder,
}

// profile holds the per-type selection weight and the tone/depth
// estimates attached to generated thoughts.
type profile struct {
	weight float64
	tone   float64
	depth  float64
}

var profiles = map[Type]profile{
	TypeReflection:    {weight: 0.20, tone: 0.0, depth: 0.6},
	TypeCuriosity:     {weight: 0.25, tone: 0.3, depth: 0.5},
	TypePlanning:      {weight: 0.15, tone: 0.1, depth: 0.4},
	TypeLearning:      {weight: 0.20, tone: 0.4, depth: 0.7},
	TypeIntegration:   {weight: 0.10, tone: 0.3, depth: 0.8},
	TypeMetacognition: {weight: 0.05, tone: 0.0, depth: 0.9},
	TypeWonder:        {weight: 0.05, tone: 0.2, depth: 0.9},
}

// #endregion

// #region thought

// Context captures engine state at the moment a thought was generated.
type Context struct {
	ThoughtCount      int
	CurrentFocus      string
	ActiveGoals       int
	RecentExperiences int
}

// Thought is one generated autonomous thought.
type Thought struct {
	ID          string
	At          time.Time
	Type        Type
	Content     string
	Tone        float64 // -1 to 1
	Depth       float64 // 0 to 1
	TriggeredBy string  // focus topic at generation time, if any
	Context     Context
}

// #endregion

// #region provider

// ProviderRequest carries everything a content provider needs to
// compose one thought.
type ProviderRequest struct {
	Type   Type
	Prompt string
	Topic  string
	Tone   float64
	Depth  float64
	Recent []string
}

// Provider produces thought content remotely. A nil provider or any
// provider failure falls back to the template pools.
type Provider interface {
	GenerateThought(ctx context.Context, req ProviderRequest) (string, error)
}

// #endregion

// #region metrics

// Metrics summarizes engine throughput and recent thought character.
type Metrics struct {
	Running           bool
	TotalThoughts     int
	ThoughtsPerMinute float64
	AverageDepth      float64
	TypeDistribution  map[Type]int
	ActiveGoals       int
	CurrentFocus      string
}

// #endregion

// #region config

// Config holds thought-loop pacing parameters.
type Config struct {
	IntervalMin    time.Duration // shortest pause between thoughts (default 5s)
	IntervalMax    time.Duration // longest pause between thoughts (default 15s)
	RestSlowdown   float64       // interval multiplier while resting or in deep rest (default 2.0)
	DrowsySlowdown float64       // interval multiplier while drowsy (default 1.5)
	ErrorBackoff   time.Duration // pause after an emit failure (default 5s)
}

// DefaultConfig returns the stock pacing parameters.
func DefaultConfig() Config {
	return Config{
		IntervalMin:    5 * time.Second,
		IntervalMax:    15 * time.Second,
		RestSlowdown:   2.0,
		DrowsySlowdown: 1.5,
		ErrorBackoff:   5 * time.Second,
	}
}

// #endregion
