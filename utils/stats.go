package utils

import "time"

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time

	lastObserved time.Time
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Observe records a generation reached at time now with the given population
func (s *Stats) Observe(generation int, population int, now time.Time) {
	if !s.lastObserved.IsZero() && generation > s.TotalGenerations {
		if elapsed := now.Sub(s.lastObserved); elapsed > 0 {
			s.GenerationsPerSecond = float64(generation-s.TotalGenerations) / elapsed.Seconds()
		}
	}
	s.lastObserved = now
	s.TotalGenerations = generation

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Runtime returns the time since the stats were created
func (s *Stats) Runtime() time.Duration {
	return time.Since(s.StartTime)
}
