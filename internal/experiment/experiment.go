// Package experiment runs headless autopilot sessions for evaluation:
// single runs, seed ensembles, and scripted scenarios.
package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/metrics"
	"github.com/san-kum/accretion/internal/session"
	"github.com/san-kum/accretion/internal/spawn"
	"github.com/san-kum/accretion/internal/storage"
)

type Config struct {
	Preset   string
	Tuning   *config.Config // overrides Preset when set
	Dt       float64
	Duration float64
	Seed     int64
}

type Result struct {
	Seed     int64
	Outcome  string
	Metrics  map[string]float64
	Timeline []storage.TimelinePoint
}

type Experiment struct {
	cfg Config
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) tuning() (*config.Config, error) {
	if e.cfg.Tuning != nil {
		return e.cfg.Tuning, nil
	}
	name := e.cfg.Preset
	if name == "" {
		name = "classic"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("experiment: unknown preset %q", name)
	}
	return cfg, nil
}

// Run plays one session to completion or until the duration elapses.
// The collector is driven by the greedy autopilot.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.cfg.Dt <= 0 {
		return nil, fmt.Errorf("experiment: dt must be positive, got %f", e.cfg.Dt)
	}
	if e.cfg.Duration <= 0 {
		return nil, fmt.Errorf("experiment: duration must be positive, got %f", e.cfg.Duration)
	}

	cfg, err := e.tuning()
	if err != nil {
		return nil, err
	}

	tracker := metrics.NewTracker()
	sess, err := session.New(cfg, tracker)
	if err != nil {
		return nil, err
	}
	sess.AddObserver(tracker)

	driver := spawn.New(cfg, e.cfg.Seed)
	driver.Prime(sess)

	result := &Result{Seed: e.cfg.Seed}
	sampleEvery := int(math.Max(1, 0.1/e.cfg.Dt))

	for sess.Now() < e.cfg.Duration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		if _, over := sess.Terminal(); over {
			break
		}
		sess.Step(e.cfg.Dt)
		driver.Advance(sess)
		Steer(sess)
		if sess.Ticks()%sampleEvery == 0 {
			result.Timeline = append(result.Timeline, storage.TimelinePoint{
				T:        sess.Now(),
				Diameter: sess.Collector().Diameter,
				Orbs:     sess.OrbCount(),
				Score:    tracker.Score(),
				Merges:   tracker.Merges(),
			})
		}
	}

	result.Outcome = "survived"
	if reason, over := sess.Terminal(); over {
		result.Outcome = reason.String()
	}
	result.Metrics = tracker.Values()
	return result, nil
}
