// Package scenario drives a simulation through a scripted sequence of
// manager actions, for demos and unattended runs.
package scenario

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"venueops-sim/internal/scene"
	"venueops-sim/internal/venue"
)

// Step actions.
const (
	ActionConverse  = "converse"
	ActionApplicant = "applicant"
	ActionCameras   = "cameras"
	ActionSnapshot  = "snapshot"
	ActionAdvance   = "advance"
)

// Scenario is an ordered script of manager actions.
type Scenario struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scripted action. Only the fields of its action are read.
type Step struct {
	Action   string `yaml:"action"`
	Staff    string `yaml:"staff,omitempty"`
	Topic    string `yaml:"topic,omitempty"`
	Decision string `yaml:"decision,omitempty"`
	Response string `yaml:"response,omitempty"`
	Camera   string `yaml:"camera,omitempty"`
	Repeat   int    `yaml:"repeat,omitempty"`
}

var (
	topics = map[string]venue.Topic{
		"":            venue.TopicNone,
		"praise":      venue.TopicPraise,
		"concerns":    venue.TopicConcerns,
		"extra_shift": venue.TopicExtraShift,
	}
	decisions = map[string]venue.Decision{
		"":       venue.DecisionNone,
		"hire":   venue.DecisionHire,
		"hold":   venue.DecisionHold,
		"reject": venue.DecisionReject,
	}
	responses = map[string]venue.CameraResponse{
		"":         venue.ContinueMonitoring,
		"monitor":  venue.ContinueMonitoring,
		"dispatch": venue.DispatchPatrol,
	}
)

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every step names a known action and option.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	for i, st := range s.Steps {
		var ok bool
		switch st.Action {
		case ActionConverse:
			_, ok = topics[st.Topic]
			ok = ok && st.Staff != ""
		case ActionApplicant:
			_, ok = decisions[st.Decision]
		case ActionCameras:
			_, ok = responses[st.Response]
		case ActionSnapshot:
			ok = st.Camera != ""
		case ActionAdvance:
			ok = true
		}
		if !ok {
			return fmt.Errorf("step %d: invalid %q step", i+1, st.Action)
		}
	}
	return nil
}

// Len returns the number of turns the scenario produces.
func (s *Scenario) Len() int {
	n := 0
	for _, st := range s.Steps {
		n += max(st.Repeat, 1)
	}
	return n
}

// SceneFunc receives every narrated turn.
type SceneFunc func(venue.Turn, scene.Output)

// Run applies each step to sim and narrates it, stopping early when ctx is
// done. Steps naming unknown staff or cameras fail the run.
func Run(ctx context.Context, sim *venue.Simulation, s *Scenario, fn SceneFunc) error {
	for i, st := range s.Steps {
		for r := 0; r < max(st.Repeat, 1); r++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			turn, err := apply(sim, st)
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			out := sim.Narrate(ctx, turn)
			if fn != nil {
				fn(turn, out)
			}
		}
	}
	return nil
}

func apply(sim *venue.Simulation, st Step) (venue.Turn, error) {
	switch st.Action {
	case ActionConverse:
		return sim.Converse(st.Staff, topics[st.Topic])
	case ActionApplicant:
		return sim.DecideApplicant(sim.NewApplicant(), decisions[st.Decision]), nil
	case ActionCameras:
		return sim.ReviewCameras(responses[st.Response]), nil
	case ActionSnapshot:
		return sim.SnapshotCamera(st.Camera)
	case ActionAdvance:
		return sim.AdvanceDay(), nil
	}
	return venue.Turn{}, fmt.Errorf("unknown action %q", st.Action)
}
