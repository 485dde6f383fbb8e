package scenario

import (
	"context"
	"errors"
	"testing"

	"venueops-sim/internal/config"
	"venueops-sim/internal/scene"
	"venueops-sim/internal/venue"
)

type countingGenerator struct{ scenes []string }

func (g *countingGenerator) Generate(_ context.Context, req scene.Request) scene.Output {
	g.scenes = append(g.scenes, req.SceneName)
	return scene.Output{SceneText: "text", ImagePrompt: "prompt", ModelUsed: "fake"}
}

type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

func newSim() (*venue.Simulation, *countingGenerator) {
	gen := &countingGenerator{}
	return venue.New(config.Default().Venue, gen, venue.WithRand(zeroRand{})), gen
}

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "example" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if sc.Description != "basic test scenario" {
		t.Fatalf("unexpected description %s", sc.Description)
	}
	if len(sc.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(sc.Steps))
	}
	if sc.Len() != 4 {
		t.Fatalf("expected 4 turns, got %d", sc.Len())
	}
}

func TestLoadInvalidScenario(t *testing.T) {
	if _, err := Load("testdata/invalid.yaml"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := Load("testdata/missing.yaml"); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestRunNarratesEveryTurn(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	sim, gen := newSim()
	var seen []venue.Turn
	if err := Run(context.Background(), sim, sc, func(turn venue.Turn, _ scene.Output) {
		seen = append(seen, turn)
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{venue.SceneConversation, venue.SceneSecurity, venue.SceneEndOfDay, venue.SceneEndOfDay}
	if len(gen.scenes) != len(want) {
		t.Fatalf("expected %d scenes, got %v", len(want), gen.scenes)
	}
	for i := range want {
		if gen.scenes[i] != want[i] || seen[i].Scene != want[i] {
			t.Fatalf("scene %d: got %s", i, gen.scenes[i])
		}
	}
	if sim.Day() != 3 {
		t.Fatalf("expected day 3, got %d", sim.Day())
	}
}

func TestRunUnknownStaffFails(t *testing.T) {
	sim, gen := newSim()
	sc := &Scenario{Steps: []Step{{Action: ActionConverse, Staff: "Nobody", Topic: "praise"}}}
	err := Run(context.Background(), sim, sc, nil)
	if !errors.Is(err, venue.ErrUnknownStaff) {
		t.Fatalf("expected ErrUnknownStaff, got %v", err)
	}
	if len(gen.scenes) != 0 {
		t.Fatalf("no scene expected")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sim, gen := newSim()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := &Scenario{Steps: []Step{{Action: ActionAdvance}}}
	if err := Run(ctx, sim, sc, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(gen.scenes) != 0 || sim.Day() != 1 {
		t.Fatalf("nothing should run after cancel")
	}
}

func TestBuiltInArcs(t *testing.T) {
	arcs := BuiltIn()
	for _, name := range []string{"opening-night", "first-week", "staff-burnout"} {
		sc, ok := arcs[name]
		if !ok {
			t.Fatalf("missing arc %s", name)
		}
		if err := sc.Validate(); err != nil {
			t.Fatalf("arc %s invalid: %v", name, err)
		}
		sim, gen := newSim()
		if err := Run(context.Background(), sim, &sc, nil); err != nil {
			t.Fatalf("arc %s: %v", name, err)
		}
		if len(gen.scenes) != sc.Len() {
			t.Fatalf("arc %s: expected %d scenes, got %d", name, sc.Len(), len(gen.scenes))
		}
	}
}
