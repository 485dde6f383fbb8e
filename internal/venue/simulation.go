// Venue simulation state machine: actions mutate state, then each turn is
// narrated by exactly one scene request.
package venue

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"venueops-sim/internal/config"
	"venueops-sim/internal/journal"
	"venueops-sim/internal/logging"
	"venueops-sim/internal/scene"
)

// Scene names sent to the generator.
const (
	SceneConversation = "Employee Conversation"
	SceneApplicant    = "Applicant Assessment"
	SceneSecurity     = "Security Monitoring"
	SceneCameraStream = "Security Camera Stream"
	SceneEndOfDay     = "End of Day Summary"
)

var (
	// ErrUnknownStaff is returned for a staff name not on the roster.
	ErrUnknownStaff = errors.New("unknown staff member")
	// ErrUnknownCamera is returned for a camera location that does not exist.
	ErrUnknownCamera = errors.New("unknown camera")
)

// SceneGenerator produces the narration for a turn. It must always return a
// complete output.
type SceneGenerator interface {
	Generate(ctx context.Context, req scene.Request) scene.Output
}

// Turn is an applied action waiting for its scene. State is captured right
// after the mutation so narration never reads live state.
type Turn struct {
	Scene      string
	Action     string
	State      string
	Day        int
	Cash       int
	Reputation int
	StaffCount int

	MemoryContext string
	RoleContext   string
	Directive     string
	Seed          int
}

// Dashboard is a read-only snapshot for display.
type Dashboard struct {
	Day        int
	Cash       int
	Reputation int
	Staff      []StaffMember
	Cameras    []CameraFeed
}

// Option customizes a Simulation.
type Option func(*Simulation)

// WithRand sets the randomness source.
func WithRand(r Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

// WithJournal exports every narrated turn to w.
func WithJournal(w journal.Writer) Option {
	return func(s *Simulation) { s.journal = w }
}

// WithClock overrides the clock used for journal timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Simulation) { s.now = now }
}

// WithSessionID fixes the session identifier written to the journal.
func WithSessionID(id string) Option {
	return func(s *Simulation) { s.session = id }
}

// Simulation exclusively owns the venue state. It is not safe for concurrent
// mutation; Narrate only reads immutable fields and may run off the loop.
type Simulation struct {
	venue   config.Venue
	scenes  SceneGenerator
	rng     Rand
	journal journal.Writer
	now     func() time.Time
	session string

	day        int
	cash       int
	reputation int
	staff      map[string]*StaffMember
	order      []string
	cameras    []CameraFeed
	frame      int
}

// New creates a simulation at day 1 from the venue configuration.
func New(v config.Venue, scenes SceneGenerator, opts ...Option) *Simulation {
	s := &Simulation{
		venue:      v,
		scenes:     scenes,
		now:        time.Now,
		day:        1,
		cash:       v.StartingCash,
		reputation: clamp(v.StartingReputation),
		staff:      make(map[string]*StaffMember, len(v.Staff)),
	}
	for _, st := range v.Staff {
		m := &StaffMember{
			Name:        st.Name,
			Role:        st.Role,
			Morale:      st.Morale,
			Trust:       st.Trust,
			Stress:      st.Stress,
			Description: st.Description,
			Memories:    append([]string(nil), st.Memories...),
		}
		m.clamp()
		s.addStaff(m)
	}
	for _, c := range v.Cameras {
		s.cameras = append(s.cameras, CameraFeed{Location: c.Location, Status: c.Status, Directive: c.Directive})
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.session == "" {
		s.session = uuid.NewString()
	}
	return s
}

func (s *Simulation) addStaff(m *StaffMember) {
	if _, ok := s.staff[m.Name]; !ok {
		s.order = append(s.order, m.Name)
	}
	s.staff[m.Name] = m
}

// SessionID identifies this run in the journal.
func (s *Simulation) SessionID() string { return s.session }

// Day returns the current day.
func (s *Simulation) Day() int { return s.day }

// Cash returns the current cash balance. It may be negative.
func (s *Simulation) Cash() int { return s.cash }

// Reputation returns the current reputation.
func (s *Simulation) Reputation() int { return s.reputation }

// StaffNames returns roster names in hiring order.
func (s *Simulation) StaffNames() []string {
	return append([]string(nil), s.order...)
}

// StaffMember returns a copy of the named member.
func (s *Simulation) StaffMember(name string) (StaffMember, bool) {
	m, ok := s.staff[name]
	if !ok {
		return StaffMember{}, false
	}
	return m.clone(), true
}

// Cameras returns the camera feeds.
func (s *Simulation) Cameras() []CameraFeed {
	return append([]CameraFeed(nil), s.cameras...)
}

// Dashboard returns a snapshot without mutating anything.
func (s *Simulation) Dashboard() Dashboard {
	d := Dashboard{Day: s.day, Cash: s.cash, Reputation: s.reputation, Cameras: s.Cameras()}
	for _, name := range s.order {
		d.Staff = append(d.Staff, s.staff[name].clone())
	}
	return d
}

// StateSummary renders the state line sent with every scene request.
func (s *Simulation) StateSummary() string {
	team := make([]string, 0, len(s.order))
	for _, name := range s.order {
		m := s.staff[name]
		team = append(team, fmt.Sprintf("%s:%s(morale=%d,trust=%d,stress=%d)", m.Name, m.Role, m.Morale, m.Trust, m.Stress))
	}
	return fmt.Sprintf("day=%d, cash=%d, reputation=%d, team=[%s]", s.day, s.cash, s.reputation, strings.Join(team, ", "))
}

func (s *Simulation) turn(sceneName, action string) Turn {
	return Turn{
		Scene:      sceneName,
		Action:     action,
		State:      s.StateSummary(),
		Day:        s.day,
		Cash:       s.cash,
		Reputation: s.reputation,
		StaffCount: len(s.order),
	}
}

func (s *Simulation) adjustReputation(delta int) {
	s.reputation = clamp(s.reputation + delta)
}

// Narrate requests the scene for t with exactly one generator call and
// exports the result to the journal.
func (s *Simulation) Narrate(ctx context.Context, t Turn) scene.Output {
	out := s.scenes.Generate(ctx, scene.Request{
		SceneName:     t.Scene,
		StateSummary:  t.State,
		ActionSummary: t.Action,
		StyleGuide:    s.venue.StyleGuide,
		MemoryContext: t.MemoryContext,
		RoleContext:   t.RoleContext,
		Directives:    s.directives(t.Scene, t.Directive),
		Seed:          t.Seed,
	})

	log := logging.FromContext(ctx)
	log.Info("turn narrated", "scene", t.Scene, "day", t.Day, "model", out.ModelUsed, "fallback", out.Fallback())

	if s.journal != nil {
		row := journal.TurnRow{
			SessionID:       s.session,
			TurnID:          uuid.NewString(),
			Day:             t.Day,
			Cash:            t.Cash,
			Reputation:      t.Reputation,
			StaffCount:      t.StaffCount,
			Scene:           t.Scene,
			Action:          t.Action,
			SceneText:       out.SceneText,
			ImagePrompt:     out.ImagePrompt,
			ImageURL:        out.ImageURL,
			ModelUsed:       out.ModelUsed,
			Fallback:        out.Fallback(),
			FailureCategory: string(out.Failure),
			Timestamp:       s.now().UTC(),
		}
		if err := s.journal.WriteTurn(row); err != nil {
			log.Warn("journal write failed", "err", err)
		}
	}
	return out
}

// directives joins the global, per-scene and per-turn visual directives.
func (s *Simulation) directives(sceneName, extra string) string {
	var parts []string
	for _, p := range []string{s.venue.Directives.Global, s.venue.Directives.Scenes[sceneName], extra} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "; ")
}
