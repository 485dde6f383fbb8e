package venue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venueops-sim/internal/config"
)

func TestConverse(t *testing.T) {
	cases := []struct {
		name      string
		staff     string
		topic     Topic
		wantMoral int
		wantTrust int
		wantStres int
		wantRep   int
		wantCash  int
		action    string
	}{
		{"praise", "Mila", TopicPraise, 82, 68, 33, 59, 18000, "Manager praised Mila and boosted morale/trust"},
		{"concerns trusted", "Mila", TopicConcerns, 78, 61, 22, 58, 18000, "Mila shared concerns and stress dropped"},
		{"concerns reserved", "Jordan", TopicConcerns, 69, 58, 40, 58, 18000, "Jordan stayed reserved but trust improved slightly"},
		{"extra shift", "Omar", TopicExtraShift, 68, 58, 44, 58, 18600, "Omar accepted extra shift for short-term cash gain"},
		{"no action", "Kai", TopicNone, 76, 59, 34, 58, 18000, "Conversation ended without a clear managerial action"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, gen := newTestSim(t)
			before := s.Dashboard()

			turn, err := s.Converse(c.staff, c.topic)
			require.NoError(t, err)

			m, _ := s.StaffMember(c.staff)
			assert.Equal(t, c.wantMoral, m.Morale)
			assert.Equal(t, c.wantTrust, m.Trust)
			assert.Equal(t, c.wantStres, m.Stress)
			assert.Equal(t, c.wantRep, s.Reputation())
			assert.Equal(t, c.wantCash, s.Cash())
			assert.Equal(t, c.action, turn.Action)
			assert.Equal(t, SceneConversation, turn.Scene)
			assert.Equal(t, s.StateSummary(), turn.State)
			assert.Contains(t, turn.MemoryContext, c.staff+" profile:")

			for i, other := range s.Dashboard().Staff {
				if other.Name == c.staff {
					continue
				}
				assert.Equal(t, before.Staff[i].StatusLine(), other.StatusLine(), "only %s should change", c.staff)
			}
			assert.Empty(t, gen.reqs, "actions never call the generator themselves")
		})
	}
}

func TestConverseClampsMeters(t *testing.T) {
	v := config.Default().Venue
	v.StartingReputation = 100
	v.Staff = []config.Staff{{Name: "Max", Role: "Host", Morale: 97, Trust: 99, Stress: 5}}
	s := New(v, &recordingGenerator{})

	_, err := s.Converse("Max", TopicPraise)
	require.NoError(t, err)
	_, err = s.Converse("Max", TopicConcerns)
	require.NoError(t, err)

	m, _ := s.StaffMember("Max")
	assert.Equal(t, 100, m.Morale)
	assert.Equal(t, 100, m.Trust)
	assert.Equal(t, 0, m.Stress)
	assert.Equal(t, 100, s.Reputation())
}

func TestConverseUnknownStaff(t *testing.T) {
	s, _ := newTestSim(t)
	before := s.StateSummary()
	_, err := s.Converse("Nobody", TopicPraise)
	assert.True(t, errors.Is(err, ErrUnknownStaff))
	assert.Equal(t, before, s.StateSummary())
}

func TestMemoriesAreCapped(t *testing.T) {
	s, _ := newTestSim(t)
	for i := 0; i < 12; i++ {
		_, err := s.Converse("Rin", TopicPraise)
		require.NoError(t, err)
	}
	m, _ := s.StaffMember("Rin")
	require.Len(t, m.Memories, 8)
	assert.Equal(t, "Day 1: Manager praised Rin and boosted morale/trust", m.Memories[7])
}

func TestApplicantScore(t *testing.T) {
	assert.Equal(t, 70, Applicant{Communication: 60, Reliability: 70, Teamwork: 80}.Score())
	assert.Equal(t, 66, Applicant{Communication: 65, Reliability: 66, Teamwork: 66}.Score())
	assert.Equal(t, 46, Applicant{Communication: 45, Reliability: 46, Teamwork: 46}.Score())
}

func TestNewApplicant(t *testing.T) {
	// name index 2, role index 4, then metric offsets from 45.
	s, _ := newTestSim(t, 2, 4, 15, 25, 35)
	a := s.NewApplicant()
	assert.Equal(t, Applicant{
		Name:          "Casey",
		DesiredRole:   "Floor Operations Coordinator",
		Communication: 60,
		Reliability:   70,
		Teamwork:      80,
	}, a)
}

func TestNewApplicantAvoidsRosterNames(t *testing.T) {
	v := config.Default().Venue
	v.ApplicantNames = []string{"Mila", "Avery"}
	s := New(v, &recordingGenerator{}, WithRand(&scriptedRand{}))
	assert.Equal(t, "Avery", s.NewApplicant().Name)

	v.ApplicantNames = []string{"Mila"}
	s = New(v, &recordingGenerator{}, WithRand(&scriptedRand{}))
	assert.Equal(t, "Mila 2", s.NewApplicant().Name)
}

func TestNewApplicantMetricRange(t *testing.T) {
	s, _ := newTestSim(t, 0, 0, 50, 0, 50)
	a := s.NewApplicant()
	assert.Equal(t, 95, a.Communication)
	assert.Equal(t, 45, a.Reliability)
	assert.Equal(t, 95, a.Teamwork)
}

func TestDecideApplicant(t *testing.T) {
	strong := Applicant{Name: "Noor", DesiredRole: "Security Lead", Communication: 60, Reliability: 70, Teamwork: 80}
	weak := Applicant{Name: "Remy", DesiredRole: "Guest Experience Host", Communication: 50, Reliability: 55, Teamwork: 60}
	borderline := Applicant{Name: "Jules", DesiredRole: "Guest Experience Host", Communication: 65, Reliability: 65, Teamwork: 65}

	t.Run("hire above threshold", func(t *testing.T) {
		s, _ := newTestSim(t)
		turn := s.DecideApplicant(strong, DecisionHire)
		assert.Equal(t, "Hired Noor as Security Lead with score 70", turn.Action)
		assert.Equal(t, 7, len(s.StaffNames()))
		assert.Equal(t, "Noor", s.StaffNames()[6])
		m, ok := s.StaffMember("Noor")
		require.True(t, ok)
		assert.Equal(t, []int{66, 52, 34}, []int{m.Morale, m.Trust, m.Stress})
		assert.Equal(t, []string{"Day 1: completed onboarding interview with score 70."}, m.Memories)
		assert.Equal(t, 17100, s.Cash())
		assert.Equal(t, 60, s.Reputation())
		assert.Equal(t, 7, turn.StaffCount)
		assert.Equal(t, SceneApplicant, turn.Scene)
	})

	t.Run("hire at threshold", func(t *testing.T) {
		s, _ := newTestSim(t)
		s.DecideApplicant(borderline, DecisionHire)
		assert.Len(t, s.StaffNames(), 7)
	})

	t.Run("risky hire below threshold", func(t *testing.T) {
		s, _ := newTestSim(t)
		turn := s.DecideApplicant(weak, DecisionHire)
		assert.Equal(t, "Risky hire approved for Remy despite score 55", turn.Action)
		assert.Len(t, s.StaffNames(), 6)
		assert.Equal(t, 18000, s.Cash())
		assert.Equal(t, 56, s.Reputation())
	})

	t.Run("hire bonus clamps at 100", func(t *testing.T) {
		v := config.Default().Venue
		v.StartingReputation = 99
		s := New(v, &recordingGenerator{})
		s.DecideApplicant(strong, DecisionHire)
		assert.Equal(t, 100, s.Reputation())
	})

	t.Run("colliding name renamed on hire", func(t *testing.T) {
		s, _ := newTestSim(t)
		dup := strong
		dup.Name = "Mila"
		turn := s.DecideApplicant(dup, DecisionHire)
		assert.Equal(t, "Hired Mila 2 as Security Lead with score 70", turn.Action)
		_, ok := s.StaffMember("Mila 2")
		assert.True(t, ok)
	})

	t.Run("risky hire keeps colliding name", func(t *testing.T) {
		s, _ := newTestSim(t)
		dup := weak
		dup.Name = "Mila"
		turn := s.DecideApplicant(dup, DecisionHire)
		assert.Equal(t, "Risky hire approved for Mila despite score 55", turn.Action)
		assert.Contains(t, turn.MemoryContext, "Applicant profile: Mila seeking")
		assert.Len(t, s.StaffNames(), 6)
	})

	for _, c := range []struct {
		d    Decision
		want string
	}{
		{DecisionHold, "Applicant Noor placed in talent pool"},
		{DecisionReject, "Applicant Noor rejected"},
		{DecisionNone, "No hiring action applied"},
	} {
		t.Run(fmt.Sprintf("decision %d", c.d), func(t *testing.T) {
			s, _ := newTestSim(t)
			before := s.StateSummary()
			turn := s.DecideApplicant(strong, c.d)
			assert.Equal(t, c.want, turn.Action)
			assert.Equal(t, before, s.StateSummary())
		})
	}
}

func TestReviewCameras(t *testing.T) {
	s, _ := newTestSim(t)
	turn := s.ReviewCameras(DispatchPatrol)
	assert.Equal(t, "Security patrol dispatched after camera scan", turn.Action)
	assert.Equal(t, 17750, s.Cash())
	assert.Equal(t, 59, s.Reputation())

	before := s.StateSummary()
	turn = s.ReviewCameras(ContinueMonitoring)
	assert.Equal(t, "Manager continued passive monitoring of camera feeds", turn.Action)
	assert.Equal(t, SceneSecurity, turn.Scene)
	assert.Equal(t, before, s.StateSummary())
}

func TestSnapshotCamera(t *testing.T) {
	s, _ := newTestSim(t)
	before := s.StateSummary()

	first, err := s.SnapshotCamera("Entrance")
	require.NoError(t, err)
	second, err := s.SnapshotCamera("Main Hall")
	require.NoError(t, err)

	assert.Equal(t, "Camera Entrance frame 1: steady arrivals and ID checks", first.Action)
	assert.Equal(t, 1, first.Seed)
	assert.Equal(t, 2, second.Seed)
	assert.Equal(t, SceneCameraStream, second.Scene)
	assert.Contains(t, second.Directive, "cctv channel=Main Hall; frame=2")
	assert.Equal(t, before, s.StateSummary())

	_, err = s.SnapshotCamera("Roof")
	assert.True(t, errors.Is(err, ErrUnknownCamera))
}
