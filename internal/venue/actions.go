package venue

import (
	"fmt"
	"slices"
	"strings"
)

// Conversation, hiring and camera effects.
const (
	praiseMorale       = 8
	praiseTrust        = 7
	praiseReputation   = 1
	concernsTrustGate  = 55
	concernsStressDrop = 11
	concernsMorale     = 4
	reservedTrust      = 5
	extraShiftStress   = 13
	extraShiftMorale   = 5

	metricMin = 45
	metricMax = 95

	hireMorale = 66
	hireTrust  = 52
	hireStress = 34

	patrolReputation = 1

	dailyStressMin = 1
	dailyStressMax = 6
	dailyMoraleMax = 3

	recentMemoryCount = 3
)

// Converse applies a conversation with the named staff member. Only that
// member's meters change, plus reputation or cash for some topics.
func (s *Simulation) Converse(name string, topic Topic) (Turn, error) {
	m, ok := s.staff[name]
	if !ok {
		return Turn{}, fmt.Errorf("%w: %q", ErrUnknownStaff, name)
	}

	var action string
	switch topic {
	case TopicPraise:
		m.Morale += praiseMorale
		m.Trust += praiseTrust
		s.adjustReputation(praiseReputation)
		action = fmt.Sprintf("Manager praised %s and boosted morale/trust", m.Name)
	case TopicConcerns:
		if m.Trust >= concernsTrustGate {
			m.Stress -= concernsStressDrop
			m.Morale += concernsMorale
			action = fmt.Sprintf("%s shared concerns and stress dropped", m.Name)
		} else {
			m.Trust += reservedTrust
			action = fmt.Sprintf("%s stayed reserved but trust improved slightly", m.Name)
		}
	case TopicExtraShift:
		m.Stress += extraShiftStress
		m.Morale -= extraShiftMorale
		s.cash += s.venue.Rules.ExtraShiftPay
		action = fmt.Sprintf("%s accepted extra shift for short-term cash gain", m.Name)
	default:
		action = "Conversation ended without a clear managerial action"
	}
	m.clamp()
	if topic != TopicNone {
		m.remember(s.day, action)
	}

	t := s.turn(SceneConversation, action)
	t.MemoryContext = fmt.Sprintf("%s profile: %s. Recent memories: %s", m.Name, m.Description, strings.Join(m.recentMemories(recentMemoryCount), " | "))
	t.RoleContext = fmt.Sprintf("Show %s working as %s.", m.Name, m.Role)
	return t, nil
}

// NewApplicant generates a candidate. Names already on the roster are
// avoided; when every name is taken a numeric suffix keeps it unique.
func (s *Simulation) NewApplicant() Applicant {
	pool := make([]string, 0, len(s.venue.ApplicantNames))
	for _, n := range s.venue.ApplicantNames {
		if _, taken := s.staff[n]; !taken {
			pool = append(pool, n)
		}
	}
	var name string
	if len(pool) > 0 {
		name = pick(s.rng, pool)
	} else {
		name = s.uniqueName(pick(s.rng, s.venue.ApplicantNames))
	}
	return Applicant{
		Name:          name,
		DesiredRole:   pick(s.rng, s.venue.ApplicantRoles),
		Communication: between(s.rng, metricMin, metricMax),
		Reliability:   between(s.rng, metricMin, metricMax),
		Teamwork:      between(s.rng, metricMin, metricMax),
	}
}

func (s *Simulation) uniqueName(base string) string {
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s %d", base, i)
		if _, taken := s.staff[name]; !taken {
			return name
		}
	}
}

// DecideApplicant applies the hiring decision for a.
func (s *Simulation) DecideApplicant(a Applicant, d Decision) Turn {
	score := a.Score()
	rules := s.venue.Rules

	var action string
	switch d {
	case DecisionHire:
		if score >= rules.HireThreshold {
			if _, taken := s.staff[a.Name]; taken {
				a.Name = s.uniqueName(a.Name)
			}
			m := &StaffMember{
				Name:        a.Name,
				Role:        a.DesiredRole,
				Morale:      hireMorale,
				Trust:       hireTrust,
				Stress:      hireStress,
				Description: fmt.Sprintf("new %s hired on day %d", a.DesiredRole, s.day),
			}
			m.remember(s.day, fmt.Sprintf("completed onboarding interview with score %d.", score))
			s.addStaff(m)
			s.cash -= rules.HiringCost
			s.adjustReputation(rules.HireBonus)
			action = fmt.Sprintf("Hired %s as %s with score %d", a.Name, a.DesiredRole, score)
		} else {
			s.adjustReputation(-rules.RiskyHirePenalty)
			action = fmt.Sprintf("Risky hire approved for %s despite score %d", a.Name, score)
		}
	case DecisionHold:
		action = fmt.Sprintf("Applicant %s placed in talent pool", a.Name)
	case DecisionReject:
		action = fmt.Sprintf("Applicant %s rejected", a.Name)
	default:
		action = "No hiring action applied"
	}

	t := s.turn(SceneApplicant, action)
	t.MemoryContext = fmt.Sprintf("Applicant profile: %s seeking %s, communication=%d, reliability=%d, teamwork=%d, score=%d",
		a.Name, a.DesiredRole, a.Communication, a.Reliability, a.Teamwork, score)
	return t
}

// ReviewCameras applies the manager's response to the camera review.
func (s *Simulation) ReviewCameras(r CameraResponse) Turn {
	action := "Manager continued passive monitoring of camera feeds"
	if r == DispatchPatrol {
		s.cash -= s.venue.Rules.PatrolCost
		s.adjustReputation(patrolReputation)
		action = "Security patrol dispatched after camera scan"
	}
	return s.turn(SceneSecurity, action)
}

// SnapshotCamera pulls the next still frame of one feed. Only the frame
// counter changes; the frame number seeds the image.
func (s *Simulation) SnapshotCamera(location string) (Turn, error) {
	i := slices.IndexFunc(s.cameras, func(c CameraFeed) bool { return c.Location == location })
	if i < 0 {
		return Turn{}, fmt.Errorf("%w: %q", ErrUnknownCamera, location)
	}
	cam := s.cameras[i]
	s.frame++

	t := s.turn(SceneCameraStream, fmt.Sprintf("Camera %s frame %d: %s", cam.Location, s.frame, cam.Status))
	t.MemoryContext = fmt.Sprintf("Security channel %s. Frame %d of low-fps stream simulation.", cam.Location, s.frame)
	t.RoleContext = fmt.Sprintf("CCTV operator viewpoint. Show security staff actions and guest flow compliance for %s.", cam.Location)
	extra := []string{fmt.Sprintf("cctv channel=%s", cam.Location), fmt.Sprintf("frame=%d", s.frame)}
	if cam.Directive != "" {
		extra = append([]string{cam.Directive}, extra...)
	}
	t.Directive = strings.Join(extra, "; ")
	t.Seed = s.frame
	return t, nil
}

// AdvanceDay runs payroll and revenue, then wears the team down.
func (s *Simulation) AdvanceDay() Turn {
	rules := s.venue.Rules
	s.day++
	payroll := rules.PayrollPerStaff * len(s.order)
	revenue := between(s.rng, rules.RevenueMin, rules.RevenueMax)
	s.cash += revenue - payroll

	counts := make([]string, 0, len(s.order))
	for _, name := range s.order {
		m := s.staff[name]
		m.Stress += between(s.rng, dailyStressMin, dailyStressMax)
		m.Morale -= between(s.rng, 0, dailyMoraleMax)
		m.clamp()
		if m.Stress > rules.StressAlert {
			s.adjustReputation(-1)
		}
		m.remember(s.day, fmt.Sprintf("Worked day %d. morale=%d, stress=%d.", s.day, m.Morale, m.Stress))
		counts = append(counts, fmt.Sprintf("%s:%d", m.Name, len(m.Memories)))
	}

	t := s.turn(SceneEndOfDay, fmt.Sprintf("Advanced to day %d; revenue=%d, payroll=%d, net=%d", s.day, revenue, payroll, revenue-payroll))
	t.MemoryContext = "Team memory counts: " + strings.Join(counts, ", ")
	return t
}
