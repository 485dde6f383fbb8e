package venue

import (
	"fmt"
	"math"
)

const (
	meterMin    = 0
	meterMax    = 100
	maxMemories = 8
)

// StaffMember is a team member. Meters stay within [0,100].
type StaffMember struct {
	Name        string
	Role        string
	Morale      int
	Trust       int
	Stress      int
	Description string
	Memories    []string
}

// StatusLine renders the member for the dashboard.
func (m StaffMember) StatusLine() string {
	return fmt.Sprintf("%-12s | %-14s | morale:%3d | trust:%3d | stress:%3d", m.Name, m.Role, m.Morale, m.Trust, m.Stress)
}

func (m *StaffMember) clamp() {
	m.Morale = clamp(m.Morale)
	m.Trust = clamp(m.Trust)
	m.Stress = clamp(m.Stress)
}

// remember appends a day-stamped memory, keeping the most recent eight.
func (m *StaffMember) remember(day int, memory string) {
	m.Memories = append(m.Memories, fmt.Sprintf("Day %d: %s", day, memory))
	if len(m.Memories) > maxMemories {
		m.Memories = append([]string(nil), m.Memories[len(m.Memories)-maxMemories:]...)
	}
}

func (m StaffMember) recentMemories(n int) []string {
	if len(m.Memories) <= n {
		return m.Memories
	}
	return m.Memories[len(m.Memories)-n:]
}

func (m StaffMember) clone() StaffMember {
	m.Memories = append([]string(nil), m.Memories...)
	return m
}

// Applicant is a generated candidate. Metrics lie in [45,95].
type Applicant struct {
	Name          string
	DesiredRole   string
	Communication int
	Reliability   int
	Teamwork      int
}

// Score is the rounded mean of the three metrics.
func (a Applicant) Score() int {
	sum := a.Communication + a.Reliability + a.Teamwork
	return int(math.Round(float64(sum) / 3))
}

// CameraFeed is a fixed security camera.
type CameraFeed struct {
	Location  string
	Status    string
	Directive string
}

// Topic is a conversation sub-choice.
type Topic int

const (
	// TopicNone ends the conversation without a managerial action.
	TopicNone Topic = iota
	TopicPraise
	TopicConcerns
	TopicExtraShift
)

// Decision is a hiring sub-choice.
type Decision int

const (
	// DecisionNone leaves the applicant untouched.
	DecisionNone Decision = iota
	DecisionHire
	DecisionHold
	DecisionReject
)

// CameraResponse is the manager's reaction to the camera review.
type CameraResponse int

const (
	ContinueMonitoring CameraResponse = iota
	DispatchPatrol
)

func clamp(v int) int {
	if v < meterMin {
		return meterMin
	}
	if v > meterMax {
		return meterMax
	}
	return v
}
