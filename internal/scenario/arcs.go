package scenario

// BuiltIn returns predefined runs against the default venue roster.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"opening-night": {
			Name:        "Opening Night",
			Description: "A single evening: check in with the floor team, review the cameras and close the books.",
			Steps: []Step{
				{Action: ActionConverse, Staff: "Mila", Topic: "praise"},
				{Action: ActionCameras, Response: "monitor"},
				{Action: ActionSnapshot, Camera: "Entrance"},
				{Action: ActionConverse, Staff: "Jordan", Topic: "concerns"},
				{Action: ActionAdvance},
			},
		},
		"first-week": {
			Name:        "First Week",
			Description: "Seven days of hiring, extra shifts and security calls as the venue finds its rhythm.",
			Steps: []Step{
				{Action: ActionApplicant, Decision: "hire"},
				{Action: ActionConverse, Staff: "Omar", Topic: "extra_shift"},
				{Action: ActionAdvance},
				{Action: ActionCameras, Response: "dispatch"},
				{Action: ActionConverse, Staff: "Selene", Topic: "concerns"},
				{Action: ActionAdvance, Repeat: 2},
				{Action: ActionApplicant, Decision: "hold"},
				{Action: ActionSnapshot, Camera: "Main Hall"},
				{Action: ActionConverse, Staff: "Kai", Topic: "praise"},
				{Action: ActionAdvance, Repeat: 4},
			},
		},
		"staff-burnout": {
			Name:        "Staff Burnout",
			Description: "Leaning on extra shifts until stress alerts start eating into reputation.",
			Steps: []Step{
				{Action: ActionConverse, Staff: "Rin", Topic: "extra_shift", Repeat: 3},
				{Action: ActionConverse, Staff: "Omar", Topic: "extra_shift", Repeat: 3},
				{Action: ActionAdvance, Repeat: 3},
				{Action: ActionConverse, Staff: "Rin", Topic: "concerns"},
				{Action: ActionAdvance},
			},
		},
	}
}
