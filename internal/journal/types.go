// Turn rows exported by the simulation
package journal

import "time"

// TurnRow records one narrated turn: the state right after the action and
// the generated scene.
type TurnRow struct {
	SessionID       string    `json:"session_id" db:"session_id"`
	TurnID          string    `json:"turn_id" db:"turn_id"`
	Day             int       `json:"day" db:"day"`
	Cash            int       `json:"cash" db:"cash"`
	Reputation      int       `json:"reputation" db:"reputation"`
	StaffCount      int       `json:"staff_count" db:"staff_count"`
	Scene           string    `json:"scene" db:"scene"`
	Action          string    `json:"action" db:"action"`
	SceneText       string    `json:"scene_text" db:"scene_text"`
	ImagePrompt     string    `json:"image_prompt" db:"image_prompt"`
	ImageURL        string    `json:"image_url" db:"image_url"`
	ModelUsed       string    `json:"model_used" db:"model_used"`
	Fallback        bool      `json:"fallback" db:"fallback"`
	FailureCategory string    `json:"failure_category,omitempty" db:"failure_category"`
	Timestamp       time.Time `json:"ts" db:"ts"`
}

// Writer accepts turn rows.
type Writer interface {
	WriteTurn(row TurnRow) error
}

// batchWriter is implemented by writers that can write several rows at once.
type batchWriter interface {
	WriteTurns(rows []TurnRow) error
}
