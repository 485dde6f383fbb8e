// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Client configures the scene-generation client. Values are copied into the
// client at construction and never change afterwards.
type Client struct {
	BaseURL     string        `yaml:"base_url"`
	TextModel   string        `yaml:"text_model"`
	ImageModel  string        `yaml:"image_model"`
	ImageWidth  int           `yaml:"image_width"`
	ImageHeight int           `yaml:"image_height"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	// APIKey is only ever read from the environment.
	APIKey string `yaml:"-"`
}

// Staff describes a starting team member.
type Staff struct {
	Name        string   `yaml:"name"`
	Role        string   `yaml:"role"`
	Morale      int      `yaml:"morale"`
	Trust       int      `yaml:"trust"`
	Stress      int      `yaml:"stress"`
	Description string   `yaml:"description"`
	Memories    []string `yaml:"memories"`
}

// Camera describes a fixed security feed.
type Camera struct {
	Location  string `yaml:"location"`
	Status    string `yaml:"status"`
	Directive string `yaml:"directive"`
}

// Rules holds the economic and hiring constants of the venue.
type Rules struct {
	HireThreshold    int `yaml:"hire_threshold"`
	HiringCost       int `yaml:"hiring_cost"`
	HireBonus        int `yaml:"hire_bonus"`
	RiskyHirePenalty int `yaml:"risky_hire_penalty"`
	PayrollPerStaff  int `yaml:"payroll_per_staff"`
	RevenueMin       int `yaml:"revenue_min"`
	RevenueMax       int `yaml:"revenue_max"`
	StressAlert      int `yaml:"stress_alert"`
	PatrolCost       int `yaml:"patrol_cost"`
	ExtraShiftPay    int `yaml:"extra_shift_pay"`
}

// Directives are static visual directives mixed into every image prompt.
type Directives struct {
	Global string            `yaml:"global"`
	Scenes map[string]string `yaml:"scenes"`
}

// Venue is the starting state and rule set of the simulation.
type Venue struct {
	StartingCash       int        `yaml:"starting_cash"`
	StartingReputation int        `yaml:"starting_reputation"`
	StyleGuide         string     `yaml:"style_guide"`
	Rules              Rules      `yaml:"rules"`
	Directives         Directives `yaml:"directives"`
	Staff              []Staff    `yaml:"staff"`
	Cameras            []Camera   `yaml:"cameras"`
	ApplicantNames     []string   `yaml:"applicant_names"`
	ApplicantRoles     []string   `yaml:"applicant_roles"`
}

// Config is the root configuration.
type Config struct {
	Client Client `yaml:"client"`
	Venue  Venue  `yaml:"venue"`
}

// DefaultClient returns the client settings used when nothing overrides them.
func DefaultClient() Client {
	return Client{
		BaseURL:     "https://gen.pollinations.ai",
		TextModel:   "openai-large",
		ImageModel:  "flux",
		ImageWidth:  1024,
		ImageHeight: 1024,
		Temperature: 0.8,
		Timeout:     30 * time.Second,
	}
}

// Default returns the built-in venue with six staff and four cameras.
func Default() Config {
	return Config{
		Client: DefaultClient(),
		Venue: Venue{
			StartingCash:       18000,
			StartingReputation: 58,
			StyleGuide:         "clear style venue management sim, colorful photorealistic look, role-authentic staging, clear visuals, rich atmosphere, realistic operations",
			Rules: Rules{
				HireThreshold:    65,
				HiringCost:       900,
				HireBonus:        2,
				RiskyHirePenalty: 2,
				PayrollPerStaff:  550,
				RevenueMin:       2800,
				RevenueMax:       5300,
				StressAlert:      72,
				PatrolCost:       250,
				ExtraShiftPay:    600,
			},
			Directives: Directives{
				Global: "clear visual style, bright balanced lighting, vivid full-color photorealistic rendering, hospitality venue operations, high detail, clean composition",
				Scenes: map[string]string{
					"Employee Conversation":  "medium shot portrait with workplace background, expressive face, role-authentic uniform and tools, story-rich environment",
					"Applicant Assessment":   "interview desk composition, dossier props, neutral posture, realistic skin tones and shadows",
					"Security Monitoring":    "wide-angle monitor wall, timestamp overlay style, realistic low-fps still-frame vibe",
					"Security Camera Stream": "cctv still frame, timestamp overlay style, wide-angle, realistic low-fps surveillance look",
					"End of Day Summary":     "manager office with organized paperwork and monitor wall, daylight-balanced light, photorealistic color grading",
				},
			},
			Staff: []Staff{
				{Name: "Mila", Role: "Operations Supervisor", Morale: 74, Trust: 61, Stress: 33, Description: "keeps the floor schedule tight and calm under pressure"},
				{Name: "Jordan", Role: "Hospitality Mixologist", Morale: 69, Trust: 53, Stress: 40, Description: "runs the bar and remembers every regular's order"},
				{Name: "Rin", Role: "Security Lead", Morale: 72, Trust: 57, Stress: 36, Description: "handles door policy and de-escalation quietly"},
				{Name: "Kai", Role: "Client Relations Concierge", Morale: 76, Trust: 59, Stress: 34, Description: "owns bookings, upgrades and guest follow-ups"},
				{Name: "Selene", Role: "Private Suite Steward", Morale: 71, Trust: 56, Stress: 37, Description: "prepares the private lounges for reserved groups"},
				{Name: "Omar", Role: "Housekeeping & Hygiene Lead", Morale: 73, Trust: 58, Stress: 31, Description: "keeps linen, surfaces and supplies inspection-ready"},
			},
			Cameras: []Camera{
				{Location: "Entrance", Status: "steady arrivals and ID checks"},
				{Location: "Main Hall", Status: "music, table service, active floor"},
				{Location: "Private Corridor", Status: "controlled access and calm flow"},
				{Location: "Back Office", Status: "inventory and scheduling review"},
			},
			ApplicantNames: []string{"Avery", "Noor", "Casey", "Sami", "Jules", "Remy", "Parker"},
			ApplicantRoles: []string{
				"Guest Experience Host",
				"Client Relations Concierge",
				"Security Lead",
				"Hospitality Mixologist",
				"Floor Operations Coordinator",
				"Private Suite Steward",
				"Housekeeping & Hygiene Lead",
			},
		},
	}
}

// Load reads a YAML config, validates it against the CUE schema and layers
// it over Default(). An empty configPath returns the defaults. An empty
// cueSchemaPath uses the embedded schema.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read YAML config: %w", err)
	}

	schema := embeddedSchema
	if cueSchemaPath != "" {
		schema, err = os.ReadFile(cueSchemaPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read CUE schema: %w", err)
		}
	}
	if err := ValidateWithCue(data, schema); err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal YAML config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("loaded configuration", "path", configPath, "staff", len(cfg.Venue.Staff), "cameras", len(cfg.Venue.Cameras))
	return &cfg, nil
}

// Validate checks the cross-field rules the schema cannot express.
func (c Config) Validate() error {
	r := c.Venue.Rules
	if r.RevenueMin > r.RevenueMax {
		return fmt.Errorf("revenue_min %d exceeds revenue_max %d", r.RevenueMin, r.RevenueMax)
	}
	if len(c.Venue.ApplicantNames) == 0 || len(c.Venue.ApplicantRoles) == 0 {
		return fmt.Errorf("applicant_names and applicant_roles must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Venue.Staff))
	for _, s := range c.Venue.Staff {
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("duplicate staff name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	cams := make(map[string]struct{}, len(c.Venue.Cameras))
	for _, cam := range c.Venue.Cameras {
		if _, ok := cams[cam.Location]; ok {
			return fmt.Errorf("duplicate camera location %q", cam.Location)
		}
		cams[cam.Location] = struct{}{}
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client timeout must be positive")
	}
	return nil
}
