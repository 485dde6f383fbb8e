package scene

import "strings"

// SystemPrompt fixes the output contract for every scene request.
const SystemPrompt = `You are a simulation narrator and visual prompt engineer for a role-driven management sim.
Respond ONLY with valid JSON using this exact schema:
{
  "scene_text": "string",
  "image_prompt": "string"
}

Requirements:
- Both values are plain strings. Do not add any other keys.
- scene_text: 2-5 sentences, grounded in current simulation state and written as strict in-world roleplay narration.
- image_prompt: detailed clear colorful photorealistic visual prompt matching scene_text, with clear role-accurate worker behavior.
- Force role-accurate visuals: uniforms, posture, tools, and background tasks must match worker role and scene.
- Keep both outputs professional and grounded.
- Include environmental details (lighting, atmosphere, camera angle, texture).
- Preserve scene intent exactly: each scene must visually match the requested action and game context.
- When memory context or static prompt directives are given, carry them into both outputs.
- Never include markdown, code fences, or extra keys.`

const closingDirective = "Ensure image_prompt can be sent directly to an image model."

// Request is everything the client needs for one scene.
type Request struct {
	SceneName     string
	StateSummary  string
	ActionSummary string
	StyleGuide    string

	// Optional context lines, omitted from the prompt when empty.
	MemoryContext string
	RoleContext   string
	Directives    string

	// Seed is the image seed. Zero leaves the image unseeded.
	Seed int
}

// UserPrompt renders the per-call prompt. Inputs are embedded verbatim.
func UserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Generate the next scene for a venue manager simulation.\n\n")
	b.WriteString("Scene Type: " + req.SceneName + "\n")
	b.WriteString("Current State: " + req.StateSummary + "\n")
	b.WriteString("Player Action: " + req.ActionSummary + "\n")
	b.WriteString("Style Guide: " + req.StyleGuide + "\n")
	if req.MemoryContext != "" {
		b.WriteString("Memory Context: " + req.MemoryContext + "\n")
	}
	if req.RoleContext != "" {
		b.WriteString("Role Context: " + req.RoleContext + "\n")
	}
	if req.Directives != "" {
		b.WriteString("Static Prompt Directives: " + req.Directives + "\n")
	}
	b.WriteString("\n" + closingDirective)
	return b.String()
}
