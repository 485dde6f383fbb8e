// Plain line-oriented frontend for the venue simulation.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"venueops-sim/internal/venue"
)

const defaultWidth = 80

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Console runs the menu loop over a reader and writer.
type Console struct {
	sim   *venue.Simulation
	in    *bufio.Scanner
	lines chan string
	out   io.Writer
	width int
}

// New creates a Console. width <= 0 uses 80 columns.
func New(sim *venue.Simulation, in io.Reader, out io.Writer, width int) *Console {
	if width <= 0 {
		width = defaultWidth
	}
	return &Console{sim: sim, in: bufio.NewScanner(in), lines: make(chan string), out: out, width: width}
}

// readLines feeds input lines to prompt. It may stay blocked on a read after
// Run returns; it never touches the simulation.
func (c *Console) readLines() {
	defer close(c.lines)
	for c.in.Scan() {
		c.lines <- c.in.Text()
	}
}

// Run processes commands until quit, end of input or ctx cancellation.
// Each command is fully handled, scene included, before the next is read,
// so a cancelled ctx never interrupts a turn between mutation and journal.
func (c *Console) Run(ctx context.Context) error {
	go c.readLines()
	c.println(titleStyle.Render("=== Venue Manager Simulation ==="))
	c.println("Every scene uses text generation in JSON mode + dynamic image prompt generation.")
	for {
		if ctx.Err() != nil {
			c.println("\nSimulation ended.")
			return nil
		}
		c.printDashboard()
		c.println("")
		c.println("Choose an action:")
		c.println("1) Talk to staff")
		c.println("2) Assess applicant")
		c.println("3) Watch security cams")
		c.println("4) Advance day")
		c.println("5) Quit")
		choice, ok := c.prompt(ctx)
		if !ok {
			if ctx.Err() != nil {
				continue
			}
			c.println("Simulation ended.")
			return c.in.Err()
		}

		switch choice {
		case "1":
			c.talkToStaff(ctx)
		case "2":
			c.assessApplicant(ctx)
		case "3":
			c.watchCameras(ctx)
		case "4":
			c.narrate(ctx, c.sim.AdvanceDay())
		case "5":
			c.println("Simulation ended.")
			return nil
		default:
			c.println(warnStyle.Render("Unknown option."))
		}
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// prompt waits for the next line. It fails at end of input or when ctx is
// done.
func (c *Console) prompt(ctx context.Context) (string, bool) {
	fmt.Fprint(c.out, "> ")
	select {
	case line, ok := <-c.lines:
		return strings.TrimSpace(line), ok
	case <-ctx.Done():
		return "", false
	}
}

// choose reads a 1-based index into n options.
func (c *Console) choose(ctx context.Context, n int) (int, bool) {
	line, ok := c.prompt(ctx)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(line)
	if err != nil || i < 1 || i > n {
		c.println(warnStyle.Render("Invalid selection."))
		return 0, false
	}
	return i - 1, true
}

func (c *Console) printDashboard() {
	d := c.sim.Dashboard()
	c.println("")
	c.println(titleStyle.Render("=== Venue Manager Dashboard ==="))
	c.println(fmt.Sprintf("Day: %d | Cash: $%d | Reputation: %d", d.Day, d.Cash, d.Reputation))
	c.println("")
	c.println("Team:")
	for _, m := range d.Staff {
		c.println("- " + m.StatusLine())
	}
}

func (c *Console) talkToStaff(ctx context.Context) {
	names := c.sim.StaffNames()
	c.println("\nWho do you want to talk to?")
	for i, name := range names {
		c.println(fmt.Sprintf("%d) %s", i+1, name))
	}
	i, ok := c.choose(ctx, len(names))
	if !ok {
		return
	}
	m, _ := c.sim.StaffMember(names[i])
	c.println(fmt.Sprintf("\nConversation with %s (%s):", m.Name, m.Role))
	c.println("1) Praise professionalism")
	c.println("2) Ask for concerns")
	c.println("3) Request extra shift")
	act, ok := c.prompt(ctx)
	if !ok {
		return
	}

	topic := venue.TopicNone
	switch act {
	case "1":
		topic = venue.TopicPraise
	case "2":
		topic = venue.TopicConcerns
	case "3":
		topic = venue.TopicExtraShift
	}
	turn, err := c.sim.Converse(m.Name, topic)
	if err != nil {
		c.println(warnStyle.Render(err.Error()))
		return
	}
	c.narrate(ctx, turn)
}

func (c *Console) assessApplicant(ctx context.Context) {
	a := c.sim.NewApplicant()
	c.println(titleStyle.Render("\n--- Applicant Assessment ---"))
	c.println("Name: " + a.Name)
	c.println("Desired Role: " + a.DesiredRole)
	c.println(fmt.Sprintf("Metrics -> communication=%d, reliability=%d, teamwork=%d, score=%d",
		a.Communication, a.Reliability, a.Teamwork, a.Score()))
	c.println("1) Hire")
	c.println("2) Hold for later")
	c.println("3) Reject")
	decision, ok := c.prompt(ctx)
	if !ok {
		return
	}

	d := venue.DecisionNone
	switch decision {
	case "1":
		d = venue.DecisionHire
	case "2":
		d = venue.DecisionHold
	case "3":
		d = venue.DecisionReject
	}
	c.narrate(ctx, c.sim.DecideApplicant(a, d))
}

func (c *Console) watchCameras(ctx context.Context) {
	cams := c.sim.Cameras()
	c.println(titleStyle.Render("\n--- Security Cameras ---"))
	for _, cam := range cams {
		c.println(fmt.Sprintf("- %s: %s", cam.Location, cam.Status))
	}
	c.println("1) Dispatch patrol")
	c.println("2) Continue monitoring")
	c.println("3) Pull a camera frame")
	response, ok := c.prompt(ctx)
	if !ok {
		return
	}

	switch response {
	case "1":
		c.narrate(ctx, c.sim.ReviewCameras(venue.DispatchPatrol))
	case "3":
		c.println("Which feed?")
		for i, cam := range cams {
			c.println(fmt.Sprintf("%d) %s", i+1, cam.Location))
		}
		i, ok := c.choose(ctx, len(cams))
		if !ok {
			return
		}
		turn, err := c.sim.SnapshotCamera(cams[i].Location)
		if err != nil {
			c.println(warnStyle.Render(err.Error()))
			return
		}
		c.narrate(ctx, turn)
	default:
		c.narrate(ctx, c.sim.ReviewCameras(venue.ContinueMonitoring))
	}
}

func (c *Console) narrate(ctx context.Context, turn venue.Turn) {
	c.println(dimStyle.Render("Generating scene..."))
	out := c.sim.Narrate(ctx, turn)

	model := out.ModelUsed
	if out.Fallback() {
		model = warnStyle.Render(model)
	}
	c.println(titleStyle.Render("\n--- Generated Scene ---"))
	c.println(labelStyle.Render("Model: ") + model)
	c.println(labelStyle.Render("Text: ") + wordwrap.String(out.SceneText, c.width-6))
	c.println(labelStyle.Render("Image Prompt: ") + out.ImagePrompt)
	c.println(labelStyle.Render("Image URL: ") + out.ImageURL)
}
