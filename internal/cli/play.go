package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/minicube"
	"github.com/SeamusWaldron/minicube/internal/render"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive cube view",
	Long: `Open the interactive terminal view of the cube.

Keyboard shortcuts:
  1-6      - Turn top, bottom, front, back, left, right
  arrows   - Orbit the camera (also w/a/s/d, or drag with the mouse)
  +/-      - Zoom in/out
  h        - Show controls
  d        - Toggle the slot table
  q/Esc    - Quit

Every completed turn is journaled unless --no-journal is given.`,
	RunE: runPlay,
}

var (
	playSeed      uint64
	playSteps     int
	playNoJournal bool
	playNotes     string
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "Seed for the colour shuffle (default: config, else random)")
	playCmd.Flags().IntVar(&playSteps, "steps", 0, "Ticks per quarter turn (default: config)")
	playCmd.Flags().BoolVar(&playNoJournal, "no-journal", false, "Do not journal this session")
	playCmd.Flags().StringVar(&playNotes, "notes", "", "Notes stored with the journal session")
}

func runPlay(cmd *cobra.Command, args []string) error {
	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = playSeed
	}
	steps := cfg.AnimationSteps
	if cmd.Flags().Changed("steps") {
		steps = playSteps
	}

	m, err := newMachine(seed, steps)
	if err != nil {
		return err
	}

	var j *journal
	if cfg.Journal && !playNoJournal {
		j, err = startJournal(m, steps, playNotes)
		if err != nil {
			return err
		}
	}

	return runView(m, j)
}

// runView runs the interactive view until the user quits. It closes j.
func runView(m *minicube.Machine, j *journal) error {
	defer j.Close()

	restore, err := logToFile()
	if err != nil {
		return err
	}
	defer restore()

	model := newPlayModel(m, j, time.Duration(cfg.TickMs)*time.Millisecond)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("view error: %w", err)
	}

	fmt.Printf("Turns: %d\n", m.Turns())
	if j != nil {
		fmt.Printf("Session: %s\n", j.session.SessionID())
	}
	return nil
}

// Messages
type tickMsg time.Time

const (
	keyOrbitStep   = 40.0
	mouseOrbitStep = 20.0
	headerLines    = 3
	footerLines    = 3
)

// controlsText lists the bindings shown by the h key.
const controlsText = `CONTROLS:
Press 1 - 90 degree rotation of the top face.
Press 2 - 90 degree rotation of the bottom face.
Press 3 - 90 degree rotation of the front face.
Press 4 - 90 degree rotation of the back face.
Press 5 - 90 degree rotation of the left face.
Press 6 - 90 degree rotation of the right face.
Arrows/wasd or mouse drag - orbit camera, +/- zoom, d - slot table, q - quit.`

// Model
type playModel struct {
	machine *minicube.Machine
	journal *journal
	camera  render.Camera
	tick    time.Duration

	// UI
	width    int
	height   int
	showHelp bool
	debug    bool
	notice   string
	err      error
	quitting bool

	// Mouse orbit
	dragging bool
	lastX    int
	lastY    int
}

func newPlayModel(m *minicube.Machine, j *journal, tick time.Duration) *playModel {
	return &playModel{
		machine: m,
		journal: j,
		camera: render.Camera{
			Theta:  cfg.Camera.Theta,
			Phi:    cfg.Camera.Phi,
			Radius: cfg.Camera.Radius,
		},
		tick:   tick,
		width:  80,
		height: 24,
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) Init() tea.Cmd {
	return tickCmd(m.tick)
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.machine.Tick()
		if m.journal != nil {
			m.err = m.journal.session.LastError()
		}
		return m, tickCmd(m.tick)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	return m, nil
}

func (m *playModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "h":
		m.showHelp = !m.showHelp

	case "d":
		m.debug = !m.debug

	case "left", "a":
		m.camera.Orbit(keyOrbitStep, 0)
	case "right": // d toggles the slot table
		m.camera.Orbit(-keyOrbitStep, 0)
	case "up", "w":
		m.camera.Orbit(0, keyOrbitStep)
	case "down", "s":
		m.camera.Orbit(0, -keyOrbitStep)

	case "+", "=":
		m.camera.Zoom(-1)
	case "-":
		m.camera.Zoom(1)

	default:
		m.submitKey(key)
	}
	return m, nil
}

// submitKey turns the face bound to key. Unbound keys and keys pressed
// while a turn is rotating are ignored.
func (m *playModel) submitKey(key string) {
	face, err := minicube.FaceByKey(key)
	if err != nil {
		return
	}
	err = m.machine.Submit(face)
	switch {
	case err == nil:
		m.notice = ""
	case errors.Is(err, minicube.ErrTurnInProgress):
		m.notice = fmt.Sprintf("%s ignored: turn in progress", face)
		logrus.WithField("face", face.String()).Debug("command dropped while rotating")
	default:
		m.notice = err.Error()
	}
}

func (m *playModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case tea.MouseActionMotion:
		if m.dragging {
			dx := float64(msg.X-m.lastX) * mouseOrbitStep
			dy := float64(msg.Y-m.lastY) * mouseOrbitStep
			m.camera.Orbit(dx, dy)
			m.lastX, m.lastY = msg.X, msg.Y
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
}

func (m *playModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("minicube"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(helpStyle.Render(controlsText))
		b.WriteString("\n")
		return b.String()
	}

	viewHeight := m.height - headerLines - footerLines
	if m.debug {
		viewHeight -= minicube.SlotCount + 1
	}
	if viewHeight > 0 {
		b.WriteString(render.View(m.machine.Cubelets(), m.camera, m.width, viewHeight))
		b.WriteString("\n")
	}

	if m.debug {
		b.WriteString(statusStyle.Render(strings.TrimRight(m.machine.Store().String(), "\n")))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("journal: %v", m.err)))
	} else if m.notice != "" {
		b.WriteString(statusStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1-6=turn  arrows=orbit  +/-=zoom  h=help  d=slots  q=quit"))

	return b.String()
}

func (m *playModel) statusLine() string {
	parts := []string{fmt.Sprintf("turns: %d", m.machine.Turns())}
	if turn, ok := m.machine.ActiveTurn(); ok {
		parts = append(parts, faceStyle.Render(fmt.Sprintf("turning %s %3.0f%%", turn.Face.Face, turn.Fraction()*100)))
	} else {
		parts = append(parts, statusStyle.Render(m.machine.State().String()))
	}
	if m.journal != nil {
		parts = append(parts, statusStyle.Render("journal on"))
	}
	return strings.Join(parts, "  ")
}
