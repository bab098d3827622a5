package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/scaleseq/scaleseq/sequencer"
)

type (
	Model struct {
		seq      *sequencer.Sequencer
		engine   *engine
		output   string // name of the MIDI output, if any
		savePath string

		step     sequencer.StepMsg
		cursor   int
		slot     int // slot the file prompt loads into
		input    textinput.Model
		inputKey string // state key being entered, empty if not prompting
		alert    sequencer.Alert
		alertEnd time.Time
		quitting bool
	}

	StepMsg  sequencer.StepMsg
	AlertMsg sequencer.Alert
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stepStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	currentStyle = stepStyle.BorderForeground(lipgloss.Color("10")).Foreground(lipgloss.Color("10")).Bold(true)
	cursorStyle  = stepStyle.BorderForeground(lipgloss.Color("12"))
	slotColors   = [sequencer.NumSlots]lipgloss.Color{"15", "11", "13", "14"}
	alertStyles  = map[sequencer.AlertPriority]lipgloss.Style{
		sequencer.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		sequencer.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		sequencer.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

func NewModel(seq *sequencer.Sequencer, e *engine, output, savePath string) Model {
	return Model{seq: seq, engine: e, output: output, savePath: savePath, slot: 1, input: initInput()}
}

func initInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "path to file"
	ti.Prompt = ""
	ti.Width = 60
	return ti
}

func ListenForSteps(b *sequencer.Broker) tea.Cmd {
	return func() tea.Msg {
		return StepMsg(<-b.ToMonitor)
	}
}

func ListenForAlerts(b *sequencer.Broker) tea.Cmd {
	return func() tea.Msg {
		return AlertMsg(<-b.Alerts)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForSteps(m.seq.Broker()),
		ListenForAlerts(m.seq.Broker()),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.inputKey != "" {
		return m.updateInput(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		p := m.seq.Params()
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			m.cursor = (m.cursor + sequencer.NumSteps - 1) % sequencer.NumSteps
		case "right", "l":
			m.cursor = (m.cursor + 1) % sequencer.NumSteps
		case " ", "enter":
			m.seq.CycleStep(m.cursor)
		case "1", "2", "3", "4":
			m.seq.SetParameter(sequencer.StepParam(m.cursor), float64(msg.String()[0]-'0'))
		case "p":
			m.engine.TogglePlaying()
		case "r":
			m.engine.Rewind()
		case "+", "=":
			m.engine.SetBPM(m.engine.BPM() + 5)
		case "-", "_":
			m.engine.SetBPM(m.engine.BPM() - 5)
		case "m":
			m.seq.SetParameter(sequencer.ParamMeasure, float64(1-p.Int(sequencer.ParamMeasure)))
		case "]":
			m.seq.SetParameter(sequencer.ParamMultiplier, p.Get(sequencer.ParamMultiplier)+1)
		case "[":
			m.seq.SetParameter(sequencer.ParamMultiplier, p.Get(sequencer.ParamMultiplier)-1)
		case ".":
			m.seq.SetParameter(sequencer.ParamOffset, p.Get(sequencer.ParamOffset)+0.125)
		case ",":
			m.seq.SetParameter(sequencer.ParamOffset, p.Get(sequencer.ParamOffset)-0.125)
		case "g":
			m.seq.SetParameter(sequencer.ParamScaleGlide, p.Get(sequencer.ParamScaleGlide)*2)
		case "G":
			m.seq.SetParameter(sequencer.ParamScaleGlide, p.Get(sequencer.ParamScaleGlide)/2)
		case "tab":
			m.slot = m.slot%sequencer.NumSlots + 1
		case "o":
			return m.prompt(sequencer.SCLKey(m.slot))
		case "O":
			return m.prompt(sequencer.KBMKey(m.slot))
		case "s":
			m.showAlert(m.save())
		}
	case StepMsg:
		m.step = sequencer.StepMsg(msg)
		return m, ListenForSteps(m.seq.Broker())
	case AlertMsg:
		m.showAlert(sequencer.Alert(msg))
		return m, ListenForAlerts(m.seq.Broker())
	}
	return m, nil
}

func (m Model) prompt(key string) (tea.Model, tea.Cmd) {
	m.inputKey = key
	path, _ := m.seq.State(key)
	m.input.SetValue(path)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
	case "enter":
		if path := strings.TrimSpace(m.input.Value()); path != "" {
			if a, ok := m.load(m.inputKey, path); ok {
				m.showAlert(a)
			}
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.inputKey = ""
	m.input.Blur()
	return m, nil
}

// load sets a tuning file of the selected slot. Files that do not parse or
// have the wrong extension raise their own alerts in the sequencer; the
// returned alert covers the other outcomes.
func (m Model) load(key, path string) (sequencer.Alert, bool) {
	a := sequencer.Alert{Name: "load", Priority: sequencer.Info, Duration: sequencer.DefaultAlertDuration}
	before := m.seq.Store().Version(m.slot)
	if err := m.seq.SetState(key, path); err != nil {
		return a, false
	}
	if v, _ := m.seq.State(key); v != path {
		return a, false
	}
	if m.seq.Store().Version(m.slot) == before {
		a.Priority = sequencer.Warning
		a.Message = fmt.Sprintf("Could not open %s.\nSlot %d unchanged.", path, m.slot)
		return a, true
	}
	a.Message = fmt.Sprintf("Loaded %s into slot %d", filepath.Base(path), m.slot)
	return a, true
}

func (m *Model) showAlert(a sequencer.Alert) {
	if a.Priority < m.alert.Priority && time.Now().Before(m.alertEnd) {
		return
	}
	m.alert = a
	m.alertEnd = time.Now().Add(a.Duration)
}

func (m Model) save() sequencer.Alert {
	a := sequencer.Alert{Name: "save", Priority: sequencer.Info, Duration: sequencer.DefaultAlertDuration}
	data, err := m.seq.MarshalState()
	if err == nil {
		err = os.WriteFile(m.savePath, data, 0644)
	}
	if err != nil {
		a.Priority, a.Message = sequencer.Error, fmt.Sprintf("Could not save preset: %v", err)
		return a
	}
	a.Message = "Preset saved to " + m.savePath
	return a
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	p := m.seq.Params()
	playState := "STOP"
	if m.engine.Playing() {
		playState = "PLAY"
	}
	mts := "MTS: off"
	if m.seq.Broadcasting() {
		mts = "MTS: master"
		if m.output != "" {
			mts += " -> " + m.output
		}
	}
	header := headerStyle.Render(fmt.Sprintf("scaleseq  %s  %3.0fbpm  %s", playState, m.engine.BPM(), mts))
	info := sequencer.Schema
	settings := fmt.Sprintf("%s x%s  offset %+.3f  glide %.1f",
		info[sequencer.ParamMeasure].Label(p.Get(sequencer.ParamMeasure)),
		info[sequencer.ParamMultiplier].Label(p.Get(sequencer.ParamMultiplier)),
		p.Get(sequencer.ParamOffset),
		p.Get(sequencer.ParamScaleGlide))

	cells := make([]string, sequencer.NumSteps)
	for i := range cells {
		slot := p.Step(i)
		style := stepStyle.Foreground(slotColors[slot-1])
		if i == m.cursor {
			style = cursorStyle.Foreground(slotColors[slot-1])
		}
		if m.seq.StepHighlighted(i) {
			style = currentStyle
		}
		cells[i] = style.Render(fmt.Sprintf("%d", slot))
	}
	steps := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	cursor := strings.Repeat(" ", m.cursor*5+2) + "^"

	var slots strings.Builder
	for slot := 1; slot <= sequencer.NumSlots; slot++ {
		t := m.seq.Store().Tuning(slot)
		s, mp := t.Scale(), t.Mapping()
		name := s.Description
		if s.Name != "" {
			name = s.Name + ": " + name
		}
		mapping := mp.Name
		if mapping == "" {
			mapping = "linear mapping"
		}
		marker := " "
		if slot == m.step.Slot {
			marker = ">"
		}
		selected := " "
		if slot == m.slot {
			selected = "*"
		}
		line := fmt.Sprintf("%s%s%d  %s  (%s, A4 %.2f Hz, loaded %d times)", marker, selected, slot, name, mapping,
			t.FrequencyForNote(69), m.seq.Store().Version(slot))
		slots.WriteString(lipgloss.NewStyle().Foreground(slotColors[slot-1]).Render(line))
		slots.WriteString("\n")
	}

	alert := ""
	if time.Now().Before(m.alertEnd) {
		alert = alertStyles[m.alert.Priority].Render(m.alert.Message)
	}
	help := dimStyle.Render("h/l:step  space:cycle  1-4:slot  tab:select slot  o/O:load scl/kbm  p:play  r:rewind  +/-:tempo  m:measure  [/]:multiplier  ,/.:offset  g/G:glide  s:save  q:quit")
	if m.inputKey != "" {
		kind := "Scale (.scl)"
		if m.inputKey == sequencer.KBMKey(m.slot) {
			kind = "Mapping (.kbm)"
		}
		help = headerStyle.Render(fmt.Sprintf("%s of slot %d: ", kind, m.slot)) + m.input.View() + dimStyle.Render("  enter:load  esc:cancel")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, settings, steps, cursor, slots.String(), alert, help)
}
