package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-midirecv/midi"
	"go-midirecv/theme"
	"go-midirecv/widgets"
)

// activeFor is how long a channel stays lit after a message
const activeFor = 150 * time.Millisecond

// Feed is what the monitor reads from; *midi.DeviceManager implements it
type Feed interface {
	Events() <-chan midi.DeviceEvent
	Messages() <-chan midi.PortMessage
	Status() []midi.InputStatus
}

type entry struct {
	port string
	msg  midi.Message
}

type Model struct {
	Feed    Feed
	Theme   *theme.Theme
	History int

	entries  []entry
	counts   map[midi.Kind]int
	lastSeen [16]time.Time
	muted    [16]bool
	ports    []string
	quitting bool
	now      func() time.Time
}

type MessageMsg midi.PortMessage

type DeviceEventMsg midi.DeviceEvent

type tickMsg time.Time

// NewModel creates the monitor. channels, if non-empty, limits the
// display to those channels (1-16).
func NewModel(feed Feed, th *theme.Theme, history int, channels []int) Model {
	if history <= 0 {
		history = 200
	}
	m := Model{
		Feed:    feed,
		Theme:   th,
		History: history,
		counts:  make(map[midi.Kind]int),
		now:     time.Now,
	}
	if len(channels) > 0 {
		for i := range m.muted {
			m.muted[i] = true
		}
		for _, ch := range channels {
			if ch >= 1 && ch <= 16 {
				m.muted[ch-1] = false
			}
		}
	}
	return m
}

func ListenForMessages(feed Feed) tea.Cmd {
	return func() tea.Msg {
		pm, ok := <-feed.Messages()
		if !ok {
			return nil
		}
		return MessageMsg(pm)
	}
}

func ListenForDevices(feed Feed) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-feed.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForMessages(m.Feed),
		ListenForDevices(m.Feed),
		tick(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "c":
			m.entries = nil
			m.counts = make(map[midi.Kind]int)

		case "a":
			m.muted = [16]bool{}

		case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
			idx := int(key[0] - '1')
			if key == "0" {
				idx = 9
			}
			m.muted[idx] = !m.muted[idx]
		}

	case MessageMsg:
		m.record(midi.PortMessage(msg))
		return m, ListenForMessages(m.Feed)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.ports = append(m.ports, event.ID)
		} else if event.Type == midi.DeviceDisconnected {
			for i, id := range m.ports {
				if id == event.ID {
					m.ports = append(m.ports[:i], m.ports[i+1:]...)
					break
				}
			}
		}
		return m, ListenForDevices(m.Feed)

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m *Model) record(pm midi.PortMessage) {
	ch := int(pm.Message.Channel) - 1
	if ch < 0 || ch > 15 {
		return
	}
	m.lastSeen[ch] = m.now()
	if m.muted[ch] {
		return
	}

	m.counts[pm.Message.Kind]++
	m.entries = append(m.entries, entry{port: pm.Port, msg: pm.Message})
	if len(m.entries) > m.History {
		m.entries = m.entries[len(m.entries)-m.History:]
	}
}

func (m Model) channelCells() [16]widgets.ChannelCell {
	var cells [16]widgets.ChannelCell
	now := m.now()
	for i := range cells {
		switch {
		case m.muted[i]:
			cells[i] = widgets.ChannelCell{Color: m.Theme.Palette.Lookup(theme.RoleMuted), Symbol: m.Theme.Symbols.ChannelMuted}
		case !m.lastSeen[i].IsZero() && now.Sub(m.lastSeen[i]) < activeFor:
			cells[i] = widgets.ChannelCell{Color: m.Theme.Palette.Lookup(theme.RoleSuccess), Symbol: m.Theme.Symbols.ChannelActive}
		default:
			cells[i] = widgets.ChannelCell{Color: m.Theme.Palette.Lookup(theme.RoleFG), Symbol: m.Theme.Symbols.ChannelIdle}
		}
	}
	return cells
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	ports := "no inputs"
	if len(m.ports) > 0 {
		ports = strings.Join(m.ports, ", ")
	}
	header := headerStyle.Render(fmt.Sprintf("go-midirecv  %s", ports))

	var counts []string
	for _, k := range midi.Kinds {
		if n := m.counts[k]; n > 0 {
			counts = append(counts, lipgloss.NewStyle().Foreground(m.Theme.Kind(k)).Render(fmt.Sprintf("%s:%d", k, n)))
		}
	}

	var status []string
	for _, s := range m.Feed.Status() {
		line := fmt.Sprintf("%s  ok:%d invalid:%d", s.ID, s.Stats.Delivered, s.Stats.Invalid)
		if s.Dropped > 0 {
			line += warnStyle.Render(fmt.Sprintf(" dropped:%d", s.Dropped))
		}
		status = append(status, dimStyle.Render(line))
	}

	// Show the most recent entries that fit a typical terminal
	recent := m.entries
	if len(recent) > 20 {
		recent = recent[len(recent)-20:]
	}
	var lines []string
	for _, e := range recent {
		lines = append(lines, widgets.RenderMessageLine(m.Theme.KindRGB(e.msg.Kind), e.port, e.msg.Raw(), e.msg.String()))
	}

	help := dimStyle.Render("1-0:toggle ch1-10  a:all channels  c:clear  q:quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderChannelStrip(m.channelCells()))
	out.WriteString("\n\n")
	if len(counts) > 0 {
		out.WriteString(strings.Join(counts, "  "))
		out.WriteString("\n")
	}
	if len(status) > 0 {
		out.WriteString(strings.Join(status, "\n"))
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(strings.Join(lines, "\n"))
	out.WriteString("\n\n")
	out.WriteString(help)

	return out.String()
}
