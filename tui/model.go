// Package tui is the queue console as a terminal program. It renders the same
// controller as the web page over an in-memory document.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/octabyte/bm-queue-console/console"
	"github.com/octabyte/bm-queue-console/enums"
)

const refreshInterval = 250 * time.Millisecond

type (
	statsLoadedMsg struct{}
	publishedMsg   struct{}
	tickMsg        time.Time
)

type Model struct {
	ctx  context.Context
	ctrl *console.Controller
	doc  *console.MemoryDocument

	focus int
	width int
}

var _ tea.Model = (*Model)(nil)

func New(ctx context.Context, api console.API, opts console.Options) *Model {
	doc := console.NewConsoleDocument()
	return &Model{
		ctx:  ctx,
		ctrl: console.New(doc, api, opts),
		doc:  doc,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadStats(), tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		return m, tick()
	case statsLoadedMsg, publishedMsg:
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "f1":
		m.selectTab(enums.TabNormal)
	case "f2":
		m.selectTab(enums.TabChannel)
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields())
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.fields()) - 1) % len(m.fields())
	case "ctrl+r":
		return m.loadStats()
	case "enter":
		return m.submit()
	case "backspace":
		el := m.focused()
		if r := []rune(el.Value()); len(r) > 0 {
			el.SetValue(string(r[:len(r)-1]))
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			el := m.focused()
			el.SetValue(el.Value() + string(msg.Runes))
		}
	}
	return nil
}

func (m *Model) selectTab(tab enums.Tab) {
	m.ctrl.SelectTab(console.ClickEvent{}, tab)
	m.focus = 0
}

func (m *Model) loadStats() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.LoadStats(m.ctx)
		return statsLoadedMsg{}
	}
}

func (m *Model) submit() tea.Cmd {
	form := console.IDFormNormal
	if m.ctrl.State().ActiveTab == enums.TabChannel {
		form = console.IDFormCanal
	}
	ev := console.SubmitEvent{Target: m.doc.ByID(form)}

	return func() tea.Msg {
		m.ctrl.Submit(m.ctx, ev)
		return publishedMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type field struct {
	id    string
	label string
}

func (m *Model) fields() []field {
	if m.ctrl.State().ActiveTab == enums.TabChannel {
		return []field{
			{console.IDEmailCanal, "E-mail"},
			{console.IDMensagemCanal, "Mensagem"},
			{console.IDCanal, "Canal"},
		}
	}
	return []field{
		{console.IDEmailNormal, "E-mail"},
		{console.IDMensagemNormal, "Mensagem"},
	}
}

func (m *Model) focused() *console.MemoryElement {
	fields := m.fields()
	if m.focus >= len(fields) {
		m.focus = 0
	}
	return m.doc.Get(fields[m.focus].id)
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Console da Fila"))
	b.WriteString("\n")
	b.WriteString(m.statsView())
	b.WriteString("\n\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")
	b.WriteString(m.formView())

	if toast := m.toastView(); toast != "" {
		b.WriteString("\n\n")
		b.WriteString(toast)
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("F1/F2 abas · Tab campos · Enter enviar · Ctrl+R atualizar · Esc sair"))
	return b.String()
}

func (m *Model) statsView() string {
	line := func(label, id string) string {
		return LabelStyle.Render(label) + m.doc.Get(id).Text()
	}
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		line("Fila", console.IDQueueName),
		line("Estado", console.IDQueueStatus),
		line("Região", console.IDQueueRegion),
	))
}

func (m *Model) tabsView() string {
	var tabs []string
	for _, btn := range m.doc.ByClass(console.ClassTabButton) {
		label := "Mensagem"
		if enums.Tab(btn.Attr(console.AttrTab)) == enums.TabChannel {
			label = "Mensagem com canal"
		}
		if btn.ClassList().Contains(console.ClassActive) {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) formView() string {
	var lines []string
	for i, f := range m.fields() {
		value := m.doc.Get(f.id).Value()
		if i == m.focus {
			value = FocusedStyle.Render(value + "█")
		}
		lines = append(lines, LabelStyle.Render(f.label)+value)
	}

	form := console.IDFormNormal
	if m.ctrl.State().ActiveTab == enums.TabChannel {
		form = console.IDFormCanal
	}
	if btn := m.doc.Get(form).Query(console.SubmitButtonSelector); btn != nil {
		label := "[ " + btn.Text() + " ]"
		if btn.Disabled() {
			label = DisabledStyle.Render(label)
		}
		lines = append(lines, "", label)
	}

	return strings.Join(lines, "\n")
}

// toastView renders the toast while it has the show class.
func (m *Model) toastView() string {
	toast := m.doc.Get(console.IDToast)
	classes := toast.ClassList()
	if !classes.Contains(console.ClassShow) {
		return ""
	}

	kind := ""
	for _, c := range strings.Fields(toast.Class()) {
		if c != "toast" && c != console.ClassShow {
			kind = c
		}
	}
	return toastStyle(kind).Render(toast.Text())
}

// Document exposes the rendered page, mainly for tests.
func (m *Model) Document() *console.MemoryDocument {
	return m.doc
}
