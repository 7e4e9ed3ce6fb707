package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	coreapp "incdeps/internal/core/app"
	"incdeps/internal/engine/graph"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	unresolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

type item struct {
	title, desc string
	component   int
	isCycle     bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type model struct {
	list       list.Model
	analyzer   *graph.Analyzer
	summary    graph.Summary
	lastUpdate time.Time
	lastErr    string
	details    string
}

type updateMsg struct {
	analyzer *graph.Analyzer
	err      error
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Components (build order)"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{list: l, lastUpdate: time.Now()}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			m.details = m.selectedDetails()
			return m, nil
		case "esc":
			if m.details != "" {
				m.details = ""
				return m, nil
			}
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.lastUpdate = time.Now()
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		m.details = ""
		m.analyzer = msg.analyzer
		m.summary = msg.analyzer.Summary()
		cmd := m.list.SetItems(componentItems(msg.analyzer))
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// componentItems lists components layer by layer, deepest dependencies
// first, so the list reads in build order.
func componentItems(a *graph.Analyzer) []list.Item {
	var items []list.Item
	for depth, layer := range a.Layers() {
		for _, index := range layer {
			c, ok := a.Component(index)
			if !ok {
				continue
			}
			desc := fmt.Sprintf("depth %d | %d dependencies", depth, len(a.ReducedEdges().Targets(index)))
			if c.IsCycle() {
				desc = fmt.Sprintf("depth %d | include cycle: %s", depth, strings.Join(c.Members, ", "))
			}
			items = append(items, item{
				title:     c.Name,
				desc:      desc,
				component: index,
				isCycle:   c.IsCycle(),
			})
		}
	}
	return items
}

func (m model) selectedDetails() string {
	selected, ok := m.list.SelectedItem().(item)
	if !ok || m.analyzer == nil {
		return ""
	}
	c, ok := m.analyzer.Component(selected.component)
	if !ok {
		return ""
	}
	report, err := m.analyzer.AnalyzeImpact(c.Members[0])
	if err != nil {
		return err.Error()
	}
	if c.IsCycle() {
		report.TargetModule = c.Name
	}
	return formatImpactReport(report)
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d files | %d modules | depth %d",
		m.lastUpdate.Format("15:04:05"), m.summary.Files, m.summary.Modules, m.summary.MaxDepth))

	var summary string
	switch {
	case m.lastErr != "":
		summary = cycleStyle.Render("Analysis failed: " + m.lastErr)
	case m.summary.Cycles == 0 && m.summary.Unresolved == 0:
		summary = successStyle.Render("No include cycles")
	default:
		summary = fmt.Sprintf("%s | %s",
			cycleStyle.Render(fmt.Sprintf("%d Cycles", m.summary.Cycles)),
			unresolvedStyle.Render(fmt.Sprintf("%d Unresolved", m.summary.Unresolved)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Include Dependency Monitor"), status, summary)
	body := m.list.View()
	if m.details != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, detailStyle.Render(strings.TrimRight(m.details, "\n")))
	}
	return docStyle.Render(header + "\n" + body)
}

// runUI shows the latest model and every later run. ready, when non-nil, is
// closed once updates are being forwarded.
func runUI(a *coreapp.App, ready chan<- struct{}) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	a.SetUpdateHandler(func(update coreapp.Update) {
		if update.Err != nil {
			p.Send(updateMsg{err: update.Err})
			return
		}
		if current, ok := a.Current(); ok {
			p.Send(updateMsg{analyzer: current})
		}
	})
	defer a.SetUpdateHandler(nil)
	if ready != nil {
		close(ready)
	}

	if current, ok := a.Current(); ok {
		go p.Send(updateMsg{analyzer: current})
	}

	_, err := p.Run()
	return err
}
