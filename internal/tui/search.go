// Package tui is the terminal front end of the live-search panel.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// Searcher is the live-search flow the model drives.
type Searcher interface {
	Input(ctx context.Context, query string) domain.SearchPanel
	Panel() domain.SearchPanel
	Dismiss()
	Select(role domain.Role, category domain.SearchCategory, id string) string
	Submit() string
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// item is one selectable result line.
type item struct {
	category domain.SearchCategory
	id       string
	title    string
	detail   string
}

// panelMsg carries the panel returned by one Input call.
type panelMsg struct {
	panel domain.SearchPanel
}

// Model is the bubbletea model of the search box and its dropdown.
type Model struct {
	ctx   context.Context
	flow  Searcher
	role  domain.Role
	input textinput.Model

	panel  domain.SearchPanel
	items  []item
	cursor int

	// Route is where the user chose to go; empty when they quit.
	Route string
}

func NewModel(ctx context.Context, flow Searcher, role domain.Role) Model {
	ti := textinput.New()
	ti.Placeholder = "Search hoardings, contracts, photos..."
	ti.Prompt = "> "
	ti.CharLimit = 120
	ti.Width = 60
	ti.Focus()

	return Model{ctx: ctx, flow: flow, role: role, input: ti}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case panelMsg:
		// Responses can arrive out of order; never step back to an older panel.
		if msg.panel.Seq >= m.panel.Seq {
			m.setPanel(msg.panel)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			if m.panel.Open {
				m.flow.Dismiss()
				m.setPanel(m.flow.Panel())
				return m, nil
			}
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			if m.panel.Open && m.cursor < len(m.items) {
				it := m.items[m.cursor]
				m.Route = m.flow.Select(m.role, it.category, it.id)
			} else {
				m.Route = m.flow.Submit()
			}
			return m, tea.Quit
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != before {
		return m, tea.Batch(cmd, m.search(q))
	}
	return m, cmd
}

// search runs Input off the UI goroutine.
func (m Model) search(query string) tea.Cmd {
	flow, ctx := m.flow, m.ctx
	return func() tea.Msg {
		return panelMsg{panel: flow.Input(ctx, query)}
	}
}

func (m *Model) setPanel(p domain.SearchPanel) {
	m.panel = p
	m.items = flatten(p.Results)
	if m.cursor >= len(m.items) {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.panel.Pending && len(m.items) == 0:
		b.WriteString(dimStyle.Render("Searching..."))
		b.WriteString("\n")
	case m.panel.Open && len(m.items) == 0:
		b.WriteString(dimStyle.Render("No results"))
		b.WriteString("\n")
	case m.panel.Open:
		if m.panel.Provenance == domain.ProvenanceFallback {
			b.WriteString(warnStyle.Render("Backend unavailable, showing sample results"))
			b.WriteString("\n")
		}
		var last domain.SearchCategory
		for i, it := range m.items {
			if it.category != last {
				b.WriteString(headerStyle.Render(strings.ToUpper(string(it.category))))
				b.WriteString("\n")
				last = it.category
			}
			line := fmt.Sprintf("  %s  %s", it.title, dimStyle.Render(it.detail))
			if i == m.cursor {
				line = selectedStyle.Render(fmt.Sprintf("  %s  %s", it.title, it.detail))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: open  ↑/↓: move  esc: close  ctrl+c: quit"))
	return b.String()
}

// flatten lists the results in category display order.
func flatten(rs *domain.SearchResultSet) []item {
	if rs == nil {
		return nil
	}
	var items []item
	for _, h := range rs.Hoardings {
		items = append(items, item{domain.CategoryHoardings, h.ID, h.Name, h.Location})
	}
	for _, c := range rs.Contracts {
		items = append(items, item{domain.CategoryContracts, c.ID, c.ContractNumber, c.ClientName + " / " + c.HoardingName})
	}
	for _, p := range rs.Photos {
		items = append(items, item{domain.CategoryPhotos, p.ID, p.HoardingName, p.PhotographerName})
	}
	for _, u := range rs.Users {
		items = append(items, item{domain.CategoryUsers, u.ID, u.Name, u.Email})
	}
	for _, a := range rs.Assignments {
		items = append(items, item{domain.CategoryAssignments, a.ID, a.HoardingName, a.PhotographerName})
	}
	for _, bl := range rs.Billings {
		items = append(items, item{domain.CategoryBillings, bl.ID, bl.InvoiceNumber, bl.ClientName})
	}
	return items
}

// Run shows the search box until the user picks a result or quits, and
// returns the chosen route.
func Run(ctx context.Context, flow Searcher, role domain.Role) (string, error) {
	final, err := tea.NewProgram(NewModel(ctx, flow, role), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	return final.(Model).Route, nil
}
