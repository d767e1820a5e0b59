package modtui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// entry is one package candidate shown in the editor. Items hold pointers so
// toggles are visible without reseeding the list.
type entry struct {
	path     string
	location string

	declared bool
	utility  bool

	wasDeclared bool
	wasUtility  bool
}

type item struct {
	e *entry
}

func (i item) Title() string {
	marker := "[ ]"
	if i.e.declared {
		marker = "[x]"
	}
	title := fmt.Sprintf("%s %s", marker, i.e.path)
	if i.e.declared && i.e.utility {
		title += " (utility)"
	}
	return title
}

func (i item) Description() string { return i.e.location }
func (i item) FilterValue() string { return i.e.path }

type keyMap struct {
	Toggle  key.Binding
	Utility key.Binding
	Filter  key.Binding
	Save    key.Binding
	Quit    key.Binding
	Help    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Utility, k.Save, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Utility, k.Filter},
		{k.Save, k.Quit, k.Help},
	}
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle module")),
		Utility: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "toggle utility")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Save:    key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save and quit")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit without saving")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

type model struct {
	moduleList list.Model
	help       help.Model
	keys       keyMap
	entries    []*entry
	save       bool
}

func initialModel(entries []*entry) model {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, item{e: e})
	}

	moduleList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	moduleList.Title = "Project Modules"
	moduleList.SetShowStatusBar(false)
	moduleList.SetFilteringEnabled(true)
	moduleList.SetShowHelp(false)
	moduleList.DisableQuitKeybindings()

	return model{
		moduleList: moduleList,
		help:       help.New(),
		keys:       defaultKeys(),
		entries:    entries,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Printable keys feed the filter prompt while it is open.
		if m.moduleList.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Toggle):
			m.toggleSelected()
			return m, nil
		case key.Matches(msg, m.keys.Utility):
			m.toggleUtility()
			return m, nil
		case key.Matches(msg, m.keys.Save):
			m.save = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.moduleList.SetSize(width, height)
		m.help.Width = width
	}

	var cmd tea.Cmd
	m.moduleList, cmd = m.moduleList.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("%d packages | %d declared as modules",
		len(m.entries), m.declaredCount()))
	header := fmt.Sprintf("%s\n%s", titleStyle("Module Editor"), status)
	return docStyle.Render(header + "\n\n" + m.moduleList.View() + "\n" + m.help.View(m.keys))
}

func (m model) toggleSelected() {
	it, ok := m.moduleList.SelectedItem().(item)
	if !ok {
		return
	}
	it.e.declared = !it.e.declared
	if !it.e.declared {
		it.e.utility = false
	}
}

func (m model) toggleUtility() {
	it, ok := m.moduleList.SelectedItem().(item)
	if !ok || !it.e.declared {
		return
	}
	it.e.utility = !it.e.utility
}

func (m model) declaredCount() int {
	count := 0
	for _, e := range m.entries {
		if e.declared {
			count++
		}
	}
	return count
}
