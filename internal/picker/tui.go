package picker

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// TUI is the built-in picker: a filterable list drawn on stderr.
type TUI struct {
	Theme Theme
	// Title is shown above the list. Defaults to "Select".
	Title string
	// IsTerminal reports whether stdin and stderr are terminals.
	// Defaults to an isatty check.
	IsTerminal func() bool
}

// Pick shows items and returns the one chosen with enter.
func (t *TUI) Pick(ctx context.Context, items []string) (string, error) {
	picked, err := t.run(ctx, items, false)
	if err != nil || len(picked) == 0 {
		return "", err
	}
	return picked[0], nil
}

// PickMulti lets the user mark items with tab or space and returns the
// marked items, or the item under the cursor when none are marked.
func (t *TUI) PickMulti(ctx context.Context, items []string) ([]string, error) {
	return t.run(ctx, items, true)
}

func (t *TUI) run(ctx context.Context, items []string, multi bool) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if !t.isTerminal() {
		return nil, fmt.Errorf("built-in picker: %w", ErrNoTerminal)
	}

	title := t.Title
	if title == "" {
		title = "Select"
	}
	m := newPickModel(items, multi, title, t.Theme)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("built-in picker: %w", err)
	}
	return final.(*pickModel).chosen, nil
}

func (t *TUI) isTerminal() bool {
	if t.IsTerminal != nil {
		return t.IsTerminal()
	}
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// pickItem is one row. index is its position in the original item list,
// which stays stable while the list is filtered.
type pickItem struct {
	name  string
	index int
}

func (i pickItem) FilterValue() string { return i.name }

// pickModel implements tea.Model.
type pickModel struct {
	list   list.Model
	multi  bool
	names  []string
	marked map[int]bool
	chosen []string
}

func newPickModel(items []string, multi bool, title string, theme Theme) *pickModel {
	st := newStyles(theme)
	marked := map[int]bool{}

	rows := make([]list.Item, len(items))
	for i, name := range items {
		rows[i] = pickItem{name: name, index: i}
	}

	l := list.New(rows, itemDelegate{styles: st, marked: marked, multi: multi}, 80, 20)
	l.Title = title
	l.Styles.Title = st.title.Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return &pickModel{
		list:   l,
		multi:  multi,
		names:  items,
		marked: marked,
	}
}

func (m *pickModel) Init() tea.Cmd {
	return nil
}

func (m *pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.chosen = nil
			return m, tea.Quit
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.chosen = nil
			return m, tea.Quit
		case "q":
			m.chosen = nil
			return m, tea.Quit
		case "enter":
			m.chosen = m.selection()
			return m, tea.Quit
		case "tab", " ":
			if m.multi {
				m.toggleCurrent()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickModel) View() string {
	return m.list.View()
}

// toggleCurrent flips the mark on the row under the cursor and moves down.
func (m *pickModel) toggleCurrent() {
	it, ok := m.list.SelectedItem().(pickItem)
	if !ok {
		return
	}
	if m.marked[it.index] {
		delete(m.marked, it.index)
	} else {
		m.marked[it.index] = true
	}
	m.list.CursorDown()
}

// selection returns the marked names in their original order, or the name
// under the cursor when nothing is marked.
func (m *pickModel) selection() []string {
	if m.multi && len(m.marked) > 0 {
		var picked []string
		for i, name := range m.names {
			if m.marked[i] {
				picked = append(picked, name)
			}
		}
		return picked
	}
	if it, ok := m.list.SelectedItem().(pickItem); ok {
		return []string{it.name}
	}
	return nil
}

// itemDelegate renders one row per item.
type itemDelegate struct {
	styles styles
	marked map[int]bool
	multi  bool
}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(pickItem)
	if !ok {
		return
	}

	box := ""
	if d.multi {
		box = d.styles.dim.Render("[ ] ")
		if d.marked[it.index] {
			box = d.styles.marked.Render("[x] ")
		}
	}

	if index == m.Index() {
		fmt.Fprint(w, d.styles.selected.Render("> ")+box+d.styles.selected.Render(it.name))
		return
	}
	fmt.Fprint(w, "  "+box+d.styles.text.Render(it.name))
}
