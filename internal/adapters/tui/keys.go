package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Up       key.Binding
	Down     key.Binding
	Import   key.Binding
	Quit     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Category key.Binding
	Save     key.Binding
	Cancel   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Import:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Category: key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "category")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// listKeys is the help shown while browsing.
type listKeys struct {
	keyMap

	importEnabled bool
}

func (k listKeys) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Search, k.Add, k.Edit, k.Delete, k.Up, k.Down}
	if k.importEnabled {
		bindings = append(bindings, k.Import)
	}

	return append(bindings, k.Quit)
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// formKeys is the help shown while the modal is open.
type formKeys struct {
	keyMap
}

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Category, k.Save, k.Cancel}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
