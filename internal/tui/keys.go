package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keymap struct {
	SwitchTab key.Binding
	UpDown    key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	Search    key.Binding
	Window    key.Binding
	Logout    key.Binding
	Quit      key.Binding

	NextField  key.Binding
	Submit     key.Binding
	SwitchMode key.Binding
	Close      key.Binding
	Confirm    key.Binding
	Reject     key.Binding
}

func newKeymap() keymap {
	return keymap{
		SwitchTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		UpDown:     key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Window:     key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "recent window")),
		Logout:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "log out")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		SwitchMode: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "login/signup")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Reject:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
	}
}

func (k keymap) tabsHelp() []key.Binding {
	return []key.Binding{k.SwitchTab, k.UpDown, k.Add, k.Edit, k.Delete, k.Refresh, k.Search, k.Window, k.Logout, k.Quit}
}

func (k keymap) authHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.SwitchMode, k.Quit}
}

func (k keymap) manageHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Close}
}

func (k keymap) confirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Reject, k.Close}
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, "["+help.Key+"] "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
