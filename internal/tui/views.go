package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTab     = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	staleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	modalBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (a *App) View() string {
	var body string
	switch a.view {
	case viewRestoring:
		body = titleStyle.Render("Outlay") + "\nRestoring session..."
	case viewLogin:
		body = a.renderAuth(false)
	case viewSignup:
		body = a.renderAuth(true)
	default:
		body = a.renderExpenses()
	}
	if a.modal != modalNone {
		body += "\n\n" + modalBoxStyle.Render(a.renderModal())
	}
	if a.status != "" {
		if a.statusErr {
			body += "\n" + errorStyle.Render(a.status)
		} else {
			body += "\n" + statusStyle.Render(a.status)
		}
	}
	return body + "\n" + statusStyle.Render(a.footerHelp())
}

func (a *App) footerHelp() string {
	switch {
	case a.modal == modalManage:
		return renderHelp(a.keys.manageHelp())
	case a.modal == modalConfirmDelete:
		return renderHelp(a.keys.confirmHelp())
	case a.view == viewLogin, a.view == viewSignup:
		return renderHelp(a.keys.authHelp())
	case a.view == viewRecent, a.view == viewAll:
		return renderHelp(a.keys.tabsHelp())
	}
	return ""
}

func (a *App) renderAuth(signup bool) string {
	title := "Log In"
	if signup {
		title = "Sign Up"
	}
	out := titleStyle.Render("Outlay: "+title) + "\n"
	out += fmt.Sprintf("%s Email:    %s\n", focusMarker(a.authFocus == 0), a.email)
	out += fmt.Sprintf("%s Password: %s", focusMarker(a.authFocus == 1), strings.Repeat("*", len(a.password)))
	if a.authBusy {
		out += "\n" + statusStyle.Render("contacting server...")
	}
	return out
}

func (a *App) renderExpenses() string {
	recentLabel, allLabel := "Recent Expenses", "All Expenses"
	if a.view == viewRecent {
		recentLabel = activeTab.Render(recentLabel)
		allLabel = tabStyle.Render(allLabel)
	} else {
		recentLabel = tabStyle.Render(recentLabel)
		allLabel = activeTab.Render(allLabel)
	}
	out := titleStyle.Render("Outlay") + "  " + recentLabel + " | " + allLabel + "\n"

	if a.view == viewAll {
		if a.searchMode {
			out += "/ " + a.searchQuery + "_\n"
		} else if a.searchQuery != "" {
			out += "/ " + a.searchQuery + "  " + statusStyle.Render("(esc clear)") + "\n"
		}
	}

	rows := a.visibleExpenses()
	if len(rows) == 0 {
		if a.loading {
			return out + "Loading expenses..."
		}
		if a.view == viewRecent {
			return out + "No expenses in the last " + fmt.Sprint(a.cfg.UI.RecentDays) + " days."
		}
		return out + "No expenses registered."
	}

	var total float64
	for _, e := range rows {
		total += e.Amount
	}
	header := fmt.Sprintf("Total: %s%.2f", a.cfg.UI.CurrencySymbol, total)
	if a.stale {
		header += "  " + staleStyle.Render("(cached, syncing...)")
	}
	out += header + "\n"

	for i, e := range rows {
		marker := " "
		if i == a.cursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s  %8.2f  %s\n", marker, e.Date.Format(a.cfg.UI.DateFormat), e.Amount, e.Description)
	}
	return strings.TrimRight(out, "\n")
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		title := "Delete expense?"
		desc := a.form.fields[fieldDescription]
		return titleStyle.Render(title) + "\n" + desc + "\nThis cannot be undone."
	case modalManage:
		title := "Add Expense"
		if a.form.editingID != "" {
			title = "Edit Expense"
		}
		out := titleStyle.Render(title) + "\n"
		for i, label := range formLabels {
			value := a.form.fields[i]
			if i == a.form.focus {
				value += "_"
			}
			out += fmt.Sprintf("%s %-12s %s\n", focusMarker(i == a.form.focus), label+":", value)
		}
		return strings.TrimRight(out, "\n")
	}
	return ""
}

func focusMarker(focused bool) string {
	if focused {
		return "▶"
	}
	return " "
}
