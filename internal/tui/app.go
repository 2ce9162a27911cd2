// Package tui is the terminal front-end: a login/signup stack while the
// session is unauthenticated, and the expense tabs plus manage modal
// once a token is present.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"outlay/internal/api"
	"outlay/internal/config"
	"outlay/internal/expense"
	"outlay/internal/service"
	"outlay/internal/session"
	"outlay/internal/tokenstore"
)

// App ties together the session, the expense collection and the views.
type App struct {
	ctx     context.Context
	cfg     config.Config
	session *session.Service
	tokens  *tokenstore.Store
	client  *api.Client
	store   *expense.Store
	sync    *service.SyncService
	writer  *service.ExpenseWriter

	view  appView
	modal modalState

	// login/signup form
	email     string
	password  string
	authFocus int
	authBusy  bool

	// collection snapshot for rendering
	expenses []expense.Expense
	cursor   int
	stale    bool // cached rows shown, first fetch not yet resolved
	loading  bool

	form manageForm

	searchMode  bool
	searchQuery string

	status    string
	statusErr bool
	width     int
	height    int
	keys      keymap

	storeSub <-chan struct{}
}

type appView string

const (
	viewRestoring appView = "restoring"
	viewLogin     appView = "login"
	viewSignup    appView = "signup"
	viewRecent    appView = "recent"
	viewAll       appView = "all"
)

type modalState string

const (
	modalNone          modalState = ""
	modalManage        modalState = "manage"
	modalConfirmDelete modalState = "confirmDelete"
)

func New(ctx context.Context, cfg config.Config, sess *session.Service, tokens *tokenstore.Store, client *api.Client, store *expense.Store, sync *service.SyncService, writer *service.ExpenseWriter) *App {
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		session:  sess,
		tokens:   tokens,
		client:   client,
		store:    store,
		sync:     sync,
		writer:   writer,
		view:     viewRestoring,
		keys:     newKeymap(),
		storeSub: store.Subscribe(),
	}
}

// messages
type restoredMsg struct{ state session.State }

type authDoneMsg struct {
	token  string
	signup bool
	err    error
}

type refreshedMsg struct{ err error }

type cacheLoadedMsg struct {
	count int
	err   error
}

type storeChangedMsg struct{}

type savedMsg struct {
	created bool
	err     error
}

type deletedMsg struct{ err error }

type loggedOutMsg struct{ err error }

type configSavedMsg struct {
	days int
	err  error
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.restoreCmd(), a.waitStoreCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		return a, nil
	case restoredMsg:
		if m.state == session.StateAuthenticated {
			a.view = viewRecent
			a.loading = true
			return a, tea.Batch(a.loadCachedCmd(), a.refreshCmd())
		}
		a.view = viewLogin
		return a, nil
	case authDoneMsg:
		a.authBusy = false
		if m.err != nil && m.token == "" {
			a.setError(authFailureStatus(m.err, m.signup))
			return a, nil
		}
		a.password = ""
		a.view = viewRecent
		a.loading = true
		if m.err != nil {
			// the session is live; only persistence failed, so the next
			// start will ask for credentials again
			a.setError("session won't survive a restart: " + m.err.Error())
		} else {
			a.setStatus("")
		}
		return a, a.refreshCmd()
	case refreshedMsg:
		a.loading = false
		if m.err != nil {
			if m.err == api.ErrUnauthorized {
				// token expired remotely; drop the session
				return a, a.logoutCmd()
			}
			a.setError("sync failed: " + m.err.Error())
			return a, nil
		}
		a.stale = false
		a.setStatus("up to date")
		return a, nil
	case cacheLoadedMsg:
		if m.err == nil && m.count > 0 && a.loading {
			a.stale = true
		}
		return a, nil
	case storeChangedMsg:
		a.expenses = a.store.All()
		a.clampCursor()
		return a, a.waitStoreCmd()
	case savedMsg:
		if m.err != nil {
			a.setError("save failed: " + m.err.Error())
			return a, nil
		}
		a.modal = modalNone
		a.form = manageForm{}
		if m.created {
			a.setStatus("expense added")
		} else {
			a.setStatus("expense updated")
		}
		return a, nil
	case deletedMsg:
		if m.err != nil {
			a.setError("delete failed: " + m.err.Error())
			return a, nil
		}
		a.modal = modalNone
		a.form = manageForm{}
		a.setStatus("expense deleted")
		return a, nil
	case configSavedMsg:
		if m.err != nil {
			a.setError("save settings: " + m.err.Error())
		} else {
			a.setStatus(fmt.Sprintf("recent window: %d days", m.days))
		}
		return a, nil
	case loggedOutMsg:
		a.view = viewLogin
		a.modal = modalNone
		a.expenses = nil
		a.cursor = 0
		a.searchQuery = ""
		a.searchMode = false
		a.store.SetAll(nil)
		if m.err != nil {
			a.setError("logout: " + m.err.Error())
		} else {
			a.setStatus("signed out")
		}
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal != modalNone {
		return a.handleModalKey(m)
	}
	switch a.view {
	case viewRestoring:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, nil
	case viewLogin, viewSignup:
		return a.handleAuthKey(m)
	default:
		return a.handleTabsKey(m)
	}
}

func (a *App) handleTabsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searchMode {
		return a.handleSearchKey(m)
	}
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab":
		if a.view == viewRecent {
			a.view = viewAll
		} else {
			a.view = viewRecent
		}
		a.clampCursor()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.visibleExpenses())-1 {
			a.cursor++
		}
	case "a":
		a.form = newManageForm(time.Now())
		a.modal = modalManage
	case "enter":
		rows := a.visibleExpenses()
		if len(rows) == 0 {
			return a, nil
		}
		a.form = editManageForm(rows[a.cursor])
		a.modal = modalManage
	case "d", "backspace", "delete":
		rows := a.visibleExpenses()
		if len(rows) == 0 {
			return a, nil
		}
		a.form = editManageForm(rows[a.cursor])
		a.modal = modalConfirmDelete
	case "r":
		a.loading = true
		a.setStatus("syncing...")
		return a, a.refreshCmd()
	case "/":
		if a.view == viewAll {
			a.searchMode = true
		}
	case "esc":
		if a.searchQuery != "" {
			a.searchQuery = ""
			a.clampCursor()
		}
	case "x":
		return a, a.logoutCmd()
	case "+", "=":
		if a.view == viewRecent {
			a.cfg.UI.RecentDays++
			a.clampCursor()
			return a, a.saveConfigCmd()
		}
	case "-":
		if a.view == viewRecent && a.cfg.UI.RecentDays > 1 {
			a.cfg.UI.RecentDays--
			a.clampCursor()
			return a, a.saveConfigCmd()
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searchMode = false
		a.searchQuery = ""
	case tea.KeyEnter:
		a.searchMode = false
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.searchQuery) > 0 {
			a.searchQuery = a.searchQuery[:len(a.searchQuery)-1]
		}
	case tea.KeySpace:
		a.searchQuery += " "
	case tea.KeyRunes:
		a.searchQuery += string(m.Runes)
	}
	a.clampCursor()
	return a, nil
}

func (a *App) handleAuthKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+s":
		// switch between login and signup stacks
		if a.view == viewLogin {
			a.view = viewSignup
		} else {
			a.view = viewLogin
		}
		a.setStatus("")
		return a, nil
	}
	switch m.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		a.authFocus = 1 - a.authFocus
	case tea.KeyEnter:
		if a.authBusy {
			return a, nil
		}
		if a.email == "" || a.password == "" {
			a.setError("email and password are required")
			return a, nil
		}
		a.authBusy = true
		a.setStatus("signing in...")
		return a, a.authCmd(a.view == viewSignup)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if a.authFocus == 0 && len(a.email) > 0 {
			a.email = a.email[:len(a.email)-1]
		}
		if a.authFocus == 1 && len(a.password) > 0 {
			a.password = a.password[:len(a.password)-1]
		}
	case tea.KeySpace:
		if a.authFocus == 1 {
			a.password += " "
		}
	case tea.KeyRunes:
		if a.authFocus == 0 {
			a.email += string(m.Runes)
		} else {
			a.password += string(m.Runes)
		}
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y", "enter":
			a.setStatus("deleting...")
			return a, a.deleteCmd(a.form.editingID)
		case "n", "N", "esc":
			a.modal = modalNone
			a.form = manageForm{}
		}
		return a, nil
	case modalManage:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.form = manageForm{}
			return a, nil
		case tea.KeyTab:
			a.form.focus = (a.form.focus + 1) % len(a.form.fields)
			return a, nil
		case tea.KeyShiftTab:
			a.form.focus = (a.form.focus + len(a.form.fields) - 1) % len(a.form.fields)
			return a, nil
		case tea.KeyEnter:
			draft, err := a.form.validate()
			if err != nil {
				a.setError(err.Error())
				return a, nil
			}
			a.setStatus("saving...")
			return a, a.saveCmd(a.form.editingID, draft)
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			f := &a.form.fields[a.form.focus]
			if len(*f) > 0 {
				*f = (*f)[:len(*f)-1]
			}
		case tea.KeySpace:
			a.form.fields[a.form.focus] += " "
		case tea.KeyRunes:
			a.form.fields[a.form.focus] += string(m.Runes)
		}
	}
	return a, nil
}

// commands

func (a *App) restoreCmd() tea.Cmd {
	return func() tea.Msg {
		return restoredMsg{state: a.session.Restore()}
	}
}

func (a *App) waitStoreCmd() tea.Cmd {
	return func() tea.Msg {
		<-a.storeSub
		return storeChangedMsg{}
	}
}

func (a *App) authCmd(signup bool) tea.Cmd {
	email, password := a.email, a.password
	return func() tea.Msg {
		var token string
		var err error
		if signup {
			token, err = a.client.Signup(a.ctx, email, password)
		} else {
			token, err = a.client.Login(a.ctx, email, password)
		}
		if err != nil {
			return authDoneMsg{signup: signup, err: err}
		}
		// the session holds the credential; persisting it is this
		// caller's explicit step after the confirmed response
		a.session.Authenticate(token)
		if err := a.tokens.Save(token); err != nil {
			return authDoneMsg{token: token, signup: signup, err: err}
		}
		return authDoneMsg{token: token, signup: signup}
	}
}

func (a *App) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: a.sync.Refresh(a.ctx)}
	}
}

func (a *App) loadCachedCmd() tea.Cmd {
	return func() tea.Msg {
		count, err := a.sync.LoadCached(a.ctx)
		return cacheLoadedMsg{count: count, err: err}
	}
}

func (a *App) saveCmd(id string, draft api.Draft) tea.Cmd {
	return func() tea.Msg {
		if id == "" {
			_, err := a.writer.Create(a.ctx, draft)
			return savedMsg{created: true, err: err}
		}
		return savedMsg{err: a.writer.Update(a.ctx, id, draft)}
	}
}

func (a *App) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: a.writer.Delete(a.ctx, id)}
	}
}

func (a *App) saveConfigCmd() tea.Cmd {
	cfg := a.cfg
	return func() tea.Msg {
		return configSavedMsg{days: cfg.UI.RecentDays, err: config.Save(cfg)}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: a.session.Logout()}
	}
}

// helpers

func (a *App) visibleExpenses() []expense.Expense {
	switch a.view {
	case viewRecent:
		return recentOnly(a.expenses, time.Now(), a.cfg.UI.RecentDays)
	case viewAll:
		return fuzzyFilter(a.expenses, a.searchQuery)
	}
	return nil
}

func (a *App) clampCursor() {
	total := len(a.visibleExpenses())
	if a.cursor >= total {
		a.cursor = total - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(s string) {
	a.status = s
	a.statusErr = true
}

func authFailureStatus(err error, signup bool) string {
	if err == api.ErrUnauthorized {
		if signup {
			return "signup rejected"
		}
		return "invalid email or password"
	}
	if signup {
		return "signup failed: " + err.Error()
	}
	return "login failed: " + err.Error()
}
