// ABOUTME: Root bubbletea model for the partnerhub console
// ABOUTME: Routes screens, owns fetch commands, and performs session invalidation

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"partnerhub/internal/api"
	"partnerhub/internal/debuglog"
	"partnerhub/internal/session"
	"partnerhub/internal/tui/home"
	"partnerhub/internal/tui/login"
	"partnerhub/internal/tui/menuform"
	"partnerhub/internal/tui/orders"
	"partnerhub/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenOrders
	ScreenMenuForm
)

// Layout constants
const (
	minTerminalWidth = 60
	panelPadding     = 4
)

// restaurantsLoadedMsg is sent when the restaurant list arrives
type restaurantsLoadedMsg struct {
	gen         int
	restaurants []api.Restaurant
	res         *api.Result
	err         error
}

// ordersLoadedMsg is sent when an order list arrives
type ordersLoadedMsg struct {
	gen        int
	restaurant api.Restaurant
	orders     []api.Order
	res        *api.Result
	err        error
}

// lookupsLoadedMsg is sent when the menu-form lookups arrive
type lookupsLoadedMsg struct {
	gen        int
	restaurant api.Restaurant
	lookups    *api.MenuLookups
	res        *api.Result
	err        error
}

// menuSavedMsg is sent when a menu item create completes
type menuSavedMsg struct {
	gen int
	res *api.Result
	err error
}

// orderAdvancedMsg is sent when an order status update completes
type orderAdvancedMsg struct {
	gen        int
	restaurant api.Restaurant
	res        *api.Result
	err        error
}

// App is the root model for the console.
type App struct {
	client      *api.Client
	store       *session.Store
	invalidator *session.Invalidator

	screen  Screen
	width   int
	height  int
	errMsg  string
	loading bool
	spin    spinner.Model

	// gen guards against late responses: every navigation bumps it, and
	// fetch results carrying an older gen are discarded. This is the
	// unmount guard the mobile screens were missing.
	gen int

	restaurant api.Restaurant
	lastUpdate time.Time

	// Child models
	loginScreen *login.Login
	homeScreen  *home.Home
	orderScreen *orders.Orders
	menuScreen  *menuform.MenuForm
}

// New creates the console app. The starting screen depends on whether a
// session is already persisted.
func New(client *api.Client, store *session.Store) *App {
	a := &App{
		client: client,
		store:  store,
		screen: ScreenLogin,
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
	}
	a.invalidator = session.NewInvalidator(store, &appNavigator{app: a})

	if state, err := session.StateOf(store); err == nil && state == session.StateAuthenticated {
		a.screen = ScreenHome
	}
	if a.screen == ScreenLogin {
		a.loginScreen = login.New(client)
	}
	return a
}

// appNavigator resets the app to the login screen, discarding everything
// behind it. Runs on the UI goroutine: invalidation is always triggered
// from inside Update.
type appNavigator struct {
	app *App
}

func (n *appNavigator) ResetToLogin() {
	a := n.app
	a.gen++
	a.screen = ScreenLogin
	a.homeScreen = nil
	a.orderScreen = nil
	a.menuScreen = nil
	a.restaurant = api.Restaurant{}
	a.loading = false
	// Silent forced logout: the redirect itself is the signal
	a.errMsg = ""
	a.loginScreen = login.New(a.client)
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenHome {
		a.loading = true
		return tea.Batch(a.loadRestaurants(), a.spin.Tick)
	}
	if a.loginScreen != nil {
		return a.loginScreen.Init()
	}
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.homeScreen != nil {
			a.homeScreen.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.orderScreen != nil {
			a.orderScreen.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.loginScreen != nil {
			return a, a.forwardToLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case ScreenLogin:
			return a, a.forwardToLogin(msg)
		case ScreenHome:
			return a.updateHome(msg)
		case ScreenOrders:
			return a.updateOrders(msg)
		case ScreenMenuForm:
			return a.updateMenuForm(msg)
		}

	case login.CompletedMsg:
		return a.handleLoginCompleted(msg)

	case home.SelectedMsg:
		a.gen++
		a.loading = true
		a.errMsg = ""
		a.restaurant = msg.Restaurant
		a.screen = ScreenOrders
		a.orderScreen = nil
		return a, tea.Batch(a.loadOrders(msg.Restaurant), a.spin.Tick)

	case orders.AdvanceMsg:
		return a, a.advanceOrder(msg.Order)

	case menuform.SubmitMsg:
		a.loading = true
		return a, tea.Batch(a.saveMenu(msg.Input), a.spin.Tick)

	case menuform.CancelledMsg:
		a.gen++
		a.screen = ScreenHome
		a.menuScreen = nil
		a.errMsg = ""
		return a, nil

	case restaurantsLoadedMsg:
		return a.handleRestaurantsLoaded(msg)

	case ordersLoadedMsg:
		return a.handleOrdersLoaded(msg)

	case lookupsLoadedMsg:
		return a.handleLookupsLoaded(msg)

	case menuSavedMsg:
		return a.handleMenuSaved(msg)

	case orderAdvancedMsg:
		return a.handleOrderAdvanced(msg)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil // stop ticking once the fetch lands
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	default:
		// Forward unknown messages to active form screens (huh internals)
		switch a.screen {
		case ScreenLogin:
			return a, a.forwardToLogin(msg)
		case ScreenMenuForm:
			return a.updateMenuForm(msg)
		}
	}

	return a, nil
}

func (a *App) forwardToLogin(msg tea.Msg) tea.Cmd {
	if a.loginScreen == nil {
		return nil
	}
	model, cmd := a.loginScreen.Update(msg)
	a.loginScreen = model
	return cmd
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.loading = true
		a.errMsg = ""
		return a, tea.Batch(a.loadRestaurants(), a.spin.Tick)
	case "m":
		if a.homeScreen != nil {
			if r, ok := a.homeScreen.Selected(); ok {
				a.gen++
				a.loading = true
				a.errMsg = ""
				a.restaurant = r
				a.screen = ScreenMenuForm
				a.menuScreen = nil
				return a, tea.Batch(a.loadLookups(r), a.spin.Tick)
			}
		}
	}
	if a.homeScreen == nil {
		return a, nil
	}
	model, cmd := a.homeScreen.Update(msg)
	a.homeScreen = model
	return a, cmd
}

func (a *App) updateOrders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.loading = true
		a.errMsg = ""
		return a, tea.Batch(a.loadOrders(a.restaurant), a.spin.Tick)
	case "b":
		a.gen++
		a.screen = ScreenHome
		a.orderScreen = nil
		a.errMsg = ""
		a.loading = a.homeScreen == nil
		if a.homeScreen == nil {
			return a, tea.Batch(a.loadRestaurants(), a.spin.Tick)
		}
		return a, nil
	}
	if a.orderScreen == nil {
		return a, nil
	}
	model, cmd := a.orderScreen.Update(msg)
	a.orderScreen = model
	return a, cmd
}

func (a *App) updateMenuForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.menuScreen == nil {
		return a, nil
	}
	model, cmd := a.menuScreen.Update(msg)
	a.menuScreen = model
	return a, cmd
}

func (a *App) handleLoginCompleted(msg login.CompletedMsg) (tea.Model, tea.Cmd) {
	if err := session.Save(a.store, *msg.Session); err != nil {
		debuglog.Error("save session", err)
		a.errMsg = "could not save session: " + err.Error()
		return a, nil
	}
	a.invalidator.Rearm()
	a.gen++
	a.screen = ScreenHome
	a.loginScreen = nil
	a.errMsg = ""
	a.loading = true
	return a, tea.Batch(a.loadRestaurants(), a.spin.Tick)
}

func (a *App) handleRestaurantsLoaded(msg restaurantsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil // response for a screen already left
	}
	a.loading = false
	if cmd, handled := a.classify(msg.res, msg.err); handled {
		return a, cmd
	}
	a.lastUpdate = time.Now()
	a.homeScreen = home.New(msg.restaurants, a.contentWidth(), a.contentHeight())
	a.screen = ScreenHome
	return a, nil
}

func (a *App) handleOrdersLoaded(msg ordersLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	a.loading = false
	if cmd, handled := a.classify(msg.res, msg.err); handled {
		return a, cmd
	}
	a.lastUpdate = time.Now()
	if a.orderScreen == nil {
		a.orderScreen = orders.New(msg.restaurant, msg.orders, a.contentWidth(), a.contentHeight())
	} else {
		a.orderScreen.SetOrders(msg.orders)
	}
	a.screen = ScreenOrders
	return a, nil
}

func (a *App) handleLookupsLoaded(msg lookupsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	a.loading = false
	if cmd, handled := a.classify(msg.res, msg.err); handled {
		return a, cmd
	}
	a.menuScreen = menuform.New(msg.restaurant, msg.lookups)
	a.screen = ScreenMenuForm
	return a, a.menuScreen.Init()
}

func (a *App) handleMenuSaved(msg menuSavedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	a.loading = false
	if cmd, handled := a.classify(msg.res, msg.err); handled {
		return a, cmd
	}
	a.gen++
	a.screen = ScreenHome
	a.menuScreen = nil
	return a, nil
}

func (a *App) handleOrderAdvanced(msg orderAdvancedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen {
		return a, nil
	}
	if cmd, handled := a.classify(msg.res, msg.err); handled {
		return a, cmd
	}
	// Refresh to pick up the new status
	return a, a.loadOrders(msg.restaurant)
}

// classify applies the shared failure handling to a fetch outcome. Network
// errors surface in place with the session untouched; an unauthorized result
// tears the session down exactly once and lands on the login screen.
func (a *App) classify(res *api.Result, err error) (tea.Cmd, bool) {
	if err != nil {
		a.errMsg = err.Error()
		return nil, true
	}
	if res == nil {
		return nil, false
	}
	if res.Kind == api.KindUnauthorized {
		a.invalidator.Invalidate()
		if a.loginScreen != nil {
			return a.loginScreen.Init(), true
		}
		return nil, true
	}
	if !res.OK {
		msg := res.Message
		if msg == "" {
			msg = "request failed"
		}
		a.errMsg = msg
		return nil, true
	}
	return nil, false
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenHome:
		content = a.viewPanel(a.viewHome())
	case ScreenOrders:
		content = a.viewPanel(a.viewOrders())
	case ScreenMenuForm:
		content = a.viewPanel(a.viewMenuForm())
	default:
		content = a.viewLogin()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.loginScreen != nil {
		return styles.ActivePanel.Width(a.contentWidth()).Render(a.loginScreen.View())
	}
	return ""
}

func (a *App) viewHome() string {
	if a.loading || a.homeScreen == nil {
		return a.spin.View() + " Loading restaurants..."
	}
	return a.homeScreen.View()
}

func (a *App) viewOrders() string {
	if a.loading || a.orderScreen == nil {
		return a.spin.View() + " Loading orders..."
	}
	return a.orderScreen.View()
}

func (a *App) viewMenuForm() string {
	if a.loading || a.menuScreen == nil {
		return a.spin.View() + " Loading menu data..."
	}
	return a.menuScreen.View()
}

func (a *App) viewPanel(inner string) string {
	if a.errMsg != "" {
		inner = styles.StatusCritical.Render("Error: "+a.errMsg) + "\n\n" + inner
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(inner)
}

func (a *App) contentWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth - panelPadding
	}
	return a.width - panelPadding
}

func (a *App) contentHeight() int {
	return a.height - 8
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + titleStyle.Render("PartnerHub")

	rightText := ""
	if a.restaurant.Name != "" && (a.screen == ScreenOrders || a.screen == ScreenMenuForm) {
		rightText = contextStyle.Render(a.restaurant.Name) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Enter Submit", "ctrl+c Quit"}
	case ScreenHome:
		shortcuts = []string{"↑↓ Navigate", "Enter Orders", "m Menu item", "r Refresh", "q Quit"}
	case ScreenOrders:
		shortcuts = []string{"↑↓ Navigate", "Enter Advance", "r Refresh", "b Back", "q Quit"}
	case ScreenMenuForm:
		shortcuts = []string{"↑↓ Select", "Enter Confirm", "Esc Cancel"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince renders the footer's "Updated ..." age. A session can sit
// open over a shift change, so days are spelled out rather than wrapping.
func formatTimeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// loadRestaurants creates a command to fetch the restaurant list
func (a *App) loadRestaurants() tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		restaurants, res, err := a.client.Restaurants(context.Background())
		return restaurantsLoadedMsg{gen: gen, restaurants: restaurants, res: res, err: err}
	}
}

// loadOrders creates a command to fetch orders for a restaurant
func (a *App) loadOrders(r api.Restaurant) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		list, res, err := a.client.Orders(context.Background(), r.ID)
		return ordersLoadedMsg{gen: gen, restaurant: r, orders: list, res: res, err: err}
	}
}

// loadLookups fires the four menu-form lookups in parallel
func (a *App) loadLookups(r api.Restaurant) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		lookups, res, err := a.client.FetchMenuLookups(context.Background(), r.ID)
		return lookupsLoadedMsg{gen: gen, restaurant: r, lookups: lookups, res: res, err: err}
	}
}

// saveMenu creates a command to create the menu item
func (a *App) saveMenu(input api.MenuInput) tea.Cmd {
	gen := a.gen
	return func() tea.Msg {
		res, err := a.client.CreateMenu(context.Background(), input)
		return menuSavedMsg{gen: gen, res: res, err: err}
	}
}

// advanceOrder moves an order to its next status
func (a *App) advanceOrder(order api.Order) tea.Cmd {
	gen := a.gen
	r := a.restaurant
	next, ok := orders.Next(order.Status)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		res, err := a.client.UpdateOrderStatus(context.Background(), order.ID, next)
		return orderAdvancedMsg{gen: gen, restaurant: r, res: res, err: err}
	}
}

// Run starts the console
func Run(client *api.Client, store *session.Store) error {
	app := New(client, store)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
