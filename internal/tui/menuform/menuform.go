// ABOUTME: Menu item creation form as a bubbletea model
// ABOUTME: Select fields are fed by the four parallel lookup calls

package menuform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"partnerhub/internal/api"
	"partnerhub/internal/tui/styles"
)

// SubmitMsg is sent when the form completes.
type SubmitMsg struct {
	Input api.MenuInput
}

// CancelledMsg is sent when the form is abandoned.
type CancelledMsg struct{}

// MenuForm collects a new menu item for one restaurant.
type MenuForm struct {
	restaurant api.Restaurant
	lookups    *api.MenuLookups
	form       *huh.Form
	width      int

	// Form field values (strings for huh)
	name       string
	price      string
	desc       string
	categoryID int64
	sectionID  int64
	unitID     int64
}

// New creates the form from loaded lookups.
func New(restaurant api.Restaurant, lookups *api.MenuLookups) *MenuForm {
	m := &MenuForm{restaurant: restaurant, lookups: lookups}
	m.form = m.buildForm()
	return m
}

// Init implements tea.Model
func (m *MenuForm) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *MenuForm) Update(msg tea.Msg) (*MenuForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		price, _ := strconv.ParseFloat(strings.TrimSpace(m.price), 64)
		input := api.MenuInput{
			RestaurantID: m.restaurant.ID,
			CategoryID:   m.categoryID,
			SectionID:    m.sectionID,
			UnitID:       m.unitID,
			Name:         strings.TrimSpace(m.name),
			Price:        price,
			Description:  strings.TrimSpace(m.desc),
		}
		return m, func() tea.Msg { return SubmitMsg{Input: input} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, cmd
}

// View implements tea.Model
func (m *MenuForm) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("New menu item"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(m.restaurant.Name))
	sb.WriteString("\n")
	sb.WriteString(m.form.View())
	return sb.String()
}

func (m *MenuForm) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.name).
				Validate(notEmpty("name")),
			huh.NewInput().
				Title("Price").
				Placeholder("9.50").
				Value(&m.price).
				Validate(validatePrice),
			huh.NewInput().
				Title("Description").
				Value(&m.desc),
		),
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Category").
				Options(lookupOptions(m.lookups.Categories)...).
				Value(&m.categoryID),
			huh.NewSelect[int64]().
				Title("Section").
				Options(lookupOptions(m.lookups.Sections)...).
				Value(&m.sectionID),
			huh.NewSelect[int64]().
				Title("Unit").
				Options(lookupOptions(m.lookups.Units)...).
				Value(&m.unitID),
		),
	).WithTheme(huh.ThemeBase())
}

func lookupOptions(lookups []api.Lookup) []huh.Option[int64] {
	var options []huh.Option[int64]
	for _, l := range lookups {
		options = append(options, huh.NewOption(l.Name, l.ID))
	}
	return options
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validatePrice is a local check; it never reaches the network.
func validatePrice(s string) error {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("price must be a number")
	}
	if p <= 0 {
		return fmt.Errorf("price must be positive")
	}
	return nil
}
