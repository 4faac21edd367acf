// ABOUTME: Home screen listing the partner's restaurants
// ABOUTME: Cursor-driven selection emitting a message for the root app

package home

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"partnerhub/internal/api"
	"partnerhub/internal/tui/styles"
)

// SelectedMsg is sent when a restaurant is chosen.
type SelectedMsg struct {
	Restaurant api.Restaurant
}

// Home displays the restaurant list.
type Home struct {
	restaurants []api.Restaurant
	cursor      int
	width       int
	height      int
}

// New creates the home screen with loaded restaurants.
func New(restaurants []api.Restaurant, width, height int) *Home {
	return &Home{restaurants: restaurants, width: width, height: height}
}

// SetSize updates the screen dimensions.
func (h *Home) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Selected returns the restaurant under the cursor.
func (h *Home) Selected() (api.Restaurant, bool) {
	if len(h.restaurants) == 0 {
		return api.Restaurant{}, false
	}
	return h.restaurants[h.cursor], true
}

// Update handles key input.
func (h *Home) Update(msg tea.KeyMsg) (*Home, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < len(h.restaurants)-1 {
			h.cursor++
		}
	case "enter":
		if r, ok := h.Selected(); ok {
			return h, func() tea.Msg { return SelectedMsg{Restaurant: r} }
		}
	}
	return h, nil
}

// View renders the restaurant list.
func (h *Home) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Restaurants"))
	sb.WriteString("\n")

	if len(h.restaurants) == 0 {
		sb.WriteString(styles.Subtitle.Render("No restaurants yet."))
		return sb.String()
	}

	for i, r := range h.restaurants {
		status := styles.StatusWarning.Render("inactive")
		if r.IsActive {
			status = styles.StatusOK.Render("active")
		}
		line := fmt.Sprintf("%s  %s", r.Name, status)
		if i == h.cursor {
			sb.WriteString(styles.SelectedRow.Render("> " + line))
		} else {
			sb.WriteString(styles.Row.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("enter: orders  m: new menu item  r: refresh"))
	return sb.String()
}
