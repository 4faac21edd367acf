// ABOUTME: Orders screen listing orders for one restaurant
// ABOUTME: Cursor selection plus status-advance message for the root app

package orders

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"partnerhub/internal/api"
	"partnerhub/internal/tui/styles"
)

// AdvanceMsg asks the root app to move an order to the next status.
type AdvanceMsg struct {
	Order api.Order
}

// nextStatus is the kitchen flow an order walks through.
var nextStatus = map[string]string{
	"pending":   "preparing",
	"preparing": "ready",
	"ready":     "served",
}

// Orders displays the order list for a restaurant.
type Orders struct {
	restaurant api.Restaurant
	orders     []api.Order
	cursor     int
	width      int
	height     int
}

// New creates the orders screen.
func New(restaurant api.Restaurant, orders []api.Order, width, height int) *Orders {
	return &Orders{restaurant: restaurant, orders: orders, width: width, height: height}
}

// SetSize updates the screen dimensions.
func (o *Orders) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// SetOrders replaces the order list after a refresh or status update.
func (o *Orders) SetOrders(orders []api.Order) {
	o.orders = orders
	if o.cursor >= len(orders) {
		o.cursor = len(orders) - 1
	}
	if o.cursor < 0 {
		o.cursor = 0
	}
}

// Next returns the next status for an order, if it has one.
func Next(status string) (string, bool) {
	n, ok := nextStatus[status]
	return n, ok
}

// Update handles key input.
func (o *Orders) Update(msg tea.KeyMsg) (*Orders, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if o.cursor > 0 {
			o.cursor--
		}
	case "down", "j":
		if o.cursor < len(o.orders)-1 {
			o.cursor++
		}
	case "enter":
		if o.cursor < len(o.orders) {
			order := o.orders[o.cursor]
			if _, ok := Next(order.Status); ok {
				return o, func() tea.Msg { return AdvanceMsg{Order: order} }
			}
		}
	}
	return o, nil
}

// View renders the order list.
func (o *Orders) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Orders"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(o.restaurant.Name))
	sb.WriteString("\n")

	if len(o.orders) == 0 {
		sb.WriteString("No orders.")
		return sb.String()
	}

	for i, order := range o.orders {
		// Pad before styling: ANSI codes would break %-10s alignment
		status := renderStatus(fmt.Sprintf("%-10s", order.Status))
		line := fmt.Sprintf("#%-5d %-10s %s %8.2f", order.ID, order.TableName, status, order.Total)
		if i == o.cursor {
			sb.WriteString(styles.SelectedRow.Render("> " + line))
		} else {
			sb.WriteString(styles.Row.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("enter: advance status  r: refresh  b: back"))
	return sb.String()
}

func renderStatus(padded string) string {
	switch strings.TrimSpace(padded) {
	case "pending", "preparing":
		return styles.StatusWarning.Render(padded)
	case "ready", "served":
		return styles.StatusOK.Render(padded)
	case "cancelled":
		return styles.StatusCritical.Render(padded)
	default:
		return padded
	}
}
