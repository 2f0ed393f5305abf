// Package panel renders the marker info card and the map key for terminals.
package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"airmap/internal/marker"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func hex(c marker.RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Card renders the hover title and, once computed, the coverage info of m.
func Card(m *marker.AirportMarker) string {
	style := m.Style()
	dot := lipgloss.NewStyle().Foreground(hex(style.Color)).Render("●")

	lines := strings.Split(m.Title(), "\n")
	var b strings.Builder
	b.WriteString(dot + " " + headingStyle.Render(lines[0]))
	for _, l := range lines[1:] {
		b.WriteString("\n" + l)
	}
	if m.HasCoverage() {
		info := strings.Split(m.Info(), "\n")
		b.WriteString("\n")
		for _, l := range info[1:] {
			b.WriteString("\n" + l)
		}
	}
	a := m.Airport()
	if a.City != "" || a.Country != "" {
		b.WriteString("\n" + mutedStyle.Render(strings.Trim(a.City+", "+a.Country, ", ")))
	}
	return cardStyle.Render(b.String())
}

// Key renders the map legend.
func Key() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Airport Key"))
	b.WriteString("\nSize ~ Connectivity")
	b.WriteString("\nElevation (Sea level)")
	for _, e := range marker.Legend() {
		dot := lipgloss.NewStyle().Foreground(hex(e.Color)).Render("●")
		b.WriteString("\n" + dot + " " + e.Label)
	}
	return cardStyle.Render(b.String())
}

// Render places the card beside the key.
func Render(m *marker.AirportMarker) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Card(m), " ", Key())
}
