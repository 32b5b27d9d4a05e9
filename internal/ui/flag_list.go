package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"flagkeeper/internal/domain"
	"flagkeeper/internal/theme"
)

// itemBarWidth is the progress bar width of a list row
const itemBarWidth = 20

// FlagItem implements list.Item
type FlagItem struct {
	Flag domain.Flag
}

// FilterValue implements list.Item
func (i FlagItem) FilterValue() string {
	return i.Flag.Title + " " + i.Flag.Category
}

// flagDelegate renders flag rows
type flagDelegate struct{}

// Height implements list.ItemDelegate
func (d flagDelegate) Height() int {
	return 2 // Title line + progress line
}

// Spacing implements list.ItemDelegate
func (d flagDelegate) Spacing() int {
	return 0
}

// Update implements list.ItemDelegate
func (d flagDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render implements list.ItemDelegate
func (d flagDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(FlagItem)
	if !ok {
		return
	}
	f := item.Flag

	cursor := " "
	if index == m.Index() {
		cursor = ">"
	}

	statusIcon := theme.StatusIconStyle(f.Status).Render(f.Status.Symbol())
	line1 := theme.NormalStyle.Render(fmt.Sprintf("%s %02d. ", cursor, index+1)) +
		statusIcon + " " + theme.NormalStyle.Render(f.Title) +
		" " + theme.MutedStyle.Render("["+f.Category+"]")

	// Indented to align with the title (> 01. ● title)
	line2 := "        " + theme.RenderProgressBar(f.Progress, itemBarWidth) + fmt.Sprintf(" %3d%%", f.Progress)
	if !f.TargetDate.IsZero() {
		line2 += " " + theme.MutedStyle.Render("target "+f.TargetDate.String())
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

func toItems(flags []domain.Flag) []list.Item {
	items := make([]list.Item, len(flags))
	for i, f := range flags {
		items[i] = FlagItem{Flag: f}
	}
	return items
}
