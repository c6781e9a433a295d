package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/soundfetch/internal/model"
)

// statusIcon returns the glyph for a task status
func statusIcon(status model.TaskStatus) string {
	switch status {
	case model.TaskStatusDownloading:
		return ActiveStyle.Render(IconDownloading)
	case model.TaskStatusDone:
		return SuccessStyle.Render(IconDone)
	case model.TaskStatusError:
		return ErrorStyle.Render(IconError)
	default:
		return DimStyle.Render(IconPending)
	}
}

// renderTaskRow renders one queue entry on a single line
func renderTaskRow(task *model.DownloadTask, selected bool, bar progress.Model, width int) string {
	icon := task.Icon
	if icon == "" {
		icon = model.DefaultIcon
	}
	title := icon + " " + task.GetDisplayTitle()
	if task.Category != "" {
		title += DimStyle.Render(MiddleDotSeparator + task.Category)
	}

	var detail string
	switch task.Status {
	case model.TaskStatusDownloading:
		detail = bar.ViewAs(task.Progress/100) + " " + fmt.Sprintf(ProgressLabelFormat, task.Progress)
	case model.TaskStatusDone:
		detail = SuccessStyle.Render(task.Status.String())
		if task.OutputPath != "" {
			detail += DimStyle.Render(MiddleDotSeparator + task.OutputPath)
		}
	case model.TaskStatusError:
		detail = ErrorStyle.Render(task.GetStatusText())
	default:
		detail = DimStyle.Render(task.Status.String())
	}

	cursor := " "
	if selected {
		cursor = AccentStyle.Render(IconCursor)
	}

	titleWidth := width / 3
	if titleWidth < TitleMinWidth {
		titleWidth = TitleMinWidth
	}
	titleCell := lipgloss.NewStyle().Width(titleWidth).MaxWidth(titleWidth).Render(title)
	line := strings.Join([]string{cursor, statusIcon(task.Status), titleCell, detail}, " ")
	if selected {
		return SelectedStyle.Render(line)
	}
	return line
}
