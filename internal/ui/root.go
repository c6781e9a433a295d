package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ytget/soundfetch/internal/download"
	"github.com/ytget/soundfetch/internal/logging"
	"github.com/ytget/soundfetch/internal/model"
)

// Options configures the download manager
type Options struct {
	Controller *download.Controller
	// Sounds returns the current library contents for missing-asset scans.
	Sounds func() []model.Sound
	// AutoStart starts the next pending task whenever the worker is idle.
	AutoStart bool
	// CatalogMissing opens the catalog download prompt on start.
	CatalogMissing bool
	// DownloadCatalog installs the sound catalog and returns its sounds.
	DownloadCatalog func(ctx context.Context) ([]model.Sound, error)
	Logger          *slog.Logger
}

type tickMsg time.Time

// catalogMsg reports the outcome of a catalog download
type catalogMsg struct {
	sounds int
	err    error
}

func tick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model of the download manager
type Model struct {
	controller *download.Controller
	sounds     func() []model.Sound
	autoStart  bool
	logger     *slog.Logger

	downloadCatalog func(ctx context.Context) ([]model.Sound, error)
	assetPrompt     bool
	assetBusy       bool
	assetErr        string

	keys      KeyMap
	form      addForm
	formFocus bool
	bar       progress.Model
	cursor    int
	status    string
	statusErr bool
	width     int
}

// New creates the download manager model
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NullLogger()
	}
	sounds := opts.Sounds
	if sounds == nil {
		sounds = func() []model.Sound { return nil }
	}
	return Model{
		controller: opts.Controller,
		sounds:     sounds,
		autoStart:  opts.AutoStart,
		logger:     logger,

		downloadCatalog: opts.DownloadCatalog,
		assetPrompt:     opts.CatalogMissing && opts.DownloadCatalog != nil,
		keys:       DefaultKeyMap(),
		form:       newAddForm(),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(ProgressBarWidth), progress.WithoutPercentage()),
		width:      DefaultWidth,
	}
}

// Run starts the terminal program and blocks until the user quits. The
// active download is cancelled on exit.
func Run(opts Options) error {
	m := New(opts)
	defer opts.Controller.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init starts the poll loop
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), tea.SetWindowTitle("soundfetch"))
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.controller.Poll()
		m.maybeStart()
		m.clampCursor()
		return m, tick()

	case catalogMsg:
		m.assetBusy = false
		if msg.err != nil {
			m.logger.Error("catalog download failed", "error", msg.err)
			m.assetErr = "Download failed: " + msg.err.Error()
			return m, nil
		}
		m.assetPrompt = false
		m.assetErr = ""
		m.setStatus(fmt.Sprintf("Installed catalog with %d sounds. Press r to scan for missing ones.", msg.sounds))
		return m, nil

	case tea.KeyMsg:
		if m.assetPrompt {
			return m.updateAssetPrompt(msg)
		}
		if m.formFocus {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.controller.Queue().Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Start):
		m.startSelected()
	case key.Matches(msg, m.keys.StartNext):
		started, err := m.controller.StartNext()
		switch {
		case err != nil:
			m.setError(err.Error())
		case !started:
			m.setStatus("No pending downloads.")
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.controller.Cancel() {
			m.setStatus("Download cancelled.")
		}
	case key.Matches(msg, m.keys.Scan):
		m.scan()
	case key.Matches(msg, m.keys.RemoveFinished):
		removed := m.controller.RemoveFinished()
		m.clampCursor()
		m.setStatus(fmt.Sprintf("Removed %d finished downloads.", removed))
	case key.Matches(msg, m.keys.AddForm):
		m.formFocus = true
		cmd := m.form.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAssetPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case m.assetBusy:
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.assetBusy = true
		m.assetErr = ""
		return m, fetchCatalog(m.downloadCatalog)
	case key.Matches(msg, m.keys.Decline):
		m.assetPrompt = false
		m.setStatus("Catalog download skipped.")
	}
	return m, nil
}

func fetchCatalog(download func(ctx context.Context) ([]model.Sound, error)) tea.Cmd {
	return func() tea.Msg {
		sounds, err := download(context.Background())
		return catalogMsg{sounds: len(sounds), err: err}
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.formFocus = false
		m.form.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		cmd := m.form.Move(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.form.Move(-1)
		return m, cmd
	}
	cmd := m.form.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	form := m.form.Admission()
	_, err := m.controller.Admit(&form)
	var verr *download.ValidationError
	if errors.As(err, &verr) {
		m.setError(download.StatusFieldsRequired)
		return
	}
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.form.SetAdmission(form)
	m.setStatus(download.StatusQueued)
	m.maybeStart()
}

func (m *Model) scan() {
	if !m.controller.YTDLPAvailable() {
		m.setError("yt-dlp not found: missing sounds cannot be fetched in bulk.")
		return
	}
	added := m.controller.ScanMissing(m.sounds())
	if added == 0 {
		m.setStatus("No missing sounds.")
		return
	}
	m.setStatus(fmt.Sprintf("Queued %d missing sounds.", added))
	m.maybeStart()
}

func (m *Model) startSelected() {
	err := m.controller.Start(m.cursor)
	switch {
	case errors.Is(err, download.ErrWorkerBusy):
		m.setError("A download is already running.")
	case err != nil:
		m.setError(err.Error())
	}
}

func (m *Model) maybeStart() {
	if !m.autoStart || m.controller.Busy() {
		return
	}
	if _, err := m.controller.StartNext(); err != nil {
		m.logger.Warn("auto start failed", "error", err)
	}
}

func (m *Model) clampCursor() {
	n := m.controller.Queue().Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// View renders the whole screen
func (m Model) View() string {
	var b strings.Builder

	header := TitleStyle.Render("soundfetch")
	if m.controller.YTDLPAvailable() {
		header += SubtitleStyle.Render(MiddleDotSeparator + "yt-dlp available")
	} else {
		header += ErrorStyle.Render(MiddleDotSeparator + "yt-dlp missing, direct downloads only")
	}
	b.WriteString(header + "\n\n")

	if m.assetPrompt {
		b.WriteString(m.assetPromptView() + "\n")
	}

	tasks := m.controller.Tasks()
	if len(tasks) == 0 {
		b.WriteString(DimStyle.Render("  Queue is empty. Press r to scan for missing sounds or a to add one.") + "\n")
	}
	for i, task := range tasks {
		b.WriteString(renderTaskRow(task, !m.formFocus && i == m.cursor, m.bar, m.width) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.form.View(m.formFocus) + "\n")

	status := m.status
	if status == "" {
		status = DashPlaceholder
	}
	if m.statusErr {
		b.WriteString(ErrorStyle.Render(status))
	} else {
		b.WriteString(SubtitleStyle.Render(status))
	}
	b.WriteString("\n" + m.helpLine())
	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

func (m Model) assetPromptView() string {
	var lines []string
	lines = append(lines, AccentStyle.Render("Bundled sound assets are missing."))
	switch {
	case m.assetBusy:
		lines = append(lines, DimStyle.Render("Downloading the sound catalog..."))
	case m.assetErr != "":
		lines = append(lines, ErrorStyle.Render(m.assetErr), "Press y to retry or n to skip.")
	default:
		lines = append(lines, "Download the sound catalog? (y/n)")
	}
	return FocusedPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	if m.assetPrompt {
		bindings = []key.Binding{m.keys.Confirm, m.keys.Decline}
	} else if m.formFocus {
		bindings = []key.Binding{m.keys.NextField, m.keys.Submit, m.keys.Back}
	} else {
		bindings = []key.Binding{m.keys.Start, m.keys.StartNext, m.keys.Cancel, m.keys.Scan, m.keys.AddForm, m.keys.RemoveFinished, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, AccentStyle.Render(h.Key)+" "+DimStyle.Render(h.Desc))
	}
	return strings.Join(parts, DimStyle.Render(MiddleDotSeparator))
}
