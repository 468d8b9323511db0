// Package tui is the terminal front end: a Job Finder list, a Saved Jobs list
// and an application form, all driven by a session.Store.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobboard/internal/apply"
	"github.com/amishk599/jobboard/internal/model"
	"github.com/amishk599/jobboard/internal/session"
)

type screen int

const (
	screenFinder screen = iota
	screenSaved
	screenApply
	screenConfirm
)

// Rows taken by the page title, subtitle, search line and status bar.
const chromeHeight = 5

const refreshTimeout = 2 * time.Minute

// refreshDoneMsg is sent when an async refresh of the store completes.
type refreshDoneMsg struct {
	err error
}

// Model is the root bubbletea model.
type Model struct {
	store     *session.Store
	submitter *apply.Submitter
	styles    styles
	now       func() time.Time

	width  int
	height int
	ready  bool

	screen     screen
	formReturn screen
	refreshing bool
	status     string

	spinner   spinner.Model
	search    textinput.Model
	searching bool
	list      viewport.Model
	offsets   []int

	cursor         int
	savedCursor    int
	savedExpansion session.Expansion

	form         applyForm
	confirmation string
}

// New returns a model over store. submitter records completed application forms.
func New(store *session.Store, submitter *apply.Submitter) Model {
	search := textinput.New()
	search.Placeholder = "Search by job title, company name, or tags"
	search.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		store:     store,
		submitter: submitter,
		styles:    newStyles(store.Theme()),
		now:       time.Now,
		spinner:   sp,
		search:    search,
	}
}

// Init starts the first refresh and the loading spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m Model) refreshCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		return refreshDoneMsg{err: store.RefreshResult(ctx)}
	}
}

func (m Model) loading() bool {
	return m.refreshing || m.store.Loading()
}

func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	if m.loading() {
		return m, nil
	}
	m.refreshing = true
	m.status = ""
	return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.status = "Could not refresh jobs. Press r to try again."
		} else {
			m.status = ""
		}
		m.recalcContent()
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenSaved:
			return m.updateSaved(msg)
		case screenApply:
			return m.updateApply(msg)
		case screenConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateFinder(msg)
		}
	}

	// Cursor blink and similar messages go to whichever input has focus.
	var cmd tea.Cmd
	switch {
	case m.screen == screenApply:
		m.form, cmd = m.form.update(msg)
	case m.screen == screenFinder && m.searching:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleTheme() {
	m.store.ToggleDarkMode()
	m.styles = newStyles(m.store.Theme())
}

func (m *Model) recalcLayout() {
	width := max(m.width, 20)
	height := max(m.height-chromeHeight, 3)

	if !m.ready {
		m.list = viewport.New(width, height)
		m.ready = true
	} else {
		m.list.Width = width
		m.list.Height = height
	}
	m.search.Width = max(width-4, 10)

	m.recalcContent()
}

// recalcContent re-renders the active list into the viewport and keeps the
// cursor on screen.
func (m *Model) recalcContent() {
	var (
		jobs     []model.JobPosting
		cursor   *int
		expanded string
	)
	switch m.screen {
	case screenFinder:
		jobs = m.store.FilteredJobs()
		cursor = &m.cursor
		expanded = m.store.ExpandedJobID()
	case screenSaved:
		jobs = m.store.SavedJobs()
		cursor = &m.savedCursor
		expanded = m.savedExpansion.ID()
	default:
		return
	}

	*cursor = clamp(*cursor, 0, max(len(jobs)-1, 0))
	if !m.ready {
		return
	}

	content, offsets := m.renderCards(jobs, *cursor, expanded)
	m.offsets = offsets
	m.list.SetContent(content)
	m.ensureCursorVisible(*cursor)
}

func (m *Model) ensureCursorVisible(cursor int) {
	if cursor >= len(m.offsets)-1 {
		return
	}
	top := m.offsets[cursor]
	bottom := m.offsets[cursor+1] - 1

	if top < m.list.YOffset {
		m.list.SetYOffset(top)
	} else if bottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(min(top, bottom-m.list.Height+1))
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch m.screen {
	case screenApply:
		body = m.form.view(m.styles)
	case screenConfirm:
		body = m.viewConfirm()
	case screenSaved:
		body = m.viewList("Saved Jobs", "Your Saved Jobs", savedHelp)
	default:
		body = m.viewList("Job Finder", "Available Jobs", finderHelp)
	}
	return m.styles.app.Width(m.width).Height(m.height).Render(body)
}

const (
	finderHelp = "/ search  ↑/↓ move  enter details  s save  a apply  r refresh  v saved  t theme  q quit"
	savedHelp  = "↑/↓ move  enter details  a apply  x remove  r refresh  t theme  esc back  q quit"
)

func (m Model) viewList(title, subtitle, help string) string {
	if m.loading() && len(m.store.Jobs()) == 0 {
		return m.viewLoader()
	}

	toggle := "✹"
	if m.store.IsDarkMode() {
		toggle = "☾"
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.pageTitle.Render(title), " ", m.styles.toggle.Render(toggle)))
	b.WriteByte('\n')
	b.WriteString(m.styles.pageSubtitle.Render(subtitle))
	if m.refreshing {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteByte('\n')

	if m.screen == screenFinder {
		b.WriteString(m.search.View())
	}
	b.WriteByte('\n')

	b.WriteString(m.list.View())
	b.WriteByte('\n')

	status := help
	if m.status != "" {
		status = m.status + "  " + help
	}
	b.WriteString(m.styles.statusBar.Width(m.width).Render(status))
	return b.String()
}

func (m Model) viewLoader() string {
	return fmt.Sprintf("\n  %s Loading jobs...\n", m.spinner.View())
}

// renderCards renders one card per posting. offsets[i] is the first line of
// card i; the final entry is the total line count.
func (m Model) renderCards(jobs []model.JobPosting, cursor int, expandedID string) (string, []int) {
	if len(jobs) == 0 {
		return m.styles.hint.Render("  No jobs available."), nil
	}

	width := max(m.list.Width-2, 20)
	offsets := make([]int, 0, len(jobs)+1)
	lines := 0

	var b strings.Builder
	for i, j := range jobs {
		offsets = append(offsets, lines)

		st := m.styles.card
		if i == cursor {
			st = m.styles.selectedCard
		}
		card := st.Width(width).Render(m.renderCard(j, j.ID == expandedID, width-2))
		b.WriteString(card)
		b.WriteString("\n\n")
		lines += strings.Count(card, "\n") + 2
	}
	offsets = append(offsets, lines)
	return b.String(), offsets
}

func (m Model) renderCard(j model.JobPosting, expanded bool, width int) string {
	var b strings.Builder

	b.WriteString(m.styles.jobTitle.Render(j.Title))
	if m.store.IsSaved(j.ID) {
		b.WriteString(" " + m.styles.savedBadge.Render("Saved"))
	}
	b.WriteByte('\n')
	b.WriteString(m.styles.jobSubtitle.Render(j.CompanyName))
	b.WriteByte('\n')

	salary := "Salary: " + formatSalary(j.MinSalary, j.MaxSalary)
	if posted := formatPubDate(j.PubDate, m.now()); posted != "" {
		salary += " · " + posted
	}
	b.WriteString(salary)

	if !expanded {
		b.WriteByte('\n')
		b.WriteString(m.styles.hint.Render("enter for more details"))
		return b.String()
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderDetail(j, width))
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderDetail(j model.JobPosting, width int) string {
	var b strings.Builder

	addField := func(label, value string) {
		b.WriteString(m.styles.label.Render(label))
		b.WriteString(m.styles.value.Render(value))
		b.WriteByte('\n')
	}

	addField("Category:", j.MainCategory)
	addField("Job Type:", j.JobType)
	addField("Work Model:", j.WorkModel)
	addField("Seniority:", j.SeniorityLevel)
	addField("Salary:", formatSalary(j.MinSalary, j.MaxSalary))
	addField("Application Link:", j.ApplicationLink)
	addField("Locations:", strings.Join(j.Locations, ", "))
	if posted := formatPubDate(j.PubDate, m.now()); posted != "" {
		addField("Published:", posted)
	}

	b.WriteByte('\n')
	b.WriteString(m.styles.label.Render("Description:"))
	b.WriteByte('\n')
	b.WriteString(wordWrap(descriptionText(j), max(width, 20)))
	b.WriteString("\n\n")

	addField("Tags:", strings.Join(j.Tags, ", "))
	return b.String()
}

func (m Model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(m.styles.pageTitle.Render("Application Submitted"))
	b.WriteString("\n\n")
	b.WriteString(wordWrap(m.confirmation, max(m.width-4, 20)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.focusedButton.Render("Okay"))
	return b.String()
}

// Run starts the full-screen TUI and blocks until the user quits.
func Run(store *session.Store, submitter *apply.Submitter) error {
	p := tea.NewProgram(New(store, submitter), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
