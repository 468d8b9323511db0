package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobboard/internal/adapter"
	"github.com/amishk599/jobboard/internal/apply"
	"github.com/amishk599/jobboard/internal/model"
)

func descriptionText(j model.JobPosting) string {
	return adapter.ExtractText(j.Description)
}

func selected(jobs []model.JobPosting, cursor int) (model.JobPosting, bool) {
	if cursor < 0 || cursor >= len(jobs) {
		return model.JobPosting{}, false
	}
	return jobs[cursor], true
}

func (m Model) updateFinder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}

	jobs := m.store.FilteredJobs()
	job, ok := selected(jobs, m.cursor)

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "enter":
		if ok {
			m.store.ToggleExpanded(job.ID)
		}
	case "s":
		// Saving is one-way here; removal happens on the saved screen.
		if ok && !m.store.IsSaved(job.ID) {
			m.store.ToggleSavedJob(job.ID)
		}
	case "a":
		if ok && m.store.IsSaved(job.ID) {
			return m.openForm(job)
		}
	case "r":
		return m.startRefresh()
	case "t":
		m.toggleTheme()
	case "v":
		m.screen = screenSaved
		m.list.SetYOffset(0)
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	m.recalcContent()
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.Reset()
	}

	var cmd tea.Cmd
	if m.searching {
		m.search, cmd = m.search.Update(msg)
	}
	if q := m.search.Value(); q != m.store.SearchQuery() {
		m.store.SetSearchQuery(q)
		m.cursor = 0
		m.list.SetYOffset(0)
	}
	m.recalcContent()
	return m, cmd
}

func (m Model) updateSaved(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	jobs := m.store.SavedJobs()
	job, ok := selected(jobs, m.savedCursor)

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "v":
		m.screen = screenFinder
		m.list.SetYOffset(0)
	case "up", "k":
		m.savedCursor--
	case "down", "j":
		m.savedCursor++
	case "enter":
		if ok {
			m.savedExpansion.Toggle(job.ID)
		}
	case "x":
		if ok {
			m.store.ToggleSavedJob(job.ID)
			if m.savedExpansion.IsExpanded(job.ID) {
				m.savedExpansion.Collapse()
			}
		}
	case "a":
		if ok {
			return m.openForm(job)
		}
	case "r":
		return m.startRefresh()
	case "t":
		m.toggleTheme()
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	m.recalcContent()
	return m, nil
}

func (m Model) openForm(job model.JobPosting) (tea.Model, tea.Cmd) {
	m.formReturn = m.screen
	m.screen = screenApply
	m.form = newApplyForm(job, m.width)
	return m, m.form.focus(fieldName)
}

func (m Model) updateApply(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = m.formReturn
		m.recalcContent()
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "tab":
		return m, m.form.next()
	case "shift+tab":
		return m, m.form.prev()
	case "enter":
		switch m.form.focused {
		case fieldSubmit:
			return m.submitForm()
		case fieldReason:
			// Newline in the textarea.
		default:
			return m, m.form.next()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	app, err := m.submitter.Submit(context.Background(), m.form.job, m.form.values())
	if err != nil {
		if errs := apply.FieldErrors(err); errs != nil {
			m.form.errs = errs
			m.form.failure = ""
			return m, nil
		}
		m.form.errs = nil
		m.form.failure = "Could not submit application: " + err.Error()
		return m, nil
	}

	m.confirmation = apply.Confirmation(app)
	m.form = applyForm{}
	m.screen = screenConfirm
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m.confirmation = ""
		m.screen = screenFinder
		m.list.SetYOffset(0)
		m.recalcContent()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}
