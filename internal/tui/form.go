package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobboard/internal/apply"
	"github.com/amishk599/jobboard/internal/model"
)

// Focus order on the application form. Inputs come first, then the submit button.
const (
	fieldName = iota
	fieldEmail
	fieldContact
	fieldReason
	fieldSubmit
	fieldCount
)

// formFieldNames maps focus index to the apply.Form field reported by apply.FieldErrors.
var formFieldNames = [...]string{
	fieldName:    "Name",
	fieldEmail:   "Email",
	fieldContact: "ContactNumber",
	fieldReason:  "Reason",
}

type applyForm struct {
	job     model.JobPosting
	inputs  [fieldReason]textinput.Model
	reason  textarea.Model
	focused int
	errs    map[string]string
	failure string
}

func newApplyForm(job model.JobPosting, width int) applyForm {
	f := applyForm{job: job}

	placeholders := [fieldReason]string{
		fieldName:    "Your Name",
		fieldEmail:   "Your Email",
		fieldContact: "Contact Number",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Prompt = "> "
		in.CharLimit = 120
		in.Width = max(width-8, 20)
		f.inputs[i] = in
	}
	f.inputs[fieldContact].CharLimit = 11

	f.reason = textarea.New()
	f.reason.Placeholder = "Why should we hire you?"
	f.reason.ShowLineNumbers = false
	f.reason.CharLimit = 2000
	f.reason.SetWidth(max(width-6, 20))
	f.reason.SetHeight(5)

	return f
}

func (f applyForm) values() apply.Form {
	return apply.Form{
		Name:          f.inputs[fieldName].Value(),
		Email:         f.inputs[fieldEmail].Value(),
		ContactNumber: f.inputs[fieldContact].Value(),
		Reason:        f.reason.Value(),
	}
}

// focus moves the cursor to field i, blurring everything else.
func (f *applyForm) focus(i int) tea.Cmd {
	f.focused = i
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.reason.Blur()

	switch {
	case i < fieldReason:
		return f.inputs[i].Focus()
	case i == fieldReason:
		return f.reason.Focus()
	}
	return nil
}

func (f *applyForm) next() tea.Cmd {
	return f.focus((f.focused + 1) % fieldCount)
}

func (f *applyForm) prev() tea.Cmd {
	return f.focus((f.focused + fieldCount - 1) % fieldCount)
}

// update forwards msg to the focused input.
func (f applyForm) update(msg tea.Msg) (applyForm, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case f.focused < fieldReason:
		f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	case f.focused == fieldReason:
		f.reason, cmd = f.reason.Update(msg)
	}
	return f, cmd
}

func (f applyForm) view(st styles) string {
	var b strings.Builder

	b.WriteString(st.pageTitle.Render("Apply for " + f.job.Title))
	b.WriteByte('\n')
	b.WriteString(st.pageSubtitle.Render("Company: " + f.job.CompanyName))
	b.WriteString("\n\n")

	for i := range f.inputs {
		f.writeError(&b, st, i)
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}
	f.writeError(&b, st, fieldReason)
	b.WriteString(f.reason.View())
	b.WriteString("\n\n")

	button := st.button
	if f.focused == fieldSubmit {
		button = st.focusedButton
	}
	b.WriteString(button.Render("Submit Application"))
	b.WriteByte('\n')

	if f.failure != "" {
		b.WriteByte('\n')
		b.WriteString(st.errorText.Render(f.failure))
		b.WriteByte('\n')
	}
	return b.String()
}

func (f applyForm) writeError(b *strings.Builder, st styles, i int) {
	if msg, ok := f.errs[formFieldNames[i]]; ok {
		b.WriteString(st.errorText.Render(msg))
		b.WriteByte('\n')
	}
}
