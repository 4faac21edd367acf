// ABOUTME: Login screen running the two-step OTP flow as a bubbletea model
// ABOUTME: Phone entry, code request, code entry, verification

package login

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"partnerhub/internal/api"
	"partnerhub/internal/session"
	"partnerhub/internal/tui/styles"
)

// CompletedMsg is sent when OTP verification succeeds. The session is not
// yet persisted; the root app does that and navigates on.
type CompletedMsg struct {
	Session *session.Session
}

type step int

const (
	stepPhone step = iota
	stepCode
)

// otpRequestedMsg carries the result of the code request
type otpRequestedMsg struct {
	res *api.Result
	err error
}

// verifiedMsg carries the result of code verification
type verifiedMsg struct {
	sess *session.Session
	res  *api.Result
	err  error
}

// Login is the OTP login screen.
type Login struct {
	client  *api.Client
	step    step
	form    *huh.Form
	phone   string
	code    string
	loading bool
	errMsg  string
	width   int
}

// New creates the login screen starting at phone entry.
func New(client *api.Client) *Login {
	l := &Login{client: client}
	l.form = l.phoneForm()
	return l
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width

	case otpRequestedMsg:
		l.loading = false
		if msg.err != nil {
			l.errMsg = msg.err.Error()
			l.form = l.phoneForm()
			return l, l.form.Init()
		}
		if !msg.res.OK {
			l.errMsg = failMessage(msg.res, "could not request a code")
			l.form = l.phoneForm()
			return l, l.form.Init()
		}
		l.errMsg = ""
		l.step = stepCode
		l.form = l.codeForm()
		return l, l.form.Init()

	case verifiedMsg:
		l.loading = false
		if msg.err != nil {
			l.errMsg = msg.err.Error()
			l.form = l.codeForm()
			return l, l.form.Init()
		}
		if msg.sess == nil {
			l.errMsg = failMessage(msg.res, "verification failed")
			l.form = l.codeForm()
			return l, l.form.Init()
		}
		sess := msg.sess
		return l, func() tea.Msg { return CompletedMsg{Session: sess} }
	}

	if l.loading || l.form == nil {
		return l, nil
	}

	model, cmd := l.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.loading = true
		switch l.step {
		case stepPhone:
			return l, l.requestOTP()
		case stepCode:
			return l, l.verify()
		}
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Sign in"))
	sb.WriteString("\n")

	if l.loading {
		switch l.step {
		case stepPhone:
			sb.WriteString("Requesting code...")
		case stepCode:
			sb.WriteString("Verifying...")
		}
		return sb.String()
	}

	if l.errMsg != "" {
		sb.WriteString(styles.StatusCritical.Render(l.errMsg))
		sb.WriteString("\n\n")
	}
	if l.form != nil {
		sb.WriteString(l.form.View())
	}
	return sb.String()
}

func (l *Login) phoneForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Phone number").
				Placeholder("+15551234567").
				Value(&l.phone).
				Validate(api.ValidatePhone),
		),
	).WithTheme(huh.ThemeBase())
}

func (l *Login) codeForm() *huh.Form {
	l.code = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("One-time code").
				Description("Sent to "+l.phone).
				Value(&l.code).
				Validate(api.ValidateCode),
		),
	).WithTheme(huh.ThemeBase())
}

func (l *Login) requestOTP() tea.Cmd {
	phone := strings.TrimSpace(l.phone)
	return func() tea.Msg {
		res, err := l.client.RequestOTP(context.Background(), phone)
		return otpRequestedMsg{res: res, err: err}
	}
}

func (l *Login) verify() tea.Cmd {
	phone := strings.TrimSpace(l.phone)
	code := strings.TrimSpace(l.code)
	return func() tea.Msg {
		sess, res, err := l.client.VerifyOTP(context.Background(), phone, code)
		return verifiedMsg{sess: sess, res: res, err: err}
	}
}

func failMessage(res *api.Result, fallback string) string {
	if res != nil && res.Message != "" {
		return res.Message
	}
	return fallback
}
