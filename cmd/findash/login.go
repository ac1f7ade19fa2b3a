package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// authSubmit is a completed login form ready to send.
type authSubmit struct {
	email    string
	password string
	register bool
}

// loginModel is the sign-in / sign-up form shown while anonymous.
type loginModel struct {
	email    textinput.Model
	password textinput.Model
	register bool
	busy     bool
	errText  string
}

func newLoginModel() loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "  "
	email.CharLimit = 128
	email.Width = 32
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "  "
	password.CharLimit = 128
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{email: email, password: password}
}

func (l loginModel) fail(err error) loginModel {
	l.busy = false
	l.errText = err.Error()
	return l
}

func (l loginModel) focusPassword() loginModel {
	l.email.Blur()
	l.password.Focus()
	return l
}

func (l loginModel) focusEmail() loginModel {
	l.password.Blur()
	l.email.Focus()
	return l
}

// Update advances the form. A non-nil third return value means the form was
// submitted and the caller should fire the auth request.
func (l loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd, *authSubmit) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		if l.email.Focused() {
			l.email, cmd = l.email.Update(msg)
		} else {
			l.password, cmd = l.password.Update(msg)
		}
		return l, cmd, nil
	}

	if l.busy {
		return l, nil, nil
	}

	switch key.String() {
	case "tab", "down":
		if l.email.Focused() {
			return l.focusPassword(), nil, nil
		}
		return l.focusEmail(), nil, nil
	case "shift+tab", "up":
		if l.password.Focused() {
			return l.focusEmail(), nil, nil
		}
		return l.focusPassword(), nil, nil
	case "ctrl+t":
		l.register = !l.register
		l.errText = ""
		return l, nil, nil
	case "enter":
		if l.email.Focused() {
			return l.focusPassword(), nil, nil
		}
		email := strings.TrimSpace(l.email.Value())
		password := l.password.Value()
		if email == "" || password == "" {
			l.errText = "email and password are required"
			return l, nil, nil
		}
		l.busy = true
		l.errText = ""
		return l, nil, &authSubmit{email: email, password: password, register: l.register}
	}

	var cmd tea.Cmd
	if l.email.Focused() {
		l.email, cmd = l.email.Update(msg)
	} else {
		l.password, cmd = l.password.Update(msg)
	}
	if l.errText != "" {
		l.errText = ""
	}
	return l, cmd, nil
}
