package core

import (
	"bytes"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	emailTmplMu sync.RWMutex
	emailTmpls  = make(map[string]*texttmpl.Template)
)

// RegisterEmailTemplate parses and registers a named plain-text email template.
// Domain packages register their templates at init time.
func RegisterEmailTemplate(name, body string) {
	emailTmplMu.Lock()
	defer emailTmplMu.Unlock()
	emailTmpls[name] = texttmpl.Must(texttmpl.New(name).Parse(body))
}

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
	}

	// ContextData is passed to every email template.
	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) contextData() ContextData {
	return ContextData{
		AppName:         Conf.AppName,
		FrontendBaseURL: Conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}
}

// Render resolves the message content: templated content wins over BodyStr.
func (m *EmailMessage) Render() error {
	if m.TemplateName == "" {
		m.TextContent = m.BodyStr
		return nil
	}

	emailTmplMu.RLock()
	tmpl, ok := emailTmpls[m.TemplateName]
	emailTmplMu.RUnlock()
	if !ok {
		return errors.Errorf("email template %q not registered", m.TemplateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m.contextData()); err != nil {
		return errors.Wrapf(err, "rendering email template %q", m.TemplateName)
	}
	m.TextContent = buf.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.BodyStr != ""
}
