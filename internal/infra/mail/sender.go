package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var outboundTmpl = template.Must(template.ParseFS(templateFS, "templates/outbound.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendOutbound mails a ticket reply to the ticket's contact.
func (s *EmailSender) SendOutbound(to string, ticketID int64, body string) error {
	m, err := s.buildOutbound(to, ticketID, body)
	if err != nil {
		return err
	}
	return s.send(gomail.NewDialer(s.Host, s.Port, s.User, s.Password), m)
}

func (s *EmailSender) buildOutbound(to string, ticketID int64, body string) (*gomail.Message, error) {
	var html bytes.Buffer
	if err := outboundTmpl.Execute(&html, OutboundEmailData{TicketID: ticketID, Body: body}); err != nil {
		return nil, fmt.Errorf("rendering outbound email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Re: ticket #%d", ticketID))
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func (s *EmailSender) send(d dialer, m *gomail.Message) error {
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending email over SMTP: %w", err)
	}
	return nil
}
