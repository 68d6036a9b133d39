package mail

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestBuildOutbound(t *testing.T) {
	s := NewEmailSender("smtp.local", 587, "", "", "nao-responda@mariacrm.local")

	m, err := s.buildOutbound("sara@example.com", 4, "Visit on <Tuesday>")
	require.NoError(t, err)

	assert.Equal(t, []string{"sara@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"nao-responda@mariacrm.local"}, m.GetHeader("From"))
	assert.Equal(t, []string{"Re: ticket #4"}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "Visit on &lt;Tuesday&gt;")
	assert.Contains(t, raw.String(), "Ticket #4")
}

func TestSendWrapsDialerError(t *testing.T) {
	s := NewEmailSender("smtp.local", 587, "", "", "nao-responda@mariacrm.local")
	m, err := s.buildOutbound("sara@example.com", 4, "hello")
	require.NoError(t, err)

	boom := errors.New("421 service not available")
	d := &recordingDialer{err: boom}

	err = s.send(d, m)

	assert.ErrorIs(t, err, boom)
	assert.Len(t, d.sent, 1)
}
