package mail

type OutboundEmailData struct {
	TicketID int64
	Body     string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
