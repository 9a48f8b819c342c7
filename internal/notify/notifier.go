package notify

import "go.uber.org/zap"

// Message is one outbound customer notification. SMS goes out when Phone is
// set, email when Email is set; either channel may be empty.
type Message struct {
	TenantID string
	Phone    string
	Email    string
	Subject  string
	Body     string
}

type SMSSender interface {
	SendSMS(to, body string) error
}

type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// Dispatcher fans notifications out to SMS and email off the request path.
// Delivery is best effort: failures are logged and never reach the caller,
// and a full queue drops the message rather than blocking the API.
type Dispatcher struct {
	sms   SMSSender
	email EmailSender
	log   *zap.Logger
	queue chan Message
}

func NewDispatcher(sms SMSSender, email EmailSender, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sms:   sms,
		email: email,
		log:   log,
		queue: make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		if msg.Phone != "" && d.sms != nil {
			if err := d.sms.SendSMS(msg.Phone, msg.Body); err != nil {
				d.log.Error("sms delivery failed",
					zap.String("tenant_id", msg.TenantID),
					zap.Error(err),
				)
			}
		}

		if msg.Email != "" && d.email != nil {
			if err := d.email.SendEmail(msg.Email, msg.Subject, msg.Body); err != nil {
				d.log.Error("email delivery failed",
					zap.String("tenant_id", msg.TenantID),
					zap.Error(err),
				)
			}
		}
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, dropping message",
			zap.String("tenant_id", msg.TenantID),
		)
	}
}
