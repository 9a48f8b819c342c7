package notify

import (
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/salontid/salontid-api/internal/config"
)

type TwilioSMS struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSMS(cfg *config.Config) *TwilioSMS {
	return &TwilioSMS{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioFromNumber,
	}
}

func (s *TwilioSMS) SendSMS(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}

var _ SMSSender = (*TwilioSMS)(nil)
