package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender отправляет SMS через Twilio REST API
type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSender{
		client:     client,
		fromNumber: fromNumber,
	}
}

// Send отправляет сообщение и возвращает SID. Клиент Twilio не принимает контекст,
// поэтому отмена проверяется только до вызова.
func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: could not send sms: %w", err)
	}

	var sid string
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	if resp.Status != nil && string(*resp.Status) == "failed" {
		return sid, fmt.Errorf("twilio: message %s failed", sid)
	}
	return sid, nil
}
