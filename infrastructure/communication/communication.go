package communication

import (
	"fmt"

	"github.com/slack-go/slack"

	"meridianadvisory.com/backoffice/infrastructure/devops"
)

// Slack posts operational notices to the configured channels. A nil
// receiver is a no-op, so callers never need to check whether Slack is
// configured.
type Slack struct {
	client  *slack.Client
	options Option
}

type Option struct {
	InfoChannelID  string
	ErrorChannelID string
}

func Connect(cfg devops.SlackConfig) *Slack {
	if cfg.Token == "" {
		return nil
	}
	return NewSlack(cfg.Token, Option{
		InfoChannelID:  cfg.InfoChannelID,
		ErrorChannelID: cfg.ErrorChannelID,
	})
}

func NewSlack(token string, options Option) *Slack {
	client := slack.New(token)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	if s == nil {
		return nil
	}
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	if s == nil {
		return nil
	}
	return s.postMessage(s.options.ErrorChannelID, message)
}
