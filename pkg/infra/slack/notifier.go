package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	slackapi "github.com/slack-go/slack"

	"adowatch/pkg/domain/interfaces"
	"adowatch/pkg/domain/model"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a notifier that posts build result changes to a Slack
// incoming webhook
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{
		webhookURL: webhookURL,
	}
}

// NotifyBuildChange posts one message per changed build definition
func (n *notifier) NotifyBuildChange(ctx context.Context, change model.BuildChange) error {
	text := fmt.Sprintf("%s: build %s finished with result %q (previous result was %q)",
		change.Definition.Name,
		change.Current.Number,
		change.Current.Result,
		change.Previous.Result,
	)
	if change.Current.WebURL != "" {
		text = fmt.Sprintf("%s\n%s", text, change.Current.WebURL)
	}

	msg := slackapi.WebhookMessage{
		Text: text,
	}

	if err := slackapi.PostWebhookContext(ctx, n.webhookURL, &msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("definition", change.Definition.Name))
	}

	return nil
}
