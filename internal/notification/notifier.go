package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Notifier delivers push notifications to a single device token or to
// every subscriber of a topic.
type Notifier interface {
	Send(ctx context.Context, token, title, body string) error
	Broadcast(ctx context.Context, topic, title, body string) error
}

// FCMNotifier delivers pushes through Firebase Cloud Messaging.
type FCMNotifier struct {
	client *messaging.Client
}

// NewFCMNotifier initializes the Firebase app from a service account
// credentials file and returns a messaging-backed notifier.
func NewFCMNotifier(ctx context.Context, credentialsFile string) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	return &FCMNotifier{client: client}, nil
}

// Send delivers a notification to one device token.
func (n *FCMNotifier) Send(ctx context.Context, token, title, body string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	if _, err := n.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}

// Broadcast delivers a notification to every subscriber of a topic.
func (n *FCMNotifier) Broadcast(ctx context.Context, topic, title, body string) error {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	if _, err := n.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to broadcast notification: %w", err)
	}

	return nil
}

// LogNotifier writes would-be notifications to the log. It stands in for
// FCM when no credentials are configured, keeping local and test
// environments free of external calls.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, token, title, body string) error {
	n.logger.Info("Notification (log only)",
		zap.String("token", token),
		zap.String("title", title),
		zap.String("body", body),
	)
	return nil
}

func (n *LogNotifier) Broadcast(_ context.Context, topic, title, body string) error {
	n.logger.Info("Topic notification (log only)",
		zap.String("topic", topic),
		zap.String("title", title),
		zap.String("body", body),
	)
	return nil
}
