package clients

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
)

const (
	parentRegistrationMailPath = "/mail/sendParentRegistrationMail"
	temporaryPasswordMailPath  = "/mail/sendTemporaryPasswordMail"
	verificationCodeMailPath   = "/mail/sendVerificationCodeMail"
)

// NotificationClient talks to the mail service.
type NotificationClient struct {
	client *jsonClient
}

var _ ports.NotificationService = (*NotificationClient)(nil)

func NewNotificationClient(baseURL string, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) *NotificationClient {
	return &NotificationClient{client: newJSONClient("notification", baseURL, httpClient, m, logger)}
}

func (n *NotificationClient) SendParentRegistrationMail(ctx context.Context, mail ports.ParentRegistrationMail) (ports.Ack, error) {
	return n.send(ctx, parentRegistrationMailPath, mail)
}

func (n *NotificationClient) SendTemporaryPasswordMail(ctx context.Context, mail ports.TemporaryPasswordMail) (ports.Ack, error) {
	return n.send(ctx, temporaryPasswordMailPath, mail)
}

func (n *NotificationClient) SendVerificationCodeMail(ctx context.Context, mail ports.VerificationCodeMail) (ports.Ack, error) {
	return n.send(ctx, verificationCodeMailPath, mail)
}

func (n *NotificationClient) send(ctx context.Context, path string, mail any) (ports.Ack, error) {
	var ack ports.Ack
	if err := n.client.do(ctx, http.MethodPost, path, mail, &ack); err != nil {
		return ports.Ack{}, err
	}
	return ack, nil
}
