package clients

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
)

const updateUserPath = "/userManagment/updateUser"

type linkRequest struct {
	User linkedChild `json:"user"`
}

type linkedChild struct {
	ID     string `json:"_id"`
	Parent string `json:"parent"`
}

// LinkageClient talks to the user management service.
type LinkageClient struct {
	client *jsonClient
}

var _ ports.LinkageService = (*LinkageClient)(nil)

func NewLinkageClient(baseURL string, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) *LinkageClient {
	return &LinkageClient{client: newJSONClient("linkage", baseURL, httpClient, m, logger)}
}

func (l *LinkageClient) LinkParent(ctx context.Context, childID, parentID string) error {
	return l.client.do(ctx, http.MethodPost, updateUserPath, linkRequest{
		User: linkedChild{ID: childID, Parent: parentID},
	}, nil)
}
