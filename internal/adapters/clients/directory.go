package clients

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
)

const (
	departmentSubjectsPath = "/departments/getDepartmentSubjects"
	addUserPath            = "/schools/addUser"
)

// DirectoryClient talks to the school directory service.
type DirectoryClient struct {
	client *jsonClient
}

var _ ports.DirectoryService = (*DirectoryClient)(nil)

func NewDirectoryClient(baseURL string, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) *DirectoryClient {
	return &DirectoryClient{client: newJSONClient("directory", baseURL, httpClient, m, logger)}
}

func (d *DirectoryClient) DepartmentSubjects(ctx context.Context, departmentID string) ([]ports.Subject, error) {
	var subjects []ports.Subject
	path := departmentSubjectsPath + "?id=" + url.QueryEscape(departmentID)
	if err := d.client.do(ctx, http.MethodGet, path, nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (d *DirectoryClient) AddUser(ctx context.Context, enrollment ports.Enrollment) error {
	return d.client.do(ctx, http.MethodPost, addUserPath, enrollment, nil)
}
