package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/octabyte/bm-talentportal/models"
)

func (c *Client) ListJobs(ctx context.Context, token string, q models.JobQuery) (json.RawMessage, error) {
	return c.get(ctx, "jobs.list", "/jobs", token, func(r *resty.Request) {
		if q.Search != "" {
			r.SetQueryParam("q", q.Search)
		}
		if q.Location != "" {
			r.SetQueryParam("location", q.Location)
		}
		if q.Page > 0 {
			r.SetQueryParam("page", strconv.Itoa(q.Page))
		}
	})
}

func (c *Client) GetJob(ctx context.Context, token, id string) (json.RawMessage, error) {
	return c.get(ctx, "jobs.get", "/jobs/{id}", token, withPathParams(map[string]string{"id": id}))
}

// ApplyToJob submits an application. The backend answers 401 when the user
// already applied and 404 for an unknown job.
func (c *Client) ApplyToJob(ctx context.Context, token, id string, app models.JobApplication) (json.RawMessage, error) {
	return c.raw(ctx, "jobs.apply", http.MethodPost, "/jobs/{id}/apply", token,
		chain(withPathParams(map[string]string{"id": id}), withBody(app)))
}

func (c *Client) ListCompanyJobs(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "company.jobs.list", "/company/jobs", token, nil)
}

func (c *Client) CreateCompanyJob(ctx context.Context, token string, job models.JobPosting) (json.RawMessage, error) {
	return c.raw(ctx, "company.jobs.create", http.MethodPost, "/company/jobs", token, withBody(job))
}

func (c *Client) DeleteCompanyJob(ctx context.Context, token, id string) error {
	_, err := c.call(ctx, "company.jobs.delete", http.MethodDelete, "/company/jobs/{id}", token,
		withPathParams(map[string]string{"id": id}))
	return err
}

func (c *Client) ListApplications(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.get(ctx, "applications.list", "/applications/user/{userId}", token,
		withPathParams(map[string]string{"userId": userID}))
}
