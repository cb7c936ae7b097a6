package backend

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/octabyte/bm-talentportal/models"
)

func (c *Client) ListTalents(ctx context.Context, token, search string) (json.RawMessage, error) {
	return c.get(ctx, "talents.list", "/talents", token, func(r *resty.Request) {
		if search != "" {
			r.SetQueryParam("q", search)
		}
	})
}

func (c *Client) GetTalent(ctx context.Context, token, id string) (json.RawMessage, error) {
	return c.get(ctx, "talents.get", "/talents/{id}", token, withPathParams(map[string]string{"id": id}))
}

func (c *Client) ListProposals(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.get(ctx, "proposals.list", "/proposals/user/{userId}", token,
		withPathParams(map[string]string{"userId": userID}))
}

func (c *Client) CreateProposal(ctx context.Context, token string, p models.Proposal) (json.RawMessage, error) {
	return c.raw(ctx, "proposals.create", http.MethodPost, "/proposals", token, withBody(p))
}

func (c *Client) RequestConnection(ctx context.Context, token string, req models.ConnectionRequest) (json.RawMessage, error) {
	return c.raw(ctx, "connections.request", http.MethodPost, "/connections/request", token, withBody(req))
}

func (c *Client) AcceptConnection(ctx context.Context, token string, req models.ConnectionAccept) (json.RawMessage, error) {
	return c.raw(ctx, "connections.accept", http.MethodPost, "/connections/accept", token, withBody(req))
}

func (c *Client) ConnectionStatus(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.get(ctx, "connections.status", "/connections/status/{userId}", token,
		withPathParams(map[string]string{"userId": userID}))
}

func (c *Client) MutualConnections(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.get(ctx, "connections.mutual", "/connections/mutual/{userId}", token,
		withPathParams(map[string]string{"userId": userID}))
}

func (c *Client) ListConnections(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "connections.list", "/connections", token, nil)
}

func (c *Client) Follow(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.raw(ctx, "follows.create", http.MethodPost, "/follows/{userId}", token,
		withPathParams(map[string]string{"userId": userID}))
}
