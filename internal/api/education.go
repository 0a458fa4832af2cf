package api

import (
	"context"
	"net/http"
	"net/url"
)

// Countries lists the supported countries.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	var out struct {
		Countries []string `json:"countries"`
	}
	if err := c.call(ctx, http.MethodGet, "/education/countries", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Countries, nil
}

// Levels lists the education levels offered in country.
func (c *Client) Levels(ctx context.Context, country string) ([]string, error) {
	var out struct {
		Levels []string `json:"levels"`
	}
	path := "/education/levels/" + url.PathEscape(country)
	if err := c.call(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Levels, nil
}

// Boards lists the exam boards for a country and level.
func (c *Client) Boards(ctx context.Context, country, level string) ([]string, error) {
	var out struct {
		Boards []string `json:"boards"`
	}
	path := "/education/boards/" + url.PathEscape(country) + "/" + url.PathEscape(level)
	if err := c.call(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Boards, nil
}

// SetupEducation stores the user's educational context on the backend.
func (c *Client) SetupEducation(ctx context.Context, token string, setup EducationSetup) error {
	return c.call(ctx, http.MethodPost, "/education/setup", token, setup, nil)
}
