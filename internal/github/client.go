package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v68/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"ghenv/internal/models"
)

const mediaTypeV3 = "application/vnd.github.v3+json"

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// Reporter receives one line per outcome.
type Reporter interface {
	Successf(format string, args ...any)
	Failuref(format string, args ...any)
	Detailf(format string, args ...any)
}

type Client struct {
	api    *gogithub.Client
	http   *http.Client
	report Reporter
	logger log.FieldLogger
}

// NewClient returns a client that sends token as a bearer credential on every
// request. A zero timeout leaves the HTTP client without a deadline.
func NewClient(token, baseURL string, timeout time.Duration, report Reporter, logger log.FieldLogger) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("token is required")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = timeout

	api := gogithub.NewClient(hc)
	if base := strings.TrimSpace(baseURL); base != "" && base != models.DefaultAPIURL {
		u, err := url.Parse(strings.TrimRight(base, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("error parsing api url: %w", err)
		}
		api.BaseURL = u
	}
	return &Client{api: api, http: hc, report: report, logger: logger}, nil
}

// TestConnection checks the token against the authenticated user endpoint.
func (c *Client) TestConnection(ctx context.Context) bool {
	user, resp, err := c.api.Users.Get(ctx, "")
	if resp != nil && resp.StatusCode == http.StatusOK {
		if login := user.GetLogin(); login != "" {
			c.report.Successf("Successfully connected to GitHub API as %s", login)
		} else {
			c.report.Successf("Successfully connected to GitHub API")
		}
		return true
	}
	if resp != nil {
		c.logger.WithError(err).Debug("Identity check rejected")
		c.report.Failuref("Failed to connect: %d", resp.StatusCode)
		return false
	}
	c.report.Failuref("Connection error: %v", err)
	return false
}

// CreateEnvironment creates or updates the named environment.
func (c *Client) CreateEnvironment(ctx context.Context, owner, repo, name string) bool {
	err := c.send(ctx, "create environment", http.MethodPut, environmentPath(owner, repo, name), nil)
	if err == nil {
		c.report.Successf("Created environment: %s", name)
		return true
	}
	if reqErr := asRequestError(err); reqErr != nil && reqErr.Status != 0 {
		c.report.Failuref("Failed to create environment %s: %d", name, reqErr.Status)
		c.report.Detailf("Response: %s", reqErr.Body)
		return false
	}
	c.report.Failuref("Error creating environment: %v", err)
	return false
}

// SetVariables creates each variable in order and stops at the first
// failure. Variables created before the failure are left in place.
func (c *Client) SetVariables(ctx context.Context, owner, repo, env string, vars models.Variables) bool {
	endpoint := environmentPath(owner, repo, env) + "/variables"
	for _, v := range vars {
		body := &gogithub.ActionsVariable{Name: v.Name, Value: v.Value}
		err := c.send(ctx, "set variable "+v.Name, http.MethodPost, endpoint, body)
		if err == nil {
			c.report.Successf("Set variable %s in %s", v.Name, env)
			continue
		}
		if reqErr := asRequestError(err); reqErr != nil && reqErr.Status != 0 {
			c.report.Failuref("Failed to set %s: %d", v.Name, reqErr.Status)
			c.report.Detailf("Response: %s", reqErr.Body)
			return false
		}
		c.report.Failuref("Error setting variable %s: %v", v.Name, err)
		return false
	}
	return true
}

// send performs one request and accepts 200 and 201 only.
func (c *Client) send(ctx context.Context, op, method, endpoint string, body any) error {
	req, err := c.api.NewRequest(method, endpoint, body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", mediaTypeV3)

	c.logger.WithFields(log.Fields{"method": method, "url": req.URL.String()}).Debug("Sending request")
	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &RequestError{Op: op, Status: resp.StatusCode, Body: string(b)}
}

func environmentPath(owner, repo, name string) string {
	return fmt.Sprintf("repos/%s/%s/environments/%s",
		url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(name))
}
