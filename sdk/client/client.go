package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Error is returned for non-2xx responses other than an access denial.
type Error struct {
	StatusCode int
	Type       string
	Message    string
	Details    string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error: status=%d type=%s message=%s details=%s", e.StatusCode, e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("api error: status=%d type=%s message=%s", e.StatusCode, e.Type, e.Message)
}

// IsStatus reports whether err is an API error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client is the GenesisCode API client.
type Client struct {
	baseURL       string
	token         string
	webhookSecret string
	httpClient    *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithWebhookSecret sets the shared secret used by NotifyCategoryPayment.
func WithWebhookSecret(secret string) Option {
	return func(client *Client) {
		client.webhookSecret = secret
	}
}

// NewClient creates a client. token is the bearer JWT of the acting user and may be
// empty for public endpoints and the payment webhook.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAccess asks whether the token's user may open a path, level or exercise.
// A denial is not an error: it comes back with HasAccess false and, for purchasable
// reasons, the plans that would cover the path.
func (c *Client) CheckAccess(ctx context.Context, pathID, levelID, exerciseID uint) (*AccessResult, error) {
	q := url.Values{}
	if levelID != 0 {
		q.Set("level_id", strconv.FormatUint(uint64(levelID), 10))
	}
	if exerciseID != 0 {
		q.Set("exercise_id", strconv.FormatUint(uint64(exerciseID), 10))
	}
	endpoint := fmt.Sprintf("%s/api/paths/%d/access", c.baseURL, pathID)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	status, resp, err := c.send(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}

	switch {
	case status == http.StatusOK:
		var d Decision
		if err := json.Unmarshal(resp.Data, &d); err != nil {
			return nil, fmt.Errorf("check access: unmarshal decision: %w", err)
		}
		return &AccessResult{Decision: d}, nil
	case status == http.StatusForbidden && resp.Error != nil && resp.Error.Type == "forbidden" && len(resp.Data) > 0:
		var denied struct {
			Decision Decision `json:"decision"`
			Plans    []Plan   `json:"plans"`
		}
		if err := json.Unmarshal(resp.Data, &denied); err != nil {
			return nil, fmt.Errorf("check access: unmarshal denial: %w", err)
		}
		return &AccessResult{Decision: denied.Decision, Plans: denied.Plans}, nil
	default:
		return nil, fmt.Errorf("check access: %w", toError(status, resp))
	}
}

// GetPathOverview fetches the public overview of a path.
func (c *Client) GetPathOverview(ctx context.Context, pathID uint) (*PathOverview, error) {
	var out PathOverview
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/paths/%d", c.baseURL, pathID), nil, &out); err != nil {
		return nil, fmt.Errorf("get path overview: %w", err)
	}
	return &out, nil
}

// CompleteLevel marks a level completed for the token's user.
func (c *Client) CompleteLevel(ctx context.Context, levelID uint) (*LevelCompletion, error) {
	var out LevelCompletion
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/api/levels/%d/complete", c.baseURL, levelID), nil, &out); err != nil {
		return nil, fmt.Errorf("complete level: %w", err)
	}
	return &out, nil
}

// GrantCourseAccess creates or replaces an explicit grant. Admin only.
func (c *Client) GrantCourseAccess(ctx context.Context, req GrantRequest) (*Grant, error) {
	var out Grant
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/api/admin/course-access", req, &out); err != nil {
		return nil, fmt.Errorf("grant course access: %w", err)
	}
	return &out, nil
}

// RevokeCourseAccess deactivates an explicit grant. Admin only.
func (c *Client) RevokeCourseAccess(ctx context.Context, grantID uint) error {
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/api/admin/course-access/%d", c.baseURL, grantID), nil, nil); err != nil {
		return fmt.Errorf("revoke course access: %w", err)
	}
	return nil
}

// GrantFreeCategoryAccess opens a category to a user without payment. Admin only.
func (c *Client) GrantFreeCategoryAccess(ctx context.Context, userID, categoryID uint, expiresAt *time.Time) (*CategoryAccess, error) {
	body := map[string]any{"user_id": userID, "category_id": categoryID}
	if expiresAt != nil {
		body["expires_at"] = expiresAt
	}
	var out CategoryAccess
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/api/admin/category-access/free", body, &out); err != nil {
		return nil, fmt.Errorf("grant free category access: %w", err)
	}
	return &out, nil
}

// UnlockLevel records a level as unlocked inside a category the user can access. Admin only.
func (c *Client) UnlockLevel(ctx context.Context, categoryID, userID, pathID, levelID uint) (*UnlockResult, error) {
	body := map[string]uint{"user_id": userID, "path_id": pathID, "level_id": levelID}
	var out UnlockResult
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/api/categories/%d/unlock", c.baseURL, categoryID), body, &out); err != nil {
		return nil, fmt.Errorf("unlock level: %w", err)
	}
	return &out, nil
}

// NotifyCategoryPayment delivers a successful category purchase, as the payment gateway would.
func (c *Client) NotifyCategoryPayment(ctx context.Context, payment CategoryPayment) (*CategoryAccess, error) {
	var out CategoryAccess
	headers := map[string]string{"X-Webhook-Secret": c.webhookSecret}
	status, resp, err := c.send(ctx, http.MethodPost, c.baseURL+"/api/webhooks/category-payment", payment, headers)
	if err != nil {
		return nil, fmt.Errorf("notify category payment: %w", err)
	}
	if err := decode(status, resp, &out); err != nil {
		return nil, fmt.Errorf("notify category payment: %w", err)
	}
	return &out, nil
}

// doRequest performs an authenticated request and decodes the data envelope into result.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	status, resp, err := c.send(ctx, method, endpoint, body, nil)
	if err != nil {
		return err
	}
	return decode(status, resp, result)
}

func (c *Client) send(ctx context.Context, method, endpoint string, body any, headers map[string]string) (int, *apiResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	var apiResp apiResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return resp.StatusCode, nil, &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
	}
	return resp.StatusCode, &apiResp, nil
}

func decode(status int, resp *apiResponse, result any) error {
	if status < 200 || status >= 300 {
		return toError(status, resp)
	}
	if result == nil || resp == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return nil
}

func toError(status int, resp *apiResponse) error {
	apiErr := &Error{StatusCode: status}
	if resp != nil && resp.Error != nil {
		apiErr.Type = resp.Error.Type
		apiErr.Message = resp.Error.Message
		apiErr.Details = resp.Error.Details
	} else if resp != nil {
		apiErr.Message = resp.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
