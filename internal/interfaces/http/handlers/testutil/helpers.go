// Package testutil builds gin contexts for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"

	"github.com/gin-gonic/gin"

	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
	"genesiscode/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext returns a context for method and path. A non-nil body is sent as JSON.
func NewTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

// SetAuthContext stores userID the way the JWT middleware does.
func SetAuthContext(c *gin.Context, userID uint) {
	c.Set(constants.ContextKeyUserID, userID)
}

func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

func SetQueryParams(c *gin.Context, params map[string]string) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

func ParseResponse(w *httptest.ResponseRecorder, target any) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

// APIResponse is utils.APIResponse with Data left raw for a second decode.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type ErrorInfo = utils.ErrorInfo

func NewMockLogger() logger.Interface {
	return logger.NewNopLogger()
}
