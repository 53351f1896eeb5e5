package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/edugrade/portal/core/activity"
	"github.com/edugrade/portal/core/performance"
)

// APIError is a non 2xx answer of the API.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Client talks to the EduGrade API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type loginResponse struct {
	Token string `json:"token"`
	RegNo string `json:"regNo"`
}

// Login signs a student in and opens their Session.
func (c *Client) Login(ctx context.Context, regNo, pwd string) (*Session, error) {
	body := map[string]string{"regNo": regNo, "password": pwd}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/student/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, RegNo: resp.RegNo}, nil
}

func (c *Client) Performance(ctx context.Context, sess *Session, semester int) (performance.Report, error) {
	body := map[string]string{"regNo": sess.RegNo, "semester": strconv.Itoa(semester)}
	var rep performance.Report
	err := c.do(ctx, http.MethodPost, "/api/student/performance", sess.Token, body, &rep)
	return rep, err
}

// Activity returns the events newer than since, newest first.
func (c *Client) Activity(ctx context.Context, sess *Session, since time.Time) ([]activity.Event, error) {
	path := "/api/activity"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}
	var resp struct {
		Events []activity.Event `json:"events"`
	}
	err := c.do(ctx, http.MethodGet, path, sess.Token, nil, &resp)
	return resp.Events, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

// decodeAPIError reads both error shapes of the API: {"error": msg} and {field: msg}.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var fields map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil || len(fields) == 0 {
		return apiErr
	}
	if msg, ok := fields["error"]; ok {
		apiErr.Message = msg
		return apiErr
	}
	msgs := make([]string, 0, len(fields))
	for f, msg := range fields {
		msgs = append(msgs, f+": "+msg)
	}
	sort.Strings(msgs)
	apiErr.Message = strings.Join(msgs, "; ")
	return apiErr
}
