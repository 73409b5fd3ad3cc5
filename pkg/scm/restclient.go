package scm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cdot65/scmsync/pkg/types"
)

const (
	defaultTokenURL = "https://auth.apps.paloaltonetworks.com/am/oauth2/access_token"
	defaultAPIURL   = "https://api.strata.paloaltonetworks.com/config/objects/v1"
)

// Credentials holds the client-credentials grant used to open a session.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TSGID        string // tenant service group the session is scoped to

	// TokenURL and APIURL override the production endpoints; used in tests.
	TokenURL string
	APIURL   string
}

// RESTClient talks to the backend's REST API. It implements Client.
//
// The client performs the OAuth2 handshake lazily and refreshes the bearer
// token when it expires. Individual API calls are single-attempt: any
// non-success response is returned to the caller as-is, never retried.
type RESTClient struct {
	creds Credentials
	httpc *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

// Authenticate opens a session against the backend and verifies the
// credentials by performing the initial token exchange. Credential failures
// surface as *AuthenticationError with the backend's error code and HTTP
// status attached.
func Authenticate(ctx context.Context, creds Credentials) (*RESTClient, error) {
	if creds.TokenURL == "" {
		creds.TokenURL = defaultTokenURL
	}
	if creds.APIURL == "" {
		creds.APIURL = defaultAPIURL
	}
	c := &RESTClient{
		creds: creds,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
	if err := c.refreshToken(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RESTClient) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "tsg_id:"+c.creds.TSGID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &e)
		msg := e.Description
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return &AuthenticationError{
			Code:       e.Error,
			HTTPStatus: resp.StatusCode,
			Message:    msg,
		}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return &AuthenticationError{
			HTTPStatus: resp.StatusCode,
			Message:    "token response carried no access_token",
		}
	}

	c.mu.Lock()
	c.token = tok.AccessToken
	// Refresh one minute early so in-flight calls never race expiry.
	c.expires = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	c.mu.Unlock()
	return nil
}

func (c *RESTClient) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, expires := c.token, c.expires
	c.mu.Unlock()
	if token != "" && time.Now().Before(expires) {
		return token, nil
	}
	if err := c.refreshToken(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

// kindPaths maps resource kinds to their REST collection paths.
var kindPaths = map[types.ResourceKind]string{
	types.KindAddress:          "addresses",
	types.KindAddressGroup:     "address-groups",
	types.KindApplication:      "applications",
	types.KindApplicationGroup: "application-groups",
	types.KindService:          "services",
	types.KindServiceGroup:     "service-groups",
	types.KindTag:              "tags",
}

func (c *RESTClient) collectionURL(kind types.ResourceKind) string {
	return c.creds.APIURL + "/" + kindPaths[kind]
}

// Fetch looks up an object by name within its container. An empty result is
// reported as *NotFoundError, which reconciliation treats as a normal branch.
func (c *RESTClient) Fetch(ctx context.Context, id types.Identity) (*types.RemoteObject, error) {
	q := url.Values{}
	q.Set("name", id.Name)
	q.Set(string(id.Container.Scope), id.Container.Name)

	var list struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.collectionURL(id.Kind)+"?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	for _, attrs := range list.Data {
		if name, _ := attrs["name"].(string); name == id.Name {
			return objectFromAttrs(attrs)
		}
	}
	return nil, &NotFoundError{Identity: id}
}

// Create posts the desired attributes and returns the resulting object.
func (c *RESTClient) Create(ctx context.Context, kind types.ResourceKind, attrs map[string]any) (*types.RemoteObject, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, c.collectionURL(kind), attrs, &out); err != nil {
		return nil, err
	}
	return objectFromAttrs(out)
}

// Update replaces the remote object's attributes and returns the result.
func (c *RESTClient) Update(ctx context.Context, kind types.ResourceKind, obj *types.RemoteObject) (*types.RemoteObject, error) {
	body := make(map[string]any, len(obj.Attrs)+1)
	for k, v := range obj.Attrs {
		body[k] = v
	}
	body["id"] = obj.ID.String()

	var out map[string]any
	if err := c.do(ctx, http.MethodPut, c.collectionURL(kind)+"/"+obj.ID.String(), body, &out); err != nil {
		return nil, err
	}
	return objectFromAttrs(out)
}

// Delete removes the object by its stable id.
func (c *RESTClient) Delete(ctx context.Context, kind types.ResourceKind, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, c.collectionURL(kind)+"/"+id.String(), nil, nil)
}

func (c *RESTClient) do(ctx context.Context, method, rawURL string, body any, out any) error {
	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			HTTPStatus: resp.StatusCode,
			Message:    apiErrorMessage(raw),
		}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiErrorMessage pulls the first error message out of the backend's error
// envelope, falling back to the raw body.
func apiErrorMessage(raw []byte) string {
	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"_errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Errors) > 0 {
		return envelope.Errors[0].Message
	}
	return strings.TrimSpace(string(raw))
}

// objectFromAttrs splits the backend's stable id out of an attribute map.
func objectFromAttrs(attrs map[string]any) (*types.RemoteObject, error) {
	rawID, _ := attrs["id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("backend returned object with invalid id %q: %w", rawID, err)
	}
	clean := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if k == "id" {
			continue
		}
		clean[k] = v
	}
	return &types.RemoteObject{ID: id, Attrs: clean}, nil
}
