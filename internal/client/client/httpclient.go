package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/common"
)

// HTTPClient talks JSON to the backend. There is deliberately no retry or
// backoff here: a failed derivation or fetch is re-triggered by the caller.
// The only automatic behavior is a single token refresh on 401.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Register(ctx context.Context, username string, authToken []byte, wrappedMasterKey string) error {
	req := api.RegisterRequest{
		Username:         username,
		AuthToken:        base64.StdEncoding.EncodeToString(authToken),
		WrappedMasterKey: wrappedMasterKey,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/users", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username string, authToken []byte) (*api.LoginResponse, error) {
	req := api.LoginRequest{
		Username:  username,
		AuthToken: base64.StdEncoding.EncodeToString(authToken),
	}
	var resp api.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/sessions", req, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	c.mu.Unlock()
	return &resp, nil
}

// Logout drops the tokens; the next authenticated call will fail with
// common.ErrUnauthorized until Login succeeds again.
func (c *HTTPClient) Logout() {
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/ping", nil, nil)
}

func (c *HTTPClient) ListGroups(ctx context.Context) ([]api.Group, error) {
	var resp api.ListGroupsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

func (c *HTTPClient) CreateGroup(ctx context.Context, req api.CreateGroupRequest) (uuid.UUID, error) {
	var resp api.CreateGroupResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/groups", req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

func (c *HTTPClient) AddTransaction(ctx context.Context, groupID uuid.UUID, tx api.Transaction) (uuid.UUID, error) {
	req := api.AddTransactionRequest{Transaction: tx}
	var resp api.AddTransactionResponse
	path := fmt.Sprintf("/api/groups/%s/transactions", groupID)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

func (c *HTTPClient) CreateInvitation(ctx context.Context, req api.CreateInvitationRequest) (uuid.UUID, error) {
	var resp api.CreateInvitationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/invitations", req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

func (c *HTTPClient) RedeemInvitation(ctx context.Context, verificationToken string) (*api.RedeemInvitationResponse, error) {
	req := api.RedeemInvitationRequest{VerificationToken: verificationToken}
	var resp api.RedeemInvitationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/invitations/redeem", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) JoinGroup(ctx context.Context, req api.JoinGroupRequest) error {
	path := fmt.Sprintf("/api/groups/%s/members", req.GroupID)
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

func (c *HTTPClient) PresignReceiptPut(ctx context.Context) (*api.PresignPutResponse, error) {
	var resp api.PresignPutResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/receipts", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) PresignReceiptGet(ctx context.Context, key string) (string, error) {
	var resp api.PresignGetResponse
	path := fmt.Sprintf("/api/receipts/%s/url", key)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// UploadReceipt PUTs already-encrypted bytes to a presigned URL. The blob
// is ciphertext before it gets here; the storage backend sees nothing else.
func (c *HTTPClient) UploadReceipt(ctx context.Context, url string, ciphertext []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(ciphertext))
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("receipt upload status %d: %w", resp.StatusCode, common.ErrInternal)
	}
	return nil
}

func (c *HTTPClient) DownloadReceipt(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("receipt download status %d: %w", resp.StatusCode, common.ErrInternal)
	}
	return io.ReadAll(resp.Body)
}

// doJSON performs one API call. On 401 it refreshes the session once and
// replays the request; a second 401 surfaces as common.ErrUnauthorized.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	status, err := c.once(ctx, method, path, in, out)
	if err != nil && status == http.StatusUnauthorized && c.refresh(ctx) == nil {
		_, err = c.once(ctx, method, path, in, out)
	}
	return err
}

func (c *HTTPClient) once(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode, apiError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	c.mu.Lock()
	token := c.refreshToken
	c.mu.Unlock()
	if token == "" {
		return common.ErrUnauthorized
	}

	var resp api.RefreshResponse
	if _, err := c.once(ctx, http.MethodPost, "/api/sessions/refresh", api.RefreshRequest{RefreshToken: token}, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	c.mu.Unlock()
	return nil
}

func apiError(resp *http.Response) error {
	var msg api.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&msg)
	if msg.Error == "" {
		msg.Error = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg.Error, common.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg.Error, common.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", msg.Error, common.ErrAlreadyExists)
	default:
		return fmt.Errorf("%s: %w", msg.Error, common.ErrInternal)
	}
}
