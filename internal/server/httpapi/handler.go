// Package httpapi exposes the server's JSON API. It translates HTTP
// requests into service calls and service errors into status codes; all
// ledger payloads pass through untouched.
package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/logging"
	"github.com/splitvault/splitvault/internal/server/models"
	"github.com/splitvault/splitvault/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, username string, authToken []byte, wrappedMasterKey string) (*models.User, error)
	Login(ctx context.Context, username string, authToken []byte) (*services.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	VerifyAccessToken(tokenString string) (int64, error)
}

type GroupService interface {
	CreateGroup(ctx context.Context, userID int64, req api.CreateGroupRequest) (uuid.UUID, error)
	ListGroups(ctx context.Context, userID int64) ([]api.Group, error)
	AddTransaction(ctx context.Context, userID int64, groupID uuid.UUID, tx api.Transaction) (uuid.UUID, error)
	CreateInvitation(ctx context.Context, userID int64, req api.CreateInvitationRequest) (uuid.UUID, error)
	RedeemInvitation(ctx context.Context, verificationToken string) (*models.Invitation, error)
	JoinGroup(ctx context.Context, userID int64, req api.JoinGroupRequest) error
}

type ReceiptService interface {
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

type Handler struct {
	users    UserService
	groups   GroupService
	receipts ReceiptService
	logger   logging.Logger
}

func NewHandler(users UserService, groups GroupService, receipts ReceiptService, logger logging.Logger) *Handler {
	return &Handler{users: users, groups: groups, receipts: receipts, logger: logger}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}
	authToken, err := base64.StdEncoding.DecodeString(req.AuthToken)
	if err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	if _, err := h.users.Register(r.Context(), req.Username, authToken, req.WrappedMasterKey); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "username", req.Username)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}
	authToken, err := base64.StdEncoding.DecodeString(req.AuthToken)
	if err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	result, err := h.users.Login(r.Context(), req.Username, authToken)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.writeJSON(r.Context(), w, api.LoginResponse{
		UserID:           result.UserID,
		AccessToken:      result.Tokens.AccessToken,
		RefreshToken:     result.Tokens.RefreshToken,
		WrappedMasterKey: result.WrappedMasterKey,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.writeJSON(r.Context(), w, api.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	groups, err := h.groups.ListGroups(r.Context(), userID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, api.ListGroupsResponse{Groups: groups})
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req api.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	id, err := h.groups.CreateGroup(r.Context(), userID, req)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.logger.Info(r.Context(), "group created", "group_id", id)
	h.writeJSON(r.Context(), w, api.CreateGroupResponse{ID: id})
}

func (h *Handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	var req api.AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	id, err := h.groups.AddTransaction(r.Context(), userID, groupID, req.Transaction)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, api.AddTransactionResponse{ID: id})
}

func (h *Handler) joinGroup(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	var req api.JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}
	// The path owns the group id.
	req.GroupID = groupID

	if err := h.groups.JoinGroup(r.Context(), userID, req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.logger.Info(r.Context(), "member joined", "group_id", groupID, "user_id", userID)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) createInvitation(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req api.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	id, err := h.groups.CreateInvitation(r.Context(), userID, req)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, api.CreateInvitationResponse{ID: id})
}

func (h *Handler) redeemInvitation(w http.ResponseWriter, r *http.Request) {
	var req api.RedeemInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r.Context(), w, common.ErrDomainValidation)
		return
	}

	invitation, err := h.groups.RedeemInvitation(r.Context(), req.VerificationToken)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, api.RedeemInvitationResponse{
		GroupID:         invitation.GroupID,
		WrappedGroupKey: invitation.WrappedGroupKey,
	})
}

func (h *Handler) presignReceiptPut(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.receipts.GetPresignedPutUrl(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, api.PresignPutResponse{Key: key, URL: url})
}

func (h *Handler) presignReceiptGet(w http.ResponseWriter, r *http.Request) {
	// Storage keys contain slashes, so the route is a wildcard ending in
	// "/url": /api/receipts/<key...>/url.
	rest := chi.URLParam(r, "*")
	key, ok := cutURLSuffix(rest)
	if !ok {
		h.writeError(r.Context(), w, common.ErrNotFound)
		return
	}

	url, err := h.receipts.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, api.PresignGetResponse{URL: url})
}

func cutURLSuffix(path string) (string, bool) {
	const suffix = "/url"
	if len(path) <= len(suffix) || path[len(path)-len(suffix):] != suffix {
		return "", false
	}
	return path[:len(path)-len(suffix)], true
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(ctx, "response encoding failed", "error", err)
	}
}
