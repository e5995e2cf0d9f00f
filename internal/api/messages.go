package api

import "github.com/google/uuid"

// Auth. AuthToken is the server-facing half of the derived secrets,
// base64-encoded; the server stores only its hash.

type RegisterRequest struct {
	Username         string `json:"username"`
	AuthToken        string `json:"authToken"`
	WrappedMasterKey string `json:"wrappedMasterKey"`
}

type LoginRequest struct {
	Username  string `json:"username"`
	AuthToken string `json:"authToken"`
}

type LoginResponse struct {
	UserID           int64  `json:"userId"`
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	WrappedMasterKey string `json:"wrappedMasterKey"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Groups.

type CreateGroupRequest struct {
	WrappedGroupKey string `json:"wrappedGroupKey"`
	Name            string `json:"name"`
	Username        string `json:"username"`
}

type CreateGroupResponse struct {
	ID uuid.UUID `json:"id"`
}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddTransactionRequest struct {
	Transaction Transaction `json:"transaction"`
}

type AddTransactionResponse struct {
	ID uuid.UUID `json:"id"`
}

// Invitations. The server checks the commitment token and releases the
// wrapped key; it never sees the link secret itself.

type CreateInvitationRequest struct {
	GroupID           uuid.UUID `json:"groupId"`
	VerificationToken string    `json:"verificationToken"`
	WrappedGroupKey   string    `json:"wrappedGroupKey"`
}

type CreateInvitationResponse struct {
	ID uuid.UUID `json:"id"`
}

type RedeemInvitationRequest struct {
	VerificationToken string `json:"verificationToken"`
}

type RedeemInvitationResponse struct {
	GroupID         uuid.UUID `json:"groupId"`
	WrappedGroupKey string    `json:"wrappedGroupKey"`
}

type JoinGroupRequest struct {
	GroupID         uuid.UUID `json:"groupId"`
	WrappedGroupKey string    `json:"wrappedGroupKey"`
	Username        string    `json:"username"`
}

// Receipts: encrypted blobs moved via presigned URLs.

type PresignPutResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type PresignGetResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
