package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// UsersHandler adapts AccountService to HTTP.
type UsersHandler struct {
	Accounts *service.AccountService
}

func toSDKUser(u domain.PublicUser) accountsdk.User {
	return accountsdk.User{
		ID:           u.ID,
		UserName:     u.UserName,
		Name:         u.Name,
		Role:         u.Role,
		MobileNumber: u.MobileNumber,
		CreatedAt:    u.CreatedAt,
	}
}

// HandleSignup godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account. Every field is required and usernames are unique.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		accountsdk.SignupRequest	true	"New account"
//	@Success		201		{object}	accountsdk.MessageResponse	"signup successful"
//	@Failure		400		{object}	accountsdk.MessageResponse	"Missing or malformed field"
//	@Failure		409		{object}	accountsdk.MessageResponse	"Username already taken"
//	@Failure		500		{object}	accountsdk.MessageResponse	"Internal server error"
//	@Router			/v1/users/signup [post].
func (h *UsersHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		decodeError(err).WriteError(w)
		return
	}

	err := h.Accounts.Register(r.Context(), service.RegisterInput{
		Name:         req.Name,
		UserName:     req.UserName,
		Password:     req.Password,
		Role:         req.Role,
		MobileNumber: req.MobileNumber,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.MessageResponse{Message: service.MsgSignupSuccessful})
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Checks a username and password and returns an HS256 access token valid for one hour.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		accountsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	accountsdk.LoginResponse	"message, token, expires_in"
//	@Failure		400		{object}	accountsdk.MessageResponse	"Login details are missing"
//	@Failure		401		{object}	accountsdk.MessageResponse	"Invalid password"
//	@Failure		404		{object}	accountsdk.MessageResponse	"User not found"
//	@Failure		500		{object}	accountsdk.MessageResponse	"Internal server error"
//	@Router			/v1/users/login [post].
func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		decodeError(err).WriteError(w)
		return
	}

	res, err := h.Accounts.Authenticate(r.Context(), req.UserName, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.LoginResponse{
		Message:   service.MsgLoginSuccessful,
		Token:     res.Token,
		ExpiresIn: int(res.ExpiresIn / time.Second),
	})
}

// HandleProfile godoc
//
//	@Summary		Get own profile
//	@Description	Returns the account named by the bearer token. The password hash is never included.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.ProfileResponse	"user"
//	@Failure		401	{object}	accountsdk.MessageResponse	"Missing, invalid or expired token"
//	@Failure		404	{object}	accountsdk.MessageResponse	"User not found"
//	@Failure		500	{object}	accountsdk.MessageResponse	"Internal server error"
//	@Router			/v1/users/me [get].
func (h *UsersHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := bearer(w, r)
	if !ok {
		return
	}

	user, err := h.Accounts.FetchProfile(r.Context(), token)
	if err != nil {
		writeBearerError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.ProfileResponse{User: toSDKUser(user)})
}

// HandleUpdateProfile godoc
//
//	@Summary		Update own profile
//	@Description	Changes name and/or role of the token owner's account. userName may be omitted; if sent it must be the caller's own.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		accountsdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	accountsdk.UserMessageResponse	"Profile updated successfully!"
//	@Failure		400		{object}	accountsdk.MessageResponse		"Nothing to change or malformed body"
//	@Failure		401		{object}	accountsdk.MessageResponse		"Missing, invalid or expired token"
//	@Failure		403		{object}	accountsdk.MessageResponse		"Target is another account"
//	@Failure		404		{object}	accountsdk.MessageResponse		"User not found"
//	@Failure		500		{object}	accountsdk.MessageResponse		"Internal server error"
//	@Router			/v1/users/me [patch].
func (h *UsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := bearer(w, r)
	if !ok {
		return
	}

	var req accountsdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		decodeError(err).WriteError(w)
		return
	}

	user, err := h.Accounts.UpdateProfile(r.Context(), token, service.UpdateProfileInput{
		UserName: req.UserName,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		writeBearerError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.UserMessageResponse{
		Message: service.MsgProfileUpdated,
		User:    toSDKUser(user),
	})
}

// HandleChangePassword godoc
//
//	@Summary		Change own password
//	@Description	Replaces the token owner's password after checking the old one.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		accountsdk.ChangePasswordRequest	true	"Old and new password"
//	@Success		200		{object}	accountsdk.UserMessageResponse		"Password changed successfully"
//	@Failure		400		{object}	accountsdk.MessageResponse			"Old password is incorrect"
//	@Failure		401		{object}	accountsdk.MessageResponse			"Missing, invalid or expired token"
//	@Failure		403		{object}	accountsdk.MessageResponse			"Target is another account"
//	@Failure		404		{object}	accountsdk.MessageResponse			"User not found"
//	@Failure		500		{object}	accountsdk.MessageResponse			"Internal server error"
//	@Router			/v1/users/me/password [post].
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	token, ok := bearer(w, r)
	if !ok {
		return
	}

	var req accountsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		decodeError(err).WriteError(w)
		return
	}

	user, err := h.Accounts.ChangePassword(r.Context(), token, service.ChangePasswordInput{
		UserName:    req.UserName,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeBearerError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.UserMessageResponse{
		Message: service.MsgPasswordChanged,
		User:    toSDKUser(user),
	})
}

// bearer pulls the access token or answers 401 itself.
func bearer(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		slogx.FromContext(r.Context()).Debug("request without bearer token")
		httpx.WriteBearerChallenge(w, "", "")
		accountsdk.ErrMissingToken.WriteError(w)
		return "", false
	}
	return token, true
}
