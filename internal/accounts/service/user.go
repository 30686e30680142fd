package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AccountService registers users, checks their credentials and lets a token
// holder read and change their own account.
//
// Every method returns either its success value or an *Error. Unexpected
// failures are logged here and reach the caller only as KindServerError with
// a generic message.
type AccountService struct {
	Store    store.Store
	Hasher   cryptox.Hasher
	Signer   jwtx.Signer
	Verifier jwtx.Verifier

	TokenTTL time.Duration
	Issuer   string

	// Now defaults to time.Now.
	Now func() time.Time
}

type RegisterInput struct {
	Name         string
	UserName     string
	Password     string
	Role         string
	MobileNumber string
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// UpdateProfileInput changes name and/or role. An empty field is left as is.
// UserName names the account to change and defaults to the token owner.
type UpdateProfileInput struct {
	UserName string
	Name     string
	Role     string
}

type ChangePasswordInput struct {
	UserName    string
	OldPassword string
	NewPassword string
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AccountService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return jwtx.DefaultTokenTTL
}

// internal logs err and hides it behind a generic message.
func internal(l *slog.Logger, msg string, err error) *Error {
	l.Error(msg, slog.Any("error", err))
	return &Error{Kind: KindServerError, Message: msg, Err: err}
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Register creates a new account. The username check and the insert are a
// single conditional write, so concurrent registrations cannot both win.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) error {
	l := slogx.FromContext(ctx).With(slog.String("username", in.UserName))

	if blank(in.Name, in.UserName, in.Password, in.Role, in.MobileNumber) {
		return newError(KindBadInput, msgFieldsMandatory)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return newError(KindBadInput, msgPasswordTooLong)
		}
		return internal(l, msgSignupFailed, err)
	}

	now := s.now().UTC()
	err = s.Store.Users().CreateUser(ctx, domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     in.UserName,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         strings.TrimSpace(in.Role),
		MobileNumber: in.MobileNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrAlreadyExists):
		l.Info("registration rejected, username taken")
		return newError(KindConflict, msgUserExists)
	default:
		return internal(l, msgSignupFailed, err)
	}

	l.Info("user registered")
	return nil
}

// Authenticate checks username and password and issues an access token.
// A wrong password is always KindUnauthorized, an unknown user KindNotFound.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx).With(slog.String("username", username))

	if username == "" || password == "" {
		return LoginResult{}, newError(KindBadInput, msgLoginMissing)
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return LoginResult{}, newError(KindNotFound, msgUserNotFound)
	default:
		return LoginResult{}, internal(l, msgLoginFailed, err)
	}
	if user.PasswordHash == "" {
		return LoginResult{}, newError(KindNotFound, msgUserNotFound)
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		l.Info("login failed, invalid password")
		return LoginResult{}, newError(KindUnauthorized, msgInvalidPassword)
	}

	now := s.now()
	ttl := s.tokenTTL()
	claims := jwtx.NewClaims(user.Username, ttl, s.Issuer, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, internal(l, msgLoginFailed, err)
	}

	l.Info("login succeeded", slog.String("token_fp", cryptox.FingerprintToken(token)))
	return LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		ExpiresIn: ttl,
	}, nil
}

// authorize verifies token. It never touches the store, so a bad token costs
// no lookup.
func (s *AccountService) authorize(ctx context.Context, token string) (jwtx.Claims, *slog.Logger, error) {
	l := slogx.FromContext(ctx)
	if token == "" {
		return jwtx.Claims{}, l, newError(KindUnauthorized, msgUnauthorized)
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		l.Info("token rejected",
			slog.String("token_fp", cryptox.FingerprintToken(token)),
			slog.String("reason", err.Error()),
		)
		return jwtx.Claims{}, l, newError(KindUnauthorized, msgUnauthorized)
	}
	return claims, l.With(slog.String("username", claims.Username)), nil
}

// owner resolves which account a mutation targets. Only the token owner's
// own account may be changed.
func owner(claims jwtx.Claims, requested string) (string, error) {
	if requested == "" || requested == claims.Username {
		return claims.Username, nil
	}
	return "", newError(KindForbidden, msgForbidden)
}

// actor loads the token owner's record.
func (s *AccountService) actor(ctx context.Context, l *slog.Logger, username, failMsg string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, newError(KindNotFound, msgUserNotFound)
	default:
		return domain.User{}, internal(l, failMsg, err)
	}
}

// FetchProfile returns the public view of the token owner's account.
func (s *AccountService) FetchProfile(ctx context.Context, token string) (domain.PublicUser, error) {
	claims, l, err := s.authorize(ctx, token)
	if err != nil {
		return domain.PublicUser{}, err
	}

	user, err := s.actor(ctx, l, claims.Username, msgFetchFailed)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile changes name and role on the token owner's account. The
// write is addressed by (username, mobile number of the acting record), so a
// record that changed hands since the lookup is not touched.
func (s *AccountService) UpdateProfile(
	ctx context.Context,
	token string,
	in UpdateProfileInput,
) (domain.PublicUser, error) {
	claims, l, err := s.authorize(ctx, token)
	if err != nil {
		return domain.PublicUser{}, err
	}

	var patch domain.UserPatch
	if name := strings.TrimSpace(in.Name); name != "" {
		patch.Name = &name
	}
	if role := strings.TrimSpace(in.Role); role != "" {
		patch.Role = &role
	}
	if patch.IsEmpty() {
		return domain.PublicUser{}, newError(KindBadInput, msgNothingToUpdate)
	}

	target, err := owner(claims, in.UserName)
	if err != nil {
		l.Warn("profile update for another account refused", slog.String("target", in.UserName))
		return domain.PublicUser{}, err
	}

	acting, err := s.actor(ctx, l, claims.Username, msgUpdateFailed)
	if err != nil {
		return domain.PublicUser{}, err
	}

	updated, err := s.Store.Users().UpdateUser(ctx, target, acting.MobileNumber, patch)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return domain.PublicUser{}, newError(KindNotFound, msgUserNotFound)
	default:
		return domain.PublicUser{}, internal(l, msgUpdateFailed, err)
	}

	l.Info("profile updated")
	return updated.Public(), nil
}

// ChangePassword replaces the token owner's password after checking the old
// one. A wrong old password is KindBadInput and leaves the stored hash as is.
func (s *AccountService) ChangePassword(
	ctx context.Context,
	token string,
	in ChangePasswordInput,
) (domain.PublicUser, error) {
	claims, l, err := s.authorize(ctx, token)
	if err != nil {
		return domain.PublicUser{}, err
	}

	if in.OldPassword == "" || in.NewPassword == "" {
		return domain.PublicUser{}, newError(KindBadInput, msgFieldsMandatory)
	}

	target, err := owner(claims, in.UserName)
	if err != nil {
		l.Warn("password change for another account refused", slog.String("target", in.UserName))
		return domain.PublicUser{}, err
	}

	acting, err := s.actor(ctx, l, claims.Username, msgChangePwdFailed)
	if err != nil {
		return domain.PublicUser{}, err
	}

	if !s.Hasher.Verify(in.OldPassword, acting.PasswordHash) {
		l.Info("password change rejected, old password incorrect")
		return domain.PublicUser{}, newError(KindBadInput, msgOldPasswordWrong)
	}

	hash, err := s.Hasher.Hash(in.NewPassword)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return domain.PublicUser{}, newError(KindBadInput, msgPasswordTooLong)
		}
		return domain.PublicUser{}, internal(l, msgChangePwdFailed, err)
	}

	updated, err := s.Store.Users().UpdateUser(ctx, target, acting.MobileNumber, domain.UserPatch{
		PasswordHash: &hash,
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return domain.PublicUser{}, newError(KindNotFound, msgUserNotFound)
	default:
		return domain.PublicUser{}, internal(l, msgChangePwdFailed, err)
	}

	l.Info("password changed")
	return updated.Public(), nil
}
