package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gin-inventory/clients"
	"gin-inventory/config"
	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/errs"
	"gin-inventory/models"
	"gin-inventory/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IAuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.TokenResponse, error)
	Login(ctx context.Context, login string, password string) (*dto.TokenResponse, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, input dto.UpdateProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, user *models.User, input dto.ChangePasswordInput) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenString string, newPassword string) error
	Logout(ctx context.Context, tokenString string) error
}

// TokenClaims are carried by both access and password reset tokens; Type
// tells them apart.
type TokenClaims struct {
	Username string `json:"username"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

type AuthService struct {
	repository      repositories.IAuthRepository
	tokenRepository repositories.ITokenRepository
	mailer          clients.IMailer
	cfg             config.AuthConfig
	resetURL        string
	logger          zerolog.Logger
}

func NewAuthService(
	repository repositories.IAuthRepository,
	tokenRepository repositories.ITokenRepository,
	mailer clients.IMailer,
	cfg config.AuthConfig,
	resetURL string,
	logger zerolog.Logger,
) IAuthService {
	return &AuthService{
		repository:      repository,
		tokenRepository: tokenRepository,
		mailer:          mailer,
		cfg:             cfg,
		resetURL:        resetURL,
		logger:          logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	taken, err := s.repository.ExistsUsername(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewBadRequestError(constants.ErrUsernameTaken)
	}
	taken, err = s.repository.ExistsEmail(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewConflictError(constants.ErrEmailTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repository.CreateUser(ctx, models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     constants.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	return s.tokenResponse(user)
}

func (s *AuthService) Login(ctx context.Context, login string, password string) (*dto.TokenResponse, error) {
	login = strings.TrimSpace(login)
	foundUser, err := s.repository.FindUser(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) && strings.Contains(login, "@") {
		foundUser, err = s.repository.FindUser(ctx, strings.ToLower(login))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewUnauthorizedError(constants.ErrBadCredentials)
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(password))
	if err != nil {
		return nil, errs.NewUnauthorizedError(constants.ErrBadCredentials)
	}
	return s.tokenResponse(foundUser)
}

func (s *AuthService) tokenResponse(user *models.User) (*dto.TokenResponse, error) {
	token, err := s.CreateToken(user, constants.TokenTypeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func (s *AuthService) CreateToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Username: user.Username,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

func (s *AuthService) parseToken(tokenString string, tokenType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenType {
		return nil, fmt.Errorf("unexpected token type %q", claims.Type)
	}
	return claims, nil
}

func (s *AuthService) userIDFromClaims(claims *TokenClaims) (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject: %w", err)
	}
	return uint(id), nil
}

func (s *AuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.parseToken(tokenString, constants.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	// トークンがブラックリストに含まれているかチェック
	isBlacklisted, err := s.tokenRepository.IsTokenBlacklisted(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if isBlacklisted {
		return nil, errors.New("token is blacklisted")
	}

	userID, err := s.userIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	return s.repository.FindUserByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, input dto.UpdateProfileInput) (*models.User, error) {
	target := *user

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		taken, err := s.repository.ExistsUsername(ctx, username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errs.NewConflictError(constants.ErrUsernameTaken)
		}
		target.Username = username
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		taken, err := s.repository.ExistsEmail(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errs.NewConflictError(constants.ErrEmailTaken)
		}
		target.Email = email
	}
	return s.repository.UpdateUser(ctx, target)
}

func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, input dto.ChangePasswordInput) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		return errs.NewUnauthorizedError(constants.ErrWrongPassword)
	}
	return s.setPassword(ctx, *user, input.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, user models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	_, err = s.repository.UpdateUser(ctx, user)
	return err
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repository.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return notFoundOr(err, constants.ErrUserNotFound)
	}

	token, err := s.CreateToken(user, constants.TokenTypePasswordReset, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}
	link := s.resetURL + "?token=" + url.QueryEscape(token)

	body, err := clients.RenderPasswordResetEmail(user.Username, link, int(s.cfg.ResetTokenTTL.Minutes()))
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, user.Email, clients.PasswordResetSubject, body); err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("failed to send password reset email")
		return errs.NewBadGatewayError("Failed to send password reset email")
	}
	return nil
}

// ResetPassword accepts each reset token once; a used token is blacklisted.
func (s *AuthService) ResetPassword(ctx context.Context, tokenString string, newPassword string) error {
	claims, err := s.parseToken(tokenString, constants.TokenTypePasswordReset)
	if err != nil {
		return errs.NewBadRequestError(constants.ErrInvalidToken)
	}
	used, err := s.tokenRepository.IsTokenBlacklisted(ctx, tokenString)
	if err != nil {
		return err
	}
	if used {
		return errs.NewBadRequestError(constants.ErrInvalidToken)
	}

	userID, err := s.userIDFromClaims(claims)
	if err != nil {
		return errs.NewBadRequestError(constants.ErrInvalidToken)
	}
	user, err := s.repository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewBadRequestError(constants.ErrInvalidToken)
		}
		return err
	}

	if err := s.setPassword(ctx, *user, newPassword); err != nil {
		return err
	}
	return s.tokenRepository.AddBlacklistedToken(ctx, tokenString, claims.ExpiresAt.Unix())
}

func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString, constants.TokenTypeAccess)
	if err != nil {
		return errs.NewUnauthorizedError(constants.ErrInvalidToken)
	}

	// トークンをブラックリストに追加
	return s.tokenRepository.AddBlacklistedToken(ctx, tokenString, claims.ExpiresAt.Unix())
}
