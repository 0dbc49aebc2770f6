package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"surveylens/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// TokenTTL is how long a host token stays valid
const TokenTTL = 7 * 24 * time.Hour

// hostNamespace scopes host IDs derived from usernames
var hostNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("surveylens/hosts"))

// AuthService handles host authentication
type AuthService struct {
	hostUsername string
	hostPassword string
	hostRole     model.HostRole
	jwtSecret    []byte
	now          func() time.Time
}

// NewAuthService creates a new auth service. Unknown roles fall back to VIEWER.
func NewAuthService(username, password, secret string, role model.HostRole) *AuthService {
	switch role {
	case model.RoleAdmin, model.RoleEditor, model.RoleViewer:
	default:
		role = model.RoleViewer
	}
	return &AuthService{
		hostUsername: username,
		hostPassword: password,
		hostRole:     role,
		jwtSecret:    []byte(secret),
		now:          time.Now,
	}
}

// HostID derives a stable host id from a username, so surveys keep their owner across logins
func HostID(username string) string {
	return uuid.NewSHA1(hostNamespace, []byte(username)).String()
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.hostUsername || password != s.hostPassword {
		return nil, ErrInvalidCredentials
	}

	hostID := HostID(username)
	now := s.now()
	claims := &model.HostClaims{
		HostID: hostID,
		Role:   s.hostRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   hostID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:  tokenString,
		HostID: hostID,
		Role:   s.hostRole,
	}, nil
}

// ValidateHostToken validates a host JWT and returns claims
func (s *AuthService) ValidateHostToken(tokenString string) (*model.HostClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.HostClaims)
	if !ok || !token.Valid || claims.HostID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
