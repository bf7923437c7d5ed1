package auth

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gst-invoicing/internal/application/dto"
	"github.com/jhoicas/gst-invoicing/internal/domain"
	"github.com/jhoicas/gst-invoicing/internal/domain/entity"
	"github.com/jhoicas/gst-invoicing/pkg/jwt"
)

// JWTConfig token generation settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase signs the single operator in and out.
type AuthUseCase struct {
	operator entity.Operator
	jwtCfg   JWTConfig
}

// NewOperator builds the operator from configured credentials. The ID is
// derived from the email so tokens survive restarts.
func NewOperator(email, name, passwordHash string) entity.Operator {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		name = email
	}
	return entity.Operator{
		ID:           uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
}

// NewAuthUseCase builds the use case.
func NewAuthUseCase(operator entity.Operator, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{operator: operator, jwtCfg: jwtCfg}
}

// Login checks email and password and returns a bearer token.
// Any mismatch is domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.operator.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if !strings.EqualFold(strings.TrimSpace(in.Email), uc.operator.Email) {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.operator.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.operator.ID, uc.operator.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  toOperatorResponse(uc.operator),
	}, nil
}

// Session reports whether token is a live session of the operator. It never
// fails; bad tokens are reported as unauthenticated.
func (uc *AuthUseCase) Session(token string) dto.SessionResponse {
	if token == "" {
		return dto.SessionResponse{}
	}
	id, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil || id != uc.operator.ID {
		return dto.SessionResponse{}
	}
	user := toOperatorResponse(uc.operator)
	return dto.SessionResponse{Authenticated: true, User: &user}
}

// HashPassword returns the bcrypt hash to put in AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toOperatorResponse(o entity.Operator) dto.OperatorResponse {
	return dto.OperatorResponse{ID: o.ID, Email: o.Email, Name: o.Name}
}
