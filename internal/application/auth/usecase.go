package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
	"github.com/jhoicas/sistema-compras/pkg/jwt"
)

// MsgBadCredentials mensaje cuando el backend rechaza las credenciales sin texto propio.
const MsgBadCredentials = "Credenciales incorrectas."

// Backend autenticación delegada al backend de compras.
type Backend interface {
	Login(ctx context.Context, email, password string) (*dto.BackendLoginResponse, error)
	Me(ctx context.Context, accessToken string) (*entity.User, error)
}

// SessionConfig configuración de la cookie de sesión.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// LoginResult token firmado de la sesión web y el usuario autenticado.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Session   jwt.Session
	User      entity.User
}

// AuthUseCase inicio de sesión contra el backend y emisión de la sesión web.
type AuthUseCase struct {
	backend Backend
	cfg     SessionConfig
	newID   func() string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(backend Backend, cfg SessionConfig) *AuthUseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = 8 * time.Hour
	}
	return &AuthUseCase{backend: backend, cfg: cfg, newID: func() string { return uuid.New().String() }}
}

// Login valida el formulario, verifica las credenciales en el backend, obtiene
// el usuario y firma un token con un id de sesión nuevo.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*LoginResult, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	resp, err := uc.backend.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, credentialsError(err)
	}

	user := resp.User
	if user == nil {
		if resp.AccessToken == "" {
			return nil, fmt.Errorf("%w: respuesta de login sin usuario ni token", domain.ErrUnauthorized)
		}
		user, err = uc.backend.Me(ctx, resp.AccessToken)
		if err != nil {
			return nil, credentialsError(err)
		}
	}

	sess := jwt.Session{SessionID: uc.newID(), Email: user.Email, Role: user.Role}
	token, exp, err := jwt.Generate(uc.cfg.Secret, uc.cfg.Issuer, sess, uc.cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("firmar sesión: %w", err)
	}
	sess.ExpiresAt = exp
	return &LoginResult{Token: token, ExpiresAt: exp, Session: sess, User: *user}, nil
}

// Authenticate valida el token de la cookie. Cualquier fallo es domain.ErrUnauthorized.
func (uc *AuthUseCase) Authenticate(token string) (*jwt.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	s, err := jwt.Parse(uc.cfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return s, nil
}

// credentialsError traduce 400/401 del backend a ErrUnauthorized conservando el mensaje.
func credentialsError(err error) error {
	var re *domain.RemoteError
	if errors.As(err, &re) && (re.Status == 400 || re.Status == 401 || re.Status == 403) {
		msg := re.Message
		if msg == "" {
			msg = MsgBadCredentials
		}
		return &domain.RemoteError{Status: re.Status, Message: msg, Err: domain.ErrUnauthorized}
	}
	return err
}
