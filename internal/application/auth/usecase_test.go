package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-compras/internal/application/auth"
	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
	"github.com/jhoicas/sistema-compras/internal/domain/entity"
)

const secret = "secreto-de-prueba"

type fakeBackend struct {
	resp    *dto.BackendLoginResponse
	err     error
	me      *entity.User
	meCalls int
	meToken string
}

func (b *fakeBackend) Login(context.Context, string, string) (*dto.BackendLoginResponse, error) {
	return b.resp, b.err
}

func (b *fakeBackend) Me(_ context.Context, token string) (*entity.User, error) {
	b.meCalls++
	b.meToken = token
	if b.me == nil {
		return nil, &domain.RemoteError{Status: 401}
	}
	return b.me, nil
}

func newUseCase(b auth.Backend) *auth.AuthUseCase {
	return auth.NewAuthUseCase(b, auth.SessionConfig{Secret: secret, Issuer: "sistema-compras", TTL: time.Hour})
}

func TestLogin_UsuarioEnLaRespuesta(t *testing.T) {
	b := &fakeBackend{resp: &dto.BackendLoginResponse{User: &entity.User{ID: 1, Email: "ana@compras.gob", Role: entity.RoleAnalyst}}}
	uc := newUseCase(b)

	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@compras.gob", Password: "x"})
	require.NoError(t, err)
	assert.Zero(t, b.meCalls)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.Session.SessionID)

	s, err := uc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Session.SessionID, s.SessionID)
	assert.Equal(t, "ana@compras.gob", s.Email)
	assert.Equal(t, entity.RoleAnalyst, s.Role)
}

func TestLogin_ConsultaMeConElToken(t *testing.T) {
	b := &fakeBackend{
		resp: &dto.BackendLoginResponse{AccessToken: "tok-123"},
		me:   &entity.User{ID: 2, Email: "luis@compras.gob", Role: entity.RoleAdmin},
	}
	res, err := newUseCase(b).Login(context.Background(), dto.LoginRequest{Email: "luis@compras.gob", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, b.meCalls)
	assert.Equal(t, "tok-123", b.meToken)
	assert.Equal(t, entity.RoleAdmin, res.User.Role)
}

func TestLogin_CadaSesionTieneIDPropio(t *testing.T) {
	b := &fakeBackend{resp: &dto.BackendLoginResponse{User: &entity.User{Email: "ana@compras.gob"}}}
	uc := newUseCase(b)
	a, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@compras.gob", Password: "x"})
	require.NoError(t, err)
	c, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@compras.gob", Password: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, a.Session.SessionID, c.Session.SessionID)
}

func TestLogin_CredencialesRechazadas(t *testing.T) {
	b := &fakeBackend{err: &domain.RemoteError{Status: 401}}
	_, err := newUseCase(b).Login(context.Background(), dto.LoginRequest{Email: "ana@compras.gob", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, auth.MsgBadCredentials, domain.UserMessage(err))
}

func TestLogin_ErrorDeRedNoEsCredencial(t *testing.T) {
	b := &fakeBackend{err: &domain.RemoteError{Status: 0, Err: errors.New("connection refused")}}
	_, err := newUseCase(b).Login(context.Background(), dto.LoginRequest{Email: "ana@compras.gob", Password: "x"})
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.RemoteFallbackMessage, domain.UserMessage(err))
}

func TestLogin_ValidaFormulario(t *testing.T) {
	_, err := newUseCase(&fakeBackend{}).Login(context.Background(), dto.LoginRequest{Email: "no-es-correo", Password: "x"})
	var fe *domain.FieldValidationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "email", fe.Field)
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	uc := newUseCase(&fakeBackend{})
	_, err := uc.Authenticate("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Authenticate("no.es.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
