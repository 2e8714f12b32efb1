package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sistema-compras/internal/domain"
)

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("crear orden: %w", &domain.RemoteError{Status: 400, Message: "presupuesto duplicado"})
	assert.Equal(t, "presupuesto duplicado", domain.UserMessage(wrapped))

	assert.Equal(t, domain.RemoteFallbackMessage, domain.UserMessage(&domain.RemoteError{Err: errors.New("dial tcp")}))
	assert.Equal(t, "Debe indicar la fecha.", domain.UserMessage(domain.NewFieldError("memoDate", "Debe indicar la fecha.")))
	assert.Equal(t, "", domain.UserMessage(nil))
}

func TestRemoteError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &domain.RemoteError{Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.IsNotFound())
	assert.True(t, (&domain.RemoteError{Status: 404}).IsNotFound())
}
