package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/nimeshabuddhika/account-service/internal/models"
	"github.com/nimeshabuddhika/account-service/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRequiresPersistedAccount(t *testing.T) {
	repo := NewAccountRepository(nil)

	err := repo.Update(context.Background(), nil, models.Account{Name: "never persisted"})
	require.Error(t, err)

	var appErr pkg.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkg.ErrProgrammingCode, appErr.Code)
}
