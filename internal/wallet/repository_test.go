package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

func TestListRequestsFilters(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	first := seedCustomer(t, conn, 10)
	second := seedCustomer(t, conn, 10)

	seed := []models.WalletRequest{
		{CustomerID: first.ID, Direction: enums.WalletCredit, Amount: types.MoneyFromFloat(5), Status: enums.StatusPending},
		{CustomerID: first.ID, Direction: enums.WalletDebit, Amount: types.MoneyFromFloat(3), Status: enums.StatusApproved},
		{CustomerID: second.ID, Direction: enums.WalletCredit, Amount: types.MoneyFromFloat(7), Status: enums.StatusPending},
	}
	for i := range seed {
		require.NoError(t, repo.CreateRequest(ctx, &seed[i]))
	}

	all, err := repo.ListRequests(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending := enums.StatusPending
	byStatus, err := repo.ListRequests(ctx, &pending, nil)
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	byCustomer, err := repo.ListRequests(ctx, &pending, &first.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, first.ID, byCustomer[0].CustomerID)

	unknown := uuid.New()
	none, err := repo.ListRequests(ctx, nil, &unknown)
	require.NoError(t, err)
	assert.Empty(t, none)
}
