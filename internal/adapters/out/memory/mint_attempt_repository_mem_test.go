package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	madom "scratchmint/internal/domain/mintattempt"
)

func TestMintAttemptRepositoryMem(t *testing.T) {
	ctx := context.Background()
	r := NewMintAttemptRepositoryMem(3)
	base := time.Date(2021, 9, 26, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		a, err := r.Create(ctx, madom.Attempt{
			Wallet:       "w",
			CandyMachine: "cm",
			Outcome:      madom.OutcomeSuccess,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
	}

	got, err := r.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3, "capacity bounds the history")
	assert.Equal(t, base.Add(4*time.Minute), got[0].CreatedAt)
	assert.Equal(t, base.Add(2*time.Minute), got[2].CreatedAt)

	got, err = r.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMintAttemptRepositoryMem_Validates(t *testing.T) {
	_, err := NewMintAttemptRepositoryMem(0).Create(context.Background(), madom.Attempt{Outcome: madom.OutcomeSuccess})
	assert.ErrorIs(t, err, madom.ErrInvalidWallet)
}
