package mintattempt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2021, 9, 26, 0, 12, 0, 0, time.FixedZone("JST", 9*3600))

	a, err := New(" payer ", "cm", "sig", OutcomeSuccess, "Congratulations! Mint succeeded!", now)
	require.NoError(t, err)

	_, err = uuid.Parse(a.ID)
	assert.NoError(t, err, "id is a uuid")
	assert.Equal(t, "payer", a.Wallet)
	assert.Equal(t, time.UTC, a.CreatedAt.Location())
}

func TestNew_Validation(t *testing.T) {
	now := time.Now()

	_, err := New("", "cm", "", OutcomeFailure, "", now)
	assert.ErrorIs(t, err, ErrInvalidWallet)

	_, err = New("payer", " ", "", OutcomeFailure, "", now)
	assert.ErrorIs(t, err, ErrInvalidCandyMachine)

	_, err = New("payer", "cm", "", Outcome("maybe"), "", now)
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	_, err = New("payer", "cm", "", OutcomeFailure, "", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidCreatedAt)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultListLimit, NormalizeLimit(-3))
	assert.Equal(t, 5, NormalizeLimit(5))
	assert.Equal(t, MaxListLimit, NormalizeLimit(10_000))
}
