package candymachine

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	goLive := time.Unix(1632615120, 0).UTC()

	s := NewState(9999, 12, goLive, 3*LamportsPerSOL, Handle{ID: "cm"})
	assert.Equal(t, int64(9987), s.ItemsRemaining)
	assert.False(t, s.SoldOut())

	s = NewState(10, 10, goLive, 0, Handle{})
	assert.Equal(t, int64(0), s.ItemsRemaining)
	assert.True(t, s.SoldOut())

	s = NewState(10, 12, goLive, 0, Handle{})
	assert.Equal(t, int64(0), s.ItemsRemaining, "remaining is clamped at zero")
}

func TestToSOL(t *testing.T) {
	assert.InDelta(t, 3.0, ToSOL(3*LamportsPerSOL), 1e-9)
	assert.InDelta(t, 0.5, ToSOL(LamportsPerSOL/2), 1e-9)
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "cndy...5WXZ", FormatAddress("cndyAnrLdpjq1Ssp1z8xxDsB8dxe7u4HL5Nxi2K5WXZ"))
	assert.Equal(t, "short", FormatAddress("short"))
	assert.Equal(t, "", FormatAddress(""))
	assert.Equal(t, "ab...yz", FormatAddressN("abcdefwxyz", 2))
}

func TestParseCommitment(t *testing.T) {
	cases := map[string]Commitment{
		"singleGossip": CommitmentConfirmed,
		"confirmed":    CommitmentConfirmed,
		"recent":       CommitmentProcessed,
		"processed":    CommitmentProcessed,
		"max":          CommitmentFinalized,
		" Finalized ":  CommitmentFinalized,
		"":             CommitmentConfirmed,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseCommitment(in), in)
	}
}

func TestCommitmentSatisfies(t *testing.T) {
	assert.True(t, CommitmentFinalized.Satisfies(CommitmentConfirmed))
	assert.True(t, CommitmentConfirmed.Satisfies(CommitmentConfirmed))
	assert.False(t, CommitmentProcessed.Satisfies(CommitmentConfirmed))
	assert.False(t, Commitment("").Satisfies(CommitmentProcessed))
}

func TestAsProgramError(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		err := fmt.Errorf("send: %w", &ProgramError{Code: CodeCandyMachineEmpty, Msg: "Candy machine is empty!"})
		pe, ok := AsProgramError(err)
		require.True(t, ok)
		assert.Equal(t, 311, pe.Code)
	})

	t.Run("hex in message", func(t *testing.T) {
		err := errors.New("Transaction simulation failed: Error processing Instruction 4: custom program error: 0x138")
		pe, ok := AsProgramError(err)
		require.True(t, ok)
		assert.Equal(t, CodeCandyMachineNotLiveYet, pe.Code)
	})

	t.Run("unrelated", func(t *testing.T) {
		_, ok := AsProgramError(errors.New("blockhash not found"))
		assert.False(t, ok)
		_, ok = AsProgramError(nil)
		assert.False(t, ok)
	})
}

func TestProgramErrorString(t *testing.T) {
	assert.Equal(t, "candymachine: program error 311 (0x137)", (&ProgramError{Code: 311}).Error())
	assert.Contains(t, (&ProgramError{Code: 309, Msg: "Not enough SOL"}).Error(), "Not enough SOL")
}
