package solana

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeypairJSON(t *testing.T) {
	acc := types.NewAccount()
	data, err := EncodeKeypairJSON(acc)
	require.NoError(t, err)

	got, err := decodeKeypairJSON(data)
	require.NoError(t, err)
	assert.Equal(t, []byte(acc.PrivateKey), got)

	_, err = decodeKeypairJSON([]byte(`{"k":1}`))
	assert.Error(t, err)

	_, err = decodeKeypairJSON([]byte(`[1,2,3]`))
	assert.Error(t, err)

	ints := make([]int, 64)
	ints[5] = 256
	bad, _ := json.Marshal(ints)
	_, err = decodeKeypairJSON(bad)
	assert.Error(t, err)
}

func TestKeypairFile_Load(t *testing.T) {
	acc := types.NewAccount()
	path := filepath.Join(t.TempDir(), "payer.json")
	require.NoError(t, WriteKeypairFile(path, acc))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	w, err := KeypairFile{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey.ToBase58(), w.Address)
	assert.Equal(t, acc.PrivateKey, w.Signer)
}

func TestKeypairFile_LoadErrors(t *testing.T) {
	_, err := KeypairFile{}.Load(context.Background())
	assert.ErrorIs(t, err, ErrKeySourceNotConfigured)

	_, err = KeypairFile{Path: filepath.Join(t.TempDir(), "missing.json")}.Load(context.Background())
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = KeypairFile{Path: path}.Load(context.Background())
	assert.Error(t, err)
}

func TestSecretManagerKeySource_RequiresName(t *testing.T) {
	_, err := SecretManagerKeySource{}.Load(context.Background())
	assert.ErrorIs(t, err, ErrKeySourceNotConfigured)

	_, err = StoreKeypairSecret(context.Background(), "", "payer", types.NewAccount())
	assert.ErrorIs(t, err, ErrKeySourceNotConfigured)
}
