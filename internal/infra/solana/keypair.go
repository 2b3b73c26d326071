// internal/infra/solana/keypair.go
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"scratchmint/internal/domain/wallet"
)

var (
	ErrKeySourceNotConfigured = errors.New("keypair: source not configured")
	ErrKeySecretNotFound      = errors.New("keypair: secret not found")
)

// decodeKeypairJSON は solana-keygen の keypair JSON から 64 バイトの鍵配列を復元します。
// - 正: [u8;64]
// - 互換: [int,...]（値は 0..255）
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("keypair: unmarshal keypair json: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("keypair: unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
	}

	keyBytes := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair: byte out of range at %d: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}
	return keyBytes, nil
}

// EncodeKeypairJSON writes the private key in the solana-keygen file format.
func EncodeKeypairJSON(acc types.Account) ([]byte, error) {
	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// walletFromKeypairJSON turns keypair JSON into a wallet.Wallet.
func walletFromKeypairJSON(data []byte) (wallet.Wallet, error) {
	keyBytes, err := decodeKeypairJSON(data)
	if err != nil {
		return wallet.Wallet{}, err
	}
	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("keypair: AccountFromBytes: %w", err)
	}
	return wallet.New(acc.PublicKey.ToBase58(), acc.PrivateKey, acc.PublicKey.Bytes())
}

// ============================================================
// KeypairFile
// ============================================================

// KeypairFile loads the payer from a solana-keygen keypair file.
type KeypairFile struct {
	Path string
}

var _ wallet.KeySource = KeypairFile{}

func (k KeypairFile) Load(ctx context.Context) (wallet.Wallet, error) {
	_ = ctx
	path := strings.TrimSpace(k.Path)
	if path == "" {
		return wallet.Wallet{}, fmt.Errorf("%w: keypair file path is empty", ErrKeySourceNotConfigured)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("keypair: read %s: %w", path, err)
	}
	w, err := walletFromKeypairJSON(data)
	if err != nil {
		return wallet.Wallet{}, err
	}
	log.Printf("[keypair] loaded payer from file: pubkey=%s", maskShort(w.Address))
	return w, nil
}

// WriteKeypairFile stores acc as a solana-keygen compatible file (0600).
func WriteKeypairFile(path string, acc types.Account) error {
	data, err := EncodeKeypairJSON(acc)
	if err != nil {
		return fmt.Errorf("keypair: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("keypair: write %s: %w", path, err)
	}
	return nil
}

// ============================================================
// Secret Manager
// ============================================================

// SecretManagerKeySource loads the payer from a Secret Manager secret version, e.g.
//
//	projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest
type SecretManagerKeySource struct {
	VersionName string
}

var _ wallet.KeySource = SecretManagerKeySource{}

func (s SecretManagerKeySource) Load(ctx context.Context) (wallet.Wallet, error) {
	name := strings.TrimSpace(s.VersionName)
	if name == "" {
		return wallet.Wallet{}, fmt.Errorf("%w: secret version name is empty", ErrKeySourceNotConfigured)
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("keypair: secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return wallet.Wallet{}, fmt.Errorf("%w: %s", ErrKeySecretNotFound, name)
		}
		return wallet.Wallet{}, fmt.Errorf("keypair: AccessSecretVersion: %w", err)
	}
	if resp == nil || resp.Payload == nil || len(resp.Payload.Data) == 0 {
		return wallet.Wallet{}, fmt.Errorf("%w: %s", ErrKeySecretNotFound, name)
	}

	w, err := walletFromKeypairJSON(resp.Payload.Data)
	if err != nil {
		return wallet.Wallet{}, err
	}

	// ★ Secret Manager からの取得と復元が成功したタイミングでログ（公開鍵のみ）
	log.Printf("[keypair] loaded payer from Secret Manager: secret=%s pubkey=%s", name, maskShort(w.Address))
	return w, nil
}

// StoreKeypairSecret saves acc as a new version of projects/<projectID>/secrets/<secretID>,
// creating the secret first when it does not exist. It returns the version name.
func StoreKeypairSecret(ctx context.Context, projectID, secretID string, acc types.Account) (string, error) {
	pid := strings.TrimSpace(projectID)
	sid := strings.TrimSpace(secretID)
	if pid == "" || sid == "" {
		return "", fmt.Errorf("%w: projectID and secretID are required", ErrKeySourceNotConfigured)
	}

	payload, err := EncodeKeypairJSON(acc)
	if err != nil {
		return "", fmt.Errorf("keypair: marshal: %w", err)
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("keypair: secretmanager.NewClient: %w", err)
	}
	defer client.Close()

	parent := fmt.Sprintf("projects/%s", pid)
	secretName := fmt.Sprintf("projects/%s/secrets/%s", pid, sid)

	// Secret が存在しない場合のみ作成
	if _, err := client.GetSecret(ctx, &secretspb.GetSecretRequest{Name: secretName}); err != nil {
		if status.Code(err) != codes.NotFound {
			return "", fmt.Errorf("keypair: GetSecret %s: %w", sid, err)
		}
		_, cerr := client.CreateSecret(ctx, &secretspb.CreateSecretRequest{
			Parent:   parent,
			SecretId: sid,
			Secret: &secretspb.Secret{
				Replication: &secretspb.Replication{
					Replication: &secretspb.Replication_Automatic_{
						Automatic: &secretspb.Replication_Automatic{},
					},
				},
			},
		})
		if cerr != nil {
			return "", fmt.Errorf("keypair: CreateSecret %s: %w", sid, cerr)
		}
	}

	addRes, err := client.AddSecretVersion(ctx, &secretspb.AddSecretVersionRequest{
		Parent:  secretName,
		Payload: &secretspb.SecretPayload{Data: payload},
	})
	if err != nil {
		return "", fmt.Errorf("keypair: AddSecretVersion: %w", err)
	}
	return addRes.Name, nil
}
