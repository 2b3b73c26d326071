// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mr-tron/base58"
	"github.com/spf13/viper"

	cmdom "scratchmint/internal/domain/candymachine"
)

// Attempt store backends.
const (
	AttemptStoreNone      = "none"
	AttemptStoreMemory    = "memory"
	AttemptStoreFirestore = "firestore"
	AttemptStorePostgres  = "postgres"
)

const defaultTxTimeout = 30 * time.Second

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port          string
	AllowedOrigin string

	// ★ Solana / Candy Machine
	RPCURL             string
	CandyMachineID     string
	CandyMachineConfig string
	TreasuryAddress    string
	StartDate          time.Time
	CountdownAt        time.Time // 設定時は StartDate よりも優先
	TxTimeout          time.Duration
	Commitment         cmdom.Commitment
	SkipPreflight      bool

	// ★ payer keypair（ファイル優先、なければ Secret Manager）
	PayerKeypairFile string
	PayerKeySecret   string // projects/<p>/secrets/<s>/versions/latest

	// ★ mint 履歴の保存先
	AttemptStore             string
	DatabaseURL              string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// ★ 運営者向け通知（SendGrid）。API キー未設定なら通知はスキップされる
	SendGridAPIKey string
	OperatorEmail  string
	MailFrom       string

	// ★ ページ画像（GCS）。未設定なら埋め込み画像のみ
	AssetBucket string

	// ★ 署名ルート（mint / wallet）の認証。どちらも未設定ならそのルートは閉じる
	OperatorAPIToken  string
	FirebaseProjectID string   // Firebase ID トークン検証用
	AuthAllowedUIDs   []string // 空なら検証済みユーザー全員
}

// keys bound to environment variables.
var envKeys = []string{
	"PORT", "ALLOWED_ORIGIN",
	"SOLANA_RPC_URL", "CANDY_MACHINE_ID", "CANDY_MACHINE_CONFIG", "TREASURY_ADDRESS",
	"START_DATE", "COUNTDOWN_AT", "TX_TIMEOUT", "COMMITMENT", "SKIP_PREFLIGHT",
	"PAYER_KEYPAIR_FILE", "SOLANA_PAYER_KEY_SECRET",
	"ATTEMPT_STORE", "DATABASE_URL", "FIRESTORE_PROJECT_ID", "FIRESTORE_CREDENTIALS_FILE",
	"SENDGRID_API_KEY", "OPERATOR_EMAIL", "MAIL_FROM",
	"ASSET_BUCKET",
	"OPERATOR_API_TOKEN", "FIREBASE_PROJECT_ID", "AUTH_ALLOWED_UIDS",
}

// Load は .env / 設定ファイル / 環境変数を読み込み Config を返します。
// 優先順位: 環境変数 > 設定ファイル (CONFIG_FILE) > .env > デフォルト
func Load() (*Config, error) {
	// .env は任意（存在しなければ何もしない）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] WARN: .env: %v", err)
	}
	return LoadFrom(newViper(os.Getenv("CONFIG_FILE")))
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGIN", "") // 空 = same-origin のみ
	v.SetDefault("TX_TIMEOUT", defaultTxTimeout.String())
	v.SetDefault("COMMITMENT", string(cmdom.CommitmentConfirmed))
	v.SetDefault("SKIP_PREFLIGHT", false)
	v.SetDefault("ATTEMPT_STORE", AttemptStoreMemory)
	v.SetDefault("MAIL_FROM", "no-reply@scratchmint.local")

	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()

	if f := strings.TrimSpace(configFile); f != "" {
		v.SetConfigFile(f)
	}
	return v
}

// LoadFrom builds a Config from v. A config file set on v is read when present.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	var errs []error

	startDate, err := ParseDate(v.GetString("START_DATE"))
	if err != nil {
		errs = append(errs, fmt.Errorf("START_DATE: %w", err))
	}
	countdownAt, err := ParseDate(v.GetString("COUNTDOWN_AT"))
	if err != nil {
		errs = append(errs, fmt.Errorf("COUNTDOWN_AT: %w", err))
	}
	txTimeout, err := ParseTimeout(v.GetString("TX_TIMEOUT"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TX_TIMEOUT: %w", err))
	}

	cfg := &Config{
		Port:          strings.TrimSpace(v.GetString("PORT")),
		AllowedOrigin: strings.TrimSpace(v.GetString("ALLOWED_ORIGIN")),

		RPCURL:             strings.TrimSpace(v.GetString("SOLANA_RPC_URL")),
		CandyMachineID:     strings.TrimSpace(v.GetString("CANDY_MACHINE_ID")),
		CandyMachineConfig: strings.TrimSpace(v.GetString("CANDY_MACHINE_CONFIG")),
		TreasuryAddress:    strings.TrimSpace(v.GetString("TREASURY_ADDRESS")),
		StartDate:          startDate,
		CountdownAt:        countdownAt,
		TxTimeout:          txTimeout,
		Commitment:         cmdom.ParseCommitment(v.GetString("COMMITMENT")),
		SkipPreflight:      v.GetBool("SKIP_PREFLIGHT"),

		PayerKeypairFile: strings.TrimSpace(v.GetString("PAYER_KEYPAIR_FILE")),
		PayerKeySecret:   strings.TrimSpace(v.GetString("SOLANA_PAYER_KEY_SECRET")),

		AttemptStore:             strings.ToLower(strings.TrimSpace(v.GetString("ATTEMPT_STORE"))),
		DatabaseURL:              strings.TrimSpace(v.GetString("DATABASE_URL")),
		FirestoreProjectID:       strings.TrimSpace(v.GetString("FIRESTORE_PROJECT_ID")),
		FirestoreCredentialsFile: strings.TrimSpace(v.GetString("FIRESTORE_CREDENTIALS_FILE")),

		SendGridAPIKey: strings.TrimSpace(v.GetString("SENDGRID_API_KEY")),
		OperatorEmail:  strings.TrimSpace(v.GetString("OPERATOR_EMAIL")),
		MailFrom:       strings.TrimSpace(v.GetString("MAIL_FROM")),

		AssetBucket: strings.TrimSpace(v.GetString("ASSET_BUCKET")),

		OperatorAPIToken:  strings.TrimSpace(v.GetString("OPERATOR_API_TOKEN")),
		FirebaseProjectID: strings.TrimSpace(v.GetString("FIREBASE_PROJECT_ID")),
		AuthAllowedUIDs:   splitList(v.GetString("AUTH_ALLOWED_UIDS")),
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Validate checks required settings and address formats.
func (c *Config) Validate() error {
	var errs []error

	if c.CandyMachineID == "" {
		errs = append(errs, errors.New("CANDY_MACHINE_ID is required"))
	} else if err := validatePubkey(c.CandyMachineID); err != nil {
		errs = append(errs, fmt.Errorf("CANDY_MACHINE_ID: %w", err))
	}
	if c.CandyMachineConfig != "" {
		if err := validatePubkey(c.CandyMachineConfig); err != nil {
			errs = append(errs, fmt.Errorf("CANDY_MACHINE_CONFIG: %w", err))
		}
	}
	if c.TreasuryAddress != "" {
		if err := validatePubkey(c.TreasuryAddress); err != nil {
			errs = append(errs, fmt.Errorf("TREASURY_ADDRESS: %w", err))
		}
	}

	switch c.AttemptStore {
	case "", AttemptStoreNone, AttemptStoreMemory:
	case AttemptStoreFirestore:
		if c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID is required for ATTEMPT_STORE=firestore"))
		}
	case AttemptStorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for ATTEMPT_STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("ATTEMPT_STORE: unknown backend %q", c.AttemptStore))
	}

	if c.SendGridAPIKey != "" && c.OperatorEmail == "" {
		errs = append(errs, errors.New("OPERATOR_EMAIL is required when SENDGRID_API_KEY is set"))
	}

	return errors.Join(errs...)
}

// NotifierEnabled reports whether operator mail is configured.
func (c *Config) NotifierEnabled() bool {
	return c.SendGridAPIKey != "" && c.OperatorEmail != ""
}

// AuthEnabled reports whether the signing routes can be opened.
func (c *Config) AuthEnabled() bool {
	return c.OperatorAPIToken != "" || c.FirebaseProjectID != ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// validatePubkey checks that s decodes to a 32-byte ed25519 public key.
func validatePubkey(s string) error {
	b, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("invalid base58: %w", err)
	}
	if len(b) != 32 {
		return fmt.Errorf("invalid public key length: %d", len(b))
	}
	return nil
}

// ParseTimeout accepts a plain millisecond count ("30000") or a Go
// duration ("30s"). Empty means the default.
func ParseTimeout(s string) (time.Duration, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return defaultTxTimeout, nil
	}
	if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("must be positive: %q", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(t)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive: %q", s)
	}
	return d, nil
}

// ParseDate accepts RFC3339, unix seconds or unix milliseconds.
// Values above 1e12 are taken as milliseconds. Empty means zero time.
func ParseDate(s string) (time.Time, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return time.Time{}, nil
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, t)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return ts.UTC(), nil
}
