// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/blocto/solana-go-sdk/client"

	httpin "scratchmint/internal/adapters/in/http"
	"scratchmint/internal/adapters/in/http/middleware"
	dbrepo "scratchmint/internal/adapters/out/db"
	fsrepo "scratchmint/internal/adapters/out/firestore"
	gcsrepo "scratchmint/internal/adapters/out/gcs"
	"scratchmint/internal/adapters/out/mail"
	"scratchmint/internal/adapters/out/memory"
	mintapp "scratchmint/internal/application/mint"
	assetdom "scratchmint/internal/domain/asset"
	cmdom "scratchmint/internal/domain/candymachine"
	"scratchmint/internal/domain/mintattempt"
	"scratchmint/internal/domain/wallet"
	"scratchmint/internal/infra/config"
	"scratchmint/internal/infra/database"
	firestoreinfra "scratchmint/internal/infra/firestore"
	"scratchmint/internal/infra/solana"
)

// defaultPriceLamports is the fee shown in the page copy.
const defaultPriceLamports = 3 * cmdom.LamportsPerSOL

// Container は main.go から使う依存オブジェクトの束。
type Container struct {
	Config *config.Config

	RPC       *client.Client
	Chain     *solana.CandyMachineClient
	Confirmer *solana.SignatureConfirmer

	Session  *wallet.Session
	Keys     wallet.KeySource // nil: payer 未設定
	Attempts mintattempt.Repository
	Notifier mintapp.Notifier
	Assets   assetdom.Store
	Auth     *middleware.AuthMiddleware

	Controller *mintapp.Controller
	Router     http.Handler

	closers []func() error
}

// Close は終了時に呼んで外部リソースを閉じる（後に開いたものから）。
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Build は DIコンテナを初期化して返す。
// 失敗時はそれまでに開いたリソースを閉じてからエラーを返す。
func Build(ctx context.Context, cfg *config.Config) (_ *Container, err error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}
	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	// ------------------------------------------------------------
	// 1. Solana
	// ------------------------------------------------------------
	c.RPC = solana.NewRPCClient(cfg.RPCURL)
	c.Chain = solana.NewCandyMachineClient(c.RPC, "", cfg.SkipPreflight, cfg.Commitment)
	c.Confirmer = solana.NewSignatureConfirmer(c.RPC, 0)
	c.Keys = keySource(cfg)
	c.Session = wallet.NewSession()

	// ------------------------------------------------------------
	// 2. Outbound adapters
	// ------------------------------------------------------------
	if c.Attempts, err = c.buildAttempts(ctx, cfg); err != nil {
		return nil, err
	}
	c.Notifier = mail.NewOperatorNotifierWithSendGrid(cfg.SendGridAPIKey, cfg.MailFrom, cfg.OperatorEmail, explorerTxURL(cfg.RPCURL))
	c.Assets = c.buildAssets(ctx, cfg)

	// ------------------------------------------------------------
	// 3. Application / inbound
	// ------------------------------------------------------------
	c.Controller, err = mintapp.NewController(mintapp.Settings{
		CandyMachineID: cfg.CandyMachineID,
		Config:         cfg.CandyMachineConfig,
		Treasury:       cfg.TreasuryAddress,
		StartDate:      cfg.StartDate,
		CountdownAt:    cfg.CountdownAt,
		TxTimeout:      cfg.TxTimeout,
		Commitment:     cfg.Commitment,
	}, mintapp.Deps{
		Machine:   c.Chain,
		Minter:    c.Chain,
		Confirmer: c.Confirmer,
		Balances:  c.Chain,
		Session:   c.Session,
		Attempts:  c.Attempts,
		Notifier:  c.Notifier,
	})
	if err != nil {
		return nil, fmt.Errorf("di: controller: %w", err)
	}

	c.Auth = buildAuth(ctx, cfg)
	c.Router = httpin.NewRouter(httpin.RouterDeps{
		Controller:    c.Controller,
		Keys:          c.Keys,
		Attempts:      c.Attempts,
		Assets:        c.Assets,
		Auth:          c.Auth,
		PriceLamports: defaultPriceLamports,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	log.Printf("[di] container built: candyMachine=%s attempts=%s notifier=%t assets=%t payer=%t auth=%t",
		cmdom.FormatAddress(cfg.CandyMachineID), attemptStoreName(cfg), cfg.NotifierEnabled(), c.Assets != nil, c.Keys != nil, c.Auth.Enabled())
	return c, nil
}

// keySource はファイル優先、なければ Secret Manager。どちらもなければ nil。
func keySource(cfg *config.Config) wallet.KeySource {
	switch {
	case cfg.PayerKeypairFile != "":
		return solana.KeypairFile{Path: cfg.PayerKeypairFile}
	case cfg.PayerKeySecret != "":
		return solana.SecretManagerKeySource{VersionName: cfg.PayerKeySecret}
	default:
		log.Printf("[di] WARN: PAYER_KEYPAIR_FILE / SOLANA_PAYER_KEY_SECRET not set. wallet connect disabled")
		return nil
	}
}

func attemptStoreName(cfg *config.Config) string {
	if cfg.AttemptStore == "" {
		return config.AttemptStoreNone
	}
	return cfg.AttemptStore
}

func (c *Container) buildAttempts(ctx context.Context, cfg *config.Config) (mintattempt.Repository, error) {
	switch cfg.AttemptStore {
	case config.AttemptStoreMemory:
		return memory.NewMintAttemptRepositoryMem(0), nil

	case config.AttemptStoreFirestore:
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("di: firestore: %w", err)
		}
		c.closers = append(c.closers, fs.Close)
		return fsrepo.NewMintAttemptRepositoryFS(fs.Client), nil

	case config.AttemptStorePostgres:
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("di: postgres: %w", err)
		}
		c.closers = append(c.closers, db.Close)
		repo := dbrepo.NewMintAttemptRepositoryPG(db.Client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("di: %w", err)
		}
		return repo, nil

	default:
		return nil, nil
	}
}

// buildAuth は署名ルート用の認証を組み立てる。
// Firebase の初期化に失敗しても運用者トークンだけで続行する。
func buildAuth(ctx context.Context, cfg *config.Config) *middleware.AuthMiddleware {
	m := &middleware.AuthMiddleware{OperatorToken: cfg.OperatorAPIToken}
	if len(cfg.AuthAllowedUIDs) > 0 {
		m.AllowedUIDs = make(map[string]bool, len(cfg.AuthAllowedUIDs))
		for _, uid := range cfg.AuthAllowedUIDs {
			m.AllowedUIDs[uid] = true
		}
	}

	if cfg.FirebaseProjectID != "" {
		fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed: %v", err)
		} else if authClient, err := fbApp.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase auth init failed: %v", err)
		} else {
			m.FirebaseAuth = authClient
			log.Printf("[di] Firebase Auth initialized project=%s", cfg.FirebaseProjectID)
		}
	}

	if !m.Enabled() {
		log.Printf("[di] WARN: OPERATOR_API_TOKEN / FIREBASE_PROJECT_ID not set. mint and wallet routes are closed")
	}
	return m
}

// buildAssets は ASSET_BUCKET があれば GCS の AssetStore を返す。失敗時は画像なしで続行。
func (c *Container) buildAssets(ctx context.Context, cfg *config.Config) assetdom.Store {
	if cfg.AssetBucket == "" {
		return nil
	}
	gcs, err := storage.NewClient(ctx)
	if err != nil {
		log.Printf("[di] WARN: storage.NewClient: %v (assets disabled)", err)
		return nil
	}
	c.closers = append(c.closers, gcs.Close)
	return gcsrepo.NewAssetStoreGCS(gcs, cfg.AssetBucket)
}

// explorerTxURL returns the Solana explorer tx URL format for the cluster behind rpcURL.
func explorerTxURL(rpcURL string) string {
	const base = "https://explorer.solana.com/tx/%s"
	u := strings.ToLower(rpcURL)
	switch {
	case u == "" || strings.Contains(u, "devnet"):
		return base + "?cluster=devnet"
	case strings.Contains(u, "testnet"):
		return base + "?cluster=testnet"
	default:
		return base
	}
}
