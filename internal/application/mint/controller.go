// internal/application/mint/controller.go
package mint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"scratchmint/internal/domain/alert"
	cmdom "scratchmint/internal/domain/candymachine"
	"scratchmint/internal/domain/mintattempt"
	"scratchmint/internal/domain/wallet"
)

var (
	// ErrMintInProgress is returned when a mint is already in flight.
	ErrMintInProgress = errors.New("mint: already in progress")
	// ErrMintUnavailable is returned while the button is disabled (sold out or not active).
	ErrMintUnavailable = errors.New("mint: not available")
	ErrNotConfigured   = errors.New("mint: controller not configured")
)

// Settings are the page props.
type Settings struct {
	CandyMachineID string
	Config         string
	Treasury       string
	StartDate      time.Time
	// CountdownAt overrides StartDate as the activation instant when set.
	CountdownAt time.Time
	TxTimeout   time.Duration
	Commitment  cmdom.Commitment
}

// Deps are the collaborators of the controller. Attempts and Notifier are optional.
type Deps struct {
	Machine   cmdom.StateReader
	Minter    cmdom.Minter
	Confirmer cmdom.Confirmer
	Balances  cmdom.BalanceReader
	Session   WalletConnector
	Attempts  mintattempt.Repository
	Notifier  Notifier
	Now       func() time.Time
}

// ============================================================
// Controller 本体
// ============================================================

// Controller holds the mint page state and runs its two actions:
// state refresh and mint. All fields are guarded by mu; RPC calls run
// outside the lock.
type Controller struct {
	settings Settings

	machine   cmdom.StateReader
	minter    cmdom.Minter
	confirmer cmdom.Confirmer
	balances  cmdom.BalanceReader
	session   WalletConnector
	attempts  mintattempt.Repository
	notifier  Notifier
	now       func() time.Time

	mu             sync.Mutex
	balance        float64
	isActive       bool
	isSoldOut      bool
	isMinting      bool
	itemsAvailable int64
	itemsRedeemed  int64
	itemsRemaining int64
	alert          alert.State
	startDate      time.Time
	handle         *cmdom.Handle

	soldOutNotified bool
}

func NewController(s Settings, d Deps) (*Controller, error) {
	if d.Machine == nil || d.Minter == nil || d.Confirmer == nil || d.Balances == nil || d.Session == nil {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(s.CandyMachineID) == "" {
		return nil, fmt.Errorf("%w: candyMachineId is empty", ErrNotConfigured)
	}
	if s.TxTimeout <= 0 {
		s.TxTimeout = 30 * time.Second
	}
	if s.Commitment == "" {
		s.Commitment = cmdom.CommitmentConfirmed
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		settings:  s,
		machine:   d.Machine,
		minter:    d.Minter,
		confirmer: d.Confirmer,
		balances:  d.Balances,
		session:   d.Session,
		attempts:  d.Attempts,
		notifier:  d.Notifier,
		now:       now,
		startDate: s.StartDate,
	}, nil
}

// ============================================================
// Wallet connect / disconnect
// ============================================================

// ConnectWallet loads the payer from src, connects it and syncs balance and state.
func (c *Controller) ConnectWallet(ctx context.Context, src wallet.KeySource) (View, error) {
	if src == nil {
		return View{}, fmt.Errorf("%w: key source is nil", ErrNotConfigured)
	}
	w, err := src.Load(ctx)
	if err != nil {
		return View{}, fmt.Errorf("mint: load wallet: %w", err)
	}
	if err := c.session.Connect(w); err != nil {
		return View{}, fmt.Errorf("mint: connect wallet: %w", err)
	}
	log.Printf("[mint] wallet connected: %s", cmdom.FormatAddress(w.Address))

	if err := c.RefreshBalance(ctx); err != nil {
		log.Printf("[mint] WARN: balance after connect: %v", err)
	}
	if err := c.Refresh(ctx); err != nil {
		log.Printf("[mint] WARN: refresh after connect: %v", err)
	}
	return c.View(), nil
}

func (c *Controller) DisconnectWallet() View {
	c.session.Disconnect()
	log.Printf("[mint] wallet disconnected")
	return c.View()
}

// ============================================================
// Refresh
// ============================================================

// Refresh reads the candy machine state once. Without a wallet it does nothing.
func (c *Controller) Refresh(ctx context.Context) error {
	w, ok := c.session.Current()
	if !ok {
		return nil
	}

	st, err := c.machine.GetState(ctx, w.Address, c.settings.CandyMachineID)
	if err != nil {
		return fmt.Errorf("mint: refresh candy machine state: %w", err)
	}

	c.mu.Lock()
	c.itemsAvailable = st.ItemsAvailable
	c.itemsRemaining = st.ItemsRemaining
	c.itemsRedeemed = st.ItemsRedeemed
	c.isSoldOut = st.ItemsRemaining == 0
	if !st.GoLiveDate.IsZero() {
		c.startDate = st.GoLiveDate
	}
	h := st.Machine
	c.handle = &h

	notifySoldOut := c.isSoldOut && !c.soldOutNotified
	if notifySoldOut {
		c.soldOutNotified = true
	}
	c.mu.Unlock()

	if notifySoldOut && c.notifier != nil {
		if err := c.notifier.NotifySoldOut(ctx, c.settings.CandyMachineID, st.ItemsAvailable); err != nil {
			log.Printf("[mint] WARN: notify sold out: %v", err)
		}
	}
	return nil
}

// RefreshBalance reads the payer balance. Without a wallet it does nothing.
func (c *Controller) RefreshBalance(ctx context.Context) error {
	w, ok := c.session.Current()
	if !ok {
		return nil
	}
	lamports, err := c.balances.GetBalance(ctx, w.Address)
	if err != nil {
		return fmt.Errorf("mint: get balance: %w", err)
	}
	c.mu.Lock()
	c.balance = cmdom.ToSOL(lamports)
	c.mu.Unlock()
	return nil
}

// ============================================================
// Mint
// ============================================================

// Mint runs one mint attempt: submit → await confirmation → alert, then
// always re-reads balance and state. Failures become an error alert; the
// returned error is only ErrMintInProgress or ErrMintUnavailable, in which
// case nothing changed.
//
// A submitted transaction cannot be cancelled, so the caller's cancellation
// is not propagated into the attempt.
func (c *Controller) Mint(ctx context.Context) (View, error) {
	now := c.now()
	c.mu.Lock()
	if c.isMinting {
		c.mu.Unlock()
		return c.View(), ErrMintInProgress
	}
	if c.isSoldOut || !c.liveLocked(now) {
		c.mu.Unlock()
		return c.View(), ErrMintUnavailable
	}
	c.isMinting = true
	var handle *cmdom.Handle
	if c.handle != nil {
		h := *c.handle
		handle = &h
	}
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	w, hasWallet := c.session.Current()
	var res *attemptResult
	if hasWallet && handle != nil {
		r := c.submit(ctx, w, *handle)
		res = &r

		c.mu.Lock()
		c.alert = r.alert
		if r.soldOut {
			c.isSoldOut = true
		}
		c.mu.Unlock()
	}

	// finally
	if hasWallet {
		if err := c.RefreshBalance(ctx); err != nil {
			log.Printf("[mint] WARN: %v", err)
		}
	}
	c.mu.Lock()
	c.isMinting = false
	c.mu.Unlock()
	if err := c.Refresh(ctx); err != nil {
		log.Printf("[mint] WARN: %v", err)
	}

	if res != nil {
		c.record(ctx, w, *res)
	}
	return c.View(), nil
}

type attemptResult struct {
	signature string
	alert     alert.State
	success   bool
	soldOut   bool
}

func (c *Controller) submit(ctx context.Context, w wallet.Wallet, h cmdom.Handle) attemptResult {
	log.Printf("[mint] start wallet=%s candyMachine=%s", cmdom.FormatAddress(w.Address), cmdom.FormatAddress(h.ID))

	sig, err := c.minter.MintOne(ctx, h, c.settings.Config, w, c.settings.Treasury)
	if err != nil {
		cl := classifyError(err, MsgMintingFailed)
		log.Printf("[mint] submit failed: %v (code=%d)", err, cl.Code)
		return attemptResult{alert: alert.Failure(cl.Message, c.now()), soldOut: cl.SoldOut}
	}

	status, err := c.confirmer.AwaitConfirmation(ctx, sig, c.settings.TxTimeout, c.settings.Commitment)
	if err != nil {
		cl := classifyError(err, MsgMintingFailed)
		log.Printf("[mint] confirmation failed tx=%s: %v", cmdom.FormatAddress(sig), err)
		return attemptResult{signature: sig, alert: alert.Failure(cl.Message, c.now()), soldOut: cl.SoldOut}
	}

	if status.Err != nil {
		cl := classifyError(status.Err, MsgMintFailed)
		log.Printf("[mint] tx=%s landed with error: %v", cmdom.FormatAddress(sig), status.Err)
		return attemptResult{signature: sig, alert: alert.Failure(cl.Message, c.now()), soldOut: cl.SoldOut}
	}

	log.Printf("[mint] succeeded tx=%s slot=%d commitment=%s", cmdom.FormatAddress(sig), status.Slot, status.Commitment)
	return attemptResult{signature: sig, alert: alert.Success(MsgMintSucceeded, c.now()), success: true}
}

// record persists the attempt and notifies the operator. Both are best effort.
func (c *Controller) record(ctx context.Context, w wallet.Wallet, r attemptResult) {
	outcome := mintattempt.OutcomeFailure
	if r.success {
		outcome = mintattempt.OutcomeSuccess
	}

	if c.attempts != nil {
		a, err := mintattempt.New(w.Address, c.settings.CandyMachineID, r.signature, outcome, r.alert.Message, c.now())
		if err == nil {
			_, err = c.attempts.Create(ctx, a)
		}
		if err != nil {
			log.Printf("[mint] WARN: record attempt: %v", err)
		}
	}

	if r.success && c.notifier != nil {
		c.mu.Lock()
		remaining := c.itemsRemaining
		c.mu.Unlock()
		if err := c.notifier.NotifyMinted(ctx, w.Address, r.signature, remaining); err != nil {
			log.Printf("[mint] WARN: notify minted: %v", err)
		}
	}
}

// ============================================================
// Activation (countdown)
// ============================================================

func (c *Controller) activationAtLocked() time.Time {
	if !c.settings.CountdownAt.IsZero() {
		return c.settings.CountdownAt
	}
	return c.startDate
}

// SyncActivation activates the mint button once now reaches the activation
// instant. It reports true only on the call that activated it.
func (c *Controller) SyncActivation(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isActive {
		return false
	}
	if !NewCountdown(c.activationAtLocked(), now).Completed {
		return false
	}
	c.isActive = true
	log.Printf("[mint] activated at %s", now.UTC().Format(time.RFC3339))
	return true
}

// RunActivation checks activation every interval until the button is active
// or ctx is done.
func (c *Controller) RunActivation(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	if c.SyncActivation(c.now()) || c.active() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.SyncActivation(c.now()) || c.active() {
				return
			}
		}
	}
}

// liveLocked reports whether minting is open at now. Refresh may move the
// activation instant after the latch was set, so the instant is checked too.
func (c *Controller) liveLocked(now time.Time) bool {
	return c.isActive && NewCountdown(c.activationAtLocked(), now).Completed
}

func (c *Controller) active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isActive
}

// ============================================================
// Alert / View
// ============================================================

func (c *Controller) DismissAlert() View {
	c.mu.Lock()
	c.alert = c.alert.Dismiss()
	c.mu.Unlock()
	return c.View()
}

// View returns a snapshot of the page state.
func (c *Controller) View() View {
	now := c.now()
	w, hasWallet := c.session.Current()

	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.liveLocked(now)
	v := View{
		Balance:        c.balance,
		ItemsAvailable: c.itemsAvailable,
		ItemsRedeemed:  c.itemsRedeemed,
		ItemsRemaining: c.itemsRemaining,
		IsActive:       live,
		IsSoldOut:      c.isSoldOut,
		IsMinting:      c.isMinting,
		StartDate:      c.startDate,
		Alert:          c.alert.At(now),
		Countdown:      NewCountdown(c.activationAtLocked(), now),
		Button:         buttonFor(c.isSoldOut, live, c.isMinting, hasWallet),
	}
	if hasWallet {
		v.Wallet = &WalletView{Address: w.Address, Short: cmdom.FormatAddress(w.Address)}
	}
	return v
}
