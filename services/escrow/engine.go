package escrow

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"bookvault/models"
	"bookvault/services/token"
)

// slotStartBuffer is the minimum lead time between "now" and a new slot's
// start, so a slot can never be created already in progress.
const slotStartBuffer = 2 * time.Minute

// completedAttestTail is how long after a session's scheduled end the oracle
// may still attest a Completed outcome.
const completedAttestTail = 2 * time.Hour

// maxDurationMins caps a single session at four hours.
const maxDurationMins = 240

// maxCancelCutoffMins caps the free-cancellation cutoff at seven days.
const maxCancelCutoffMins = 10080

// Clock supplies the engine's notion of time. The engine trusts it blindly:
// it must be monotonic and not manipulable by callers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// EventSink receives every state-change event the engine emits. Publish is
// called inside the engine's write lock, so implementations must be fast and
// must never call back into the engine.
type EventSink interface {
	Publish(ev models.Event)
}

type noopSink struct{}

func (noopSink) Publish(models.Event) {}

// Identities configures the engine's privileged addresses. VaultAddress is
// the custody account all escrow funds are pulled into.
type Identities struct {
	Admin        string
	Oracle       string
	Treasury     string
	VaultAddress string
}

// Engine is the escrow and settlement state machine. All mutating operations
// take the write lock for their full duration and either complete entirely or
// roll back to their pre-call state; the only external side effect inside the
// lock is a single token-transfer call, made after state is fully updated.
type Engine struct {
	mu     sync.RWMutex
	logger *zap.Logger
	clock  Clock
	vault  token.Vault
	sink   EventSink

	admin    string
	oracle   string
	treasury string
	custody  string

	params models.EngineParams

	slots    map[uint64]*models.Slot
	bookings map[uint64]*models.Booking
	requests map[uint64]*models.Request

	nextSlotID    uint64
	nextBookingID uint64
	nextRequestID uint64

	owed      map[string]int64
	totalHeld int64

	basePrices map[string]int64
}

// New builds an engine. Clock, sink and logger may be nil, in which case the
// system clock, a no-op sink and a no-op logger are used.
func New(ids Identities, params models.EngineParams, vault token.Vault, sink EventSink, clock Clock, logger *zap.Logger) (*Engine, error) {
	if ids.Admin == "" || ids.Oracle == "" || ids.Treasury == "" || ids.VaultAddress == "" {
		return nil, validationErrf("admin, oracle, treasury and vault addresses are all required")
	}
	if vault == nil {
		return nil, validationErrf("token vault is required")
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = systemClock{}
	}
	if sink == nil {
		sink = noopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:        logger,
		clock:         clock,
		vault:         vault,
		sink:          sink,
		admin:         ids.Admin,
		oracle:        ids.Oracle,
		treasury:      ids.Treasury,
		custody:       ids.VaultAddress,
		params:        params,
		slots:         make(map[uint64]*models.Slot),
		bookings:      make(map[uint64]*models.Booking),
		requests:      make(map[uint64]*models.Request),
		nextSlotID:    1,
		nextBookingID: 1,
		nextRequestID: 1,
		owed:          make(map[string]int64),
		basePrices:    make(map[string]int64),
	}, nil
}

func validateParams(p models.EngineParams) error {
	if p.FeeBps < 0 || p.FeeBps > models.MaxFeeBps {
		return validationErrf("feeBps %d outside [0, %d]", p.FeeBps, models.MaxFeeBps)
	}
	if p.LateCancelPenaltyBps < 0 || p.LateCancelPenaltyBps > models.MaxLateCancelPenaltyBps {
		return validationErrf("lateCancelPenaltyBps %d outside [0, %d]", p.LateCancelPenaltyBps, models.MaxLateCancelPenaltyBps)
	}
	if p.ChallengeWindow <= 0 || p.ChallengeWindow > models.MaxChallengeWindow {
		return validationErrf("challengeWindow %s outside (0, %s]", p.ChallengeWindow, models.MaxChallengeWindow)
	}
	if p.ChallengeBond <= 0 {
		return validationErrf("challengeBond must be positive, got %d", p.ChallengeBond)
	}
	if p.NoAttestBuffer <= 0 || p.NoAttestBuffer > models.MaxNoAttestBuffer {
		return validationErrf("noAttestBuffer %s outside (0, %s]", p.NoAttestBuffer, models.MaxNoAttestBuffer)
	}
	if p.DisputeTimeout <= 0 || p.DisputeTimeout > models.MaxDisputeTimeout {
		return validationErrf("disputeTimeout %s outside (0, %s]", p.DisputeTimeout, models.MaxDisputeTimeout)
	}
	return nil
}

// UpdateParams replaces the economic parameters. Admin-only; existing
// bookings keep the terms they were created under.
func (e *Engine) UpdateParams(caller string, p models.EngineParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return authErrf("caller %s is not the admin", caller)
	}
	if err := validateParams(p); err != nil {
		return err
	}
	e.params = p
	e.logger.Info("engine params updated",
		zap.Int64("feeBps", p.FeeBps),
		zap.Int64("lateCancelPenaltyBps", p.LateCancelPenaltyBps),
		zap.Duration("challengeWindow", p.ChallengeWindow),
		zap.Int64("challengeBond", p.ChallengeBond))
	return nil
}

// SetOracle rotates the oracle identity. Admin-only.
func (e *Engine) SetOracle(caller, oracle string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return authErrf("caller %s is not the admin", caller)
	}
	if oracle == "" {
		return validationErrf("oracle address is required")
	}
	e.oracle = oracle
	e.logger.Info("oracle updated", zap.String("oracle", oracle))
	return nil
}

// SetAdmin hands the admin role to a new address. Admin-only.
func (e *Engine) SetAdmin(caller, admin string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return authErrf("caller %s is not the admin", caller)
	}
	if admin == "" {
		return validationErrf("admin address is required")
	}
	e.admin = admin
	e.logger.Info("admin updated", zap.String("admin", admin))
	return nil
}

// SetTreasury changes where fees and sweeps land. Admin-only.
func (e *Engine) SetTreasury(caller, treasury string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return authErrf("caller %s is not the admin", caller)
	}
	if treasury == "" {
		return validationErrf("treasury address is required")
	}
	e.treasury = treasury
	e.logger.Info("treasury updated", zap.String("treasury", treasury))
	return nil
}

// SetHostBasePrice publishes (or with 0 clears) a host's minimum session
// price. Requests targeting the host must meet it, and accepted requests
// price their slot from it.
func (e *Engine) SetHostBasePrice(caller string, price int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller == "" {
		return authErrf("caller identity is required")
	}
	if price < 0 {
		return validationErrf("base price must not be negative, got %d", price)
	}
	if price == 0 {
		delete(e.basePrices, caller)
	} else {
		e.basePrices[caller] = price
	}
	e.logger.Info("host base price set", zap.String("host", caller), zap.Int64("price", price))
	return nil
}

// credit adds to an address's withdrawable balance. Zero credits are skipped
// so empty fee/penalty legs don't clutter the ledger. Caller holds the lock.
func (e *Engine) credit(addr string, amount int64) {
	if amount <= 0 {
		return
	}
	e.owed[addr] += amount
}

// pull moves tokens from an external address into custody and bumps
// totalHeld. Caller holds the lock and must have finished all state
// transitions already; on failure the caller rolls everything back.
func (e *Engine) pull(from string, amount int64) error {
	e.totalHeld += amount
	if err := e.vault.TransferFrom(from, e.custody, amount); err != nil {
		e.totalHeld -= amount
		return financialErrf("token pull of %d from %s failed: %v", amount, from, err)
	}
	return nil
}

// emit publishes a state-change event. Caller holds the write lock.
func (e *Engine) emit(evType string, data map[string]interface{}) {
	ev := newEvent(evType, e.clock.Now(), data)
	e.sink.Publish(ev)
}
