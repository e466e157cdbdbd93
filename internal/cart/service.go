package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
	"github.com/angelmondragon/restaurant-backend/pkg/storage"
	"github.com/shopspring/decimal"
)

// DefaultStorageKey prefixes every persisted cart.
const DefaultStorageKey = "cart_v1"

// Snapshot is a read-only view of a session cart.
type Snapshot struct {
	Lines         []Line          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalQuantity int             `json:"totalQuantity"`
}

func snapshotOf(c *Cart) Snapshot {
	return Snapshot{
		Lines:         c.Lines(),
		Subtotal:      c.Subtotal(),
		TotalQuantity: c.TotalQuantity(),
	}
}

// Service owns the session carts and persists every mutation.
type Service interface {
	Get(ctx context.Context, session string) (Snapshot, error)
	AddItem(ctx context.Context, session string, candidate Candidate) (AddResult, Snapshot, error)
	UpdateQuantity(ctx context.Context, session string, index, qty int) (Snapshot, error)
	UpdateLineAddOns(ctx context.Context, session string, index int, addOnIDs []string) (AddResult, Snapshot, error)
	RemoveLine(ctx context.Context, session string, index int) (Snapshot, error)
	Clear(ctx context.Context, session string) error
	// With runs fn against the session cart while holding its lock. The cart
	// is persisted afterwards when fn returns nil.
	With(ctx context.Context, session string, fn func(c *Cart) error) error
}

type service struct {
	kv     storage.KV
	prefix string
	logg   *logger.Logger
	locks  *sessionLocks
}

// NewService builds the cart service on top of a key-value store.
func NewService(kv storage.KV, keyPrefix string, logg *logger.Logger) (Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	keyPrefix = strings.TrimSpace(keyPrefix)
	if keyPrefix == "" {
		keyPrefix = DefaultStorageKey
	}
	return &service{
		kv:     kv,
		prefix: keyPrefix,
		logg:   logg,
		locks:  newSessionLocks(),
	}, nil
}

func (s *service) Get(ctx context.Context, session string) (Snapshot, error) {
	var snap Snapshot
	err := s.with(ctx, session, false, func(c *Cart) error {
		snap = snapshotOf(c)
		return nil
	})
	return snap, err
}

func (s *service) AddItem(ctx context.Context, session string, candidate Candidate) (AddResult, Snapshot, error) {
	if strings.TrimSpace(candidate.ItemID) == "" {
		return AddResult{}, Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	var (
		result AddResult
		snap   Snapshot
	)
	err := s.With(ctx, session, func(c *Cart) error {
		result = c.Add(candidate)
		snap = snapshotOf(c)
		return nil
	})
	return result, snap, err
}

func (s *service) UpdateQuantity(ctx context.Context, session string, index, qty int) (Snapshot, error) {
	var snap Snapshot
	err := s.With(ctx, session, func(c *Cart) error {
		c.UpdateQuantity(index, qty)
		snap = snapshotOf(c)
		return nil
	})
	return snap, err
}

func (s *service) UpdateLineAddOns(ctx context.Context, session string, index int, addOnIDs []string) (AddResult, Snapshot, error) {
	var (
		result = AddResult{Index: -1}
		snap   Snapshot
	)
	err := s.With(ctx, session, func(c *Cart) error {
		if index >= 0 && index < c.Len() {
			addOns, err := c.lines[index].ResolveAddOns(addOnIDs)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()).WithDetails(map[string]any{
					"field": "addOns",
				})
			}
			result, _ = c.UpdateLineAddOns(index, addOns)
		}
		snap = snapshotOf(c)
		return nil
	})
	return result, snap, err
}

func (s *service) RemoveLine(ctx context.Context, session string, index int) (Snapshot, error) {
	var snap Snapshot
	err := s.With(ctx, session, func(c *Cart) error {
		c.Remove(index)
		snap = snapshotOf(c)
		return nil
	})
	return snap, err
}

func (s *service) Clear(ctx context.Context, session string) error {
	return s.With(ctx, session, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

func (s *service) With(ctx context.Context, session string, fn func(c *Cart) error) error {
	return s.with(ctx, session, true, fn)
}

func (s *service) with(ctx context.Context, session string, persist bool, fn func(c *Cart) error) error {
	session = strings.TrimSpace(session)
	if session == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	unlock := s.locks.lock(session)
	defer unlock()

	c := s.load(ctx, session)
	if err := fn(c); err != nil {
		return err
	}
	if persist {
		s.persist(ctx, session, c)
	}
	return nil
}

func (s *service) storageKey(session string) string {
	return s.prefix + ":" + session
}

// load never fails: missing or unreadable data yields an empty cart.
func (s *service) load(ctx context.Context, session string) *Cart {
	raw, err := s.kv.Get(ctx, s.storageKey(session))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.load_failed")
		}
		return New(nil)
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.load_corrupt")
		return New(nil)
	}
	return New(lines)
}

// persist is best-effort: write failures are logged and the in-memory result stands.
func (s *service) persist(ctx context.Context, session string, c *Cart) {
	lines := c.Lines()
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		s.logg.Error(ctx, "cart.encode_failed", err)
		return
	}
	if err := s.kv.Set(ctx, s.storageKey(session), payload); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.persist_failed")
	}
}
