package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service owns every game-state transition. Each action is one
// serializable read-modify-write on a single games row, retried on
// serialization conflicts.
type Service struct {
	db     *pgxpool.Pool
	log    *slog.Logger
	policy ClockPolicy
	mu     sync.Mutex
	rand   *mathrand.Rand
}

func NewService(db *pgxpool.Pool, logger *slog.Logger, policy ClockPolicy) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:     db,
		log:    logger,
		policy: policy,
		rand:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// CurrentGame returns the owner's active playthrough.
func (s *Service) CurrentGame(ctx context.Context, ownerID string) (Game, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE owner_id = $1 AND is_active
	`, ownerID)
	g, err := scanGame(row)
	if err == pgx.ErrNoRows {
		return Game{}, ErrNoActiveGame
	}
	return g, err
}

// GameByID loads any playthrough the owner has, active or retired.
func (s *Service) GameByID(ctx context.Context, ownerID, gameID string) (Game, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = $1 AND owner_id = $2
	`, gameID, ownerID)
	g, err := scanGame(row)
	if err == pgx.ErrNoRows {
		return Game{}, ErrGameNotFound
	}
	return g, err
}

// StartGame deactivates any running playthrough for the owner and
// seeds a new one. Team power starts equal to the main character's
// power.
func (s *Service) StartGame(ctx context.Context, in StartGameInput) (Game, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Game{}, fmt.Errorf("%w: character name is required", ErrInvalidInput)
	}
	in.Position = strings.ToLower(strings.TrimSpace(in.Position))
	if !validPosition(in.Position) {
		return Game{}, fmt.Errorf("%w: position must be one of %s", ErrInvalidInput, strings.Join(Positions, ", "))
	}
	power := in.Power
	if power <= 0 {
		power = DefaultMainPower
	}

	g := Game{
		OwnerID:  in.OwnerID,
		Money:    StartingMoney,
		Mental:   StartingMental,
		Time:     StartClock,
		Main:     Member{Name: in.Name, Position: in.Position, Power: power, Image: in.Image},
		IsActive: true,
		Revision: 1,
	}
	g.RecomputeTeamPower()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return Game{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE games
		SET is_active = false, revision = revision + 1, updated_at = now()
		WHERE owner_id = $1 AND is_active
	`, in.OwnerID); err != nil {
		return Game{}, err
	}
	if err := insertGameTx(ctx, tx, &g); err != nil {
		return Game{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Game{}, err
	}
	s.log.Info("game started", "owner_id", in.OwnerID, "game_id", g.ID, "position", in.Position)
	return g, nil
}

// ShopOffersFor rolls the shop inventory for one member. Browsing is
// free until the player leaves or buys; the time cost is booked by
// those handlers.
func (s *Service) ShopOffersFor(ctx context.Context, ownerID, gameID, memberKey string) ([]Instrument, error) {
	key, err := ParseMemberKey(memberKey)
	if err != nil {
		return nil, err
	}
	g, err := s.loadForAction(ctx, ownerID, gameID)
	if err != nil {
		return nil, err
	}
	if err := checkShopOpen(&g, s.policy); err != nil {
		return nil, err
	}
	m, err := g.MemberAt(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ShopOffers(m.Position, s.rand), nil
}

func (s *Service) loadForAction(ctx context.Context, ownerID, gameID string) (Game, error) {
	if gameID == "" {
		return s.CurrentGame(ctx, ownerID)
	}
	return s.GameByID(ctx, ownerID, gameID)
}

func (s *Service) Work(ctx context.Context, ownerID, gameID, idem string) (Game, WorkSummary, error) {
	return mutateGame(ctx, s, ownerID, gameID, idem, "work", func(g *Game) (WorkSummary, error) {
		return resolveWork(g, s.policy, s.rand)
	})
}

func (s *Service) Rest(ctx context.Context, ownerID, gameID, idem string) (Game, RestSummary, error) {
	return mutateGame(ctx, s, ownerID, gameID, idem, "rest", func(g *Game) (RestSummary, error) {
		return resolveRest(g, s.rand)
	})
}

func (s *Service) Practice(ctx context.Context, ownerID, gameID, idem string, score int) (Game, PracticeSummary, error) {
	return mutateGame(ctx, s, ownerID, gameID, idem, "practice", func(g *Game) (PracticeSummary, error) {
		return resolvePractice(g, s.rand, score)
	})
}

func (s *Service) Perform(ctx context.Context, ownerID, gameID, idem, venueID string) (Game, PerformSummary, error) {
	venue, ok := VenueByID(strings.ToLower(strings.TrimSpace(venueID)))
	if !ok {
		return Game{}, PerformSummary{}, fmt.Errorf("%w: %q", ErrVenueUnknown, venueID)
	}
	return mutateGame(ctx, s, ownerID, gameID, idem, "perform", func(g *Game) (PerformSummary, error) {
		return resolvePerform(g, s.policy, s.rand, venue)
	})
}

func (s *Service) Purchase(ctx context.Context, ownerID, gameID, idem, memberKey string, item Instrument) (Game, PurchaseSummary, error) {
	key, err := ParseMemberKey(memberKey)
	if err != nil {
		return Game{}, PurchaseSummary{}, err
	}
	return mutateGame(ctx, s, ownerID, gameID, idem, "purchase", func(g *Game) (PurchaseSummary, error) {
		return resolvePurchase(g, s.policy, key, item)
	})
}

func (s *Service) Repair(ctx context.Context, ownerID, gameID, idem, memberKey string) (Game, RepairSummary, error) {
	key, err := ParseMemberKey(memberKey)
	if err != nil {
		return Game{}, RepairSummary{}, err
	}
	return mutateGame(ctx, s, ownerID, gameID, idem, "repair", func(g *Game) (RepairSummary, error) {
		return resolveRepair(g, s.policy, key)
	})
}

func (s *Service) LeaveShop(ctx context.Context, ownerID, gameID, idem string) (Game, Clock, error) {
	return mutateGame(ctx, s, ownerID, gameID, idem, "leave_shop", func(g *Game) (Clock, error) {
		return resolveLeaveShop(g), nil
	})
}

func (s *Service) Adventure(ctx context.Context, ownerID, gameID, idem string) (Game, AdventureSummary, error) {
	return mutateGame(ctx, s, ownerID, gameID, idem, "adventure", func(g *Game) (AdventureSummary, error) {
		return resolveAdventure(g, s.rand)
	})
}

// Retire deactivates the playthrough. The row stays behind; nothing
// in this service deletes game records.
func (s *Service) Retire(ctx context.Context, ownerID, gameID, idem string) (Game, error) {
	g, _, err := mutateGame(ctx, s, ownerID, gameID, idem, "retire", func(g *Game) (struct{}, error) {
		g.IsActive = false
		return struct{}{}, nil
	})
	return g, err
}

// mutateGame is the single read-modify-write path every action goes
// through: serializable transaction, idempotency claim, row lock,
// resolver, revision-checked save, bounded retry on serialization
// conflicts.
func mutateGame[T any](ctx context.Context, s *Service, ownerID, gameID, idem, action string, fn func(*Game) (T, error)) (Game, T, error) {
	var zero T

	const maxAttempts = 8
	retryDelay := 75 * time.Millisecond
	for attempt := 0; attempt < maxAttempts; attempt++ {
		tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return Game{}, zero, err
		}
		var g Game
		var out T
		err = func() error {
			defer tx.Rollback(ctx)

			if idem != "" {
				if err := claimIdempotency(ctx, tx, ownerID, idem, action); err != nil {
					return err
				}
			}
			g, err = lockGameTx(ctx, tx, ownerID, gameID)
			if err != nil {
				return err
			}

			s.mu.Lock()
			out, err = fn(&g)
			s.mu.Unlock()
			if err != nil {
				return err
			}

			if err := saveGameTx(ctx, tx, &g); err != nil {
				return err
			}
			return tx.Commit(ctx)
		}()
		if err == nil {
			s.log.Info("action applied", "action", action, "owner_id", ownerID, "game_id", g.ID, "time", g.Time.String())
			return g, out, nil
		}
		if !isSerializationError(err) {
			return Game{}, zero, err
		}
		if attempt == maxAttempts-1 {
			return Game{}, zero, ErrTxConflict
		}
		if err := sleepWithContext(ctx, retryDelay); err != nil {
			return Game{}, zero, err
		}
		if retryDelay < 1200*time.Millisecond {
			retryDelay *= 2
		}
	}

	return Game{}, zero, ErrTxConflict
}

// ReplaySync executes actions a client queued while offline, in
// order. Each command carries its own idempotency key, so replaying
// the same batch twice is harmless.
func (s *Service) ReplaySync(ctx context.Context, ownerID string, commands []ReplayCommand) []ReplayResult {
	results := make([]ReplayResult, 0, len(commands))
	for _, cmd := range commands {
		res := ReplayResult{Action: cmd.Action, IdempotencyKey: cmd.IdempotencyKey}
		err := s.replayOne(ctx, ownerID, cmd)
		switch {
		case err == nil:
			res.Status = "applied"
		case errors.Is(err, ErrDuplicateIdempotency):
			res.Status = "duplicate"
		default:
			res.Status = "failed"
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

func (s *Service) replayOne(ctx context.Context, ownerID string, cmd ReplayCommand) error {
	var err error
	switch cmd.Action {
	case "work":
		_, _, err = s.Work(ctx, ownerID, cmd.GameID, cmd.IdempotencyKey)
	case "rest":
		_, _, err = s.Rest(ctx, ownerID, cmd.GameID, cmd.IdempotencyKey)
	case "practice":
		_, _, err = s.Practice(ctx, ownerID, cmd.GameID, cmd.IdempotencyKey, cmd.Score)
	case "perform":
		_, _, err = s.Perform(ctx, ownerID, cmd.GameID, cmd.IdempotencyKey, cmd.Venue)
	case "repair":
		_, _, err = s.Repair(ctx, ownerID, cmd.GameID, cmd.IdempotencyKey, cmd.Member)
	case "leave_shop":
		_, _, err = s.LeaveShop(ctx, ownerID, cmd.GameID, cmd.IdempotencyKey)
	case "adventure":
		_, _, err = s.Adventure(ctx, ownerID, cmd.GameID, cmd.IdempotencyKey)
	default:
		err = fmt.Errorf("unknown action %q", cmd.Action)
	}
	return err
}

type ReplayCommand struct {
	Action         string `json:"action"`
	GameID         string `json:"game_id,omitempty"`
	Score          int    `json:"score,omitempty"`
	Venue          string `json:"venue,omitempty"`
	Member         string `json:"member,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
}

type ReplayResult struct {
	Action         string `json:"action"`
	IdempotencyKey string `json:"idempotency_key"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

func validPosition(p string) bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
