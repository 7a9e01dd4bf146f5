package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const gameColumns = `id, owner_id, money, mental, fame, game_time, main, mates, team_size, team_power, adventure_done, is_active, revision`

// scanGame maps one games row. The roster is stored as JSONB: one
// object for the main character and a fixed-length array with nulls
// for the empty teammate slots.
func scanGame(row pgx.Row) (Game, error) {
	var g Game
	var rawMain, rawMates []byte
	var t int
	err := row.Scan(
		&g.ID, &g.OwnerID, &g.Money, &g.Mental, &g.Fame, &t,
		&rawMain, &rawMates, &g.TeamSize, &g.TeamPower,
		&g.AdventureDone, &g.IsActive, &g.Revision,
	)
	if err != nil {
		return Game{}, err
	}
	g.Time = Clock(t)
	if err := json.Unmarshal(rawMain, &g.Main); err != nil {
		return Game{}, fmt.Errorf("decode main member: %w", err)
	}
	if err := json.Unmarshal(rawMates, &g.Mates); err != nil {
		return Game{}, fmt.Errorf("decode teammate slots: %w", err)
	}
	return g, nil
}

func rosterJSON(g *Game) (mainRaw, matesRaw []byte, err error) {
	mainRaw, err = json.Marshal(g.Main)
	if err != nil {
		return nil, nil, fmt.Errorf("encode main member: %w", err)
	}
	matesRaw, err = json.Marshal(g.Mates)
	if err != nil {
		return nil, nil, fmt.Errorf("encode teammate slots: %w", err)
	}
	return mainRaw, matesRaw, nil
}

// lockGameTx loads the addressed game row FOR UPDATE. An empty gameID
// selects the owner's active playthrough.
func lockGameTx(ctx context.Context, tx pgx.Tx, ownerID, gameID string) (Game, error) {
	var row pgx.Row
	if gameID == "" {
		row = tx.QueryRow(ctx, `
			SELECT `+gameColumns+`
			FROM games
			WHERE owner_id = $1 AND is_active
			FOR UPDATE
		`, ownerID)
	} else {
		row = tx.QueryRow(ctx, `
			SELECT `+gameColumns+`
			FROM games
			WHERE id = $1 AND owner_id = $2
			FOR UPDATE
		`, gameID, ownerID)
	}
	g, err := scanGame(row)
	if err == pgx.ErrNoRows {
		if gameID == "" {
			return Game{}, ErrNoActiveGame
		}
		return Game{}, ErrGameNotFound
	}
	return g, err
}

// saveGameTx writes the whole entity back, bumping the revision. The
// row is already locked, so a zero rows-affected means the revision
// moved underneath us and the caller must retry.
func saveGameTx(ctx context.Context, tx pgx.Tx, g *Game) error {
	mainRaw, matesRaw, err := rosterJSON(g)
	if err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `
		UPDATE games
		SET money = $1, mental = $2, fame = $3, game_time = $4,
		    main = $5, mates = $6, team_size = $7, team_power = $8,
		    adventure_done = $9, is_active = $10,
		    revision = revision + 1, updated_at = now()
		WHERE id = $11 AND revision = $12
	`, g.Money, g.Mental, g.Fame, int(g.Time),
		mainRaw, matesRaw, g.TeamSize, g.TeamPower,
		g.AdventureDone, g.IsActive,
		g.ID, g.Revision)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTxConflict
	}
	g.Revision++
	return nil
}

func insertGameTx(ctx context.Context, tx pgx.Tx, g *Game) error {
	mainRaw, matesRaw, err := rosterJSON(g)
	if err != nil {
		return err
	}
	return tx.QueryRow(ctx, `
		INSERT INTO games
		    (owner_id, money, mental, fame, game_time, main, mates, team_size, team_power, adventure_done, is_active, revision)
		VALUES
		    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, 1)
		RETURNING id
	`, g.OwnerID, g.Money, g.Mental, g.Fame, int(g.Time),
		mainRaw, matesRaw, g.TeamSize, g.TeamPower, g.AdventureDone).Scan(&g.ID)
}

func claimIdempotency(ctx context.Context, tx pgx.Tx, ownerID, key, action string) error {
	cmd, err := tx.Exec(ctx, `
		INSERT INTO idempotency_keys (owner_id, key, action, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_id, key) DO NOTHING
	`, ownerID, key, action)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDuplicateIdempotency
	}
	return nil
}
