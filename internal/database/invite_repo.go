package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildgate/internal/models"
)

type inviteRepo struct {
	pool *pgxpool.Pool
}

func NewInviteRepository(pool *pgxpool.Pool) InviteRepository {
	return &inviteRepo{pool: pool}
}

const inviteColumns = `code, guild_id, channel_id, inviter_id, created_at, max_age, max_uses, uses, temporary, revoked`

func scanInvite(row pgx.Row, inv *models.Invite) error {
	return row.Scan(
		&inv.Code, &inv.GuildID, &inv.ChannelID, &inv.InviterID, &inv.CreatedAt,
		&inv.MaxAge, &inv.MaxUses, &inv.Uses, &inv.Temporary, &inv.Revoked,
	)
}

func (r *inviteRepo) Create(ctx context.Context, invite *models.Invite) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invites (`+inviteColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		invite.Code, invite.GuildID, invite.ChannelID, invite.InviterID, invite.CreatedAt,
		invite.MaxAge, invite.MaxUses, invite.Uses, invite.Temporary, invite.Revoked,
	)
	return err
}

func (r *inviteRepo) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	inv := &models.Invite{}
	err := scanInvite(r.pool.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE code = $1`, code,
	), inv)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *inviteRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Invite, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE guild_id = $1
		 ORDER BY created_at DESC`, guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []models.Invite
	for rows.Next() {
		var inv models.Invite
		if err := scanInvite(rows, &inv); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *inviteRepo) IncrementUses(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE invites SET uses = uses + 1 WHERE code = $1`, code,
	)
	return err
}

func (r *inviteRepo) Revoke(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE invites SET revoked = TRUE WHERE code = $1`, code,
	)
	return err
}

func (r *inviteRepo) Delete(ctx context.Context, code string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invites WHERE code = $1`, code)
	return err
}

// DeleteDefunct removes revoked invites and invites whose age limit passed
// before the given time. Returns the number of rows deleted.
func (r *inviteRepo) DeleteDefunct(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM invites
		 WHERE revoked
		    OR (max_age > 0 AND created_at + make_interval(secs => max_age) < $1)`, now,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
