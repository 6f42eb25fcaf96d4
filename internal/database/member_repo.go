package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildgate/internal/models"
)

type memberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepo{pool: pool}
}

func (r *memberRepo) Create(ctx context.Context, member *models.Member) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO members (guild_id, user_id, nickname, temporary, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		member.GuildID, member.UserID, member.Nickname, member.Temporary, member.JoinedAt,
	)
	return err
}

func (r *memberRepo) GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	m := &models.Member{}
	err := r.pool.QueryRow(ctx,
		`SELECT guild_id, user_id, nickname, temporary, joined_at
		 FROM members WHERE guild_id = $1 AND user_id = $2`, guildID, userID,
	).Scan(&m.GuildID, &m.UserID, &m.Nickname, &m.Temporary, &m.JoinedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *memberRepo) GetByGuildID(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT guild_id, user_id, nickname, temporary, joined_at
		 FROM members WHERE guild_id = $1
		 ORDER BY joined_at
		 LIMIT $2 OFFSET $3`, guildID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMembers(rows)
}

// GetTemporaryByUser returns the user's memberships that were granted through
// temporary invites.
func (r *memberRepo) GetTemporaryByUser(ctx context.Context, userID int64) ([]models.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT guild_id, user_id, nickname, temporary, joined_at
		 FROM members WHERE user_id = $1 AND temporary`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMembers(rows)
}

func (r *memberRepo) CountByGuildID(ctx context.Context, guildID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE guild_id = $1`, guildID,
	).Scan(&count)
	return count, err
}

func (r *memberRepo) Update(ctx context.Context, member *models.Member) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE members SET nickname = $3, temporary = $4
		 WHERE guild_id = $1 AND user_id = $2`,
		member.GuildID, member.UserID, member.Nickname, member.Temporary,
	)
	return err
}

func (r *memberRepo) Delete(ctx context.Context, guildID, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM members WHERE guild_id = $1 AND user_id = $2`, guildID, userID,
	)
	return err
}

func scanMembers(rows pgx.Rows) ([]models.Member, error) {
	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.GuildID, &m.UserID, &m.Nickname, &m.Temporary, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
