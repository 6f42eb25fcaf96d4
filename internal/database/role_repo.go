package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildgate/internal/models"
)

type roleRepo struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepo{pool: pool}
}

func (r *roleRepo) Create(ctx context.Context, role *models.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO roles (id, guild_id, name, permissions, position, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		role.ID, role.GuildID, role.Name, role.Permissions, role.Position, role.IsDefault,
	)
	return err
}

func (r *roleRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, name, permissions, position, is_default
		 FROM roles WHERE guild_id = $1
		 ORDER BY position DESC`, guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoles(rows)
}

func (r *roleRepo) GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.guild_id, r.name, r.permissions, r.position, r.is_default
		 FROM roles r
		 JOIN member_roles mr ON mr.role_id = r.id
		 WHERE r.guild_id = $1 AND mr.user_id = $2
		 ORDER BY r.position DESC`, guildID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoles(rows)
}

func (r *roleRepo) AssignToMember(ctx context.Context, guildID, userID, roleID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO member_roles (guild_id, user_id, role_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`, guildID, userID, roleID,
	)
	return err
}

func (r *roleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	return err
}

func scanRoles(rows pgx.Rows) ([]models.Role, error) {
	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.GuildID, &role.Name, &role.Permissions, &role.Position, &role.IsDefault); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
