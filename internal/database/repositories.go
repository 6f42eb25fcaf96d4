package database

import (
	"context"
	"time"

	"github.com/victorivanov/guildgate/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type GuildRepository interface {
	Create(ctx context.Context, guild *models.Guild) error
	GetByID(ctx context.Context, id int64) (*models.Guild, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error)
	Update(ctx context.Context, guild *models.Guild) error
	Delete(ctx context.Context, id int64) error
}

type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Channel, error)
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, id int64) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error)
	GetByGuildID(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error)
	GetTemporaryByUser(ctx context.Context, userID int64) ([]models.Member, error)
	CountByGuildID(ctx context.Context, guildID int64) (int, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, guildID, userID int64) error
}

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error)
	GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error)
	AssignToMember(ctx context.Context, guildID, userID, roleID int64) error
	Delete(ctx context.Context, id int64) error
}

type BanRepository interface {
	Create(ctx context.Context, ban *models.Ban) error
	GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Ban, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Ban, error)
	Delete(ctx context.Context, guildID, userID int64) error
}

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByCode(ctx context.Context, code string) (*models.Invite, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Invite, error)
	IncrementUses(ctx context.Context, code string) error
	Revoke(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
	DeleteDefunct(ctx context.Context, now time.Time) (int64, error)
}
