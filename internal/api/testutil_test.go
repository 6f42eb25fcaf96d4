package api

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/victorivanov/guildgate/internal/models"
	"github.com/victorivanov/guildgate/internal/snowflake"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestContext(method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func setAuthUser(c echo.Context, userID int64) {
	c.Set("user_id", userID)
}

func testSnowflake() *snowflake.Generator {
	sf, _ := snowflake.NewGenerator(1)
	return sf
}

// ---------------------------------------------------------------------------
// Mock gateway dispatcher
// ---------------------------------------------------------------------------

type dispatchedEvent struct {
	GuildID int64
	UserID  int64
	Event   string
	Data    any
}

type mockGateway struct {
	mu            sync.Mutex
	events        []dispatchedEvent
	subscribed    [][2]int64
	unsubscribed  [][2]int64
}

func (m *mockGateway) DispatchToGuild(guildID int64, event string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{GuildID: guildID, Event: event, Data: data})
}

func (m *mockGateway) DispatchToUser(userID int64, event string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{UserID: userID, Event: event, Data: data})
}

func (m *mockGateway) SubscribeToGuild(userID, guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribed = append(m.subscribed, [2]int64{userID, guildID})
}

func (m *mockGateway) UnsubscribeFromGuild(userID, guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsubscribed = append(m.unsubscribed, [2]int64{userID, guildID})
}

// ---------------------------------------------------------------------------
// Mock repositories
// ---------------------------------------------------------------------------

// mockUserRepo implements database.UserRepository.
type mockUserRepo struct {
	CreateFn        func(ctx context.Context, user *models.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*models.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*models.User, error)
	UpdateFn        func(ctx context.Context, user *models.User) error
	DeleteFn        func(ctx context.Context, id int64) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockGuildRepo implements database.GuildRepository.
type mockGuildRepo struct {
	CreateFn      func(ctx context.Context, guild *models.Guild) error
	GetByIDFn     func(ctx context.Context, id int64) (*models.Guild, error)
	UpdateFn      func(ctx context.Context, guild *models.Guild) error
	DeleteFn      func(ctx context.Context, id int64) error
	GetByUserIDFn func(ctx context.Context, userID int64) ([]models.Guild, error)
}

func (m *mockGuildRepo) Create(ctx context.Context, guild *models.Guild) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, guild)
	}
	return nil
}

func (m *mockGuildRepo) GetByID(ctx context.Context, id int64) (*models.Guild, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockGuildRepo) Update(ctx context.Context, guild *models.Guild) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, guild)
	}
	return nil
}

func (m *mockGuildRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockGuildRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

// mockChannelRepo implements database.ChannelRepository.
type mockChannelRepo struct {
	CreateFn       func(ctx context.Context, channel *models.Channel) error
	GetByIDFn      func(ctx context.Context, id int64) (*models.Channel, error)
	GetByGuildIDFn func(ctx context.Context, guildID int64) ([]models.Channel, error)
	UpdateFn       func(ctx context.Context, channel *models.Channel) error
	DeleteFn       func(ctx context.Context, id int64) error
}

func (m *mockChannelRepo) Create(ctx context.Context, channel *models.Channel) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockChannelRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Channel, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockChannelRepo) Update(ctx context.Context, channel *models.Channel) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockMemberRepo implements database.MemberRepository.
type mockMemberRepo struct {
	CreateFn             func(ctx context.Context, member *models.Member) error
	GetByGuildAndUserFn  func(ctx context.Context, guildID, userID int64) (*models.Member, error)
	GetByGuildIDFn       func(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error)
	GetTemporaryByUserFn func(ctx context.Context, userID int64) ([]models.Member, error)
	CountByGuildIDFn     func(ctx context.Context, guildID int64) (int, error)
	UpdateFn             func(ctx context.Context, member *models.Member) error
	DeleteFn             func(ctx context.Context, guildID, userID int64) error
}

func (m *mockMemberRepo) Create(ctx context.Context, member *models.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	if m.GetByGuildAndUserFn != nil {
		return m.GetByGuildAndUserFn(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetByGuildID(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID, limit, offset)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetTemporaryByUser(ctx context.Context, userID int64) ([]models.Member, error) {
	if m.GetTemporaryByUserFn != nil {
		return m.GetTemporaryByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMemberRepo) CountByGuildID(ctx context.Context, guildID int64) (int, error) {
	if m.CountByGuildIDFn != nil {
		return m.CountByGuildIDFn(ctx, guildID)
	}
	return 0, nil
}

func (m *mockMemberRepo) Update(ctx context.Context, member *models.Member) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) Delete(ctx context.Context, guildID, userID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, guildID, userID)
	}
	return nil
}

// mockRoleRepo implements database.RoleRepository.
type mockRoleRepo struct {
	CreateFn         func(ctx context.Context, role *models.Role) error
	GetByGuildIDFn   func(ctx context.Context, guildID int64) ([]models.Role, error)
	GetByMemberFn    func(ctx context.Context, guildID, userID int64) ([]models.Role, error)
	AssignToMemberFn func(ctx context.Context, guildID, userID, roleID int64) error
	DeleteFn         func(ctx context.Context, id int64) error
}

func (m *mockRoleRepo) Create(ctx context.Context, role *models.Role) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, role)
	}
	return nil
}

func (m *mockRoleRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockRoleRepo) GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error) {
	if m.GetByMemberFn != nil {
		return m.GetByMemberFn(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockRoleRepo) AssignToMember(ctx context.Context, guildID, userID, roleID int64) error {
	if m.AssignToMemberFn != nil {
		return m.AssignToMemberFn(ctx, guildID, userID, roleID)
	}
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockBanRepo implements database.BanRepository.
type mockBanRepo struct {
	CreateFn            func(ctx context.Context, ban *models.Ban) error
	GetByGuildAndUserFn func(ctx context.Context, guildID, userID int64) (*models.Ban, error)
	GetByGuildIDFn      func(ctx context.Context, guildID int64) ([]models.Ban, error)
	DeleteFn            func(ctx context.Context, guildID, userID int64) error
}

func (m *mockBanRepo) Create(ctx context.Context, ban *models.Ban) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ban)
	}
	return nil
}

func (m *mockBanRepo) GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Ban, error) {
	if m.GetByGuildAndUserFn != nil {
		return m.GetByGuildAndUserFn(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockBanRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Ban, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockBanRepo) Delete(ctx context.Context, guildID, userID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, guildID, userID)
	}
	return nil
}

// mockInviteRepo implements database.InviteRepository.
type mockInviteRepo struct {
	CreateFn        func(ctx context.Context, invite *models.Invite) error
	GetByCodeFn     func(ctx context.Context, code string) (*models.Invite, error)
	GetByGuildIDFn  func(ctx context.Context, guildID int64) ([]models.Invite, error)
	IncrementUsesFn func(ctx context.Context, code string) error
	RevokeFn        func(ctx context.Context, code string) error
	DeleteFn        func(ctx context.Context, code string) error
	DeleteDefunctFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockInviteRepo) Create(ctx context.Context, invite *models.Invite) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, invite)
	}
	return nil
}

func (m *mockInviteRepo) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockInviteRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Invite, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockInviteRepo) IncrementUses(ctx context.Context, code string) error {
	if m.IncrementUsesFn != nil {
		return m.IncrementUsesFn(ctx, code)
	}
	return nil
}

func (m *mockInviteRepo) Revoke(ctx context.Context, code string) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, code)
	}
	return nil
}

func (m *mockInviteRepo) Delete(ctx context.Context, code string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, code)
	}
	return nil
}

func (m *mockInviteRepo) DeleteDefunct(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteDefunctFn != nil {
		return m.DeleteDefunctFn(ctx, now)
	}
	return 0, nil
}
