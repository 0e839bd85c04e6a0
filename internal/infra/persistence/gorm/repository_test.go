package gormpersistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KoustavHazra/studybudyapp/internal/domain"
	"github.com/KoustavHazra/studybudyapp/internal/infra/setup"
	"github.com/KoustavHazra/studybudyapp/internal/repository"
)

// newTestDB 为每个测试创建独立的内存 SQLite 数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "打开 SQLite 不应失败")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // 内存库每个连接都是独立的数据库
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, setup.MigrateDB(db), "迁移不应失败")
	return db
}

type repos struct {
	users    *GormUserRepository
	rooms    *GormRoomRepository
	topics   *GormTopicRepository
	messages *GormMessageRepository
}

func newRepos(t *testing.T) (repos, *gorm.DB) {
	db := newTestDB(t)
	return repos{
		users:    NewGormUserRepository(db),
		rooms:    NewGormRoomRepository(db),
		topics:   NewGormTopicRepository(db),
		messages: NewGormMessageRepository(db),
	}, db
}

func mustUser(t *testing.T, r repos, username string) *domain.User {
	t.Helper()
	u := &domain.User{Name: username, Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func mustRoom(t *testing.T, r repos, host *domain.User, topicName, name, description string) *domain.Room {
	t.Helper()
	ctx := context.Background()
	topic, err := r.topics.GetOrCreate(ctx, topicName)
	require.NoError(t, err)
	room := &domain.Room{HostID: &host.ID, TopicID: &topic.ID, Name: name, Description: description}
	require.NoError(t, r.rooms.Create(ctx, room))
	return room
}

func roomIDs(rooms []domain.Room) []uint {
	ids := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}
	return ids
}

// --- 用户 ---

func TestUserRepository_UniqueUsernameAndEmail(t *testing.T) {
	r, _ := newRepos(t)
	ctx := context.Background()
	mustUser(t, r, "alice")

	dupName := &domain.User{Username: "ALICE", Email: "other@example.com", Password: "x"}
	assert.ErrorIs(t, r.users.Create(ctx, dupName), repository.ErrDuplicateEntry, "用户名规范化后重复")

	dupEmail := &domain.User{Username: "alice2", Email: "Alice@Example.com", Password: "x"}
	assert.ErrorIs(t, r.users.Create(ctx, dupEmail), repository.ErrDuplicateEntry, "邮箱规范化后重复")
}

func TestUserRepository_FindAndUpdate(t *testing.T) {
	r, _ := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")
	mustUser(t, r, "bob")

	found, err := r.users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, domain.DefaultAvatar, found.Avatar)

	_, err = r.users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	found.Bio = "hello"
	require.NoError(t, r.users.Update(ctx, found))
	reloaded, err := r.users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", reloaded.Bio)

	// 改成 bob 的用户名应冲突
	reloaded.Username = "bob"
	assert.ErrorIs(t, r.users.Update(ctx, reloaded), repository.ErrDuplicateEntry)
}

func TestUserRepository_Delete(t *testing.T) {
	r, db := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")
	bob := mustUser(t, r, "bob")
	room := mustRoom(t, r, alice, "Python", "Let's learn python", "")

	require.NoError(t, r.messages.CreateAndJoin(ctx, &domain.Message{UserID: alice.ID, RoomID: room.ID, Body: "hi"}))
	require.NoError(t, r.messages.CreateAndJoin(ctx, &domain.Message{UserID: bob.ID, RoomID: room.ID, Body: "hey"}))

	require.NoError(t, r.users.Delete(ctx, alice.ID))

	got, err := r.rooms.FindByID(ctx, room.ID)
	require.NoError(t, err, "房间应保留")
	assert.Nil(t, got.HostID, "host 应置空")
	assert.Equal(t, []uint{bob.ID}, got.ParticipantIDs(), "alice 的参与记录应删除")

	var count int64
	require.NoError(t, db.Model(&domain.Message{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count, "alice 的消息应删除")

	assert.ErrorIs(t, r.users.Delete(ctx, alice.ID), repository.ErrUserNotFound)
}

// --- 话题 ---

func TestTopicRepository_GetOrCreate(t *testing.T) {
	r, db := newRepos(t)
	ctx := context.Background()

	first, err := r.topics.GetOrCreate(ctx, "Python")
	require.NoError(t, err)
	second, err := r.topics.GetOrCreate(ctx, "Python")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "同名话题只应有一行")

	var count int64
	require.NoError(t, db.Model(&domain.Topic{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTopicRepository_SearchListDelete(t *testing.T) {
	r, _ := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")
	for _, name := range []string{"Python", "Golang", "JavaScript", "Design", "Rust", "Pythonic"} {
		_, err := r.topics.GetOrCreate(ctx, name)
		require.NoError(t, err)
	}

	found, err := r.topics.Search(ctx, "PY")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	all, err := r.topics.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	limited, err := r.topics.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, limited, 5)

	room := mustRoom(t, r, alice, "Rust", "Borrowing", "")
	require.NoError(t, r.topics.Delete(ctx, *room.TopicID))
	got, err := r.rooms.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TopicID, "话题删除后房间 topic 置空")

	assert.ErrorIs(t, r.topics.Delete(ctx, *room.TopicID), repository.ErrTopicNotFound, "重复删除应返回 NotFound")
}

// --- 房间 ---

func TestRoomRepository_Search(t *testing.T) {
	r, _ := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")

	byTopic := mustRoom(t, r, alice, "Python", "Study group", "")
	byName := mustRoom(t, r, alice, "Misc", "PYTHON tricks", "")
	byDesc := mustRoom(t, r, alice, "Misc", "Scripting", "we use python")
	other := mustRoom(t, r, alice, "Golang", "Goroutines", "channels")

	found, err := r.rooms.Search(ctx, "Py")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{byTopic.ID, byName.ID, byDesc.ID}, roomIDs(found))

	all, err := r.rooms.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Contains(t, roomIDs(all), other.ID)

	// 通配符按字面量匹配
	none, err := r.rooms.Search(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRoomRepository_OrderByRecentlyUpdated(t *testing.T) {
	r, db := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")
	older := mustRoom(t, r, alice, "Python", "older", "")
	newer := mustRoom(t, r, alice, "Python", "newer", "")

	now := time.Now()
	require.NoError(t, db.Model(&domain.Room{}).Where("id = ?", newer.ID).UpdateColumn("updated_at", now.Add(-time.Hour)).Error)
	require.NoError(t, db.Model(&domain.Room{}).Where("id = ?", older.ID).UpdateColumn("updated_at", now).Error)

	rooms, err := r.rooms.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{older.ID, newer.ID}, roomIDs(rooms), "最近更新的房间排在前面")
}

func TestRoomRepository_UpdateAndDelete(t *testing.T) {
	r, db := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")
	room := mustRoom(t, r, alice, "Python", "Let's learn python", "")
	require.NoError(t, r.messages.CreateAndJoin(ctx, &domain.Message{UserID: alice.ID, RoomID: room.ID, Body: "hi"}))

	goTopic, err := r.topics.GetOrCreate(ctx, "Go")
	require.NoError(t, err)
	room.Name = "Go study"
	room.TopicID = &goTopic.ID
	require.NoError(t, r.rooms.Update(ctx, room))

	got, err := r.rooms.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go study", got.Name)
	assert.Equal(t, "Go", got.Topic.Name)
	assert.Equal(t, alice.ID, got.Host.ID)

	hosted, err := r.rooms.FindByHost(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, hosted, 1)

	require.NoError(t, r.rooms.Delete(ctx, room.ID))
	_, err = r.rooms.FindByID(ctx, room.ID)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)

	var msgCount, partCount int64
	require.NoError(t, db.Model(&domain.Message{}).Count(&msgCount).Error)
	require.NoError(t, db.Model(&domain.RoomParticipant{}).Count(&partCount).Error)
	assert.Zero(t, msgCount, "房间的消息应级联删除")
	assert.Zero(t, partCount, "房间的参与记录应级联删除")

	assert.ErrorIs(t, r.rooms.Delete(ctx, room.ID), repository.ErrRoomNotFound)
}

// --- 消息 ---

func TestMessageRepository_CreateAndJoinIsIdempotent(t *testing.T) {
	r, _ := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")
	bob := mustUser(t, r, "bob")
	room := mustRoom(t, r, alice, "Python", "Let's learn python", "")

	got, err := r.rooms.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Participants, "创建者不是参与者")

	for i := 0; i < 3; i++ {
		require.NoError(t, r.messages.CreateAndJoin(ctx, &domain.Message{UserID: bob.ID, RoomID: room.ID, Body: "hi"}))
	}

	got, err = r.rooms.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, got.ParticipantIDs(), "多次发言只加入一次")

	msgs, err := r.messages.FindByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.Equal(t, "bob", msgs[0].User.Username)
}

func TestMessageRepository_SearchAndDelete(t *testing.T) {
	r, _ := newRepos(t)
	ctx := context.Background()
	alice := mustUser(t, r, "alice")
	py := mustRoom(t, r, alice, "Python", "py room", "")
	gol := mustRoom(t, r, alice, "Golang", "go room", "")

	m1 := &domain.Message{UserID: alice.ID, RoomID: py.ID, Body: "import this"}
	m2 := &domain.Message{UserID: alice.ID, RoomID: gol.ID, Body: "go fmt"}
	require.NoError(t, r.messages.CreateAndJoin(ctx, m1))
	require.NoError(t, r.messages.CreateAndJoin(ctx, m2))

	found, err := r.messages.SearchByTopic(ctx, "py")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, m1.ID, found[0].ID)
	assert.Equal(t, "py room", found[0].Room.Name)

	all, err := r.messages.SearchByTopic(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := r.messages.FindByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, r.messages.Delete(ctx, m1.ID))
	_, err = r.messages.FindByID(ctx, m1.ID)
	assert.ErrorIs(t, err, repository.ErrMessageNotFound)
	assert.ErrorIs(t, r.messages.Delete(ctx, m1.ID), repository.ErrMessageNotFound)
}

func TestTopicRepository_SearchNonASCII(t *testing.T) {
	r, db := newRepos(t)
	ctx := context.Background()
	for _, name := range []string{"Café", "CAFÉ NOIR"} {
		_, err := r.topics.GetOrCreate(ctx, name)
		require.NoError(t, err)
	}

	// 非 ASCII 字符大小写一致时, 两种数据库都能匹配
	found, err := r.topics.Search(ctx, "CAFé")
	require.NoError(t, err)
	names := make([]string, 0, len(found))
	for _, topic := range found {
		names = append(names, topic.Name)
	}
	assert.Contains(t, names, "Café")

	found, err = r.topics.Search(ctx, "café")
	require.NoError(t, err)
	if db.Dialector.Name() == "sqlite" {
		// SQLite 的 LOWER 不转换 É, 只有 "Café" 命中; MySQL 会同时命中 "CAFÉ NOIR"
		assert.Len(t, found, 1)
	} else {
		assert.Len(t, found, 2)
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%py%", containsPattern("Py"))
	assert.Equal(t, "%100!%%", containsPattern("100%"))
	assert.Equal(t, "%a!_b!!%", containsPattern("a_b!"))
}
