package account

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/mailer"
	"VenueHub/app/common/tasks"
	"VenueHub/app/common/token"
	userdal "VenueHub/app/dal/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/x/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type memUsers struct {
	userdal.UserModel
	mu   sync.Mutex
	rows map[string]*userdal.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: make(map[string]*userdal.User)}
}

func (m *memUsers) Insert(_ context.Context, u *userdal.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.Email]; ok {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	u.ID = bson.NewObjectID()
	cp := *u
	m.rows[u.Email] = &cp
	return nil
}

func (m *memUsers) FindOneByEmail(_ context.Context, email string) (*userdal.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[email]
	if !ok {
		return nil, userdal.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindOne(_ context.Context, id string) (*userdal.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userdal.ErrNotFound
}

func (m *memUsers) SetPassword(_ context.Context, id bson.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.ID == id {
			u.Password, u.Activated = hash, true
			return nil
		}
	}
	return userdal.ErrNotFound
}

func (m *memUsers) UpdateRole(_ context.Context, id bson.ObjectID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return userdal.ErrNotFound
}

type enqueued struct {
	queue, name string
	payload     any
	opts        jobqueue.Options
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []enqueued
	err  error
}

func (r *recordingEnqueuer) Enqueue(_ context.Context, queue, name string, payload any, opts jobqueue.Options) (*jobqueue.JobHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.jobs = append(r.jobs, enqueued{queue: queue, name: name, payload: payload, opts: opts})
	return &jobqueue.JobHandle{Queue: queue, Name: name, ID: opts.JobID}, nil
}

func newTestService(t *testing.T) (*Service, *memUsers, *recordingEnqueuer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := redis.MustNewRedis(redis.RedisConf{Host: mr.Addr(), Type: redis.NodeType})
	users := newMemUsers()
	jobs := &recordingEnqueuer{}
	svc := NewService(users, kv, jobs, token.Conf{
		AccessSecret:  "access",
		AccessExpire:  time.Hour,
		RefreshSecret: "refresh",
		RefreshExpire: 2 * time.Hour,
	}, "https://venuehub.test/set-password")
	svc.newToken = func() string { return "tok123" }
	return svc, users, jobs, mr
}

func codeOf(t *testing.T, err error) int {
	t.Helper()
	var cm *errors.CodeMsg
	require.ErrorAs(t, err, &cm)
	return cm.Code
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	s, err := svc.Register(ctx, "  Ann@Example.com ", "secret-pass", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", s.User.Email)
	assert.Equal(t, biz.RoleUser, s.User.Role)
	assert.NotEmpty(t, s.Token.AccessToken)

	_, err = svc.Register(ctx, "ann@example.com", "secret-pass", "Ann")
	assert.Equal(t, errno.UserAlreadyExists, codeOf(t, err))

	_, err = svc.Login(ctx, "ANN@example.com", "wrong-pass")
	assert.Equal(t, errno.InvalidCredentials, codeOf(t, err))

	s, err = svc.Login(ctx, "ANN@example.com", "secret-pass")
	require.NoError(t, err)
	claims, err := token.ParseAccess(svc.tokens, s.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID.Hex(), claims.UserID)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Register(context.Background(), "not-an-email", "secret-pass", "")
	assert.Equal(t, errno.InvalidParam, codeOf(t, err))
	_, err = svc.Register(context.Background(), "a@b.c", "short", "")
	assert.Equal(t, errno.InvalidParam, codeOf(t, err))
}

func TestResolveOrProvisionCreatesOnce(t *testing.T) {
	svc, users, jobs, mr := newTestService(t)
	ctx := context.Background()

	u, created, err := svc.ResolveOrProvision(ctx, "Buyer@Example.com", "Buyer")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.Empty(t, u.Password)
	assert.False(t, u.Activated)

	again, created, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "Buyer")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)

	assert.Len(t, users.rows, 1)
	require.Len(t, jobs.jobs, 1)
	job := jobs.jobs[0]
	assert.Equal(t, biz.QueueNotifications, job.queue)
	assert.Equal(t, tasks.TaskEmailSend, job.name)
	assert.Equal(t, "pwdsetup:"+u.ID.Hex(), job.opts.JobID)
	payload := job.payload.(tasks.EmailPayload)
	assert.Equal(t, mailer.TemplateSetPassword, payload.Template)
	assert.Equal(t, "https://venuehub.test/set-password?token=tok123&email=buyer%40example.com", payload.Data["link"])

	stored, err := mr.Get(biz.PasswordSetupPrefix + "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "tok123", stored)
	assert.Equal(t, biz.PasswordSetupTTL, mr.TTL(biz.PasswordSetupPrefix+"buyer@example.com"))
}

func TestResolveOrProvisionKeepsUserWhenEmailFails(t *testing.T) {
	svc, users, jobs, mr := newTestService(t)
	ctx := context.Background()
	jobs.err = assert.AnError

	_, _, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "")
	require.Error(t, err)
	var cm *errors.CodeMsg
	assert.False(t, stderrors.As(err, &cm), "infrastructure failure must stay retryable")
	require.Len(t, users.rows, 1)
	assert.False(t, mr.Exists(biz.PasswordSetupPrefix+"buyer@example.com"))

	jobs.err = nil
	u, created, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, users.rows["buyer@example.com"].ID, u.ID)
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, "pwdsetup:"+u.ID.Hex(), jobs.jobs[0].opts.JobID)
	stored, err := mr.Get(biz.PasswordSetupPrefix + "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "tok123", stored)
}

// gatedEnqueuer parks the caller inside Enqueue until released.
type gatedEnqueuer struct {
	entered chan struct{}
	release chan struct{}
	err     error
}

func (g *gatedEnqueuer) Enqueue(context.Context, string, string, any, jobqueue.Options) (*jobqueue.JobHandle, error) {
	g.entered <- struct{}{}
	<-g.release
	return nil, g.err
}

func TestResolveOrProvisionConcurrentPayerSurvivesFailedMail(t *testing.T) {
	svc, users, jobs, _ := newTestService(t)
	ctx := context.Background()
	gate := &gatedEnqueuer{entered: make(chan struct{}, 1), release: make(chan struct{}), err: assert.AnError}
	svc.jobs = gate

	errA := make(chan error, 1)
	go func() {
		_, _, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "A")
		errA <- err
	}()
	<-gate.entered

	b, created, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "B")
	require.NoError(t, err)
	assert.False(t, created)

	close(gate.release)
	require.Error(t, <-errA)

	stillThere, err := users.FindOneByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, stillThere.ID)

	svc.jobs = jobs
	again, _, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "A")
	require.NoError(t, err)
	assert.Equal(t, b.ID, again.ID)
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, "pwdsetup:"+b.ID.Hex(), jobs.jobs[0].opts.JobID)
}

// staleUsers misses on the first email lookup, as a caller racing a
// concurrent insert would.
type staleUsers struct {
	*memUsers
	missed bool
}

func (s *staleUsers) FindOneByEmail(ctx context.Context, email string) (*userdal.User, error) {
	if !s.missed {
		s.missed = true
		return nil, userdal.ErrNotFound
	}
	return s.memUsers.FindOneByEmail(ctx, email)
}

func TestResolveOrProvisionDuplicateInsertRequeries(t *testing.T) {
	svc, users, jobs, mr := newTestService(t)
	ctx := context.Background()
	winner := &userdal.User{Email: "buyer@example.com", Role: biz.RoleUser}
	require.NoError(t, users.Insert(ctx, winner))
	require.NoError(t, mr.Set(biz.PasswordSetupPrefix+"buyer@example.com", "winner-token"))

	svc.users = &staleUsers{memUsers: users}
	u, created, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, u.ID)
	assert.Len(t, users.rows, 1)
	assert.Empty(t, jobs.jobs)

	stored, err := mr.Get(biz.PasswordSetupPrefix + "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "winner-token", stored)
}

func TestResolveOrProvisionRejectsMissingEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, _, err := svc.ResolveOrProvision(context.Background(), "  ", "")
	assert.Equal(t, errno.InvalidParam, codeOf(t, err))
}

func TestSetPasswordActivatesAccount(t *testing.T) {
	svc, users, _, mr := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.ResolveOrProvision(ctx, "buyer@example.com", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "buyer@example.com", "anything-long")
	assert.Equal(t, errno.UserNotActivated, codeOf(t, err))

	_, err = svc.SetPassword(ctx, "buyer@example.com", "wrong", "new-password")
	assert.Equal(t, errno.SetupTokenInvalid, codeOf(t, err))

	s, err := svc.SetPassword(ctx, "buyer@example.com", "tok123", "new-password")
	require.NoError(t, err)
	assert.True(t, s.User.Activated)
	assert.True(t, users.rows["buyer@example.com"].Activated)
	assert.False(t, mr.Exists(biz.PasswordSetupPrefix+"buyer@example.com"))

	_, err = svc.SetPassword(ctx, "buyer@example.com", "tok123", "another-password")
	assert.Equal(t, errno.SetupTokenInvalid, codeOf(t, err))

	_, err = svc.Login(ctx, "buyer@example.com", "new-password")
	assert.NoError(t, err)
}

func TestRequestPasswordSetupHidesUnknownEmail(t *testing.T) {
	svc, _, jobs, _ := newTestService(t)
	require.NoError(t, svc.RequestPasswordSetup(context.Background(), "ghost@example.com"))
	assert.Empty(t, jobs.jobs)
}

func TestUpdateRole(t *testing.T) {
	svc, users, _, _ := newTestService(t)
	ctx := context.Background()
	s, err := svc.Register(ctx, "owner@example.com", "secret-pass", "")
	require.NoError(t, err)

	assert.Equal(t, errno.InvalidParam, codeOf(t, svc.UpdateRole(ctx, s.User.ID.Hex(), "root")))
	require.NoError(t, svc.UpdateRole(ctx, s.User.ID.Hex(), biz.RoleVenueOwner))
	assert.Equal(t, biz.RoleVenueOwner, users.rows["owner@example.com"].Role)
}
