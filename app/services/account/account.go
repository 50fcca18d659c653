package account

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"

	"VenueHub/app/common/consts/biz"
	"VenueHub/app/common/consts/errno"
	"VenueHub/app/common/jobqueue"
	"VenueHub/app/common/mailer"
	"VenueHub/app/common/tasks"
	"VenueHub/app/common/token"
	"VenueHub/app/dal/mongox"
	userdal "VenueHub/app/dal/user"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/x/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// Enqueuer is the producer side of the job queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, queue, name string, payload any, opts jobqueue.Options) (*jobqueue.JobHandle, error)
}

type Service struct {
	users    userdal.UserModel
	kv       *redis.Redis
	jobs     Enqueuer
	tokens   token.Conf
	setupURL string
	newToken func() string
}

func NewService(users userdal.UserModel, kv *redis.Redis, jobs Enqueuer, tokens token.Conf, setupURL string) *Service {
	return &Service{
		users:    users,
		kv:       kv,
		jobs:     jobs,
		tokens:   tokens,
		setupURL: setupURL,
		newToken: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func setupKey(email string) string {
	return biz.PasswordSetupPrefix + email
}

type Session struct {
	User  *userdal.User `json:"user"`
	Token *token.Pair   `json:"token"`
}

func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, errors.New(errno.InvalidParam, "a valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, errors.New(errno.InvalidParam, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &userdal.User{
		Email:     email,
		Name:      strings.TrimSpace(name),
		Password:  string(hash),
		Activated: true,
		Role:      biz.RoleUser,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if mongox.IsDuplicateKey(err) {
			return nil, errors.New(errno.UserAlreadyExists, "user already exists")
		}
		return nil, err
	}
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindOneByEmail(ctx, NormalizeEmail(email))
	if stderrors.Is(err, userdal.ErrNotFound) {
		return nil, errors.New(errno.InvalidCredentials, "invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if u.Password == "" {
		return nil, errors.New(errno.UserNotActivated, "set your password from the emailed link first")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errors.New(errno.InvalidCredentials, "invalid credentials")
	}
	return s.session(u)
}

func (s *Service) Profile(ctx context.Context, userID string) (*userdal.User, error) {
	u, err := s.users.FindOne(ctx, userID)
	if stderrors.Is(err, userdal.ErrNotFound) || stderrors.Is(err, userdal.ErrInvalidObjectId) {
		return nil, errors.New(errno.UserNotFound, "user not found")
	}
	return u, err
}

func (s *Service) UpdateRole(ctx context.Context, userID, role string) error {
	switch role {
	case biz.RoleUser, biz.RoleVenueOwner, biz.RoleAdmin:
	default:
		return errors.New(errno.InvalidParam, "unknown role")
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, u.ID, role)
}

// ResolveOrProvision returns the user owning email, creating an inactive
// account without a password and mailing a set-password link when none
// exists. Concurrent calls for one email yield one user and one link. A
// user is never removed once inserted; a retry after a failed mail finds
// the account without a live setup token and mails it again.
func (s *Service) ResolveOrProvision(ctx context.Context, email, name string) (*userdal.User, bool, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, false, errors.New(errno.InvalidParam, "payer email is missing or invalid")
	}

	u, err := s.users.FindOneByEmail(ctx, email)
	switch {
	case err == nil:
		return u, false, s.ensureSetupLink(ctx, u)
	case !stderrors.Is(err, userdal.ErrNotFound):
		return nil, false, err
	}

	u = &userdal.User{Email: email, Name: strings.TrimSpace(name), Role: biz.RoleUser}
	if err := s.users.Insert(ctx, u); err != nil {
		if !mongox.IsDuplicateKey(err) {
			return nil, false, err
		}
		// lost the race to a concurrent provision
		existing, ferr := s.users.FindOneByEmail(ctx, email)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, s.ensureSetupLink(ctx, existing)
	}

	if err := s.ensureSetupLink(ctx, u); err != nil {
		return nil, false, err
	}
	logx.WithContext(ctx).Infow("user provisioned from payment", logx.Field("userId", u.ID.Hex()))
	return u, true, nil
}

// ensureSetupLink mails the set-password link to a user who has no
// password and no outstanding setup token. A token already stored by a
// concurrent caller is reused and the mail job id is derived from the
// user, so racing callers produce one link and one email.
func (s *Service) ensureSetupLink(ctx context.Context, u *userdal.User) error {
	if u.Password != "" {
		return nil
	}
	live, err := s.kv.ExistsCtx(ctx, setupKey(u.Email))
	if err != nil {
		return fmt.Errorf("check setup token: %w", err)
	}
	if live {
		return nil
	}

	tok := s.newToken()
	stored, err := s.kv.SetnxExCtx(ctx, setupKey(u.Email), tok, int(biz.PasswordSetupTTL.Seconds()))
	if err != nil {
		return fmt.Errorf("store setup token: %w", err)
	}
	if !stored {
		if tok, err = s.kv.GetCtx(ctx, setupKey(u.Email)); err != nil {
			return fmt.Errorf("load setup token: %w", err)
		}
		if tok == "" {
			return fmt.Errorf("setup token for %s expired while provisioning", u.Email)
		}
	}

	if err := s.enqueueSetupMail(ctx, u, tok, "pwdsetup:"+u.ID.Hex()); err != nil {
		if stored {
			// without a mail the token is useless and would block the retry
			if _, derr := s.kv.DelCtx(ctx, setupKey(u.Email)); derr != nil {
				logx.WithContext(ctx).Errorw("drop unsent setup token failed",
					logx.Field("userId", u.ID.Hex()), logx.Field("err", derr.Error()))
			}
		}
		return err
	}
	return nil
}

// RequestPasswordSetup mails a fresh link. Unknown emails are silently
// ignored so the endpoint does not reveal which emails are registered.
func (s *Service) RequestPasswordSetup(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	u, err := s.users.FindOneByEmail(ctx, email)
	if stderrors.Is(err, userdal.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	tok := s.newToken()
	if err := s.kv.SetexCtx(ctx, setupKey(u.Email), tok, int(biz.PasswordSetupTTL.Seconds())); err != nil {
		return fmt.Errorf("store setup token: %w", err)
	}
	return s.enqueueSetupMail(ctx, u, tok, "")
}

func (s *Service) SetPassword(ctx context.Context, email, setupToken, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if len(password) < minPasswordLen {
		return nil, errors.New(errno.InvalidParam, "password must be at least 8 characters")
	}
	stored, err := s.kv.GetCtx(ctx, setupKey(email))
	if err != nil {
		return nil, err
	}
	if stored == "" || setupToken == "" || stored != setupToken {
		return nil, errors.New(errno.SetupTokenInvalid, "setup link is invalid or expired")
	}

	u, err := s.users.FindOneByEmail(ctx, email)
	if stderrors.Is(err, userdal.ErrNotFound) {
		return nil, errors.New(errno.SetupTokenInvalid, "setup link is invalid or expired")
	}
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPassword(ctx, u.ID, string(hash)); err != nil {
		return nil, err
	}
	if _, err := s.kv.DelCtx(ctx, setupKey(email)); err != nil {
		logx.WithContext(ctx).Errorw("delete setup token failed", logx.Field("err", err.Error()))
	}
	u.Password = string(hash)
	u.Activated = true
	return s.session(u)
}

func (s *Service) enqueueSetupMail(ctx context.Context, u *userdal.User, tok, jobID string) error {
	link := s.setupURL + "?token=" + url.QueryEscape(tok) + "&email=" + url.QueryEscape(u.Email)
	payload := tasks.EmailPayload{
		To:       u.Email,
		Template: mailer.TemplateSetPassword,
		Data:     map[string]any{"email": u.Email, "name": u.Name, "link": link},
	}
	if _, err := s.jobs.Enqueue(ctx, biz.QueueNotifications, tasks.TaskEmailSend, payload, tasks.EmailOptions(jobID)); err != nil {
		return fmt.Errorf("enqueue setup email: %w", err)
	}
	return nil
}

func (s *Service) session(u *userdal.User) (*Session, error) {
	pair, err := token.BuildPair(s.tokens, u.ID.Hex(), u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: pair}, nil
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}
