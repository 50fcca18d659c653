package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"VenueHub/app/common/consts/biz"
	commonconfig "VenueHub/app/common/config"
	"VenueHub/app/common/response"
	"VenueHub/app/common/token"
	"VenueHub/app/common/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func TestMain(m *testing.M) {
	httpx.SetErrorHandlerCtx(response.ErrorHandler)
	os.Exit(m.Run())
}

func tokenConf() token.Conf {
	return token.Conf{
		AccessSecret:  "a",
		AccessExpire:  time.Hour,
		RefreshSecret: "r",
		RefreshExpire: time.Hour,
	}
}

func TestAuthMiddlewareInjectsIdentity(t *testing.T) {
	c := tokenConf()
	pair, err := token.BuildPair(c, "u42", "x@y.z", biz.RoleUser)
	require.NoError(t, err)

	var gotID, gotRole string
	h := NewAuthMiddleware(c).Handle(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = util.UserIdFromCtx(r.Context())
		gotRole = util.RoleFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u42", gotID)
	assert.Equal(t, biz.RoleUser, gotRole)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	called := false
	h := NewAuthMiddleware(tokenConf()).Handle(func(http.ResponseWriter, *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCasbinPolicyFile(t *testing.T) {
	e := commonconfig.CasbinConf{
		Model:  "../../../etc/rbac_model.conf",
		Policy: "../../../etc/rbac_policy.csv",
	}.MustNewEnforcer()

	tests := []struct {
		sub, path, method string
		want              bool
	}{
		{biz.RoleVenueOwner, "/api/admin/venues/abc", http.MethodPut, true},
		{biz.RoleVenueOwner, "/api/admin/deals", http.MethodPost, false},
		{biz.RoleAdmin, "/api/admin/deals", http.MethodPost, true},
		{biz.RoleAdmin, "/api/admin/activities/abc/schedules", http.MethodPost, true},
		{biz.RoleUser, "/api/admin/venues", http.MethodPost, false},
	}
	for _, tt := range tests {
		ok, err := e.Enforce(tt.sub, tt.path, tt.method)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "%s %s %s", tt.sub, tt.method, tt.path)
	}
}

func TestCasbinMiddlewareForbids(t *testing.T) {
	e := commonconfig.CasbinConf{
		Model:  "../../../etc/rbac_model.conf",
		Policy: "../../../etc/rbac_policy.csv",
	}.MustNewEnforcer()

	called := false
	h := NewCasbinMiddleware(e).Handle(func(http.ResponseWriter, *http.Request) { called = true })
	req := httptest.NewRequest(http.MethodPost, "/api/admin/deals", nil)
	util.InjectIdentity2Ctx(req, "u1", biz.RoleVenueOwner, "")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
