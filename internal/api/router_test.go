package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"persona_diary/internal/db"
	"persona_diary/internal/domain"
	"persona_diary/internal/ledger"
	"persona_diary/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// testApp bundles a wired router with its backing stores and a cookie jar,
// so tests can walk the same browser flows a user would
type testApp struct {
	t         *testing.T
	router    *gin.Engine
	gdb       *gorm.DB
	rdb       *redis.Client
	uploadDir string
	cookies   map[string]*http.Cookie
}

// newTestApp wires the full router against an in-memory database and
// miniredis. A nil generate falls back to a deterministic echo generator.
func newTestApp(t *testing.T, generate ledger.GenerateFunc) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // Keeps the in-memory database alive
	require.NoError(t, gdb.AutoMigrate(&domain.User{}, &domain.Character{}, &domain.Question{}, &domain.Answer{}))
	require.NoError(t, db.SeedQuestions(gdb))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	if generate == nil {
		generate = func(ctx context.Context, name, description, question string) string {
			return "generated: " + question
		}
	}

	uploadDir := t.TempDir()
	return &testApp{
		t:         t,
		router:    NewRouter(gdb, rdb, testSecret, uploadDir, generate),
		gdb:       gdb,
		rdb:       rdb,
		uploadDir: uploadDir,
		cookies:   map[string]*http.Cookie{},
	}
}

// do performs a request with the jar's cookies and folds Set-Cookie headers
// back into the jar
func (a *testApp) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range a.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(a.cookies, ck.Name) // Cleared cookie
			continue
		}
		a.cookies[ck.Name] = ck
	}
	return w
}

// get performs a GET through the jar
func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, path, nil, "")
}

// postForm performs a form POST through the jar
func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// register signs up a fresh user through the real handler
func (a *testApp) register(email, password string) {
	a.t.Helper()
	w := a.postForm("/register", url.Values{
		"email":    {email},
		"password": {password},
		"confirm":  {password},
	})
	require.Equal(a.t, http.StatusSeeOther, w.Code)
	require.Equal(a.t, "/character/create", w.Header().Get("Location"))
}

// createCharacter makes a persona for the signed-in user
func (a *testApp) createCharacter(name, description string) {
	a.t.Helper()
	w := a.postForm("/character/create", url.Values{
		"name":        {name},
		"description": {description},
	})
	require.Equal(a.t, http.StatusSeeOther, w.Code)
	require.Equal(a.t, "/dashboard", w.Header().Get("Location"))
}

// pendingFlash peeks at the message queued for the jar's flash cookie
func (a *testApp) pendingFlash() *utils.Flash {
	a.t.Helper()
	ck, ok := a.cookies[utils.FlashCookie]
	if !ok {
		return nil
	}
	var flash utils.Flash
	found, err := utils.GetCache(context.Background(), a.rdb, "flash:"+ck.Value, &flash)
	if err != nil || !found {
		return nil
	}
	return &flash
}

// userCount counts stored users
func (a *testApp) userCount() int64 {
	a.t.Helper()
	var count int64
	require.NoError(a.t, a.gdb.Model(&domain.User{}).Count(&count).Error)
	return count
}

// questionByDay fetches a seeded catalog entry
func (a *testApp) questionByDay(day int) domain.Question {
	a.t.Helper()
	var q domain.Question
	require.NoError(a.t, a.gdb.Where("day_number = ?", day).First(&q).Error)
	return q
}
