package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	webconfig "github.com/hobbyreads/hobbyreads/backend/config"
	"github.com/hobbyreads/hobbyreads/backend/handlers"
	webmodels "github.com/hobbyreads/hobbyreads/backend/models"
	webservices "github.com/hobbyreads/hobbyreads/backend/services"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
	"github.com/hobbyreads/hobbyreads/internal/domain/connections"
	connmock "github.com/hobbyreads/hobbyreads/internal/domain/connections/mock"
	"github.com/hobbyreads/hobbyreads/internal/domain/profiles"
	profilemock "github.com/hobbyreads/hobbyreads/internal/domain/profiles/mock"
	"github.com/hobbyreads/hobbyreads/internal/domain/trades"
	trademock "github.com/hobbyreads/hobbyreads/internal/domain/trades/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testDeps struct {
	conns        *connmock.MockRepository
	users        *connmock.MockUserStore
	connHobbies  *connmock.MockHobbyStore
	trades       *trademock.MockRepository
	books        *trademock.MockBookStore
	covers       *trademock.MockCoverURLs
	profiles     *profilemock.MockRepository
	profHobbies  *profilemock.MockHobbyStore
	pictures     *profilemock.MockProfileURLs
	matcher      *profilemock.MockHobbyMatcher
	tokenService *webservices.TokenService
}

func newTestApp(t *testing.T, pinger handlers.Pinger) (*fiber.App, testDeps) {
	ctrl := gomock.NewController(t)
	d := testDeps{
		conns:        connmock.NewMockRepository(ctrl),
		users:        connmock.NewMockUserStore(ctrl),
		connHobbies:  connmock.NewMockHobbyStore(ctrl),
		trades:       trademock.NewMockRepository(ctrl),
		books:        trademock.NewMockBookStore(ctrl),
		covers:       trademock.NewMockCoverURLs(ctrl),
		profiles:     profilemock.NewMockRepository(ctrl),
		profHobbies:  profilemock.NewMockHobbyStore(ctrl),
		pictures:     profilemock.NewMockProfileURLs(ctrl),
		matcher:      profilemock.NewMockHobbyMatcher(ctrl),
		tokenService: webservices.NewTokenService(testSecret, "hobbyreads"),
	}

	webApp := &handlers.WebApp{
		DB:          pinger,
		Connections: connections.NewService(d.conns, d.users, d.connHobbies),
		Trades:      trades.NewService(d.trades, d.books, d.covers),
		Profiles:    profiles.NewService(d.profiles, d.profHobbies, d.pictures, d.matcher),
		Version:     "test",
		Commit:      "abc123",
	}
	return NewApp(webApp, d.tokenService, &webconfig.WebAppConfig{AllowedOrigins: "*"}), d
}

func (d testDeps) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := d.tokenService.Issue(userID, false)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (int, webmodels.APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out webmodels.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, stubPinger{})
	status, resp := do(t, app, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.Success)

	app, _ = newTestApp(t, stubPinger{err: errors.New("connection refused")})
	status, _ = do(t, app, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAuthRequired(t *testing.T) {
	app, d := newTestApp(t, stubPinger{})

	status, resp := do(t, app, http.MethodGet, "/api/connections", "", "")
	require.Equal(t, http.StatusForbidden, status)
	require.False(t, resp.Success)
	require.Equal(t, "FORBIDDEN", resp.Error.Code)

	status, resp = do(t, app, http.MethodGet, "/api/connections", "not-a-token", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	other := webservices.NewTokenService("another-secret", "hobbyreads")
	forged, err := other.Issue(3, false)
	require.NoError(t, err)
	status, _ = do(t, app, http.MethodGet, "/api/trades/pending", forged, "")
	require.Equal(t, http.StatusUnauthorized, status)

	d.trades.EXPECT().ListForUser(gomock.Any(), int64(3), models.TradePending).Return(nil, nil)
	status, resp = do(t, app, http.MethodGet, "/api/trades/pending", d.token(t, 3), "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.Success)
}

func TestConnectionRoutes(t *testing.T) {
	t.Run("self connection is rejected", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		status, resp := do(t, app, http.MethodPost, "/api/connections/4", d.token(t, 4), "")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		status, _ := do(t, app, http.MethodPut, "/api/connections/abc/accept", d.token(t, 4), "")
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("only the recipient accepts", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		d.conns.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&models.Connection{
			ID: 7, UserID: 2, ConnectedUserID: 9, Status: models.ConnectionPending,
		}, nil)

		status, resp := do(t, app, http.MethodPut, "/api/connections/7/accept", d.token(t, 3), "")
		require.Equal(t, http.StatusForbidden, status)
		require.Equal(t, "only the recipient can respond to a connection request", resp.Error.Message)
	})

	t.Run("delete of missing connection", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		d.conns.EXPECT().GetByID(gomock.Any(), int64(12)).
			Return(nil, &repositories.NotFoundError{Entity: "connection", ID: int64(12)})

		status, resp := do(t, app, http.MethodDelete, "/api/connections/12", d.token(t, 3), "")
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("request creates a pending connection", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		target := &models.User{ID: 8, Username: "tess", Name: "Tess"}
		d.users.EXPECT().GetByID(gomock.Any(), int64(8)).Return(target, nil)
		d.conns.EXPECT().ExistsBetween(gomock.Any(), int64(4), int64(8)).Return(false, nil)
		d.conns.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *models.Connection) error {
			c.ID = 31
			c.Status = models.ConnectionPending
			c.CreatedAt = time.Now()
			c.UpdatedAt = c.CreatedAt
			return nil
		})
		d.connHobbies.EXPECT().NamesForUser(gomock.Any(), int64(4)).Return([]string{"chess", "hiking"}, nil)
		d.connHobbies.EXPECT().NamesForUser(gomock.Any(), int64(8)).Return([]string{"hiking"}, nil)

		status, resp := do(t, app, http.MethodPost, "/api/connections/8", d.token(t, 4), "")
		require.Equal(t, http.StatusCreated, status)

		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		require.EqualValues(t, 31, data["id"])
		require.Equal(t, "pending", data["status"])
		require.EqualValues(t, 50, data["matchPercentage"])
	})
}

func TestTradeRoutes(t *testing.T) {
	book := &models.Book{ID: 10, Title: "Dune", OwnerID: 9, Status: models.BookAvailable}

	t.Run("missing book id", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		status, resp := do(t, app, http.MethodPost, "/api/trades", d.token(t, 5), `{"message":"hi"}`)
		require.Equal(t, http.StatusBadRequest, status)
		require.Contains(t, resp.Error.Details, "bookId")
	})

	t.Run("malformed body", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		status, _ := do(t, app, http.MethodPost, "/api/trades", d.token(t, 5), `{"bookId":`)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("duplicate pending request", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		d.books.EXPECT().GetByID(gomock.Any(), int64(10)).Return(book, nil)
		d.trades.EXPECT().HasPending(gomock.Any(), int64(5), int64(10)).Return(true, nil)

		status, resp := do(t, app, http.MethodPost, "/api/trades", d.token(t, 5), `{"bookId":10}`)
		require.Equal(t, http.StatusConflict, status)
		require.Equal(t, "CONFLICT", resp.Error.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		status, _ := do(t, app, http.MethodPut, "/api/trades/4", d.token(t, 9), `{"status":"completed"}`)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("accept of a traded book", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		d.trades.EXPECT().GetByID(gomock.Any(), int64(4)).Return(&models.TradeRequest{
			ID: 4, RequesterID: 5, BookID: 10, OwnerID: 9, Status: models.TradePending,
		}, nil)
		d.trades.EXPECT().Accept(gomock.Any(), int64(4)).Return(int64(0), repositories.ErrBookUnavailable)

		status, resp := do(t, app, http.MethodPut, "/api/trades/4", d.token(t, 9), `{"status":"accepted"}`)
		require.Equal(t, http.StatusUnprocessableEntity, status)
		require.Equal(t, "INVALID_STATE", resp.Error.Code)
	})

	t.Run("accepted trades of another user", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		status, _ := do(t, app, http.MethodGet, "/api/trades/user/9", d.token(t, 5), "")
		require.Equal(t, http.StatusForbidden, status)
	})

	t.Run("store failure hides the cause", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		d.trades.EXPECT().ListForUser(gomock.Any(), int64(5), models.TradeAccepted).
			Return(nil, errors.New("pq: relation does not exist"))

		status, resp := do(t, app, http.MethodGet, "/api/trades/user/5", d.token(t, 5), "")
		require.Equal(t, http.StatusInternalServerError, status)
		require.Equal(t, "internal error", resp.Error.Message)
	})
}

func TestUserRoutes(t *testing.T) {
	t.Run("blank name", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		status, resp := do(t, app, http.MethodPut, "/api/users/profile", d.token(t, 5), `{"name":"  ","hobbies":["chess"]}`)
		require.Equal(t, http.StatusBadRequest, status)
		require.Contains(t, resp.Error.Details, "name")
	})

	t.Run("hobby search", func(t *testing.T) {
		app, d := newTestApp(t, stubPinger{})
		all := []*models.Hobby{{ID: 1, Name: "Chess"}, {ID: 2, Name: "Hiking"}}
		d.profHobbies.EXPECT().GetAll(gomock.Any()).Return(all, nil)
		d.matcher.EXPECT().Search(all, "hik").Return(all[1:])

		status, resp := do(t, app, http.MethodGet, "/api/hobbies?q=hik", d.token(t, 5), "")
		require.Equal(t, http.StatusOK, status)

		data, ok := resp.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, data, 1)
	})
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t, stubPinger{})
	status, resp := do(t, app, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "NOT_FOUND", resp.Error.Code)
}
