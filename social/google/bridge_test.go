package google

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/azuracommerce/go-storefront/gateway"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bridgeConfig struct{}

func (bridgeConfig) GetAPIBaseURL() string           { return "https://commerce.test/api/v1/" }
func (bridgeConfig) GetCookieName() string           { return "token" }
func (bridgeConfig) GetIdentityCookieName() string   { return "google_user" }
func (bridgeConfig) GetLoginRoute() string           { return "/login" }
func (bridgeConfig) GetLandingRoute() string         { return "/home" }
func (bridgeConfig) GetCookieDuration() int          { return 24 }
func (bridgeConfig) GetRejectedRouteKey() string     { return "rejected_route" }
func (bridgeConfig) GetRejectedRouteDefault() string { return "/home" }

type stubExchanger struct {
	token   string
	err     error
	lastReq gateway.GoogleLoginRequest
	calls   int
}

func (s *stubExchanger) GoogleLogin(ctx context.Context, req gateway.GoogleLoginRequest) (string, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

type stubStore struct {
	token    string
	identity string
	cleared  bool
}

func (s *stubStore) Get(c router.Context) string        { return s.token }
func (s *stubStore) Set(c router.Context, token string) { s.token = token }
func (s *stubStore) Clear(c router.Context) {
	s.token = ""
	s.identity = ""
	s.cleared = true
}
func (s *stubStore) Identity(c router.Context) string { return s.identity }
func (s *stubStore) SetIdentity(c router.Context, payload string) {
	s.identity = payload
}
func (s *stubStore) OnChange(hook storefront.SessionChangeHook) {}

type captureSink struct {
	events []storefront.ActivityEvent
}

func (s *captureSink) Record(ctx context.Context, event storefront.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

func redirectContext(t *testing.T) *router.MockContext {
	t.Helper()
	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.On("Redirect", "/home", []int{http.StatusSeeOther}).Return(nil)
	return ctx
}

func TestBridgeAcceptsUpstreamExchange(t *testing.T) {
	credential := testCredential(t, googleClaims{
		Sub:   "g-sub-1",
		Email: "user@example.com",
		Name:  "Test User",
	})

	exchanger := &stubExchanger{token: "upstream-token"}
	store := &stubStore{}
	machine := storefront.NewSessionStateMachine()
	sink := &captureSink{}

	bridge := NewBridge(exchanger, store, bridgeConfig{},
		WithBridgeStateMachine(machine),
		WithBridgeActivitySink(sink),
	)

	ctx := redirectContext(t)
	err := bridge.HandleCredential(ctx, credential)
	require.NoError(t, err)

	assert.Equal(t, "upstream-token", store.token)
	assert.Empty(t, store.identity)

	assert.Equal(t, "user@example.com", exchanger.lastReq.Email)
	assert.Equal(t, "google_oauth_g-sub-1", exchanger.lastReq.Password)
	assert.Equal(t, ProviderName, exchanger.lastReq.Provider)
	assert.Equal(t, credential, exchanger.lastReq.GoogleToken)

	assert.Equal(t, storefront.SessionStateAuthenticated, machine.Current())

	require.Len(t, sink.events, 1)
	assert.Equal(t, storefront.ActivityEventSocialLogin, sink.events[0].EventType)
	assert.Equal(t, "g-sub-1", sink.events[0].UserID)

	ctx.AssertExpectations(t)
}

func TestBridgeFallsBackWhenExchangeRejected(t *testing.T) {
	credential := testCredential(t, googleClaims{
		Sub:   "g-sub-1",
		Email: "user@example.com",
		Name:  "Test User",
	})

	exchanger := &stubExchanger{
		err: goerrors.New("There is no account with this email address", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized),
	}
	store := &stubStore{}
	sink := &captureSink{}

	bridge := NewBridge(exchanger, store, bridgeConfig{},
		WithBridgeActivitySink(sink),
	)

	ctx := redirectContext(t)
	err := bridge.HandleCredential(ctx, credential)
	require.NoError(t, err)

	assert.Equal(t, storefront.FallbackToken(credential), store.token)
	assert.True(t, storefront.IsFallbackToken(store.token))

	require.NotEmpty(t, store.identity)
	var identity IdentityPayload
	require.NoError(t, json.Unmarshal([]byte(store.identity), &identity))
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, ProviderName, identity.Provider)
	assert.Equal(t, credential, identity.IDToken)

	require.Len(t, sink.events, 1)
	assert.Equal(t, storefront.ActivityEventSocialFallback, sink.events[0].EventType)
	assert.Equal(t, string(StateFallbackAccepted), sink.events[0].Metadata["state"])

	ctx.AssertExpectations(t)
}

func TestBridgeRejectsMalformedCredential(t *testing.T) {
	exchanger := &stubExchanger{token: "upstream-token"}
	store := &stubStore{}

	bridge := NewBridge(exchanger, store, bridgeConfig{})

	ctx := router.NewMockContext()
	err := bridge.HandleCredential(ctx, "not-a-token")
	require.Error(t, err)

	assert.Equal(t, 0, exchanger.calls)
	assert.Empty(t, store.token)
	assert.Empty(t, store.identity)
}
