package storefront_test

import (
	"testing"
	"time"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCookieSessionStoreGet(t *testing.T) {
	store := storefront.NewCookieSessionStore(testConfig{})

	mockCtx := new(MockContext)
	mockCtx.On("Cookies", "token").Return("stored-token")

	assert.Equal(t, "stored-token", store.Get(mockCtx))
	mockCtx.AssertExpectations(t)
}

func TestCookieSessionStoreSet(t *testing.T) {
	store := storefront.NewCookieSessionStore(testConfig{})

	var change storefront.SessionChange
	store.OnChange(func(c storefront.SessionChange) {
		change = c
	})

	mockCtx := new(MockContext)
	mockCtx.On("Cookie", mock.MatchedBy(func(c *router.Cookie) bool {
		return c.Name == "token" &&
			c.Value == "fresh-token" &&
			c.HTTPOnly &&
			c.Secure &&
			c.SameSite == "Lax" &&
			c.Expires.After(time.Now())
	})).Return()

	store.Set(mockCtx, "fresh-token")

	assert.Equal(t, "fresh-token", change.Token)
	assert.False(t, change.Cleared)
	mockCtx.AssertExpectations(t)
}

func TestCookieSessionStoreClear(t *testing.T) {
	store := storefront.NewCookieSessionStore(testConfig{})

	var change storefront.SessionChange
	store.OnChange(func(c storefront.SessionChange) {
		change = c
	})

	mockCtx := new(MockContext)
	mockCtx.On("Cookie", mock.MatchedBy(func(c *router.Cookie) bool {
		return c.Name == "token" && c.Value == "" && c.Expires.Before(time.Now())
	})).Return()
	mockCtx.On("Cookie", mock.MatchedBy(func(c *router.Cookie) bool {
		return c.Name == "google_user" && c.Value == "" && c.Expires.Before(time.Now())
	})).Return()

	store.Clear(mockCtx)

	assert.True(t, change.Cleared)
	assert.Empty(t, change.Token)
	mockCtx.AssertExpectations(t)
}

func TestCookieSessionStoreIdentity(t *testing.T) {
	store := storefront.NewCookieSessionStore(testConfig{})

	t.Run("reads the identity cookie", func(t *testing.T) {
		mockCtx := new(MockContext)
		mockCtx.On("Cookies", "google_user").Return(`{"provider":"google"}`)

		assert.Equal(t, `{"provider":"google"}`, store.Identity(mockCtx))
		mockCtx.AssertExpectations(t)
	})

	t.Run("writes the identity cookie", func(t *testing.T) {
		mockCtx := new(MockContext)
		mockCtx.On("Cookie", mock.MatchedBy(func(c *router.Cookie) bool {
			return c.Name == "google_user" &&
				c.Value == `{"provider":"google"}` &&
				c.HTTPOnly &&
				c.Expires.After(time.Now())
		})).Return()

		store.SetIdentity(mockCtx, `{"provider":"google"}`)
		mockCtx.AssertExpectations(t)
	})
}

func TestCookieSessionStoreNotifiesEveryHook(t *testing.T) {
	store := storefront.NewCookieSessionStore(testConfig{})

	calls := 0
	store.OnChange(func(storefront.SessionChange) { calls++ })
	store.OnChange(func(storefront.SessionChange) { calls++ })

	mockCtx := new(MockContext)
	mockCtx.On("Cookie", mock.Anything).Return()

	store.Set(mockCtx, "token-value")
	require.Equal(t, 2, calls)
}
