package storefront_test

import (
	"context"
	"fmt"
	"testing"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionKey(t *testing.T) {
	key := storefront.ActionKey("auth.signin", "user@example.com")
	assert.NotEmpty(t, key)
	assert.Equal(t, key, storefront.ActionKey("auth.signin", "user@example.com"))
	assert.NotEqual(t, key, storefront.ActionKey("auth.signin", "other@example.com"))
	assert.NotEqual(t, key, storefront.ActionKey("auth.signup", "user@example.com"))
}

func TestInflightDoReturnsFnResult(t *testing.T) {
	group := storefront.NewInflightGroup()

	err := group.Do(context.Background(), "key", func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	boom := fmt.Errorf("upstream said no")
	err = group.Do(context.Background(), "key", func(ctx context.Context) error {
		return boom
	})
	assert.Equal(t, boom, err)

	assert.Equal(t, 0, group.Pending())
}

func TestInflightBeginCancelsPrevious(t *testing.T) {
	group := storefront.NewInflightGroup()

	first, firstDone := group.Begin(context.Background(), "key")
	defer firstDone()

	second, secondDone := group.Begin(context.Background(), "key")
	defer secondDone()

	assert.Equal(t, context.Canceled, first.Err())
	assert.NoError(t, second.Err())
	assert.Equal(t, 1, group.Pending())
}

func TestInflightStaleDoneKeepsNewerHolder(t *testing.T) {
	group := storefront.NewInflightGroup()

	_, firstDone := group.Begin(context.Background(), "key")
	_, secondDone := group.Begin(context.Background(), "key")

	firstDone()
	assert.Equal(t, 1, group.Pending())

	secondDone()
	assert.Equal(t, 0, group.Pending())
}

func TestInflightSupersededRequestReportsConflict(t *testing.T) {
	group := storefront.NewInflightGroup()

	started := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		result <- group.Do(context.Background(), "key", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return nil
		})
	}()

	<-started

	err := group.Do(context.Background(), "key", func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	first := <-result
	require.Error(t, first)
	assert.True(t, storefront.IsSuperseded(first))
}
