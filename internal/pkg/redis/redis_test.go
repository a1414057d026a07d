package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Raw().Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))
}

func TestConnectErrors(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	assert.ErrorContains(t, err, "invalid redis url")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = Connect(context.Background(), "redis://"+addr)
	assert.ErrorContains(t, err, "redis ping failed")
}

func TestNilClientIsDisabled(t *testing.T) {
	var c *Client
	assert.Nil(t, c.Raw())
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
	assert.Nil(t, Wrap(nil))
}
