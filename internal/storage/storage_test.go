package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageUploadNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("gallery-images", "http://cdn.local/")

	require.NoError(t, s.Upload(ctx, "a.jpg", strings.NewReader("one"), 3, "image/jpeg"))
	err := s.Upload(ctx, "a.jpg", strings.NewReader("two"), 3, "image/jpeg")
	assert.True(t, errors.Is(err, ErrObjectExists))
	assert.Equal(t, int64(2), s.UploadCalls())
}

func TestMemoryStorageListPages(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("b", "")
	for i := 0; i < 5; i++ {
		s.Put(fmt.Sprintf("k%d.jpg", i), []byte("x"))
	}

	page, err := s.List(ctx, "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"k0.jpg", "k1.jpg"}, keys(page))

	page, err = s.List(ctx, "", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"k4.jpg"}, keys(page))

	page, err = s.List(ctx, "", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, int64(3), s.ListCalls())
}

func TestMemoryStorageListResumesAfterLastKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("b", "")
	for i := 0; i < 5; i++ {
		s.Put(fmt.Sprintf("k%d.jpg", i), []byte("x"))
	}

	page, err := s.List(ctx, "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"k0.jpg", "k1.jpg"}, keys(page))

	// A key sorting before the cursor would shift a plain offset walk and
	// repeat k1.jpg; resuming after the last key does not.
	s.Put("a0.jpg", []byte("x"))

	page, err = s.List(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"k2.jpg", "k3.jpg"}, keys(page))

	page, err = s.List(ctx, "", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"k4.jpg"}, keys(page))
}

func TestListCursorFallsBackToSkipping(t *testing.T) {
	var c listCursor

	after, skip := c.resume("", 100)
	assert.Empty(t, after)
	assert.Equal(t, 100, skip)

	c.advance("", 0, []Object{{Key: "a.jpg"}, {Key: "b.jpg"}})
	after, skip = c.resume("", 2)
	assert.Equal(t, "b.jpg", after)
	assert.Zero(t, skip)

	after, skip = c.resume("other/", 2)
	assert.Empty(t, after)
	assert.Equal(t, 2, skip)

	after, skip = c.resume("", 0)
	assert.Empty(t, after)
	assert.Zero(t, skip)

	c.advance("", 2, nil)
	after, skip = c.resume("", 2)
	assert.Empty(t, after)
	assert.Equal(t, 2, skip)
}

func TestPublicURL(t *testing.T) {
	s := NewMemoryStorage("gallery-images", "http://localhost:9000/")
	assert.Equal(t, "http://localhost:9000/gallery-images/x.jpg", s.PublicURL("x.jpg"))

	empty := NewMemoryStorage("gallery-images", "")
	assert.Equal(t, "", empty.PublicURL("x.jpg"))
}

func TestPublicReadPolicy(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("home-photos")), &doc))

	stmts := doc["Statement"].([]interface{})
	require.Len(t, stmts, 1)
	assert.Equal(t, "arn:aws:s3:::home-photos/*", stmts[0].(map[string]interface{})["Resource"])
}

func keys(objs []Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.Key)
	}
	return out
}
