package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/database"
	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// exerciseStore runs the behaviour every musician.Store must share.
func exerciseStore(t *testing.T, store musician.Store) {
	t.Helper()
	ctx := context.Background()

	all, err := store.GetMusicians(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = store.GetMusician(ctx, "42")
	assert.True(t, musician.IsNotFound(err))
	assert.EqualError(t, err, "musician 42 not found")

	id, err := store.PutMusician(ctx, "42", musician.Musician(`{"name":"Nina Simone"}`))
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	id, err = store.PutMusician(ctx, "10", musician.Musician(`{"name":"Miles Davis"}`))
	require.NoError(t, err)
	assert.Equal(t, "10", id)

	got, err := store.GetMusician(ctx, "42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Nina Simone"}`, string(got))

	// Put replaces.
	_, err = store.PutMusician(ctx, "42", musician.Musician(`{"name":"Nina Simone","instrument":"piano"}`))
	require.NoError(t, err)
	got, err = store.GetMusician(ctx, "42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Nina Simone","instrument":"piano"}`, string(got))

	all, err = store.GetMusicians(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.JSONEq(t, `{"name":"Miles Davis"}`, string(all[0]))
	assert.JSONEq(t, `{"name":"Nina Simone","instrument":"piano"}`, string(all[1]))

	id, err = store.DeleteMusician(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = store.DeleteMusician(ctx, "42")
	assert.Equal(t, musician.KindNotFound, musician.KindOf(err))

	_, err = store.GetMusician(ctx, "42")
	assert.True(t, musician.IsNotFound(err))
}

func TestMemoryMusicianRepository(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemoryMusicianRepository())
}

func TestMemoryMusicianRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := NewMemoryMusicianRepository()
	body := musician.Musician(`{"name":"Bach"}`)
	_, err := repo.PutMusician(context.Background(), "1", body)
	require.NoError(t, err)

	body[2] = 'X'
	got, err := repo.GetMusician(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Bach"}`, string(got))
}

func TestMemoryMusicianRepository_Concurrent(t *testing.T) {
	t.Parallel()

	repo := NewMemoryMusicianRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("%03d", i)
			_, err := repo.PutMusician(ctx, id, musician.Musician(`{"name":"x"}`))
			assert.NoError(t, err)
			_, err = repo.GetMusicians(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.GetMusicians(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestMemoryMusicianRepository_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryMusicianRepository().GetMusician(ctx, "1")
	assert.Equal(t, musician.KindUnavailable, musician.KindOf(err))
	assert.EqualError(t, err, "musician store unavailable")
}

func TestSQLiteMusicianRepository(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "musicians.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteMusicianRepository(db)
	exerciseStore(t, repo)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestRedisError(t *testing.T) {
	t.Parallel()

	assert.True(t, musician.IsNotFound(redisError("get", "1", redis.Nil)))
	assert.Equal(t, musician.KindUnavailable, musician.KindOf(redisError("get", "1", redis.ErrClosed)))
	assert.Equal(t, musician.KindUnavailable, musician.KindOf(redisError("get", "1", context.DeadlineExceeded)))

	err := redisError("put", "1", errors.New("WRONGTYPE Operation against a key"))
	assert.Equal(t, musician.KindInternal, musician.KindOf(err))
	assert.EqualError(t, err, "failed to put musician 1")
}

func TestMongoError(t *testing.T) {
	t.Parallel()

	assert.True(t, musician.IsNotFound(mongoError("get", "1", mongo.ErrNoDocuments)))
	assert.Equal(t, musician.KindUnavailable, musician.KindOf(mongoError("get", "1", mongo.ErrClientDisconnected)))
	assert.Equal(t, musician.KindInternal, musician.KindOf(mongoError("get", "1", errors.New("boom"))))
}

func TestMongoRecord_KeepsDocumentVerbatim(t *testing.T) {
	t.Parallel()

	body := musician.Musician(`{"name":"Bach","born":{"$numberInt":"1685"},"$date":{"$numberLong":"1"}}`)

	raw, err := bson.Marshal(newMongoRecord("1", body))
	require.NoError(t, err)

	var decoded mongoRecord
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	assert.Equal(t, "1", decoded.ID)
	assert.Equal(t, string(body), string(decoded.musician()))
}

func TestNewRepositories(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}},
		Logger: &logger,
	}

	repos, err := NewRepositories(s)
	require.NoError(t, err)
	assert.IsType(t, &MemoryMusicianRepository{}, repos.Musician)

	s.Config.Store.Driver = config.DriverPostgres
	_, err = NewRepositories(s)
	assert.EqualError(t, err, `store driver "postgres": database not connected`)

	s.Config.Store.Driver = "cassandra"
	_, err = NewRepositories(s)
	assert.EqualError(t, err, `unknown store driver "cassandra"`)
}
