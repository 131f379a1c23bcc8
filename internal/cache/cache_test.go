package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/healthtrack/internal/cache"
	"github.com/limbo/healthtrack/pkg/entity"
)

func newTestCache(t *testing.T) (*cache.ListCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewWithClient(rdb), srv
}

func TestListCacheRoundtrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	uid := uuid.New()
	key := cache.AppointmentsKey(uid)
	stored := []entity.Appointment{
		{ID: uuid.New(), UserID: uid, Title: "Dentist", Date: "2025-03-10", Time: "09:00"},
		{ID: uuid.New(), UserID: uid, Title: "Cardio", Date: "2025-03-10", Time: "14:30"},
	}

	var loaded []entity.Appointment
	hit, err := c.GetList(ctx, key, &loaded)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetList(ctx, key, stored))

	hit, err = c.GetList(ctx, key, &loaded)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stored, loaded)
}

func TestListCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	uid := uuid.New()
	apptKey := cache.AppointmentsKey(uid)
	medKey := cache.MedicationsKey(uid)

	require.NoError(t, c.SetList(ctx, apptKey, []entity.Appointment{{ID: uuid.New(), UserID: uid, Title: "Checkup"}}))
	require.NoError(t, c.SetList(ctx, medKey, []entity.Medication{{ID: uuid.New(), UserID: uid, Name: "Aspirin"}}))

	require.NoError(t, c.Invalidate(ctx, apptKey, medKey))

	var appts []entity.Appointment
	hit, err := c.GetList(ctx, apptKey, &appts)
	require.NoError(t, err)
	assert.False(t, hit)

	var meds []entity.Medication
	hit, err = c.GetList(ctx, medKey, &meds)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestListCacheInvalidateNoKeys(t *testing.T) {
	c, _ := newTestCache(t)
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestListCacheExpiry(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	uid := uuid.New()
	key := cache.MedicationsKey(uid)

	require.NoError(t, c.SetList(ctx, key, []entity.Medication{{ID: uuid.New(), UserID: uid, Name: "Aspirin"}}))
	srv.FastForward(6 * time.Minute)

	var meds []entity.Medication
	hit, err := c.GetList(ctx, key, &meds)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKeyBuilders(t *testing.T) {
	uid := uuid.MustParse("0b9fba10-38ea-42e7-a0b6-90b9b8f2b1a1")
	day := time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "appointments:0b9fba10-38ea-42e7-a0b6-90b9b8f2b1a1", cache.AppointmentsKey(uid))
	assert.Equal(t, "medications:0b9fba10-38ea-42e7-a0b6-90b9b8f2b1a1", cache.MedicationsKey(uid))
	assert.Equal(t, "medlogs:0b9fba10-38ea-42e7-a0b6-90b9b8f2b1a1:2025-03-10", cache.MedicationLogsKey(uid, day))
}
