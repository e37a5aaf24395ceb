package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampScan(t *testing.T) {
	want := time.Date(2025, 3, 14, 9, 26, 53, 500000000, time.UTC)

	tests := []struct {
		name string
		src  any
	}{
		{name: "time value", src: want},
		{name: "sqlite text", src: "2025-03-14 09:26:53.5+00:00"},
		{name: "sqlite bytes", src: []byte("2025-03-14 09:26:53.5+00:00")},
		{name: "go string format", src: "2025-03-14 09:26:53.5 +0000 UTC"},
		{name: "rfc3339", src: "2025-03-14T09:26:53.5Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, ts.Scan(tt.src))
			assert.True(t, want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestampScanNilAndGarbage(t *testing.T) {
	var ts Timestamp
	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan("not a time"))
	assert.Error(t, ts.Scan(42))
}

func TestGoalVisibleTo(t *testing.T) {
	owner := &User{ID: "a", Role: RoleStudent}
	other := &User{ID: "b", Role: RoleStudent}
	mentor := &User{ID: "m", Role: RoleMentor}

	private := &Goal{UserID: "a", Visibility: VisibilityPrivate}
	assert.True(t, private.VisibleTo(owner))
	assert.True(t, private.VisibleTo(mentor))
	assert.False(t, private.VisibleTo(other))
	assert.False(t, private.VisibleTo(nil))

	public := &Goal{UserID: "a", Visibility: VisibilityPublic}
	assert.True(t, public.VisibleTo(other))
	assert.True(t, public.VisibleTo(nil))
}
