package termsocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vtcore/editor/pkg/session"
	"github.com/vtcore/editor/terminal"
)

func newTestSession(t *testing.T) (*session.Manager, string) {
	t.Helper()
	sm := session.NewManager(t.TempDir())
	sess, err := sm.CreateSession(session.Config{
		Command:   []string{"/bin/sh"},
		IsSpawned: true,
		Width:     10,
		Height:    3,
	})
	require.NoError(t, err)
	return sm, sess.ID
}

func TestGetOrCreateScreenSizesFromSessionInfo(t *testing.T) {
	sm, id := newTestSession(t)
	m := NewManager(sm)
	defer m.Shutdown()

	ss, err := m.GetOrCreateScreen(id)
	require.NoError(t, err)
	assert.Equal(t, 10, ss.Screen.Cols())
	assert.Equal(t, 3, ss.Screen.Rows())
}

func TestGetOrCreateScreenReusesExisting(t *testing.T) {
	sm, id := newTestSession(t)
	m := NewManager(sm)
	defer m.Shutdown()

	first, err := m.GetOrCreateScreen(id)
	require.NoError(t, err)
	second, err := m.GetOrCreateScreen(id)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestPTYOutputFeedsScreenAndNotifiesSubscribers(t *testing.T) {
	sm, id := newTestSession(t)
	m := NewManager(sm)
	defer m.Shutdown()

	_, err := m.GetOrCreateScreen(id)
	require.NoError(t, err)

	received := make(chan struct{}, 1)
	unsubscribe, err := m.Subscribe(id, func(sessionID string, scr *terminal.Screen) {
		select {
		case received <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer unsubscribe()

	sm.NotifyDirectOutput(id, []byte("hello"))

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscriber notification")
	}
}

func TestSnapshotForUnknownSessionErrors(t *testing.T) {
	sm := session.NewManager(t.TempDir())
	m := NewManager(sm)
	defer m.Shutdown()

	_, err := m.Snapshot("does-not-exist")
	assert.Error(t, err)
}
