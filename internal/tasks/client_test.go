package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lingua/internal/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func startClient(t *testing.T, client *Client) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go client.Start(ctx)
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		client.Stop(stopCtx)
		cancel()
	})
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "lingua-tasks.db"), TasksDBPath(filepath.Join("data", "lingua.db")))
	assert.Equal(t, "lingua-tasks", TasksDBPath("lingua"))
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

func TestStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type recordingMailer struct {
	mu     sync.Mutex
	failN  int
	calls  int
	sent   chan [2]string
	failed error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failN {
		return m.failed
	}
	m.sent <- [2]string{email, token}
	return nil
}

func TestResetDispatcher_DeliversThroughQueue(t *testing.T) {
	client := newTestClient(t)
	mailer := &recordingMailer{sent: make(chan [2]string, 1)}
	client.Register(NewSendPasswordResetEmailQueue(mailer))
	startClient(t, client)

	dispatcher := NewResetDispatcher(client)
	require.NoError(t, dispatcher.SendPasswordReset(context.Background(), "ann@example.com", "token-1"))

	select {
	case got := <-mailer.sent:
		assert.Equal(t, [2]string{"ann@example.com", "token-1"}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("reset email was not sent within timeout")
	}
}

func TestSendPasswordResetEmailProcessor(t *testing.T) {
	boom := errors.New("smtp down")
	mailer := &recordingMailer{failN: 1, failed: boom, sent: make(chan [2]string, 1)}
	process := SendPasswordResetEmailProcessor(mailer)
	task := SendPasswordResetEmailTask{Email: "ann@example.com", Token: "t"}

	assert.ErrorIs(t, process(context.Background(), task), boom)
	assert.NoError(t, process(context.Background(), task))
	assert.Equal(t, [2]string{"ann@example.com", "t"}, <-mailer.sent)

	assert.Error(t, SendPasswordResetEmailProcessor(nil)(context.Background(), task))
}

type fakePurger struct {
	deleted int
	err     error
	calls   int
}

func (f *fakePurger) PurgeExpired(_ context.Context, _ time.Time) (int, error) {
	f.calls++
	return f.deleted, f.err
}

func TestPurgeExpiredResetsProcessor(t *testing.T) {
	purger := &fakePurger{deleted: 4}
	require.NoError(t, PurgeExpiredResetsProcessor(purger)(context.Background(), PurgeExpiredResetsTask{}))
	assert.Equal(t, 1, purger.calls)

	purger.err = errors.New("store down")
	assert.Error(t, PurgeExpiredResetsProcessor(purger)(context.Background(), PurgeExpiredResetsTask{}))

	assert.Error(t, PurgeExpiredResetsProcessor(nil)(context.Background(), PurgeExpiredResetsTask{}))
}

func TestEnqueuePurgeExpiredResets(t *testing.T) {
	client := newTestClient(t)
	client.Register(NewPurgeExpiredResetsQueue(&fakePurger{}))
	startClient(t, client)

	require.NoError(t, client.EnqueuePurgeExpiredResets())
}

func TestEnqueueReturnsIDs(t *testing.T) {
	client := newTestClient(t)
	client.Register(NewPurgeExpiredResetsQueue(&fakePurger{}))
	startClient(t, client)

	ids, err := client.Enqueue(PurgeExpiredResetsTask{}, PurgeExpiredResetsTask{})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestTaskConfigs(t *testing.T) {
	reset := SendPasswordResetEmailTask{}.Config()
	assert.Equal(t, "send_password_reset_email", reset.Name)
	assert.Equal(t, 3, reset.MaxAttempts)
	assert.Equal(t, 30*time.Second, reset.Backoff)
	assert.NotNil(t, reset.Retention)

	purge := PurgeExpiredResetsTask{}.Config()
	assert.Equal(t, "purge_expired_resets", purge.Name)
	assert.Equal(t, 1, purge.MaxAttempts)
}

func TestParamFields(t *testing.T) {
	fields := paramFields([]any{"id", "abc", "queue", "q", 42})
	assert.Equal(t, "abc", fields["id"])
	assert.Equal(t, "q", fields["queue"])
	assert.Equal(t, 42, fields["extra"])
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.Tasks{Workers: 4, ReleaseAfter: 5 * time.Minute})
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

var _ backlite.Task = SendPasswordResetEmailTask{}
var _ backlite.Task = PurgeExpiredResetsTask{}
