package chat

import (
	"context"
	"testing"
	"time"

	"github.com/fairyhunter13/stylist-storefront/internal/catalog"
	"github.com/fairyhunter13/stylist-storefront/internal/dialogue"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/fairyhunter13/stylist-storefront/internal/obs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistry(t *testing.T, delay DelayFunc) (*Registry, *Scheduler) {
	t.Helper()
	obs.InitLogger()
	c, err := catalog.Default()
	require.NoError(t, err)
	sched := NewScheduler(delay)
	sched.Start(context.Background())
	t.Cleanup(sched.Stop)
	return NewRegistry(dialogue.NewResponder(c), sched), sched
}

func TestNewSessionHasIntro(t *testing.T) {
	reg, _ := setupRegistry(t, FixedDelay(0))
	s := reg.Create()
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleAssistant, msgs[0].Role)
	assert.Equal(t, dialogue.Intro, msgs[0].Content)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestSendDeliversReplyAfterDelay(t *testing.T) {
	reg, sched := setupRegistry(t, FixedDelay(30*time.Millisecond))
	s := reg.Create()

	msg, err := s.Send("  it's my birthday  ")
	require.NoError(t, err)
	assert.Equal(t, "it's my birthday", msg.Content)
	assert.Equal(t, model.RoleUser, msg.Role)
	assert.True(t, s.Typing())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.True(t, sched.DrainUntil(ctx))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, model.RoleUser, msgs[1].Role)
	assert.Equal(t, model.RoleAssistant, msgs[2].Role)
	assert.Contains(t, msgs[2].Content, "BDAY-20")
	assert.False(t, s.Typing())
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i].Sequence, msgs[i-1].Sequence)
	}
}

func TestReplyCarriesProducts(t *testing.T) {
	reg, _ := setupRegistry(t, FixedDelay(0))
	s := reg.Create()
	_, err := s.Send("Show me summer dresses")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(s.Messages()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Len(t, s.Messages()[2].Products, dialogue.DefaultLimit)
}

func TestSendRejectsBlank(t *testing.T) {
	reg, _ := setupRegistry(t, FixedDelay(0))
	s := reg.Create()
	_, err := s.Send("   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Len(t, s.Messages(), 1)
}

func TestCloseDiscardsPendingReply(t *testing.T) {
	reg, sched := setupRegistry(t, FixedDelay(50*time.Millisecond))
	s := reg.Create()
	_, err := s.Send("birthday")
	require.NoError(t, err)
	require.NoError(t, reg.Delete(s.ID()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.True(t, sched.DrainUntil(ctx))
	time.Sleep(80 * time.Millisecond)

	assert.Len(t, s.Messages(), 2)
	assert.False(t, s.Typing())
	_, err = s.Send("hello")
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, _, discarded, _ := sched.Metrics()
	assert.Equal(t, uint64(1), discarded)
}

func TestResetDiscardsPendingReply(t *testing.T) {
	reg, sched := setupRegistry(t, FixedDelay(50*time.Millisecond))
	s := reg.Create()
	_, err := s.Send("birthday")
	require.NoError(t, err)
	s.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.True(t, sched.DrainUntil(ctx))

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, dialogue.Intro, msgs[0].Content)

	_, err = s.Send("outfit")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(s.Messages()) == 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestSchedulerStoppedRejectsSend(t *testing.T) {
	reg, sched := setupRegistry(t, FixedDelay(0))
	s := reg.Create()
	sched.Stop()
	_, err := s.Send("hi")
	assert.ErrorIs(t, err, ErrSchedulerStopped)
	assert.Len(t, s.Messages(), 1)
}

func TestSchedulerNotStarted(t *testing.T) {
	sched := NewScheduler(nil)
	assert.False(t, sched.Schedule(context.Background(), func() {}))
}

func TestRandomDelayRange(t *testing.T) {
	d := RandomDelay(800*time.Millisecond, 600*time.Millisecond)
	for i := 0; i < 200; i++ {
		v := d()
		assert.GreaterOrEqual(t, v, 800*time.Millisecond)
		assert.Less(t, v, 1400*time.Millisecond)
	}
	assert.Equal(t, time.Second, RandomDelay(time.Second, 0)())
}

func TestRegistry(t *testing.T) {
	reg, _ := setupRegistry(t, FixedDelay(0))
	a := reg.Create()
	b := reg.Create()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, reg.Len())

	got, err := reg.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, reg.Delete("missing"), ErrSessionNotFound)

	reg.CloseAll()
	assert.Zero(t, reg.Len())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
}
