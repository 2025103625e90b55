package liketoggle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeTransport records calls and serves a configurable like status.
type fakeTransport struct {
	mu       sync.Mutex
	liked    bool
	checkErr error
	likeErr  error
	calls    []string

	// when set, Like/Unlike signal entered and wait for release
	entered chan struct{}
	release chan struct{}
}

func (f *fakeTransport) CheckLike(_ context.Context, cafeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("check:%d", cafeID))
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.liked, nil
}

func (f *fakeTransport) Like(ctx context.Context, cafeID int64) error {
	return f.mutate(ctx, "like", cafeID, true)
}

func (f *fakeTransport) Unlike(ctx context.Context, cafeID int64) error {
	return f.mutate(ctx, "unlike", cafeID, false)
}

func (f *fakeTransport) mutate(_ context.Context, op string, cafeID int64, liked bool) error {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%d", op, cafeID))
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likeErr != nil {
		return f.likeErr
	}
	f.liked = liked
	return nil
}

func (f *fakeTransport) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingView struct {
	mu      sync.Mutex
	renders []Buttons
}

func (v *recordingView) Render(b Buttons) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, b)
}

func (v *recordingView) Renders() []Buttons {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Buttons(nil), v.renders...)
}

func (v *recordingView) Last() Buttons {
	r := v.Renders()
	if len(r) == 0 {
		return Buttons{}
	}
	return r[len(r)-1]
}

func newTestController(transport Transport, opts ...Option) (*Controller, *recordingView) {
	view := &recordingView{}
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	return New(42, transport, view, opts...), view
}

func TestDisplayProperButtons_ShowsMatchingButton(t *testing.T) {
	tests := []struct {
		name       string
		liked      bool
		wantState  State
		wantLike   bool
		wantUnlike bool
	}{
		{name: "not liked", liked: false, wantState: StateNotLiked, wantLike: true},
		{name: "liked", liked: true, wantState: StateLiked, wantUnlike: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{liked: tt.liked}
			c, view := newTestController(transport)

			require.NoError(t, c.DisplayProperButtons(context.Background()))

			renders := view.Renders()
			require.Len(t, renders, 2)
			assert.Equal(t, 0, renders[0].Visible(), "both buttons hidden while loading")
			assert.True(t, renders[0].Busy)

			last := view.Last()
			assert.Equal(t, 1, last.Visible())
			assert.Equal(t, tt.wantLike, last.LikeVisible)
			assert.Equal(t, tt.wantUnlike, last.UnlikeVisible)
			assert.False(t, last.Busy)
			assert.Empty(t, last.Err)
			assert.Equal(t, tt.wantState, c.State())
			assert.Equal(t, []string{"check:42"}, transport.Calls())
		})
	}
}

func TestDisplayProperButtons_Idempotent(t *testing.T) {
	transport := &fakeTransport{liked: true}
	c, view := newTestController(transport)

	require.NoError(t, c.DisplayProperButtons(context.Background()))
	first := view.Last()
	require.NoError(t, c.DisplayProperButtons(context.Background()))
	second := view.Last()

	assert.Equal(t, first, second)
	for _, b := range view.Renders() {
		assert.LessOrEqual(t, b.Visible(), 1, "never both buttons visible")
	}
}

func TestDisplayProperButtons_FailsClosed(t *testing.T) {
	transport := &fakeTransport{checkErr: &NetworkError{Op: "check like", Err: errors.New("connection refused")}}
	c, view := newTestController(transport)

	err := c.DisplayProperButtons(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.Equal(t, StateFailed, c.State())

	last := view.Last()
	assert.Equal(t, 0, last.Visible())
	assert.False(t, last.Busy)
	assert.NotEmpty(t, last.Err, "error affordance is rendered")

	transport.mu.Lock()
	transport.checkErr = nil
	transport.mu.Unlock()

	require.NoError(t, c.DisplayProperButtons(context.Background()))
	assert.Equal(t, StateNotLiked, c.State())
	assert.Empty(t, view.Last().Err)
}

func TestClickLike_Scenario(t *testing.T) {
	transport := &fakeTransport{liked: false}
	c, view := newTestController(transport)
	ctx := context.Background()

	require.NoError(t, c.DisplayProperButtons(ctx))
	require.True(t, view.Last().LikeVisible)

	require.NoError(t, c.ClickLike(ctx))

	assert.Equal(t, []string{"check:42", "like:42"}, transport.Calls())
	last := view.Last()
	assert.False(t, last.LikeVisible)
	assert.True(t, last.UnlikeVisible)
	assert.Equal(t, StateLiked, c.State())
}

func TestClickUnlike_Scenario(t *testing.T) {
	transport := &fakeTransport{liked: true}
	c, view := newTestController(transport)
	ctx := context.Background()

	require.NoError(t, c.DisplayProperButtons(ctx))
	require.True(t, view.Last().UnlikeVisible)

	require.NoError(t, c.ClickUnlike(ctx))

	assert.Equal(t, []string{"check:42", "unlike:42"}, transport.Calls())
	last := view.Last()
	assert.True(t, last.LikeVisible)
	assert.False(t, last.UnlikeVisible)
	assert.Equal(t, StateNotLiked, c.State())
}

func TestClick_TogglesRepeatedly(t *testing.T) {
	transport := &fakeTransport{}
	c, _ := newTestController(transport)
	ctx := context.Background()

	require.NoError(t, c.DisplayProperButtons(ctx))
	for i := 0; i < 4; i++ {
		require.NoError(t, c.Click(ctx))
	}

	assert.Equal(t, StateNotLiked, c.State())
	assert.Equal(t, []string{"check:42", "like:42", "unlike:42", "like:42", "unlike:42"}, transport.Calls())
}

func TestClick_HiddenButtonSendsNothing(t *testing.T) {
	transport := &fakeTransport{liked: true}
	c, _ := newTestController(transport)
	ctx := context.Background()

	err := c.ClickLike(ctx)
	assert.ErrorIs(t, err, ErrNotVisible, "nothing visible before initialization")

	require.NoError(t, c.DisplayProperButtons(ctx))
	err = c.ClickLike(ctx)
	assert.ErrorIs(t, err, ErrNotVisible)

	assert.Equal(t, []string{"check:42"}, transport.Calls())
}

func TestClickLike_ServerErrorReverts(t *testing.T) {
	transport := &fakeTransport{}
	c, view := newTestController(transport)
	ctx := context.Background()
	require.NoError(t, c.DisplayProperButtons(ctx))

	transport.likeErr = &ServerError{Op: "like", StatusCode: 500, Message: "boom"}
	err := c.ClickLike(ctx)

	require.Error(t, err)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.StatusCode)

	assert.Equal(t, StateNotLiked, c.State())
	last := view.Last()
	assert.True(t, last.LikeVisible)
	assert.False(t, last.Busy)
	assert.Contains(t, last.Err, "500")
}

func TestClickLike_DuplicateWhileInFlight(t *testing.T) {
	transport := &fakeTransport{}
	c, view := newTestController(transport)
	ctx := context.Background()
	require.NoError(t, c.DisplayProperButtons(ctx))

	transport.entered = make(chan struct{})
	transport.release = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- c.ClickLike(ctx) }()
	<-transport.entered

	busy := view.Last()
	assert.True(t, busy.Busy, "visible button disabled while in flight")
	assert.True(t, busy.LikeVisible)

	assert.ErrorIs(t, c.ClickLike(ctx), ErrInFlight)
	assert.ErrorIs(t, c.DisplayProperButtons(ctx), ErrInFlight)

	close(transport.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"check:42", "like:42"}, transport.Calls())
	assert.Equal(t, StateLiked, c.State())
}

func TestClickLike_OptimisticFlipsFirstAndReverts(t *testing.T) {
	transport := &fakeTransport{}
	c, view := newTestController(transport, WithOptimistic(true))
	ctx := context.Background()
	require.NoError(t, c.DisplayProperButtons(ctx))

	transport.entered = make(chan struct{})
	transport.release = make(chan struct{})
	transport.likeErr = &NetworkError{Op: "like", Err: errors.New("reset by peer")}

	done := make(chan error, 1)
	go func() { done <- c.ClickLike(ctx) }()
	<-transport.entered

	during := view.Last()
	assert.True(t, during.UnlikeVisible, "flipped before the response")
	assert.True(t, during.Busy)

	close(transport.release)
	err := <-done
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))

	last := view.Last()
	assert.True(t, last.LikeVisible, "reverted after failure")
	assert.Equal(t, "Could not reach the server.", last.Err)
	assert.Equal(t, StateNotLiked, c.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "not_liked", StateNotLiked.String())
	assert.Equal(t, "liked", StateLiked.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}
