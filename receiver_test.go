package replay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/replay"
)

func TestReceiver_Replay(t *testing.T) {
	t.Parallel()

	t.Run("late receiver replays full history in order", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[int]()
		defer ch.Close()

		sender := ch.Sender()
		const n = 25
		for i := 0; i < n; i++ {
			require.NoError(t, sender.Send(i))
		}

		recv := ch.Receiver()
		ctx := context.Background()
		for i := 0; i < n; i++ {
			v, err := recv.Receive(ctx)
			require.NoError(t, err)
			assert.Equal(t, i, v)
		}
	})

	t.Run("history then live continuation", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[string]()
		defer ch.Close()

		sender := ch.Sender()
		require.NoError(t, sender.Send("message 1"))
		require.NoError(t, sender.Send("message 2"))

		recv := ch.Receiver()
		ctx := context.Background()

		v, err := recv.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, "message 1", v)

		v, err = recv.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, "message 2", v)

		require.NoError(t, sender.Send("message 3"))
		v, err = recv.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, "message 3", v)

		// A receiver created now still starts from the beginning.
		late := ch.Receiver()
		for _, want := range []string{"message 1", "message 2", "message 3"} {
			v, err = late.Receive(ctx)
			require.NoError(t, err)
			require.Equal(t, want, v)
		}
	})

	t.Run("receivers from sender handle replay too", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[int]()
		defer ch.Close()

		sender := ch.Sender()
		require.NoError(t, sender.Send(7))

		recv := sender.Receiver()
		v, err := recv.Receive(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})
}

func TestReceiver_Independence(t *testing.T) {
	t.Parallel()

	// Receivers created at different times, reading at different paces,
	// observe the identical sequence.
	ch := replay.New[int]()
	defer ch.Close()

	sender := ch.Sender()
	ctx := context.Background()

	require.NoError(t, sender.Send(1))
	r1 := ch.Receiver()
	require.NoError(t, sender.Send(2))
	r2 := ch.Receiver()
	require.NoError(t, sender.Send(3))

	drain := func(r *replay.Receiver[int]) []int {
		var got []int
		for r.Pos() < int64(ch.Len()) {
			v, err := r.Receive(ctx)
			require.NoError(t, err)
			got = append(got, v)
		}
		return got
	}

	assert.Equal(t, []int{1, 2, 3}, drain(r1))
	assert.Equal(t, []int{1, 2, 3}, drain(r2))

	require.NoError(t, sender.Send(4))
	v, err := r2.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	v, err = r1.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestReceiver_Blocking(t *testing.T) {
	t.Parallel()

	t.Run("receive suspends until send", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[string]()
		defer ch.Close()

		recv := ch.Receiver()
		got := make(chan string, 1)
		go func() {
			v, err := recv.Receive(context.Background())
			if assert.NoError(t, err) {
				got <- v
			}
		}()

		// The receiver must still be waiting before the send.
		select {
		case v := <-got:
			t.Fatalf("received %q before anything was sent", v)
		case <-time.After(50 * time.Millisecond):
		}

		require.NoError(t, ch.Sender().Send("wake"))

		select {
		case v := <-got:
			assert.Equal(t, "wake", v)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for message")
		}
	})

	t.Run("each send releases exactly one message", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[int]()
		defer ch.Close()

		sender := ch.Sender()
		recv := ch.Receiver()
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			require.NoError(t, sender.Send(i))
			v, err := recv.Receive(ctx)
			require.NoError(t, err)
			require.Equal(t, i, v)

			// Caught up again: nothing further is available.
			_, ok := recv.TryReceive()
			require.False(t, ok)
		}
	})
}

func TestReceiver_ContextCancellation(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context returns without consuming", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[int]()
		defer ch.Close()

		recv := ch.Receiver()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := recv.Receive(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.EqualValues(t, 0, recv.Pos())

		// The cursor is intact: the next call gets the next message.
		require.NoError(t, ch.Sender().Send(99))
		v, err := recv.Receive(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 99, v)
	})

	t.Run("pre-cancelled context fails fast even with backlog", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[int]()
		defer ch.Close()

		require.NoError(t, ch.Sender().Send(1))
		recv := ch.Receiver()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := recv.Receive(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.EqualValues(t, 0, recv.Pos())
	})
}

func TestReceiver_TryReceive(t *testing.T) {
	t.Parallel()

	ch := replay.New[string]()
	defer ch.Close()

	recv := ch.Receiver()

	_, ok := recv.TryReceive()
	require.False(t, ok)
	require.EqualValues(t, 0, recv.Pos())

	require.NoError(t, ch.Sender().Send("a"))

	v, ok := recv.TryReceive()
	require.True(t, ok)
	assert.Equal(t, "a", v)
	assert.EqualValues(t, 1, recv.Pos())

	_, ok = recv.TryReceive()
	assert.False(t, ok)
}

func TestReceiver_Stream(t *testing.T) {
	t.Parallel()

	t.Run("streams history and live messages", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[int]()
		defer ch.Close()

		sender := ch.Sender()
		require.NoError(t, sender.Send(1))
		require.NoError(t, sender.Send(2))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		stream := ch.Receiver().Stream(ctx)

		var got []int
		for v := range stream {
			got = append(got, v)
			if len(got) == 2 {
				require.NoError(t, sender.Send(3))
			}
			if len(got) == 3 {
				cancel()
			}
		}
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("stream ends when channel closes", func(t *testing.T) {
		t.Parallel()

		ch := replay.New[int]()
		require.NoError(t, ch.Sender().Send(1))
		require.NoError(t, ch.Close())

		stream := ch.Receiver().Stream(context.Background())

		var got []int
		for v := range stream {
			got = append(got, v)
		}
		assert.Equal(t, []int{1}, got)
	})
}
