package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/gachastat/internal/domain/model"
)

func page(ts ...int64) Page {
	p := make(Page, 0, len(ts))
	for _, t := range ts {
		p = append(p, model.DrawBatch{Timestamp: t, Pool: "P"})
	}
	return p
}

func TestPageQueue_BasicOperations(t *testing.T) {
	q := NewPageQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if err := q.Send(ctx, page(1, 2)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Receive()
	if len(got) != 2 || got[0].Timestamp != 1 {
		t.Errorf("unexpected page %+v", got)
	}
}

func TestPageQueue_DefaultCapacity(t *testing.T) {
	q := NewPageQueue(WithCapacity(0))
	if q.Cap() != defaultCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultCapacity, q.Cap())
	}
}

func TestPageQueue_Order(t *testing.T) {
	q := NewPageQueue(WithCapacity(8))
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		if err := q.Send(ctx, page(i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	_ = q.Close()

	want := int64(1)
	for p := range q.Receive() {
		if p[0].Timestamp != want {
			t.Fatalf("expected page %d, got %d", want, p[0].Timestamp)
		}
		want++
	}
	if want != 6 {
		t.Errorf("expected 5 pages, got %d", want-1)
	}
}

func TestPageQueue_Backpressure(t *testing.T) {
	q := NewPageQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.Send(ctx, page(1)); err != nil {
		t.Fatalf("send: %v", err)
	}

	sent := make(chan error, 1)
	go func() { sent <- q.Send(ctx, page(2)) }()

	select {
	case err := <-sent:
		t.Fatalf("send on a full queue returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	<-q.Receive()
	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("blocked send failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("send did not resume after a receive")
	}
}

func TestPageQueue_Closed(t *testing.T) {
	q := NewPageQueue()
	ctx := context.Background()

	if err := q.Send(ctx, page(1)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Send(ctx, page(2)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// queued pages survive Close
	if p, ok := <-q.Receive(); !ok || p[0].Timestamp != 1 {
		t.Errorf("expected queued page after close, got %v %v", p, ok)
	}
	if _, ok := <-q.Receive(); ok {
		t.Error("expected receive channel to be closed")
	}
}

func TestPageQueue_ConsumerGone(t *testing.T) {
	q := NewPageQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.Send(ctx, page(1)); err != nil {
		t.Fatalf("send: %v", err)
	}

	blocked := make(chan error, 1)
	go func() { blocked <- q.Send(ctx, page(2)) }()

	time.Sleep(20 * time.Millisecond)
	q.MarkConsumerGone()
	q.MarkConsumerGone()

	select {
	case err := <-blocked:
		if !errors.Is(err, ErrConsumerGone) {
			t.Errorf("expected ErrConsumerGone, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked send was not released")
	}

	<-q.Receive()
	if err := q.Send(ctx, page(3)); !errors.Is(err, ErrConsumerGone) {
		t.Errorf("expected ErrConsumerGone with free capacity, got %v", err)
	}
}

func TestPageQueue_ContextCancelled(t *testing.T) {
	q := NewPageQueue(WithCapacity(1))
	if err := q.Send(context.Background(), page(1)); err != nil {
		t.Fatalf("send: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Send(ctx, page(2)); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestPageQueue_ConsumerGoneWithRoom(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 200; i++ {
		q := NewPageQueue(WithCapacity(4))
		done := make(chan struct{})
		go func() {
			q.MarkConsumerGone()
			close(done)
		}()
		<-done
		for j := 0; j < 4; j++ {
			if err := q.Send(ctx, page(int64(j))); !errors.Is(err, ErrConsumerGone) {
				t.Fatalf("iteration %d send %d: expected ErrConsumerGone, got %v", i, j, err)
			}
		}
	}
}
