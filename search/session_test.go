package search_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/teralab/itemdex/search"
	"github.com/stretchr/testify/assert"
)

func TestSession_BeginCancelsPrevious(t *testing.T) {
	s := search.NewSession()

	ctx1, finish1 := s.Begin(context.Background())
	go func() {
		<-ctx1.Done()
		finish1()
	}()

	ctx2, finish2 := s.Begin(context.Background())
	defer finish2()

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())
}

func TestSession_BeginWaitsForPreviousToFinish(t *testing.T) {
	s := search.NewSession()

	ctx1, finish1 := s.Begin(context.Background())

	started := make(chan struct{})
	replaced := make(chan struct{})
	go func() {
		close(started)
		_, finish2 := s.Begin(context.Background())
		finish2()
		close(replaced)
	}()

	<-started
	select {
	case <-replaced:
		t.Fatal("replacement proceeded before the previous search finished")
	case <-time.After(50 * time.Millisecond):
	}

	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "replacement cancels first")
	finish1()

	select {
	case <-replaced:
	case <-time.After(time.Second):
		t.Fatal("replacement never proceeded after finish")
	}
}

func TestSession_CancelAndWait(t *testing.T) {
	s := search.NewSession()

	ctx, finish := s.Begin(context.Background())

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		finish()
		close(done)
	}()

	s.CancelAndWait()
	<-done
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSession_CancelAndWaitWithNoActiveSearch(t *testing.T) {
	s := search.NewSession()
	s.CancelAndWait()
}

func TestSession_ExclusiveBlocksNewSearches(t *testing.T) {
	s := search.NewSession()

	ctx1, finish1 := s.Begin(context.Background())
	go func() {
		<-ctx1.Done()
		finish1()
	}()

	inside := make(chan struct{})
	release := make(chan struct{})
	go func() {
		s.Exclusive(func() {
			close(inside)
			<-release
		})
	}()

	<-inside
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "the section cancels the running search first")

	began := make(chan struct{})
	go func() {
		_, finish := s.Begin(context.Background())
		finish()
		close(began)
	}()

	select {
	case <-began:
		t.Fatal("a search began while the exclusive section was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-began:
	case <-time.After(time.Second):
		t.Fatal("search never began after the exclusive section ended")
	}
}

func TestSession_FinishIsIdempotent(t *testing.T) {
	s := search.NewSession()

	_, finish := s.Begin(context.Background())
	finish()
	finish()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.CancelAndWait()
	}()
	wg.Wait()
}
