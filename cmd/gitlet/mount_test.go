package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

type fakeMount struct {
	exited     chan struct{}
	unmounts   int
	unmountErr error
}

func newFakeMount() *fakeMount {
	return &fakeMount{exited: make(chan struct{})}
}

func (f *fakeMount) Wait() { <-f.exited }

func (f *fakeMount) Unmount() error {
	f.unmounts++
	if f.unmountErr != nil {
		return f.unmountErr
	}
	close(f.exited)
	return nil
}

func TestRunMount_ExternalUnmount(t *testing.T) {
	var buf bytes.Buffer
	m := newFakeMount()
	close(m.exited)

	ctx, cancel := context.WithCancel(context.Background())
	runMount(ctx, m, log.New(&buf, "", 0))
	cancel()

	if m.unmounts != 0 {
		t.Errorf("Unmount called %d times after the mount went away", m.unmounts)
	}
	if got := buf.String(); got != "stopped\n" {
		t.Errorf("log = %q, want only stopped", got)
	}
}

func TestRunMount_Signal(t *testing.T) {
	var buf bytes.Buffer
	m := newFakeMount()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runMount(ctx, m, log.New(&buf, "", 0))

	if m.unmounts != 1 {
		t.Errorf("Unmount called %d times, want 1", m.unmounts)
	}
	if got := buf.String(); got != "shutting down...\nstopped\n" {
		t.Errorf("log = %q", got)
	}
}

func TestRunMount_UnmountFails(t *testing.T) {
	var buf bytes.Buffer
	m := newFakeMount()
	m.unmountErr = errors.New("device busy")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runMount(ctx, m, log.New(&buf, "", 0))

	if !strings.Contains(buf.String(), "unmount: device busy") {
		t.Errorf("log = %q", buf.String())
	}
}
