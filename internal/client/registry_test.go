package client

import (
	"testing"
)

func TestRegistrySharesClientPerRoom(t *testing.T) {
	ts := newTestServer(t)
	registry := NewRegistry(Options{URL: ts.url(), SessionID: "self"})

	h1, err := registry.Acquire("demo")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	ts.waitConn(t)

	h2, err := registry.Acquire("demo")
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected shared handle for one room")
	}
	if registry.RoomCount() != 1 {
		t.Fatalf("expected 1 room, got %d", registry.RoomCount())
	}

	registry.Release("demo")
	if h1.Client.State() != StateConnected {
		t.Fatalf("client closed while still referenced")
	}

	registry.Release("demo")
	if h1.Client.State() != StateDisconnected {
		t.Fatalf("client not closed after last release")
	}
	if registry.RoomCount() != 0 {
		t.Fatalf("room still registered after last release")
	}
}

func TestRegistrySeparateRoomsSeparateStores(t *testing.T) {
	ts := newTestServer(t)
	registry := NewRegistry(Options{URL: ts.url(), SessionID: "self"})

	h1, err := registry.Acquire("room-1")
	if err != nil {
		t.Fatalf("acquire room-1: %v", err)
	}
	defer registry.Release("room-1")

	h2, err := registry.Acquire("room-2")
	if err != nil {
		t.Fatalf("acquire room-2: %v", err)
	}
	defer registry.Release("room-2")

	if h1.Store == h2.Store {
		t.Fatalf("rooms must not share a store")
	}
	if registry.RoomCount() != 2 {
		t.Fatalf("expected 2 rooms, got %d", registry.RoomCount())
	}
}

func TestRegistryRejectsEmptyRoom(t *testing.T) {
	registry := NewRegistry(Options{URL: "ws://localhost:0"})
	if _, err := registry.Acquire(""); err == nil {
		t.Fatalf("expected error for empty room code")
	}
}

func TestRegistryReleaseUnknownRoom(t *testing.T) {
	registry := NewRegistry(Options{URL: "ws://localhost:0"})
	registry.Release("ghost") // must not panic
}
