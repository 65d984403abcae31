package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boardsync/internal/client"
	"boardsync/internal/config"
	"boardsync/internal/presence"
	"boardsync/internal/record"
	"boardsync/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	roster := presence.NewRoster()

	opts := client.Options{
		URL:       cfg.WSURL,
		SessionID: cfg.SessionID,
		Validator: record.NewValidator(),
		Roster:    roster,
		Reconnect: cfg.Reconnect,
	}

	if cfg.CachePath != "" {
		cache, err := store.OpenCache(cfg.CachePath)
		if err != nil {
			log.Fatalf("Error opening cache %s: %v", cfg.CachePath, err)
		}
		defer cache.Close()
		opts.Cache = cache
	}

	registry := client.NewRegistry(opts)

	handle, err := registry.Acquire(cfg.Room)
	if err != nil {
		log.Fatalf("Error joining room %s: %v", cfg.Room, err)
	}
	defer registry.Release(cfg.Room)

	unsubscribe := handle.Store.Listen(func(ch store.Change) {
		log.Printf("%s change in %s: %d added, %d updated, %d removed (%d records)",
			ch.Source, cfg.Room, len(ch.Added), len(ch.Updated), len(ch.Removed), handle.Store.Count())
	}, store.ListenOptions{})
	defer unsubscribe()

	go watchPeers(ctx, roster)

	log.Printf("Connected to room %s as session %s", cfg.Room, handle.Client.SessionID())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down")
}

// watchPeers: routine to log roster membership and evict stale peers
func watchPeers(ctx context.Context, roster *presence.Roster) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			roster.Cleanup(5 * time.Minute)
			for _, p := range roster.Peers() {
				log.Printf("Peer %s (%s) last seen %s", p.SessionID, p.Color, p.LastSeen.Format(time.RFC3339))
			}
		}
	}
}
