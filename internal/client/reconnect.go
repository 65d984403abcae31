package client

import (
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff"
)

var errClientClosed = errors.New("client closed")

// runReconnect redials after an unexpected connection loss, with exponential
// backoff until the connection is restored or the client is torn down. Runs
// on the read pump goroutine that observed the failure. The server re-syncs
// a fresh connection with a room-state snapshot, so no replay is needed.
func (c *Client) runReconnect() {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // keep trying until torn down

	operation := func() error {
		select {
		case <-c.done:
			return backoff.Permanent(errClientClosed)
		default:
		}

		if _, err := c.connect(); err != nil {
			log.Printf("Error: reconnect to room %s failed - %v", c.opts.Room, err)
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, bo); err != nil {
		c.state.Store(int32(StateDisconnected))
		log.Printf("Reconnect for room %s abandoned: %v", c.opts.Room, err)
		return
	}

	c.writeMu.Lock()
	next := c.conn
	c.writeMu.Unlock()

	// Teardown may have raced the final dial attempt; drop the fresh socket
	// instead of resurrecting a closed client.
	select {
	case <-c.done:
		if next != nil {
			next.Close()
		}
		c.state.Store(int32(StateDisconnected))
		return
	default:
	}

	log.Printf("Reconnected to room %s", c.opts.Room)
	if next != nil {
		go c.readPump(next)
	}
}
