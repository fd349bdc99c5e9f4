// Package poller watches the shared history file for writes made by
// other processes. It is a fixed-interval read-then-compare loop, not a
// push notification: each tick re-reads the file and bumps a version
// counter when the bytes changed. Browsers poll the version and refetch
// the message list when it moves.
package poller

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"multichat/internal/chat"
)

type Poller struct {
	cron     *cron.Cron
	store    *chat.Store
	interval time.Duration

	mu      sync.Mutex
	last    []byte
	version uint64
}

func New(store *chat.Store, interval time.Duration) *Poller {
	return &Poller{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		store:    store,
		interval: interval,
	}
}

// Start seeds the snapshot from the current file content and begins the
// interval checks.
func (p *Poller) Start() error {
	if raw, err := p.store.Raw(); err == nil {
		p.mu.Lock()
		p.last = raw
		p.mu.Unlock()
	}
	_, err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), p.check)
	if err != nil {
		return fmt.Errorf("schedule poll: %w", err)
	}
	p.cron.Start()
	log.Printf("📅 History poller started (every %s)", p.interval)
	return nil
}

func (p *Poller) Stop() {
	if p.cron != nil {
		ctx := p.cron.Stop()
		<-ctx.Done()
	}
}

// Version returns the current change counter. It only ever increases.
func (p *Poller) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

func (p *Poller) check() {
	raw, err := p.store.Raw()
	if err != nil {
		log.Printf("poll read failed: %v", err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !bytes.Equal(raw, p.last) {
		p.last = raw
		p.version++
	}
}
