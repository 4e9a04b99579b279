package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher broadcasts verified payment events to subscriber webhooks.
// Delivery is best-effort and at-most-once: failures are logged and
// swallowed, nothing is retried, and a failing subscriber never affects the
// original caller.
type Dispatcher struct {
	urls   []string
	client *http.Client
}

// NewDispatcher creates a dispatcher for the given subscriber URLs
func NewDispatcher(urls []string) *Dispatcher {
	return &Dispatcher{
		urls: urls,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SubscriberCount returns the number of configured subscriber endpoints
func (d *Dispatcher) SubscriberCount() int {
	return len(d.urls)
}

// Dispatch posts the event to every subscriber concurrently and returns
// once all deliveries have settled, success or failure alike.
func (d *Dispatcher) Dispatch(ctx context.Context, event *VerifiedEvent) {
	if len(d.urls) == 0 {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("dispatch: failed to marshal event: %v", err)
		return
	}

	var wg sync.WaitGroup
	for _, url := range d.urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			d.deliver(ctx, url, payload)
		}(url)
	}
	wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, url string, payload []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("dispatch: skipping subscriber %s: %v", url, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("dispatch: delivery to %s failed: %v", url, err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("dispatch: subscriber %s answered %d", url, resp.StatusCode)
	}
}
