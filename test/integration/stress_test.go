package integration

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

// Adds to the cart from many goroutines and checks no update is lost.
func TestIntegration_ConcurrentCartAdds(t *testing.T) {
	waitReady(t)
	resp := sendJSON(t, http.MethodDelete, "/cart", "")
	_ = resp.Body.Close()

	concurrency := 20
	perGoroutine := 3
	client := &http.Client{Timeout: 5 * time.Second}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	errCh := make(chan error, concurrency*perGoroutine)
	for g := 0; g < concurrency; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				r, _ := http.NewRequest(http.MethodPost, baseURL()+"/cart/items", bytes.NewBufferString(`{"product_id":2,"quantity":1}`))
				r.Header.Set("Content-Type", "application/json")
				resp, err := client.Do(r)
				if err != nil {
					errCh <- err
					return
				}
				if resp.StatusCode != http.StatusCreated {
					errCh <- fmt.Errorf("expected 201, got %d", resp.StatusCode)
				}
				_ = resp.Body.Close()
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatal(err)
		}
	}

	r, err := http.Get(baseURL() + "/cart")
	if err != nil {
		t.Fatal(err)
	}
	var c cartBody
	decodeBody(t, r, &c)
	if c.ItemCount != concurrency*perGoroutine {
		t.Fatalf("expected %d items, got %d", concurrency*perGoroutine, c.ItemCount)
	}
}
