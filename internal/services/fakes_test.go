package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/zishraq/ecommerce-backend/internal/models"
	"github.com/zishraq/ecommerce-backend/pkg/stripe"
)

// memoryCache is an in-process cache.Cache that round-trips values through JSON.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failGet {
		return false, errors.New("cache unavailable")
	}

	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(data, value)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.deleted = append(c.deleted, key)

	return nil
}

func (c *memoryCache) deletedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.deleted...)
}

func (c *memoryCache) Close() error { return nil }

type fakePayments struct {
	amount   int64
	currency string
	metadata map[string]string
	err      error
}

func (f *fakePayments) CreatePaymentIntent(amount int64, currency string, _ string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.amount = amount
	f.currency = currency
	f.metadata = metadata

	return &stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
}

type fakeEmail struct {
	sent []*models.EmailMessage
	err  error
}

func (f *fakeEmail) Send(_ context.Context, msg *models.EmailMessage) error {
	f.sent = append(f.sent, msg)

	return f.err
}

func (f *fakeEmail) GetSendGridClient() *sendgrid.Client { return nil }
