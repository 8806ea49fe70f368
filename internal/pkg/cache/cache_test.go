package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	cache := New(100 * time.Millisecond)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("template.docx", []byte("template bytes"))

		got, err := cache.Get(ctx, "template.docx")
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if string(got) != "template bytes" {
			t.Errorf("Expected template bytes, got %s", string(got))
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		cache.Set("expired.docx", []byte("old"))
		time.Sleep(150 * time.Millisecond)

		if _, err := cache.Get(ctx, "expired.docx"); err == nil {
			t.Error("Expected error for expired key")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Set("deleted.docx", []byte("bytes"))
		cache.Delete("deleted.docx")

		if _, err := cache.Get(ctx, "deleted.docx"); err == nil {
			t.Error("Expected error for deleted key")
		}
	})
}

func TestCacheConcurrency(t *testing.T) {
	cache := New(time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Set("shared", []byte("value"))
			if _, err := cache.Get(ctx, "shared"); err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()
}
