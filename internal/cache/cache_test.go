package cache

import (
	"testing"
	"time"
)

func TestKeyChangesWithContent(t *testing.T) {
	a := Key("journal.txt", []byte("# 2018-04-14\n07:01 - Oatmeal"))
	b := Key("journal.txt", []byte("# 2018-04-14\n07:01 - Porridge"))
	c := Key("other.txt", []byte("# 2018-04-14\n07:01 - Oatmeal"))

	if a == b {
		t.Error("expected different keys for different content")
	}
	if a == c {
		t.Error("expected different keys for different refs")
	}
	if a != Key("journal.txt", []byte("# 2018-04-14\n07:01 - Oatmeal")) {
		t.Error("expected stable key for identical input")
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("fresh", []byte("data"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("fresh")
	if !ok || string(got) != "data" {
		t.Fatalf("Get = %q, %v; want data, true", got, ok)
	}

	if err := c.Set("stale", []byte("data"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := c.Get("stale"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	mem := NewMemoryCache(time.Minute, time.Minute)
	disk := NewDiskCache(t.TempDir(), time.Minute)
	layered := NewLayeredCache(mem, disk)

	if err := disk.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := mem.Get("k"); ok {
		t.Fatal("memory should start cold")
	}
	got, ok := layered.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}
	if _, ok := mem.Get("k"); !ok {
		t.Error("expected disk hit promoted into memory")
	}
}
