package redis

import (
	"testing"
	"time"
)

func TestNewCheckpointStoreDefaults(t *testing.T) {
	t.Parallel()

	store := NewCheckpointStore(Config{})
	if store.key != "match-tracker:checkpoint:live" {
		t.Fatalf("unexpected default key: %s", store.key)
	}
	if store.ttl != DefaultTTL {
		t.Fatalf("unexpected default ttl: %s", store.ttl)
	}

	custom := NewCheckpointStore(Config{KeyPrefix: "league:", TTL: time.Hour})
	if custom.key != "league:checkpoint:live" || custom.ttl != time.Hour {
		t.Fatalf("unexpected custom store: key=%s ttl=%s", custom.key, custom.ttl)
	}
}
