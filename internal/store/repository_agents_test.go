package store

import (
	"errors"
	"testing"
)

func TestAgentCreateAndLookup(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id, err := st.CreateAgent(ctx, "alice", "key-a", true, false)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}

	got, err := st.GetAgentByID(ctx, id)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if got.Name != "alice" || !got.CanShopper || got.CanKeeper {
		t.Fatalf("unexpected agent: %+v", got)
	}
	if got.APIKeyHash == "key-a" {
		t.Fatal("api key stored in the clear")
	}

	byKey, err := st.GetAgentByAPIKey(ctx, "key-a")
	if err != nil {
		t.Fatalf("get by api key: %v", err)
	}
	if byKey.ID != id {
		t.Fatalf("key lookup returned wrong agent: %s", byKey.ID)
	}
	if _, err := st.GetAgentByAPIKey(ctx, "wrong-key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad key, got %v", err)
	}
}

func TestSetAgentVerified(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := mustCreateAgent(t, st, ctx, "alice", "key-a")
	if err := st.SetAgentVerified(ctx, id, true); err != nil {
		t.Fatalf("set verified: %v", err)
	}
	got, err := st.GetAgentByID(ctx, id)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if !got.Verified {
		t.Fatal("verified flag not persisted")
	}
}
