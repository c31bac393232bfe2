package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	rollouts := []Rollout{
		{EnvID: "SuperMarioBros-1-1-v0", Steps: 120, Reward: 250.5, World: 1, Stage: 1, XPos: 400},
		{EnvID: "SuperMarioBros-1-1-v0", Steps: 40, Reward: -20, World: 1, Stage: 1, XPos: 60},
		{EnvID: "SuperMarioBros-1-1-v0", Steps: 600, Reward: 1400, FlagGet: true, World: 1, Stage: 1, XPos: 3161},
		{EnvID: "SuperMarioBros-v0", Steps: 900, Reward: 800, World: 2, Stage: 1, XPos: 500},
	}
	for _, r := range rollouts {
		if _, err := store.SaveRollout(r); err != nil {
			t.Fatalf("SaveRollout() failed: %v", err)
		}
	}

	top, err := store.TopRollouts("SuperMarioBros-1-1-v0", 10)
	if err != nil {
		t.Fatalf("TopRollouts() failed: %v", err)
	}

	if len(top) != 3 {
		t.Fatalf("Expected 3 rollouts, got %d", len(top))
	}

	// Should be sorted by reward descending
	if top[0].Reward != 1400 {
		t.Errorf("Expected best reward 1400, got %v", top[0].Reward)
	}
	if !top[0].FlagGet {
		t.Errorf("Expected best rollout to have the flag")
	}
	if top[1].Reward != 250.5 {
		t.Errorf("Expected second reward 250.5, got %v", top[1].Reward)
	}
	if top[2].Reward != -20 {
		t.Errorf("Expected third reward -20, got %v", top[2].Reward)
	}

	other, err := store.TopRollouts("SuperMarioBros-v0", 10)
	if err != nil {
		t.Fatalf("TopRollouts() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 rollout for the other environment, got %d", len(other))
	}
}

func TestStoreTopRolloutsLimit(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		store.SaveRollout(Rollout{EnvID: "test", Steps: 10, Reward: float64((i + 1) * 100)})
	}

	top, err := store.TopRollouts("test", 3)
	if err != nil {
		t.Fatalf("TopRollouts() failed: %v", err)
	}

	if len(top) != 3 {
		t.Fatalf("Expected 3 rollouts with limit, got %d", len(top))
	}
	if top[0].Reward != 500 || top[1].Reward != 400 || top[2].Reward != 300 {
		t.Errorf("Rollouts not in expected order: %v", top)
	}
}

func TestStoreBestReward(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// No rollouts yet
	_, ok, err := store.BestReward("test")
	if err != nil {
		t.Fatalf("BestReward() failed: %v", err)
	}
	if ok {
		t.Error("Expected no best reward for empty environment")
	}

	store.SaveRollout(Rollout{EnvID: "test", Reward: 100})
	store.SaveRollout(Rollout{EnvID: "test", Reward: -30})
	store.SaveRollout(Rollout{EnvID: "test", Reward: 72.5})

	best, ok, err := store.BestReward("test")
	if err != nil {
		t.Fatalf("BestReward() failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a best reward")
	}
	if best != 100 {
		t.Errorf("Expected best reward 100, got %v", best)
	}
}

func TestStoreRecentRollouts(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i := 0; i < 20; i++ {
		store.SaveRollout(Rollout{EnvID: "test", Steps: i, Reward: float64(i)})
	}

	recent, err := store.RecentRollouts(5)
	if err != nil {
		t.Fatalf("RecentRollouts() failed: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("Expected 5 recent rollouts, got %d", len(recent))
	}
	if recent[0].Steps != 19 {
		t.Errorf("Expected most recent rollout first, got steps=%d", recent[0].Steps)
	}
}

func TestStoreClearRollouts(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveRollout(Rollout{EnvID: "a", Reward: 1})
	store.SaveRollout(Rollout{EnvID: "a", Reward: 2})
	store.SaveRollout(Rollout{EnvID: "b", Reward: 3})

	if err := store.ClearRollouts("a"); err != nil {
		t.Fatalf("ClearRollouts() failed: %v", err)
	}

	aRollouts, _ := store.TopRollouts("a", 10)
	if len(aRollouts) != 0 {
		t.Errorf("Expected 0 rollouts after clear, got %d", len(aRollouts))
	}

	bRollouts, _ := store.TopRollouts("b", 10)
	if len(bRollouts) != 1 {
		t.Errorf("Other environment should not be affected by clearing")
	}
}

func TestStoreCreatesNestedDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
