package snapshot

import (
	"context"
	"errors"
	"testing"
)

// TestInstrumentedStoreUpdateNotifies は成功したUpdateがキーを通知することを確認する
func TestInstrumentedStoreUpdateNotifies(t *testing.T) {
	inner, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	counts := map[string]int{}
	store := NewInstrumentedStore(inner, func(key string) { counts[key]++ })
	ctx := context.Background()

	err = store.Update(ctx, KeyItems, func(doc []byte) ([]byte, error) {
		return []byte(`[]`), nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if counts[KeyItems] != 1 {
		t.Errorf("counts[KeyItems] = %d, 期待値 1", counts[KeyItems])
	}
}

// TestInstrumentedStoreUpdateFailureNotNotified は失敗したUpdateが通知されないことを確認する
func TestInstrumentedStoreUpdateFailureNotNotified(t *testing.T) {
	inner, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	counts := map[string]int{}
	store := NewInstrumentedStore(inner, func(key string) { counts[key]++ })

	wantErr := errors.New("更新失敗")
	err = store.Update(context.Background(), KeyItems, func(doc []byte) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update() error = %v, 期待値 %v", err, wantErr)
	}

	if len(counts) != 0 {
		t.Errorf("通知回数 = %v, 期待値 空", counts)
	}
}

// TestInstrumentedStoreUpdateManyNotifiesAllKeys はUpdateManyが全対象キーを通知することを確認する
func TestInstrumentedStoreUpdateManyNotifiesAllKeys(t *testing.T) {
	inner, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	counts := map[string]int{}
	store := NewInstrumentedStore(inner, func(key string) { counts[key]++ })

	keys := []string{KeyCollections, KeyPlans}
	err = store.UpdateMany(context.Background(), keys, func(docs map[string][]byte) (map[string][]byte, error) {
		return map[string][]byte{
			KeyCollections: []byte(`[]`),
			KeyPlans:       []byte(`{}`),
		}, nil
	})
	if err != nil {
		t.Fatalf("UpdateMany() error = %v", err)
	}

	if counts[KeyCollections] != 1 || counts[KeyPlans] != 1 {
		t.Errorf("counts = %v, 期待値 各キー1回", counts)
	}
}

// TestInstrumentedStoreNilObserver はオブザーバーなしでも動作することを確認する
func TestInstrumentedStoreNilObserver(t *testing.T) {
	inner, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	store := NewInstrumentedStore(inner, nil)
	ctx := context.Background()

	err = store.Update(ctx, KeyBoard, func(doc []byte) ([]byte, error) {
		return []byte(`[]`), nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	doc, err := store.Load(ctx, KeyBoard)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(doc) != `[]` {
		t.Errorf("Load() = %s, 期待値 []", doc)
	}
}
