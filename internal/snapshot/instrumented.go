package snapshot

import "context"

// MutationObserver は変更操作の完了をストアキーとともに通知するコールバック。
type MutationObserver func(store string)

// InstrumentedStore は変更操作の成功をオブザーバーへ通知するStoreデコレータ。
// 読み取り（Load/Ping）は通知しない。
type InstrumentedStore struct {
	inner   Store
	observe MutationObserver
}

// NewInstrumentedStore はinnerをラップしたInstrumentedStoreを生成する。
// observeがnilの場合は素通しのラッパーとして動作する。
func NewInstrumentedStore(inner Store, observe MutationObserver) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, observe: observe}
}

func (s *InstrumentedStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Load(ctx, key)
}

// Update は変更が成功した場合のみキーを通知する。
func (s *InstrumentedStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := s.inner.Update(ctx, key, fn); err != nil {
		return err
	}
	s.notify(key)
	return nil
}

// UpdateMany は変更が成功した場合、対象の全キーを通知する。
func (s *InstrumentedStore) UpdateMany(ctx context.Context, keys []string, fn UpdateManyFunc) error {
	if err := s.inner.UpdateMany(ctx, keys, fn); err != nil {
		return err
	}
	for _, key := range keys {
		s.notify(key)
	}
	return nil
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}

func (s *InstrumentedStore) notify(key string) {
	if s.observe == nil {
		return
	}
	s.observe(key)
}
