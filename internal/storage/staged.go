package storage

import "context"

type change struct {
	data    []byte
	deleted bool
}

// stagedTx buffers writes on top of a read function so that drivers can apply
// them in a single commit step.
type stagedTx struct {
	read    func(ctx context.Context, name Collection) ([]byte, error)
	changes map[Collection]change
}

func newStagedTx(read func(ctx context.Context, name Collection) ([]byte, error)) *stagedTx {
	return &stagedTx{read: read, changes: make(map[Collection]change)}
}

func (t *stagedTx) LoadCollection(ctx context.Context, name Collection) ([]byte, error) {
	if ch, ok := t.changes[name]; ok {
		if ch.deleted {
			return nil, nil
		}
		return cloneBytes(ch.data), nil
	}
	return t.read(ctx, name)
}

func (t *stagedTx) SaveCollection(_ context.Context, name Collection, data []byte) error {
	t.changes[name] = change{data: cloneBytes(data)}
	return nil
}

func (t *stagedTx) DeleteCollection(_ context.Context, names ...Collection) error {
	for _, name := range names {
		t.changes[name] = change{deleted: true}
	}
	return nil
}

func (t *stagedTx) empty() bool {
	return len(t.changes) == 0
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
