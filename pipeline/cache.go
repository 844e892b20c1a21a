package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Key identifies a pass result by pass name and input.
type Key [sha256.Size]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Cache stores pass results by key.
type Cache interface {
	Get(key Key) (Result, bool, error)
	Put(key Key, r Result) error
}

// Current schema version - increment when cacheEntry changes.
const cacheSchemaVersion uint16 = 1

type cacheEntry struct {
	Schema uint16
	Result Result
}

// DiskCache stores msgpack-encoded pass results under a directory.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache creates dir if needed and returns a cache over it.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Key) string {
	return filepath.Join(c.dir, "passes", key.String()+".mp")
}

// Put writes r under key, replacing any previous entry atomically.
func (c *DiskCache) Put(key Key, r Result) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck // gone after a successful rename

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&cacheEntry{Schema: cacheSchemaVersion, Result: r}); err != nil {
		f.Close() //nolint:errcheck,gosec // the encode error is reported
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the entry stored under key. A missing entry or one written
// with an older schema is a miss.
func (c *DiskCache) Get(key Key) (Result, bool, error) {
	if c == nil {
		return Result{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, false, nil
		}
		return Result{}, false, err
	}
	defer f.Close()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return Result{}, false, err
	}
	if entry.Schema != cacheSchemaVersion {
		return Result{}, false, nil
	}
	return entry.Result, true, nil
}

// Clear removes every cached entry.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "passes"))
}

// KeyFor hashes the pass name, the input bytes and the msgpack encoding of
// the input reflection.
func KeyFor(pass string, in Result) (Key, error) {
	var refl bytes.Buffer
	enc := msgpack.NewEncoder(&refl)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&in.Reflection); err != nil {
		return Key{}, err
	}

	h := sha256.New()
	h.Write([]byte(pass))
	h.Write([]byte{0})
	h.Write(in.ByteStream)
	h.Write([]byte{0})
	h.Write(refl.Bytes())

	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}

type cachedPass struct {
	pass  Pass
	cache Cache
}

// Cached memoizes pass in cache. Cache failures are logged and fall back
// to running the pass.
func Cached(pass Pass, cache Cache) Pass {
	if cache == nil {
		return pass
	}
	return &cachedPass{pass: pass, cache: cache}
}

func (p *cachedPass) Name() string { return p.pass.Name() }

func (p *cachedPass) Run(ctx context.Context, in Result) (Result, error) {
	key, err := KeyFor(p.pass.Name(), in)
	if err != nil {
		return p.pass.Run(ctx, in)
	}
	if r, ok, err := p.cache.Get(key); err != nil {
		Logger().Warn("pass cache read failed",
			zap.String("pass", p.pass.Name()),
			zap.Stringer("key", key),
			zap.Error(err))
	} else if ok {
		Logger().Debug("pass cache hit", zap.String("pass", p.pass.Name()), zap.Stringer("key", key))
		return r, nil
	}

	out, err := p.pass.Run(ctx, in)
	if err != nil {
		return out, err
	}
	if len(out.ByteStream) > 0 {
		if err := p.cache.Put(key, out); err != nil {
			Logger().Warn("pass cache write failed",
				zap.String("pass", p.pass.Name()),
				zap.Stringer("key", key),
				zap.Error(err))
		}
	}
	return out, nil
}
