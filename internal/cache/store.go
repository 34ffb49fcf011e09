package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

// Cipher 是可选的加解密中间层，Store 不关心具体算法，任何错误都按 I/O 失败处理。
type Cipher interface {
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
}

// Options 控制 Store 的可选依赖，零值即可使用。
type Options struct {
	// Cipher 为空时明文落盘。
	Cipher Cipher
	// Logger 为空时使用 logrus 标准 logger。
	Logger logrus.FieldLogger
	// Now 为空时使用 time.Now，测试可注入固定时钟。
	Now func() time.Time
}

// ErrInvalidKey 表示 key 为空或不能作为单个文件名使用。
var ErrInvalidKey = errors.New("invalid cache key")

// Store 管理一个根目录下成对的 .data/.config 文件，以及内存索引和总量计数。
//
// 总量计数只在持有 mu 时随索引增删一起调整，因此始终等于索引中记录的大小之和与条目数。
// 同一 key 的并发 Put 不做互斥：最后一次写入的数据文件生效，元数据可能与之不一致。
type Store struct {
	root   string
	cipher Cipher
	logger logrus.FieldLogger
	now    func() time.Time

	size  atomic.Int64
	count atomic.Int64

	mu    sync.RWMutex
	index map[string]slot
	loads singleflight.Group

	tasks sync.WaitGroup
}

// New 以 root 为根目录创建 Store，并在后台把已有条目载入索引。
// 返回时扫描可能尚未完成，EntryCount/TotalBytes 会随扫描逐步增长。
func New(root string, opts Options) (*Store, error) {
	if root == "" {
		return nil, errors.New("cache root required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve cache root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}

	s := &Store{
		root:   abs,
		cipher: opts.Cipher,
		logger: opts.Logger,
		now:    opts.Now,
		index:  make(map[string]slot),
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.spawn(s.scan)
	return s, nil
}

// Root 返回缓存根目录的绝对路径。
func (s *Store) Root() string {
	return s.root
}

// EntryCount 返回当前条目总数。
func (s *Store) EntryCount() int64 {
	return s.count.Load()
}

// TotalBytes 返回所有数据文件的总字节数。
func (s *Store) TotalBytes() int64 {
	return s.size.Load()
}

// Wait 阻塞直到已派发的后台任务（启动扫描、批量清理）全部结束。
// 普通读写不会等待后台任务，调用方需要顺序保证时自行调用。
func (s *Store) Wait() {
	s.tasks.Wait()
}

// spawn 启动一个无返回通道的后台任务。
func (s *Store) spawn(task func()) {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		task()
	}()
}

// Entry 返回 key 的元数据，必要时从 .config 懒加载。
func (s *Store) Entry(key string) (Entry, bool) {
	return s.lookup(key)
}

// EntrySize 返回 key 数据文件当前的字节数（加密后的大小），不存在时为 0。
func (s *Store) EntrySize(key string) int64 {
	if validateKey(key) != nil {
		return 0
	}
	return s.dataFileSize(key)
}

// AllEntries 返回内存索引的快照，按 key 排序。
func (s *Store) AllEntries() []Entry {
	return s.snapshot(func(Entry) bool { return true })
}

// PermanentEntries 返回所有永久条目的快照，按 key 排序。
func (s *Store) PermanentEntries() []Entry {
	return s.snapshot(Entry.IsPermanent)
}

func (s *Store) snapshot(keep func(Entry) bool) []Entry {
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.index))
	for _, sl := range s.index {
		if keep(sl.Entry) {
			entries = append(entries, sl.Entry)
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func (s *Store) keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.index))
	for k := range s.index {
		keys = append(keys, k)
	}
	return keys
}

// lookup 先查内存索引，未命中时读取 .config；同一 key 的并发加载合并为一次。
func (s *Store) lookup(key string) (Entry, bool) {
	if validateKey(key) != nil {
		return Entry{}, false
	}

	s.mu.RLock()
	sl, ok := s.index[key]
	s.mu.RUnlock()
	if ok {
		return sl.Entry, true
	}

	v, err, _ := s.loads.Do(key, func() (interface{}, error) {
		loaded, err := s.readEntry(key)
		if err != nil {
			return nil, err
		}
		loaded.Key = strings.Clone(key)
		size := s.dataFileSize(key)

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.index[loaded.Key]; ok {
			return existing.Entry, nil
		}
		s.index[loaded.Key] = slot{Entry: loaded, size: size}
		s.size.Add(size)
		s.count.Inc()
		return loaded, nil
	})
	if err != nil {
		if !errors.Is(err, errEntryAbsent) {
			s.logger.WithFields(logrus.Fields{
				"action": "cache_load_config",
				"key":    key,
			}).WithError(err).Warn("read cache config failed")
		}
		return Entry{}, false
	}
	return v.(Entry), true
}

var errEntryAbsent = errors.New("cache entry absent")

// readEntry 只有在 .data 与 .config 同时存在时才解析元数据。
func (s *Store) readEntry(key string) (Entry, error) {
	if !s.hasFiles(key) {
		return Entry{}, errEntryAbsent
	}
	raw, err := os.ReadFile(s.configPath(key))
	if err != nil {
		return Entry{}, err
	}
	entry, err := parseEntry(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("parse %s: %w", key+configExt, err)
	}
	return entry, nil
}

// slot 是索引中的一项，size 为计入 TotalBytes 的数据文件大小。
type slot struct {
	Entry
	size int64
}

// storeEntry 写入或替换索引项，并按记录的大小差调整总量。
func (s *Store) storeEntry(entry Entry, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.index[entry.Key]; ok {
		s.size.Add(size - old.size)
	} else {
		s.size.Add(size)
		s.count.Inc()
	}
	s.index[entry.Key] = slot{Entry: entry, size: size}
}

// evict 移除索引项并扣减总量；key 已不在索引中时返回 false，保证同一条目只扣减一次。
func (s *Store) evict(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.index[key]
	if !ok {
		return false
	}
	delete(s.index, key)
	s.size.Sub(old.size)
	s.count.Dec()
	return true
}

func (s *Store) fail(action, key string, err error) {
	s.logger.WithFields(logrus.Fields{
		"action": action,
		"key":    key,
	}).WithError(err).Error("cache operation failed")
}
