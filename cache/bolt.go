package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/utils"

	log "github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var documentsBucket = []byte("documents")

const backupExt = ".db"

// Entry is one stored value as it sits on disk.
type Entry struct {
	Value      string    `json:"value"`
	Compressed bool      `json:"compressed,omitempty"`
	StoredAt   time.Time `json:"storedAt"`
}

// BoltCache is the local cache tier: a bolt file mirrored into memory.
// Values are optionally gzip-compressed on the way in.
type BoltCache struct {
	mu         sync.RWMutex // guards db across backup and restore
	db         *bolt.DB
	mem        sync.Map // key -> Entry
	dbPath     string
	backupPath string
	compress   bool
}

// OpenBoltCache opens or creates the cache file at dbPath and preloads it.
func OpenBoltCache(dbPath, backupPath string, compress bool) (*BoltCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	bc := &BoltCache{dbPath: dbPath, backupPath: backupPath, compress: compress}
	if err := bc.open(); err != nil {
		return nil, err
	}
	log.Infof("%s Opened %s (compression: %v, backups: %s)", logcolors.LogCacheInit, dbPath, compress, backupPath)
	return bc, nil
}

// open must be called with mu held for writing, or before bc is shared.
func (bc *BoltCache) open() error {
	db, err := bolt.Open(bc.dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("open cache database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("create documents bucket: %w", err)
	}
	bc.db = db
	bc.mem.Range(func(k, _ any) bool {
		bc.mem.Delete(k)
		return true
	})
	return bc.preload()
}

func (bc *BoltCache) preload() error {
	count := 0
	err := bc.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				log.Warnf("%s Skipping unreadable entry %s: %v", logcolors.LogCache, k, err)
				return nil
			}
			bc.mem.Store(string(k), e)
			count++
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}
	log.Infof("%s Loaded %d entries into memory", logcolors.LogCache, count)
	return nil
}

func (bc *BoltCache) Name() string { return "bolt" }

// Get looks in memory first, then on disk.
func (bc *BoltCache) Get(_ context.Context, key string) (string, bool, error) {
	if v, ok := bc.mem.Load(key); ok {
		return bc.decode(key, v.(Entry))
	}

	bc.mu.RLock()
	defer bc.mu.RUnlock()

	var e Entry
	found := false
	err := bc.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(documentsBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return "", false, nil
	}
	bc.mem.Store(key, e)
	return bc.decode(key, e)
}

func (bc *BoltCache) decode(key string, e Entry) (string, bool, error) {
	if !e.Compressed {
		return e.Value, true, nil
	}
	v, err := utils.DecompressString(e.Value)
	if err != nil {
		return "", false, fmt.Errorf("decompress %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes through to memory and disk.
func (bc *BoltCache) Set(_ context.Context, key, value string) error {
	e := Entry{Value: value, StoredAt: time.Now().UTC()}
	if bc.compress {
		packed, err := utils.CompressString(value)
		if err != nil {
			return fmt.Errorf("compress %s: %w", key, err)
		}
		e.Value, e.Compressed = packed, true
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	bc.mu.RLock()
	defer bc.mu.RUnlock()
	err = bc.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	bc.mem.Store(key, e)
	return nil
}

func (bc *BoltCache) Delete(_ context.Context, key string) error {
	bc.mem.Delete(key)

	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(documentsBucket).Delete([]byte(key))
	})
}

// Clear drops every entry.
func (bc *BoltCache) Clear() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	err := bc.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(documentsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(documentsBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	bc.mem.Range(func(k, _ any) bool {
		bc.mem.Delete(k)
		return true
	})
	log.Infof("%s Cache cleared", logcolors.LogCacheClear)
	return nil
}

// Range calls fn for each entry in memory until fn returns false.
func (bc *BoltCache) Range(fn func(key string, e Entry) bool) {
	bc.mem.Range(func(k, v any) bool {
		return fn(k.(string), v.(Entry))
	})
}

// Stats reports the entry count and the stored size in bytes.
type Stats struct {
	Entries   int `json:"entries"`
	SizeBytes int `json:"sizeBytes"`
}

func (bc *BoltCache) Stats() Stats {
	var s Stats
	bc.Range(func(key string, e Entry) bool {
		s.Entries++
		s.SizeBytes += len(key) + len(e.Value)
		return true
	})
	return s
}

// Backup writes a consistent copy of the database into the backup
// directory and returns its path. Readers and writers keep running.
func (bc *BoltCache) Backup() (string, error) {
	name := fmt.Sprintf("documents_%s%s", time.Now().Format("2006-01-02_15-04-05.000"), backupExt)
	path := filepath.Join(bc.backupPath, name)

	bc.mu.RLock()
	defer bc.mu.RUnlock()
	err := bc.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(path, 0600)
	})
	if err != nil {
		return "", fmt.Errorf("backup to %s: %w", path, err)
	}
	log.Infof("%s Backup written to %s", logcolors.LogCacheBackup, path)
	return path, nil
}

// BackupAndClear backs up and then empties the cache.
func (bc *BoltCache) BackupAndClear() (string, error) {
	path, err := bc.Backup()
	if err != nil {
		return "", err
	}
	if err := bc.Clear(); err != nil {
		return path, fmt.Errorf("backup %s created but clear failed: %w", path, err)
	}
	return path, nil
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	FileName  string    `json:"fileName"`
	Size      int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListBackups returns the backups newest first.
func (bc *BoltCache) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bc.backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != backupExt {
			continue
		}
		info, err := de.Info()
		if err != nil {
			log.Warnf("%s Cannot stat %s: %v", logcolors.LogCacheBackups, de.Name(), err)
			continue
		}
		backups = append(backups, BackupInfo{FileName: de.Name(), Size: info.Size(), CreatedAt: info.ModTime()})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

func (bc *BoltCache) backupFile(name string) (string, error) {
	if name != filepath.Base(name) || filepath.Ext(name) != backupExt {
		return "", fmt.Errorf("invalid backup name %q", name)
	}
	path := filepath.Join(bc.backupPath, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup %s: %w", name, ErrNotFound)
	}
	return path, nil
}

// Restore replaces the live database with a named backup. The previous file
// is kept until the restored one opens cleanly.
func (bc *BoltCache) Restore(name string) error {
	src, err := bc.backupFile(name)
	if err != nil {
		return err
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if err := bc.db.Close(); err != nil {
		return fmt.Errorf("close for restore: %w", err)
	}
	previous := bc.dbPath + ".pre-restore"
	if err := os.Rename(bc.dbPath, previous); err != nil {
		if reopenErr := bc.open(); reopenErr != nil {
			log.Errorf("%s Reopen after failed restore: %v", logcolors.LogCacheRestore, reopenErr)
		}
		return fmt.Errorf("set aside current database: %w", err)
	}
	if err := copyFile(src, bc.dbPath); err != nil {
		os.Rename(previous, bc.dbPath)
		if reopenErr := bc.open(); reopenErr != nil {
			log.Errorf("%s Reopen after failed restore: %v", logcolors.LogCacheRestore, reopenErr)
		}
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := bc.open(); err != nil {
		return err
	}
	os.Remove(previous)

	log.Infof("%s Restored from %s", logcolors.LogCacheRestore, name)
	return nil
}

// DeleteBackup removes a named backup file.
func (bc *BoltCache) DeleteBackup(name string) error {
	path, err := bc.backupFile(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete backup %s: %w", name, err)
	}
	log.Infof("%s Deleted backup %s", logcolors.LogCacheBackups, name)
	return nil
}

func (bc *BoltCache) Close() error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.db == nil {
		return nil
	}
	err := bc.db.Close()
	bc.db = nil
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
