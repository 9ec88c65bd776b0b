package amalgamator

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
)

const (
	cacheFileSuffix    = ".cache"
	memoryCacheEntries = 1024
	defaultCacheMaxAge = 7 * 24 * time.Hour
)

// CacheEntry is the stripped form of one source file together with the
// metadata used to tell whether the source changed since it was cached.
type CacheEntry struct {
	SourcePath string
	Variant    string
	Stripped   string
	Checksum   uint64
	Timestamp  time.Time
	FileSize   int64
	ModTime    time.Time
}

// FileCache stores cache entries as gob files, one per source file and variant.
type FileCache struct {
	cacheDir string
	mutex    sync.RWMutex
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	LastResetTime time.Time
	mutex         sync.RWMutex
}

// CacheManager keeps stripped sources in memory and on disk so repeated
// runs over an unchanged tree skip the stripping pass.
type CacheManager struct {
	fileCache *FileCache
	memory    *lru.Cache[string, CacheEntry]
	stats     *CacheStats
}

// NewCacheManager creates a new cache manager instance.
// If cacheDir is empty, it defaults to ".cache" in the current working directory.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cacheDir = filepath.Join(cwd, ".cache")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	memory, err := lru.New[string, CacheEntry](memoryCacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	cacheManager := &CacheManager{
		fileCache: &FileCache{cacheDir: cacheDir},
		memory:    memory,
		stats: &CacheStats{
			LastResetTime: time.Now(),
		},
	}

	if err := cacheManager.CleanExpiredCache(defaultCacheMaxAge); err != nil {
		return nil, err
	}

	return cacheManager, nil
}

// generateCacheKey creates a unique cache key for a source file and variant
func generateCacheKey(filePath string, variant string) string {
	return fmt.Sprintf("%016x%s", xxh3.HashString(filePath+"\x00"+variant), cacheFileSuffix)
}

func (fc *FileCache) getCachePath(cacheKey string) string {
	return filepath.Join(fc.cacheDir, cacheKey)
}

// isFileChanged checks if a file has been modified since it was cached
func isFileChanged(filePath string, entry *CacheEntry) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return true, err
	}

	if !fileInfo.ModTime().Equal(entry.ModTime) || fileInfo.Size() != entry.FileSize {
		return true, nil
	}

	return false, nil
}

// Get returns the entry cached for filePath if it is still valid.
func (fc *FileCache) Get(filePath string, variant string) (*CacheEntry, bool) {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()

	cachePath := fc.getCachePath(generateCacheKey(filePath, variant))

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	entry, err := decodeEntry(data)
	if err != nil || entry.SourcePath != filePath || entry.Variant != variant {
		return nil, false
	}

	if xxh3.HashString(entry.Stripped) != entry.Checksum {
		os.Remove(cachePath)
		return nil, false
	}

	changed, err := isFileChanged(filePath, entry)
	if err != nil || changed {
		os.Remove(cachePath)
		return nil, false
	}

	return entry, true
}

// Set stores entry, stamping it with the current metadata of its source file.
func (fc *FileCache) Set(entry *CacheEntry) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	cachePath := fc.getCachePath(generateCacheKey(entry.SourcePath, entry.Variant))
	if err := os.WriteFile(cachePath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

func decodeEntry(data []byte) (*CacheEntry, error) {
	var entry CacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetStrippedCache returns the cached stripped text of filePath.
func (cm *CacheManager) GetStrippedCache(filePath string, variant string) (string, bool) {
	memoryKey := filePath + "\x00" + variant

	if entry, ok := cm.memory.Get(memoryKey); ok {
		if changed, err := isFileChanged(filePath, &entry); err == nil && !changed {
			cm.recordCacheHit()
			return entry.Stripped, true
		}
		cm.memory.Remove(memoryKey)
	}

	entry, found := cm.fileCache.Get(filePath, variant)
	if !found {
		cm.recordCacheMiss()
		return "", false
	}

	cm.memory.Add(memoryKey, *entry)
	cm.recordCacheHit()
	return entry.Stripped, true
}

// SetStrippedCache stores the stripped text of filePath in both tiers.
func (cm *CacheManager) SetStrippedCache(filePath string, variant string, stripped string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	entry := CacheEntry{
		SourcePath: filePath,
		Variant:    variant,
		Stripped:   stripped,
		Checksum:   xxh3.HashString(stripped),
		Timestamp:  time.Now(),
		FileSize:   fileInfo.Size(),
		ModTime:    fileInfo.ModTime(),
	}

	cm.memory.Add(filePath+"\x00"+variant, entry)
	return cm.fileCache.Set(&entry)
}

// GetCacheStats returns cache statistics
func (cm *CacheManager) GetCacheStats() (map[string]interface{}, error) {
	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var totalSize int64
	var cacheFiles int
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), cacheFileSuffix) {
			continue
		}
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		cacheFiles++
		totalSize += info.Size()
	}

	stats := cm.GetPerformanceStats()
	stats["cache_enabled"] = true
	stats["cache_files"] = cacheFiles
	stats["memory_entries"] = cm.memory.Len()
	stats["total_size"] = totalSize
	stats["cache_dir"] = cm.fileCache.cacheDir

	return stats, nil
}

// CleanExpiredCache removes cache entries older than maxAge
func (cm *CacheManager) CleanExpiredCache(maxAge time.Duration) error {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), cacheFileSuffix) {
			continue
		}

		cachePath := filepath.Join(cm.fileCache.cacheDir, dirEntry.Name())
		data, err := os.ReadFile(cachePath)
		if err != nil {
			continue
		}

		entry, err := decodeEntry(data)
		if err != nil || entry.Timestamp.Before(cutoff) {
			os.Remove(cachePath)
		}
	}

	return nil
}

// ClearCache removes every cache entry from both tiers and resets the counters
func (cm *CacheManager) ClearCache() error {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	cm.memory.Purge()
	cm.ResetPerformanceStats()

	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), cacheFileSuffix) {
			continue
		}
		cachePath := filepath.Join(cm.fileCache.cacheDir, dirEntry.Name())
		if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete cache file %s: %w", dirEntry.Name(), err)
		}
	}

	return nil
}
