// Package storage — встроенный кэш готовых растров на BadgerDB.
// Генерация детерминирована, поэтому кэшировать безопасно: одинаковые
// параметры всегда дают байт-в-байт одинаковый растр.
package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/texgen/internal/noise"
	"github.com/annel0/texgen/internal/raster"
)

// TextureCache хранит сжатые растры по хэшу параметров генерации.
type TextureCache struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewTextureCache открывает (или создаёт) кэш в каталоге dataPath.
func NewTextureCache(dataPath string) (*TextureCache, error) {
	dbPath := filepath.Join(dataPath, "textures")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &TextureCache{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

// Key строит ключ кэша из канонического представления параметров.
// Формат строки фиксирован: смена формата инвалидирует весь кэш.
func Key(p noise.Params) []byte {
	s := fmt.Sprintf("%dx%d/o%d/a%.17g/s%016x:%016x",
		p.Width, p.Height, p.Octaves, p.Attenuation, p.SeedLo, p.SeedHi)

	var key [8]byte
	binary.BigEndian.PutUint64(key[:], xxhash.Sum64String(s))
	return key[:]
}

// Get возвращает растр по ключу; второй результат — признак попадания.
func (tc *TextureCache) Get(key []byte) ([]byte, bool, error) {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	if !tc.isReady {
		return nil, false, fmt.Errorf("кэш закрыт")
	}

	var compressed []byte
	err := tc.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из кэша: %w", err)
	}

	buf, err := raster.DecodeRawGzip(bytes.NewReader(compressed))
	if err != nil {
		return nil, false, fmt.Errorf("повреждённая запись кэша: %w", err)
	}
	return buf, true, nil
}

// Put сохраняет растр под ключом, сжимая его gzip.
func (tc *TextureCache) Put(key []byte, buf []byte) error {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	if !tc.isReady {
		return fmt.Errorf("кэш закрыт")
	}

	var compressed bytes.Buffer
	if err := raster.EncodeRawGzip(&compressed, buf); err != nil {
		return fmt.Errorf("ошибка сжатия растра: %w", err)
	}

	err := tc.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, compressed.Bytes())
	})
	if err != nil {
		return fmt.Errorf("ошибка записи в кэш: %w", err)
	}
	return nil
}

// Close закрывает хранилище.
func (tc *TextureCache) Close() error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if !tc.isReady {
		return nil
	}
	tc.isReady = false
	return tc.db.Close()
}
