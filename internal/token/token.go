// Package token реализует долговременное хранилище пары токенов сессии.
//
// Пара accessToken/refreshToken — единственное состояние, переживающее
// перезапуск процесса. Хранилище передаётся в менеджер сессии как явная
// зависимость, чтобы тесты могли подставить реализацию в памяти.
package token

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Pair содержит пару токенов сессии. Пустые значения означают отсутствие токена.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty сообщает, отсутствуют ли оба токена.
func (p Pair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Storage описывает контракт долговременного хранилища токенов.
// Оба токена записываются и удаляются только вместе.
type Storage interface {
	Save(pair Pair) error
	Load() (Pair, error)
	Clear() error
}

// FileStorage хранит пару токенов в JSON-файле. Запись выполняется во
// временный файл с последующим переименованием, чтобы перезапуск процесса
// никогда не увидел частично записанное состояние.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage создаёт файловое хранилище токенов по указанному пути.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Save записывает пару токенов на диск.
func (s *FileStorage) Save(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename tokens: %w", err)
	}
	return nil
}

// Load читает пару токенов с диска. Отсутствие файла не является ошибкой:
// возвращается пустая пара.
func (s *FileStorage) Load() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Pair{}, nil
		}
		return Pair{}, fmt.Errorf("read tokens: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return Pair{}, fmt.Errorf("unmarshal tokens: %w", err)
	}
	return pair, nil
}

// Clear удаляет сохранённую пару токенов.
func (s *FileStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

// MemoryStorage хранит пару токенов в памяти процесса. Используется в тестах.
type MemoryStorage struct {
	mu   sync.Mutex
	pair Pair
}

// NewMemoryStorage создаёт пустое хранилище токенов в памяти.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Save запоминает пару токенов.
func (s *MemoryStorage) Save(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

// Load возвращает текущую пару токенов.
func (s *MemoryStorage) Load() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, nil
}

// Clear стирает пару токенов.
func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = Pair{}
	return nil
}
