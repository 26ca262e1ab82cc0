package client

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// Session คือ auth state ที่ส่งต่อกันแบบ explicit (ไม่ใช้ global)
// lifecycle: โหลดจาก Store ตอนสร้าง client → เคลียร์ตอน logout หรือเจอ 401
type Session struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s Session) Valid() bool { return s.Token != "" }

// Store เก็บ session ข้ามการรันโปรแกรม (ฝั่งเบราว์เซอร์คือ localStorage)
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemoryStore สำหรับเทสและกรณีไม่อยาก persist
type MemoryStore struct {
	mu sync.Mutex
	s  Session
	ok bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return Session{}, nil
	}
	return m.s, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.ok = s, true
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.ok = Session{}, false
	return nil
}

// FileStore เก็บ session เป็นไฟล์ JSON (ใช้กับ CLI)
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (f *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (f *FileStore) Save(s Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
