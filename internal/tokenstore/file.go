package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// File persists tokens in a YAML credentials file, one slot per profile.
// Other profiles in the same file are left untouched on write.
type File struct {
	mu      sync.Mutex
	path    string
	profile string
}

type credentialsFile struct {
	Profiles map[string]*profileEntry `yaml:"profiles"`
}

type profileEntry struct {
	Token   string    `yaml:"token"`
	SavedAt time.Time `yaml:"saved_at"`
}

// NewFile returns a store backed by the YAML file at path.
func NewFile(path, profile string) *File {
	return &File{path: path, profile: profile}
}

// Path returns the credentials file location.
func (f *File) Path() string { return f.path }

func (f *File) Load(_ context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := f.read()
	if err != nil {
		return "", false, err
	}
	entry, ok := creds.Profiles[f.profile]
	if !ok || entry.Token == "" {
		return "", false, nil
	}
	return entry.Token, true, nil
}

func (f *File) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := f.read()
	if err != nil {
		return err
	}
	creds.Profiles[f.profile] = &profileEntry{
		Token:   token,
		SavedAt: time.Now().UTC(),
	}
	return f.write(creds)
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := creds.Profiles[f.profile]; !ok {
		return nil
	}
	delete(creds.Profiles, f.profile)
	return f.write(creds)
}

func (f *File) Backend() string { return BackendFile }

func (f *File) Close() error { return nil }

func (f *File) read() (*credentialsFile, error) {
	creds := &credentialsFile{Profiles: make(map[string]*profileEntry)}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return creds, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	if err := yaml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", f.path, err)
	}
	if creds.Profiles == nil {
		creds.Profiles = make(map[string]*profileEntry)
	}
	return creds, nil
}

// write replaces the file atomically so a crash never leaves half a token behind.
func (f *File) write(creds *credentialsFile) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return os.Rename(tmp, f.path)
}
