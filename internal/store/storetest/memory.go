// Package storetest provides in-memory stand-ins for the SQLite store.
package storetest

import (
	"context"
	"sync"

	"github.com/verte-zerg/zodis/internal/model"
)

// KV is an in-memory key-value store. Set GetErr or SetErr to inject failures.
type KV struct {
	mu     sync.Mutex
	data   map[string]string
	GetErr error
	SetErr error
	Sets   int
}

// NewKV returns an empty KV.
func NewKV() *KV {
	return &KV{data: map[string]string{}}
}

// Get implements the persistence port.
func (k *KV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.GetErr != nil {
		return "", false, k.GetErr
	}
	v, ok := k.data[key]
	return v, ok, nil
}

// Set implements the persistence port.
func (k *KV) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.SetErr != nil {
		return k.SetErr
	}
	k.data[key] = value
	k.Sets++
	return nil
}

// Delete implements the persistence port.
func (k *KV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.SetErr != nil {
		return k.SetErr
	}
	delete(k.data, key)
	return nil
}

// Raw returns the stored value for key without error injection.
func (k *KV) Raw(key string) (string, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.data[key]
	return v, ok
}

// Put stores value for key without error injection.
func (k *KV) Put(key, value string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = value
}

// AudioStore is an in-memory audio table with first-writer-wins inserts.
type AudioStore struct {
	mu      sync.Mutex
	entries map[string]model.AudioEntry
	Err     error
}

// NewAudioStore returns an empty AudioStore.
func NewAudioStore() *AudioStore {
	return &AudioStore{entries: map[string]model.AudioEntry{}}
}

// HasAudio implements the audio storage port.
func (a *AudioStore) HasAudio(_ context.Context, word string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return false, a.Err
	}
	_, ok := a.entries[word]
	return ok, nil
}

// GetAudio implements the audio storage port.
func (a *AudioStore) GetAudio(_ context.Context, word string) (model.AudioEntry, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return model.AudioEntry{}, false, a.Err
	}
	e, ok := a.entries[word]
	return e, ok, nil
}

// InsertAudio implements the audio storage port.
func (a *AudioStore) InsertAudio(_ context.Context, entry model.AudioEntry) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return false, a.Err
	}
	if _, ok := a.entries[entry.Word]; ok {
		return false, nil
	}
	a.entries[entry.Word] = entry
	return true, nil
}

// AudioStats implements the audio storage port.
func (a *AudioStore) AudioStats(_ context.Context) (model.AudioStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return model.AudioStats{}, a.Err
	}
	var stats model.AudioStats
	for _, e := range a.entries {
		stats.Entries++
		stats.TotalBytes += int64(len(e.Audio))
		if stats.Oldest.IsZero() || e.CreatedAt.Before(stats.Oldest) {
			stats.Oldest = e.CreatedAt
		}
		if e.CreatedAt.After(stats.Newest) {
			stats.Newest = e.CreatedAt
		}
	}
	return stats, nil
}

// Len returns the number of stored entries.
func (a *AudioStore) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
