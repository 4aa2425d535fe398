package badger

import "github.com/poiesic/termstd/storage"

// NewMemoryRepositories creates in-memory term and history repositories for testing.
// Returns termRepo, historyRepo, backend, and error.
// Caller must close both repos and backend when done.
func NewMemoryRepositories(opts ...HistoryOption) (storage.TermRepository, storage.HistoryRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	termRepo, err := NewTermRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	historyRepo, err := NewHistoryRepository(backend, opts...)
	if err != nil {
		termRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return termRepo, historyRepo, backend, nil
}
