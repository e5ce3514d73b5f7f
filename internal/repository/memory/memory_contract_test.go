package memory

import (
	"testing"

	"github.com/maxviazov/coursehub-service/internal/repository"
	"github.com/maxviazov/coursehub-service/internal/repository/contract"
)

func makeStore(t *testing.T) (repository.Store, func()) {
	return NewStore(Open()), func() {}
}

func TestStore_MemoryContract(t *testing.T) {
	contract.RunAll(t, makeStore)
}
