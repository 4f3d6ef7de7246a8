package memory_test

import (
	"testing"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.RunDocumentStoreContract(t, memory.NewStore())
}
