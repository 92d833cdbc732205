package memory_test

import (
	"testing"

	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/memory"
	"github.com/oxygn-cloud-ai/cascade/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunResultStoreContract(t, store)
}
