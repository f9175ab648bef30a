package owner_test

import (
	"testing"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/owner"
	"github.com/stretchr/testify/assert"
)

func TestResolver(t *testing.T) {
	r := owner.NewResolver(config.Responsibility{
		DefaultOwner:  "admin",
		ServiceOwners: map[string]string{"orders": "alice", "blank": ""},
		ChatIDs:       map[string]string{"alice": "ou_alice"},
	})

	assert.Equal(t, "alice", r.OwnerFor("orders"))
	assert.Equal(t, "admin", r.OwnerFor("payments"))
	assert.Equal(t, "admin", r.OwnerFor("blank"))
	assert.Equal(t, "ou_alice", r.ChatIDFor("alice"))
	assert.Equal(t, "", r.ChatIDFor("admin"))
}
