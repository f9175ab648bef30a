package fingerprint_test

import (
	"testing"

	"github.com/Egor213/ExceptionSieve/internal/fingerprint"
	"github.com/stretchr/testify/assert"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := fingerprint.Generate("java.sql.SQLException", "com.acme.OrderRepo.save:42")
	b := fingerprint.Generate("java.sql.SQLException", "com.acme.OrderRepo.save:42")

	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, fingerprint.Generate("java.sql.SQLException", "com.acme.OrderRepo.save:43"))
	assert.NotEqual(t, a, fingerprint.Generate("java.io.IOException", "com.acme.OrderRepo.save:42"))
}

func TestGenerate_KnownValue(t *testing.T) {
	// md5 of the empty type and location joined by ':'.
	assert.Equal(t, "853ae90f0351324bd73ea615e6487517", fingerprint.Generate("", ""))
	assert.Equal(t, "be393f2130fe720b0144600772c96950", fingerprint.Generate("java.sql.SQLException", "com.acme.OrderRepo.save:42"))
}

func TestLocationHelpers(t *testing.T) {
	testCases := []struct {
		name     string
		location string
		class    string
		method   string
	}{
		{
			name:     "java style",
			location: "com.acme.OrderService.create:17",
			class:    "com.acme.OrderService",
			method:   "create",
		},
		{
			name:     "go style",
			location: "github.com/acme/shop/internal/order.(*Service).Create:88",
			class:    "github.com/acme/shop/internal/order.(*Service)",
			method:   "Create",
		},
		{
			name:     "no class",
			location: "main:3",
			class:    "",
			method:   "main",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.class, fingerprint.ClassOf(tc.location))
			assert.Equal(t, tc.method, fingerprint.MethodOf(tc.location))
		})
	}

	assert.Equal(t, "com.acme.OrderService.create:17", fingerprint.Location("com.acme.OrderService", "create", 17))
	assert.Equal(t, "SQLException", fingerprint.SimpleName("java.sql.SQLException"))
	assert.Equal(t, "MyError", fingerprint.SimpleName("MyError"))
}
