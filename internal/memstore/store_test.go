package memstore

import (
	"testing"

	"github.com/rm-hull/fuel-price-tracker/internal"
	"github.com/rm-hull/fuel-price-tracker/internal/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) internal.Store {
		return New()
	})
}
