package usecase

import (
	"sender/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounceToAccount(t *testing.T) {
	address := domain.TransferAddress{ID: testAccountId(7)}

	tests := []struct {
		name       string
		bounceable bool
		status     string
		want       bool
	}{
		{"Bounceable to active", true, domain.AccountStatusActive, true},
		{"Bounceable to uninit", true, domain.AccountStatusUninit, true},
		{"Non-bounceable to active is forced", false, domain.AccountStatusActive, true},
		{"Non-bounceable to uninit", false, domain.AccountStatusUninit, false},
		{"Non-bounceable to frozen", false, domain.AccountStatusFrozen, false},
		{"Non-bounceable to nonexistent", false, domain.AccountStatusNonexist, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address.Bounceable = tt.bounceable
			assert.Equal(t, tt.want, BounceToAccount(address, tt.status))
		})
	}
}

func TestShouldBounce(t *testing.T) {
	active := testAccountId(7)
	uninit := testAccountId(8)
	unknown := testAccountId(9)

	accounts := map[string]domain.AccountSnapshot{
		active.ToRaw(): {ID: active, Status: domain.AccountStatusActive},
		uninit.ToRaw(): {ID: uninit, Status: domain.AccountStatusUninit},
	}

	tests := []struct {
		name    string
		address domain.TransferAddress
		want    bool
	}{
		{"Bounceable encoding is honored", domain.TransferAddress{ID: uninit, Bounceable: true}, true},
		{"Bounceable to unknown account", domain.TransferAddress{ID: unknown, Bounceable: true}, true},
		{"Non-bounceable to active account is forced", domain.TransferAddress{ID: active, Bounceable: false}, true},
		{"Non-bounceable to uninit account", domain.TransferAddress{ID: uninit, Bounceable: false}, false},
		{"Non-bounceable to unknown account", domain.TransferAddress{ID: unknown, Bounceable: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldBounce(accounts, tt.address))
		})
	}
}
