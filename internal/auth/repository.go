package auth

import (
	"context"

	"github.com/paintstock/paintstock/internal/storage"
)

func loadAccounts(ctx context.Context, tx storage.Tx) ([]Account, error) {
	var accounts []Account
	if _, err := storage.Load(ctx, tx, storage.Users, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func saveAccounts(ctx context.Context, tx storage.Tx, accounts []Account) error {
	return storage.Save(ctx, tx, storage.Users, accounts)
}

func findByEmail(accounts []Account, email string) int {
	for i, a := range accounts {
		if a.Email == email {
			return i
		}
	}
	return -1
}
