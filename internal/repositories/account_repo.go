package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/nimeshabuddhika/account-service/internal/models"
	"github.com/nimeshabuddhika/account-service/pkg"
	"github.com/nimeshabuddhika/account-service/pkg/database"
)

// AccountRepository defines the interface for account repository. Reads
// go straight to the pool; writes run inside a caller-owned transaction.
type AccountRepository interface {
	// Create inserts a new account and returns it with the store-assigned ID.
	Create(ctx context.Context, tx pgx.Tx, account models.Account) (models.Account, error)
	// FindByID finds an account by ID.
	FindByID(ctx context.Context, id int64) (models.Account, error)
	// FindAll returns every account in insertion order.
	FindAll(ctx context.Context) ([]models.Account, error)
	// FindByIDForUpdate locks and returns the row targeted by an update.
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (models.Account, error)
	Update(ctx context.Context, tx pgx.Tx, account models.Account) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

type AccountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, account models.Account) (models.Account, error) {
	err := tx.QueryRow(ctx, `INSERT INTO accounts (name, email, address, phone_number, date_joined)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		account.Name,
		account.Email,
		account.Address,
		account.PhoneNumber,
		account.DateJoined,
	).Scan(&account.ID)
	return account, err
}

func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id int64) (models.Account, error) {
	var account models.Account
	err := r.db.QueryRow(ctx, `SELECT id, name, email, address, phone_number, date_joined
		FROM accounts WHERE id = $1`, id).Scan(
		&account.ID, &account.Name, &account.Email, &account.Address, &account.PhoneNumber, &account.DateJoined)
	return account, err
}

func (r *AccountRepositoryImpl) FindAll(ctx context.Context) ([]models.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email, address, phone_number, date_joined
		FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err = rows.Scan(
			&account.ID,
			&account.Name,
			&account.Email,
			&account.Address,
			&account.PhoneNumber,
			&account.DateJoined,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepositoryImpl) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (models.Account, error) {
	var account models.Account
	err := tx.QueryRow(ctx, `SELECT id, name, email, address, phone_number, date_joined
		FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(
		&account.ID, &account.Name, &account.Email, &account.Address, &account.PhoneNumber, &account.DateJoined)
	return account, err
}

func (r *AccountRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, account models.Account) error {
	if account.ID == 0 {
		// Only reachable by calling Update on an account that was never
		// persisted; route handlers resolve the identifier first.
		return pkg.NewAppError(pkg.ErrProgrammingCode, "update requires a persisted account", nil)
	}
	_, err := tx.Exec(ctx, `UPDATE accounts SET name = $1, email = $2, address = $3, phone_number = $4, date_joined = $5
		WHERE id = $6`,
		account.Name,
		account.Email,
		account.Address,
		account.PhoneNumber,
		account.DateJoined,
		account.ID,
	)
	return err
}

// Delete removes the row if present. Deleting an absent ID is not an
// error; the operation is idempotent.
func (r *AccountRepositoryImpl) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}
