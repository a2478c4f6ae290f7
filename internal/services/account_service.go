package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/nimeshabuddhika/account-service/internal/models"
	"github.com/nimeshabuddhika/account-service/internal/repositories"
	"github.com/nimeshabuddhika/account-service/internal/views"
	"github.com/nimeshabuddhika/account-service/pkg"
	"go.uber.org/zap"
)

// TxRunner runs a function inside a database transaction. *database.DB
// satisfies it; tests substitute a stub.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// AccountService holds the business operations behind the HTTP surface.
// Create, Update and Delete each perform exactly one commit; Get and
// List are pure projections.
type AccountService interface {
	Create(ctx context.Context, traceID string, req views.AccountRequest) (views.AccountResponse, error)
	Get(ctx context.Context, traceID string, id int64) (views.AccountResponse, error)
	List(ctx context.Context, traceID string) ([]views.AccountResponse, error)
	Update(ctx context.Context, traceID string, id int64, upd views.AccountUpdate) (views.AccountResponse, error)
	Delete(ctx context.Context, traceID string, id int64) error
}

type AccountServiceImpl struct {
	logger *zap.Logger
	runner TxRunner
	repo   repositories.AccountRepository
}

func NewAccountService(logger *zap.Logger, runner TxRunner, repo repositories.AccountRepository) AccountService {
	return &AccountServiceImpl{
		logger: logger,
		runner: runner,
		repo:   repo,
	}
}

func (s *AccountServiceImpl) Create(ctx context.Context, traceID string, req views.AccountRequest) (views.AccountResponse, error) {
	account, err := req.ToModel()
	if err != nil {
		return views.AccountResponse{}, err
	}

	err = s.runner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		account, err = s.repo.Create(ctx, tx, account)
		return err
	})
	if err != nil {
		return views.AccountResponse{}, pkg.HandleSQLError(traceID, s.logger, err)
	}

	s.logger.Info("account created",
		zap.String(pkg.TraceId, traceID),
		zap.Int64("account_id", account.ID),
	)
	return views.FromModel(account), nil
}

func (s *AccountServiceImpl) Get(ctx context.Context, traceID string, id int64) (views.AccountResponse, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return views.AccountResponse{}, s.notFoundOrSQL(traceID, id, err)
	}
	return views.FromModel(account), nil
}

func (s *AccountServiceImpl) List(ctx context.Context, traceID string) ([]views.AccountResponse, error) {
	accounts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return views.FromModels(accounts), nil
}

func (s *AccountServiceImpl) Update(ctx context.Context, traceID string, id int64, upd views.AccountUpdate) (views.AccountResponse, error) {
	var account models.Account
	err := s.runner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		account, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err = upd.Apply(&account); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, account)
	})
	if err != nil {
		var appErr pkg.AppError
		if errors.As(err, &appErr) {
			return views.AccountResponse{}, err
		}
		return views.AccountResponse{}, s.notFoundOrSQL(traceID, id, err)
	}

	s.logger.Info("account updated",
		zap.String(pkg.TraceId, traceID),
		zap.Int64("account_id", id),
	)
	return views.FromModel(account), nil
}

// Delete removes the account if it exists. A nonexistent identifier is
// not an error: repeated deletes converge on the same end state.
func (s *AccountServiceImpl) Delete(ctx context.Context, traceID string, id int64) error {
	err := s.runner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}

	s.logger.Info("account deleted",
		zap.String(pkg.TraceId, traceID),
		zap.Int64("account_id", id),
	)
	return nil
}

func (s *AccountServiceImpl) notFoundOrSQL(traceID string, id int64, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Warn("account not found",
			zap.String(pkg.TraceId, traceID),
			zap.Int64("account_id", id),
		)
		return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "account not found", err)
	}
	return pkg.HandleSQLError(traceID, s.logger, err)
}
