// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, acc *domain.Account) (domain.AccountSnapshot, error)
	Get(ctx context.Context, id string) (domain.AccountSnapshot, error)
	List(ctx context.Context, owner string, limit, offset int) ([]domain.AccountSnapshot, error)
	Transactions(ctx context.Context, id string, limit, offset int) ([]domain.Transaction, error)
	Update(ctx context.Context, id string, fn func(acc *domain.Account) error) (domain.AccountSnapshot, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
	opts []domain.Option
}

// New returns account service struct to manage account bussines logic.
// The options are applied to every account the service opens.
func New(ar Repo, opts ...domain.Option) *Service {
	return &Service{
		repo: ar,
		opts: opts,
	}
}

// ParseAmount converts a request amount into a decimal within domain.CheckAmountBounds.
func ParseAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	d, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return decimal.Zero, domain.ErrMalformedAmount
	}

	if err := domain.CheckAmountBounds(d); err != nil {
		l.Info().Err(err).Str("amount", amount).Send()
		return decimal.Zero, err
	}

	return d, nil
}

// Create opens an account for the given owner and returns it.
func (s *Service) Create(ctx context.Context, owner, initialBalance string) (domain.AccountSnapshot, error) {
	l := zerolog.Ctx(ctx)

	balance, err := ParseAmount(ctx, initialBalance)
	if err != nil {
		return domain.AccountSnapshot{}, err
	}

	acc, err := domain.NewAccount(owner, balance, s.opts...)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.AccountSnapshot{}, err
	}

	snapshot, err := s.repo.Create(ctx, acc)
	if err != nil {
		return snapshot, err
	}

	l.Info().Str("account_id", snapshot.ID).Str("owner", owner).Msg("account opened")

	return snapshot, nil
}

// pageWindow converts a page into a repo window. A page that cannot be
// addressed without overflow yields an empty window.
func pageWindow(pageSize, pageID int) (limit, offset int) {
	if pageSize <= 0 || pageID < 1 || pageID-1 > math.MaxInt/pageSize {
		return 0, 0
	}

	return pageSize, (pageID - 1) * pageSize
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id string) (domain.AccountSnapshot, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return account, err
	}

	return account, nil
}

// List returns accounts owned by owner, or every account when owner is empty.
func (s *Service) List(ctx context.Context, owner string, pageSize, pageID int) ([]domain.AccountSnapshot, error) {
	limit, offset := pageWindow(pageSize, pageID)

	accounts, err := s.repo.List(ctx, owner, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Transactions returns a page of the account ledger in recording order.
func (s *Service) Transactions(ctx context.Context, id string, pageSize, pageID int) ([]domain.Transaction, error) {
	limit, offset := pageWindow(pageSize, pageID)

	txs, err := s.repo.Transactions(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// Deposit adds amount to the account balance.
func (s *Service) Deposit(ctx context.Context, id, amount string) (domain.OperationResult, error) {
	return s.move(ctx, id, amount, (*domain.Account).Deposit)
}

// Withdraw removes amount from the account balance.
func (s *Service) Withdraw(ctx context.Context, id, amount string) (domain.OperationResult, error) {
	return s.move(ctx, id, amount, (*domain.Account).Withdraw)
}

func (s *Service) move(
	ctx context.Context,
	id, amount string,
	op func(*domain.Account, decimal.Decimal) error,
) (domain.OperationResult, error) {
	l := zerolog.Ctx(ctx)

	d, err := ParseAmount(ctx, amount)
	if err != nil {
		return domain.OperationResult{}, err
	}

	var tx domain.Transaction

	snapshot, err := s.repo.Update(ctx, id, func(acc *domain.Account) error {
		if err := op(acc, d); err != nil {
			return err
		}

		tx, _ = acc.LastTransaction()

		return nil
	})
	if err != nil {
		l.Info().Err(err).Str("account_id", id).Send()

		return domain.OperationResult{}, err
	}

	return domain.OperationResult{Account: snapshot, Transaction: tx}, nil
}

// Deactivate permanently closes the account for money movements.
func (s *Service) Deactivate(ctx context.Context, id string) (domain.AccountSnapshot, error) {
	snapshot, err := s.repo.Update(ctx, id, func(acc *domain.Account) error {
		acc.Deactivate()
		return nil
	})
	if err != nil {
		return snapshot, err
	}

	zerolog.Ctx(ctx).Info().Str("account_id", id).Msg("account deactivated")

	return snapshot, nil
}
