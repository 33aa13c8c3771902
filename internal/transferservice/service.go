// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	UpdatePair(
		ctx context.Context,
		fromID, toID string,
		fn func(from, to *domain.Account) error,
	) (domain.AccountSnapshot, domain.AccountSnapshot, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo Repo
}

// New return transfer service struct to manage transfer bussines logic.
func New(tr Repo) *Service {
	return &Service{
		repo: tr,
	}
}

func (s *Service) validRequest(ctx context.Context, arg domain.CreateTransferParams) (decimal.Decimal, error) {
	amount, err := accountservice.ParseAmount(ctx, arg.Amount)
	if err != nil {
		return amount, err
	}

	if arg.FromAccountID == arg.ToAccountID {
		zerolog.Ctx(ctx).Info().Err(domain.ErrSameAccount).Str("account_id", arg.FromAccountID).Send()
		return amount, domain.ErrSameAccount
	}

	return amount, nil
}

// Transfer checks if transfer request is valid and then executes transfer.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	amount, err := s.validRequest(ctx, arg)
	if err != nil {
		return domain.TransferResult{}, err
	}

	var result domain.TransferResult

	from, to, err := s.repo.UpdatePair(ctx, arg.FromAccountID, arg.ToAccountID, func(from, to *domain.Account) error {
		if err := from.Transfer(to, amount); err != nil {
			return err
		}

		result.FromEntry, _ = from.LastTransaction()
		result.ToEntry, _ = to.LastTransaction()

		return nil
	})
	if err != nil {
		l.Info().Err(err).
			Str("from_account_id", arg.FromAccountID).
			Str("to_account_id", arg.ToAccountID).
			Send()

		return domain.TransferResult{}, err
	}

	result.FromAccount = from
	result.ToAccount = to

	l.Info().
		Str("from_account_id", arg.FromAccountID).
		Str("to_account_id", arg.ToAccountID).
		Str("amount", amount.String()).
		Msg("transfer completed")

	return result, nil
}
