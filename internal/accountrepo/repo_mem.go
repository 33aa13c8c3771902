// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

type record struct {
	mu      sync.Mutex
	account *domain.Account
}

// RepoMem keeps accounts in memory.
//
// Every account is guarded by its own mutex. Mutations hold it for their
// whole duration and pair mutations take both locks in ascending id order.
type RepoMem struct {
	mu      sync.RWMutex
	records map[string]*record
	order   []string
}

// NewRepoMem returns an empty account RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		records: make(map[string]*record),
	}
}

func (r *RepoMem) lookup(id string) (*record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return rec, nil
}

// Create stores the account and returns its snapshot.
func (r *RepoMem) Create(ctx context.Context, acc *domain.Account) (domain.AccountSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountSnapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[acc.ID()]; ok {
		zerolog.Ctx(ctx).Error().Str("account_id", acc.ID()).Err(domain.ErrAccountAlreadyExists).Send()
		return domain.AccountSnapshot{}, domain.ErrAccountAlreadyExists
	}

	r.records[acc.ID()] = &record{account: acc}
	r.order = append(r.order, acc.ID())

	return acc.Snapshot(), nil
}

// Get returns the account with the given id.
func (r *RepoMem) Get(ctx context.Context, id string) (domain.AccountSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountSnapshot{}, err
	}

	rec, err := r.lookup(id)
	if err != nil {
		return domain.AccountSnapshot{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.account.Snapshot(), nil
}

// List returns accounts in creation order. An empty owner matches every account.
// A non-positive limit or negative offset yields an empty page.
func (r *RepoMem) List(ctx context.Context, owner string, limit, offset int) ([]domain.AccountSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 || offset < 0 {
		return []domain.AccountSnapshot{}, nil
	}

	r.mu.RLock()
	recs := make([]*record, 0, len(r.order))
	for _, id := range r.order {
		recs = append(recs, r.records[id])
	}
	r.mu.RUnlock()

	items := []domain.AccountSnapshot{}
	skipped := 0

	for _, rec := range recs {
		if len(items) == limit {
			break
		}

		rec.mu.Lock()
		s := rec.account.Snapshot()
		rec.mu.Unlock()

		if owner != "" && s.Owner != owner {
			continue
		}

		if skipped < offset {
			skipped++
			continue
		}

		items = append(items, s)
	}

	return items, nil
}

// Transactions returns a window of the account ledger in recording order.
// A non-positive limit or negative offset yields an empty page.
func (r *RepoMem) Transactions(ctx context.Context, id string, limit, offset int) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	txs := rec.account.Transactions()
	rec.mu.Unlock()

	if limit <= 0 || offset < 0 || offset >= len(txs) {
		return []domain.Transaction{}, nil
	}

	end := len(txs)
	if limit < end-offset {
		end = offset + limit
	}

	return txs[offset:end], nil
}

// Update runs fn on the account while holding its lock.
func (r *RepoMem) Update(ctx context.Context, id string, fn func(acc *domain.Account) error) (domain.AccountSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountSnapshot{}, err
	}

	rec, err := r.lookup(id)
	if err != nil {
		return domain.AccountSnapshot{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := fn(rec.account); err != nil {
		return rec.account.Snapshot(), err
	}

	if err := r.verify(ctx, rec.account); err != nil {
		return domain.AccountSnapshot{}, err
	}

	return rec.account.Snapshot(), nil
}

// UpdatePair runs fn on two accounts while holding both locks.
// When fromID equals toID the same account is passed twice.
func (r *RepoMem) UpdatePair(
	ctx context.Context,
	fromID, toID string,
	fn func(from, to *domain.Account) error,
) (domain.AccountSnapshot, domain.AccountSnapshot, error) {
	var empty domain.AccountSnapshot

	if err := ctx.Err(); err != nil {
		return empty, empty, err
	}

	fromRec, err := r.lookup(fromID)
	if err != nil {
		return empty, empty, err
	}

	toRec, err := r.lookup(toID)
	if err != nil {
		return empty, empty, err
	}

	switch {
	case fromID == toID:
		fromRec.mu.Lock()
		defer fromRec.mu.Unlock()
	case fromID < toID:
		fromRec.mu.Lock()
		defer fromRec.mu.Unlock()
		toRec.mu.Lock()
		defer toRec.mu.Unlock()
	default:
		toRec.mu.Lock()
		defer toRec.mu.Unlock()
		fromRec.mu.Lock()
		defer fromRec.mu.Unlock()
	}

	if err := fn(fromRec.account, toRec.account); err != nil {
		return fromRec.account.Snapshot(), toRec.account.Snapshot(), err
	}

	for _, acc := range []*domain.Account{fromRec.account, toRec.account} {
		if err := r.verify(ctx, acc); err != nil {
			return empty, empty, err
		}
	}

	return fromRec.account.Snapshot(), toRec.account.Snapshot(), nil
}

// verify checks the ledger of acc after a mutation. Mutations are not rolled
// back, so an account that fails is evicted and no longer served.
func (r *RepoMem) verify(ctx context.Context, acc *domain.Account) error {
	if err := acc.Verify(); err != nil {
		zerolog.Ctx(ctx).Error().Str("account_id", acc.ID()).Err(err).Msg("evicting account")
		r.evict(acc.ID())

		return errorspkg.ErrInternal
	}

	return nil
}

// evict removes the account from the registry. Callers may hold the
// account lock but never r.mu.
func (r *RepoMem) evict(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return
	}

	delete(r.records, id)

	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
