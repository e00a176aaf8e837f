package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
)

// MemoryStore is an in-memory implementation of the AtomicStore unit of
// work plus the repository interfaces, exposed through the *Repo() views.
// Atomic units are serialized by a single mutex and buffer their writes
// until the unit function returns nil, so a failed unit leaves no partial
// state, matching the Firestore adapter. It backs the use-case tests.
type MemoryStore struct {
	mu sync.Mutex

	users     map[string]*entity.User
	listings  map[string]*entity.Listing
	trades    map[string]*entity.TradeTransaction
	tradeLogs []*entity.TradeLog
	wallets   map[string]*entity.Wallet
	entries   []*entity.WalletEntry
	deposits  map[string]*entity.DepositRequest
	withdraws map[string]*entity.WithdrawRequest
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*entity.User),
		listings:  make(map[string]*entity.Listing),
		trades:    make(map[string]*entity.TradeTransaction),
		wallets:   make(map[string]*entity.Wallet),
		deposits:  make(map[string]*entity.DepositRequest),
		withdraws: make(map[string]*entity.WithdrawRequest),
	}
}

var _ repository.AtomicStore = (*MemoryStore)(nil)

func (s *MemoryStore) UserRepo() repository.UserRepository       { return &memoryUserRepo{s} }
func (s *MemoryStore) ListingRepo() repository.ListingRepository { return &memoryListingRepo{s} }
func (s *MemoryStore) TradeRepo() repository.TradeRepository     { return &memoryTradeRepo{s} }
func (s *MemoryStore) WalletRepo() repository.WalletRepository   { return &memoryWalletRepo{s} }

func cloneListing(l *entity.Listing) *entity.Listing {
	c := *l
	c.TradeConfirmations = append([]string(nil), l.TradeConfirmations...)
	return &c
}

func cloneTrade(t *entity.TradeTransaction) *entity.TradeTransaction {
	c := *t
	return &c
}

func cloneWallet(w *entity.Wallet) *entity.Wallet {
	c := *w
	return &c
}

func cloneDeposit(d *entity.DepositRequest) *entity.DepositRequest {
	c := *d
	return &c
}

func cloneWithdraw(w *entity.WithdrawRequest) *entity.WithdrawRequest {
	c := *w
	return &c
}

// memoryOps stages writes against the store; Atomic applies them in one
// step once the unit function succeeds.
type memoryOps struct {
	store *MemoryStore

	stagedListings  map[string]*entity.Listing
	stagedTrades    map[string]*entity.TradeTransaction
	stagedWallets   map[string]*entity.Wallet
	stagedEntries   []*entity.WalletEntry
	stagedDeposits  map[string]*entity.DepositRequest
	stagedWithdraws map[string]*entity.WithdrawRequest
}

func (s *MemoryStore) Atomic(ctx context.Context, fn func(ops repository.Ops) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := &memoryOps{
		store:           s,
		stagedListings:  make(map[string]*entity.Listing),
		stagedTrades:    make(map[string]*entity.TradeTransaction),
		stagedWallets:   make(map[string]*entity.Wallet),
		stagedDeposits:  make(map[string]*entity.DepositRequest),
		stagedWithdraws: make(map[string]*entity.WithdrawRequest),
	}

	if err := fn(ops); err != nil {
		return err
	}

	for id, l := range ops.stagedListings {
		s.listings[id] = l
	}
	for id, t := range ops.stagedTrades {
		s.trades[id] = t
	}
	for id, w := range ops.stagedWallets {
		s.wallets[id] = w
	}
	s.entries = append(s.entries, ops.stagedEntries...)
	for id, d := range ops.stagedDeposits {
		s.deposits[id] = d
	}
	for id, w := range ops.stagedWithdraws {
		s.withdraws[id] = w
	}
	return nil
}

func (o *memoryOps) GetListing(id string) (*entity.Listing, error) {
	if l, ok := o.stagedListings[id]; ok {
		return cloneListing(l), nil
	}
	l, ok := o.store.listings[id]
	if !ok || l.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}
	return cloneListing(l), nil
}

func (o *memoryOps) PutListing(listing *entity.Listing) error {
	o.stagedListings[listing.ID] = cloneListing(listing)
	return nil
}

func (o *memoryOps) GetTrade(id string) (*entity.TradeTransaction, error) {
	if t, ok := o.stagedTrades[id]; ok {
		return cloneTrade(t), nil
	}
	t, ok := o.store.trades[id]
	if !ok {
		return nil, errors.NotFound("Trade", nil)
	}
	return cloneTrade(t), nil
}

func (o *memoryOps) GetActiveTradeByListingID(listingID string) (*entity.TradeTransaction, error) {
	active := func(t *entity.TradeTransaction) bool {
		if t.ListingID != listingID {
			return false
		}
		switch t.Status {
		case entity.TradeTxnPending, entity.TradeTxnPendingRelease, entity.TradeTxnDisputed:
			return true
		}
		return false
	}
	for _, t := range o.stagedTrades {
		if active(t) {
			return cloneTrade(t), nil
		}
	}
	for _, t := range o.store.trades {
		if _, staged := o.stagedTrades[t.ID]; staged {
			continue
		}
		if active(t) {
			return cloneTrade(t), nil
		}
	}
	return nil, nil
}

func (o *memoryOps) PutTrade(trade *entity.TradeTransaction) error {
	o.stagedTrades[trade.ID] = cloneTrade(trade)
	return nil
}

func (o *memoryOps) GetWallet(userID string) (*entity.Wallet, error) {
	if w, ok := o.stagedWallets[userID]; ok {
		return cloneWallet(w), nil
	}
	w, ok := o.store.wallets[userID]
	if !ok {
		return nil, errors.NotFound("Wallet", nil)
	}
	return cloneWallet(w), nil
}

func (o *memoryOps) PutWallet(wallet *entity.Wallet) error {
	o.stagedWallets[wallet.UserID] = cloneWallet(wallet)
	return nil
}

func (o *memoryOps) PutWalletEntry(entry *entity.WalletEntry) error {
	c := *entry
	o.stagedEntries = append(o.stagedEntries, &c)
	return nil
}

func (o *memoryOps) GetDepositRequest(id string) (*entity.DepositRequest, error) {
	if d, ok := o.stagedDeposits[id]; ok {
		return cloneDeposit(d), nil
	}
	d, ok := o.store.deposits[id]
	if !ok {
		return nil, errors.NotFound("Deposit request", nil)
	}
	return cloneDeposit(d), nil
}

func (o *memoryOps) PutDepositRequest(request *entity.DepositRequest) error {
	o.stagedDeposits[request.ID] = cloneDeposit(request)
	return nil
}

func (o *memoryOps) GetWithdrawRequest(id string) (*entity.WithdrawRequest, error) {
	if w, ok := o.stagedWithdraws[id]; ok {
		return cloneWithdraw(w), nil
	}
	w, ok := o.store.withdraws[id]
	if !ok {
		return nil, errors.NotFound("Withdraw request", nil)
	}
	return cloneWithdraw(w), nil
}

func (o *memoryOps) PutWithdrawRequest(request *entity.WithdrawRequest) error {
	o.stagedWithdraws[request.ID] = cloneWithdraw(request)
	return nil
}

type memoryUserRepo struct {
	s *MemoryStore
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	c := *u
	return &c, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memoryUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	user.UpdatedAt = time.Now()
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

type memoryListingRepo struct {
	s *MemoryStore
}

func (r *memoryListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	r.s.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *memoryListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.listings[id]
	if !ok || l.DeletedAt != nil {
		return nil, errors.NotFound("Listing", nil)
	}
	return cloneListing(l), nil
}

func (r *memoryListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[listing.ID]; !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.UpdatedAt = time.Now()
	r.s.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *memoryListingRepo) ListAvailable(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*entity.Listing
	for _, l := range r.s.listings {
		if l.DeletedAt == nil && l.TradeStatus == entity.TradeStatusAvailable {
			all = append(all, cloneListing(l))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), int64(len(all)), nil
}

func (r *memoryListingRepo) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*entity.Listing
	for _, l := range r.s.listings {
		if l.DeletedAt == nil && l.SellerID == sellerID {
			all = append(all, cloneListing(l))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), int64(len(all)), nil
}

type memoryTradeRepo struct {
	s *MemoryStore
}

func (r *memoryTradeRepo) GetByID(ctx context.Context, id string) (*entity.TradeTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.trades[id]
	if !ok {
		return nil, errors.NotFound("Trade", nil)
	}
	return cloneTrade(t), nil
}

func (r *memoryTradeRepo) ListByUserID(ctx context.Context, userID string, role string, status string, limit, offset int) ([]*entity.TradeTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*entity.TradeTransaction
	for _, t := range r.s.trades {
		if role == "buyer" && t.BuyerID != userID {
			continue
		}
		if role == "seller" && t.SellerID != userID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		all = append(all, cloneTrade(t))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), int64(len(all)), nil
}

func (r *memoryTradeRepo) ListDueForRelease(ctx context.Context, now time.Time, limit int) ([]*entity.TradeTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var due []*entity.TradeTransaction
	for _, t := range r.s.trades {
		if t.Status == entity.TradeTxnPendingRelease && t.ReleaseAt != nil && !t.ReleaseAt.After(now) {
			due = append(due, cloneTrade(t))
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ReleaseAt.Before(*due[j].ReleaseAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *memoryTradeRepo) ListOpenDisputes(ctx context.Context, limit, offset int) ([]*entity.TradeTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*entity.TradeTransaction
	for _, t := range r.s.trades {
		if t.Status == entity.TradeTxnDisputed {
			all = append(all, cloneTrade(t))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		ei, ej := all[i].Dispute.ExpiresAt, all[j].Dispute.ExpiresAt
		if ei == nil || ej == nil {
			return ej == nil
		}
		return ei.Before(*ej)
	})
	return paginate(all, limit, offset), int64(len(all)), nil
}

func (r *memoryTradeRepo) CreateLog(ctx context.Context, log *entity.TradeLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	log.CreatedAt = time.Now()
	c := *log
	r.s.tradeLogs = append(r.s.tradeLogs, &c)
	return nil
}

func (r *memoryTradeRepo) ListLogsByTradeID(ctx context.Context, tradeID string) ([]*entity.TradeLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var logs []*entity.TradeLog
	for _, l := range r.s.tradeLogs {
		if l.TradeID == tradeID {
			c := *l
			logs = append(logs, &c)
		}
	}
	return logs, nil
}

type memoryWalletRepo struct {
	s *MemoryStore
}

func (r *memoryWalletRepo) CreateWallet(ctx context.Context, wallet *entity.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.wallets[wallet.UserID] = cloneWallet(wallet)
	return nil
}

func (r *memoryWalletRepo) GetWalletByUserID(ctx context.Context, userID string) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.wallets[userID]
	if !ok {
		return nil, errors.NotFound("Wallet", nil)
	}
	return cloneWallet(w), nil
}

func (r *memoryWalletRepo) ListEntriesByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var entries []*entity.WalletEntry
	for _, e := range r.s.entries {
		if e.UserID == userID {
			c := *e
			entries = append(entries, &c)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return paginate(entries, limit, offset), nil
}

func (r *memoryWalletRepo) CreateDepositRequest(ctx context.Context, request *entity.DepositRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deposits[request.ID] = cloneDeposit(request)
	return nil
}

func (r *memoryWalletRepo) ListDepositRequestsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.DepositRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var requests []*entity.DepositRequest
	for _, d := range r.s.deposits {
		if d.UserID == userID {
			requests = append(requests, cloneDeposit(d))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return paginate(requests, limit, offset), nil
}

func (r *memoryWalletRepo) ListPendingDepositRequests(ctx context.Context, limit, offset int) ([]*entity.DepositRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var requests []*entity.DepositRequest
	for _, d := range r.s.deposits {
		if d.Status == entity.RequestPending {
			requests = append(requests, cloneDeposit(d))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })
	return paginate(requests, limit, offset), nil
}

func (r *memoryWalletRepo) ListWithdrawRequestsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WithdrawRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var requests []*entity.WithdrawRequest
	for _, w := range r.s.withdraws {
		if w.UserID == userID {
			requests = append(requests, cloneWithdraw(w))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return paginate(requests, limit, offset), nil
}

func (r *memoryWalletRepo) ListPendingWithdrawRequests(ctx context.Context, limit, offset int) ([]*entity.WithdrawRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var requests []*entity.WithdrawRequest
	for _, w := range r.s.withdraws {
		if w.Status == entity.RequestPending {
			requests = append(requests, cloneWithdraw(w))
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })
	return paginate(requests, limit, offset), nil
}

func (r *memoryWalletRepo) UpdateWithdrawRequest(ctx context.Context, request *entity.WithdrawRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.withdraws[request.ID]; !ok {
		return errors.NotFound("Withdraw request", nil)
	}
	request.UpdatedAt = time.Now()
	r.s.withdraws[request.ID] = cloneWithdraw(request)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
