package tests

// In-memory repository stubs shared by the service tests. Each stub
// implements the corresponding repository interface over plain maps; the
// *gorm.DB transaction handles are accepted and ignored, and DB() returns
// nil so services run their transaction closures directly.

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("record not found")

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func strPtr(s string) *string { return &s }

// ── ProductRepository stub ───────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	batches  map[uuid.UUID]*model.Batch
	invoiced map[uuid.UUID]bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		batches:  make(map[uuid.UUID]*model.Batch),
		invoiced: make(map[uuid.UUID]bool),
	}
}

func (r *stubProductRepo) productBatches(productID uuid.UUID) []model.Batch {
	var out []model.Batch
	for _, b := range r.batches {
		if b.ProductID == productID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *p
	cloned.Batches = r.productBatches(id)
	return &cloned, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode && p.Active {
			cloned := *p
			cloned.Batches = r.productBatches(p.ID)
			return &cloned, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		switch filter.Active {
		case "false":
			if p.Active {
				continue
			}
		case "all":
		default:
			if !p.Active {
				continue
			}
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		cloned := *p
		cloned.Batches = r.productBatches(p.ID)
		out = append(out, cloned)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return errNotFound
	}
	cloned := *p
	cloned.Batches = nil
	r.products[p.ID] = &cloned
	return nil
}

func (r *stubProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Active = active
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	for bid, b := range r.batches {
		if b.ProductID == id {
			delete(r.batches, bid)
		}
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) HasInvoiceLines(_ context.Context, id uuid.UUID) (bool, error) {
	return r.invoiced[id], nil
}

func (r *stubProductRepo) CreateBatchTx(_ *gorm.DB, b *model.Batch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cloned := *b
	r.batches[b.ID] = &cloned
	return nil
}

func (r *stubProductRepo) FindBatchByID(_ context.Context, id uuid.UUID) (*model.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *b
	return &cloned, nil
}

func (r *stubProductRepo) ListBatches(_ context.Context, productID uuid.UUID) ([]model.Batch, error) {
	return r.productBatches(productID), nil
}

func (r *stubProductRepo) ListBatchesTx(_ *gorm.DB, productID uuid.UUID) ([]model.Batch, error) {
	return r.productBatches(productID), nil
}

func (r *stubProductRepo) UpdateBatchStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	b, ok := r.batches[id]
	if !ok || b.Stock+delta < 0 {
		return gorm.ErrRecordNotFound
	}
	b.Stock += delta
	return nil
}

func (r *stubProductRepo) DeleteBatchTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

func (r *stubProductRepo) ExpiringBatches(_ context.Context, withinDays int) ([]model.Batch, error) {
	cutoff := time.Now().AddDate(0, 0, withinDays)
	var out []model.Batch
	for _, b := range r.batches {
		if b.ExpiresAt != nil && b.Stock > 0 && !b.ExpiresAt.After(cutoff) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	return out, nil
}

func (r *stubProductRepo) AllBatches(_ context.Context) ([]model.Batch, error) {
	var out []model.Batch
	for _, b := range r.batches {
		if b.Stock > 0 {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *stubProductRepo) LowStockProducts(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		batches := r.productBatches(p.ID)
		total := 0
		for _, b := range batches {
			total += b.Stock
		}
		if total < p.MinStock {
			cloned := *p
			cloned.Batches = batches
			out = append(out, cloned)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── SaleRepository stub ──────────────────────────────────────────────────────

type stubSaleRepo struct {
	invoices map[uuid.UUID]*model.SaleInvoice
	nextNum  int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{invoices: make(map[uuid.UUID]*model.SaleInvoice)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, inv *model.SaleInvoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	cloned := *inv
	cloned.Lines = make([]model.SaleLine, len(inv.Lines))
	copy(cloned.Lines, inv.Lines)
	for i := range cloned.Lines {
		if cloned.Lines[i].ID == uuid.Nil {
			cloned.Lines[i].ID = uuid.New()
		}
		cloned.Lines[i].InvoiceID = inv.ID
	}
	r.invoices[inv.ID] = &cloned
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SaleInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *inv
	cloned.Lines = make([]model.SaleLine, len(inv.Lines))
	copy(cloned.Lines, inv.Lines)
	return &cloned, nil
}

func (r *stubSaleRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.nextNum++
	return r.nextNum, nil
}

func (r *stubSaleRepo) ReplaceLinesTx(_ *gorm.DB, invoiceID uuid.UUID, lines []model.SaleLine) error {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return errNotFound
	}
	inv.Lines = make([]model.SaleLine, len(lines))
	copy(inv.Lines, lines)
	for i := range inv.Lines {
		if inv.Lines[i].ID == uuid.Nil {
			inv.Lines[i].ID = uuid.New()
		}
		inv.Lines[i].InvoiceID = invoiceID
	}
	return nil
}

func (r *stubSaleRepo) UpdateHeaderTx(_ *gorm.DB, inv *model.SaleInvoice) error {
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return errNotFound
	}
	stored.Subtotal = inv.Subtotal
	stored.Discount = inv.Discount
	stored.Total = inv.Total
	stored.Note = inv.Note
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *stubSaleRepo) HasReturns(_ context.Context, id uuid.UUID) (bool, error) {
	for _, inv := range r.invoices {
		if inv.OriginalID != nil && *inv.OriginalID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSaleRepo) ListReturns(_ context.Context, originalID uuid.UUID) ([]model.SaleInvoice, error) {
	var out []model.SaleInvoice
	for _, inv := range r.invoices {
		if inv.OriginalID != nil && *inv.OriginalID == originalID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.SaleInvoice, int64, error) {
	var out []model.SaleInvoice
	for _, inv := range r.invoices {
		if filter.Kind != "" && filter.Kind != "all" && inv.Kind != filter.Kind {
			continue
		}
		if filter.CashierID != "" && inv.CashierID.String() != filter.CashierID {
			continue
		}
		if filter.Date != "" && inv.CreatedAt.Format("2006-01-02") != filter.Date {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.SaleInvoice, error) {
	var out []model.SaleInvoice
	for _, inv := range r.invoices {
		if !inv.CreatedAt.Before(from) && inv.CreatedAt.Before(to) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── PurchaseRepository stub ──────────────────────────────────────────────────

type stubPurchaseRepo struct {
	invoices map[uuid.UUID]*model.PurchaseInvoice
	nextNum  int
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{invoices: make(map[uuid.UUID]*model.PurchaseInvoice)}
}

func (r *stubPurchaseRepo) Create(_ context.Context, _ *gorm.DB, inv *model.PurchaseInvoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	cloned := *inv
	cloned.Lines = make([]model.PurchaseLine, len(inv.Lines))
	copy(cloned.Lines, inv.Lines)
	for i := range cloned.Lines {
		if cloned.Lines[i].ID == uuid.Nil {
			cloned.Lines[i].ID = uuid.New()
		}
		cloned.Lines[i].InvoiceID = inv.ID
	}
	r.invoices[inv.ID] = &cloned
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseInvoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *inv
	cloned.Lines = make([]model.PurchaseLine, len(inv.Lines))
	copy(cloned.Lines, inv.Lines)
	return &cloned, nil
}

func (r *stubPurchaseRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.nextNum++
	return r.nextNum, nil
}

func (r *stubPurchaseRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *stubPurchaseRepo) HasReturns(_ context.Context, id uuid.UUID) (bool, error) {
	for _, inv := range r.invoices {
		if inv.OriginalID != nil && *inv.OriginalID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, filter dto.PurchaseFilter) ([]model.PurchaseInvoice, int64, error) {
	var out []model.PurchaseInvoice
	for _, inv := range r.invoices {
		if filter.Kind != "" && filter.Kind != "all" && inv.Kind != filter.Kind {
			continue
		}
		if filter.SupplierID != "" && inv.SupplierID.String() != filter.SupplierID {
			continue
		}
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, int64(len(out)), nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── PartyRepository stub ─────────────────────────────────────────────────────

type stubPartyRepo struct {
	parties map[string]map[uuid.UUID]*repository.Party
}

func newStubPartyRepo() *stubPartyRepo {
	return &stubPartyRepo{parties: map[string]map[uuid.UUID]*repository.Party{
		model.PartyCustomer: {},
		model.PartySupplier: {},
		model.PartyEmployee: {},
	}}
}

func (r *stubPartyRepo) table(partyType string) (map[uuid.UUID]*repository.Party, error) {
	t, ok := r.parties[partyType]
	if !ok {
		return nil, repository.ErrUnknownPartyType
	}
	return t, nil
}

func (r *stubPartyRepo) Create(_ context.Context, partyType string, p *repository.Party) error {
	t, err := r.table(partyType)
	if err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Active = true
	cloned := *p
	t[p.ID] = &cloned
	return nil
}

func (r *stubPartyRepo) FindByID(_ context.Context, partyType string, id uuid.UUID) (*repository.Party, error) {
	t, err := r.table(partyType)
	if err != nil {
		return nil, err
	}
	p, ok := t[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubPartyRepo) List(_ context.Context, partyType string, includeInactive bool) ([]repository.Party, error) {
	t, err := r.table(partyType)
	if err != nil {
		return nil, err
	}
	var out []repository.Party
	for _, p := range t {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubPartyRepo) Update(_ context.Context, partyType string, p *repository.Party) error {
	t, err := r.table(partyType)
	if err != nil {
		return err
	}
	stored, ok := t[p.ID]
	if !ok {
		return errNotFound
	}
	stored.Name = p.Name
	stored.Phone = p.Phone
	stored.Address = p.Address
	stored.Role = p.Role
	if p.MonthlySalary != nil {
		stored.MonthlySalary = p.MonthlySalary
	}
	return nil
}

func (r *stubPartyRepo) Delete(_ context.Context, partyType string, id uuid.UUID) error {
	t, err := r.table(partyType)
	if err != nil {
		return err
	}
	delete(t, id)
	return nil
}

func (r *stubPartyRepo) UpdateBalanceTx(_ *gorm.DB, partyType string, id uuid.UUID, delta decimal.Decimal) error {
	t, err := r.table(partyType)
	if err != nil {
		return err
	}
	p, ok := t[id]
	if !ok {
		return errNotFound
	}
	p.Balance = p.Balance.Add(delta)
	return nil
}

func (r *stubPartyRepo) SumPositiveBalances(_ context.Context, partyType string) (decimal.Decimal, error) {
	t, err := r.table(partyType)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, p := range t {
		if p.Active && p.Balance.IsPositive() {
			sum = sum.Add(p.Balance)
		}
	}
	return sum, nil
}

func (r *stubPartyRepo) DB() *gorm.DB { return nil }

var _ repository.PartyRepository = (*stubPartyRepo)(nil)

// ── LedgerRepository stub ────────────────────────────────────────────────────

type stubLedgerRepo struct {
	entries []*model.LedgerEntry
}

func newStubLedgerRepo() *stubLedgerRepo { return &stubLedgerRepo{} }

func (r *stubLedgerRepo) CreateTx(_ *gorm.DB, e *model.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	cloned := *e
	r.entries = append(r.entries, &cloned)
	return nil
}

func (r *stubLedgerRepo) ListByParty(_ context.Context, partyType string, partyID uuid.UUID) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if e.PartyType == partyType && e.PartyID == partyID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID, kind string) (*model.LedgerEntry, error) {
	for _, e := range r.entries {
		if e.InvoiceID != nil && *e.InvoiceID == invoiceID && e.Kind == kind {
			cloned := *e
			return &cloned, nil
		}
	}
	return nil, errNotFound
}

func (r *stubLedgerRepo) UpdateAmountTx(_ *gorm.DB, id uuid.UUID, amount, faceAmount decimal.Decimal) error {
	for _, e := range r.entries {
		if e.ID == id {
			e.Amount = amount
			e.FaceAmount = faceAmount
			return nil
		}
	}
	return errNotFound
}

func (r *stubLedgerRepo) DeleteByInvoiceTx(_ *gorm.DB, invoiceID uuid.UUID) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.InvoiceID == nil || *e.InvoiceID != invoiceID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *stubLedgerRepo) HasEntries(_ context.Context, partyType string, partyID uuid.UUID) (bool, error) {
	for _, e := range r.entries {
		if e.PartyType == partyType && e.PartyID == partyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLedgerRepo) DB() *gorm.DB { return nil }

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// ── StockMovementRepository stub ─────────────────────────────────────────────

type stubMovementRepo struct {
	movements []*model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	cloned := *m
	r.movements = append(r.movements, &cloned)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// byKind filters recorded movements, newest last.
func (r *stubMovementRepo) byKind(kind string) []*model.StockMovement {
	var out []*model.StockMovement
	for _, m := range r.movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ── ExpenseRepository stub ───────────────────────────────────────────────────

type stubExpenseRepo struct {
	entries map[uuid.UUID]*model.ExpenseEntry
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{entries: make(map[uuid.UUID]*model.ExpenseEntry)}
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.ExpenseEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cloned := *e
	r.entries[e.ID] = &cloned
	return nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ExpenseEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *e
	return &cloned, nil
}

func (r *stubExpenseRepo) List(_ context.Context, filter dto.ExpenseFilter) ([]model.ExpenseEntry, int64, error) {
	var out []model.ExpenseEntry
	for _, e := range r.entries {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		day := e.Date.Format("2006-01-02")
		if filter.From != "" && day < filter.From {
			continue
		}
		if filter.To != "" && day > filter.To {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *stubExpenseRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.ExpenseEntry, error) {
	var out []model.ExpenseEntry
	for _, e := range r.entries {
		if !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.entries[id]; !ok {
		return errNotFound
	}
	delete(r.entries, id)
	return nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

// ── UserRepository stub ──────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *u
	return &cloned, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !includeInactive && !u.Active {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return errNotFound
	}
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.Active = active
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── ReceiptRepository stub ───────────────────────────────────────────────────

type stubReceiptRepo struct {
	receipts map[uuid.UUID]*model.Receipt
	bySale   map[uuid.UUID]*model.Receipt
}

func newStubReceiptRepo() *stubReceiptRepo {
	return &stubReceiptRepo{
		receipts: make(map[uuid.UUID]*model.Receipt),
		bySale:   make(map[uuid.UUID]*model.Receipt),
	}
}

func (r *stubReceiptRepo) Create(_ context.Context, rec *model.Receipt) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	cloned := *rec
	r.receipts[rec.ID] = &cloned
	r.bySale[rec.SaleID] = r.receipts[rec.ID]
	return nil
}

func (r *stubReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Receipt, error) {
	rec, ok := r.receipts[id]
	if !ok {
		return nil, errNotFound
	}
	cloned := *rec
	return &cloned, nil
}

func (r *stubReceiptRepo) FindBySaleID(_ context.Context, saleID uuid.UUID) (*model.Receipt, error) {
	rec, ok := r.bySale[saleID]
	if !ok {
		return nil, errNotFound
	}
	cloned := *rec
	return &cloned, nil
}

func (r *stubReceiptRepo) Update(_ context.Context, rec *model.Receipt) error {
	cloned := *rec
	r.receipts[rec.ID] = &cloned
	r.bySale[rec.SaleID] = r.receipts[rec.ID]
	return nil
}

func (r *stubReceiptRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.Receipt, error) {
	var out []model.Receipt
	for _, rec := range r.receipts {
		if (rec.Status == model.ReceiptPending || rec.Status == model.ReceiptError) &&
			rec.NextRetryAt != nil && !rec.NextRetryAt.After(now) {
			out = append(out, *rec)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

var _ repository.ReceiptRepository = (*stubReceiptRepo)(nil)

// ── SettingsRepository stub ──────────────────────────────────────────────────

type stubSettingsRepo struct {
	settings model.StoreSettings
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{settings: model.StoreSettings{
		ID: 1, StoreName: "Ketabestan", BaseCurrency: "AFN", DefaultUSDRate: d("70"),
	}}
}

func (r *stubSettingsRepo) Get(_ context.Context) (*model.StoreSettings, error) {
	cloned := r.settings
	return &cloned, nil
}

func (r *stubSettingsRepo) Update(_ context.Context, s *model.StoreSettings) error {
	s.ID = 1
	r.settings = *s
	return nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)
