package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sjperalta/antecipa-api/internal/events"
	"github.com/sjperalta/antecipa-api/internal/models"
	"github.com/sjperalta/antecipa-api/internal/repository"
)

// memStore backs every fake repository with shared in-memory tables
type memStore struct {
	mu            sync.Mutex
	nextID        uint
	anticipations map[uint]models.AnticipationRequest
	plans         map[uint]models.PaymentPlan
	installments  map[uint]models.Installment
	links         map[uint]models.ReceivableLink
	documents     map[uint]models.BillingDocument
	receivables   map[uint]models.Receivable
	indexes       map[uint]models.Index
	updates       []models.IndexMonthlyUpdate
	audits        []models.AuditLog

	failSaveFigures bool
	indexLookups    int
}

func newMemStore() *memStore {
	return &memStore{
		nextID:        100,
		anticipations: map[uint]models.AnticipationRequest{},
		plans:         map[uint]models.PaymentPlan{},
		installments:  map[uint]models.Installment{},
		links:         map[uint]models.ReceivableLink{},
		documents:     map[uint]models.BillingDocument{},
		receivables:   map[uint]models.Receivable{},
		indexes:       map[uint]models.Index{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		Anticipation: &fakeAnticipationRepo{s: s},
		Plan:         &fakePlanRepo{s: s},
		Ledger:       &fakeLedgerRepo{s: s},
		Receivable:   &fakeReceivableRepo{s: s},
		Index:        &fakeIndexRepo{s: s},
		Audit:        &fakeAuditRepo{s: s},
	}
}

func (s *memStore) addReceivable(id, projectID uint, amount string) {
	s.receivables[id] = models.Receivable{
		ID:        id,
		ProjectID: projectID,
		Amount:    decimal.RequireFromString(amount),
		DueDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		PayerName: "Sacado",
	}
}

func (s *memStore) addDocument(linkID uint) {
	id := s.id()
	s.documents[id] = models.BillingDocument{ID: id, LinkID: linkID, DocumentType: "boleto"}
}

// --- anticipations ---

type fakeAnticipationRepo struct {
	repository.AnticipationRepository
	s *memStore
}

func (r *fakeAnticipationRepo) FindByID(ctx context.Context, id uint) (*models.AnticipationRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.anticipations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a.Plan = nil
	for _, p := range r.s.plans {
		if p.AnticipationRequestID == id {
			plan := p
			a.Plan = &plan
		}
	}
	return &a, nil
}

func (r *fakeAnticipationRepo) Update(ctx context.Context, req *models.AnticipationRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *req
	stored.Plan = nil
	r.s.anticipations[req.ID] = stored
	return nil
}

// --- plans and installments ---

type fakePlanRepo struct {
	repository.PlanRepository
	s *memStore
}

func (r *fakePlanRepo) load(id uint, withLinks bool) (*models.PaymentPlan, error) {
	p, ok := r.s.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Installments = nil
	for _, inst := range r.s.installments {
		if inst.PlanID != id {
			continue
		}
		inst.Links = nil
		if withLinks {
			for _, l := range r.s.links {
				if l.InstallmentID == inst.ID {
					l.Receivable = r.s.receivables[l.ReceivableID]
					inst.Links = append(inst.Links, l)
				}
			}
			sort.Slice(inst.Links, func(i, j int) bool { return inst.Links[i].ID < inst.Links[j].ID })
		}
		p.Installments = append(p.Installments, inst)
	}
	sort.Slice(p.Installments, func(i, j int) bool { return p.Installments[i].Number < p.Installments[j].Number })
	return &p, nil
}

func (r *fakePlanRepo) FindByID(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(id, false)
}

func (r *fakePlanRepo) FindByIDWithSchedule(ctx context.Context, id uint) (*models.PaymentPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(id, true)
}

func (r *fakePlanRepo) FindByAnticipation(ctx context.Context, anticipationID uint) (*models.PaymentPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.plans {
		if p.AnticipationRequestID == anticipationID {
			return r.load(id, false)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePlanRepo) FindInstallment(ctx context.Context, id uint) (*models.Installment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inst, ok := r.s.installments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inst, nil
}

func (r *fakePlanRepo) CreateWithInstallments(ctx context.Context, plan *models.PaymentPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.plans {
		if p.AnticipationRequestID == plan.AnticipationRequestID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	plan.ID = r.s.id()
	for i := range plan.Installments {
		plan.Installments[i].ID = r.s.id()
		plan.Installments[i].PlanID = plan.ID
		r.s.installments[plan.Installments[i].ID] = plan.Installments[i]
	}
	stored := *plan
	stored.Installments = nil
	r.s.plans[plan.ID] = stored
	return nil
}

func (r *fakePlanRepo) SaveFigures(ctx context.Context, planID uint, figures []repository.InstallmentFigures, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSaveFigures {
		return errors.New("connection reset by peer")
	}
	for _, f := range figures {
		inst, ok := r.s.installments[f.InstallmentID]
		if !ok || inst.PlanID != planID {
			return gorm.ErrRecordNotFound
		}
		inst.Receivables = f.Receivables
		inst.Balance = f.Balance
		inst.ReserveFund = f.ReserveFund
		inst.Refund = f.Refund
		inst.RecalculatedAt = &at
		r.s.installments[f.InstallmentID] = inst
	}
	p := r.s.plans[planID]
	p.LastRecalculatedAt = &at
	r.s.plans[planID] = p
	return nil
}

func (r *fakePlanRepo) UpdateIndexSettings(ctx context.Context, planID uint, indexID *uint, baseDate *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[planID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IndexID = indexID
	p.IndexBaseDate = baseDate
	r.s.plans[planID] = p
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, planID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[planID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for instID, inst := range r.s.installments {
		if inst.PlanID != planID {
			continue
		}
		for linkID, l := range r.s.links {
			if l.InstallmentID != instID {
				continue
			}
			for docID, d := range r.s.documents {
				if d.LinkID == linkID {
					delete(r.s.documents, docID)
				}
			}
			delete(r.s.links, linkID)
		}
		delete(r.s.installments, instID)
	}
	delete(r.s.plans, planID)
	return nil
}

func (r *fakePlanRepo) ListIDs(ctx context.Context) ([]uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uint
	for id := range r.s.plans {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- ledger ---

type fakeLedgerRepo struct {
	repository.LedgerRepository
	s *memStore
}

func (r *fakeLedgerRepo) FindByID(ctx context.Context, id uint) (*models.ReceivableLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	l.Receivable = r.s.receivables[l.ReceivableID]
	return &l, nil
}

func (r *fakeLedgerRepo) FindByInstallment(ctx context.Context, installmentID uint) ([]models.ReceivableLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	links := []models.ReceivableLink{}
	for _, l := range r.s.links {
		if l.InstallmentID == installmentID {
			l.Receivable = r.s.receivables[l.ReceivableID]
			links = append(links, l)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links, nil
}

func (r *fakeLedgerRepo) FindByReceivableIDs(ctx context.Context, receivableIDs []uint) ([]models.ReceivableLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[uint]bool{}
	for _, id := range receivableIDs {
		want[id] = true
	}
	var links []models.ReceivableLink
	for _, l := range r.s.links {
		if want[l.ReceivableID] {
			links = append(links, l)
		}
	}
	return links, nil
}

func (r *fakeLedgerRepo) CreateBatch(ctx context.Context, links []models.ReceivableLink) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var inserted int64
	for _, l := range links {
		taken := false
		for _, existing := range r.s.links {
			if existing.ReceivableID == l.ReceivableID {
				taken = true
			}
		}
		if taken {
			continue
		}
		l.ID = r.s.id()
		r.s.links[l.ID] = l
		inserted++
	}
	return inserted, nil
}

func (r *fakeLedgerRepo) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.links[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for docID, d := range r.s.documents {
		if d.LinkID == id {
			delete(r.s.documents, docID)
		}
	}
	delete(r.s.links, id)
	return nil
}

func (r *fakeLedgerRepo) SumByInstallment(ctx context.Context, installmentID uint) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, l := range r.s.links {
		if l.InstallmentID == installmentID {
			total = total.Add(r.s.receivables[l.ReceivableID].Amount)
		}
	}
	return total, nil
}

func (r *fakeLedgerRepo) SumByPlan(ctx context.Context, planID uint) (map[uint]decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := map[uint]decimal.Decimal{}
	for _, l := range r.s.links {
		if r.s.installments[l.InstallmentID].PlanID == planID {
			sums[l.InstallmentID] = sums[l.InstallmentID].Add(r.s.receivables[l.ReceivableID].Amount)
		}
	}
	return sums, nil
}

// --- receivables, indexes, audit ---

type fakeReceivableRepo struct {
	repository.ReceivableRepository
	s *memStore
}

func (r *fakeReceivableRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Receivable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Receivable
	for _, id := range ids {
		if rec, ok := r.s.receivables[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeIndexRepo struct {
	repository.IndexRepository
	s *memStore
}

func (r *fakeIndexRepo) FindByID(ctx context.Context, id uint) (*models.Index, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.indexLookups++
	idx, ok := r.s.indexes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &idx, nil
}

func (r *fakeIndexRepo) MonthlyUpdates(ctx context.Context, indexID uint, from, to time.Time) ([]models.IndexMonthlyUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.IndexMonthlyUpdate
	for _, u := range r.s.updates {
		if u.IndexID == indexID && !u.Month.Before(from) && !u.Month.After(to) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

type fakeAuditRepo struct {
	repository.AuditRepository
	s *memStore
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, *entry)
	return nil
}

// recordingPublisher keeps every routing key it was asked to publish
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) record(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) PublishReceivableLinked(ctx context.Context, e events.ReceivableLinkedEvent) error {
	return p.record(events.RoutingKeyReceivableLinked)
}

func (p *recordingPublisher) PublishReceivableUnlinked(ctx context.Context, e events.ReceivableUnlinkedEvent) error {
	return p.record(events.RoutingKeyReceivableUnlinked)
}

func (p *recordingPublisher) PublishPlanRecalculated(ctx context.Context, e events.PlanRecalculatedEvent) error {
	return p.record(events.RoutingKeyPlanRecalculated)
}

func (p *recordingPublisher) PublishPlanDeleted(ctx context.Context, e events.PlanDeletedEvent) error {
	return p.record(events.RoutingKeyPlanDeleted)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, k := range p.keys {
		if k == key {
			n++
		}
	}
	return n
}
