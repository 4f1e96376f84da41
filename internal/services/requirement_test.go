package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/workflow"
	"procurement-system/pkg/contextkeys"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

// --- FAKES ---

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakePolicy struct {
	denied map[string]bool
	calls  []string
}

func (p *fakePolicy) Check(ctx context.Context, permission string) error {
	p.calls = append(p.calls, permission)
	if p.denied[permission] {
		return apperrors.NewForbiddenError("access denied")
	}
	return nil
}

func (p *fakePolicy) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	return nil, nil
}

func (p *fakePolicy) InvalidateRolePermissionsCache(ctx context.Context, roleID uint64) error {
	return nil
}

type fakeRequirementRepo struct {
	requests map[uint64]*entities.RequirementRequest
	nextID   uint64
}

func newFakeRequirementRepo() *fakeRequirementRepo {
	return &fakeRequirementRepo{requests: make(map[uint64]*entities.RequirementRequest)}
}

func (r *fakeRequirementRepo) CreateRequestInTx(ctx context.Context, tx pgx.Tx, request entities.RequirementRequest) (uint64, error) {
	r.nextID++
	request.ID = r.nextID
	r.requests[request.ID] = &request
	return request.ID, nil
}

func (r *fakeRequirementRepo) FindRequest(ctx context.Context, id uint64) (*entities.RequirementRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeRequirementRepo) FindRequestInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequirementRequest, error) {
	return r.FindRequest(ctx, id)
}

func (r *fakeRequirementRepo) GetRequests(ctx context.Context, filter types.Filter) ([]entities.RequirementRequest, uint64, error) {
	result := make([]entities.RequirementRequest, 0, len(r.requests))
	for _, request := range r.requests {
		result = append(result, *request)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeRequirementRepo) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status workflow.Status) error {
	request, ok := r.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	request.Status = status
	return nil
}

type fakeApprovalRepo struct {
	approvals map[uint64][]entities.CommitteeApproval
	nextID    uint64
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{approvals: make(map[uint64][]entities.CommitteeApproval)}
}

func (r *fakeApprovalRepo) AddApprovalInTx(ctx context.Context, tx pgx.Tx, approval entities.CommitteeApproval) (uint64, error) {
	r.nextID++
	approval.ID = r.nextID
	r.approvals[approval.RequestID] = append(r.approvals[approval.RequestID], approval)
	return approval.ID, nil
}

func (r *fakeApprovalRepo) GetApprovalsByRequest(ctx context.Context, requestID uint64) ([]entities.CommitteeApproval, error) {
	return r.approvals[requestID], nil
}

func (r *fakeApprovalRepo) GetApprovalsByRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64) ([]entities.CommitteeApproval, error) {
	return r.approvals[requestID], nil
}

type fakeAuditRepo struct {
	entries    []entities.AuditEntry
	failAppend bool
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry entities.AuditEntry) error {
	if r.failAppend {
		return errors.New("audit store unavailable")
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) GetByEntity(ctx context.Context, entityType string, entityID uint64) ([]entities.AuditEntry, error) {
	result := make([]entities.AuditEntry, 0)
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

// --- TEST WIRING ---

type requirementFixture struct {
	service         RequirementServiceInterface
	requirementRepo *fakeRequirementRepo
	approvalRepo    *fakeApprovalRepo
	auditRepo       *fakeAuditRepo
	policy          *fakePolicy
}

func newRequirementFixture() *requirementFixture {
	f := &requirementFixture{
		requirementRepo: newFakeRequirementRepo(),
		approvalRepo:    newFakeApprovalRepo(),
		auditRepo:       &fakeAuditRepo{},
		policy:          &fakePolicy{denied: make(map[string]bool)},
	}
	f.service = NewRequirementService(
		fakeTxManager{},
		f.requirementRepo,
		f.approvalRepo,
		f.auditRepo,
		f.policy,
		zap.NewNop(),
	)
	return f
}

func authedContext() context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, 7)
	ctx = context.WithValue(ctx, contextkeys.UserRoleIDKey, uint64(2))
	ctx = context.WithValue(ctx, contextkeys.SourceIPKey, "10.0.0.5")
	ctx = context.WithValue(ctx, contextkeys.UserAgentKey, "integration-test")
	return ctx
}

func (f *requirementFixture) seedRequest(gate workflow.Gate, status workflow.Status) uint64 {
	f.requirementRepo.nextID++
	id := f.requirementRepo.nextID
	f.requirementRepo.requests[id] = &entities.RequirementRequest{
		ID:            id,
		RequestNumber: "REQ-SEEDED",
		Hospital:      "Central Hospital",
		Specialty:     "Cardiology",
		DepartmentID:  3,
		FiscalYear:    2026,
		TotalValue:    8_000_000,
		ApprovalGate:  gate,
		Status:        status,
		CreatorID:     7,
	}
	return id
}

func (f *requirementFixture) seedApproval(requestID uint64, role workflow.Role, decision workflow.Decision) {
	_, _ = f.approvalRepo.AddApprovalInTx(context.Background(), nil, entities.CommitteeApproval{
		RequestID:  requestID,
		Role:       role,
		Decision:   decision,
		ApproverID: 99,
	})
}

func requireForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden), "expected a forbidden error, got: %v", err)
}

// --- CREATE ---

func TestCreateRequestFreezesGateFromTotal(t *testing.T) {
	f := newRequirementFixture()

	// 2 * 3,000,000 + 1 * 2,000,000 = 8,000,000 — inside the fatwa band.
	created, err := f.service.CreateRequest(authedContext(), dto.CreateRequirementRequestDTO{
		Hospital:     "Central Hospital",
		Specialty:    "Cardiology",
		DepartmentID: 3,
		FiscalYear:   2026,
		Items: []dto.CreateRequirementItemDTO{
			{Description: "MRI coil", Quantity: 2, EstimatedUnitPrice: 3_000_000},
			{Description: "Workstation", Quantity: 1, EstimatedUnitPrice: 2_000_000},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, int64(8_000_000), created.TotalValue)
	assert.Equal(t, string(workflow.GateFatwa), created.ApprovalGate)
	assert.Contains(t, created.RequestNumber, "REQ-")

	stored := f.requirementRepo.requests[created.ID]
	require.NotNil(t, stored)
	assert.Equal(t, workflow.StatusDraft, stored.Status)
	assert.Equal(t, workflow.GateFatwa, stored.ApprovalGate)
	assert.Len(t, stored.Items, 2)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, entities.AuditActionCreate, f.auditRepo.entries[0].Action)
	assert.Equal(t, created.ID, f.auditRepo.entries[0].EntityID)
	assert.Equal(t, "10.0.0.5", f.auditRepo.entries[0].SourceIP)
}

func TestCreateRequestHighValueGetsCtcAuditGate(t *testing.T) {
	f := newRequirementFixture()

	created, err := f.service.CreateRequest(authedContext(), dto.CreateRequirementRequestDTO{
		Hospital:     "Central Hospital",
		Specialty:    "Oncology",
		DepartmentID: 4,
		FiscalYear:   2026,
		Items: []dto.CreateRequirementItemDTO{
			{Description: "Linear accelerator", Quantity: 1, EstimatedUnitPrice: 12_000_000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.GateCtcAudit), created.ApprovalGate)
}

func TestCreateRequestDeniedWithoutPermission(t *testing.T) {
	f := newRequirementFixture()
	f.policy.denied["requirements:create"] = true

	_, err := f.service.CreateRequest(authedContext(), dto.CreateRequirementRequestDTO{
		Hospital:     "Central Hospital",
		Specialty:    "Cardiology",
		DepartmentID: 3,
		FiscalYear:   2026,
		Items: []dto.CreateRequirementItemDTO{
			{Description: "Syringes", Quantity: 10, EstimatedUnitPrice: 100},
		},
	})
	requireForbidden(t, err)
	assert.Empty(t, f.requirementRepo.requests, "denied request must not touch storage")
	assert.Empty(t, f.auditRepo.entries)
}

// --- STATUS TRANSITIONS ---

func TestUpdateStatusCheckpointBlockedUntilGateSatisfied(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateFatwa, workflow.StatusDraft)

	payload := dto.UpdateRequirementStatusDTO{Status: string(workflow.StatusSubmittedToCms)}

	// No approvals at all.
	err := f.service.UpdateStatus(authedContext(), id, payload)
	requireForbidden(t, err)
	assert.Contains(t, err.Error(), "required approvals not completed")
	assert.Equal(t, workflow.StatusDraft, f.requirementRepo.requests[id].Status)

	// Committee head alone does not satisfy the fatwa gate.
	f.seedApproval(id, workflow.RoleCommitteeHead, workflow.DecisionApproved)
	err = f.service.UpdateStatus(authedContext(), id, payload)
	requireForbidden(t, err)

	// Fatwa approval completes the set.
	f.seedApproval(id, workflow.RoleFatwa, workflow.DecisionApproved)
	err = f.service.UpdateStatus(authedContext(), id, payload)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusSubmittedToCms, f.requirementRepo.requests[id].Status)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, entities.AuditActionStatusChange, f.auditRepo.entries[0].Action)
}

func TestUpdateStatusCtcAuditGateNeedsAllFourRoles(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateCtcAudit, workflow.StatusAwardApproved)

	f.seedApproval(id, workflow.RoleCommitteeHead, workflow.DecisionApproved)
	f.seedApproval(id, workflow.RoleFatwa, workflow.DecisionApproved)
	f.seedApproval(id, workflow.RoleCtc, workflow.DecisionApproved)

	payload := dto.UpdateRequirementStatusDTO{Status: string(workflow.StatusContractIssued)}
	err := f.service.UpdateStatus(authedContext(), id, payload)
	requireForbidden(t, err)

	f.seedApproval(id, workflow.RoleAudit, workflow.DecisionApproved)
	err = f.service.UpdateStatus(authedContext(), id, payload)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusContractIssued, f.requirementRepo.requests[id].Status)
}

func TestUpdateStatusRejectionThenApprovalRedeems(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateFatwa, workflow.StatusCommitteeApproved)

	f.seedApproval(id, workflow.RoleCommitteeHead, workflow.DecisionApproved)
	f.seedApproval(id, workflow.RoleFatwa, workflow.DecisionRejected)

	payload := dto.UpdateRequirementStatusDTO{Status: string(workflow.StatusBudgetAllocated)}
	err := f.service.UpdateStatus(authedContext(), id, payload)
	requireForbidden(t, err)

	// A later approved entry by the same role supersedes the rejection.
	f.seedApproval(id, workflow.RoleFatwa, workflow.DecisionApproved)
	err = f.service.UpdateStatus(authedContext(), id, payload)
	require.NoError(t, err)
}

func TestUpdateStatusNonCheckpointSkipsLedger(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateCtcAudit, workflow.StatusDraft)

	// No approvals recorded; non-checkpoint statuses never consult the ledger.
	for _, status := range []workflow.Status{
		workflow.StatusDepartmentReview,
		workflow.StatusCommitteePending,
		workflow.StatusRejected,
		workflow.StatusDraft,
	} {
		err := f.service.UpdateStatus(authedContext(), id, dto.UpdateRequirementStatusDTO{Status: string(status)})
		require.NoError(t, err, "status %q should not require approvals", status)
		assert.Equal(t, status, f.requirementRepo.requests[id].Status)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateCommittee, workflow.StatusDraft)

	err := f.service.UpdateStatus(authedContext(), id, dto.UpdateRequirementStatusDTO{Status: "shipped"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	assert.Equal(t, workflow.StatusDraft, f.requirementRepo.requests[id].Status)
}

func TestUpdateStatusUnknownRequest(t *testing.T) {
	f := newRequirementFixture()

	err := f.service.UpdateStatus(authedContext(), 404, dto.UpdateRequirementStatusDTO{Status: string(workflow.StatusRejected)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateStatusDeniedWithoutEditPermission(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateCommittee, workflow.StatusDraft)
	f.policy.denied["requirements:edit"] = true

	err := f.service.UpdateStatus(authedContext(), id, dto.UpdateRequirementStatusDTO{Status: string(workflow.StatusRejected)})
	requireForbidden(t, err)
	assert.Equal(t, workflow.StatusDraft, f.requirementRepo.requests[id].Status)
}

// --- APPROVAL LEDGER ---

func TestAddApprovalAppendsToLedger(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateFatwa, workflow.StatusCommitteePending)

	note := "reviewed in committee session 14"
	err := f.service.AddApproval(authedContext(), id, dto.CreateCommitteeApprovalDTO{
		Role:     string(workflow.RoleCommitteeHead),
		Decision: string(workflow.DecisionApproved),
		Note:     &note,
	})
	require.NoError(t, err)

	stored := f.approvalRepo.approvals[id]
	require.Len(t, stored, 1)
	assert.Equal(t, workflow.RoleCommitteeHead, stored[0].Role)
	assert.Equal(t, workflow.DecisionApproved, stored[0].Decision)
	assert.Equal(t, 7, stored[0].ApproverID)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, entities.AuditActionApproval, f.auditRepo.entries[0].Action)
}

func TestAddApprovalDuplicatesAreKept(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateCommittee, workflow.StatusCommitteePending)

	payload := dto.CreateCommitteeApprovalDTO{
		Role:     string(workflow.RoleCommitteeHead),
		Decision: string(workflow.DecisionApproved),
	}
	require.NoError(t, f.service.AddApproval(authedContext(), id, payload))
	require.NoError(t, f.service.AddApproval(authedContext(), id, payload))

	assert.Len(t, f.approvalRepo.approvals[id], 2, "the ledger is append-only, duplicates stay")
}

func TestAddApprovalAnyRoleRecordedRegardlessOfGate(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateCommittee, workflow.StatusCommitteePending)

	// The audit role is irrelevant for a committee-gated request, but the
	// ledger accepts it; relevance is decided at transition time.
	err := f.service.AddApproval(authedContext(), id, dto.CreateCommitteeApprovalDTO{
		Role:     string(workflow.RoleAudit),
		Decision: string(workflow.DecisionApproved),
	})
	require.NoError(t, err)
	assert.Len(t, f.approvalRepo.approvals[id], 1)
}

func TestAddApprovalRejectsUnknownRoleAndDecision(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateFatwa, workflow.StatusCommitteePending)

	err := f.service.AddApproval(authedContext(), id, dto.CreateCommitteeApprovalDTO{
		Role:     "ministry",
		Decision: string(workflow.DecisionApproved),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	err = f.service.AddApproval(authedContext(), id, dto.CreateCommitteeApprovalDTO{
		Role:     string(workflow.RoleFatwa),
		Decision: "maybe",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	assert.Empty(t, f.approvalRepo.approvals[id])
}

func TestAddApprovalUnknownRequest(t *testing.T) {
	f := newRequirementFixture()

	err := f.service.AddApproval(authedContext(), 404, dto.CreateCommitteeApprovalDTO{
		Role:     string(workflow.RoleFatwa),
		Decision: string(workflow.DecisionApproved),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

// --- AUDIT TRAIL ---

func TestAuditFailureDoesNotBlockMutation(t *testing.T) {
	f := newRequirementFixture()
	f.auditRepo.failAppend = true
	id := f.seedRequest(workflow.GateCommittee, workflow.StatusCommitteePending)

	err := f.service.AddApproval(authedContext(), id, dto.CreateCommitteeApprovalDTO{
		Role:     string(workflow.RoleCommitteeHead),
		Decision: string(workflow.DecisionApproved),
	})
	require.NoError(t, err, "a failed audit write never rolls back the mutation")
	assert.Len(t, f.approvalRepo.approvals[id], 1)
}

func TestGetAuditTrailReturnsEntriesForRequest(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateCommittee, workflow.StatusDraft)

	require.NoError(t, f.service.AddApproval(authedContext(), id, dto.CreateCommitteeApprovalDTO{
		Role:     string(workflow.RoleCommitteeHead),
		Decision: string(workflow.DecisionApproved),
	}))
	require.NoError(t, f.service.UpdateStatus(authedContext(), id, dto.UpdateRequirementStatusDTO{
		Status: string(workflow.StatusSubmittedToCms),
	}))

	trail, err := f.service.GetAuditTrail(authedContext(), id)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, string(entities.AuditActionApproval), trail[0].Action)
	assert.Equal(t, string(entities.AuditActionStatusChange), trail[1].Action)
}

// --- READS ---

func TestFindRequestRequiresViewPermission(t *testing.T) {
	f := newRequirementFixture()
	id := f.seedRequest(workflow.GateFatwa, workflow.StatusDraft)
	f.policy.denied["requirements:view"] = true

	_, err := f.service.FindRequest(authedContext(), id)
	requireForbidden(t, err)
}

func TestGetApprovalsForUnknownRequest(t *testing.T) {
	f := newRequirementFixture()

	_, err := f.service.GetApprovals(authedContext(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
