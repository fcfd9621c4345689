package usecase

import (
	"context"
	"time"

	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/infrastructure/metrics"
)

// GroupUseCase handles group and roster business logic.
type GroupUseCase struct {
	txManager  TransactionManager
	groupRepo  GroupRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *GroupUseCase {
	return &GroupUseCase{
		txManager:  txManager,
		groupRepo:  groupRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// WithMetrics enables Prometheus instrumentation.
func (uc *GroupUseCase) WithMetrics(m *metrics.Metrics) *GroupUseCase {
	uc.metrics = m
	return uc
}

// CreateGroupInput represents input for creating a group.
type CreateGroupInput struct {
	Name    string
	Creator domain.Address
	Members []domain.Address
}

// CreateGroup creates a new group. The creator is always on the roster;
// if absent from the member list it becomes the first member.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	members := input.Members
	found := false
	for _, m := range members {
		if m == input.Creator {
			found = true
			break
		}
	}
	if !found {
		members = append([]domain.Address{input.Creator}, members...)
	}

	now := time.Now().UTC()
	group := &domain.Group{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Creator:   input.Creator,
		Members:   members,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := group.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.groupRepo.Create(txCtx, tx, group); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   group.ID,
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeGroupCreated,
		Payload: map[string]any{
			"group_id": group.ID,
			"name":     group.Name,
			"creator":  group.Creator.String(),
			"members":  len(group.Members),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.GroupsCreated.Inc()
	}

	return group, nil
}

// GetGroup retrieves a group with its full roster.
func (uc *GroupUseCase) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return uc.groupRepo.GetByID(ctx, id)
}

// ListGroupsInput represents input for listing groups.
type ListGroupsInput struct {
	Limit  int
	Offset int
}

// ListGroups lists groups with pagination.
func (uc *GroupUseCase) ListGroups(ctx context.Context, input ListGroupsInput) ([]*domain.Group, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.groupRepo.List(ctx, input.Limit, input.Offset)
}

// AddMember appends a member to the roster with a zero starting
// balance. Roster changes bump the group version so cached balance
// snapshots roll over.
func (uc *GroupUseCase) AddMember(ctx context.Context, groupID string, member domain.Address) (*domain.Group, error) {
	if member.IsZero() {
		return nil, domain.ErrInvalidAddress
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	group, err := uc.groupRepo.GetByIDForUpdate(txCtx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(member) {
		return nil, domain.ErrMemberExists
	}

	now := time.Now().UTC()
	if err := uc.groupRepo.AddMember(txCtx, tx, groupID, member, now); err != nil {
		return nil, err
	}
	version, err := uc.groupRepo.BumpVersion(txCtx, tx, groupID, now)
	if err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   groupID,
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeMemberAdded,
		Payload: map[string]any{
			"group_id": groupID,
			"member":   member.String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MembersAdded.Inc()
	}

	group.Members = append(group.Members, member)
	group.Version = version
	group.UpdatedAt = now
	return group, nil
}

// RemoveMember drops a member from the roster. History is append-only,
// so removal is refused while the member appears in any recorded
// expense or settlement; a member with history necessarily still counts
// toward the balance fold.
func (uc *GroupUseCase) RemoveMember(ctx context.Context, groupID string, member domain.Address) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	group, err := uc.groupRepo.GetByIDForUpdate(txCtx, tx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(member) {
		return domain.ErrNotAGroupMember
	}
	if len(group.Members) == 1 {
		return domain.ErrEmptyRoster
	}

	hasHistory, err := uc.groupRepo.MemberHasHistory(txCtx, groupID, member)
	if err != nil {
		return err
	}
	if hasHistory {
		return domain.ErrMemberHasHistory
	}

	now := time.Now().UTC()
	if err := uc.groupRepo.RemoveMember(txCtx, tx, groupID, member); err != nil {
		return err
	}
	if _, err := uc.groupRepo.BumpVersion(txCtx, tx, groupID, now); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   groupID,
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeMemberRemoved,
		Payload: map[string]any{
			"group_id": groupID,
			"member":   member.String(),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.MembersRemoved.Inc()
	}

	return nil
}
