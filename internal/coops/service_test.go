package coops

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/shared"
)

type stubRepo struct {
	coops   []Cooperative
	members map[int64][]Membership
	joinErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{members: make(map[int64][]Membership)}
}

// Create mirrors the real repository contract: the creator's leader
// membership lands together with the cooperative.
func (r *stubRepo) Create(_ context.Context, coop Cooperative) (Cooperative, error) {
	coop.ID = int64(len(r.coops) + 1)
	coop.CreatedAt = time.Now()
	r.coops = append(r.coops, coop)
	r.members[coop.ID] = []Membership{{
		CoopID: coop.ID, FarmerID: coop.CreatedBy, Role: MemberRoleLeader, JoinedAt: coop.CreatedAt,
	}}
	coop.MemberCount = 1
	return coop, nil
}

func (r *stubRepo) List(_ context.Context) ([]Cooperative, error) {
	return r.coops, nil
}

func (r *stubRepo) Join(_ context.Context, coopID, farmerID int64) (Membership, error) {
	if r.joinErr != nil {
		return Membership{}, r.joinErr
	}
	m := Membership{CoopID: coopID, FarmerID: farmerID, Role: MemberRoleMember, JoinedAt: time.Now()}
	r.members[coopID] = append(r.members[coopID], m)
	return m, nil
}

func (r *stubRepo) Leave(_ context.Context, coopID, farmerID int64) error {
	for i, m := range r.members[coopID] {
		if m.FarmerID == farmerID {
			r.members[coopID] = append(r.members[coopID][:i], r.members[coopID][i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *stubRepo) Memberships(_ context.Context, farmerID int64) ([]Membership, error) {
	var out []Membership
	for _, ms := range r.members {
		for _, m := range ms {
			if m.FarmerID == farmerID {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

var _ Repository = (*stubRepo)(nil)

func TestUniqueViolationMapsToDuplicate(t *testing.T) {
	err := mapConstraintErr(&pgconn.PgError{Code: "23505", ConstraintName: "cooperative_members_pkey"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestForeignKeyViolationMapsToNotFound(t *testing.T) {
	err := mapConstraintErr(&pgconn.PgError{Code: "23503", ConstraintName: "cooperative_members_coop_id_fkey"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestWrappedConstraintErrorStillMaps(t *testing.T) {
	wrapped := fmt.Errorf("join cooperative: %w", &pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, mapConstraintErr(wrapped), httpx.ErrDuplicate)
}

func TestUnrelatedErrorPassesThrough(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	require.Equal(t, cause, mapConstraintErr(cause))
}

func TestCreateEnrollsCreatorAsLeader(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	coop, err := svc.Create(context.Background(), 7, CreateParams{Name: "Sahiwal Kissan Ittehad", Region: "Sahiwal"})
	require.NoError(t, err)
	require.Equal(t, int64(7), coop.CreatedBy)
	require.Equal(t, int64(1), coop.MemberCount)

	memberships, err := svc.Memberships(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	require.Equal(t, MemberRoleLeader, memberships[0].Role)
}

func TestCreateDefaultsPurpose(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	coop, err := svc.Create(context.Background(), 7, CreateParams{Name: "Okara Growers", Region: "Okara"})
	require.NoError(t, err)
	require.Equal(t, DefaultPurpose, coop.Purpose)
}

func TestCreateValidatesNameAndRegion(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Create(context.Background(), 7, CreateParams{Region: "Okara"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), 7, CreateParams{Name: "Okara Growers"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestJoinSurfacesDuplicateMembership(t *testing.T) {
	repo := newStubRepo()
	repo.joinErr = mapConstraintErr(&pgconn.PgError{Code: "23505", ConstraintName: "cooperative_members_pkey"})
	svc := NewService(repo)

	_, err := svc.Join(context.Background(), 3, 7)
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestJoinRejectsBadID(t *testing.T) {
	svc := NewService(newStubRepo())
	_, err := svc.Join(context.Background(), 0, 7)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestLeaveUnknownMembershipNotFound(t *testing.T) {
	svc := NewService(newStubRepo())
	require.ErrorIs(t, svc.Leave(context.Background(), 3, 7), shared.ErrNotFound)
}
