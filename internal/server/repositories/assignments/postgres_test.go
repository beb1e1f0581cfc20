package assignments

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/assignhub/internal/common"
	"github.com/dmitrijs2005/assignhub/internal/domain"
)

const (
	assignmentID = "3f1c2a7e-9a4b-4d6c-8e2f-1a2b3c4d5e6f"
	ownerID      = "0e8f7d6c-5b4a-4392-8170-6f5e4d3c2b1a"
	helperID     = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

var assignmentColumns = []string{"id", "owner_id", "owner_name", "helper_id", "helper_name",
	"title", "description", "complexity", "category", "deadline", "payment_amount", "helper_payout",
	"attachments", "completed_work_attachments", "status", "review_notes", "transaction_id",
	"created_at", "updated_at", "completed_at", "paid_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var deadline = time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)

func pendingRow(rows *sqlmock.Rows) *sqlmock.Rows {
	return rows.AddRow(assignmentID, ownerID, "olga", nil, nil,
		"Essay", "Write about Java", "medium", "Programming - Java", deadline, 100.0, 25.0,
		[]byte(`[{"url":"/files/k1","filename":"brief.pdf"}]`), []byte(`[]`), "pending", "", "",
		deadline.Add(-48*time.Hour), deadline.Add(-48*time.Hour), nil, nil)
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+a\.id,.*FROM\s+assignments\s+a.*WHERE\s+a\.id\s*=\s*\$1$`).
		WithArgs(assignmentID).
		WillReturnRows(pendingRow(sqlmock.NewRows(assignmentColumns)))

	got, err := repo.GetByID(context.Background(), assignmentID)
	require.NoError(t, err)

	assert.Equal(t, assignmentID, got.ID)
	assert.True(t, got.Owner.Is(ownerID))
	assert.Equal(t, "olga", got.Owner.Name())
	assert.True(t, got.Helper.Empty())
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, domain.ComplexityMedium, got.Complexity)
	require.NotNil(t, got.HelperPayout)
	assert.Equal(t, 25.0, *got.HelperPayout)
	assert.Equal(t, []string{"brief.pdf"}, domain.Filenames(got.Attachments))
	assert.NotNil(t, got.CompletedWorkAttachments)
	assert.Nil(t, got.PaidAt)
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+a\.id\s*=\s*\$1\s+FOR\s+UPDATE\s+OF\s+a$`).
		WithArgs(assignmentID).
		WillReturnRows(pendingRow(sqlmock.NewRows(assignmentColumns)))

	_, err := repo.GetForUpdate(context.Background(), assignmentID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+assignments`).WithArgs(assignmentID).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), assignmentID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+assignments\s*\(owner_id,.*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`).
		WithArgs(ownerID, "Essay", "Write", "low", "Writing", deadline, 50.0, nil,
			[]byte(`[{"url":"/files/k","filename":"a.txt"}]`), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(assignmentID, now, now))

	a := &domain.Assignment{
		Owner:         domain.Ref(ownerID),
		Title:         "Essay",
		Description:   "Write",
		Complexity:    domain.ComplexityLow,
		Category:      "Writing",
		Deadline:      deadline,
		PaymentAmount: 50,
		Attachments:   []domain.Attachment{{URL: "/files/k", Filename: "a.txt"}},
	}
	got, err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, assignmentID, got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.NotNil(t, got.CompletedWorkAttachments)
}

func TestList_BuildsFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)WHERE\s+a\.status\s*=\s*\$1\s+AND\s+a\.helper_id\s*=\s*\$2\s+ORDER\s+BY\s+a\.created_at\s+DESC$`).
		WithArgs("accepted", helperID).
		WillReturnRows(sqlmock.NewRows(assignmentColumns))

	got, err := repo.List(context.Background(), Filter{Status: domain.StatusAccepted, HelperID: helperID})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_Unassigned(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)WHERE\s+a\.status\s*=\s*\$1\s+AND\s+a\.helper_id\s+IS\s+NULL\s+ORDER`).
		WithArgs("pending").
		WillReturnRows(pendingRow(sqlmock.NewRows(assignmentColumns)))

	got, err := repo.List(context.Background(), Filter{Status: domain.StatusPending, Unassigned: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Essay", got[0].Title)
}

func TestList_InvalidOwnerMatchesNothing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.List(context.Background(), Filter{OwnerID: "x"})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOverdue(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT\s+id\s+FROM\s+assignments\s+WHERE\s+status\s*=\s*\$1\s+AND\s+deadline\s*<\s*\$2`).
		WithArgs("accepted", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(assignmentID))

	ids, err := repo.ListOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{assignmentID}, ids)
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	paid := deadline
	a := &domain.Assignment{
		ID:            assignmentID,
		Helper:        domain.Ref(helperID),
		HelperPayout:  domain.Float(25),
		Status:        domain.StatusPaid,
		TransactionID: "tx-1",
		UpdatedAt:     paid,
		PaidAt:        &paid,
	}

	mock.ExpectExec(`(?s)^UPDATE\s+assignments\s+SET\s+helper_id\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs(assignmentID, helperID, 25.0, []byte(`[]`), "paid", "", "tx-1", paid, nil, paid).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+assignments`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Assignment{ID: assignmentID, Status: domain.StatusPending})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFinancialSummary(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SUM\(payment_amount\).*FROM\s+assignments\s+WHERE\s+status\s*=\s*\$1`).
		WithArgs("paid").
		WillReturnRows(sqlmock.NewRows([]string{"clients", "helpers", "profit"}).AddRow(300.0, 120.0, 180.0))

	got, err := repo.FinancialSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FinancialSummary{TotalClientPayments: 300, TotalHelperPayouts: 120, PlatformProfit: 180}, *got)
}

func TestFinancialSummary_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SUM`).WillReturnError(errors.New("db err"))

	_, err := repo.FinancialSummary(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
