package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazi-fengshui/bazi"
)

type stubOracle struct{}

func (stubOracle) SolarToLunar(year, month, day int) (bazi.EightChar, error) {
	return bazi.EightChar{
		YearStem: "己", YearBranch: "巳",
		MonthStem: "丁", MonthBranch: "丑",
		DayStem: "庚", DayBranch: "辰",
	}, nil
}

func (o stubOracle) SolarToLunarWithTime(year, month, day, hour int) (bazi.EightChar, error) {
	ec, _ := o.SolarToLunar(year, month, day)
	ec.HourStem, ec.HourBranch = "癸", "未"
	return ec, nil
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *ReadingRepository) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := Open(conn)
	require.NoError(t, err)
	return mock, NewReadingRepository(db)
}

func sampleAnalysis(t *testing.T) (bazi.Request, *bazi.Analysis) {
	t.Helper()
	req := bazi.Request{BirthDate: "1990-01-15", BirthTime: "14:30"}
	a, err := bazi.NewEngine(stubOracle{}).Analyze(req)
	require.NoError(t, err)
	return req, a
}

var readingColumns = []string{
	"id", "birth_date", "birth_time", "model", "day_master", "day_master_element",
	"strength", "lucky_elements", "unlucky_elements", "payload", "created_at",
}

func TestNewReading(t *testing.T) {
	req, a := sampleAnalysis(t)

	r, err := NewReading(req, a)
	require.NoError(t, err)
	assert.Equal(t, "1990-01-15", r.BirthDate)
	assert.Equal(t, "庚", r.DayMaster)
	assert.Equal(t, "metal", r.DayMasterElement)
	assert.Equal(t, "strong", r.Strength)
	assert.Equal(t, []string{"wood", "fire", "water"}, []string(r.LuckyElements))
	assert.Equal(t, []string{"earth", "metal"}, []string(r.UnluckyElements))

	decoded, err := r.Analysis()
	require.NoError(t, err)
	assert.Equal(t, a.LuckyElements, decoded.LuckyElements)
	require.NotNil(t, decoded.Chart.Hour)
	assert.Equal(t, bazi.Water, decoded.Chart.Hour.StemValue().Element())

	_, err = NewReading(req, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveAssignsID(t *testing.T) {
	mock, repo := setupMockDB(t)
	req, a := sampleAnalysis(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "readings"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r, err := repo.Save(context.Background(), req, a)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.False(t, r.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWrapsDriverErrors(t *testing.T) {
	mock, repo := setupMockDB(t)
	req, a := sampleAnalysis(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "readings"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Save(context.Background(), req, a)
	var dbErr *DBError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "SaveReading", dbErr.Operation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	mock, repo := setupMockDB(t)
	req, a := sampleAnalysis(t)
	r, err := NewReading(req, a)
	require.NoError(t, err)

	id := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows(readingColumns).AddRow(
		id.String(), r.BirthDate, r.BirthTime, r.Model, r.DayMaster, r.DayMasterElement,
		r.Strength, "{wood,fire,water}", "{earth,metal}", []byte(r.Payload), created,
	)
	mock.ExpectQuery(`SELECT \* FROM "readings" WHERE id = \$1`).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, []string{"wood", "fire", "water"}, []string(got.LuckyElements))
	assert.Equal(t, created, got.CreatedAt.UTC())

	decoded, err := got.Analysis()
	require.NoError(t, err)
	assert.Equal(t, "庚", decoded.DayMaster)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "readings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(readingColumns))

	_, err := repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRejectsMalformedID(t *testing.T) {
	_, repo := setupMockDB(t)

	_, err := repo.Get(context.Background(), "not-a-uuid")
	var ierr *InputError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "not-a-uuid", ierr.Value)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestListRecent(t *testing.T) {
	mock, repo := setupMockDB(t)

	rows := sqlmock.NewRows(readingColumns)
	for i := 0; i < 2; i++ {
		rows.AddRow(uuid.NewString(), "1990-01-15", "", "rich", "庚", "metal", "strong",
			"{wood}", "{earth}", []byte(`{}`), time.Now())
	}
	mock.ExpectQuery(`SELECT \* FROM "readings" ORDER BY created_at DESC LIMIT`).
		WillReturnRows(rows)

	got, err := repo.ListRecent(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecentWrapsErrors(t *testing.T) {
	mock, repo := setupMockDB(t)

	boom := errors.New("relation does not exist")
	mock.ExpectQuery(`SELECT \* FROM "readings"`).WillReturnError(boom)

	_, err := repo.ListRecent(context.Background(), 0)
	assert.ErrorIs(t, err, boom)
}
