package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/repositories/mocks"
)

// recordingEmitter keeps every emitted event for inspection
type recordingEmitter struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (e *recordingEmitter) Emit(evt models.AuditEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *recordingEmitter) Events() []models.AuditEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.AuditEvent(nil), e.events...)
}

func date(s string) models.Date {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return models.NewDate(t)
}

func ptr[T any](v T) *T {
	return &v
}

// RateServiceTestSuite exercises the rate service through its auditing decorator
type RateServiceTestSuite struct {
	suite.Suite
	service      RateService
	mockRateRepo *mocks.MockRateRepository
	emitter      *recordingEmitter
	ctx          context.Context
}

// SetupTest sets up the test suite before each test
func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = mocks.NewMockRateRepository(suite.T())
	suite.emitter = &recordingEmitter{}
	suite.service = NewAuditedRateService(NewRateService(suite.mockRateRepo), suite.emitter)
	suite.ctx = context.Background()
}

func (suite *RateServiceTestSuite) validForm() *models.RateForm {
	d := date("2020-06-01")
	rate := decimal.RequireFromString("0.04")
	return &models.RateForm{Date: &d, CargoType: ptr(" Glass "), Rate: &rate}
}

func (suite *RateServiceTestSuite) singleEvent(action models.Action) models.AuditEvent {
	events := suite.emitter.Events()
	require.Len(suite.T(), events, 1)
	assert.Equal(suite.T(), action, events[0].Action)
	assert.NotEmpty(suite.T(), events[0].EventID)
	assert.False(suite.T(), events[0].OccurredAt.IsZero())
	return events[0]
}

// TestCreateRate_Success tests that a created rate is stored trimmed and audited once
func (suite *RateServiceTestSuite) TestCreateRate_Success() {
	suite.mockRateRepo.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*models.RateRecord")).
		Run(func(_ context.Context, rate *models.RateRecord) { rate.ID = 7 }).
		Return(nil)

	rate, err := suite.service.CreateRate(suite.ctx, suite.validForm())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), rate.ID)
	assert.Equal(suite.T(), "Glass", rate.CargoType)

	evt := suite.singleEvent(models.ActionCreateRate)
	assert.Nil(suite.T(), evt.UserID)
	assert.JSONEq(suite.T(), `{"rate_id":7}`, string(evt.Detail))
}

// TestCreateRate_ValidationFailure tests that invalid input never reaches the store or the audit log
func (suite *RateServiceTestSuite) TestCreateRate_ValidationFailure() {
	zero := decimal.Zero
	form := &models.RateForm{CargoType: ptr(""), Rate: &zero}

	rate, err := suite.service.CreateRate(suite.ctx, form)

	assert.Nil(suite.T(), rate)
	assert.ErrorIs(suite.T(), err, models.ErrValidation)
	errs, ok := models.AsValidationErrors(err)
	require.True(suite.T(), ok)
	assert.Len(suite.T(), errs, 3)
	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestCreateRate_RepositoryError tests that a failed write is not audited
func (suite *RateServiceTestSuite) TestCreateRate_RepositoryError() {
	suite.mockRateRepo.EXPECT().Create(mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := suite.service.CreateRate(suite.ctx, suite.validForm())

	assert.ErrorContains(suite.T(), err, "failed to create rate")
	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestUpdateRate_NotFound tests that updating a missing rate reports NotFound without an event
func (suite *RateServiceTestSuite) TestUpdateRate_NotFound() {
	suite.mockRateRepo.EXPECT().Update(mock.Anything, mock.Anything).
		Return(fmt.Errorf("rate with ID 42: %w", models.ErrNotFound))

	_, err := suite.service.UpdateRate(suite.ctx, 42, suite.validForm())

	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestUpdateRate_Success tests a full replacement
func (suite *RateServiceTestSuite) TestUpdateRate_Success() {
	suite.mockRateRepo.EXPECT().
		Update(mock.Anything, mock.MatchedBy(func(r *models.RateRecord) bool { return r.ID == 3 })).
		Return(nil)

	rate, err := suite.service.UpdateRate(suite.ctx, 3, suite.validForm())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), rate.ID)
	evt := suite.singleEvent(models.ActionUpdateRate)
	assert.JSONEq(suite.T(), `{"rate_id":3}`, string(evt.Detail))
}

// TestPatchRate_OnlySuppliedFields tests that a patch keeps unspecified fields and emits an update event
func (suite *RateServiceTestSuite) TestPatchRate_OnlySuppliedFields() {
	existing := &models.RateRecord{ID: 5, Date: date("2020-06-01"), CargoType: "Glass", Rate: decimal.RequireFromString("0.04")}
	suite.mockRateRepo.EXPECT().GetByID(mock.Anything, int64(5)).Return(existing, nil)
	suite.mockRateRepo.EXPECT().Update(mock.Anything, existing).Return(nil)

	newRate := decimal.RequireFromString("0.035")
	rate, err := suite.service.PatchRate(suite.ctx, 5, &models.RatePatch{Rate: &newRate})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Glass", rate.CargoType)
	assert.Equal(suite.T(), "2020-06-01", rate.Date.String())
	assert.True(suite.T(), newRate.Equal(rate.Rate))
	suite.singleEvent(models.ActionUpdateRate)
}

// TestPatchRate_NotFound tests that patching a missing rate does not write or emit
func (suite *RateServiceTestSuite) TestPatchRate_NotFound() {
	suite.mockRateRepo.EXPECT().GetByID(mock.Anything, int64(9)).Return(nil, models.ErrNotFound)

	_, err := suite.service.PatchRate(suite.ctx, 9, &models.RatePatch{CargoType: ptr("Other")})

	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestDeleteRate_Twice tests that the second delete of the same rate fails and only the first is audited
func (suite *RateServiceTestSuite) TestDeleteRate_Twice() {
	suite.mockRateRepo.EXPECT().Delete(mock.Anything, int64(4)).Return(nil).Once()
	suite.mockRateRepo.EXPECT().Delete(mock.Anything, int64(4)).Return(models.ErrNotFound).Once()

	require.NoError(suite.T(), suite.service.DeleteRate(suite.ctx, 4))
	err := suite.service.DeleteRate(suite.ctx, 4)

	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	evt := suite.singleEvent(models.ActionDeleteRate)
	assert.JSONEq(suite.T(), `{"rate_id":4}`, string(evt.Detail))
}

// TestCalculate_Success tests the premium computation and that the caller's user ID is audited
func (suite *RateServiceTestSuite) TestCalculate_Success() {
	suite.mockRateRepo.EXPECT().FindByDateAndCargoType(mock.Anything, date("2020-06-01"), "Glass").
		Return(&models.RateRecord{ID: 1, Date: date("2020-06-01"), CargoType: "Glass", Rate: decimal.RequireFromString("0.04")}, nil)

	calc, err := suite.service.Calculate(suite.ctx, &models.CalculationRequest{
		UserID:        ptr(int64(12)),
		Date:          date("2020-06-01"),
		CargoType:     "Glass",
		DeclaredValue: decimal.RequireFromString("1000"),
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "40", calc.InsuranceCost.String())

	evt := suite.singleEvent(models.ActionCalculate)
	require.NotNil(suite.T(), evt.UserID)
	assert.Equal(suite.T(), int64(12), *evt.UserID)

	var detail map[string]any
	require.NoError(suite.T(), json.Unmarshal(evt.Detail, &detail))
	assert.Equal(suite.T(), "Glass", detail["cargo_type"])
	assert.Equal(suite.T(), "40", detail["insurance_cost"])
}

// TestCalculate_ZeroDeclaredValue tests that a zero declared value yields a zero premium
func (suite *RateServiceTestSuite) TestCalculate_ZeroDeclaredValue() {
	suite.mockRateRepo.EXPECT().FindByDateAndCargoType(mock.Anything, mock.Anything, "Glass").
		Return(&models.RateRecord{ID: 1, Date: date("2020-06-01"), CargoType: "Glass", Rate: decimal.RequireFromString("0.04")}, nil)

	calc, err := suite.service.Calculate(suite.ctx, &models.CalculationRequest{
		Date:          date("2020-06-01"),
		CargoType:     "Glass",
		DeclaredValue: decimal.Zero,
	})

	require.NoError(suite.T(), err)
	assert.True(suite.T(), calc.InsuranceCost.IsZero())
}

// TestCalculate_NoRate tests that a missing rate reports NotFound and is not audited
func (suite *RateServiceTestSuite) TestCalculate_NoRate() {
	suite.mockRateRepo.EXPECT().FindByDateAndCargoType(mock.Anything, mock.Anything, "Wood").
		Return(nil, models.ErrNotFound)

	_, err := suite.service.Calculate(suite.ctx, &models.CalculationRequest{
		Date:          date("2021-01-01"),
		CargoType:     "Wood",
		DeclaredValue: decimal.RequireFromString("10"),
	})

	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestCalculate_NegativeDeclaredValue tests input validation
func (suite *RateServiceTestSuite) TestCalculate_NegativeDeclaredValue() {
	_, err := suite.service.Calculate(suite.ctx, &models.CalculationRequest{
		Date:          date("2021-01-01"),
		CargoType:     "Wood",
		DeclaredValue: decimal.RequireFromString("-1"),
	})

	assert.ErrorIs(suite.T(), err, models.ErrValidation)
	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestCalculate_NegativeUserID tests that a negative user id is rejected before any lookup
func (suite *RateServiceTestSuite) TestCalculate_NegativeUserID() {
	_, err := suite.service.Calculate(suite.ctx, &models.CalculationRequest{
		UserID:        ptr(int64(-1)),
		Date:          date("2021-01-01"),
		CargoType:     "Wood",
		DeclaredValue: decimal.RequireFromString("10"),
	})

	assert.ErrorIs(suite.T(), err, models.ErrValidation)
	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestReadsAreNotAudited tests that listing and fetching rates emit nothing
func (suite *RateServiceTestSuite) TestReadsAreNotAudited() {
	suite.mockRateRepo.EXPECT().GetAll(mock.Anything).Return([]models.RateRecord{{ID: 1}}, nil)
	suite.mockRateRepo.EXPECT().GetByID(mock.Anything, int64(1)).Return(&models.RateRecord{ID: 1}, nil)

	rates, err := suite.service.ListRates(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), rates, 1)

	_, err = suite.service.GetRate(suite.ctx, 1)
	require.NoError(suite.T(), err)

	assert.Empty(suite.T(), suite.emitter.Events())
}

// TestGetRate_InvalidID tests that non-positive IDs are treated as missing without a query
func (suite *RateServiceTestSuite) TestGetRate_InvalidID() {
	_, err := suite.service.GetRate(suite.ctx, 0)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func TestRunRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
