package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/insurance-rates/audit"
	"github.com/blogem/insurance-rates/config"
	"github.com/blogem/insurance-rates/controllers"
	"github.com/blogem/insurance-rates/database"
	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/repositories"
	"github.com/blogem/insurance-rates/services"
)

// RateAPITestSuite drives the rate service router with audit events
// delivered in-process to a real log service
type RateAPITestSuite struct {
	suite.Suite
	server     *httptest.Server
	dispatcher *audit.Dispatcher
	logs       services.LogService
	importPath string
}

// SetupTest builds both services on fresh databases before each test
func (suite *RateAPITestSuite) SetupTest() {
	dir := suite.T().TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	logDB, err := database.InitializeDatabase(filepath.Join(dir, "logs.db"), database.LogsMigrations)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { logDB.Close() })
	suite.logs = services.NewLogServices(repositories.NewLogRepositories(logDB), nil, logger).Logs

	rateDB, err := database.InitializeDatabase(filepath.Join(dir, "rates.db"), database.RatesMigrations)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { rateDB.Close() })

	registry := prometheus.NewRegistry()
	suite.dispatcher = audit.NewDispatcher(audit.NewIngesterTransport(suite.logs),
		audit.WithRetry(time.Millisecond, 10*time.Millisecond, time.Second),
		audit.WithMetrics(audit.NewPrometheusMetrics(registry)),
		audit.WithLogger(logger),
	)
	suite.T().Cleanup(func() { suite.dispatcher.Close(context.Background()) })

	suite.importPath = filepath.Join(dir, "import_rates.json")
	srvs := services.NewRateServices(repositories.NewRateRepositories(rateDB), suite.dispatcher, suite.importPath)
	ctrl := controllers.NewRateControllers(srvs, rateDB)

	suite.server = httptest.NewServer(setupRouter(ctrl, registry, logger))
	suite.T().Cleanup(suite.server.Close)
}

func (suite *RateAPITestSuite) do(method, path, body string) (*http.Response, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, suite.server.URL+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp, data
}

func (suite *RateAPITestSuite) createRate(body string) models.RateRecord {
	resp, data := suite.do(http.MethodPost, "/api/v1/rates/", body)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(data))

	var rate models.RateRecord
	suite.Require().NoError(json.Unmarshal(data, &rate))
	return rate
}

// eventuallyLogged waits for the log service to hold n entries for action
func (suite *RateAPITestSuite) eventuallyLogged(action models.Action, n int) []models.LogEntry {
	var entries []models.LogEntry
	suite.Require().Eventually(func() bool {
		var err error
		entries, err = suite.logs.List(context.Background(), models.LogFilter{Action: action})
		return err == nil && len(entries) == n
	}, 2*time.Second, 10*time.Millisecond)
	return entries
}

// TestCreateRate tests POST /api/v1/rates/ and the resulting audit entry
func (suite *RateAPITestSuite) TestCreateRate() {
	rate := suite.createRate(`{"date": "2020-06-01", "cargo_type": "Glass", "rate": "0.04"}`)

	assert.NotZero(suite.T(), rate.ID)
	assert.Equal(suite.T(), "Glass", rate.CargoType)
	assert.Equal(suite.T(), "0.04", rate.Rate.String())

	entries := suite.eventuallyLogged(models.ActionCreateRate, 1)
	assert.Nil(suite.T(), entries[0].UserID)
}

// TestCreateRate_WithoutTrailingSlash tests that both route spellings work
func (suite *RateAPITestSuite) TestCreateRate_WithoutTrailingSlash() {
	resp, _ := suite.do(http.MethodPost, "/api/v1/rates", `{"date": "2020-06-01", "cargo_type": "Glass", "rate": 0.04}`)
	assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
}

// TestCreateRate_Invalid tests that validation failures answer 400 with details and log nothing
func (suite *RateAPITestSuite) TestCreateRate_Invalid() {
	resp, data := suite.do(http.MethodPost, "/api/v1/rates/", `{"date": "2020-06-01", "rate": "-1"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Contains(suite.T(), string(data), `"field":"cargo_type"`)
	assert.Contains(suite.T(), string(data), `"field":"rate"`)

	resp, _ = suite.do(http.MethodPost, "/api/v1/rates/", `{"date": "June first"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

// TestUpdatePatchDelete tests PUT, PATCH and DELETE with their audit entries
func (suite *RateAPITestSuite) TestUpdatePatchDelete() {
	rate := suite.createRate(`{"date": "2020-06-01", "cargo_type": "Glass", "rate": "0.04"}`)
	path := "/api/v1/rates/" + jsonID(rate.ID) + "/"

	resp, data := suite.do(http.MethodPut, path, `{"date": "2020-07-01", "cargo_type": "Other", "rate": "0.01"}`)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(suite.T(), `{"id":`+jsonID(rate.ID)+`,"date":"2020-07-01","cargo_type":"Other","rate":"0.01"}`, string(data))

	resp, data = suite.do(http.MethodPatch, path, `{"rate": "0.02"}`)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(suite.T(), string(data), `"cargo_type":"Other"`)
	assert.Contains(suite.T(), string(data), `"rate":"0.02"`)

	resp, _ = suite.do(http.MethodDelete, path, "")
	assert.Equal(suite.T(), http.StatusNoContent, resp.StatusCode)

	resp, _ = suite.do(http.MethodDelete, path, "")
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)

	resp, _ = suite.do(http.MethodGet, path, "")
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)

	updates := suite.eventuallyLogged(models.ActionUpdateRate, 2)
	// Newest first: the PATCH entry precedes the PUT entry
	assert.True(suite.T(), updates[0].DateTime.After(updates[1].DateTime.Time),
		"expected %s after %s", updates[0].DateTime, updates[1].DateTime)
	deletes := suite.eventuallyLogged(models.ActionDeleteRate, 1)
	assert.True(suite.T(), deletes[0].DateTime.After(updates[0].DateTime.Time))
}

// TestUpdateMissingRate tests that PUT and PATCH on a missing rate answer 404
func (suite *RateAPITestSuite) TestUpdateMissingRate() {
	resp, _ := suite.do(http.MethodPut, "/api/v1/rates/999", `{"date": "2020-07-01", "cargo_type": "Other", "rate": "0.01"}`)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)

	resp, _ = suite.do(http.MethodPatch, "/api/v1/rates/999", `{"rate": "0.01"}`)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)

	resp, _ = suite.do(http.MethodGet, "/api/v1/rates/abc", "")
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

// TestInsuranceCalculation tests GET /api/v1/insurance_calculation/ and its audit entry
func (suite *RateAPITestSuite) TestInsuranceCalculation() {
	suite.createRate(`{"date": "2020-06-01", "cargo_type": "Glass", "rate": "0.04"}`)

	resp, data := suite.do(http.MethodGet, "/api/v1/insurance_calculation/?user_id=1&date=2020-06-01&cargo_type=Glass&declared_value=1000", "")

	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(suite.T(), `{"date":"2020-06-01","cargo_type":"Glass","declared_value":"1000","rate":"0.04","insurance_cost":"40"}`, string(data))

	entries := suite.eventuallyLogged(models.ActionCalculate, 1)
	suite.Require().NotNil(entries[0].UserID)
	assert.Equal(suite.T(), int64(1), *entries[0].UserID)
}

// TestInsuranceCalculation_Errors tests missing rates and bad parameters
func (suite *RateAPITestSuite) TestInsuranceCalculation_Errors() {
	resp, _ := suite.do(http.MethodGet, "/api/v1/insurance_calculation?date=2020-06-01&cargo_type=Glass&declared_value=1000", "")
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)

	resp, data := suite.do(http.MethodGet, "/api/v1/insurance_calculation?user_id=x&date=2020-06-01&cargo_type=Glass&declared_value=ten", "")
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Contains(suite.T(), string(data), `"field":"user_id"`)
	assert.Contains(suite.T(), string(data), `"field":"declared_value"`)

	resp, _ = suite.do(http.MethodGet, "/api/v1/insurance_calculation?declared_value=10", "")
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

// TestInsuranceCalculation_NegativeUserID tests that a negative user_id is
// rejected up front instead of producing an event the log service refuses
func (suite *RateAPITestSuite) TestInsuranceCalculation_NegativeUserID() {
	suite.createRate(`{"date": "2020-06-01", "cargo_type": "Glass", "rate": "0.04"}`)

	resp, data := suite.do(http.MethodGet, "/api/v1/insurance_calculation/?user_id=-1&date=2020-06-01&cargo_type=Glass&declared_value=1000", "")
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Contains(suite.T(), string(data), `"field":"user_id"`)

	resp, data = suite.do(http.MethodGet, "/api/v1/insurance_calculation/?user_id=0&date=2020-06-01&cargo_type=Glass&declared_value=1000", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(data))

	entries := suite.eventuallyLogged(models.ActionCalculate, 1)
	suite.Require().NotNil(entries[0].UserID)
	assert.Equal(suite.T(), int64(0), *entries[0].UserID)
}

// TestRejectedEventDoesNotDropBatch tests that an event the log service
// refuses is dropped alone while the events batched with it are stored
func (suite *RateAPITestSuite) TestRejectedEventDoesNotDropBatch() {
	registry := prometheus.NewRegistry()
	transport := &gatedTransport{
		Transport: audit.NewIngesterTransport(suite.logs),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	d := audit.NewDispatcher(transport,
		audit.WithWorkers(1),
		audit.WithRetry(time.Millisecond, 10*time.Millisecond, time.Second),
		audit.WithMetrics(audit.NewPrometheusMetrics(registry)),
		audit.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	negative := int64(-1)
	d.Emit(models.NewAuditEvent(models.ActionCreateRate, nil, map[string]int64{"rate_id": 1}))
	<-transport.entered
	// Queued behind the held send, these two travel as one batch
	d.Emit(models.NewAuditEvent(models.ActionCreateRate, nil, map[string]int64{"rate_id": 2}))
	d.Emit(models.NewAuditEvent(models.ActionCalculate, &negative, nil))
	close(transport.release)
	suite.Require().NoError(d.Close(context.Background()))

	created, err := suite.logs.List(context.Background(), models.LogFilter{Action: models.ActionCreateRate})
	suite.Require().NoError(err)
	assert.Len(suite.T(), created, 2)

	calculated, err := suite.logs.List(context.Background(), models.LogFilter{Action: models.ActionCalculate})
	suite.Require().NoError(err)
	assert.Empty(suite.T(), calculated)

	dropped, err := testutil.GatherAndCount(registry, "audit_events_dropped_total")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, dropped)
}

// TestImportRates tests GET /api/v1/administration/import_rates/ from the configured file
func (suite *RateAPITestSuite) TestImportRates() {
	document := `{"2020-06-01": [{"cargo_type": "Glass", "rate": "0.04"}, {"cargo_type": "Other", "rate": "0.01"}]}`
	suite.Require().NoError(os.WriteFile(suite.importPath, []byte(document), 0o600))

	resp, data := suite.do(http.MethodGet, "/api/v1/administration/import_rates/", "")
	suite.Require().Equal(http.StatusNoContent, resp.StatusCode, string(data))

	resp, data = suite.do(http.MethodGet, "/api/v1/rates/", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	var rates []models.RateRecord
	suite.Require().NoError(json.Unmarshal(data, &rates))
	assert.Len(suite.T(), rates, 2)

	entries := suite.eventuallyLogged(models.ActionBulkLoad, 1)
	assert.JSONEq(suite.T(), `{"records":2,"dates":1}`, string(entries[0].Detail))
}

// TestImportRates_Post tests uploading a document, and that an invalid one changes nothing
func (suite *RateAPITestSuite) TestImportRates_Post() {
	resp, _ := suite.do(http.MethodPost, "/api/v1/administration/import_rates", `{"2020-06-01": [{"cargo_type": "Glass", "rate": "0.04"}], "bad": []}`)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)

	resp, data := suite.do(http.MethodGet, "/api/v1/rates", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	assert.JSONEq(suite.T(), `[]`, string(data))

	resp, _ = suite.do(http.MethodPost, "/api/v1/administration/import_rates", `{"2020-06-01": [{"cargo_type": "Glass", "rate": "0.04"}]}`)
	assert.Equal(suite.T(), http.StatusNoContent, resp.StatusCode)
	suite.eventuallyLogged(models.ActionBulkLoad, 1)
}

// TestImportRates_MissingSource tests that a missing import file answers 400
func (suite *RateAPITestSuite) TestImportRates_MissingSource() {
	resp, data := suite.do(http.MethodGet, "/api/v1/administration/import_rates/", "")
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Contains(suite.T(), string(data), `"field":"source"`)
}

// TestHealthAndMetrics tests the operational endpoints
func (suite *RateAPITestSuite) TestHealthAndMetrics() {
	resp, data := suite.do(http.MethodGet, "/health", "")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.JSONEq(suite.T(), `{"status":"healthy","service":"ratesvc"}`, string(data))

	suite.createRate(`{"date": "2020-06-01", "cargo_type": "Glass", "rate": "0.04"}`)
	resp, data = suite.do(http.MethodGet, "/metrics", "")
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(suite.T(), string(data), `audit_events_emitted_total{action="create_insurance_rate"} 1`)
}

// gatedTransport holds its first Send until release is closed
type gatedTransport struct {
	audit.Transport
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedTransport) Send(ctx context.Context, events []models.AuditEvent) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Transport.Send(ctx, events)
}

func jsonID(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}

func TestRunRateAPITestSuite(t *testing.T) {
	suite.Run(t, new(RateAPITestSuite))
}

func TestNewEmitter_None(t *testing.T) {
	emitter, closeFn, err := newEmitter(configNone(), prometheus.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, audit.NopEmitter{}, emitter)
}

func configNone() config.Audit {
	return config.Audit{Transport: config.TransportNone}
}
