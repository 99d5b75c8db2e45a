package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/receivable360/backend/internal/application/action"
	"github.com/receivable360/backend/internal/application/importing"
	"github.com/receivable360/backend/internal/application/report"
	"github.com/receivable360/backend/internal/application/settings"
	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/infrastructure/persistence"
	"github.com/receivable360/backend/internal/infrastructure/persistence/models"
	"github.com/receivable360/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine *gin.Engine
	db     *persistence.Database
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.RegionModel{},
		&models.CustomerModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
		&models.SettingModel{},
		&models.ActionModel{},
	))

	db := &persistence.Database{DB: gdb}
	logger := zap.NewNop()

	customerRepo := persistence.NewGormCustomerRepository(gdb)
	regionRepo := persistence.NewGormRegionRepository(gdb)
	invoiceRepo := persistence.NewGormInvoiceRepository(gdb)
	paymentRepo := persistence.NewGormPaymentRepository(gdb)
	settingRepo := persistence.NewGormSettingRepository(gdb)
	actionRepo := persistence.NewGormActionRepository(gdb)

	settingsSvc := settings.NewSettingsService(settingRepo, logger)
	customerReports := report.NewCustomerReportService(customerRepo, invoiceRepo, paymentRepo, settingsSvc, logger)
	regionReports := report.NewRegionReportService(regionRepo, customerRepo, invoiceRepo, paymentRepo, customerReports, settingsSvc, logger)
	dashboard := report.NewDashboardService(invoiceRepo, paymentRepo, settingsSvc, logger)
	lossExport := report.NewLossExportService(customerRepo, paymentRepo, settingsSvc, logger)
	actionsSvc := action.NewActionService(actionRepo, logger)

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Register(NewHealthHandler(db)).
		Register(NewDashboardHandler(dashboard)).
		Register(NewImportHandler(
			importing.NewInvoiceImportService(db, logger),
			importing.NewPaymentImportService(db, logger),
			importing.NewRegionImportService(db, logger),
			1<<20,
		)).
		Register(NewCustomerReportHandler(customerReports, lossExport)).
		Register(NewRegionReportHandler(regionReports)).
		Register(NewSettingsHandler(settingsSvc)).
		Register(NewActionHandler(actionsSvc))
	r.Setup()

	return &testServer{engine: engine, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) getJSON(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	w := s.do(t, http.MethodGet, path, nil, "")
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	return w.Code, envelope
}

// uploadCSV posts csv content as a multipart file upload.
func (s *testServer) uploadCSV(t *testing.T, path, filename, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return s.do(t, http.MethodPost, path, &buf, mw.FormDataContentType())
}

func (s *testServer) seedInvoice(t *testing.T, customerNo, name, invoiceNo string, balance int64, due time.Time) {
	t.Helper()
	ctx := context.Background()
	customerRepo := persistence.NewGormCustomerRepository(s.db.DB)
	customer, err := customerRepo.FindByCustomerNo(ctx, customerNo)
	if err != nil {
		customer = &receivable.Customer{CustomerNo: &customerNo, Name: name}
		require.NoError(t, customerRepo.Save(ctx, customer))
	}
	require.NoError(t, persistence.NewGormInvoiceRepository(s.db.DB).Save(ctx, &receivable.Invoice{
		InvoiceNo:    invoiceNo,
		CustomerNo:   &customerNo,
		CustomerName: name,
		OpenBalance:  decimal.NewFromInt(balance),
		DueDate:      &due,
	}))
}

func TestHealthEndpoint(t *testing.T) {
	s := setupServer(t)

	code, envelope := s.getJSON(t, "/api/v1/health")
	assert.Equal(t, http.StatusOK, code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "ok", data["database"])
}

func TestInvoiceUploadEndpoint(t *testing.T) {
	s := setupServer(t)

	csv := strings.Join([]string{
		"Transaction Number,Customer Number,Customer Name,Date,Due Date,Invoice Currency Code,Total Amount,Open Balance",
		"INV-1,C-1,Acme,2025-05-01,2025-06-15,TRY,1000,400",
		"INV-2,C-1,Acme,2025-05-10,2025-06-25,TRY,2000,2000",
	}, "\n")

	w := s.uploadCSV(t, "/api/v1/imports/invoices", "invoices.csv", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Success bool
		Data    importing.InvoiceImportResult
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 2, envelope.Data.TotalRows)
	assert.Equal(t, 2, envelope.Data.Imported)

	t.Run("missing file is a 400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/imports/invoices", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing key column is a 400", func(t *testing.T) {
		w := s.uploadCSV(t, "/api/v1/imports/invoices", "broken.csv", "Some Column\nvalue")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported extension is a 415", func(t *testing.T) {
		w := s.uploadCSV(t, "/api/v1/imports/invoices", "invoices.pdf", csv)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("header-only file imports zero rows", func(t *testing.T) {
		header := "Transaction Number,Customer Number,Customer Name,Date,Due Date,Invoice Currency Code,Total Amount,Open Balance\n"
		w := s.uploadCSV(t, "/api/v1/imports/invoices", "empty.csv", header)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var envelope struct {
			Success bool
			Data    importing.InvoiceImportResult
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Zero(t, envelope.Data.TotalRows)
		assert.Zero(t, envelope.Data.Imported)
	})
}

func TestPaymentUploadEndpoint(t *testing.T) {
	s := setupServer(t)

	csv := strings.Join([]string{
		"Müşteri No,Müşteri Adı,AR Fatura No,Ödeme Valör Tarihi,Ödeme Tarihi,Fatura Tarihi,Uygulanan Tutar,Ödeme Tutar TRY",
		"C-1,Acme,INV-1,2025-06-10,2025-06-10,2025-04-01,100000,100000",
	}, "\n")

	w := s.uploadCSV(t, "/api/v1/imports/payments", "payments.csv", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data importing.PaymentImportResult
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Inserted)
}

func TestRegionUploadEndpoint(t *testing.T) {
	s := setupServer(t)
	s.seedInvoice(t, "C-1", "Acme", "INV-1", 1000, time.Now().AddDate(0, 0, 30))

	csv := "Customer Number,Customer Name,Region Name\nC-1,Acme,West"
	w := s.uploadCSV(t, "/api/v1/imports/customer-regions", "regions.csv", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data importing.RegionImportResult
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Updated)
}

func TestDashboardEndpoint(t *testing.T) {
	s := setupServer(t)
	s.seedInvoice(t, "C-1", "Acme", "INV-1", 1000, time.Now().AddDate(0, 0, -10))

	code, envelope := s.getJSON(t, "/api/v1/dashboard")
	require.Equal(t, http.StatusOK, code)
	data := envelope["data"].(map[string]any)
	assert.InDelta(t, 1000, data["total_open"].(float64), 0.001)
	assert.InDelta(t, 1000, data["overdue"].(float64), 0.001)
	assert.Equal(t, 45.0, data["cost_of_cash_annual"])
}

func TestCustomerEndpoints(t *testing.T) {
	s := setupServer(t)
	s.seedInvoice(t, "C-1", "Acme", "INV-1", 1000, time.Now().AddDate(0, 0, -30))
	s.seedInvoice(t, "C-2", "Beta", "INV-2", 500, time.Now().AddDate(0, 0, 30))

	t.Run("list", func(t *testing.T) {
		code, envelope := s.getJSON(t, "/api/v1/customers")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, envelope["data"].([]any), 2)
	})

	t.Run("summary", func(t *testing.T) {
		code, envelope := s.getJSON(t, "/api/v1/customers/C-1/summary")
		require.Equal(t, http.StatusOK, code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "Acme", data["customer_name"])
		assert.InDelta(t, 1000, data["total_open"].(float64), 0.001)
	})

	t.Run("summary of unknown customer is a 404", func(t *testing.T) {
		code, envelope := s.getJSON(t, "/api/v1/customers/C-404/summary")
		assert.Equal(t, http.StatusNotFound, code)
		errInfo := envelope["error"].(map[string]any)
		assert.Equal(t, "ERR_NOT_FOUND", errInfo["code"])
	})

	t.Run("top risky honors limit", func(t *testing.T) {
		code, envelope := s.getJSON(t, "/api/v1/customers/top-risky?limit=1")
		require.Equal(t, http.StatusOK, code)
		customers := envelope["data"].([]any)
		require.Len(t, customers, 1)
		first := customers[0].(map[string]any)
		assert.Equal(t, "Acme", first["customer_name"])
	})

	t.Run("top risky rejects a bad region id", func(t *testing.T) {
		code, _ := s.getJSON(t, "/api/v1/customers/top-risky?region_id=west")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("invoices", func(t *testing.T) {
		code, envelope := s.getJSON(t, "/api/v1/customers/C-1/invoices")
		require.Equal(t, http.StatusOK, code)
		lines := envelope["data"].([]any)
		require.Len(t, lines, 1)
		line := lines[0].(map[string]any)
		assert.Equal(t, true, line["is_overdue"])
	})

	t.Run("late payments of unknown customer is a 404", func(t *testing.T) {
		code, _ := s.getJSON(t, "/api/v1/customers/C-404/late-payments")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("financial loss export", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/customers/C-1/financial-loss-export", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "Finansal_Kayip_Acme.xlsx")
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.NotZero(t, w.Body.Len())
	})
}

func TestRegionEndpoints(t *testing.T) {
	s := setupServer(t)
	s.seedInvoice(t, "C-1", "Acme", "INV-1", 1000, time.Now().AddDate(0, 0, -10))

	t.Run("summary buckets unassigned customers under Unknown", func(t *testing.T) {
		code, envelope := s.getJSON(t, "/api/v1/regions/summary")
		require.Equal(t, http.StatusOK, code)
		summaries := envelope["data"].([]any)
		require.Len(t, summaries, 1)
		first := summaries[0].(map[string]any)
		assert.Equal(t, "Unknown", first["region_name"])
		assert.Nil(t, first["region_id"])
	})

	t.Run("customers of unknown region is a 404", func(t *testing.T) {
		code, _ := s.getJSON(t, "/api/v1/regions/99/customers")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("non-numeric region id is a 400", func(t *testing.T) {
		code, _ := s.getJSON(t, "/api/v1/regions/west/customers")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	s := setupServer(t)

	code, envelope := s.getJSON(t, "/api/v1/settings")
	require.Equal(t, http.StatusOK, code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, 45.0, data["cost_of_cash_annual"])
	assert.Equal(t, 36.0, data["late_fee_rate_annual"])

	t.Run("update round trip", func(t *testing.T) {
		body := bytes.NewBufferString(`{"cost_of_cash_annual": 50, "late_fee_rate_annual": 30}`)
		w := s.do(t, http.MethodPut, "/api/v1/settings", body, "application/json")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		code, envelope := s.getJSON(t, "/api/v1/settings")
		require.Equal(t, http.StatusOK, code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, 50.0, data["cost_of_cash_annual"])
		assert.Equal(t, 30.0, data["late_fee_rate_annual"])
	})

	t.Run("missing rate is a 400", func(t *testing.T) {
		body := bytes.NewBufferString(`{"cost_of_cash_annual": 50}`)
		w := s.do(t, http.MethodPut, "/api/v1/settings", body, "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative rate is a 400", func(t *testing.T) {
		body := bytes.NewBufferString(`{"cost_of_cash_annual": -1, "late_fee_rate_annual": 30}`)
		w := s.do(t, http.MethodPut, "/api/v1/settings", body, "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})
}

func TestActionEndpoints(t *testing.T) {
	s := setupServer(t)

	body := bytes.NewBufferString(`{"customer_no": "C-1", "customer_name": "Acme", "action_type": "call", "note": "chase"}`)
	w := s.do(t, http.MethodPost, "/api/v1/actions", body, "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data ActionResponse
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "open", created.Data.Status)

	t.Run("missing action type is a 400", func(t *testing.T) {
		body := bytes.NewBufferString(`{"customer_name": "Acme"}`)
		w := s.do(t, http.MethodPost, "/api/v1/actions", body, "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list filters by customer", func(t *testing.T) {
		code, envelope := s.getJSON(t, "/api/v1/actions?customer_no=C-1")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, envelope["data"].([]any), 1)

		code, envelope = s.getJSON(t, "/api/v1/actions?customer_no=C-2")
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, envelope["data"])
	})

	t.Run("close", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/actions/%s/close", created.Data.ID)
		w := s.do(t, http.MethodPatch, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var closed struct {
			Data ActionResponse
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &closed))
		assert.Equal(t, "done", closed.Data.Status)
	})

	t.Run("close with a bad id is a 400", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/actions/not-a-uuid/close", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
