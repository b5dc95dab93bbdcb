package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallvet/clinica/internal/audit"
	auditdomain "github.com/smallvet/clinica/internal/audit/domain"
	"github.com/smallvet/clinica/internal/billing"
	billingdomain "github.com/smallvet/clinica/internal/billing/domain"
	"github.com/smallvet/clinica/internal/client"
	clientdomain "github.com/smallvet/clinica/internal/client/domain"
	"github.com/smallvet/clinica/internal/config"
	"github.com/smallvet/clinica/internal/inventory"
	inventorydomain "github.com/smallvet/clinica/internal/inventory/domain"
	"github.com/smallvet/clinica/internal/labtest"
	labtestdomain "github.com/smallvet/clinica/internal/labtest/domain"
	"github.com/smallvet/clinica/internal/observability"
	obsmiddleware "github.com/smallvet/clinica/internal/observability/logger"
	obsmetrics "github.com/smallvet/clinica/internal/observability/metrics"
	obstracing "github.com/smallvet/clinica/internal/observability/tracing"
	"github.com/smallvet/clinica/internal/patient"
	patientdomain "github.com/smallvet/clinica/internal/patient/domain"
	"github.com/smallvet/clinica/internal/pricelist"
	pricelistdomain "github.com/smallvet/clinica/internal/pricelist/domain"
	"github.com/smallvet/clinica/internal/providers/pdf"
	"github.com/smallvet/clinica/internal/ratelimit"
	"github.com/smallvet/clinica/internal/referral"
	referraldomain "github.com/smallvet/clinica/internal/referral/domain"
	"github.com/smallvet/clinica/internal/vaccination"
	vaccinationdomain "github.com/smallvet/clinica/internal/vaccination/domain"
	"github.com/smallvet/clinica/internal/visit"
	visitdomain "github.com/smallvet/clinica/internal/visit/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	audit.Module,
	client.Module,
	patient.Module,
	visit.Module,
	pricelist.Module,
	labtest.Module,
	vaccination.Module,
	inventory.Module,
	referral.Module,
	billing.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	clinicCfg *config.ClinicConfigHolder

	auditSvc       auditdomain.Service
	billingSvc     billingdomain.Service
	clientSvc      clientdomain.Service
	patientSvc     patientdomain.Service
	visitSvc       visitdomain.Service
	priceListSvc   pricelistdomain.Service
	labTestSvc     labtestdomain.Service
	vaccinationSvc vaccinationdomain.Service
	inventorySvc   inventorydomain.Service
	referralSvc    referraldomain.Service

	pdfProvider    pdf.Provider
	receiptLimiter *ratelimit.PublicReceiptLimiter
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	ClinicCfg *config.ClinicConfigHolder

	AuditSvc       auditdomain.Service
	BillingSvc     billingdomain.Service
	ClientSvc      clientdomain.Service
	PatientSvc     patientdomain.Service
	VisitSvc       visitdomain.Service
	PriceListSvc   pricelistdomain.Service
	LabTestSvc     labtestdomain.Service
	VaccinationSvc vaccinationdomain.Service
	InventorySvc   inventorydomain.Service
	ReferralSvc    referraldomain.Service

	PDFProvider    pdf.Provider
	ReceiptLimiter *ratelimit.PublicReceiptLimiter `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics             `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		clinicCfg:      p.ClinicCfg,
		auditSvc:       p.AuditSvc,
		billingSvc:     p.BillingSvc,
		clientSvc:      p.ClientSvc,
		patientSvc:     p.PatientSvc,
		visitSvc:       p.VisitSvc,
		priceListSvc:   p.PriceListSvc,
		labTestSvc:     p.LabTestSvc,
		vaccinationSvc: p.VaccinationSvc,
		inventorySvc:   p.InventorySvc,
		referralSvc:    p.ReferralSvc,
		pdfProvider:    p.PDFProvider,
		receiptLimiter: p.ReceiptLimiter,
		obsMetrics:     p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.ClinicContext())

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.GET("/clients/:id/price-list", s.ListPriceList)

	// -------- Patients --------
	api.GET("/patients", s.ListPatients)
	api.POST("/patients", s.CreatePatient)
	api.GET("/patients/:id", s.GetPatientByID)
	api.PATCH("/patients/:id", s.UpdatePatient)
	api.GET("/patients/:id/lab-tests", s.ListPatientLabTests)
	api.GET("/patients/:id/vaccinations", s.ListPatientVaccinations)

	// -------- Visits --------
	api.GET("/visits", s.ListVisits)
	api.POST("/visits", s.CreateVisit)
	api.GET("/visits/:id", s.GetVisitByID)
	api.PATCH("/visits/:id", s.UpdateVisit)
	api.POST("/visits/:id/complete", s.CompleteVisit)
	api.GET("/visits/:id/lab-tests", s.ListVisitLabTests)

	// -------- Price lists --------
	api.POST("/price-list", s.CreatePriceListItem)
	api.PATCH("/price-list/:id", s.UpdatePriceListItem)
	api.DELETE("/price-list/:id", s.DeletePriceListItem)

	// -------- Lab tests --------
	api.POST("/lab-tests", s.CreateLabTest)
	api.PATCH("/lab-tests/:id", s.UpdateLabTest)

	// -------- Vaccinations --------
	api.POST("/vaccinations", s.CreateVaccination)
	api.GET("/vaccinations/due", s.ListDueVaccinations)

	// -------- Inventory --------
	api.GET("/inventory/products", s.ListProducts)
	api.POST("/inventory/products", s.CreateProduct)
	api.GET("/inventory/products/:id", s.GetProductByID)
	api.PATCH("/inventory/products/:id", s.UpdateProduct)
	api.GET("/inventory/products/:id/movements", s.ListStockMovements)
	api.POST("/inventory/products/:id/movements", s.RecordStockMovement)
	api.GET("/inventory/low-stock", s.ListLowStock)

	// -------- Referrals --------
	api.GET("/referrals", s.ListReferrals)
	api.POST("/referrals", s.CreateReferral)
	api.POST("/referrals/:id/read", s.MarkReferralRead)
	api.GET("/referrals/unread-count", s.CountUnreadReferrals)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/unbilled", s.ListUnbilledVisits)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.POST("/invoices/:id/payments", s.AppendInvoicePayment)
	api.GET("/invoices/:id/pdf", s.RenderInvoicePDF)

	// -------- Audit --------
	api.GET("/audit-logs", s.ListAuditLogs)
}

// Shared receipt links are sent to pet owners, so these routes skip the
// clinic header and authenticate by share token alone.
func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")

	public.GET("/receipts/:token", s.ReceiptRateLimit(), s.GetSharedReceipt)
	public.GET("/receipts/:token/pdf", s.ReceiptRateLimit(), s.RenderSharedReceiptPDF)
}
