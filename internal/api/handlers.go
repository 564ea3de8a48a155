package api

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"restaurant-analytics/internal/apperror"
	"restaurant-analytics/internal/cache"
	"restaurant-analytics/internal/engine"
	"restaurant-analytics/internal/models"
	"restaurant-analytics/internal/report"
)

const (
	defaultPageSize = 50
	dashboardTopN   = 10
	storeKey        = "store"
)

type Options struct {
	Location    *time.Location
	DefaultDate time.Time
	Thresholds  engine.Thresholds
	Hours       engine.BusinessHours
	// Now is the clock behind to=today. Defaults to time.Now.
	Now func() time.Time
}

type Handler struct {
	store   atomic.Pointer[engine.Store]
	reports *cache.Reports
	opts    Options
}

// NewHandler returns a handler with no data. Every /api route answers 503
// until SetStore is called.
func NewHandler(reports *cache.Reports, opts Options) *Handler {
	if reports == nil {
		reports = cache.New(nil)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Thresholds == (engine.Thresholds{}) {
		opts.Thresholds = engine.DefaultThresholds
	}
	if opts.Hours == (engine.BusinessHours{}) {
		opts.Hours = engine.DefaultBusinessHours
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{reports: reports, opts: opts}
}

// SetStore swaps in freshly loaded data. Safe to call while serving.
func (h *Handler) SetStore(s *engine.Store) {
	h.store.Store(s)
}

func (h *Handler) Ready() bool {
	return h.store.Load() != nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/api/navigate", h.Navigate)

	api := e.Group("/api", h.requireStore)
	api.GET("/kpi", h.GetKPI)
	api.GET("/customers", h.GetCustomers)
	api.GET("/payments/methods", h.GetPaymentMethods)
	api.GET("/products", h.GetProducts)
	api.GET("/sales/series", h.GetSalesSeries)
	api.GET("/sales/table", h.GetSalesTable)
	api.GET("/dashboard", h.GetDashboard)
}

// requireStore pins the current store for the whole request.
func (h *Handler) requireStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := h.store.Load()
		if s == nil {
			return apperror.ErrNotReady
		}
		c.Set(storeKey, s)
		return next(c)
	}
}

func storeOf(c echo.Context) *engine.Store {
	return c.Get(storeKey).(*engine.Store)
}

// --- PARAMS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// paginate returns items[offset:offset+limit], clamped to len(items).
func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	if limit > len(items)-offset {
		return items[offset:]
	}
	return items[offset : offset+limit]
}

func (h *Handler) reportContext(c echo.Context) (report.Context, error) {
	rc, err := report.Parse(c.QueryParam("mode"), c.QueryParam("date"), h.opts.Location, h.opts.DefaultDate)
	if err != nil {
		return report.Context{}, apperror.NewBadRequestError(err.Error())
	}
	return rc, nil
}

func scaleParam(c echo.Context) (engine.Granularity, error) {
	g, err := engine.ParseGranularity(c.QueryParam("scale"))
	if err != nil {
		return "", apperror.NewBadRequestError(err.Error())
	}
	return g, nil
}

func comparisonParam(c echo.Context) (report.Comparison, error) {
	cmp, err := report.ParseComparison(c.QueryParam("compare"))
	if err != nil {
		return "", apperror.NewBadRequestError(err.Error())
	}
	return cmp, nil
}

func boolParam(c echo.Context, name string) (bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperror.NewBadRequestError(name + " must be true or false")
	}
	return b, nil
}

func floatParam(c echo.Context, name string, fallback float64) (float64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperror.NewBadRequestError(name + " must be a number")
	}
	return f, nil
}

func (h *Handler) thresholdParams(c echo.Context) (engine.Thresholds, error) {
	a, err := floatParam(c, "threshold_a", h.opts.Thresholds.A)
	if err != nil {
		return engine.Thresholds{}, err
	}
	b, err := floatParam(c, "threshold_b", h.opts.Thresholds.B)
	if err != nil {
		return engine.Thresholds{}, err
	}
	t := engine.Thresholds{A: a, B: b}
	if err := t.Validate(); err != nil {
		return engine.Thresholds{}, apperror.NewBadRequestError(err.Error())
	}
	return t, nil
}

// cacheKey identifies a report by route, data version and query string.
func cacheKey(c echo.Context, name string) string {
	return cache.Key(name, storeOf(c).Version, c.QueryParams().Encode())
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	resp := HealthResponse{Status: "ok"}
	if s := h.store.Load(); s != nil {
		resp.Ready = true
		resp.Version = s.Version
	}
	return c.JSON(http.StatusOK, resp)
}

// Navigate applies one step (to=prev|next|today|daily|monthly) to the
// context given by mode, date and last_daily. It needs no data.
func (h *Handler) Navigate(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}
	if v := c.QueryParam("last_daily"); v != "" {
		last, err := report.Parse(string(report.Daily), v, h.opts.Location, h.opts.DefaultDate)
		if err != nil {
			return apperror.NewBadRequestError("last_daily: " + err.Error())
		}
		rc.LastDaily = last.Anchor
	}

	switch to := c.QueryParam("to"); to {
	case "":
	case "prev":
		rc = rc.Prev()
	case "next":
		rc = rc.Next()
	case "today":
		rc = rc.Today(h.opts.Now())
	case string(report.Daily), string(report.Monthly):
		rc = rc.SwitchMode(report.Mode(to))
	default:
		return apperror.NewBadRequestError("to must be prev, next, today, daily or monthly")
	}

	return c.JSON(http.StatusOK, NavigationResponse{
		Mode:      string(rc.Mode),
		Date:      rc.Date(),
		LastDaily: rc.LastDaily.Format(report.DateLayout),
		Prev:      rc.Prev().Date(),
		Next:      rc.Next().Date(),
	})
}

func (h *Handler) GetKPI(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}
	cmp, err := comparisonParam(c)
	if err != nil {
		return err
	}

	s := storeOf(c)
	resp := cache.Fetch(c.Request().Context(), h.reports, cacheKey(c, "kpi"), func() KPIResponse {
		cur := s.Period(rc)
		kpi := engine.CalculateKPI(cur.Orders, cur.Payments)
		resp := KPIResponse{Mode: string(rc.Mode), Date: rc.Date(), KPI: kpi}
		if prevCtx, ok := rc.Compare(cmp); ok {
			prev := s.Period(prevCtx)
			comparison := engine.CompareKPI(kpi, engine.CalculateKPI(prev.Orders, prev.Payments), rc.Label(cmp))
			resp.Comparison = &comparison
		}
		return resp
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetCustomers(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}
	scale, err := scaleParam(c)
	if err != nil {
		return err
	}
	pad, err := boolParam(c, "pad")
	if err != nil {
		return err
	}

	s := storeOf(c)
	resp := cache.Fetch(c.Request().Context(), h.reports, cacheKey(c, "customers"), func() CustomersResponse {
		g := engine.CustomerGranularity(rc, scale)
		buckets := engine.BucketCustomers(s.Period(rc).Orders, g)
		if pad {
			buckets = engine.PadBuckets(buckets, g, h.opts.Hours)
		}
		return CustomersResponse{
			Mode:    string(rc.Mode),
			Date:    rc.Date(),
			Scale:   g,
			Ticks:   engine.TickLabels(g, h.opts.Hours),
			Buckets: buckets,
		}
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetPaymentMethods(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}

	s := storeOf(c)
	resp := cache.Fetch(c.Request().Context(), h.reports, cacheKey(c, "payments"), func() PaymentMethodsResponse {
		return PaymentMethodsResponse{
			Mode:    string(rc.Mode),
			Date:    rc.Date(),
			Methods: engine.AggregateByMethod(s.Period(rc).Payments),
		}
	})
	return c.JSON(http.StatusOK, resp)
}

// GetProducts ranks the whole catalog for the period, then filters, sorts
// and pages it. Ranks are computed before filtering.
func (h *Handler) GetProducts(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}
	metric, err := engine.ParseMetric(c.QueryParam("sort"))
	if err != nil {
		return apperror.NewBadRequestError(err.Error())
	}
	thresholds, err := h.thresholdParams(c)
	if err != nil {
		return err
	}
	filter := engine.ProductFilter{
		Menu:        c.QueryParam("menu"),
		Category:    c.QueryParam("category"),
		SubCategory: c.QueryParam("sub_category"),
		Query:       c.QueryParam("q"),
	}
	limit, offset := getPaginationParams(c, defaultPageSize)

	s := storeOf(c)
	resp := cache.Fetch(c.Request().Context(), h.reports, cacheKey(c, "products"), func() ProductsResponse {
		items := engine.FilterABC(s.RankProducts(s.Period(rc), thresholds), filter)
		items = engine.SortABC(items, metric)

		total := len(items)
		page := paginate(items, offset, limit)
		return ProductsResponse{
			Mode:       string(rc.Mode),
			Date:       rc.Date(),
			Data:       page,
			Total:      total,
			Limit:      limit,
			Offset:     offset,
			Totals:     engine.ABCTotals(items),
			Thresholds: thresholds,
		}
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) salesSeries(c echo.Context, rc report.Context) []models.SalesPoint {
	s := storeOf(c)
	p := s.Period(rc)
	return engine.SalesSeries(p.Orders, p.Payments, p.Items, s.Products, engine.SalesGranularity(rc))
}

func (h *Handler) GetSalesSeries(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}

	resp := cache.Fetch(c.Request().Context(), h.reports, cacheKey(c, "sales-series"), func() SalesSeriesResponse {
		return SalesSeriesResponse{
			Mode:   string(rc.Mode),
			Date:   rc.Date(),
			Scale:  engine.SalesGranularity(rc),
			Points: h.salesSeries(c, rc),
		}
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetSalesTable(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}

	resp := cache.Fetch(c.Request().Context(), h.reports, cacheKey(c, "sales-table"), func() SalesTableResponse {
		return SalesTableResponse{
			Mode:  string(rc.Mode),
			Date:  rc.Date(),
			Table: engine.DetailTable(h.salesSeries(c, rc)),
		}
	})
	return c.JSON(http.StatusOK, resp)
}

// GetDashboard answers every widget in one call. Without compare the
// context's default comparisons are used; compare=none disables them.
func (h *Handler) GetDashboard(c echo.Context) error {
	rc, err := h.reportContext(c)
	if err != nil {
		return err
	}
	scale, err := scaleParam(c)
	if err != nil {
		return err
	}
	cmp, err := comparisonParam(c)
	if err != nil {
		return err
	}

	comparisons := rc.DefaultComparisons()
	switch {
	case c.QueryParam("compare") == "":
	case cmp == report.None:
		comparisons = nil
	default:
		comparisons = []report.Comparison{cmp}
	}

	s := storeOf(c)
	resp := cache.Fetch(c.Request().Context(), h.reports, cacheKey(c, "dashboard"), func() *models.Dashboard {
		return s.Dashboard(rc, engine.DashboardOptions{
			Scale:       scale,
			Comparisons: comparisons,
			Thresholds:  h.opts.Thresholds,
			Hours:       h.opts.Hours,
			Pad:         true,
			TopN:        dashboardTopN,
		})
	})
	return c.JSON(http.StatusOK, resp)
}
