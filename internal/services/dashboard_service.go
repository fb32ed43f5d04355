package services

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/models"
)

const (
	revenueMonths   = 6
	recentOrderSize = 10
	topCustomerSize = 10
)

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// GetDashboard aggregates the overview on every call.
func (s *DashboardService) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	db := s.db.WithContext(ctx)
	d := &models.Dashboard{}

	if err := db.Model(&models.Customer{}).Count(&d.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&d.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("status <> ?", models.StatusDone).Count(&d.PendingOrders).Error; err != nil {
		return nil, err
	}
	err := db.Model(&models.Order{}).Where("status = ?", models.StatusDone).
		Select("COALESCE(SUM(amount), 0)").Scan(&d.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	if d.StatusDistribution, err = statusCounts(db.Model(&models.Order{})); err != nil {
		return nil, err
	}
	if d.MonthlyRevenue, err = s.monthlyRevenue(db); err != nil {
		return nil, err
	}

	d.RecentOrders = []models.OrderSummary{}
	err = db.Table("orders").
		Select("orders.*, customers.name AS customer_name, customers.phone AS customer_phone").
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
		Order("orders.created_at DESC").Order("orders.id DESC").
		Limit(recentOrderSize).
		Scan(&d.RecentOrders).Error
	if err != nil {
		return nil, err
	}
	for i := range d.RecentOrders {
		d.RecentOrders[i].StatusCode = d.RecentOrders[i].Status.Code()
	}

	return d, nil
}

// monthlyRevenue sums completed orders by creation month for the trailing six
// months, current month included. Months without revenue are reported as zero.
func (s *DashboardService) monthlyRevenue(db *gorm.DB) ([]models.MonthlyRevenue, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(revenueMonths - 1), 0)

	type revenueRow struct {
		CreatedAt time.Time
		Amount    int64
	}
	var rows []revenueRow
	err := db.Model(&models.Order{}).
		Select("created_at", "amount").
		Where("status = ? AND created_at >= ?", models.StatusDone, start).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	months := make([]models.MonthlyRevenue, revenueMonths)
	index := make(map[string]int, revenueMonths)
	for i := range months {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		months[i] = models.MonthlyRevenue{Key: key, Month: m.Format("01") + "월"}
		index[key] = i
	}
	for _, r := range rows {
		if i, ok := index[r.CreatedAt.In(now.Location()).Format("2006-01")]; ok {
			months[i].Revenue += r.Amount
		}
	}
	return months, nil
}

func statusCounts(query *gorm.DB) ([]models.StatusCount, error) {
	counts := []models.StatusCount{}
	err := query.
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("status").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for i := range counts {
		counts[i].StatusCode = counts[i].Status.Code()
	}
	return counts, nil
}

// periodStart maps a stats period name to the start of its window.
func periodStart(now time.Time, period string) (time.Time, bool) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), true
	case "", "month":
		return now.AddDate(0, -1, 0), true
	case "quarter":
		return now.AddDate(0, -3, 0), true
	case "year":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// GetStats reports sales figures for orders created within the period.
func (s *DashboardService) GetStats(ctx context.Context, period string) (*models.Stats, error) {
	now := s.now()
	from, ok := periodStart(now, period)
	if !ok {
		return nil, invalid("유효하지 않은 기간입니다.", map[string]string{"period": "week, month, quarter, year 중 하나여야 합니다"})
	}
	if period == "" {
		period = "month"
	}

	db := s.db.WithContext(ctx)
	inPeriod := func() *gorm.DB {
		return db.Model(&models.Order{}).Where("orders.created_at >= ?", from)
	}

	stats := &models.Stats{Period: period, From: from.Format(dateLayout)}
	sum := &stats.Summary

	if err := inPeriod().Count(&sum.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := inPeriod().Where("status = ?", models.StatusDone).Count(&sum.CompletedOrders).Error; err != nil {
		return nil, err
	}
	err := inPeriod().Where("status = ?", models.StatusDone).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum.TotalRevenue).Error
	if err != nil {
		return nil, err
	}
	if err := db.Model(&models.Customer{}).Where("created_at >= ?", from).Count(&sum.NewCustomers).Error; err != nil {
		return nil, err
	}
	if sum.CompletedOrders > 0 {
		sum.AverageOrderValue = sum.TotalRevenue / sum.CompletedOrders
	}
	if sum.TotalOrders > 0 {
		sum.CompletionRate = math.Round(float64(sum.CompletedOrders)/float64(sum.TotalOrders)*1000) / 10
	}

	stats.SalesByProduct = []models.ProductSales{}
	err = inPeriod().
		Select("product_type, COUNT(*) AS order_count, COALESCE(SUM(amount), 0) AS revenue").
		Group("product_type").
		Order("revenue DESC").
		Scan(&stats.SalesByProduct).Error
	if err != nil {
		return nil, err
	}

	if stats.SalesByStatus, err = statusCounts(inPeriod()); err != nil {
		return nil, err
	}

	stats.TopCustomers = []models.CustomerSales{}
	err = inPeriod().
		Select("customers.id AS customer_id, customers.name, customers.phone, COUNT(orders.id) AS order_count, COALESCE(SUM(orders.amount), 0) AS total_amount").
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Group("customers.id, customers.name, customers.phone").
		Order("total_amount DESC").
		Limit(topCustomerSize).
		Scan(&stats.TopCustomers).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
