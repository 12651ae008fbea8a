package controllers

import (
	"log"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Reporting works off plain Store reads so both backends serve identical
// numbers. Everything here is read only.

func orderDate(o models.Order) time.Time {
	return time.Time(o.Date)
}

// weekStart truncates to the ISO week (Monday).
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func totalRevenue(orders []models.Order) float64 {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Amount)
	}
	return total.InexactFloat64()
}

// bucketRevenue sums order amounts per bucket for orders on or after since,
// returned in ascending bucket order.
func bucketRevenue(orders []models.Order, since time.Time, bucket func(time.Time) string, key string) []gin.H {
	sums := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if orderDate(o).Before(since) {
			continue
		}
		k := bucket(orderDate(o))
		sums[k] = sums[k].Add(o.Amount)
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]gin.H, 0, len(keys))
	for _, k := range keys {
		result = append(result, gin.H{key: k, "revenue": sums[k].InexactFloat64()})
	}
	return result
}

func bucketOrderCounts(orders []models.Order, since time.Time) []gin.H {
	counts := make(map[string]int)
	for _, o := range orders {
		if orderDate(o).Before(since) {
			continue
		}
		counts[o.DateString()]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]gin.H, 0, len(keys))
	for _, k := range keys {
		result = append(result, gin.H{"date": k, "count": counts[k]})
	}
	return result
}

type productSales struct {
	id       uint
	name     string
	quantity int
	revenue  decimal.Decimal
}

// aggregateProductSales totals sold quantity and revenue per catalog product.
// Products that never sold are included with zeros, like the SQL LEFT JOIN
// the reports originally ran on.
func aggregateProductSales(s store.Store) ([]productSales, error) {
	products, err := s.ListProducts("")
	if err != nil {
		return nil, err
	}
	items, err := s.ListAllOrderItems()
	if err != nil {
		return nil, err
	}

	quantities := make(map[uint]int)
	revenues := make(map[uint]decimal.Decimal)
	for _, item := range items {
		quantities[item.ProductID] += item.Quantity
		lineRevenue := item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity)))
		revenues[item.ProductID] = revenues[item.ProductID].Add(lineRevenue)
	}

	sales := make([]productSales, 0, len(products))
	for _, p := range products {
		sales = append(sales, productSales{
			id:       p.ID,
			name:     p.Name,
			quantity: quantities[p.ID],
			revenue:  revenues[p.ID],
		})
	}
	return sales, nil
}

func distinctPurchasers(orders []models.Order) int {
	seen := make(map[string]bool)
	for _, o := range orders {
		seen[normalizeEmail(o.Email)] = true
	}
	return len(seen)
}

func conversionRate(purchasers, users int) float64 {
	if users == 0 {
		return 0
	}
	rate := float64(purchasers) / float64(users) * 100
	return math.Round(rate*100) / 100
}

func topSellingProducts(sales []productSales, limit int) []gin.H {
	sorted := append([]productSales(nil), sales...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].quantity > sorted[j].quantity })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	result := make([]gin.H, 0, len(sorted))
	for _, p := range sorted {
		result = append(result, gin.H{
			"id":            p.id,
			"name":          p.name,
			"total_sold":    p.quantity,
			"total_revenue": p.revenue.InexactFloat64(),
		})
	}
	return result
}

// GetRevenueAnalytics reports total revenue plus daily (30d), weekly (12w)
// and monthly (12m) buckets.
func GetRevenueAnalytics(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		orders, err := s.ListOrders("")
		if err != nil {
			log.Println("Revenue analytics error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		now := time.Now()
		ctx.JSON(http.StatusOK, gin.H{
			"total_revenue": totalRevenue(orders),
			"daily_revenue": bucketRevenue(orders, now.AddDate(0, 0, -30), func(t time.Time) string {
				return t.Format("2006-01-02")
			}, "date"),
			"weekly_revenue": bucketRevenue(orders, now.AddDate(0, 0, -84), func(t time.Time) string {
				return weekStart(t).Format("2006-01-02")
			}, "week"),
			"monthly_revenue": bucketRevenue(orders, now.AddDate(0, -12, 0), func(t time.Time) string {
				return monthStart(t).Format("2006-01-02")
			}, "month"),
		})
	}
}

func GetOrdersAnalytics(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		orders, err := s.ListOrders("")
		if err != nil {
			log.Println("Orders analytics error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"total_orders": len(orders),
			"daily_orders": bucketOrderCounts(orders, time.Now().AddDate(0, 0, -30)),
		})
	}
}

// GetProductAnalytics reports top and least selling products and the revenue
// distribution across the catalog.
func GetProductAnalytics(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sales, err := aggregateProductSales(s)
		if err != nil {
			log.Println("Product analytics error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		least := append([]productSales(nil), sales...)
		sort.Slice(least, func(i, j int) bool {
			if least[i].quantity != least[j].quantity {
				return least[i].quantity < least[j].quantity
			}
			return least[i].name < least[j].name
		})
		if len(least) > 10 {
			least = least[:10]
		}
		leastProducts := make([]gin.H, 0, len(least))
		for _, p := range least {
			leastProducts = append(leastProducts, gin.H{
				"id":         p.id,
				"name":       p.name,
				"total_sold": p.quantity,
			})
		}

		byRevenue := append([]productSales(nil), sales...)
		sort.Slice(byRevenue, func(i, j int) bool {
			return byRevenue[i].revenue.GreaterThan(byRevenue[j].revenue)
		})
		if len(byRevenue) > 10 {
			byRevenue = byRevenue[:10]
		}
		distribution := make([]gin.H, 0, len(byRevenue))
		for _, p := range byRevenue {
			distribution = append(distribution, gin.H{
				"name":    p.name,
				"revenue": p.revenue.InexactFloat64(),
			})
		}

		ctx.JSON(http.StatusOK, gin.H{
			"top_products":         topSellingProducts(sales, 10),
			"least_products":       leastProducts,
			"product_distribution": distribution,
		})
	}
}

// GetCustomerAnalytics reports user totals, signups per month, and the
// repeat/single/no-order customer split.
func GetCustomerAnalytics(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		users, err := s.ListUsers()
		if err != nil {
			log.Println("Customer analytics error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		orders, err := s.ListOrders("")
		if err != nil {
			log.Println("Customer analytics error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		since := time.Now().AddDate(0, -12, 0)
		monthly := make(map[string]int)
		for _, u := range users {
			if u.CreatedAt.Before(since) {
				continue
			}
			monthly[monthStart(u.CreatedAt).Format("2006-01-02")]++
		}
		months := make([]string, 0, len(monthly))
		for m := range monthly {
			months = append(months, m)
		}
		sort.Strings(months)
		monthlyNewUsers := make([]gin.H, 0, len(months))
		for _, m := range months {
			monthlyNewUsers = append(monthlyNewUsers, gin.H{"month": m, "count": monthly[m]})
		}

		orderCounts := make(map[string]int)
		for _, o := range orders {
			orderCounts[normalizeEmail(o.Email)]++
		}
		customerTypes := map[string]int{}
		for _, u := range users {
			switch n := orderCounts[normalizeEmail(u.Email)]; {
			case n > 1:
				customerTypes["Repeat Customers"]++
			case n == 1:
				customerTypes["Single Order Customers"]++
			default:
				customerTypes["No Orders"]++
			}
		}

		ctx.JSON(http.StatusOK, gin.H{
			"total_users":       len(users),
			"monthly_new_users": monthlyNewUsers,
			"customer_types":    customerTypes,
			"users_with_orders": distinctPurchasers(orders),
		})
	}
}

// GetConversionMetrics reports distinct purchasers against total users.
func GetConversionMetrics(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		users, err := s.ListUsers()
		if err != nil {
			log.Println("Conversion metrics error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		orders, err := s.ListOrders("")
		if err != nil {
			log.Println("Conversion metrics error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		purchasers := distinctPurchasers(orders)
		ctx.JSON(http.StatusOK, gin.H{
			"total_users":          len(users),
			"users_with_orders":    purchasers,
			"users_without_orders": len(users) - purchasers,
			"conversion_rate":      conversionRate(purchasers, len(users)),
		})
	}
}

// GetAnalyticsOverview bundles the headline numbers into one response.
func GetAnalyticsOverview(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		users, err := s.ListUsers()
		if err != nil {
			log.Println("Analytics overview error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		orders, err := s.ListOrders("")
		if err != nil {
			log.Println("Analytics overview error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		sales, err := aggregateProductSales(s)
		if err != nil {
			log.Println("Analytics overview error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		now := time.Now()
		purchasers := distinctPurchasers(orders)
		dailyRevenue := bucketRevenue(orders, now.AddDate(0, 0, -30), func(t time.Time) string {
			return t.Format("2006-01-02")
		}, "date")

		ctx.JSON(http.StatusOK, gin.H{
			"revenue": gin.H{
				"total_revenue": totalRevenue(orders),
				"daily_revenue": dailyRevenue,
			},
			"orders": gin.H{
				"total_orders": len(orders),
				"daily_orders": bucketOrderCounts(orders, now.AddDate(0, 0, -30)),
			},
			"products": gin.H{
				"top_products": topSellingProducts(sales, 10),
			},
			"customers": gin.H{
				"total_users":       len(users),
				"users_with_orders": purchasers,
			},
			"conversion": gin.H{
				"total_users":       len(users),
				"users_with_orders": purchasers,
				"conversion_rate":   conversionRate(purchasers, len(users)),
			},
		})
	}
}
