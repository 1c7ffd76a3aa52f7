package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/utils/format"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const analyticsTopN = 5

type TopProduct struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Supplier   string `json:"supplier"`
	Views      int64  `json:"views"`
	MatchCount int64  `json:"matchCount"`
}

type Analytics struct {
	SuppliersByStatus map[string]int64                    `json:"suppliersByStatus"`
	VerifiedSuppliers int64                               `json:"verifiedSuppliers"`
	ProductsByStatus  map[string]int64                    `json:"productsByStatus"`
	TotalProducts     int64                               `json:"totalProducts"`
	TotalViews        int64                               `json:"totalViews"`
	TotalMatches      int64                               `json:"totalMatches"`
	AverageViews      decimal.Decimal                     `json:"averageViews"`
	TopProducts       []TopProduct                        `json:"topProducts"`
	TopSuppliers      []repositories.SupplierProductCount `json:"topSuppliers"`
}

type AnalyticsService struct {
	suppliers repositories.SupplierRepositoryImpl
	products  repositories.ProductRepositoryImpl
}

func NewAnalyticsService(suppliers repositories.SupplierRepositoryImpl, products repositories.ProductRepositoryImpl) *AnalyticsService {
	return &AnalyticsService{suppliers: suppliers, products: products}
}

// Snapshot gathers the admin dashboard figures. The queries are independent
// and run concurrently.
func (s *AnalyticsService) Snapshot(ctx context.Context) (*Analytics, error) {
	out := &Analytics{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.suppliers.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("count suppliers: %w", err)
		}
		out.SuppliersByStatus = counts
		return nil
	})
	g.Go(func() error {
		n, err := s.suppliers.CountVerified(gctx)
		if err != nil {
			return fmt.Errorf("count verified suppliers: %w", err)
		}
		out.VerifiedSuppliers = n
		return nil
	})
	g.Go(func() error {
		counts, err := s.products.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		out.ProductsByStatus = counts
		return nil
	})
	g.Go(func() error {
		views, matches, err := s.products.EngagementTotals(gctx)
		if err != nil {
			return err
		}
		out.TotalViews, out.TotalMatches = views, matches
		return nil
	})
	g.Go(func() error {
		top, err := s.products.TopByViews(gctx, analyticsTopN)
		if err != nil {
			return err
		}
		out.TopProducts = make([]TopProduct, len(top))
		for i, p := range top {
			supplier := ""
			if p.Supplier != nil {
				supplier = p.Supplier.CompanyName
			}
			out.TopProducts[i] = TopProduct{ID: p.ID, Title: p.Title, Supplier: supplier, Views: p.Views, MatchCount: p.MatchCount}
		}
		return nil
	})
	g.Go(func() error {
		top, err := s.suppliers.TopByProductCount(gctx, analyticsTopN)
		if err != nil {
			return err
		}
		out.TopSuppliers = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, n := range out.ProductsByStatus {
		out.TotalProducts += n
	}
	out.AverageViews = format.Average(out.TotalViews, out.TotalProducts)
	return out, nil
}
