package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/models"
)

const backfillMemo = "초기 주문 등록"

// BackfillStatusHistory inserts an initial history row for every order that has none.
func BackfillStatusHistory(ctx context.Context, db *gorm.DB) (int64, error) {
	var orders []models.Order
	err := db.WithContext(ctx).
		Where("id NOT IN (?)", db.Model(&models.OrderStatusHistory{}).Select("order_id")).
		Find(&orders).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find orders without history: %w", err)
	}
	if len(orders) == 0 {
		return 0, nil
	}

	memo := backfillMemo
	rows := make([]models.OrderStatusHistory, 0, len(orders))
	for _, o := range orders {
		status := o.Status
		if !status.Valid() {
			status = models.StatusReceived
		}
		rows = append(rows, models.OrderStatusHistory{
			OrderID:   o.ID,
			Status:    status,
			Memo:      &memo,
			CreatedAt: o.CreatedAt,
		})
	}

	if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to backfill status history: %w", err)
	}

	logrus.WithField("count", len(rows)).Info("주문 상태 이력 보정 완료")
	return int64(len(rows)), nil
}

func strPtr(s string) *string { return &s }

// Seed fills empty tables with the default catalog and sample data.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			products := []models.Product{
				{Name: "LED 간판", UnitPrice: 250000, Description: strPtr("고품질 LED 간판 - 평방미터당")},
				{Name: "아크릴 간판", UnitPrice: 150000, Description: strPtr("투명/불투명 아크릴 간판 - 평방미터당")},
				{Name: "네온사인", UnitPrice: 300000, Description: strPtr("네온 사인 간판 - 평방미터당")},
				{Name: "스틸간판", UnitPrice: 120000, Description: strPtr("스테인리스 스틸 간판 - 평방미터당")},
				{Name: "현수막", UnitPrice: 15000, Description: strPtr("비닐 현수막 - 평방미터당")},
				{Name: "채널간판", UnitPrice: 350000, Description: strPtr("채널 문자 간판 - 평방미터당")},
				{Name: "돌출간판", UnitPrice: 280000, Description: strPtr("벽면 돌출 간판 - 평방미터당")},
				{Name: "입체간판", UnitPrice: 400000, Description: strPtr("3D 입체 간판 - 평방미터당")},
			}
			if err := tx.Create(&products).Error; err != nil {
				return fmt.Errorf("failed to seed products: %w", err)
			}
			logrus.WithField("count", len(products)).Info("기본 제품 등록 완료")
		}

		if err := tx.Model(&models.Customer{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		customers := []models.Customer{
			{Name: "김철수", Phone: "010-1234-5678", Address: strPtr("서울시 강남구 테헤란로 123"), Memo: strPtr("단골 고객")},
			{Name: "박영희", Phone: "010-2345-6789", Address: strPtr("서울시 서초구 서초대로 456"), Memo: strPtr("LED 간판 선호")},
			{Name: "이민수", Phone: "010-3456-7890", Address: strPtr("경기도 성남시 분당구 정자로 789"), Memo: strPtr("대형 간판 전문")},
			{Name: "최정아", Phone: "010-4567-8901", Address: strPtr("인천시 남동구 구월로 321"), Memo: strPtr("소상공인")},
			{Name: "홍길동", Phone: "010-5678-9012", Address: strPtr("부산시 해운대구 해운대로 654"), Memo: strPtr("체인점 운영")},
		}
		if err := tx.Create(&customers).Error; err != nil {
			return fmt.Errorf("failed to seed customers: %w", err)
		}

		due := time.Now().AddDate(0, 0, 14)
		type sample struct {
			customer int
			product  string
			size     string
			w, h     string
			amount   int64
			memo     string
			path     []models.OrderStatus
		}
		samples := []sample{
			{0, "LED 간판", "2m x 1m", "2.0", "1.0", 500000, "빨간색 LED",
				[]models.OrderStatus{models.StatusReceived, models.StatusDrafting, models.StatusInProduction}},
			{1, "아크릴 간판", "1.5m x 0.8m", "1.5", "0.8", 180000, "투명 아크릴",
				[]models.OrderStatus{models.StatusReceived, models.StatusDrafting}},
			{2, "네온사인", "3m x 1.2m", "3.0", "1.2", 1080000, "푸른색 네온",
				[]models.OrderStatus{models.StatusReceived}},
			{3, "현수막", "4m x 2m", "4.0", "2.0", 120000, "개업 현수막",
				[]models.OrderStatus{models.StatusReceived, models.StatusDrafting, models.StatusInProduction, models.StatusDone}},
			{4, "채널간판", "2.5m x 1m", "2.5", "1.0", 875000, "화이트 LED",
				[]models.OrderStatus{models.StatusReceived}},
		}

		for _, s := range samples {
			order := models.Order{
				CustomerID:  customers[s.customer].ID,
				ProductType: s.product,
				Size:        strPtr(s.size),
				Width:       decimal.RequireFromString(s.w),
				Height:      decimal.RequireFromString(s.h),
				Amount:      s.amount,
				DueDate:     datatypes.Date(due),
				Memo:        strPtr(s.memo),
				Status:      s.path[len(s.path)-1],
				Version:     len(s.path),
			}
			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("failed to seed orders: %w", err)
			}
			for i, status := range s.path {
				memo := fmt.Sprintf("상태가 '%s'로 변경되었습니다.", status)
				if i == 0 {
					memo = "새 주문이 등록되었습니다."
				}
				entry := models.OrderStatusHistory{OrderID: order.ID, Status: status, Memo: &memo}
				if err := tx.Create(&entry).Error; err != nil {
					return fmt.Errorf("failed to seed status history: %w", err)
				}
			}
		}

		logrus.WithFields(logrus.Fields{
			"customers": len(customers),
			"orders":    len(samples),
		}).Info("샘플 데이터 등록 완료")
		return nil
	})
}
