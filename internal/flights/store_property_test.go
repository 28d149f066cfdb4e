package flights

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"mission-control/internal/models"
	"mission-control/internal/store"
)

// Property: for any sequence of applied price updates, lowestPrice after
// each call equals the minimum of every price observed so far, including
// the seeded lowest.
func TestProperty_LowestPriceIsRunningMinimum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("lowestPrice tracks the running minimum", prop.ForAll(
		func(prices []int) bool {
			ctx := context.Background()
			st := NewStore(ctx, store.NewMemoryAdapter(), zerolog.Nop())

			route, err := st.GetRoute("1")
			if err != nil {
				t.Logf("Seed route missing: %v", err)
				return false
			}
			min := route.LowestPrice

			for _, price := range prices {
				change, err := st.ApplyPriceUpdate(ctx, "1", models.RoutePatch{Price: price})
				if err != nil {
					t.Logf("Update failed for price %d: %v", price, err)
					return false
				}
				if price < min {
					min = price
				}

				updated, err := st.GetRoute("1")
				if err != nil {
					return false
				}
				if updated.LowestPrice != min {
					t.Logf("lowestPrice=%d, want %d after price %d", updated.LowestPrice, min, price)
					return false
				}
				if updated.CurrentPrice != change.NewPrice {
					t.Logf("currentPrice=%d, want %d", updated.CurrentPrice, change.NewPrice)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 2000)),
	))

	properties.Property("history never exceeds the cap", prop.ForAll(
		func(prices []int) bool {
			ctx := context.Background()
			day := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
			clock := func() time.Time { return day }
			st := NewStore(ctx, store.NewMemoryAdapter(), zerolog.Nop(), WithClock(clock))

			for _, price := range prices {
				if _, err := st.ApplyPriceUpdate(ctx, "1", models.RoutePatch{Price: price}); err != nil {
					return false
				}
				day = day.Add(24 * time.Hour)

				route, err := st.GetRoute("1")
				if err != nil {
					return false
				}
				if len(route.PriceHistory) > DefaultHistoryCap {
					t.Logf("history length %d exceeds cap", len(route.PriceHistory))
					return false
				}
				seen := make(map[string]bool, len(route.PriceHistory))
				for _, p := range route.PriceHistory {
					if seen[p.Date] {
						t.Logf("duplicate history date %s", p.Date)
						return false
					}
					seen[p.Date] = true
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 2000)),
	))

	properties.TestingRun(t)
}

// Property: the evaluator reports each alert at most once no matter how
// often evaluation runs between price changes.
func TestProperty_EvaluateFiresAtMostOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("repeated evaluation of unchanged state fires nothing new", prop.ForAll(
		func(target, price, extraRuns int) bool {
			ctx := context.Background()
			adapter := store.NewMemoryAdapter()
			st := NewStore(ctx, adapter, zerolog.Nop())
			ev := NewEvaluator(ctx, adapter, zerolog.Nop())

			ev.SetAlert(ctx, "1", target)
			if _, err := st.ApplyPriceUpdate(ctx, "1", models.RoutePatch{Price: price}); err != nil {
				return false
			}

			first := ev.Evaluate(ctx, st.ListRoutes())
			shouldFire := price <= target
			if shouldFire != (len(first) == 1) {
				t.Logf("price=%d target=%d fired=%d", price, target, len(first))
				return false
			}

			for i := 0; i < extraRuns; i++ {
				if again := ev.Evaluate(ctx, st.ListRoutes()); len(again) != 0 {
					t.Logf("run %d re-fired %d alerts", i, len(again))
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 1000),
		gen.IntRange(1, 1000),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
