package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data: two organizations, a few campaigns with nested
// structure, and one in-progress draft. Every insert is idempotent so the
// seeder can run on every start of a demo environment.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	orgs := []struct{ id, name string }{
		{"org-acme", "Acme Marketing"},
		{"org-north", "Northwind Agency"},
	}
	for _, org := range orgs {
		_, err := pool.Exec(ctx, `INSERT INTO organizations (id, name)
            VALUES ($1, $2) ON CONFLICT DO NOTHING`, org.id, org.name)
		if err != nil {
			return err
		}
	}

	now := time.Now()
	for i := 1; i <= 3; i++ {
		id := uuid.NewString()
		creator := fmt.Sprintf("user-%d", i)
		team, _ := json.Marshal([]map[string]any{
			{"user_id": creator, "role": "owner", "assigned_at": now},
			{"user_id": fmt.Sprintf("user-%d", i+10), "role": "editor", "assigned_at": now},
		})
		clients, _ := json.Marshal([]map[string]any{
			{"user_id": fmt.Sprintf("client-%d", i), "assigned_at": now},
		})
		allocation, _ := json.Marshal(map[string]float64{"facebook": 600, "email": 400})
		channels, _ := json.Marshal([]map[string]any{
			{"type": "facebook", "enabled": true, "budget": 600},
			{"type": "email", "enabled": true, "budget": 400},
		})
		audiences, _ := json.Marshal([]map[string]any{
			{"name": "US adults", "locations": []string{"US"}, "age_range": map[string]int{"min": 21, "max": 65}},
		})
		kpis, _ := json.Marshal([]map[string]any{
			{"type": "impressions", "target": 100000, "timeframe": "monthly", "weight": 60},
			{"type": "conversions", "target": 500, "timeframe": "monthly", "weight": 40},
		})
		_, err := pool.Exec(ctx, `INSERT INTO campaigns
            (id, organization_id, creator_id, name, description, status, category, priority,
             start_date, end_date, budget, currency, budget_allocation, audiences, channels,
             kpis, custom_metrics, team_members, clients, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,'[]',$17,$18,now(),now())
            ON CONFLICT DO NOTHING`,
			id, "org-acme", creator, fmt.Sprintf("Spring launch %d", i),
			"Seeded demo campaign", "draft", "mixed", "medium",
			now.AddDate(0, 0, 7), now.AddDate(0, 2, 0), 1000.0, "USD",
			allocation, audiences, channels, kpis, team, clients)
		if err != nil {
			return err
		}
	}

	draftData, _ := json.Marshal(map[string]any{
		"name":   "Autumn teaser",
		"budget": 250,
	})
	_, err := pool.Exec(ctx, `INSERT INTO campaign_drafts
        (id, organization_id, creator_id, name, step, data, created_at, updated_at, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,now(),now(),$7) ON CONFLICT DO NOTHING`,
		uuid.NewString(), "org-acme", "user-1", "Autumn teaser", 2, draftData,
		now.Add(30*24*time.Hour))
	return err
}
