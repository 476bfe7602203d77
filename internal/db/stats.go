package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// DashboardStats are the admin home-screen counters. Derived live on every
// request; a failed count degrades to zero rather than failing the screen.
type DashboardStats struct {
	Students    int `json:"students"`
	Teachers    int `json:"teachers"`
	Bookings    int `json:"bookings"`
	LeadsOpen   int `json:"leads_open"`
	LogsThisMon int `json:"logs_this_month"`
}

func GetDashboardStats(ctx context.Context, database *sql.DB, tenantID uuid.UUID, monthYear string) (DashboardStats, []error) {
	var s DashboardStats
	var errs []error

	count := func(dst *int, q string, args ...any) {
		if err := database.QueryRowContext(ctx, q, args...).Scan(dst); err != nil {
			errs = append(errs, err)
		}
	}

	count(&s.Students, `SELECT COUNT(*) FROM profiles WHERE tenant_id = $1 AND role = 'student' AND is_active`, tenantID)
	count(&s.Teachers, `SELECT COUNT(*) FROM profiles WHERE tenant_id = $1 AND role = 'teacher' AND is_active`, tenantID)
	count(&s.Bookings, `SELECT COUNT(*) FROM bookings WHERE tenant_id = $1`, tenantID)
	count(&s.LeadsOpen, `SELECT COUNT(*) FROM crm_leads WHERE tenant_id = $1 AND status NOT IN ('MATRICULADO', 'PERDIDO')`, tenantID)
	count(&s.LogsThisMon, `SELECT COUNT(*) FROM class_logs WHERE tenant_id = $1 AND class_date LIKE $2 || '-%'`, tenantID, monthYear)

	return s, errs
}
