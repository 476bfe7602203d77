package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wisewolf/educore-backend/internal/models"
)

func CreateTrainingModule(ctx context.Context, database *sql.DB, m models.TrainingModule) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO training_modules (title, content, video_url, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, m.Title, m.Content, m.VideoURL, m.Position).Scan(&id)
	return id, err
}

func ListTrainingModules(ctx context.Context, database *sql.DB) ([]models.TrainingModule, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, title, content, video_url, position, created_at
		FROM training_modules ORDER BY position, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TrainingModule
	for rows.Next() {
		var m models.TrainingModule
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.VideoURL, &m.Position, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func CreateStudentEvaluation(ctx context.Context, database *sql.DB, e models.StudentEvaluation) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO student_evaluations (tenant_id, student_id, teacher_id, period, score, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, e.TenantID, e.StudentID, e.TeacherID, e.Period, e.Score, e.Notes).Scan(&id)
	return id, err
}

func ListStudentEvaluations(ctx context.Context, database *sql.DB, tenantID, studentID uuid.UUID) ([]models.StudentEvaluation, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, tenant_id, student_id, teacher_id, period, score, notes, created_at
		FROM student_evaluations
		WHERE tenant_id = $1 AND student_id = $2 ORDER BY period DESC
	`, tenantID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StudentEvaluation
	for rows.Next() {
		var e models.StudentEvaluation
		if err := rows.Scan(&e.ID, &e.TenantID, &e.StudentID, &e.TeacherID, &e.Period, &e.Score, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func CreateLessonPlan(ctx context.Context, database *sql.DB, p models.LessonPlan) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.QueryRowContext(ctx, `
		INSERT INTO lesson_plans (tenant_id, module, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.TenantID, p.Module, p.Title, p.Content).Scan(&id)
	return id, err
}

func ListLessonPlans(ctx context.Context, database *sql.DB, tenantID uuid.UUID, module string) ([]models.LessonPlan, error) {
	q := `SELECT id, tenant_id, module, title, content, created_at FROM lesson_plans WHERE tenant_id = $1`
	args := []any{tenantID}
	if module != "" {
		q += ` AND module = $2`
		args = append(args, module)
	}
	q += ` ORDER BY created_at`

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LessonPlan
	for rows.Next() {
		var p models.LessonPlan
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Module, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
