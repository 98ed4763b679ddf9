package main

import (
	"log"

	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/dsn"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	// Получение DSN строки подключения
	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	// Подключение к базе данных
	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.User{},
		&ds.ServiceRequest{},
		&ds.Project{},
		&ds.Milestone{},
		&ds.ProjectDocument{},
		&ds.ProjectUpdate{},
		&ds.InternalDocument{},
		&ds.ClientDocumentShare{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Процедура генерации этапов проекта по шаблону вида услуги
	if err := db.Exec(milestoneTemplateFn).Error; err != nil {
		log.Fatalf("Failed to create milestone template function: %v", err)
	}

	log.Println("Database migration completed successfully")
}

// Шаблоны этапов живут в БД, бэкенд вызывает функцию при одобрении заявки
const milestoneTemplateFn = `
CREATE OR REPLACE FUNCTION generate_project_milestones(p_project_id bigint, p_service_type text, p_start_date date)
RETURNS void AS $$
DECLARE
	tpl record;
BEGIN
	FOR tpl IN
		SELECT * FROM (VALUES
			('drilling',    1, 'Site survey and rig positioning', 7),
			('drilling',    2, 'Drilling operations',             45),
			('drilling',    3, 'Well completion and testing',     75),
			('drilling',    4, 'Demobilization',                  90),
			('supply',      1, 'Cargo manifesting and loading',   3),
			('supply',      2, 'Transit to destination',          7),
			('supply',      3, 'Offloading and delivery',         10),
			('manning',     1, 'Crew selection and certification', 14),
			('manning',     2, 'Mobilization and onboarding',      21),
			('manning',     3, 'Rotation schedule in effect',      30),
			('maintenance', 1, 'Inspection and assessment',        7),
			('maintenance', 2, 'Repair works',                     30),
			('maintenance', 3, 'Verification and handover',        40),
			('survey',      1, 'Survey planning',                  7),
			('survey',      2, 'Data acquisition',                 21),
			('survey',      3, 'Reporting',                        35)
		) AS t(service_type, sort_order, name, due_days)
		WHERE t.service_type = p_service_type
		ORDER BY t.sort_order
	LOOP
		INSERT INTO milestones (project_id, name, due_date, is_completed, is_custom, status, sort_order, created_at)
		VALUES (p_project_id, tpl.name, p_start_date + tpl.due_days, false, false, 'pending', tpl.sort_order, now());
	END LOOP;
END;
$$ LANGUAGE plpgsql;
`
