package db

import (
	dbmodels "convenios-backend/models/db"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB(channel string) error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Unit{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Unit")
	}
	if err := DB.AutoMigrate(&dbmodels.CollaboratorProfile{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CollaboratorProfile")
	}
	if err := DB.AutoMigrate(&dbmodels.BenefitRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры BenefitRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.RequestMessage{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры RequestMessage")
	}
	if err := DB.AutoMigrate(&dbmodels.SlaConfig{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SlaConfig")
	}
	if err := DB.AutoMigrate(&dbmodels.Holiday{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Holiday")
	}
	if err := DB.AutoMigrate(&dbmodels.AuditLog{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры AuditLog")
	}
	if err := DB.AutoMigrate(&dbmodels.SettlementRun{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SettlementRun")
	}
	if err := DB.Exec(changeFeedTriggerSQL(channel)).Error; err != nil {
		return errors.Wrap(err, "ошибка создания триггера уведомлений об изменениях заявок")
	}
	log.Info("Миграция прошла успешно")
	return nil
}

// триггер публикует изменения заявок в канал LISTEN/NOTIFY
func changeFeedTriggerSQL(channel string) string {
	return fmt.Sprintf(`
CREATE OR REPLACE FUNCTION notify_benefit_request_change() RETURNS trigger AS $$
DECLARE
	rec RECORD;
BEGIN
	IF TG_OP = 'DELETE' THEN
		rec := OLD;
	ELSE
		rec := NEW;
	END IF;
	PERFORM pg_notify('%s', json_build_object(
		'op', TG_OP,
		'row', json_build_object(
			'id', rec.id,
			'protocol', rec.protocol,
			'category', rec.category,
			'status', rec.status,
			'hr_status', rec.hr_status,
			'collaborator_id', rec.collaborator_id,
			'created_at', rec.created_at,
			'closed_at', rec.closed_at,
			'approved_value', rec.approved_value,
			'total_installments', rec.total_installments,
			'paid_installments', rec.paid_installments
		)
	)::text);
	RETURN rec;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS benefit_request_change ON benefit_requests;
CREATE TRIGGER benefit_request_change
	AFTER INSERT OR UPDATE OR DELETE ON benefit_requests
	FOR EACH ROW EXECUTE FUNCTION notify_benefit_request_change();
`, channel)
}
